package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

type StorageService interface {
	// SaveFile stores an uploaded resume and returns its generated filename
	// and the key used to read it back.
	SaveFile(ctx context.Context, file *multipart.FileHeader, prefix string) (string, string, error)
	ReadFile(ctx context.Context, key string) ([]byte, error)
	DeleteFile(ctx context.Context, key string) error
	EnsureReady(ctx context.Context) error
}

func uniqueFilename(original, prefix string) (string, error) {
	if !SupportedExtension(original) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(original))
	}
	ext := strings.ToLower(filepath.Ext(original))
	return fmt.Sprintf("%s_%s%s", prefix, uuid.New().String(), ext), nil
}

type localStorageService struct {
	uploadPath string
}

func NewStorageService(uploadPath string) StorageService {
	return &localStorageService{
		uploadPath: uploadPath,
	}
}

// EnsureReady implements StorageService.
func (s *localStorageService) EnsureReady(_ context.Context) error {
	if err := os.MkdirAll(s.uploadPath, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	return nil
}

// SaveFile implements StorageService.
func (s *localStorageService) SaveFile(_ context.Context, file *multipart.FileHeader, prefix string) (string, string, error) {
	filename, err := uniqueFilename(file.Filename, prefix)
	if err != nil {
		return "", "", err
	}
	filePath := filepath.Join(s.uploadPath, filename)

	src, err := file.Open()
	if err != nil {
		return "", "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filePath)
	if err != nil {
		return "", "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", "", fmt.Errorf("failed to save file: %w", err)
	}

	return filename, filePath, nil
}

// ReadFile implements StorageService.
func (s *localStorageService) ReadFile(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(key)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

// DeleteFile implements StorageService.
func (s *localStorageService) DeleteFile(_ context.Context, key string) error {
	if err := os.Remove(key); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

type S3Options struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
}

type s3StorageService struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3StorageService stores resumes in an S3-compatible bucket. A custom
// endpoint (R2, MinIO) switches to path-style addressing.
func NewS3StorageService(ctx context.Context, opts S3Options) (StorageService, error) {
	if opts.Bucket == "" {
		return nil, errors.New("s3 bucket is not set")
	}
	region := opts.Region
	if region == "" {
		region = "auto"
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &s3StorageService{
		client: client,
		bucket: opts.Bucket,
		prefix: strings.Trim(opts.Prefix, "/"),
	}, nil
}

// EnsureReady implements StorageService.
func (s *s3StorageService) EnsureReady(ctx context.Context) error {
	if _, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)}); err != nil {
		return fmt.Errorf("failed to reach bucket %s: %w", s.bucket, err)
	}
	return nil
}

// SaveFile implements StorageService.
func (s *s3StorageService) SaveFile(ctx context.Context, file *multipart.FileHeader, prefix string) (string, string, error) {
	filename, err := uniqueFilename(file.Filename, prefix)
	if err != nil {
		return "", "", err
	}
	key := path.Join(s.prefix, filename)

	src, err := file.Open()
	if err != nil {
		return "", "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          src,
		ContentLength: aws.Int64(file.Size),
		ContentType:   aws.String(file.Header.Get("Content-Type")),
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to upload object: %w", err)
	}

	return filename, key, nil
}

// ReadFile implements StorageService.
func (s *s3StorageService) ReadFile(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	defer out.Body.Close()

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, out.Body); err != nil {
		return nil, fmt.Errorf("failed to read object body: %w", err)
	}
	return buf.Bytes(), nil
}

// DeleteFile implements StorageService.
func (s *s3StorageService) DeleteFile(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}
