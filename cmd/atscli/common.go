package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"alfredoptarigan/resume-ats/internal/models"
	"alfredoptarigan/resume-ats/internal/services"
)

// toolkit holds the services shared by every subcommand.
type toolkit struct {
	vocab     *services.Vocabulary
	extractor services.TextExtractor
	parser    services.ResumeParser
}

func newToolkit() (*toolkit, error) {
	vocab, err := services.LoadVocabulary(vocabularyPath)
	if err != nil {
		return nil, err
	}
	extractor := services.NewTextExtractor()
	return &toolkit{
		vocab:     vocab,
		extractor: extractor,
		parser:    services.NewResumeParser(extractor, vocab),
	}, nil
}

func (t *toolkit) parseResume(path string) (*models.ResumeFeatures, error) {
	if path == "" {
		return nil, fmt.Errorf("--resume is required")
	}
	if isPlainText(path) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read resume: %w", err)
		}
		return t.parser.ParseText(string(data)), nil
	}
	return t.parser.ParseFile(path)
}

// readJobDescriptions loads each job description file. Plain text files are
// read as-is; PDF and DOCX go through the text extractor.
func (t *toolkit) readJobDescriptions(paths []string) ([]string, error) {
	descriptions := make([]string, 0, len(paths))
	for _, path := range paths {
		if isPlainText(path) {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("failed to read job description %s: %w", path, err)
			}
			descriptions = append(descriptions, string(data))
			continue
		}
		text, err := t.extractor.ExtractFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read job description %s: %w", path, err)
		}
		descriptions = append(descriptions, text)
	}
	return descriptions, nil
}

func isPlainText(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md", ".text":
		return true
	}
	return false
}

func writeJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	data = append(data, '\n')

	if outputFile == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(outputFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s\n", outputFile)
	return nil
}
