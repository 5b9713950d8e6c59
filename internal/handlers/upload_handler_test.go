package handlers

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/resume-ats/internal/models"
	"alfredoptarigan/resume-ats/internal/services"
)

func newUploadApp(t *testing.T, maxSize int64) (*fiber.App, *fakeDocumentRepo) {
	docs := &fakeDocumentRepo{ids: make(map[uuid.UUID]bool)}
	storage := services.NewStorageService(t.TempDir())

	app := fiber.New()
	app.Post("/upload", NewUploadHandler(docs, storage, maxSize).HandleUpload)
	return app, docs
}

func TestHandleUpload(t *testing.T) {
	app, docs := newUploadApp(t, 1<<20)

	resp, err := app.Test(uploadRequest(t, "/upload", "resume", "Resume.DOCX", minimalDocx(t, "Skills")))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var body struct {
		Document models.UploadResponse `json:"document"`
	}
	decode(t, resp, &body)
	assert.Equal(t, "docx", body.Document.FileType)
	assert.Equal(t, "Resume.DOCX", body.Document.OriginalName)
	assert.Positive(t, body.Document.Size)
	assert.True(t, docs.ids[uuid.MustParse(body.Document.ID)])
}

func TestHandleUpload_Rejections(t *testing.T) {
	t.Run("unsupported extension", func(t *testing.T) {
		app, docs := newUploadApp(t, 1<<20)
		resp, err := app.Test(uploadRequest(t, "/upload", "resume", "resume.png", []byte("png")))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnsupportedMediaType, resp.StatusCode)
		assert.Empty(t, docs.ids)
	})

	t.Run("too large", func(t *testing.T) {
		app, _ := newUploadApp(t, 4)
		resp, err := app.Test(uploadRequest(t, "/upload", "resume", "resume.pdf", []byte("%PDF-1.4")))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("wrong field", func(t *testing.T) {
		app, _ := newUploadApp(t, 1<<20)
		resp, err := app.Test(uploadRequest(t, "/upload", "cv", "resume.pdf", []byte("%PDF-1.4")))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}
