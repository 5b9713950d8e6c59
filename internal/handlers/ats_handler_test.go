package handlers

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/resume-ats/internal/models"
	"alfredoptarigan/resume-ats/internal/services"
)

type stubReferences struct {
	texts []string
	err   error
	limit int
}

func (s *stubReferences) Add(context.Context, string, string, string) error { return nil }

func (s *stubReferences) Similar(_ context.Context, _ string, limit int) ([]string, error) {
	s.limit = limit
	return s.texts, s.err
}

func newATSApp(references services.ReferenceLibrary) *fiber.App {
	vocab := services.DefaultVocabulary()
	parser := services.NewResumeParser(services.NewTextExtractor(), vocab)
	matcher := services.NewJobMatcher(vocab, services.NewSemanticAnalyzer(nil, services.NewTextChunker(), vocab, 1))
	h := NewATSHandler(parser, services.NewATSScorer(vocab), matcher, references, 1<<20)

	app := fiber.New()
	app.Post("/parse", h.HandleParse)
	app.Post("/score", h.HandleScore)
	app.Post("/match", h.HandleMatch)
	app.Post("/career-path", h.HandleCareerPath)
	return app
}

func jsonRequest(t *testing.T, path string, body any) *http.Request {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func uploadRequest(t *testing.T, path, field, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	w, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = w.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, v), string(data))
}

func minimalDocx(t *testing.T, paragraphs ...string) []byte {
	t.Helper()
	var body strings.Builder
	for _, p := range paragraphs {
		body.WriteString("<w:p><w:r><w:t>" + p + "</w:t></w:r></w:p>")
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range map[string]string{
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
			body.String() + `</w:body></w:document>`,
		"word/_rels/document.xml.rels": `<?xml version="1.0" encoding="UTF-8"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
	} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestHandleParse(t *testing.T) {
	app := newATSApp(nil)

	t.Run("docx resume", func(t *testing.T) {
		data := minimalDocx(t, "Experience", "Developed billing services", "jane@example.com")
		resp, err := app.Test(uploadRequest(t, "/parse", "resume", "resume.docx", data))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var features models.ResumeFeatures
		decode(t, resp, &features)
		assert.Equal(t, "jane@example.com", features.Email)
		assert.True(t, features.HasSection(models.SectionExperience))
		assert.Equal(t, 1, features.ActionVerbCount)
	})

	t.Run("unsupported format", func(t *testing.T) {
		resp, err := app.Test(uploadRequest(t, "/parse", "resume", "resume.txt", []byte("hello")))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnsupportedMediaType, resp.StatusCode)
	})

	t.Run("unreadable pdf", func(t *testing.T) {
		resp, err := app.Test(uploadRequest(t, "/parse", "resume", "resume.pdf", []byte("garbage")))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	})

	t.Run("missing file", func(t *testing.T) {
		resp, err := app.Test(uploadRequest(t, "/parse", "cv", "resume.pdf", []byte("garbage")))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestHandleScore(t *testing.T) {
	app := newATSApp(nil)

	t.Run("scores features", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(t, "/score", fiber.Map{
			"resume": models.ResumeFeatures{WordCount: 0},
		}))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var report models.ScoreReport
		decode(t, resp, &report)
		assert.Equal(t, 11, report.TotalScore)
		assert.Len(t, report.CategoryBreakdown, 7)
	})

	t.Run("missing resume", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(t, "/score", fiber.Map{"job_description": "golang"}))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("extraction error marker", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(t, "/score", fiber.Map{
			"resume": models.ResumeFeatures{Error: "no text"},
		}))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/score", strings.NewReader("{"))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestHandleMatch(t *testing.T) {
	app := newATSApp(nil)

	resp, err := app.Test(jsonRequest(t, "/match", fiber.Map{
		"resume_text":      "golang postgres engineer",
		"job_descriptions": []string{"golang kafka"},
	}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var report models.JobMatchReport
	decode(t, resp, &report)
	assert.Equal(t, 50.0, report.KeywordOverlapPct)
	assert.Equal(t, []string{"golang"}, report.MatchedKeywords)
	require.NotNil(t, report.Semantic)
	assert.Equal(t, models.SemanticUnavailable, report.Semantic.Status)
}

func TestHandleMatch_RequiresResume(t *testing.T) {
	resp, err := newATSApp(nil).Test(jsonRequest(t, "/match", fiber.Map{
		"job_descriptions": []string{"golang"},
	}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandleCareerPath(t *testing.T) {
	t.Run("too few descriptions", func(t *testing.T) {
		resp, err := newATSApp(nil).Test(jsonRequest(t, "/career-path", fiber.Map{
			"resume_text":      "golang",
			"job_descriptions": []string{"golang kafka", "golang redis"},
		}))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("references not configured", func(t *testing.T) {
		resp, err := newATSApp(nil).Test(jsonRequest(t, "/career-path", fiber.Map{
			"resume_text":      "golang",
			"job_descriptions": []string{"golang kafka"},
			"reference_count":  2,
		}))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	})

	t.Run("reference descriptions fill the set", func(t *testing.T) {
		refs := &stubReferences{texts: []string{"golang redis", "golang python"}}
		resp, err := newATSApp(refs).Test(jsonRequest(t, "/career-path", fiber.Map{
			"resume_text":      "golang",
			"job_descriptions": []string{"golang kafka"},
			"reference_count":  2,
		}))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, 2, refs.limit)

		var report models.CareerPathReport
		decode(t, resp, &report)
		assert.Equal(t, 3, report.JobDescriptionCount)
		assert.Equal(t, []string{"golang"}, report.CommonKeywords)
	})

	t.Run("reference lookup failure", func(t *testing.T) {
		refs := &stubReferences{err: errors.New("qdrant down")}
		resp, err := newATSApp(refs).Test(jsonRequest(t, "/career-path", fiber.Map{
			"resume_text":      "golang",
			"job_descriptions": []string{"golang kafka", "golang redis", "golang python"},
			"reference_count":  1,
		}))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	})
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, fiber.StatusUnsupportedMediaType, statusFor(services.ErrUnsupportedFormat))
	assert.Equal(t, fiber.StatusUnprocessableEntity, statusFor(services.ErrExtractionFailed))
	assert.Equal(t, fiber.StatusBadRequest, statusFor(services.ErrValidation))
	assert.Equal(t, fiber.StatusServiceUnavailable, statusFor(services.ErrCapabilityUnavailable))
	assert.Equal(t, fiber.StatusInternalServerError, statusFor(errors.New("boom")))
}
