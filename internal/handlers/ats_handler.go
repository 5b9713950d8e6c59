package handlers

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-ats/internal/models"
	"alfredoptarigan/resume-ats/internal/services"
)

// ATSHandler serves the synchronous analysis endpoints.
type ATSHandler struct {
	parser      services.ResumeParser
	scorer      services.ATSScorer
	matcher     services.JobMatcher
	references  services.ReferenceLibrary
	maxFileSize int64
}

// NewATSHandler builds the handler. references may be nil when no vector
// store is configured.
func NewATSHandler(
	parser services.ResumeParser,
	scorer services.ATSScorer,
	matcher services.JobMatcher,
	references services.ReferenceLibrary,
	maxFileSize int64,
) *ATSHandler {
	return &ATSHandler{
		parser:      parser,
		scorer:      scorer,
		matcher:     matcher,
		references:  references,
		maxFileSize: maxFileSize,
	}
}

// HandleParse handles POST /parse
func (h *ATSHandler) HandleParse(c *fiber.Ctx) error {
	file, err := c.FormFile(resumeField)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No resume uploaded. Please upload 'resume' as a PDF or DOCX file.",
		})
	}

	if file.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Resume file too large. Max size: %d bytes", h.maxFileSize),
		})
	}

	src, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "failed to open uploaded file",
		})
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "failed to read uploaded file",
		})
	}

	features, err := h.parser.ParseBytes(file.Filename, data)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(features)
}

// HandleScore handles POST /score
func (h *ATSHandler) HandleScore(c *fiber.Ctx) error {
	var req models.ScoreRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if err := req.Validate(); err != nil {
		return errorResponse(c, err)
	}

	report, err := h.scorer.Score(req.Resume, req.JobDescription)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(report)
}

// HandleMatch handles POST /match
func (h *ATSHandler) HandleMatch(c *fiber.Ctx) error {
	var req models.MatchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if err := req.Validate(); err != nil {
		return errorResponse(c, err)
	}

	features := h.resolveResume(req.Resume, req.ResumeText)
	return c.JSON(h.matcher.Match(c.UserContext(), features, req.JobDescriptions))
}

// HandleCareerPath handles POST /career-path
func (h *ATSHandler) HandleCareerPath(c *fiber.Ctx) error {
	var req models.CareerPathRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if err := req.Validate(); err != nil {
		return errorResponse(c, err)
	}

	features := h.resolveResume(req.Resume, req.ResumeText)
	descriptions := req.JobDescriptions

	if req.ReferenceCount > 0 {
		if h.references == nil {
			return errorResponse(c, fmt.Errorf("%w: reference job descriptions are not configured", services.ErrCapabilityUnavailable))
		}
		refs, err := h.references.Similar(c.UserContext(), features.RawText, req.ReferenceCount)
		if err != nil {
			slog.Error("❌ Failed to load reference job descriptions", slog.Any("error", err))
			return errorResponse(c, fmt.Errorf("%w: %v", services.ErrCapabilityUnavailable, err))
		}
		descriptions = append(append([]string{}, descriptions...), refs...)
	}

	report, err := h.matcher.AnalyzeCareerPath(features, descriptions)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(report)
}

func (h *ATSHandler) resolveResume(features *models.ResumeFeatures, text string) *models.ResumeFeatures {
	if features != nil {
		return features
	}
	return h.parser.ParseText(text)
}
