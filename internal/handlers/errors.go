package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-ats/internal/services"
)

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	var validationErrs validator.ValidationErrors
	switch {
	case errors.Is(err, services.ErrUnsupportedFormat):
		return fiber.StatusUnsupportedMediaType
	case errors.Is(err, services.ErrExtractionFailed):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, services.ErrValidation), errors.As(err, &validationErrs):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrCapabilityUnavailable):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

func errorResponse(c *fiber.Ctx, err error) error {
	return c.Status(statusFor(err)).JSON(fiber.Map{
		"error": err.Error(),
	})
}
