package services

import "errors"

var (
	// ErrUnsupportedFormat is returned for files that are neither PDF nor DOCX.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrExtractionFailed is returned when no text could be recovered from a file.
	ErrExtractionFailed = errors.New("could not extract text from resume")
	// ErrValidation is returned when an input fails a precondition.
	ErrValidation = errors.New("validation failed")
	// ErrCapabilityUnavailable is returned when an optional external
	// capability, such as embeddings, is not configured.
	ErrCapabilityUnavailable = errors.New("capability unavailable")
)
