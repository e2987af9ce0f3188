package domain

import (
	"context"
	"errors"
)

var (
	// ErrProviderNotConfigured indicates missing provider credentials.
	ErrProviderNotConfigured = errors.New("provider not configured")

	// ErrProviderUnavailable indicates a network failure or timeout talking to a provider.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrProviderStatus indicates the provider answered with a non-2xx status.
	ErrProviderStatus = errors.New("provider returned error status")

	// ErrMalformedResponse indicates a body that does not match the vendor's completion shape.
	ErrMalformedResponse = errors.New("malformed provider response")

	// ErrEmptyCompletion indicates a successful call that produced no text.
	ErrEmptyCompletion = errors.New("empty completion")

	// ErrInvalidImage indicates an upload that cannot be decoded as a raster image.
	ErrInvalidImage = errors.New("invalid image")

	// ErrDetectorUnavailable indicates the object detector cannot serve requests.
	ErrDetectorUnavailable = errors.New("detector unavailable")

	// ErrValidation indicates a malformed request.
	ErrValidation = errors.New("validation failed")

	// ErrTaskNotFound indicates a task code missing from the catalog.
	ErrTaskNotFound = errors.New("task not found")
)

// Failure reasons reported in logs.
const (
	ReasonNotConfigured = "not_configured"
	ReasonTransport     = "transport"
	ReasonStatus        = "status"
	ReasonMalformed     = "malformed"
	ReasonEmpty         = "empty"
	ReasonUnknown       = "unknown"
)

// FailureReason classifies a generation failure for observability.
func FailureReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrProviderNotConfigured):
		return ReasonNotConfigured
	case errors.Is(err, ErrProviderStatus):
		return ReasonStatus
	case errors.Is(err, ErrMalformedResponse):
		return ReasonMalformed
	case errors.Is(err, ErrEmptyCompletion):
		return ReasonEmpty
	case errors.Is(err, ErrProviderUnavailable),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return ReasonTransport
	default:
		return ReasonUnknown
	}
}
