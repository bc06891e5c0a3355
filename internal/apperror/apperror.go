package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrValidation       = errors.New("validation error")
	ErrUnsupportedMedia = errors.New("unsupported media type")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrTransient        = errors.New("transient store error")
)

type AppError struct {
	Err     error  // sentinel kind
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource string, id int64) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s with id '%d' was not found", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// MissingField reports a required key absent from an inbound payload.
func MissingField(entity, field string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: fmt.Sprintf("invalid %s: missing %s", entity, field),
		Field:   field,
	}
}

// MalformedPayload reports a request body that is not a JSON object at all.
func MalformedPayload(entity string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: fmt.Sprintf("invalid %s: body of request contained bad or no data", entity),
	}
}

func UnsupportedMediaType(mediaType string) *AppError {
	return &AppError{
		Err:     ErrUnsupportedMedia,
		Message: fmt.Sprintf("Content-Type must be %s", mediaType),
	}
}

func Unauthorized() *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: "missing or invalid API key",
	}
}

// Transient wraps a communication failure with the backing store so the
// retry policy can recognize it. The cause stays reachable through errors.Is.
func Transient(err error) *AppError {
	return &AppError{
		Err:     errors.Join(ErrTransient, err),
		Message: "store unavailable: " + err.Error(),
	}
}

// IsNotFound reports whether err is a not-found application error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation reports whether err is a validation application error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
