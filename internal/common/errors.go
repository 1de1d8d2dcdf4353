package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Run-level error taxonomy. Per-chunk failures are isolated at the chunk
// boundary; only these sentinels propagate to the caller.
var (
	// ErrDocument: the source document is missing, unreadable, or has zero
	// pages. Always fatal to the run.
	ErrDocument = errors.New("document error")
	// ErrUpload: backend upload failed after the retry budget. Fatal only
	// when raised for the first chunk.
	ErrUpload = errors.New("upload error")
	// ErrAssetProcessing: the backend reported a terminal failure for an
	// uploaded asset. Same fatality rule as ErrUpload.
	ErrAssetProcessing = errors.New("asset processing error")
	// ErrTimeout: a wall-clock ceiling elapsed while waiting on the backend.
	// Distinct from ErrAssetProcessing; same fatality rule.
	ErrTimeout = errors.New("timeout")
	// ErrMerge: reconciler input violated the pipeline contract. Fatal.
	ErrMerge = errors.New("merge error")

	ErrInvalidInput = errors.New("invalid input")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// DocumentError wraps err so that errors.Is(result, ErrDocument) holds.
func DocumentError(message string, cause error) error {
	return fmt.Errorf("%s: %w: %w", message, ErrDocument, cause)
}

func DocumentErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrDocument)
}

func UploadErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrUpload)
}

func AssetProcessingErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrAssetProcessing)
}

func TimeoutErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrTimeout)
}

func MergeErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrMerge)
}
