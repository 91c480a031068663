package domain

import "errors"

// Domain errors
var (
	ErrConversionFailed  = errors.New("conversion failed")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrEmptyOutput       = errors.New("engine produced no output")
	ErrFileTooLarge      = errors.New("file exceeds the per-file size limit")
	ErrNoFiles           = errors.New("no files uploaded")
)

// ConversionError is the single failure kind surfaced for a file. Cause keeps
// the engine or staging error for server-side logs.
type ConversionError struct {
	File  string
	Cause error
}

func (e *ConversionError) Error() string {
	if e.Cause != nil {
		return "could not convert " + e.File + ": " + e.Cause.Error()
	}
	return "could not convert " + e.File
}

// Unwrap exposes both the generic sentinel and the underlying cause to errors.Is.
func (e *ConversionError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrConversionFailed}
	}
	return []error{ErrConversionFailed, e.Cause}
}

// NewConversionError wraps cause as a conversion failure for file.
func NewConversionError(file string, cause error) *ConversionError {
	var ce *ConversionError
	if errors.As(cause, &ce) {
		if ce.File == "" {
			ce.File = file
		}
		return ce
	}
	return &ConversionError{File: file, Cause: cause}
}
