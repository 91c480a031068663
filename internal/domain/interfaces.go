package domain

import (
	"context"
	"time"
)

// Engine turns the document stored at path into Markdown text.
// Implementations sniff the format from the path's extension.
type Engine interface {
	Convert(ctx context.Context, path string) (string, error)
	Name() string
}

// BatchConverter drives a whole upload through staging, conversion and cleanup.
type BatchConverter interface {
	ProcessBatch(ctx context.Context, files []UploadedFile) BatchReport
}

// Logger defines the interface for logging operations
type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, err error, fields ...interface{})
	Debug(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
}

// Config defines the interface for configuration management
type Config interface {
	GetServerPort() string
	GetLogLevel() string
	GetMaxFileSize() int64
	GetMaxUploadSize() int64
	GetTempDir() string
	GetConverterBackend() string
	GetMarkitdownImage() string
	GetConversionTimeout() time.Duration
	GetShowErrorDetails() bool
	GetAllowedOrigins() []string
}
