package config

import (
	"os"
	"testing"
	"time"
)

const (
	defaultMaxFileSize   int64 = 50 * 1024 * 1024
	defaultMaxUploadSize int64 = 200 * 1024 * 1024
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "SERVER_PORT", "LOG_LEVEL", "MAX_FILE_SIZE", "MAX_UPLOAD_SIZE", "TEMP_DIR",
		"CONVERTER_BACKEND", "MARKITDOWN_IMAGE", "CONVERSION_TIMEOUT", "SHOW_ERROR_DETAILS",
		"ALLOWED_ORIGINS",
	} {
		t.Setenv(key, "")
	}
}

func TestNewConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := NewConfig()

	if cfg.GetServerPort() != "8080" {
		t.Fatalf("expected default server port 8080, got %s", cfg.GetServerPort())
	}
	if cfg.GetLogLevel() != "info" {
		t.Fatalf("expected default log level info, got %s", cfg.GetLogLevel())
	}
	if cfg.GetMaxFileSize() != defaultMaxFileSize {
		t.Fatalf("expected default max file size %d, got %d", defaultMaxFileSize, cfg.GetMaxFileSize())
	}
	if cfg.GetMaxUploadSize() != defaultMaxUploadSize {
		t.Fatalf("expected default max upload size %d, got %d", defaultMaxUploadSize, cfg.GetMaxUploadSize())
	}
	if cfg.GetTempDir() != os.TempDir() {
		t.Fatalf("expected system temp dir, got %s", cfg.GetTempDir())
	}
	if cfg.GetConverterBackend() != BackendNative {
		t.Fatalf("expected native backend, got %s", cfg.GetConverterBackend())
	}
	if cfg.GetMarkitdownImage() != "markitdown:latest" {
		t.Fatalf("expected default markitdown image, got %s", cfg.GetMarkitdownImage())
	}
	if cfg.GetConversionTimeout() != 60*time.Second {
		t.Fatalf("expected 60s timeout, got %s", cfg.GetConversionTimeout())
	}
	if cfg.GetShowErrorDetails() {
		t.Fatalf("expected error details to be hidden by default")
	}
	if len(cfg.GetAllowedOrigins()) != 3 {
		t.Fatalf("expected 3 default origins, got %v", cfg.GetAllowedOrigins())
	}
}

func TestNewConfig_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("MAX_FILE_SIZE", "12345")
	t.Setenv("MAX_UPLOAD_SIZE", "67890")
	t.Setenv("TEMP_DIR", "/var/tmp/uploads")
	t.Setenv("CONVERTER_BACKEND", "MarkItDown")
	t.Setenv("MARKITDOWN_IMAGE", "ghcr.io/acme/markitdown:0.1")
	t.Setenv("CONVERSION_TIMEOUT", "5s")
	t.Setenv("SHOW_ERROR_DETAILS", "true")
	t.Setenv("ALLOWED_ORIGINS", "https://convert.example.com, https://docs.example.com ,")

	cfg := NewConfig()

	if cfg.GetServerPort() != "9090" {
		t.Fatalf("expected server port 9090, got %s", cfg.GetServerPort())
	}
	if cfg.GetLogLevel() != "debug" {
		t.Fatalf("expected log level debug, got %s", cfg.GetLogLevel())
	}
	if cfg.GetMaxFileSize() != 12345 {
		t.Fatalf("expected max file size 12345, got %d", cfg.GetMaxFileSize())
	}
	if cfg.GetMaxUploadSize() != 67890 {
		t.Fatalf("expected max upload size 67890, got %d", cfg.GetMaxUploadSize())
	}
	if cfg.GetTempDir() != "/var/tmp/uploads" {
		t.Fatalf("expected temp dir override, got %s", cfg.GetTempDir())
	}
	if cfg.GetConverterBackend() != BackendMarkitdown {
		t.Fatalf("expected markitdown backend, got %s", cfg.GetConverterBackend())
	}
	if cfg.GetMarkitdownImage() != "ghcr.io/acme/markitdown:0.1" {
		t.Fatalf("unexpected image %s", cfg.GetMarkitdownImage())
	}
	if cfg.GetConversionTimeout() != 5*time.Second {
		t.Fatalf("expected 5s timeout, got %s", cfg.GetConversionTimeout())
	}
	if !cfg.GetShowErrorDetails() {
		t.Fatalf("expected error details to be shown")
	}
	origins := cfg.GetAllowedOrigins()
	if len(origins) != 2 || origins[0] != "https://convert.example.com" || origins[1] != "https://docs.example.com" {
		t.Fatalf("unexpected origins %v", origins)
	}
}

func TestNewConfig_Fallbacks(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_PORT", "9091")
	t.Setenv("MAX_FILE_SIZE", "not-a-number")
	t.Setenv("MAX_UPLOAD_SIZE", "-1")
	t.Setenv("CONVERSION_TIMEOUT", "soon")
	t.Setenv("SHOW_ERROR_DETAILS", "maybe")
	t.Setenv("ALLOWED_ORIGINS", " , ")

	cfg := NewConfig()

	if cfg.GetServerPort() != "9091" {
		t.Fatalf("expected server port 9091, got %s", cfg.GetServerPort())
	}
	if cfg.GetMaxFileSize() != defaultMaxFileSize {
		t.Fatalf("expected default max file size %d, got %d", defaultMaxFileSize, cfg.GetMaxFileSize())
	}
	if cfg.GetMaxUploadSize() != defaultMaxUploadSize {
		t.Fatalf("expected default max upload size %d, got %d", defaultMaxUploadSize, cfg.GetMaxUploadSize())
	}
	if cfg.GetConversionTimeout() != 60*time.Second {
		t.Fatalf("expected default timeout, got %s", cfg.GetConversionTimeout())
	}
	if cfg.GetShowErrorDetails() {
		t.Fatalf("expected unparsable bool to fall back to false")
	}
	if len(cfg.GetAllowedOrigins()) != 3 {
		t.Fatalf("expected default origins, got %v", cfg.GetAllowedOrigins())
	}
}
