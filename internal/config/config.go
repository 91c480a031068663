package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"doc-text-converter/internal/domain"
)

// Converter backends selectable through CONVERTER_BACKEND.
const (
	BackendNative     = "native"
	BackendMarkitdown = "markitdown"
)

// AppConfig implements the domain.Config interface
type AppConfig struct {
	ServerPort        string
	LogLevel          string
	MaxFileSize       int64
	MaxUploadSize     int64
	TempDir           string
	ConverterBackend  string
	MarkitdownImage   string
	ConversionTimeout time.Duration
	ShowErrorDetails  bool
	AllowedOrigins    []string
}

// NewConfig creates a new configuration instance with default values
func NewConfig() domain.Config {
	return &AppConfig{
		// Cloud Run (and many PaaS) provide the listening port via PORT.
		// Keep SERVER_PORT for local/dev compatibility.
		ServerPort:        getEnvOrDefault("PORT", getEnvOrDefault("SERVER_PORT", "8080")),
		LogLevel:          getEnvOrDefault("LOG_LEVEL", "info"),
		MaxFileSize:       getEnvInt64OrDefault("MAX_FILE_SIZE", 50*1024*1024),    // 50MB per file
		MaxUploadSize:     getEnvInt64OrDefault("MAX_UPLOAD_SIZE", 200*1024*1024), // 200MB per request
		TempDir:           getEnvOrDefault("TEMP_DIR", os.TempDir()),
		ConverterBackend:  strings.ToLower(getEnvOrDefault("CONVERTER_BACKEND", BackendNative)),
		MarkitdownImage:   getEnvOrDefault("MARKITDOWN_IMAGE", "markitdown:latest"),
		ConversionTimeout: getEnvDurationOrDefault("CONVERSION_TIMEOUT", 60*time.Second),
		ShowErrorDetails:  getEnvBoolOrDefault("SHOW_ERROR_DETAILS", false),
		AllowedOrigins: getEnvListOrDefault("ALLOWED_ORIGINS", []string{
			"http://localhost:8080",
			"http://localhost:5173",
			"http://localhost:3000",
		}),
	}
}

// GetServerPort returns the server port
func (c *AppConfig) GetServerPort() string {
	return c.ServerPort
}

// GetLogLevel returns the logging level
func (c *AppConfig) GetLogLevel() string {
	return c.LogLevel
}

// GetMaxFileSize returns the maximum allowed size of a single file
func (c *AppConfig) GetMaxFileSize() int64 {
	return c.MaxFileSize
}

// GetMaxUploadSize returns the maximum allowed size of one upload request
func (c *AppConfig) GetMaxUploadSize() int64 {
	return c.MaxUploadSize
}

// GetTempDir returns the directory uploads are staged in
func (c *AppConfig) GetTempDir() string {
	return c.TempDir
}

// GetConverterBackend returns the conversion engine name
func (c *AppConfig) GetConverterBackend() string {
	return c.ConverterBackend
}

// GetMarkitdownImage returns the container image used by the markitdown backend
func (c *AppConfig) GetMarkitdownImage() string {
	return c.MarkitdownImage
}

// GetConversionTimeout returns the time budget for converting one file
func (c *AppConfig) GetConversionTimeout() time.Duration {
	return c.ConversionTimeout
}

// GetShowErrorDetails reports whether engine errors are shown on the page
func (c *AppConfig) GetShowErrorDetails() bool {
	return c.ShowErrorDetails
}

// GetAllowedOrigins returns the CORS origin allow-list
func (c *AppConfig) GetAllowedOrigins() []string {
	return c.AllowedOrigins
}

// Helper functions for environment variable handling
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil && intValue > 0 {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
