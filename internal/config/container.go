package config

import (
	"strings"

	"doc-text-converter/internal/container"
	"doc-text-converter/internal/domain"
	"doc-text-converter/internal/engine"
	"doc-text-converter/internal/service"
	"doc-text-converter/pkg/logger"
)

// Container holds all application dependencies
type Container struct {
	Config            domain.Config
	Logger            domain.Logger
	Engine            domain.Engine
	Stager            *service.TempFileStager
	Adapter           *service.ConversionAdapter
	ConversionService *service.ConversionService
}

// NewContainer creates a new dependency injection container
func NewContainer() *Container {
	config := NewConfig()
	appLogger := logger.NewLogger(config.GetLogLevel())

	// The engine is built once and shared by every request
	conversionEngine := newEngine(config, appLogger, container.DetectRuntime)

	stager := service.NewTempFileStager(config.GetTempDir(), appLogger)
	adapter := service.NewConversionAdapter(conversionEngine, config.GetConversionTimeout(), appLogger)
	conversionService := service.NewConversionService(stager, adapter, appLogger, config.GetMaxFileSize(), config.GetShowErrorDetails())

	appLogger.Info("Conversion engine ready",
		"engine", conversionEngine.Name(),
		"timeout", config.GetConversionTimeout().String(),
		"temp_dir", config.GetTempDir(),
	)

	return &Container{
		Config:            config,
		Logger:            appLogger,
		Engine:            conversionEngine,
		Stager:            stager,
		Adapter:           adapter,
		ConversionService: conversionService,
	}
}

// newEngine selects the conversion backend. A markitdown backend that cannot
// be reached falls back to the native engine.
func newEngine(config domain.Config, log domain.Logger, detect func() (container.Runtime, error)) domain.Engine {
	switch backend := config.GetConverterBackend(); backend {
	case BackendNative:
	case BackendMarkitdown:
		rt, err := detect()
		if err != nil {
			log.Warn("No container runtime for markitdown; using native engine", "error", err)
			break
		}
		md, err := engine.NewMarkitdownEngine(rt, config.GetMarkitdownImage())
		if err != nil {
			log.Warn("Markitdown unavailable; using native engine", "image", config.GetMarkitdownImage(), "error", err)
			break
		}
		return md
	default:
		log.Warn("Unknown converter backend; using native engine", "backend", backend)
	}
	native := engine.NewNativeEngine(log)
	log.Debug("Native engine formats", "extensions", strings.Join(native.Extensions(), ","))
	return native
}

// GetConfig returns the configuration instance
func (c *Container) GetConfig() domain.Config {
	return c.Config
}

// GetConversionService returns the batch conversion service
func (c *Container) GetConversionService() domain.BatchConverter {
	return c.ConversionService
}
