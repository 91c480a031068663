package service

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"doc-text-converter/internal/domain"
)

// ConversionAdapter is the single call site of the conversion engine. It turns
// every outcome into a domain.ConversionResult.
type ConversionAdapter struct {
	engine  domain.Engine
	timeout time.Duration
	logger  domain.Logger
}

// NewConversionAdapter wraps engine. A zero timeout leaves the engine bounded
// only by the caller's context.
func NewConversionAdapter(engine domain.Engine, timeout time.Duration, logger domain.Logger) *ConversionAdapter {
	return &ConversionAdapter{
		engine:  engine,
		timeout: timeout,
		logger:  logger,
	}
}

// Convert runs the engine on path once. Errors and panics come back as a
// Failure holding a *domain.ConversionError.
func (a *ConversionAdapter) Convert(ctx context.Context, path string) (result domain.ConversionResult) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			result = domain.Failure(domain.NewConversionError("", fmt.Errorf("engine panic: %v", r)))
		}
	}()

	start := time.Now()
	text, err := a.engine.Convert(ctx, path)
	if err != nil {
		return domain.Failure(domain.NewConversionError("", err))
	}

	a.logger.Debug("Engine conversion finished",
		"engine", a.engine.Name(),
		"path", filepath.Base(path),
		"chars", len(text),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return domain.Success(text)
}
