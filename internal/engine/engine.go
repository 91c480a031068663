// Package engine holds the document conversion engines. Every engine takes a
// path on disk and returns Markdown; the format is chosen from the extension.
package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"doc-text-converter/internal/domain"
)

// extractor converts one file format to Markdown.
type extractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

type extractorFunc func(ctx context.Context, path string) (string, error)

func (f extractorFunc) Extract(ctx context.Context, path string) (string, error) {
	return f(ctx, path)
}

// NativeEngine converts documents in-process with Go parsers.
type NativeEngine struct {
	logger     domain.Logger
	extractors map[string]extractor
}

// NewNativeEngine creates an engine covering every supported upload format.
func NewNativeEngine(logger domain.Logger) *NativeEngine {
	pdf := newPDFExtractor(logger)
	html := newHTMLExtractor(logger)
	return &NativeEngine{
		logger: logger,
		extractors: map[string]extractor{
			".pdf":  pdf,
			".html": html,
			".htm":  html,
			".docx": extractorFunc(extractDOCX),
			".xlsx": extractorFunc(extractXLSX),
			".pptx": extractorFunc(extractPPTX),
		},
	}
}

// Name returns the engine name for logging.
func (e *NativeEngine) Name() string {
	return "native"
}

// Extensions lists the extensions the engine handles, sorted.
func (e *NativeEngine) Extensions() []string {
	exts := make([]string, 0, len(e.extractors))
	for ext := range e.extractors {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Convert dispatches path to the extractor registered for its extension.
// It returns ctx.Err() as soon as ctx ends; the extractor sees the same ctx
// and stops at its next check.
func (e *NativeEngine) Convert(ctx context.Context, path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	ex, ok := e.extractors[ext]
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, ext)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	e.logger.Debug("Native conversion started", "path", path, "format", ext)

	type extraction struct {
		text string
		err  error
	}
	done := make(chan extraction, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- extraction{err: fmt.Errorf("%s extractor panic: %v", ext, r)}
			}
		}()
		text, err := ex.Extract(ctx, path)
		done <- extraction{text: text, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return "", res.err
		}
		return normalizeText(sanitizeText(res.text)), nil
	case <-ctx.Done():
		e.logger.Warn("Native conversion abandoned", "path", path, "format", ext, "error", ctx.Err())
		return "", ctx.Err()
	}
}
