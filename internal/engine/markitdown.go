package engine

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"doc-text-converter/internal/container"
	"doc-text-converter/internal/domain"
)

// MarkitdownEngine converts documents by piping them through the markitdown
// container image. It depends on a container.Runtime (docker or podman)
// injected at construction time.
type MarkitdownEngine struct {
	runtime container.Runtime
	image   string
}

// NewMarkitdownEngine verifies that image exists in rt before returning.
func NewMarkitdownEngine(rt container.Runtime, image string) (*MarkitdownEngine, error) {
	if err := rt.ImageExists(image); err != nil {
		return nil, fmt.Errorf("markitdown image not available in %s: %w", rt.Name(), err)
	}
	return &MarkitdownEngine{runtime: rt, image: image}, nil
}

// Name returns the engine name for logging.
func (m *MarkitdownEngine) Name() string {
	return "markitdown/" + m.runtime.Name()
}

// Convert streams the file at path into the container on stdin, passing the
// extension as a format hint, and returns the Markdown written to stdout.
func (m *MarkitdownEngine) Convert(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var args []string
	if ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."); ext != "" {
		args = []string{"-x", ext}
	}

	var out bytes.Buffer
	if err := m.runtime.Run(ctx, m.image, args, f, &out); err != nil {
		return "", fmt.Errorf("converting %s with markitdown: %w", filepath.Base(path), err)
	}

	if strings.TrimSpace(out.String()) == "" {
		return "", fmt.Errorf("%w for %s", domain.ErrEmptyOutput, filepath.Base(path))
	}

	return out.String(), nil
}
