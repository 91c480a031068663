package service

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"doc-text-converter/internal/domain"
)

// TempFileStager writes uploads to uniquely named files so an engine can read
// them from disk.
type TempFileStager struct {
	dir    string
	logger domain.Logger
}

// NewTempFileStager creates a stager rooted at dir. An empty dir means the
// system temp directory.
func NewTempFileStager(dir string, logger domain.Logger) *TempFileStager {
	return &TempFileStager{dir: dir, logger: logger}
}

// StagedFile is a temp file owned by exactly one upload.
type StagedFile struct {
	path string

	mu       sync.Mutex
	released bool
}

// Path returns the location of the staged bytes.
func (f *StagedFile) Path() string {
	return f.path
}

// Release removes the file. A file that is already gone is not an error and
// repeated calls are no-ops once a removal succeeded.
func (f *StagedFile) Release() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.released {
		return nil
	}
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing temp file %s: %w", f.path, err)
	}
	f.released = true
	return nil
}

// Stage writes content to a new temp file carrying filename's lower-cased
// extension. The caller owns the returned file and must Release it.
func (s *TempFileStager) Stage(content []byte, filename string) (*StagedFile, error) {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	if strings.ContainsAny(ext, `/\`) {
		ext = ""
	}

	f, err := os.CreateTemp(s.dir, "upload-*"+ext)
	if err != nil {
		return nil, fmt.Errorf("creating temp file: %w", err)
	}
	staged := &StagedFile{path: f.Name()}

	if _, err := f.Write(content); err != nil {
		f.Close()
		staged.Release()
		return nil, fmt.Errorf("writing temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		staged.Release()
		return nil, fmt.Errorf("closing temp file: %w", err)
	}

	s.logger.Debug("Upload staged", "file", filename, "path", staged.path, "bytes", len(content))
	return staged, nil
}

// With stages content, runs fn on the staged path and releases the file on
// every exit path. A panic in fn is returned as a Failure.
func (s *TempFileStager) With(content []byte, filename string, fn func(path string) domain.ConversionResult) (result domain.ConversionResult) {
	staged, err := s.Stage(content, filename)
	if err != nil {
		return domain.Failure(err)
	}

	defer func() {
		if r := recover(); r != nil {
			result = domain.Failure(fmt.Errorf("%w: panic while converting: %v", domain.ErrConversionFailed, r))
		}
		if err := staged.Release(); err != nil {
			s.logger.Warn("Failed to release temp file", "file", filename, "path", staged.path, "error", err)
		}
	}()

	return fn(staged.path)
}
