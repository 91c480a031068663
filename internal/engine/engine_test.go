package engine

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"doc-text-converter/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})         {}
func (nopLogger) Error(string, error, ...interface{}) {}
func (nopLogger) Debug(string, ...interface{})        {}
func (nopLogger) Warn(string, ...interface{})         {}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

// writeZip creates a zip archive at dir/name holding parts in the given order.
func writeZip(t *testing.T, dir, name string, parts [][2]string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, p := range parts {
		w, err := zw.Create(p[0])
		require.NoError(t, err)
		_, err = w.Write([]byte(p[1]))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return path
}

func TestNativeEngine_Extensions(t *testing.T) {
	e := NewNativeEngine(nopLogger{})
	assert.Equal(t, []string{".docx", ".htm", ".html", ".pdf", ".pptx", ".xlsx"}, e.Extensions())
	assert.Equal(t, "native", e.Name())

	for _, ext := range domain.SupportedExtensions {
		assert.Contains(t, e.Extensions(), ext)
	}
}

func TestNativeEngine_Unsupported(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "notes.txt", []byte("hello"))

	_, err := NewNativeEngine(nopLogger{}).Convert(context.Background(), path)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestNativeEngine_CanceledContext(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "page.html", []byte("<p>hi</p>"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewNativeEngine(nopLogger{}).Convert(ctx, path)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNativeEngine_HTML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "Report.HTML", []byte(`<!doctype html>
<html><head><title>ignored</title></head>
<body>
<h1>Quarterly report</h1>
<p>Revenue grew by <strong>12%</strong>.</p>
<ul><li>North</li><li>South</li></ul>
</body></html>`))

	text, err := NewNativeEngine(nopLogger{}).Convert(context.Background(), path)
	require.NoError(t, err)

	assert.Contains(t, text, "# Quarterly report")
	assert.Contains(t, text, "**12%**")
	assert.Contains(t, text, "North")
	assert.Contains(t, text, "South")
}

func TestNativeEngine_EmptyHTML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "blank.htm", []byte("   \n"))

	_, err := NewNativeEngine(nopLogger{}).Convert(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestNativeEngine_CorruptPDF(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "broken.pdf", []byte("this is definitely not a PDF document"))

	_, err := NewNativeEngine(nopLogger{}).Convert(context.Background(), path)
	require.Error(t, err)
}

func TestNativeEngine_CorruptOffice(t *testing.T) {
	for _, name := range []string{"broken.docx", "broken.xlsx", "broken.pptx"} {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			path := writeFile(t, dir, name, []byte("PK but not really a zip"))

			_, err := NewNativeEngine(nopLogger{}).Convert(context.Background(), path)
			require.Error(t, err)
		})
	}
}

func TestNativeEngine_MissingFile(t *testing.T) {
	_, err := NewNativeEngine(nopLogger{}).Convert(context.Background(), filepath.Join(t.TempDir(), "gone.pdf"))
	require.Error(t, err)
}
