package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"doc-text-converter/internal/domain"
	"doc-text-converter/internal/engine"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// fakeEngine reads the staged file and answers from convertFunc.
type fakeEngine struct {
	mu          sync.Mutex
	paths       []string
	convertFunc func(ctx context.Context, path string, content []byte) (string, error)
}

func (f *fakeEngine) Name() string { return "fake" }

func (f *fakeEngine) Convert(ctx context.Context, path string) (string, error) {
	f.mu.Lock()
	f.paths = append(f.paths, path)
	f.mu.Unlock()

	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return f.convertFunc(ctx, path, content)
}

// echoEngine returns the staged bytes, failing for content starting with "CORRUPT".
func echoEngine() *fakeEngine {
	return &fakeEngine{
		convertFunc: func(_ context.Context, path string, content []byte) (string, error) {
			if strings.HasPrefix(string(content), "CORRUPT") {
				return "", errors.New("cannot parse " + filepath.Ext(path))
			}
			return string(content), nil
		},
	}
}

func TestConversionAdapter_Success(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.html")
	require.NoError(t, os.WriteFile(path, []byte("# hi"), 0o644))

	res := NewConversionAdapter(echoEngine(), time.Second, nopLogger{}).Convert(context.Background(), path)
	require.True(t, res.OK())
	assert.Equal(t, "# hi", res.Text)
}

func TestConversionAdapter_EngineError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.pdf")
	require.NoError(t, os.WriteFile(path, []byte("CORRUPT"), 0o644))

	res := NewConversionAdapter(echoEngine(), 0, nopLogger{}).Convert(context.Background(), path)
	require.False(t, res.OK())

	var convErr *domain.ConversionError
	require.ErrorAs(t, res.Err, &convErr)
	assert.ErrorIs(t, res.Err, domain.ErrConversionFailed)
	assert.Contains(t, convErr.Cause.Error(), "cannot parse .pdf")
}

func TestConversionAdapter_Panic(t *testing.T) {
	eng := &fakeEngine{
		convertFunc: func(context.Context, string, []byte) (string, error) {
			panic("nil map")
		},
	}
	path := filepath.Join(t.TempDir(), "a.docx")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	res := NewConversionAdapter(eng, 0, nopLogger{}).Convert(context.Background(), path)
	require.False(t, res.OK())
	assert.ErrorIs(t, res.Err, domain.ErrConversionFailed)
	assert.Contains(t, res.Err.Error(), "nil map")
}

func TestConversionAdapter_Timeout(t *testing.T) {
	eng := &fakeEngine{
		convertFunc: func(ctx context.Context, _ string, _ []byte) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		},
	}
	path := filepath.Join(t.TempDir(), "slow.pdf")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	res := NewConversionAdapter(eng, 20*time.Millisecond, nopLogger{}).Convert(context.Background(), path)
	require.False(t, res.OK())
	assert.ErrorIs(t, res.Err, context.DeadlineExceeded)
	assert.ErrorIs(t, res.Err, domain.ErrConversionFailed)
}

func TestConversionAdapter_TimeoutBoundsNativeEngine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "large.xlsx")
	f := excelize.NewFile()
	sw, err := f.NewStreamWriter("Sheet1")
	require.NoError(t, err)
	for i := 1; i <= 20000; i++ {
		cell, err := excelize.CoordinatesToCellName(1, i)
		require.NoError(t, err)
		require.NoError(t, sw.SetRow(cell, []interface{}{fmt.Sprintf("row %d", i), i, "some longer cell text"}))
	}
	require.NoError(t, sw.Flush())
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	adapter := NewConversionAdapter(engine.NewNativeEngine(nopLogger{}), 5*time.Millisecond, nopLogger{})

	start := time.Now()
	res := adapter.Convert(context.Background(), path)
	elapsed := time.Since(start)

	require.False(t, res.OK())
	assert.ErrorIs(t, res.Err, context.DeadlineExceeded)
	assert.ErrorIs(t, res.Err, domain.ErrConversionFailed)
	assert.Less(t, elapsed, time.Second)
}
