package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"doc-text-converter/internal/domain"

	"github.com/gen2brain/go-fitz"
)

const defaultPageTimeout = 30 * time.Second

// pdfExtractor handles PDF text extraction through MuPDF.
type pdfExtractor struct {
	logger      domain.Logger
	pageTimeout time.Duration
}

func newPDFExtractor(logger domain.Logger) *pdfExtractor {
	return &pdfExtractor{
		logger:      logger,
		pageTimeout: defaultPageTimeout,
	}
}

// Extract returns the text of every page, pages separated by a blank line.
// A page that times out or fails is skipped with a warning; a file that
// cannot be opened or has no pages is an error. Cancelling ctx returns at
// once without waiting for the page being read.
func (p *pdfExtractor) Extract(ctx context.Context, path string) (string, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	// Page reads left behind by a timeout or cancellation still use doc, so
	// it is closed only after the last of them returns.
	var inflight sync.WaitGroup
	abandoned := false
	defer func() {
		if !abandoned {
			doc.Close()
			return
		}
		go func() {
			inflight.Wait()
			doc.Close()
		}()
	}()

	numPages := doc.NumPage()
	if numPages <= 0 {
		return "", fmt.Errorf("PDF has no pages")
	}

	type pageResult struct {
		text string
		err  error
	}

	pages := make([]string, 0, numPages)
	for pageNum := 0; pageNum < numPages; pageNum++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		p.logger.Debug("PDF processing page", "page", pageNum+1, "total", numPages)
		resultCh := make(chan pageResult, 1)
		inflight.Add(1)
		go func(idx int) {
			defer inflight.Done()
			t, e := doc.Text(idx)
			resultCh <- pageResult{text: t, err: e}
		}(pageNum)

		timer := time.NewTimer(p.pageTimeout)
		var res pageResult
		select {
		case res = <-resultCh:
			timer.Stop()
		case <-timer.C:
			abandoned = true
			p.logger.Warn("PDF page extraction timeout; skipping page", "page", pageNum+1, "total", numPages, "timeout_sec", int(p.pageTimeout.Seconds()))
			continue
		case <-ctx.Done():
			timer.Stop()
			abandoned = true
			return "", ctx.Err()
		}
		if res.err != nil {
			p.logger.Warn("Failed to extract text from page", "page", pageNum+1, "total", numPages, "error", res.err)
			continue
		}

		paragraphs := splitIntoParagraphs(res.text)
		if len(paragraphs) == 0 {
			continue
		}
		pages = append(pages, strings.Join(paragraphs, "\n\n"))
	}

	return strings.Join(pages, "\n\n"), nil
}

// splitIntoParagraphs splits text on blank lines and joins wrapped lines
// within a paragraph with a space.
func splitIntoParagraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var result []string
	for _, para := range strings.Split(text, "\n\n") {
		lines := strings.Split(para, "\n")
		kept := lines[:0]
		for _, l := range lines {
			if l = strings.TrimSpace(l); l != "" {
				kept = append(kept, l)
			}
		}
		if len(kept) > 0 {
			result = append(result, strings.Join(kept, " "))
		}
	}
	return result
}
