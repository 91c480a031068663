package engine

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"doc-text-converter/internal/domain"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"golang.org/x/net/html"
)

// htmlExtractor renders HTML as Markdown, falling back to plain text when
// the Markdown converter rejects the document.
type htmlExtractor struct {
	logger domain.Logger
}

func newHTMLExtractor(logger domain.Logger) *htmlExtractor {
	return &htmlExtractor{logger: logger}
}

func (h *htmlExtractor) Extract(ctx context.Context, path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read HTML: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return "", fmt.Errorf("HTML document is empty")
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}
	md, err := htmltomarkdown.ConvertString(string(bytes.ToValidUTF8(raw, nil)))
	if err == nil {
		return md, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", ctxErr
	}

	h.logger.Warn("HTML to Markdown failed; falling back to plain text", "path", path, "error", err)
	text := htmlToText(raw)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("failed to convert HTML: %w", err)
	}
	return text, nil
}

// htmlToText walks the parsed DOM and keeps visible text, breaking lines on
// block elements.
func htmlToText(b []byte) string {
	doc, err := html.Parse(bytes.NewReader(b))
	if err != nil || doc == nil {
		return ""
	}

	block := map[string]bool{
		"p": true, "div": true, "section": true, "article": true, "table": true, "tr": true,
		"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
		"li": true, "ul": true, "ol": true, "blockquote": true, "pre": true,
	}
	skip := map[string]bool{
		"script": true, "style": true, "head": true, "title": true, "noscript": true, "template": true,
	}

	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			tag := strings.ToLower(n.Data)
			if skip[tag] {
				return
			}
			if tag == "br" {
				sb.WriteString("\n")
			}
			if block[tag] {
				sb.WriteString("\n\n")
			}
		}
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				s := sb.String()
				if len(s) > 0 && !strings.HasSuffix(s, "\n") && !strings.HasSuffix(s, " ") {
					sb.WriteString(" ")
				}
				sb.WriteString(t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && block[strings.ToLower(n.Data)] {
			sb.WriteString("\n\n")
		}
	}
	walk(doc)

	return normalizeText(sb.String())
}
