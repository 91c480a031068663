package engine

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/nguyenthenguyen/docx"
	"github.com/xuri/excelize/v2"
)

// --- DOCX ---

func extractDOCX(ctx context.Context, path string) (string, error) {
	doc, err := docx.ReadDocxFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to open DOCX: %w", err)
	}
	defer doc.Close()

	return docxToMarkdown(ctx, doc.Editable().GetContent())
}

// ctxCheckEvery is how many XML tokens are read between context checks.
const ctxCheckEvery = 512

// docxToMarkdown converts the body of word/document.xml to Markdown:
// heading styles become ATX headings, tables become pipe tables and every
// other paragraph is kept as plain text.
func docxToMarkdown(ctx context.Context, documentXML string) (string, error) {
	dec := xml.NewDecoder(strings.NewReader(documentXML))

	var (
		blocks     []string
		para       strings.Builder
		style      string
		paraDepth  int
		tableDepth int
		table      [][]string
		row        []string
		cell       []string
	)

	for n := 1; ; n++ {
		if n%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return "", err
			}
		}
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to parse document.xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				if paraDepth == 0 {
					para.Reset()
					style = ""
				}
				paraDepth++
			case "pStyle":
				if paraDepth == 1 {
					style = attrValue(t, "val")
				}
			case "t":
				var s string
				if err := dec.DecodeElement(&s, &t); err != nil {
					return "", fmt.Errorf("failed to parse text run: %w", err)
				}
				para.WriteString(s)
			case "tab":
				para.WriteString("\t")
			case "br", "cr":
				para.WriteString("\n")
			case "tbl":
				tableDepth++
				if tableDepth == 1 {
					table = nil
				}
			case "tr":
				if tableDepth == 1 {
					row = nil
				}
			case "tc":
				if tableDepth == 1 {
					cell = nil
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				paraDepth--
				if paraDepth > 0 {
					continue
				}
				text := strings.TrimSpace(para.String())
				if text == "" {
					continue
				}
				if tableDepth > 0 {
					cell = append(cell, text)
					continue
				}
				blocks = append(blocks, headingPrefix(style)+text)
			case "tc":
				if tableDepth == 1 {
					row = append(row, strings.Join(cell, " "))
				}
			case "tr":
				if tableDepth == 1 {
					table = append(table, row)
				}
			case "tbl":
				if tableDepth == 1 && len(table) > 0 {
					blocks = append(blocks, markdownTable(table))
				}
				tableDepth--
			}
		}
	}

	return strings.Join(blocks, "\n\n"), nil
}

var headingStyle = regexp.MustCompile(`(?i)^heading\s*([1-6])$`)

func headingPrefix(style string) string {
	style = strings.TrimSpace(style)
	if strings.EqualFold(style, "Title") {
		return "# "
	}
	if m := headingStyle.FindStringSubmatch(style); m != nil {
		level, _ := strconv.Atoi(m[1])
		return strings.Repeat("#", level) + " "
	}
	return ""
}

func attrValue(se xml.StartElement, local string) string {
	for _, a := range se.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// --- XLSX ---

// extractXLSX renders every non-empty sheet as a "## <sheet>" heading
// followed by a Markdown table. Rows are streamed so ctx is checked per row.
func extractXLSX(ctx context.Context, path string) (string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to open XLSX: %w", err)
	}
	defer f.Close()

	var blocks []string
	for _, sheet := range f.GetSheetList() {
		rows, err := readSheet(ctx, f, sheet)
		if err != nil {
			return "", err
		}
		rows = trimEmptyRows(rows)
		if len(rows) == 0 {
			continue
		}
		blocks = append(blocks, "## "+sheet+"\n\n"+markdownTable(rows))
	}
	return strings.Join(blocks, "\n\n"), nil
}

func readSheet(ctx context.Context, f *excelize.File, sheet string) ([][]string, error) {
	it, err := f.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	defer it.Close()

	var rows [][]string
	for it.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cols, err := it.Columns()
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
		}
		rows = append(rows, cols)
	}
	if err := it.Error(); err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

func trimEmptyRows(rows [][]string) [][]string {
	out := rows[:0]
	for _, r := range rows {
		for _, c := range r {
			if strings.TrimSpace(c) != "" {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// --- PPTX ---

var slidePart = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// extractPPTX reads ppt/slides/slideN.xml in slide order. Each slide starts
// with a "<!-- Slide number: N -->" marker; title placeholders become
// "# " headings.
func extractPPTX(ctx context.Context, path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PPTX: %w", err)
	}
	defer zr.Close()

	type slide struct {
		num  int
		file *zip.File
	}
	var slides []slide
	for _, f := range zr.File {
		if m := slidePart.FindStringSubmatch(f.Name); m != nil {
			n, _ := strconv.Atoi(m[1])
			slides = append(slides, slide{num: n, file: f})
		}
	}
	if len(slides) == 0 {
		return "", fmt.Errorf("invalid pptx (no slides found)")
	}
	sort.Slice(slides, func(i, j int) bool { return slides[i].num < slides[j].num })

	blocks := make([]string, 0, len(slides))
	for i, s := range slides {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		rc, err := s.file.Open()
		if err != nil {
			return "", fmt.Errorf("failed to open slide %d: %w", s.num, err)
		}
		body, err := slideToMarkdown(rc)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("failed to parse slide %d: %w", s.num, err)
		}
		block := fmt.Sprintf("<!-- Slide number: %d -->", i+1)
		if body != "" {
			block += "\n" + body
		}
		blocks = append(blocks, block)
	}
	return strings.Join(blocks, "\n\n"), nil
}

func slideToMarkdown(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)

	var (
		lines   []string
		para    strings.Builder
		isTitle bool
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "sp", "graphicFrame":
				isTitle = false
			case "ph":
				switch attrValue(t, "type") {
				case "title", "ctrTitle":
					isTitle = true
				}
			case "p":
				para.Reset()
			case "t":
				var s string
				if err := dec.DecodeElement(&s, &t); err != nil {
					return "", err
				}
				para.WriteString(s)
			case "br":
				para.WriteString(" ")
			}
		case xml.EndElement:
			if t.Name.Local != "p" {
				continue
			}
			text := strings.TrimSpace(para.String())
			if text == "" {
				continue
			}
			if isTitle {
				text = "# " + text
			}
			lines = append(lines, text)
		}
	}
	return strings.Join(lines, "\n"), nil
}
