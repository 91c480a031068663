package domain

import (
	"path/filepath"
	"strings"
)

// Supported upload extensions, lower-cased with the leading dot.
var SupportedExtensions = []string{".docx", ".xlsx", ".pptx", ".pdf", ".html", ".htm"}

// IsSupportedExtension reports whether ext (any case) is in SupportedExtensions.
func IsSupportedExtension(ext string) bool {
	ext = strings.ToLower(ext)
	for _, s := range SupportedExtensions {
		if s == ext {
			return true
		}
	}
	return false
}

// UploadedFile is one file submitted through the upload form.
type UploadedFile struct {
	Name    string
	Size    int64
	Content []byte
}

// BaseName returns the filename without its extension.
func (f UploadedFile) BaseName() string {
	name := filepath.Base(f.Name)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// Extension returns the lower-cased extension including the leading dot.
func (f UploadedFile) Extension() string {
	return strings.ToLower(filepath.Ext(f.Name))
}

// ConversionResult is either Success(text) or Failure(err).
type ConversionResult struct {
	Text string
	Err  error
}

// Success wraps extracted text.
func Success(text string) ConversionResult {
	return ConversionResult{Text: text}
}

// Failure wraps the reason a conversion did not produce text.
func Failure(err error) ConversionResult {
	if err == nil {
		err = ErrConversionFailed
	}
	return ConversionResult{Err: err}
}

// OK reports whether the result carries text.
func (r ConversionResult) OK() bool {
	return r.Err == nil
}

// SizeComparison relates the uploaded byte size to the extracted text size.
type SizeComparison struct {
	OriginalBytes    int64   `json:"original_bytes"`
	ConvertedBytes   int64   `json:"converted_bytes"`
	ReductionPercent float64 `json:"reduction_percent"`
}

// NewSizeComparison computes the reduction of text against the original size.
// ReductionPercent is 0 when original is 0.
func NewSizeComparison(original int64, text string) SizeComparison {
	converted := int64(len(text))
	cmp := SizeComparison{OriginalBytes: original, ConvertedBytes: converted}
	if original != 0 {
		cmp.ReductionPercent = float64(original-converted) / float64(original) * 100
	}
	return cmp
}

// Artifact is one downloadable rendition of the converted text.
type Artifact struct {
	FileName    string
	ContentType string
	Label       string
	Data        []byte
}

// Download content types.
const (
	ContentTypeMarkdown = "text/markdown"
	ContentTypePlain    = "text/plain"
)

// NewArtifacts builds the Markdown and plain text downloads for baseName.
// Both carry the same bytes.
func NewArtifacts(baseName, text string) []Artifact {
	data := []byte(text)
	return []Artifact{
		{
			FileName:    baseName + "_converted.md",
			ContentType: ContentTypeMarkdown,
			Label:       "Download as Markdown (.md)",
			Data:        data,
		},
		{
			FileName:    baseName + "_converted.txt",
			ContentType: ContentTypePlain,
			Label:       "Download as Text (.txt)",
			Data:        data,
		},
	}
}

// FileState is the terminal state of one file in a batch.
type FileState string

const (
	FileStateConverted FileState = "converted"
	FileStateFailed    FileState = "failed"
)

// MessageKind selects how the size message is presented.
type MessageKind string

const (
	MessageSuccess MessageKind = "success"
	MessageInfo    MessageKind = "info"
)

// SizeRow is one formatted line of the size comparison table.
type SizeRow struct {
	Label string
	Size  string
}

// FileReport is everything the page shows for one uploaded file.
type FileReport struct {
	Name  string
	State FileState

	Text        string
	Comparison  SizeComparison
	SizeRows    []SizeRow
	Message     string
	MessageKind MessageKind
	Artifacts   []Artifact

	Error       string
	ErrorDetail string
}

// Converted reports whether the file reached the converted state.
func (r FileReport) Converted() bool {
	return r.State == FileStateConverted
}

// BatchReport is the ordered outcome of one upload.
type BatchReport struct {
	Files     []FileReport
	Converted int
	Failed    int
}

// Add appends a file report and updates the counters.
func (b BatchReport) Add(r FileReport) BatchReport {
	b.Files = append(b.Files, r)
	if r.Converted() {
		b.Converted++
	} else {
		b.Failed++
	}
	return b
}

// Total returns the number of files processed.
func (b BatchReport) Total() int {
	return b.Converted + b.Failed
}
