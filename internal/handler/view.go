package handler

import (
	"embed"
	"encoding/base64"
	"html/template"
	"strings"

	"doc-text-converter/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	pageTitle    = "Universal File-to-Text"
	pageSubtitle = "Convert Word, Excel, PPT, PDF, and HTML into clean Markdown or Text instantly."
)

var pageTemplate = template.Must(
	template.New("index.html").
		Funcs(template.FuncMap{"dataURI": dataURI}).
		ParseFS(templateFS, "templates/index.html"),
)

// pageData feeds templates/index.html.
type pageData struct {
	Title       string
	Subtitle    string
	Accept      string
	MaxFileSize string
	Error       string
	Report      *domain.BatchReport
}

// dataURI embeds an artifact in the page so downloads need no server state.
func dataURI(a domain.Artifact) template.URL {
	return template.URL("data:" + a.ContentType + ";charset=utf-8;base64," + base64.StdEncoding.EncodeToString(a.Data))
}

func acceptList() string {
	return strings.Join(domain.SupportedExtensions, ",")
}
