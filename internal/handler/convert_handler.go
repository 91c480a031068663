// Package handler provides the HTTP handlers for the upload page.
package handler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"doc-text-converter/internal/domain"
	"doc-text-converter/internal/service"
	apperrors "doc-text-converter/pkg/errors"
)

const (
	uploadField     = "files"
	multipartMemory = 32 << 20
)

// ConvertHandler serves the upload page and renders conversion results
type ConvertHandler struct {
	converter     domain.BatchConverter
	logger        domain.Logger
	maxFileSize   int64
	maxUploadSize int64
}

// NewConvertHandler creates a new convert handler
func NewConvertHandler(converter domain.BatchConverter, maxFileSize, maxUploadSize int64, logger domain.Logger) *ConvertHandler {
	return &ConvertHandler{
		converter:     converter,
		logger:        logger,
		maxFileSize:   maxFileSize,
		maxUploadSize: maxUploadSize,
	}
}

// Index renders the empty upload page
func (h *ConvertHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, h.newPage())
}

// Convert converts every uploaded file and renders the per-file results.
// Only request-level problems (no files, upload over MAX_UPLOAD_SIZE) fail
// the request; a single oversized file fails on its own.
func (h *ConvertHandler) Convert(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	files, err := h.readUploads(r)
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	requestID, _ := RequestIDFromContext(r.Context())
	h.logger.Info("Upload received", "request_id", requestID, "files", len(files))

	report := h.converter.ProcessBatch(r.Context(), files)

	page := h.newPage()
	page.Report = &report
	h.render(w, http.StatusOK, page)
}

func (h *ConvertHandler) readUploads(r *http.Request) ([]domain.UploadedFile, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		if isTooLarge(err) {
			return nil, apperrors.NewTooLargeError(
				fmt.Sprintf("The upload exceeds the %s limit.", service.FormatSize(h.maxUploadSize)), err)
		}
		return nil, apperrors.NewValidationError("Could not read the upload form.", err.Error())
	}

	headers := r.MultipartForm.File[uploadField]
	if len(headers) == 0 {
		return nil, apperrors.NewValidationError("Please choose at least one file to convert.", domain.ErrNoFiles.Error())
	}

	files := make([]domain.UploadedFile, 0, len(headers))
	for _, header := range headers {
		name := sanitizeFilename(header.Filename)
		if header.Size > h.maxFileSize {
			// Not read; the batch reports it as a failed file.
			files = append(files, domain.UploadedFile{Name: name, Size: header.Size})
			continue
		}

		f, err := header.Open()
		if err != nil {
			return nil, apperrors.NewValidationError(fmt.Sprintf("Could not read %s from the upload.", name), err.Error())
		}
		content, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, apperrors.NewValidationError(fmt.Sprintf("Could not read %s from the upload.", name), err.Error())
		}

		files = append(files, domain.UploadedFile{
			Name:    name,
			Size:    header.Size,
			Content: content,
		})
	}
	return files, nil
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large")
}

// sanitizeFilename strips any path components the browser sent.
func sanitizeFilename(name string) string {
	name = strings.TrimSpace(filepath.Base(strings.ReplaceAll(name, `\`, "/")))
	if name == "" || name == "." || name == "/" {
		return "document"
	}
	return name
}

func (h *ConvertHandler) newPage() pageData {
	return pageData{
		Title:       pageTitle,
		Subtitle:    pageSubtitle,
		Accept:      acceptList(),
		MaxFileSize: service.FormatSize(h.maxFileSize),
	}
}

func (h *ConvertHandler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	requestID, _ := RequestIDFromContext(r.Context())
	msg := "Upload rejected"
	if apperrors.IsType(err, apperrors.ErrorTypeTooLarge) {
		msg = "Upload over size limit"
	}
	h.logger.Warn(msg, "request_id", requestID, "error", err)

	page := h.newPage()
	page.Error = apperrors.UserMessage(err)
	h.render(w, apperrors.GetStatusCode(err), page)
}

func (h *ConvertHandler) render(w http.ResponseWriter, statusCode int, page pageData) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, page); err != nil {
		appErr := apperrors.NewInternalError("Failed to render page", err)
		h.logger.Error(appErr.Message, err)
		writeError(w, appErr.StatusCode, appErr.Message)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	_, _ = buf.WriteTo(w)
}
