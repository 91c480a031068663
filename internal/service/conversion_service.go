package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"doc-text-converter/internal/domain"
)

// ConversionService turns an upload batch into per-file reports. Files are
// processed in upload order, one at a time, and a failing file never stops
// the batch.
type ConversionService struct {
	stager      *TempFileStager
	adapter     *ConversionAdapter
	logger      domain.Logger
	maxFileSize int64
	showDetails bool
}

// NewConversionService creates the batch orchestrator. Files larger than
// maxFileSize (when positive) fail on their own without being staged;
// showDetails exposes the engine error text on failed files.
func NewConversionService(
	stager *TempFileStager,
	adapter *ConversionAdapter,
	logger domain.Logger,
	maxFileSize int64,
	showDetails bool,
) *ConversionService {
	return &ConversionService{
		stager:      stager,
		adapter:     adapter,
		logger:      logger,
		maxFileSize: maxFileSize,
		showDetails: showDetails,
	}
}

// ProcessBatch converts files sequentially and folds the outcomes into a
// BatchReport in upload order.
func (s *ConversionService) ProcessBatch(ctx context.Context, files []domain.UploadedFile) domain.BatchReport {
	start := time.Now()

	var report domain.BatchReport
	for _, f := range files {
		report = report.Add(s.processFile(ctx, f))
	}

	s.logger.Info("Batch processed",
		"files", report.Total(),
		"converted", report.Converted,
		"failed", report.Failed,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return report
}

func (s *ConversionService) processFile(ctx context.Context, f domain.UploadedFile) domain.FileReport {
	result := s.convert(ctx, f)
	if !result.OK() {
		convErr := domain.NewConversionError(f.Name, result.Err)
		s.logger.Warn("Conversion failed", "file", f.Name, "size", f.Size, "error", convErr)
		return s.failureReport(f, convErr)
	}

	cmp := domain.NewSizeComparison(f.Size, result.Text)
	msg, kind := sizeMessage(cmp.ReductionPercent)

	s.logger.Debug("File converted",
		"file", f.Name,
		"original_bytes", cmp.OriginalBytes,
		"converted_bytes", cmp.ConvertedBytes,
	)

	return domain.FileReport{
		Name:       f.Name,
		State:      domain.FileStateConverted,
		Text:       result.Text,
		Comparison: cmp,
		SizeRows: []domain.SizeRow{
			{Label: "Original", Size: FormatSize(cmp.OriginalBytes)},
			{Label: "Converted", Size: FormatSize(cmp.ConvertedBytes)},
		},
		Message:     msg,
		MessageKind: kind,
		Artifacts:   domain.NewArtifacts(f.BaseName(), result.Text),
	}
}

func (s *ConversionService) convert(ctx context.Context, f domain.UploadedFile) domain.ConversionResult {
	if !domain.IsSupportedExtension(f.Extension()) {
		return domain.Failure(fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, f.Extension()))
	}
	if s.maxFileSize > 0 && f.Size > s.maxFileSize {
		return domain.Failure(fmt.Errorf("%w: %s is over %s", domain.ErrFileTooLarge, FormatSize(f.Size), FormatSize(s.maxFileSize)))
	}
	return s.stager.With(f.Content, f.Name, func(path string) domain.ConversionResult {
		return s.adapter.Convert(ctx, path)
	})
}

func (s *ConversionService) failureReport(f domain.UploadedFile, err *domain.ConversionError) domain.FileReport {
	report := domain.FileReport{
		Name:  f.Name,
		State: domain.FileStateFailed,
		Error: fmt.Sprintf("Could not read %s. Please check the format.", f.Name),
	}
	if errors.Is(err, domain.ErrFileTooLarge) {
		report.Error = fmt.Sprintf("%s is larger than the %s per-file limit.", f.Name, FormatSize(s.maxFileSize))
	}
	if s.showDetails && err.Cause != nil {
		report.ErrorDetail = err.Cause.Error()
	}
	return report
}

// sizeMessage words the reduction for the size comparison tab.
func sizeMessage(reduction float64) (string, domain.MessageKind) {
	switch {
	case reduction > 0:
		return fmt.Sprintf("Converted text is %.1f%% smaller than the original file.", reduction), domain.MessageSuccess
	case reduction < 0:
		return fmt.Sprintf("Converted text is %.1f%% larger than the original file.", -reduction), domain.MessageInfo
	default:
		return "Converted text is the same size as the original file.", domain.MessageInfo
	}
}
