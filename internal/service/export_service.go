package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/muselink/muselink-api/internal/dto"
	"github.com/muselink/muselink-api/internal/models"
	appErrors "github.com/muselink/muselink-api/pkg/errors"
	"github.com/muselink/muselink-api/pkg/export"
	"github.com/muselink/muselink-api/pkg/jobs"
)

type exportRepository interface {
	Create(ctx context.Context, export *models.ReportExport) error
	FindByID(ctx context.Context, id string) (*models.ReportExport, error)
	UpdateProgress(ctx context.Context, id string, status models.ExportStatus, progress int) error
	MarkFinished(ctx context.Context, id, resultURL string, finishedAt time.Time) error
	MarkFailed(ctx context.Context, id, message string, finishedAt time.Time) error
	ListStale(ctx context.Context, cutoff time.Time) ([]models.ReportExport, error)
	ExpireResult(ctx context.Context, id string) error
}

type exportStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type urlSigner interface {
	Generate(exportID, relPath string) (string, time.Time, error)
	Parse(token string, allowExpired bool) (exportID, relPath string, expiresAt time.Time, err error)
}

// ExportConfig tunes the export worker pool and artifact retention.
type ExportConfig struct {
	Workers         int
	MaxRetries      int
	ArtifactTTL     time.Duration
	CleanupInterval time.Duration
}

// ExportService renders admin reports to CSV or PDF in the background and
// hands the result back through signed download tokens.
type ExportService struct {
	exports   exportRepository
	reports   reportRepository
	storage   exportStorage
	signer    urlSigner
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	queue     *jobs.Queue
	validator *validator.Validate
	logger    *zap.Logger
	config    ExportConfig
}

// NewExportService constructs an ExportService instance.
func NewExportService(exports exportRepository, reports reportRepository, storage exportStorage, signer urlSigner, validate *validator.Validate, logger *zap.Logger, config ExportConfig) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	s := &ExportService{
		exports:   exports,
		reports:   reports,
		storage:   storage,
		signer:    signer,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		validator: validate,
		logger:    logger,
		config:    config,
	}
	s.queue = jobs.NewQueue("report-exports", s.handleJob, jobs.QueueConfig{
		Workers:    config.Workers,
		MaxRetries: config.MaxRetries,
		Logger:     logger,
	})
	return s
}

// Start launches the export workers and the artifact cleanup loop.
func (s *ExportService) Start(ctx context.Context) {
	s.queue.Start(ctx)
	go s.runCleanup(ctx)
}

// Stop drains the worker pool.
func (s *ExportService) Stop() {
	s.queue.Stop()
}

// CreateExport queues a background export of the named report.
func (s *ExportService) CreateExport(ctx context.Context, createdBy string, req dto.CreateExportRequest) (*dto.ExportJobResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export payload")
	}
	if !models.ValidReportType(req.Type) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown report type %q", req.Type))
	}

	job := &models.ReportExport{
		Type:      models.ReportType(req.Type),
		Format:    models.ReportFormat(req.Format),
		Status:    models.ExportStatusQueued,
		CreatedBy: createdBy,
	}
	if err := s.exports.Create(ctx, job); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to queue export")
	}

	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: "report-export", Payload: job.ID}); err != nil {
		now := time.Now().UTC()
		if markErr := s.exports.MarkFailed(ctx, job.ID, "queue unavailable", now); markErr != nil {
			s.logger.Warn("failed to mark export failed", zap.Error(markErr))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue export")
	}

	return &dto.ExportJobResponse{ID: job.ID, Status: job.Status, Progress: job.Progress}, nil
}

// Status reports export progress and, once finished, the signed result URL.
func (s *ExportService) Status(ctx context.Context, req dto.ExportStatusRequest) (*dto.ExportStatusResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export status payload")
	}

	job, err := s.exports.FindByID(ctx, req.ExportID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "export not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load export")
	}

	return &dto.ExportStatusResponse{
		ID:        job.ID,
		Status:    job.Status,
		Progress:  job.Progress,
		ResultURL: job.ResultURL,
		Error:     job.ErrorMessage,
	}, nil
}

// Download resolves a signed token to the stored artifact.
func (s *ExportService) Download(ctx context.Context, token string) (*os.File, string, error) {
	exportID, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid download token")
	}

	job, err := s.exports.FindByID(ctx, exportID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", appErrors.Clone(appErrors.ErrNotFound, "export not found")
		}
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load export")
	}
	if job.Status != models.ExportStatusFinished {
		return nil, "", appErrors.Clone(appErrors.ErrConflict, "export is not finished")
	}

	file, err := s.storage.Open(relPath)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "export artifact missing")
	}
	return file, relPath, nil
}

func (s *ExportService) handleJob(ctx context.Context, job jobs.Job) error {
	exportID, ok := job.Payload.(string)
	if !ok {
		return fmt.Errorf("unexpected export payload %T", job.Payload)
	}

	if err := s.exports.UpdateProgress(ctx, exportID, models.ExportStatusProcessing, 10); err != nil {
		return fmt.Errorf("mark export processing: %w", err)
	}

	record, err := s.exports.FindByID(ctx, exportID)
	if err != nil {
		return fmt.Errorf("load export: %w", err)
	}

	dataset, title, err := s.buildDataset(ctx, record.Type)
	if err != nil {
		s.fail(ctx, exportID, err)
		return nil
	}
	if err := s.exports.UpdateProgress(ctx, exportID, models.ExportStatusProcessing, 60); err != nil {
		s.logger.Warn("failed to update export progress", zap.Error(err))
	}

	var payload []byte
	switch record.Format {
	case models.ReportFormatPDF:
		payload, err = s.pdf.Render(dataset, title)
	default:
		payload, err = s.csv.Render(dataset)
	}
	if err != nil {
		s.fail(ctx, exportID, err)
		return nil
	}

	filename := fmt.Sprintf("%s.%s", exportID, record.Format)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		s.fail(ctx, exportID, err)
		return nil
	}

	token, _, err := s.signer.Generate(exportID, relPath)
	if err != nil {
		s.fail(ctx, exportID, err)
		return nil
	}
	resultURL := "/api/v1/admin/reports/export/download?token=" + token

	if err := s.exports.MarkFinished(ctx, exportID, resultURL, time.Now().UTC()); err != nil {
		return fmt.Errorf("mark export finished: %w", err)
	}
	s.logger.Info("report export finished", zap.String("export_id", exportID), zap.String("type", string(record.Type)))
	return nil
}

func (s *ExportService) buildDataset(ctx context.Context, reportType models.ReportType) (export.Dataset, string, error) {
	switch reportType {
	case models.ReportTypeRevenueByInstrument:
		rows, err := s.reports.RevenueByInstrument(ctx)
		if err != nil {
			return export.Dataset{}, "", err
		}
		ds := export.Dataset{Headers: []string{"Instrument", "Revenue", "Payments"}}
		for _, row := range rows {
			ds.Rows = append(ds.Rows, map[string]string{
				"Instrument": row.Instrument,
				"Revenue":    formatAmount(row.Revenue),
				"Payments":   strconv.Itoa(row.PaymentCount),
			})
		}
		return ds, "Revenue by Instrument", nil

	case models.ReportTypeRevenueByStudent:
		rows, err := s.reports.RevenueByStudent(ctx)
		if err != nil {
			return export.Dataset{}, "", err
		}
		ds := export.Dataset{Headers: []string{"Student", "Revenue"}}
		for _, row := range rows {
			ds.Rows = append(ds.Rows, map[string]string{
				"Student": row.StudentName,
				"Revenue": formatAmount(row.Revenue),
			})
		}
		return ds, "Revenue by Student", nil

	case models.ReportTypePopularInstruments:
		rows, err := s.reports.PopularInstruments(ctx)
		if err != nil {
			return export.Dataset{}, "", err
		}
		ds := export.Dataset{Headers: []string{"Instrument", "Enrollments"}}
		for _, row := range rows {
			ds.Rows = append(ds.Rows, map[string]string{
				"Instrument":  row.Instrument,
				"Enrollments": strconv.Itoa(row.EnrollmentCount),
			})
		}
		return ds, "Popular Instruments", nil

	case models.ReportTypeOverview:
		stats, err := s.reports.Overview(ctx)
		if err != nil {
			return export.Dataset{}, "", err
		}
		ds := export.Dataset{
			Headers: []string{"Metric", "Value"},
			Rows: []map[string]string{
				{"Metric": "Students", "Value": strconv.Itoa(stats.TotalStudents)},
				{"Metric": "Teachers", "Value": strconv.Itoa(stats.TotalTeachers)},
				{"Metric": "Lessons", "Value": strconv.Itoa(stats.TotalLessons)},
				{"Metric": "Enrollments", "Value": strconv.Itoa(stats.EnrollmentCount)},
				{"Metric": "Revenue", "Value": formatAmount(stats.TotalRevenue)},
				{"Metric": "Admin fees", "Value": formatAmount(stats.TotalAdminFees)},
			},
		}
		return ds, "Platform Overview", nil
	}
	return export.Dataset{}, "", fmt.Errorf("unknown report type %q", reportType)
}

func (s *ExportService) fail(ctx context.Context, exportID string, cause error) {
	s.logger.Error("report export failed", zap.String("export_id", exportID), zap.Error(cause))
	if err := s.exports.MarkFailed(ctx, exportID, cause.Error(), time.Now().UTC()); err != nil {
		s.logger.Warn("failed to mark export failed", zap.Error(err))
	}
}

func (s *ExportService) runCleanup(ctx context.Context) {
	interval := s.config.CleanupInterval
	if interval <= 0 {
		interval = time.Hour
	}
	ttl := s.config.ArtifactTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.cleanupOnce(ctx, ttl)
		}
	}
}

// cleanupOnce removes artifacts of exports finished before the TTL window,
// clears their dangling result URLs, then sweeps the storage directory for
// anything left behind.
func (s *ExportService) cleanupOnce(ctx context.Context, ttl time.Duration) {
	stale, err := s.exports.ListStale(ctx, time.Now().UTC().Add(-ttl))
	if err != nil {
		s.logger.Warn("failed to list stale exports", zap.Error(err))
	}
	for _, record := range stale {
		filename := fmt.Sprintf("%s.%s", record.ID, record.Format)
		if err := s.storage.Delete(filename); err != nil {
			s.logger.Warn("failed to delete export artifact", zap.String("export_id", record.ID), zap.Error(err))
			continue
		}
		if err := s.exports.ExpireResult(ctx, record.ID); err != nil {
			s.logger.Warn("failed to expire export result", zap.String("export_id", record.ID), zap.Error(err))
		}
	}

	deleted, err := s.storage.CleanupOlderThan(ttl)
	if err != nil {
		s.logger.Warn("export artifact cleanup failed", zap.Error(err))
		return
	}
	if len(stale) > 0 || len(deleted) > 0 {
		s.logger.Info("cleaned up export artifacts", zap.Int("expired", len(stale)), zap.Int("swept", len(deleted)))
	}
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
