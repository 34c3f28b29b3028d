package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/muselink/muselink-api/internal/models"
)

// ExportRepository provides database access for queued report exports.
type ExportRepository struct {
	db *sqlx.DB
}

// NewExportRepository creates a new instance of ExportRepository.
func NewExportRepository(db *sqlx.DB) *ExportRepository {
	return &ExportRepository{db: db}
}

// Create inserts an export job in the QUEUED state.
func (r *ExportRepository) Create(ctx context.Context, export *models.ReportExport) error {
	if export.ID == "" {
		export.ID = uuid.NewString()
	}
	if export.CreatedAt.IsZero() {
		export.CreatedAt = time.Now().UTC()
	}
	if export.Status == "" {
		export.Status = models.ExportStatusQueued
	}

	const query = `INSERT INTO report_exports (id, report_type, format, status, progress, result_url, error_message, created_by, created_at, finished_at) VALUES (:id, :report_type, :format, :status, :progress, :result_url, :error_message, :created_by, :created_at, :finished_at)`
	if _, err := r.db.NamedExecContext(ctx, query, export); err != nil {
		return fmt.Errorf("create export: %w", err)
	}
	return nil
}

// FindByID returns an export job by identifier.
func (r *ExportRepository) FindByID(ctx context.Context, id string) (*models.ReportExport, error) {
	const query = `SELECT id, report_type, format, status, progress, result_url, error_message, created_by, created_at, finished_at FROM report_exports WHERE id = $1 LIMIT 1`
	var export models.ReportExport
	if err := r.db.GetContext(ctx, &export, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find export: %w", err)
	}
	return &export, nil
}

// UpdateProgress moves an export job through its lifecycle.
func (r *ExportRepository) UpdateProgress(ctx context.Context, id string, status models.ExportStatus, progress int) error {
	const query = `UPDATE report_exports SET status = $2, progress = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, progress); err != nil {
		return fmt.Errorf("update export progress: %w", err)
	}
	return nil
}

// MarkFinished records a successful export and its signed result URL.
func (r *ExportRepository) MarkFinished(ctx context.Context, id, resultURL string, finishedAt time.Time) error {
	const query = `UPDATE report_exports SET status = 'FINISHED', progress = 100, result_url = $2, finished_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, resultURL, finishedAt); err != nil {
		return fmt.Errorf("mark export finished: %w", err)
	}
	return nil
}

// MarkFailed records a failed export with its error message.
func (r *ExportRepository) MarkFailed(ctx context.Context, id, message string, finishedAt time.Time) error {
	const query = `UPDATE report_exports SET status = 'FAILED', error_message = $2, finished_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, message, finishedAt); err != nil {
		return fmt.Errorf("mark export failed: %w", err)
	}
	return nil
}

// ExpireResult clears the download URL of a stale export whose artifact
// has been removed from storage.
func (r *ExportRepository) ExpireResult(ctx context.Context, id string) error {
	const query = `UPDATE report_exports SET result_url = NULL WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("expire export result: %w", err)
	}
	return nil
}

// ListStale returns finished exports older than the cutoff, used by the
// artifact cleanup loop.
func (r *ExportRepository) ListStale(ctx context.Context, cutoff time.Time) ([]models.ReportExport, error) {
	const query = `SELECT id, report_type, format, status, progress, result_url, error_message, created_by, created_at, finished_at FROM report_exports WHERE status = 'FINISHED' AND finished_at < $1`
	var exports []models.ReportExport
	if err := r.db.SelectContext(ctx, &exports, query, cutoff); err != nil {
		return nil, fmt.Errorf("list stale exports: %w", err)
	}
	return exports, nil
}
