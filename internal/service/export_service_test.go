package service

import (
	"context"
	"database/sql"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muselink/muselink-api/internal/dto"
	"github.com/muselink/muselink-api/internal/models"
	appErrors "github.com/muselink/muselink-api/pkg/errors"
	"github.com/muselink/muselink-api/pkg/jobs"
	"github.com/muselink/muselink-api/pkg/storage"
)

type mockExportRepo struct {
	records  map[string]*models.ReportExport
	enqueued int
	expired  []string
}

func (m *mockExportRepo) Create(ctx context.Context, export *models.ReportExport) error {
	if m.records == nil {
		m.records = make(map[string]*models.ReportExport)
	}
	m.enqueued++
	if export.ID == "" {
		export.ID = "exp-1"
	}
	if export.Status == "" {
		export.Status = models.ExportStatusQueued
	}
	m.records[export.ID] = export
	return nil
}

func (m *mockExportRepo) FindByID(ctx context.Context, id string) (*models.ReportExport, error) {
	record, ok := m.records[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return record, nil
}

func (m *mockExportRepo) UpdateProgress(ctx context.Context, id string, status models.ExportStatus, progress int) error {
	if record, ok := m.records[id]; ok {
		record.Status = status
		record.Progress = progress
	}
	return nil
}

func (m *mockExportRepo) MarkFinished(ctx context.Context, id, resultURL string, finishedAt time.Time) error {
	if record, ok := m.records[id]; ok {
		record.Status = models.ExportStatusFinished
		record.Progress = 100
		record.ResultURL = &resultURL
		record.FinishedAt = &finishedAt
	}
	return nil
}

func (m *mockExportRepo) MarkFailed(ctx context.Context, id, message string, finishedAt time.Time) error {
	if record, ok := m.records[id]; ok {
		record.Status = models.ExportStatusFailed
		record.ErrorMessage = &message
		record.FinishedAt = &finishedAt
	}
	return nil
}

func (m *mockExportRepo) ListStale(ctx context.Context, cutoff time.Time) ([]models.ReportExport, error) {
	var stale []models.ReportExport
	for _, record := range m.records {
		if record.Status == models.ExportStatusFinished && record.FinishedAt != nil && record.FinishedAt.Before(cutoff) {
			stale = append(stale, *record)
		}
	}
	return stale, nil
}

func (m *mockExportRepo) ExpireResult(ctx context.Context, id string) error {
	if record, ok := m.records[id]; ok {
		record.ResultURL = nil
	}
	m.expired = append(m.expired, id)
	return nil
}

func newExportService(t *testing.T, exports *mockExportRepo, reports *mockReportRepo) *ExportService {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("export-secret", time.Hour)
	return NewExportService(exports, reports, store, signer, nil, nil, ExportConfig{
		Workers:    1,
		MaxRetries: 1,
	})
}

func TestCreateExportRejectsUnknownReport(t *testing.T) {
	svc := newExportService(t, &mockExportRepo{}, &mockReportRepo{})

	_, err := svc.CreateExport(context.Background(), "admin-1", dto.CreateExportRequest{Type: "weekly-digest", Format: "csv"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCreateExportRejectsUnknownFormat(t *testing.T) {
	svc := newExportService(t, &mockExportRepo{}, &mockReportRepo{})

	_, err := svc.CreateExport(context.Background(), "admin-1", dto.CreateExportRequest{Type: "overview", Format: "xlsx"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestExportPipelineRendersCSV(t *testing.T) {
	exports := &mockExportRepo{}
	reports := &mockReportRepo{instrumentRows: []dto.InstrumentRevenueRow{
		{Instrument: "Piano", Revenue: 420.5, PaymentCount: 7},
		{Instrument: "Guitar", Revenue: 310, PaymentCount: 5},
	}}
	svc := newExportService(t, exports, reports)

	record := &models.ReportExport{
		ID:     "exp-1",
		Type:   models.ReportTypeRevenueByInstrument,
		Format: models.ReportFormatCSV,
		Status: models.ExportStatusQueued,
	}
	require.NoError(t, exports.Create(context.Background(), record))

	require.NoError(t, svc.handleJob(context.Background(), jobs.Job{ID: "exp-1", Type: "report-export", Payload: "exp-1"}))

	assert.Equal(t, models.ExportStatusFinished, record.Status)
	assert.Equal(t, 100, record.Progress)
	require.NotNil(t, record.ResultURL)
	require.True(t, strings.HasPrefix(*record.ResultURL, "/api/v1/admin/reports/export/download?token="))

	token := strings.TrimPrefix(*record.ResultURL, "/api/v1/admin/reports/export/download?token=")
	file, name, err := svc.Download(context.Background(), token)
	require.NoError(t, err)
	defer file.Close()
	assert.Equal(t, "exp-1.csv", name)

	body, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Instrument,Revenue,Payments")
	assert.Contains(t, string(body), "Piano,420.50,7")
}

func TestExportPipelineRendersPDF(t *testing.T) {
	exports := &mockExportRepo{}
	reports := &mockReportRepo{overview: &dto.OverviewStats{TotalStudents: 8, TotalTeachers: 8}}
	svc := newExportService(t, exports, reports)

	record := &models.ReportExport{
		ID:     "exp-2",
		Type:   models.ReportTypeOverview,
		Format: models.ReportFormatPDF,
		Status: models.ExportStatusQueued,
	}
	require.NoError(t, exports.Create(context.Background(), record))

	require.NoError(t, svc.handleJob(context.Background(), jobs.Job{ID: "exp-2", Type: "report-export", Payload: "exp-2"}))
	assert.Equal(t, models.ExportStatusFinished, record.Status)

	token := strings.TrimPrefix(*record.ResultURL, "/api/v1/admin/reports/export/download?token=")
	file, name, err := svc.Download(context.Background(), token)
	require.NoError(t, err)
	defer file.Close()
	assert.Equal(t, "exp-2.pdf", name)

	header := make([]byte, 4)
	_, err = io.ReadFull(file, header)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(header))
}

func TestCleanupExpiresStaleExports(t *testing.T) {
	exports := &mockExportRepo{}
	reports := &mockReportRepo{instrumentRows: []dto.InstrumentRevenueRow{
		{Instrument: "Piano", Revenue: 420.5, PaymentCount: 7},
	}}
	svc := newExportService(t, exports, reports)

	record := &models.ReportExport{
		ID:     "exp-old",
		Type:   models.ReportTypeRevenueByInstrument,
		Format: models.ReportFormatCSV,
		Status: models.ExportStatusQueued,
	}
	require.NoError(t, exports.Create(context.Background(), record))
	require.NoError(t, svc.handleJob(context.Background(), jobs.Job{ID: "exp-old", Type: "report-export", Payload: "exp-old"}))
	require.NotNil(t, record.ResultURL)
	token := strings.TrimPrefix(*record.ResultURL, "/api/v1/admin/reports/export/download?token=")

	stale := time.Now().UTC().Add(-48 * time.Hour)
	record.FinishedAt = &stale

	svc.cleanupOnce(context.Background(), 24*time.Hour)

	assert.Equal(t, []string{"exp-old"}, exports.expired)
	assert.Nil(t, record.ResultURL)

	_, _, err := svc.Download(context.Background(), token)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestDownloadUnfinishedExport(t *testing.T) {
	exports := &mockExportRepo{}
	svc := newExportService(t, exports, &mockReportRepo{})

	record := &models.ReportExport{
		ID:     "exp-3",
		Type:   models.ReportTypeOverview,
		Format: models.ReportFormatCSV,
		Status: models.ExportStatusQueued,
	}
	require.NoError(t, exports.Create(context.Background(), record))

	signer := storage.NewSignedURLSigner("export-secret", time.Hour)
	token, _, err := signer.Generate("exp-3", "exp-3.csv")
	require.NoError(t, err)

	_, _, err = svc.Download(context.Background(), token)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestDownloadBadToken(t *testing.T) {
	svc := newExportService(t, &mockExportRepo{}, &mockReportRepo{})

	_, _, err := svc.Download(context.Background(), "tampered-token")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
