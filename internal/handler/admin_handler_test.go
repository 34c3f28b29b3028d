package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muselink/muselink-api/internal/dto"
	"github.com/muselink/muselink-api/internal/middleware"
	"github.com/muselink/muselink-api/internal/models"
	"github.com/muselink/muselink-api/internal/service"
	"github.com/muselink/muselink-api/pkg/response"
	"github.com/muselink/muselink-api/pkg/storage"
)

type fakeReportRepo struct {
	instrumentRows []dto.InstrumentRevenueRow
	overview       *dto.OverviewStats
}

func (f *fakeReportRepo) RevenueByInstrument(ctx context.Context) ([]dto.InstrumentRevenueRow, error) {
	return f.instrumentRows, nil
}

func (f *fakeReportRepo) RevenueByStudent(ctx context.Context) ([]dto.StudentRevenueRow, error) {
	return nil, nil
}

func (f *fakeReportRepo) PopularInstruments(ctx context.Context) ([]dto.InstrumentPopularityRow, error) {
	return nil, nil
}

func (f *fakeReportRepo) RepeatCustomers(ctx context.Context) (*dto.RepeatCustomerStats, error) {
	return &dto.RepeatCustomerStats{TotalStudents: 8, RepeatStudents: 2, Percentage: 25}, nil
}

func (f *fakeReportRepo) Overview(ctx context.Context) (*dto.OverviewStats, error) {
	if f.overview == nil {
		return &dto.OverviewStats{}, nil
	}
	return f.overview, nil
}

type fakeExportStore struct {
	records map[string]*models.ReportExport
}

func (f *fakeExportStore) Create(ctx context.Context, export *models.ReportExport) error {
	if f.records == nil {
		f.records = make(map[string]*models.ReportExport)
	}
	if export.ID == "" {
		export.ID = "exp-1"
	}
	f.records[export.ID] = export
	return nil
}

func (f *fakeExportStore) FindByID(ctx context.Context, id string) (*models.ReportExport, error) {
	record, ok := f.records[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return record, nil
}

func (f *fakeExportStore) UpdateProgress(ctx context.Context, id string, status models.ExportStatus, progress int) error {
	return nil
}

func (f *fakeExportStore) MarkFinished(ctx context.Context, id, resultURL string, finishedAt time.Time) error {
	return nil
}

func (f *fakeExportStore) MarkFailed(ctx context.Context, id, message string, finishedAt time.Time) error {
	return nil
}

func (f *fakeExportStore) ListStale(ctx context.Context, cutoff time.Time) ([]models.ReportExport, error) {
	return nil, nil
}

func (f *fakeExportStore) ExpireResult(ctx context.Context, id string) error {
	return nil
}

func newAdminHandler(t *testing.T, exports *fakeExportStore) *AdminHandler {
	t.Helper()
	reports := service.NewReportService(&fakeReportRepo{}, nil, nil, service.ReportConfig{})
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("secret", time.Hour)
	exportSvc := service.NewExportService(exports, &fakeReportRepo{}, store, signer, nil, nil, service.ExportConfig{Workers: 1})
	return NewAdminHandler(reports, exportSvc, service.NewMetricsService())
}

func TestDashboardDemoMeta(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newAdminHandler(t, &fakeExportStore{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/admin/reports/dashboard", nil)

	handler.Dashboard(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "demo", envelope.Meta["source"])

	data, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, data, "quarterlyRevenue")
	assert.Contains(t, data, "referralSources")
	assert.Contains(t, data, "repeatCustomers")
}

func TestRepeatCustomersLiveMeta(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newAdminHandler(t, &fakeExportStore{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/admin/reports/repeat-customers", nil)

	handler.RepeatCustomers(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "live", envelope.Meta["source"])
}

func TestCreateExportRequiresSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newAdminHandler(t, &fakeExportStore{})

	rec, c := postJSON(t, dto.CreateExportRequest{Type: "overview", Format: "csv"})
	handler.CreateExport(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateExportRejectsBadType(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newAdminHandler(t, &fakeExportStore{})

	rec, c := postJSON(t, dto.CreateExportRequest{Type: "unknown-report", Format: "csv"})
	c.Set(middleware.ContextSessionKey, &models.SessionClaims{AccountID: "admin-1", Role: models.RoleAdmin})
	handler.CreateExport(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportStatusNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newAdminHandler(t, &fakeExportStore{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/admin/reports/export/missing", nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	handler.ExportStatus(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExportStatusReturnsProgress(t *testing.T) {
	gin.SetMode(gin.TestMode)
	exports := &fakeExportStore{records: map[string]*models.ReportExport{
		"exp-1": {ID: "exp-1", Type: models.ReportTypeOverview, Format: models.ReportFormatCSV, Status: models.ExportStatusProcessing, Progress: 60, CreatedBy: "admin-1"},
	}}
	handler := newAdminHandler(t, exports)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/admin/reports/export/exp-1", nil)
	c.Params = gin.Params{{Key: "id", Value: "exp-1"}}

	handler.ExportStatus(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	data, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, string(models.ExportStatusProcessing), data["status"])
	assert.InDelta(t, 60, data["progress"], 0.001)
}

func TestDownloadExportMissingToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newAdminHandler(t, &fakeExportStore{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/admin/reports/export/download", nil)

	handler.DownloadExport(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
