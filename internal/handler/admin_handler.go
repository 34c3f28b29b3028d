package handler

import (
	"io"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/muselink/muselink-api/internal/dto"
	"github.com/muselink/muselink-api/internal/service"
	appErrors "github.com/muselink/muselink-api/pkg/errors"
	"github.com/muselink/muselink-api/pkg/response"
)

// AdminHandler wires admin reporting and export endpoints.
type AdminHandler struct {
	reports *service.ReportService
	exports *service.ExportService
	metrics *service.MetricsService
}

// NewAdminHandler creates a new handler.
func NewAdminHandler(reports *service.ReportService, exports *service.ExportService, metrics *service.MetricsService) *AdminHandler {
	return &AdminHandler{reports: reports, exports: exports, metrics: metrics}
}

func liveMeta() map[string]interface{} {
	return map[string]interface{}{"source": "live"}
}

func demoMeta() map[string]interface{} {
	return map[string]interface{}{"source": "demo"}
}

// RevenueByInstrument godoc
// @Summary Revenue per instrument
// @Tags Admin Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /admin/reports/revenue-by-instrument [get]
func (h *AdminHandler) RevenueByInstrument(c *gin.Context) {
	rows, err := h.reports.RevenueByInstrument(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil, liveMeta())
}

// RevenueByStudent godoc
// @Summary Revenue per student
// @Tags Admin Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /admin/reports/revenue-by-student [get]
func (h *AdminHandler) RevenueByStudent(c *gin.Context) {
	rows, err := h.reports.RevenueByStudent(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil, liveMeta())
}

// PopularInstruments godoc
// @Summary Enrollment counts per instrument
// @Tags Admin Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /admin/reports/popular-instruments [get]
func (h *AdminHandler) PopularInstruments(c *gin.Context) {
	rows, err := h.reports.PopularInstruments(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil, liveMeta())
}

// RepeatCustomers godoc
// @Summary Repeat-student ratio
// @Tags Admin Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /admin/reports/repeat-customers [get]
func (h *AdminHandler) RepeatCustomers(c *gin.Context) {
	stats, err := h.reports.RepeatCustomers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil, liveMeta())
}

// Overview godoc
// @Summary Platform-wide snapshot
// @Tags Admin Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /admin/reports/overview [get]
func (h *AdminHandler) Overview(c *gin.Context) {
	stats, err := h.reports.Overview(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil, liveMeta())
}

// Dashboard godoc
// @Summary Demo dashboard series
// @Description Canned quarterly revenue, referral and repeat-customer series
// @Tags Admin Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /admin/reports/dashboard [get]
func (h *AdminHandler) Dashboard(c *gin.Context) {
	response.JSON(c, http.StatusOK, gin.H{
		"quarterlyRevenue": h.reports.QuarterlyRevenue(),
		"referralSources":  h.reports.ReferralSources(),
		"repeatCustomers":  h.reports.DemoRepeatCustomers(),
	}, nil, demoMeta())
}

// CreateExport godoc
// @Summary Queue a report export
// @Description Render a report to CSV or PDF in the background
// @Tags Admin Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateExportRequest true "Export payload"
// @Success 202 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/reports/export [post]
func (h *AdminHandler) CreateExport(c *gin.Context) {
	claims, ok := sessionClaims(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.CreateExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export payload"))
		return
	}

	job, err := h.exports.CreateExport(c.Request.Context(), claims.AccountID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.metrics.RecordExport(req.Format)
	response.JSON(c, http.StatusAccepted, job, nil)
}

// ExportStatus godoc
// @Summary Poll a queued export
// @Tags Admin Reports
// @Produce json
// @Security BearerAuth
// @Param id path string true "Export identifier"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/reports/export/{id} [get]
func (h *AdminHandler) ExportStatus(c *gin.Context) {
	status, err := h.exports.Status(c.Request.Context(), dto.ExportStatusRequest{ExportID: c.Param("id")})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status, nil)
}

// DownloadExport godoc
// @Summary Download a finished export
// @Description Resolve a signed token to the stored artifact
// @Tags Admin Reports
// @Produce octet-stream
// @Param token query string true "Signed download token"
// @Success 200 {file} binary
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/reports/export/download [get]
func (h *AdminHandler) DownloadExport(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token query parameter required"))
		return
	}

	file, name, err := h.exports.Download(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close()

	contentType := "text/csv"
	if filepath.Ext(name) == ".pdf" {
		contentType = "application/pdf"
	}

	payload, err := io.ReadAll(file)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read export artifact"))
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filepath.Base(name))
	c.Data(http.StatusOK, contentType, payload)
}
