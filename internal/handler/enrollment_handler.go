package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/muselink/muselink-api/internal/models"
	"github.com/muselink/muselink-api/internal/service"
	appErrors "github.com/muselink/muselink-api/pkg/errors"
	"github.com/muselink/muselink-api/pkg/response"
)

// EnrollmentHandler wires HTTP endpoints to the enrollment service.
type EnrollmentHandler struct {
	service *service.EnrollmentService
	metrics *service.MetricsService
}

// NewEnrollmentHandler creates a new handler.
func NewEnrollmentHandler(svc *service.EnrollmentService, metrics *service.MetricsService) *EnrollmentHandler {
	return &EnrollmentHandler{service: svc, metrics: metrics}
}

// Enroll godoc
// @Summary Enroll a student with a teacher
// @Description Register a recurring weekday enrollment; full rosters are rejected
// @Tags Enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.EnrollRequest true "Enrollment payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /enrollments [post]
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	var req models.EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid enrollment payload"))
		return
	}

	if err := h.service.Enroll(c.Request.Context(), req); err != nil {
		if appErrors.FromError(err).Code == appErrors.ErrCapacityExceeded.Code {
			h.metrics.RecordEnrollment("capacity_exceeded")
		} else {
			h.metrics.RecordEnrollment("error")
		}
		response.Error(c, err)
		return
	}

	h.metrics.RecordEnrollment("ok")
	response.Created(c, gin.H{"enrolled": true})
}

// ListEnrollments godoc
// @Summary List a student's enrollments
// @Description Return recurring enrollments with teacher info, Monday first
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param payload body models.ListEnrollmentsRequest true "Lookup payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /enrollments/list [post]
func (h *EnrollmentHandler) ListEnrollments(c *gin.Context) {
	var req models.ListEnrollmentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid lookup payload"))
		return
	}

	details, err := h.service.ListEnrollments(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, details, nil)
}
