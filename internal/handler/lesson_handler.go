package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/muselink/muselink-api/internal/models"
	"github.com/muselink/muselink-api/internal/service"
	appErrors "github.com/muselink/muselink-api/pkg/errors"
	"github.com/muselink/muselink-api/pkg/response"
)

// LessonHandler wires HTTP endpoints to the lesson service.
type LessonHandler struct {
	service *service.LessonService
	metrics *service.MetricsService
}

// NewLessonHandler creates a new handler.
func NewLessonHandler(svc *service.LessonService, metrics *service.MetricsService) *LessonHandler {
	return &LessonHandler{service: svc, metrics: metrics}
}

// BookLesson godoc
// @Summary Book a dated lesson
// @Description Book a (date, time) slot with a teacher; occupied slots are rejected
// @Tags Lessons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.BookLessonRequest true "Booking payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /lessons/book [post]
func (h *LessonHandler) BookLesson(c *gin.Context) {
	var req models.BookLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid booking payload"))
		return
	}

	lesson, err := h.service.BookLesson(c.Request.Context(), req)
	if err != nil {
		if appErrors.FromError(err).Code == appErrors.ErrSlotConflict.Code {
			h.metrics.RecordBooking("slot_conflict")
		} else {
			h.metrics.RecordBooking("error")
		}
		response.Error(c, err)
		return
	}

	h.metrics.RecordBooking("ok")
	response.Created(c, lesson)
}

// ListLessons godoc
// @Summary List dated lessons
// @Description List lessons for a teacher or a student, ordered by date and time
// @Tags Lessons
// @Accept json
// @Produce json
// @Param payload body models.ListLessonsRequest true "Lookup payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /lessons/list [post]
func (h *LessonHandler) ListLessons(c *gin.Context) {
	var req models.ListLessonsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid lookup payload"))
		return
	}

	lessons, err := h.service.ListLessons(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, lessons, nil)
}

// UpdateStatus godoc
// @Summary Complete or cancel a lesson
// @Description Transition a scheduled lesson; cancelling frees its slot
// @Tags Lessons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.UpdateLessonStatusRequest true "Status payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /lessons/status [post]
func (h *LessonHandler) UpdateStatus(c *gin.Context) {
	var req models.UpdateLessonStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid status payload"))
		return
	}

	lesson, err := h.service.UpdateStatus(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, lesson, nil)
}
