package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/muselink/muselink-api/internal/models"
	"github.com/muselink/muselink-api/internal/service"
	appErrors "github.com/muselink/muselink-api/pkg/errors"
	"github.com/muselink/muselink-api/pkg/response"
)

// AvailabilityHandler wires HTTP endpoints to the availability service.
type AvailabilityHandler struct {
	service *service.AvailabilityService
}

// NewAvailabilityHandler creates a new handler.
func NewAvailabilityHandler(svc *service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{service: svc}
}

// SetAvailability godoc
// @Summary Replace a weekly schedule
// @Description Replace the teacher's whole weekly schedule with the submitted slots
// @Tags Availability
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.SetAvailabilityRequest true "Schedule payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /availability/set [post]
func (h *AvailabilityHandler) SetAvailability(c *gin.Context) {
	var req models.SetAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid availability payload"))
		return
	}

	slots, err := h.service.SetAvailability(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, slots, nil)
}

// AddAvailability godoc
// @Summary Add or refresh one slot
// @Description Upsert a single availability window keyed by (day, start)
// @Tags Availability
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.AddAvailabilityRequest true "Slot payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /availability/add [post]
func (h *AvailabilityHandler) AddAvailability(c *gin.Context) {
	var req models.AddAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid availability payload"))
		return
	}

	slots, err := h.service.AddAvailability(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, slots, nil)
}

// GetAvailability godoc
// @Summary Fetch a weekly schedule
// @Description Return the teacher's slots ordered Monday through Sunday
// @Tags Availability
// @Accept json
// @Produce json
// @Param payload body models.GetAvailabilityRequest true "Lookup payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /availability/get [post]
func (h *AvailabilityHandler) GetAvailability(c *gin.Context) {
	var req models.GetAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid lookup payload"))
		return
	}

	slots, err := h.service.GetAvailability(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, slots, nil)
}
