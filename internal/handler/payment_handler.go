package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/muselink/muselink-api/internal/models"
	"github.com/muselink/muselink-api/internal/service"
	appErrors "github.com/muselink/muselink-api/pkg/errors"
	"github.com/muselink/muselink-api/pkg/response"
)

// PaymentHandler wires HTTP endpoints to the payment service.
type PaymentHandler struct {
	service *service.PaymentService
}

// NewPaymentHandler creates a new handler.
func NewPaymentHandler(svc *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: svc}
}

// ProcessPayment godoc
// @Summary Record a payment
// @Description Record a payment from a student to a teacher, deducting the platform fee
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.ProcessPaymentRequest true "Payment payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /payments [post]
func (h *PaymentHandler) ProcessPayment(c *gin.Context) {
	var req models.ProcessPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payment payload"))
		return
	}

	payment, err := h.service.ProcessPayment(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, payment)
}

// PaymentHistory godoc
// @Summary List a student's payments
// @Description Return a student's payments, newest first
// @Tags Payments
// @Accept json
// @Produce json
// @Param payload body models.PaymentHistoryRequest true "Lookup payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /payments/history [post]
func (h *PaymentHandler) PaymentHistory(c *gin.Context) {
	var req models.PaymentHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid lookup payload"))
		return
	}

	history, err := h.service.PaymentHistory(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, history, nil)
}

// TeacherEarnings godoc
// @Summary Summarise a teacher's earnings
// @Description Aggregate completed payments, fees and net take for a teacher
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.TeacherEarningsRequest true "Lookup payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /payments/earnings [post]
func (h *PaymentHandler) TeacherEarnings(c *gin.Context) {
	var req models.TeacherEarningsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid lookup payload"))
		return
	}

	earnings, err := h.service.TeacherEarningsSummary(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, earnings, nil)
}
