package handler

import (
	"errors"
	"net/http"

	"loyaltypos/internal/apierror"
	"loyaltypos/internal/dto"
	"loyaltypos/internal/repository"
	"loyaltypos/internal/service"

	"github.com/gin-gonic/gin"
)

type PaymentsHandler struct{ svc service.PaymentService }

func NewPaymentsHandler(svc service.PaymentService) *PaymentsHandler {
	return &PaymentsHandler{svc: svc}
}

// Process godoc
// @Summary      Process a payment
// @Description  Applies the birthday discount, redeems points per the configured policy, records the earn/spend events and returns the loyalty breakdown.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.ProcessPaymentRequest true "Payment details"
// @Success      201  {object} dto.PaymentResponse
// @Failure      400  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/payments [post]
func (h *PaymentsHandler) Process(c *gin.Context) {
	var req dto.ProcessPaymentRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.ProcessPayment(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			c.JSON(http.StatusConflict, apierror.New("concurrent update, please retry"))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary      List payments
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        phone query string false "8-digit customer phone"
// @Param        date  query string false "Date YYYY-MM-DD"
// @Param        page  query int    false "Page (default 1)"
// @Param        limit query int    false "Rows per page (default 50)"
// @Success      200   {object} dto.PaymentListResponse
// @Failure      400   {object} apierror.APIError
// @Router       /v1/payments [get]
func (h *PaymentsHandler) List(c *gin.Context) {
	var filter dto.PaymentFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListPayments(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list payments"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
