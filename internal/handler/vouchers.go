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

type VouchersHandler struct{ svc service.VoucherService }

func NewVouchersHandler(svc service.VoucherService) *VouchersHandler {
	return &VouchersHandler{svc: svc}
}

// Issue godoc
// @Summary      Issue a reward voucher
// @Description  Buys a configured tier with points. Points are deducted immediately; the voucher code is printed for the customer.
// @Tags         vouchers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.IssueVoucherRequest true "Voucher purchase"
// @Success      201  {object} dto.VoucherResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/vouchers [post]
func (h *VouchersHandler) Issue(c *gin.Context) {
	var req dto.IssueVoucherRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Issue(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Redeem godoc
// @Summary      Redeem a voucher
// @Description  Marks the voucher as used. A voucher redeems exactly once.
// @Tags         vouchers
// @Produce      json
// @Security     BearerAuth
// @Param        code path string true "Voucher code"
// @Success      200  {object} dto.VoucherResponse
// @Failure      404  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/vouchers/{code}/redeem [post]
func (h *VouchersHandler) Redeem(c *gin.Context) {
	resp, err := h.svc.Redeem(c.Request.Context(), c.Param("code"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrVoucherNotFound):
			c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		case errors.Is(err, repository.ErrVoucherAlreadyRedeemed):
			c.JSON(http.StatusConflict, apierror.New(err.Error()))
		default:
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List godoc
// @Summary      List a customer's vouchers
// @Tags         vouchers
// @Produce      json
// @Security     BearerAuth
// @Param        phone query string true "8-digit customer phone"
// @Success      200   {object} dto.VoucherListResponse
// @Failure      400   {object} apierror.APIError
// @Router       /v1/vouchers [get]
func (h *VouchersHandler) List(c *gin.Context) {
	resp, err := h.svc.ListByPhone(c.Request.Context(), c.Query("phone"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Tiers godoc
// @Summary      List configured reward tiers
// @Tags         vouchers
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.RewardTierResponse
// @Router       /v1/rewards/tiers [get]
func (h *VouchersHandler) Tiers(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Tiers())
}
