package handler

import (
	"errors"
	"net/http"

	"loyaltypos/internal/apierror"
	"loyaltypos/internal/dto"
	"loyaltypos/internal/service"

	"github.com/gin-gonic/gin"
)

type CustomersHandler struct{ svc service.CustomerService }

func NewCustomersHandler(svc service.CustomerService) *CustomersHandler {
	return &CustomersHandler{svc: svc}
}

// Save godoc
// @Summary      Create or update a customer profile
// @Description  Registers the birthday for an 8-digit phone. Creates the customer on first call, updates the birthday afterwards.
// @Tags         customers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        phone path string                  true "8-digit customer phone"
// @Param        body  body dto.SaveCustomerRequest true "Profile data"
// @Success      200   {object} dto.CustomerResponse
// @Failure      400   {object} apierror.APIError
// @Router       /v1/customers/{phone} [put]
func (h *CustomersHandler) Save(c *gin.Context) {
	var req dto.SaveCustomerRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.SaveOrUpdate(c.Request.Context(), c.Param("phone"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary      Fetch a customer profile
// @Description  Returns the profile with the cached point balance refreshed against the ledger.
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Param        phone path string true "8-digit customer phone"
// @Success      200   {object} dto.CustomerResponse
// @Failure      404   {object} apierror.APIError
// @Router       /v1/customers/{phone} [get]
func (h *CustomersHandler) Get(c *gin.Context) {
	resp, err := h.svc.Get(c.Request.Context(), c.Param("phone"))
	if err != nil {
		if errors.Is(err, service.ErrCustomerNotFound) {
			c.JSON(http.StatusNotFound, apierror.New(err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Balance godoc
// @Summary      Current unexpired point balance
// @Description  Recomputes the balance from the payment and redemption logs at request time.
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Param        phone path string true "8-digit customer phone"
// @Success      200   {object} dto.BalanceResponse
// @Failure      400   {object} apierror.APIError
// @Router       /v1/customers/{phone}/points [get]
func (h *CustomersHandler) Balance(c *gin.Context) {
	resp, err := h.svc.Balance(c.Request.Context(), c.Param("phone"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List godoc
// @Summary      List all customers
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.CustomerResponse
// @Router       /v1/customers [get]
func (h *CustomersHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list customers"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
