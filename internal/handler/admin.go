package handler

import (
	"net/http"

	"loyaltypos/internal/apierror"
	"loyaltypos/internal/service"
	"loyaltypos/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type AdminHandler struct {
	svc        service.AdminService
	dispatcher *worker.Dispatcher
}

func NewAdminHandler(svc service.AdminService, dispatcher *worker.Dispatcher) *AdminHandler {
	return &AdminHandler{svc: svc, dispatcher: dispatcher}
}

// Reset godoc
// @Summary      Clear all loyalty data
// @Description  Deletes all customers, payments, redemptions and vouchers. Operator accounts are kept.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      204
// @Failure      500 {object} apierror.APIError
// @Router       /v1/admin/reset [post]
func (h *AdminHandler) Reset(c *gin.Context) {
	if err := h.svc.ClearAllData(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to clear data"))
		return
	}
	c.Status(http.StatusNoContent)
}

// Snapshot godoc
// @Summary      Trigger a remote snapshot export
// @Description  Enqueues a job that commits the customer table as CSV to the configured GitHub repository.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      202 {object} map[string]string
// @Failure      500 {object} apierror.APIError
// @Router       /v1/admin/snapshot [post]
func (h *AdminHandler) Snapshot(c *gin.Context) {
	if h.dispatcher == nil {
		c.JSON(http.StatusServiceUnavailable, apierror.New("snapshot export not configured"))
		return
	}
	err := h.dispatcher.EnqueueSnapshot(c.Request.Context(), worker.SnapshotJobPayload{Reason: "manual trigger"})
	if err != nil {
		log.Error().Err(err).Msg("failed to enqueue snapshot job")
		c.JSON(http.StatusInternalServerError, apierror.New("failed to enqueue snapshot"))
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "enqueued"})
}
