package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"slotkeeper/internal/middleware"
	"slotkeeper/internal/models"
	"slotkeeper/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const adminRequestsPath = "/admin/requests"

func (h *Handler) AdminRequests(c *gin.Context) {
	all, err := h.requests.ListAll(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to load requests", "/dashboard")
		return
	}
	render(c, http.StatusOK, "admin_requests.html", gin.H{"requests": all})
}

// UpdateRequest — одобрение или отклонение pending-заявки.
// Одобрение занимает ячейку (is_full = true, status = occupied).
func (h *Handler) UpdateRequest(c *gin.Context) {
	admin, _ := middleware.CurrentUser(c)
	ctx := c.Request.Context()

	id, ok := paramID(c)
	if !ok {
		flash(c, middleware.FlashError, "Request not found")
		redirect(c, adminRequestsPath)
		return
	}

	var err error
	status := models.RequestStatus(c.PostForm("status"))
	switch status {
	case models.RequestApproved:
		var req *models.SlotRequest
		req, err = h.requests.Approve(ctx, id)
		if err == nil {
			h.log.Info("slot request approved", zap.Uint("request_id", id), zap.Uint("slot_id", req.SlotID))
		}
	case models.RequestRejected:
		err = h.requests.Transition(ctx, id, models.RequestPending, models.RequestRejected)
	default:
		flash(c, middleware.FlashError, "Invalid status")
		redirect(c, adminRequestsPath)
		return
	}

	switch {
	case err == nil:
		h.record(ctx, admin.ID, "slot_request", id, "status_change", fmt.Sprintf("Request #%d %s", id, status))
		flash(c, middleware.FlashSuccess, "Request updated successfully")
	case errors.Is(err, repository.ErrNotFound):
		flash(c, middleware.FlashError, "Request not found")
	case errors.Is(err, repository.ErrStaleStatus):
		flash(c, middleware.FlashError, "Only pending requests can be approved or rejected")
	default:
		h.fail(c, err, "Failed to update request", adminRequestsPath)
		return
	}
	redirect(c, adminRequestsPath)
}
