package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"slotkeeper/internal/middleware"
	"slotkeeper/internal/models"
	"slotkeeper/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

func (h *Handler) ShowRequestSlot(c *gin.Context) {
	h.renderRequestSlot(c, http.StatusOK, "")
}

func (h *Handler) renderRequestSlot(c *gin.Context, status int, msg string) {
	slots, err := h.slots.ListAvailable(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to load slots", "/dashboard")
		return
	}
	render(c, status, "request_slot.html", gin.H{
		"availableSlots": slots,
		"error":          msg,
	})
}

func (h *Handler) RequestSlot(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	ctx := c.Request.Context()

	slotIDStr := strings.TrimSpace(c.PostForm("slot_id"))
	startStr := strings.TrimSpace(c.PostForm("start_date"))
	endStr := strings.TrimSpace(c.PostForm("end_date"))
	notes := strings.TrimSpace(c.PostForm("notes"))

	if slotIDStr == "" || startStr == "" || endStr == "" {
		h.renderRequestSlot(c, http.StatusBadRequest, "Slot, start date, and end date are required")
		return
	}

	slotID, err := strconv.ParseUint(slotIDStr, 10, 64)
	if err != nil || slotID == 0 {
		h.renderRequestSlot(c, http.StatusBadRequest, "Select a valid slot")
		return
	}

	start, err := time.Parse(dateLayout, startStr)
	if err != nil {
		h.renderRequestSlot(c, http.StatusBadRequest, "Start date must be in YYYY-MM-DD format")
		return
	}
	end, err := time.Parse(dateLayout, endStr)
	if err != nil {
		h.renderRequestSlot(c, http.StatusBadRequest, "End date must be in YYYY-MM-DD format")
		return
	}
	if end.Before(start) {
		h.renderRequestSlot(c, http.StatusBadRequest, "End date cannot be before start date")
		return
	}

	slot, err := h.slots.GetByID(ctx, uint(slotID))
	if errors.Is(err, repository.ErrNotFound) {
		h.renderRequestSlot(c, http.StatusBadRequest, "Slot not found")
		return
	}
	if err != nil {
		h.fail(c, err, "Failed to submit slot request", "/request_slot")
		return
	}

	req, err := h.requests.Create(ctx, user.ID, slot.ID, start, end, notes)
	if err != nil {
		h.fail(c, err, "Failed to submit slot request", "/request_slot")
		return
	}

	h.log.Info("slot requested",
		zap.Uint("request_id", req.ID),
		zap.Uint("user_id", user.ID),
		zap.String("slot", slot.SlotName),
	)
	flash(c, middleware.FlashSuccess, "Slot request submitted successfully")
	redirect(c, "/my_requests")
}

func (h *Handler) MyRequests(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	mine, err := h.requests.ListByUser(c.Request.Context(), user.ID)
	if err != nil {
		h.fail(c, err, "Failed to load your requests", "/dashboard")
		return
	}
	render(c, http.StatusOK, "my_requests.html", gin.H{"requests": mine})
}

// CancelRequest — отменить может только владелец и только pending-заявку.
func (h *Handler) CancelRequest(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	ctx := c.Request.Context()

	id, ok := paramID(c)
	if !ok {
		flash(c, middleware.FlashError, "Request not found")
		redirect(c, "/my_requests")
		return
	}

	req, err := h.requests.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		flash(c, middleware.FlashError, "Request not found")
		redirect(c, "/my_requests")
		return
	}
	if err != nil {
		h.fail(c, err, "Failed to cancel request", "/my_requests")
		return
	}

	if req.UserID != user.ID {
		flash(c, middleware.FlashError, "You do not have permission to cancel this request")
		redirect(c, "/my_requests")
		return
	}
	if req.Status != models.RequestPending {
		flash(c, middleware.FlashError, "Can only cancel pending requests")
		redirect(c, "/my_requests")
		return
	}

	err = h.requests.Transition(ctx, id, models.RequestPending, models.RequestCancelled)
	if errors.Is(err, repository.ErrStaleStatus) {
		flash(c, middleware.FlashError, "Can only cancel pending requests")
		redirect(c, "/my_requests")
		return
	}
	if err != nil {
		h.fail(c, err, "Failed to cancel request", "/my_requests")
		return
	}

	h.record(ctx, user.ID, "slot_request", id, "cancel", fmt.Sprintf("Request #%d cancelled by owner", id))
	flash(c, middleware.FlashSuccess, "Request cancelled successfully")
	redirect(c, "/my_requests")
}
