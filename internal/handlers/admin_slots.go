package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"slotkeeper/internal/middleware"
	"slotkeeper/internal/models"
	"slotkeeper/internal/repository"

	"github.com/gin-gonic/gin"
)

const adminSlotsPath = "/admin/slots"

var slotStatuses = map[string]struct{}{
	models.SlotAvailable:   {},
	models.SlotOccupied:    {},
	models.SlotMaintenance: {},
}

func (h *Handler) AdminSlots(c *gin.Context) {
	slots, err := h.slots.List(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to load slots", "/dashboard")
		return
	}
	render(c, http.StatusOK, "admin_slots.html", gin.H{"slots": slots})
}

func (h *Handler) ShowAddSlot(c *gin.Context) {
	render(c, http.StatusOK, "add_slot.html", gin.H{"error": ""})
}

func (h *Handler) AddSlot(c *gin.Context) {
	admin, _ := middleware.CurrentUser(c)
	ctx := c.Request.Context()

	name := strings.TrimSpace(c.PostForm("slot_name"))
	location := strings.TrimSpace(c.PostForm("location"))
	capacityStr := strings.TrimSpace(c.PostForm("capacity"))

	renderError := func(msg string) {
		render(c, http.StatusBadRequest, "add_slot.html", gin.H{
			"error":    msg,
			"slotName": name,
			"location": location,
			"capacity": capacityStr,
		})
	}

	if name == "" || location == "" || capacityStr == "" {
		renderError("All fields are required")
		return
	}
	capacity, problem := positiveInt(capacityStr, 0)
	if problem != "" {
		renderError("Capacity " + problem)
		return
	}

	slot, err := h.slots.Create(ctx, name, location, capacity)
	if errors.Is(err, repository.ErrDuplicate) {
		renderError("Slot with this name already exists")
		return
	}
	if err != nil {
		h.fail(c, err, "Failed to add slot", "/admin/add_slot")
		return
	}

	h.record(ctx, admin.ID, "slot", slot.ID, "create", fmt.Sprintf("Slot %s created, capacity %d", slot.SlotName, slot.Capacity))
	flash(c, middleware.FlashSuccess, "Slot added successfully")
	redirect(c, adminSlotsPath)
}

// slotAction достаёт id ячейки из пути; при ошибке уже отправлен redirect.
func slotAction(c *gin.Context) (uint, bool) {
	id, ok := paramID(c)
	if !ok {
		flash(c, middleware.FlashError, "Slot not found")
		redirect(c, adminSlotsPath)
	}
	return id, ok
}

// slotResult превращает ошибку репозитория в flash и redirect на список ячеек.
func (h *Handler) slotResult(c *gin.Context, err error, success, failure string) bool {
	switch {
	case err == nil:
		flash(c, middleware.FlashSuccess, success)
		redirect(c, adminSlotsPath)
		return true
	case errors.Is(err, repository.ErrNotFound):
		flash(c, middleware.FlashError, "Slot not found")
	case errors.Is(err, repository.ErrCapacityFloor):
		flash(c, middleware.FlashError, "Failed to decrease slot capacity or would result in capacity less than 1")
	case errors.Is(err, repository.ErrSlotInUse):
		flash(c, middleware.FlashError, "Cannot delete slot with existing requests")
	case errors.Is(err, repository.ErrValidation):
		flash(c, middleware.FlashError, failure)
	default:
		h.fail(c, err, failure, adminSlotsPath)
		return false
	}
	redirect(c, adminSlotsPath)
	return false
}

func (h *Handler) UpdateSlot(c *gin.Context) {
	id, ok := slotAction(c)
	if !ok {
		return
	}
	admin, _ := middleware.CurrentUser(c)

	isFull := c.PostForm("is_full") == "true"
	status := strings.TrimSpace(c.PostForm("status"))
	if status == "" {
		status = models.SlotAvailable
	}
	if _, known := slotStatuses[status]; !known {
		flash(c, middleware.FlashError, "Invalid slot status")
		redirect(c, adminSlotsPath)
		return
	}

	err := h.slots.UpdateStatus(c.Request.Context(), id, isFull, status)
	if h.slotResult(c, err, "Slot updated successfully", "Failed to update slot") {
		h.record(c.Request.Context(), admin.ID, "slot", id, "status_change",
			fmt.Sprintf("is_full=%t status=%s", isFull, status))
	}
}

func (h *Handler) UpdateCapacity(c *gin.Context) {
	id, ok := slotAction(c)
	if !ok {
		return
	}
	admin, _ := middleware.CurrentUser(c)

	capacity, problem := positiveInt(strings.TrimSpace(c.PostForm("capacity")), 0)
	if problem != "" {
		flash(c, middleware.FlashError, "Capacity "+problem)
		redirect(c, adminSlotsPath)
		return
	}

	err := h.slots.UpdateCapacity(c.Request.Context(), id, capacity)
	if h.slotResult(c, err, "Slot capacity updated successfully", "Failed to update slot capacity") {
		h.record(c.Request.Context(), admin.ID, "slot", id, "capacity_set", fmt.Sprintf("capacity=%d", capacity))
	}
}

func (h *Handler) IncreaseCapacity(c *gin.Context) {
	h.adjustCapacity(c, 1)
}

func (h *Handler) DecreaseCapacity(c *gin.Context) {
	h.adjustCapacity(c, -1)
}

func (h *Handler) adjustCapacity(c *gin.Context, sign int) {
	id, ok := slotAction(c)
	if !ok {
		return
	}
	admin, _ := middleware.CurrentUser(c)
	ctx := c.Request.Context()

	amount, problem := positiveInt(strings.TrimSpace(c.PostForm("amount")), 1)
	if problem != "" {
		flash(c, middleware.FlashError, "Amount "+problem)
		redirect(c, adminSlotsPath)
		return
	}

	if sign > 0 {
		err := h.slots.IncreaseCapacity(ctx, id, amount)
		if h.slotResult(c, err, fmt.Sprintf("Slot capacity increased by %d", amount), "Failed to increase slot capacity") {
			h.record(ctx, admin.ID, "slot", id, "capacity_increase", fmt.Sprintf("+%d", amount))
		}
		return
	}

	err := h.slots.DecreaseCapacity(ctx, id, amount)
	if h.slotResult(c, err, fmt.Sprintf("Slot capacity decreased by %d", amount), "Failed to decrease slot capacity") {
		h.record(ctx, admin.ID, "slot", id, "capacity_decrease", fmt.Sprintf("-%d", amount))
	}
}

func (h *Handler) DeleteSlot(c *gin.Context) {
	id, ok := slotAction(c)
	if !ok {
		return
	}
	admin, _ := middleware.CurrentUser(c)

	err := h.slots.Delete(c.Request.Context(), id)
	if h.slotResult(c, err, "Slot deleted successfully", "Failed to delete slot") {
		h.record(c.Request.Context(), admin.ID, "slot", id, "delete", fmt.Sprintf("Slot #%d deleted", id))
	}
}
