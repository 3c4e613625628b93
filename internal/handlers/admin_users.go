package handlers

import (
	"errors"
	"net/http"

	"slotkeeper/internal/middleware"
	"slotkeeper/internal/models"
	"slotkeeper/internal/repository"

	"github.com/gin-gonic/gin"
)

const adminUsersPath = "/admin/users"

func (h *Handler) AdminUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to load users", "/dashboard")
		return
	}
	render(c, http.StatusOK, "admin_users.html", gin.H{"users": users})
}

// ToggleUserRole переключает admin ↔ user. Свою роль менять нельзя.
func (h *Handler) ToggleUserRole(c *gin.Context) {
	admin, _ := middleware.CurrentUser(c)
	ctx := c.Request.Context()

	id, ok := paramID(c)
	if !ok {
		flash(c, middleware.FlashError, "User not found")
		redirect(c, adminUsersPath)
		return
	}
	if id == admin.ID {
		flash(c, middleware.FlashError, "Cannot change your own role")
		redirect(c, adminUsersPath)
		return
	}

	user, err := h.users.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		flash(c, middleware.FlashError, "User not found")
		redirect(c, adminUsersPath)
		return
	}
	if err != nil {
		h.fail(c, err, "Failed to update user role", adminUsersPath)
		return
	}

	next := models.RoleAdmin
	if user.Role == models.RoleAdmin {
		next = models.RoleUser
	}
	if err := h.users.UpdateRole(ctx, id, next); err != nil {
		h.fail(c, err, "Failed to update user role", adminUsersPath)
		return
	}

	h.record(ctx, admin.ID, "user", id, "role_change", user.Username+" → "+string(next))
	flash(c, middleware.FlashSuccess, "User role updated to "+string(next))
	redirect(c, adminUsersPath)
}
