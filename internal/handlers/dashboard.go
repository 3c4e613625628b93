package handlers

import (
	"errors"
	"net/http"
	"strings"

	"slotkeeper/internal/middleware"
	"slotkeeper/internal/repository"

	"github.com/gin-gonic/gin"
)

// Dashboard — разная страница для администратора и обычного пользователя.
func (h *Handler) Dashboard(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	ctx := c.Request.Context()

	if user.IsAdmin() {
		pending, err := h.requests.ListPending(ctx)
		if err != nil {
			h.failPage(c, err, "Failed to load pending requests")
			return
		}
		slots, err := h.slots.List(ctx)
		if err != nil {
			h.failPage(c, err, "Failed to load slots")
			return
		}
		userCount, err := h.users.Count(ctx)
		if err != nil {
			h.failPage(c, err, "Failed to load users")
			return
		}
		render(c, http.StatusOK, "admin_dashboard.html", gin.H{
			"pendingRequests": pending,
			"slots":           slots,
			"userCount":       userCount,
		})
		return
	}

	mine, err := h.requests.ListByUser(ctx, user.ID)
	if err != nil {
		h.failPage(c, err, "Failed to load your requests")
		return
	}
	available, err := h.slots.ListAvailable(ctx)
	if err != nil {
		h.failPage(c, err, "Failed to load slots")
		return
	}
	render(c, http.StatusOK, "user_dashboard.html", gin.H{
		"requests":       mine,
		"availableSlots": available,
	})
}

func (h *Handler) Profile(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	render(c, http.StatusOK, "profile.html", gin.H{"user": user})
}

// UpdateProfile меняет email и/или пароль; каждая часть применяется независимо.
func (h *Handler) UpdateProfile(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	ctx := c.Request.Context()

	email := strings.TrimSpace(c.PostForm("email"))
	current := c.PostForm("current_password")
	next := c.PostForm("new_password")
	confirm := c.PostForm("confirm_password")

	if email != "" && email != user.Email {
		if !strings.Contains(email, "@") {
			flash(c, middleware.FlashError, "Invalid email address")
			redirect(c, "/profile")
			return
		}
		err := h.users.UpdateEmail(ctx, user.ID, email)
		if errors.Is(err, repository.ErrDuplicate) {
			flash(c, middleware.FlashError, "Email already exists")
			redirect(c, "/profile")
			return
		}
		if err != nil {
			h.fail(c, err, "Failed to update email", "/profile")
			return
		}
		flash(c, middleware.FlashSuccess, "Email updated successfully")
	}

	if current != "" && next != "" && confirm != "" {
		if next != confirm {
			flash(c, middleware.FlashError, "New passwords do not match")
			redirect(c, "/profile")
			return
		}
		err := h.users.UpdatePassword(ctx, user.ID, current, next)
		if errors.Is(err, repository.ErrInvalidCredentials) {
			flash(c, middleware.FlashError, "Current password is incorrect")
			redirect(c, "/profile")
			return
		}
		if err != nil {
			h.fail(c, err, "Failed to update password", "/profile")
			return
		}
		flash(c, middleware.FlashSuccess, "Password updated successfully")
	}

	redirect(c, "/profile")
}
