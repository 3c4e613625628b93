package handlers

import (
	"errors"
	"net/http"
	"strings"

	"slotkeeper/internal/middleware"
	"slotkeeper/internal/models"
	"slotkeeper/internal/repository"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (h *Handler) Index(c *gin.Context) {
	if _, ok := middleware.CurrentUser(c); ok {
		redirect(c, "/dashboard")
		return
	}
	render(c, http.StatusOK, "index.html", nil)
}

func (h *Handler) ShowRegister(c *gin.Context) {
	render(c, http.StatusOK, "register.html", gin.H{"error": ""})
}

type registerForm struct {
	Username        string `form:"username"`
	Password        string `form:"password"`
	ConfirmPassword string `form:"confirm_password"`
	Email           string `form:"email"`
}

func (h *Handler) Register(c *gin.Context) {
	var form registerForm
	if err := c.ShouldBind(&form); err != nil {
		render(c, http.StatusBadRequest, "register.html", gin.H{"error": "Invalid form data"})
		return
	}

	form.Username = strings.TrimSpace(form.Username)
	form.Email = strings.TrimSpace(form.Email)
	fail := func(msg string) {
		render(c, http.StatusBadRequest, "register.html", gin.H{"error": msg, "form": form})
	}

	if form.Username == "" || form.Password == "" || form.ConfirmPassword == "" || form.Email == "" {
		fail("All fields are required")
		return
	}
	if !strings.Contains(form.Email, "@") {
		fail("Invalid email address")
		return
	}
	if form.Password != form.ConfirmPassword {
		fail("Passwords do not match")
		return
	}

	ctx := c.Request.Context()
	if _, err := h.users.GetByUsername(ctx, form.Username); err == nil {
		fail("Username already exists")
		return
	}
	if _, err := h.users.GetByEmail(ctx, form.Email); err == nil {
		fail("Email already exists")
		return
	}

	user, err := h.users.Create(ctx, form.Username, form.Password, form.Email, models.RoleUser)
	if errors.Is(err, repository.ErrDuplicate) {
		fail("Username or email already exists")
		return
	}
	if err != nil {
		h.log.Error("register user", zap.String("username", form.Username), zap.Error(err))
		fail("Registration failed")
		return
	}

	h.log.Info("user registered", zap.Uint("user_id", user.ID), zap.String("username", user.Username))
	flash(c, middleware.FlashSuccess, "Registration successful! Please login.")
	redirect(c, "/login")
}

func (h *Handler) ShowLogin(c *gin.Context) {
	render(c, http.StatusOK, "login.html", gin.H{"error": ""})
}

type loginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

func (h *Handler) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		render(c, http.StatusBadRequest, "login.html", gin.H{"error": "Invalid form data"})
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), strings.TrimSpace(form.Username), form.Password)
	if errors.Is(err, repository.ErrInvalidCredentials) {
		render(c, http.StatusBadRequest, "login.html", gin.H{"error": "Invalid username or password"})
		return
	}
	if err != nil {
		h.log.Error("login", zap.Error(err))
		render(c, http.StatusInternalServerError, "login.html", gin.H{"error": "Login failed, please try again"})
		return
	}

	sess := sessions.Default(c)
	sess.Clear()
	sess.Set(middleware.SessionUserID, user.ID)
	sess.Set(middleware.SessionUsername, user.Username)
	sess.Set(middleware.SessionRole, string(user.Role))
	sess.AddFlash("Welcome back, "+user.Username+"!", middleware.FlashSuccess)
	if err := sess.Save(); err != nil {
		h.log.Error("save session", zap.Error(err))
		render(c, http.StatusInternalServerError, "login.html", gin.H{"error": "Login failed, please try again"})
		return
	}

	redirect(c, "/dashboard")
}

func (h *Handler) Logout(c *gin.Context) {
	sess := sessions.Default(c)
	sess.Clear()
	sess.AddFlash("You have been logged out", middleware.FlashInfo)
	_ = sess.Save()
	redirect(c, "/")
}
