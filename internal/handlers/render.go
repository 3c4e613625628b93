package handlers

import (
	"context"
	"net/http"
	"strconv"

	"slotkeeper/internal/middleware"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// render — обёртка над c.HTML: прокидывает CurrentUser и накопленные flash-сообщения.
func render(c *gin.Context, status int, tmpl string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}

	if u, ok := middleware.CurrentUser(c); ok {
		data["CurrentUser"] = u
		data["CurrentUsername"] = u.Username
		data["IsAdmin"] = u.IsAdmin()
	}

	sess := sessions.Default(c)
	flashes := gin.H{
		middleware.FlashError:   sess.Flashes(middleware.FlashError),
		middleware.FlashSuccess: sess.Flashes(middleware.FlashSuccess),
		middleware.FlashInfo:    sess.Flashes(middleware.FlashInfo),
	}
	_ = sess.Save()
	data["flashes"] = flashes

	c.HTML(status, tmpl, data)
}

func flash(c *gin.Context, kind, msg string) {
	sess := sessions.Default(c)
	sess.AddFlash(msg, kind)
	_ = sess.Save()
}

func redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
}

// fail логирует неожиданную ошибку и показывает пользователю общее сообщение.
func (h *Handler) fail(c *gin.Context, err error, msg, location string) {
	h.log.Error(msg,
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", c.Writer.Header().Get(middleware.RequestIDHeader)),
	)
	_ = c.Error(err)
	flash(c, middleware.FlashError, msg)
	redirect(c, location)
}

// failPage — как fail, но страница ошибки отдаётся сразу, без redirect.
// Нужна там, куда ведут redirect'ы из fail (например, /dashboard).
func (h *Handler) failPage(c *gin.Context, err error, msg string) {
	h.log.Error(msg,
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", c.Writer.Header().Get(middleware.RequestIDHeader)),
	)
	_ = c.Error(err)
	render(c, http.StatusInternalServerError, "error.html", gin.H{"error": msg})
}

func (h *Handler) record(ctx context.Context, userID uint, entity string, entityID uint, action, details string) {
	if err := h.audit.Record(ctx, userID, entity, entityID, action, details); err != nil {
		h.log.Warn("audit log write failed", zap.String("entity", entity), zap.Uint("entity_id", entityID), zap.Error(err))
	}
}

func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// positiveInt разбирает поле формы; пустое значение заменяется на def (если def > 0).
func positiveInt(raw string, def int) (int, string) {
	if raw == "" && def > 0 {
		return def, ""
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, "must be a valid number"
	}
	if n <= 0 {
		return 0, "must be a positive number"
	}
	return n, ""
}
