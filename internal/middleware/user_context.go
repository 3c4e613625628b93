package middleware

import (
	"context"
	"errors"

	"slotkeeper/internal/models"
	"slotkeeper/internal/repository"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	SessionUserID   = "user_id"
	SessionUsername = "username"
	SessionRole     = "role"

	FlashError   = "error"
	FlashSuccess = "success"
	FlashInfo    = "info"

	currentUserKey = "CurrentUser"
)

// UserLookup — то, что InjectUser нужно от хранилища пользователей.
type UserLookup interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
}

// InjectUser на каждый запрос перечитывает пользователя из базы.
// Удалённый пользователь или пользователь со сменившейся ролью сразу
// получает актуальные права; устаревшая сессия очищается.
func InjectUser(users UserLookup, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)

		if uid, ok := sess.Get(SessionUserID).(uint); ok && uid > 0 {
			user, err := users.GetByID(c.Request.Context(), uid)
			switch {
			case err == nil:
				c.Set(currentUserKey, *user)
				if sess.Get(SessionRole) != string(user.Role) {
					sess.Set(SessionRole, string(user.Role))
					_ = sess.Save()
				}
			case errors.Is(err, repository.ErrNotFound):
				sess.Clear()
				_ = sess.Save()
			default:
				log.Error("load current user", zap.Uint("user_id", uid), zap.Error(err))
			}
		}

		c.Next()
	}
}

// CurrentUser возвращает пользователя, положенного InjectUser.
func CurrentUser(c *gin.Context) (models.User, bool) {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return models.User{}, false
	}
	user, ok := v.(models.User)
	return user, ok
}
