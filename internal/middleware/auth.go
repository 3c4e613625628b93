package middleware

import (
	"net/http"

	"slotkeeper/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	msgLoginRequired = "Please login to access this page"
	msgAdminRequired = "You do not have permission to access this page"
)

// RequireAuth пускает только пользователей, найденных InjectUser.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			redirectWithFlash(c, "/login", msgLoginRequired)
			return
		}
		c.Next()
	}
}

// RequireAdmin проверяет роль, прочитанную из базы в этом же запросе,
// а не значение из cookie.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			redirectWithFlash(c, "/login", msgLoginRequired)
			return
		}
		if user.Role != models.RoleAdmin {
			redirectWithFlash(c, "/dashboard", msgAdminRequired)
			return
		}
		c.Next()
	}
}

func redirectWithFlash(c *gin.Context, location, msg string) {
	sess := sessions.Default(c)
	sess.AddFlash(msg, FlashError)
	_ = sess.Save()

	c.Redirect(http.StatusFound, location)
	c.Abort()
}
