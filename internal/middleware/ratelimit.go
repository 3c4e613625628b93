package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const msgTooManyAttempts = "Too many attempts, please try again later"

// CheckRateLimit — фиксированное окно: INCR ключа и EXPIRE NX в одной
// MULTI/EXEC-транзакции, так что у счётчика всегда есть TTL.
// Возвращает true, если запрос укладывается в лимит.
func CheckRateLimit(ctx context.Context, rdb *redis.Client, resource, id string, limit int, window time.Duration) (bool, error) {
	if rdb == nil {
		return true, nil
	}

	key := fmt.Sprintf("rl:%s:%s", resource, id)

	var incr *redis.IntCmd
	_, err := rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, window)
		return nil
	})
	if err != nil {
		return true, err
	}
	return incr.Val() <= int64(limit), nil
}

// RateLimit ограничивает POST-запросы по IP клиента. Без Redis или при
// ошибке Redis запрос пропускается.
func RateLimit(rdb *redis.Client, resource string, limit int, window time.Duration, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		allowed, err := CheckRateLimit(c.Request.Context(), rdb, resource, c.ClientIP(), limit, window)
		if err != nil {
			log.Warn("rate limit check failed", zap.String("resource", resource), zap.Error(err))
			c.Next()
			return
		}
		if !allowed {
			sess := sessions.Default(c)
			sess.AddFlash(msgTooManyAttempts, FlashError)
			_ = sess.Save()

			c.Redirect(http.StatusSeeOther, c.Request.URL.Path)
			c.Abort()
			return
		}
		c.Next()
	}
}
