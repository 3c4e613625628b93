package middleware_test

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"slotkeeper/internal/middleware"
	"slotkeeper/internal/testkit"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestCheckRateLimit(t *testing.T) {
	mr, rdb := newRedis(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		ok, err := middleware.CheckRateLimit(ctx, rdb, "login", "10.0.0.1", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, ok, "attempt %d", i)
	}
	ok, err := middleware.CheckRateLimit(ctx, rdb, "login", "10.0.0.1", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	// другой IP считается отдельно
	ok, err = middleware.CheckRateLimit(ctx, rdb, "login", "10.0.0.2", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Greater(t, mr.TTL("rl:login:10.0.0.1"), time.Duration(0))

	mr.FastForward(time.Minute + time.Second)
	ok, err = middleware.CheckRateLimit(ctx, rdb, "login", "10.0.0.1", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCheckRateLimit_CounterWithoutTTLGetsOne(t *testing.T) {
	mr, rdb := newRedis(t)
	// счётчик, оставшийся без TTL, не должен блокировать IP навсегда
	require.NoError(t, mr.Set("rl:login:10.0.0.9", "50"))

	ok, err := middleware.CheckRateLimit(context.Background(), rdb, "login", "10.0.0.9", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Greater(t, mr.TTL("rl:login:10.0.0.9"), time.Duration(0))

	mr.FastForward(time.Minute + time.Second)
	ok, err = middleware.CheckRateLimit(context.Background(), rdb, "login", "10.0.0.9", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCheckRateLimit_WindowIsFixed(t *testing.T) {
	mr, rdb := newRedis(t)
	ctx := context.Background()

	_, err := middleware.CheckRateLimit(ctx, rdb, "login", "10.0.0.3", 5, time.Minute)
	require.NoError(t, err)
	mr.FastForward(40 * time.Second)
	_, err = middleware.CheckRateLimit(ctx, rdb, "login", "10.0.0.3", 5, time.Minute)
	require.NoError(t, err)

	// повторные попадания не продлевают окно
	assert.LessOrEqual(t, mr.TTL("rl:login:10.0.0.3"), 20*time.Second)
}

func TestCheckRateLimit_FailsOpen(t *testing.T) {
	ok, err := middleware.CheckRateLimit(context.Background(), nil, "login", "x", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	mr, rdb := newRedis(t)
	mr.Close()
	ok, err = middleware.CheckRateLimit(context.Background(), rdb, "login", "x", 1, time.Minute)
	assert.Error(t, err)
	assert.True(t, ok)
}

func TestRateLimit_LoginRoute(t *testing.T) {
	_, rdb := newRedis(t)
	app := testkit.New(t, testkit.WithRedis(rdb, 2))
	c := app.Client()

	wrong := url.Values{"username": {"ghost"}, "password": {"nope"}}
	for i := 0; i < 2; i++ {
		w := c.Post("/login", wrong)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid username or password")
	}

	w := c.Post("/login", wrong)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	page := c.Get("/login")
	assert.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), "Too many attempts, please try again later")
}
