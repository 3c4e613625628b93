// Package testkit собирает настоящий роутер поверх in-memory SQLite
// и HTTP-клиент с cookie-сессией для тестов обработчиков.
package testkit

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"slotkeeper/internal/database/dbtest"
	"slotkeeper/internal/models"
	"slotkeeper/internal/repository"
	"slotkeeper/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const sessionSecret = "0123456789abcdef0123456789abcdef"

type App struct {
	t        testing.TB
	Router   http.Handler
	DB       *gorm.DB
	Users    *repository.UserRepository
	Slots    *repository.SlotRepository
	Requests *repository.SlotRequestRepository
}

type Option func(*server.Options)

func WithRedis(rdb *redis.Client, limit int) Option {
	return func(o *server.Options) {
		o.Redis = rdb
		o.LoginRateLimit = limit
	}
}

func New(t testing.TB, opts ...Option) *App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := dbtest.New(t)
	o := server.Options{
		SessionSecret:   sessionSecret,
		SessionMaxAge:   time.Hour,
		LoginRateLimit:  100,
		LoginRateWindow: time.Minute,
		Logger:          zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	r, err := server.NewRouter(db, o)
	if err != nil {
		t.Fatalf("new router: %v", err)
	}

	return &App{
		t:        t,
		Router:   r,
		DB:       db,
		Users:    repository.NewUserRepository(db),
		Slots:    repository.NewSlotRepository(db),
		Requests: repository.NewSlotRequestRepository(db),
	}
}

// CreateUser пишет пользователя напрямую через репозиторий; пароль = username + "-pass".
func (a *App) CreateUser(username string, role models.UserRole) *models.User {
	a.t.Helper()
	u, err := a.Users.Create(context.Background(), username, username+"-pass", username+"@example.com", role)
	if err != nil {
		a.t.Fatalf("create user %s: %v", username, err)
	}
	return u
}

func (a *App) CreateSlot(name string, capacity int) *models.WarehouseSlot {
	a.t.Helper()
	s, err := a.Slots.Create(context.Background(), name, "Section "+name, capacity)
	if err != nil {
		a.t.Fatalf("create slot %s: %v", name, err)
	}
	return s
}

func (a *App) CreateRequest(userID, slotID uint) *models.SlotRequest {
	a.t.Helper()
	start := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	req, err := a.Requests.Create(context.Background(), userID, slotID, start, start.AddDate(0, 0, 14), "")
	if err != nil {
		a.t.Fatalf("create request: %v", err)
	}
	return req
}

func (a *App) Slot(id uint) *models.WarehouseSlot {
	a.t.Helper()
	s, err := a.Slots.GetByID(context.Background(), id)
	if err != nil {
		a.t.Fatalf("get slot %d: %v", id, err)
	}
	return s
}

func (a *App) Request(id uint) *models.SlotRequest {
	a.t.Helper()
	r, err := a.Requests.GetByID(context.Background(), id)
	if err != nil {
		a.t.Fatalf("get request %d: %v", id, err)
	}
	return r
}

// Client — браузер с cookie-сессией.
type Client struct {
	app     *App
	cookies map[string]*http.Cookie
}

func (a *App) Client() *Client {
	return &Client{app: a, cookies: map[string]*http.Cookie{}}
}

// LoginAs создаёт клиента и входит под пользователем, созданным через CreateUser.
func (a *App) LoginAs(username string) *Client {
	a.t.Helper()
	c := a.Client()
	w := c.Post("/login", url.Values{"username": {username}, "password": {username + "-pass"}})
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/dashboard" {
		a.t.Fatalf("login %s: status %d location %q", username, w.Code, w.Header().Get("Location"))
	}
	return c
}

func (c *Client) Get(path string) *httptest.ResponseRecorder {
	return c.Do(http.MethodGet, path, nil)
}

func (c *Client) Post(path string, form url.Values) *httptest.ResponseRecorder {
	if form == nil {
		form = url.Values{}
	}
	return c.Do(http.MethodPost, path, form)
}

func (c *Client) Do(method, path string, form url.Values) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}

	w := httptest.NewRecorder()
	c.app.Router.ServeHTTP(w, req)

	for _, ck := range w.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(c.cookies, ck.Name)
			continue
		}
		c.cookies[ck.Name] = ck
	}
	return w
}

// Follow выполняет POST и затем GET по адресу из Location, возвращая обе страницы.
func (c *Client) Follow(path string, form url.Values) (*httptest.ResponseRecorder, *httptest.ResponseRecorder) {
	first := c.Post(path, form)
	loc := first.Header().Get("Location")
	if loc == "" {
		return first, first
	}
	return first, c.Get(loc)
}
