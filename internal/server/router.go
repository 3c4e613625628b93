package server

import (
	"fmt"
	"net/http"
	"time"

	"slotkeeper/internal/handlers"
	"slotkeeper/internal/middleware"
	"slotkeeper/internal/repository"
	"slotkeeper/web"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const sessionName = "slot_session"

// Options — всё, что нужно роутеру помимо базы.
type Options struct {
	SessionSecret   string
	SessionMaxAge   time.Duration
	SecureCookies   bool
	Redis           *redis.Client
	LoginRateLimit  int
	LoginRateWindow time.Duration
	Logger          *zap.Logger
}

func NewRouter(db *gorm.DB, opts Options) (*gin.Engine, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(log), middleware.Recovery(log))

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	store := cookie.NewStore([]byte(opts.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(opts.SessionMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   opts.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, store))

	users := repository.NewUserRepository(db)
	h := handlers.New(
		users,
		repository.NewSlotRepository(db),
		repository.NewSlotRequestRepository(db),
		repository.NewAuditRepository(db),
		log,
	)

	r.Use(middleware.InjectUser(users, log))

	r.GET("/", h.Index)

	// AUTH
	loginLimit := middleware.RateLimit(opts.Redis, "login", opts.LoginRateLimit, opts.LoginRateWindow, log)
	registerLimit := middleware.RateLimit(opts.Redis, "register", opts.LoginRateLimit, opts.LoginRateWindow, log)
	r.GET("/register", h.ShowRegister)
	r.POST("/register", registerLimit, h.Register)
	r.GET("/login", h.ShowLogin)
	r.POST("/login", loginLimit, h.Login)
	r.GET("/logout", h.Logout)

	auth := r.Group("/")
	auth.Use(middleware.RequireAuth())

	auth.GET("/dashboard", h.Dashboard)
	auth.GET("/profile", h.Profile)
	auth.POST("/update_profile", h.UpdateProfile)

	// ЗАЯВКИ ПОЛЬЗОВАТЕЛЯ
	auth.GET("/request_slot", h.ShowRequestSlot)
	auth.POST("/request_slot", h.RequestSlot)
	auth.GET("/my_requests", h.MyRequests)
	auth.POST("/cancel_request/:id", h.CancelRequest)

	// АДМИНКА
	admin := r.Group("/admin")
	admin.Use(middleware.RequireAdmin())

	admin.GET("/slots", h.AdminSlots)
	admin.GET("/add_slot", h.ShowAddSlot)
	admin.POST("/add_slot", h.AddSlot)
	admin.POST("/update_slot/:id", h.UpdateSlot)
	admin.POST("/update_capacity/:id", h.UpdateCapacity)
	admin.POST("/increase_capacity/:id", h.IncreaseCapacity)
	admin.POST("/decrease_capacity/:id", h.DecreaseCapacity)
	admin.POST("/delete_slot/:id", h.DeleteSlot)

	admin.GET("/requests", h.AdminRequests)
	admin.POST("/update_request/:id", h.UpdateRequest)

	admin.GET("/users", h.AdminUsers)
	admin.POST("/toggle_user_role/:id", h.ToggleUserRole)

	admin.GET("/audit", h.AuditLog)

	// HEALTHCHECK
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	return r, nil
}
