package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"slotkeeper/internal/cache"
	"slotkeeper/internal/config"
	"slotkeeper/internal/database"
	"slotkeeper/internal/logger"
	"slotkeeper/internal/server"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logg, err := logger.New(cfg.Environment)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logg.Sync() }()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.DSN(), logg)
	if err != nil {
		logg.Fatal("database unavailable", zap.Error(err))
	}
	defer func() { _ = database.Close(db) }()

	if err := database.Migrate(db); err != nil {
		logg.Fatal("migrate", zap.Error(err))
	}

	seed := database.AdminSeed{
		Username: cfg.AdminUsername,
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
	}
	if err := database.SeedAdmin(ctx, db, seed, logg); err != nil {
		logg.Error("seed admin", zap.Error(err))
	}
	if cfg.SeedSampleSlots {
		if err := database.SeedSlots(ctx, db, logg); err != nil {
			logg.Error("seed slots", zap.Error(err))
		}
	}

	rdb := cache.NewRedis(ctx, cfg.RedisAddr, logg)
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}

	r, err := server.NewRouter(db, server.Options{
		SessionSecret:   cfg.SessionSecret,
		SessionMaxAge:   cfg.SessionMaxAge,
		SecureCookies:   cfg.IsProduction(),
		Redis:           rdb,
		LoginRateLimit:  cfg.LoginRateLimit,
		LoginRateWindow: cfg.LoginRateWindow,
		Logger:          logg,
	})
	if err != nil {
		logg.Fatal("router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.ServerPort),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logg.Info("starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logg.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logg.Error("graceful shutdown", zap.Error(err))
	}
}
