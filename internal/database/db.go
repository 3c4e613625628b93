package database

import (
	"context"
	"fmt"
	"time"

	"slotkeeper/internal/models"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	connectAttempts = 10
	connectDelay    = 2 * time.Second
)

// Open подключается к PostgreSQL, повторяя попытки при временных ошибках.
func Open(ctx context.Context, dsn string, log *zap.Logger) (*gorm.DB, error) {
	var db *gorm.DB
	attempt := 0

	backoff := retry.WithMaxRetries(connectAttempts-1, retry.NewConstant(connectDelay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		log.Info("connecting to database", zap.Int("attempt", attempt), zap.Int("max_attempts", connectAttempts))

		conn, err := gorm.Open(postgres.Open(dsn), Config())
		if err == nil {
			err = ping(ctx, conn)
		}
		if err != nil {
			log.Warn("database connection failed", zap.Int("attempt", attempt), zap.Error(err))
			if IsTransient(err) {
				return retry.RetryableError(err)
			}
			return err
		}

		db = conn
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("connect to db after %d attempts: %w", attempt, err)
	}

	log.Info("connected to database")
	return db, nil
}

// Config — общие настройки gorm: ошибки драйвера переводятся в gorm.ErrDuplicatedKey и т.п.
func Config() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	}
}

func ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Migrate создаёт/обновляет таблицы.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.WarehouseSlot{},
		&models.SlotRequest{},
		&models.AuditLog{},
	)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Close закрывает пул соединений.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
