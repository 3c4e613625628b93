package database

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"slotkeeper/internal/models"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AdminSeed — учётные данные администратора по умолчанию.
type AdminSeed struct {
	Username string
	Email    string
	Password string
}

var sampleSlots = []models.WarehouseSlot{
	{SlotName: "A1", Location: "Section A, Floor 1", Capacity: 1000},
	{SlotName: "A2", Location: "Section A, Floor 1", Capacity: 1000},
	{SlotName: "B1", Location: "Section B, Floor 1", Capacity: 1500},
	{SlotName: "B2", Location: "Section B, Floor 1", Capacity: 1500},
	{SlotName: "C1", Location: "Section C, Floor 2", Capacity: 2000},
	{SlotName: "C2", Location: "Section C, Floor 2", Capacity: 2000},
}

// SeedAdmin создаёт администратора, если в базе нет ни одного.
// Без ADMIN_PASSWORD генерируется случайный пароль и пишется в лог один раз.
func SeedAdmin(ctx context.Context, db *gorm.DB, seed AdminSeed, log *zap.Logger) error {
	var count int64
	if err := db.WithContext(ctx).Model(&models.User{}).
		Where("role = ?", models.RoleAdmin).
		Count(&count).Error; err != nil {
		return fmt.Errorf("check admin user: %w", err)
	}
	if count > 0 {
		return nil
	}

	password := seed.Password
	generated := false
	if password == "" {
		var err error
		if password, err = randomPassword(); err != nil {
			return err
		}
		generated = true
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := models.User{
		Username:     seed.Username,
		Email:        seed.Email,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}
	if err := db.WithContext(ctx).Create(&admin).Error; err != nil {
		if IsUniqueViolation(err) {
			return errors.New("seed admin: username or email already taken by a non-admin user")
		}
		return fmt.Errorf("create admin: %w", err)
	}

	fields := []zap.Field{zap.String("username", admin.Username)}
	if generated {
		fields = append(fields, zap.String("password", password))
	}
	log.Info("created default admin user", fields...)
	return nil
}

// SeedSlots добавляет демонстрационные ячейки в пустую таблицу.
func SeedSlots(ctx context.Context, db *gorm.DB, log *zap.Logger) error {
	var count int64
	if err := db.WithContext(ctx).Model(&models.WarehouseSlot{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count slots: %w", err)
	}
	if count > 0 {
		log.Debug("warehouse slots already present", zap.Int64("count", count))
		return nil
	}

	slots := make([]models.WarehouseSlot, len(sampleSlots))
	for i, s := range sampleSlots {
		s.Status = models.SlotAvailable
		slots[i] = s
	}
	if err := db.WithContext(ctx).Create(&slots).Error; err != nil {
		return fmt.Errorf("create sample slots: %w", err)
	}

	log.Info("created sample warehouse slots", zap.Int("count", len(slots)))
	return nil
}

func randomPassword() (string, error) {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate admin password: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
