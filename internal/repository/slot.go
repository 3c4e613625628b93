package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"slotkeeper/internal/database"
	"slotkeeper/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SlotRepository struct {
	db *gorm.DB
}

func NewSlotRepository(db *gorm.DB) *SlotRepository {
	return &SlotRepository{db: db}
}

// Create добавляет свободную ячейку. Имя должно быть уникальным.
func (r *SlotRepository) Create(ctx context.Context, name, location string, capacity int) (*models.WarehouseSlot, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("empty slot name: %w", ErrValidation)
	}
	if capacity <= 0 {
		return nil, fmt.Errorf("capacity %d: %w", capacity, ErrValidation)
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&models.WarehouseSlot{}).
		Where("slot_name = ?", name).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check slot name: %w", err)
	}
	if count > 0 {
		return nil, ErrDuplicate
	}

	slot := models.WarehouseSlot{
		SlotName: name,
		Location: strings.TrimSpace(location),
		Capacity: capacity,
		IsFull:   false,
		Status:   models.SlotAvailable,
	}
	if err := r.db.WithContext(ctx).Create(&slot).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("create slot: %w", err)
	}
	return &slot, nil
}

func (r *SlotRepository) GetByID(ctx context.Context, id uint) (*models.WarehouseSlot, error) {
	var slot models.WarehouseSlot
	if err := r.db.WithContext(ctx).First(&slot, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get slot by id: %w", err)
	}
	return &slot, nil
}

func (r *SlotRepository) List(ctx context.Context) ([]models.WarehouseSlot, error) {
	var slots []models.WarehouseSlot
	if err := r.db.WithContext(ctx).Order("slot_name asc").Find(&slots).Error; err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	return slots, nil
}

// ListAvailable — ячейки с is_full = false.
func (r *SlotRepository) ListAvailable(ctx context.Context) ([]models.WarehouseSlot, error) {
	var slots []models.WarehouseSlot
	if err := r.db.WithContext(ctx).
		Where("is_full = ?", false).
		Order("slot_name asc").
		Find(&slots).Error; err != nil {
		return nil, fmt.Errorf("list available slots: %w", err)
	}
	return slots, nil
}

func (r *SlotRepository) UpdateStatus(ctx context.Context, id uint, isFull bool, status string) error {
	status = strings.TrimSpace(status)
	if status == "" {
		status = models.SlotAvailable
	}

	res := r.db.WithContext(ctx).Model(&models.WarehouseSlot{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"is_full": isFull, "status": status})
	if res.Error != nil {
		return fmt.Errorf("update slot status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SlotRepository) UpdateCapacity(ctx context.Context, id uint, capacity int) error {
	if capacity <= 0 {
		return fmt.Errorf("capacity %d: %w", capacity, ErrValidation)
	}

	res := r.db.WithContext(ctx).Model(&models.WarehouseSlot{}).
		Where("id = ?", id).
		Update("capacity", capacity)
	if res.Error != nil {
		return fmt.Errorf("update slot capacity: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// IncreaseCapacity увеличивает вместимость одним UPDATE, без чтения текущего значения.
func (r *SlotRepository) IncreaseCapacity(ctx context.Context, id uint, amount int) error {
	if amount <= 0 {
		return fmt.Errorf("amount %d: %w", amount, ErrValidation)
	}

	res := r.db.WithContext(ctx).Model(&models.WarehouseSlot{}).
		Where("id = ?", id).
		Update("capacity", gorm.Expr("capacity + ?", amount))
	if res.Error != nil {
		return fmt.Errorf("increase slot capacity: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DecreaseCapacity уменьшает вместимость; условие в WHERE не даёт опуститься ниже 1.
func (r *SlotRepository) DecreaseCapacity(ctx context.Context, id uint, amount int) error {
	if amount <= 0 {
		return fmt.Errorf("amount %d: %w", amount, ErrValidation)
	}

	res := r.db.WithContext(ctx).Model(&models.WarehouseSlot{}).
		Where("id = ? AND capacity - ? >= 1", id, amount).
		Update("capacity", gorm.Expr("capacity - ?", amount))
	if res.Error != nil {
		return fmt.Errorf("decrease slot capacity: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return ErrCapacityFloor
}

// Delete удаляет ячейку, только если на неё нет ни одной заявки.
// Строка ячейки блокируется на время проверки, поэтому параллельная
// заявка (FK на warehouse_slots) дождётся конца транзакции.
func (r *SlotRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var slot models.WarehouseSlot
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&slot, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("lock slot: %w", err)
		}

		inUse, err := hasRequestsForSlot(tx, id)
		if err != nil {
			return err
		}
		if inUse {
			return ErrSlotInUse
		}

		res := tx.Where("id = ? AND NOT EXISTS (SELECT 1 FROM slot_requests WHERE slot_id = ?)", id, id).
			Delete(&models.WarehouseSlot{})
		if res.Error != nil {
			if database.IsForeignKeyViolation(res.Error) {
				return ErrSlotInUse
			}
			return fmt.Errorf("delete slot: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrSlotInUse
		}
		return nil
	})
}
