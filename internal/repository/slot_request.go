package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"slotkeeper/internal/database"
	"slotkeeper/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const requestViewColumns = "sr.id, sr.user_id, sr.slot_id, sr.request_date, sr.start_date, sr.end_date, sr.status, sr.notes"

type SlotRequestRepository struct {
	db *gorm.DB
}

func NewSlotRequestRepository(db *gorm.DB) *SlotRequestRepository {
	return &SlotRequestRepository{db: db}
}

// Create сохраняет заявку в статусе pending. Пересечения по датам
// с другими заявками на ту же ячейку не проверяются.
func (r *SlotRequestRepository) Create(ctx context.Context, userID, slotID uint, start, end time.Time, notes string) (*models.SlotRequest, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("end date before start date: %w", ErrValidation)
	}

	req := models.SlotRequest{
		UserID:    userID,
		SlotID:    slotID,
		StartDate: start,
		EndDate:   end,
		Status:    models.RequestPending,
		Notes:     notes,
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&req).Error; err != nil {
		if database.IsForeignKeyViolation(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("create slot request: %w", err)
	}
	return &req, nil
}

func (r *SlotRequestRepository) GetByID(ctx context.Context, id uint) (*models.SlotRequest, error) {
	var req models.SlotRequest
	if err := r.db.WithContext(ctx).First(&req, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get slot request by id: %w", err)
	}
	return &req, nil
}

// ListByUser — заявки пользователя с названием и расположением ячейки, новые сверху.
func (r *SlotRequestRepository) ListByUser(ctx context.Context, userID uint) ([]models.SlotRequestView, error) {
	var views []models.SlotRequestView
	err := r.db.WithContext(ctx).
		Table("slot_requests AS sr").
		Select(requestViewColumns+", ws.slot_name, ws.location").
		Joins("JOIN warehouse_slots ws ON sr.slot_id = ws.id").
		Where("sr.user_id = ?", userID).
		Order("sr.request_date DESC, sr.id DESC").
		Scan(&views).Error
	if err != nil {
		return nil, fmt.Errorf("list slot requests by user: %w", err)
	}
	return views, nil
}

// ListAll — все заявки с именем пользователя и названием ячейки, новые сверху.
func (r *SlotRequestRepository) ListAll(ctx context.Context) ([]models.SlotRequestView, error) {
	return r.listJoined(ctx, "")
}

func (r *SlotRequestRepository) ListPending(ctx context.Context) ([]models.SlotRequestView, error) {
	return r.listJoined(ctx, models.RequestPending)
}

func (r *SlotRequestRepository) listJoined(ctx context.Context, status models.RequestStatus) ([]models.SlotRequestView, error) {
	q := r.db.WithContext(ctx).
		Table("slot_requests AS sr").
		Select(requestViewColumns + ", u.username, ws.slot_name, ws.location").
		Joins("JOIN users u ON sr.user_id = u.id").
		Joins("JOIN warehouse_slots ws ON sr.slot_id = ws.id")
	if status != "" {
		q = q.Where("sr.status = ?", status)
	}

	var views []models.SlotRequestView
	if err := q.Order("sr.request_date DESC, sr.id DESC").Scan(&views).Error; err != nil {
		return nil, fmt.Errorf("list slot requests: %w", err)
	}
	return views, nil
}

// UpdateStatus записывает статус без проверки допустимости перехода.
func (r *SlotRequestRepository) UpdateStatus(ctx context.Context, id uint, status models.RequestStatus) error {
	if !status.Valid() {
		return fmt.Errorf("status %q: %w", status, ErrValidation)
	}

	res := r.db.WithContext(ctx).Model(&models.SlotRequest{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("update slot request status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Transition меняет статус from → to одним условным UPDATE.
// ErrStaleStatus — заявка уже не в статусе from.
func (r *SlotRequestRepository) Transition(ctx context.Context, id uint, from, to models.RequestStatus) error {
	return transition(r.db.WithContext(ctx), id, from, to)
}

// Approve одобряет pending-заявку и помечает ячейку занятой в одной транзакции.
func (r *SlotRequestRepository) Approve(ctx context.Context, id uint) (*models.SlotRequest, error) {
	var req models.SlotRequest
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := transition(tx, id, models.RequestPending, models.RequestApproved); err != nil {
			return err
		}
		if err := tx.First(&req, id).Error; err != nil {
			return fmt.Errorf("reload slot request: %w", err)
		}

		res := tx.Model(&models.WarehouseSlot{}).
			Where("id = ?", req.SlotID).
			Updates(map[string]interface{}{"is_full": true, "status": models.SlotOccupied})
		if res.Error != nil {
			return fmt.Errorf("occupy slot: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *SlotRequestRepository) HasRequestsForSlot(ctx context.Context, slotID uint) (bool, error) {
	return hasRequestsForSlot(r.db.WithContext(ctx), slotID)
}

func transition(db *gorm.DB, id uint, from, to models.RequestStatus) error {
	if !to.Valid() {
		return fmt.Errorf("status %q: %w", to, ErrValidation)
	}

	res := db.Model(&models.SlotRequest{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return fmt.Errorf("update slot request status: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := db.Model(&models.SlotRequest{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("check slot request: %w", err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return ErrStaleStatus
}

func hasRequestsForSlot(db *gorm.DB, slotID uint) (bool, error) {
	var count int64
	if err := db.Model(&models.SlotRequest{}).Where("slot_id = ?", slotID).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count slot requests: %w", err)
	}
	return count > 0, nil
}
