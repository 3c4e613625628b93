package repository_test

import (
	"context"
	"testing"
	"time"

	"slotkeeper/internal/database/dbtest"
	"slotkeeper/internal/models"
	"slotkeeper/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type repos struct {
	db       *gorm.DB
	users    *repository.UserRepository
	slots    *repository.SlotRepository
	requests *repository.SlotRequestRepository
	audit    *repository.AuditRepository
}

func setup(t *testing.T) repos {
	t.Helper()
	db := dbtest.New(t)
	return repos{
		db:       db,
		users:    repository.NewUserRepository(db),
		slots:    repository.NewSlotRepository(db),
		requests: repository.NewSlotRequestRepository(db),
		audit:    repository.NewAuditRepository(db),
	}
}

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}

func mustUser(t *testing.T, r repos, username string) *models.User {
	t.Helper()
	u, err := r.users.Create(context.Background(), username, "password1", username+"@example.com", models.RoleUser)
	require.NoError(t, err)
	return u
}

func mustSlot(t *testing.T, r repos, name string, capacity int) *models.WarehouseSlot {
	t.Helper()
	s, err := r.slots.Create(context.Background(), name, "Section "+name, capacity)
	require.NoError(t, err)
	return s
}

func mustRequest(t *testing.T, r repos, userID, slotID uint) *models.SlotRequest {
	t.Helper()
	req, err := r.requests.Create(context.Background(), userID, slotID, date(t, "2026-11-01"), date(t, "2026-11-30"), "pallets")
	require.NoError(t, err)
	return req
}
