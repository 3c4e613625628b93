package handlers

import (
	"slotkeeper/internal/repository"

	"go.uber.org/zap"
)

// Handler держит зависимости всех HTTP-обработчиков.
type Handler struct {
	users    *repository.UserRepository
	slots    *repository.SlotRepository
	requests *repository.SlotRequestRepository
	audit    *repository.AuditRepository
	log      *zap.Logger
}

func New(
	users *repository.UserRepository,
	slots *repository.SlotRepository,
	requests *repository.SlotRequestRepository,
	audit *repository.AuditRepository,
	log *zap.Logger,
) *Handler {
	return &Handler{
		users:    users,
		slots:    slots,
		requests: requests,
		audit:    audit,
		log:      log,
	}
}
