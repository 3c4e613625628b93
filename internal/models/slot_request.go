package models

import "time"

type RequestStatus string

const (
	RequestPending   RequestStatus = "pending"
	RequestApproved  RequestStatus = "approved"
	RequestRejected  RequestStatus = "rejected"
	RequestCancelled RequestStatus = "cancelled"
)

func (s RequestStatus) Valid() bool {
	switch s {
	case RequestPending, RequestApproved, RequestRejected, RequestCancelled:
		return true
	}
	return false
}

type SlotRequest struct {
	ID          uint          `gorm:"primaryKey"`
	UserID      uint          `gorm:"not null;index"`
	User        User          `gorm:"constraint:OnDelete:RESTRICT"`
	SlotID      uint          `gorm:"not null;index"`
	Slot        WarehouseSlot `gorm:"constraint:OnDelete:RESTRICT"`
	RequestDate time.Time     `gorm:"autoCreateTime"`
	StartDate   time.Time     `gorm:"type:date;not null"`
	EndDate     time.Time     `gorm:"type:date;not null"`
	Status      RequestStatus `gorm:"type:varchar(20);not null;default:pending;index"`
	Notes       string        `gorm:"type:text"`
}

// SlotRequestView — заявка вместе с полями из join по users и warehouse_slots.
type SlotRequestView struct {
	ID          uint
	UserID      uint
	SlotID      uint
	RequestDate time.Time
	StartDate   time.Time
	EndDate     time.Time
	Status      RequestStatus
	Notes       string

	Username string
	SlotName string
	Location string
}

func (v SlotRequestView) IsPending() bool {
	return v.Status == RequestPending
}
