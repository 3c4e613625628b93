package repository

import "errors"

var (
	ErrNotFound           = errors.New("record not found")
	ErrDuplicate          = errors.New("record already exists")
	ErrValidation         = errors.New("invalid value")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrCapacityFloor      = errors.New("capacity cannot drop below 1")
	ErrSlotInUse          = errors.New("slot has requests")
	ErrStaleStatus        = errors.New("request status changed")
)
