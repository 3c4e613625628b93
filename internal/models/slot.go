package models

const (
	SlotAvailable   = "available"
	SlotOccupied    = "occupied"
	SlotMaintenance = "maintenance"
)

// WarehouseSlot — складская ячейка с фиксированной вместимостью.
type WarehouseSlot struct {
	ID       uint   `gorm:"primaryKey"`
	SlotName string `gorm:"uniqueIndex;size:50;not null"`
	Location string `gorm:"size:100"`
	Capacity int    `gorm:"not null;check:capacity >= 1"`
	IsFull   bool   `gorm:"not null;default:false"`
	Status   string `gorm:"size:20;not null;default:available"`
}
