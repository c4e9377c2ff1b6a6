package models

import "time"

// StatusChangeRecord is an append-only audit entry written on every
// transition.
type StatusChangeRecord struct {
	ID        uint        `json:"id" gorm:"primaryKey"`
	OrderID   uint        `json:"order_id" gorm:"not null;index"`
	OldStatus OrderStatus `json:"old_status" gorm:"type:varchar(20);not null"`
	NewStatus OrderStatus `json:"new_status" gorm:"type:varchar(20);not null"`
	ChangedAt time.Time   `json:"changed_at" gorm:"not null"`
	Automatic bool        `json:"automatic" gorm:"default:false"`
	ChangedBy *uint       `json:"changed_by"`
}
