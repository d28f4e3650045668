package models

import "time"

const (
	NotificationTypeLowStock = "low_stock"
	NotificationTypeGeneral  = "general"
)

// Notification untuk dashboard staff, saat ini dipakai untuk alert stok bahan
// yang menyentuh batas minimum setelah checkout.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Type      string    `gorm:"type:varchar(30);not null;default:'general'" json:"type"`
	Title     string    `gorm:"type:varchar(255);not null" json:"title"`
	Message   string    `gorm:"type:text" json:"message"`
	IsRead    bool      `gorm:"not null;default:false" json:"is_read"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
