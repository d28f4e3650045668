package models

import "time"

// DeviceSession mencatat fingerprint tiap device yang pernah terlihat di satu
// meja. Satu baris per pasangan (device, meja), di-upsert setiap scan.
type DeviceSession struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	DeviceID   string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_device_table" json:"device_id"`
	TableID    uint      `gorm:"not null;uniqueIndex:idx_device_table" json:"table_id"`
	DeviceIP   string    `gorm:"type:varchar(45)" json:"device_ip,omitempty"`
	DeviceType string    `gorm:"type:varchar(20)" json:"device_type,omitempty"`
	Browser    string    `gorm:"type:varchar(50)" json:"browser,omitempty"`
	UserAgent  string    `gorm:"type:varchar(512)" json:"user_agent,omitempty"`
	LastSeenAt time.Time `gorm:"not null" json:"last_seen_at"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}
