package models

import "time"

// Status meja diturunkan dari jumlah sesi aktif (lihat UpdateStatusFromOccupancy),
// kecuali status manual seperti cleaning/reserved/out_of_service yang diset admin.
const (
	TableStatusAvailable    = "available"
	TableStatusPartial      = "partial"
	TableStatusFull         = "full"
	TableStatusCleaning     = "cleaning"
	TableStatusReserved     = "reserved"
	TableStatusOutOfService = "out_of_service"
)

type Table struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Number          int        `gorm:"uniqueIndex;not null" json:"number"`
	Location        string     `gorm:"type:varchar(50)" json:"location"`
	Capacity        int        `gorm:"not null;default:1" json:"capacity"`
	Occupied        int        `gorm:"not null;default:0" json:"occupied"`
	Status          string     `gorm:"type:varchar(20);not null;default:'available'" json:"status"`
	QRCode          string     `gorm:"type:varchar(50)" json:"qr_code"`
	QRToken         string     `gorm:"type:varchar(64);uniqueIndex" json:"qr_token"`
	AccessCode      string     `gorm:"type:varchar(12)" json:"access_code"`
	Description     string     `gorm:"type:text" json:"description,omitempty"`
	Notes           string     `gorm:"type:varchar(500)" json:"notes,omitempty"`
	IsActive        bool       `gorm:"not null;default:true" json:"is_active"`
	StatusChangedAt *time.Time `json:"status_changed_at,omitempty"`
	CreatedAt       time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"not null" json:"updated_at"`
}

// UpdateStatusFromOccupancy menurunkan status meja dari occupancy.
// Caller yang menyimpan perubahan ke database.
func (t *Table) UpdateStatusFromOccupancy() {
	switch {
	case t.Occupied == 0:
		t.Status = TableStatusAvailable
	case t.Occupied >= t.Capacity:
		t.Status = TableStatusFull
	default:
		t.Status = TableStatusPartial
	}
	now := time.Now()
	t.StatusChangedAt = &now
}

func (t *Table) IsAvailable() bool {
	return t.Status == TableStatusAvailable && t.IsActive
}
