package models

import "time"

// ItemOptions menyimpan pilihan addon/kustomisasi per item sebagai JSON bebas.
type ItemOptions map[string]interface{}

// CartItem adalah satu baris pesanan yang belum di-checkout. Item milik satu
// meja dan satu device; visibilitas tergantung payment mode sesi.
type CartItem struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	TableID   uint        `gorm:"index;not null" json:"table_id"`
	Table     Table       `gorm:"foreignKey:TableID" json:"-"`
	ProductID uint        `gorm:"not null" json:"product_id"`
	Product   MenuItem    `gorm:"foreignKey:ProductID" json:"-"`
	DeviceID  string      `gorm:"type:varchar(64);index;not null" json:"device_id"`
	Quantity  int         `gorm:"not null" json:"quantity"`
	Options   ItemOptions `gorm:"serializer:json" json:"options,omitempty"`
	Notes     string      `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time   `gorm:"not null" json:"updated_at"`
}
