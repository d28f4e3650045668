package models

import "time"

// MenuItem adalah produk yang bisa dipesan customer. Harga disimpan dalam
// satuan minor (sen) sebagai integer, bukan float.
type MenuItem struct {
	ID          uint                 `gorm:"primaryKey" json:"id"`
	CategoryID  uint                 `gorm:"not null;index" json:"category_id"`
	Category    MenuCategory         `gorm:"foreignKey:CategoryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"category,omitempty"`
	Name        string               `gorm:"type:varchar(255);not null" json:"name"`
	Description string               `gorm:"type:text" json:"description,omitempty"`
	Price       int64                `gorm:"not null" json:"price"`
	Available   bool                 `gorm:"not null;default:true" json:"available"`
	Featured    bool                 `gorm:"not null;default:false" json:"featured"`
	Popular     bool                 `gorm:"not null;default:false" json:"popular"`
	ImagePath   *string              `gorm:"type:varchar(255)" json:"image_path,omitempty"`
	Ingredients []MenuItemIngredient `gorm:"foreignKey:MenuItemID" json:"ingredients,omitempty"`
	CreatedAt   time.Time            `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time            `gorm:"not null" json:"updated_at"`
}

// PriceDecimal mengembalikan harga dalam satuan mayor untuk tampilan.
func (m *MenuItem) PriceDecimal() float64 {
	return float64(m.Price) / 100
}
