package models

import "time"

// InventoryItem adalah bahan baku. Stok pakai decimal supaya pengurangan
// resep (mis. 0.05 kg) tidak kehilangan presisi.
type InventoryItem struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"type:varchar(255);not null" json:"name"`
	Category      string    `gorm:"type:varchar(100)" json:"category,omitempty"`
	Stock         float64   `gorm:"type:decimal(12,4);not null;default:0" json:"stock"`
	Unit          string    `gorm:"type:varchar(20)" json:"unit,omitempty"` // ml, g, pcs
	UnitPrice     float64   `gorm:"type:decimal(10,2);not null;default:0" json:"unit_price"`
	MinStockLevel float64   `gorm:"type:decimal(12,4);not null;default:0" json:"min_stock_level"`
	Supplier      string    `gorm:"type:varchar(255)" json:"supplier,omitempty"`
	SupplierEmail string    `gorm:"type:varchar(255)" json:"supplier_email,omitempty"`
	SupplierPhone string    `gorm:"type:varchar(50)" json:"supplier_phone,omitempty"`
	SKU           string    `gorm:"type:varchar(50)" json:"sku,omitempty"`
	Location      string    `gorm:"type:varchar(100)" json:"location,omitempty"`
	Notes         string    `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null" json:"updated_at"`
}

func (i *InventoryItem) IsLowStock() bool {
	return i.Stock <= i.MinStockLevel
}

// MenuItemIngredient memetakan menu ke bahan baku yang dikonsumsi per unit
// pesanan (resep).
type MenuItemIngredient struct {
	ID              uint          `gorm:"primaryKey" json:"id"`
	MenuItemID      uint          `gorm:"index;not null" json:"menu_item_id"`
	InventoryItemID uint          `gorm:"index;not null" json:"inventory_item_id"`
	InventoryItem   InventoryItem `gorm:"foreignKey:InventoryItemID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"inventory_item,omitempty"`
	Quantity        float64       `gorm:"type:decimal(10,4);not null" json:"quantity"`
	CreatedAt       time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time     `gorm:"not null" json:"updated_at"`
}
