package models

import (
	"strconv"
	"strings"
	"time"
)

// Workflow status order. Transisi maju satu arah; cancelled hanya dari received.
const (
	OrderStatusReceived  = "received"
	OrderStatusConfirmed = "confirmed"
	OrderStatusQueued    = "queued"
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
	OrderStatusServed    = "served"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

const (
	PaymentStatusUnpaid  = "unpaid"
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusReceived, OrderStatusConfirmed, OrderStatusQueued,
		OrderStatusPreparing, OrderStatusReady, OrderStatusServed,
		OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// OrderLine adalah snapshot beku satu baris pesanan saat checkout.
// Harga tidak pernah dihitung ulang setelah order dibuat.
type OrderLine struct {
	ProductID uint        `json:"id"`
	Name      string      `json:"name"`
	Quantity  int         `json:"quantity"`
	Price     int64       `json:"price"` // satuan minor per unit
	Options   ItemOptions `json:"options,omitempty"`
	Notes     string      `json:"notes,omitempty"`
}

// Order adalah artefak permanen hasil checkout. Items disimpan sebagai
// snapshot JSON; total dalam satuan minor.
type Order struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	OrderNumber     string      `gorm:"type:varchar(20);uniqueIndex;not null" json:"order_number"`
	ReferenceNumber string      `gorm:"type:varchar(50)" json:"reference_number,omitempty"`
	CustomerName    string      `gorm:"type:varchar(100)" json:"customer_name"`
	TableID         *uint       `gorm:"index" json:"table_id,omitempty"`
	Table           *Table      `gorm:"foreignKey:TableID" json:"table,omitempty"`
	TableNumber     int         `json:"table_number"`
	Items           []OrderLine `gorm:"serializer:json" json:"items"`
	Subtotal        int64       `gorm:"not null" json:"subtotal"`
	Total           int64       `gorm:"not null" json:"total"`
	PaymentMethod   string      `gorm:"type:varchar(30)" json:"payment_method"`
	PaymentStatus   string      `gorm:"type:varchar(20);not null;default:'unpaid'" json:"payment_status"`
	Status          string      `gorm:"type:varchar(20);not null;default:'received';index" json:"status"`
	OrderType       string      `gorm:"type:varchar(20);not null;default:'dine_in'" json:"order_type"`
	DeviceID        string      `gorm:"type:varchar(64);index" json:"device_id,omitempty"`
	SessionID       string      `gorm:"type:varchar(20)" json:"session_id,omitempty"`
	DeviceIP        string      `gorm:"type:varchar(45)" json:"device_ip,omitempty"`
	UserAgent       string      `gorm:"type:varchar(512)" json:"user_agent,omitempty"`
	GroupOrder      bool        `gorm:"not null;default:false" json:"group_order"`
	PaymentMode     PaymentMode `gorm:"type:varchar(20)" json:"payment_mode,omitempty"`
	PaidAt          *time.Time  `json:"paid_at,omitempty"`
	ConfirmedAt     *time.Time  `json:"confirmed_at,omitempty"`
	QueuedAt        *time.Time  `json:"queued_at,omitempty"`
	PreparingAt     *time.Time  `json:"preparing_at,omitempty"`
	ReadyAt         *time.Time  `json:"ready_at,omitempty"`
	ServedAt        *time.Time  `json:"served_at,omitempty"`
	CompletedAt     *time.Time  `json:"completed_at,omitempty"`
	CancelledAt     *time.Time  `json:"cancelled_at,omitempty"`
	CreatedAt       time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time   `gorm:"not null" json:"updated_at"`
}

// TotalDecimal mengembalikan total dalam satuan mayor untuk tampilan.
func (o *Order) TotalDecimal() float64 {
	return float64(o.Total) / 100
}

// CanBeCancelled: customer hanya bisa membatalkan order yang belum dikonfirmasi.
func (o *Order) CanBeCancelled() bool {
	return o.Status == OrderStatusReceived
}

// SetStatus mengganti workflow status dan mengisi timestamp yang sesuai.
func (o *Order) SetStatus(status string) {
	o.Status = status
	now := time.Now()
	switch status {
	case OrderStatusConfirmed:
		o.ConfirmedAt = &now
	case OrderStatusQueued:
		o.QueuedAt = &now
	case OrderStatusPreparing:
		o.PreparingAt = &now
	case OrderStatusReady:
		o.ReadyAt = &now
	case OrderStatusServed:
		o.ServedAt = &now
	case OrderStatusCompleted:
		o.CompletedAt = &now
	case OrderStatusCancelled:
		o.CancelledAt = &now
	}
}

// MarkAsPaid menandai pembayaran selesai (dicatat, bukan diproses).
func (o *Order) MarkAsPaid() {
	o.PaymentStatus = PaymentStatusPaid
	now := time.Now()
	o.PaidAt = &now
}

// ItemsDescription merangkum isi order untuk log dan notifikasi staff.
func (o *Order) ItemsDescription() string {
	parts := make([]string, 0, len(o.Items))
	for _, it := range o.Items {
		if it.Quantity > 1 {
			parts = append(parts, strconv.Itoa(it.Quantity)+"x "+it.Name)
		} else {
			parts = append(parts, it.Name)
		}
	}
	return strings.Join(parts, ", ")
}
