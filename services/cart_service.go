package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yeremiapane/cafe-order-app/models"
	"github.com/yeremiapane/cafe-order-app/utils"
)

// CartService mengelola shared cart per meja dan transaksi checkout.
type CartService struct {
	DB *gorm.DB
}

func NewCartService(db *gorm.DB) *CartService {
	return &CartService{DB: db}
}

// CartLine adalah satu baris cart untuk ditampilkan ke client, sudah
// dilengkapi data produk dan nama pemilik.
type CartLine struct {
	ID        uint               `json:"id"`
	ProductID uint               `json:"product_id"`
	Name      string             `json:"name"`
	Price     int64              `json:"price"`
	Quantity  int                `json:"quantity"`
	Options   models.ItemOptions `json:"options,omitempty"`
	Notes     string             `json:"notes,omitempty"`
	DeviceID  string             `json:"device_id"`
	AddedBy   string             `json:"added_by"`
	Mine      bool               `json:"mine"`
}

// CartView adalah payload GET cart: baris yang terlihat device pemanggil
// ditambah ringkasan total.
type CartView struct {
	Items       []CartLine `json:"items"`
	Total       int64      `json:"total"`
	ItemCount   int        `json:"item_count"`
	PaymentMode string     `json:"payment_mode"`
	IsHost      bool       `json:"is_host"`
}

// visibleCartItems memuat baris cart sesuai aturan visibilitas: mode
// individual/split tiap device hanya melihat miliknya sendiri, host termasuk;
// mode shared semua peserta melihat seluruh cart meja.
func visibleCartItems(tx *gorm.DB, tableID uint, session *models.TableSession, deviceID string) ([]models.CartItem, error) {
	q := tx.Preload("Product").Where("table_id = ?", tableID).Order("id ASC")
	if session.Metadata.PaymentMode.OwnItemsOnly() {
		q = q.Where("device_id = ?", deviceID)
	}

	var items []models.CartItem
	if err := q.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// List mengembalikan isi cart yang terlihat device pemanggil.
func (s *CartService) List(tableID uint, info RequestInfo) (*CartView, error) {
	session, err := activeSession(s.DB, tableID)
	if err != nil {
		return nil, err
	}

	items, err := visibleCartItems(s.DB, tableID, session, info.DeviceID)
	if err != nil {
		return nil, err
	}

	view := &CartView{
		Items:       make([]CartLine, 0, len(items)),
		PaymentMode: session.Metadata.PaymentMode.String(),
		IsHost:      session.IsHost(info.DeviceID),
	}
	for _, it := range items {
		view.Items = append(view.Items, CartLine{
			ID:        it.ID,
			ProductID: it.ProductID,
			Name:      it.Product.Name,
			Price:     it.Product.Price,
			Quantity:  it.Quantity,
			Options:   it.Options,
			Notes:     it.Notes,
			DeviceID:  it.DeviceID,
			AddedBy:   session.UserName(it.DeviceID),
			Mine:      it.DeviceID == info.DeviceID,
		})
		view.Total += it.Product.Price * int64(it.Quantity)
		view.ItemCount += it.Quantity
	}
	return view, nil
}

// AddInput adalah parameter penambahan item ke cart. Field id mengacu ke
// produk menu.
type AddInput struct {
	ProductID uint               `json:"id" binding:"required"`
	Quantity  int                `json:"quantity"`
	Options   models.ItemOptions `json:"options"`
	Notes     string             `json:"notes"`
}

// Add menaruh item atas nama device pemanggil. Item dengan produk, options,
// dan notes identik digabung dengan menambah quantity.
func (s *CartService) Add(tableID uint, in AddInput, info RequestInfo) (*models.CartItem, error) {
	if in.Quantity <= 0 {
		in.Quantity = 1
	}

	var item models.CartItem
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		session, err := activeSession(tx, tableID)
		if err != nil {
			return err
		}

		var product models.MenuItem
		if err := tx.Where("id = ? AND available = ?", in.ProductID, true).First(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMenuItemNotFound
			}
			return err
		}

		var existing []models.CartItem
		if err := tx.Where("table_id = ? AND device_id = ? AND product_id = ?",
			tableID, info.DeviceID, in.ProductID).Find(&existing).Error; err != nil {
			return err
		}
		for i := range existing {
			if sameOptions(existing[i].Options, in.Options) && existing[i].Notes == in.Notes {
				existing[i].Quantity += in.Quantity
				if err := tx.Save(&existing[i]).Error; err != nil {
					return err
				}
				item = existing[i]
				return touchActivity(tx, session.ID)
			}
		}

		item = models.CartItem{
			TableID:   tableID,
			ProductID: in.ProductID,
			DeviceID:  info.DeviceID,
			Quantity:  in.Quantity,
			Options:   in.Options,
			Notes:     in.Notes,
		}
		if err := tx.Create(&item).Error; err != nil {
			return err
		}
		return touchActivity(tx, session.ID)
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func sameOptions(a, b models.ItemOptions) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if fmt.Sprint(b[k]) != fmt.Sprint(v) {
			return false
		}
	}
	return true
}

// Remove menghapus satu baris cart. Host boleh menghapus item siapa pun,
// guest hanya miliknya sendiri.
func (s *CartService) Remove(tableID, itemID uint, info RequestInfo) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		session, err := activeSession(tx, tableID)
		if err != nil {
			return err
		}

		var item models.CartItem
		if err := tx.Where("id = ? AND table_id = ?", itemID, tableID).First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCartItemNotFound
			}
			return err
		}

		if item.DeviceID != info.DeviceID && !session.IsHost(info.DeviceID) {
			return ErrNotYourItem
		}

		if err := tx.Delete(&item).Error; err != nil {
			return err
		}
		return touchActivity(tx, session.ID)
	})
}

// CheckoutInput adalah parameter checkout cart meja.
type CheckoutInput struct {
	CustomerName  string `json:"customer_name"`
	PaymentMethod string `json:"payment_method"`
	// Mode "individual" memaksa checkout hanya item pemanggil walau mode
	// sesi shared.
	Mode       string `json:"mode"`
	Individual bool   `json:"individual"`
	// Paid menandai pembayaran sudah diterima di muka (dicatat, bukan diproses).
	Paid bool `json:"paid"`
}

// paymentStatusFor menurunkan status pembayaran awal order: cash dibayar di
// kasir belakangan (unpaid), metode lain menunggu konfirmasi (pending).
func paymentStatusFor(method string, paid bool) string {
	if paid {
		return models.PaymentStatusPaid
	}
	if method == "" || method == "cash" {
		return models.PaymentStatusUnpaid
	}
	return models.PaymentStatusPending
}

// Checkout mengubah cart menjadi order permanen dalam satu transaksi:
// snapshot item, buat order, kurangi stok bahan per resep, hapus baris cart
// yang ter-checkout. Gagal di tengah berarti tidak ada yang berubah.
func (s *CartService) Checkout(tableID uint, in CheckoutInput, info RequestInfo) (*models.Order, error) {
	var order *models.Order

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		session, err := activeSession(tx, tableID)
		if err != nil {
			return err
		}

		individual := in.Individual || in.Mode == "individual" ||
			session.Metadata.PaymentMode.OwnItemsOnly()

		// Kunci baris cart yang masuk scope supaya device lain tidak
		// menambah/menghapus di tengah checkout
		q := lockForUpdate(tx).Preload("Product.Ingredients").Where("table_id = ?", tableID)
		if individual {
			q = q.Where("device_id = ?", info.DeviceID)
		}
		var items []models.CartItem
		if err := q.Order("id ASC").Find(&items).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrCartEmpty
		}

		var table models.Table
		if err := tx.First(&table, tableID).Error; err != nil {
			return err
		}

		lines := make([]models.OrderLine, 0, len(items))
		var subtotal int64
		for _, it := range items {
			lines = append(lines, models.OrderLine{
				ProductID: it.ProductID,
				Name:      it.Product.Name,
				Quantity:  it.Quantity,
				Price:     it.Product.Price,
				Options:   it.Options,
				Notes:     it.Notes,
			})
			subtotal += it.Product.Price * int64(it.Quantity)
		}

		customerName := in.CustomerName
		if customerName == "" {
			customerName = session.UserName(info.DeviceID)
		}

		created := models.Order{
			OrderNumber:   generateOrderNumber(tx),
			CustomerName:  customerName,
			TableID:       &table.ID,
			TableNumber:   table.Number,
			Items:         lines,
			Subtotal:      subtotal,
			Total:         subtotal,
			PaymentMethod: in.PaymentMethod,
			PaymentStatus: paymentStatusFor(in.PaymentMethod, in.Paid),
			Status:        models.OrderStatusReceived,
			OrderType:     "dine_in",
			DeviceID:      info.DeviceID,
			SessionID:     session.SessionID,
			DeviceIP:      info.IP,
			UserAgent:     info.UserAgent,
			GroupOrder:    !individual,
			PaymentMode:   session.Metadata.PaymentMode,
		}
		if in.Paid {
			created.MarkAsPaid()
		}
		if err := tx.Create(&created).Error; err != nil {
			return err
		}

		if err := deductIngredients(tx, items); err != nil {
			return err
		}

		// Hanya baris yang ter-checkout yang dihapus; item device lain
		// (checkout individual) tetap di cart
		ids := make([]uint, 0, len(items))
		for _, it := range items {
			ids = append(ids, it.ID)
		}
		if err := tx.Where("id IN ?", ids).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}

		if err := touchActivity(tx, session.ID); err != nil {
			return err
		}

		order = &created
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Order %s created for table %d: %s (total %d)",
		order.OrderNumber, tableID, order.ItemsDescription(), order.Total)
	return order, nil
}

// deductIngredients mengurangi stok bahan sesuai resep tiap item. Update
// atomik di level SQL; stok boleh jatuh ke bawah min level, itu yang
// memicu notifikasi low stock.
func deductIngredients(tx *gorm.DB, items []models.CartItem) error {
	need := map[uint]float64{}
	for _, it := range items {
		for _, ing := range it.Product.Ingredients {
			need[ing.InventoryItemID] += ing.Quantity * float64(it.Quantity)
		}
	}

	for invID, qty := range need {
		if err := tx.Model(&models.InventoryItem{}).Where("id = ?", invID).
			UpdateColumn("stock", gorm.Expr("stock - ?", qty)).Error; err != nil {
			return err
		}

		var inv models.InventoryItem
		if err := tx.First(&inv, invID).Error; err != nil {
			return err
		}
		if inv.Stock < 0 {
			// Stok minus tidak memblokir order, cukup ditandai
			utils.ErrorLogger.Printf("Stock for %s went negative: %.4f %s", inv.Name, inv.Stock, inv.Unit)
		}
		if inv.IsLowStock() {
			notif := models.Notification{
				Type:    models.NotificationTypeLowStock,
				Title:   "Stok menipis: " + inv.Name,
				Message: fmt.Sprintf("Sisa stok %s: %.2f %s (minimum %.2f)", inv.Name, inv.Stock, inv.Unit, inv.MinStockLevel),
			}
			if err := tx.Create(&notif).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// generateOrderNumber membuat nomor order pendek unik, contoh ORD-3F2A91BC.
func generateOrderNumber(tx *gorm.DB) string {
	for i := 0; i < 5; i++ {
		candidate := "ORD-" + strings.ToUpper(uuid.NewString()[:8])
		var count int64
		if err := tx.Model(&models.Order{}).Where("order_number = ?", candidate).Count(&count).Error; err != nil {
			// Gagal cek tidak boleh dibaca sebagai bebas tabrakan
			continue
		}
		if count == 0 {
			return candidate
		}
	}
	// fallback dengan timestamp, praktis tidak pernah tercapai
	return fmt.Sprintf("ORD-%d", time.Now().UnixNano())
}
