package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/yeremiapane/cafe-order-app/models"
)

type cartFixture struct {
	db      *gorm.DB
	svc     *CartService
	session *SessionService
	table   models.Table
	latte   models.MenuItem
	cake    models.MenuItem
	milk    models.InventoryItem
}

func setupCartFixture(t *testing.T) *cartFixture {
	db := setupSessionTestDB(t)
	f := &cartFixture{
		db:      db,
		svc:     NewCartService(db),
		session: NewSessionService(db),
		table:   seedTable(db, 1, 4),
	}

	category := models.MenuCategory{Name: "Drinks"}
	db.Create(&category)

	f.milk = models.InventoryItem{Name: "Milk", Stock: 1000, Unit: "ml", MinStockLevel: 500}
	db.Create(&f.milk)

	f.latte = models.MenuItem{CategoryID: category.ID, Name: "Latte", Price: 300, Available: true}
	db.Create(&f.latte)
	db.Create(&models.MenuItemIngredient{
		MenuItemID:      f.latte.ID,
		InventoryItemID: f.milk.ID,
		Quantity:        200, // 200 ml per gelas
	})

	f.cake = models.MenuItem{CategoryID: category.ID, Name: "Cheesecake", Price: 300, Available: true}
	db.Create(&f.cake)

	return f
}

func TestAddItemMergesIdenticalLines(t *testing.T) {
	f := setupCartFixture(t)
	_, err := f.session.InitHost(f.table.ID, "Andi", deviceInfo("device-host"))
	assert.NoError(t, err)

	item, err := f.svc.Add(f.table.ID, AddInput{ProductID: f.latte.ID, Quantity: 1}, deviceInfo("device-host"))
	assert.NoError(t, err)
	assert.Equal(t, 1, item.Quantity)

	merged, err := f.svc.Add(f.table.ID, AddInput{ProductID: f.latte.ID, Quantity: 2}, deviceInfo("device-host"))
	assert.NoError(t, err)
	assert.Equal(t, item.ID, merged.ID)
	assert.Equal(t, 3, merged.Quantity)

	// Notes berbeda membuat baris terpisah
	separate, err := f.svc.Add(f.table.ID, AddInput{ProductID: f.latte.ID, Quantity: 1, Notes: "less sugar"}, deviceInfo("device-host"))
	assert.NoError(t, err)
	assert.NotEqual(t, item.ID, separate.ID)
}

func TestAddUnavailableItem(t *testing.T) {
	f := setupCartFixture(t)
	_, err := f.session.InitHost(f.table.ID, "Andi", deviceInfo("device-host"))
	assert.NoError(t, err)

	f.db.Model(&f.cake).Update("available", false)

	_, err = f.svc.Add(f.table.ID, AddInput{ProductID: f.cake.ID}, deviceInfo("device-host"))
	assert.ErrorIs(t, err, ErrMenuItemNotFound)
}

func TestCartVisibilityByPaymentMode(t *testing.T) {
	f := setupCartFixture(t)
	_, err := f.session.InitHost(f.table.ID, "Andi", deviceInfo("device-host"))
	assert.NoError(t, err)
	_, _, err = f.session.JoinRequest(f.table.ID, "Budi", deviceInfo("device-guest"))
	assert.NoError(t, err)
	_, err = f.session.HandleGuestAction(f.table.ID, "device-guest", "approve", deviceInfo("device-host"))
	assert.NoError(t, err)

	_, err = f.svc.Add(f.table.ID, AddInput{ProductID: f.latte.ID}, deviceInfo("device-host"))
	assert.NoError(t, err)
	_, err = f.svc.Add(f.table.ID, AddInput{ProductID: f.cake.ID}, deviceInfo("device-guest"))
	assert.NoError(t, err)

	// Mode host: semua melihat semua, lengkap dengan nama penambahnya
	guestView, err := f.svc.List(f.table.ID, deviceInfo("device-guest"))
	assert.NoError(t, err)
	assert.Len(t, guestView.Items, 2)
	assert.Equal(t, "Budi", guestView.Items[1].AddedBy)

	// Mode individual: tiap device hanya melihat miliknya, host tidak terkecuali
	_, err = f.session.UpdateSettings(f.table.ID, models.PaymentModeIndividual, deviceInfo("device-host"))
	assert.NoError(t, err)

	guestView, err = f.svc.List(f.table.ID, deviceInfo("device-guest"))
	assert.NoError(t, err)
	assert.Len(t, guestView.Items, 1)
	assert.Equal(t, "Cheesecake", guestView.Items[0].Name)
	assert.True(t, guestView.Items[0].Mine)

	hostView, err := f.svc.List(f.table.ID, deviceInfo("device-host"))
	assert.NoError(t, err)
	assert.Len(t, hostView.Items, 1)
	assert.Equal(t, "Latte", hostView.Items[0].Name)
	assert.True(t, hostView.Items[0].Mine)
}

func TestRemoveItemPermissions(t *testing.T) {
	f := setupCartFixture(t)
	_, err := f.session.InitHost(f.table.ID, "Andi", deviceInfo("device-host"))
	assert.NoError(t, err)
	_, _, err = f.session.JoinRequest(f.table.ID, "Budi", deviceInfo("device-guest"))
	assert.NoError(t, err)

	hostItem, err := f.svc.Add(f.table.ID, AddInput{ProductID: f.latte.ID}, deviceInfo("device-host"))
	assert.NoError(t, err)
	guestItem, err := f.svc.Add(f.table.ID, AddInput{ProductID: f.cake.ID}, deviceInfo("device-guest"))
	assert.NoError(t, err)

	// Guest tidak boleh menghapus item host
	err = f.svc.Remove(f.table.ID, hostItem.ID, deviceInfo("device-guest"))
	assert.ErrorIs(t, err, ErrNotYourItem)

	// Host boleh menghapus item siapa pun
	err = f.svc.Remove(f.table.ID, guestItem.ID, deviceInfo("device-host"))
	assert.NoError(t, err)

	err = f.svc.Remove(f.table.ID, guestItem.ID, deviceInfo("device-host"))
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestCheckoutCreatesOrderAndDeductsStock(t *testing.T) {
	f := setupCartFixture(t)
	session, err := f.session.InitHost(f.table.ID, "Andi", deviceInfo("device-host"))
	assert.NoError(t, err)

	_, err = f.svc.Add(f.table.ID, AddInput{ProductID: f.latte.ID, Quantity: 2}, deviceInfo("device-host"))
	assert.NoError(t, err)
	_, err = f.svc.Add(f.table.ID, AddInput{ProductID: f.cake.ID, Quantity: 1}, deviceInfo("device-host"))
	assert.NoError(t, err)

	order, err := f.svc.Checkout(f.table.ID, CheckoutInput{PaymentMethod: "cash"}, deviceInfo("device-host"))
	assert.NoError(t, err)

	// 2x Latte @300 + 1x Cheesecake @300 = 900
	assert.EqualValues(t, 900, order.Total)
	assert.Len(t, order.Items, 2)
	assert.Equal(t, models.OrderStatusReceived, order.Status)
	assert.Equal(t, session.SessionID, order.SessionID)
	assert.Equal(t, "Andi", order.CustomerName)
	assert.True(t, order.GroupOrder)

	// Resep: 2 gelas x 200 ml susu
	var milk models.InventoryItem
	f.db.First(&milk, f.milk.ID)
	assert.InDelta(t, 600, milk.Stock, 0.0001)

	// Cart meja kosong setelah checkout
	var remaining int64
	f.db.Model(&models.CartItem{}).Where("table_id = ?", f.table.ID).Count(&remaining)
	assert.EqualValues(t, 0, remaining)
}

func TestCheckoutLowStockNotification(t *testing.T) {
	f := setupCartFixture(t)
	_, err := f.session.InitHost(f.table.ID, "Andi", deviceInfo("device-host"))
	assert.NoError(t, err)

	// 3 gelas x 200 ml = 600 ml, sisa 400 di bawah minimum 500
	_, err = f.svc.Add(f.table.ID, AddInput{ProductID: f.latte.ID, Quantity: 3}, deviceInfo("device-host"))
	assert.NoError(t, err)

	_, err = f.svc.Checkout(f.table.ID, CheckoutInput{}, deviceInfo("device-host"))
	assert.NoError(t, err)

	var notif models.Notification
	err = f.db.Where("type = ?", models.NotificationTypeLowStock).First(&notif).Error
	assert.NoError(t, err)
	assert.Contains(t, notif.Title, "Milk")
}

func TestCheckoutIndividualScope(t *testing.T) {
	f := setupCartFixture(t)
	_, err := f.session.InitHost(f.table.ID, "Andi", deviceInfo("device-host"))
	assert.NoError(t, err)
	_, _, err = f.session.JoinRequest(f.table.ID, "Budi", deviceInfo("device-guest"))
	assert.NoError(t, err)
	_, err = f.session.HandleGuestAction(f.table.ID, "device-guest", "approve", deviceInfo("device-host"))
	assert.NoError(t, err)
	_, err = f.session.UpdateSettings(f.table.ID, models.PaymentModeIndividual, deviceInfo("device-host"))
	assert.NoError(t, err)

	_, err = f.svc.Add(f.table.ID, AddInput{ProductID: f.latte.ID}, deviceInfo("device-host"))
	assert.NoError(t, err)
	_, err = f.svc.Add(f.table.ID, AddInput{ProductID: f.cake.ID}, deviceInfo("device-guest"))
	assert.NoError(t, err)

	// Mode individual: guest hanya checkout item miliknya
	order, err := f.svc.Checkout(f.table.ID, CheckoutInput{}, deviceInfo("device-guest"))
	assert.NoError(t, err)
	assert.Len(t, order.Items, 1)
	assert.Equal(t, "Cheesecake", order.Items[0].Name)
	assert.EqualValues(t, 300, order.Total)
	assert.False(t, order.GroupOrder)
	assert.Equal(t, "Budi", order.CustomerName)

	// Item host masih tertinggal di cart
	var remaining int64
	f.db.Model(&models.CartItem{}).Where("table_id = ?", f.table.ID).Count(&remaining)
	assert.EqualValues(t, 1, remaining)
}

func TestCheckoutEmptyCart(t *testing.T) {
	f := setupCartFixture(t)
	_, err := f.session.InitHost(f.table.ID, "Andi", deviceInfo("device-host"))
	assert.NoError(t, err)

	_, err = f.svc.Checkout(f.table.ID, CheckoutInput{}, deviceInfo("device-host"))
	assert.ErrorIs(t, err, ErrCartEmpty)
}

func TestCheckoutWithoutSession(t *testing.T) {
	f := setupCartFixture(t)

	_, err := f.svc.Checkout(f.table.ID, CheckoutInput{}, deviceInfo("device-x"))
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestGenerateOrderNumberFallsBackOnDBError(t *testing.T) {
	f := setupCartFixture(t)

	// Tanpa tabel orders setiap cek tabrakan gagal; loop harus jatuh ke
	// fallback timestamp, bukan membaca error sebagai bebas tabrakan
	assert.NoError(t, f.db.Migrator().DropTable(&models.Order{}))

	number := generateOrderNumber(f.db)
	assert.True(t, strings.HasPrefix(number, "ORD-"))
	assert.Greater(t, len(number), len("ORD-12345678"))
}
