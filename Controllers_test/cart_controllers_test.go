package Controllers_test

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/yeremiapane/cafe-order-app/models"
)

func seedMenu(db *gorm.DB) (models.MenuItem, models.InventoryItem) {
	category := models.MenuCategory{Name: "Coffee"}
	db.Create(&category)

	milk := models.InventoryItem{Name: "Milk", Stock: 1000, Unit: "ml", MinStockLevel: 100}
	db.Create(&milk)

	latte := models.MenuItem{CategoryID: category.ID, Name: "Latte", Price: 450, Available: true}
	db.Create(&latte)
	db.Create(&models.MenuItemIngredient{
		MenuItemID:      latte.ID,
		InventoryItemID: milk.ID,
		Quantity:        200,
	})
	return latte, milk
}

func TestCartAddListRemoveOverHTTP(t *testing.T) {
	db := setupTestDB(t)
	seedTestTable(db)
	latte, _ := seedMenu(db)
	router := setupCustomerRouter(db)

	device := newTestDevice(router)
	device.do(t, "GET", "/table/qr-test-token", nil)
	device.do(t, "POST", "/session/init-host", map[string]string{"customer_name": "Andi"})

	w := device.do(t, "POST", "/table-cart/add", map[string]interface{}{
		"id":       latte.ID,
		"quantity": 2,
		"notes":    "less ice",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = device.do(t, "GET", "/table-cart", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	response := decodeResponse(t, w)
	data := response["data"].(map[string]interface{})
	items := data["items"].([]interface{})
	assert.Len(t, items, 1)
	assert.EqualValues(t, 900, data["total"])

	line := items[0].(map[string]interface{})
	assert.Equal(t, "Latte", line["name"])
	assert.Equal(t, true, line["mine"])
	assert.Equal(t, "Andi", line["added_by"])

	itemID := int(line["id"].(float64))
	w = device.do(t, "DELETE", "/table-cart/"+strconv.Itoa(itemID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = device.do(t, "GET", "/table-cart", nil)
	response = decodeResponse(t, w)
	data = response["data"].(map[string]interface{})
	assert.Empty(t, data["items"])
}

func TestCartAddUnknownProduct(t *testing.T) {
	db := setupTestDB(t)
	seedTestTable(db)
	seedMenu(db)
	router := setupCustomerRouter(db)

	device := newTestDevice(router)
	device.do(t, "GET", "/table/qr-test-token", nil)
	device.do(t, "POST", "/session/init-host", map[string]string{"customer_name": "Andi"})

	w := device.do(t, "POST", "/table-cart/add", map[string]interface{}{"id": 9999})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCheckoutOverHTTP(t *testing.T) {
	db := setupTestDB(t)
	seedTestTable(db)
	latte, milk := seedMenu(db)
	router := setupCustomerRouter(db)

	device := newTestDevice(router)
	device.do(t, "GET", "/table/qr-test-token", nil)
	device.do(t, "POST", "/session/init-host", map[string]string{"customer_name": "Andi"})
	device.do(t, "POST", "/table-cart/add", map[string]interface{}{
		"id":       latte.ID,
		"quantity": 2,
	})

	w := device.do(t, "POST", "/table-cart/checkout", map[string]string{"payment_method": "cash"})
	assert.Equal(t, http.StatusCreated, w.Code)
	response := decodeResponse(t, w)
	data := response["data"].(map[string]interface{})
	assert.EqualValues(t, 900, data["total"])
	assert.Equal(t, "received", data["status"])
	assert.NotEmpty(t, data["order_number"])

	// Stok susu berkurang sesuai resep
	var reloaded models.InventoryItem
	db.First(&reloaded, milk.ID)
	assert.InDelta(t, 600, reloaded.Stock, 0.0001)

	// Checkout kedua tanpa item baru ditolak
	w = device.do(t, "POST", "/table-cart/checkout", map[string]string{"payment_method": "cash"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGuestCannotRemoveHostItem(t *testing.T) {
	db := setupTestDB(t)
	seedTestTable(db)
	latte, _ := seedMenu(db)
	router := setupCustomerRouter(db)

	host := newTestDevice(router)
	guest := newTestDevice(router)

	host.do(t, "GET", "/table/qr-test-token", nil)
	host.do(t, "POST", "/session/init-host", map[string]string{"customer_name": "Andi"})
	guest.do(t, "GET", "/table/qr-test-token", nil)
	guest.do(t, "POST", "/session/join-request", map[string]string{"customer_name": "Budi"})

	w := host.do(t, "POST", "/table-cart/add", map[string]interface{}{"id": latte.ID})
	assert.Equal(t, http.StatusCreated, w.Code)

	var item models.CartItem
	db.First(&item)

	w = guest.do(t, "DELETE", "/table-cart/"+strconv.Itoa(int(item.ID)), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
