package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/cafe-order-app/models"
	"github.com/yeremiapane/cafe-order-app/router"
	"github.com/yeremiapane/cafe-order-app/services"
	"github.com/yeremiapane/cafe-order-app/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func setupIntegrationDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:integration?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Table{},
		&models.TableSession{},
		&models.DeviceSession{},
		&models.MenuCategory{},
		&models.MenuItem{},
		&models.InventoryItem{},
		&models.MenuItemIngredient{},
		&models.CartItem{},
		&models.Order{},
		&models.Notification{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

// browser mensimulasikan satu device customer dengan cookie jar sendiri.
type browser struct {
	router  *gin.Engine
	cookies map[string]string
	headers map[string]string
}

func newBrowser(r *gin.Engine) *browser {
	return &browser{
		router:  r,
		cookies: map[string]string{utils.DeviceCookieName: uuid.NewString()},
		headers: map[string]string{},
	}
}

func (b *browser) request(t *testing.T, method, url string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range b.headers {
		req.Header.Set(k, v)
	}
	for name, value := range b.cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}

	w := httptest.NewRecorder()
	b.router.ServeHTTP(w, req)

	for _, ck := range w.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(b.cookies, ck.Name)
			continue
		}
		b.cookies[ck.Name] = ck.Value
	}

	var response map[string]interface{}
	if len(w.Body.Bytes()) > 0 {
		json.Unmarshal(w.Body.Bytes(), &response)
	}
	return w, response
}

// TestEndToEndTableOrdering menguji alur utama dari scan QR sampai order selesai:
// 1. Staff login -> token
// 2. Staff membuat meja (dapat QR token)
// 3. Host scan QR, klaim host
// 4. Guest scan QR, join, host approve
// 5. Keduanya menambah item; host checkout seluruh cart
// 6. Stok bahan berkurang sesuai resep
// 7. Staff menggerakkan order sampai completed dan mark paid
// 8. Sesi selesai bayar lalu host disconnect, meja kembali available
func TestEndToEndTableOrdering(t *testing.T) {
	db := setupIntegrationDB(t)

	// Seed akun staff dan menu
	hashed, _ := bcrypt.GenerateFromPassword([]byte("rahasia-dapur"), bcrypt.DefaultCost)
	db.Create(&models.User{Name: "Kasir", Email: "kasir@cafe.test", Password: string(hashed), Role: "admin"})

	category := models.MenuCategory{Name: "Coffee"}
	db.Create(&category)
	beans := models.InventoryItem{Name: "Coffee Beans", Stock: 500, Unit: "g", MinStockLevel: 50}
	db.Create(&beans)
	espresso := models.MenuItem{CategoryID: category.ID, Name: "Espresso", Price: 250, Available: true}
	db.Create(&espresso)
	db.Create(&models.MenuItemIngredient{MenuItemID: espresso.ID, InventoryItemID: beans.ID, Quantity: 18})

	sweeper := services.NewSessionSweeper(db)
	r := router.SetupRouter(db, sweeper)

	// 1. Login staff
	staff := newBrowser(r)
	w, response := staff.request(t, "POST", "/login", map[string]string{
		"email":    "kasir@cafe.test",
		"password": "rahasia-dapur",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	token := response["data"].(map[string]interface{})["token"].(string)
	staff.headers["Authorization"] = "Bearer " + token

	// 2. Buat meja
	w, response = staff.request(t, "POST", "/admin/tables", map[string]interface{}{
		"number":   12,
		"capacity": 4,
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	tableData := response["data"].(map[string]interface{})
	qrToken := tableData["qr_token"].(string)
	tableID := int(tableData["id"].(float64))

	// 3. Host scan dan klaim
	host := newBrowser(r)
	w, response = host.request(t, "GET", "/table/"+qrToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, response["data"].(map[string]interface{})["new_session"])

	w, _ = host.request(t, "POST", "/session/customer-type", map[string]string{
		"type":          "group",
		"payment_mode":  "host",
		"customer_name": "Andi",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	// 4. Guest join dan di-approve
	guest := newBrowser(r)
	w, _ = guest.request(t, "GET", "/table/"+qrToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = guest.request(t, "POST", "/session/join-request", map[string]string{"customer_name": "Budi"})
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = host.request(t, "POST", "/session/guest-action", map[string]string{
		"target_device_id": guest.cookies[utils.DeviceCookieName],
		"action":           "approve",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	// 5. Tambah item dari dua device, host checkout
	w, _ = host.request(t, "POST", "/table-cart/add", map[string]interface{}{
		"id": espresso.ID, "quantity": 2,
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	w, _ = guest.request(t, "POST", "/table-cart/add", map[string]interface{}{
		"id": espresso.ID, "quantity": 1,
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	// Mode host: guest melihat seluruh cart meja
	w, response = guest.request(t, "GET", "/table-cart", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 750, response["data"].(map[string]interface{})["total"])

	w, response = host.request(t, "POST", "/table-cart/checkout", map[string]string{"payment_method": "cash"})
	assert.Equal(t, http.StatusCreated, w.Code)
	orderData := response["data"].(map[string]interface{})
	assert.EqualValues(t, 750, orderData["total"])
	orderID := int(orderData["id"].(float64))
	sessionID := orderData["session_id"].(string)

	// 6. Stok berkurang: 3 espresso x 18 g
	var reloadedBeans models.InventoryItem
	db.First(&reloadedBeans, beans.ID)
	assert.InDelta(t, 446, reloadedBeans.Stock, 0.0001)

	// 7. Staff memproses order
	for _, status := range []string{"confirmed", "preparing", "ready", "served", "completed"} {
		w, _ = staff.request(t, "PATCH", "/admin/orders/"+strconv.Itoa(orderID)+"/status",
			map[string]string{"status": status})
		assert.Equal(t, http.StatusOK, w.Code)
	}
	w, _ = staff.request(t, "POST", "/admin/orders/"+strconv.Itoa(orderID)+"/mark-paid",
		map[string]string{"payment_method": "cash"})
	assert.Equal(t, http.StatusOK, w.Code)

	// 8. Sesi selesai bayar, host disconnect, meja kosong lagi
	w, _ = host.request(t, "POST", "/session/complete-payment", map[string]string{"session_id": sessionID})
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = host.request(t, "POST", "/session/disconnect", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var table models.Table
	db.First(&table, tableID)
	assert.Equal(t, 0, table.Occupied)
	assert.Equal(t, models.TableStatusAvailable, table.Status)

	// Order yang sudah completed tidak bisa dibatalkan customer
	w, _ = host.request(t, "POST", "/my-orders/"+strconv.Itoa(orderID)+"/cancel", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}
