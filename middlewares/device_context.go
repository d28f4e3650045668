package middlewares

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/cafe-order-app/utils"
)

const tableContextKey = "table_device_context"

// Cookie konteks meja, diset saat scan QR. Device cookie (utils.DeviceCookieName)
// adalah kunci korelasi cadangannya.
const (
	TableCookieName    = "qs_table_id"
	tableCookieMaxAge  = 12 * 60 * 60 // satu kunjungan, max 12 jam
	tableNumCookieName = "qs_table_number"
)

// TableContext adalah konteks per-request yang dirakit sekali oleh middleware
// dan dioper eksplisit ke service — tidak ada state global.
type TableContext struct {
	DeviceID    string
	TableID     uint
	TableNumber int
	IP          string
	UserAgent   string
}

func (ctx TableContext) HasTable() bool {
	return ctx.TableID != 0
}

// TableDeviceContext merakit TableContext dari cookies. Device ID selalu ada
// (dibuat bila perlu); table ID boleh kosong — endpoint yang butuh konteks
// meja menolak sendiri dengan sinyal "scan ulang QR".
func TableDeviceContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := TableContext{
			DeviceID:  utils.GetOrCreateDeviceID(c),
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		}

		if raw, err := c.Cookie(TableCookieName); err == nil {
			if id, convErr := strconv.ParseUint(raw, 10, 32); convErr == nil {
				ctx.TableID = uint(id)
			}
		}
		if raw, err := c.Cookie(tableNumCookieName); err == nil {
			if n, convErr := strconv.Atoi(raw); convErr == nil {
				ctx.TableNumber = n
			}
		}

		c.Set(tableContextKey, ctx)
		c.Next()
	}
}

// GetTableContext mengambil konteks yang diset TableDeviceContext. Aman
// dipanggil tanpa middleware; mengembalikan konteks kosong.
func GetTableContext(c *gin.Context) TableContext {
	if v, ok := c.Get(tableContextKey); ok {
		if ctx, ok := v.(TableContext); ok {
			return ctx
		}
	}
	return TableContext{}
}

// SetTableCookies menyimpan konteks meja setelah scan QR berhasil.
func SetTableCookies(c *gin.Context, tableID uint, tableNumber int) {
	c.SetCookie(TableCookieName, strconv.FormatUint(uint64(tableID), 10), tableCookieMaxAge, "/", "", false, false)
	c.SetCookie(tableNumCookieName, strconv.Itoa(tableNumber), tableCookieMaxAge, "/", "", false, false)
}

// ClearTableCookies menghapus konteks meja (disconnect / meja tidak valid).
func ClearTableCookies(c *gin.Context) {
	c.SetCookie(TableCookieName, "", -1, "/", "", false, false)
	c.SetCookie(tableNumCookieName, "", -1, "/", "", false, false)
}
