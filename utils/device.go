package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Device identity: cookie UUID berumur panjang yang mengkorelasikan satu
// browser/device lintas request, tanpa login. Tidak HttpOnly supaya script
// client boleh membacanya.
const (
	DeviceCookieName   = "qs_device_id"
	deviceCookieMaxAge = 365 * 24 * 60 * 60 // 1 tahun, dalam detik
)

// GetOrCreateDeviceID mengembalikan device ID yang stabil untuk request ini.
// Cookie yang valid dipakai ulang; selain itu dibuat UUID baru dan cookie
// diset pada response. Tidak pernah gagal.
func GetOrCreateDeviceID(c *gin.Context) string {
	if id, err := c.Cookie(DeviceCookieName); err == nil && IsValidDeviceID(id) {
		return id
	}

	id := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(DeviceCookieName, id, deviceCookieMaxAge, "/", "", false, false)
	return id
}

// IsValidDeviceID memeriksa format UUID; cookie yang korup dianggap tidak ada.
func IsValidDeviceID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
