package utils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestGetOrCreateDeviceIDNewCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/", nil)

	id := GetOrCreateDeviceID(c)
	assert.True(t, IsValidDeviceID(id))

	// Cookie diset pada response dengan umur panjang
	setCookie := w.Header().Get("Set-Cookie")
	assert.Contains(t, setCookie, DeviceCookieName+"="+id)
	assert.Contains(t, setCookie, "Max-Age=31536000")
	assert.Contains(t, setCookie, "SameSite=Lax")
	assert.NotContains(t, setCookie, "HttpOnly")
}

func TestGetOrCreateDeviceIDReusesValidCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/", nil)

	existing := uuid.NewString()
	c.Request.AddCookie(&http.Cookie{Name: DeviceCookieName, Value: existing})

	assert.Equal(t, existing, GetOrCreateDeviceID(c))
	assert.Empty(t, w.Header().Get("Set-Cookie"))
}

func TestGetOrCreateDeviceIDRejectsCorruptCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/", nil)
	c.Request.AddCookie(&http.Cookie{Name: DeviceCookieName, Value: "not-a-uuid"})

	id := GetOrCreateDeviceID(c)
	assert.NotEqual(t, "not-a-uuid", id)
	assert.True(t, IsValidDeviceID(id))
	assert.True(t, strings.Contains(w.Header().Get("Set-Cookie"), id))
}

func TestDetectDeviceType(t *testing.T) {
	assert.Equal(t, "Mobile", DetectDeviceType("Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) Safari/604.1"))
	assert.Equal(t, "Mobile", DetectDeviceType("Mozilla/5.0 (Linux; Android 14; Pixel 8) Mobile Safari/537.36"))
	assert.Equal(t, "Tablet", DetectDeviceType("Mozilla/5.0 (Linux; Android 14; SM-X910) Safari/537.36"))
	assert.Equal(t, "Tablet", DetectDeviceType("Mozilla/5.0 (iPad; CPU OS 17_0 like Mac OS X) Safari/604.1"))
	assert.Equal(t, "Desktop", DetectDeviceType("Mozilla/5.0 (Windows NT 10.0; Win64; x64) Chrome/120.0"))
	assert.Equal(t, "Unknown", DetectDeviceType(""))
}

func TestDetectBrowser(t *testing.T) {
	assert.Equal(t, "Chrome", DetectBrowser("Mozilla/5.0 (Windows NT 10.0) Chrome/120.0 Safari/537.36"))
	assert.Equal(t, "Microsoft Edge", DetectBrowser("Mozilla/5.0 (Windows NT 10.0) Chrome/120.0 Safari/537.36 Edg/120.0"))
	assert.Equal(t, "Safari", DetectBrowser("Mozilla/5.0 (Macintosh) Version/17.0 Safari/605.1.15"))
	assert.Equal(t, "Firefox", DetectBrowser("Mozilla/5.0 (X11; Linux x86_64; rv:120.0) Gecko/20100101 Firefox/120.0"))
	assert.Equal(t, "Unknown", DetectBrowser(""))
}
