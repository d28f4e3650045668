package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/cafe-order-app/middlewares"
	"github.com/yeremiapane/cafe-order-app/models"
	"github.com/yeremiapane/cafe-order-app/services"
	"github.com/yeremiapane/cafe-order-app/utils"
)

type SessionController struct {
	DB      *gorm.DB
	Service *services.SessionService
	Sweeper *services.SessionSweeper
}

func NewSessionController(db *gorm.DB, sweeper *services.SessionSweeper) *SessionController {
	return &SessionController{
		DB:      db,
		Service: services.NewSessionService(db),
		Sweeper: sweeper,
	}
}

// ScanTable menangani URL hasil scan QR meja. Device menempel ke sesi yang
// sedang berjalan atau membuat sesi baru, lalu konteks meja disimpan di cookie.
func (sc *SessionController) ScanTable(c *gin.Context) {
	ctx := middlewares.GetTableContext(c)

	table, session, created, err := sc.Service.ScanTable(c.Param("token"), requestInfo(ctx))
	if err != nil {
		middlewares.ClearTableCookies(c)
		respondServiceError(c, err)
		return
	}

	middlewares.SetTableCookies(c, table.ID, table.Number)

	message := "Joined existing table session"
	if created {
		message = "Table session started"
	}
	utils.RespondJSON(c, http.StatusOK, message, gin.H{
		"table":       table,
		"session":     session,
		"new_session": created,
	})
}

type accessCodeRequest struct {
	AccessCode string `json:"access_code" binding:"required"`
}

// EnterAccessCode: fallback input manual kode meja bila QR tidak terbaca.
func (sc *SessionController) EnterAccessCode(c *gin.Context) {
	ctx := middlewares.GetTableContext(c)

	var req accessCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table, session, created, err := sc.Service.ScanByAccessCode(req.AccessCode, requestInfo(ctx))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	middlewares.SetTableCookies(c, table.ID, table.Number)

	message := "Joined existing table session"
	if created {
		message = "Table session started"
	}
	utils.RespondJSON(c, http.StatusOK, message, gin.H{
		"table":       table,
		"session":     session,
		"new_session": created,
	})
}

type customerTypeRequest struct {
	CustomerType string `json:"type" binding:"required,oneof=individual group"`
	PaymentMode  string `json:"payment_mode"`
	CustomerName string `json:"customer_name"`
}

// SetCustomerType memproses pilihan awal device: makan sendiri atau group.
// Pilihan group dengan mode host/split sekaligus klaim host.
func (sc *SessionController) SetCustomerType(c *gin.Context) {
	ctx, ok := requireTableContext(c)
	if !ok {
		return
	}

	var req customerTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	mode, err := models.ParsePaymentMode(req.PaymentMode)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.CustomerType == "group" && mode == models.PaymentModeUnset {
		mode = models.PaymentModeHost
	}

	session, err := sc.Service.SetCustomerType(ctx.TableID, req.CustomerType, mode, req.CustomerName, requestInfo(ctx))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Customer type updated", session)
}

type initHostRequest struct {
	CustomerName string `json:"customer_name"`
}

// InitHost membuat sesi group dengan pemanggil sebagai host.
func (sc *SessionController) InitHost(c *gin.Context) {
	ctx, ok := requireTableContext(c)
	if !ok {
		return
	}

	var req initHostRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	session, err := sc.Service.InitHost(ctx.TableID, req.CustomerName, requestInfo(ctx))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Host session ready", session)
}

type joinRequest struct {
	CustomerName string `json:"customer_name" binding:"required"`
}

// JoinRequest mendaftarkan device sebagai guest pending approval host.
func (sc *SessionController) JoinRequest(c *gin.Context) {
	ctx, ok := requireTableContext(c)
	if !ok {
		return
	}

	var req joinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	status, session, err := sc.Service.JoinRequest(ctx.TableID, req.CustomerName, requestInfo(ctx))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Join request recorded", gin.H{
		"status":  status,
		"session": session.SessionID,
	})
}

type guestActionRequest struct {
	TargetDeviceID string `json:"target_device_id" binding:"required"`
	Action         string `json:"action" binding:"required,oneof=approve reject"`
}

// GuestAction: host approve/reject permintaan join.
func (sc *SessionController) GuestAction(c *gin.Context) {
	ctx, ok := requireTableContext(c)
	if !ok {
		return
	}

	var req guestActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	users, err := sc.Service.HandleGuestAction(ctx.TableID, req.TargetDeviceID, req.Action, requestInfo(ctx))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Guest "+req.Action+"d", gin.H{"users": users})
}

type updateSettingsRequest struct {
	PaymentMode string `json:"payment_mode" binding:"required"`
}

// UpdateSettings: host mengganti payment mode di tengah sesi.
func (sc *SessionController) UpdateSettings(c *gin.Context) {
	ctx, ok := requireTableContext(c)
	if !ok {
		return
	}

	var req updateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	mode, err := models.ParsePaymentMode(req.PaymentMode)
	if err != nil || mode == models.PaymentModeUnset {
		utils.RespondError(c, http.StatusBadRequest, errors.New("payment_mode must be host, individual, or split"))
		return
	}

	session, err := sc.Service.UpdateSettings(ctx.TableID, mode, requestInfo(ctx))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Payment mode updated", session)
}

// Status adalah endpoint polling client: peserta, mode, jumlah item cart.
// Table ID boleh ditimpa lewat query ?table_id= (device multi-tab).
func (sc *SessionController) Status(c *gin.Context) {
	ctx := middlewares.GetTableContext(c)
	tableID := ctx.TableID
	if raw := c.Query("table_id"); raw != "" {
		if id, convErr := strconv.ParseUint(raw, 10, 32); convErr == nil {
			tableID = uint(id)
		}
	}
	if tableID == 0 {
		respondServiceError(c, services.ErrTableContextRequired)
		return
	}

	status, err := sc.Service.Status(tableID, requestInfo(ctx))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if status.Ended {
		middlewares.ClearTableCookies(c)
		utils.RespondJSON(c, http.StatusOK, "Session ended", gin.H{"ended": true})
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Session status", status)
}

type activityRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Activity  string `json:"activity" binding:"required"`
}

// UpdateActivity mencatat heartbeat aktivitas client.
func (sc *SessionController) UpdateActivity(c *gin.Context) {
	ctx := middlewares.GetTableContext(c)

	var req activityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	session, err := sc.Service.UpdateActivity(req.SessionID, req.Activity, requestInfo(ctx))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Activity updated", gin.H{"session_id": session.SessionID})
}

type completePaymentRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}

// CompletePayment menandai sesi selesai bayar (paid_leaving).
func (sc *SessionController) CompletePayment(c *gin.Context) {
	ctx := middlewares.GetTableContext(c)

	var req completePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	session, err := sc.Service.CompletePayment(req.SessionID, requestInfo(ctx))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Payment completed", session)
}

// Disconnect: host mengakhiri sesi, guest keluar dari daftar peserta.
func (sc *SessionController) Disconnect(c *gin.Context) {
	ctx, ok := requireTableContext(c)
	if !ok {
		return
	}

	if err := sc.Service.Disconnect(ctx.TableID, requestInfo(ctx)); err != nil {
		respondServiceError(c, err)
		return
	}
	middlewares.ClearTableCookies(c)
	utils.RespondJSON(c, http.StatusOK, "Disconnected from table", nil)
}

// ListActiveSessions untuk dashboard staff.
func (sc *SessionController) ListActiveSessions(c *gin.Context) {
	var sessions []models.TableSession
	if err := sc.DB.Preload("Table").
		Where("status IN ?", models.OccupyingSessionStatuses).
		Order("last_activity_at DESC").Find(&sessions).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Active sessions", sessions)
}

// SweepSessions menjalankan expire sweep on demand dari dashboard.
func (sc *SessionController) SweepSessions(c *gin.Context) {
	expired := sc.Sweeper.Sweep()
	utils.RespondJSON(c, http.StatusOK, "Sweep completed", gin.H{"expired": expired})
}

// ClearTableSession menutup paksa semua sesi di satu meja (staff action).
func (sc *SessionController) ClearTableSession(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	cleared, err := sc.Service.ClearTable(uint(id))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table cleared", gin.H{"cleared": cleared})
}
