package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/cafe-order-app/models"
	"github.com/yeremiapane/cafe-order-app/utils"
)

// AdminController melayani dashboard staff: statistik ringkas dan notifikasi.
type AdminController struct {
	DB *gorm.DB
}

func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{DB: db}
}

// DashboardStats merangkum keadaan operasional hari ini.
func (ac *AdminController) DashboardStats(c *gin.Context) {
	today := time.Now().Truncate(24 * time.Hour)

	var ordersToday int64
	ac.DB.Model(&models.Order{}).Where("created_at >= ?", today).Count(&ordersToday)

	var revenueToday int64
	ac.DB.Model(&models.Order{}).
		Where("created_at >= ? AND status <> ?", today, models.OrderStatusCancelled).
		Select("COALESCE(SUM(total), 0)").Scan(&revenueToday)

	var pendingOrders int64
	ac.DB.Model(&models.Order{}).
		Where("status IN ?", []string{models.OrderStatusReceived, models.OrderStatusConfirmed, models.OrderStatusQueued, models.OrderStatusPreparing}).
		Count(&pendingOrders)

	var activeSessions int64
	ac.DB.Model(&models.TableSession{}).
		Where("status IN ?", models.OccupyingSessionStatuses).Count(&activeSessions)

	var occupiedTables int64
	ac.DB.Model(&models.Table{}).Where("occupied > 0").Count(&occupiedTables)

	var lowStockItems int64
	ac.DB.Model(&models.InventoryItem{}).Where("stock <= min_stock_level").Count(&lowStockItems)

	utils.RespondJSON(c, http.StatusOK, "Dashboard stats", gin.H{
		"orders_today":    ordersToday,
		"revenue_today":   revenueToday,
		"pending_orders":  pendingOrders,
		"active_sessions": activeSessions,
		"occupied_tables": occupiedTables,
		"low_stock_items": lowStockItems,
	})
}

// ListNotifications mengembalikan notifikasi terbaru, unread duluan.
func (ac *AdminController) ListNotifications(c *gin.Context) {
	var notifications []models.Notification
	if err := ac.DB.Order("is_read ASC, created_at DESC").Limit(100).
		Find(&notifications).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Notifications", notifications)
}

// MarkNotificationRead menandai satu notifikasi sudah dibaca.
func (ac *AdminController) MarkNotificationRead(c *gin.Context) {
	res := ac.DB.Model(&models.Notification{}).Where("id = ?", c.Param("id")).
		Update("is_read", true)
	if res.Error != nil {
		respondServiceError(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, gorm.ErrRecordNotFound)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Notification marked as read", nil)
}
