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

type OrderController struct {
	DB *gorm.DB
}

func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{DB: db}
}

// MyOrders mengembalikan order milik device pemanggil di meja saat ini.
func (oc *OrderController) MyOrders(c *gin.Context) {
	ctx := middlewares.GetTableContext(c)

	q := oc.DB.Where("device_id = ?", ctx.DeviceID)
	if ctx.HasTable() {
		q = q.Where("table_id = ?", ctx.TableID)
	}

	var orders []models.Order
	if err := q.Order("created_at DESC").Find(&orders).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "My orders", orders)
}

// CancelOrder membatalkan order milik device selama dapur belum konfirmasi.
func (oc *OrderController) CancelOrder(c *gin.Context) {
	ctx := middlewares.GetTableContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var order models.Order
	if err := oc.DB.First(&order, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondServiceError(c, services.ErrOrderNotFound)
			return
		}
		respondServiceError(c, err)
		return
	}

	if order.DeviceID != ctx.DeviceID {
		respondServiceError(c, services.ErrNotYourOrder)
		return
	}
	if !order.CanBeCancelled() {
		respondServiceError(c, services.ErrOrderNotCancellable)
		return
	}

	order.SetStatus(models.OrderStatusCancelled)
	if err := oc.DB.Save(&order).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order cancelled", order)
}

// ListOrders untuk dashboard staff, bisa difilter status dan meja.
func (oc *OrderController) ListOrders(c *gin.Context) {
	q := oc.DB.Preload("Table").Order("created_at DESC")
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if tableID := c.Query("table_id"); tableID != "" {
		q = q.Where("table_id = ?", tableID)
	}

	var orders []models.Order
	if err := q.Find(&orders).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Orders", orders)
}

func (oc *OrderController) GetOrder(c *gin.Context) {
	var order models.Order
	if err := oc.DB.Preload("Table").First(&order, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondServiceError(c, services.ErrOrderNotFound)
			return
		}
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

type orderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateOrderStatus menggerakkan order di workflow dapur.
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	var req orderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if !models.ValidOrderStatus(req.Status) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid order status: "+req.Status))
		return
	}

	var order models.Order
	if err := oc.DB.First(&order, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondServiceError(c, services.ErrOrderNotFound)
			return
		}
		respondServiceError(c, err)
		return
	}

	order.SetStatus(req.Status)
	if err := oc.DB.Save(&order).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("Order %s moved to %s", order.OrderNumber, order.Status)
	utils.RespondJSON(c, http.StatusOK, "Order status updated", order)
}

type markPaidRequest struct {
	PaymentMethod string `json:"payment_method"`
}

// MarkOrderPaid mencatat pembayaran di kasir (cash/EDC, tidak diproses sistem).
func (oc *OrderController) MarkOrderPaid(c *gin.Context) {
	var req markPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var order models.Order
	if err := oc.DB.First(&order, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondServiceError(c, services.ErrOrderNotFound)
			return
		}
		respondServiceError(c, err)
		return
	}

	order.MarkAsPaid()
	if req.PaymentMethod != "" {
		order.PaymentMethod = req.PaymentMethod
	}
	if err := oc.DB.Save(&order).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order marked as paid", order)
}
