package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/cafe-order-app/services"
	"github.com/yeremiapane/cafe-order-app/utils"
)

type CartController struct {
	DB      *gorm.DB
	Service *services.CartService
}

func NewCartController(db *gorm.DB) *CartController {
	return &CartController{DB: db, Service: services.NewCartService(db)}
}

// GetCart mengembalikan isi cart yang terlihat device pemanggil (tergantung
// payment mode dan peran).
func (cc *CartController) GetCart(c *gin.Context) {
	ctx, ok := requireTableContext(c)
	if !ok {
		return
	}

	view, err := cc.Service.List(ctx.TableID, requestInfo(ctx))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table cart", view)
}

// AddItem menambahkan item ke cart meja atas nama device pemanggil.
func (cc *CartController) AddItem(c *gin.Context) {
	ctx, ok := requireTableContext(c)
	if !ok {
		return
	}

	var in services.AddInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	item, err := cc.Service.Add(ctx.TableID, in, requestInfo(ctx))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Item added to cart", item)
}

// RemoveItem menghapus satu baris cart. Host boleh menghapus item siapa pun.
func (cc *CartController) RemoveItem(c *gin.Context) {
	ctx, ok := requireTableContext(c)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := cc.Service.Remove(ctx.TableID, uint(id), requestInfo(ctx)); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Item removed from cart", nil)
}

// Checkout mengubah cart menjadi order permanen.
func (cc *CartController) Checkout(c *gin.Context) {
	ctx, ok := requireTableContext(c)
	if !ok {
		return
	}

	var in services.CheckoutInput
	if err := c.ShouldBindJSON(&in); err != nil && c.Request.ContentLength > 0 {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := cc.Service.Checkout(ctx.TableID, in, requestInfo(ctx))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Order created", order)
}
