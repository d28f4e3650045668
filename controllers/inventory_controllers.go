package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/cafe-order-app/models"
	"github.com/yeremiapane/cafe-order-app/utils"
)

type InventoryController struct {
	DB *gorm.DB
}

func NewInventoryController(db *gorm.DB) *InventoryController {
	return &InventoryController{DB: db}
}

func (ic *InventoryController) GetAllItems(c *gin.Context) {
	q := ic.DB.Order("name ASC")
	if category := c.Query("category"); category != "" {
		q = q.Where("category = ?", category)
	}
	if c.Query("low_stock") == "true" {
		q = q.Where("stock <= min_stock_level")
	}

	var items []models.InventoryItem
	if err := q.Find(&items).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Inventory items", items)
}

func (ic *InventoryController) GetItem(c *gin.Context) {
	var item models.InventoryItem
	if err := ic.DB.First(&item, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, errors.New("inventory item not found"))
			return
		}
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Inventory item detail", item)
}

type inventoryRequest struct {
	Name          string  `json:"name" binding:"required"`
	Category      string  `json:"category"`
	Stock         float64 `json:"stock"`
	Unit          string  `json:"unit"`
	UnitPrice     float64 `json:"unit_price"`
	MinStockLevel float64 `json:"min_stock_level"`
	Supplier      string  `json:"supplier"`
	SupplierEmail string  `json:"supplier_email"`
	SupplierPhone string  `json:"supplier_phone"`
	SKU           string  `json:"sku"`
	Location      string  `json:"location"`
	Notes         string  `json:"notes"`
}

func (ic *InventoryController) CreateItem(c *gin.Context) {
	var req inventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	item := models.InventoryItem{
		Name:          req.Name,
		Category:      req.Category,
		Stock:         req.Stock,
		Unit:          req.Unit,
		UnitPrice:     req.UnitPrice,
		MinStockLevel: req.MinStockLevel,
		Supplier:      req.Supplier,
		SupplierEmail: req.SupplierEmail,
		SupplierPhone: req.SupplierPhone,
		SKU:           req.SKU,
		Location:      req.Location,
		Notes:         req.Notes,
	}
	if err := ic.DB.Create(&item).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Inventory item created", item)
}

func (ic *InventoryController) UpdateItem(c *gin.Context) {
	var item models.InventoryItem
	if err := ic.DB.First(&item, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, errors.New("inventory item not found"))
			return
		}
		respondServiceError(c, err)
		return
	}

	var req inventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	item.Name = req.Name
	item.Category = req.Category
	item.Stock = req.Stock
	item.Unit = req.Unit
	item.UnitPrice = req.UnitPrice
	item.MinStockLevel = req.MinStockLevel
	item.Supplier = req.Supplier
	item.SupplierEmail = req.SupplierEmail
	item.SupplierPhone = req.SupplierPhone
	item.SKU = req.SKU
	item.Location = req.Location
	item.Notes = req.Notes

	if err := ic.DB.Save(&item).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Inventory item updated", item)
}

type adjustStockRequest struct {
	Delta float64 `json:"delta" binding:"required"`
	Notes string  `json:"notes"`
}

// AdjustStock menambah/mengurangi stok manual (restock, penyusutan, koreksi).
func (ic *InventoryController) AdjustStock(c *gin.Context) {
	var req adjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var item models.InventoryItem
	if err := ic.DB.First(&item, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, errors.New("inventory item not found"))
			return
		}
		respondServiceError(c, err)
		return
	}

	if err := ic.DB.Model(&item).
		UpdateColumn("stock", gorm.Expr("stock + ?", req.Delta)).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	ic.DB.First(&item, item.ID)
	utils.InfoLogger.Printf("Stock adjusted for %s by %.4f (%s)", item.Name, req.Delta, req.Notes)
	utils.RespondJSON(c, http.StatusOK, "Stock adjusted", item)
}

func (ic *InventoryController) DeleteItem(c *gin.Context) {
	res := ic.DB.Delete(&models.InventoryItem{}, "id = ?", c.Param("id"))
	if res.Error != nil {
		respondServiceError(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, errors.New("inventory item not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Inventory item deleted", nil)
}
