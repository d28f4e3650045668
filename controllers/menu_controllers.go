package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/cafe-order-app/models"
	"github.com/yeremiapane/cafe-order-app/utils"
)

type MenuController struct {
	DB *gorm.DB
}

func NewMenuController(db *gorm.DB) *MenuController {
	return &MenuController{DB: db}
}

// GetMenu adalah daftar menu publik untuk customer; hanya item available.
func (mc *MenuController) GetMenu(c *gin.Context) {
	q := mc.DB.Preload("Category").Where("available = ?", true).Order("name ASC")
	if categoryID := c.Query("category_id"); categoryID != "" {
		q = q.Where("category_id = ?", categoryID)
	}
	if c.Query("featured") == "true" {
		q = q.Where("featured = ?", true)
	}

	var items []models.MenuItem
	if err := q.Find(&items).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu", items)
}

// GetAllMenuItems untuk dashboard staff, termasuk item yang disembunyikan.
func (mc *MenuController) GetAllMenuItems(c *gin.Context) {
	var items []models.MenuItem
	if err := mc.DB.Preload("Category").Preload("Ingredients.InventoryItem").
		Order("name ASC").Find(&items).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu items", items)
}

func (mc *MenuController) GetMenuItem(c *gin.Context) {
	var item models.MenuItem
	err := mc.DB.Preload("Category").Preload("Ingredients.InventoryItem").
		First(&item, "id = ?", c.Param("id")).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, errors.New("menu item not found"))
			return
		}
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu item detail", item)
}

type menuItemRequest struct {
	CategoryID  uint    `json:"category_id" binding:"required"`
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       int64   `json:"price" binding:"required,min=0"`
	Available   *bool   `json:"available"`
	Featured    bool    `json:"featured"`
	Popular     bool    `json:"popular"`
	ImagePath   *string `json:"image_path"`
}

func (mc *MenuController) CreateMenuItem(c *gin.Context) {
	var req menuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	item := models.MenuItem{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Available:   true,
		Featured:    req.Featured,
		Popular:     req.Popular,
		ImagePath:   req.ImagePath,
	}
	if req.Available != nil {
		item.Available = *req.Available
	}

	if err := mc.DB.Create(&item).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Menu item created", item)
}

func (mc *MenuController) UpdateMenuItem(c *gin.Context) {
	var item models.MenuItem
	if err := mc.DB.First(&item, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, errors.New("menu item not found"))
			return
		}
		respondServiceError(c, err)
		return
	}

	var req menuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	item.CategoryID = req.CategoryID
	item.Name = req.Name
	item.Description = req.Description
	item.Price = req.Price
	item.Featured = req.Featured
	item.Popular = req.Popular
	item.ImagePath = req.ImagePath
	if req.Available != nil {
		item.Available = *req.Available
	}

	if err := mc.DB.Save(&item).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu item updated", item)
}

func (mc *MenuController) DeleteMenuItem(c *gin.Context) {
	res := mc.DB.Delete(&models.MenuItem{}, "id = ?", c.Param("id"))
	if res.Error != nil {
		respondServiceError(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, errors.New("menu item not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu item deleted", nil)
}

type recipeLineRequest struct {
	InventoryItemID uint    `json:"inventory_item_id" binding:"required"`
	Quantity        float64 `json:"quantity" binding:"required,gt=0"`
}

type recipeRequest struct {
	Ingredients []recipeLineRequest `json:"ingredients" binding:"required,dive"`
}

// SetRecipe mengganti resep menu (bahan yang dikonsumsi per unit pesanan).
func (mc *MenuController) SetRecipe(c *gin.Context) {
	var item models.MenuItem
	if err := mc.DB.First(&item, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, errors.New("menu item not found"))
			return
		}
		respondServiceError(c, err)
		return
	}

	var req recipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	err := mc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("menu_item_id = ?", item.ID).Delete(&models.MenuItemIngredient{}).Error; err != nil {
			return err
		}
		for _, line := range req.Ingredients {
			ing := models.MenuItemIngredient{
				MenuItemID:      item.ID,
				InventoryItemID: line.InventoryItemID,
				Quantity:        line.Quantity,
			}
			if err := tx.Create(&ing).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	mc.DB.Preload("Ingredients.InventoryItem").First(&item, item.ID)
	utils.RespondJSON(c, http.StatusOK, "Recipe updated", item)
}
