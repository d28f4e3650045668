package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/cafe-order-app/models"
	"github.com/yeremiapane/cafe-order-app/utils"
)

type MenuCategoryController struct {
	DB *gorm.DB
}

func NewMenuCategoryController(db *gorm.DB) *MenuCategoryController {
	return &MenuCategoryController{DB: db}
}

func (mcc *MenuCategoryController) GetAllCategories(c *gin.Context) {
	var categories []models.MenuCategory
	if err := mcc.DB.Order("name ASC").Find(&categories).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu categories", categories)
}

type categoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (mcc *MenuCategoryController) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	category := models.MenuCategory{Name: req.Name, Description: req.Description}
	if err := mcc.DB.Create(&category).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Category created", category)
}

func (mcc *MenuCategoryController) UpdateCategory(c *gin.Context) {
	var category models.MenuCategory
	if err := mcc.DB.First(&category, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, errors.New("category not found"))
			return
		}
		respondServiceError(c, err)
		return
	}

	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	category.Name = req.Name
	category.Description = req.Description
	if err := mcc.DB.Save(&category).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Category updated", category)
}

func (mcc *MenuCategoryController) DeleteCategory(c *gin.Context) {
	var count int64
	if err := mcc.DB.Model(&models.MenuItem{}).Where("category_id = ?", c.Param("id")).Count(&count).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	if count > 0 {
		utils.RespondError(c, http.StatusConflict, errors.New("category still has menu items"))
		return
	}

	res := mcc.DB.Delete(&models.MenuCategory{}, "id = ?", c.Param("id"))
	if res.Error != nil {
		respondServiceError(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, errors.New("category not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Category deleted", nil)
}
