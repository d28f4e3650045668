package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yeremiapane/cafe-order-app/models"
	"github.com/yeremiapane/cafe-order-app/utils"
)

type TableController struct {
	DB *gorm.DB
}

func NewTableController(db *gorm.DB) *TableController {
	return &TableController{DB: db}
}

// newQRToken menghasilkan token QR unik per meja. Token inilah yang dipakai
// di URL scan, bukan ID meja, supaya tidak bisa ditebak.
func newQRToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// newAccessCode menghasilkan kode pendek untuk fallback input manual.
func newAccessCode() string {
	return strings.ToUpper(uuid.NewString()[:6])
}

func (tc *TableController) GetAllTables(c *gin.Context) {
	var tables []models.Table
	if err := tc.DB.Order("number ASC").Find(&tables).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Tables", tables)
}

func (tc *TableController) GetTable(c *gin.Context) {
	var table models.Table
	if err := tc.DB.First(&table, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, errors.New("table not found"))
			return
		}
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table detail", table)
}

type tableRequest struct {
	Number      int    `json:"number" binding:"required"`
	Location    string `json:"location"`
	Capacity    int    `json:"capacity" binding:"required,min=1"`
	Description string `json:"description"`
	Notes       string `json:"notes"`
	IsActive    *bool  `json:"is_active"`
}

func (tc *TableController) CreateTable(c *gin.Context) {
	var req tableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table := models.Table{
		Number:      req.Number,
		Location:    req.Location,
		Capacity:    req.Capacity,
		Status:      models.TableStatusAvailable,
		QRToken:     newQRToken(),
		AccessCode:  newAccessCode(),
		Description: req.Description,
		Notes:       req.Notes,
		IsActive:    true,
	}
	if req.IsActive != nil {
		table.IsActive = *req.IsActive
	}
	table.QRCode = "/table/" + table.QRToken

	if err := tc.DB.Create(&table).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Table created", table)
}

func (tc *TableController) UpdateTable(c *gin.Context) {
	var table models.Table
	if err := tc.DB.First(&table, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, errors.New("table not found"))
			return
		}
		respondServiceError(c, err)
		return
	}

	var req tableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table.Number = req.Number
	table.Location = req.Location
	table.Capacity = req.Capacity
	table.Description = req.Description
	table.Notes = req.Notes
	if req.IsActive != nil {
		table.IsActive = *req.IsActive
	}

	if err := tc.DB.Save(&table).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table updated", table)
}

// RegenerateQR mengganti token QR dan access code; QR lama langsung mati.
func (tc *TableController) RegenerateQR(c *gin.Context) {
	var table models.Table
	if err := tc.DB.First(&table, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, errors.New("table not found"))
			return
		}
		respondServiceError(c, err)
		return
	}

	table.QRToken = newQRToken()
	table.AccessCode = newAccessCode()
	table.QRCode = "/table/" + table.QRToken

	if err := tc.DB.Save(&table).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "QR token regenerated", table)
}

func (tc *TableController) DeleteTable(c *gin.Context) {
	res := tc.DB.Delete(&models.Table{}, "id = ?", c.Param("id"))
	if res.Error != nil {
		respondServiceError(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, errors.New("table not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table deleted", nil)
}

type tableStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=available partial full cleaning reserved out_of_service"`
}

// SetTableStatus untuk status manual (cleaning/reserved/out_of_service);
// status occupancy tetap dihitung ulang otomatis oleh sesi.
func (tc *TableController) SetTableStatus(c *gin.Context) {
	var req tableStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var table models.Table
	if err := tc.DB.First(&table, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, errors.New("table not found"))
			return
		}
		respondServiceError(c, err)
		return
	}

	table.Status = req.Status
	now := time.Now()
	table.StatusChangedAt = &now
	if err := tc.DB.Save(&table).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table status updated", table)
}
