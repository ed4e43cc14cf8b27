package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Psychotichub/report/middlewares"
	"github.com/Psychotichub/report/models"
)

// The received ledger tracks incoming stock. It is unpriced, so submissions
// skip the catalog entirely.

func GetReceivedItems(c *gin.Context) {
	h, ok := siteHandles(c)
	if !ok {
		return
	}
	claims := middlewares.CurrentClaims(c)

	q := h.Received.Query()
	if claims.Role == models.RoleUser {
		q = q.Where("username = ?", claims.Username)
	}
	var items []models.SiteReceived
	if err := q.Order("date DESC").Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, items)
}

type ReceivedItemInput struct {
	Date         string  `json:"date" binding:"required"`
	MaterialName string  `json:"materialName" binding:"required"`
	Quantity     float64 `json:"quantity" binding:"required"`
	Unit         string  `json:"unit" binding:"required"`
	Supplier     string  `json:"supplier" binding:"required"`
	Location     string  `json:"location"`
	Notes        string  `json:"notes"`
}

type ReceivedBatchInput struct {
	Materials []ReceivedItemInput `json:"materials" binding:"required,min=1,dive"`
}

func AddReceivedItems(c *gin.Context) {
	var in ReceivedBatchInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input", "error": err.Error()})
		return
	}
	h, ok := siteHandles(c)
	if !ok {
		return
	}

	claims := middlewares.CurrentClaims(c)
	rows := make([]models.SiteReceived, 0, len(in.Materials))
	for _, m := range in.Materials {
		date, err := parseDate(m.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid date", "error": err.Error()})
			return
		}
		rows = append(rows, models.SiteReceived{
			Username:     claims.Username,
			Date:         date,
			MaterialName: m.MaterialName,
			Quantity:     m.Quantity,
			Unit:         m.Unit,
			Supplier:     m.Supplier,
			Location:     m.Location,
			Notes:        m.Notes,
		})
	}

	saved, err := h.Received.InsertMany(rows)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error", "error": err.Error()})
		return
	}

	for _, r := range saved {
		logAction(c, h, models.ActionCreate, "received", r.ID, map[string]any{
			"materialName": r.MaterialName, "quantity": r.Quantity, "supplier": r.Supplier,
		})
	}
	c.JSON(http.StatusCreated, saved)
}

type ReceivedUpdateInput struct {
	Date         string  `json:"date" binding:"required"`
	MaterialName string  `json:"materialName" binding:"required"`
	Quantity     float64 `json:"quantity" binding:"required"`
	Unit         string  `json:"unit" binding:"required"`
	Supplier     string  `json:"supplier" binding:"required"`
	Location     string  `json:"location"`
	Notes        string  `json:"notes"`
}

func UpdateReceivedItem(c *gin.Context) {
	var in ReceivedUpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input", "error": err.Error()})
		return
	}
	id, err := paramID(c)
	if err != nil {
		return
	}
	h, ok := siteHandles(c)
	if !ok {
		return
	}

	date, err := parseDate(in.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid date", "error": err.Error()})
		return
	}

	claims := middlewares.CurrentClaims(c)
	updated, err := h.Received.FindByIDAndUpdate(id, map[string]any{
		"date":          date,
		"material_name": in.MaterialName,
		"quantity":      in.Quantity,
		"unit":          in.Unit,
		"supplier":      in.Supplier,
		"location":      in.Location,
		"notes":         in.Notes,
		"username":      claims.Username,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Received item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error", "error": err.Error()})
		return
	}

	logAction(c, h, models.ActionUpdate, "received", updated.ID, map[string]any{
		"materialName": in.MaterialName, "quantity": in.Quantity,
	})
	c.JSON(http.StatusOK, updated)
}

func DeleteReceivedItem(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		return
	}
	h, ok := siteHandles(c)
	if !ok {
		return
	}

	deleted, err := h.Received.FindByIDAndDelete(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Received item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error", "error": err.Error()})
		return
	}

	logAction(c, h, models.ActionDelete, "received", deleted.ID, map[string]any{
		"materialName": deleted.MaterialName,
	})
	c.Status(http.StatusNoContent)
}

func GetReceivedItemsByDate(c *gin.Context) {
	h, ok := siteHandles(c)
	if !ok {
		return
	}
	from, to, err := dayRange(c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid date", "error": err.Error()})
		return
	}
	var items []models.SiteReceived
	if err := h.Received.Query().Where("date >= ? AND date < ?", from, to).Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, items)
}

func GetReceivedItemsByDateRange(c *gin.Context) {
	h, ok := siteHandles(c)
	if !ok {
		return
	}
	start, err := parseDate(c.Query("start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid start date", "error": err.Error()})
		return
	}
	end, err := parseDate(c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid end date", "error": err.Error()})
		return
	}
	var items []models.SiteReceived
	if err := h.Received.Query().Where("date BETWEEN ? AND ?", start, end).Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, items)
}
