package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Psychotichub/report/middlewares"
	"github.com/Psychotichub/report/models"
	"github.com/Psychotichub/report/service"
)

func GetTotalPrices(c *gin.Context) {
	h, ok := siteHandles(c)
	if !ok {
		return
	}
	claims := middlewares.CurrentClaims(c)

	q := h.TotalPrices.Query()
	if claims.Role == models.RoleUser {
		q = q.Where("username = ?", claims.Username)
	}
	var items []models.SiteTotalPrice
	if err := q.Order("date DESC").Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, items)
}

// AddTotalPrices stores pre-priced ledger rows. Costs are derived from the
// catalog at submission time so a later price change never rewrites them.
func AddTotalPrices(c *gin.Context) {
	var in UsageBatchInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input", "error": err.Error()})
		return
	}
	h, ok := siteHandles(c)
	if !ok {
		return
	}

	items, err := toUsageItems(in.Materials)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid date", "error": err.Error()})
		return
	}

	claims := middlewares.CurrentClaims(c)
	rows, err := service.PriceTotalRecords(h, claims.Username, items)
	if err != nil {
		if errors.Is(err, service.ErrMaterialNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error", "error": err.Error()})
		return
	}

	saved, err := h.TotalPrices.InsertMany(rows)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error", "error": err.Error()})
		return
	}

	for _, r := range saved {
		logAction(c, h, models.ActionCreate, "totalPrice", r.ID, map[string]any{
			"materialName": r.MaterialName, "quantity": r.Quantity, "totalPrice": r.TotalPrice,
		})
	}
	c.JSON(http.StatusCreated, saved)
}

func UpdateTotalPrice(c *gin.Context) {
	var in UsageItemInput
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

	items, err := toUsageItems([]UsageItemInput{in})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid date", "error": err.Error()})
		return
	}

	claims := middlewares.CurrentClaims(c)
	rows, err := service.PriceTotalRecords(h, claims.Username, items)
	if err != nil {
		if errors.Is(err, service.ErrMaterialNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error", "error": err.Error()})
		return
	}
	row := rows[0]

	updated, err := h.TotalPrices.FindByIDAndUpdate(id, map[string]any{
		"date":           row.Date,
		"material_name":  row.MaterialName,
		"quantity":       row.Quantity,
		"unit":           row.Unit,
		"material_price": row.MaterialPrice,
		"labor_price":    row.LaborPrice,
		"material_cost":  row.MaterialCost,
		"labor_cost":     row.LaborCost,
		"total_price":    row.TotalPrice,
		"location":       row.Location,
		"notes":          row.Notes,
		"username":       claims.Username,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Total price record not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error", "error": err.Error()})
		return
	}

	logAction(c, h, models.ActionUpdate, "totalPrice", updated.ID, map[string]any{
		"materialName": row.MaterialName, "totalPrice": row.TotalPrice,
	})
	c.JSON(http.StatusOK, updated)
}

func DeleteTotalPrice(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		return
	}
	h, ok := siteHandles(c)
	if !ok {
		return
	}

	deleted, err := h.TotalPrices.FindByIDAndDelete(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Total price record not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error", "error": err.Error()})
		return
	}

	logAction(c, h, models.ActionDelete, "totalPrice", deleted.ID, map[string]any{
		"materialName": deleted.MaterialName,
	})
	c.Status(http.StatusNoContent)
}

func GetTotalPricesByDate(c *gin.Context) {
	h, ok := siteHandles(c)
	if !ok {
		return
	}
	from, to, err := dayRange(c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid date", "error": err.Error()})
		return
	}
	var items []models.SiteTotalPrice
	if err := h.TotalPrices.Query().Where("date >= ? AND date < ?", from, to).Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, items)
}

func GetTotalPricesByDateRange(c *gin.Context) {
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
	var items []models.SiteTotalPrice
	if err := h.TotalPrices.Query().Where("date BETWEEN ? AND ?", start, end).Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, items)
}
