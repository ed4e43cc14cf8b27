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

// GetDailyReports lists usage rows for the caller's tenant. Site users see
// only rows they submitted; admins see the whole tenant.
func GetDailyReports(c *gin.Context) {
	h, ok := siteHandles(c)
	if !ok {
		return
	}
	claims := middlewares.CurrentClaims(c)

	q := h.DailyReports.Query()
	if claims.Role == models.RoleUser {
		q = q.Where("username = ?", claims.Username)
	}
	var reports []models.SiteDailyReport
	if err := q.Order("date DESC").Find(&reports).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, reports)
}

type UsageItemInput struct {
	Date         string  `json:"date" binding:"required"`
	MaterialName string  `json:"materialName" binding:"required"`
	Quantity     float64 `json:"quantity" binding:"required"`
	Unit         string  `json:"unit" binding:"required"`
	Location     string  `json:"location"`
	Notes        string  `json:"notes"`
}

type UsageBatchInput struct {
	Materials []UsageItemInput `json:"materials" binding:"required,min=1,dive"`
}

func toUsageItems(in []UsageItemInput) ([]service.UsageItem, error) {
	items := make([]service.UsageItem, 0, len(in))
	for _, m := range in {
		date, err := parseDate(m.Date)
		if err != nil {
			return nil, err
		}
		items = append(items, service.UsageItem{
			Date:         date,
			MaterialName: m.MaterialName,
			Quantity:     m.Quantity,
			Unit:         m.Unit,
			Location:     m.Location,
			Notes:        m.Notes,
		})
	}
	return items, nil
}

// AddDailyReports inserts a batch of usage rows, pricing each from the
// catalog. One unknown material fails the whole batch.
func AddDailyReports(c *gin.Context) {
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
	rows, err := service.PriceDailyReports(h, claims.Username, items)
	if err != nil {
		if errors.Is(err, service.ErrMaterialNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error", "error": err.Error()})
		return
	}

	saved, err := h.DailyReports.InsertMany(rows)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error", "error": err.Error()})
		return
	}

	for _, r := range saved {
		logAction(c, h, models.ActionCreate, "dailyReport", r.ID, map[string]any{
			"materialName": r.MaterialName, "quantity": r.Quantity, "unit": r.Unit,
		})
	}
	c.JSON(http.StatusCreated, saved)
}

type UsageUpdateInput struct {
	Date         string  `json:"date" binding:"required"`
	MaterialName string  `json:"materialName" binding:"required"`
	Quantity     float64 `json:"quantity" binding:"required"`
	Location     string  `json:"location" binding:"required"`
	Notes        string  `json:"notes"`
}

// UpdateDailyReport rewrites one usage row, re-pricing it from the current
// catalog. Only an explicit update re-prices a historical row; catalog price
// changes alone never do.
func UpdateDailyReport(c *gin.Context) {
	var in UsageUpdateInput
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

	material, err := h.Materials.FindOne("material_name = ?", in.MaterialName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Material '" + in.MaterialName + "' not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error", "error": err.Error()})
		return
	}

	claims := middlewares.CurrentClaims(c)
	updated, err := h.DailyReports.FindByIDAndUpdate(id, map[string]any{
		"date":           date,
		"material_name":  in.MaterialName,
		"quantity":       in.Quantity,
		"notes":          in.Notes,
		"location":       in.Location,
		"username":       claims.Username,
		"material_price": material.MaterialPrice,
		"labour_price":   material.LaborPrice,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Daily report not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error", "error": err.Error()})
		return
	}

	logAction(c, h, models.ActionUpdate, "dailyReport", updated.ID, map[string]any{
		"materialName": in.MaterialName, "quantity": in.Quantity, "unit": updated.Unit,
	})
	c.JSON(http.StatusOK, updated)
}

func DeleteDailyReport(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		return
	}
	h, ok := siteHandles(c)
	if !ok {
		return
	}

	deleted, err := h.DailyReports.FindByIDAndDelete(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Daily report not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error", "error": err.Error()})
		return
	}

	logAction(c, h, models.ActionDelete, "dailyReport", deleted.ID, map[string]any{
		"materialName": deleted.MaterialName,
	})
	c.Status(http.StatusNoContent)
}

func GetDailyReportsByDate(c *gin.Context) {
	h, ok := siteHandles(c)
	if !ok {
		return
	}
	from, to, err := dayRange(c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid date", "error": err.Error()})
		return
	}
	var reports []models.SiteDailyReport
	if err := h.DailyReports.Query().Where("date >= ? AND date < ?", from, to).Find(&reports).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, reports)
}

func GetDailyReportsByDateRange(c *gin.Context) {
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
	var reports []models.SiteDailyReport
	if err := h.DailyReports.Query().Where("date BETWEEN ? AND ?", start, end).Find(&reports).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, reports)
}
