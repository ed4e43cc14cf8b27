package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Psychotichub/report/config"
	"github.com/Psychotichub/report/middlewares"
	"github.com/Psychotichub/report/models"
	"github.com/Psychotichub/report/service"
	"github.com/Psychotichub/report/utils"
)

// Manager endpoints see a tenant through the manager's creation tree: a
// manager only aggregates over accounts they (or their delegated admins)
// created. Admins reach the same endpoints unfiltered.

func visibilitySet(claims *utils.Claims) []string {
	if claims.Role == models.RoleManager {
		return service.OwnedUsernames(config.DB, claims.ID, claims.Username)
	}
	return nil
}

type CalculateInput struct {
	StartDate string `json:"startDate" binding:"required"`
	EndDate   string `json:"endDate" binding:"required"`
}

func CalculateSiteTotalPrices(c *gin.Context) {
	var in CalculateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "startDate and endDate are required", "error": err.Error()})
		return
	}
	h, ok := siteHandles(c)
	if !ok {
		return
	}
	start, err := parseDate(in.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid start date", "error": err.Error()})
		return
	}
	end, err := parseDate(in.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid end date", "error": err.Error()})
		return
	}

	claims := middlewares.CurrentClaims(c)
	report, err := service.CalculateTotals(h, visibilitySet(claims), start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

func GetManagedSiteMaterials(c *gin.Context) {
	h, ok := siteHandles(c)
	if !ok {
		return
	}
	claims := middlewares.CurrentClaims(c)

	q := h.Materials.Query()
	if allowed := visibilitySet(claims); allowed != nil {
		q = q.Where("created_by IN ?", allowed)
	}
	var materials []models.SiteMaterial
	if err := q.Order("material_name ASC").Find(&materials).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, materials)
}

func GetSiteStatistics(c *gin.Context) {
	h, ok := siteHandles(c)
	if !ok {
		return
	}
	claims := middlewares.CurrentClaims(c)
	stats := service.CollectStatistics(h, visibilitySet(claims))

	site, company := middlewares.SiteFromContext(c)
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"site":       site,
		"company":    company,
		"statistics": stats,
	})
}

func GetSiteActivityLogs(c *gin.Context) {
	h, ok := siteHandles(c)
	if !ok {
		return
	}

	limit := 100
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}
	if limit < 1 {
		limit = 1
	}
	if limit > 500 {
		limit = 500
	}

	claims := middlewares.CurrentClaims(c)
	q := h.ActivityLogs.Query()
	if allowed := visibilitySet(claims); allowed != nil {
		q = q.Where("username IN ?", allowed)
	}
	var logs []models.SiteActivityLog
	if err := q.Order("timestamp DESC").Limit(limit).Find(&logs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "logs": logs, "count": len(logs)})
}
