package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Psychotichub/report/config"
	"github.com/Psychotichub/report/middlewares"
	"github.com/Psychotichub/report/models"
	"github.com/Psychotichub/report/service"
)

// Admin site browse: an admin inspects one tenant end to end. The tenant comes
// from the resolver (hints or the admin's own token), the results never
// filter by username.

func GetSiteUsers(c *gin.Context) {
	site, company := middlewares.SiteFromContext(c)

	var users []models.User
	err := config.DB.
		Where("LOWER(site) = ? AND LOWER(company) = ?", strings.ToLower(site), strings.ToLower(company)).
		Order("created_at DESC").
		Find(&users).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error", "error": err.Error()})
		return
	}

	grouped := map[string][]models.User{
		models.RoleAdmin:   {},
		models.RoleManager: {},
		models.RoleUser:    {},
	}
	for _, u := range users {
		grouped[u.Role] = append(grouped[u.Role], u)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"site":    site,
		"company": company,
		"users":   grouped,
		"count":   len(users),
	})
}

func GetSiteMaterials(c *gin.Context) {
	h, ok := siteHandles(c)
	if !ok {
		return
	}
	var materials []models.SiteMaterial
	if err := h.Materials.Query().Order("material_name ASC").Find(&materials).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "materials": materials, "count": len(materials)})
}

func GetSiteDailyReports(c *gin.Context) {
	h, ok := siteHandles(c)
	if !ok {
		return
	}
	q := h.DailyReports.Query()
	q, ok = applyRange(c, q)
	if !ok {
		return
	}
	var reports []models.SiteDailyReport
	if err := q.Order("date DESC").Find(&reports).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "dailyReports": reports, "count": len(reports)})
}

func GetSiteReceivedItems(c *gin.Context) {
	h, ok := siteHandles(c)
	if !ok {
		return
	}
	q := h.Received.Query()
	q, ok = applyRange(c, q)
	if !ok {
		return
	}
	var items []models.SiteReceived
	if err := q.Order("date DESC").Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "received": items, "count": len(items)})
}

func GetSiteTotalPrices(c *gin.Context) {
	h, ok := siteHandles(c)
	if !ok {
		return
	}
	q := h.TotalPrices.Query()
	q, ok = applyRange(c, q)
	if !ok {
		return
	}
	var items []models.SiteTotalPrice
	if err := q.Order("date DESC").Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "totalPrices": items, "count": len(items)})
}

// GetUserData returns one account's full footprint inside the tenant: the
// account row plus every ledger entry it submitted.
func GetUserData(c *gin.Context) {
	username := c.Param("username")
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Username is required"})
		return
	}
	h, ok := siteHandles(c)
	if !ok {
		return
	}

	var user models.User
	if err := config.DB.Where("LOWER(username) = ?", strings.ToLower(username)).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		return
	}

	reports, _ := h.DailyReports.Find("username = ?", user.Username)
	received, _ := h.Received.Find("username = ?", user.Username)
	totals, _ := h.TotalPrices.Find("username = ?", user.Username)

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"user":         user,
		"dailyReports": reports,
		"received":     received,
		"totalPrices":  totals,
	})
}

func GetAdminSiteStatistics(c *gin.Context) {
	h, ok := siteHandles(c)
	if !ok {
		return
	}
	stats := service.CollectStatistics(h, nil)
	site, company := middlewares.SiteFromContext(c)
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"site":       site,
		"company":    company,
		"statistics": stats,
	})
}
