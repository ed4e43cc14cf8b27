package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Psychotichub/report/config"
	"github.com/Psychotichub/report/middlewares"
	"github.com/Psychotichub/report/models"
	"github.com/Psychotichub/report/service"
)

// GetUserSiteDetails returns the caller's account together with the record
// counts of their tenant, for the settings screen.
func GetUserSiteDetails(c *gin.Context) {
	claims := middlewares.CurrentClaims(c)

	var user models.User
	if err := config.DB.First(&user, claims.ID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		return
	}

	h, ok := siteHandles(c)
	if !ok {
		return
	}
	stats := service.CollectStatistics(h, nil)

	site, company := middlewares.SiteFromContext(c)
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"user":       user,
		"site":       site,
		"company":    company,
		"statistics": stats,
	})
}
