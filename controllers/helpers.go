package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Psychotichub/report/middlewares"
	"github.com/Psychotichub/report/service"
	"github.com/Psychotichub/report/sitedb"
)

// siteHandles resolves the tenant handle bundle for the request. The tenant
// itself was already resolved by RequireSiteAccess; failures here mean the
// storage layer is down, not that access was denied.
func siteHandles(c *gin.Context) (*sitedb.Handles, bool) {
	site, company := middlewares.SiteFromContext(c)
	h, err := sitedb.Get(site, company)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false, "message": "Database connection error", "error": err.Error(),
		})
		return nil, false
	}
	return h, true
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// dayRange returns [start of day, start of next day) for by-date lookups.
func dayRange(s string) (time.Time, time.Time, error) {
	day, err := parseDate(s)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return start, start.AddDate(0, 0, 1), nil
}

func paramID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid id", "error": err.Error()})
		return 0, err
	}
	return uint(id), nil
}

// applyRange narrows a ledger query with optional ?start / ?end bounds. A
// malformed bound writes the 400 itself and reports false.
func applyRange(c *gin.Context, q *gorm.DB) (*gorm.DB, bool) {
	if raw := c.Query("start"); raw != "" {
		start, err := parseDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid start date", "error": err.Error()})
			return nil, false
		}
		q = q.Where("date >= ?", start)
	}
	if raw := c.Query("end"); raw != "" {
		end, err := parseDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid end date", "error": err.Error()})
			return nil, false
		}
		q = q.Where("date <= ?", end)
	}
	return q, true
}

func logAction(c *gin.Context, h *sitedb.Handles, action, resource string, resourceID uint, details map[string]any) {
	service.LogAction(h, middlewares.CurrentClaims(c), action, resource, resourceID,
		details, c.ClientIP(), c.Request.UserAgent())
}
