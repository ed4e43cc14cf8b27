package service

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/Psychotichub/report/models"
	"github.com/Psychotichub/report/sitedb"
	"github.com/Psychotichub/report/utils"
)

// LogAction appends to the tenant's activity log. Best effort only: a failed
// audit write never aborts the mutation that triggered it, so all errors are
// swallowed here.
func LogAction(h *sitedb.Handles, actor *utils.Claims, action, resource string, resourceID uint, details map[string]any, ip, userAgent string) {
	if h == nil || actor == nil {
		return
	}
	if details == nil {
		details = map[string]any{}
	}
	details["eventId"] = uuid.NewString()

	entry := models.SiteActivityLog{
		Username:   actor.Username,
		Role:       actor.Role,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		Details:    datatypes.JSONMap(details),
		IPAddress:  ip,
		UserAgent:  userAgent,
	}
	_ = h.ActivityLogs.Create(&entry)
}
