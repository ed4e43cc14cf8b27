package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/Psychotichub/report/models"
	"github.com/Psychotichub/report/utils"
)

// TenantHints carries a request-supplied site/company pair (query params or
// X-Site/X-Company headers) for callers whose token has no fixed tenant.
type TenantHints struct {
	Site    string
	Company string
}

// ResolveTenant picks the effective tenant for a request. Order matters:
// a fixed identity always beats a hint, hints only apply to roaming
// manager/admin callers, and deriving a tenant from a manager's created
// users is the last resort before failing closed.
func ResolveTenant(db *gorm.DB, claims *utils.Claims, hints TenantHints) (site, company string, err error) {
	if claims.Site != "" && claims.Company != "" {
		return claims.Site, claims.Company, nil
	}

	if (claims.Role == models.RoleManager || claims.Role == models.RoleAdmin) &&
		hints.Site != "" && hints.Company != "" {
		return hints.Site, hints.Company, nil
	}

	if claims.Role == models.RoleManager {
		var owned models.User
		err := db.
			Where("created_by_id = ? AND site <> '' AND company <> ''", claims.ID).
			First(&owned).Error
		if err == nil {
			return owned.Site, owned.Company, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", err
		}
	}

	return "", "", ErrSiteAccessDenied
}
