package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/Psychotichub/report/config"
	"github.com/Psychotichub/report/models"
	"github.com/Psychotichub/report/service"
	"github.com/Psychotichub/report/utils"
)

const (
	ctxClaims  = "claims"
	ctxSite    = "site"
	ctxCompany = "company"
)

// Authenticate verifies the bearer token (or the http-only cookie fallback)
// and stashes the claims in the gin context.
func Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false, "message": "Access denied. No token provided.",
			})
			return
		}

		claims, err := utils.VerifyToken(tokenString)
		if err != nil {
			msg := "Invalid token. Please login again."
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "Token has expired. Please login again."
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false, "message": msg,
			})
			return
		}

		c.Set(ctxClaims, claims)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		return strings.TrimPrefix(h, "Bearer ")
	}
	if cookie, err := c.Cookie("token"); err == nil {
		return cookie
	}
	return ""
}

// CurrentClaims returns the authenticated identity, or nil when the request
// did not pass Authenticate.
func CurrentClaims(c *gin.Context) *utils.Claims {
	v, ok := c.Get(ctxClaims)
	if !ok {
		return nil
	}
	claims, _ := v.(*utils.Claims)
	return claims
}

func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := CurrentClaims(c)
		if claims == nil || claims.Role != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false, "message": "Access denied. Admin privileges required.",
			})
			return
		}
		c.Next()
	}
}

// RequireManagerAccess admits managers and admins.
func RequireManagerAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := CurrentClaims(c)
		if claims == nil || (claims.Role != models.RoleManager && claims.Role != models.RoleAdmin) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false, "message": "Access denied. Manager privileges required.",
			})
			return
		}
		c.Next()
	}
}

// RequireSiteAccess resolves the effective tenant for the request and stores
// it in the context. Fails closed with 403 when no tenant can be resolved.
func RequireSiteAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := CurrentClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false, "message": "Authentication required.",
			})
			return
		}

		hints := service.TenantHints{
			Site:    c.Query("site"),
			Company: c.Query("company"),
		}
		if hints.Site == "" {
			hints.Site = c.GetHeader("X-Site")
		}
		if hints.Company == "" {
			hints.Company = c.GetHeader("X-Company")
		}

		site, company, err := service.ResolveTenant(config.DB, claims, hints)
		if err != nil {
			if errors.Is(err, service.ErrSiteAccessDenied) {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
					"success": false, "message": "Site access not configured for this user.",
				})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false, "message": "Server error resolving site access.", "error": err.Error(),
			})
			return
		}

		c.Set(ctxSite, site)
		c.Set(ctxCompany, company)
		c.Next()
	}
}

// SiteFromContext returns the tenant resolved by RequireSiteAccess.
func SiteFromContext(c *gin.Context) (site, company string) {
	return c.GetString(ctxSite), c.GetString(ctxCompany)
}
