package controllers

import (
	"errors"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Psychotichub/report/config"
	"github.com/Psychotichub/report/middlewares"
	"github.com/Psychotichub/report/models"
	"github.com/Psychotichub/report/service"
	"github.com/Psychotichub/report/utils"
)

type RegisterInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role"`
	Site     string `json:"site"`
	Company  string `json:"company"`
}

// Register creates an account, enforcing the creation hierarchy: managers
// create admins, admins create site users inside their own site, anonymous
// self-registration is limited to the user role.
func Register(c *gin.Context) {
	var in RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input", "error": err.Error()})
		return
	}
	if in.Role == "" {
		in.Role = models.RoleUser
	}

	// Creator comes from an optional bearer token; this route is mounted
	// without the auth middleware so anonymous user signup still works.
	var creator *utils.Claims
	if h := c.GetHeader("Authorization"); h != "" {
		claims, err := utils.VerifyToken(strings.TrimPrefix(h, "Bearer "))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid token"})
			return
		}
		creator = claims
	}

	if creator != nil && creator.Role == models.RoleManager && in.Role != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Managers can only create admin users"})
		return
	}

	if creator != nil && creator.Role == models.RoleAdmin {
		if in.Role == models.RoleManager {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Admins cannot create manager accounts"})
			return
		}
		if creator.Site != "" {
			if in.Site != "" && !strings.EqualFold(in.Site, creator.Site) {
				c.JSON(http.StatusForbidden, gin.H{
					"success": false,
					"message": "Admins can only create users for their own site (" + creator.Site + ")",
				})
				return
			}
			// Admins cannot plant users in another tenant.
			in.Site = creator.Site
		}
	}

	if (in.Role == models.RoleAdmin || in.Role == models.RoleManager) &&
		(creator == nil || (creator.Role != models.RoleAdmin && creator.Role != models.RoleManager)) {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Authentication required to create admin/manager account"})
		return
	}

	if in.Role == models.RoleUser && (in.Site == "" || in.Company == "") {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Site and company are required for user accounts"})
		return
	}

	// App-level duplicate check; the partial unique indexes still back this
	// up under concurrent registration.
	dup := config.DB.Where("username = ?", in.Username)
	if in.Role == models.RoleUser {
		dup = dup.Where("role = ? AND site = ? AND company = ?", models.RoleUser, in.Site, in.Company)
	} else {
		dup = dup.Where("role IN ?", []string{models.RoleAdmin, models.RoleManager})
	}
	var existing models.User
	if err := dup.First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Username already exists"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error", "error": err.Error()})
		return
	}

	user := models.User{
		Username:     in.Username,
		PasswordHash: string(hash),
		Role:         in.Role,
		Site:         in.Site,
		Company:      in.Company,
	}
	if creator != nil {
		id := creator.ID
		user.CreatedByID = &id
		user.CreatedByUsername = creator.Username
		user.CreatedByRole = creator.Role
	}

	if err := config.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Username already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error", "error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "User registered successfully",
		"user":    user,
	})
}

type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Site     string `json:"site"`
	Company  string `json:"company"`
}

// Login authenticates a user. Managers log in with username/password alone;
// admins and site users must also name the site and company their account
// belongs to (case-insensitive match against the stored pair).
func Login(c *gin.Context) {
	var in LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input", "error": err.Error()})
		return
	}

	var user models.User
	err := config.DB.Where("LOWER(username) = LOWER(?)", in.Username).First(&user).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database connection error. Please try again."})
		return
	}
	found := err == nil

	if !found || user.Role != models.RoleManager {
		site := strings.TrimSpace(in.Site)
		company := strings.TrimSpace(in.Company)
		if site == "" || company == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Site and company are required for admin/user login"})
			return
		}
		if !found ||
			!strings.EqualFold(strings.TrimSpace(user.Site), site) ||
			!strings.EqualFold(strings.TrimSpace(user.Company), company) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid credentials"})
			return
		}
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid credentials"})
		return
	}

	ttlDays := 30
	if v := os.Getenv("COOKIE_MAX_AGE_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			ttlDays = n
		}
	}
	token, err := utils.GenerateToken(&user, time.Duration(ttlDays)*24*time.Hour)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error", "error": err.Error()})
		return
	}

	secure := os.Getenv("GIN_MODE") == "release"
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie("token", token, ttlDays*24*60*60, "/", "", secure, true)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful",
		"token":   token,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"role":     user.Role,
			"site":     user.Site,
			"company":  user.Company,
		},
	})
}

func Logout(c *gin.Context) {
	secure := os.Getenv("GIN_MODE") == "release"
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie("token", "", -1, "/", "", secure, true)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logout successful"})
}

func GetCurrentUser(c *gin.Context) {
	claims := middlewares.CurrentClaims(c)
	var user models.User
	if err := config.DB.First(&user, claims.ID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

// GetAllUsers lists every account. Admin only (enforced in routes).
func GetAllUsers(c *gin.Context) {
	var users []models.User
	if err := config.DB.Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "users": users})
}

// GetUsers lists recent accounts for the manager dashboard: a manager sees
// only their creation tree, an admin sees everything.
func GetUsers(c *gin.Context) {
	claims := middlewares.CurrentClaims(c)
	if claims.Role != models.RoleManager && claims.Role != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Access denied. Manager privileges required."})
		return
	}

	var users []models.User
	if claims.Role == models.RoleManager {
		owned, err := service.OwnedUsers(config.DB, claims.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error", "error": err.Error()})
			return
		}
		users = owned
		sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })
		if len(users) > 100 {
			users = users[:100]
		}
	} else {
		if err := config.DB.Order("created_at DESC").Limit(100).Find(&users).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "users": users})
}

// GetDatabaseStatus reports main-database health for monitoring.
func GetDatabaseStatus(c *gin.Context) {
	status := "connected"
	sqlDB, err := config.DB.DB()
	if err != nil || sqlDB.Ping() != nil {
		status = "disconnected"
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"database": gin.H{
			"status":  status,
			"dialect": config.Dialect,
		},
	})
}
