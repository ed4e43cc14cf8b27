package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Psychotichub/report/middlewares"
	"github.com/Psychotichub/report/models"
)

// GetMaterials lists the tenant's price catalog. Every role inside the
// tenant sees the whole catalog.
func GetMaterials(c *gin.Context) {
	h, ok := siteHandles(c)
	if !ok {
		return
	}
	var materials []models.SiteMaterial
	if err := h.Materials.Query().Order("material_name ASC").Find(&materials).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, materials)
}

func requireSiteAdmin(c *gin.Context) bool {
	claims := middlewares.CurrentClaims(c)
	if claims == nil || claims.Role != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"message": "Access denied. Only site administrators can manage materials with pricing information.",
		})
		return false
	}
	return true
}

type MaterialInput struct {
	MaterialName  string  `json:"materialName" binding:"required"`
	Unit          string  `json:"unit" binding:"required"`
	MaterialPrice float64 `json:"materialPrice"`
	LaborPrice    float64 `json:"laborPrice"`
}

func AddMaterial(c *gin.Context) {
	if !requireSiteAdmin(c) {
		return
	}
	var in MaterialInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input", "error": err.Error()})
		return
	}
	h, ok := siteHandles(c)
	if !ok {
		return
	}

	material := models.SiteMaterial{
		MaterialName:  in.MaterialName,
		Unit:          in.Unit,
		MaterialPrice: in.MaterialPrice,
		LaborPrice:    in.LaborPrice,
		CreatedBy:     middlewares.CurrentClaims(c).Username,
	}
	if err := h.Materials.Create(&material); err != nil {
		// Concurrent creation of the same name: the unique index decides
		// the winner, the loser gets the duplicate answer.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Material already exists in this site."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error", "error": err.Error()})
		return
	}

	logAction(c, h, models.ActionCreate, "material", material.ID, map[string]any{
		"materialName": material.MaterialName, "unit": material.Unit,
	})
	c.JSON(http.StatusCreated, material)
}

type MaterialUpdateInput struct {
	OriginalMaterialName string  `json:"originalMaterialName" binding:"required"`
	MaterialName         string  `json:"materialName" binding:"required"`
	Unit                 string  `json:"unit" binding:"required"`
	MaterialPrice        float64 `json:"materialPrice"`
	LaborPrice           float64 `json:"laborPrice"`
}

// UpdateMaterial edits a catalog entry, addressed by its current name.
// Renaming does not touch historical usage rows; they keep the old name.
func UpdateMaterial(c *gin.Context) {
	if !requireSiteAdmin(c) {
		return
	}
	var in MaterialUpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input", "error": err.Error()})
		return
	}
	h, ok := siteHandles(c)
	if !ok {
		return
	}

	existing, err := h.Materials.FindOne("material_name = ?", in.OriginalMaterialName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Material not found in this site."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error", "error": err.Error()})
		return
	}

	updates := map[string]any{
		"material_name":  in.MaterialName,
		"unit":           in.Unit,
		"material_price": in.MaterialPrice,
		"labor_price":    in.LaborPrice,
	}
	// Backfill creator on legacy rows that predate the createdBy column.
	if existing.CreatedBy == "" {
		updates["created_by"] = middlewares.CurrentClaims(c).Username
	}

	if err := h.Materials.Query().Where("id = ?", existing.ID).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Material name already exists in this site."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error", "error": err.Error()})
		return
	}

	updated, err := h.Materials.FindOne("id = ?", existing.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error", "error": err.Error()})
		return
	}

	logAction(c, h, models.ActionUpdate, "material", updated.ID, map[string]any{
		"materialName": updated.MaterialName, "previousName": in.OriginalMaterialName,
	})
	c.JSON(http.StatusOK, updated)
}

func DeleteMaterial(c *gin.Context) {
	if !requireSiteAdmin(c) {
		return
	}
	h, ok := siteHandles(c)
	if !ok {
		return
	}

	name := c.Param("materialName")
	material, err := h.Materials.FindOne("material_name = ?", name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Material not found in this site."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error", "error": err.Error()})
		return
	}
	if err := h.Materials.Query().Delete(&models.SiteMaterial{}, material.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error", "error": err.Error()})
		return
	}

	logAction(c, h, models.ActionDelete, "material", material.ID, map[string]any{
		"materialName": material.MaterialName,
	})
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Material deleted successfully"})
}

func CheckMaterialExists(c *gin.Context) {
	h, ok := siteHandles(c)
	if !ok {
		return
	}
	n, err := h.Materials.Count("material_name = ?", c.Param("materialName"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"exists": n > 0})
}

func SearchMaterial(c *gin.Context) {
	h, ok := siteHandles(c)
	if !ok {
		return
	}
	material, err := h.Materials.FindOne("material_name = ?", c.Param("materialName"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Material not found."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, material)
}
