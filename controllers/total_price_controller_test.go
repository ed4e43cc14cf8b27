package controllers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Psychotichub/report/middlewares"
	"github.com/Psychotichub/report/models"
)

func totalPriceRouter() *gin.Engine {
	r := gin.New()
	grp := r.Group("/api/user", middlewares.Authenticate(), middlewares.RequireSiteAccess())
	grp.POST("/materials", AddMaterial)
	grp.GET("/total-prices", GetTotalPrices)
	grp.POST("/total-prices/calculate", AddTotalPrices)
	return r
}

func TestCalculateTotalPricesPersistsRows(t *testing.T) {
	setupTest(t)
	r := totalPriceRouter()
	admin := seedUser(t, "admin_a", "secret1", models.RoleAdmin, "Site A", "ACME")
	token := tokenFor(t, admin)

	if w := doJSON(t, r, http.MethodPost, "/api/user/materials", token, gin.H{
		"materialName": "Cement", "unit": "bag", "materialPrice": 10, "laborPrice": 5,
	}); w.Code != http.StatusCreated {
		t.Fatalf("seed material: %d, body %s", w.Code, w.Body)
	}

	w := doJSON(t, r, http.MethodPost, "/api/user/total-prices/calculate", token, gin.H{
		"materials": []gin.H{
			{"date": "2026-03-02", "materialName": "Cement", "quantity": 6, "unit": "bag"},
		},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("calculate: %d, body %s", w.Code, w.Body)
	}
	var saved []models.SiteTotalPrice
	if err := json.Unmarshal(w.Body.Bytes(), &saved); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(saved) != 1 || saved[0].MaterialCost != 60 || saved[0].LaborCost != 30 || saved[0].TotalPrice != 90 {
		t.Fatalf("unexpected saved rows: %+v", saved)
	}

	// The priced rows are persisted, not just echoed back.
	w = doJSON(t, r, http.MethodGet, "/api/user/total-prices", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: %d", w.Code)
	}
	var listed []models.SiteTotalPrice
	if err := json.Unmarshal(w.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listed) != 1 || listed[0].TotalPrice != 90 {
		t.Fatalf("persisted rows: %+v, want the calculated Cement row", listed)
	}

	// An unknown material fails the whole batch and persists nothing.
	w = doJSON(t, r, http.MethodPost, "/api/user/total-prices/calculate", token, gin.H{
		"materials": []gin.H{
			{"date": "2026-03-03", "materialName": "Unobtainium", "quantity": 1, "unit": "kg"},
		},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("unknown material: %d, want 400", w.Code)
	}
}
