package controllers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Psychotichub/report/config"
	"github.com/Psychotichub/report/middlewares"
	"github.com/Psychotichub/report/models"
	"github.com/Psychotichub/report/sitedb"
)

func managerRouter() *gin.Engine {
	r := gin.New()
	grp := r.Group("/api/manager",
		middlewares.Authenticate(), middlewares.RequireManagerAccess(), middlewares.RequireSiteAccess())
	grp.GET("/site/materials", GetManagedSiteMaterials)
	grp.GET("/site/activity-logs", GetSiteActivityLogs)
	grp.GET("/site/statistics", GetSiteStatistics)
	return r
}

func createdBy(t *testing.T, u, creator *models.User) {
	t.Helper()
	u.CreatedByID = &creator.ID
	u.CreatedByUsername = creator.Username
	u.CreatedByRole = creator.Role
	if err := config.DB.Save(u).Error; err != nil {
		t.Fatalf("link %s to %s: %v", u.Username, creator.Username, err)
	}
}

// seedManagedTenant builds a tenant with one account inside the manager's
// tree and one outside it, and returns the tenant handles.
func seedManagedTenant(t *testing.T, boss *models.User) *sitedb.Handles {
	t.Helper()
	adminA := seedUser(t, "admin_a", "secret1", models.RoleAdmin, "Site A", "ACME")
	createdBy(t, adminA, boss)
	seedUser(t, "outsider", "secret1", models.RoleAdmin, "Site A", "ACME")

	h, err := sitedb.Get("Site A", "ACME")
	if err != nil {
		t.Fatalf("tenant handles: %v", err)
	}
	return h
}

func TestManagerActivityLogsScopedToTree(t *testing.T) {
	setupTest(t)
	r := managerRouter()
	boss := seedUser(t, "boss", "secret1", models.RoleManager, "", "")
	h := seedManagedTenant(t, boss)

	for _, username := range []string{"admin_a", "outsider"} {
		if err := h.ActivityLogs.Create(&models.SiteActivityLog{
			Username: username, Role: models.RoleAdmin,
			Action: models.ActionCreate, Resource: "material", ResourceID: 1,
		}); err != nil {
			t.Fatalf("seed log for %s: %v", username, err)
		}
	}

	w := doJSON(t, r, http.MethodGet, "/api/manager/site/activity-logs?site=Site+A&company=ACME", tokenFor(t, boss), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("manager logs: %d, body %s", w.Code, w.Body)
	}
	var resp struct {
		Logs  []models.SiteActivityLog `json:"logs"`
		Count int                      `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 1 || len(resp.Logs) != 1 || resp.Logs[0].Username != "admin_a" {
		t.Fatalf("manager sees %+v, want only rows from their tree", resp.Logs)
	}

	// An admin in the tenant reads the whole log.
	var adminA models.User
	if err := config.DB.Where("username = ?", "admin_a").First(&adminA).Error; err != nil {
		t.Fatalf("lookup admin: %v", err)
	}
	w = doJSON(t, r, http.MethodGet, "/api/manager/site/activity-logs", tokenFor(t, &adminA), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("admin logs: %d", w.Code)
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 2 {
		t.Fatalf("admin sees %d rows, want 2", resp.Count)
	}
}

func TestManagerMaterialsScopedToTree(t *testing.T) {
	setupTest(t)
	r := managerRouter()
	boss := seedUser(t, "boss", "secret1", models.RoleManager, "", "")
	h := seedManagedTenant(t, boss)

	for _, m := range []models.SiteMaterial{
		{MaterialName: "Cement", Unit: "bag", MaterialPrice: 10, LaborPrice: 5, CreatedBy: "admin_a"},
		{MaterialName: "Gravel", Unit: "m3", MaterialPrice: 20, LaborPrice: 2, CreatedBy: "outsider"},
	} {
		m := m
		if err := h.Materials.Create(&m); err != nil {
			t.Fatalf("seed %s: %v", m.MaterialName, err)
		}
	}

	w := doJSON(t, r, http.MethodGet, "/api/manager/site/materials?site=Site+A&company=ACME", tokenFor(t, boss), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("manager materials: %d, body %s", w.Code, w.Body)
	}
	var materials []models.SiteMaterial
	if err := json.Unmarshal(w.Body.Bytes(), &materials); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(materials) != 1 || materials[0].MaterialName != "Cement" {
		t.Fatalf("manager sees %+v, want only their tree's catalog entries", materials)
	}
}

func TestManagerSurfaceRejectsSiteUsers(t *testing.T) {
	setupTest(t)
	r := managerRouter()
	worker := seedUser(t, "worker", "secret1", models.RoleUser, "Site A", "ACME")

	w := doJSON(t, r, http.MethodGet, "/api/manager/site/statistics", tokenFor(t, worker), nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("worker on manager surface: %d, want 403", w.Code)
	}
}
