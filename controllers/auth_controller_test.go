package controllers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Psychotichub/report/config"
	"github.com/Psychotichub/report/models"
)

func authRouter() *gin.Engine {
	r := gin.New()
	r.POST("/api/auth/register", Register)
	r.POST("/api/auth/login", Login)
	return r
}

func TestRegisterAnonymousUserOnly(t *testing.T) {
	setupTest(t)
	r := authRouter()

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "worker", "password": "secret1", "role": "user",
		"site": "Site A", "company": "ACME",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("anonymous user signup: %d, body %s", w.Code, w.Body)
	}

	w = doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "sneaky", "password": "secret1", "role": "admin",
		"site": "Site A", "company": "ACME",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous admin signup: %d, want 401", w.Code)
	}
}

func TestRegisterUserRequiresTenant(t *testing.T) {
	setupTest(t)
	r := authRouter()

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "worker", "password": "secret1", "role": "user",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("user without site/company: %d, want 400", w.Code)
	}
}

func TestRegisterManagerCreatesAdminsOnly(t *testing.T) {
	setupTest(t)
	r := authRouter()
	boss := seedUser(t, "boss", "secret1", models.RoleManager, "", "")
	token := tokenFor(t, boss)

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", token, gin.H{
		"username": "admin_a", "password": "secret1", "role": "admin",
		"site": "Site A", "company": "ACME",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("manager creating admin: %d, body %s", w.Code, w.Body)
	}

	var created models.User
	if err := config.DB.Where("username = ?", "admin_a").First(&created).Error; err != nil {
		t.Fatalf("lookup created admin: %v", err)
	}
	if created.CreatedByID == nil || *created.CreatedByID != boss.ID || created.CreatedByRole != models.RoleManager {
		t.Fatalf("creator not recorded: %+v", created)
	}

	w = doJSON(t, r, http.MethodPost, "/api/auth/register", token, gin.H{
		"username": "worker", "password": "secret1", "role": "user",
		"site": "Site A", "company": "ACME",
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("manager creating user: %d, want 403", w.Code)
	}
}

func TestRegisterAdminSiteForcing(t *testing.T) {
	setupTest(t)
	r := authRouter()
	admin := seedUser(t, "admin_a", "secret1", models.RoleAdmin, "Site A", "ACME")
	token := tokenFor(t, admin)

	// Another site is off limits.
	w := doJSON(t, r, http.MethodPost, "/api/auth/register", token, gin.H{
		"username": "worker", "password": "secret1", "role": "user",
		"site": "Site B", "company": "ACME",
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("admin planting user in Site B: %d, want 403", w.Code)
	}

	// Omitted site falls back to the admin's own.
	w = doJSON(t, r, http.MethodPost, "/api/auth/register", token, gin.H{
		"username": "worker", "password": "secret1", "role": "user",
		"company": "ACME",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("admin creating own-site user: %d, body %s", w.Code, w.Body)
	}
	var created models.User
	if err := config.DB.Where("username = ?", "worker").First(&created).Error; err != nil {
		t.Fatalf("lookup worker: %v", err)
	}
	if created.Site != "Site A" {
		t.Fatalf("site = %q, want forced Site A", created.Site)
	}

	// Case-insensitive restatement of the own site is allowed.
	w = doJSON(t, r, http.MethodPost, "/api/auth/register", token, gin.H{
		"username": "worker2", "password": "secret1", "role": "user",
		"site": "site a", "company": "ACME",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("case-insensitive own site: %d, body %s", w.Code, w.Body)
	}

	// Admins never mint managers.
	w = doJSON(t, r, http.MethodPost, "/api/auth/register", token, gin.H{
		"username": "boss2", "password": "secret1", "role": "manager",
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("admin creating manager: %d, want 403", w.Code)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	setupTest(t)
	r := authRouter()

	body := gin.H{
		"username": "worker", "password": "secret1", "role": "user",
		"site": "Site A", "company": "ACME",
	}
	if w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", body); w.Code != http.StatusCreated {
		t.Fatalf("first signup: %d", w.Code)
	}
	if w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", body); w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate signup: %d, want 400", w.Code)
	}

	// Same username in a different tenant is a different account.
	other := gin.H{
		"username": "worker", "password": "secret1", "role": "user",
		"site": "Site B", "company": "ACME",
	}
	if w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", other); w.Code != http.StatusCreated {
		t.Fatalf("same name, other tenant: %d, want 201", w.Code)
	}
}

func TestLoginTenantChecks(t *testing.T) {
	setupTest(t)
	r := authRouter()
	seedUser(t, "worker", "secret1", models.RoleUser, "Site A", "ACME")
	seedUser(t, "boss", "secret1", models.RoleManager, "", "")

	// Site users must name their tenant.
	w := doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"username": "worker", "password": "secret1",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("user login without tenant: %d, want 400", w.Code)
	}

	// Wrong tenant is indistinguishable from a wrong password.
	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"username": "worker", "password": "secret1", "site": "Site B", "company": "ACME",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("user login wrong site: %d, want 400", w.Code)
	}

	// Tenant match is case-insensitive.
	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"username": "worker", "password": "secret1", "site": "site a", "company": "acme",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("user login: %d, body %s", w.Code, w.Body)
	}

	// Managers log in with credentials alone.
	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"username": "boss", "password": "secret1",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("manager login: %d, body %s", w.Code, w.Body)
	}

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"username": "boss", "password": "wrong",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("manager bad password: %d, want 400", w.Code)
	}
}
