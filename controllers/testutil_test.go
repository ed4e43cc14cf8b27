package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Psychotichub/report/config"
	"github.com/Psychotichub/report/models"
	"github.com/Psychotichub/report/sitedb"
	"github.com/Psychotichub/report/utils"
)

// setupTest points the package globals at throwaway sqlite databases. Each
// test gets a fresh main database and a fresh tenant registry.
func setupTest(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "main.db")), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open main db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	config.DB = db
	config.Dialect = "sqlite"

	sitedb.Init(sitedb.SQLiteOpener(t.TempDir()))
	t.Cleanup(func() { _ = sitedb.Shutdown() })
}

func seedUser(t *testing.T, username, password, role, site, company string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u := &models.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		Site:         site,
		Company:      company,
	}
	if err := config.DB.Create(u).Error; err != nil {
		t.Fatalf("seed %s: %v", username, err)
	}
	return u
}

func tokenFor(t *testing.T, u *models.User) string {
	t.Helper()
	token, err := utils.GenerateToken(u, time.Hour)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	return token
}

// doJSON performs a request with a JSON body and optional bearer token.
func doJSON(t *testing.T, r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
