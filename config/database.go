package config

import (
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	DB *gorm.DB

	// Dialect is "postgres" or "sqlite"; main picks the matching tenant
	// opener from it.
	Dialect string
)

func ConnectDB() {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		dbURL = os.Getenv("DB_URL")
	}

	gormLogger := logger.New(
		log.New(os.Stdout, "[GORM] ", log.LstdFlags),
		logger.Config{
			SlowThreshold: 200 * time.Millisecond,
			LogLevel:      logger.Warn,
			Colorful:      true,
		},
	)

	var dialector gorm.Dialector
	switch {
	case strings.HasPrefix(dbURL, "postgres://") || strings.HasPrefix(dbURL, "postgresql://") || strings.Contains(dbURL, "host="):
		// Hosted postgres usually wants sslmode=require; add it when missing
		if strings.HasPrefix(dbURL, "postgres") && !strings.Contains(dbURL, "sslmode=") {
			sep := "?"
			if strings.Contains(dbURL, "?") {
				sep = "&"
			}
			dbURL = dbURL + sep + "sslmode=require"
		}
		dialector = postgres.Open(dbURL)
		Dialect = "postgres"
	case dbURL != "":
		dialector = postgres.Open(dbURL)
		Dialect = "postgres"
	default:
		dbPath := os.Getenv("SQLITE_PATH")
		if dbPath == "" {
			dbPath = "report.db"
		}
		dialector = sqlite.Open(dbPath)
		dbURL = dbPath
		Dialect = "sqlite"
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if Dialect == "postgres" {
		if err := db.Exec(`SET TIME ZONE 'UTC'`).Error; err != nil {
			log.Printf("warn: could not set timezone UTC: %v", err)
		}
	}

	log.Printf("database connected (%s): %s", Dialect, dbURL)
	DB = db
}
