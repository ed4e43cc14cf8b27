package sitedb

import (
	"fmt"
	"path/filepath"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// PostgresOpener maps tenant keys to schemas on the shared connection pool:
// CREATE SCHEMA IF NOT EXISTS <key>, then a gorm session whose table names
// are prefixed with that schema. Distinct tenants never see each other's
// tables even though they share the pool. The pool belongs to the caller,
// so the returned close func is nil.
func PostgresOpener(base *gorm.DB) OpenFunc {
	return func(key string) (*gorm.DB, func() error, error) {
		// Keys may start with a digit, so the identifier must be quoted.
		if err := base.Exec(`CREATE SCHEMA IF NOT EXISTS "` + key + `"`).Error; err != nil {
			return nil, nil, fmt.Errorf("create schema %s: %w", key, err)
		}
		sqlDB, err := base.DB()
		if err != nil {
			return nil, nil, err
		}
		db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
			NamingStrategy: schema.NamingStrategy{TablePrefix: key + "."},
			TranslateError: true,
			Logger:         logger.Default.LogMode(logger.Warn),
		})
		if err != nil {
			return nil, nil, err
		}
		return db, nil, nil
	}
}

// SQLiteOpener keeps one database file per tenant under dir. Used when the
// main database runs on the sqlite fallback (local development). Each tenant
// owns its file handle, so the close func tears it down.
func SQLiteOpener(dir string) OpenFunc {
	return func(key string) (*gorm.DB, func() error, error) {
		db, err := gorm.Open(sqlite.Open(filepath.Join(dir, key+".db")), &gorm.Config{
			TranslateError: true,
			Logger:         logger.Default.LogMode(logger.Warn),
		})
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, err
		}
		return db, sqlDB.Close, nil
	}
}
