// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file contains database bootstrapping helpers for
// SQLite (pure Go driver), schema migrations, and the canonical unit seed.
package repo

import (
	"os"
	"path/filepath"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/nutrilog/nutrilog/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer.
var ErrNotFound = gorm.ErrRecordNotFound

// OpenSQLite opens (or creates) a SQLite database and applies PRAGMAs.
func OpenSQLite(path string) (*gorm.DB, error) {
	// Fail early if parent directory does not exist (instead of sqlite "out of memory (14)" on Windows).
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// PRAGMAs
	db.Exec("PRAGMA journal_mode=WAL;")
	db.Exec("PRAGMA synchronous=NORMAL;")
	db.Exec("PRAGMA foreign_keys=ON;")
	db.Exec("PRAGMA busy_timeout=5000;")

	// Pool
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	return db, nil
}

// AutoMigrate creates or updates the full schema.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.UserProfile{},
		&domain.Food{},
		&domain.FoodName{},
		&domain.Unit{},
		&domain.UnitName{},
		&domain.FoodUnit{},
		&domain.FoodLog{},
		&domain.FoodRequest{},
		&domain.WeightLog{},
		&domain.CommandLog{},
		&domain.PendingMessage{},
		&domain.DigestMark{},
	)
}

// GramUnitName is the canonical English spelling of the gram unit. The
// implicit 1-gram mapping every food carries resolves through this name.
const GramUnitName = "g"

// seedUnits lists the units created once per database: gram aliases and the
// generic "piece". Keys are locales, values the localized spellings.
var seedUnits = []map[string][]string{
	{
		"en": {"g", "gram", "gr", "grams"},
		"ru": {"г", "грамм", "гр", "грам", "граммов"},
	},
	{
		"en": {"pc", "pcs"},
		"ru": {"шт", "штук", "штука"},
	},
}

// SeedUnits inserts the canonical gram and piece units with their localized
// names. It is idempotent: a database that already has any unit name is left
// untouched.
func SeedUnits(db *gorm.DB) error {
	var n int64
	if err := db.Model(&domain.UnitName{}).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	return db.Transaction(func(tx *gorm.DB) error {
		for _, spellings := range seedUnits {
			u := domain.Unit{}
			if err := tx.Create(&u).Error; err != nil {
				return err
			}
			for locale, names := range spellings {
				for _, name := range names {
					un := domain.UnitName{UnitID: u.ID, Name: name, Locale: locale}
					if err := tx.Create(&un).Error; err != nil {
						return err
					}
				}
			}
		}
		return nil
	})
}
