package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/nutrilog/nutrilog/internal/domain"
	"github.com/nutrilog/nutrilog/internal/repo"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "services_test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := repo.SeedUnits(db); err != nil {
		t.Fatalf("seed units: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, telegramID int64, locale string) *domain.User {
	t.Helper()
	u, err := repo.CreateUserWithProfile(context.Background(), db, telegramID, "Tester", locale, domain.UserProfile{
		DailyCalories: 1538,
		DailyFat:      44,
		DailyCarbs:    205,
		DailyProtein:  94,
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

// seedSoup registers "Chicken soup" with a 350 g bowl as default unit.
func seedSoup(t *testing.T, db *gorm.DB) *domain.Food {
	t.Helper()
	ctx := context.Background()
	cat := NewCatalogService(db)

	f, err := cat.CreateFood(ctx, "en", "Chicken soup",
		domain.Food{Calories: 0.36, Fat: 0.012, Carbs: 0.035, Protein: 0.025})
	if err != nil {
		t.Fatalf("create soup: %v", err)
	}
	if _, err := cat.CreateUnit(ctx, "en", "bowl"); err != nil {
		t.Fatalf("create bowl: %v", err)
	}
	if err := cat.DefineUnit(ctx, "en", "Chicken soup", "bowl", 350, true); err != nil {
		t.Fatalf("define bowl: %v", err)
	}
	return f
}

func almostEqual(a, b float64) bool {
	d := a - b
	return d < 1e-9 && d > -1e-9
}
