package repo

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/nutrilog/nutrilog/internal/domain"
)

func TestCreateFoodWithName_CreatesGramMapping(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	f, err := CreateFoodWithName(ctx, db, "en", "Apple", domain.Food{Calories: 0.52})
	if err != nil {
		t.Fatalf("CreateFoodWithName: %v", err)
	}

	got, err := GetFoodByName(ctx, db, "en", "Apple")
	if err != nil {
		t.Fatalf("GetFoodByName: %v", err)
	}
	if got.ID != f.ID || got.Calories != 0.52 {
		t.Fatalf("unexpected food: %+v", got)
	}

	gram, err := GramUnit(ctx, db)
	if err != nil {
		t.Fatalf("gram unit: %v", err)
	}
	fu, err := DefaultFoodUnit(ctx, db, f.ID)
	if err != nil {
		t.Fatalf("default unit: %v", err)
	}
	if fu.UnitID != gram.ID || fu.Grams != 1 || !fu.IsDefault {
		t.Fatalf("expected implicit 1-gram default, got %+v", fu)
	}
}

func TestCreateFoodWithName_DuplicateLeavesNoOrphan(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if _, err := CreateFoodWithName(ctx, db, "en", "Apple", domain.Food{Calories: 0.52}); err != nil {
		t.Fatalf("first create: %v", err)
	}

	var foodsBefore, namesBefore int64
	db.Model(&domain.Food{}).Count(&foodsBefore)
	db.Model(&domain.FoodName{}).Count(&namesBefore)

	_, err := CreateFoodWithName(ctx, db, "en", "Apple", domain.Food{Calories: 0.9})
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected ErrDuplicatedKey, got %v", err)
	}

	var foodsAfter, namesAfter int64
	db.Model(&domain.Food{}).Count(&foodsAfter)
	db.Model(&domain.FoodName{}).Count(&namesAfter)
	if foodsAfter != foodsBefore || namesAfter != namesBefore {
		t.Fatalf("duplicate create must not leave rows: foods %d->%d names %d->%d",
			foodsBefore, foodsAfter, namesBefore, namesAfter)
	}
}

func TestCreateFoodWithName_SameNameOtherLocaleAllowed(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if _, err := CreateFoodWithName(ctx, db, "en", "Kiwi", domain.Food{}); err != nil {
		t.Fatalf("en create: %v", err)
	}
	if _, err := CreateFoodWithName(ctx, db, "ru", "Kiwi", domain.Food{}); err != nil {
		t.Fatalf("ru create should pass, got: %v", err)
	}
}

func TestCreateUnitWithName_Duplicate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if _, err := CreateUnitWithName(ctx, db, "en", "bowl"); err != nil {
		t.Fatalf("create unit: %v", err)
	}
	if _, err := CreateUnitWithName(ctx, db, "en", "bowl"); !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected ErrDuplicatedKey, got %v", err)
	}
	// The seeded gram alias is taken too.
	if _, err := CreateUnitWithName(ctx, db, "en", "g"); !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected ErrDuplicatedKey for seeded name, got %v", err)
	}
}

func TestDefineFoodUnit_ExactlyOneDefault(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	f, err := CreateFoodWithName(ctx, db, "en", "Soup", domain.Food{Calories: 0.36})
	if err != nil {
		t.Fatalf("create food: %v", err)
	}
	bowl, err := CreateUnitWithName(ctx, db, "en", "bowl")
	if err != nil {
		t.Fatalf("create unit: %v", err)
	}
	pc, err := GetUnitByName(ctx, db, "en", "pc")
	if err != nil {
		t.Fatalf("pc unit: %v", err)
	}

	// Flip the default around a few times; exactly one row must stay marked.
	if err := DefineFoodUnit(ctx, db, f.ID, bowl.ID, 350, true); err != nil {
		t.Fatalf("define bowl: %v", err)
	}
	if err := DefineFoodUnit(ctx, db, f.ID, pc.ID, 250, true); err != nil {
		t.Fatalf("define pc: %v", err)
	}
	if err := DefineFoodUnit(ctx, db, f.ID, bowl.ID, 300, true); err != nil {
		t.Fatalf("redefine bowl: %v", err)
	}

	var defaults int64
	if err := db.Model(&domain.FoodUnit{}).
		Where("food_id = ? AND is_default = ?", f.ID, true).
		Count(&defaults).Error; err != nil {
		t.Fatalf("count defaults: %v", err)
	}
	if defaults != 1 {
		t.Fatalf("expected exactly one default, got %d", defaults)
	}

	fu, err := DefaultFoodUnit(ctx, db, f.ID)
	if err != nil {
		t.Fatalf("default unit: %v", err)
	}
	if fu.UnitID != bowl.ID || fu.Grams != 300 {
		t.Fatalf("unexpected default: %+v", fu)
	}
}

func TestDefineFoodUnit_UpsertsGrams(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	f, _ := CreateFoodWithName(ctx, db, "en", "Rice", domain.Food{})
	bowl, _ := CreateUnitWithName(ctx, db, "en", "bowl")

	if err := DefineFoodUnit(ctx, db, f.ID, bowl.ID, 180, false); err != nil {
		t.Fatalf("define: %v", err)
	}
	if err := DefineFoodUnit(ctx, db, f.ID, bowl.ID, 200, false); err != nil {
		t.Fatalf("redefine: %v", err)
	}

	var rows int64
	db.Model(&domain.FoodUnit{}).Where("food_id = ? AND unit_id = ?", f.ID, bowl.ID).Count(&rows)
	if rows != 1 {
		t.Fatalf("expected single (food, unit) row, got %d", rows)
	}
	fu, err := GetFoodUnit(ctx, db, f.ID, bowl.ID)
	if err != nil {
		t.Fatalf("get food unit: %v", err)
	}
	if fu.Grams != 200 {
		t.Fatalf("expected grams updated to 200, got %v", fu.Grams)
	}
}

func TestDefineFoodUnit_BackfillsGramMapping(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	// A food created without the helper has no mappings at all.
	f := domain.Food{Calories: 0.1}
	if err := db.Create(&f).Error; err != nil {
		t.Fatalf("raw food create: %v", err)
	}
	bowl, _ := CreateUnitWithName(ctx, db, "en", "bowl")

	if err := DefineFoodUnit(ctx, db, f.ID, bowl.ID, 350, true); err != nil {
		t.Fatalf("define: %v", err)
	}

	gram, _ := GramUnit(ctx, db)
	fu, err := GetFoodUnit(ctx, db, f.ID, gram.ID)
	if err != nil {
		t.Fatalf("gram mapping missing after define: %v", err)
	}
	if fu.Grams != 1 || fu.IsDefault {
		t.Fatalf("unexpected backfilled mapping: %+v", fu)
	}
}

func TestDefaultFoodUnit_CorruptionDetected(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	f, _ := CreateFoodWithName(ctx, db, "en", "Bread", domain.Food{})
	bowl, _ := CreateUnitWithName(ctx, db, "en", "slice")

	// Bypass DefineFoodUnit to forge two defaults.
	if err := db.Create(&domain.FoodUnit{FoodID: f.ID, UnitID: bowl.ID, Grams: 25, IsDefault: true}).Error; err != nil {
		t.Fatalf("forge: %v", err)
	}
	if _, err := DefaultFoodUnit(ctx, db, f.ID); err == nil {
		t.Fatalf("expected integrity error for two defaults")
	}
}

func TestUpdateFoodValues(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	f, _ := CreateFoodWithName(ctx, db, "en", "Oatmeal", domain.Food{Calories: 3.5})
	if err := UpdateFoodValues(ctx, db, f.ID, domain.Food{Calories: 3.8, Protein: 0.13}); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, _ := GetFoodByName(ctx, db, "en", "Oatmeal")
	if got.Calories != 3.8 || got.Protein != 0.13 {
		t.Fatalf("unexpected values: %+v", got)
	}

	if err := UpdateFoodValues(ctx, db, 9999, domain.Food{}); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGetFoodByName_NotFound(t *testing.T) {
	db := newTestDB(t)
	if _, err := GetFoodByName(context.Background(), db, "en", "Nothing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
