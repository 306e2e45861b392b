// Catalog repository: foods, units, localized names, and the gram-equivalence
// mappings between them. All functions are context-aware and accept a
// *gorm.DB handle so they compose with transactions opened by the service
// layer.
//
// Error semantics:
//   - Missing rows surface gorm.ErrRecordNotFound (aliased as ErrNotFound).
//   - Duplicate (name, locale) creations surface gorm.ErrDuplicatedKey; the
//     enclosing transaction is rolled back so no partial food/name pair is
//     ever left committed.

package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/nutrilog/nutrilog/internal/domain"
)

// GetFoodByName resolves a Food through its localized display name.
func GetFoodByName(ctx context.Context, db *gorm.DB, locale, name string) (*domain.Food, error) {
	var fn domain.FoodName
	err := db.WithContext(ctx).
		Where("name = ? AND locale = ?", name, locale).
		First(&fn).Error
	if err != nil {
		return nil, err
	}
	var f domain.Food
	if err := db.WithContext(ctx).First(&f, fn.FoodID).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

// GetUnitByName resolves a Unit through its localized display name.
func GetUnitByName(ctx context.Context, db *gorm.DB, locale, name string) (*domain.Unit, error) {
	var un domain.UnitName
	err := db.WithContext(ctx).
		Where("name = ? AND locale = ?", name, locale).
		First(&un).Error
	if err != nil {
		return nil, err
	}
	return &domain.Unit{ID: un.UnitID}, nil
}

// GramUnit returns the canonical gram unit, resolved through its English
// name. The seed guarantees it exists.
func GramUnit(ctx context.Context, db *gorm.DB) (*domain.Unit, error) {
	return GetUnitByName(ctx, db, "en", GramUnitName)
}

// FoodDisplayName returns the food's name in the given locale, falling back
// to any name the food has, then to "?".
func FoodDisplayName(ctx context.Context, db *gorm.DB, foodID uint, locale string) string {
	var fn domain.FoodName
	err := db.WithContext(ctx).
		Where("food_id = ? AND locale = ?", foodID, locale).
		First(&fn).Error
	if err != nil {
		if err := db.WithContext(ctx).Where("food_id = ?", foodID).First(&fn).Error; err != nil {
			return "?"
		}
	}
	return fn.Name
}

// UnitDisplayName returns the unit's first name in the given locale, falling
// back to any name, then to "?".
func UnitDisplayName(ctx context.Context, db *gorm.DB, unitID uint, locale string) string {
	var un domain.UnitName
	err := db.WithContext(ctx).
		Where("unit_id = ? AND locale = ?", unitID, locale).
		Order("id").
		First(&un).Error
	if err != nil {
		if err := db.WithContext(ctx).Where("unit_id = ?", unitID).First(&un).Error; err != nil {
			return "?"
		}
	}
	return un.Name
}

// CreateFoodWithName inserts a Food with its localized name and the implicit
// 1-gram FoodUnit in one transaction. The duplicate-name check runs inside
// the same transaction as the inserts, so two simultaneous creators cannot
// both succeed for one (name, locale); the loser's writes are rolled back and
// gorm.ErrDuplicatedKey is returned.
func CreateFoodWithName(ctx context.Context, db *gorm.DB, locale, name string, perGram domain.Food) (*domain.Food, error) {
	f := perGram
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&domain.FoodName{}).
			Where("name = ? AND locale = ?", name, locale).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return gorm.ErrDuplicatedKey
		}
		f.ID = 0
		if err := tx.Create(&f).Error; err != nil {
			return err
		}
		fn := domain.FoodName{FoodID: f.ID, Name: name, Locale: locale}
		if err := tx.Create(&fn).Error; err != nil {
			return translateUniqueViolation(err)
		}

		gram, err := GetUnitByName(ctx, tx, "en", GramUnitName)
		if err != nil {
			return fmt.Errorf("gram unit missing: %w", err)
		}
		fu := domain.FoodUnit{FoodID: f.ID, UnitID: gram.ID, Grams: 1, IsDefault: true}
		return tx.Create(&fu).Error
	})
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// CreateUnitWithName inserts a Unit and its localized name in one
// transaction, with the same duplicate discipline as CreateFoodWithName.
func CreateUnitWithName(ctx context.Context, db *gorm.DB, locale, name string) (*domain.Unit, error) {
	var u domain.Unit
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&domain.UnitName{}).
			Where("name = ? AND locale = ?", name, locale).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return gorm.ErrDuplicatedKey
		}
		u = domain.Unit{}
		if err := tx.Create(&u).Error; err != nil {
			return err
		}
		un := domain.UnitName{UnitID: u.ID, Name: name, Locale: locale}
		if err := tx.Create(&un).Error; err != nil {
			return translateUniqueViolation(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetFoodUnit fetches the gram-equivalence mapping for (food, unit).
func GetFoodUnit(ctx context.Context, db *gorm.DB, foodID, unitID uint) (*domain.FoodUnit, error) {
	var fu domain.FoodUnit
	err := db.WithContext(ctx).
		Where("food_id = ? AND unit_id = ?", foodID, unitID).
		First(&fu).Error
	if err != nil {
		return nil, err
	}
	return &fu, nil
}

// DefaultFoodUnit returns the unique FoodUnit marked default for the food.
// More than one default row is a data-integrity violation and is reported as
// an error rather than silently picking one.
func DefaultFoodUnit(ctx context.Context, db *gorm.DB, foodID uint) (*domain.FoodUnit, error) {
	var fus []domain.FoodUnit
	err := db.WithContext(ctx).
		Where("food_id = ? AND is_default = ?", foodID, true).
		Limit(2).
		Find(&fus).Error
	if err != nil {
		return nil, err
	}
	switch len(fus) {
	case 1:
		return &fus[0], nil
	case 0:
		return nil, gorm.ErrRecordNotFound
	default:
		return nil, fmt.Errorf("food %d has multiple default units", foodID)
	}
}

// DefineFoodUnit upserts the (food, unit) mapping with the given grams and
// default flag. Setting the default clears every other default for the food
// in the same transaction so exactly one row stays marked. Unless the unit
// being defined is the gram unit itself, the implicit 1-gram mapping is
// backfilled when absent.
func DefineFoodUnit(ctx context.Context, db *gorm.DB, foodID, unitID uint, grams float64, isDefault bool) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var fu domain.FoodUnit
		err := tx.Where("food_id = ? AND unit_id = ?", foodID, unitID).First(&fu).Error
		switch {
		case err == nil:
			fu.Grams = grams
			fu.IsDefault = isDefault
			if err := tx.Save(&fu).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			fu = domain.FoodUnit{FoodID: foodID, UnitID: unitID, Grams: grams, IsDefault: isDefault}
			if err := tx.Create(&fu).Error; err != nil {
				return err
			}
		default:
			return err
		}

		if isDefault {
			if err := tx.Model(&domain.FoodUnit{}).
				Where("food_id = ? AND unit_id <> ?", foodID, unitID).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}

		gram, err := GetUnitByName(ctx, tx, "en", GramUnitName)
		if err != nil {
			return fmt.Errorf("gram unit missing: %w", err)
		}
		if unitID == gram.ID {
			return nil
		}
		var n int64
		if err := tx.Model(&domain.FoodUnit{}).
			Where("food_id = ? AND unit_id = ?", foodID, gram.ID).
			Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			backfill := domain.FoodUnit{FoodID: foodID, UnitID: gram.ID, Grams: 1, IsDefault: false}
			if err := tx.Create(&backfill).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdateFoodValues overwrites a food's per-gram nutrient values.
func UpdateFoodValues(ctx context.Context, db *gorm.DB, foodID uint, perGram domain.Food) error {
	res := db.WithContext(ctx).
		Model(&domain.Food{}).
		Where("id = ?", foodID).
		Updates(map[string]any{
			"calories": perGram.Calories,
			"fat":      perGram.Fat,
			"carbs":    perGram.Carbs,
			"protein":  perGram.Protein,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// translateUniqueViolation maps a driver-level unique-constraint failure to
// gorm.ErrDuplicatedKey so callers see one sentinel regardless of which
// guard fired first.
func translateUniqueViolation(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return err
	}
	// The pure-Go sqlite driver reports constraint violations as plain
	// errors; the unique index on (name, locale) is the only one these
	// inserts can trip.
	if strings.Contains(err.Error(), "UNIQUE constraint") {
		return gorm.ErrDuplicatedKey
	}
	return err
}
