// Conversion-table management: foods, units and the gram equivalences
// between them. Every create runs its duplicate check and its inserts in a
// single transaction, so a duplicate name never leaves a half-created row
// behind. Per-gram normalization is the caller's contract: the bot layer
// divides per-100g administrator input by 100 before calling in.

package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/nutrilog/nutrilog/internal/domain"
	"github.com/nutrilog/nutrilog/internal/repo"
)

// CatalogService manages foods, units and their gram mappings.
type CatalogService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{DB: db}
}

// CreateFood inserts a food with its localized name. perGram carries nutrient
// values per one gram. The implicit 1-gram mapping is created alongside and
// starts as the food's default unit.
func (s *CatalogService) CreateFood(ctx context.Context, locale, name string, perGram domain.Food) (*domain.Food, error) {
	f, err := repo.CreateFoodWithName(ctx, s.DB, locale, name, perGram)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("create food: %w", err)
	}
	return f, nil
}

// CreateUnit inserts a unit with its localized name.
func (s *CatalogService) CreateUnit(ctx context.Context, locale, name string) (*domain.Unit, error) {
	u, err := repo.CreateUnitWithName(ctx, s.DB, locale, name)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("create unit: %w", err)
	}
	return u, nil
}

// DefineUnit sets the gram equivalence of a unit for a food, resolving both
// by name. Marking it default atomically clears any previous default, so the
// exactly-one-default invariant holds after every call.
func (s *CatalogService) DefineUnit(ctx context.Context, locale, foodName, unitName string, grams float64, isDefault bool) error {
	food, err := repo.GetFoodByName(ctx, s.DB, locale, foodName)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrFoodNotFound
		}
		return fmt.Errorf("resolve food: %w", err)
	}
	unit, err := repo.GetUnitByName(ctx, s.DB, locale, unitName)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUnitNotFound
		}
		return fmt.Errorf("resolve unit: %w", err)
	}
	return repo.DefineFoodUnit(ctx, s.DB, food.ID, unit.ID, grams, isDefault)
}

// UpdateFood overwrites an existing food's per-gram nutrient values.
func (s *CatalogService) UpdateFood(ctx context.Context, locale, name string, perGram domain.Food) error {
	food, err := repo.GetFoodByName(ctx, s.DB, locale, name)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrFoodNotFound
		}
		return fmt.Errorf("resolve food: %w", err)
	}
	if err := repo.UpdateFoodValues(ctx, s.DB, food.ID, perGram); err != nil {
		return fmt.Errorf("update food: %w", err)
	}
	return nil
}

// DefaultUnit returns the unique default unit mapping of a food.
func (s *CatalogService) DefaultUnit(ctx context.Context, foodID uint) (*domain.FoodUnit, error) {
	return repo.DefaultFoodUnit(ctx, s.DB, foodID)
}
