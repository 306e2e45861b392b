// The resolution engine: the pipeline that turns a
// parsed (food, qty, unit) triple into a persisted FoodLog. Resolution walks
// name → food, name → unit, (food, unit) → gram equivalence, then multiplies
// the food's per-gram nutrient density by qty × grams. Values are stored
// unrounded; rounding is a display concern.
//
// Each stage failure maps to its own sentinel (ErrFoodNotFound,
// ErrUnitNotFound, ErrUnitNotDefined) so the caller can render stage-specific
// guidance. The engine itself never records a FoodRequest; that is
// EntryService's job.

package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/nutrilog/nutrilog/internal/domain"
	"github.com/nutrilog/nutrilog/internal/repo"
)

// LogService resolves food entries against the conversion table and persists
// the resulting log rows.
type LogService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// NewLogService constructs a LogService.
func NewLogService(db *gorm.DB) *LogService {
	return &LogService{DB: db}
}

// Resolved is the outcome of a successful resolution: the persisted log row
// plus the catalog rows it was computed from, for confirmation rendering.
type Resolved struct {
	Log   *domain.FoodLog
	Food  *domain.Food
	Unit  *domain.Unit
	Grams float64
}

// LogFood resolves and persists one food entry for the user on the given
// date. An empty unitName selects the food's default unit. The log row and
// the command-log row used by undo are written in one transaction; on any
// failure nothing is persisted.
func (s *LogService) LogFood(ctx context.Context, locale string, user *domain.User, foodName, unitName string, qty float64, date datatypes.Date, rawCommand string) (*Resolved, error) {
	food, err := repo.GetFoodByName(ctx, s.DB, locale, foodName)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrFoodNotFound
		}
		return nil, fmt.Errorf("resolve food: %w", err)
	}

	var fu *domain.FoodUnit
	var unit *domain.Unit
	if unitName == "" {
		fu, err = repo.DefaultFoodUnit(ctx, s.DB, food.ID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return nil, ErrUnitNotDefined
			}
			return nil, fmt.Errorf("default unit: %w", err)
		}
		unit = &domain.Unit{ID: fu.UnitID}
	} else {
		unit, err = repo.GetUnitByName(ctx, s.DB, locale, unitName)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return nil, ErrUnitNotFound
			}
			return nil, fmt.Errorf("resolve unit: %w", err)
		}
		fu, err = repo.GetFoodUnit(ctx, s.DB, food.ID, unit.ID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return nil, ErrUnitNotDefined
			}
			return nil, fmt.Errorf("food unit: %w", err)
		}
	}

	grams := qty * fu.Grams
	fl := domain.FoodLog{
		UserID:   user.ID,
		FoodID:   food.ID,
		UnitID:   unit.ID,
		Date:     date,
		Qty:      qty,
		Calories: food.Calories * grams,
		Fat:      food.Fat * grams,
		Carbs:    food.Carbs * grams,
		Protein:  food.Protein * grams,
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repo.CreateFoodLog(ctx, tx, &fl); err != nil {
			return err
		}
		return repo.CreateCommandLog(ctx, tx, user.ID, domain.CommandFoodEntry, rawCommand)
	})
	if err != nil {
		return nil, fmt.Errorf("persist food log: %w", err)
	}
	return &Resolved{Log: &fl, Food: food, Unit: unit, Grams: fu.Grams}, nil
}
