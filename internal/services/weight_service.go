// Body-weight measurements. Each accepted value writes the weight row and
// the command-log row used by undo in one transaction.

package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/nutrilog/nutrilog/internal/domain"
	"github.com/nutrilog/nutrilog/internal/repo"
)

// WeightService records body-weight measurements.
type WeightService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// NewWeightService constructs a WeightService.
func NewWeightService(db *gorm.DB) *WeightService {
	return &WeightService{DB: db}
}

// LogWeight records one measurement. Non-positive values are rejected with
// ErrInvalidCommand.
func (s *WeightService) LogWeight(ctx context.Context, user *domain.User, weight float64, rawCommand string) (*domain.WeightLog, error) {
	if weight <= 0 {
		return nil, ErrInvalidCommand
	}
	wl := domain.WeightLog{UserID: user.ID, Weight: weight}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repo.CreateWeightLog(ctx, tx, &wl); err != nil {
			return err
		}
		return repo.CreateCommandLog(ctx, tx, user.ID, domain.CommandWeightEntry, rawCommand)
	})
	if err != nil {
		return nil, fmt.Errorf("persist weight log: %w", err)
	}
	return &wl, nil
}

// LastWeight returns the user's newest measurement.
func (s *WeightService) LastWeight(ctx context.Context, user *domain.User) (*domain.WeightLog, error) {
	return repo.LastWeightLog(ctx, s.DB, user.ID)
}
