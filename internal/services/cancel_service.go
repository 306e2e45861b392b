// Depth-1 undo. The newest command-log row names which log table the undo
// targets; that row and the matching newest log row are removed together in
// one transaction. Running it twice in a row does not reach further back:
// the second call finds no command-log row and reports ErrNothingToCancel.

package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/nutrilog/nutrilog/internal/domain"
	"github.com/nutrilog/nutrilog/internal/repo"
)

// CancelService reverts a user's most recent logged command.
type CancelService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// NewCancelService constructs a CancelService.
func NewCancelService(db *gorm.DB) *CancelService {
	return &CancelService{DB: db}
}

// Cancel undoes the user's newest recorded command and returns it so the
// caller can echo what was reverted.
func (s *CancelService) Cancel(ctx context.Context, user *domain.User) (*domain.CommandLog, error) {
	var cancelled *domain.CommandLog
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cl, err := repo.LastCommandLog(ctx, tx, user.ID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrNothingToCancel
			}
			return err
		}

		switch cl.CommandType {
		case domain.CommandFoodEntry:
			fl, err := repo.LastFoodLog(ctx, tx, user.ID)
			if err != nil {
				if errors.Is(err, repo.ErrNotFound) {
					return ErrNothingToCancel
				}
				return err
			}
			if err := tx.Delete(&domain.FoodLog{}, fl.ID).Error; err != nil {
				return err
			}
		case domain.CommandWeightEntry:
			wl, err := repo.LastWeightLog(ctx, tx, user.ID)
			if err != nil {
				if errors.Is(err, repo.ErrNotFound) {
					return ErrNothingToCancel
				}
				return err
			}
			if err := tx.Delete(&domain.WeightLog{}, wl.ID).Error; err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown command type %q", cl.CommandType)
		}

		if err := tx.Delete(&domain.CommandLog{}, cl.ID).Error; err != nil {
			return err
		}
		cancelled = cl
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}
