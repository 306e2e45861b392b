// Food-request repository: the captured unresolved utterances awaiting
// administrator action.

package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/nutrilog/nutrilog/internal/domain"
)

// CreateFoodRequest captures a verbatim unresolved utterance for userID.
func CreateFoodRequest(ctx context.Context, db *gorm.DB, userID uint, request string) (*domain.FoodRequest, error) {
	fr := domain.FoodRequest{UserID: userID, Request: request}
	if err := db.WithContext(ctx).Create(&fr).Error; err != nil {
		return nil, err
	}
	return &fr, nil
}

// GetFoodRequest fetches a pending request by id, preloading the requesting
// user so a replay can run on their behalf.
func GetFoodRequest(ctx context.Context, db *gorm.DB, id uint) (*domain.FoodRequest, error) {
	var fr domain.FoodRequest
	err := db.WithContext(ctx).Preload("User").First(&fr, id).Error
	if err != nil {
		return nil, err
	}
	return &fr, nil
}
