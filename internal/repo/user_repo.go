// User repository: account rows keyed by the external chat identifier plus
// their nutrient-target profiles.

package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/nutrilog/nutrilog/internal/domain"
)

// GetUserByTelegramID fetches a user by the external chat identifier,
// preloading the profile.
func GetUserByTelegramID(ctx context.Context, db *gorm.DB, telegramID int64) (*domain.User, error) {
	var u domain.User
	err := db.WithContext(ctx).
		Preload("Profile").
		Where("telegram_id = ?", telegramID).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUserWithProfile inserts the user and their profile atomically.
func CreateUserWithProfile(ctx context.Context, db *gorm.DB, telegramID int64, name, locale string, targets domain.UserProfile) (*domain.User, error) {
	u := domain.User{TelegramID: telegramID, Name: name, Locale: locale}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&u).Error; err != nil {
			return err
		}
		p := targets
		p.ID = 0
		p.UserID = u.ID
		if err := tx.Create(&p).Error; err != nil {
			return err
		}
		u.Profile = &p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetProfile fetches the nutrient targets for a user.
func GetProfile(ctx context.Context, db *gorm.DB, userID uint) (*domain.UserProfile, error) {
	var p domain.UserProfile
	err := db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}
