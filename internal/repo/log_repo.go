// Log repository: food consumption events, weight measurements, the per-user
// command history used for undo, and the per-day nutrient aggregation.

package repo

import (
	"context"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/nutrilog/nutrilog/internal/domain"
)

// CreateFoodLog persists one consumption event.
func CreateFoodLog(ctx context.Context, db *gorm.DB, fl *domain.FoodLog) error {
	return db.WithContext(ctx).Create(fl).Error
}

// ListDayFoodLogs returns a user's entries for one calendar date in
// chronological order.
func ListDayFoodLogs(ctx context.Context, db *gorm.DB, userID uint, date datatypes.Date) ([]domain.FoodLog, error) {
	var out []domain.FoodLog
	err := db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		Order("created_at").
		Find(&out).Error
	return out, err
}

// DayTotals holds summed nutrients for one user and calendar date.
type DayTotals struct {
	Entries  int64
	Calories float64
	Fat      float64
	Carbs    float64
	Protein  float64
}

// SumDayFoodLogs aggregates a user's nutrients for one calendar date.
// A day without entries yields zero totals and Entries == 0.
func SumDayFoodLogs(ctx context.Context, db *gorm.DB, userID uint, date datatypes.Date) (DayTotals, error) {
	var t DayTotals
	err := db.WithContext(ctx).
		Model(&domain.FoodLog{}).
		Select("COUNT(*) AS entries, COALESCE(SUM(calories),0) AS calories, COALESCE(SUM(fat),0) AS fat, COALESCE(SUM(carbs),0) AS carbs, COALESCE(SUM(protein),0) AS protein").
		Where("user_id = ? AND date = ?", userID, date).
		Scan(&t).Error
	return t, err
}

// LastFoodLog returns the user's newest entry by id.
func LastFoodLog(ctx context.Context, db *gorm.DB, userID uint) (*domain.FoodLog, error) {
	var fl domain.FoodLog
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		First(&fl).Error
	if err != nil {
		return nil, err
	}
	return &fl, nil
}

// CreateWeightLog persists one weight measurement.
func CreateWeightLog(ctx context.Context, db *gorm.DB, wl *domain.WeightLog) error {
	return db.WithContext(ctx).Create(wl).Error
}

// LastWeightLog returns the user's newest weight entry by id.
func LastWeightLog(ctx context.Context, db *gorm.DB, userID uint) (*domain.WeightLog, error) {
	var wl domain.WeightLog
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		First(&wl).Error
	if err != nil {
		return nil, err
	}
	return &wl, nil
}

// CreateCommandLog records a mutating command for later undo.
func CreateCommandLog(ctx context.Context, db *gorm.DB, userID uint, commandType, command string) error {
	cl := domain.CommandLog{UserID: userID, CommandType: commandType, Command: command}
	return db.WithContext(ctx).Create(&cl).Error
}

// LastCommandLog returns the user's newest recorded command by id.
func LastCommandLog(ctx context.Context, db *gorm.DB, userID uint) (*domain.CommandLog, error) {
	var cl domain.CommandLog
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		First(&cl).Error
	if err != nil {
		return nil, err
	}
	return &cl, nil
}
