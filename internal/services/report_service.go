// Daily aggregation: sums a user's food logs for one calendar date and
// relates them to the profile targets. Used synchronously after each logged
// entry and by the digest scan that queues yesterday's summary into the
// delivery outbox. Empty days produce no digest.

package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/nutrilog/nutrilog/internal/domain"
	"github.com/nutrilog/nutrilog/internal/repo"
)

// DigestTTL bounds how long a queued digest stays deliverable before the
// purge drops it.
const DigestTTL = 24 * time.Hour

// ReportService aggregates logs into day reports and digests.
type ReportService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// NewReportService constructs a ReportService.
func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{DB: db}
}

// Remainder is a day's consumption next to the profile targets. Left values
// are clamped at zero per nutrient once a target is exceeded.
type Remainder struct {
	Totals  repo.DayTotals
	Targets domain.UserProfile

	CaloriesLeft float64
	FatLeft      float64
	CarbsLeft    float64
	ProteinLeft  float64
}

// DayTotals sums the user's food logs for the date.
func (s *ReportService) DayTotals(ctx context.Context, user *domain.User, date datatypes.Date) (repo.DayTotals, error) {
	return repo.SumDayFoodLogs(ctx, s.DB, user.ID, date)
}

// DayLogs lists the user's food logs for the date in entry order.
func (s *ReportService) DayLogs(ctx context.Context, user *domain.User, date datatypes.Date) ([]domain.FoodLog, error) {
	return repo.ListDayFoodLogs(ctx, s.DB, user.ID, date)
}

// Remainder computes the day's totals and how much of each profile target is
// left, clamped at zero.
func (s *ReportService) Remainder(ctx context.Context, user *domain.User, date datatypes.Date) (*Remainder, error) {
	totals, err := repo.SumDayFoodLogs(ctx, s.DB, user.ID, date)
	if err != nil {
		return nil, fmt.Errorf("sum day: %w", err)
	}
	profile, err := repo.GetProfile(ctx, s.DB, user.ID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return &Remainder{
		Totals:       totals,
		Targets:      *profile,
		CaloriesLeft: clampZero(profile.DailyCalories - totals.Calories),
		FatLeft:      clampZero(profile.DailyFat - totals.Fat),
		CarbsLeft:    clampZero(profile.DailyCarbs - totals.Carbs),
		ProteinLeft:  clampZero(profile.DailyProtein - totals.Protein),
	}, nil
}

// DigestRender turns a day's totals into the outbox message body. Rendering
// is injected so the bot layer owns wording and localization.
type DigestRender func(user *domain.User, date datatypes.Date, totals repo.DayTotals) string

// QueueDueDigests claims every user whose digest cursor is behind today,
// advances the cursor and queues yesterday's summary as a pending message.
// Users with no logs yesterday get the cursor advanced but no message.
// Returns how many messages were queued.
func (s *ReportService) QueueDueDigests(ctx context.Context, now time.Time, render DigestRender, limit int) (int, error) {
	today := domain.DateOf(now)
	due, err := repo.ClaimDueDigests(ctx, s.DB, today, limit)
	if err != nil {
		return 0, fmt.Errorf("claim digests: %w", err)
	}

	yesterday := domain.DateOf(now.AddDate(0, 0, -1))
	queued := 0
	for _, mark := range due {
		totals, err := repo.SumDayFoodLogs(ctx, s.DB, mark.UserID, yesterday)
		if err != nil {
			return queued, fmt.Errorf("sum digest day: %w", err)
		}
		if totals.Entries == 0 {
			continue
		}
		var user domain.User
		if err := s.DB.WithContext(ctx).First(&user, mark.UserID).Error; err != nil {
			return queued, fmt.Errorf("load user: %w", err)
		}
		msg := render(&user, yesterday, totals)
		if err := repo.EnqueueMessage(ctx, s.DB, mark.UserID, msg, now, now.Add(DigestTTL)); err != nil {
			return queued, fmt.Errorf("queue digest: %w", err)
		}
		queued++
	}
	return queued, nil
}

func clampZero(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
