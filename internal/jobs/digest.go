package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/nutrilog/nutrilog/internal/domain"
	"github.com/nutrilog/nutrilog/internal/i18n"
	"github.com/nutrilog/nutrilog/internal/repo"
	"github.com/nutrilog/nutrilog/internal/services"
)

// DigestJob scans for users whose digest cursor is behind today and queues
// yesterday's summary into the outbox. The scan itself advances the cursor,
// so each user gets at most one digest per day no matter how many runners
// tick.
type DigestJob struct {
	DB      *gorm.DB
	Reports *services.ReportService

	// Batch caps users per tick.
	Batch int
}

// NewDigestJob constructs a DigestJob.
func NewDigestJob(db *gorm.DB, reports *services.ReportService, batch int) *DigestJob {
	return &DigestJob{DB: db, Reports: reports, Batch: batch}
}

// RunOnce performs one digest scan. Returns how many digests were queued.
func (j *DigestJob) RunOnce(ctx context.Context, now time.Time) (int, error) {
	render := func(user *domain.User, _ datatypes.Date, totals repo.DayTotals) string {
		return i18n.T(user.Locale, i18n.DigestBody,
			totals.Entries, totals.Calories, totals.Fat, totals.Carbs, totals.Protein)
	}
	return j.Reports.QueueDueDigests(ctx, now, render, j.Batch)
}

// Run scans on every tick until the context is cancelled.
func (j *DigestJob) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n, err := j.RunOnce(ctx, now.UTC()); err != nil {
				log.Error().Err(err).Msg("digest pass failed")
			} else if n > 0 {
				log.Info().Int("queued", n).Msg("digest pass")
			}
		}
	}
}
