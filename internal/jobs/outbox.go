// Package jobs runs the periodic background workers: outbox delivery and
// the daily digest scan. Both are plain tickers driven from main; each tick
// is guarded so overlapping runs inside one process cannot double-deliver,
// and the claim transactions make concurrent processes safe too.
package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/nutrilog/nutrilog/internal/domain"
	"github.com/nutrilog/nutrilog/internal/repo"
)

// Sender delivers one rendered message to a chat-platform recipient.
type Sender interface {
	Send(ctx context.Context, recipientID int64, text string) error
}

// SenderFunc adapts a function to the Sender interface.
type SenderFunc func(ctx context.Context, recipientID int64, text string) error

// Send implements Sender.
func (f SenderFunc) Send(ctx context.Context, recipientID int64, text string) error {
	return f(ctx, recipientID, text)
}

// OutboxJob drains due pending messages. Claimed rows are leased via their
// locked_until stamp; delivery happens after the claim transaction commits,
// and only a successful send deletes the row. A failed send leaves the row
// leased, so it retries after the lease lapses.
type OutboxJob struct {
	DB     *gorm.DB
	Sender Sender

	// Lease is how long a claimed row stays invisible to other runners.
	Lease time.Duration
	// Batch caps rows per tick.
	Batch int

	mu sync.Mutex
}

// NewOutboxJob constructs an OutboxJob.
func NewOutboxJob(db *gorm.DB, sender Sender, lease time.Duration, batch int) *OutboxJob {
	return &OutboxJob{DB: db, Sender: sender, Lease: lease, Batch: batch}
}

// RunOnce performs one delivery pass: purge expired rows, claim due ones,
// send, delete delivered. Returns how many messages were delivered.
func (j *OutboxJob) RunOnce(ctx context.Context, now time.Time) (int, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if err := repo.PurgeExpiredMessages(ctx, j.DB, now); err != nil {
		return 0, err
	}
	claimed, err := repo.ClaimDueMessages(ctx, j.DB, now, j.Lease, j.Batch)
	if err != nil {
		return 0, err
	}

	delivered := 0
	for _, pm := range claimed {
		var user domain.User
		if err := j.DB.WithContext(ctx).First(&user, pm.UserID).Error; err != nil {
			log.Error().Err(err).Uint("message_id", pm.ID).Msg("outbox: recipient lookup failed")
			continue
		}
		if err := j.Sender.Send(ctx, user.TelegramID, pm.Message); err != nil {
			// Keep the row; it becomes claimable again after the lease.
			log.Warn().Err(err).Uint("message_id", pm.ID).Msg("outbox: send failed")
			continue
		}
		if err := repo.DeleteMessage(ctx, j.DB, pm.ID); err != nil {
			log.Error().Err(err).Uint("message_id", pm.ID).Msg("outbox: delete failed")
			continue
		}
		delivered++
	}
	return delivered, nil
}

// Run delivers on every tick until the context is cancelled.
func (j *OutboxJob) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n, err := j.RunOnce(ctx, now.UTC()); err != nil {
				log.Error().Err(err).Msg("outbox pass failed")
			} else if n > 0 {
				log.Info().Int("delivered", n).Msg("outbox pass")
			}
		}
	}
}
