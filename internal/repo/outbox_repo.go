// Outbox repository: queued messages awaiting delivery and the per-user
// digest cursor. The claim step stamps locked_until inside a transaction so
// two concurrent job runners never both pick up the same row; rows become
// re-claimable only after the stamp passes, and are deleted after delivery.

package repo

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/nutrilog/nutrilog/internal/domain"
)

// EnqueueMessage queues a message for delivery to userID no earlier than
// sendAt. Messages still undelivered at expiresAt are dropped by the purge.
func EnqueueMessage(ctx context.Context, db *gorm.DB, userID uint, message string, sendAt, expiresAt time.Time) error {
	pm := domain.PendingMessage{
		UserID:      userID,
		Message:     message,
		SendAt:      sendAt,
		ExpiresAt:   expiresAt,
		LockedUntil: sendAt,
	}
	return db.WithContext(ctx).Create(&pm).Error
}

// PurgeExpiredMessages deletes outbox rows whose expiry has passed.
func PurgeExpiredMessages(ctx context.Context, db *gorm.DB, now time.Time) error {
	return db.WithContext(ctx).
		Where("expires_at < ?", now).
		Delete(&domain.PendingMessage{}).Error
}

// ClaimDueMessages selects up to limit deliverable rows (send_at and any
// previous lock both in the past) and advances their locked_until stamp by
// lease, all inside one transaction. The returned rows are exclusively the
// caller's until the lease expires.
func ClaimDueMessages(ctx context.Context, db *gorm.DB, now time.Time, lease time.Duration, limit int) ([]domain.PendingMessage, error) {
	var claimed []domain.PendingMessage
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("send_at <= ? AND locked_until <= ?", now, now).
			Order("created_at").
			Limit(limit).
			Find(&claimed).Error; err != nil {
			return err
		}
		until := now.Add(lease)
		for i := range claimed {
			claimed[i].LockedUntil = until
			if err := tx.Model(&domain.PendingMessage{}).
				Where("id = ?", claimed[i].ID).
				Update("locked_until", until).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return claimed, nil
}

// DeleteMessage removes a delivered outbox row.
func DeleteMessage(ctx context.Context, db *gorm.DB, id uint) error {
	return db.WithContext(ctx).Delete(&domain.PendingMessage{}, id).Error
}

// EnsureDigestMark creates the digest cursor for a user if absent, starting
// at the given date.
func EnsureDigestMark(ctx context.Context, db *gorm.DB, userID uint, date datatypes.Date) error {
	var n int64
	if err := db.WithContext(ctx).
		Model(&domain.DigestMark{}).
		Where("user_id = ?", userID).
		Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	mark := domain.DigestMark{UserID: userID, LastDigestDate: date}
	return db.WithContext(ctx).Create(&mark).Error
}

// ClaimDueDigests selects up to limit users whose digest cursor is before
// today and advances the cursor to today in the same transaction, claiming
// them for this runner.
func ClaimDueDigests(ctx context.Context, db *gorm.DB, today datatypes.Date, limit int) ([]domain.DigestMark, error) {
	var due []domain.DigestMark
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("last_digest_date < ?", today).
			Order("last_digest_date").
			Limit(limit).
			Find(&due).Error; err != nil {
			return err
		}
		for i := range due {
			if err := tx.Model(&domain.DigestMark{}).
				Where("id = ?", due[i].ID).
				Update("last_digest_date", today).Error; err != nil {
				return err
			}
			due[i].LastDigestDate = today
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return due, nil
}
