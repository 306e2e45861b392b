package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nutrilog/nutrilog/internal/domain"
)

func TestClaimDueMessages_LeaseExcludesSecondClaim(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	u := seedUser(t, db, 200)

	now := time.Now().UTC()
	if err := EnqueueMessage(ctx, db, u.ID, "hello", now.Add(-time.Minute), now.Add(time.Hour)); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	claimed, err := ClaimDueMessages(ctx, db, now, time.Minute, 10)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if len(claimed) != 1 || claimed[0].Message != "hello" {
		t.Fatalf("expected one claimed message, got %+v", claimed)
	}

	// A second runner inside the lease window sees nothing.
	again, err := ClaimDueMessages(ctx, db, now.Add(30*time.Second), time.Minute, 10)
	if err != nil {
		t.Fatalf("second claim: %v", err)
	}
	if len(again) != 0 {
		t.Fatalf("leased row must not be re-claimed, got %d rows", len(again))
	}

	// After the lease lapses the row is claimable again.
	later, err := ClaimDueMessages(ctx, db, now.Add(2*time.Minute), time.Minute, 10)
	if err != nil {
		t.Fatalf("third claim: %v", err)
	}
	if len(later) != 1 {
		t.Fatalf("expired lease must release the row, got %d rows", len(later))
	}
}

func TestClaimDueMessages_RespectsSendAtAndLimit(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	u := seedUser(t, db, 201)

	now := time.Now().UTC()
	for i, sendAt := range []time.Time{
		now.Add(-3 * time.Minute),
		now.Add(-2 * time.Minute),
		now.Add(-1 * time.Minute),
		now.Add(time.Hour), // not due yet
	} {
		msg := []string{"a", "b", "c", "future"}[i]
		if err := EnqueueMessage(ctx, db, u.ID, msg, sendAt, now.Add(2*time.Hour)); err != nil {
			t.Fatalf("enqueue %d: %v", i, err)
		}
	}

	claimed, err := ClaimDueMessages(ctx, db, now, time.Minute, 2)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if len(claimed) != 2 {
		t.Fatalf("limit 2 expected, got %d", len(claimed))
	}
	for _, pm := range claimed {
		if pm.Message == "future" {
			t.Fatalf("message before its send_at was claimed")
		}
	}
}

func TestPurgeExpiredMessages(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	u := seedUser(t, db, 202)

	now := time.Now().UTC()
	if err := EnqueueMessage(ctx, db, u.ID, "stale", now.Add(-2*time.Hour), now.Add(-time.Hour)); err != nil {
		t.Fatalf("enqueue stale: %v", err)
	}
	if err := EnqueueMessage(ctx, db, u.ID, "fresh", now, now.Add(time.Hour)); err != nil {
		t.Fatalf("enqueue fresh: %v", err)
	}

	if err := PurgeExpiredMessages(ctx, db, now); err != nil {
		t.Fatalf("purge: %v", err)
	}

	var left []domain.PendingMessage
	if err := db.Find(&left).Error; err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(left) != 1 || left[0].Message != "fresh" {
		t.Fatalf("expected only the fresh row, got %+v", left)
	}
}

func TestDeleteMessage(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	u := seedUser(t, db, 203)

	now := time.Now().UTC()
	if err := EnqueueMessage(ctx, db, u.ID, "bye", now, now.Add(time.Hour)); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	claimed, err := ClaimDueMessages(ctx, db, now, time.Minute, 1)
	if err != nil || len(claimed) != 1 {
		t.Fatalf("claim: %v (%d rows)", err, len(claimed))
	}
	if err := DeleteMessage(ctx, db, claimed[0].ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var n int64
	db.Model(&domain.PendingMessage{}).Count(&n)
	if n != 0 {
		t.Fatalf("expected empty outbox, got %d rows", n)
	}
}

func TestClaimDueDigests_AdvancesCursorOnce(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	u := seedUser(t, db, 204)

	yesterday := domain.DateOf(time.Now().UTC().AddDate(0, 0, -1))
	today := domain.Today()

	if err := EnsureDigestMark(ctx, db, u.ID, yesterday); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	// Idempotent: a second ensure must not reset the cursor.
	if err := EnsureDigestMark(ctx, db, u.ID, today); err != nil {
		t.Fatalf("ensure again: %v", err)
	}

	due, err := ClaimDueDigests(ctx, db, today, 10)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if len(due) != 1 || due[0].UserID != u.ID {
		t.Fatalf("expected one due user, got %+v", due)
	}

	// The cursor advanced, so the same day yields nothing more.
	again, err := ClaimDueDigests(ctx, db, today, 10)
	if err != nil {
		t.Fatalf("second claim: %v", err)
	}
	if len(again) != 0 {
		t.Fatalf("digest claimed twice for one day: %+v", again)
	}
}

func TestGetFoodRequest_PreloadsUser(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	u := seedUser(t, db, 205)

	fr, err := CreateFoodRequest(ctx, db, u.ID, "Pho 1 bowl")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := GetFoodRequest(ctx, db, fr.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Request != "Pho 1 bowl" || got.User.TelegramID != 205 {
		t.Fatalf("unexpected request: %+v", got)
	}

	if _, err := GetFoodRequest(ctx, db, 9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateUserWithProfile(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	u, err := CreateUserWithProfile(ctx, db, 300, "Alice", "ru", domain.UserProfile{
		DailyCalories: 1538, DailyFat: 44, DailyCarbs: 205, DailyProtein: 94,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.Profile == nil || u.Profile.DailyCalories != 1538 {
		t.Fatalf("profile not attached: %+v", u.Profile)
	}

	got, err := GetUserByTelegramID(ctx, db, 300)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Profile == nil || got.Profile.DailyProtein != 94 {
		t.Fatalf("profile not preloaded: %+v", got.Profile)
	}
	if got.Locale != "ru" || got.Name != "Alice" {
		t.Fatalf("unexpected user attributes: %+v", got)
	}

	if _, err := GetUserByTelegramID(ctx, db, 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
