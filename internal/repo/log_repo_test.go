package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/datatypes"

	"github.com/nutrilog/nutrilog/internal/domain"
)

func TestSumDayFoodLogs(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	u := seedUser(t, db, 100)

	f, err := CreateFoodWithName(ctx, db, "en", "Chicken soup",
		domain.Food{Calories: 0.36, Fat: 0.012, Carbs: 0.035, Protein: 0.025})
	if err != nil {
		t.Fatalf("create food: %v", err)
	}
	gram, _ := GramUnit(ctx, db)

	today := domain.Today()
	yesterday := domain.DateOf(time.Now().UTC().AddDate(0, 0, -1))

	logs := []domain.FoodLog{
		{UserID: u.ID, FoodID: f.ID, UnitID: gram.ID, Date: today, Qty: 150, Calories: 54, Fat: 1.8, Carbs: 5.25, Protein: 3.75},
		{UserID: u.ID, FoodID: f.ID, UnitID: gram.ID, Date: today, Qty: 100, Calories: 36, Fat: 1.2, Carbs: 3.5, Protein: 2.5},
		{UserID: u.ID, FoodID: f.ID, UnitID: gram.ID, Date: yesterday, Qty: 200, Calories: 72, Fat: 2.4, Carbs: 7, Protein: 5},
	}
	for i := range logs {
		if err := CreateFoodLog(ctx, db, &logs[i]); err != nil {
			t.Fatalf("log %d: %v", i, err)
		}
	}

	got, err := SumDayFoodLogs(ctx, db, u.ID, today)
	if err != nil {
		t.Fatalf("sum: %v", err)
	}
	if got.Entries != 2 {
		t.Fatalf("expected 2 entries, got %d", got.Entries)
	}
	if got.Calories != 90 || got.Fat != 3 || got.Carbs != 8.75 || got.Protein != 6.25 {
		t.Fatalf("unexpected totals: %+v", got)
	}
}

func TestSumDayFoodLogs_EmptyDay(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db, 101)

	got, err := SumDayFoodLogs(context.Background(), db, u.ID, domain.Today())
	if err != nil {
		t.Fatalf("sum: %v", err)
	}
	if got.Entries != 0 || got.Calories != 0 {
		t.Fatalf("expected zero totals, got %+v", got)
	}
}

func TestListDayFoodLogs_OrderedByCreation(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	u := seedUser(t, db, 102)

	f, _ := CreateFoodWithName(ctx, db, "en", "Apple", domain.Food{Calories: 0.52})
	gram, _ := GramUnit(ctx, db)
	today := domain.Today()

	for _, qty := range []float64{50, 120, 80} {
		fl := domain.FoodLog{UserID: u.ID, FoodID: f.ID, UnitID: gram.ID, Date: today, Qty: qty}
		if err := CreateFoodLog(ctx, db, &fl); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	got, err := ListDayFoodLogs(ctx, db, u.ID, today)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 logs, got %d", len(got))
	}
	want := []float64{50, 120, 80}
	for i, fl := range got {
		if fl.Qty != want[i] {
			t.Fatalf("log %d out of order: qty %v want %v", i, fl.Qty, want[i])
		}
	}
}

func TestLastFoodLog(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	u := seedUser(t, db, 103)

	if _, err := LastFoodLog(ctx, db, u.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on empty log, got %v", err)
	}

	f, _ := CreateFoodWithName(ctx, db, "en", "Banana", domain.Food{Calories: 0.89})
	gram, _ := GramUnit(ctx, db)
	today := domain.Today()

	first := domain.FoodLog{UserID: u.ID, FoodID: f.ID, UnitID: gram.ID, Date: today, Qty: 100}
	second := domain.FoodLog{UserID: u.ID, FoodID: f.ID, UnitID: gram.ID, Date: today, Qty: 140}
	if err := CreateFoodLog(ctx, db, &first); err != nil {
		t.Fatalf("first: %v", err)
	}
	if err := CreateFoodLog(ctx, db, &second); err != nil {
		t.Fatalf("second: %v", err)
	}

	got, err := LastFoodLog(ctx, db, u.ID)
	if err != nil {
		t.Fatalf("last: %v", err)
	}
	if got.ID != second.ID {
		t.Fatalf("expected the latest log %d, got %d", second.ID, got.ID)
	}
}

func TestLastWeightLog(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	u := seedUser(t, db, 104)

	for _, w := range []float64{82.5, 82.1} {
		wl := domain.WeightLog{UserID: u.ID, Weight: w}
		if err := CreateWeightLog(ctx, db, &wl); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	got, err := LastWeightLog(ctx, db, u.ID)
	if err != nil {
		t.Fatalf("last: %v", err)
	}
	if got.Weight != 82.1 {
		t.Fatalf("expected latest weight 82.1, got %v", got.Weight)
	}
}

func TestLastCommandLog(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	u := seedUser(t, db, 105)

	if _, err := LastCommandLog(ctx, db, u.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := CreateCommandLog(ctx, db, u.ID, domain.CommandFoodEntry, "Apple 100 g"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := CreateCommandLog(ctx, db, u.ID, domain.CommandWeightEntry, "82,5"); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := LastCommandLog(ctx, db, u.ID)
	if err != nil {
		t.Fatalf("last: %v", err)
	}
	if got.CommandType != domain.CommandWeightEntry || got.Command != "82,5" {
		t.Fatalf("unexpected last command: %+v", got)
	}
}

func TestDateOf_BucketsToMidnightUTC(t *testing.T) {
	at := time.Date(2024, 3, 9, 23, 59, 58, 0, time.UTC)
	d := domain.DateOf(at)
	if time.Time(d) != time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC) {
		t.Fatalf("unexpected date bucket: %v", time.Time(d))
	}
	var _ datatypes.Date = d
}
