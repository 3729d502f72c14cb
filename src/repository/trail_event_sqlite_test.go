package repository_test

import (
	"context"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"trailexecutor/src/model"
	"trailexecutor/src/repository"
)

// helper to create a new in memory gorm DB and migrate schema
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in memory db: %v", err)
	}

	if err := db.AutoMigrate(&model.TrailEvent{}); err != nil {
		t.Fatalf("failed to automigrate: %v", err)
	}

	return db
}

func floatPtr(v float64) *float64 { return &v }
func boolPtr(v bool) *bool        { return &v }

// Test saving events through the repository and reading them back with the
// search filters the /events endpoint exposes.
func TestTrailEventRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	repo := repository.NewTrailEventRepositoryWithDB(db)

	base := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

	events := []model.TrailEvent{
		{
			Event:        model.EventSLModify,
			Ticket:       42,
			Symbol:       "EURUSD",
			Strategy:     "volume_atr",
			NewSL:        floatPtr(1.1005),
			LockedProfit: floatPtr(37.5),
			Success:      boolPtr(true),
			CreatedAt:    base,
		},
		{
			Event:     model.EventSLModify,
			Ticket:    42,
			Symbol:    "EURUSD",
			Strategy:  "volume_atr",
			NewSL:     floatPtr(1.1012),
			Success:   boolPtr(false),
			CreatedAt: base.Add(5 * time.Minute),
		},
		{
			Event:     model.EventSLRemovedLowProfit,
			Ticket:    77,
			Symbol:    "XAUUSD",
			Strategy:  "volume_atr",
			Profit:    floatPtr(-12.5),
			CreatedAt: base.Add(10 * time.Minute),
		},
	}

	for i := range events {
		if err := repo.Create(ctx, &events[i]); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	// no filter: newest first, all rows
	all, err := repo.Search(ctx, repository.TrailEventFilter{})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 events, got %d", len(all))
	}
	if all[0].Event != model.EventSLRemovedLowProfit {
		t.Fatalf("expected newest event first, got %s", all[0].Event)
	}

	// ticket filter
	byTicket, err := repo.Search(ctx, repository.TrailEventFilter{Ticket: 42})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(byTicket) != 2 {
		t.Fatalf("expected 2 events for ticket 42, got %d", len(byTicket))
	}
	for _, ev := range byTicket {
		if ev.Symbol != "EURUSD" {
			t.Fatalf("unexpected symbol %s for ticket 42", ev.Symbol)
		}
	}

	// since filter cuts off the first event
	since, err := repo.Search(ctx, repository.TrailEventFilter{Since: base.Add(time.Minute)})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(since) != 2 {
		t.Fatalf("expected 2 events after since, got %d", len(since))
	}

	// limit applies after ordering
	limited, err := repo.Search(ctx, repository.TrailEventFilter{Limit: 1})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(limited) != 1 || limited[0].Ticket != 77 {
		t.Fatalf("expected only the newest event, got %+v", limited)
	}

	// event filter with optional columns intact
	removals, err := repo.Search(ctx, repository.TrailEventFilter{Event: model.EventSLRemovedLowProfit})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(removals) != 1 {
		t.Fatalf("expected 1 removal event, got %d", len(removals))
	}
	if removals[0].Profit == nil || *removals[0].Profit != -12.5 {
		t.Fatalf("expected profit -12.5 on removal event, got %+v", removals[0].Profit)
	}
	if removals[0].NewSL != nil {
		t.Fatalf("removal event must not carry a new stop")
	}
}
