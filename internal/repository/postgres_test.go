package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"concierge/internal/model"

	"github.com/google/uuid"
)

// These tests need a disposable database: TEST_DATABASE_URL=postgres://... go test ./internal/repository
func newTestRepository(t *testing.T) *InteractionRepository {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	repo, err := NewInteractionRepository(dsn, 2, 1)
	if err != nil {
		t.Fatalf("NewInteractionRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestInteractionRepository_Ping(t *testing.T) {
	repo := newTestRepository(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := repo.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	repo.Close()
	if err := repo.Ping(ctx); err == nil {
		t.Error("Ping after Close should fail")
	}
}

func TestInteractionRepository_LogQuery(t *testing.T) {
	repo := newTestRepository(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sessionID := uuid.NewString()
	entries := []model.QueryLog{
		{SessionID: sessionID, Query: "trilocale", Narration: "Ecco", ListingIDs: model.JSONArray{"1", "2"}, ResponseTimeMs: 120},
		{SessionID: sessionID, Query: "errore", Narration: "problema", Failed: true, ResponseTimeMs: 30},
	}
	for _, e := range entries {
		if err := repo.LogQuery(ctx, e); err != nil {
			t.Fatalf("LogQuery: %v", err)
		}
	}

	logs, err := repo.RecentQueries(ctx, sessionID, 10)
	if err != nil {
		t.Fatalf("RecentQueries: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("RecentQueries len = %d, want 2", len(logs))
	}
	if logs[0].Query != "errore" || !logs[0].Failed || len(logs[0].ListingIDs) != 0 {
		t.Errorf("Unexpected newest entry %+v", logs[0])
	}
	if len(logs[1].ListingIDs) != 2 || logs[1].ListingIDs[1] != "2" {
		t.Errorf("ListingIDs = %v", logs[1].ListingIDs)
	}
}

func TestInteractionRepository_LogAction(t *testing.T) {
	repo := newTestRepository(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	listingID := uuid.NewString()
	for i := 0; i < 3; i++ {
		if err := repo.LogAction(ctx, model.ActionLog{SessionID: "s", ListingID: listingID, Action: model.ActionBooking}); err != nil {
			t.Fatalf("LogAction: %v", err)
		}
	}

	counts, err := repo.ActionCounts(ctx, 1000)
	if err != nil {
		t.Fatalf("ActionCounts: %v", err)
	}
	for _, c := range counts {
		if c.ListingID == listingID && c.Action == model.ActionBooking {
			if c.Count != 3 {
				t.Errorf("Count = %d, want 3", c.Count)
			}
			return
		}
	}
	t.Errorf("No count found for listing %s", listingID)
}
