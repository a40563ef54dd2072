package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/Amruta907/smart-grievance-system/internal/domain"
)

func TestGetSession_Missing_ReturnsNotFound(t *testing.T) {
	db := newTestDB(t)
	_, err := GetSession(context.Background(), db, "555")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpsertSession_InsertThenUpdate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	s := &domain.ConversationSession{
		ChatID:    "555",
		State:     domain.StateAwaitingLanguage,
		Language:  "en",
		DraftJSON: "{}",
	}
	if err := UpsertSession(ctx, db, s); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := GetSession(ctx, db, "555")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.State != domain.StateAwaitingLanguage || got.Language != "en" {
		t.Fatalf("unexpected session: %+v", got)
	}

	// Second write for the same chat id replaces all columns.
	s.State = domain.StateAwaitingCategory
	s.SetDraft(domain.Draft{CategoryID: 3, CategoryName: "Waste Management"})
	if err := UpsertSession(ctx, db, s); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err = GetSession(ctx, db, "555")
	if err != nil {
		t.Fatalf("re-get: %v", err)
	}
	if got.State != domain.StateAwaitingCategory {
		t.Fatalf("state not replaced: %+v", got)
	}
	if d := got.Draft(); d.CategoryID != 3 {
		t.Fatalf("draft not replaced: %+v", d)
	}
	if got.UpdatedAt.IsZero() {
		t.Fatalf("UpdatedAt not stamped")
	}
}

func TestUpsertSession_LastWriteWins(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	a := &domain.ConversationSession{ChatID: "777", State: domain.StateAwaitingDescription, Language: "hi", DraftJSON: "{}"}
	b := &domain.ConversationSession{ChatID: "777", State: domain.StateAwaitingLocation, Language: "hi", DraftJSON: "{}"}

	if err := UpsertSession(ctx, db, a); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := UpsertSession(ctx, db, b); err != nil {
		t.Fatalf("second write: %v", err)
	}

	got, err := GetSession(ctx, db, "777")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.State != domain.StateAwaitingLocation {
		t.Fatalf("expected later write to win, got state %q", got.State)
	}
}
