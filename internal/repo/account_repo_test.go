package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/Amruta907/smart-grievance-system/internal/domain"
)

func strptr(s string) *string { return &s }

func TestCreateAndFindAccountByChatID(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	a := &domain.Account{
		ID:             uuid.NewString(),
		Name:           "Telegram user 555",
		Email:          "tg555@grievance.local",
		PasswordHash:   "x",
		TelegramChatID: strptr("555"),
	}
	if err := CreateAccount(ctx, db, a); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := FindAccountByChatID(ctx, db, "555")
	if err != nil {
		t.Fatalf("find by chat id: %v", err)
	}
	if got.ID != a.ID {
		t.Fatalf("wrong account: %+v", got)
	}

	if _, err := FindAccountByChatID(ctx, db, "999"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unbound chat, got %v", err)
	}
}

func TestCreateAccount_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	mk := func(chat string) *domain.Account {
		return &domain.Account{
			ID:             uuid.NewString(),
			Name:           "dup",
			Email:          "tg555@grievance.local",
			PasswordHash:   "x",
			TelegramChatID: strptr(chat),
		}
	}
	if err := CreateAccount(ctx, db, mk("555")); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if err := CreateAccount(ctx, db, mk("556")); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate on email collision, got %v", err)
	}
}

func TestBindChatID(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	a := &domain.Account{ID: uuid.NewString(), Name: "n", Email: "a@example.com", PasswordHash: "x"}
	if err := CreateAccount(ctx, db, a); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := BindChatID(ctx, db, a.ID, "1234"); err != nil {
		t.Fatalf("bind: %v", err)
	}
	got, err := FindAccountByChatID(ctx, db, "1234")
	if err != nil || got.ID != a.ID {
		t.Fatalf("binding not visible: %v %+v", err, got)
	}

	// Binding the same chat id to a second account collides.
	b := &domain.Account{ID: uuid.NewString(), Name: "n2", Email: "b@example.com", PasswordHash: "x"}
	if err := CreateAccount(ctx, db, b); err != nil {
		t.Fatalf("create b: %v", err)
	}
	if err := BindChatID(ctx, db, b.ID, "1234"); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate on binding collision, got %v", err)
	}

	// Missing account row.
	if err := BindChatID(ctx, db, uuid.NewString(), "9999"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing account, got %v", err)
	}
}

func TestFindAccountByEmail(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	a := &domain.Account{ID: uuid.NewString(), Name: "n", Email: "tg42@grievance.local", PasswordHash: "x"}
	if err := CreateAccount(ctx, db, a); err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := FindAccountByEmail(ctx, db, "tg42@grievance.local")
	if err != nil || got.ID != a.ID {
		t.Fatalf("find by email: %v %+v", err, got)
	}
	if _, err := FindAccountByEmail(ctx, db, "nobody@grievance.local"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
