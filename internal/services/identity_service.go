// Package services – IdentityService
//
// This file implements the identity resolver: the component that maps a
// Telegram chat id to an owned account, provisioning one when absent. The
// lookup order is (1) exact chat-id binding, (2) the deterministic
// placeholder identity derived from the chat id, with the binding
// backfilled, (3) a freshly provisioned account with a generated credential.
//
// Concurrency: the unique indexes on the chat-id binding and on the
// placeholder email make simultaneous resolution attempts for the same chat
// id converge on one row. Whichever insert loses re-reads and adopts the
// winner, so a chat id maps to at most one account.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Amruta907/smart-grievance-system/internal/domain"
	"github.com/Amruta907/smart-grievance-system/internal/repo"
	"github.com/Amruta907/smart-grievance-system/internal/sysutil"
)

// PlaceholderDomain is the mail domain of auto-provisioned account keys.
// Addresses under it are never routable; they exist only as deterministic
// unique keys.
const PlaceholderDomain = "grievance.local"

// PlaceholderEmail derives the deterministic account key for a chat id.
// Accounts provisioned before the chat-id binding column existed carry this
// address, which is how step (2) of the lookup recovers them.
func PlaceholderEmail(chatID string) string {
	return fmt.Sprintf("tg%s@%s", chatID, PlaceholderDomain)
}

// IdentityService resolves Telegram chat identities to accounts.
type IdentityService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// NewIdentityService constructs an IdentityService.
func NewIdentityService(db *gorm.DB) *IdentityService {
	return &IdentityService{DB: db}
}

// Resolve maps chatID to its account, auto-provisioning when absent.
// nameHint is the display name assembled from chat metadata; when empty a
// chat-derived fallback is used. Resolve is safe to call repeatedly and
// concurrently for the same chat id: it always converges on one account.
func (s *IdentityService) Resolve(ctx context.Context, chatID, nameHint string) (*domain.Account, error) {
	chatID = strings.TrimSpace(chatID)
	if chatID == "" {
		return nil, ErrNoAccount
	}

	// (1) Exact binding.
	if acc, err := repo.FindAccountByChatID(ctx, s.DB, chatID); err == nil {
		return acc, nil
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	// (2) Placeholder identity; backfill the binding.
	email := PlaceholderEmail(chatID)
	if acc, err := repo.FindAccountByEmail(ctx, s.DB, email); err == nil {
		switch berr := repo.BindChatID(ctx, s.DB, acc.ID, chatID); {
		case berr == nil:
			acc.TelegramChatID = &chatID
			return acc, nil
		case errors.Is(berr, repo.ErrDuplicate):
			// A concurrent resolver bound the chat id first; adopt its row.
			return repo.FindAccountByChatID(ctx, s.DB, chatID)
		default:
			return nil, berr
		}
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	// (3) Provision. The credential is random and bcrypt-hashed so the
	// account cannot be logged into until the citizen claims it.
	hash, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	acc := &domain.Account{
		ID:             uuid.NewString(),
		Name:           sysutil.FirstNonEmpty(nameHint, "Telegram user "+chatID),
		Email:          email,
		PasswordHash:   string(hash),
		TelegramChatID: &chatID,
	}
	switch cerr := repo.CreateAccount(ctx, s.DB, acc); {
	case cerr == nil:
		return acc, nil
	case errors.Is(cerr, repo.ErrDuplicate):
		// Lost the provisioning race; the winner's row must exist now.
		if won, ferr := repo.FindAccountByChatID(ctx, s.DB, chatID); ferr == nil {
			return won, nil
		}
		if won, ferr := repo.FindAccountByEmail(ctx, s.DB, email); ferr == nil {
			return won, nil
		}
		log.Error().Str("chat_id", chatID).Msg("identity resolution conflict: duplicate insert but no winner row")
		return nil, ErrIdentityConflict
	default:
		return nil, cerr
	}
}
