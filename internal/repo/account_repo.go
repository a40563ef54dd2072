// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Account
// model, including the chat-id binding used by the identity resolver.
//
// Error semantics:
//   - Lookup functions return ErrNotFound when no matching row exists.
//   - CreateAccount and BindChatID translate unique-index violations into
//     ErrDuplicate so the identity resolver can converge concurrent
//     resolution attempts onto one winner instead of duplicating accounts.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Amruta907/smart-grievance-system/internal/domain"
)

// FindAccountByChatID fetches the account bound to the given Telegram chat
// id, or ErrNotFound when no binding exists.
func FindAccountByChatID(ctx context.Context, db *gorm.DB, chatID string) (*domain.Account, error) {
	var a domain.Account
	if err := db.WithContext(ctx).Where("telegram_chat_id = ?", chatID).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// FindAccountByEmail fetches an account by its email key, or ErrNotFound.
// The identity resolver uses this with the deterministic placeholder address
// to recover accounts provisioned before the chat-id binding column existed.
func FindAccountByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.Account, error) {
	var a domain.Account
	if err := db.WithContext(ctx).Where("email = ?", email).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateAccount inserts a new account row. A collision on the email key or
// the chat-id binding returns ErrDuplicate.
func CreateAccount(ctx context.Context, db *gorm.DB, a *domain.Account) error {
	a.CreatedAt = time.Now().UTC()
	if err := db.WithContext(ctx).Create(a).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// BindChatID backfills the chat-id binding on an existing account. It returns
// ErrDuplicate when another account already owns the binding and ErrNotFound
// when the account row is missing.
func BindChatID(ctx context.Context, db *gorm.DB, accountID, chatID string) error {
	res := db.WithContext(ctx).
		Model(&domain.Account{}).
		Where("id = ?", accountID).
		Update("telegram_chat_id", chatID)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return ErrDuplicate
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
