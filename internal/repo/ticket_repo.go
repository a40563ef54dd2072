// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Ticket
// model: insertion of completed grievances and the channel-scoped lookup
// behind the /status conversation command.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Amruta907/smart-grievance-system/internal/domain"
)

// CreateTicket inserts a new ticket row. A ticket-number collision (extremely
// unlikely given the time-derived numbering) returns ErrDuplicate so the
// writer can re-roll the number.
func CreateTicket(ctx context.Context, db *gorm.DB, t *domain.Ticket) error {
	t.CreatedAt = time.Now().UTC()
	if err := db.WithContext(ctx).Create(t).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// GetTicketByNumber fetches a ticket by its public number, scoped to the
// source channel and channel-native external id. The scoping keeps one chat
// from reading another citizen's ticket by guessing numbers. Returns
// ErrNotFound when no matching row exists.
func GetTicketByNumber(ctx context.Context, db *gorm.DB, number, channel, externalID string) (*domain.Ticket, error) {
	var t domain.Ticket
	err := db.WithContext(ctx).
		Where("ticket_number = ? AND source_channel = ? AND source_external_id = ?", number, channel, externalID).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// CountTicketsByAccount returns the number of tickets owned by an account.
// Used for log enrichment when a submission completes.
func CountTicketsByAccount(ctx context.Context, db *gorm.DB, accountID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Ticket{}).
		Where("account_id = ?", accountID).
		Count(&total).Error
	return total, err
}
