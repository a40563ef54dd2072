// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the idempotency ledger for inbound
// Telegram updates: each update id is recorded exactly once, strictly before
// dispatch, so at-least-once webhook delivery collapses to exactly-once
// processing.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Amruta907/smart-grievance-system/internal/domain"
)

// MarkUpdateProcessed records updateID in the ledger. It returns ErrDuplicate
// when the id was already recorded, in which case the caller must acknowledge
// the delivery without re-invoking any side effects.
func MarkUpdateProcessed(ctx context.Context, db *gorm.DB, updateID int64) error {
	rec := &domain.ProcessedUpdate{
		UpdateID:    updateID,
		ProcessedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(rec).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// UpdateProcessed reports whether updateID is already present in the ledger.
// Read-only companion to MarkUpdateProcessed, used by tests and diagnostics.
func UpdateProcessed(ctx context.Context, db *gorm.DB, updateID int64) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.ProcessedUpdate{}).
		Where("update_id = ?", updateID).
		Count(&n).Error
	return n > 0, err
}
