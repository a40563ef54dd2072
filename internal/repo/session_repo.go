// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for conversation
// sessions, the durable per-chat state that must survive process restarts.
//
// Error semantics:
//   - GetSession returns ErrNotFound when no row exists for the chat id.
//   - UpsertSession is last-write-wins: two near-simultaneous updates for the
//     same chat id both succeed and the later one sticks. Losing an
//     intermediate prompt is recoverable conversationally; ticket side effects
//     are protected separately by the update ledger and the idle reset.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Amruta907/smart-grievance-system/internal/domain"
)

// GetSession fetches the conversation session for chatID, or ErrNotFound if
// the chat has never been seen.
func GetSession(ctx context.Context, db *gorm.DB, chatID string) (*domain.ConversationSession, error) {
	var s domain.ConversationSession
	if err := db.WithContext(ctx).Where("chat_id = ?", chatID).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// UpsertSession persists the session, inserting on first contact and
// replacing all columns on subsequent writes (last-write-wins).
func UpsertSession(ctx context.Context, db *gorm.DB, s *domain.ConversationSession) error {
	s.UpdatedAt = time.Now().UTC()
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "chat_id"}},
			UpdateAll: true,
		}).
		Create(s).Error
}
