// Package services – TicketService
//
// This file implements the ticket writer: it checks the draft preconditions,
// allocates a collision-resistant ticket number, and persists the completed
// grievance tagged with its channel provenance and the default status pair.
// The writer never touches the session; the conversation service resets the
// draft and state only after the write is durable, which is what keeps a
// failed write retryable by re-confirming.
package services

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Amruta907/smart-grievance-system/internal/domain"
	"github.com/Amruta907/smart-grievance-system/internal/repo"
)

// ticketPrefix tags numbers allocated by the Telegram channel.
const ticketPrefix = "GRV-TG-"

// TicketService persists completed grievance drafts as canonical tickets.
type TicketService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// NewTicketService constructs a TicketService.
func NewTicketService(db *gorm.DB) *TicketService {
	return &TicketService{DB: db}
}

// Submit persists the session's draft as a ticket owned by acc.
//
// Preconditions: the draft must be complete (category, description, location)
// and acc must be non-nil; otherwise a failure signal is returned and nothing
// is written — the caller must not report success to the chat. On a ticket
// number collision the number is re-rolled once before giving up.
func (s *TicketService) Submit(ctx context.Context, sess *domain.ConversationSession, acc *domain.Account) (*domain.Ticket, error) {
	d := sess.Draft()
	if !d.Complete() {
		return nil, ErrDraftIncomplete
	}
	if acc == nil {
		return nil, ErrNoAccount
	}

	t := &domain.Ticket{
		ID:               uuid.NewString(),
		AccountID:        acc.ID,
		CategoryID:       d.CategoryID,
		Title:            d.CategoryName,
		Description:      d.Description,
		Location:         d.Location,
		Latitude:         d.Latitude,
		Longitude:        d.Longitude,
		Priority:         domain.DefaultPriority,
		Status:           domain.LegacyPending,
		TrackingStatus:   string(domain.StageSubmitted),
		SourceChannel:    domain.ChannelTelegram,
		SourceExternalID: sess.ChatID,
	}

	for attempt := 0; attempt < 2; attempt++ {
		t.TicketNumber = NewTicketNumber(time.Now())
		err := repo.CreateTicket(ctx, s.DB, t)
		if err == nil {
			return t, nil
		}
		if !errors.Is(err, repo.ErrDuplicate) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("ticket number collision persisted across retries")
}

// NewTicketNumber allocates a public ticket number: the channel prefix, the
// base-36 millisecond timestamp, and a random suffix that breaks
// same-millisecond collisions.
func NewTicketNumber(now time.Time) string {
	var b [2]byte
	_, _ = rand.Read(b[:])
	suffix := binary.BigEndian.Uint16(b[:]) % 1000
	return fmt.Sprintf("%s%s-%03d",
		ticketPrefix,
		strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36)),
		suffix,
	)
}
