// Package services – ConversationService
//
// This file implements the orchestrator behind the webhook: it dedupes the
// inbound update against the processed-update ledger, loads the chat's
// session, runs the pure transition function, executes the effects it
// requests (identity resolution, ticket write, status lookup), persists the
// session, and finally delivers the reply. Persistence strictly precedes
// delivery: by the time a reply is attempted, the session and any ticket are
// durable, so a send failure loses a message but never conversation state.
//
// Observability: HandleUpdate is OpenTelemetry-instrumented; the span carries
// the update id and chat id.
package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/Amruta907/smart-grievance-system/internal/conversation"
	"github.com/Amruta907/smart-grievance-system/internal/domain"
	"github.com/Amruta907/smart-grievance-system/internal/repo"
	"github.com/Amruta907/smart-grievance-system/internal/telegram"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Sender delivers outbound chat traffic. *telegram.Client satisfies it; tests
// substitute a recorder.
type Sender interface {
	SendMessage(ctx context.Context, chatID, text string, keyboard *telegram.InlineKeyboardMarkup) error
	AnswerCallbackQuery(ctx context.Context, callbackID string) error
}

// ConversationService drives the intake flow for one inbound update at a time.
type ConversationService struct {
	DB       *gorm.DB
	Identity *IdentityService
	Tickets  *TicketService
	Sender   Sender
}

// NewConversationService constructs a ConversationService.
func NewConversationService(db *gorm.DB, identity *IdentityService, tickets *TicketService, sender Sender) *ConversationService {
	return &ConversationService{DB: db, Identity: identity, Tickets: tickets, Sender: sender}
}

// HandleUpdate processes one webhook delivery end to end.
//
// A replayed update id is a silent no-op. A returned error means an
// infrastructure failure before state was persisted; the HTTP layer logs it
// and still acknowledges the delivery, leaving the retry to the platform.
func (s *ConversationService) HandleUpdate(ctx context.Context, u *telegram.Update) error {
	tr := otel.Tracer("services/ConversationService")
	ctx, span := tr.Start(ctx, "HandleUpdate",
		trace.WithAttributes(
			attribute.Int64("telegram.update_id", u.UpdateID),
			attribute.String("telegram.chat_id", u.ChatID()),
		),
	)
	defer span.End()

	chatID := u.ChatID()
	if chatID == "" {
		// Channel posts, edits, and other payloads without a chat reference
		// are acknowledged without processing.
		return nil
	}

	// Idempotency gate: claim the update id before doing anything else.
	if err := repo.MarkUpdateProcessed(ctx, s.DB, u.UpdateID); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			updatesDuplicate.Inc()
			log.Debug().Int64("update_id", u.UpdateID).Msg("duplicate update acknowledged")
			return nil
		}
		return err
	}
	updatesProcessed.Inc()

	sess, err := repo.GetSession(ctx, s.DB, chatID)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		sess = &domain.ConversationSession{
			ChatID:    chatID,
			State:     domain.StateAwaitingLanguage,
			Language:  conversation.LangEnglish,
			DraftJSON: "{}",
		}
	case err != nil:
		return err
	}

	cats, err := repo.ListCategories(ctx, s.DB)
	if err != nil {
		return err
	}

	in := conversation.FromUpdate(u)
	next, out := conversation.Transition(*sess, in, cats)

	if out.ResolveIdentity {
		if acc, rerr := s.Identity.Resolve(ctx, chatID, nameHint(u.From())); rerr == nil {
			next.AccountID = &acc.ID
		} else {
			// Resolution is retried on submission; the conversation goes on.
			log.Warn().Err(rerr).Str("chat_id", chatID).Msg("identity resolution deferred")
		}
	}

	if out.SubmitTicket {
		next, out = s.submit(ctx, chatID, u, next)
	}

	if out.StatusQuery != "" {
		reply, serr := s.statusReply(ctx, chatID, next.Language, out.StatusQuery)
		if serr != nil {
			return serr
		}
		out.Reply = reply
	}

	// Durable before delivery.
	if err := repo.UpsertSession(ctx, s.DB, &next); err != nil {
		return err
	}

	s.deliver(ctx, chatID, u, out)
	return nil
}

// submit executes the ticket write requested by the transition and composes
// the resulting reply. On success the session is reset to idle; on failure the
// draft and state survive so the citizen can confirm again.
func (s *ConversationService) submit(ctx context.Context, chatID string, u *telegram.Update, next domain.ConversationSession) (domain.ConversationSession, conversation.Outcome) {
	acc, err := s.Identity.Resolve(ctx, chatID, nameHint(u.From()))
	if err != nil {
		log.Error().Err(err).Str("chat_id", chatID).Msg("identity resolution failed at submission")
		return next, conversation.Outcome{Reply: conversation.SubmitFailedReply(next.Language)}
	}
	next.AccountID = &acc.ID

	t, err := s.Tickets.Submit(ctx, &next, acc)
	switch {
	case err == nil:
		ticketsCreated.Inc()
		total, _ := repo.CountTicketsByAccount(ctx, s.DB, acc.ID)
		log.Info().
			Str("chat_id", chatID).
			Str("ticket_number", t.TicketNumber).
			Int64("account_tickets", total).
			Msg("ticket created")
		next.ClearDraft()
		next.State = domain.StateIdle
		return next, conversation.Outcome{Reply: conversation.SubmittedReply(next.Language, t.TicketNumber)}
	case errors.Is(err, ErrDraftIncomplete):
		// Confirmation reached without a complete draft (corrupted or cleared
		// state); restart the flow instead of failing silently.
		next.ClearDraft()
		next.State = domain.StateIdle
		return next, conversation.Outcome{Reply: conversation.ClarifyReply(next.Language)}
	default:
		log.Error().Err(err).Str("chat_id", chatID).Msg("ticket write failed")
		return next, conversation.Outcome{Reply: conversation.SubmitFailedReply(next.Language)}
	}
}

// statusReply answers a /status lookup. The query is scoped to tickets this
// chat created, so one citizen cannot probe another's ticket numbers.
func (s *ConversationService) statusReply(ctx context.Context, chatID, lang, number string) (string, error) {
	t, err := repo.GetTicketByNumber(ctx, s.DB, number, domain.ChannelTelegram, chatID)
	switch {
	case err == nil:
		return conversation.StatusReply(lang, t.TicketNumber, string(t.Stage())), nil
	case errors.Is(err, repo.ErrNotFound):
		return conversation.StatusNotFoundReply(lang), nil
	default:
		return "", err
	}
}

// deliver sends the reply and clears the button spinner. Delivery is
// best-effort: failures are counted and logged, never propagated, because the
// conversation state is already durable.
func (s *ConversationService) deliver(ctx context.Context, chatID string, u *telegram.Update, out conversation.Outcome) {
	if s.Sender == nil {
		return
	}
	if u.CallbackQuery != nil {
		if err := s.Sender.AnswerCallbackQuery(ctx, u.CallbackQuery.ID); err != nil {
			repliesFailed.Inc()
			log.Warn().Err(err).Str("chat_id", chatID).Msg("callback ack failed")
		}
	}
	if out.Reply == "" {
		return
	}
	if err := s.Sender.SendMessage(ctx, chatID, out.Reply, out.Keyboard); err != nil {
		repliesFailed.Inc()
		log.Warn().Err(err).Str("chat_id", chatID).Msg("reply delivery failed")
	}
}

// nameHint assembles a display name from chat metadata for auto-provisioned
// accounts.
func nameHint(from *telegram.User) string {
	if from == nil {
		return ""
	}
	full := strings.TrimSpace(strings.TrimSpace(from.FirstName) + " " + strings.TrimSpace(from.LastName))
	if full != "" {
		return full
	}
	return from.Username
}
