// Package conversation – transition function.
//
// Transition is the single place conversation state changes. It takes the
// current session by value and returns the next session plus an Outcome
// describing the effects the caller must execute. Invalid or out-of-order
// input never corrupts accumulated state: it either re-prompts or leaves the
// session untouched with a clarifying reply.
package conversation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Amruta907/smart-grievance-system/internal/domain"
	"github.com/Amruta907/smart-grievance-system/internal/telegram"
)

// Outcome is the effect set produced by one transition. The caller delivers
// Reply (with the optional Keyboard), resolves identity when ResolveIdentity
// is set, performs the ticket write when SubmitTicket is set, and answers the
// status query when StatusQuery is non-empty. Submission and status replies
// depend on effect results, so the FSM leaves Reply empty for those and the
// caller composes it.
type Outcome struct {
	Reply    string
	Keyboard *telegram.InlineKeyboardMarkup

	// ResolveIdentity requests chat-id → account resolution (set when a
	// language is chosen, the point where the account binding is created).
	ResolveIdentity bool
	// SubmitTicket requests the ticket write for the session's draft.
	SubmitTicket bool
	// StatusQuery is the ticket number of a read-only status lookup.
	StatusQuery string
}

// Transition applies one input to a session and returns the next session and
// the effects to execute. It is pure: no I/O, no clock, no randomness.
//
// Global commands pre-empt state handling; otherwise the current state
// decides. The category catalog is passed in because prompts and selection
// validation need it; it is read-only for the duration of a conversation.
func Transition(s domain.ConversationSession, in Input, cats []domain.Category) (domain.ConversationSession, Outcome) {
	s.State = s.State.OrInitial()
	if _, ok := supportedLanguage(s.Language); !ok {
		s.Language = LangEnglish
	}

	// Global commands first.
	switch in.Command {
	case CommandStart:
		s.ClearDraft()
		s.State = domain.StateAwaitingLanguage
		return s, Outcome{Reply: Msg(s.Language, msgChooseLanguage), Keyboard: languageKeyboard()}
	case CommandCancel:
		s.ClearDraft()
		s.State = domain.StateIdle
		return s, Outcome{Reply: Msg(s.Language, msgCancelled)}
	case CommandHelp:
		return s, Outcome{Reply: Msg(s.Language, msgHelp)}
	case CommandStatus:
		number := strings.TrimSpace(in.CommandArg)
		if number == "" {
			return s, Outcome{Reply: Msg(s.Language, msgStatusUsage)}
		}
		return s, Outcome{StatusQuery: number}
	}

	switch s.State {
	case domain.StateAwaitingLanguage:
		return transitionLanguage(s, in, cats)
	case domain.StateAwaitingCategory:
		return transitionCategory(s, in, cats)
	case domain.StateAwaitingDescription:
		return transitionDescription(s, in)
	case domain.StateAwaitingLocation:
		return transitionLocation(s, in)
	case domain.StateAwaitingConfirmation:
		return transitionConfirmation(s, in)
	default: // StateIdle
		return s, Outcome{Reply: Msg(s.Language, msgIdleNudge)}
	}
}

// transitionLanguage handles language selection. A valid choice stores the
// language, requests identity resolution, and advances to category selection;
// anything else re-prompts without a transition.
func transitionLanguage(s domain.ConversationSession, in Input, cats []domain.Category) (domain.ConversationSession, Outcome) {
	code, ok := languageChoice(in)
	if !ok {
		return s, Outcome{Reply: Msg(s.Language, msgChooseLanguage), Keyboard: languageKeyboard()}
	}
	s.Language = code
	s.State = domain.StateAwaitingCategory
	return s, Outcome{
		Reply:           MsgF(s.Language, msgChooseCategory, categoryList(cats)),
		Keyboard:        categoryKeyboard(cats),
		ResolveIdentity: true,
	}
}

// transitionCategory handles category selection. A known id stores the
// category pair in the draft and advances; an unknown or stale id leaves the
// session unchanged and re-shows the catalog; non-selections clarify.
func transitionCategory(s domain.ConversationSession, in Input, cats []domain.Category) (domain.ConversationSession, Outcome) {
	id, ok := categoryID(in)
	if !ok {
		return s, Outcome{
			Reply:    MsgF(s.Language, msgChooseCategory, categoryList(cats)),
			Keyboard: categoryKeyboard(cats),
		}
	}
	for _, c := range cats {
		if c.ID == id {
			d := s.Draft()
			d.CategoryID = c.ID
			d.CategoryName = c.Name
			s.SetDraft(d)
			s.State = domain.StateAwaitingDescription
			return s, Outcome{Reply: Msg(s.Language, msgAskDescription)}
		}
	}
	// Stale button from an old catalog: no session mutation.
	return s, Outcome{
		Reply:    MsgF(s.Language, msgChooseCategory, categoryList(cats)),
		Keyboard: categoryKeyboard(cats),
	}
}

// transitionDescription stores the description once it meets the minimum
// length; shorter text re-prompts without a transition.
func transitionDescription(s domain.ConversationSession, in Input) (domain.ConversationSession, Outcome) {
	text := strings.TrimSpace(in.Text)
	if text == "" || utf8.RuneCountInString(text) < domain.MinDescriptionRunes {
		return s, Outcome{Reply: Msg(s.Language, msgDescriptionShort)}
	}
	d := s.Draft()
	d.Description = text
	s.SetDraft(d)
	s.State = domain.StateAwaitingLocation
	return s, Outcome{Reply: Msg(s.Language, msgAskLocation)}
}

// transitionLocation accepts either a structured coordinate pair (which
// bypasses the length check) or free text of the minimum length, then shows
// the confirmation summary. Shorter text re-prompts without a transition.
func transitionLocation(s domain.ConversationSession, in Input) (domain.ConversationSession, Outcome) {
	d := s.Draft()
	switch {
	case in.HasCoordinates():
		d.SetCoordinates(*in.Latitude, *in.Longitude)
	case utf8.RuneCountInString(strings.TrimSpace(in.Text)) >= domain.MinLocationRunes:
		d.SetLocationText(in.Text)
	default:
		return s, Outcome{Reply: Msg(s.Language, msgLocationShort)}
	}
	s.SetDraft(d)
	s.State = domain.StateAwaitingConfirmation
	return s, Outcome{Reply: summaryReply(s.Language, d), Keyboard: confirmKeyboard(s.Language)}
}

// transitionConfirmation waits for the submit action. Cancel is handled
// globally before state dispatch; anything that is not a confirmation
// re-shows the summary without mutating the session.
func transitionConfirmation(s domain.ConversationSession, in Input) (domain.ConversationSession, Outcome) {
	if isConfirm(in) {
		// The caller performs the write; on success it resets the session,
		// on failure it keeps the draft so the citizen can re-confirm.
		return s, Outcome{SubmitTicket: true}
	}
	return s, Outcome{Reply: summaryReply(s.Language, s.Draft()), Keyboard: confirmKeyboard(s.Language)}
}

// summaryReply renders the confirmation summary for a draft.
func summaryReply(lang string, d domain.Draft) string {
	return MsgF(lang, msgConfirmSummary, d.CategoryName, d.Description, d.Location)
}

// categoryList renders the numbered catalog for the category prompt.
func categoryList(cats []domain.Category) string {
	var b strings.Builder
	for i, c := range cats {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d. %s", c.ID, c.Name)
	}
	return b.String()
}

// languageKeyboard offers one button per supported language, labeled in the
// language itself.
func languageKeyboard() *telegram.InlineKeyboardMarkup {
	return &telegram.InlineKeyboardMarkup{
		InlineKeyboard: telegram.Row(
			telegram.InlineKeyboardButton{Text: "English", CallbackData: callbackLangPrefix + LangEnglish},
			telegram.InlineKeyboardButton{Text: "हिंदी", CallbackData: callbackLangPrefix + LangHindi},
			telegram.InlineKeyboardButton{Text: "मराठी", CallbackData: callbackLangPrefix + LangMarathi},
		),
	}
}

// categoryKeyboard renders one button per catalog entry, two per row.
func categoryKeyboard(cats []domain.Category) *telegram.InlineKeyboardMarkup {
	var rows [][]telegram.InlineKeyboardButton
	var row []telegram.InlineKeyboardButton
	for _, c := range cats {
		row = append(row, telegram.InlineKeyboardButton{
			Text:         c.Name,
			CallbackData: fmt.Sprintf("%s%d", callbackCatPrefix, c.ID),
		})
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return &telegram.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// confirmKeyboard offers submit and cancel.
func confirmKeyboard(lang string) *telegram.InlineKeyboardMarkup {
	submit, cancel := "✅ Submit", "❌ Cancel"
	switch lang {
	case LangHindi:
		submit, cancel = "✅ जमा करें", "❌ रद्द करें"
	case LangMarathi:
		submit, cancel = "✅ सबमिट करा", "❌ रद्द करा"
	}
	return &telegram.InlineKeyboardMarkup{
		InlineKeyboard: telegram.Row(
			telegram.InlineKeyboardButton{Text: submit, CallbackData: callbackConfirm},
			telegram.InlineKeyboardButton{Text: cancel, CallbackData: callbackCancel},
		),
	}
}
