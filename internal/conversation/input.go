// Package conversation implements the grievance intake state machine: the
// pure transition function over (session, inbound input), the input
// normalization from Telegram updates, and the localized reply catalog.
//
// Nothing in this package performs I/O. The services layer loads the session,
// calls Transition, executes the requested effects (identity resolution,
// ticket submission, status lookup), persists the session, and delivers the
// reply. That split keeps every conversation rule unit-testable without a
// database or network.
package conversation

import (
	"strconv"
	"strings"

	"github.com/Amruta907/smart-grievance-system/internal/telegram"
)

// Callback payload prefixes attached to inline-keyboard buttons.
const (
	callbackLangPrefix = "lang:"
	callbackCatPrefix  = "cat:"
	callbackConfirm    = "confirm"
	callbackCancel     = "cancel"
)

// Command is a global conversation command that pre-empts state handling.
type Command string

// Global commands. CommandNone means the input is plain conversational input
// for the current state.
const (
	CommandNone   Command = ""
	CommandStart  Command = "start"
	CommandCancel Command = "cancel"
	CommandHelp   Command = "help"
	CommandStatus Command = "status"
)

// Input is one normalized inbound event: either a text message, a structured
// location, or an inline-keyboard callback.
type Input struct {
	// Text is the trimmed message text ("" for non-text updates).
	Text string
	// Callback is the raw callback payload for button taps ("" otherwise).
	Callback string
	// Latitude/Longitude are set for structured location messages.
	Latitude  *float64
	Longitude *float64

	// Command and CommandArg are derived from Text by FromUpdate.
	Command    Command
	CommandArg string
}

// HasCoordinates reports whether the input carries a structured location.
func (in Input) HasCoordinates() bool { return in.Latitude != nil && in.Longitude != nil }

// FromUpdate normalizes a Telegram update into an Input. Unsupported payloads
// (stickers, photos, edits) produce a zero Input, which the FSM answers with
// a clarifying reply.
func FromUpdate(u *telegram.Update) Input {
	var in Input
	switch {
	case u.CallbackQuery != nil:
		in.Callback = strings.TrimSpace(u.CallbackQuery.Data)
		// A cancel button behaves exactly like the /cancel command.
		if in.Callback == callbackCancel {
			in.Command = CommandCancel
		}
	case u.Message != nil:
		if u.Message.Location != nil {
			lat, lng := u.Message.Location.Latitude, u.Message.Location.Longitude
			in.Latitude, in.Longitude = &lat, &lng
			return in
		}
		in.Text = strings.TrimSpace(u.Message.Text)
		in.Command, in.CommandArg = parseCommand(in.Text)
	}
	return in
}

// parseCommand extracts a global command from message text. Telegram sends
// commands as "/name" or "/name@botname", optionally followed by arguments.
func parseCommand(text string) (Command, string) {
	if !strings.HasPrefix(text, "/") {
		return CommandNone, ""
	}
	fields := strings.Fields(text)
	name := strings.TrimPrefix(fields[0], "/")
	if at := strings.IndexByte(name, '@'); at >= 0 {
		name = name[:at]
	}
	arg := ""
	if len(fields) > 1 {
		arg = strings.Join(fields[1:], " ")
	}
	switch strings.ToLower(name) {
	case "start", "reset", "new":
		return CommandStart, arg
	case "cancel", "stop":
		return CommandCancel, arg
	case "help":
		return CommandHelp, arg
	case "status", "track":
		return CommandStatus, arg
	default:
		return CommandNone, ""
	}
}

// categoryID extracts a category selection from the input: the "cat:<id>"
// callback payload or a bare numeric text message.
func categoryID(in Input) (uint, bool) {
	raw := ""
	switch {
	case strings.HasPrefix(in.Callback, callbackCatPrefix):
		raw = strings.TrimPrefix(in.Callback, callbackCatPrefix)
	case in.Text != "" && in.Command == CommandNone:
		raw = strings.TrimSuffix(in.Text, ".")
	default:
		return 0, false
	}
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// languageChoice extracts a language selection from the input: the
// "lang:<code>" callback payload or free text matched against the supported
// languages.
func languageChoice(in Input) (string, bool) {
	if strings.HasPrefix(in.Callback, callbackLangPrefix) {
		code := strings.TrimPrefix(in.Callback, callbackLangPrefix)
		if _, ok := supportedLanguage(code); ok {
			return code, true
		}
		return "", false
	}
	if in.Text == "" || in.Command != CommandNone {
		return "", false
	}
	if code, ok := MatchLanguage(in.Text); ok {
		return code, true
	}
	return "", false
}

// isConfirm reports whether the input confirms a pending submission: the
// confirm button or an affirmative word in any supported language.
func isConfirm(in Input) bool {
	if in.Callback == callbackConfirm {
		return true
	}
	switch strings.ToLower(in.Text) {
	case "yes", "confirm", "submit", "ok", "हाँ", "हां", "हो":
		return true
	}
	return false
}
