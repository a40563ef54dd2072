// Package telegram contains the subset of the Telegram Bot API wire types
// this service exchanges with the platform: inbound webhook updates and
// outbound message payloads. Field names follow the Bot API JSON exactly;
// only fields the intake flow reads are declared.
package telegram

import "strconv"

// Update is one inbound webhook delivery. Exactly one of the payload fields
// is set per update; the intake flow handles text messages, location
// messages, and inline-keyboard callback taps.
type Update struct {
	UpdateID      int64          `json:"update_id"`
	Message       *Message       `json:"message,omitempty"`
	CallbackQuery *CallbackQuery `json:"callback_query,omitempty"`
}

// ChatID returns the chat identifier the update belongs to as a decimal
// string, or "" when the update carries no usable chat reference.
func (u *Update) ChatID() string {
	switch {
	case u.Message != nil:
		return strconv.FormatInt(u.Message.Chat.ID, 10)
	case u.CallbackQuery != nil && u.CallbackQuery.Message != nil:
		return strconv.FormatInt(u.CallbackQuery.Message.Chat.ID, 10)
	}
	return ""
}

// From returns the sending user, if the update carries one.
func (u *Update) From() *User {
	switch {
	case u.Message != nil:
		return u.Message.From
	case u.CallbackQuery != nil:
		return u.CallbackQuery.From
	}
	return nil
}

// Message is a user-visible chat message.
type Message struct {
	MessageID int64     `json:"message_id"`
	From      *User     `json:"from,omitempty"`
	Chat      Chat      `json:"chat"`
	Text      string    `json:"text,omitempty"`
	Location  *Location `json:"location,omitempty"`
}

// Chat identifies the conversation a message belongs to.
type Chat struct {
	ID        int64  `json:"id"`
	Type      string `json:"type,omitempty"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// User is the Telegram account that authored a message or callback.
type User struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"first_name,omitempty"`
	LastName     string `json:"last_name,omitempty"`
	Username     string `json:"username,omitempty"`
	LanguageCode string `json:"language_code,omitempty"`
}

// Location is a structured coordinate payload attached to a message.
type Location struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// CallbackQuery is an inline-keyboard button tap. Data carries the opaque
// callback payload attached to the button (e.g. "lang:en", "cat:3").
type CallbackQuery struct {
	ID      string   `json:"id"`
	From    *User    `json:"from,omitempty"`
	Message *Message `json:"message,omitempty"`
	Data    string   `json:"data,omitempty"`
}

// InlineKeyboardMarkup is the reply markup for a message with buttons.
type InlineKeyboardMarkup struct {
	InlineKeyboard [][]InlineKeyboardButton `json:"inline_keyboard"`
}

// InlineKeyboardButton is one tappable button.
type InlineKeyboardButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data,omitempty"`
}

// Row builds a one-row keyboard from the given buttons.
func Row(buttons ...InlineKeyboardButton) [][]InlineKeyboardButton {
	return [][]InlineKeyboardButton{buttons}
}
