// Package domain – conversation states.
//
// This file defines the finite set of conversation states a chat session can
// occupy. The set is closed: sessions are only ever written with one of these
// values, and anything else read back from storage is coerced to the initial
// state rather than trusted.
package domain

// State is the conversation state of a chat session.
type State string

// Conversation states. StateAwaitingLanguage is the initial state for a chat
// id that has never been seen before; StateIdle is the resting state between
// completed (or cancelled) grievance intakes.
const (
	StateIdle                 State = "idle"
	StateAwaitingLanguage     State = "awaiting_language"
	StateAwaitingCategory     State = "awaiting_category"
	StateAwaitingDescription  State = "awaiting_description"
	StateAwaitingLocation     State = "awaiting_location"
	StateAwaitingConfirmation State = "awaiting_confirmation"
)

// Valid reports whether s is a member of the conversation state enum.
func (s State) Valid() bool {
	switch s {
	case StateIdle, StateAwaitingLanguage, StateAwaitingCategory,
		StateAwaitingDescription, StateAwaitingLocation, StateAwaitingConfirmation:
		return true
	}
	return false
}

// OrInitial returns s when it is a valid state and the initial state
// otherwise. Used when loading sessions so a corrupted row degrades to a
// fresh conversation instead of stranding the chat id.
func (s State) OrInitial() State {
	if s.Valid() {
		return s
	}
	return StateAwaitingLanguage
}
