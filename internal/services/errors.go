// Package services defines the business logic for conversation handling,
// identity resolution, and ticket submission. This file centralizes common
// service-level error values so that they can be consistently returned by
// service methods and checked by callers.
//
// These errors are intended for internal use by the service layer; the
// conversation flow translates them into localized replies and the HTTP layer
// never exposes them to the chat platform (the webhook is acknowledged
// unconditionally).
package services

import "errors"

var (
	// ErrDraftIncomplete is returned when a ticket write is requested while
	// the draft is missing category, description, or location.
	ErrDraftIncomplete = errors.New("draft incomplete")

	// ErrNoAccount is returned when a ticket write is requested before
	// identity resolution produced an owning account.
	ErrNoAccount = errors.New("no account resolved for chat")

	// ErrIdentityConflict indicates concurrent resolution attempts failed to
	// converge on one account. Should not occur while the unique indexes on
	// the chat binding and placeholder email hold; logged as fatal by callers.
	ErrIdentityConflict = errors.New("identity resolution conflict")
)
