// Package domain – status normalization.
//
// Tickets carry two status vocabularies introduced at different schema
// generations: the legacy fine-grained lifecycle written by the web portal
// (pending, under_review, assigned, in_progress, escalated, reopened,
// resolved, closed, rejected) and the coarse tracking value written by the
// chat channel (submitted, accepted, in_progress, closed). NormalizeStage is
// the single code path that reconciles the pair into the four-value canonical
// stage shown to citizens; every surface that displays ticket status must go
// through it so the same stored record always yields the same stage.
package domain

import "strings"

// Stage is the canonical four-value tracking stage shown to end users.
type Stage string

// Canonical stages, ordered by lifecycle progression.
const (
	StageSubmitted  Stage = "submitted"
	StageAccepted   Stage = "accepted"
	StageInProgress Stage = "in_progress"
	StageClosed     Stage = "closed"
)

// Legacy lifecycle values written by the web portal. Kept while the portal
// still writes them; whether they are transitional or permanent is an open
// product question, so the mapping below stays total over arbitrary strings.
const (
	LegacyPending     = "pending"
	LegacyUnderReview = "under_review"
	LegacyAssigned    = "assigned"
	LegacyInProgress  = "in_progress"
	LegacyEscalated   = "escalated"
	LegacyReopened    = "reopened"
	LegacyResolved    = "resolved"
	LegacyClosed      = "closed"
	LegacyRejected    = "rejected"
)

// NormalizeStage reconciles the legacy status and coarse tracking status of a
// ticket into one canonical Stage. It is pure and total: any pair of strings
// maps to exactly one stage.
//
// Precedence: a tracking value that is a canonical stage other than the
// default ("submitted") wins outright, because it was written deliberately by
// a newer channel. Otherwise the legacy value decides through a fixed
// mapping; unknown or empty legacy values fall back to StageSubmitted.
func NormalizeStage(legacyStatus, trackingStatus string) Stage {
	if s, ok := canonicalStage(trackingStatus); ok && s != StageSubmitted {
		return s
	}
	switch strings.ToLower(strings.TrimSpace(legacyStatus)) {
	case LegacyResolved, LegacyClosed, LegacyRejected, "completed":
		return StageClosed
	case LegacyUnderReview, LegacyAssigned, LegacyEscalated, LegacyReopened:
		return StageAccepted
	case LegacyInProgress, "working", "in-progress":
		return StageInProgress
	default:
		return StageSubmitted
	}
}

// Stage returns the canonical stage of the ticket.
func (t *Ticket) Stage() Stage {
	return NormalizeStage(t.Status, t.TrackingStatus)
}

// canonicalStage parses s as a member of the canonical stage set.
func canonicalStage(s string) (Stage, bool) {
	switch Stage(strings.ToLower(strings.TrimSpace(s))) {
	case StageSubmitted:
		return StageSubmitted, true
	case StageAccepted:
		return StageAccepted, true
	case StageInProgress:
		return StageInProgress, true
	case StageClosed:
		return StageClosed, true
	}
	return "", false
}
