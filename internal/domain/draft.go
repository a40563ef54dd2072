// Package domain – ticket drafts.
//
// A Draft is the partially completed grievance accumulated during a
// conversation. It lives inside the session row as a JSON blob and is
// ephemeral: cleared on submit and on cancel, never promoted to a ticket
// until all required fields are present.
package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Draft field minimums enforced before a ticket may be written.
const (
	MinDescriptionRunes = 10
	MinLocationRunes    = 3
)

// Draft holds the grievance fields collected so far for one conversation.
type Draft struct {
	CategoryID   uint     `json:"category_id,omitempty"`
	CategoryName string   `json:"category_name,omitempty"`
	Description  string   `json:"description,omitempty"`
	Location     string   `json:"location,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
}

// Complete reports whether the draft satisfies every ticket precondition:
// a category, a description of at least MinDescriptionRunes, and a location
// that is either free text of at least MinLocationRunes or a coordinate pair.
func (d Draft) Complete() bool {
	if d.CategoryID == 0 {
		return false
	}
	if utf8.RuneCountInString(strings.TrimSpace(d.Description)) < MinDescriptionRunes {
		return false
	}
	return d.HasLocation()
}

// HasLocation reports whether the draft carries a usable location: either
// structured coordinates or free text of the minimum length.
func (d Draft) HasLocation() bool {
	if d.Latitude != nil && d.Longitude != nil {
		return true
	}
	return utf8.RuneCountInString(strings.TrimSpace(d.Location)) >= MinLocationRunes
}

// SetCoordinates stores a structured coordinate pair and synthesizes the
// display string shown in summaries. Coordinates replace any prior free-text
// location.
func (d *Draft) SetCoordinates(lat, lng float64) {
	d.Latitude = &lat
	d.Longitude = &lng
	d.Location = fmt.Sprintf("%.5f, %.5f", lat, lng)
}

// SetLocationText stores a free-text location and clears any prior
// coordinates so the two forms never disagree.
func (d *Draft) SetLocationText(text string) {
	d.Location = strings.TrimSpace(text)
	d.Latitude = nil
	d.Longitude = nil
}

// Draft decodes the session's stored draft. Malformed JSON degrades to an
// empty draft rather than failing, so one corrupted row costs the citizen a
// restart of the conversation instead of stranding the chat id permanently.
func (s *ConversationSession) Draft() Draft {
	var d Draft
	raw := strings.TrimSpace(s.DraftJSON)
	if raw == "" {
		return d
	}
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return Draft{}
	}
	return d
}

// SetDraft encodes d into the session's draft blob. Draft contains only
// scalar fields, so encoding cannot fail.
func (s *ConversationSession) SetDraft(d Draft) {
	b, err := json.Marshal(d)
	if err != nil {
		s.DraftJSON = "{}"
		return
	}
	s.DraftJSON = string(b)
}

// ClearDraft resets the session's draft blob to empty.
func (s *ConversationSession) ClearDraft() {
	s.DraftJSON = "{}"
}
