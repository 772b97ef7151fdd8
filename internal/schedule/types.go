package schedule

import (
	"github.com/google/uuid"
)

// Entry is one calendar entry, already read from the user's calendar.
// Start holds either a bare calendar date ("2025-12-11") or an RFC3339
// timestamp with offset ("2025-12-11T18:30:00+09:00"); both forms occur in
// synced calendars. ResolvedLocation is the administrative-region string
// inferred from the free-text RawLocation and, when present, always wins
// for weather lookups.
type Entry struct {
	ID               uuid.UUID `json:"id"`
	Title            string    `json:"title"`
	RawLocation      string    `json:"raw_location,omitempty"`
	ResolvedLocation string    `json:"resolved_location,omitempty"`
	Start            string    `json:"start"`
	End              string    `json:"end,omitempty"`
}

// Location returns the best-known location of the entry, preferring the
// resolved administrative region over the raw free-text place. Empty when
// the entry has neither.
func (e *Entry) Location() string {
	if e.ResolvedLocation != "" {
		return e.ResolvedLocation
	}
	return e.RawLocation
}

// Match is one schedule hit for a requested date
type Match struct {
	Title    string `json:"title"`
	Location string `json:"location"`
	Start    string `json:"start"`
}
