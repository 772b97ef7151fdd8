package schedule

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

const (
	calendarDateLayout   = "2006-01-02"
	naiveTimestampLayout = "2006-01-02T15:04:05"
)

// FindEntryForDate returns the first entry whose calendar date equals the
// requested date, or nil when none matches. Dates are compared as local
// calendar dates: the request is formatted in its own zone and each entry
// timestamp in its stored offset, so a request just before local midnight
// never shifts a day the way a UTC conversion would. No fuzzy matching;
// "today or tomorrow" language is the caller's concern.
func FindEntryForDate(entries []Entry, date time.Time, logger *slog.Logger) *Entry {
	if date.IsZero() {
		logger.Warn("Schedule lookup with zero date")
		return nil
	}

	target := date.Format(calendarDateLayout)

	for i := range entries {
		entryDay, err := entryCalendarDate(entries[i].Start)
		if err != nil {
			logger.Warn("Skipping schedule entry with unparseable start",
				"title", entries[i].Title,
				"start", entries[i].Start,
				"error", err)
			continue
		}
		if entryDay == target {
			return &entries[i]
		}
	}

	return nil
}

// FindEntriesForDate returns every entry on the requested calendar date
// that carries a usable location, as (title, location, start) triples.
// Entries with neither a resolved nor a raw location are filtered out.
func FindEntriesForDate(entries []Entry, date time.Time, logger *slog.Logger) []Match {
	if date.IsZero() {
		logger.Warn("Schedule lookup with zero date")
		return nil
	}

	target := date.Format(calendarDateLayout)
	var matches []Match

	for i := range entries {
		entryDay, err := entryCalendarDate(entries[i].Start)
		if err != nil {
			logger.Warn("Skipping schedule entry with unparseable start",
				"title", entries[i].Title,
				"start", entries[i].Start,
				"error", err)
			continue
		}
		if entryDay != target {
			continue
		}

		location := entries[i].Location()
		if location == "" {
			continue
		}

		matches = append(matches, Match{
			Title:    entries[i].Title,
			Location: location,
			Start:    entries[i].Start,
		})
	}

	return matches
}

// LocationForDate returns the best-known location among the requested
// date's entries, or "" when no located entry exists. Used to pick the
// forecast region for a day whose entries lack explicit geocoding.
func LocationForDate(entries []Entry, date time.Time, logger *slog.Logger) string {
	entry := FindEntryForDate(entries, date, logger)
	if entry == nil {
		logger.Debug("No schedule entry for date", "date", date.Format(calendarDateLayout))
		return ""
	}

	location := entry.Location()
	if location == "" {
		logger.Debug("Schedule entry has no location",
			"date", date.Format(calendarDateLayout),
			"title", entry.Title)
	}
	return location
}

// entryCalendarDate normalizes a stored start value to its local calendar
// date. A full timestamp is interpreted in its own stored offset, never
// shifted to UTC. Timestamps without an offset are taken at face value.
func entryCalendarDate(start string) (string, error) {
	if start == "" {
		return "", fmt.Errorf("empty start value")
	}

	if strings.Contains(start, "T") {
		t, err := time.Parse(time.RFC3339, start)
		if err != nil {
			t, err = time.Parse(naiveTimestampLayout, start)
		}
		if err != nil {
			return "", fmt.Errorf("invalid timestamp %q: %w", start, err)
		}
		return t.Format(calendarDateLayout), nil
	}

	if _, err := time.Parse(calendarDateLayout, start); err != nil {
		return "", fmt.Errorf("invalid date %q: %w", start, err)
	}
	return start, nil
}
