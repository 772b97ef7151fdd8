package schedule

import (
	"log/slog"
	"os"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func dateAt(year int, month time.Month, day int, loc *time.Location) time.Time {
	return time.Date(year, month, day, 8, 0, 0, 0, loc)
}

func TestFindEntryForDate_ExactDateOnly(t *testing.T) {
	entries := []Entry{
		{Title: "출장", Start: "2025-12-11", RawLocation: "부산"},
	}

	seoul := time.FixedZone("KST", 9*60*60)

	// 2025-12-19 contains "2025-12-1" as a prefix; substring matching
	// would produce a false hit here
	if e := FindEntryForDate(entries, dateAt(2025, 12, 19, seoul), testLogger()); e != nil {
		t.Errorf("Expected no match on 2025-12-19, got %q", e.Title)
	}

	e := FindEntryForDate(entries, dateAt(2025, 12, 11, seoul), testLogger())
	if e == nil {
		t.Fatal("Expected match on 2025-12-11")
	}
	if e.Title != "출장" {
		t.Errorf("Expected 출장, got %q", e.Title)
	}
}

func TestFindEntryForDate_TimestampKeepsStoredOffset(t *testing.T) {
	// 2025-12-11T23:30+09:00 is 14:30 UTC on the same day, but
	// 2025-12-12T00:30+09:00 is still 15:30 UTC on the 11th. The entry
	// must match its own local calendar date, not the UTC one.
	entries := []Entry{
		{Title: "저녁 약속", Start: "2025-12-12T00:30:00+09:00", RawLocation: "서울 강남구"},
	}

	seoul := time.FixedZone("KST", 9*60*60)

	if e := FindEntryForDate(entries, dateAt(2025, 12, 11, seoul), testLogger()); e != nil {
		t.Errorf("Entry matched the UTC date instead of its local date")
	}

	if e := FindEntryForDate(entries, dateAt(2025, 12, 12, seoul), testLogger()); e == nil {
		t.Error("Expected match on the entry's local calendar date")
	}
}

func TestFindEntryForDate_RequestNearMidnight(t *testing.T) {
	entries := []Entry{
		{Title: "회의", Start: "2025-12-11", RawLocation: "서울"},
	}

	// 00:10 KST on the 12th is still 15:10 UTC on the 11th; a UTC-based
	// comparison would wrongly match the 11th's entry.
	seoul := time.FixedZone("KST", 9*60*60)
	lateEleventh := time.Date(2025, 12, 11, 23, 50, 0, 0, seoul)
	earlyTwelfth := time.Date(2025, 12, 12, 0, 10, 0, 0, seoul)

	if e := FindEntryForDate(entries, lateEleventh, testLogger()); e == nil {
		t.Error("Expected match just before local midnight")
	}
	if e := FindEntryForDate(entries, earlyTwelfth, testLogger()); e != nil {
		t.Error("Matched the previous local day's entry after midnight")
	}
}

func TestFindEntryForDate_NaiveTimestamp(t *testing.T) {
	// Calendar exports sometimes omit the offset entirely. The date part
	// is still usable and must not be skipped as unparseable.
	entries := []Entry{
		{Title: "저녁 약속", Start: "2025-12-11T18:30:00", RawLocation: "서울 강남구"},
	}

	e := FindEntryForDate(entries, dateAt(2025, 12, 11, time.UTC), testLogger())
	if e == nil {
		t.Fatal("Expected match for timestamp without offset")
	}
	if e.Title != "저녁 약속" {
		t.Errorf("Expected 저녁 약속, got %q", e.Title)
	}

	if e := FindEntryForDate(entries, dateAt(2025, 12, 12, time.UTC), testLogger()); e != nil {
		t.Errorf("Expected no match on the following day, got %q", e.Title)
	}
}

func TestFindEntryForDate_SkipsUnparseableEntries(t *testing.T) {
	entries := []Entry{
		{Title: "broken", Start: "11/12/2025"},
		{Title: "empty", Start: ""},
		{Title: "ok", Start: "2025-12-11"},
	}

	e := FindEntryForDate(entries, dateAt(2025, 12, 11, time.UTC), testLogger())
	if e == nil || e.Title != "ok" {
		t.Errorf("Expected the parseable entry, got %+v", e)
	}
}

func TestFindEntryForDate_ZeroDate(t *testing.T) {
	entries := []Entry{{Title: "회의", Start: "2025-12-11"}}

	if e := FindEntryForDate(entries, time.Time{}, testLogger()); e != nil {
		t.Errorf("Expected nil for zero date, got %+v", e)
	}
}

func TestFindEntriesForDate_FiltersLocationless(t *testing.T) {
	entries := []Entry{
		{Title: "온라인 회의", Start: "2025-12-11"},
		{Title: "출장", Start: "2025-12-11", RawLocation: "부산역", ResolvedLocation: "부산 동구"},
		{Title: "점심", Start: "2025-12-11", RawLocation: "회사 근처"},
		{Title: "내일 일정", Start: "2025-12-12", RawLocation: "서울"},
	}

	matches := FindEntriesForDate(entries, dateAt(2025, 12, 11, time.UTC), testLogger())

	if len(matches) != 2 {
		t.Fatalf("Expected 2 matches, got %d", len(matches))
	}
	if matches[0].Location != "부산 동구" {
		t.Errorf("Expected resolved location to win, got %q", matches[0].Location)
	}
	if matches[1].Location != "회사 근처" {
		t.Errorf("Expected raw location fallback, got %q", matches[1].Location)
	}
}

func TestLocationForDate(t *testing.T) {
	entries := []Entry{
		{Title: "출장", Start: "2025-12-11", ResolvedLocation: "부산 해운대구"},
	}

	if loc := LocationForDate(entries, dateAt(2025, 12, 11, time.UTC), testLogger()); loc != "부산 해운대구" {
		t.Errorf("Expected 부산 해운대구, got %q", loc)
	}
	if loc := LocationForDate(entries, dateAt(2025, 12, 12, time.UTC), testLogger()); loc != "" {
		t.Errorf("Expected empty location, got %q", loc)
	}
}
