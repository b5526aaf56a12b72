package utils

import (
	"encoding/json"
	"testing"
	"time"
)

func TestCalendarDate_RoundTripThroughStorageForm(t *testing.T) {
	d := NewCalendarDate(2026, time.January, 20)

	stored := d.Time()
	if stored.Hour() != 0 || stored.Location() != time.UTC {
		t.Fatalf("storage form must be UTC midnight, got %s", stored)
	}

	// Reading the stored timestamp back must give the same calendar date
	// even when the process runs in a negative-offset zone.
	saoPaulo := time.FixedZone("America/Sao_Paulo", -3*60*60)
	viewed := stored.In(saoPaulo)
	if got := CalendarDateOf(viewed.UTC()); !got.Equal(d) {
		t.Fatalf("date shifted through timezone round trip: %s -> %s", d, got)
	}
}

func TestCalendarDate_Normalization(t *testing.T) {
	if got := NewCalendarDate(2025, time.February, 31); !got.Equal(NewCalendarDate(2025, time.March, 3)) {
		t.Fatalf("Feb 31 2025 should normalize to Mar 3, got %s", got)
	}
	if got := NewCalendarDate(2024, time.February, 31); !got.Equal(NewCalendarDate(2024, time.March, 2)) {
		t.Fatalf("Feb 31 2024 (leap) should normalize to Mar 2, got %s", got)
	}
}

func TestCalendarDate_AddMonths(t *testing.T) {
	jan31 := NewCalendarDate(2025, time.January, 31)

	if got := jan31.AddMonths(1); !got.Equal(NewCalendarDate(2025, time.March, 3)) {
		t.Fatalf("Jan 31 + 1 month should be Mar 3, got %s", got)
	}
	// anchored: two months from the anchor, not one month from the rolled date
	if got := jan31.AddMonths(2); !got.Equal(NewCalendarDate(2025, time.March, 31)) {
		t.Fatalf("Jan 31 + 2 months should be Mar 31, got %s", got)
	}
	if got := NewCalendarDate(2024, time.February, 29).AddYears(1); !got.Equal(NewCalendarDate(2025, time.March, 1)) {
		t.Fatalf("Feb 29 + 1 year should be Mar 1, got %s", got)
	}
}

func TestCalendarDate_Ordering(t *testing.T) {
	a := NewCalendarDate(2025, time.June, 30)
	b := NewCalendarDate(2025, time.July, 1)

	if !a.Before(b) || b.Before(a) || !b.After(a) {
		t.Fatal("ordering across a month boundary is wrong")
	}
	if a.Before(a) || a.After(a) || !a.Equal(a) {
		t.Fatal("a date must compare equal to itself")
	}
}

func TestParseCalendarDate(t *testing.T) {
	got, err := ParseCalendarDate("2026-01-20")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(NewCalendarDate(2026, time.January, 20)) {
		t.Fatalf("expected 2026-01-20, got %s", got)
	}

	// full timestamps keep the UTC date components
	got, err = ParseCalendarDate("2026-01-20T00:00:00Z")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(NewCalendarDate(2026, time.January, 20)) {
		t.Fatalf("expected 2026-01-20 from RFC 3339, got %s", got)
	}

	if _, err := ParseCalendarDate("20/01/2026"); err == nil {
		t.Fatal("expected an error for an unsupported format")
	}
}

func TestCalendarDate_JSON(t *testing.T) {
	type payload struct {
		Due CalendarDate `json:"due"`
	}

	var p payload
	if err := json.Unmarshal([]byte(`{"due":"2025-12-05"}`), &p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.Due.Equal(NewCalendarDate(2025, time.December, 5)) {
		t.Fatalf("expected 2025-12-05, got %s", p.Due)
	}

	out, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out) != `{"due":"2025-12-05"}` {
		t.Fatalf("unexpected JSON form: %s", out)
	}
}
