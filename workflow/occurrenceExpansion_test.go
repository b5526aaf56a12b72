package workflow

import (
	"reflect"
	"testing"
	"time"

	"github.com/financelog/finance_backend/models"
	"github.com/financelog/finance_backend/utils"
	"github.com/shopspring/decimal"
)

// NOTE: These tests are intentionally DB-free. Expansion is a pure function
// of the rule, its overrides and the horizon; everything here validates the
// promised properties: bounded output, strict ascending order, override
// precedence and determinism.

func monthlyRule(year int, month time.Month, day int) RecurrenceRule {
	return RecurrenceRule{
		OwnerId:    7,
		Name:       "Rent",
		Amount:     decimal.NewFromInt(1200),
		BaseStatus: models.PaymentStatusPending,
		StartDate:  utils.NewCalendarDate(year, month, day),
		Frequency:  models.FrequencyMonthly,
	}
}

func assertAscending(t *testing.T, occurrences []Occurrence) {
	t.Helper()
	for i := 1; i < len(occurrences); i++ {
		if !occurrences[i-1].DueDate.Before(occurrences[i].DueDate) {
			t.Fatalf("occurrences not strictly ascending at %d: %s then %s",
				i, occurrences[i-1].DueDate, occurrences[i].DueDate)
		}
	}
}

func TestExpandOccurrences_NonRecurring_SingleOccurrence(t *testing.T) {
	rule := monthlyRule(2025, time.March, 10)
	rule.Frequency = ""

	got := ExpandOccurrences(rule, nil, 0)
	if len(got) != 1 {
		t.Fatalf("expected exactly 1 occurrence, got %d", len(got))
	}
	if got[0].Id != "7" || got[0].Source != OccurrenceSourceOriginal {
		t.Fatalf("base occurrence should keep the record identity, got id=%q source=%q", got[0].Id, got[0].Source)
	}
	if !got[0].DueDate.Equal(rule.StartDate) {
		t.Fatalf("expected due date %s, got %s", rule.StartDate, got[0].DueDate)
	}
}

func TestExpandOccurrences_MonthlyDefaultHorizon(t *testing.T) {
	rule := monthlyRule(2025, time.March, 10)

	got := ExpandOccurrences(rule, nil, 0)

	// start plus 12 months inclusive
	if len(got) != 13 {
		t.Fatalf("expected 13 occurrences over the default horizon, got %d", len(got))
	}
	assertAscending(t, got)
	if !got[0].DueDate.Equal(utils.NewCalendarDate(2025, time.March, 10)) {
		t.Fatalf("first occurrence should be the start date, got %s", got[0].DueDate)
	}
	last := got[len(got)-1].DueDate
	if !last.Equal(utils.NewCalendarDate(2026, time.March, 10)) {
		t.Fatalf("last occurrence should land exactly on the horizon, got %s", last)
	}
	for i, o := range got {
		if o.DueDate.Day != 10 {
			t.Fatalf("occurrence %d drifted off the anchor day: %s", i, o.DueDate)
		}
	}
}

func TestExpandOccurrences_OverridePrecedence(t *testing.T) {
	rule := monthlyRule(2025, time.March, 10)
	overrides := []OccurrenceOverride{
		{Id: 41, Date: utils.NewCalendarDate(2025, time.April, 10), Status: models.PaymentStatusPaid},
		// a second override on the same date must lose: first match wins
		{Id: 99, Date: utils.NewCalendarDate(2025, time.April, 10), Status: models.PaymentStatusOverdue},
	}

	got := ExpandOccurrences(rule, overrides, 3)
	if len(got) != 4 {
		t.Fatalf("expected 4 occurrences, got %d", len(got))
	}

	if got[0].Id != "7" || got[0].Source != OccurrenceSourceOriginal {
		t.Fatalf("start date must keep the base identity, got id=%q source=%q", got[0].Id, got[0].Source)
	}
	if got[1].Id != "41" || got[1].Status != models.PaymentStatusPaid || got[1].Source != OccurrenceSourceOverride {
		t.Fatalf("override must be authoritative for its date, got id=%q status=%q source=%q",
			got[1].Id, got[1].Status, got[1].Source)
	}
	if got[2].Id != "7::2025-05-10" || got[2].Status != models.PaymentStatusPending || got[2].Source != OccurrenceSourceSynthesized {
		t.Fatalf("unmatched dates must synthesize pending with a composite id, got id=%q status=%q source=%q",
			got[2].Id, got[2].Status, got[2].Source)
	}
}

func TestExpandOccurrences_Deterministic(t *testing.T) {
	rule := monthlyRule(2025, time.January, 31)
	overrides := []OccurrenceOverride{
		{Id: 3, Date: utils.NewCalendarDate(2025, time.March, 31), Status: models.PaymentStatusPaid},
	}

	first := ExpandOccurrences(rule, overrides, 6)
	for run := 0; run < 50; run++ {
		again := ExpandOccurrences(rule, overrides, 6)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run=%d expansion is not deterministic", run)
		}
	}
}

func TestExpandOccurrences_MonthEndNormalization(t *testing.T) {
	rule := monthlyRule(2025, time.January, 31)

	got := ExpandOccurrences(rule, nil, 3)

	// Jan 31 + 1 month normalizes through "Feb 31" into Mar 3; the horizon
	// bound itself normalizes the same way ("Apr 31" = May 1, inclusive).
	want := []utils.CalendarDate{
		utils.NewCalendarDate(2025, time.January, 31),
		utils.NewCalendarDate(2025, time.March, 3),
		utils.NewCalendarDate(2025, time.March, 31),
		utils.NewCalendarDate(2025, time.May, 1),
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d occurrences, got %d", len(want), len(got))
	}
	for i := range want {
		if !got[i].DueDate.Equal(want[i]) {
			t.Fatalf("occurrence %d: expected %s, got %s", i, want[i], got[i].DueDate)
		}
	}
	assertAscending(t, got)
}

func TestExpandOccurrences_WeeklySteps(t *testing.T) {
	rule := monthlyRule(2025, time.June, 2)
	rule.Frequency = models.FrequencyWeekly

	got := ExpandOccurrences(rule, nil, 1)

	// Jun 2 .. Jul 2 bound: Jun 2, 9, 16, 23, 30
	if len(got) != 5 {
		t.Fatalf("expected 5 weekly occurrences inside one month, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		prev := got[i-1].DueDate.AddDays(7)
		if !got[i].DueDate.Equal(prev) {
			t.Fatalf("occurrence %d is not 7 days after the previous: %s", i, got[i].DueDate)
		}
	}
}

func TestExpandOccurrences_YearlyLeapDay(t *testing.T) {
	rule := monthlyRule(2024, time.February, 29)
	rule.Frequency = models.FrequencyYearly

	got := ExpandOccurrences(rule, nil, 14)
	if len(got) != 2 {
		t.Fatalf("expected 2 yearly occurrences, got %d", len(got))
	}
	if !got[1].DueDate.Equal(utils.NewCalendarDate(2025, time.March, 1)) {
		t.Fatalf("Feb 29 must roll to Mar 1 in a non-leap year, got %s", got[1].DueDate)
	}
}

func TestExpandOccurrences_EndDateBounds(t *testing.T) {
	rule := monthlyRule(2025, time.March, 10)
	end := utils.NewCalendarDate(2025, time.June, 10)
	rule.EndDate = &end

	got := ExpandOccurrences(rule, nil, 0)
	if len(got) != 4 {
		t.Fatalf("end date is inclusive: expected 4 occurrences, got %d", len(got))
	}
	if !got[len(got)-1].DueDate.Equal(end) {
		t.Fatalf("last occurrence should land on the end date, got %s", got[len(got)-1].DueDate)
	}

	before := utils.NewCalendarDate(2025, time.February, 1)
	rule.EndDate = &before
	if got := ExpandOccurrences(rule, nil, 0); len(got) != 0 {
		t.Fatalf("end before start must expand to nothing, got %d occurrences", len(got))
	}
}

func TestExpandOccurrences_ZeroStartDate(t *testing.T) {
	rule := monthlyRule(2025, time.March, 10)
	rule.StartDate = utils.CalendarDate{}

	if got := ExpandOccurrences(rule, nil, 0); got != nil {
		t.Fatalf("a rule without a start date must expand to nil, got %d occurrences", len(got))
	}
}

func TestNextDue(t *testing.T) {
	rule := monthlyRule(2025, time.March, 10)
	occurrences := ExpandOccurrences(rule, nil, 0)

	next := NextDue(occurrences, utils.NewCalendarDate(2025, time.April, 11))
	if next == nil {
		t.Fatal("expected an upcoming occurrence")
	}
	if !next.DueDate.Equal(utils.NewCalendarDate(2025, time.May, 10)) {
		t.Fatalf("expected next due 2025-05-10, got %s", next.DueDate)
	}

	// due today counts as upcoming
	onDue := NextDue(occurrences, utils.NewCalendarDate(2025, time.May, 10))
	if onDue == nil || !onDue.DueDate.Equal(utils.NewCalendarDate(2025, time.May, 10)) {
		t.Fatal("an occurrence due today must be returned")
	}

	if past := NextDue(occurrences, utils.NewCalendarDate(2027, time.January, 1)); past != nil {
		t.Fatalf("no occurrence after the horizon, got %s", past.DueDate)
	}
}
