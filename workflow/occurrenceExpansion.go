package workflow

import (
	"fmt"
	"strconv"

	"github.com/financelog/finance_backend/config"
	"github.com/financelog/finance_backend/models"
	"github.com/financelog/finance_backend/utils"
	"github.com/shopspring/decimal"
)

// DefaultHorizonMonths bounds synthesized dates when a recurring rule has no
// end date.
const DefaultHorizonMonths = 12

type OccurrenceSource string

const (
	OccurrenceSourceOriginal    OccurrenceSource = "original"
	OccurrenceSourceOverride    OccurrenceSource = "override"
	OccurrenceSourceSynthesized OccurrenceSource = "synthesized"
)

// RecurrenceRule is the compact definition a recurring payment or
// transaction expands from. Frequency "" means not recurring.
type RecurrenceRule struct {
	OwnerId    int
	Name       string
	Amount     decimal.Decimal
	BaseStatus models.PaymentStatus
	StartDate  utils.CalendarDate
	Frequency  models.Frequency
	EndDate    *utils.CalendarDate
}

// OccurrenceOverride is an explicitly recorded state for one calendar date
// of a recurring rule.
type OccurrenceOverride struct {
	Id     int
	Date   utils.CalendarDate
	Status models.PaymentStatus
}

// Occurrence is one concrete dated instance produced by expansion. It is
// derived, never persisted; user action promotes a synthesized occurrence to
// a stored override.
type Occurrence struct {
	Id      string             `json:"id"`
	DueDate utils.CalendarDate `json:"due_date"`
	Status  models.PaymentStatus `json:"status"`
	Amount  decimal.Decimal    `json:"amount"`
	Name    string             `json:"name"`
	Source  OccurrenceSource   `json:"source"`
}

// ExpandOccurrences turns a recurrence rule into its bounded, ordered list
// of concrete occurrences. The walk is anchored on the start date: the i-th
// monthly occurrence is start plus i calendar months (time.Date
// normalization rolls a missing day 29–31 into the first days of the next
// month, so Jan 31 yields Mar 2 for February — deterministic and strictly
// ascending, a month is never skipped outright). The end date, when set,
// wins over the horizon. Pure function: same inputs, same output, no state.
func ExpandOccurrences(rule RecurrenceRule, overrides []OccurrenceOverride, horizonMonths int) []Occurrence {
	if rule.StartDate.IsZero() {
		return nil
	}
	if horizonMonths <= 0 {
		horizonMonths = DefaultHorizonMonths
	}

	if rule.Frequency == "" {
		return []Occurrence{baseOccurrence(rule)}
	}

	upper := rule.StartDate.AddMonths(horizonMonths)
	if rule.EndDate != nil {
		upper = *rule.EndDate
	}

	var result []Occurrence
	for i := 0; ; i++ {
		var date utils.CalendarDate
		switch rule.Frequency {
		case models.FrequencyWeekly:
			date = rule.StartDate.AddDays(7 * i)
		case models.FrequencyMonthly:
			date = rule.StartDate.AddMonths(i)
		case models.FrequencyYearly:
			date = rule.StartDate.AddYears(i)
		default:
			return []Occurrence{baseOccurrence(rule)}
		}

		if date.After(upper) {
			break
		}
		// anchored steps cannot repeat a date, but expansion promises a
		// deduplicated sequence
		if len(result) > 0 && result[len(result)-1].DueDate.Equal(date) {
			continue
		}
		result = append(result, resolveOccurrence(rule, overrides, date))
	}
	return result
}

func baseOccurrence(rule RecurrenceRule) Occurrence {
	return Occurrence{
		Id:      strconv.Itoa(rule.OwnerId),
		DueDate: rule.StartDate,
		Status:  rule.BaseStatus,
		Amount:  rule.Amount,
		Name:    rule.Name,
		Source:  OccurrenceSourceOriginal,
	}
}

// resolveOccurrence picks the identity and status for one generated date:
// a recorded override wins (first match on the calendar date is
// authoritative), the start date keeps the base record's identity, anything
// else is synthesized pending with a composite id.
func resolveOccurrence(rule RecurrenceRule, overrides []OccurrenceOverride, date utils.CalendarDate) Occurrence {
	for _, o := range overrides {
		if o.Date.Equal(date) {
			return Occurrence{
				Id:      strconv.Itoa(o.Id),
				DueDate: date,
				Status:  o.Status,
				Amount:  rule.Amount,
				Name:    rule.Name,
				Source:  OccurrenceSourceOverride,
			}
		}
	}
	if date.Equal(rule.StartDate) {
		return baseOccurrence(rule)
	}
	return Occurrence{
		Id:      fmt.Sprintf("%d::%s", rule.OwnerId, date),
		DueDate: date,
		Status:  models.PaymentStatusPending,
		Amount:  rule.Amount,
		Name:    rule.Name,
		Source:  OccurrenceSourceSynthesized,
	}
}

// PaymentRule converts a stored payment to its recurrence rule. Stored
// timestamps are UTC midnights; the calendar date is read back in UTC so the
// day never shifts with the server's offset.
func PaymentRule(p *models.Payment) RecurrenceRule {
	rule := RecurrenceRule{
		OwnerId:    p.ID,
		Name:       p.Name,
		Amount:     p.Amount,
		BaseStatus: p.Status,
		StartDate:  utils.CalendarDateOf(p.DueDate.UTC()),
	}
	if p.IsRecurring != nil && *p.IsRecurring && p.Frequency != nil {
		rule.Frequency = *p.Frequency
		if p.RecurrenceEndDate != nil {
			end := utils.CalendarDateOf(p.RecurrenceEndDate.UTC())
			rule.EndDate = &end
		}
	}
	return rule
}

func PaymentOverrides(p *models.Payment) []OccurrenceOverride {
	overrides := make([]OccurrenceOverride, 0, len(p.Occurrences))
	for _, o := range p.Occurrences {
		overrides = append(overrides, OccurrenceOverride{
			Id:     o.ID,
			Date:   utils.CalendarDateOf(o.DueDate.UTC()),
			Status: o.Status,
		})
	}
	return overrides
}

// TransactionRule treats a recurring transaction like a recurring payment;
// transactions carry no overrides, so expansion always synthesizes beyond
// the start date.
func TransactionRule(t *models.Transaction) RecurrenceRule {
	rule := RecurrenceRule{
		OwnerId:    t.ID,
		Name:       t.Description,
		Amount:     t.Amount,
		BaseStatus: models.PaymentStatusPaid,
		StartDate:  utils.CalendarDateOf(t.Date.UTC()),
	}
	if t.IsRecurring != nil && *t.IsRecurring && t.Frequency != nil {
		rule.Frequency = *t.Frequency
		if t.RecurrenceEndDate != nil {
			end := utils.CalendarDateOf(t.RecurrenceEndDate.UTC())
			rule.EndDate = &end
		}
	}
	return rule
}

// ExpandPayment expands a payment with its recorded overrides merged in.
// The default-horizon expansion is memoized in Redis under
// PaymentOccurrences:<id> (payment mutations drop the key); any other
// horizon recomputes, which is cheap.
func ExpandPayment(p *models.Payment, horizonMonths int) []Occurrence {
	if horizonMonths == DefaultHorizonMonths || horizonMonths <= 0 {
		key := "PaymentOccurrences:" + strconv.Itoa(p.ID)
		var cached []Occurrence
		exists, err := config.GetRedisObject(key, &cached)
		if err == nil && exists {
			return cached
		}
		result := ExpandOccurrences(PaymentRule(p), PaymentOverrides(p), DefaultHorizonMonths)
		if err := config.SetRedisObject(key, result, 0); err != nil {
			config.LogError(config.GetLogger(), "occurrenceExpansion.go", "ExpandPayment", "SetRedisObject", p.ID, err)
		}
		return result
	}
	return ExpandOccurrences(PaymentRule(p), PaymentOverrides(p), horizonMonths)
}

// NextDue returns the first occurrence on or after today, or nil when the
// rule is exhausted before then.
func NextDue(occurrences []Occurrence, today utils.CalendarDate) *Occurrence {
	for i := range occurrences {
		if !occurrences[i].DueDate.Before(today) {
			return &occurrences[i]
		}
	}
	return nil
}
