package handlers

import (
	"net/http"
	"sort"
	"time"

	"github.com/financelog/finance_backend/models"
	"github.com/financelog/finance_backend/utils"
	"github.com/financelog/finance_backend/workflow"
	"github.com/gin-gonic/gin"
)

type calendarEntry struct {
	Kind       string              `json:"kind"` // payment | transaction
	OwnerId    int                 `json:"owner_id"`
	Occurrence workflow.Occurrence `json:"occurrence"`
}

// CalendarHandler returns every expanded occurrence falling inside the
// requested month: payment schedules plus recurring transactions.
func CalendarHandler(c *gin.Context) {
	year := queryInt(c, "year")
	month := queryInt(c, "month")
	if year < 1970 || month < 1 || month > 12 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "year and month are required"})
		return
	}

	monthStart := utils.NewCalendarDate(year, time.Month(month), 1)
	monthEnd := monthStart.AddMonths(1).AddDays(-1)
	userId := currentUserId(c)

	var entries []calendarEntry
	collect := func(kind string, ownerId int, rule workflow.RecurrenceRule, overrides []workflow.OccurrenceOverride) {
		horizon := monthsUntil(rule.StartDate, monthEnd)
		if horizon <= 0 {
			horizon = 1
		}
		for _, occurrence := range workflow.ExpandOccurrences(rule, overrides, horizon) {
			if occurrence.DueDate.Before(monthStart) || occurrence.DueDate.After(monthEnd) {
				continue
			}
			entries = append(entries, calendarEntry{Kind: kind, OwnerId: ownerId, Occurrence: occurrence})
		}
	}

	payments, err := models.GetPayments(c.Request.Context(), userId, models.PaymentFilter{})
	if err != nil {
		respondError(c, "calendarHandler.go", "CalendarHandler", err)
		return
	}
	for _, payment := range payments {
		collect("payment", payment.ID, workflow.PaymentRule(payment), workflow.PaymentOverrides(payment))
	}

	transactions, err := models.GetTransactions(c.Request.Context(), userId, models.TransactionFilter{})
	if err != nil {
		respondError(c, "calendarHandler.go", "CalendarHandler", err)
		return
	}
	for _, transaction := range transactions {
		if transaction.IsRecurring == nil || !*transaction.IsRecurring {
			continue
		}
		collect("transaction", transaction.ID, workflow.TransactionRule(transaction), nil)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Occurrence.DueDate.Before(entries[j].Occurrence.DueDate)
	})
	if entries == nil {
		entries = make([]calendarEntry, 0)
	}
	c.JSON(http.StatusOK, entries)
}

// monthsUntil counts whole calendar months from start up to and including
// the month holding target.
func monthsUntil(start, target utils.CalendarDate) int {
	return (target.Year-start.Year)*12 + int(target.Month) - int(start.Month) + 1
}
