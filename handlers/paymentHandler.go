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

func ListPaymentsHandler(c *gin.Context) {
	startDate, ok := queryDate(c, "start_date")
	if !ok {
		return
	}
	endDate, ok := queryDate(c, "end_date")
	if !ok {
		return
	}

	filter := models.PaymentFilter{
		Status:     models.PaymentStatus(c.Query("status")),
		CategoryId: queryInt(c, "category_id"),
		StartDate:  startDate,
		EndDate:    endDate,
		SortBy:     c.Query("sort_by"),
		Order:      c.Query("order"),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment status"})
		return
	}

	payments, err := models.GetPayments(c.Request.Context(), currentUserId(c), filter)
	if err != nil {
		respondError(c, "paymentHandler.go", "ListPaymentsHandler", err)
		return
	}
	if payments == nil {
		payments = make([]*models.Payment, 0)
	}
	c.JSON(http.StatusOK, payments)
}

func GetPaymentHandler(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	payment, err := models.GetPayment(c.Request.Context(), currentUserId(c), id)
	if err != nil {
		respondError(c, "paymentHandler.go", "GetPaymentHandler", err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

func CreatePaymentHandler(c *gin.Context) {
	var input models.NewPayment
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payment, err := models.CreatePayment(c.Request.Context(), currentUserId(c), &input)
	if err != nil {
		respondError(c, "paymentHandler.go", "CreatePaymentHandler", err)
		return
	}
	c.JSON(http.StatusCreated, payment)
}

func UpdatePaymentHandler(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	var input models.NewPayment
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payment, err := models.UpdatePayment(c.Request.Context(), currentUserId(c), id, &input)
	if err != nil {
		respondError(c, "paymentHandler.go", "UpdatePaymentHandler", err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

func DeletePaymentHandler(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	payment, err := models.DeletePayment(c.Request.Context(), currentUserId(c), id)
	if err != nil {
		respondError(c, "paymentHandler.go", "DeletePaymentHandler", err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

// ExpandPaymentHandler returns the payment's occurrence schedule over the
// requested horizon (months query, default 12).
func ExpandPaymentHandler(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	payment, err := models.GetPayment(c.Request.Context(), currentUserId(c), id)
	if err != nil {
		respondError(c, "paymentHandler.go", "ExpandPaymentHandler", err)
		return
	}

	occurrences := workflow.ExpandPayment(payment, queryInt(c, "months"))
	if occurrences == nil {
		occurrences = make([]workflow.Occurrence, 0)
	}
	c.JSON(http.StatusOK, occurrences)
}

func CreatePaymentOccurrenceHandler(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	var input models.NewPaymentOccurrence
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	occurrence, err := models.CreatePaymentOccurrence(c.Request.Context(), currentUserId(c), id, &input)
	if err != nil {
		respondError(c, "paymentHandler.go", "CreatePaymentOccurrenceHandler", err)
		return
	}
	c.JSON(http.StatusCreated, occurrence)
}

func DeletePaymentOccurrenceHandler(c *gin.Context) {
	occurrenceId, ok := pathId(c, "occurrenceId")
	if !ok {
		return
	}
	occurrence, err := models.DeletePaymentOccurrence(c.Request.Context(), currentUserId(c), occurrenceId)
	if err != nil {
		respondError(c, "paymentHandler.go", "DeletePaymentOccurrenceHandler", err)
		return
	}
	c.JSON(http.StatusOK, occurrence)
}

type upcomingPayment struct {
	Payment    *models.Payment     `json:"payment"`
	Occurrence workflow.Occurrence `json:"occurrence"`
}

// UpcomingPaymentsHandler returns each payment's next due occurrence from
// today on, closest first. The limit query caps the list (default 10).
func UpcomingPaymentsHandler(c *gin.Context) {
	payments, err := models.GetPayments(c.Request.Context(), currentUserId(c), models.PaymentFilter{})
	if err != nil {
		respondError(c, "paymentHandler.go", "UpcomingPaymentsHandler", err)
		return
	}

	today := utils.CalendarDateOf(time.Now().UTC())
	upcoming := make([]upcomingPayment, 0, len(payments))
	for _, payment := range payments {
		next := workflow.NextDue(workflow.ExpandPayment(payment, 0), today)
		if next == nil {
			continue
		}
		upcoming = append(upcoming, upcomingPayment{Payment: payment, Occurrence: *next})
	}
	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].Occurrence.DueDate.Before(upcoming[j].Occurrence.DueDate)
	})

	limit := queryInt(c, "limit")
	if limit <= 0 {
		limit = 10
	}
	if len(upcoming) > limit {
		upcoming = upcoming[:limit]
	}
	c.JSON(http.StatusOK, upcoming)
}
