package models

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/financelog/finance_backend/config"
	"github.com/financelog/finance_backend/utils"
	"github.com/shopspring/decimal"
)

type Payment struct {
	ID                int                 `gorm:"primary_key" json:"id"`
	UserId            int                 `gorm:"index;not null" json:"user_id"`
	Name              string              `gorm:"size:100;not null" json:"name" binding:"required"`
	Amount            decimal.Decimal     `gorm:"type:decimal(20,4);not null" json:"amount"`
	DueDate           time.Time           `gorm:"index;not null" json:"due_date"`
	IsRecurring       *bool               `gorm:"not null;default:false" json:"is_recurring"`
	Frequency         *Frequency          `gorm:"type:enum('weekly', 'monthly', 'yearly');size:10" json:"frequency"`
	RecurrenceEndDate *time.Time          `json:"recurrence_end_date"`
	Status            PaymentStatus       `gorm:"type:enum('pending', 'paid', 'overdue');default:'pending';size:10;not null" json:"status"`
	CategoryId        int                 `gorm:"index;not null" json:"category_id"`
	AccountId         *int                `gorm:"index" json:"account_id"`
	Category          *Category           `gorm:"foreignKey:CategoryId" json:"category,omitempty"`
	Account           *Account            `gorm:"foreignKey:AccountId" json:"account,omitempty"`
	Occurrences       []PaymentOccurrence `gorm:"foreignKey:PaymentId" json:"occurrences"`
	CreatedAt         time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
}

// PaymentOccurrence is a user-recorded state for one calendar date of a
// recurring payment ("this month's rent is paid"). Expansion matches them
// by calendar date, not identity.
type PaymentOccurrence struct {
	ID        int           `gorm:"primary_key" json:"id"`
	PaymentId int           `gorm:"index;not null" json:"payment_id"`
	DueDate   time.Time     `gorm:"index;not null" json:"due_date"`
	Status    PaymentStatus `gorm:"type:enum('pending', 'paid', 'overdue');default:'pending';size:10;not null" json:"status"`
	CreatedAt time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

func (p Payment) GetId() int {
	return p.ID
}

/*
caches:
	PaymentOccurrences:$paymentId
*/

func (p Payment) RemoveInstanceRedis() error {
	return config.RemoveRedisKey("PaymentOccurrences:" + strconv.Itoa(p.ID))
}

type NewPayment struct {
	Name              string              `json:"name" binding:"required"`
	Amount            decimal.Decimal     `json:"amount" binding:"required"`
	DueDate           utils.CalendarDate  `json:"due_date" binding:"required"`
	IsRecurring       *bool               `json:"is_recurring"`
	Frequency         *Frequency          `json:"frequency"`
	RecurrenceEndDate *utils.CalendarDate `json:"recurrence_end_date"`
	Status            PaymentStatus       `json:"status"`
	CategoryId        int                 `json:"category_id" binding:"required"`
	AccountId         *int                `json:"account_id"`
}

type NewPaymentOccurrence struct {
	DueDate utils.CalendarDate `json:"due_date" binding:"required"`
	Status  PaymentStatus      `json:"status"`
}

func (input *NewPayment) validate(ctx context.Context, userId int) error {
	if input.Amount.IsNegative() {
		return fmt.Errorf("%w: amount must not be negative", utils.ErrorValidation)
	}
	if input.Status != "" && !input.Status.Valid() {
		return fmt.Errorf("%w: invalid payment status %q", utils.ErrorValidation, input.Status)
	}
	if input.Frequency != nil && !input.Frequency.Valid() {
		return fmt.Errorf("%w: invalid frequency %q", utils.ErrorValidation, *input.Frequency)
	}
	if _, err := utils.FetchSingleModel[Category](ctx, input.CategoryId); err != nil {
		return fmt.Errorf("%w: category not found", utils.ErrorRecordNotFound)
	}
	if input.AccountId != nil {
		if err := utils.ValidateResourceId[Account](ctx, userId, *input.AccountId); err != nil {
			return fmt.Errorf("%w: account not found", utils.ErrorRecordNotFound)
		}
	}
	return nil
}

func CreatePayment(ctx context.Context, userId int, input *NewPayment) (*Payment, error) {

	if err := input.validate(ctx, userId); err != nil {
		return nil, err
	}

	payment := Payment{
		UserId:      userId,
		Name:        input.Name,
		Amount:      utils.MoneyRound(input.Amount),
		DueDate:     input.DueDate.Time(),
		IsRecurring: input.IsRecurring,
		Frequency:   input.Frequency,
		Status:      input.Status,
		CategoryId:  input.CategoryId,
		AccountId:   input.AccountId,
	}
	if payment.IsRecurring == nil {
		payment.IsRecurring = utils.NewFalse()
	}
	if payment.Status == "" {
		payment.Status = PaymentStatusPending
	}
	if input.RecurrenceEndDate != nil {
		end := input.RecurrenceEndDate.Time()
		payment.RecurrenceEndDate = &end
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func UpdatePayment(ctx context.Context, userId int, id int, input *NewPayment) (*Payment, error) {

	if err := input.validate(ctx, userId); err != nil {
		return nil, err
	}

	payment, err := utils.FetchModel[Payment](ctx, userId, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"Name":       input.Name,
		"Amount":     utils.MoneyRound(input.Amount),
		"DueDate":    input.DueDate.Time(),
		"CategoryId": input.CategoryId,
		"AccountId":  input.AccountId,
	}
	if input.IsRecurring != nil {
		updates["IsRecurring"] = *input.IsRecurring
	}
	if input.Frequency != nil {
		updates["Frequency"] = *input.Frequency
	}
	if input.RecurrenceEndDate != nil {
		updates["RecurrenceEndDate"] = input.RecurrenceEndDate.Time()
	}
	if input.Status != "" {
		updates["Status"] = input.Status
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(payment).Updates(updates).Error; err != nil {
		return nil, err
	}

	if err := payment.RemoveInstanceRedis(); err != nil {
		config.LogError(config.GetLogger(), "payment.go", "UpdatePayment", "RemoveInstanceRedis", payment.ID, err)
	}
	return payment, nil
}

func DeletePayment(ctx context.Context, userId int, id int) (*Payment, error) {

	payment, err := utils.FetchModel[Payment](ctx, userId, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	tx := db.Begin()
	if err := tx.WithContext(ctx).Where("payment_id = ?", id).Delete(&PaymentOccurrence{}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.WithContext(ctx).Delete(payment).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	if err := payment.RemoveInstanceRedis(); err != nil {
		config.LogError(config.GetLogger(), "payment.go", "DeletePayment", "RemoveInstanceRedis", payment.ID, err)
	}
	return payment, nil
}

func GetPayment(ctx context.Context, userId int, id int) (*Payment, error) {
	return utils.FetchModel[Payment](ctx, userId, id, "Category", "Account", "Occurrences")
}

type PaymentFilter struct {
	Status     PaymentStatus
	CategoryId int
	StartDate  *utils.CalendarDate
	EndDate    *utils.CalendarDate
	SortBy     string
	Order      string
}

var paymentSortColumns = map[string]string{
	"due_date":   "due_date",
	"amount":     "amount",
	"created_at": "created_at",
}

func GetPayments(ctx context.Context, userId int, filter PaymentFilter) ([]*Payment, error) {

	db := config.GetDB()
	var results []*Payment

	dbCtx := db.WithContext(ctx).Where("user_id = ?", userId).
		Preload("Category").Preload("Account").Preload("Occurrences")

	if filter.Status != "" {
		dbCtx = dbCtx.Where("status = ?", filter.Status)
	}
	if filter.CategoryId > 0 {
		dbCtx = dbCtx.Where("category_id = ?", filter.CategoryId)
	}
	if filter.StartDate != nil {
		dbCtx = dbCtx.Where("due_date >= ?", filter.StartDate.Time())
	}
	if filter.EndDate != nil {
		dbCtx = dbCtx.Where("due_date <= ?", filter.EndDate.Time())
	}

	sortBy, ok := paymentSortColumns[filter.SortBy]
	if !ok {
		sortBy = "due_date"
	}
	order := "ASC"
	if filter.Order == "desc" {
		order = "DESC"
	}

	if err := dbCtx.Order(sortBy + " " + order).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// CreatePaymentOccurrence records explicit state for one calendar date of a
// recurring payment. Default status is paid: recording an occurrence is how
// the user marks a synthesized instance as settled.
func CreatePaymentOccurrence(ctx context.Context, userId int, paymentId int, input *NewPaymentOccurrence) (*PaymentOccurrence, error) {

	payment, err := utils.FetchModel[Payment](ctx, userId, paymentId)
	if err != nil {
		return nil, err
	}
	if input.Status != "" && !input.Status.Valid() {
		return nil, fmt.Errorf("%w: invalid payment status %q", utils.ErrorValidation, input.Status)
	}

	occurrence := PaymentOccurrence{
		PaymentId: payment.ID,
		DueDate:   input.DueDate.Time(),
		Status:    input.Status,
	}
	if occurrence.Status == "" {
		occurrence.Status = PaymentStatusPaid
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&occurrence).Error; err != nil {
		return nil, err
	}

	if err := payment.RemoveInstanceRedis(); err != nil {
		config.LogError(config.GetLogger(), "payment.go", "CreatePaymentOccurrence", "RemoveInstanceRedis", payment.ID, err)
	}
	return &occurrence, nil
}

func DeletePaymentOccurrence(ctx context.Context, userId int, occurrenceId int) (*PaymentOccurrence, error) {

	occurrence, err := utils.FetchSingleModel[PaymentOccurrence](ctx, occurrenceId)
	if err != nil {
		return nil, err
	}

	payment, err := utils.FetchModel[Payment](ctx, userId, occurrence.PaymentId)
	if err != nil {
		return nil, utils.ErrorForbidden
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(occurrence).Error; err != nil {
		return nil, err
	}

	if err := payment.RemoveInstanceRedis(); err != nil {
		config.LogError(config.GetLogger(), "payment.go", "DeletePaymentOccurrence", "RemoveInstanceRedis", payment.ID, err)
	}
	return occurrence, nil
}
