package models

import (
	"context"
	"fmt"
	"time"

	"github.com/financelog/finance_backend/config"
	"github.com/financelog/finance_backend/utils"
	"github.com/shopspring/decimal"
)

type Transaction struct {
	ID                int             `gorm:"primary_key" json:"id"`
	UserId            int             `gorm:"index;not null" json:"user_id"`
	AccountId         int             `gorm:"index;not null" json:"account_id"`
	CategoryId        int             `gorm:"index;not null" json:"category_id"`
	Type              TransactionType `gorm:"type:enum('income', 'expense', 'transfer');size:10;not null" json:"type"`
	Amount            decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount"`
	Description       string          `gorm:"size:255;not null" json:"description"`
	Date              time.Time       `gorm:"index;not null" json:"date"`
	IsRecurring       *bool           `gorm:"not null;default:false" json:"is_recurring"`
	Frequency         *Frequency      `gorm:"type:enum('weekly', 'monthly', 'yearly');size:10" json:"frequency"`
	RecurrenceEndDate *time.Time      `json:"recurrence_end_date"`
	Tags              string          `gorm:"type:text" json:"tags"`
	Account           *Account        `gorm:"foreignKey:AccountId" json:"account,omitempty"`
	Category          *Category       `gorm:"foreignKey:CategoryId" json:"category,omitempty"`
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (t Transaction) GetId() int {
	return t.ID
}

// SignedAmount is the transaction's effect on its account balance: positive
// for income, negative for everything else. Transfers debit only the single
// referenced account (single-entry model carried over from the original
// system, not double-entry).
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.Type == TransactionTypeIncome {
		return t.Amount
	}
	return t.Amount.Neg()
}

type NewTransaction struct {
	Type              TransactionType     `json:"type" binding:"required"`
	Amount            decimal.Decimal     `json:"amount" binding:"required"`
	Description       string              `json:"description" binding:"required"`
	Date              utils.CalendarDate  `json:"date" binding:"required"`
	IsRecurring       *bool               `json:"is_recurring"`
	Frequency         *Frequency          `json:"frequency"`
	RecurrenceEndDate *utils.CalendarDate `json:"recurrence_end_date"`
	Tags              string              `json:"tags"`
	AccountId         int                 `json:"account_id" binding:"required"`
	CategoryId        int                 `json:"category_id" binding:"required"`
}

// TransactionChanges carries a partial update; nil fields keep the stored
// value (original PUT semantics).
type TransactionChanges struct {
	Type              *TransactionType    `json:"type"`
	Amount            *decimal.Decimal    `json:"amount"`
	Description       *string             `json:"description"`
	Date              *utils.CalendarDate `json:"date"`
	IsRecurring       *bool               `json:"is_recurring"`
	Frequency         *Frequency          `json:"frequency"`
	RecurrenceEndDate *utils.CalendarDate `json:"recurrence_end_date"`
	Tags              *string             `json:"tags"`
	AccountId         *int                `json:"account_id"`
	CategoryId        *int                `json:"category_id"`
}

func (input *NewTransaction) Validate(ctx context.Context, userId int) error {
	if !input.Type.Valid() {
		return fmt.Errorf("%w: invalid transaction type %q", utils.ErrorValidation, input.Type)
	}
	if !input.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", utils.ErrorValidation)
	}
	if input.Frequency != nil && !input.Frequency.Valid() {
		return fmt.Errorf("%w: invalid frequency %q", utils.ErrorValidation, *input.Frequency)
	}
	if err := utils.ValidateResourceId[Account](ctx, userId, input.AccountId); err != nil {
		return fmt.Errorf("%w: account not found", utils.ErrorRecordNotFound)
	}
	if _, err := utils.FetchSingleModel[Category](ctx, input.CategoryId); err != nil {
		return fmt.Errorf("%w: category not found", utils.ErrorRecordNotFound)
	}
	return nil
}

func (input *TransactionChanges) Validate(ctx context.Context, userId int) error {
	if input.Type != nil && !input.Type.Valid() {
		return fmt.Errorf("%w: invalid transaction type %q", utils.ErrorValidation, *input.Type)
	}
	if input.Amount != nil && !input.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", utils.ErrorValidation)
	}
	if input.Frequency != nil && *input.Frequency != "" && !input.Frequency.Valid() {
		return fmt.Errorf("%w: invalid frequency %q", utils.ErrorValidation, *input.Frequency)
	}
	if input.AccountId != nil {
		if err := utils.ValidateResourceId[Account](ctx, userId, *input.AccountId); err != nil {
			return fmt.Errorf("%w: account not found", utils.ErrorRecordNotFound)
		}
	}
	if input.CategoryId != nil {
		if _, err := utils.FetchSingleModel[Category](ctx, *input.CategoryId); err != nil {
			return fmt.Errorf("%w: category not found", utils.ErrorRecordNotFound)
		}
	}
	return nil
}

type TransactionFilter struct {
	AccountId  int
	CategoryId int
	Type       TransactionType
	StartDate  *utils.CalendarDate
	EndDate    *utils.CalendarDate
	SortBy     string
	Order      string
}

var transactionSortColumns = map[string]string{
	"date":       "date",
	"amount":     "amount",
	"created_at": "created_at",
}

func GetTransaction(ctx context.Context, userId int, id int) (*Transaction, error) {
	return utils.FetchModel[Transaction](ctx, userId, id, "Account", "Category")
}

func GetTransactions(ctx context.Context, userId int, filter TransactionFilter) ([]*Transaction, error) {

	db := config.GetDB()
	var results []*Transaction

	dbCtx := db.WithContext(ctx).Where("user_id = ?", userId).
		Preload("Account").Preload("Category")

	if filter.AccountId > 0 {
		dbCtx = dbCtx.Where("account_id = ?", filter.AccountId)
	}
	if filter.CategoryId > 0 {
		dbCtx = dbCtx.Where("category_id = ?", filter.CategoryId)
	}
	if filter.Type != "" {
		dbCtx = dbCtx.Where("type = ?", filter.Type)
	}
	if filter.StartDate != nil {
		dbCtx = dbCtx.Where("date >= ?", filter.StartDate.Time())
	}
	if filter.EndDate != nil {
		dbCtx = dbCtx.Where("date <= ?", filter.EndDate.Time())
	}

	sortBy, ok := transactionSortColumns[filter.SortBy]
	if !ok {
		sortBy = "date"
	}
	order := "DESC"
	if filter.Order == "asc" {
		order = "ASC"
	}

	if err := dbCtx.Order(sortBy + " " + order).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
