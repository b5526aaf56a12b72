package models

import (
	"context"

	"github.com/financelog/finance_backend/config"
	"github.com/financelog/finance_backend/utils"
	"github.com/shopspring/decimal"
)

type DashboardSummary struct {
	TotalBalance     decimal.Decimal `json:"total_balance"`
	MonthIncome      decimal.Decimal `json:"month_income"`
	MonthExpenses    decimal.Decimal `json:"month_expenses"`
	MonthSavings     decimal.Decimal `json:"month_savings"`
	TotalInvestments decimal.Decimal `json:"total_investments"`
}

// GetDashboardSummary aggregates the user's balances and the current
// calendar month's income/expense totals in SQL, so the numbers match the
// ledger even with many transactions.
func GetDashboardSummary(ctx context.Context, userId int, today utils.CalendarDate) (*DashboardSummary, error) {

	db := config.GetDB()
	summary := DashboardSummary{
		TotalBalance:     decimal.Zero,
		MonthIncome:      decimal.Zero,
		MonthExpenses:    decimal.Zero,
		MonthSavings:     decimal.Zero,
		TotalInvestments: decimal.Zero,
	}

	monthStart := utils.NewCalendarDate(today.Year, today.Month, 1)
	monthEnd := monthStart.AddMonths(1)

	var totalBalance decimal.NullDecimal
	err := db.WithContext(ctx).Model(&Account{}).
		Select("SUM(balance)").
		Where("user_id = ?", userId).
		Scan(&totalBalance).Error
	if err != nil {
		return nil, err
	}
	if totalBalance.Valid {
		summary.TotalBalance = totalBalance.Decimal
	}

	type monthRow struct {
		Type  TransactionType
		Total decimal.Decimal
	}
	var rows []monthRow
	err = db.WithContext(ctx).Model(&Transaction{}).
		Select("type, SUM(amount) AS total").
		Where("user_id = ? AND date >= ? AND date < ?", userId, monthStart.Time(), monthEnd.Time()).
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		switch row.Type {
		case TransactionTypeIncome:
			summary.MonthIncome = row.Total
		case TransactionTypeExpense:
			summary.MonthExpenses = row.Total
		}
	}
	summary.MonthSavings = summary.MonthIncome.Sub(summary.MonthExpenses)

	var totalInvestments decimal.NullDecimal
	err = db.WithContext(ctx).Model(&Investment{}).
		Select("SUM(current_amount)").
		Where("user_id = ?", userId).
		Scan(&totalInvestments).Error
	if err != nil {
		return nil, err
	}
	if totalInvestments.Valid {
		summary.TotalInvestments = totalInvestments.Decimal
	}

	return &summary, nil
}

// RecomputeAccountBalance replays the ledger for one account and returns the
// transaction-derived balance. Maintenance/debug helper; the reconciler keeps
// the stored balance in sync incrementally.
func RecomputeAccountBalance(ctx context.Context, accountId int, openingBalance decimal.Decimal) (decimal.Decimal, error) {

	db := config.GetDB()
	var txns []*Transaction
	if err := db.WithContext(ctx).Where("account_id = ?", accountId).Order("date, id").Find(&txns).Error; err != nil {
		return decimal.Zero, err
	}

	balance := openingBalance
	for _, t := range txns {
		balance = balance.Add(t.SignedAmount())
	}
	return balance, nil
}
