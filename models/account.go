package models

import (
	"context"
	"fmt"
	"time"

	"github.com/financelog/finance_backend/config"
	"github.com/financelog/finance_backend/utils"
	"github.com/shopspring/decimal"
)

type Account struct {
	ID        int             `gorm:"primary_key" json:"id"`
	UserId    int             `gorm:"index;not null" json:"user_id"`
	Name      string          `gorm:"size:100;not null" json:"name" binding:"required"`
	Type      AccountType     `gorm:"type:enum('checking', 'savings', 'credit_card', 'wallet', 'cash');default:'checking';size:20;not null" json:"type" binding:"required"`
	Balance   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"balance"`
	Currency  string          `gorm:"size:3;not null;default:'BRL'" json:"currency"`
	Color     string          `gorm:"size:20" json:"color"`
	Icon      string          `gorm:"size:50" json:"icon"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewAccount struct {
	Name     string          `json:"name" binding:"required"`
	Type     AccountType     `json:"type" binding:"required"`
	Balance  decimal.Decimal `json:"balance"`
	Currency string          `json:"currency"`
	Color    string          `json:"color"`
	Icon     string          `json:"icon"`
}

func (a Account) GetId() int {
	return a.ID
}

func (input *NewAccount) validate(ctx context.Context, userId int, id int) error {
	if !input.Type.Valid() {
		return fmt.Errorf("%w: invalid account type %q", utils.ErrorValidation, input.Type)
	}
	if input.Balance.IsNegative() && input.Type != AccountTypeCreditCard {
		return fmt.Errorf("%w: negative opening balance", utils.ErrorValidation)
	}
	if err := utils.ValidateUnique[Account](ctx, userId, "name", input.Name, id); err != nil {
		return err
	}
	return nil
}

func CreateAccount(ctx context.Context, userId int, input *NewAccount) (*Account, error) {

	if err := input.validate(ctx, userId, 0); err != nil {
		return nil, err
	}

	account := Account{
		UserId:   userId,
		Name:     input.Name,
		Type:     input.Type,
		Balance:  utils.MoneyRound(input.Balance),
		Currency: input.Currency,
		Color:    input.Color,
		Icon:     input.Icon,
	}
	if account.Currency == "" {
		account.Currency = "BRL"
	}
	if account.Color == "" {
		account.Color = "#3b82f6"
	}
	if account.Icon == "" {
		account.Icon = "wallet"
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// UpdateAccount writes account attributes. A balance sent here bypasses the
// transaction ledger on purpose: it is treated as a deliberate override and
// the stored balance will no longer equal the transaction-derived sum.
func UpdateAccount(ctx context.Context, userId int, id int, input *NewAccount) (*Account, error) {

	if err := input.validate(ctx, userId, id); err != nil {
		return nil, err
	}

	account, err := utils.FetchModel[Account](ctx, userId, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"Name":    input.Name,
		"Type":    input.Type,
		"Balance": utils.MoneyRound(input.Balance),
	}
	if input.Currency != "" {
		updates["Currency"] = input.Currency
	}
	if input.Color != "" {
		updates["Color"] = input.Color
	}
	if input.Icon != "" {
		updates["Icon"] = input.Icon
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(account).Updates(updates).Error; err != nil {
		return nil, err
	}
	return account, nil
}

func DeleteAccount(ctx context.Context, userId int, id int) (*Account, error) {

	account, err := utils.FetchModel[Account](ctx, userId, id)
	if err != nil {
		return nil, err
	}

	count, err := utils.CountWhere[Transaction](ctx, "account_id = ?", id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: this account has transactions", utils.ErrorValidation)
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(account).Error; err != nil {
		return nil, err
	}
	return account, nil
}

func GetAccount(ctx context.Context, userId int, id int) (*Account, error) {
	return utils.FetchModel[Account](ctx, userId, id)
}

func GetAccounts(ctx context.Context, userId int, accountType *AccountType) ([]*Account, error) {

	db := config.GetDB()
	var results []*Account

	dbCtx := db.WithContext(ctx).Where("user_id = ?", userId)
	if accountType != nil && *accountType != "" {
		dbCtx = dbCtx.Where("type = ?", *accountType)
	}
	if err := dbCtx.Order("created_at DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
