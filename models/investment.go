package models

import (
	"context"
	"fmt"
	"time"

	"github.com/financelog/finance_backend/config"
	"github.com/financelog/finance_backend/utils"
	"github.com/shopspring/decimal"
)

type Investment struct {
	ID            int             `gorm:"primary_key" json:"id"`
	UserId        int             `gorm:"index;not null" json:"user_id"`
	Name          string          `gorm:"size:100;not null" json:"name" binding:"required"`
	Type          InvestmentType  `gorm:"type:enum('savings', 'cdb', 'treasury', 'fixed_income', 'stocks');size:20;not null" json:"type" binding:"required"`
	InitialAmount decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"initial_amount"`
	CurrentAmount decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"current_amount"`
	AnnualRate    decimal.Decimal `gorm:"type:decimal(10,4);not null" json:"annual_rate"`
	StartDate     time.Time       `gorm:"not null" json:"start_date"`
	MaturityDate  *time.Time      `json:"maturity_date"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewInvestment struct {
	Name          string              `json:"name" binding:"required"`
	Type          InvestmentType      `json:"type" binding:"required"`
	InitialAmount decimal.Decimal     `json:"initial_amount" binding:"required"`
	CurrentAmount decimal.Decimal     `json:"current_amount" binding:"required"`
	AnnualRate    decimal.Decimal     `json:"annual_rate" binding:"required"`
	StartDate     utils.CalendarDate  `json:"start_date" binding:"required"`
	MaturityDate  *utils.CalendarDate `json:"maturity_date"`
}

func (i Investment) GetId() int {
	return i.ID
}

func (input *NewInvestment) validate() error {
	if !input.Type.Valid() {
		return fmt.Errorf("%w: invalid investment type %q", utils.ErrorValidation, input.Type)
	}
	if !input.InitialAmount.IsPositive() || !input.CurrentAmount.IsPositive() {
		return fmt.Errorf("%w: amounts must be positive", utils.ErrorValidation)
	}
	if input.AnnualRate.IsNegative() {
		return fmt.Errorf("%w: annual rate must not be negative", utils.ErrorValidation)
	}
	return nil
}

func CreateInvestment(ctx context.Context, userId int, input *NewInvestment) (*Investment, error) {

	if err := input.validate(); err != nil {
		return nil, err
	}

	investment := Investment{
		UserId:        userId,
		Name:          input.Name,
		Type:          input.Type,
		InitialAmount: utils.MoneyRound(input.InitialAmount),
		CurrentAmount: utils.MoneyRound(input.CurrentAmount),
		AnnualRate:    input.AnnualRate,
		StartDate:     input.StartDate.Time(),
	}
	if input.MaturityDate != nil {
		maturity := input.MaturityDate.Time()
		investment.MaturityDate = &maturity
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&investment).Error; err != nil {
		return nil, err
	}
	return &investment, nil
}

func UpdateInvestment(ctx context.Context, userId int, id int, input *NewInvestment) (*Investment, error) {

	if err := input.validate(); err != nil {
		return nil, err
	}

	investment, err := utils.FetchModel[Investment](ctx, userId, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"Name":          input.Name,
		"Type":          input.Type,
		"InitialAmount": utils.MoneyRound(input.InitialAmount),
		"CurrentAmount": utils.MoneyRound(input.CurrentAmount),
		"AnnualRate":    input.AnnualRate,
		"StartDate":     input.StartDate.Time(),
	}
	if input.MaturityDate != nil {
		updates["MaturityDate"] = input.MaturityDate.Time()
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(investment).Updates(updates).Error; err != nil {
		return nil, err
	}
	return investment, nil
}

func DeleteInvestment(ctx context.Context, userId int, id int) (*Investment, error) {

	investment, err := utils.FetchModel[Investment](ctx, userId, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(investment).Error; err != nil {
		return nil, err
	}
	return investment, nil
}

func GetInvestment(ctx context.Context, userId int, id int) (*Investment, error) {
	return utils.FetchModel[Investment](ctx, userId, id)
}

func GetInvestments(ctx context.Context, userId int, investmentType *InvestmentType) ([]*Investment, error) {

	db := config.GetDB()
	var results []*Investment

	dbCtx := db.WithContext(ctx).Where("user_id = ?", userId)
	if investmentType != nil && *investmentType != "" {
		dbCtx = dbCtx.Where("type = ?", *investmentType)
	}
	if err := dbCtx.Order("start_date DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
