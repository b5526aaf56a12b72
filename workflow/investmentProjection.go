package workflow

import (
	"fmt"

	"github.com/financelog/finance_backend/models"
	"github.com/financelog/finance_backend/utils"
	"github.com/shopspring/decimal"
)

// MaxSimulationMonths bounds the projection period.
const MaxSimulationMonths = 360

// defaultAnnualRates are the reference yearly rates (percent) used when a
// simulation does not supply its own rate.
var defaultAnnualRates = map[models.InvestmentType]decimal.Decimal{
	models.InvestmentTypeSavings:     decimal.NewFromFloat(6.17),
	models.InvestmentTypeCDB:         decimal.NewFromFloat(12.0),
	models.InvestmentTypeTreasury:    decimal.NewFromFloat(11.5),
	models.InvestmentTypeFixedIncome: decimal.NewFromFloat(13.0),
	models.InvestmentTypeStocks:      decimal.NewFromFloat(15.0),
}

type SimulationInput struct {
	InitialAmount       decimal.Decimal        `json:"initial_amount"`
	MonthlyContribution decimal.Decimal        `json:"monthly_contribution"`
	Months              int                    `json:"months" binding:"required"`
	AnnualRate          *decimal.Decimal       `json:"annual_rate"`
	Type                *models.InvestmentType `json:"type"`
}

type SimulationPoint struct {
	Month  int             `json:"month"`
	Amount decimal.Decimal `json:"amount"`
}

type Simulation struct {
	Type             models.InvestmentType `json:"type,omitempty"`
	AnnualRate       decimal.Decimal       `json:"annual_rate"`
	FinalAmount      decimal.Decimal       `json:"final_amount"`
	TotalContributed decimal.Decimal       `json:"total_contributed"`
	TotalEarnings    decimal.Decimal       `json:"total_earnings"`
	Data             []SimulationPoint     `json:"data"`
}

// SimulateInvestment projects a monthly-compounded investment: each month
// the contribution is added first and the whole balance then earns one
// month's interest (annual rate / 12). Point 0 is the initial amount before
// any contribution or interest.
func SimulateInvestment(input SimulationInput) (*Simulation, error) {

	if input.Months < 1 || input.Months > MaxSimulationMonths {
		return nil, fmt.Errorf("%w: months must be between 1 and %d", utils.ErrorValidation, MaxSimulationMonths)
	}
	if input.InitialAmount.IsNegative() || input.MonthlyContribution.IsNegative() {
		return nil, fmt.Errorf("%w: amounts must not be negative", utils.ErrorValidation)
	}

	var rate decimal.Decimal
	var investmentType models.InvestmentType
	switch {
	case input.AnnualRate != nil:
		rate = *input.AnnualRate
	case input.Type != nil:
		var ok bool
		if rate, ok = defaultAnnualRates[*input.Type]; !ok {
			return nil, fmt.Errorf("%w: invalid investment type %q", utils.ErrorValidation, *input.Type)
		}
		investmentType = *input.Type
	default:
		return nil, fmt.Errorf("%w: annual_rate or type is required", utils.ErrorValidation)
	}
	if rate.IsNegative() {
		return nil, fmt.Errorf("%w: annual rate must not be negative", utils.ErrorValidation)
	}

	monthlyFactor := decimal.NewFromInt(1).Add(rate.Div(decimal.NewFromInt(100 * 12)))

	total := input.InitialAmount
	data := make([]SimulationPoint, 0, input.Months+1)
	data = append(data, SimulationPoint{Month: 0, Amount: utils.MoneyRound(total)})

	for month := 1; month <= input.Months; month++ {
		total = total.Add(input.MonthlyContribution).Mul(monthlyFactor)
		data = append(data, SimulationPoint{Month: month, Amount: utils.MoneyRound(total)})
	}

	contributed := input.InitialAmount.Add(
		input.MonthlyContribution.Mul(decimal.NewFromInt(int64(input.Months))))

	return &Simulation{
		Type:             investmentType,
		AnnualRate:       rate,
		FinalAmount:      utils.MoneyRound(total),
		TotalContributed: utils.MoneyRound(contributed),
		TotalEarnings:    utils.MoneyRound(total.Sub(contributed)),
		Data:             data,
	}, nil
}

// SimulateAllTypes runs the same parameters against every investment type's
// reference rate, for side-by-side comparison.
func SimulateAllTypes(initialAmount, monthlyContribution decimal.Decimal, months int) ([]*Simulation, error) {

	order := []models.InvestmentType{
		models.InvestmentTypeSavings,
		models.InvestmentTypeCDB,
		models.InvestmentTypeTreasury,
		models.InvestmentTypeFixedIncome,
		models.InvestmentTypeStocks,
	}

	results := make([]*Simulation, 0, len(order))
	for _, investmentType := range order {
		investmentType := investmentType
		simulation, err := SimulateInvestment(SimulationInput{
			InitialAmount:       initialAmount,
			MonthlyContribution: monthlyContribution,
			Months:              months,
			Type:                &investmentType,
		})
		if err != nil {
			return nil, err
		}
		results = append(results, simulation)
	}
	return results, nil
}
