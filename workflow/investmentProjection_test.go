package workflow

import (
	"errors"
	"testing"

	"github.com/financelog/finance_backend/models"
	"github.com/financelog/finance_backend/utils"
	"github.com/shopspring/decimal"
)

func TestSimulateInvestment_MonthlyCompounding(t *testing.T) {
	rate := decimal.NewFromInt(12)
	simulation, err := SimulateInvestment(SimulationInput{
		InitialAmount:       decimal.NewFromInt(1000),
		MonthlyContribution: decimal.NewFromInt(100),
		Months:              2,
		AnnualRate:          &rate,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 12%/year = 1%/month: (1000+100)*1.01 = 1111, (1111+100)*1.01 = 1223.11
	if len(simulation.Data) != 3 {
		t.Fatalf("expected 3 points (month 0..2), got %d", len(simulation.Data))
	}
	if !simulation.Data[0].Amount.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("point 0 must be the initial amount, got %s", simulation.Data[0].Amount)
	}
	if !simulation.Data[1].Amount.Equal(decimal.NewFromInt(1111)) {
		t.Fatalf("expected 1111 after month 1, got %s", simulation.Data[1].Amount)
	}
	if !simulation.FinalAmount.Equal(decimal.NewFromFloat(1223.11)) {
		t.Fatalf("expected 1223.11 after month 2, got %s", simulation.FinalAmount)
	}
	if !simulation.TotalContributed.Equal(decimal.NewFromInt(1200)) {
		t.Fatalf("expected 1200 contributed, got %s", simulation.TotalContributed)
	}
	if !simulation.TotalEarnings.Equal(decimal.NewFromFloat(23.11)) {
		t.Fatalf("expected 23.11 earnings, got %s", simulation.TotalEarnings)
	}
}

func TestSimulateInvestment_ZeroRate(t *testing.T) {
	rate := decimal.Zero
	simulation, err := SimulateInvestment(SimulationInput{
		InitialAmount:       decimal.NewFromInt(500),
		MonthlyContribution: decimal.NewFromInt(50),
		Months:              12,
		AnnualRate:          &rate,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !simulation.FinalAmount.Equal(simulation.TotalContributed) {
		t.Fatalf("at zero rate final must equal contributed: %s vs %s",
			simulation.FinalAmount, simulation.TotalContributed)
	}
	if !simulation.TotalEarnings.IsZero() {
		t.Fatalf("at zero rate earnings must be zero, got %s", simulation.TotalEarnings)
	}
}

func TestSimulateInvestment_TypeDefaultsRate(t *testing.T) {
	investmentType := models.InvestmentTypeCDB
	simulation, err := SimulateInvestment(SimulationInput{
		InitialAmount: decimal.NewFromInt(10000),
		Months:        12,
		Type:          &investmentType,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !simulation.AnnualRate.Equal(decimal.NewFromFloat(12.0)) {
		t.Fatalf("CDB should default to the 12%% reference rate, got %s", simulation.AnnualRate)
	}
	if simulation.Type != models.InvestmentTypeCDB {
		t.Fatalf("result should echo the simulated type, got %q", simulation.Type)
	}
}

func TestSimulateInvestment_Validation(t *testing.T) {
	rate := decimal.NewFromInt(10)

	if _, err := SimulateInvestment(SimulationInput{Months: 0, AnnualRate: &rate}); !errors.Is(err, utils.ErrorValidation) {
		t.Fatalf("months below 1 must be rejected, got %v", err)
	}
	if _, err := SimulateInvestment(SimulationInput{Months: MaxSimulationMonths + 1, AnnualRate: &rate}); !errors.Is(err, utils.ErrorValidation) {
		t.Fatalf("months above the cap must be rejected, got %v", err)
	}
	if _, err := SimulateInvestment(SimulationInput{Months: 12}); !errors.Is(err, utils.ErrorValidation) {
		t.Fatalf("missing rate and type must be rejected, got %v", err)
	}
	negative := decimal.NewFromInt(-1)
	if _, err := SimulateInvestment(SimulationInput{Months: 12, AnnualRate: &rate, InitialAmount: negative}); !errors.Is(err, utils.ErrorValidation) {
		t.Fatalf("negative initial amount must be rejected, got %v", err)
	}
}

func TestSimulateAllTypes_OrderedByRate(t *testing.T) {
	simulations, err := SimulateAllTypes(decimal.NewFromInt(10000), decimal.NewFromInt(1000), 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(simulations) != 5 {
		t.Fatalf("expected one simulation per investment type, got %d", len(simulations))
	}
	byType := map[models.InvestmentType]*Simulation{}
	for _, s := range simulations {
		byType[s.Type] = s
	}
	// stocks carry the highest reference rate and must out-earn savings
	if !byType[models.InvestmentTypeStocks].FinalAmount.GreaterThan(byType[models.InvestmentTypeSavings].FinalAmount) {
		t.Fatalf("stocks (%s) should outgrow savings (%s) over the same period",
			byType[models.InvestmentTypeStocks].FinalAmount, byType[models.InvestmentTypeSavings].FinalAmount)
	}
}
