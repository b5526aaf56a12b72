// seed-demo populates a database with a demo user and three months of
// plausible finance data (accounts, categories, transactions, payments,
// investments). Transactions go through the reconciler, so the seeded
// account balances always match their ledgers.
//
// Usage (from backend directory):
//
//	DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/seed-demo
package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/financelog/finance_backend/config"
	"github.com/financelog/finance_backend/models"
	"github.com/financelog/finance_backend/utils"
	"github.com/financelog/finance_backend/workflow"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	demoEmail    = "user@easier.com"
	demoPassword = "password123"
	demoName     = "Demo User"
)

func main() {
	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}
	models.MigrateTable()

	user := seedUser(ctx, db)
	categories := seedCategories(ctx)
	accounts := seedAccounts(ctx, user.ID)
	seedTransactions(ctx, user.ID, accounts, categories)
	seedPayments(ctx, user.ID, accounts, categories)
	seedInvestments(ctx, user.ID)

	fmt.Printf("Seed finished. Demo credentials: %s / %s\n", demoEmail, demoPassword)
}

func seedUser(ctx context.Context, db *gorm.DB) *models.User {
	var existing models.User
	err := db.WithContext(ctx).Where("email = ?", demoEmail).First(&existing).Error
	if err == nil {
		// reset the password so the demo credentials always work
		hashed, hashErr := utils.HashPassword(demoPassword)
		if hashErr != nil {
			fatal("hash password", hashErr)
		}
		if err := db.WithContext(ctx).Model(&existing).
			Update("password_hash", string(hashed)).Error; err != nil {
			fatal("update demo user", err)
		}
		fmt.Printf("Demo user already present: %s\n", demoEmail)
		return &existing
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		fatal("lookup demo user", err)
	}

	user, err := models.RegisterUser(ctx, &models.NewUser{
		Name:     demoName,
		Email:    demoEmail,
		Password: demoPassword,
	})
	if err != nil {
		fatal("create demo user", err)
	}
	db.WithContext(ctx).Model(user).Update("role", models.UserRoleAdmin)
	fmt.Printf("Created demo user: %s\n", demoEmail)
	return user
}

func seedCategories(ctx context.Context) []*models.Category {
	inputs := []models.NewCategory{
		{Name: "Food", Icon: "utensils", Color: "#ef4444", Type: models.CategoryTypeExpense},
		{Name: "Transport", Icon: "car", Color: "#f59e0b", Type: models.CategoryTypeExpense},
		{Name: "Housing", Icon: "home", Color: "#8b5cf6", Type: models.CategoryTypeExpense},
		{Name: "Leisure", Icon: "music", Color: "#ec4899", Type: models.CategoryTypeExpense},
		{Name: "Health", Icon: "heart-pulse", Color: "#22c55e", Type: models.CategoryTypeExpense},
		{Name: "Salary", Icon: "briefcase", Color: "#22c55e", Type: models.CategoryTypeIncome},
		{Name: "Freelance", Icon: "laptop", Color: "#3b82f6", Type: models.CategoryTypeIncome},
		{Name: "Investments", Icon: "trending-up", Color: "#8b5cf6", Type: models.CategoryTypeIncome},
	}

	categories := make([]*models.Category, 0, len(inputs))
	for i := range inputs {
		category, err := models.CreateCategory(ctx, &inputs[i])
		if err != nil {
			fatal("create category "+inputs[i].Name, err)
		}
		categories = append(categories, category)
	}
	fmt.Printf("Created %d categories\n", len(categories))
	return categories
}

func seedAccounts(ctx context.Context, userId int) []*models.Account {
	inputs := []models.NewAccount{
		{Name: "Checking", Type: models.AccountTypeChecking, Balance: decimal.NewFromInt(5000), Color: "#3b82f6", Icon: "building-2"},
		{Name: "Savings", Type: models.AccountTypeSavings, Balance: decimal.NewFromInt(10000), Color: "#22c55e", Icon: "piggy-bank"},
		{Name: "Credit Card", Type: models.AccountTypeCreditCard, Balance: decimal.NewFromInt(-1500), Color: "#ef4444", Icon: "credit-card"},
		{Name: "Digital Wallet", Type: models.AccountTypeWallet, Balance: decimal.NewFromInt(500), Color: "#8b5cf6", Icon: "wallet"},
	}

	accounts := make([]*models.Account, 0, len(inputs))
	for i := range inputs {
		account, err := models.CreateAccount(ctx, userId, &inputs[i])
		if err != nil {
			fatal("create account "+inputs[i].Name, err)
		}
		accounts = append(accounts, account)
	}
	fmt.Printf("Created %d accounts\n", len(accounts))
	return accounts
}

func seedTransactions(ctx context.Context, userId int, accounts []*models.Account, categories []*models.Category) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	today := utils.CalendarDateOf(time.Now().UTC())
	count := 0

	for i := 0; i < 90; i++ {
		date := today.AddDays(-i)

		if i%30 == 0 {
			if _, err := workflow.CreateTransaction(ctx, userId, &models.NewTransaction{
				Type:        models.TransactionTypeIncome,
				Amount:      decimal.NewFromInt(5000),
				Description: "Salary",
				Date:        date,
				AccountId:   accounts[0].ID,
				CategoryId:  categories[5].ID,
			}); err != nil {
				fatal("create salary transaction", err)
			}
			count++
		}

		if rng.Float64() > 0.7 {
			category := categories[rng.Intn(5)]
			account := accounts[rng.Intn(2)]
			amount := decimal.NewFromFloat(rng.Float64()*500 + 20).Round(2)
			if _, err := workflow.CreateTransaction(ctx, userId, &models.NewTransaction{
				Type:        models.TransactionTypeExpense,
				Amount:      amount,
				Description: "Purchase: " + category.Name,
				Date:        date,
				AccountId:   account.ID,
				CategoryId:  category.ID,
			}); err != nil {
				fatal("create expense transaction", err)
			}
			count++
		}
	}
	fmt.Printf("Created %d transactions\n", count)
}

func seedPayments(ctx context.Context, userId int, accounts []*models.Account, categories []*models.Category) {
	now := time.Now().UTC()
	monthly := models.FrequencyMonthly
	dueOn := func(day int) utils.CalendarDate {
		return utils.NewCalendarDate(now.Year(), now.Month(), day)
	}

	inputs := []models.NewPayment{
		{Name: "Rent", Amount: decimal.NewFromInt(1500), DueDate: dueOn(5), IsRecurring: utils.NewTrue(), Frequency: &monthly, Status: models.PaymentStatusPending, CategoryId: categories[2].ID, AccountId: &accounts[0].ID},
		{Name: "Electricity", Amount: decimal.NewFromInt(200), DueDate: dueOn(10), IsRecurring: utils.NewTrue(), Frequency: &monthly, Status: models.PaymentStatusPending, CategoryId: categories[2].ID, AccountId: &accounts[0].ID},
		{Name: "Internet", Amount: decimal.NewFromInt(100), DueDate: dueOn(15), IsRecurring: utils.NewTrue(), Frequency: &monthly, Status: models.PaymentStatusPaid, CategoryId: categories[2].ID, AccountId: &accounts[0].ID},
		{Name: "Car Insurance", Amount: decimal.NewFromInt(150), DueDate: dueOn(20), IsRecurring: utils.NewTrue(), Frequency: &monthly, Status: models.PaymentStatusPending, CategoryId: categories[1].ID, AccountId: &accounts[0].ID},
	}

	for i := range inputs {
		if _, err := models.CreatePayment(ctx, userId, &inputs[i]); err != nil {
			fatal("create payment "+inputs[i].Name, err)
		}
	}
	fmt.Printf("Created %d payments\n", len(inputs))
}

func seedInvestments(ctx context.Context, userId int) {
	now := time.Now().UTC()
	lastJanuary := utils.NewCalendarDate(now.Year()-1, time.January, 1)
	maturity := utils.NewCalendarDate(now.Year()+4, time.January, 1)

	inputs := []models.NewInvestment{
		{Name: "Savings", Type: models.InvestmentTypeSavings, InitialAmount: decimal.NewFromInt(5000), CurrentAmount: decimal.NewFromFloat(5154.25), AnnualRate: decimal.NewFromFloat(6.17), StartDate: lastJanuary},
		{Name: "CDB 100% CDI", Type: models.InvestmentTypeCDB, InitialAmount: decimal.NewFromInt(10000), CurrentAmount: decimal.NewFromInt(11325), AnnualRate: decimal.NewFromFloat(13.25), StartDate: lastJanuary},
		{Name: "Treasury IPCA+", Type: models.InvestmentTypeTreasury, InitialAmount: decimal.NewFromInt(8000), CurrentAmount: decimal.NewFromInt(8920), AnnualRate: decimal.NewFromFloat(11.5), StartDate: lastJanuary, MaturityDate: &maturity},
	}

	for i := range inputs {
		if _, err := models.CreateInvestment(ctx, userId, &inputs[i]); err != nil {
			fatal("create investment "+inputs[i].Name, err)
		}
	}
	fmt.Printf("Created %d investments\n", len(inputs))
}

func fatal(step string, err error) {
	fmt.Fprintf(os.Stderr, "seed-demo: %s: %v\n", step, err)
	os.Exit(1)
}
