package workflow

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bsm/redislock"
	"github.com/financelog/finance_backend/config"
	"github.com/financelog/finance_backend/models"
	"github.com/financelog/finance_backend/utils"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var tracer = otel.Tracer("finance-backend")

// Balance reconciliation keeps the invariant
//
//	account.balance == opening balance + Σ signed amounts of the account's
//	transactions
//
// across create / update / delete. Every operation pairs the ledger write
// with an atomic `balance = balance + ?` increment inside one DB
// transaction, so a crash can never apply one side without the other. The
// increment happens in SQL, never as a read-modify-write of a pre-fetched
// balance, which closes the lost-update race between concurrent requests on
// the same account.

// LedgerEntry is the balance-affecting slice of a transaction.
type LedgerEntry struct {
	AccountId int
	Type      models.TransactionType
	Amount    decimal.Decimal
}

func (e LedgerEntry) signedAmount() decimal.Decimal {
	if e.Type == models.TransactionTypeIncome {
		return e.Amount
	}
	return e.Amount.Neg()
}

// AccountDelta is one account's balance adjustment for a ledger change.
type AccountDelta struct {
	AccountId int
	Delta     decimal.Decimal
}

// ReconcileDeltas computes the per-account adjustments for a ledger change:
// old nil = create, new nil = delete. An update always undoes the old
// signed effect before applying the new one, so a same-account change
// collapses to the exact net adjustment instead of drifting.
func ReconcileDeltas(oldEntry, newEntry *LedgerEntry) []AccountDelta {
	byAccount := map[int]decimal.Decimal{}
	var order []int

	add := func(accountId int, delta decimal.Decimal) {
		if _, seen := byAccount[accountId]; !seen {
			order = append(order, accountId)
		}
		byAccount[accountId] = byAccount[accountId].Add(delta)
	}

	if oldEntry != nil {
		add(oldEntry.AccountId, oldEntry.signedAmount().Neg())
	}
	if newEntry != nil {
		add(newEntry.AccountId, newEntry.signedAmount())
	}

	deltas := make([]AccountDelta, 0, len(order))
	for _, accountId := range order {
		if byAccount[accountId].IsZero() {
			continue
		}
		deltas = append(deltas, AccountDelta{AccountId: accountId, Delta: byAccount[accountId]})
	}
	return deltas
}

func applyAccountDelta(tx *gorm.DB, ctx context.Context, userId int, delta AccountDelta) error {
	result := tx.WithContext(ctx).Model(&models.Account{}).
		Where("id = ? AND user_id = ?", delta.AccountId, userId).
		UpdateColumn("balance", gorm.Expr("balance + ?", delta.Delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: account %d", utils.ErrorRecordNotFound, delta.AccountId)
	}
	return nil
}

// lockAccountBalances takes best-effort Redis locks on the touched accounts.
// Reliability must not depend on Redis: correctness comes from the atomic
// SQL increments and the row lock on the transaction record.
func lockAccountBalances(ctx context.Context, accountIds ...int) []*redislock.Lock {
	locker := config.GetRedisLock()
	if locker == nil {
		return nil
	}
	var locks []*redislock.Lock
	for _, id := range accountIds {
		lock, err := locker.Obtain(ctx, "AccountBalance:"+strconv.Itoa(id), 5*time.Second, &redislock.Options{
			RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(50*time.Millisecond), 20),
		})
		if err != nil {
			continue
		}
		locks = append(locks, lock)
	}
	return locks
}

func releaseLocks(ctx context.Context, locks []*redislock.Lock) {
	for _, lock := range locks {
		if err := lock.Release(ctx); err != nil && err != redislock.ErrLockNotHeld {
			config.LogError(config.GetLogger(), "balanceReconciliation.go", "releaseLocks", "Release", nil, err)
		}
	}
}

// withConsistencyRetry runs the paired write and retries exactly once on a
// commit conflict; a second failure surfaces as ErrorConsistency with
// nothing applied.
func withConsistencyRetry(op func() error) error {
	err := op()
	if err == nil {
		return nil
	}
	if isRetryable(err) {
		if err = op(); err == nil {
			return nil
		}
		return fmt.Errorf("%w: %v", utils.ErrorConsistency, err)
	}
	return err
}

func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Deadlock") ||
		strings.Contains(msg, "deadlock") ||
		strings.Contains(msg, "Lock wait timeout") ||
		strings.Contains(msg, "try restarting transaction")
}

// CreateTransaction persists a transaction and applies its signed amount to
// the referenced account as one unit of work.
func CreateTransaction(ctx context.Context, userId int, input *models.NewTransaction) (*models.Transaction, error) {
	ctx, span := tracer.Start(ctx, "workflow.CreateTransaction")
	defer span.End()

	if err := input.Validate(ctx, userId); err != nil {
		return nil, err
	}

	locks := lockAccountBalances(ctx, input.AccountId)
	defer releaseLocks(ctx, locks)

	var created *models.Transaction
	err := withConsistencyRetry(func() error {
		transaction := models.Transaction{
			UserId:      userId,
			AccountId:   input.AccountId,
			CategoryId:  input.CategoryId,
			Type:        input.Type,
			Amount:      utils.MoneyRound(input.Amount),
			Description: input.Description,
			Date:        input.Date.Time(),
			IsRecurring: input.IsRecurring,
			Tags:        input.Tags,
		}
		if transaction.IsRecurring == nil {
			transaction.IsRecurring = utils.NewFalse()
		}
		if input.Frequency != nil {
			transaction.Frequency = input.Frequency
		}
		if input.RecurrenceEndDate != nil {
			end := input.RecurrenceEndDate.Time()
			transaction.RecurrenceEndDate = &end
		}

		db := config.GetDB()
		tx := db.Begin()
		if tx.Error != nil {
			return tx.Error
		}
		if err := tx.WithContext(ctx).Create(&transaction).Error; err != nil {
			tx.Rollback()
			return err
		}

		entry := LedgerEntry{AccountId: transaction.AccountId, Type: transaction.Type, Amount: transaction.Amount}
		for _, delta := range ReconcileDeltas(nil, &entry) {
			if err := applyAccountDelta(tx, ctx, userId, delta); err != nil {
				tx.Rollback()
				return err
			}
		}

		if err := tx.Commit().Error; err != nil {
			return err
		}
		created = &transaction
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateTransaction reverses the old signed effect on the old account and
// applies the new signed effect on the (possibly different) new account,
// updating the ledger record in the same transaction.
func UpdateTransaction(ctx context.Context, userId int, id int, changes *models.TransactionChanges) (*models.Transaction, error) {
	ctx, span := tracer.Start(ctx, "workflow.UpdateTransaction")
	defer span.End()

	if err := changes.Validate(ctx, userId); err != nil {
		return nil, err
	}

	// lock both candidate accounts up front; the stored account id is read
	// again inside the DB transaction under a row lock
	existing, err := utils.FetchModel[models.Transaction](ctx, userId, id)
	if err != nil {
		return nil, err
	}
	accountIds := []int{existing.AccountId}
	if changes.AccountId != nil && *changes.AccountId != existing.AccountId {
		accountIds = append(accountIds, *changes.AccountId)
	}
	locks := lockAccountBalances(ctx, accountIds...)
	defer releaseLocks(ctx, locks)

	var updated *models.Transaction
	err = withConsistencyRetry(func() error {
		db := config.GetDB()
		tx := db.Begin()
		if tx.Error != nil {
			return tx.Error
		}

		var current models.Transaction
		if err := tx.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userId).First(&current, id).Error; err != nil {
			tx.Rollback()
			return utils.ErrorRecordNotFound
		}

		oldEntry := LedgerEntry{AccountId: current.AccountId, Type: current.Type, Amount: current.Amount}

		updates := map[string]interface{}{}
		newEntry := oldEntry
		if changes.Type != nil {
			updates["Type"] = *changes.Type
			newEntry.Type = *changes.Type
		}
		if changes.Amount != nil {
			rounded := utils.MoneyRound(*changes.Amount)
			updates["Amount"] = rounded
			newEntry.Amount = rounded
		}
		if changes.AccountId != nil {
			updates["AccountId"] = *changes.AccountId
			newEntry.AccountId = *changes.AccountId
		}
		if changes.Description != nil {
			updates["Description"] = *changes.Description
		}
		if changes.Date != nil {
			updates["Date"] = changes.Date.Time()
		}
		if changes.IsRecurring != nil {
			updates["IsRecurring"] = *changes.IsRecurring
		}
		if changes.Frequency != nil {
			if *changes.Frequency == "" {
				updates["Frequency"] = nil
			} else {
				updates["Frequency"] = *changes.Frequency
			}
		}
		if changes.RecurrenceEndDate != nil {
			updates["RecurrenceEndDate"] = changes.RecurrenceEndDate.Time()
		}
		if changes.Tags != nil {
			updates["Tags"] = *changes.Tags
		}
		if changes.CategoryId != nil {
			updates["CategoryId"] = *changes.CategoryId
		}

		if len(updates) > 0 {
			if err := tx.WithContext(ctx).Model(&current).Updates(updates).Error; err != nil {
				tx.Rollback()
				return err
			}
		}

		for _, delta := range ReconcileDeltas(&oldEntry, &newEntry) {
			if err := applyAccountDelta(tx, ctx, userId, delta); err != nil {
				tx.Rollback()
				return err
			}
		}

		if err := tx.Commit().Error; err != nil {
			return err
		}
		updated = &current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteTransaction reverses the transaction's signed effect and removes the
// record as one unit of work.
func DeleteTransaction(ctx context.Context, userId int, id int) (*models.Transaction, error) {
	ctx, span := tracer.Start(ctx, "workflow.DeleteTransaction")
	defer span.End()

	existing, err := utils.FetchModel[models.Transaction](ctx, userId, id)
	if err != nil {
		return nil, err
	}
	locks := lockAccountBalances(ctx, existing.AccountId)
	defer releaseLocks(ctx, locks)

	var deleted *models.Transaction
	err = withConsistencyRetry(func() error {
		db := config.GetDB()
		tx := db.Begin()
		if tx.Error != nil {
			return tx.Error
		}

		var current models.Transaction
		if err := tx.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userId).First(&current, id).Error; err != nil {
			tx.Rollback()
			return utils.ErrorRecordNotFound
		}

		oldEntry := LedgerEntry{AccountId: current.AccountId, Type: current.Type, Amount: current.Amount}
		for _, delta := range ReconcileDeltas(&oldEntry, nil) {
			if err := applyAccountDelta(tx, ctx, userId, delta); err != nil {
				tx.Rollback()
				return err
			}
		}

		if err := tx.WithContext(ctx).Delete(&current).Error; err != nil {
			tx.Rollback()
			return err
		}

		if err := tx.Commit().Error; err != nil {
			return err
		}
		deleted = &current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}
