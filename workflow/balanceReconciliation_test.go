package workflow

import (
	"math/rand"
	"testing"

	"github.com/financelog/finance_backend/models"
	"github.com/shopspring/decimal"
)

// NOTE: These tests are intentionally DB-free. ReconcileDeltas is the whole
// balance policy; the DB layer only applies the returned deltas atomically.
// A fake ledger replays the deltas and is checked against the balance an
// independent full recomputation produces.

type fakeLedger struct {
	balances map[int]decimal.Decimal
	entries  map[int]LedgerEntry
	nextId   int
}

func newFakeLedger(accountIds ...int) *fakeLedger {
	l := &fakeLedger{
		balances: map[int]decimal.Decimal{},
		entries:  map[int]LedgerEntry{},
		nextId:   1,
	}
	for _, id := range accountIds {
		l.balances[id] = decimal.Zero
	}
	return l
}

func (l *fakeLedger) apply(deltas []AccountDelta) {
	for _, d := range deltas {
		l.balances[d.AccountId] = l.balances[d.AccountId].Add(d.Delta)
	}
}

func (l *fakeLedger) create(entry LedgerEntry) int {
	id := l.nextId
	l.nextId++
	l.entries[id] = entry
	l.apply(ReconcileDeltas(nil, &entry))
	return id
}

func (l *fakeLedger) update(id int, entry LedgerEntry) {
	old := l.entries[id]
	l.entries[id] = entry
	l.apply(ReconcileDeltas(&old, &entry))
}

func (l *fakeLedger) delete(id int) {
	old := l.entries[id]
	delete(l.entries, id)
	l.apply(ReconcileDeltas(&old, nil))
}

// recompute derives every balance from scratch, the way a full rebuild
// would.
func (l *fakeLedger) recompute() map[int]decimal.Decimal {
	balances := map[int]decimal.Decimal{}
	for id := range l.balances {
		balances[id] = decimal.Zero
	}
	for _, entry := range l.entries {
		balances[entry.AccountId] = balances[entry.AccountId].Add(entry.signedAmount())
	}
	return balances
}

func (l *fakeLedger) assertConsistent(t *testing.T) {
	t.Helper()
	expected := l.recompute()
	for id, balance := range l.balances {
		if !balance.Equal(expected[id]) {
			t.Fatalf("account %d drifted: incremental=%s recomputed=%s", id, balance, expected[id])
		}
	}
}

func entry(accountId int, transactionType models.TransactionType, amount int64) LedgerEntry {
	return LedgerEntry{AccountId: accountId, Type: transactionType, Amount: decimal.NewFromInt(amount)}
}

func TestReconcileDeltas_Create(t *testing.T) {
	income := entry(1, models.TransactionTypeIncome, 500)
	deltas := ReconcileDeltas(nil, &income)
	if len(deltas) != 1 || deltas[0].AccountId != 1 || !deltas[0].Delta.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("income create should add the full amount, got %+v", deltas)
	}

	expense := entry(1, models.TransactionTypeExpense, 120)
	deltas = ReconcileDeltas(nil, &expense)
	if len(deltas) != 1 || !deltas[0].Delta.Equal(decimal.NewFromInt(-120)) {
		t.Fatalf("expense create should subtract the full amount, got %+v", deltas)
	}
}

func TestReconcileDeltas_AmountChange_NetsToDifference(t *testing.T) {
	old := entry(1, models.TransactionTypeExpense, 100)
	updated := entry(1, models.TransactionTypeExpense, 150)

	deltas := ReconcileDeltas(&old, &updated)
	if len(deltas) != 1 {
		t.Fatalf("same-account update should collapse to one delta, got %d", len(deltas))
	}
	if !deltas[0].Delta.Equal(decimal.NewFromInt(-50)) {
		t.Fatalf("expense 100 -> 150 should net -50, got %s", deltas[0].Delta)
	}
}

func TestReconcileDeltas_NoopUpdate_ProducesNoDeltas(t *testing.T) {
	e := entry(1, models.TransactionTypeIncome, 300)
	same := e
	if deltas := ReconcileDeltas(&e, &same); len(deltas) != 0 {
		t.Fatalf("unchanged entry should produce no deltas, got %+v", deltas)
	}
}

func TestReconcileDeltas_AccountMove_PreservesTotal(t *testing.T) {
	old := entry(1, models.TransactionTypeExpense, 200)
	moved := entry(2, models.TransactionTypeExpense, 200)

	deltas := ReconcileDeltas(&old, &moved)
	if len(deltas) != 2 {
		t.Fatalf("cross-account move needs both sides adjusted, got %d deltas", len(deltas))
	}
	total := decimal.Zero
	for _, d := range deltas {
		total = total.Add(d.Delta)
	}
	if !total.IsZero() {
		t.Fatalf("moving the same amount between accounts must sum to zero, got %s", total)
	}
}

func TestReconcileDeltas_TypeFlip(t *testing.T) {
	old := entry(1, models.TransactionTypeExpense, 80)
	flipped := entry(1, models.TransactionTypeIncome, 80)

	deltas := ReconcileDeltas(&old, &flipped)
	if len(deltas) != 1 || !deltas[0].Delta.Equal(decimal.NewFromInt(160)) {
		t.Fatalf("expense -> income flip should swing twice the amount, got %+v", deltas)
	}
}

func TestReconcileDeltas_CreateThenDelete_NetsToZero(t *testing.T) {
	ledger := newFakeLedger(1)
	id := ledger.create(entry(1, models.TransactionTypeIncome, 5000))
	ledger.delete(id)

	if !ledger.balances[1].IsZero() {
		t.Fatalf("create then delete must return the balance to exactly zero, got %s", ledger.balances[1])
	}
}

func TestReconcileDeltas_RandomizedReplay_MatchesRecompute(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	types := []models.TransactionType{
		models.TransactionTypeIncome,
		models.TransactionTypeExpense,
		models.TransactionTypeTransfer,
	}

	for run := 0; run < 50; run++ {
		ledger := newFakeLedger(1, 2, 3)
		var ids []int

		for step := 0; step < 200; step++ {
			switch op := rng.Intn(3); {
			case op == 0 || len(ids) == 0:
				e := entry(1+rng.Intn(3), types[rng.Intn(len(types))], int64(1+rng.Intn(10000)))
				ids = append(ids, ledger.create(e))
			case op == 1:
				id := ids[rng.Intn(len(ids))]
				e := entry(1+rng.Intn(3), types[rng.Intn(len(types))], int64(1+rng.Intn(10000)))
				ledger.update(id, e)
			default:
				i := rng.Intn(len(ids))
				ledger.delete(ids[i])
				ids = append(ids[:i], ids[i+1:]...)
			}
		}

		ledger.assertConsistent(t)
	}
}
