// Package ledger implements the pure balance fold over ledger entries.
// It is deliberately free of persistence coupling so it can be exercised
// against in-memory fixtures.
package ledger

import (
	"time"

	"github.com/posys/pos_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Entry is one signed ledger mutation affecting a user's balance.
// Exactly one of TransactionID and TransferID is set.
type Entry struct {
	Delta         decimal.Decimal
	CreatedAt     time.Time
	TransactionID string
	TransferID    string
}

// EntriesFromTransactions maps purchases to negative deltas for the buyer.
// Transactions where the user is not the buyer contribute nothing.
func EntriesFromTransactions(userID string, txns []domain.Transaction) []Entry {
	entries := make([]Entry, 0, len(txns))
	for _, txn := range txns {
		if txn.FromID != userID {
			continue
		}
		entries = append(entries, Entry{
			Delta:         txn.TotalInclVat().Neg(),
			CreatedAt:     txn.CreatedAt,
			TransactionID: txn.TransactionID,
		})
	}
	return entries
}

// EntriesFromTransfers maps transfers to signed deltas: incoming transfers
// add, outgoing transfers subtract.
func EntriesFromTransfers(userID string, transfers []domain.Transfer) []Entry {
	entries := make([]Entry, 0, len(transfers))
	for _, tr := range transfers {
		var delta decimal.Decimal
		switch {
		case tr.ToID != nil && *tr.ToID == userID:
			delta = tr.AmountInclVat
		case tr.FromID != nil && *tr.FromID == userID:
			delta = tr.AmountInclVat.Neg()
		default:
			continue
		}
		entries = append(entries, Entry{
			Delta:      delta,
			CreatedAt:  tr.CreatedAt,
			TransferID: tr.TransferID,
		})
	}
	return entries
}

// Fold sums all entries with CreatedAt <= asOf into a Balance.
// Summation is commutative, so entries sharing the same timestamp need no
// ordering tiebreak; both are simply included. An empty ledger folds to zero.
func Fold(userID string, entries []Entry, asOf time.Time) domain.Balance {
	balance := domain.Balance{
		UserID: userID,
		Amount: decimal.Zero,
		AsOf:   asOf,
	}

	var lastTxnAt, lastTransferAt time.Time
	for _, e := range entries {
		if e.CreatedAt.After(asOf) {
			continue
		}
		balance.Amount = balance.Amount.Add(e.Delta)

		if e.TransactionID != "" && !e.CreatedAt.Before(lastTxnAt) {
			lastTxnAt = e.CreatedAt
			id := e.TransactionID
			balance.LastTransactionID = &id
		}
		if e.TransferID != "" && !e.CreatedAt.Before(lastTransferAt) {
			lastTransferAt = e.CreatedAt
			id := e.TransferID
			balance.LastTransferID = &id
		}
	}
	return balance
}
