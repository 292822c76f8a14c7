// Package store persists reconciled transactions.
package store

import (
	"context"
	"sort"
	"time"

	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/models"
)

// Store loads stored transactions for the reconciler and applies the
// instructions it produces.
type Store interface {
	// Load returns every transaction of the account dated on or after from.
	Load(ctx context.Context, userID, accountID string, from time.Time) ([]models.StoredTransaction, error)
	// Apply deletes the instruction's deletes, then upserts its inserts and updates.
	Apply(ctx context.Context, userID, accountID string, instr models.Instruction) error
	Close() error
}

// Driver names.
const (
	DriverMemory = "memory"
	DriverCSV    = "csv"
	DriverSQLite = "sqlite"
)

// ApplyInstruction applies instr to the id-indexed transactions of one account.
func ApplyInstruction(set map[string]models.StoredTransaction, userID, accountID string, instr models.Instruction) {
	for _, tx := range instr.Deletes {
		delete(set, tx.ID)
	}
	for _, tx := range instr.Upserts() {
		stored := tx.Transaction.ToStored(tx.ID, userID, tx.FillType)
		if stored.AccountID == "" {
			stored.AccountID = accountID
		}
		set[tx.ID] = stored
	}
}

// SortStored orders transactions by date, then id.
func SortStored(txs []models.StoredTransaction) {
	sort.Slice(txs, func(i, j int) bool {
		if !txs[i].Date.Equal(txs[j].Date) {
			return txs[i].Date.Before(txs[j].Date)
		}
		return txs[i].ID < txs[j].ID
	})
}

func since(set map[string]models.StoredTransaction, from time.Time) []models.StoredTransaction {
	out := make([]models.StoredTransaction, 0, len(set))
	for _, tx := range set {
		if !tx.Date.Before(from) {
			out = append(out, tx)
		}
	}
	SortStored(out)
	return out
}
