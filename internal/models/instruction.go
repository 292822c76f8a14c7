package models

import (
	"sort"
	"time"

	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/dateutils"
)

// FillType tells downstream consumers whether an inserted transaction is a
// fresh event or catches up a historical gap.
type FillType string

const (
	FillTypeRegular    FillType = "REGULAR"
	FillTypeBackfilled FillType = "BACKFILLED"
)

// DefaultBackfillThresholdDays is the distance, in days before the most recent
// stored transaction, beyond which an insertion is BACKFILLED.
const DefaultBackfillThresholdDays = 7

// TransactionWithID is a provider transaction bound to the id it is persisted under.
type TransactionWithID struct {
	Transaction ProviderTransaction `yaml:"transaction"`
	ID          string              `yaml:"id"`
	FillType    FillType            `yaml:"fill_type"`
}

// Instruction is the outcome of reconciling one account. The caller deletes
// Deletes first, then upserts Inserts and Updates.
type Instruction struct {
	Inserts                     []TransactionWithID `yaml:"inserts"`
	Updates                     []TransactionWithID `yaml:"updates"`
	Deletes                     []StoredTransaction `yaml:"deletes"`
	Ignores                     []TransactionWithID `yaml:"ignores,omitempty"`
	Metrics                     *Metrics            `yaml:"metrics,omitempty"`
	OldestTransactionChangeDate *time.Time          `yaml:"oldest_transaction_change_date,omitempty"`
}

// IsNoop reports whether applying the instruction would change nothing.
func (i Instruction) IsNoop() bool {
	return len(i.Inserts) == 0 && len(i.Updates) == 0 && len(i.Deletes) == 0
}

// Upserts returns inserts followed by updates.
func (i Instruction) Upserts() []TransactionWithID {
	out := make([]TransactionWithID, 0, len(i.Inserts)+len(i.Updates))
	out = append(out, i.Inserts...)
	return append(out, i.Updates...)
}

// OldestChangeDate returns the earliest date across inserts, updates and deletes.
func (i Instruction) OldestChangeDate() *time.Time {
	dates := make([]time.Time, 0, len(i.Inserts)+len(i.Updates)+len(i.Deletes))
	for _, tx := range i.Upserts() {
		dates = append(dates, tx.Transaction.Date)
	}
	for _, tx := range i.Deletes {
		dates = append(dates, tx.Date)
	}
	oldest, ok := dateutils.MinDate(dates...)
	if !ok {
		return nil
	}
	return &oldest
}

// SortByDate orders every list by date then id so that instructions compare
// and print deterministically.
func (i *Instruction) SortByDate() {
	byDate := func(txs []TransactionWithID) {
		sort.SliceStable(txs, func(a, b int) bool {
			if !txs[a].Transaction.Date.Equal(txs[b].Transaction.Date) {
				return txs[a].Transaction.Date.Before(txs[b].Transaction.Date)
			}
			return txs[a].ID < txs[b].ID
		})
	}
	byDate(i.Inserts)
	byDate(i.Updates)
	byDate(i.Ignores)
	sort.SliceStable(i.Deletes, func(a, b int) bool {
		if !i.Deletes[a].Date.Equal(i.Deletes[b].Date) {
			return i.Deletes[a].Date.Before(i.Deletes[b].Date)
		}
		return i.Deletes[a].ID < i.Deletes[b].ID
	})
}
