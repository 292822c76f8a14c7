package store

import (
	"context"
	"sync"
	"time"

	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/models"
)

type accountKey struct {
	userID    string
	accountID string
}

// MemoryStore keeps transactions in memory. It backs tests and dry runs.
type MemoryStore struct {
	mu       sync.RWMutex
	accounts map[accountKey]map[string]models.StoredTransaction
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{accounts: make(map[accountKey]map[string]models.StoredTransaction)}
}

// Seed adds transactions as they are, keyed by their own user and account.
func (s *MemoryStore) Seed(txs ...models.StoredTransaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tx := range txs {
		s.account(tx.UserID, tx.AccountID)[tx.ID] = tx
	}
}

func (s *MemoryStore) account(userID, accountID string) map[string]models.StoredTransaction {
	key := accountKey{userID: userID, accountID: accountID}
	set, ok := s.accounts[key]
	if !ok {
		set = make(map[string]models.StoredTransaction)
		s.accounts[key] = set
	}
	return set
}

// Load implements Store.
func (s *MemoryStore) Load(_ context.Context, userID, accountID string, from time.Time) ([]models.StoredTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return since(s.accounts[accountKey{userID: userID, accountID: accountID}], from), nil
}

// All returns every transaction of the account.
func (s *MemoryStore) All(userID, accountID string) []models.StoredTransaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return since(s.accounts[accountKey{userID: userID, accountID: accountID}], time.Time{})
}

// Apply implements Store.
func (s *MemoryStore) Apply(ctx context.Context, userID, accountID string, instr models.Instruction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ApplyInstruction(s.account(userID, accountID), userID, accountID, instr)
	return nil
}

// Close implements Store.
func (s *MemoryStore) Close() error { return nil }
