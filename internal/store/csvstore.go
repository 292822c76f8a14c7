package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/common"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/logging"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/models"
)

// CSVStore keeps every user's transactions in a single CSV file. The file is
// read on every call and rewritten atomically on Apply.
type CSVStore struct {
	path   string
	logger logging.Logger
	mu     sync.Mutex
}

// NewCSVStore creates a store backed by path. The file is created on the
// first Apply.
func NewCSVStore(path string, logger logging.Logger) *CSVStore {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &CSVStore{path: path, logger: logger}
}

func (s *CSVStore) readAll() ([]models.StoredTransaction, error) {
	info, err := os.Stat(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("csv store %s: %w", s.path, err)
	}
	if info.Size() == 0 {
		return nil, nil
	}

	rows, err := common.ReadCSVFile[common.StoredRow](s.path, s.logger)
	if err != nil {
		return nil, err
	}
	txs := make([]models.StoredTransaction, 0, len(rows))
	for i, row := range rows {
		tx, err := row.ToStored(i + 1)
		if err != nil {
			return nil, fmt.Errorf("csv store %s: %w", s.path, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// Load implements Store.
func (s *CSVStore) Load(ctx context.Context, userID, accountID string, from time.Time) ([]models.StoredTransaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.readAll()
	if err != nil {
		return nil, err
	}
	var out []models.StoredTransaction
	for _, tx := range all {
		if tx.UserID == userID && tx.AccountID == accountID && !tx.Date.Before(from) {
			out = append(out, tx)
		}
	}
	SortStored(out)
	return out, nil
}

// Apply implements Store.
func (s *CSVStore) Apply(ctx context.Context, userID, accountID string, instr models.Instruction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.readAll()
	if err != nil {
		return err
	}

	account := make(map[string]models.StoredTransaction)
	others := make([]models.StoredTransaction, 0, len(all))
	for _, tx := range all {
		if tx.UserID == userID && tx.AccountID == accountID {
			account[tx.ID] = tx
			continue
		}
		others = append(others, tx)
	}
	ApplyInstruction(account, userID, accountID, instr)
	for _, tx := range account {
		others = append(others, tx)
	}
	SortStored(others)

	rows := make([]common.StoredRow, len(others))
	for i, tx := range others {
		rows[i] = common.NewStoredRow(tx)
	}
	if err := common.WriteCSVFile(rows, s.path, s.logger); err != nil {
		return fmt.Errorf("csv store %s: %w", s.path, err)
	}

	s.logger.Debug("Applied instruction to CSV store",
		logging.F(logging.FieldStore, s.path),
		logging.F(logging.FieldAccountID, accountID),
		logging.F(logging.FieldCount, len(account)))
	return nil
}

// Close implements Store.
func (s *CSVStore) Close() error { return nil }
