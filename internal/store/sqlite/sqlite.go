/*
Package sqlite provides a SQLite-backed transaction store.

Dates are stored as ISO text so that range filters compare lexically.
Amounts are stored as decimal text to keep full precision.

An instruction is applied in a single SQL transaction: deletes first, then
inserts and updates as INSERT OR REPLACE. A failure leaves the account
untouched.

USAGE:

	st, err := sqlite.New("./data/transactions.db")
	if err != nil {
		return err
	}
	defer st.Close()
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/dateutils"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/models"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

// Store implements store.Store on SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens (and migrates) the database at dbPath.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS transactions (
		user_id TEXT NOT NULL,
		account_id TEXT NOT NULL,
		id TEXT NOT NULL,
		external_id TEXT,
		date TEXT NOT NULL,
		status TEXT NOT NULL,
		booking_date TEXT,
		timestamp TEXT,
		amount TEXT NOT NULL,
		currency TEXT,
		debtor_name TEXT,
		debtor_account TEXT,
		creditor_name TEXT,
		creditor_account TEXT,
		description TEXT,
		end_to_end_id TEXT,
		fill_type TEXT NOT NULL,
		PRIMARY KEY (user_id, account_id, id)
	);

	CREATE INDEX IF NOT EXISTS idx_transactions_account_date
		ON transactions(user_id, account_id, date);
	`
	_, err := s.db.Exec(schema)
	return err
}

const selectColumns = `id, user_id, account_id, external_id, date, status, booking_date, timestamp,
	amount, currency, debtor_name, debtor_account, creditor_name, creditor_account,
	description, end_to_end_id, fill_type`

// Load returns the account's transactions dated on or after from, ordered by
// date then id.
func (s *Store) Load(ctx context.Context, userID, accountID string, from time.Time) ([]models.StoredTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+selectColumns+`
		FROM transactions
		WHERE user_id = ? AND account_id = ? AND date >= ?
		ORDER BY date, id
	`, userID, accountID, dateutils.ToISODate(from))
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var txs []models.StoredTransaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

func scanTransaction(rows *sql.Rows) (models.StoredTransaction, error) {
	var tx models.StoredTransaction
	var externalID, bookingDate, timestamp, currency sql.NullString
	var debtorName, debtorAccount, creditorName, creditorAccount sql.NullString
	var description, endToEndID sql.NullString
	var date, status, amount, fillType string

	err := rows.Scan(
		&tx.ID, &tx.UserID, &tx.AccountID, &externalID, &date, &status, &bookingDate, &timestamp,
		&amount, &currency, &debtorName, &debtorAccount, &creditorName, &creditorAccount,
		&description, &endToEndID, &fillType,
	)
	if err != nil {
		return tx, fmt.Errorf("failed to scan transaction: %w", err)
	}

	if tx.Date, _, err = dateutils.ParseDate(date); err != nil {
		return tx, fmt.Errorf("transaction %s: invalid date: %w", tx.ID, err)
	}
	if tx.BookingDate, err = dateutils.ParseOptionalDate(bookingDate.String); err != nil {
		return tx, fmt.Errorf("transaction %s: invalid booking date: %w", tx.ID, err)
	}
	if tx.Timestamp, err = dateutils.ParseOptionalTimestamp(timestamp.String); err != nil {
		return tx, fmt.Errorf("transaction %s: invalid timestamp: %w", tx.ID, err)
	}
	if tx.Amount, err = decimal.NewFromString(amount); err != nil {
		return tx, fmt.Errorf("transaction %s: invalid amount: %w", tx.ID, err)
	}

	tx.ExternalID = externalID.String
	tx.Status = models.Status(status)
	tx.Currency = currency.String
	tx.Debtor = models.Party{Name: debtorName.String, AccountNumber: debtorAccount.String}
	tx.Creditor = models.Party{Name: creditorName.String, AccountNumber: creditorAccount.String}
	tx.Description = description.String
	tx.EndToEndID = endToEndID.String
	tx.FillType = models.FillType(fillType)
	return tx, nil
}

// Apply writes instr atomically.
func (s *Store) Apply(ctx context.Context, userID, accountID string, instr models.Instruction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, del := range instr.Deletes {
		_, err := tx.ExecContext(ctx,
			`DELETE FROM transactions WHERE user_id = ? AND account_id = ? AND id = ?`,
			userID, accountID, del.ID)
		if err != nil {
			return fmt.Errorf("failed to delete transaction %s: %w", del.ID, err)
		}
	}

	for _, up := range instr.Upserts() {
		if err := upsert(ctx, tx, up.Transaction.ToStored(up.ID, userID, up.FillType), accountID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func upsert(ctx context.Context, tx *sql.Tx, st models.StoredTransaction, accountID string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO transactions (`+selectColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		st.ID, st.UserID, accountID, nullString(st.ExternalID),
		dateutils.ToISODate(st.Date), string(st.Status),
		nullString(dateutils.FormatOptional(st.BookingDate, dateutils.DateLayoutISO)),
		nullString(dateutils.FormatOptional(st.Timestamp, time.RFC3339Nano)),
		st.Amount.String(), nullString(st.Currency),
		nullString(st.Debtor.Name), nullString(st.Debtor.AccountNumber),
		nullString(st.Creditor.Name), nullString(st.Creditor.AccountNumber),
		nullString(st.Description), nullString(st.EndToEndID), string(st.FillType),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert transaction %s: %w", st.ID, err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
