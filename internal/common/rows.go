package common

import (
	"strings"
	"time"

	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/currencyutils"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/dateutils"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/logging"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/models"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/parsererror"
)

// UpstreamRow is one line of an upstream batch file.
type UpstreamRow struct {
	AccountID       string `csv:"account_id"`
	ExternalID      string `csv:"external_id"`
	Date            string `csv:"date"`
	Status          string `csv:"status"`
	BookingDate     string `csv:"booking_date"`
	Timestamp       string `csv:"timestamp"`
	Amount          string `csv:"amount"`
	Currency        string `csv:"currency"`
	DebtorName      string `csv:"debtor_name"`
	DebtorAccount   string `csv:"debtor_account"`
	CreditorName    string `csv:"creditor_name"`
	CreditorAccount string `csv:"creditor_account"`
	Description     string `csv:"description"`
	EndToEndID      string `csv:"end_to_end_id"`
}

// StoredRow is one line of the CSV store.
type StoredRow struct {
	ID     string `csv:"id"`
	UserID string `csv:"user_id"`
	UpstreamRow
	FillType string `csv:"fill_type"`
}

// InstructionRow is one line of a CSV instruction report.
type InstructionRow struct {
	Operation string `csv:"operation"`
	ID        string `csv:"id"`
	FillType  string `csv:"fill_type"`
	UpstreamRow
}

// ToProvider converts the row. record is used in error messages only.
func (r UpstreamRow) ToProvider(record int) (models.ProviderTransaction, error) {
	fail := func(field, value string, err error) error {
		return &parsererror.ParseError{Source: "csv", Record: record, Field: field, Value: value, Err: err}
	}

	status := models.Status(strings.ToUpper(strings.TrimSpace(r.Status)))
	if status == "" {
		status = models.StatusBooked
	}
	bookingDate, err := dateutils.ParseOptionalDate(r.BookingDate)
	if err != nil {
		return models.ProviderTransaction{}, fail("booking_date", r.BookingDate, err)
	}
	timestamp, err := dateutils.ParseOptionalTimestamp(r.Timestamp)
	if err != nil {
		return models.ProviderTransaction{}, fail("timestamp", r.Timestamp, err)
	}
	if _, err := currencyutils.ParseAmount(r.Amount); err != nil {
		return models.ProviderTransaction{}, fail("amount", r.Amount, err)
	}
	if _, _, err := dateutils.ParseDate(r.Date); err != nil {
		return models.ProviderTransaction{}, fail("date", r.Date, err)
	}

	b := models.NewTransactionBuilder().
		WithAccountID(strings.TrimSpace(r.AccountID)).
		WithExternalID(strings.TrimSpace(r.ExternalID)).
		WithDate(r.Date).
		WithStatus(status).
		WithAmountFromString(strings.TrimSpace(r.Amount), strings.TrimSpace(r.Currency)).
		WithDebtor(r.DebtorName, r.DebtorAccount).
		WithCreditor(r.CreditorName, r.CreditorAccount).
		WithDescription(r.Description).
		WithEndToEndID(r.EndToEndID)
	if bookingDate != nil {
		b = b.WithBookingDate(*bookingDate)
	}
	if timestamp != nil {
		b = b.WithTimestamp(*timestamp)
	}
	tx, err := b.Build()
	if err != nil {
		return models.ProviderTransaction{}, fail("status", r.Status, err)
	}
	return tx, nil
}

// NewUpstreamRow converts a provider transaction to its CSV shape.
func NewUpstreamRow(tx models.ProviderTransaction) UpstreamRow {
	return UpstreamRow{
		AccountID:       tx.AccountID,
		ExternalID:      tx.ExternalID,
		Date:            dateutils.ToISODate(tx.Date),
		Status:          string(tx.Status),
		BookingDate:     dateutils.FormatOptional(tx.BookingDate, dateutils.DateLayoutISO),
		Timestamp:       dateutils.FormatOptional(tx.Timestamp, time.RFC3339Nano),
		Amount:          tx.Amount.StringFixed(2),
		Currency:        tx.Currency,
		DebtorName:      tx.Debtor.Name,
		DebtorAccount:   tx.Debtor.AccountNumber,
		CreditorName:    tx.Creditor.Name,
		CreditorAccount: tx.Creditor.AccountNumber,
		Description:     tx.Description,
		EndToEndID:      tx.EndToEndID,
	}
}

// NewStoredRow converts a stored transaction to its CSV shape.
func NewStoredRow(tx models.StoredTransaction) StoredRow {
	upstream := NewUpstreamRow(models.ProviderTransaction{
		AccountID:   tx.AccountID,
		ExternalID:  tx.ExternalID,
		Date:        tx.Date,
		Status:      tx.Status,
		BookingDate: tx.BookingDate,
		Timestamp:   tx.Timestamp,
		Amount:      tx.Amount,
		Currency:    tx.Currency,
		Debtor:      tx.Debtor,
		Creditor:    tx.Creditor,
		Description: tx.Description,
		EndToEndID:  tx.EndToEndID,
	})
	return StoredRow{ID: tx.ID, UserID: tx.UserID, UpstreamRow: upstream, FillType: string(tx.FillType)}
}

// ToStored converts the row back to a stored transaction.
func (r StoredRow) ToStored(record int) (models.StoredTransaction, error) {
	tx, err := r.UpstreamRow.ToProvider(record)
	if err != nil {
		return models.StoredTransaction{}, err
	}
	fillType := models.FillType(r.FillType)
	if fillType == "" {
		fillType = models.FillTypeRegular
	}
	return tx.ToStored(r.ID, r.UserID, fillType), nil
}

// InstructionRows flattens an instruction: deletes first, then inserts,
// updates and ignores, which is the order they must be applied in.
func InstructionRows(instr models.Instruction) []InstructionRow {
	var rows []InstructionRow
	for _, tx := range instr.Deletes {
		stored := NewStoredRow(tx)
		rows = append(rows, InstructionRow{Operation: "delete", ID: tx.ID, FillType: stored.FillType, UpstreamRow: stored.UpstreamRow})
	}
	add := func(operation string, txs []models.TransactionWithID) {
		for _, tx := range txs {
			rows = append(rows, InstructionRow{
				Operation:   operation,
				ID:          tx.ID,
				FillType:    string(tx.FillType),
				UpstreamRow: NewUpstreamRow(tx.Transaction),
			})
		}
	}
	add("insert", instr.Inserts)
	add("update", instr.Updates)
	add("ignore", instr.Ignores)
	return rows
}

// ReadUpstreamCSV reads an upstream batch file.
func ReadUpstreamCSV(filePath string, logger logging.Logger) ([]models.ProviderTransaction, error) {
	rows, err := ReadCSVFile[UpstreamRow](filePath, logger)
	if err != nil {
		return nil, err
	}
	txs := make([]models.ProviderTransaction, 0, len(rows))
	for i, row := range rows {
		tx, err := row.ToProvider(i + 1)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, nil
}
