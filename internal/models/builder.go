package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/currencyutils"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/dateutils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionBuilder provides a fluent API for constructing provider and
// stored transactions. The first error encountered sticks and is returned
// by Build.
type TransactionBuilder struct {
	tx  ProviderTransaction
	err error
}

// NewTransactionBuilder creates a builder for a BOOKED zero-amount transaction.
func NewTransactionBuilder() *TransactionBuilder {
	return &TransactionBuilder{
		tx: ProviderTransaction{
			Status:   StatusBooked,
			Currency: "EUR",
			Amount:   decimal.Zero,
		},
	}
}

// WithAccountID sets the account the transaction belongs to.
func (b *TransactionBuilder) WithAccountID(accountID string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.AccountID = accountID
	return b
}

// WithExternalID sets the bank-assigned identifier.
func (b *TransactionBuilder) WithExternalID(externalID string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.ExternalID = externalID
	return b
}

// WithDate sets the transaction date from a string in any dateutils.CommonFormats layout.
func (b *TransactionBuilder) WithDate(dateStr string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	if dateStr == "" {
		b.err = errors.New("date cannot be empty")
		return b
	}
	date, _, err := dateutils.ParseDate(dateStr)
	if err != nil {
		b.err = err
		return b
	}
	b.tx.Date = date
	return b
}

// WithDateFromTime sets the transaction date from a time.Time.
func (b *TransactionBuilder) WithDateFromTime(date time.Time) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	if date.IsZero() {
		b.err = errors.New("date cannot be zero")
		return b
	}
	b.tx.Date = dateutils.Day(date)
	return b
}

// WithBookingDate sets the bank-reported booking date.
func (b *TransactionBuilder) WithBookingDate(date time.Time) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	d := dateutils.Day(date)
	b.tx.BookingDate = &d
	return b
}

// WithTimestamp sets the precise instant of the transaction.
func (b *TransactionBuilder) WithTimestamp(ts time.Time) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.Timestamp = &ts
	return b
}

// WithStatus sets the settlement status.
func (b *TransactionBuilder) WithStatus(status Status) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	if !status.Valid() {
		b.err = fmt.Errorf("invalid status: %q", status)
		return b
	}
	b.tx.Status = status
	return b
}

// WithAmount sets the signed amount and currency.
func (b *TransactionBuilder) WithAmount(amount decimal.Decimal, currency string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.Amount = amount
	if currency != "" {
		b.tx.Currency = currency
	}
	return b
}

// WithAmountFromString parses and sets the signed amount.
func (b *TransactionBuilder) WithAmountFromString(amountStr, currency string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	amount, err := currencyutils.ParseAmount(amountStr)
	if err != nil {
		b.err = fmt.Errorf("invalid amount string '%s': %w", amountStr, err)
		return b
	}
	return b.WithAmount(amount, currency)
}

// WithCents sets the signed amount from minor units.
func (b *TransactionBuilder) WithCents(cents int64) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.Amount = decimal.New(cents, -2)
	return b
}

// WithDescription sets the free-text description.
func (b *TransactionBuilder) WithDescription(description string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.Description = description
	return b
}

// WithDebtor sets the debtor party.
func (b *TransactionBuilder) WithDebtor(name, accountNumber string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.Debtor = Party{Name: name, AccountNumber: accountNumber}
	return b
}

// WithCreditor sets the creditor party.
func (b *TransactionBuilder) WithCreditor(name, accountNumber string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.Creditor = Party{Name: name, AccountNumber: accountNumber}
	return b
}

// WithEndToEndID sets the end-to-end payment reference.
func (b *TransactionBuilder) WithEndToEndID(id string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.EndToEndID = id
	return b
}

// Build validates and returns the provider transaction.
func (b *TransactionBuilder) Build() (ProviderTransaction, error) {
	if b.err != nil {
		return ProviderTransaction{}, b.err
	}
	if b.tx.Date.IsZero() {
		return ProviderTransaction{}, errors.New("date is required")
	}
	return b.tx, nil
}

// BuildStored validates and returns the transaction in its stored shape.
// An empty id is replaced by a random UUID.
func (b *TransactionBuilder) BuildStored(id, userID string) (StoredTransaction, error) {
	tx, err := b.Build()
	if err != nil {
		return StoredTransaction{}, err
	}
	if id == "" {
		id = uuid.New().String()
	}
	return tx.ToStored(id, userID, FillTypeRegular), nil
}

// Clone creates a copy of the current builder state.
func (b *TransactionBuilder) Clone() *TransactionBuilder {
	return &TransactionBuilder{tx: b.tx, err: b.err}
}
