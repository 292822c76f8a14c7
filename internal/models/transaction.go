// Package models provides the data structures used throughout the application.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the settlement status of a transaction. Together with the date it
// forms the storage key of a transaction.
type Status string

const (
	StatusBooked  Status = "BOOKED"
	StatusPending Status = "PENDING"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return s == StatusBooked || s == StatusPending
}

// Party is the debtor or creditor side of a transaction.
type Party struct {
	Name          string `yaml:"name,omitempty"`
	AccountNumber string `yaml:"account_number,omitempty"`
}

// ProviderTransaction is a transaction as reported by the bank in the current
// ingestion batch. It carries no internal id.
type ProviderTransaction struct {
	AccountID   string          `yaml:"account_id"`
	ExternalID  string          `yaml:"external_id,omitempty"`
	Date        time.Time       `yaml:"date"`
	Status      Status          `yaml:"status"`
	BookingDate *time.Time      `yaml:"booking_date,omitempty"`
	Timestamp   *time.Time      `yaml:"timestamp,omitempty"`
	Amount      decimal.Decimal `yaml:"amount"` // signed: negative for debits
	Currency    string          `yaml:"currency,omitempty"`
	Debtor      Party           `yaml:"debtor,omitempty"`
	Creditor    Party           `yaml:"creditor,omitempty"`
	Description string          `yaml:"description,omitempty"`
	EndToEndID  string          `yaml:"end_to_end_id,omitempty"`
}

// StoredTransaction is a transaction persisted by a previous reconciliation.
type StoredTransaction struct {
	ID          string          `yaml:"id"`
	UserID      string          `yaml:"user_id"`
	AccountID   string          `yaml:"account_id"`
	ExternalID  string          `yaml:"external_id,omitempty"`
	Date        time.Time       `yaml:"date"`
	Status      Status          `yaml:"status"`
	BookingDate *time.Time      `yaml:"booking_date,omitempty"`
	Timestamp   *time.Time      `yaml:"timestamp,omitempty"`
	Amount      decimal.Decimal `yaml:"amount"`
	Currency    string          `yaml:"currency,omitempty"`
	Debtor      Party           `yaml:"debtor,omitempty"`
	Creditor    Party           `yaml:"creditor,omitempty"`
	Description string          `yaml:"description,omitempty"`
	EndToEndID  string          `yaml:"end_to_end_id,omitempty"`
	FillType    FillType        `yaml:"fill_type,omitempty"`
}

// ToStored converts a provider transaction into the stored shape under id.
func (p ProviderTransaction) ToStored(id, userID string, fillType FillType) StoredTransaction {
	return StoredTransaction{
		ID:          id,
		UserID:      userID,
		AccountID:   p.AccountID,
		ExternalID:  p.ExternalID,
		Date:        p.Date,
		Status:      p.Status,
		BookingDate: p.BookingDate,
		Timestamp:   p.Timestamp,
		Amount:      p.Amount,
		Currency:    p.Currency,
		Debtor:      p.Debtor,
		Creditor:    p.Creditor,
		Description: p.Description,
		EndToEndID:  p.EndToEndID,
		FillType:    fillType,
	}
}

// AmountInCents converts a decimal amount into signed minor units, rounding
// half away from zero on the third decimal.
func AmountInCents(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}
