// Package attribute computes named values from generalized transactions and
// decides whether a transaction may take part in matching on them.
package attribute

import (
	"fmt"
	"strings"
	"time"

	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/models"
)

// Attribute is a named value extracted from a transaction. Value is always
// comparable. Present is false when the transaction does not carry the value.
type Attribute struct {
	Name    string
	Value   any
	Present bool
}

// String renders the attribute as a matching-key fragment.
func (a Attribute) String() string {
	if !a.Present {
		return a.Name + "=<absent>"
	}
	return a.Name + "=" + formatValue(a.Value)
}

func formatValue(v any) string {
	switch val := v.(type) {
	case time.Time:
		return val.UTC().Format(time.RFC3339Nano)
	case string:
		return fmt.Sprintf("%q", val)
	default:
		return fmt.Sprint(val)
	}
}

// Extractor derives one attribute identically from a provider or a stored
// transaction.
type Extractor struct {
	name    string
	extract func(models.GeneralizedTransaction) Attribute
}

// NewExtractor builds an extractor for values of type V. get returns the value
// and whether it is present.
func NewExtractor[V comparable](name string, get func(models.GeneralizedTransaction) (V, bool)) Extractor {
	return Extractor{
		name: name,
		extract: func(tx models.GeneralizedTransaction) Attribute {
			v, ok := get(tx)
			return Attribute{Name: name, Value: v, Present: ok}
		},
	}
}

// Name returns the attribute name.
func (e Extractor) Name() string { return e.name }

// Extract computes the attribute for tx.
func (e Extractor) Extract(tx models.GeneralizedTransaction) Attribute {
	return e.extract(tx)
}

func optionalTime(t *time.Time) (time.Time, bool) {
	if t == nil {
		return time.Time{}, false
	}
	return *t, true
}

func text(s string) (string, bool) {
	return s, s != ""
}

// Built-in extractors. Internal ids are deliberately absent: matching never
// looks at them.
var (
	ExternalID = NewExtractor("external_id", func(tx models.GeneralizedTransaction) (string, bool) {
		return text(tx.ExternalID)
	})
	AmountInCents = NewExtractor("amount", func(tx models.GeneralizedTransaction) (int64, bool) {
		return tx.AmountInCents, true
	})
	Date = NewExtractor("date", func(tx models.GeneralizedTransaction) (time.Time, bool) {
		return tx.Date, !tx.Date.IsZero()
	})
	Status = NewExtractor("status", func(tx models.GeneralizedTransaction) (models.Status, bool) {
		return tx.Status, tx.Status != ""
	})
	BookingDate = NewExtractor("booking_date", func(tx models.GeneralizedTransaction) (time.Time, bool) {
		return optionalTime(tx.BookingDate)
	})
	Timestamp = NewExtractor("timestamp", func(tx models.GeneralizedTransaction) (time.Time, bool) {
		return optionalTime(tx.Timestamp)
	})
	DebtorName = NewExtractor("debtor_name", func(tx models.GeneralizedTransaction) (string, bool) {
		return text(tx.Debtor.Name)
	})
	DebtorAccountNumber = NewExtractor("debtor_account_number", func(tx models.GeneralizedTransaction) (string, bool) {
		return text(tx.Debtor.AccountNumber)
	})
	CreditorName = NewExtractor("creditor_name", func(tx models.GeneralizedTransaction) (string, bool) {
		return text(tx.Creditor.Name)
	})
	CreditorAccountNumber = NewExtractor("creditor_account_number", func(tx models.GeneralizedTransaction) (string, bool) {
		return text(tx.Creditor.AccountNumber)
	})
	Description = NewExtractor("description", func(tx models.GeneralizedTransaction) (string, bool) {
		return text(tx.Description)
	})
	EndToEndID = NewExtractor("end_to_end_id", func(tx models.GeneralizedTransaction) (string, bool) {
		return text(tx.EndToEndID)
	})
)

var registry = map[string]Extractor{}

func init() {
	for _, e := range []Extractor{
		ExternalID, AmountInCents, Date, Status, BookingDate, Timestamp,
		DebtorName, DebtorAccountNumber, CreditorName, CreditorAccountNumber,
		Description, EndToEndID,
	} {
		registry[e.Name()] = e
	}
}

// Lookup returns the built-in extractor with the given name.
func Lookup(name string) (Extractor, bool) {
	e, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	return e, ok
}

// Names lists the built-in attribute names.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}
