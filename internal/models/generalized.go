package models

import "time"

// Origin tells which side of a reconciliation a generalized transaction comes from.
type Origin int

const (
	OriginProvider Origin = iota
	OriginStored
)

func (o Origin) String() string {
	if o == OriginStored {
		return "stored"
	}
	return "upstream"
}

// GeneralizedTransaction is a read-only projection of either a provider or a
// stored transaction, exposing the attributes reconciliation works with.
// Index is the position in the batch it was generalized from; it keeps every
// ordering decision reproducible.
type GeneralizedTransaction struct {
	Origin        Origin
	Index         int
	InternalID    string
	ExternalID    string
	AmountInCents int64
	Date          time.Time
	Status        Status
	BookingDate   *time.Time
	Timestamp     *time.Time
	Debtor        Party
	Creditor      Party
	Description   string
	EndToEndID    string
}

// GeneralizeProvider projects an upstream transaction.
func GeneralizeProvider(index int, p ProviderTransaction) GeneralizedTransaction {
	return GeneralizedTransaction{
		Origin:        OriginProvider,
		Index:         index,
		ExternalID:    p.ExternalID,
		AmountInCents: AmountInCents(p.Amount),
		Date:          p.Date,
		Status:        p.Status,
		BookingDate:   p.BookingDate,
		Timestamp:     p.Timestamp,
		Debtor:        p.Debtor,
		Creditor:      p.Creditor,
		Description:   p.Description,
		EndToEndID:    p.EndToEndID,
	}
}

// GeneralizeStored projects a stored transaction.
func GeneralizeStored(index int, s StoredTransaction) GeneralizedTransaction {
	return GeneralizedTransaction{
		Origin:        OriginStored,
		Index:         index,
		InternalID:    s.ID,
		ExternalID:    s.ExternalID,
		AmountInCents: AmountInCents(s.Amount),
		Date:          s.Date,
		Status:        s.Status,
		BookingDate:   s.BookingDate,
		Timestamp:     s.Timestamp,
		Debtor:        s.Debtor,
		Creditor:      s.Creditor,
		Description:   s.Description,
		EndToEndID:    s.EndToEndID,
	}
}

// GeneralizeProviders projects a whole upstream batch, preserving order.
func GeneralizeProviders(txs []ProviderTransaction) []GeneralizedTransaction {
	out := make([]GeneralizedTransaction, len(txs))
	for i, tx := range txs {
		out[i] = GeneralizeProvider(i, tx)
	}
	return out
}

// GeneralizeStoreds projects a whole stored batch, preserving order.
func GeneralizeStoreds(txs []StoredTransaction) []GeneralizedTransaction {
	out := make([]GeneralizedTransaction, len(txs))
	for i, tx := range txs {
		out[i] = GeneralizeStored(i, tx)
	}
	return out
}

// ContentEquals compares every attribute except origin, index and internal id.
func (g GeneralizedTransaction) ContentEquals(other GeneralizedTransaction) bool {
	return g.ExternalID == other.ExternalID &&
		g.AmountInCents == other.AmountInCents &&
		g.Date.Equal(other.Date) &&
		g.Status == other.Status &&
		equalTimePtr(g.BookingDate, other.BookingDate) &&
		equalTimePtr(g.Timestamp, other.Timestamp) &&
		g.Debtor == other.Debtor &&
		g.Creditor == other.Creditor &&
		g.Description == other.Description &&
		g.EndToEndID == other.EndToEndID
}

// KeyEquals reports whether the storage key (date, status) is unchanged.
func (g GeneralizedTransaction) KeyEquals(other GeneralizedTransaction) bool {
	return g.Date.Equal(other.Date) && g.Status == other.Status
}

// EffectiveBookingDate returns the booking date, falling back to the date.
func (g GeneralizedTransaction) EffectiveBookingDate() time.Time {
	if g.BookingDate != nil {
		return *g.BookingDate
	}
	return g.Date
}

func equalTimePtr(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
