package syncwindow

import (
	"time"

	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/dateutils"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/models"
)

// SyncWindow is either unbounded or bounded by an inclusive lower date.
type SyncWindow struct {
	bounded    bool
	lowerBound time.Time
	complete   bool
}

// Unbounded returns a window that keeps every transaction.
func Unbounded() SyncWindow {
	return SyncWindow{}
}

// Bounded returns a window starting at lower. complete tells whether lower is
// a booking day both sides have fully reported.
func Bounded(lower time.Time, complete bool) SyncWindow {
	return SyncWindow{bounded: true, lowerBound: dateutils.Day(lower), complete: complete}
}

// IsBounded reports whether the window has a lower bound.
func (w SyncWindow) IsBounded() bool { return w.bounded }

// LowerBound returns the inclusive lower bound, if any.
func (w SyncWindow) LowerBound() (time.Time, bool) {
	return w.lowerBound, w.bounded
}

// IsLowerBoundCompleteBookingDay is false when transactions on the lower bound
// day might be partially missing.
func (w SyncWindow) IsLowerBoundCompleteBookingDay() bool {
	return w.bounded && w.complete
}

// Truncate drops transactions booked before the lower bound. An unbounded
// window returns txs unchanged.
func (w SyncWindow) Truncate(txs []models.GeneralizedTransaction) []models.GeneralizedTransaction {
	if !w.bounded {
		return txs
	}
	out := make([]models.GeneralizedTransaction, 0, len(txs))
	for _, tx := range txs {
		if !dateutils.Day(tx.EffectiveBookingDate()).Before(w.lowerBound) {
			out = append(out, tx)
		}
	}
	return out
}

func (w SyncWindow) String() string {
	if !w.bounded {
		return "unbounded"
	}
	s := "from " + dateutils.ToISODate(w.lowerBound)
	if !w.complete {
		s += " (incomplete day)"
	}
	return s
}
