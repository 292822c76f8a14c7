// Package syncwindow decides from which booking date on an upstream batch and
// the stored transactions can be compared safely.
package syncwindow

import (
	"fmt"
	"time"

	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/dateutils"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/models"
)

// Relation is one of Allen's thirteen interval relations, read as
// "provider <relation> stored".
type Relation string

const (
	Precedes     Relation = "PRECEDES"
	Meets        Relation = "MEETS"
	Overlaps     Relation = "OVERLAPS"
	Starts       Relation = "STARTS"
	During       Relation = "DURING"
	Finishes     Relation = "FINISHES"
	Equal        Relation = "EQUAL"
	FinishedBy   Relation = "FINISHED_BY"
	Contains     Relation = "CONTAINS"
	StartedBy    Relation = "STARTED_BY"
	OverlappedBy Relation = "OVERLAPPED_BY"
	MetBy        Relation = "MET_BY"
	PrecededBy   Relation = "PRECEDED_BY"
)

// Interval is a closed range of calendar days.
type Interval struct {
	Start time.Time
	End   time.Time
}

// SpansMultipleDays reports whether the interval covers more than one day.
func (i Interval) SpansMultipleDays() bool {
	return i.End.After(i.Start)
}

func (i Interval) String() string {
	return fmt.Sprintf("[%s, %s]", dateutils.ToISODate(i.Start), dateutils.ToISODate(i.End))
}

// Relate classifies how a relates to b.
func Relate(a, b Interval) Relation {
	as, ae, bs, be := a.Start, a.End, b.Start, b.End
	switch {
	case as.Equal(bs) && ae.Equal(be):
		return Equal
	case as.Equal(bs):
		if ae.Before(be) {
			return Starts
		}
		return StartedBy
	case ae.Equal(be):
		if as.After(bs) {
			return Finishes
		}
		return FinishedBy
	case ae.Before(bs):
		return Precedes
	case as.After(be):
		return PrecededBy
	case ae.Equal(bs):
		return Meets
	case as.Equal(be):
		return MetBy
	case as.After(bs) && ae.Before(be):
		return During
	case as.Before(bs) && ae.After(be):
		return Contains
	case as.Before(bs):
		return Overlaps
	default:
		return OverlappedBy
	}
}

// Summary is the fold of a batch's booking dates.
type Summary struct {
	Min      time.Time
	Max      time.Time
	Count    int
	NonEmpty int
}

// Summarize folds the booking dates of txs into a Summary.
func Summarize(txs []models.GeneralizedTransaction) Summary {
	return fold(txs, Summary{}, func(acc Summary, tx models.GeneralizedTransaction) Summary {
		acc.Count++
		if tx.BookingDate == nil {
			return acc
		}
		d := dateutils.Day(*tx.BookingDate)
		if acc.NonEmpty == 0 || d.Before(acc.Min) {
			acc.Min = d
		}
		if acc.NonEmpty == 0 || d.After(acc.Max) {
			acc.Max = d
		}
		acc.NonEmpty++
		return acc
	})
}

func fold[T, A any](items []T, acc A, step func(A, T) A) A {
	for _, item := range items {
		acc = step(acc, item)
	}
	return acc
}

// Interval returns the booking-date interval, or false when it is unreliable:
// the batch is empty or at least one transaction has no booking date.
func (s Summary) Interval() (Interval, bool) {
	if s.Count == 0 || s.NonEmpty != s.Count {
		return Interval{}, false
	}
	return Interval{Start: s.Min, End: s.Max}, true
}
