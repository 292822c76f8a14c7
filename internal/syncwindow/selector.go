package syncwindow

import (
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/dateutils"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/logging"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/models"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/reconcileerror"
)

// Selector picks the window for one reconciliation.
type Selector interface {
	Select(upstream, stored []models.GeneralizedTransaction) (SyncWindow, error)
}

// UnboundedSelector always compares everything.
type UnboundedSelector struct{}

// Select implements Selector.
func (UnboundedSelector) Select(upstream, _ []models.GeneralizedTransaction) (SyncWindow, error) {
	if len(upstream) == 0 {
		return SyncWindow{}, reconcileerror.ErrEmptyUpstream
	}
	return Unbounded(), nil
}

// AllenSelector derives the window from the Allen relation between the
// provider and stored booking-date intervals.
type AllenSelector struct {
	logger logging.Logger
}

// NewAllenSelector creates an AllenSelector. A nil logger uses the default one.
func NewAllenSelector(logger logging.Logger) *AllenSelector {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &AllenSelector{logger: logger}
}

// Select implements Selector.
func (s *AllenSelector) Select(upstream, stored []models.GeneralizedTransaction) (SyncWindow, error) {
	if len(upstream) == 0 {
		return SyncWindow{}, reconcileerror.ErrEmptyUpstream
	}
	if len(stored) == 0 {
		return Unbounded(), nil
	}

	provider, ok := Summarize(upstream).Interval()
	if !ok {
		s.logger.Debug("Upstream booking dates incomplete, using unbounded window")
		return Unbounded(), nil
	}
	storage, ok := Summarize(stored).Interval()
	if !ok {
		s.logger.Debug("Stored booking dates incomplete, using unbounded window")
		return Unbounded(), nil
	}

	relation := Relate(provider, storage)
	window := Decide(relation, provider, storage)
	s.logger.Debug("Selected sync window",
		logging.F("relation", string(relation)),
		logging.F("provider_interval", provider.String()),
		logging.F("stored_interval", storage.String()),
		logging.F("window", window.String()))
	return window, nil
}

// Decide maps a relation between reliable intervals to a window.
func Decide(relation Relation, provider, stored Interval) SyncWindow {
	skipFirstDay := func() SyncWindow {
		return Bounded(dateutils.AddDays(provider.Start, 1), true)
	}
	switch relation {
	case Starts, During:
		if provider.SpansMultipleDays() {
			return skipFirstDay()
		}
		return Bounded(provider.Start, false)
	case PrecededBy, MetBy:
		return Bounded(provider.Start, false)
	case OverlappedBy, StartedBy, Finishes, Equal:
		if provider.Start.Before(stored.End) && provider.SpansMultipleDays() {
			return skipFirstDay()
		}
		return Bounded(provider.Start, false)
	default:
		// Precedes, Meets, Overlaps, Contains, FinishedBy: the provider did
		// not refresh enough of the stored range.
		return Unbounded()
	}
}
