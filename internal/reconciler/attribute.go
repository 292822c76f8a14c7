package reconciler

import (
	"context"
	"time"

	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/dateutils"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/logging"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/matcher"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/models"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/reconcileerror"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/syncwindow"
)

// AttributeReconciler matches booked transactions through a configurable
// matcher chain inside a sync window, and refuses to guess: any ambiguity
// aborts the account.
type AttributeReconciler struct {
	base
	chain  *matcher.Chain
	window syncwindow.Selector
}

// NewAttributeReconciler wires an attribute strategy.
func NewAttributeReconciler(deps Dependencies, mode Mode, chain *matcher.Chain, window syncwindow.Selector) (*AttributeReconciler, error) {
	if err := deps.validate(AlgorithmAttribute, true); err != nil {
		return nil, err
	}
	if chain == nil {
		return nil, reconcileerror.NewConfigurationError(AlgorithmAttribute, "a matcher chain is required")
	}
	if window == nil {
		window = syncwindow.UnboundedSelector{}
	}
	return &AttributeReconciler{
		base:   base{name: AlgorithmAttribute, mode: mode, deps: deps.withDefaults()},
		chain:  chain,
		window: window,
	}, nil
}

// Reconcile implements Strategy.
func (r *AttributeReconciler) Reconcile(ctx context.Context, req Request) (models.Instruction, error) {
	logger := r.logger(req)
	metrics := &models.Metrics{UpstreamTotal: len(req.Upstream)}
	if len(req.Upstream) == 0 {
		return models.Instruction{Metrics: metrics}, nil
	}

	stored, err := r.loadStored(ctx, req)
	if err != nil {
		return models.Instruction{}, err
	}
	metrics.StoredTotal = len(stored)

	var instr models.Instruction
	if len(stored) == 0 {
		logger.Debug("No stored transactions, inserting upstream batch as is",
			logging.F(logging.FieldCount, len(req.Upstream)))
		for _, tx := range req.Upstream {
			instr.Inserts = append(instr.Inserts, r.insert(tx, models.FillTypeRegular))
		}
		return r.finish(logger, instr, metrics), nil
	}

	upstreamBooked, upstreamPending := splitByStatus(req.Upstream, providerStatus)
	storedBooked, storedPending := splitByStatus(stored, storedStatus)

	instr.Deletes = append(instr.Deletes, storedPending...)
	metrics.StoredPendingNotMatched = len(storedPending)
	for _, tx := range upstreamPending {
		instr.Inserts = append(instr.Inserts, r.insert(tx, models.FillTypeRegular))
	}

	if len(upstreamBooked) == 0 {
		logger.Debug("No booked upstream transactions to reconcile")
		return r.finish(logger, instr, metrics), nil
	}

	upstream := models.GeneralizeProviders(upstreamBooked)
	storage := models.GeneralizeStoreds(storedBooked)
	window, err := r.window.Select(upstream, storage)
	if err != nil {
		return models.Instruction{}, err
	}
	upstream, storage = window.Truncate(upstream), window.Truncate(storage)
	logger.Debug("Applying sync window",
		logging.F("window", window.String()),
		logging.F("upstream_in_window", len(upstream)),
		logging.F("stored_in_window", len(storage)))

	last := r.chain.Run(upstream, storage).Last()
	if err := r.verify(last, upstream); err != nil {
		logger.WithError(err).Error("Aborting account reconciliation",
			logging.F(logging.FieldFailureClass, string(reconcileerror.ClassOf(err))))
		return models.Instruction{}, err
	}

	for _, u := range last.StoredWith(matcher.ReasonPeerless) {
		logger.Warn("Stored transaction without counterpart on the window boundary left untouched",
			logging.F(logging.FieldTransactionID, u.Transaction.InternalID))
	}

	metrics.StoredMatchedByExternalID = len(last.MatchedBy(matcherExternalID))
	metrics.StoredMatchedByAttributesUnique = len(last.Matched) - metrics.StoredMatchedByExternalID
	metrics.StoredMatchedByAttributesOptimistic = len(last.MultiMatched)

	pairs := append(append([]matcher.Pair(nil), last.Matched...), last.MultiMatched...)
	for _, pair := range pairs {
		tx := upstreamBooked[pair.Upstream.Index]
		counterpart := storedBooked[pair.Stored.Index]
		if pair.Upstream.ContentEquals(pair.Stored) {
			instr.Ignores = append(instr.Ignores, updateOf(tx, counterpart))
			metrics.UpstreamUnchanged++
			continue
		}
		instr.Updates = append(instr.Updates, updateOf(tx, counterpart))
	}

	mostRecent := mostRecentDate(stored)
	for _, u := range last.UpstreamWith(matcher.ReasonPeerless) {
		tx := upstreamBooked[u.Transaction.Index]
		instr.Inserts = append(instr.Inserts, r.insert(tx, r.fillType(tx.Date, mostRecent)))
	}

	return r.finish(logger, instr, metrics), nil
}

// verify turns what the chain could not explain into a classified abort.
func (r *AttributeReconciler) verify(last matcher.MatchResult, upstream []models.GeneralizedTransaction) error {
	abort := func(class reconcileerror.Class, side string, items []matcher.Unmatched) error {
		return &reconcileerror.AbortError{
			Strategy: r.name,
			Class:    class,
			Side:     side,
			Matcher:  items[0].Matcher,
			Count:    len(items),
		}
	}

	if items := last.UpstreamWith(matcher.ReasonUnprocessed); len(items) > 0 {
		return abort(reconcileerror.ClassUnprocessedLeft, "upstream", items)
	}
	if items := last.StoredWith(matcher.ReasonUnprocessed); len(items) > 0 {
		return abort(reconcileerror.ClassUnprocessedLeft, "stored", items)
	}
	if items := last.UpstreamWith(matcher.ReasonRejected); len(items) > 0 {
		return abort(reconcileerror.ClassUpstreamRejected, "upstream", items)
	}
	if items := last.UpstreamWith(matcher.ReasonDuplicate); len(items) > 0 {
		return abort(reconcileerror.ClassUpstreamDuplicate, "upstream", items)
	}
	if items := last.StoredWith(matcher.ReasonRejected); len(items) > 0 {
		return abort(reconcileerror.ClassStoredRejected, "stored", items)
	}
	if items := last.StoredWith(matcher.ReasonDuplicate); len(items) > 0 {
		return abort(reconcileerror.ClassStoredDuplicate, "stored", items)
	}

	peerless := last.StoredWith(matcher.ReasonPeerless)
	if len(peerless) == 0 {
		return nil
	}
	oldest := oldestDate(upstream)
	var unaligned []matcher.Unmatched
	for _, u := range peerless {
		if oldest == nil || !u.Transaction.Date.Equal(*oldest) {
			unaligned = append(unaligned, u)
		}
	}
	if len(unaligned) > 0 {
		return abort(reconcileerror.ClassStoredPeerlessUnaligned, "stored", unaligned)
	}
	return nil
}

func oldestDate(txs []models.GeneralizedTransaction) *time.Time {
	dates := make([]time.Time, len(txs))
	for i, tx := range txs {
		dates[i] = tx.Date
	}
	oldest, ok := dateutils.MinDate(dates...)
	if !ok {
		return nil
	}
	return &oldest
}

// finish sets the oldest change date across inserts, updates and deletes.
func (r *AttributeReconciler) finish(logger logging.Logger, instr models.Instruction, metrics *models.Metrics) models.Instruction {
	instr.OldestTransactionChangeDate = instr.OldestChangeDate()
	metrics.UpstreamNew = len(instr.Inserts)
	instr.Metrics = metrics
	instr.SortByDate()
	logMetrics(logger, metrics)
	return instr
}
