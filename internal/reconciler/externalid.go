package reconciler

import (
	"context"

	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/attribute"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/currencyutils"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/logging"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/matcher"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/models"
)

const (
	matcherExternalID = "external-id"
	matcherDateAmount = "date-amount"
)

// ExternalIDReconciler is the default strategy. It pairs on the bank's
// external id first. Upstream items whose external id is missing or
// duplicated fall back to (date, amount), resolving ambiguous groups by
// batch order. Everything left over is inserted or deleted.
type ExternalIDReconciler struct {
	base
	chain *matcher.Chain
}

// NewExternalIDReconciler wires the default strategy.
func NewExternalIDReconciler(deps Dependencies, mode Mode) (*ExternalIDReconciler, error) {
	if err := deps.validate(AlgorithmExternalID, true); err != nil {
		return nil, err
	}
	deps = deps.withDefaults()

	byExternalID, err := matcher.NewEqualityMatcher(matcherExternalID, attribute.Required(attribute.ExternalID))
	if err != nil {
		return nil, err
	}
	byDateAmount, err := matcher.NewOptimisticMatcher(matcherDateAmount,
		attribute.Select(attribute.Date), attribute.Select(attribute.AmountInCents))
	if err != nil {
		return nil, err
	}
	// Upstream items with a usable external id that found no peer are new
	// transactions and never reach the fallback.
	fallback := matcher.Restricted(byDateAmount, matcher.ReasonRejected, matcher.ReasonDuplicate)
	chain, err := matcher.NewChain(deps.Logger, byExternalID, fallback)
	if err != nil {
		return nil, err
	}

	return &ExternalIDReconciler{
		base:  base{name: AlgorithmExternalID, mode: mode, deps: deps},
		chain: chain,
	}, nil
}

// Reconcile implements Strategy.
func (r *ExternalIDReconciler) Reconcile(ctx context.Context, req Request) (models.Instruction, error) {
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

	results := r.chain.Run(models.GeneralizeProviders(req.Upstream), models.GeneralizeStoreds(stored))
	snapshots := results.Snapshots()
	byID := snapshots[1]
	metrics.UpstreamQualityMissingExternalIDs = len(byID.UpstreamWith(matcher.ReasonRejected))
	metrics.UpstreamQualityDuplicateExternalIDs = len(byID.UpstreamWith(matcher.ReasonDuplicate))

	last := results.Last()
	metrics.StoredMatchedByExternalID = len(last.MatchedBy(matcherExternalID))
	metrics.StoredMatchedByAttributesUnique = len(last.MatchedBy(matcherDateAmount))
	metrics.StoredMatchedByAttributesOptimistic = len(last.MultiMatched)

	var instr models.Instruction
	pairs := append(append([]matcher.Pair(nil), last.Matched...), last.MultiMatched...)
	for _, pair := range pairs {
		tx := req.Upstream[pair.Upstream.Index]
		counterpart := stored[pair.Stored.Index]

		switch {
		case !pair.Upstream.KeyEquals(pair.Stored):
			instr.Deletes = append(instr.Deletes, counterpart)
			instr.Updates = append(instr.Updates, updateOf(tx, counterpart))
			metrics.StoredPrimaryKeyUpdated++
			switch {
			case counterpart.Status == models.StatusPending && tx.Status == models.StatusBooked:
				metrics.StoredPendingToBooked++
			case counterpart.Status == models.StatusBooked && tx.Status == models.StatusPending:
				metrics.StoredBookedToPending++
			}
		case !pair.Upstream.ContentEquals(pair.Stored):
			instr.Updates = append(instr.Updates, updateOf(tx, counterpart))
		default:
			instr.Ignores = append(instr.Ignores, updateOf(tx, counterpart))
			metrics.UpstreamUnchanged++
		}
	}

	mostRecent := mostRecentDate(stored)
	for _, u := range last.UnmatchedUpstream {
		tx := req.Upstream[u.Transaction.Index]
		instr.Inserts = append(instr.Inserts, r.insert(tx, r.fillType(tx.Date, mostRecent)))
	}
	metrics.UpstreamNew = len(instr.Inserts)

	for _, u := range last.UnmatchedStored {
		tx := stored[u.Transaction.Index]
		instr.Deletes = append(instr.Deletes, tx)
		if tx.Status == models.StatusPending {
			metrics.StoredPendingNotMatched++
			continue
		}
		metrics.StoredBookedNotMatched++
		logger.Warn("Deleting booked stored transaction without upstream counterpart",
			logging.F(logging.FieldTransactionID, tx.ID),
			logging.F(logging.FieldAmount, currencyutils.FormatAmount(tx.Amount, tx.Currency)),
			logging.F(logging.FieldReason, string(u.Reason)),
			logging.F(logging.FieldMatcher, u.Matcher))
	}

	instr.Metrics = metrics
	instr.OldestTransactionChangeDate = instr.OldestChangeDate()
	instr.SortByDate()
	logMetrics(logger, metrics)
	return instr, nil
}
