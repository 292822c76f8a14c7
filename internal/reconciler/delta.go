package reconciler

import (
	"context"
	"strings"

	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/logging"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/models"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/reconcileerror"
)

// DeltaReconciler trusts the provider to send only what changed: booked
// transactions are upserted under their external id and nothing is deleted.
// Missed deltas are never corrected; it exists for one legacy provider.
type DeltaReconciler struct {
	base
}

// NewDeltaReconciler wires the delta strategy. It needs no loader.
func NewDeltaReconciler(deps Dependencies, mode Mode) (*DeltaReconciler, error) {
	if err := deps.validate(AlgorithmDelta, false); err != nil {
		return nil, err
	}
	return &DeltaReconciler{base: base{name: AlgorithmDelta, mode: mode, deps: deps.withDefaults()}}, nil
}

// Reconcile implements Strategy.
func (r *DeltaReconciler) Reconcile(_ context.Context, req Request) (models.Instruction, error) {
	logger := r.logger(req)
	booked, pending := splitByStatus(req.Upstream, providerStatus)
	if len(pending) > 0 {
		logger.Debug("Dropping pending transactions", logging.F(logging.FieldCount, len(pending)))
	}

	var missing int
	for _, tx := range booked {
		if strings.TrimSpace(tx.ExternalID) == "" {
			missing++
		}
	}
	if missing > 0 {
		return models.Instruction{}, &reconcileerror.AbortError{
			Strategy: r.name,
			Class:    reconcileerror.ClassMissingExternalID,
			Side:     "upstream",
			Count:    missing,
			Err:      reconcileerror.ErrMissingExternalID,
		}
	}

	instr := models.Instruction{
		Metrics: &models.Metrics{UpstreamTotal: len(req.Upstream), UpstreamNew: len(booked)},
	}
	for _, tx := range booked {
		instr.Inserts = append(instr.Inserts, models.TransactionWithID{
			Transaction: tx,
			ID:          tx.ExternalID,
			FillType:    models.FillTypeRegular,
		})
	}
	instr.OldestTransactionChangeDate = instr.OldestChangeDate()
	instr.SortByDate()
	logMetrics(logger, instr.Metrics)
	return instr, nil
}
