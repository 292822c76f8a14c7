// Package reconciler decides, per account, which upstream transactions to
// insert, update, delete or ignore against what is already stored.
package reconciler

import (
	"context"
	"sort"
	"time"

	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/dateutils"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/logging"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/models"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/reconcileerror"

	"github.com/google/uuid"
)

// Mode tells whether a strategy's result is applied or only observed.
type Mode string

const (
	ModeActive Mode = "ACTIVE"
	ModeTest   Mode = "TEST"
)

// Algorithm names accepted in provider configuration.
const (
	AlgorithmExternalID    = "external-id"
	AlgorithmAttribute     = "attribute"
	AlgorithmDelta         = "delta"
	AlgorithmActivePassive = "active-passive"
)

// Request is one account's upstream batch.
type Request struct {
	UserID    string
	AccountID string
	Provider  string
	Upstream  []models.ProviderTransaction
}

// Strategy reconciles one account. The set of implementations is closed:
// AttributeReconciler, ExternalIDReconciler, DeltaReconciler and ActivePassive.
type Strategy interface {
	Name() string
	Mode() Mode
	Reconcile(ctx context.Context, req Request) (models.Instruction, error)

	isStrategy()
}

// TransactionLoader returns every stored transaction of an account dated on
// or after from, whatever its status.
type TransactionLoader interface {
	Load(ctx context.Context, userID, accountID string, from time.Time) ([]models.StoredTransaction, error)
}

// IDGenerator assigns the id a new transaction is persisted under.
type IDGenerator interface {
	NewID(tx models.ProviderTransaction) string
}

// UUIDGenerator hands out random UUIDs.
type UUIDGenerator struct{}

// NewID implements IDGenerator.
func (UUIDGenerator) NewID(models.ProviderTransaction) string {
	return uuid.New().String()
}

// Dependencies are the collaborators shared by all strategies.
type Dependencies struct {
	Loader TransactionLoader
	IDs    IDGenerator
	Logger logging.Logger
	// BackfillThresholdDays defaults to models.DefaultBackfillThresholdDays when zero.
	BackfillThresholdDays int
}

func (d Dependencies) withDefaults() Dependencies {
	if d.IDs == nil {
		d.IDs = UUIDGenerator{}
	}
	if d.Logger == nil {
		d.Logger = logging.GetLogger()
	}
	if d.BackfillThresholdDays == 0 {
		d.BackfillThresholdDays = models.DefaultBackfillThresholdDays
	}
	return d
}

func (d Dependencies) validate(component string, needsLoader bool) error {
	if needsLoader && d.Loader == nil {
		return reconcileerror.NewConfigurationError(component, "a transaction loader is required")
	}
	if d.BackfillThresholdDays < 0 {
		return reconcileerror.NewConfigurationError(component, "backfill threshold must not be negative, got %d", d.BackfillThresholdDays)
	}
	return nil
}

// base carries what every strategy shares.
type base struct {
	name string
	mode Mode
	deps Dependencies
}

func (b base) Name() string { return b.name }
func (b base) Mode() Mode   { return b.mode }
func (base) isStrategy()    {}

func (b base) logger(req Request) logging.Logger {
	return b.deps.Logger.WithFields(
		logging.F(logging.FieldStrategy, b.name),
		logging.F(logging.FieldMode, string(b.mode)),
		logging.F(logging.FieldProvider, req.Provider),
		logging.F(logging.FieldUserID, req.UserID),
		logging.F(logging.FieldAccountID, req.AccountID))
}

// loadStored fetches the stored transactions sharing the upstream batch's
// time window.
func (b base) loadStored(ctx context.Context, req Request) ([]models.StoredTransaction, error) {
	from := earliestInstant(req.Upstream)
	stored, err := b.deps.Loader.Load(ctx, req.UserID, req.AccountID, dateutils.Day(from))
	if err != nil {
		return nil, wrapLoadError(req, err)
	}
	return withinTimeWindow(stored, from), nil
}

// insert binds a new upstream transaction to a fresh id.
func (b base) insert(tx models.ProviderTransaction, fillType models.FillType) models.TransactionWithID {
	return models.TransactionWithID{Transaction: tx, ID: b.deps.IDs.NewID(tx), FillType: fillType}
}

// fillType applies the backfill rule against the most recent stored date.
func (b base) fillType(date time.Time, mostRecentStored *time.Time) models.FillType {
	if mostRecentStored == nil {
		return models.FillTypeRegular
	}
	if dateutils.DaysBetween(date, *mostRecentStored) > b.deps.BackfillThresholdDays {
		return models.FillTypeBackfilled
	}
	return models.FillTypeRegular
}

func mostRecentDate(stored []models.StoredTransaction) *time.Time {
	dates := make([]time.Time, len(stored))
	for i, tx := range stored {
		dates[i] = tx.Date
	}
	latest, ok := dateutils.MaxDate(dates...)
	if !ok {
		return nil
	}
	return &latest
}

func splitByStatus[T any](txs []T, status func(T) models.Status) (booked, pending []T) {
	for _, tx := range txs {
		if status(tx) == models.StatusPending {
			pending = append(pending, tx)
		} else {
			booked = append(booked, tx)
		}
	}
	return booked, pending
}

func providerStatus(tx models.ProviderTransaction) models.Status { return tx.Status }
func storedStatus(tx models.StoredTransaction) models.Status     { return tx.Status }

// updateOf binds an upstream transaction to the id of its stored counterpart.
func updateOf(tx models.ProviderTransaction, stored models.StoredTransaction) models.TransactionWithID {
	fillType := stored.FillType
	if fillType == "" {
		fillType = models.FillTypeRegular
	}
	return models.TransactionWithID{Transaction: tx, ID: stored.ID, FillType: fillType}
}

// logMetrics writes every counter as its own field.
func logMetrics(logger logging.Logger, m *models.Metrics) {
	counters := m.Counters()
	names := make([]string, 0, len(counters))
	for name := range counters {
		names = append(names, name)
	}
	sort.Strings(names)
	fields := make([]logging.Field, 0, len(names))
	for _, name := range names {
		fields = append(fields, logging.F(name, counters[name]))
	}
	logger.Info("Reconciliation metrics", fields...)
}
