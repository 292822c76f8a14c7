// Package batch drives reconciliation of an ingestion batch account by account
package batch

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/dateutils"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/logging"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/models"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/reconcileerror"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/reconciler"
)

// DateRange represents a date range with start and end dates
type DateRange struct {
	Start time.Time
	End   time.Time
}

// String returns the date range in the format "YYYY-MM-DD_YYYY-MM-DD"
func (dr DateRange) String() string {
	if dr.Start.IsZero() || dr.End.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s_%s", dateutils.ToISODate(dr.Start), dateutils.ToISODate(dr.End))
}

// Merge combines this date range with another, returning the overall range
func (dr DateRange) Merge(other DateRange) DateRange {
	start := dr.Start
	end := dr.End

	if dr.Start.IsZero() {
		start = other.Start
	} else if !other.Start.IsZero() && other.Start.Before(start) {
		start = other.Start
	}

	if dr.End.IsZero() {
		end = other.End
	} else if !other.End.IsZero() && other.End.After(end) {
		end = other.End
	}

	return DateRange{Start: start, End: end}
}

// AccountGroup is the part of an ingestion batch that belongs to one account
type AccountGroup struct {
	AccountID    string
	Transactions []models.ProviderTransaction
	DateRange    DateRange
}

// StrategyResolver picks the strategy of a provider
type StrategyResolver interface {
	Lookup(provider string) reconciler.Strategy
}

// Applier persists an instruction: deletes first, then upserts
type Applier interface {
	Apply(ctx context.Context, userID, accountID string, instr models.Instruction) error
}

// AccountResult is a successfully reconciled account
type AccountResult struct {
	AccountID   string             `yaml:"account_id"`
	DateRange   string             `yaml:"date_range,omitempty"`
	Strategy    string             `yaml:"strategy"`
	Applied     bool               `yaml:"applied"`
	Instruction models.Instruction `yaml:"instruction"`
}

// AccountFailure is an account whose upstream batch was dropped
type AccountFailure struct {
	AccountID string               `yaml:"account_id"`
	Class     reconcileerror.Class `yaml:"class"`
	Err       error                `yaml:"-"`
	Message   string               `yaml:"error"`
}

// Report summarizes one ingestion batch
type Report struct {
	UserID    string           `yaml:"user_id"`
	Provider  string           `yaml:"provider"`
	Accounts  []AccountResult  `yaml:"accounts"`
	Failures  []AccountFailure `yaml:"failures,omitempty"`
	Succeeded int              `yaml:"succeeded"`
	Failed    int              `yaml:"failed"`
}

// Processor reconciles accounts one after the other and never lets a failing
// account stop the others
type Processor struct {
	strategies StrategyResolver
	applier    Applier
	logger     logging.Logger
	dryRun     bool
}

// NewProcessor creates a new Processor. A nil applier, or dryRun, only computes instructions.
func NewProcessor(strategies StrategyResolver, applier Applier, logger logging.Logger, dryRun bool) *Processor {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Processor{
		strategies: strategies,
		applier:    applier,
		logger:     logger,
		dryRun:     dryRun || applier == nil,
	}
}

// GroupByAccount groups transactions by account id, sorted by account id for
// consistent output. Batch order is kept inside a group.
func (p *Processor) GroupByAccount(txs []models.ProviderTransaction) []AccountGroup {
	accountGroups := make(map[string]*AccountGroup)

	for _, tx := range txs {
		group, exists := accountGroups[tx.AccountID]
		if !exists {
			group = &AccountGroup{AccountID: tx.AccountID}
			accountGroups[tx.AccountID] = group
		}
		group.Transactions = append(group.Transactions, tx)
		group.DateRange = group.DateRange.Merge(DateRange{Start: tx.Date, End: tx.Date})
	}

	groups := make([]AccountGroup, 0, len(accountGroups))
	for _, group := range accountGroups {
		groups = append(groups, *group)
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].AccountID < groups[j].AccountID
	})

	p.logger.Debug("Grouped transactions into accounts",
		logging.F(logging.FieldCount, len(txs)),
		logging.F("account_groups", len(groups)))
	return groups
}

// Process reconciles every account of the batch.
func (p *Processor) Process(ctx context.Context, userID, provider string, txs []models.ProviderTransaction) Report {
	report := Report{UserID: userID, Provider: provider}
	strategy := p.strategies.Lookup(provider)

	for _, group := range p.GroupByAccount(txs) {
		logger := p.logger.WithFields(
			logging.F(logging.FieldProvider, provider),
			logging.F(logging.FieldUserID, userID),
			logging.F(logging.FieldAccountID, group.AccountID),
			logging.F(logging.FieldStrategy, strategy.Name()))

		if err := ctx.Err(); err != nil {
			report.fail(group.AccountID, err)
			continue
		}

		result, err := p.processAccount(ctx, strategy, userID, provider, group)
		if err != nil {
			class := reconcileerror.ClassOf(err)
			logger.WithError(err).Error("Account reconciliation failed",
				logging.F(logging.FieldFailureClass, string(class)))
			report.fail(group.AccountID, err)
			continue
		}

		report.Accounts = append(report.Accounts, result)
		report.Succeeded++
	}

	p.logger.Info("Batch reconciled",
		logging.F(logging.FieldProvider, provider),
		logging.F(logging.FieldUserID, userID),
		logging.F("succeeded", report.Succeeded),
		logging.F("failed", report.Failed))
	return report
}

func (p *Processor) processAccount(ctx context.Context, strategy reconciler.Strategy, userID, provider string, group AccountGroup) (AccountResult, error) {
	started := time.Now()
	instr, err := strategy.Reconcile(ctx, reconciler.Request{
		UserID:    userID,
		AccountID: group.AccountID,
		Provider:  provider,
		Upstream:  group.Transactions,
	})
	if err != nil {
		return AccountResult{}, err
	}

	result := AccountResult{
		AccountID:   group.AccountID,
		DateRange:   group.DateRange.String(),
		Strategy:    strategy.Name(),
		Instruction: instr,
	}
	if !p.dryRun && !instr.IsNoop() {
		if err := p.applier.Apply(ctx, userID, group.AccountID, instr); err != nil {
			return AccountResult{}, fmt.Errorf("%w: %w", reconcileerror.ErrApply, err)
		}
		result.Applied = true
	}

	p.logger.Debug("Account reconciled",
		logging.F(logging.FieldAccountID, group.AccountID),
		logging.F("inserts", len(instr.Inserts)),
		logging.F("updates", len(instr.Updates)),
		logging.F("deletes", len(instr.Deletes)),
		logging.F(logging.FieldDuration, time.Since(started).Milliseconds()))
	return result, nil
}

func (r *Report) fail(accountID string, err error) {
	r.Failures = append(r.Failures, AccountFailure{
		AccountID: accountID,
		Class:     reconcileerror.ClassOf(err),
		Err:       err,
		Message:   err.Error(),
	})
	r.Failed++
}
