package batch

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/logging"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/models"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/reconcileerror"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/reconciler"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUser = "user-1"

func day(n int) time.Time {
	return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func tx(account, ext string, d int, cents int64) models.ProviderTransaction {
	date := day(d)
	return models.ProviderTransaction{
		AccountID:   account,
		ExternalID:  ext,
		Date:        date,
		BookingDate: &date,
		Status:      models.StatusBooked,
		Amount:      decimal.New(cents, -2),
		Currency:    "EUR",
	}
}

type counterIDs struct{ n int }

func (c *counterIDs) NewID(models.ProviderTransaction) string {
	c.n++
	return fmt.Sprintf("id-%d", c.n)
}

type failingApplier struct{ err error }

func (f failingApplier) Apply(context.Context, string, string, models.Instruction) error {
	return f.err
}

func newRegistry(t *testing.T, st *store.MemoryStore, logger logging.Logger) *reconciler.Registry {
	t.Helper()
	registry, err := reconciler.BuildRegistry(
		reconciler.Dependencies{Loader: st, IDs: &counterIDs{}, Logger: logger},
		reconciler.AlgorithmExternalID,
		map[string]reconciler.ProviderSpec{
			"delta-bank": {Algorithm: reconciler.AlgorithmDelta},
		})
	require.NoError(t, err)
	return registry
}

func TestDateRange_String(t *testing.T) {
	assert.Equal(t, "", DateRange{}.String())
	assert.Equal(t, "", DateRange{Start: day(0)}.String())
	assert.Equal(t, "2024-06-01_2024-06-05", DateRange{Start: day(0), End: day(4)}.String())
}

func TestDateRange_Merge(t *testing.T) {
	tests := []struct {
		name     string
		a, b     DateRange
		expected DateRange
	}{
		{"empty with range", DateRange{}, DateRange{Start: day(1), End: day(2)}, DateRange{Start: day(1), End: day(2)}},
		{"range with empty", DateRange{Start: day(1), End: day(2)}, DateRange{}, DateRange{Start: day(1), End: day(2)}},
		{"widens both ends", DateRange{Start: day(3), End: day(4)}, DateRange{Start: day(1), End: day(6)}, DateRange{Start: day(1), End: day(6)}},
		{"contained", DateRange{Start: day(1), End: day(6)}, DateRange{Start: day(3), End: day(4)}, DateRange{Start: day(1), End: day(6)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.a.Merge(tt.b))
		})
	}
}

func TestGroupByAccount(t *testing.T) {
	p := NewProcessor(nil, nil, logging.NewMockLogger(), true)
	groups := p.GroupByAccount([]models.ProviderTransaction{
		tx("acc-b", "1", 3, 100),
		tx("acc-a", "2", 5, 200),
		tx("acc-b", "3", 1, 300),
	})

	require.Len(t, groups, 2)
	assert.Equal(t, "acc-a", groups[0].AccountID)
	assert.Equal(t, "acc-b", groups[1].AccountID)
	assert.Equal(t, "1", groups[1].Transactions[0].ExternalID)
	assert.Equal(t, "3", groups[1].Transactions[1].ExternalID)
	assert.Equal(t, DateRange{Start: day(1), End: day(3)}, groups[1].DateRange)
}

func TestProcess_AppliesEachAccount(t *testing.T) {
	ctx := context.Background()
	logger := logging.NewMockLogger()
	st := store.NewMemoryStore()
	p := NewProcessor(newRegistry(t, st, logger), st, logger, false)

	batch := []models.ProviderTransaction{
		tx("acc-1", "a", 1, 100),
		tx("acc-1", "b", 2, 200),
		tx("acc-2", "c", 1, 300),
	}
	report := p.Process(ctx, testUser, "some-bank", batch)

	assert.Equal(t, 2, report.Succeeded)
	assert.Equal(t, 0, report.Failed)
	require.Len(t, report.Accounts, 2)
	assert.True(t, report.Accounts[0].Applied)
	assert.Equal(t, reconciler.AlgorithmExternalID, report.Accounts[0].Strategy)
	assert.Len(t, report.Accounts[0].Instruction.Inserts, 2)
	assert.Len(t, st.All(testUser, "acc-1"), 2)
	assert.Len(t, st.All(testUser, "acc-2"), 1)
	assert.True(t, logger.HasEntry("INFO", "Batch reconciled"))

	// Replaying the same batch changes nothing.
	report = p.Process(ctx, testUser, "some-bank", batch)
	assert.Equal(t, 2, report.Succeeded)
	for _, account := range report.Accounts {
		assert.False(t, account.Applied)
		assert.True(t, account.Instruction.IsNoop())
	}
	assert.Len(t, st.All(testUser, "acc-1"), 2)
}

func TestProcess_FailingAccountDoesNotStopOthers(t *testing.T) {
	logger := logging.NewMockLogger()
	st := store.NewMemoryStore()
	p := NewProcessor(newRegistry(t, st, logger), st, logger, false)

	report := p.Process(context.Background(), testUser, "DELTA-BANK", []models.ProviderTransaction{
		tx("acc-1", "", 1, 100),
		tx("acc-2", "c", 1, 300),
	})

	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Failures, 1)
	failure := report.Failures[0]
	assert.Equal(t, "acc-1", failure.AccountID)
	assert.Equal(t, reconcileerror.ClassMissingExternalID, failure.Class)
	assert.ErrorIs(t, failure.Err, reconcileerror.ErrMissingExternalID)
	assert.NotEmpty(t, failure.Message)

	assert.Empty(t, st.All(testUser, "acc-1"))
	assert.Len(t, st.All(testUser, "acc-2"), 1)

	class, ok := logger.FieldValue("Account reconciliation failed", logging.FieldFailureClass)
	require.True(t, ok)
	assert.Equal(t, string(reconcileerror.ClassMissingExternalID), class)
}

func TestProcess_DryRun(t *testing.T) {
	st := store.NewMemoryStore()
	logger := logging.NewMockLogger()
	p := NewProcessor(newRegistry(t, st, logger), st, logger, true)

	report := p.Process(context.Background(), testUser, "some-bank", []models.ProviderTransaction{
		tx("acc-1", "a", 1, 100),
	})

	require.Len(t, report.Accounts, 1)
	assert.False(t, report.Accounts[0].Applied)
	assert.Len(t, report.Accounts[0].Instruction.Inserts, 1)
	assert.Empty(t, st.All(testUser, "acc-1"))
}

func TestProcess_NilApplierIsDryRun(t *testing.T) {
	st := store.NewMemoryStore()
	p := NewProcessor(newRegistry(t, st, nil), nil, nil, false)

	report := p.Process(context.Background(), testUser, "some-bank", []models.ProviderTransaction{
		tx("acc-1", "a", 1, 100),
	})
	require.Len(t, report.Accounts, 1)
	assert.False(t, report.Accounts[0].Applied)
}

func TestProcess_ApplyFailure(t *testing.T) {
	st := store.NewMemoryStore()
	logger := logging.NewMockLogger()
	p := NewProcessor(newRegistry(t, st, logger), failingApplier{err: errors.New("disk full")}, logger, false)

	report := p.Process(context.Background(), testUser, "some-bank", []models.ProviderTransaction{
		tx("acc-1", "a", 1, 100),
	})

	require.Len(t, report.Failures, 1)
	assert.Equal(t, reconcileerror.ClassApplyFailed, report.Failures[0].Class)
	assert.ErrorIs(t, report.Failures[0].Err, reconcileerror.ErrApply)
	assert.Contains(t, report.Failures[0].Message, "disk full")
}

func TestProcess_CancelledContext(t *testing.T) {
	st := store.NewMemoryStore()
	p := NewProcessor(newRegistry(t, st, nil), st, logging.NewMockLogger(), false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report := p.Process(ctx, testUser, "some-bank", []models.ProviderTransaction{
		tx("acc-1", "a", 1, 100),
		tx("acc-2", "b", 1, 100),
	})

	assert.Equal(t, 0, report.Succeeded)
	assert.Equal(t, 2, report.Failed)
	assert.ErrorIs(t, report.Failures[0].Err, context.Canceled)
	assert.Equal(t, reconcileerror.ClassUnknown, report.Failures[0].Class)
}
