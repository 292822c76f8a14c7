package reconciler

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/logging"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/models"

	"github.com/stretchr/testify/require"
)

const (
	testUser    = "user-1"
	testAccount = "acc-1"
)

func day(n int) time.Time {
	return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

type fakeLoader struct {
	stored   []models.StoredTransaction
	err      error
	calls    int
	lastFrom time.Time
}

func (f *fakeLoader) Load(_ context.Context, _, _ string, from time.Time) ([]models.StoredTransaction, error) {
	f.calls++
	f.lastFrom = from
	if f.err != nil {
		return nil, f.err
	}
	var out []models.StoredTransaction
	for _, tx := range f.stored {
		if !tx.Date.Before(from) {
			out = append(out, tx)
		}
	}
	return out, nil
}

type sequentialIDs struct{ n int }

func (s *sequentialIDs) NewID(models.ProviderTransaction) string {
	s.n++
	return fmt.Sprintf("new-%d", s.n)
}

func newDeps(loader TransactionLoader) (Dependencies, *logging.MockLogger) {
	logger := logging.NewMockLogger()
	return Dependencies{Loader: loader, IDs: &sequentialIDs{}, Logger: logger}, logger
}

func upstreamTx(t *testing.T, ext string, cents int64, date time.Time) models.ProviderTransaction {
	t.Helper()
	tx, err := models.NewTransactionBuilder().
		WithAccountID(testAccount).
		WithExternalID(ext).
		WithCents(cents).
		WithDateFromTime(date).
		WithBookingDate(date).
		Build()
	require.NoError(t, err)
	return tx
}

func pendingTx(t *testing.T, ext string, cents int64, date time.Time) models.ProviderTransaction {
	t.Helper()
	tx := upstreamTx(t, ext, cents, date)
	tx.Status = models.StatusPending
	return tx
}

func storedTx(id string, tx models.ProviderTransaction) models.StoredTransaction {
	return tx.ToStored(id, testUser, models.FillTypeRegular)
}

func request(upstream ...models.ProviderTransaction) Request {
	return Request{UserID: testUser, AccountID: testAccount, Provider: "TESTBANK", Upstream: upstream}
}

func ids(txs []models.TransactionWithID) []string {
	out := make([]string, len(txs))
	for i, tx := range txs {
		out[i] = tx.ID
	}
	return out
}

func storedIDs(txs []models.StoredTransaction) []string {
	out := make([]string, len(txs))
	for i, tx := range txs {
		out[i] = tx.ID
	}
	return out
}
