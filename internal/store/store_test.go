package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/logging"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(n int) time.Time {
	return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func stored(id string, d int, cents int64) models.StoredTransaction {
	return models.StoredTransaction{
		ID:         id,
		UserID:     "user-1",
		AccountID:  "acc-1",
		ExternalID: "ext-" + id,
		Date:       day(d),
		Status:     models.StatusBooked,
		Amount:     decimal.New(cents, -2),
		Currency:   "EUR",
		FillType:   models.FillTypeRegular,
	}
}

func provider(ext string, d int, cents int64) models.ProviderTransaction {
	return models.ProviderTransaction{
		AccountID:  "acc-1",
		ExternalID: ext,
		Date:       day(d),
		Status:     models.StatusBooked,
		Amount:     decimal.New(cents, -2),
		Currency:   "EUR",
	}
}

func ids(txs []models.StoredTransaction) []string {
	out := make([]string, len(txs))
	for i, tx := range txs {
		out[i] = tx.ID
	}
	return out
}

func sampleInstruction() models.Instruction {
	updated := provider("ext-b", 2, 999)
	updated.Description = "corrected"
	return models.Instruction{
		Deletes: []models.StoredTransaction{stored("a", 1, 100)},
		Inserts: []models.TransactionWithID{{ID: "c", Transaction: provider("ext-c", 3, 300), FillType: models.FillTypeBackfilled}},
		Updates: []models.TransactionWithID{{ID: "b", Transaction: updated, FillType: models.FillTypeRegular}},
	}
}

func TestApplyInstruction(t *testing.T) {
	set := map[string]models.StoredTransaction{
		"a": stored("a", 1, 100),
		"b": stored("b", 2, 200),
	}
	ApplyInstruction(set, "user-1", "acc-1", sampleInstruction())

	require.Len(t, set, 2)
	assert.NotContains(t, set, "a")
	assert.Equal(t, "corrected", set["b"].Description)
	assert.Equal(t, models.FillTypeBackfilled, set["c"].FillType)
	assert.Equal(t, "user-1", set["c"].UserID)
}

func TestApplyInstruction_FillsMissingAccount(t *testing.T) {
	set := map[string]models.StoredTransaction{}
	tx := provider("ext-x", 1, 100)
	tx.AccountID = ""
	ApplyInstruction(set, "user-1", "acc-9", models.Instruction{
		Inserts: []models.TransactionWithID{{ID: "x", Transaction: tx, FillType: models.FillTypeRegular}},
	})
	assert.Equal(t, "acc-9", set["x"].AccountID)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	s.Seed(stored("b", 2, 200), stored("a", 1, 100), stored("old", -5, 50))

	other := stored("z", 1, 100)
	other.AccountID = "acc-2"
	s.Seed(other)

	txs, err := s.Load(ctx, "user-1", "acc-1", day(0))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids(txs))

	require.NoError(t, s.Apply(ctx, "user-1", "acc-1", sampleInstruction()))
	assert.Equal(t, []string{"old", "b", "c"}, ids(s.All("user-1", "acc-1")))
	assert.Equal(t, []string{"z"}, ids(s.All("user-1", "acc-2")))

	txs, err = s.Load(ctx, "user-2", "acc-1", time.Time{})
	require.NoError(t, err)
	assert.Empty(t, txs)
	assert.NoError(t, s.Close())
}

func TestMemoryStore_ApplyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewMemoryStore()
	s.Seed(stored("a", 1, 100))
	assert.ErrorIs(t, s.Apply(ctx, "user-1", "acc-1", sampleInstruction()), context.Canceled)
	assert.Equal(t, []string{"a"}, ids(s.All("user-1", "acc-1")))
}

func TestCSVStore_MissingFile(t *testing.T) {
	s := NewCSVStore(filepath.Join(t.TempDir(), "absent.csv"), logging.NewMockLogger())
	txs, err := s.Load(context.Background(), "user-1", "acc-1", time.Time{})
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestCSVStore_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	s := NewCSVStore(path, logging.NewMockLogger())
	txs, err := s.Load(context.Background(), "user-1", "acc-1", time.Time{})
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestCSVStore_ApplyAndReload(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "store.csv")
	logger := logging.NewMockLogger()
	s := NewCSVStore(path, logger)

	seed := models.Instruction{Inserts: []models.TransactionWithID{
		{ID: "a", Transaction: provider("ext-a", 1, 100), FillType: models.FillTypeRegular},
		{ID: "b", Transaction: provider("ext-b", 2, 200), FillType: models.FillTypeRegular},
	}}
	require.NoError(t, s.Apply(ctx, "user-1", "acc-1", seed))

	otherTx := provider("ext-z", 1, 100)
	otherTx.AccountID = "acc-2"
	require.NoError(t, s.Apply(ctx, "user-1", "acc-2", models.Instruction{
		Inserts: []models.TransactionWithID{{ID: "z", Transaction: otherTx, FillType: models.FillTypeRegular}},
	}))

	require.NoError(t, s.Apply(ctx, "user-1", "acc-1", sampleInstruction()))
	assert.True(t, logger.HasEntry("DEBUG", "Applied instruction to CSV store"))

	reopened := NewCSVStore(path, nil)
	txs, err := reopened.Load(ctx, "user-1", "acc-1", time.Time{})
	require.NoError(t, err)
	require.Equal(t, []string{"b", "c"}, ids(txs))
	assert.Equal(t, "corrected", txs[0].Description)
	assert.True(t, decimal.New(999, -2).Equal(txs[0].Amount))
	assert.Equal(t, models.FillTypeBackfilled, txs[1].FillType)

	txs, err = reopened.Load(ctx, "user-1", "acc-1", day(3))
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, ids(txs))

	txs, err = reopened.Load(ctx, "user-1", "acc-2", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, []string{"z"}, ids(txs))
}

func TestStoresImplementInterface(t *testing.T) {
	var _ Store = NewMemoryStore()
	var _ Store = NewCSVStore("unused.csv", nil)
}
