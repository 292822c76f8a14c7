package camtparser

import (
	"runtime"
	"sync"

	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/logging"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/models"

	"gopkg.in/xmlpath.v2"
)

// sequentialThreshold is the entry count below which workers cost more than they save.
const sequentialThreshold = 100

// EntryConverter maps the entry at index. It returns false to drop the entry.
type EntryConverter func(index int, entry *xmlpath.Node) (models.ProviderTransaction, bool, error)

// ConcurrentProcessor converts statement entries, in parallel for large statements
type ConcurrentProcessor struct {
	logger      logging.Logger
	workerCount int
}

// NewConcurrentProcessor creates a new concurrent processor
func NewConcurrentProcessor(logger logging.Logger) *ConcurrentProcessor {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &ConcurrentProcessor{
		logger:      logger,
		workerCount: runtime.NumCPU(),
	}
}

// ProcessEntries converts entries and keeps document order. On failure the
// error of the lowest failing index is returned.
func (cp *ConcurrentProcessor) ProcessEntries(entries []*xmlpath.Node, convert EntryConverter) ([]models.ProviderTransaction, error) {
	results := make([]indexedTransaction, len(entries))

	if len(entries) < sequentialThreshold || cp.workerCount < 2 {
		for i, entry := range entries {
			results[i] = run(i, entry, convert)
			if results[i].err != nil {
				return nil, results[i].err
			}
		}
		return collect(results)
	}

	indexes := make(chan int, cp.workerCount)
	var wg sync.WaitGroup
	for w := 0; w < cp.workerCount; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				// each worker writes distinct slots
				results[i] = run(i, entries[i], convert)
			}
		}()
	}
	for i := range entries {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	cp.logger.Debug("Concurrent processing completed",
		logging.F("entries", len(entries)),
		logging.F("workers", cp.workerCount))
	return collect(results)
}

// indexedTransaction preserves the original order of transactions
type indexedTransaction struct {
	transaction models.ProviderTransaction
	keep        bool
	err         error
}

func run(index int, entry *xmlpath.Node, convert EntryConverter) indexedTransaction {
	tx, keep, err := convert(index, entry)
	return indexedTransaction{transaction: tx, keep: keep, err: err}
}

func collect(results []indexedTransaction) ([]models.ProviderTransaction, error) {
	txs := make([]models.ProviderTransaction, 0, len(results))
	for _, r := range results {
		if r.err != nil {
			return nil, r.err
		}
		if r.keep {
			txs = append(txs, r.transaction)
		}
	}
	return txs, nil
}
