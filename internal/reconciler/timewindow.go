package reconciler

import (
	"fmt"
	"time"

	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/dateutils"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/models"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/reconcileerror"
)

// instant is the most precise point in time known for an upstream transaction.
func instant(tx models.ProviderTransaction) time.Time {
	if tx.Timestamp != nil {
		return *tx.Timestamp
	}
	return tx.Date
}

func earliestInstant(txs []models.ProviderTransaction) time.Time {
	var earliest time.Time
	for i, tx := range txs {
		if t := instant(tx); i == 0 || t.Before(earliest) {
			earliest = t
		}
	}
	return earliest
}

// inSameTimeWindow reports whether a stored transaction is not older than
// from. Instants are compared at whole-second precision because storage
// truncates sub-second digits. Stored transactions without a timestamp are
// compared on their date against from's calendar day in from's location;
// near midnight in a non-UTC zone this keeps or drops a day differently from
// the instant comparison, and consumers rely on that behaviour.
func inSameTimeWindow(stored models.StoredTransaction, from time.Time) bool {
	if stored.Timestamp == nil {
		return !stored.Date.Before(dateutils.Day(from))
	}
	return !stored.Timestamp.Truncate(time.Second).Before(from.Truncate(time.Second))
}

func withinTimeWindow(stored []models.StoredTransaction, from time.Time) []models.StoredTransaction {
	out := make([]models.StoredTransaction, 0, len(stored))
	for _, tx := range stored {
		if inSameTimeWindow(tx, from) {
			out = append(out, tx)
		}
	}
	return out
}

func wrapLoadError(req Request, err error) error {
	return fmt.Errorf("%w: user %s account %s: %w", reconcileerror.ErrLoad, req.UserID, req.AccountID, err)
}
