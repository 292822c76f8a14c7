package matcher

import (
	"sort"

	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/models"
)

// Reason tells why a transaction is still unmatched.
type Reason string

const (
	// ReasonUnprocessed means no matcher has looked at the transaction yet.
	ReasonUnprocessed Reason = "UNPROCESSED"
	// ReasonPeerless means a key was built but the other side has no counterpart.
	ReasonPeerless Reason = "PEERLESS"
	// ReasonDuplicate means the key is shared by two or more items on one side.
	ReasonDuplicate Reason = "DUPLICATE"
	// ReasonRejected means a selector precondition refused the transaction.
	ReasonRejected Reason = "REJECTED"
)

// Pair links an upstream transaction to its stored counterpart.
type Pair struct {
	Upstream models.GeneralizedTransaction
	Stored   models.GeneralizedTransaction
	Matcher  string
}

// Unmatched is a transaction tagged with the reason it is still unmatched and
// the matcher that decided so.
type Unmatched struct {
	Transaction models.GeneralizedTransaction
	Reason      Reason
	Matcher     string
}

// MatchResult is the classification of a whole batch after one matcher stage.
// Matched and MultiMatched accumulate across stages, so every transaction of
// the batch sits in exactly one bucket.
type MatchResult struct {
	Matcher           string
	Matched           []Pair
	MultiMatched      []Pair
	UnmatchedUpstream []Unmatched
	UnmatchedStored   []Unmatched
}

// Initial builds the snapshot where every transaction is UNPROCESSED.
func Initial(upstream, stored []models.GeneralizedTransaction) MatchResult {
	return MatchResult{
		UnmatchedUpstream: tag(upstream, ReasonUnprocessed, ""),
		UnmatchedStored:   tag(stored, ReasonUnprocessed, ""),
	}
}

func tag(txs []models.GeneralizedTransaction, reason Reason, matcher string) []Unmatched {
	out := make([]Unmatched, len(txs))
	for i, tx := range txs {
		out[i] = Unmatched{Transaction: tx, Reason: reason, Matcher: matcher}
	}
	return out
}

// UpstreamCount is the number of upstream transactions the result accounts for.
func (r MatchResult) UpstreamCount() int {
	return len(r.Matched) + len(r.MultiMatched) + len(r.UnmatchedUpstream)
}

// StoredCount is the number of stored transactions the result accounts for.
func (r MatchResult) StoredCount() int {
	return len(r.Matched) + len(r.MultiMatched) + len(r.UnmatchedStored)
}

// Size is the partition total: every pair counts for two transactions.
func (r MatchResult) Size() int {
	return 2*len(r.Matched) + 2*len(r.MultiMatched) + len(r.UnmatchedUpstream) + len(r.UnmatchedStored)
}

// HasUnmatched reports whether either side still has unmatched items.
func (r MatchResult) HasUnmatched() bool {
	return len(r.UnmatchedUpstream) > 0 || len(r.UnmatchedStored) > 0
}

// UpstreamWith returns unmatched upstream items with the given reason.
func (r MatchResult) UpstreamWith(reason Reason) []Unmatched {
	return filter(r.UnmatchedUpstream, reason)
}

// StoredWith returns unmatched stored items with the given reason.
func (r MatchResult) StoredWith(reason Reason) []Unmatched {
	return filter(r.UnmatchedStored, reason)
}

// MatchedBy returns the pairs produced by the named matcher.
func (r MatchResult) MatchedBy(matcher string) []Pair {
	var out []Pair
	for _, p := range r.Matched {
		if p.Matcher == matcher {
			out = append(out, p)
		}
	}
	return out
}

func filter(items []Unmatched, reason Reason) []Unmatched {
	var out []Unmatched
	for _, u := range items {
		if u.Reason == reason {
			out = append(out, u)
		}
	}
	return out
}

func sortUnmatched(items []Unmatched) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Transaction.Index < items[j].Transaction.Index
	})
}

func sortPairs(pairs []Pair) {
	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].Upstream.Index < pairs[j].Upstream.Index
	})
}

// MatchResults is the append-only sequence of snapshots produced by a chain:
// the initial one followed by one per stage that actually ran.
type MatchResults struct {
	snapshots []MatchResult
}

// Snapshots returns a copy of the sequence.
func (m MatchResults) Snapshots() []MatchResult {
	return append([]MatchResult(nil), m.snapshots...)
}

// Len returns the number of snapshots.
func (m MatchResults) Len() int { return len(m.snapshots) }

// Last returns the authoritative final classification.
func (m MatchResults) Last() MatchResult {
	if len(m.snapshots) == 0 {
		return MatchResult{}
	}
	return m.snapshots[len(m.snapshots)-1]
}

func (m *MatchResults) append(r MatchResult) {
	m.snapshots = append(m.snapshots, r)
}
