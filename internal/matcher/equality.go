// Package matcher pairs upstream and stored transactions on equal attribute
// keys, one named stage at a time.
package matcher

import (
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/attribute"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/models"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/reconcileerror"
)

// Matcher is one stage of a chain. Match classifies the items left unmatched
// by the previous stage; it never sees already matched transactions.
type Matcher interface {
	Name() string
	Match(upstream, stored []Unmatched) Stage
}

// Stage is what one matcher decided about the items it was given.
type Stage struct {
	Matched           []Pair
	MultiMatched      []Pair
	UnmatchedUpstream []Unmatched
	UnmatchedStored   []Unmatched
}

// EqualityMatcher pairs transactions whose composite attribute keys are equal.
//
// In strict mode a key that is not unique on both sides marks every
// participant DUPLICATE. In optimistic mode such groups are zipped in batch
// order into MultiMatched pairs and only the surplus is DUPLICATE.
type EqualityMatcher struct {
	name       string
	selectors  []attribute.Selector
	optimistic bool
}

// NewEqualityMatcher builds a strict matcher.
func NewEqualityMatcher(name string, selectors ...attribute.Selector) (*EqualityMatcher, error) {
	if name == "" {
		return nil, reconcileerror.NewConfigurationError("matcher", "name must not be empty")
	}
	if len(selectors) == 0 {
		return nil, reconcileerror.NewConfigurationError("matcher "+name, "at least one attribute selector is required")
	}
	return &EqualityMatcher{name: name, selectors: selectors}, nil
}

// NewOptimisticMatcher builds a matcher that resolves ambiguous keys by batch order.
func NewOptimisticMatcher(name string, selectors ...attribute.Selector) (*EqualityMatcher, error) {
	m, err := NewEqualityMatcher(name, selectors...)
	if err != nil {
		return nil, err
	}
	m.optimistic = true
	return m, nil
}

// Name returns the matcher name.
func (m *EqualityMatcher) Name() string { return m.name }

// Optimistic reports whether ambiguous keys are resolved instead of rejected.
func (m *EqualityMatcher) Optimistic() bool { return m.optimistic }

// Selectors returns the attribute selectors building the key.
func (m *EqualityMatcher) Selectors() []attribute.Selector {
	return append([]attribute.Selector(nil), m.selectors...)
}

type group struct {
	key      string
	upstream []models.GeneralizedTransaction
	stored   []models.GeneralizedTransaction
}

// Match implements Matcher.
func (m *EqualityMatcher) Match(upstream, stored []Unmatched) Stage {
	var stage Stage
	groups := map[string]*group{}
	var order []*group

	add := func(items []Unmatched, isUpstream bool) []Unmatched {
		var rejected []Unmatched
		for _, item := range items {
			key, ok := attribute.Key(item.Transaction, m.selectors)
			if !ok {
				rejected = append(rejected, Unmatched{Transaction: item.Transaction, Reason: ReasonRejected, Matcher: m.name})
				continue
			}
			g, found := groups[key]
			if !found {
				g = &group{key: key}
				groups[key] = g
				order = append(order, g)
			}
			if isUpstream {
				g.upstream = append(g.upstream, item.Transaction)
			} else {
				g.stored = append(g.stored, item.Transaction)
			}
		}
		return rejected
	}
	stage.UnmatchedUpstream = add(upstream, true)
	stage.UnmatchedStored = add(stored, false)

	for _, g := range order {
		u, s := len(g.upstream), len(g.stored)
		switch {
		case u == 1 && s == 1:
			stage.Matched = append(stage.Matched, Pair{Upstream: g.upstream[0], Stored: g.stored[0], Matcher: m.name})
		case u > 0 && s > 0 && m.optimistic:
			n := min(u, s)
			for i := 0; i < n; i++ {
				stage.MultiMatched = append(stage.MultiMatched, Pair{Upstream: g.upstream[i], Stored: g.stored[i], Matcher: m.name})
			}
			stage.UnmatchedUpstream = append(stage.UnmatchedUpstream, m.tag(g.upstream[n:], ReasonDuplicate)...)
			stage.UnmatchedStored = append(stage.UnmatchedStored, m.tag(g.stored[n:], ReasonDuplicate)...)
		case u > 0 && s > 0:
			stage.UnmatchedUpstream = append(stage.UnmatchedUpstream, m.tag(g.upstream, ReasonDuplicate)...)
			stage.UnmatchedStored = append(stage.UnmatchedStored, m.tag(g.stored, ReasonDuplicate)...)
		default:
			stage.UnmatchedUpstream = append(stage.UnmatchedUpstream, m.tag(g.upstream, lonely(u))...)
			stage.UnmatchedStored = append(stage.UnmatchedStored, m.tag(g.stored, lonely(s))...)
		}
	}

	sortPairs(stage.Matched)
	sortPairs(stage.MultiMatched)
	sortUnmatched(stage.UnmatchedUpstream)
	sortUnmatched(stage.UnmatchedStored)
	return stage
}

// lonely classifies a group with no counterpart on the other side.
func lonely(n int) Reason {
	if n > 1 {
		return ReasonDuplicate
	}
	return ReasonPeerless
}

func (m *EqualityMatcher) tag(txs []models.GeneralizedTransaction, reason Reason) []Unmatched {
	return tag(txs, reason, m.name)
}
