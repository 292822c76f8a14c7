package matcher

import (
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/logging"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/models"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/reconcileerror"
)

// Chain runs matchers left to right, each on what the previous one left over.
type Chain struct {
	matchers []Matcher
	logger   logging.Logger
}

// NewChain builds a chain. An empty chain is a configuration error.
func NewChain(logger logging.Logger, matchers ...Matcher) (*Chain, error) {
	if len(matchers) == 0 {
		return nil, reconcileerror.NewConfigurationError("matcher chain", "at least one matcher is required")
	}
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Chain{matchers: matchers, logger: logger}, nil
}

// Names returns the matcher names in execution order.
func (c *Chain) Names() []string {
	names := make([]string, len(c.matchers))
	for i, m := range c.matchers {
		names[i] = m.Name()
	}
	return names
}

// Run classifies both batches. The first matcher always runs; later ones are
// skipped once either side has nothing unmatched left, and their snapshot is
// omitted.
func (c *Chain) Run(upstream, stored []models.GeneralizedTransaction) MatchResults {
	var results MatchResults
	current := Initial(upstream, stored)
	results.append(current)

	for i, m := range c.matchers {
		if i > 0 && (len(current.UnmatchedUpstream) == 0 || len(current.UnmatchedStored) == 0) {
			c.logger.Debug("Skipping matcher, nothing left to match",
				logging.F(logging.FieldMatcher, m.Name()))
			continue
		}

		stage := m.Match(current.UnmatchedUpstream, current.UnmatchedStored)
		next := MatchResult{
			Matcher:           m.Name(),
			Matched:           append(append([]Pair(nil), current.Matched...), stage.Matched...),
			MultiMatched:      append(append([]Pair(nil), current.MultiMatched...), stage.MultiMatched...),
			UnmatchedUpstream: stage.UnmatchedUpstream,
			UnmatchedStored:   stage.UnmatchedStored,
		}
		c.logger.Debug("Matcher stage completed",
			logging.F(logging.FieldMatcher, m.Name()),
			logging.F("matched", len(stage.Matched)),
			logging.F("multi_matched", len(stage.MultiMatched)),
			logging.F("unmatched_upstream", len(stage.UnmatchedUpstream)),
			logging.F("unmatched_stored", len(stage.UnmatchedStored)))

		results.append(next)
		current = next
	}
	return results
}
