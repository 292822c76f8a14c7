package matcher

// Restricted wraps m so that it only looks at the upstream items that an
// earlier stage left unmatched for one of reasons. Every other upstream item
// keeps its classification. Stored items are all passed on.
func Restricted(m Matcher, reasons ...Reason) Matcher {
	allowed := make(map[Reason]bool, len(reasons))
	for _, r := range reasons {
		allowed[r] = true
	}
	return &restricted{Matcher: m, allowed: allowed}
}

type restricted struct {
	Matcher
	allowed map[Reason]bool
}

// Match implements Matcher.
func (r *restricted) Match(upstream, stored []Unmatched) Stage {
	var eligible, held []Unmatched
	for _, item := range upstream {
		if r.allowed[item.Reason] {
			eligible = append(eligible, item)
			continue
		}
		held = append(held, item)
	}

	stage := r.Matcher.Match(eligible, stored)
	stage.UnmatchedUpstream = append(stage.UnmatchedUpstream, held...)
	sortUnmatched(stage.UnmatchedUpstream)
	return stage
}
