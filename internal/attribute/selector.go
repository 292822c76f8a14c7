package attribute

import (
	"strings"

	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/models"
)

// Precondition accepts or rejects an extracted attribute.
type Precondition func(Attribute) bool

// NotBlank rejects absent attributes and blank strings.
func NotBlank(a Attribute) bool {
	if !a.Present {
		return false
	}
	if s, ok := a.Value.(string); ok {
		return strings.TrimSpace(s) != ""
	}
	return true
}

// Selector pairs an extractor with an ordered list of preconditions. A
// selector without preconditions accepts every transaction.
type Selector struct {
	extractor     Extractor
	preconditions []Precondition
}

// Select builds a selector over e, applying preconditions in order.
func Select(e Extractor, preconditions ...Precondition) Selector {
	return Selector{extractor: e, preconditions: preconditions}
}

// Required is Select(e, NotBlank).
func Required(e Extractor) Selector {
	return Select(e, NotBlank)
}

// Name returns the name of the selected attribute.
func (s Selector) Name() string { return s.extractor.Name() }

// IsRequired reports whether the selector has at least one precondition.
func (s Selector) IsRequired() bool { return len(s.preconditions) > 0 }

// Apply extracts the attribute from tx and reports whether tx is accepted.
func (s Selector) Apply(tx models.GeneralizedTransaction) (Attribute, bool) {
	a := s.extractor.Extract(tx)
	for _, accept := range s.preconditions {
		if !accept(a) {
			return a, false
		}
	}
	return a, true
}

// Key builds the composite matching key of tx over selectors. ok is false as
// soon as one selector rejects the transaction.
func Key(tx models.GeneralizedTransaction, selectors []Selector) (key string, ok bool) {
	var b strings.Builder
	for i, s := range selectors {
		a, accepted := s.Apply(tx)
		if !accepted {
			return "", false
		}
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(a.String())
	}
	return b.String(), true
}
