package reconciler

import (
	"sort"
	"strings"

	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/attribute"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/logging"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/matcher"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/reconcileerror"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/syncwindow"
)

// Sync window selector names.
const (
	SyncWindowAllen     = "allen"
	SyncWindowUnbounded = "unbounded"
)

// AttributeSpec names one attribute of a matcher key.
type AttributeSpec struct {
	Name     string
	Required bool
}

// MatcherSpec describes one equality matcher of a chain.
type MatcherSpec struct {
	Name       string
	Attributes []AttributeSpec
}

// ProviderSpec describes how one provider is reconciled.
type ProviderSpec struct {
	Algorithm  string
	Active     string
	Passive    string
	SyncWindow string
	Matchers   []MatcherSpec
}

// DefaultMatchers is the chain used by attribute providers that configure none.
func DefaultMatchers() []MatcherSpec {
	return []MatcherSpec{
		{
			Name: "external-id",
			Attributes: []AttributeSpec{
				{Name: "external_id", Required: true},
				{Name: "amount"},
				{Name: "date"},
			},
		},
		{
			Name: "attribute-fallback",
			Attributes: []AttributeSpec{
				{Name: "date"},
				{Name: "amount"},
				{Name: "debtor_name"},
				{Name: "creditor_name"},
				{Name: "description"},
			},
		},
	}
}

// Registry maps providers to strategies. It is built once and only read after.
type Registry struct {
	strategies map[string]Strategy
	fallback   Strategy
}

// NewRegistry builds a registry from ready-made strategies.
func NewRegistry(fallback Strategy, byProvider map[string]Strategy) (*Registry, error) {
	if fallback == nil {
		return nil, reconcileerror.NewConfigurationError("registry", "a default strategy is required")
	}
	strategies := make(map[string]Strategy, len(byProvider))
	for provider, s := range byProvider {
		if s == nil {
			return nil, reconcileerror.NewConfigurationError("registry", "provider %s has no strategy", provider)
		}
		strategies[normalize(provider)] = s
	}
	return &Registry{strategies: strategies, fallback: fallback}, nil
}

// Lookup returns the provider's strategy, or the default one for unknown providers.
func (r *Registry) Lookup(provider string) Strategy {
	if s, ok := r.strategies[normalize(provider)]; ok {
		return s
	}
	return r.fallback
}

// Default returns the strategy used for unknown providers.
func (r *Registry) Default() Strategy { return r.fallback }

// Providers lists the configured providers in alphabetical order.
func (r *Registry) Providers() []string {
	names := make([]string, 0, len(r.strategies))
	for name := range r.strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalize(provider string) string {
	return strings.ToUpper(strings.TrimSpace(provider))
}

// BuildRegistry builds every configured strategy up front. Any wiring
// mistake is reported here, never at reconciliation time.
func BuildRegistry(deps Dependencies, defaultAlgorithm string, providers map[string]ProviderSpec) (*Registry, error) {
	if defaultAlgorithm == "" {
		defaultAlgorithm = AlgorithmExternalID
	}
	fallback, err := buildStrategy(deps, ProviderSpec{Algorithm: defaultAlgorithm}, ModeActive)
	if err != nil {
		return nil, err
	}

	byProvider := make(map[string]Strategy, len(providers))
	for name, spec := range providers {
		s, err := buildStrategy(deps, spec, ModeActive)
		if err != nil {
			return nil, reconcileerror.NewConfigurationError("provider "+name, "%v", err)
		}
		byProvider[name] = s
	}
	return NewRegistry(fallback, byProvider)
}

func buildStrategy(deps Dependencies, spec ProviderSpec, mode Mode) (Strategy, error) {
	switch spec.Algorithm {
	case "", AlgorithmExternalID:
		return NewExternalIDReconciler(deps, mode)
	case AlgorithmDelta:
		return NewDeltaReconciler(deps, mode)
	case AlgorithmAttribute:
		chain, err := BuildChain(deps.Logger, spec.Matchers)
		if err != nil {
			return nil, err
		}
		window, err := BuildWindowSelector(deps.Logger, spec.SyncWindow)
		if err != nil {
			return nil, err
		}
		return NewAttributeReconciler(deps, mode, chain, window)
	case AlgorithmActivePassive:
		if spec.Active == AlgorithmActivePassive || spec.Passive == AlgorithmActivePassive {
			return nil, reconcileerror.NewConfigurationError(AlgorithmActivePassive, "strategies cannot be nested")
		}
		activeSpec, passiveSpec := spec, spec
		activeSpec.Algorithm, passiveSpec.Algorithm = spec.Active, spec.Passive
		if spec.Passive == "" {
			return nil, reconcileerror.NewConfigurationError(AlgorithmActivePassive, "a passive algorithm is required")
		}
		active, err := buildStrategy(deps, activeSpec, ModeActive)
		if err != nil {
			return nil, err
		}
		passive, err := buildStrategy(deps, passiveSpec, ModeTest)
		if err != nil {
			return nil, err
		}
		return NewActivePassive(active, passive, deps.Logger)
	default:
		return nil, reconcileerror.NewConfigurationError("registry", "unknown algorithm %q", spec.Algorithm)
	}
}

// BuildChain turns matcher specs into a chain, using DefaultMatchers when
// specs is empty.
func BuildChain(logger logging.Logger, specs []MatcherSpec) (*matcher.Chain, error) {
	if len(specs) == 0 {
		specs = DefaultMatchers()
	}
	matchers := make([]matcher.Matcher, 0, len(specs))
	for _, spec := range specs {
		selectors := make([]attribute.Selector, 0, len(spec.Attributes))
		for _, a := range spec.Attributes {
			extractor, ok := attribute.Lookup(a.Name)
			if !ok {
				return nil, reconcileerror.NewConfigurationError("matcher "+spec.Name, "unknown attribute %q", a.Name)
			}
			if a.Required {
				selectors = append(selectors, attribute.Required(extractor))
			} else {
				selectors = append(selectors, attribute.Select(extractor))
			}
		}
		m, err := matcher.NewEqualityMatcher(spec.Name, selectors...)
		if err != nil {
			return nil, err
		}
		matchers = append(matchers, m)
	}
	return matcher.NewChain(logger, matchers...)
}

// BuildWindowSelector resolves a sync window selector by name; empty means allen.
func BuildWindowSelector(logger logging.Logger, name string) (syncwindow.Selector, error) {
	switch name {
	case "", SyncWindowAllen:
		return syncwindow.NewAllenSelector(logger), nil
	case SyncWindowUnbounded:
		return syncwindow.UnboundedSelector{}, nil
	default:
		return nil, reconcileerror.NewConfigurationError("sync window", "unknown selector %q", name)
	}
}
