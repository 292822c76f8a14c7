package reconciler

import (
	"errors"
	"testing"

	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/reconcileerror"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/syncwindow"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRegistry(t *testing.T) {
	deps, _ := newDeps(&fakeLoader{})
	registry, err := BuildRegistry(deps, "", map[string]ProviderSpec{
		"ing":     {Algorithm: AlgorithmAttribute},
		"LEGACY":  {Algorithm: AlgorithmDelta},
		"shadowy": {Algorithm: AlgorithmActivePassive, Active: AlgorithmExternalID, Passive: AlgorithmAttribute, SyncWindow: SyncWindowUnbounded},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"ING", "LEGACY", "SHADOWY"}, registry.Providers())

	_, ok := registry.Lookup("ing").(*AttributeReconciler)
	assert.True(t, ok)
	_, ok = registry.Lookup(" legacy ").(*DeltaReconciler)
	assert.True(t, ok)

	ap, ok := registry.Lookup("SHADOWY").(*ActivePassive)
	require.True(t, ok)
	assert.Equal(t, ModeActive, ap.Active().Mode())
	assert.Equal(t, ModeTest, ap.Passive().Mode())
	passive, ok := ap.Passive().(*AttributeReconciler)
	require.True(t, ok)
	assert.IsType(t, syncwindow.UnboundedSelector{}, passive.window)

	unknown := registry.Lookup("NEVER-CONFIGURED")
	_, ok = unknown.(*ExternalIDReconciler)
	assert.True(t, ok, "unknown providers get the external-id strategy")
	assert.Same(t, registry.Default(), unknown)
}

func TestBuildRegistry_ConfigurationErrors(t *testing.T) {
	deps, _ := newDeps(&fakeLoader{})

	tests := []struct {
		name string
		spec ProviderSpec
	}{
		{"unknown algorithm", ProviderSpec{Algorithm: "magic"}},
		{"unknown attribute", ProviderSpec{Algorithm: AlgorithmAttribute, Matchers: []MatcherSpec{{Name: "m", Attributes: []AttributeSpec{{Name: "internal_id"}}}}}},
		{"matcher without attributes", ProviderSpec{Algorithm: AlgorithmAttribute, Matchers: []MatcherSpec{{Name: "m"}}}},
		{"unknown sync window", ProviderSpec{Algorithm: AlgorithmAttribute, SyncWindow: "weekly"}},
		{"nested active passive", ProviderSpec{Algorithm: AlgorithmActivePassive, Active: AlgorithmActivePassive, Passive: AlgorithmDelta}},
		{"missing passive", ProviderSpec{Algorithm: AlgorithmActivePassive, Active: AlgorithmDelta}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildRegistry(deps, AlgorithmExternalID, map[string]ProviderSpec{"BANK": tt.spec})
			require.Error(t, err)
			assert.True(t, errors.Is(err, reconcileerror.ErrConfiguration))
		})
	}

	_, err := BuildRegistry(deps, "magic", nil)
	assert.True(t, errors.Is(err, reconcileerror.ErrConfiguration))
}

func TestBuildChain_Defaults(t *testing.T) {
	chain, err := BuildChain(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"external-id", "attribute-fallback"}, chain.Names())
}

func TestNewRegistry_RequiresDefault(t *testing.T) {
	_, err := NewRegistry(nil, nil)
	assert.True(t, errors.Is(err, reconcileerror.ErrConfiguration))
}
