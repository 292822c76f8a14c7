package reconcileerror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigurationError(t *testing.T) {
	err := NewConfigurationError("matcher chain", "at least one matcher is required, got %d", 0)

	assert.Equal(t, "matcher chain: at least one matcher is required, got 0", err.Error())
	assert.True(t, errors.Is(err, ErrConfiguration))
	assert.False(t, errors.Is(err, ErrAborted))
}

func TestAbortError(t *testing.T) {
	tests := []struct {
		name     string
		err      *AbortError
		expected string
	}{
		{
			name:     "side specific",
			err:      &AbortError{Strategy: "attribute", Class: ClassUpstreamDuplicate, Side: "upstream", Matcher: "external-id", Count: 2},
			expected: "attribute aborted: UPSTREAM_DUPLICATE (2 upstream transaction(s), matcher external-id)",
		},
		{
			name:     "without matcher",
			err:      &AbortError{Strategy: "attribute", Class: ClassUnprocessedLeft, Side: "stored", Count: 1},
			expected: "attribute aborted: UNPROCESSED_LEFT (1 stored transaction(s))",
		},
		{
			name:     "wrapped cause",
			err:      &AbortError{Strategy: "delta", Class: ClassMissingExternalID, Err: ErrMissingExternalID},
			expected: "delta aborted: MISSING_EXTERNAL_ID: upstream transaction has no external id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
			assert.True(t, errors.Is(tt.err, ErrAborted))
		})
	}
}

func TestClassOf(t *testing.T) {
	abort := &AbortError{Strategy: "attribute", Class: ClassStoredPeerlessUnaligned}

	assert.Equal(t, Class(""), ClassOf(nil))
	assert.Equal(t, ClassStoredPeerlessUnaligned, ClassOf(fmt.Errorf("account acc-1: %w", abort)))
	assert.Equal(t, ClassEmptyUpstream, ClassOf(fmt.Errorf("window: %w", ErrEmptyUpstream)))
	assert.Equal(t, ClassMissingExternalID, ClassOf(ErrMissingExternalID))
	assert.Equal(t, ClassLoadFailed, ClassOf(fmt.Errorf("%w: account acc-1: %w", ErrLoad, errors.New("disk"))))
	assert.Equal(t, ClassApplyFailed, ClassOf(fmt.Errorf("%w: %w", ErrApply, errors.New("locked"))))
	assert.Equal(t, ClassUnknown, ClassOf(errors.New("boom")))
}
