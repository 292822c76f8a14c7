package attribute

import (
	"sort"
	"testing"
	"time"

	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

func TestExtractors_SameValueForBothOrigins(t *testing.T) {
	booking := day.AddDate(0, 0, 1)
	provider := models.GeneralizedTransaction{
		Origin:        models.OriginProvider,
		ExternalID:    "ext",
		AmountInCents: -250,
		Date:          day,
		Status:        models.StatusBooked,
		BookingDate:   &booking,
		Debtor:        models.Party{Name: "Alice", AccountNumber: "NL01"},
		Description:   "rent",
	}
	stored := provider
	stored.Origin = models.OriginStored
	stored.InternalID = "internal-1"

	for _, name := range Names() {
		e, ok := Lookup(name)
		require.True(t, ok)
		assert.Equal(t, e.Extract(provider), e.Extract(stored), name)
	}
}

func TestExtractors_Presence(t *testing.T) {
	tx := models.GeneralizedTransaction{Date: day}

	assert.False(t, ExternalID.Extract(tx).Present)
	assert.False(t, BookingDate.Extract(tx).Present)
	assert.False(t, Timestamp.Extract(tx).Present)
	assert.True(t, AmountInCents.Extract(tx).Present)
	assert.True(t, Date.Extract(tx).Present)
	assert.False(t, Date.Extract(models.GeneralizedTransaction{}).Present)
}

func TestLookup(t *testing.T) {
	e, ok := Lookup(" External_ID ")
	require.True(t, ok)
	assert.Equal(t, "external_id", e.Name())

	_, ok = Lookup("internal_id")
	assert.False(t, ok)

	names := Names()
	sort.Strings(names)
	assert.Contains(t, names, "amount")
	assert.Len(t, names, 12)
}

func TestNotBlank(t *testing.T) {
	assert.False(t, NotBlank(Attribute{Name: "x", Value: "", Present: false}))
	assert.False(t, NotBlank(Attribute{Name: "x", Value: "   ", Present: true}))
	assert.True(t, NotBlank(Attribute{Name: "x", Value: "a", Present: true}))
	assert.True(t, NotBlank(Attribute{Name: "x", Value: int64(0), Present: true}))
}

func TestSelector(t *testing.T) {
	withID := models.GeneralizedTransaction{ExternalID: "a", Date: day}
	blankID := models.GeneralizedTransaction{ExternalID: " ", Date: day}
	noID := models.GeneralizedTransaction{Date: day}

	def := Select(ExternalID)
	assert.False(t, def.IsRequired())
	_, ok := def.Apply(noID)
	assert.True(t, ok, "default selector accepts unconditionally")

	req := Required(ExternalID)
	assert.True(t, req.IsRequired())
	a, ok := req.Apply(withID)
	assert.True(t, ok)
	assert.Equal(t, "a", a.Value)
	_, ok = req.Apply(blankID)
	assert.False(t, ok)
	_, ok = req.Apply(noID)
	assert.False(t, ok)

	neverNegative := func(a Attribute) bool { return a.Value.(int64) >= 0 }
	amount := Select(AmountInCents, neverNegative)
	_, ok = amount.Apply(models.GeneralizedTransaction{AmountInCents: -1})
	assert.False(t, ok)
}

func TestKey(t *testing.T) {
	selectors := []Selector{Required(ExternalID), Select(AmountInCents), Select(Date)}

	k1, ok := Key(models.GeneralizedTransaction{ExternalID: "a", AmountInCents: 100, Date: day}, selectors)
	require.True(t, ok)
	k2, ok := Key(models.GeneralizedTransaction{ExternalID: "a", AmountInCents: 100, Date: day, InternalID: "x"}, selectors)
	require.True(t, ok)
	assert.Equal(t, k1, k2, "internal id never takes part in a key")

	k3, ok := Key(models.GeneralizedTransaction{ExternalID: "a", AmountInCents: 101, Date: day}, selectors)
	require.True(t, ok)
	assert.NotEqual(t, k1, k3)

	_, ok = Key(models.GeneralizedTransaction{AmountInCents: 100, Date: day}, selectors)
	assert.False(t, ok)

	assert.Equal(t, `external_id="a"|amount=100|date=2024-03-10T00:00:00Z`, k1)
}

func TestAttributeString_Absent(t *testing.T) {
	assert.Equal(t, "booking_date=<absent>", BookingDate.Extract(models.GeneralizedTransaction{}).String())
}
