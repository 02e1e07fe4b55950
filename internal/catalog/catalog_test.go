package catalog

import (
	"testing"
	"time"

	"alcyxob/bodytrack/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTiers(t *testing.T) {
	c := Default()
	tiers := c.All()
	require.Len(t, tiers, 2)

	assert.Equal(t, domain.PlanFree, tiers[0].Code)
	assert.Zero(t, tiers[0].Price)
	assert.Equal(t, 3, tiers[0].RetentionMonths)

	assert.Equal(t, domain.PlanPremium, tiers[1].Code)
	assert.Equal(t, 29.99, tiers[1].Price)
	assert.Zero(t, tiers[1].RetentionMonths)
	assert.True(t, tiers[1].Personalized)

	assert.Equal(t, 30*24*time.Hour, c.Term())
}

func TestAllReturnsCopies(t *testing.T) {
	c := Default()
	tiers := c.All()
	tiers[1].Price = 0
	tiers[1].Features[0] = "changed"

	premium, ok := c.Lookup(domain.PlanPremium)
	require.True(t, ok)
	assert.Equal(t, 29.99, premium.Price)
	assert.NotEqual(t, "changed", premium.Features[0])
}

func TestLookupNormalizesLegacyCode(t *testing.T) {
	c := Default()

	tier, ok := c.Lookup("basico")
	require.True(t, ok)
	assert.Equal(t, domain.PlanFree, tier.Code)

	_, ok = c.Lookup("GOLD")
	assert.False(t, ok)
	assert.True(t, c.IsFree("GOLD"))
	assert.False(t, c.IsFree(domain.PlanPremium))
}

func TestRetentionCutoff(t *testing.T) {
	c := Default()
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	cutoff, limited := c.RetentionCutoff(domain.PlanFree, now)
	assert.True(t, limited)
	assert.Equal(t, time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC), cutoff)

	_, limited = c.RetentionCutoff(domain.PlanPremium, now)
	assert.False(t, limited)
}

func TestNewValidation(t *testing.T) {
	free := Tier{Code: domain.PlanFree}
	paid := Tier{Code: domain.PlanPremium, Price: 10}

	_, err := New(DefaultTerm, paid)
	assert.ErrorIs(t, err, ErrNoFreeTier)

	_, err = New(DefaultTerm, free, free)
	assert.ErrorIs(t, err, ErrDuplicateTier)

	_, err = New(0, free)
	assert.ErrorIs(t, err, ErrInvalidTerm)

	c, err := New(DefaultTerm, free, paid)
	require.NoError(t, err)
	assert.Equal(t, domain.PlanFree, c.Free().Code)
}
