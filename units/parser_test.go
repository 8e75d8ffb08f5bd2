package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tellimer/econify/domain"
)

func TestParseCurrencyMagnitudeUnit(t *testing.T) {
	p := Parse("USD Million")

	assert.Equal(t, domain.CategoryCurrency, p.Category)
	assert.Equal(t, "USD", p.Currency)
	assert.Equal(t, domain.MagnitudeMillions, p.Magnitude)
}

func TestParsePercentageOverridesEverythingElse(t *testing.T) {
	p := Parse("% of GDP")

	assert.Equal(t, domain.CategoryPercentage, p.Category)
}

func TestParseMonetaryFlowRatio(t *testing.T) {
	p := Parse("USD Million per month")

	assert.Equal(t, "USD", p.Currency)
	assert.Equal(t, domain.TimeMonth, p.Time)
}

func TestParseEmptyStringIsUnknown(t *testing.T) {
	p := Parse("   ")

	assert.Equal(t, domain.CategoryUnknown, p.Category)
	assert.Equal(t, "", p.Currency)
}

func TestParseCommodityUnit(t *testing.T) {
	p := Parse("Barrels")

	assert.Equal(t, domain.CategoryPhysical, p.Category)
	assert.Equal(t, "commodity", p.Components["domainPack"])
}

func TestParseMetalsUnit(t *testing.T) {
	p := Parse("Tonnes of Copper")

	assert.Equal(t, domain.CategoryPhysical, p.Category)
	assert.Equal(t, "metals", p.Components["domainPack"])
}

func TestParseIndexUnit(t *testing.T) {
	p := Parse("Index Points")

	assert.Equal(t, domain.CategoryIndex, p.Category)
}

func TestEffectiveMagnitudePrefersExplicitScale(t *testing.T) {
	parsed := Parse("USD Thousand")

	m, ok := EffectiveMagnitude("Millions", parsed)
	require.True(t, ok)
	assert.Equal(t, domain.MagnitudeMillions, m)
}

func TestEffectiveMagnitudeFallsBackToParsed(t *testing.T) {
	parsed := Parse("USD Thousand")

	m, ok := EffectiveMagnitude("", parsed)
	require.True(t, ok)
	assert.Equal(t, domain.MagnitudeThousands, m)
}

func TestEffectiveTimePrefersUnitToken(t *testing.T) {
	parsed := Parse("USD Million per quarter")

	ts, ok := EffectiveTime(parsed, "Monthly")
	require.True(t, ok)
	assert.Equal(t, domain.TimeQuarter, ts)
}

func TestEffectiveTimeFallsBackToPeriodicity(t *testing.T) {
	parsed := Parse("USD Million")

	ts, ok := EffectiveTime(parsed, "Monthly")
	require.True(t, ok)
	assert.Equal(t, domain.TimeMonth, ts)
}

func TestEffectiveCurrencyPrefersExplicitField(t *testing.T) {
	parsed := Parse("EUR Million")

	code, ok := EffectiveCurrency("usd", parsed)
	require.True(t, ok)
	assert.Equal(t, "USD", code)
}

func TestEffectiveCurrencyFallsBackToParsed(t *testing.T) {
	parsed := Parse("EUR Million")

	code, ok := EffectiveCurrency("", parsed)
	require.True(t, ok)
	assert.Equal(t, "EUR", code)
}
