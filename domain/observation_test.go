package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMagnitudeExponentKnownValues(t *testing.T) {
	e, ok := MagnitudeExponent(MagnitudeMillions)
	require.True(t, ok)
	assert.Equal(t, 6, e)
}

func TestMagnitudeExponentUnspecifiedIsNotOk(t *testing.T) {
	_, ok := MagnitudeExponent(MagnitudeUnspecified)
	assert.False(t, ok)
}

func TestMagnitudeIndexOrdersSteps(t *testing.T) {
	rawIdx, _ := MagnitudeIndex(MagnitudeRaw)
	millionIdx, _ := MagnitudeIndex(MagnitudeMillions)
	trillionIdx, _ := MagnitudeIndex(MagnitudeTrillions)

	assert.Less(t, rawIdx, millionIdx)
	assert.Less(t, millionIdx, trillionIdx)
}

func TestTimeSecondsPerUnitMonthDerivesFromWeek(t *testing.T) {
	month, ok := TimeSecondsPerUnit(TimeMonth)
	require.True(t, ok)
	assert.InDelta(t, (52.0/12.0)*SecondsPerWeek, month, 1e-6)
}

func TestIndicatorKeyCanonicalizesName(t *testing.T) {
	o := Observation{Name: "  GDP Growth Rate  "}
	assert.Equal(t, "gdp growth rate", o.IndicatorKey())
}

func TestCloneForOutputDeepCopiesPointerFields(t *testing.T) {
	v := 42.0
	sa := 41.0
	o := Observation{Value: 1, NormalizedValue: &v, SeasonallyAdjustedValue: &sa}

	clone := o.CloneForOutput()
	*clone.NormalizedValue = 99
	*clone.SeasonallyAdjustedValue = 98

	assert.InDelta(t, 42.0, *o.NormalizedValue, 1e-9)
	assert.InDelta(t, 99.0, *clone.NormalizedValue, 1e-9)
	assert.InDelta(t, 41.0, *o.SeasonallyAdjustedValue, 1e-9)
	assert.InDelta(t, 98.0, *clone.SeasonallyAdjustedValue, 1e-9)
}

func TestEffectiveCurrencyAndScaleHelpers(t *testing.T) {
	o := Observation{ExplicitCurrency: "usd", Scale: "Millions", Periodicity: "Monthly"}

	assert.Equal(t, "usd", o.EffectiveCurrency())

	m, ok := o.EffectiveScale()
	require.True(t, ok)
	assert.Equal(t, MagnitudeMillions, m)

	ts, ok := o.EffectivePeriodicity()
	require.True(t, ok)
	assert.Equal(t, TimeMonth, ts)
}
