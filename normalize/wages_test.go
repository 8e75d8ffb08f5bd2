package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tellimer/econify/domain"
)

// TestWagesAUDWeekToUSDMonth locks in the worked wages scenario: a weekly
// AUD wage converts to month using the wages-specific week/month ratio
// before the currency conversion (§4.6's reversed ordering).
func TestWagesAUDWeekToUSDMonth(t *testing.T) {
	item := indexedFlow(1200, "AUD", "", "weekly", "AUD")
	fx := domain.FXTable{Base: "USD", Rates: map[string]float64{"AUD": 1.5158}}

	res, warnings, excluded := Wages(item, "USD", &fx, true, WagesConfig{})

	assert.False(t, excluded)
	assert.Empty(t, warnings)

	wantMonthly := 1200 * (52.0 / 12.0)
	wantUSD := wantMonthly * (1.0 / 1.5158)
	assert.InDelta(t, wantUSD, res.Value, 1e-6)
	assert.Equal(t, "USD per month", res.Unit)

	require.NotNil(t, res.Explain)
	require.NotNil(t, res.Explain.Periodicity)
	assert.Equal(t, domain.TimeWeek, res.Explain.Periodicity.Original)
	assert.True(t, res.Explain.Periodicity.Adjusted)
	assert.InDelta(t, 52.0/12.0, res.Explain.Periodicity.Factor, 1e-9)
}

func TestWagesHourlyUsesFixedConstant(t *testing.T) {
	item := indexedFlow(25, "USD", "", "hourly", "USD")

	res, warnings, excluded := Wages(item, "USD", nil, true, WagesConfig{})

	assert.False(t, excluded)
	assert.Empty(t, warnings)
	assert.InDelta(t, 25*HoursPerMonthWages, res.Value, 1e-9)
}

func TestWagesExcludesIndexValues(t *testing.T) {
	item := indexedFlow(105.3, "index", "", "monthly", "")

	res, warnings, excluded := Wages(item, "USD", nil, true, WagesConfig{ExcludeIndexValues: true})

	assert.True(t, excluded)
	assert.Nil(t, warnings)
	assert.Equal(t, Result{}, res)
}

func TestWagesMissingSourceTime(t *testing.T) {
	item := indexedFlow(3000, "USD", "", "", "USD")

	res, warnings, excluded := Wages(item, "USD", nil, false, WagesConfig{})

	assert.False(t, excluded)
	assert.Equal(t, 3000.0, res.Value)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "no source time scale available")
}

func TestWagesQuarterlyAndYearlyFactors(t *testing.T) {
	quarterly := indexedFlow(9000, "USD", "", "quarterly", "USD")
	res, _, _ := Wages(quarterly, "USD", nil, false, WagesConfig{})
	assert.InDelta(t, 3000, res.Value, 1e-9)

	yearly := indexedFlow(36000, "USD", "", "yearly", "USD")
	res, _, _ = Wages(yearly, "USD", nil, false, WagesConfig{})
	assert.InDelta(t, 3000, res.Value, 1e-9)
}
