package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tellimer/econify/domain"
	"github.com/tellimer/econify/units"
)

func indexedFlow(value float64, unit string, scale, periodicity, currency string) domain.IndexedObservation {
	obs := domain.Observation{
		Value:            value,
		Unit:             unit,
		Scale:            scale,
		Periodicity:      periodicity,
		ExplicitCurrency: currency,
	}
	return domain.IndexedObservation{Obs: obs, Unit: units.Parse(unit)}
}

func TestMonetaryFlowAUSScenario(t *testing.T) {
	item := indexedFlow(11027, "AUD Million", "", "", "AUD")
	fx := domain.FXTable{Base: "USD", Rates: map[string]float64{"AUD": 1.5158}}
	target := Target{Currency: "USD", Magnitude: domain.MagnitudeMillions}

	res, warnings := MonetaryFlow(item, target, &fx, true)

	assert.Empty(t, warnings)
	assert.InDelta(t, 7274.71, res.Value, 0.05)
	assert.Equal(t, "USD millions", res.Unit)
	require.NotNil(t, res.Explain)
	assert.Equal(t, "monetaryFlow", res.Explain.Domain)
	require.NotNil(t, res.Explain.FX)
	assert.Equal(t, "USD", res.Explain.FX.Currency)
}

func TestMonetaryFlowAUTScenario(t *testing.T) {
	item := indexedFlow(365.1, "EUR Million", "", "", "EUR")
	fx := domain.FXTable{Base: "USD", Rates: map[string]float64{"EUR": 0.8511}}
	target := Target{Currency: "USD", Magnitude: domain.MagnitudeMillions}

	res, warnings := MonetaryFlow(item, target, &fx, false)

	assert.Empty(t, warnings)
	assert.InDelta(t, 428.97, res.Value, 0.05)
	assert.Nil(t, res.Explain)
}

func TestMonetaryFlowMissingSourceTime(t *testing.T) {
	// No periodicity on the unit or the item; a target time is still
	// configured. Value is left unconverted for the time dimension but the
	// unit string still reports "per <target>" (§4.4).
	item := indexedFlow(100, "USD Million", "", "", "USD")
	fx := domain.FXTable{Base: "USD", Rates: map[string]float64{}}
	target := Target{Currency: "USD", Magnitude: domain.MagnitudeMillions, Time: domain.TimeYear}

	res, warnings := MonetaryFlow(item, target, &fx, true)

	assert.Equal(t, 100.0, res.Value)
	assert.Equal(t, "USD millions per year", res.Unit)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "no source time scale available")
	require.NotNil(t, res.Explain.Periodicity)
	assert.False(t, res.Explain.Periodicity.Adjusted)
}

func TestMonetaryFlowMissingFXTable(t *testing.T) {
	item := indexedFlow(100, "AUD Million", "", "", "AUD")
	target := Target{Currency: "USD", Magnitude: domain.MagnitudeMillions}

	res, warnings := MonetaryFlow(item, target, nil, false)

	assert.Equal(t, 100.0, res.Value)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "fx table unavailable")
}

func TestMonetaryStockNoTimeDimension(t *testing.T) {
	item := indexedFlow(500, "USD Billion", "", "monthly", "USD")
	fx := domain.FXTable{Base: "USD"}
	target := Target{Currency: "USD", Magnitude: domain.MagnitudeMillions, Time: domain.TimeYear}

	res, _ := MonetaryStock(item, target, &fx, true)

	assert.Equal(t, "USD millions", res.Unit)
	assert.Nil(t, res.Explain.Periodicity)
}

func TestMonetaryFlowPassesThroughWhenNoTarget(t *testing.T) {
	item := indexedFlow(42, "USD Million", "", "monthly", "USD")
	res, warnings := MonetaryFlow(item, Target{}, nil, false)

	assert.Equal(t, 42.0, res.Value)
	assert.Empty(t, warnings)
}
