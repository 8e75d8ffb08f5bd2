package adjust

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tellimer/econify/domain"
)

type stubInflation struct {
	real float64
	err  error
}

func (s stubInflation) Deflate(ctx context.Context, countryCode string, year int, value float64) (float64, error) {
	return s.real, s.err
}

type stubSeasonal struct {
	adj float64
	err error
}

func (s stubSeasonal) Deseasonalize(ctx context.Context, indicatorKey string, date any, value float64) (float64, error) {
	return s.adj, s.err
}

func withNormalized(v float64) domain.Observation {
	return domain.Observation{NormalizedValue: &v, ExplicitCurrency: "USD", Year: 2024}
}

func TestApplyInflationSetsRealValue(t *testing.T) {
	res := Apply(context.Background(), withNormalized(100), stubInflation{real: 92.5}, nil, Config{ApplyInflation: true})

	require.NotNil(t, res.RealValue)
	assert.InDelta(t, 92.5, *res.RealValue, 1e-9)
	assert.Empty(t, res.Warnings)
}

func TestApplyInflationFailureDowngradesToWarning(t *testing.T) {
	res := Apply(context.Background(), withNormalized(100), stubInflation{err: errors.New("no cpi data")}, nil, Config{ApplyInflation: true})

	assert.Nil(t, res.RealValue)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "inflation adjustment skipped")
}

func TestApplySeasonalSetsAdjustedValue(t *testing.T) {
	res := Apply(context.Background(), withNormalized(100), nil, stubSeasonal{adj: 101.3}, Config{ApplySeasonal: true})

	require.NotNil(t, res.SeasonallyAdj)
	assert.InDelta(t, 101.3, *res.SeasonallyAdj, 1e-9)
}

func TestApplySkipsWhenNotConfigured(t *testing.T) {
	res := Apply(context.Background(), withNormalized(100), stubInflation{real: 1}, stubSeasonal{adj: 1}, Config{})

	assert.Nil(t, res.RealValue)
	assert.Nil(t, res.SeasonallyAdj)
	assert.Empty(t, res.Warnings)
}

func TestApplySkipsWhenNormalizedValueMissing(t *testing.T) {
	obs := domain.Observation{ExplicitCurrency: "USD", Year: 2024}
	res := Apply(context.Background(), obs, stubInflation{real: 1}, nil, Config{ApplyInflation: true})

	assert.Nil(t, res.RealValue)
	assert.Empty(t, res.Warnings)
}
