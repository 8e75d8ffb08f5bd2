package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalIndicatorKeyLowercasesAndTrims(t *testing.T) {
	assert.Equal(t, "gdp growth", CanonicalIndicatorKey("  GDP Growth  "))
}

func TestCanonicalCurrencyUppercases(t *testing.T) {
	assert.Equal(t, "USD", CanonicalCurrency(" usd "))
}

func TestNormalizeTimeTokenRecognizesAliases(t *testing.T) {
	ts, ok := NormalizeTimeToken("Monthly")
	assert.True(t, ok)
	assert.Equal(t, TimeMonth, ts)

	ts, ok = NormalizeTimeToken("annual")
	assert.True(t, ok)
	assert.Equal(t, TimeYear, ts)
}

func TestNormalizeTimeTokenRejectsUnknown(t *testing.T) {
	_, ok := NormalizeTimeToken("fortnightly")
	assert.False(t, ok)
}

func TestNormalizeTimeTokenEmptyIsUnspecified(t *testing.T) {
	ts, ok := NormalizeTimeToken("")
	assert.False(t, ok)
	assert.Equal(t, TimeUnspecified, ts)
}

func TestNormalizeMagnitudeTokenRecognizesAliases(t *testing.T) {
	m, ok := NormalizeMagnitudeToken("Millions")
	assert.True(t, ok)
	assert.Equal(t, MagnitudeMillions, m)

	m, ok = NormalizeMagnitudeToken("raw")
	assert.True(t, ok)
	assert.Equal(t, MagnitudeRaw, m)
}

func TestNormalizeMagnitudeTokenRejectsUnknown(t *testing.T) {
	_, ok := NormalizeMagnitudeToken("gazillions")
	assert.False(t, ok)
}
