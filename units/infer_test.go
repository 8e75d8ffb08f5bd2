package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInferUnitRecognizesCurrencyAndMagnitudeFromDescription(t *testing.T) {
	unit, confidence := InferUnit("exports", "USD Million value reported by customs", 100)

	assert.Equal(t, "USD Million", unit)
	assert.Greater(t, confidence, 0.7)
}

func TestInferUnitRecognizesPercentage(t *testing.T) {
	unit, confidence := InferUnit("unemployment rate", "expressed as a % of labor force", 5.2)

	assert.Equal(t, "%", unit)
	assert.Greater(t, confidence, 0.7)
}

func TestInferUnitValueAloneStaysBelowThreshold(t *testing.T) {
	_, confidence := InferUnit("", "", 123456)

	assert.LessOrEqual(t, confidence, 0.7)
}

func TestInferUnitNoSignalReturnsZeroConfidence(t *testing.T) {
	_, confidence := InferUnit("", "", 0)

	assert.Equal(t, 0.0, confidence)
}
