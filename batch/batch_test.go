package batch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tellimer/econify/autotarget"
	"github.com/tellimer/econify/domain"
	"github.com/tellimer/econify/normalize"
	"github.com/tellimer/econify/orchestrator"
)

func TestProcessEconomicDataRunsOrchestrator(t *testing.T) {
	obs := []domain.Observation{
		{Name: "exports", Value: 100, Unit: "USD Million"},
		{Name: "exports", Value: 200, Unit: "USD Million"},
	}

	report, err := ProcessEconomicData(context.Background(), obs, orchestrator.Options{})

	require.NoError(t, err)
	assert.Len(t, report.Data, 2)
}

func TestProcessEconomicDataAutoIgnoresManualTargets(t *testing.T) {
	obs := []domain.Observation{
		{Name: "exports", Value: 100, Unit: "USD Million"},
		{Name: "exports", Value: 200, Unit: "EUR Million"},
	}
	manual := normalize.Target{Currency: "GBP"}

	report, err := ProcessEconomicDataAuto(context.Background(), obs, orchestrator.Options{ManualTargets: &manual})

	require.NoError(t, err)
	sel, ok := report.TargetSelectionsByIndicator["exports"]
	require.True(t, ok)
	assert.NotEqual(t, "GBP", sel.Selected.Currency)
}

func TestProcessEconomicDataByIndicatorHonorsManualTargetsPerIndicator(t *testing.T) {
	obs := []domain.Observation{
		{Name: "exports", Value: 100, Unit: "USD Million"},
		{Name: "imports", Value: 50, Unit: "USD Million"},
		{Name: "exports", Value: 200, Unit: "USD Million"},
	}
	targets := map[string]normalize.Target{
		"exports": {Currency: "USD", Magnitude: domain.MagnitudeBillions},
	}

	report, err := ProcessEconomicDataByIndicator(context.Background(), obs, targets, orchestrator.Options{})

	require.NoError(t, err)
	require.Len(t, report.Data, 3)
	assert.Equal(t, obs[0].Value, report.Data[0].Value)
	assert.Equal(t, obs[1].Value, report.Data[1].Value)
	assert.Equal(t, obs[2].Value, report.Data[2].Value)
	require.NotNil(t, report.Data[0].NormalizedValue)
	assert.Contains(t, report.Data[0].NormalizedUnit, "billion")
}

func TestSessionAccumulatesAndProcesses(t *testing.T) {
	s := NewSession(orchestrator.Options{})
	s.AddDataPoint(domain.Observation{Name: "exports", Value: 10, Unit: "USD Million"})
	s.AddDataPoints([]domain.Observation{
		{Name: "exports", Value: 20, Unit: "USD Million"},
	})

	assert.Equal(t, 2, s.Size())

	report, err := s.Process(context.Background())
	require.NoError(t, err)
	assert.Len(t, report.Data, 2)

	s.Clear()
	assert.Equal(t, 0, s.Size())
}

func TestSessionPreviewAutoTargetsDoesNotNormalize(t *testing.T) {
	s := NewSession(orchestrator.Options{})
	s.AddDataPoints([]domain.Observation{
		{Name: "exports", Value: 10, Unit: "USD Million"},
		{Name: "exports", Value: 20, Unit: "USD Million"},
	})

	previews := s.PreviewAutoTargets(autotarget.DefaultConfig())

	sel, ok := previews["exports"]
	require.True(t, ok)
	assert.Equal(t, "USD", sel.Selected.Currency)
}
