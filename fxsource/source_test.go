package fxsource

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tellimer/econify/domain"
)

type stubProvider struct {
	calls int32
	table domain.FXTable
	err   error
	delay time.Duration
}

func (p *stubProvider) FetchRates(ctx context.Context, base string, asOf time.Time) (domain.FXTable, error) {
	atomic.AddInt32(&p.calls, 1)
	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return domain.FXTable{}, ctx.Err()
		}
	}
	if p.err != nil {
		return domain.FXTable{}, p.err
	}
	return p.table, nil
}

func TestResolveUsesLiveSourceWhenHealthy(t *testing.T) {
	live := &stubProvider{table: domain.FXTable{Base: "USD", Rates: map[string]float64{"EUR": 0.9}, Source: domain.FXSourceLive}}
	src := NewSource(live, nil, nil, DefaultConfig())

	table, warning, err := src.Resolve(context.Background(), "USD", time.Now())

	require.NoError(t, err)
	assert.Empty(t, warning)
	assert.Equal(t, domain.FXSourceLive, table.Source)
	assert.EqualValues(t, 1, live.calls)
}

func TestResolveFallsBackWhenLiveErrors(t *testing.T) {
	live := &stubProvider{err: errors.New("boom")}
	fallback := &stubProvider{table: domain.FXTable{Base: "USD", Rates: map[string]float64{"EUR": 0.91}, Source: domain.FXSourceFallback, SourceID: "SNP"}}
	src := NewSource(live, fallback, nil, DefaultConfig())

	table, warning, err := src.Resolve(context.Background(), "USD", time.Now())

	require.NoError(t, err)
	assert.Equal(t, domain.FXSourceFallback, table.Source)
	assert.Contains(t, warning, "SNP")
}

func TestResolveCachesWithinTTL(t *testing.T) {
	live := &stubProvider{table: domain.FXTable{Base: "USD", Rates: map[string]float64{"EUR": 0.9}}}
	cfg := DefaultConfig()
	src := NewSource(live, nil, nil, cfg)
	asOf := time.Now()

	_, _, err := src.Resolve(context.Background(), "USD", asOf)
	require.NoError(t, err)
	_, _, err = src.Resolve(context.Background(), "USD", asOf)
	require.NoError(t, err)

	assert.EqualValues(t, 1, live.calls)
}

func TestBreakerOpensAfterFailureThreshold(t *testing.T) {
	live := &stubProvider{err: errors.New("down")}
	fallback := &stubProvider{table: domain.FXTable{Base: "USD", Rates: map[string]float64{"EUR": 0.9}, Source: domain.FXSourceFallback}}
	cfg := Config{CacheTTL: time.Millisecond, FailureThreshold: 2, OpenDuration: time.Hour, FetchTimeout: time.Second}
	src := NewSource(live, fallback, nil, cfg)

	for i := 0; i < 3; i++ {
		_, _, err := src.Resolve(context.Background(), "USD", time.Now().AddDate(0, 0, i))
		require.NoError(t, err)
	}

	assert.True(t, src.failureCount >= cfg.FailureThreshold || src.state == breakerOpen)

	// Once open, live should no longer be attempted.
	callsBefore := atomic.LoadInt32(&live.calls)
	_, _, err := src.Resolve(context.Background(), "USD", time.Now().AddDate(0, 0, 3))
	require.NoError(t, err)
	assert.Equal(t, callsBefore, atomic.LoadInt32(&live.calls))
}

func TestResolveErrorsWhenNoSourceAvailable(t *testing.T) {
	live := &stubProvider{err: errors.New("down")}
	src := NewSource(live, nil, nil, DefaultConfig())

	_, _, err := src.Resolve(context.Background(), "USD", time.Now())

	assert.Error(t, err)
}
