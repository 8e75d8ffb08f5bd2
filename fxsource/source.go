// Package fxsource resolves a domain.FXTable for a requested as-of date,
// fronted by an in-process TTL cache and a circuit breaker over the live
// provider, falling back to a secondary source on live failure (§4.10).
// Grounded in the teacher's CurrencyResolverMetadata breaker state machine
// (src/compute/currency_resolver_metadata.go) and its Redis-backed cache
// layering (src/storage/grid_cache_redis.go, cache_config.go).
package fxsource

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tellimer/econify/domain"
)

// RateProvider fetches a fresh FXTable for a base currency as of a given
// time. Implementations call out to a live feed or a durable fallback.
type RateProvider interface {
	FetchRates(ctx context.Context, base string, asOf time.Time) (domain.FXTable, error)
}

// Config tunes the breaker and cache behind Source.
type Config struct {
	CacheTTL         time.Duration
	FailureThreshold int
	OpenDuration     time.Duration
	FetchTimeout     time.Duration
}

// DefaultConfig mirrors the teacher's breaker defaults.
func DefaultConfig() Config {
	return Config{
		CacheTTL:         10 * time.Minute,
		FailureThreshold: 5,
		OpenDuration:     30 * time.Second,
		FetchTimeout:     2 * time.Second,
	}
}

type breakerState int

const (
	breakerClosed breakerState = iota
	breakerOpen
	breakerHalfOpen
)

// Source resolves an FXTable via a live provider guarded by a circuit
// breaker, an optional second-tier cache (e.g. RedisCache), and a fallback
// provider used once the breaker opens or the live fetch errors.
type Source struct {
	live     RateProvider
	fallback RateProvider
	tier2    Cache
	cfg      Config

	mu      sync.Mutex
	entries map[string]cacheEntry

	breakerMu    sync.Mutex
	state        breakerState
	failureCount int
	openUntil    time.Time

	inflightMu sync.Mutex
	inflight   map[string]*inflightFetch
}

type cacheEntry struct {
	table   domain.FXTable
	expires time.Time
}

type inflightFetch struct {
	done  chan struct{}
	table domain.FXTable
	err   error
}

// Cache is the optional second tier (e.g. Redis) a Source consults after
// its in-process entry map misses and before calling the live provider.
type Cache interface {
	Get(ctx context.Context, key string) (domain.FXTable, bool, error)
	Set(ctx context.Context, key string, table domain.FXTable, ttl time.Duration) error
}

// NewSource constructs a Source. fallback and tier2 may be nil.
func NewSource(live, fallback RateProvider, tier2 Cache, cfg Config) *Source {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultConfig().CacheTTL
	}
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = DefaultConfig().FailureThreshold
	}
	if cfg.OpenDuration <= 0 {
		cfg.OpenDuration = DefaultConfig().OpenDuration
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = DefaultConfig().FetchTimeout
	}
	return &Source{
		live:     live,
		fallback: fallback,
		tier2:    tier2,
		cfg:      cfg,
		entries:  make(map[string]cacheEntry),
		inflight: make(map[string]*inflightFetch),
	}
}

// Resolve returns an FXTable for base as of asOf, along with a warning
// string when the live source was unavailable and a fallback served the
// request instead. Resolve returns an error only when neither source could
// produce a table.
func (s *Source) Resolve(ctx context.Context, base string, asOf time.Time) (domain.FXTable, string, error) {
	key := cacheKey(base, asOf)

	if table, ok := s.lookupLocal(key); ok {
		return table, "", nil
	}
	if s.tier2 != nil {
		if table, found, err := s.tier2.Get(ctx, key); err == nil && found {
			s.storeLocal(key, table)
			return table, "", nil
		}
	}

	table, err, shared := s.singleFlight(ctx, key, base, asOf)
	if err != nil {
		return domain.FXTable{}, "", err
	}

	if !shared {
		s.storeLocal(key, table)
		if s.tier2 != nil {
			_ = s.tier2.Set(ctx, key, table, s.cfg.CacheTTL)
		}
	}

	warning := ""
	if table.Source == domain.FXSourceFallback {
		warning = fmt.Sprintf("live fx source unavailable; served rates from fallback source %q", table.SourceID)
	}
	return table, warning, nil
}

// singleFlight collapses concurrent fetches for the same key into one
// provider call.
func (s *Source) singleFlight(ctx context.Context, key, base string, asOf time.Time) (domain.FXTable, error, bool) {
	s.inflightMu.Lock()
	if f, ok := s.inflight[key]; ok {
		s.inflightMu.Unlock()
		<-f.done
		return f.table, f.err, true
	}
	f := &inflightFetch{done: make(chan struct{})}
	s.inflight[key] = f
	s.inflightMu.Unlock()

	f.table, f.err = s.fetch(ctx, base, asOf)
	close(f.done)

	s.inflightMu.Lock()
	delete(s.inflight, key)
	s.inflightMu.Unlock()

	return f.table, f.err, false
}

func (s *Source) fetch(ctx context.Context, base string, asOf time.Time) (domain.FXTable, error) {
	if s.allowLive() {
		cctx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
		table, err := s.live.FetchRates(cctx, base, asOf)
		cancel()
		if err == nil {
			s.recordSuccess()
			return table, nil
		}
		s.recordFailure()
	}

	if s.fallback == nil {
		return domain.FXTable{}, fmt.Errorf("fxsource: live source unavailable and no fallback configured")
	}

	cctx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
	defer cancel()
	table, err := s.fallback.FetchRates(cctx, base, asOf)
	if err != nil {
		return domain.FXTable{}, fmt.Errorf("fxsource: fallback source failed: %w", err)
	}
	return table, nil
}

func (s *Source) lookupLocal(key string) (domain.FXTable, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok || time.Now().After(e.expires) {
		return domain.FXTable{}, false
	}
	return e.table, true
}

func (s *Source) storeLocal(key string, table domain.FXTable) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = cacheEntry{table: table, expires: time.Now().Add(s.cfg.CacheTTL)}
}

func (s *Source) allowLive() bool {
	if s.live == nil {
		return false
	}
	s.breakerMu.Lock()
	defer s.breakerMu.Unlock()

	switch s.state {
	case breakerOpen:
		if time.Now().After(s.openUntil) {
			s.state = breakerHalfOpen
			return true
		}
		return false
	default:
		return true
	}
}

func (s *Source) recordSuccess() {
	s.breakerMu.Lock()
	defer s.breakerMu.Unlock()
	s.failureCount = 0
	s.state = breakerClosed
}

func (s *Source) recordFailure() {
	s.breakerMu.Lock()
	defer s.breakerMu.Unlock()
	s.failureCount++
	if s.failureCount >= s.cfg.FailureThreshold {
		s.state = breakerOpen
		s.openUntil = time.Now().Add(s.cfg.OpenDuration)
	}
}

func cacheKey(base string, asOf time.Time) string {
	return fmt.Sprintf("%s@%s", base, asOf.Format("2006-01-02"))
}
