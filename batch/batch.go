// Package batch provides the caller-facing entry points over orchestrator:
// one-shot functions for a single run, and a stateful Session for
// incrementally accumulating observations before processing them together
// (§4.13).
package batch

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/tellimer/econify/autotarget"
	"github.com/tellimer/econify/classify"
	"github.com/tellimer/econify/domain"
	"github.com/tellimer/econify/normalize"
	"github.com/tellimer/econify/orchestrator"
)

// ProcessEconomicData runs a single normalization pass over obs using
// whatever targets opts configures (manual or auto).
func ProcessEconomicData(ctx context.Context, obs []domain.Observation, opts orchestrator.Options) (orchestrator.Report, error) {
	return orchestrator.Run(ctx, obs, opts)
}

// ProcessEconomicDataAuto runs a normalization pass forcing auto-target
// selection (ignoring any opts.ManualTargets) using opts.AutoTargetConfig,
// falling back to autotarget.DefaultConfig when unset.
func ProcessEconomicDataAuto(ctx context.Context, obs []domain.Observation, opts orchestrator.Options) (orchestrator.Report, error) {
	opts.ManualTargets = nil
	if len(opts.AutoTargetConfig.Dimensions) == 0 {
		opts.AutoTargetConfig = autotarget.DefaultConfig()
	}
	return orchestrator.Run(ctx, obs, opts)
}

// ProcessEconomicDataByIndicator runs one normalization pass per indicator
// key present in obs, giving each its own manual target triple from
// targets (indicator keys absent from targets fall back to auto-target
// selection within their own group), then reassembles a single Report in
// the original input order.
func ProcessEconomicDataByIndicator(ctx context.Context, obs []domain.Observation, targets map[string]normalize.Target, opts orchestrator.Options) (orchestrator.Report, error) {
	groups := map[string][]int{}
	order := []string{}
	for i, o := range obs {
		key := o.IndicatorKey()
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], i)
	}

	merged := orchestrator.Report{
		RunID:                       uuid.NewString(),
		Data:                        make([]domain.Observation, len(obs)),
		TargetSelectionsByIndicator: map[string]domain.AutoTargetSelection{},
	}

	for _, key := range order {
		idxs := groups[key]
		sub := make([]domain.Observation, len(idxs))
		for j, idx := range idxs {
			sub[j] = obs[idx]
		}

		subOpts := opts
		if target, ok := targets[key]; ok {
			t := target
			subOpts.ManualTargets = &t
		} else {
			subOpts.ManualTargets = nil
			if len(subOpts.AutoTargetConfig.Dimensions) == 0 {
				subOpts.AutoTargetConfig = autotarget.DefaultConfig()
			}
		}

		rep, err := orchestrator.Run(ctx, sub, subOpts)
		if err != nil {
			return merged, err
		}

		for j, idx := range idxs {
			merged.Data[idx] = rep.Data[j]
		}
		merged.Warnings = append(merged.Warnings, rep.Warnings...)
		merged.Errors = append(merged.Errors, rep.Errors...)
		for k, v := range rep.TargetSelectionsByIndicator {
			merged.TargetSelectionsByIndicator[k] = v
		}
		merged.Metrics.ProcessingTime += rep.Metrics.ProcessingTime
		merged.Metrics.RecordsProcessed += rep.Metrics.RecordsProcessed
		merged.Metrics.RecordsFailed += rep.Metrics.RecordsFailed
		if rep.QualityScore != nil {
			merged.QualityScore = rep.QualityScore
		}
		merged.Outliers = append(merged.Outliers, rep.Outliers...)
	}

	return merged, nil
}

// Session accumulates observations across multiple calls before processing
// them together as one batch (§4.13).
type Session struct {
	mu     sync.Mutex
	points []domain.Observation
	opts   orchestrator.Options
}

// NewSession constructs an empty Session with the given default options.
func NewSession(opts orchestrator.Options) *Session {
	return &Session{opts: opts}
}

// AddDataPoint appends a single observation.
func (s *Session) AddDataPoint(o domain.Observation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.points = append(s.points, o)
}

// AddDataPoints appends multiple observations.
func (s *Session) AddDataPoints(obs []domain.Observation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.points = append(s.points, obs...)
}

// Clear discards every accumulated observation.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.points = nil
}

// Size returns the number of accumulated observations.
func (s *Session) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.points)
}

// PreviewAutoTargets classifies and groups the accumulated observations by
// indicator key and returns what auto-target selection would choose for
// each group, without normalizing anything.
func (s *Session) PreviewAutoTargets(cfg autotarget.Config) map[string]domain.AutoTargetSelection {
	s.mu.Lock()
	points := append([]domain.Observation(nil), s.points...)
	s.mu.Unlock()

	buckets := classify.Classify(points, classify.Config{})
	out := map[string]domain.AutoTargetSelection{}
	seen := map[string][]domain.IndexedObservation{}
	for _, b := range buckets {
		for _, item := range b.Observations {
			key := item.Obs.IndicatorKey()
			seen[key] = append(seen[key], item)
		}
	}
	for key, items := range seen {
		out[key] = autotarget.Select(key, items, cfg)
	}
	return out
}

// Process runs the accumulated observations through orchestrator.Run using
// the Session's configured options.
func (s *Session) Process(ctx context.Context) (orchestrator.Report, error) {
	s.mu.Lock()
	points := append([]domain.Observation(nil), s.points...)
	opts := s.opts
	s.mu.Unlock()

	return orchestrator.Run(ctx, points, opts)
}
