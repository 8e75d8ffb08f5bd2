// Package adjust applies optional post-normalization adjustments: inflation
// deflation and seasonal-adjustment removal. Both collaborators are treated
// as opaque externals (§9 Open Question iv: the reference implementation's
// inflation source is a single-country CPI lookup, which this module does
// not reimplement) — a failure from either is warning-only and never aborts
// the pipeline.
package adjust

import (
	"context"
	"fmt"

	"github.com/tellimer/econify/domain"
)

// InflationAdjuster converts a nominal value to a real value for a given
// country and year, e.g. by dividing through a CPI index.
type InflationAdjuster interface {
	Deflate(ctx context.Context, countryCode string, year int, value float64) (real float64, err error)
}

// SeasonalAdjuster removes seasonal variation from a value for a given
// indicator key and date.
type SeasonalAdjuster interface {
	Deseasonalize(ctx context.Context, indicatorKey string, date any, value float64) (adjusted float64, err error)
}

// Config selects which adjustments to attempt.
type Config struct {
	ApplyInflation bool
	ApplySeasonal  bool
}

// Result carries the adjusted value(s) alongside the original
// normalized value; RealValue is nil when inflation adjustment wasn't
// requested or failed.
type Result struct {
	RealValue     *float64
	SeasonallyAdj *float64
	Warnings      []string
}

// Apply runs the configured adjustments against an already-normalized
// observation. Neither step is allowed to change NormalizedValue; each
// produces its own optional output field, and any error downgrades to a
// warning (§4.11's adjusting state: checkingInflation -> [adjustingInflation]
// -> checkingSeasonality -> [removingSeasonality]).
func Apply(ctx context.Context, obs domain.Observation, inflation InflationAdjuster, seasonal SeasonalAdjuster, cfg Config) Result {
	var res Result

	if cfg.ApplyInflation && inflation != nil && obs.NormalizedValue != nil {
		real, err := inflation.Deflate(ctx, obs.EffectiveCurrency(), obs.Year, *obs.NormalizedValue)
		if err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("inflation adjustment skipped: %v", err))
		} else {
			res.RealValue = &real
		}
	}

	if cfg.ApplySeasonal && seasonal != nil && obs.NormalizedValue != nil {
		adj, err := seasonal.Deseasonalize(ctx, obs.IndicatorKey(), obs.Date, *obs.NormalizedValue)
		if err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("seasonal adjustment skipped: %v", err))
		} else {
			res.SeasonallyAdj = &adj
		}
	}

	return res
}
