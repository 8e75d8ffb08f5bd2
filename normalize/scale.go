// Package normalize implements the domain-routed normalizer (spec §4.5-§4.8):
// monetary flow/stock, wages, counts, and the passthrough domains. Grounded
// in the teacher's FXTransformer/TimeIntelligenceTransformer shape
// (src/compute/fx_transformer.go, time_intelligence_transformer.go): a
// config-driven step applied in a fixed order, with an optional audit
// (here, Explain) record built alongside the value.
package normalize

import "github.com/tellimer/econify/domain"

// Target is the resolved (currency, magnitude, time) triple a single
// conversion run is normalizing toward. Any field may be the zero value
// when that dimension isn't applicable to the bucket being processed.
type Target struct {
	Currency  string
	Magnitude domain.Magnitude
	Time      domain.TimeScale
}

// ScaleFactor computes the magnitude conversion factor from src to dst as
// 10^(srcExp-dstExp), using each magnitude's power-of-ten exponent. The
// thousand-step formula 10^(3*(srcIdx-dstIdx)) of §4.5 only holds from
// thousands upward (raw->hundreds is 10^2, hundreds->thousands is 10^1), so
// the exponent table is used instead and every pair is exact.
func ScaleFactor(src, dst domain.Magnitude) (factor float64, direction domain.Direction, ok bool) {
	srcExp, srcOK := domain.MagnitudeExponent(src)
	dstExp, dstOK := domain.MagnitudeExponent(dst)
	if !srcOK || !dstOK {
		return 1, domain.DirectionNone, false
	}
	delta := srcExp - dstExp
	factor = pow10(delta)
	switch {
	case factor > 1:
		direction = domain.DirectionUpscale
	case factor < 1:
		direction = domain.DirectionDownscale
	default:
		direction = domain.DirectionNone
	}
	return factor, direction, true
}

func pow10(n int) float64 {
	if n == 0 {
		return 1
	}
	result := 1.0
	abs := n
	neg := n < 0
	if neg {
		abs = -n
	}
	for i := 0; i < abs; i++ {
		result *= 10
	}
	if neg {
		return 1 / result
	}
	return result
}

// TimeFactor computes the time-rescale factor from src to dst: a value
// expressed "per src" becomes "per dst" by multiplying by factor =
// dstSecondsPerUnit / srcSecondsPerUnit (§4.5). Going from a longer source
// period to a shorter target period (e.g. quarter -> month, factor 1/3)
// lowers the per-period figure and is labelled upsample; going the other
// way raises it and is labelled downsample.
func TimeFactor(src, dst domain.TimeScale) (factor float64, direction domain.Direction, ok bool) {
	srcSec, srcOK := domain.TimeSecondsPerUnit(src)
	dstSec, dstOK := domain.TimeSecondsPerUnit(dst)
	if !srcOK || !dstOK {
		return 1, domain.DirectionNone, false
	}
	factor = dstSec / srcSec
	switch {
	case factor < 1:
		direction = domain.DirectionUpsample
	case factor > 1:
		direction = domain.DirectionDownsample
	default:
		direction = domain.DirectionNone
	}
	return factor, direction, true
}

// FXFactor computes value_tgt = value_src * rate_tgt / rate_src using the
// FXTable convention "1 base = rate units of code" (§4.5): converting
// value_src units of source currency first divides out the source rate to
// reach the base currency, then multiplies by the target rate. Identity
// (factor=1) when source == target.
func FXFactor(table domain.FXTable, source, target string) (factor float64, ok bool) {
	if source == target {
		return 1, true
	}
	if source == "" || target == "" {
		return 1, false
	}
	rateSrc := 1.0
	if source != table.Base {
		r, found := table.Rate(source)
		if !found {
			return 1, false
		}
		rateSrc = r
	}
	rateTgt := 1.0
	if target != table.Base {
		r, found := table.Rate(target)
		if !found {
			return 1, false
		}
		rateTgt = r
	}
	return rateTgt / rateSrc, true
}
