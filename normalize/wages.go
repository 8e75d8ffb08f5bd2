package normalize

import (
	"fmt"

	"github.com/tellimer/econify/domain"
	"github.com/tellimer/econify/units"
)

// HoursPerMonthWages is the standardized hour->month constant the wages
// normalizer uses, distinct from the general time-scale chain derived from
// domain.SecondsPerMonth (≈728 hours/month). Both are kept as named
// constants per the open question on which convention a wages-style
// indicator should use (§9).
const HoursPerMonthWages = 730.0

// WagesConfig bundles the wages normalizer's single tunable.
type WagesConfig struct {
	// ExcludeIndexValues drops items whose parsed unit category is
	// CategoryIndex before normalizing (e.g. a wage-index series mixed
	// into a wage-level indicator group).
	ExcludeIndexValues bool
}

// Wages normalizes a wage/salary observation to "<targetCurrency> per
// month" (§4.6). Unlike MonetaryFlow, the time rescale runs before the FX
// conversion: hour/week/quarter/year all resolve to month using fixed
// wage-specific factors, then the monthly figure converts currency. When
// cfg.ExcludeIndexValues is set and the item parses as an index, Wages
// returns excluded=true and performs no conversion.
func Wages(item domain.IndexedObservation, targetCurrency string, fx *domain.FXTable, explainOn bool, cfg WagesConfig) (res Result, warnings []string, excluded bool) {
	if cfg.ExcludeIndexValues && item.Unit.Category == domain.CategoryIndex {
		return Result{}, nil, true
	}

	value := item.Obs.Value

	srcMag, hasMag := units.EffectiveMagnitude(item.Obs.Scale, item.Unit)
	srcCur, hasCur := units.EffectiveCurrency(item.Obs.ExplicitCurrency, item.Unit)
	srcTime, hasTime := units.EffectiveTime(item.Unit, item.Obs.Periodicity)

	var steps []domain.ConversionStep
	totalFactor := 1.0

	// 1. Magnitude scaling, always to raw units (the general monetary
	// normalizer scales to the target magnitude instead).
	var magExplain *domain.MagnitudeExplain
	if hasMag && srcMag != domain.MagnitudeUnspecified {
		if factor, direction, ok := ScaleFactor(srcMag, domain.MagnitudeRaw); ok && factor != 1 {
			value *= factor
			totalFactor *= factor
			steps = append(steps, domain.ConversionStep{Kind: "scale", Factor: factor,
				Description: fmt.Sprintf("%s -> %s", srcMag, domain.MagnitudeRaw)})
			magExplain = &domain.MagnitudeExplain{
				OriginalScale: srcMag, TargetScale: domain.MagnitudeRaw, Factor: factor,
				Direction: direction, Description: fmt.Sprintf("scaled %s to %s", srcMag, domain.MagnitudeRaw),
			}
		}
	}

	// 2. Time rescale to month, using the wages-specific fixed factors.
	var periodExplain *domain.PeriodicityExplain
	var timeStep *domain.ConversionStep
	if !hasTime {
		warnings = append(warnings, "no source time scale available; wages value left unconverted for time dimension")
		periodExplain = &domain.PeriodicityExplain{
			Target: domain.TimeMonth, Adjusted: false,
			Description: "No source time scale available",
		}
	} else if srcTime != domain.TimeMonth {
		if factor, direction, ok := wagesTimeFactor(srcTime); ok {
			value *= factor
			totalFactor *= factor
			timeStep = &domain.ConversionStep{Kind: "time", Factor: factor,
				Description: fmt.Sprintf("%s -> %s (wages)", srcTime, domain.TimeMonth)}
			periodExplain = &domain.PeriodicityExplain{
				Original: srcTime, Target: domain.TimeMonth, Adjusted: true, Factor: factor,
				Direction: direction, Description: fmt.Sprintf("rescaled %s to %s using the wages hours/month constant", srcTime, domain.TimeMonth),
			}
		} else {
			warnings = append(warnings, fmt.Sprintf("no wages time factor defined for %s; left unconverted", srcTime))
		}
	}

	// 3. FX conversion, applied after the time rescale (reversed order
	// from the general monetary normalizer, per §4.6).
	dstCur := domain.CanonicalCurrency(targetCurrency)
	if dstCur == "" {
		dstCur = srcCur
	}
	var fxExplain *domain.FXExplain
	if hasCur && dstCur != "" && srcCur != dstCur {
		if fx == nil {
			warnings = append(warnings, "fx table unavailable: wages conversion skipped for currency dimension")
		} else if factor, ok := FXFactor(*fx, srcCur, dstCur); ok {
			value *= factor
			totalFactor *= factor
			steps = append(steps, domain.ConversionStep{Kind: "currency", Factor: factor,
				Description: fmt.Sprintf("%s -> %s", srcCur, dstCur)})
			rate, _ := fx.Rate(dstCur)
			fxExplain = &domain.FXExplain{
				Currency: dstCur, Base: fx.Base, Rate: rate, Source: fx.Source,
				SourceID: fx.SourceID, AsOf: fx.AsOf.Format("2006-01-02T15:04:05Z07:00"),
			}
		} else {
			warnings = append(warnings, fmt.Sprintf("fx rate unavailable for %s->%s: currency conversion skipped", srcCur, dstCur))
			dstCur = srcCur
		}
	}

	// The time step is applied before FX but recorded after it, so Steps
	// keeps the canonical scale, currency, time order.
	if timeStep != nil {
		steps = append(steps, *timeStep)
	}

	unit := fmt.Sprintf("%s per %s", dstCur, domain.TimeMonth)

	res = Result{Value: value, Unit: unit}
	if explainOn {
		e := domain.NewExplain("wages")
		if hasCur || dstCur != "" {
			e.Currency = &domain.CurrencyExplain{Original: srcCur, Normalized: dstCur}
		}
		e.FX = fxExplain
		e.Magnitude = magExplain
		e.Periodicity = periodExplain
		e.Units = &domain.UnitsExplain{OriginalUnit: item.Obs.Unit, NormalizedUnit: unit}
		e.Conversion = &domain.ConversionExplain{
			TotalFactor: totalFactor, Steps: steps,
			Summary: fmt.Sprintf("applied %d conversion step(s), total factor %.6g", len(steps), totalFactor),
		}
		res.Explain = e
	}

	return res, warnings, false
}

// wagesTimeFactor resolves the fixed src->month factor the wages
// normalizer uses (§4.6). Day has no wages-specific constant defined, so it
// falls back to the general seconds-per-unit ratio.
func wagesTimeFactor(src domain.TimeScale) (factor float64, direction domain.Direction, ok bool) {
	switch src {
	case domain.TimeHour:
		factor = HoursPerMonthWages
	case domain.TimeWeek:
		factor = 52.0 / 12.0
	case domain.TimeQuarter:
		factor = 1.0 / 3.0
	case domain.TimeYear:
		factor = 1.0 / 12.0
	case domain.TimeMonth:
		factor = 1.0
	case domain.TimeDay:
		dstSec, _ := domain.TimeSecondsPerUnit(domain.TimeMonth)
		srcSec, _ := domain.TimeSecondsPerUnit(domain.TimeDay)
		factor = dstSec / srcSec
	default:
		return 1, domain.DirectionNone, false
	}
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
