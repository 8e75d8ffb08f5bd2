package normalize

import (
	"fmt"

	"github.com/tellimer/econify/domain"
	"github.com/tellimer/econify/units"
)

// Result is the outcome of normalizing a single observation: the new
// value, the rebuilt unit string, and (if requested) the Explain record.
type Result struct {
	Value   float64
	Unit    string
	Explain *domain.Explain
}

// MonetaryFlow applies, in order, magnitude scaling, FX conversion, and time
// rescale (§4.5), rebuilding the unit string as "<CUR> <magnitude>[s] per
// <time>". Steps are skipped when their dimension is inapplicable or
// absent; a missing source time with a configured target time leaves the
// value unconverted but still reports "per <target>" in the unit string and
// records periodicity.adjusted=false (§4.4).
func MonetaryFlow(item domain.IndexedObservation, target Target, fx *domain.FXTable, explainOn bool) (Result, []string) {
	return monetary(item, target, fx, explainOn, true)
}

// MonetaryStock applies magnitude scaling and FX conversion only — no time
// dimension applies to a stock (§4.5's "<CUR> <magnitude>[s]" form).
func MonetaryStock(item domain.IndexedObservation, target Target, fx *domain.FXTable, explainOn bool) (Result, []string) {
	return monetary(item, target, fx, explainOn, false)
}

func monetary(item domain.IndexedObservation, target Target, fx *domain.FXTable, explainOn, isFlow bool) (Result, []string) {
	var warnings []string
	value := item.Obs.Value

	srcMag, hasMag := units.EffectiveMagnitude(item.Obs.Scale, item.Unit)
	srcCur, hasCur := units.EffectiveCurrency(item.Obs.ExplicitCurrency, item.Unit)

	var steps []domain.ConversionStep
	totalFactor := 1.0

	// 1. Magnitude scaling.
	dstMag := target.Magnitude
	if dstMag == domain.MagnitudeUnspecified {
		dstMag = srcMag
	}
	var magExplain *domain.MagnitudeExplain
	if hasMag && dstMag != domain.MagnitudeUnspecified {
		if factor, direction, ok := ScaleFactor(srcMag, dstMag); ok {
			value *= factor
			totalFactor *= factor
			steps = append(steps, domain.ConversionStep{Kind: "scale", Factor: factor,
				Description: fmt.Sprintf("%s -> %s", srcMag, dstMag)})
			magExplain = &domain.MagnitudeExplain{
				OriginalScale: srcMag, TargetScale: dstMag, Factor: factor, Direction: direction,
				Description: fmt.Sprintf("scaled %s to %s", srcMag, dstMag),
			}
		}
	}

	// 2. FX conversion.
	dstCur := target.Currency
	if dstCur == "" {
		dstCur = srcCur
	}
	var fxExplain *domain.FXExplain
	if hasCur && dstCur != "" && srcCur != dstCur {
		if fx == nil {
			warnings = append(warnings, "fx table unavailable: monetary conversion skipped for currency dimension")
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

	// 3. Time rescale (flows only).
	var periodExplain *domain.PeriodicityExplain
	srcTime, hasTime := units.EffectiveTime(item.Unit, item.Obs.Periodicity)
	dstTime := target.Time
	if isFlow {
		if dstTime == domain.TimeUnspecified {
			dstTime = srcTime
		}
		if !hasTime && dstTime != domain.TimeUnspecified {
			periodExplain = &domain.PeriodicityExplain{
				Target: dstTime, Adjusted: false,
				Description: "No source time scale available",
			}
			warnings = append(warnings, "no source time scale available; value left unconverted for time dimension")
		} else if hasTime && dstTime != domain.TimeUnspecified {
			if factor, direction, ok := TimeFactor(srcTime, dstTime); ok {
				value *= factor
				totalFactor *= factor
				steps = append(steps, domain.ConversionStep{Kind: "time", Factor: factor,
					Description: fmt.Sprintf("%s -> %s", srcTime, dstTime)})
				periodExplain = &domain.PeriodicityExplain{
					Original: srcTime, Target: dstTime, Adjusted: srcTime != dstTime, Factor: factor,
					Direction: direction, Description: fmt.Sprintf("rescaled %s to %s", srcTime, dstTime),
				}
			}
		}
	}

	unit := buildMonetaryUnit(dstCur, dstMag, dstTime, isFlow)

	res := Result{Value: value, Unit: unit}
	if explainOn {
		domainName := "monetaryStock"
		if isFlow {
			domainName = "monetaryFlow"
		}
		e := domain.NewExplain(domainName)
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

	return res, warnings
}

func buildMonetaryUnit(currency string, mag domain.Magnitude, timeScale domain.TimeScale, isFlow bool) string {
	parts := currency
	if mag != domain.MagnitudeUnspecified && mag != domain.MagnitudeRaw {
		parts = fmt.Sprintf("%s %s", parts, string(mag))
	}
	if isFlow && timeScale != domain.TimeUnspecified {
		parts = fmt.Sprintf("%s per %s", parts, string(timeScale))
	}
	return parts
}
