package normalize

import (
	"fmt"

	"github.com/tellimer/econify/domain"
	"github.com/tellimer/econify/units"
)

// Counts normalizes a count/population observation to raw units (§4.7):
// magnitude scaling only, target magnitude always MagnitudeRaw, no FX and
// no time rescale ever apply to this bucket.
func Counts(item domain.IndexedObservation, explainOn bool) (Result, []string) {
	var warnings []string
	value := item.Obs.Value

	srcMag, hasMag := units.EffectiveMagnitude(item.Obs.Scale, item.Unit)

	var steps []domain.ConversionStep
	totalFactor := 1.0
	var magExplain *domain.MagnitudeExplain

	if hasMag && srcMag != domain.MagnitudeRaw {
		if factor, direction, ok := ScaleFactor(srcMag, domain.MagnitudeRaw); ok {
			value *= factor
			totalFactor *= factor
			steps = append(steps, domain.ConversionStep{Kind: "scale", Factor: factor,
				Description: fmt.Sprintf("%s -> %s", srcMag, domain.MagnitudeRaw)})
			magExplain = &domain.MagnitudeExplain{
				OriginalScale: srcMag, TargetScale: domain.MagnitudeRaw, Factor: factor,
				Direction: direction, Description: fmt.Sprintf("scaled %s to %s", srcMag, domain.MagnitudeRaw),
			}
		}
	} else if !hasMag {
		warnings = append(warnings, "no source magnitude available; count value left unscaled")
	}

	unit := "ones"

	res := Result{Value: value, Unit: unit}
	if explainOn {
		e := domain.NewExplain("count")
		e.Magnitude = magExplain
		e.Units = &domain.UnitsExplain{OriginalUnit: item.Obs.Unit, NormalizedUnit: unit}
		e.Conversion = &domain.ConversionExplain{
			TotalFactor: totalFactor, Steps: steps,
			Summary: fmt.Sprintf("applied %d conversion step(s), total factor %.6g", len(steps), totalFactor),
		}
		res.Explain = e
	}

	return res, warnings
}
