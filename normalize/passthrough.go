package normalize

import "github.com/tellimer/econify/domain"

// Passthrough implements §4.8: percentage, index, energy, commodity,
// agriculture, metals, crypto, and ratio buckets are never rescaled — the
// value and unit pass through unchanged regardless of any configured
// auto-target or explicit target triple. A ratio bucket gets an extra
// "(guarded ratio)" note to flag that no currency/time conversion was
// attempted on a compound unit.
func Passthrough(item domain.IndexedObservation, bucket domain.BucketKey, explainOn bool) Result {
	res := Result{Value: item.Obs.Value, Unit: item.Obs.Unit}

	if explainOn {
		e := domain.NewExplain(string(bucket))
		e.Units = &domain.UnitsExplain{OriginalUnit: item.Obs.Unit, NormalizedUnit: item.Obs.Unit}
		e.Conversion = &domain.ConversionExplain{TotalFactor: 1, Summary: "no-op normalization"}
		e.Note = "no-op normalization"
		if bucket == domain.BucketRatios {
			e.Note = "no-op normalization (guarded ratio)"
		}
		res.Explain = e
	}

	return res
}
