// Package quality implements the per-batch quality assessment (spec §4.9):
// a 0-100 score blending completeness, internal consistency, and outlier
// detection, grounded in the teacher's CurrencyResolverMetadata confidence
// scoring (src/compute/currency_resolver_metadata.go) — a small weighted
// blend of sub-signals rather than a single pass/fail check.
package quality

import (
	"fmt"
	"math"
	"sort"

	"github.com/tellimer/econify/domain"
)

// Config tunes the assessment (§8 scenario 4, §9 Open Question iii).
type Config struct {
	// DetectScaleOutliers flags items whose value's order of magnitude
	// deviates from the indicator group's dominant order of magnitude by
	// a z-score (relative to the median absolute deviation) over 3.
	DetectScaleOutliers bool
	// FilterOutliers removes flagged items from Report.Kept instead of
	// merely warning about them.
	FilterOutliers bool
}

// Report is the outcome of assessing one indicator group.
type Report struct {
	Score             int
	Warnings          []domain.QualityWarning
	DominantMagnitude int // dominant order of magnitude (floor(log10(|value|))), not a domain.Magnitude token
	OutlierIndices    []int // item.Index values flagged as scale outliers
	Kept              []domain.IndexedObservation
}

// Assess scores one indicator group's items (§4.9).
func Assess(items []domain.IndexedObservation, cfg Config) Report {
	rep := Report{Kept: items}
	if len(items) == 0 {
		rep.Score = 100
		return rep
	}

	completeness := completenessScore(items)

	orders, idx := magnitudeOrders(items)
	outlierSet := map[int]bool{}
	if len(orders) > 0 {
		dominant := medianOrder(orders)
		rep.DominantMagnitude = dominant
		if cfg.DetectScaleOutliers {
			outlierSet = detectOutliers(orders, idx, dominant)
		}
	}

	orderByIndex := map[int]int{}
	for i, o := range orders {
		orderByIndex[idx[i]] = o
	}
	for _, i := range sortedKeys(outlierSet) {
		rep.OutlierIndices = append(rep.OutlierIndices, i)
		rep.Warnings = append(rep.Warnings, domain.QualityWarning{
			Type:    "scale-outlier",
			Message: fmt.Sprintf("item index %d deviates from the group's dominant order of magnitude", i),
			Details: map[string]any{
				"index":             i,
				"magnitude":         orderByIndex[i],
				"dominantMagnitude": rep.DominantMagnitude,
			},
		})
	}

	consistency := categoryConsistency(items)

	rep.Score = int(math.Round(100 * (0.4*completeness + 0.3*consistency + 0.3*outlierFreeFraction(len(items), len(outlierSet)))))
	if rep.Score < 0 {
		rep.Score = 0
	}
	if rep.Score > 100 {
		rep.Score = 100
	}

	if cfg.FilterOutliers && len(outlierSet) > 0 {
		kept := make([]domain.IndexedObservation, 0, len(items))
		for _, it := range items {
			if !outlierSet[it.Index] {
				kept = append(kept, it)
			}
		}
		rep.Kept = kept
	}

	return rep
}

// categoryConsistency returns the fraction of items whose parsed unit
// category agrees with the group's dominant category (§4.9): a group where
// every item parses to the same domain.Category is fully consistent even if
// it contains scale outliers, which outlierFreeFraction already penalizes
// separately.
func categoryConsistency(items []domain.IndexedObservation) float64 {
	if len(items) == 0 {
		return 1
	}
	counts := map[domain.Category]int{}
	for _, it := range items {
		counts[it.Unit.Category]++
	}
	dominant := 0
	for _, c := range counts {
		if c > dominant {
			dominant = c
		}
	}
	return float64(dominant) / float64(len(items))
}

func outlierFreeFraction(total, outliers int) float64 {
	if total == 0 {
		return 1
	}
	return 1 - float64(outliers)/float64(total)
}

func completenessScore(items []domain.IndexedObservation) float64 {
	complete := 0
	for _, it := range items {
		if it.Obs.Unit != "" && !math.IsNaN(it.Obs.Value) && !math.IsInf(it.Obs.Value, 0) {
			complete++
		}
	}
	return float64(complete) / float64(len(items))
}

// magnitudeOrders returns floor(log10(|value|)) for every item with a
// nonzero, finite value, paired with the item's original index. Using the
// integer order of magnitude (rather than the continuous log10) is what
// lets DominantMagnitude read as a plain "10^3-ish" label comparable across
// an indicator group (§8 scenario 4, §9 Open Question iii).
func magnitudeOrders(items []domain.IndexedObservation) ([]int, []int) {
	var orders []int
	var idx []int
	for _, it := range items {
		v := it.Obs.Value
		if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		orders = append(orders, int(math.Floor(math.Log10(math.Abs(v)))))
		idx = append(idx, it.Index)
	}
	return orders, idx
}

func medianOrder(xs []int) int {
	if len(xs) == 0 {
		return 0
	}
	sorted := append([]int(nil), xs...)
	sort.Ints(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	// Even-length groups: average the two middle orders; int division
	// truncates toward zero, so a half rounds down for positive orders and
	// up for negative ones.
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// minMADFallbackGap is the order-of-magnitude gap from the dominant value
// that counts as an outlier when the group's MAD is zero (i.e. most items
// share one dominant order and the z-score formula is undefined) — a group
// tightly clustered at order 3 with one item at order 5 is still an
// outlier even though MAD-over-zero can't express it.
const minMADFallbackGap = 2

// detectOutliers flags indices whose MAD-based z-score exceeds 3 (the
// standard 0.6745 consistency constant makes MAD comparable to a normal
// distribution's standard deviation). When the group's MAD is zero —
// nearly every item shares the dominant order — it falls back to flagging
// any item at least minMADFallbackGap orders away from the dominant one.
func detectOutliers(orders []int, idx []int, dominant int) map[int]bool {
	deviations := make([]float64, len(orders))
	for i, o := range orders {
		deviations[i] = math.Abs(float64(o - dominant))
	}
	mad := medianOf(deviations)
	out := map[int]bool{}
	if mad == 0 {
		for i, o := range orders {
			if gap := o - dominant; gap >= minMADFallbackGap || -gap >= minMADFallbackGap {
				out[idx[i]] = true
			}
		}
		return out
	}
	for i, o := range orders {
		z := 0.6745 * (float64(o-dominant)) / mad
		if math.Abs(z) > 3 {
			out[idx[i]] = true
		}
	}
	return out
}

func medianOf(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func sortedKeys(m map[int]bool) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
