package classify

import (
	"github.com/tellimer/econify/domain"
	"github.com/tellimer/econify/units"
	"github.com/tellimer/econify/units/packs"
)

// Config bundles the exemption and unit-override rule sets §4.2 allows a
// caller to supply.
type Config struct {
	Exemptions   ExemptionRules
	UnitOverrides []UnitOverride
}

// bucketOrder fixes a deterministic iteration order over bucket keys so
// Classify's output slice is stable across runs.
var bucketOrder = []domain.BucketKey{
	domain.BucketMonetaryFlow,
	domain.BucketWages,
	domain.BucketMonetaryStock,
	domain.BucketCounts,
	domain.BucketPercentages,
	domain.BucketIndices,
	domain.BucketEnergy,
	domain.BucketCommodities,
	domain.BucketAgriculture,
	domain.BucketMetals,
	domain.BucketCrypto,
	domain.BucketRatios,
	domain.BucketExempt,
	domain.BucketUnknown,
}

// Classify applies unit overrides, parses every observation, then routes it
// to a domain.BucketKey, returning buckets in bucketOrder with each item
// tagged by its original input index (§4.2, §5, §9).
func Classify(obs []domain.Observation, cfg Config) []domain.Bucket {
	grouped := make(map[domain.BucketKey][]domain.IndexedObservation, len(bucketOrder))

	for i, o := range obs {
		applied := applyUnitOverride(o, cfg.UnitOverrides)

		parsed := units.Parse(applied.Unit)

		key := route(applied, parsed, cfg.Exemptions)

		grouped[key] = append(grouped[key], domain.IndexedObservation{
			Index: i,
			Obs:   applied,
			Unit:  parsed,
		})
	}

	out := make([]domain.Bucket, 0, len(bucketOrder))
	for _, k := range bucketOrder {
		if items, ok := grouped[k]; ok {
			out = append(out, domain.Bucket{Key: k, Observations: items})
		}
	}
	return out
}

func applyUnitOverride(o domain.Observation, overrides []UnitOverride) domain.Observation {
	for _, ov := range overrides {
		if ov.matches(o.ID, o.Name) {
			o.Unit = ov.NewUnit
			if ov.ClearScale {
				o.Scale = ""
			}
			return o
		}
	}
	return o
}

func route(o domain.Observation, p domain.ParsedUnit, ex ExemptionRules) domain.BucketKey {
	if ex.matchesID(o.ID) || ex.matchesName(o.Name) {
		return domain.BucketExempt
	}

	hasCurrency, currencyVal := effectiveCurrencyPresent(o, p)
	hasTime := effectiveTimePresent(o, p)

	isFlowByUnit := p.IsComposite && hasCurrency && p.Category == domain.CategoryComposite
	isFlowByExplicit := o.ExplicitCurrency != "" && o.Periodicity != ""
	isFlowByName := hasCurrency && containsAny(o.Name, flowNameWords)

	if ex.matchesCategoryGroup(string(domain.BucketExempt)) {
		return domain.BucketExempt
	}

	if isFlowByUnit || isFlowByExplicit || isFlowByName {
		if containsAny(o.Name, wageNameWords) {
			return domain.BucketWages
		}
		return domain.BucketMonetaryFlow
	}

	if hasCurrency && !hasTime && containsAny(o.Name, stockNameWords) {
		return domain.BucketMonetaryStock
	}

	switch p.Category {
	case domain.CategoryPercentage:
		return domain.BucketPercentages
	case domain.CategoryIndex:
		return domain.BucketIndices
	case domain.CategoryEnergy:
		return domain.BucketEnergy
	}

	if pack := packs.Match(p.Original); pack != "" {
		switch pack {
		case "metals":
			return domain.BucketMetals
		case "agriculture":
			return domain.BucketAgriculture
		case "commodities", "emissions":
			return domain.BucketCommodities
		}
	}

	if p.IsComposite && !hasCurrency {
		return domain.BucketRatios
	}
	if p.IsComposite && hasCurrency && !hasTime {
		// Currency numerator over a non-time denominator, e.g. USD/Liter.
		return domain.BucketRatios
	}

	if containsCryptoToken(p.Original) {
		return domain.BucketCrypto
	}

	if p.Category == domain.CategoryCount || p.Category == domain.CategoryPopulation ||
		containsAny(o.Name, countNameWords) {
		return domain.BucketCounts
	}

	if currencyVal != "" {
		// Currency present but none of the flow/stock name heuristics
		// matched: default a bare currency amount to monetary-stock, the
		// more conservative reading (§4.2 describes stock as the
		// currency-present/no-time/name-driven case, but an unnamed
		// currency figure with no time token is still best modeled as a
		// point-in-time amount rather than unknown).
		if !hasTime {
			return domain.BucketMonetaryStock
		}
		return domain.BucketMonetaryFlow
	}

	return domain.BucketUnknown
}

func effectiveCurrencyPresent(o domain.Observation, p domain.ParsedUnit) (bool, string) {
	if o.ExplicitCurrency != "" {
		return true, domain.CanonicalCurrency(o.ExplicitCurrency)
	}
	if p.Currency != "" {
		return true, p.Currency
	}
	return false, ""
}

func effectiveTimePresent(o domain.Observation, p domain.ParsedUnit) bool {
	if p.Time != domain.TimeUnspecified {
		return true
	}
	_, ok := domain.NormalizeTimeToken(o.Periodicity)
	return ok
}

func containsCryptoToken(s string) bool {
	for _, tok := range []string{"btc", "eth", "sol", "wei", "gwei", "satoshi"} {
		if containsAny(s, []string{tok}) {
			return true
		}
	}
	return false
}
