// Package domain holds the data model shared across every Econify stage:
// the Observation carried end to end, the parser's ParsedUnit, domain
// Buckets, auto-target selections, FX tables and the Explain provenance
// record.
package domain

import "time"

// Magnitude is a decimal order-of-magnitude label from the closed set the
// normalizer understands. The zero value is MagnitudeUnspecified, distinct
// from MagnitudeRaw so callers can tell "not set" from "explicitly ones".
type Magnitude string

const (
	MagnitudeUnspecified Magnitude = ""
	MagnitudeRaw         Magnitude = "raw-units"
	MagnitudeHundreds    Magnitude = "hundreds"
	MagnitudeThousands   Magnitude = "thousands"
	MagnitudeMillions    Magnitude = "millions"
	MagnitudeBillions    Magnitude = "billions"
	MagnitudeTrillions   Magnitude = "trillions"
)

// magnitudeOrder is the canonical magnitude enumeration, smallest first
// (§4.5): each step differs by 10^3 except raw->hundreds which is 10^2, and
// hundreds->thousands which is 10^1. Scale conversion (normalize.ScaleFactor)
// uses the exponents in magnitudeExponent10, not positions in this slice.
var magnitudeOrder = []Magnitude{
	MagnitudeRaw,
	MagnitudeHundreds,
	MagnitudeThousands,
	MagnitudeMillions,
	MagnitudeBillions,
	MagnitudeTrillions,
}

// magnitudeExponent10 gives the power-of-ten multiplier for one unit of the
// given magnitude, e.g. a value tagged "millions" of 3 means 3e6 raw units.
var magnitudeExponent10 = map[Magnitude]int{
	MagnitudeRaw:       0,
	MagnitudeHundreds:  2,
	MagnitudeThousands: 3,
	MagnitudeMillions:  6,
	MagnitudeBillions:  9,
	MagnitudeTrillions: 12,
}

// MagnitudeExponent returns the power-of-ten multiplier for m, and ok=false
// for an unrecognized or unspecified magnitude.
func MagnitudeExponent(m Magnitude) (int, bool) {
	e, ok := magnitudeExponent10[m]
	return e, ok
}

// MagnitudeIndex returns m's position in the canonical magnitude
// enumeration (raw-units first, trillions last).
func MagnitudeIndex(m Magnitude) (int, bool) {
	for i, v := range magnitudeOrder {
		if v == m {
			return i, true
		}
	}
	return 0, false
}

// TimeScale qualifies a monetary flow's periodicity.
type TimeScale string

const (
	TimeUnspecified TimeScale = ""
	TimeHour        TimeScale = "hour"
	TimeDay         TimeScale = "day"
	TimeWeek        TimeScale = "week"
	TimeMonth       TimeScale = "month"
	TimeQuarter     TimeScale = "quarter"
	TimeYear        TimeScale = "year"
)

// Canonical seconds-per-unit constants (§4.5). Month is derived from week
// via 52/12, not calendar days — this is the "general time converter" basis,
// distinct from the wages path's 730-hours/month constant (see
// normalize/wages.go and DESIGN.md's open-question writeup).
const (
	SecondsPerHour  = 3600.0
	SecondsPerDay   = 86400.0
	SecondsPerWeek  = 7 * SecondsPerDay
	SecondsPerMonth = (52.0 / 12.0) * SecondsPerWeek
	SecondsPerQtr   = 3 * SecondsPerMonth
	SecondsPerYear  = 12 * SecondsPerMonth
)

var timeSecondsPerUnit = map[TimeScale]float64{
	TimeHour:    SecondsPerHour,
	TimeDay:     SecondsPerDay,
	TimeWeek:    SecondsPerWeek,
	TimeMonth:   SecondsPerMonth,
	TimeQuarter: SecondsPerQtr,
	TimeYear:    SecondsPerYear,
}

// TimeSecondsPerUnit returns the canonical seconds-per-unit constant for t.
func TimeSecondsPerUnit(t TimeScale) (float64, bool) {
	s, ok := timeSecondsPerUnit[t]
	return s, ok
}

// Category is the unit parser's classification of a single unit string.
type Category string

const (
	CategoryCurrency    Category = "currency"
	CategoryPercentage  Category = "percentage"
	CategoryIndex       Category = "index"
	CategoryPhysical    Category = "physical"
	CategoryEnergy      Category = "energy"
	CategoryTemperature Category = "temperature"
	CategoryPopulation  Category = "population"
	CategoryCount       Category = "count"
	CategoryRate        Category = "rate"
	CategoryTime        Category = "time"
	CategoryComposite   Category = "composite"
	CategoryUnknown     Category = "unknown"
)

// BucketKey identifies the domain a classified Observation was routed to.
type BucketKey string

const (
	BucketMonetaryFlow  BucketKey = "monetaryFlow"
	BucketMonetaryStock BucketKey = "monetaryStock"
	BucketCounts        BucketKey = "counts"
	BucketPercentages   BucketKey = "percentages"
	BucketIndices       BucketKey = "indices"
	BucketEnergy        BucketKey = "energy"
	BucketCommodities   BucketKey = "commodities"
	BucketAgriculture   BucketKey = "agriculture"
	BucketMetals        BucketKey = "metals"
	BucketCrypto        BucketKey = "crypto"
	BucketRatios        BucketKey = "ratios"
	BucketWages         BucketKey = "wages"
	BucketExempt        BucketKey = "exempt"
	BucketUnknown       BucketKey = "unknown"
)

// PassthroughBuckets lists domains whose items are never value-normalized
// (§4.8, invariant ii).
var PassthroughBuckets = map[BucketKey]bool{
	BucketPercentages: true,
	BucketIndices:     true,
	BucketEnergy:      true,
	BucketCommodities: true,
	BucketAgriculture: true,
	BucketMetals:      true,
	BucketCrypto:      true,
	BucketRatios:      true,
}

// Observation is the (value, unit, metadata) carrier that flows through the
// whole pipeline, end to end. Fields are additive: the normalizer only ever
// fills in Normalized*/Explain, never mutates the original Value/Unit.
type Observation struct {
	// ID may be a string or an integer in the caller's world; Go callers
	// supply whichever they have, so it is carried as an any and never
	// interpreted by the core.
	ID any `json:"id,omitempty" validate:"omitempty"`

	Value float64 `json:"value" validate:"required"`
	Unit  string  `json:"unit"`

	// Explicit metadata. When present these always override unit-string
	// inference (§3).
	Periodicity      string `json:"periodicity,omitempty"`
	Scale            string `json:"scale,omitempty"`
	ExplicitCurrency string `json:"currency,omitempty"`

	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`

	// Date may be an ISO string or a timestamp; carried opaquely like ID.
	Date any  `json:"date,omitempty"`
	Year int  `json:"year,omitempty"`

	Metadata map[string]any `json:"metadata,omitempty"`

	// Populated by the normalizer.
	NormalizedValue         *float64 `json:"normalizedValue,omitempty"`
	NormalizedUnit          string   `json:"normalizedUnit,omitempty"`
	RealValue               *float64 `json:"realValue,omitempty"`
	SeasonallyAdjustedValue *float64 `json:"seasonallyAdjustedValue,omitempty"`
	Explain                 *Explain `json:"explain,omitempty"`
}

// EffectiveCurrency returns the explicit currency if set, else the empty
// string (callers fall back to the unit parser's inferred code).
func (o Observation) EffectiveCurrency() string {
	return o.ExplicitCurrency
}

// EffectivePeriodicity normalizes o.Periodicity to a TimeScale, returning
// ("", false) when absent or unrecognized.
func (o Observation) EffectivePeriodicity() (TimeScale, bool) {
	return NormalizeTimeToken(o.Periodicity)
}

// EffectiveScale normalizes o.Scale (the explicit field) to a Magnitude.
func (o Observation) EffectiveScale() (Magnitude, bool) {
	return NormalizeMagnitudeToken(o.Scale)
}

// IndicatorKey computes the default grouping key for auto-target selection
// and per-indicator processing: lowercased, trimmed Name.
func (o Observation) IndicatorKey() string {
	return CanonicalIndicatorKey(o.Name)
}

// CloneForOutput returns a shallow copy safe for independent mutation by a
// parallel worker — the input Observation is never mutated in place.
func (o Observation) CloneForOutput() Observation {
	out := o
	if o.NormalizedValue != nil {
		v := *o.NormalizedValue
		out.NormalizedValue = &v
	}
	if o.RealValue != nil {
		v := *o.RealValue
		out.RealValue = &v
	}
	if o.SeasonallyAdjustedValue != nil {
		v := *o.SeasonallyAdjustedValue
		out.SeasonallyAdjustedValue = &v
	}
	if o.Explain != nil {
		e := *o.Explain
		out.Explain = &e
	}
	return out
}

// ProcessingTimestamp is the timestamp type used by metrics; kept distinct
// from time.Time in the data model proper since Observation.Date is caller
// opaque.
type ProcessingTimestamp = time.Time
