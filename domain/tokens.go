package domain

import "strings"

// CanonicalIndicatorKey lowercases and trims name for indicator grouping
// (§3's AutoTargetSelection.indicatorKey, §4.3's default indicatorKey="name").
func CanonicalIndicatorKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// CanonicalCurrency upper-cases a currency code for share-map keys (§3
// invariant vi).
func CanonicalCurrency(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

var periodicityAliases = map[string]TimeScale{
	"hour":      TimeHour,
	"hourly":    TimeHour,
	"day":       TimeDay,
	"daily":     TimeDay,
	"week":      TimeWeek,
	"weekly":    TimeWeek,
	"month":     TimeMonth,
	"monthly":   TimeMonth,
	"quarter":   TimeQuarter,
	"quarterly": TimeQuarter,
	"year":      TimeYear,
	"yearly":    TimeYear,
	"annual":    TimeYear,
	"annually":  TimeYear,
}

// NormalizeTimeToken maps a free-form periodicity string (explicit field or
// unit-parser token) to a canonical TimeScale.
func NormalizeTimeToken(s string) (TimeScale, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return TimeUnspecified, false
	}
	ts, ok := periodicityAliases[key]
	return ts, ok
}

var magnitudeAliases = map[string]Magnitude{
	"raw-units":  MagnitudeRaw,
	"ones":       MagnitudeRaw,
	"units":      MagnitudeRaw,
	"raw":        MagnitudeRaw,
	"hundred":    MagnitudeHundreds,
	"hundreds":   MagnitudeHundreds,
	"thousand":   MagnitudeThousands,
	"thousands":  MagnitudeThousands,
	"million":    MagnitudeMillions,
	"millions":   MagnitudeMillions,
	"billion":    MagnitudeBillions,
	"billions":   MagnitudeBillions,
	"trillion":   MagnitudeTrillions,
	"trillions":  MagnitudeTrillions,
}

// NormalizeMagnitudeToken maps a free-form scale string (explicit field or
// unit-parser token) to a canonical Magnitude.
func NormalizeMagnitudeToken(s string) (Magnitude, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return MagnitudeUnspecified, false
	}
	m, ok := magnitudeAliases[key]
	return m, ok
}
