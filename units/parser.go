package units

import (
	"strings"

	"github.com/tellimer/econify/domain"
)

// Parse tokenizes a free-form unit string into a domain.ParsedUnit. It never
// fails: an ambiguous or unrecognized string biases toward
// domain.CategoryUnknown rather than erroring (§4.1 failure semantics).
func Parse(unit string) domain.ParsedUnit {
	original := unit
	trimmed := strings.TrimSpace(unit)

	out := domain.ParsedUnit{Original: original, Category: domain.CategoryUnknown}

	if trimmed == "" {
		return out
	}

	// 1. Currency-code detection (word-boundary match against the closed set).
	if code := matchCurrency(trimmed); code != "" {
		out.Currency = code
		out.Category = domain.CategoryCurrency
	}

	// 2. Magnitude pattern match, skipping compound physical forms.
	if !compoundPhysicalMagnitudeSkip.MatchString(trimmed) {
		if mag, ok := matchMagnitude(trimmed); ok {
			out.Magnitude = mag
		}
	} else if mag, ok := matchMagnitude(trimmed); ok {
		// Still record the magnitude (e.g. "thousand tonnes" wants
		// Magnitude=thousands) but category resolution below continues to
		// the physical/commodity tables rather than stopping at "count".
		out.Magnitude = mag
	}

	// 3. Time pattern match.
	if ts, ok := matchTime(trimmed); ok {
		out.Time = ts
	}

	// 4. Percentage overrides everything else.
	if percentagePattern.MatchString(trimmed) {
		out.Category = domain.CategoryPercentage
		return finalize(out)
	}

	// 5. Energy.
	if energyPattern.MatchString(trimmed) {
		out.Category = domain.CategoryEnergy
		return finalize(out)
	}

	// 6. Ratio detection: "CUR/<denominator>" or "<x> per <y>".
	if m := ratioPattern.FindStringSubmatch(trimmed); m != nil {
		numerator, denominator := m[1], strings.TrimSpace(m[2])
		out.Category = domain.CategoryComposite
		out.IsComposite = true
		if out.Components == nil {
			out.Components = map[string]string{}
		}
		out.Components["numerator"] = numerator
		out.Components["denominator"] = denominator
		if code := matchCurrency(numerator); code != "" {
			out.Currency = code
			// A ratio with a currency numerator marks the unit composite
			// (already set above); if the denominator is itself a
			// recognized time token, this is a monetary-flow form like
			// "USD per month" rather than a guarded physical ratio.
			if ts, ok := matchTime(denominator); ok {
				out.Time = ts
				return finalize(out)
			}
		}
		return finalize(out)
	}

	// 7. Physical/commodity/agriculture/metals/crypto/index/count, in
	// specificity order (most specific domain pack first).
	switch {
	case commodityPattern.MatchString(trimmed):
		out.Category = domain.CategoryPhysical
		annotateComponent(&out, "domainPack", "commodity")
	case metalsPattern.MatchString(trimmed):
		out.Category = domain.CategoryPhysical
		annotateComponent(&out, "domainPack", "metals")
	case agriculturePattern.MatchString(trimmed):
		out.Category = domain.CategoryPhysical
		annotateComponent(&out, "domainPack", "agriculture")
	case cryptoPattern.MatchString(trimmed):
		out.Category = domain.CategoryPhysical
		annotateComponent(&out, "domainPack", "crypto")
	case temperaturePattern.MatchString(trimmed):
		out.Category = domain.CategoryTemperature
	case populationPattern.MatchString(trimmed):
		out.Category = domain.CategoryPopulation
	case indexPattern.MatchString(trimmed):
		out.Category = domain.CategoryIndex
	case countPattern.MatchString(trimmed):
		out.Category = domain.CategoryCount
	case physicalPattern.MatchString(trimmed):
		out.Category = domain.CategoryPhysical
	}

	// 8. Explicit currency + time token => composite (flow).
	if out.Currency != "" && out.Time != domain.TimeUnspecified {
		out.IsComposite = true
		if out.Category == domain.CategoryUnknown {
			out.Category = domain.CategoryComposite
		}
	}

	return finalize(out)
}

func annotateComponent(u *domain.ParsedUnit, key, value string) {
	if u.Components == nil {
		u.Components = map[string]string{}
	}
	u.Components[key] = value
}

func finalize(u domain.ParsedUnit) domain.ParsedUnit {
	if u.Magnitude == domain.MagnitudeUnspecified {
		// An empty/unrecognized magnitude result maps to raw-units only
		// when the unit otherwise implies a scaled quantity (currency,
		// count or composite); leave unset for categories where magnitude is
		// meaningless (percentage, index, time, unknown).
		switch u.Category {
		case domain.CategoryCurrency, domain.CategoryCount, domain.CategoryComposite:
			u.Magnitude = domain.MagnitudeRaw
		}
	}
	return u
}

func matchCurrency(s string) string {
	for _, m := range currencyWordPattern.FindAllString(s, -1) {
		if CurrencyCodes[m] {
			return m
		}
	}
	return ""
}

func matchMagnitude(s string) (domain.Magnitude, bool) {
	for _, e := range magnitudeTable {
		if e.pattern.MatchString(s) {
			return e.value, true
		}
	}
	return domain.MagnitudeUnspecified, false
}

func matchTime(s string) (domain.TimeScale, bool) {
	for _, e := range timeTable {
		if e.pattern.MatchString(s) {
			return e.value, true
		}
	}
	return domain.TimeUnspecified, false
}

// EffectiveMagnitude extracts the magnitude that should govern an
// observation: the explicit scale field, if present, else the unit
// parser's inference (§4.1 "helper extracts effective magnitude from the
// explicit scale field when present, overriding the unit-string inference").
func EffectiveMagnitude(explicitScale string, parsed domain.ParsedUnit) (domain.Magnitude, bool) {
	if m, ok := domain.NormalizeMagnitudeToken(explicitScale); ok {
		return m, true
	}
	if parsed.Magnitude != domain.MagnitudeUnspecified {
		return parsed.Magnitude, true
	}
	return domain.MagnitudeUnspecified, false
}

// EffectiveTime extracts the source time basis for per-item conversion:
// unit time token wins over item.periodicity (§3 invariant iv, §4.4).
func EffectiveTime(parsed domain.ParsedUnit, explicitPeriodicity string) (domain.TimeScale, bool) {
	if parsed.Time != domain.TimeUnspecified {
		return parsed.Time, true
	}
	if ts, ok := domain.NormalizeTimeToken(explicitPeriodicity); ok {
		return ts, true
	}
	return domain.TimeUnspecified, false
}

// EffectiveCurrency extracts the source currency: explicit field wins over
// unit-parser inference, matching the override rule in §3.
func EffectiveCurrency(explicitCurrency string, parsed domain.ParsedUnit) (string, bool) {
	if explicitCurrency != "" {
		return domain.CanonicalCurrency(explicitCurrency), true
	}
	if parsed.Currency != "" {
		return parsed.Currency, true
	}
	return "", false
}
