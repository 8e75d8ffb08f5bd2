package units

import "github.com/tellimer/econify/domain"

// InferUnit derives a best-guess unit string from an observation's
// description and name when Unit itself is empty (§6's inferUnits
// configuration knob). It reuses the same pattern tables Parse consults
// rather than a separate heuristic, so an inferred unit parses the same way
// a caller-supplied one would.
//
// value is consulted only as a last-resort signal: a bare numeric value
// carries far less evidence than an explicit currency code or "%" in the
// description, so it never clears the 0.7 confidence threshold on its own
// (§6: "accepting the inference at confidence > 0.7").
func InferUnit(name, description string, value float64) (unit string, confidence float64) {
	for _, text := range []string{description, name} {
		if text == "" {
			continue
		}
		if percentagePattern.MatchString(text) {
			return "%", 0.9
		}
		if code := matchCurrency(text); code != "" {
			if mag, ok := matchMagnitude(text); ok {
				return code + " " + magnitudeWord(mag), 0.9
			}
			return code, 0.75
		}
		if indexPattern.MatchString(text) {
			return "Index Points", 0.75
		}
	}
	// Weak fallback: any nonzero value with no textual evidence yields no
	// unit at confidence 0.3, below the acceptance threshold.
	if value != 0 {
		return "", 0.3
	}
	return "", 0
}

func magnitudeWord(m domain.Magnitude) string {
	switch m {
	case domain.MagnitudeHundreds:
		return "Hundred"
	case domain.MagnitudeThousands:
		return "Thousand"
	case domain.MagnitudeMillions:
		return "Million"
	case domain.MagnitudeBillions:
		return "Billion"
	case domain.MagnitudeTrillions:
		return "Trillion"
	default:
		return ""
	}
}
