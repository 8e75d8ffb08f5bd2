// Package packs holds the pluggable domain-pack pattern tables mentioned in
// spec.md §5/§9: emissions, commodities, agriculture, metals. Each pack is a
// plain Go data structure registered once at module initialization via
// init(), never a dynamically loaded plugin — per the DESIGN NOTES'
// "pattern tables, not code paths" guidance, new packs are added by
// appending a registration, not by editing units.Parse or classify's
// control flow. (SPEC_FULL.md explains why this stays plain-Go rather than
// a wazero-hosted WASM extension: there is no real .wasm artifact for this
// exercise to load, and fabricating one would defeat the point of grounding
// every dependency in something it actually does.)
package packs

import "regexp"

// Pack is a named collection of regex token matchers contributing to unit
// classification (see classify.Classify, which consults Match() when
// routing a commodity/agriculture/metals/emissions unit string).
type Pack struct {
	Name     string
	Patterns []*regexp.Regexp
}

var registry []Pack

// Register adds a pack to the module-wide registry. Intended to be called
// from init() only; the registry is read-only once Parse/Classify begin
// running (§5 "loaded once at module initialization; they are read-only
// thereafter").
func Register(p Pack) {
	registry = append(registry, p)
}

// Registered returns the full set of registered domain packs.
func Registered() []Pack {
	return registry
}

func init() {
	Register(Pack{
		Name: "emissions",
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(tCO2e?|ktCO2e?|MtCO2e?|co2|ghg)\b`),
		},
	})
	Register(Pack{
		Name: "commodities",
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(barrels?|bbl|crude|wti|brent|natgas|lng)\b`),
		},
	})
	Register(Pack{
		Name: "agriculture",
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(bushels?|hectares?|metric\s+tons?\s+of\s+(wheat|corn|soy|rice|coffee|cotton))\b`),
		},
	})
	Register(Pack{
		Name: "metals",
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(copper|silver|gold|steel|aluminum|aluminium|zinc|nickel|lead|tin)\b`),
		},
	})
}

// Match returns the name of the first registered pack whose pattern matches
// s, or "" if none match.
func Match(s string) string {
	for _, p := range registry {
		for _, re := range p.Patterns {
			if re.MatchString(s) {
				return p.Name
			}
		}
	}
	return ""
}
