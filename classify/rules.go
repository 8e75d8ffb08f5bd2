// Package classify implements the domain classifier (spec §4.2): routing
// each parsed Observation into a domain.BucketKey using unit + name +
// metadata, honoring exemption and unit-override rules. Name heuristics are
// kept as plain word lists (data, not control flow) per the "pattern
// tables, not code paths" design note, mirroring the teacher's
// binding-table style in src/mapping/dimresolver.go.
package classify

import "strings"

var flowNameWords = []string{
	"wage", "wages", "salary", "salaries", "earning", "earnings",
	"compensation", "minimum wage",
	"export", "exports", "import", "imports", "revenue", "investment",
	"production", "sales", "balance of trade", "trade balance",
}

var wageNameWords = []string{
	"wage", "wages", "salary", "salaries", "earning", "earnings",
	"compensation", "minimum wage", "minimum-wage",
}

var stockNameWords = []string{
	"reserves", "reserve", "debt outstanding", "outstanding debt",
	"balance", "gdp", "market cap", "market capitalization",
	"money supply",
}

var countNameWords = []string{
	"registration", "registrations", "persons", "person", "dwelling",
	"dwellings", "arrivals", "tourists", "tourist",
}

func containsAny(haystack string, needles []string) bool {
	h := strings.ToLower(haystack)
	for _, n := range needles {
		if strings.Contains(h, n) {
			return true
		}
	}
	return false
}
