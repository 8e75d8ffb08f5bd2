package domain

// ParsedUnit is the deterministic output of the unit parser (§4.1). It
// never carries an error: an unrecognized string simply yields
// Category == CategoryUnknown.
type ParsedUnit struct {
	Original string `json:"original"`

	Category Category `json:"category"`

	Currency  string    `json:"currency,omitempty"`
	Magnitude Magnitude `json:"magnitude,omitempty"`
	Time      TimeScale `json:"time,omitempty"`

	// IsComposite is true for compound units such as "USD/Liter" or
	// "USD per month".
	IsComposite bool `json:"isComposite"`

	// Components is a machine-readable breakdown for consumers that want
	// more than the headline fields, e.g. a ratio's denominator unit.
	Components map[string]string `json:"components,omitempty"`
}

// Bucket pairs a domain key with the ordered set of observations routed to
// it, tagged with their original input index so parallel per-bucket
// processing can still reassemble output in input order (§5, §9).
type Bucket struct {
	Key          BucketKey
	Observations []IndexedObservation
}

// IndexedObservation tags an Observation with its position in the original
// input slice.
type IndexedObservation struct {
	Index int
	Obs   Observation
	Unit  ParsedUnit
}
