package domain

import "time"

// FXSourceKind distinguishes where a resolved FXTable came from (§4.10).
type FXSourceKind string

const (
	FXSourceLive     FXSourceKind = "live"
	FXSourceFallback FXSourceKind = "fallback"
)

// FXTable maps currency code to "units of code per 1 Base currency" (§3).
type FXTable struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`

	Source   FXSourceKind `json:"source"`
	SourceID string       `json:"sourceId"`
	AsOf     time.Time    `json:"asOf"`
}

// Rate returns the units-per-base rate for code, and ok=false if absent.
func (t FXTable) Rate(code string) (float64, bool) {
	if t.Rates == nil {
		return 0, false
	}
	r, ok := t.Rates[code]
	return r, ok
}

// DefaultSourceID returns the conventional source id for kind (§4.10):
// "ECB" for live, "SNP" for fallback.
func DefaultSourceID(kind FXSourceKind) string {
	switch kind {
	case FXSourceLive:
		return "ECB"
	case FXSourceFallback:
		return "SNP"
	default:
		return ""
	}
}
