// Package autotarget implements the per-indicator auto-target selector
// (spec §4.3): majority-vote currency/magnitude/time selection with
// configurable tie-breakers, grounded in the teacher's config-struct +
// Name()-style transformer shape (src/compute/fx_transformer.go,
// time_intelligence_transformer.go).
package autotarget

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tellimer/econify/domain"
	"github.com/tellimer/econify/units"
)

// Dimension is one of the three axes the selector can resolve.
type Dimension string

const (
	DimensionCurrency  Dimension = "currency"
	DimensionMagnitude Dimension = "magnitude"
	DimensionTime      Dimension = "time"
)

// TieBreakers configures the per-dimension fallback rule when no token
// reaches the majority threshold (§4.3).
type TieBreakers struct {
	Currency  string // "prefer-targetCurrency" | "prefer-USD"
	Magnitude string // "prefer-millions"
	Time      string // "prefer-month"
}

// DefaultTieBreakers returns the spec's documented defaults.
func DefaultTieBreakers() TieBreakers {
	return TieBreakers{
		Currency:  "prefer-targetCurrency",
		Magnitude: "prefer-millions",
		Time:      "prefer-month",
	}
}

// Config bundles the selector's tunables.
type Config struct {
	Dimensions       []Dimension
	MinMajorityShare float64 // default 0.5
	TieBreakers      TieBreakers
	TargetCurrency   string

	AllowList []string
	DenyList  []string
}

// DefaultConfig returns the spec's documented defaults.
func DefaultConfig() Config {
	return Config{
		Dimensions:       []Dimension{DimensionCurrency, DimensionMagnitude, DimensionTime},
		MinMajorityShare: 0.5,
		TieBreakers:      DefaultTieBreakers(),
	}
}

// Allowed reports whether indicatorKey should be auto-targeted at all,
// honoring the allow/deny gating lists (§4.3 "Gating").
func (c Config) Allowed(indicatorKey string) bool {
	if len(c.AllowList) > 0 {
		for _, k := range c.AllowList {
			if k == indicatorKey {
				return true
			}
		}
		return false
	}
	for _, k := range c.DenyList {
		if k == indicatorKey {
			return false
		}
	}
	return true
}

// Select computes the AutoTargetSelection for one indicator group (a set of
// observations already known to share an indicator key).
func Select(indicatorKey string, items []domain.IndexedObservation, cfg Config) domain.AutoTargetSelection {
	sel := domain.AutoTargetSelection{IndicatorKey: indicatorKey}

	var reasonParts []string
	dims := cfg.Dimensions
	if len(dims) == 0 {
		dims = DefaultConfig().Dimensions
	}

	for _, d := range dims {
		switch d {
		case DimensionCurrency:
			tokens := currencyTokens(items)
			shares := computeShares(tokens)
			sel.CurrencyShares = shares
			winner, reason := resolve(shares, cfg.MinMajorityShare, currencyTieBreak(cfg))
			if winner != "" {
				sel.Selected.Currency = winner
			}
			if reason != "" {
				reasonParts = append(reasonParts, "currency="+reason)
			}
		case DimensionMagnitude:
			tokens := magnitudeTokens(items)
			shares := computeShares(tokens)
			sel.MagnitudeShares = shares
			rule := cfg.TieBreakers.Magnitude
			if rule == "" {
				rule = DefaultTieBreakers().Magnitude
			}
			winner, reason := resolve(shares, cfg.MinMajorityShare, func(shares domain.Shares) (string, string) {
				if hasShare(shares, "millions") {
					return "millions", rule
				}
				return "", ""
			})
			if winner != "" {
				sel.Selected.Magnitude = domain.Magnitude(winner)
			}
			if reason != "" {
				reasonParts = append(reasonParts, "magnitude="+reason)
			}
		case DimensionTime:
			tokens := timeTokens(items)
			shares := computeShares(tokens)
			sel.TimeShares = shares
			rule := cfg.TieBreakers.Time
			if rule == "" {
				rule = DefaultTieBreakers().Time
			}
			winner, reason := resolve(shares, cfg.MinMajorityShare, func(shares domain.Shares) (string, string) {
				if hasShare(shares, "month") {
					return "month", rule
				}
				return "", ""
			})
			if winner != "" {
				sel.Selected.Time = domain.TimeScale(winner)
			}
			if reason != "" {
				reasonParts = append(reasonParts, "time="+reason)
			}
		}
	}

	sel.Reason = strings.Join(reasonParts, "; ")
	return sel
}

// currencyTieBreak returns the tie-break winner alongside the configured
// rule name that fired (§4.3's "dim=tie-break(<rule>)" contract: the rule
// name, not the resolved currency code).
func currencyTieBreak(cfg Config) func(domain.Shares) (string, string) {
	return func(shares domain.Shares) (string, string) {
		if cfg.TargetCurrency != "" && hasShare(shares, domain.CanonicalCurrency(cfg.TargetCurrency)) {
			return domain.CanonicalCurrency(cfg.TargetCurrency), "prefer-targetCurrency"
		}
		if hasShare(shares, "USD") {
			return "USD", "prefer-USD"
		}
		return "", ""
	}
}

func hasShare(shares domain.Shares, key string) bool {
	_, ok := shares[key]
	return ok
}

// resolve returns the majority winner (share >= threshold) or, absent one,
// the tie-breaker's pick; the reason string documents which happened. tieBreak
// returns both the picked token and the configured rule name that picked it
// (e.g. "prefer-targetCurrency"), since the two can differ (§4.3's
// "dim=tie-break(<rule>)" contract names the rule, not the resolved value).
func resolve(shares domain.Shares, threshold float64, tieBreak func(domain.Shares) (string, string)) (string, string) {
	if len(shares) == 0 {
		return "", ""
	}

	// Deterministic iteration for tie-stable majority detection.
	keys := make([]string, 0, len(shares))
	for k := range shares {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if shares[k] >= threshold {
			return k, fmt.Sprintf("majority(%s=%s)", k, formatShare(shares[k]))
		}
	}

	if pick, rule := tieBreak(shares); pick != "" {
		return pick, fmt.Sprintf("tie-break(%s)", rule)
	}
	return "", ""
}

// formatShare renders a share fraction with the minimal decimal digits that
// keep at least one (so 1.0 stays "1.0", matching §8's "majority(<code>=1.0)"
// invariant, while 0.666... renders as "0.6667").
func formatShare(v float64) string {
	s := fmt.Sprintf("%.4f", v)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func computeShares(tokens []string) domain.Shares {
	if len(tokens) == 0 {
		return nil
	}
	counts := map[string]int{}
	for _, t := range tokens {
		counts[t]++
	}
	shares := make(domain.Shares, len(counts))
	total := float64(len(tokens))
	for k, c := range counts {
		shares[k] = float64(c) / total
	}
	return shares
}

func currencyTokens(items []domain.IndexedObservation) []string {
	var out []string
	for _, it := range items {
		if code, ok := units.EffectiveCurrency(it.Obs.ExplicitCurrency, it.Unit); ok {
			out = append(out, code)
		}
	}
	return out
}

func magnitudeTokens(items []domain.IndexedObservation) []string {
	var out []string
	for _, it := range items {
		if m, ok := units.EffectiveMagnitude(it.Obs.Scale, it.Unit); ok {
			out = append(out, string(m))
		}
	}
	return out
}

// timeTokens implements §4.4's "auto-target selector uses the same
// precedence but excludes 'none' items from share computation": unit time
// token OR item.periodicity, normalized, with absent tokens excluded.
func timeTokens(items []domain.IndexedObservation) []string {
	var out []string
	for _, it := range items {
		if ts, ok := units.EffectiveTime(it.Unit, it.Obs.Periodicity); ok {
			out = append(out, string(ts))
		}
	}
	return out
}
