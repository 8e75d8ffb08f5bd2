package classify

import (
	"fmt"
	"strings"
)

// ExemptionRules lists indicator ids, indicator names (case-insensitive
// substring), or category-group labels that pass an observation through the
// exempt bucket unchanged (§4.2).
type ExemptionRules struct {
	IndicatorIDs   []string
	IndicatorNames []string
	CategoryGroups []string
}

func (r ExemptionRules) matchesID(id any) bool {
	if id == nil {
		return false
	}
	s := fmt.Sprintf("%v", id)
	for _, want := range r.IndicatorIDs {
		if want == s {
			return true
		}
	}
	return false
}

func (r ExemptionRules) matchesName(name string) bool {
	lname := strings.ToLower(name)
	for _, want := range r.IndicatorNames {
		if strings.Contains(lname, strings.ToLower(want)) {
			return true
		}
	}
	return false
}

func (r ExemptionRules) matchesCategoryGroup(group string) bool {
	for _, want := range r.CategoryGroups {
		if strings.EqualFold(want, group) {
			return true
		}
	}
	return false
}

// UnitOverride rewrites an item's unit string (and clears its explicit
// scale) before classification — e.g. "Car Registrations" with unit
// "Thousand" overridden to "Units" with no scale (§4.2 "Unit overrides
// (special handling)"). Matching is case-insensitive on name or exact on
// id; applied strictly before parsing.
type UnitOverride struct {
	MatchID    string
	MatchName  string
	NewUnit    string
	ClearScale bool
}

func (u UnitOverride) matches(id any, name string) bool {
	if u.MatchID != "" {
		return id != nil && fmt.Sprintf("%v", id) == u.MatchID
	}
	if u.MatchName != "" {
		return strings.EqualFold(strings.TrimSpace(name), strings.TrimSpace(u.MatchName))
	}
	return false
}
