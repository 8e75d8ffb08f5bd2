// Package explain validates the provenance records normalize builds,
// enforcing the canonical Scale -> Currency -> Time step ordering invariant
// (§4.12) across every normalizer so a consumer can rely on
// ConversionExplain.Steps without re-sorting it.
package explain

import (
	"fmt"

	"github.com/tellimer/econify/domain"
)

// stepOrder ranks each step kind for the canonical ordering check.
var stepOrder = map[string]int{
	"scale":    0,
	"currency": 1,
	"time":     2,
}

// ValidateOrder reports an error if e.Conversion.Steps isn't in canonical
// Scale -> Currency -> Time order. A nil Explain or Conversion is valid
// (passthrough domains carry neither).
func ValidateOrder(e *domain.Explain) error {
	if e == nil || e.Conversion == nil {
		return nil
	}
	last := -1
	for _, step := range e.Conversion.Steps {
		rank, known := stepOrder[step.Kind]
		if !known {
			return fmt.Errorf("explain: unknown conversion step kind %q", step.Kind)
		}
		if rank < last {
			return fmt.Errorf("explain: conversion steps out of canonical order: %q follows a later step", step.Kind)
		}
		last = rank
	}
	return nil
}

// QualityWarnings appends per-item quality annotations onto an Explain
// record, preserving whatever quality-unrelated content is already there.
func QualityWarnings(e *domain.Explain, warnings []domain.QualityWarning) {
	if e == nil || len(warnings) == 0 {
		return
	}
	e.QualityWarnings = append(e.QualityWarnings, warnings...)
}
