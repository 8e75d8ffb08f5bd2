package domain

// ExplainVersion is the version tag stamped on every Explain record (§3,
// §4.12).
const ExplainVersion = "v2"

// Direction describes which way a conversion moved the value.
type Direction string

const (
	DirectionNone     Direction = "none"
	DirectionUpscale  Direction = "upscale"
	DirectionDownscale Direction = "downscale"
	DirectionUpsample Direction = "upsample"
	DirectionDownsample Direction = "downsample"
)

// CurrencyExplain records the original and normalized currency codes.
type CurrencyExplain struct {
	Original   string `json:"original,omitempty"`
	Normalized string `json:"normalized,omitempty"`
}

// FXExplain records the rate and provenance used for an FX conversion step.
type FXExplain struct {
	Currency string       `json:"currency"`
	Base     string       `json:"base"`
	Rate     float64      `json:"rate"`
	Source   FXSourceKind `json:"source"`
	SourceID string       `json:"sourceId"`
	AsOf     string       `json:"asOf"`
}

// MagnitudeExplain records the scale-conversion step.
type MagnitudeExplain struct {
	OriginalScale Magnitude `json:"originalScale,omitempty"`
	TargetScale   Magnitude `json:"targetScale,omitempty"`
	Factor        float64   `json:"factor"`
	Direction     Direction `json:"direction"`
	Description   string    `json:"description,omitempty"`
}

// PeriodicityExplain records the time-rescale step.
type PeriodicityExplain struct {
	Original    TimeScale `json:"original,omitempty"`
	Target      TimeScale `json:"target,omitempty"`
	Adjusted    bool      `json:"adjusted"`
	Factor      float64   `json:"factor"`
	Direction   Direction `json:"direction"`
	Description string    `json:"description,omitempty"`
}

// UnitsExplain records the before/after unit strings, short and full form.
type UnitsExplain struct {
	OriginalUnit       string `json:"originalUnit,omitempty"`
	NormalizedUnit     string `json:"normalizedUnit,omitempty"`
	OriginalFullUnit   string `json:"originalFullUnit,omitempty"`
	NormalizedFullUnit string `json:"normalizedFullUnit,omitempty"`
}

// ConversionStep is one entry in ConversionExplain.Steps, in canonical
// Scale -> Currency -> Time order (§4.12).
type ConversionStep struct {
	Kind        string  `json:"kind"` // "scale" | "currency" | "time"
	Factor      float64 `json:"factor"`
	Description string  `json:"description,omitempty"`
}

// ConversionExplain summarizes the full chain of factors applied.
type ConversionExplain struct {
	Summary     string            `json:"summary,omitempty"`
	TotalFactor float64           `json:"totalFactor"`
	Steps       []ConversionStep  `json:"steps,omitempty"`
}

// QualityWarning is a single per-item quality annotation, e.g. a detected
// scale outlier (§8 scenario 4).
type QualityWarning struct {
	Type    string         `json:"type"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// TargetSelectionExplain attaches the auto-target decision that drove an
// item's targets, when auto-target-by-indicator is active (§4.12).
type TargetSelectionExplain struct {
	Mode         string              `json:"mode"` // "auto-by-indicator"
	Selection    AutoTargetSelection `json:"selection"`
}

// Explain is the append-only, versioned provenance record attached to a
// normalized Observation (§3, §9). When explain output is requested
// (orchestrator.Options.ExplainOn), every non-passthrough conversion
// populates the corresponding sub-record;
// passthrough domains only set Domain and Note (§4.8, invariant ii/v).
type Explain struct {
	ExplainVersion string `json:"explainVersion"`

	Domain string `json:"domain,omitempty"`

	Currency *CurrencyExplain `json:"currency,omitempty"`
	FX       *FXExplain       `json:"fx,omitempty"`
	Magnitude *MagnitudeExplain `json:"magnitude,omitempty"`
	Periodicity *PeriodicityExplain `json:"periodicity,omitempty"`
	Units     *UnitsExplain     `json:"units,omitempty"`
	Conversion *ConversionExplain `json:"conversion,omitempty"`

	TargetSelection *TargetSelectionExplain `json:"targetSelection,omitempty"`

	QualityWarnings []QualityWarning `json:"qualityWarnings,omitempty"`

	Note string `json:"note,omitempty"`
}

// NewExplain returns an Explain stamped with the current explain version.
func NewExplain(domainName string) *Explain {
	return &Explain{ExplainVersion: ExplainVersion, Domain: domainName}
}
