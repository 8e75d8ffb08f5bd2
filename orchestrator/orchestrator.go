// Package orchestrator sequences a full normalization run as an explicit
// tagged-variant state machine (spec §4.11): validate -> parse ->
// qualityAssess -> fetchRates -> normalize -> optional adjustments ->
// finalize, each transition reporting a canonical step name and a
// monotonic progress percentage. Grounded in the teacher's
// CurrencyResolverMetadata breaker + the storage package's tiered-cache
// state machines, which drive behavior off an explicit state field rather
// than nested callbacks.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/tellimer/econify/adjust"
	"github.com/tellimer/econify/autotarget"
	"github.com/tellimer/econify/classify"
	"github.com/tellimer/econify/domain"
	"github.com/tellimer/econify/explain"
	"github.com/tellimer/econify/fxsource"
	"github.com/tellimer/econify/normalize"
	"github.com/tellimer/econify/pkg/events"
	"github.com/tellimer/econify/pkg/telemetry"
	"github.com/tellimer/econify/quality"
	"github.com/tellimer/econify/units"
	"github.com/tellimer/econify/validate"
)

// State names the orchestrator's run states. They are also used verbatim
// as the Event.State value reported to OnProgress.
type State string

const (
	StateIdle           State = "idle"
	StateValidating     State = "validating"
	StateParsing        State = "parsing"
	StateQualityCheck   State = "qualityCheck"
	StateQualityReview  State = "qualityReview"
	StateFetchingRates  State = "fetchingRates"
	StateNormalizing    State = "normalizing"
	StateAdjusting      State = "adjusting"
	StateFinalizing     State = "finalizing"
	StateSuccess        State = "success"
	StateError          State = "error"
)

// progressPercent is the fixed, monotonic percentage reported for each
// state (§4.11).
var progressPercent = map[State]int{
	StateIdle:          0,
	StateValidating:    10,
	StateParsing:       20,
	StateQualityCheck:  30,
	StateQualityReview: 40,
	StateFetchingRates: 50,
	StateNormalizing:   60,
	StateAdjusting:     70,
	StateFinalizing:    90,
	StateSuccess:       100,
	StateError:         -1,
}

// Event is one state-transition notification.
type Event struct {
	RunID   string
	State   State
	Percent int
	Message string
}

// Options configures a single Run.
type Options struct {
	OnProgress func(Event)
	OnWarning  func(string)

	Timeout time.Duration // defaults to 15s

	ClassifyConfig   classify.Config
	AutoTargetConfig autotarget.Config
	QualityConfig    quality.Config
	WagesConfig      normalize.WagesConfig
	AdjustConfig     adjust.Config
	ValidateConfig   validate.Config

	// MinQualityScore aborts the run (qualityReview -> ABORT) when the
	// computed score falls below it. Zero disables the check.
	MinQualityScore int

	// InferUnits, when true, derives a missing Unit from Description/Name
	// (via units.InferUnit) before classification, accepting the inference
	// only at confidence > 0.7 (§6).
	InferUnits bool

	// IncludeWageMetadata, when true, attaches a wage-specific metadata
	// block (source periodicity, wages hours/month constant applied) onto
	// Explain.Note for observations routed to the wages bucket (§6).
	IncludeWageMetadata bool

	ExplainOn bool

	FX           *fxsource.Source
	BaseCurrency string
	Inflation    adjust.InflationAdjuster
	Seasonal     adjust.SeasonalAdjuster

	// EventBus, when set, receives a progress/warning Envelope for every
	// emitted state transition and warning alongside OnProgress/OnWarning.
	EventBus events.Bus

	// ManualTargets, when non-nil, overrides auto-target selection for
	// every indicator group with a fixed triple.
	ManualTargets *normalize.Target
}

// Metrics summarizes one run.
type Metrics struct {
	ProcessingTime   time.Duration
	RecordsProcessed int
	RecordsFailed    int
}

// Report is the outcome of a Run.
type Report struct {
	RunID                       string
	Data                        []domain.Observation
	Warnings                    []string
	Errors                      []string
	QualityScore                *int
	Outliers                    []domain.Observation
	TargetSelectionsByIndicator map[string]domain.AutoTargetSelection
	Metrics                     Metrics
}

// Run executes the full pipeline over obs and returns a Report. Run never
// returns a non-nil error for per-item problems — those become
// Report.Errors/Warnings — only for a fatal setup failure (e.g. the
// configured timeout elapsing before finalizing).
func Run(ctx context.Context, obs []domain.Observation, opts Options) (Report, error) {
	start := time.Now()
	runID := uuid.NewString()
	report := Report{RunID: runID, TargetSelectionsByIndicator: map[string]domain.AutoTargetSelection{}}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	emit := func(s State, msg string) {
		_, span := telemetry.StartState(ctx, runID, string(s))
		span.End()
		if opts.OnProgress != nil {
			opts.OnProgress(Event{RunID: runID, State: s, Percent: progressPercent[s], Message: msg})
		}
		if opts.EventBus != nil {
			_ = opts.EventBus.Publish(ctx, events.Envelope{
				RunID: runID, Kind: events.KindProgress, State: string(s),
				Percent: progressPercent[s], Message: msg, Timestamp: time.Now().UnixNano(),
			})
		}
	}
	warn := func(msg string) {
		report.Warnings = append(report.Warnings, msg)
		if opts.OnWarning != nil {
			opts.OnWarning(msg)
		}
		if opts.EventBus != nil {
			_ = opts.EventBus.Publish(ctx, events.Envelope{
				RunID: runID, Kind: events.KindWarning, Message: msg, Timestamp: time.Now().UnixNano(),
			})
		}
	}

	emit(StateValidating, "validating input observations")
	if err := ctx.Err(); err != nil {
		emit(StateError, err.Error())
		return report, err
	}
	if len(obs) == 0 {
		report.Errors = append(report.Errors, "validation failed: no data")
		emit(StateError, "no observations to process")
		report.Metrics = Metrics{ProcessingTime: time.Since(start)}
		return report, errors.New("econify: no data")
	}
	vres := validate.ValidateEconomicData(obs, opts.ValidateConfig)
	if opts.ValidateConfig.ValidateSchema && !vres.Valid {
		for _, iss := range vres.Issues {
			report.Errors = append(report.Errors, fmt.Sprintf("observation %d: %s: %s", iss.Index, iss.Field, iss.Message))
		}
		emit(StateError, "schema validation failed")
		report.Metrics = Metrics{ProcessingTime: time.Since(start), RecordsFailed: len(obs)}
		return report, fmt.Errorf("econify: validation failed (%d issue(s))", len(vres.Issues))
	}
	for _, iss := range vres.Issues {
		warn(fmt.Sprintf("observation %d: %s: %s", iss.Index, iss.Field, iss.Message))
	}

	if opts.InferUnits {
		obs = inferMissingUnits(obs, warn)
	}

	emit(StateParsing, "classifying and parsing units")
	buckets := classify.Classify(obs, opts.ClassifyConfig)

	emit(StateQualityCheck, "assessing batch quality")
	overallScore := 100
	outlierIndexSet := map[int]bool{}
	qualityWarningsByIndex := map[int][]domain.QualityWarning{}
	if len(obs) > 0 {
		var weightedScore, totalItems int
		for _, b := range buckets {
			for _, sub := range splitByIndicator(b.Observations) {
				rep := quality.Assess(sub.items, opts.QualityConfig)
				weightedScore += rep.Score * len(sub.items)
				totalItems += len(sub.items)
				for _, i := range rep.OutlierIndices {
					outlierIndexSet[i] = true
				}
				for _, w := range rep.Warnings {
					warn(fmt.Sprintf("%s: %s", w.Type, w.Message))
					if idx, ok := w.Details["index"].(int); ok {
						qualityWarningsByIndex[idx] = append(qualityWarningsByIndex[idx], w)
					}
				}
			}
		}
		if totalItems > 0 {
			overallScore = int(math.Round(float64(weightedScore) / float64(totalItems)))
		}
		report.QualityScore = &overallScore
	}

	if opts.MinQualityScore > 0 && overallScore < opts.MinQualityScore {
		emit(StateQualityReview, fmt.Sprintf("quality score %d below minimum %d", overallScore, opts.MinQualityScore))
		report.Errors = append(report.Errors, fmt.Sprintf("aborted: quality score %d below configured minimum %d", overallScore, opts.MinQualityScore))
		emit(StateError, "aborted by quality review")
		report.Metrics = Metrics{ProcessingTime: time.Since(start), RecordsProcessed: 0, RecordsFailed: len(obs)}
		return report, nil
	}
	if overallScore < 100 {
		emit(StateQualityReview, fmt.Sprintf("quality score %d; continuing", overallScore))
	}

	var fx *domain.FXTable
	emit(StateFetchingRates, "resolving fx rates")
	if opts.FX != nil && opts.BaseCurrency != "" {
		if err := ctx.Err(); err != nil {
			emit(StateError, err.Error())
			return report, err
		}
		fxCtx, fxSpan := telemetry.StartFXFetch(ctx, opts.BaseCurrency)
		table, fxWarn, err := opts.FX.Resolve(fxCtx, opts.BaseCurrency, time.Now())
		telemetry.RecordOutcome(fxSpan, err)
		fxSpan.End()
		if err != nil {
			warn(fmt.Sprintf("fx resolution failed: %v; monetary conversions will skip the currency dimension", err))
		} else {
			fx = &table
			if fxWarn != "" {
				warn(fxWarn)
			}
		}
	}

	emit(StateNormalizing, "normalizing observations")
	out := make([]domain.Observation, len(obs))
	copy(out, obs)

	for _, b := range buckets {
		for _, sub := range splitByIndicator(b.Observations) {
			target := resolveTarget(sub.key, sub.items, opts)
			sel, hasSel := computeSelection(sub.key, sub.items, opts)
			if hasSel {
				report.TargetSelectionsByIndicator[sel.IndicatorKey] = sel
			}
			for _, item := range sub.items {
				normalizeOne(&out[item.Index], item, b.Key, target, fx, opts, sel, hasSel, warn)
			}
		}
	}

	// Attach per-item quality warnings (e.g. scale-outlier) onto the now
	// built Explain records, and set them aside into Report.Outliers
	// (§4.9, §8 scenario 4).
	for i := range out {
		if qw, ok := qualityWarningsByIndex[i]; ok && out[i].Explain != nil {
			explain.QualityWarnings(out[i].Explain, qw)
		}
	}

	emit(StateAdjusting, "applying optional adjustments")
	for i := range out {
		if out[i].NormalizedValue == nil {
			continue
		}
		res := adjust.Apply(ctx, out[i], opts.Inflation, opts.Seasonal, opts.AdjustConfig)
		for _, w := range res.Warnings {
			warn(w)
		}
		if res.RealValue != nil {
			out[i].RealValue = res.RealValue
		}
		if res.SeasonallyAdj != nil {
			out[i].SeasonallyAdjustedValue = res.SeasonallyAdj
			if out[i].Explain != nil {
				out[i].Explain.Note = appendNote(out[i].Explain.Note, fmt.Sprintf("seasonally adjusted to %g", *res.SeasonallyAdj))
			}
		}
	}

	emit(StateFinalizing, "finalizing report")
	for i, o := range out {
		if outlierIndexSet[i] {
			report.Outliers = append(report.Outliers, o)
		}
	}
	if opts.QualityConfig.FilterOutliers && len(outlierIndexSet) > 0 {
		filtered := make([]domain.Observation, 0, len(out)-len(outlierIndexSet))
		for i, o := range out {
			if !outlierIndexSet[i] {
				filtered = append(filtered, o)
			}
		}
		report.Data = filtered
	} else {
		report.Data = out
	}
	failed := 0
	for _, o := range out {
		if o.NormalizedValue == nil {
			failed++
		}
	}
	report.Metrics = Metrics{
		ProcessingTime:   time.Since(start),
		RecordsProcessed: len(out) - failed,
		RecordsFailed:    failed,
	}

	emit(StateSuccess, "done")
	return report, nil
}

// indicatorSubgroup is one indicator key's slice of a bucket's observations,
// in first-appearance order, so that auto-target selection and quality
// assessment (§4.3, §4.9) both operate per indicator group rather than per
// whole bucket.
type indicatorSubgroup struct {
	key   string
	items []domain.IndexedObservation
}

// splitByIndicator partitions items by IndicatorKey(), preserving the order
// each key was first seen and the relative order of items within a group.
func splitByIndicator(items []domain.IndexedObservation) []indicatorSubgroup {
	var order []string
	groups := map[string][]domain.IndexedObservation{}
	for _, it := range items {
		k := it.Obs.IndicatorKey()
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], it)
	}
	out := make([]indicatorSubgroup, 0, len(order))
	for _, k := range order {
		out = append(out, indicatorSubgroup{key: k, items: groups[k]})
	}
	return out
}

// inferMissingUnits fills in Unit for observations that arrived without one,
// using units.InferUnit against Description/Name/Value (§6's inferUnits
// knob). It never mutates the caller's input slice.
func inferMissingUnits(obs []domain.Observation, warn func(string)) []domain.Observation {
	out := make([]domain.Observation, len(obs))
	copy(out, obs)
	for i := range out {
		if out[i].Unit != "" {
			continue
		}
		unit, confidence := units.InferUnit(out[i].Name, out[i].Description, out[i].Value)
		if confidence > 0.7 {
			out[i].Unit = unit
			warn(fmt.Sprintf("observation %d: inferred unit %q from name/description (confidence %.2f)", i, unit, confidence))
		}
	}
	return out
}

func resolveTarget(indicatorKey string, items []domain.IndexedObservation, opts Options) normalize.Target {
	if opts.ManualTargets != nil {
		return *opts.ManualTargets
	}
	if len(items) == 0 {
		return normalize.Target{}
	}
	if !opts.AutoTargetConfig.Allowed(indicatorKey) {
		return normalize.Target{}
	}
	sel := autotarget.Select(indicatorKey, items, opts.AutoTargetConfig)
	return normalize.Target{Currency: sel.Selected.Currency, Magnitude: sel.Selected.Magnitude, Time: sel.Selected.Time}
}

func computeSelection(indicatorKey string, items []domain.IndexedObservation, opts Options) (domain.AutoTargetSelection, bool) {
	if opts.ManualTargets != nil || len(items) == 0 {
		return domain.AutoTargetSelection{}, false
	}
	if !opts.AutoTargetConfig.Allowed(indicatorKey) {
		return domain.AutoTargetSelection{}, false
	}
	sel := autotarget.Select(indicatorKey, items, opts.AutoTargetConfig)
	return sel, true
}

// appendNote joins additional Explain.Note text onto whatever the
// normalizer already wrote there (§4.12: Note is append-only free text, not
// a single-owner field).
func appendNote(existing, addition string) string {
	if existing == "" {
		return addition
	}
	return existing + "; " + addition
}

func normalizeOne(o *domain.Observation, item domain.IndexedObservation, bucket domain.BucketKey, target normalize.Target, fx *domain.FXTable, opts Options, sel domain.AutoTargetSelection, hasSel bool, warn func(string)) {
	var res normalize.Result
	var warnings []string

	switch bucket {
	case domain.BucketMonetaryFlow:
		res, warnings = normalize.MonetaryFlow(item, target, fx, opts.ExplainOn)
	case domain.BucketMonetaryStock:
		res, warnings = normalize.MonetaryStock(item, target, fx, opts.ExplainOn)
	case domain.BucketWages:
		var excluded bool
		res, warnings, excluded = normalize.Wages(item, target.Currency, fx, opts.ExplainOn, opts.WagesConfig)
		if excluded {
			warn(fmt.Sprintf("observation %d: excluded from wages normalization (index value)", item.Index))
			return
		}
		if opts.IncludeWageMetadata && opts.ExplainOn && res.Explain != nil {
			srcTime, _ := units.EffectiveTime(item.Unit, item.Obs.Periodicity)
			res.Explain.Note = appendNote(res.Explain.Note, fmt.Sprintf(
				"wage metadata: source periodicity=%s, hours-per-month constant=%.1f", srcTime, normalize.HoursPerMonthWages))
		}
	case domain.BucketCounts:
		res, warnings = normalize.Counts(item, opts.ExplainOn)
	default:
		res = normalize.Passthrough(item, bucket, opts.ExplainOn)
	}

	for _, w := range warnings {
		warn(fmt.Sprintf("observation %d: %s", item.Index, w))
	}

	v := res.Value
	o.NormalizedValue = &v
	o.NormalizedUnit = res.Unit
	o.Explain = res.Explain
	if opts.ExplainOn && o.Explain != nil && hasSel {
		o.Explain.TargetSelection = &domain.TargetSelectionExplain{Mode: "auto-by-indicator", Selection: sel}
	}
}
