// Package validate checks incoming observations for schema and value
// sanity before they reach the classifier, using go-playground/validator
// the way the teacher's handler layer validates inbound requests.
package validate

import (
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"

	"github.com/tellimer/econify/domain"
)

var validate = validator.New()

// Config tunes how strict validation is (§6's validateSchema/requiredFields
// knobs).
type Config struct {
	// ValidateSchema runs the struct-tag based validator (currently just
	// "Value" being required/present) in addition to the NaN/Infinity
	// checks that always run.
	ValidateSchema bool

	// RequiredFields names additional Observation fields (by the same
	// names as json tags: "unit", "name", "currency", "date") that must be
	// non-empty, beyond the always-required Value.
	RequiredFields []string
}

// Issue is one validation failure, indexed to the observation it came from.
type Issue struct {
	Index   int    `json:"index"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result is validateEconomicData's return shape (§6):
// {valid, score, issues[]}.
type Result struct {
	Valid  bool    `json:"valid"`
	Score  int     `json:"score"`
	Issues []Issue `json:"issues"`
}

// ValidateEconomicData checks every observation in obs without running the
// rest of the pipeline (§6), returning a 0-100 completeness-style score
// alongside the flattened issue list.
func ValidateEconomicData(obs []domain.Observation, cfg Config) Result {
	res := Result{Valid: true, Issues: []Issue{}}
	if len(obs) == 0 {
		res.Score = 100
		return res
	}

	add := func(i int, field, msg string) {
		res.Issues = append(res.Issues, Issue{Index: i, Field: field, Message: msg})
		res.Valid = false
	}

	bad := 0
	for i, o := range obs {
		before := len(res.Issues)

		if math.IsNaN(o.Value) {
			add(i, "value", "value is NaN")
		}
		if math.IsInf(o.Value, 0) {
			add(i, "value", "value is infinite")
		}
		if o.Unit == "" {
			add(i, "unit", "unit is required")
		}

		for _, f := range cfg.RequiredFields {
			if requiredFieldMissing(o, f) {
				add(i, f, fmt.Sprintf("%s is required", f))
			}
		}

		if cfg.ValidateSchema {
			if err := validate.Struct(o); err != nil {
				if verrs, ok := err.(validator.ValidationErrors); ok {
					for _, fe := range verrs {
						add(i, fe.Field(), fmt.Sprintf("failed %q validation", fe.Tag()))
					}
				} else {
					add(i, "", err.Error())
				}
			}
		}

		if len(res.Issues) > before {
			bad++
		}
	}

	res.Score = int(100 * float64(len(obs)-bad) / float64(len(obs)))
	return res
}

func requiredFieldMissing(o domain.Observation, field string) bool {
	switch field {
	case "unit":
		return o.Unit == ""
	case "name":
		return o.Name == ""
	case "currency":
		return o.ExplicitCurrency == ""
	case "date":
		return o.Date == nil
	default:
		return false
	}
}
