// Package units infers a metric's unit, axis label, value range and rounding
// precision from its display name.
package units

import "strings"

// Unit is the semantic unit tag attached to a metric.
type Unit string

const (
	Score      Unit = "score"
	Percent    Unit = "%"
	Sprints    Unit = "sprints"
	Count      Unit = "count"
	Days       Unit = "days"
	Hours      Unit = "hours"
	Minutes    Unit = "minutes"
	Index      Unit = "index"
	Complexity Unit = "complexity"
)

// All lists every unit an inference can produce.
var All = []Unit{Score, Percent, Sprints, Count, Days, Hours, Minutes, Index, Complexity}

// Spec describes the value domain of a metric.
type Spec struct {
	// Unit is the semantic unit.
	Unit Unit `json:"unit" yaml:"unit"`
	// Label is the human-readable y axis label.
	Label string `json:"y_axis_label" yaml:"label"`
	// Min is the lowest value the metric can take.
	Min float64 `json:"min" yaml:"min"`
	// Max is the highest value the metric can take.
	Max float64 `json:"max" yaml:"max"`
	// Decimals is the number of decimal places values are rounded to.
	Decimals int `json:"decimals" yaml:"decimals"`
}

// Rule maps names satisfying Match to Spec.
type Rule struct {
	// Name identifies the rule in logs and tests.
	Name string
	// Match receives the lower-cased metric name.
	Match func(name string) bool
	Spec  Spec
}

var (
	scoreSpec      = Spec{Unit: Score, Label: "Score (0–10)", Min: 0, Max: 10, Decimals: 1}
	percentSpec    = Spec{Unit: Percent, Label: "%", Min: 0, Max: 100, Decimals: 1}
	sprintsSpec    = Spec{Unit: Sprints, Label: "Number of Sprints", Min: 0, Max: 8, Decimals: 1}
	countSpec      = Spec{Unit: Count, Label: "Count", Min: 0, Max: 120, Decimals: 0}
	daysSpec       = Spec{Unit: Days, Label: "Days", Min: 0, Max: 30, Decimals: 1}
	hoursSpec      = Spec{Unit: Hours, Label: "Hours", Min: 0, Max: 80, Decimals: 1}
	minutesSpec    = Spec{Unit: Minutes, Label: "Minutes", Min: 0, Max: 180, Decimals: 0}
	indexSpec      = Spec{Unit: Index, Label: "Index", Min: 0, Max: 100, Decimals: 1}
	complexitySpec = Spec{Unit: Complexity, Label: "Complexity Score", Min: 0, Max: 30, Decimals: 1}
)

// Fallback is returned when no rule matches.
var Fallback = Spec{Unit: Count, Label: "Count", Min: 0, Max: 100, Decimals: 0}

// DefaultRules is the built-in rule list. Order is significant: the first
// matching rule wins, so "score" beats "%" and "sprint" counts beat plain counts.
var DefaultRules = []Rule{
	{Name: "score", Match: containsAny("self-assessment score", "rate", "score"), Spec: scoreSpec},
	{Name: "percent", Match: containsAny("%", "percent", "coverage"), Spec: percentSpec},
	{Name: "sprints", Match: func(name string) bool {
		return strings.Contains(name, "sprint") && containsAny("avg number", "number of sprints")(name)
	}, Spec: sprintsSpec},
	{Name: "count", Match: containsAny("# of", "number of", "count"), Spec: countSpec},
	{Name: "days", Match: containsAny("days", "duration", "age"), Spec: daysSpec},
	{Name: "hours", Match: containsAny("hours", "hour"), Spec: hoursSpec},
	{Name: "minutes", Match: containsAny("minutes"), Spec: minutesSpec},
	{Name: "touch-time", Match: containsAny("touch time", "total time"), Spec: daysSpec},
	// Also covers "maintainability index", which shares the same domain.
	{Name: "index", Match: containsAny("index"), Spec: indexSpec},
	{Name: "complexity", Match: containsAny("complexity", "cyclomatic"), Spec: complexitySpec},
}

// Inferencer evaluates an ordered rule list against metric names.
type Inferencer struct {
	rules    []Rule
	fallback Spec
}

// New creates an Inferencer over rules, returning fallback when none match.
func New(rules []Rule, fallback Spec) *Inferencer {
	return &Inferencer{rules: rules, fallback: fallback}
}

// Default returns an Inferencer over DefaultRules and Fallback.
func Default() *Inferencer {
	return New(DefaultRules, Fallback)
}

// Infer returns the Spec of the first rule matching name (case-insensitive).
func (in *Inferencer) Infer(name string) Spec {
	spec, _ := in.Match(name)
	return spec
}

// Match is like Infer but also reports the name of the matching rule,
// or "" when the fallback was used.
func (in *Inferencer) Match(name string) (Spec, string) {
	lower := strings.ToLower(name)
	for _, r := range in.rules {
		if r.Match(lower) {
			return r.Spec, r.Name
		}
	}
	return in.fallback, ""
}

// Infer applies the default rules to name.
func Infer(name string) Spec {
	return defaultInferencer.Infer(name)
}

var defaultInferencer = Default()

func containsAny(subs ...string) func(string) bool {
	return func(s string) bool {
		for _, sub := range subs {
			if strings.Contains(s, sub) {
				return true
			}
		}
		return false
	}
}
