package dhm

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ukaji3/dhm-go/pkg/dhm/models"
	"github.com/ukaji3/dhm-go/pkg/dhm/output"
	"github.com/ukaji3/dhm-go/pkg/dhm/series"
	"github.com/ukaji3/dhm-go/pkg/dhm/tree"
	"github.com/ukaji3/dhm-go/pkg/dhm/units"
	"go.uber.org/zap"
)

// Load reads a JSON list of indicator trees from path.
func Load(path string) ([]*models.Indicator, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, err
	}
	defer f.Close()

	roots, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return roots, nil
}

// Decode reads a JSON list of indicator trees.
func Decode(r io.Reader) ([]*models.Indicator, error) {
	var roots []*models.Indicator
	if err := json.NewDecoder(r).Decode(&roots); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	for i, n := range roots {
		if n == nil {
			return nil, fmt.Errorf("%w: root %d is null", ErrInvalidFormat, i)
		}
	}
	return roots, nil
}

// Enhance overwrites the unit, axis label, series and current value of
// every metric in roots, in place. It returns roots for chaining.
func Enhance(roots []*models.Indicator, opts Options) ([]*models.Indicator, error) {
	gen, err := opts.generator()
	if err != nil {
		return nil, err
	}
	inf := opts.inferencer()
	log := opts.logger()

	count := 0
	err = tree.Walk(roots, func(path string, _ int, n *models.Indicator) error {
		for _, m := range n.Metrics {
			u, err := UpdateMetric(m, inf, gen)
			if err != nil {
				return &ProcessingError{Path: path, Metric: m.Name, Rule: u.Rule, Spec: u.Spec, Err: err}
			}
			count++
			log.Debug("Generated metric series",
				zap.String("path", path),
				zap.String("metric", m.Name),
				zap.String("rule", u.Rule),
				zap.String("unit", string(u.Spec.Unit)),
				zap.Float64("value", m.CurrentValue()))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	stats := tree.Summarize(roots)
	log.Info("Generated series",
		zap.Int("roots", len(roots)),
		zap.Int("nodes", stats.Nodes),
		zap.Int("metrics", count))
	return roots, nil
}

// Update records how UpdateMetric classified a metric.
type Update struct {
	// Rule is the matching unit rule, "" for the fallback.
	Rule string
	// Spec is the inferred value domain.
	Spec units.Spec
}

// UpdateMetric infers m's value domain from its name, generates a fresh
// series within it, and overwrites m's derived fields. The returned Update
// is filled in even when generation fails; m is then left untouched.
func UpdateMetric(m *models.Metric, inf *units.Inferencer, gen *series.Generator) (Update, error) {
	var u Update
	u.Spec, u.Rule = inf.Match(m.Name)
	points, err := gen.Generate(u.Spec.Min, u.Spec.Max, u.Spec.Decimals)
	if err != nil {
		return u, err
	}

	value := series.Round(points[len(points)-1], u.Spec.Decimals)
	m.Unit = string(u.Spec.Unit)
	m.YAxisLabel = u.Spec.Label
	m.Timeseries = points
	m.Value = &value
	return u, nil
}

// EnhanceFile loads inPath, enhances it, and writes the result to outPath.
// Nothing is written unless loading and generation succeed.
func EnhanceFile(inPath, outPath string, pretty bool, opts Options) ([]*models.Indicator, error) {
	roots, err := Load(inPath)
	if err != nil {
		return nil, err
	}
	if _, err := Enhance(roots, opts); err != nil {
		return nil, err
	}
	if err := output.WriteJSON(outPath, roots, pretty); err != nil {
		return nil, fmt.Errorf("failed to write output: %w", err)
	}
	return roots, nil
}
