// Package report builds display summaries of metrics.
package report

import (
	"fmt"
	"strings"

	"github.com/ukaji3/dhm-go/pkg/dhm/models"
	"github.com/ukaji3/dhm-go/pkg/dhm/units"
)

// Trend is the direction of a series from its first to its last point.
type Trend string

const (
	TrendUp      Trend = "up"
	TrendDown    Trend = "down"
	TrendNeutral Trend = "neutral"
)

// Arrow returns the glyph shown next to a value.
func (t Trend) Arrow() string {
	switch t {
	case TrendUp:
		return "▲"
	case TrendDown:
		return "▼"
	}
	return ""
}

// Card is the display summary of one metric.
type Card struct {
	Name        string   `json:"metric_name"`
	Description string   `json:"description,omitempty"`
	Unit        string   `json:"unit,omitempty"`
	YAxisLabel  string   `json:"y_axis_label,omitempty"`
	HasData     bool     `json:"has_data"`
	Value       string   `json:"value,omitempty"`
	Delta       string   `json:"delta,omitempty"`
	Trend       Trend    `json:"trend,omitempty"`
	Good        bool     `json:"good"`
	Target      *float64 `json:"target,omitempty"`
}

// NewCard summarizes m. higherIsBetter decides whether an upward trend is good.
func NewCard(m *models.Metric, higherIsBetter bool) Card {
	c := Card{
		Name:        m.Name,
		Description: m.Description,
		Unit:        m.Unit,
		YAxisLabel:  m.YAxisLabel,
		Target:      m.Target,
	}
	if c.Name == "" {
		c.Name = "Metric"
	}
	if c.YAxisLabel == "" {
		c.YAxisLabel = m.Unit
	}
	if !m.HasData() {
		return c
	}
	c.HasData = true

	first, last := m.Timeseries[0], m.Timeseries[len(m.Timeseries)-1]
	switch {
	case last > first:
		c.Trend = TrendUp
	case last < first:
		c.Trend = TrendDown
	default:
		c.Trend = TrendNeutral
	}
	c.Good = (c.Trend == TrendUp && higherIsBetter) || (c.Trend == TrendDown && !higherIsBetter)

	c.Value, c.Delta = formatValue(units.Unit(m.Unit), m.CurrentValue(), last-first)
	return c
}

func formatValue(unit units.Unit, value, delta float64) (string, string) {
	verb := "%.1f"
	switch unit {
	case units.Count, units.Days, units.Sprints:
		verb = "%.0f"
	}

	sign := ""
	if delta >= 0 {
		sign = "+"
	}

	valueStr := fmt.Sprintf(verb, value)
	deltaStr := sign + fmt.Sprintf(verb, delta)

	switch {
	case unit == units.Percent:
		valueStr = fmt.Sprintf("%.1f%%", value)
		deltaStr = sign + fmt.Sprintf("%.1f%%", delta)
	case unit == units.Score:
		valueStr = fmt.Sprintf("%.1f", value)
	case unit != "" && !strings.Contains(valueStr, string(unit)):
		valueStr += " " + string(unit)
	}
	return valueStr, deltaStr
}

// Direction decides per metric whether higher values are better.
type Direction struct {
	lowerIsBetter []string
}

// NewDirection treats metrics whose names contain any of keywords
// (case-insensitive) as lower-is-better; everything else is higher-is-better.
func NewDirection(keywords []string) Direction {
	d := Direction{}
	for _, kw := range keywords {
		if kw = strings.TrimSpace(kw); kw != "" {
			d.lowerIsBetter = append(d.lowerIsBetter, strings.ToLower(kw))
		}
	}
	return d
}

// HigherIsBetter reports the direction for a metric name.
func (d Direction) HigherIsBetter(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range d.lowerIsBetter {
		if strings.Contains(lower, kw) {
			return false
		}
	}
	return true
}

// Cards summarizes metrics using d.
func (d Direction) Cards(metrics []*models.Metric) []Card {
	cards := make([]Card, 0, len(metrics))
	for _, m := range metrics {
		cards = append(cards, NewCard(m, d.HigherIsBetter(m.Name)))
	}
	return cards
}
