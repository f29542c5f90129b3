package models

import "fmt"

// Metric is a named quantity tracked over a sprint window.
// Members not modelled here are kept and written back unchanged.
type Metric struct {
	// Name is the display name (metric_name).
	Name string
	// Description is optional help text.
	Description string
	// Unit is the semantic unit tag (e.g. "%", "days").
	Unit string
	// YAxisLabel is the chart axis label.
	YAxisLabel string
	// Timeseries holds one observation per sprint; nil means no data.
	Timeseries []float64
	// Value is the current value (nil if absent or not a number).
	Value *float64
	// Target is an optional goal line (nil if absent or not a number).
	Target *float64

	fields object
}

// HasData reports whether the metric carries a chartable series.
func (m *Metric) HasData() bool {
	return len(m.Timeseries) > 0
}

// CurrentValue returns Value, or 0 when it is absent.
func (m *Metric) CurrentValue() float64 {
	if m.Value == nil {
		return 0
	}
	return *m.Value
}

// UnmarshalJSON reads a metric object, tolerating members of unexpected types.
func (m *Metric) UnmarshalJSON(data []byte) error {
	o, err := decodeObject(data)
	if err != nil {
		return fmt.Errorf("metric: %w", err)
	}

	*m = Metric{fields: o}
	o.decodeInto("metric_name", &m.Name)
	o.decodeInto("description", &m.Description)
	o.decodeInto("unit", &m.Unit)
	o.decodeInto("y_axis_label", &m.YAxisLabel)

	var ts []float64
	if o.decodeInto("timeseries", &ts) {
		m.Timeseries = ts
	}
	var v float64
	if o.decodeInto("value", &v) {
		m.Value = &v
	}
	var target float64
	if o.decodeInto("target", &target) {
		m.Target = &target
	}
	return nil
}

// MarshalJSON writes the metric with its original member order. Members
// whose value is unchanged keep their original encoding; modelled members
// absent on input are appended when set.
func (m Metric) MarshalJSON() ([]byte, error) {
	o := m.fields.clone()

	for _, f := range []struct{ key, v string }{
		{"metric_name", m.Name},
		{"description", m.Description},
		{"unit", m.Unit},
		{"y_axis_label", m.YAxisLabel},
	} {
		if err := setString(&o, f.key, f.v); err != nil {
			return nil, err
		}
	}
	if m.Timeseries != nil {
		if err := o.set("timeseries", m.Timeseries); err != nil {
			return nil, err
		}
	}
	for _, f := range []struct {
		key string
		v   *float64
	}{
		{"value", m.Value},
		{"target", m.Target},
	} {
		if f.v == nil {
			continue
		}
		if err := setKeep(&o, f.key, *f.v); err != nil {
			return nil, err
		}
	}
	return o.MarshalJSON()
}
