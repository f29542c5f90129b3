package models

import (
	"encoding/json"
	"fmt"
)

// Indicator is a node of the delivery health tree. It exclusively owns its
// metrics and children. Members not modelled here are kept and written back
// unchanged.
type Indicator struct {
	// Name is the indicator label (indicator).
	Name string
	// Description is optional narrative text.
	Description string
	// DataSource names where the indicator's data comes from (data_source).
	DataSource string
	// Metrics attached to this node. Nil when absent or not a list.
	Metrics []*Metric
	// Children are nested indicators. Nil when absent or not a list.
	Children []*Indicator

	fields object
}

// UnmarshalJSON reads an indicator object. A metrics or children member
// that is not a list is preserved verbatim and treated as absent.
func (n *Indicator) UnmarshalJSON(data []byte) error {
	o, err := decodeObject(data)
	if err != nil {
		return fmt.Errorf("indicator: %w", err)
	}

	*n = Indicator{fields: o}
	o.decodeInto("indicator", &n.Name)
	o.decodeInto("description", &n.Description)
	o.decodeInto("data_source", &n.DataSource)

	if raw, ok := o.get("metrics"); ok && isArray(raw) {
		metrics := make([]*Metric, 0)
		if err := json.Unmarshal(raw, &metrics); err != nil {
			return fmt.Errorf("indicator %q: metrics: %w", n.Name, err)
		}
		for i, m := range metrics {
			if m == nil {
				return fmt.Errorf("indicator %q: metrics[%d] is null", n.Name, i)
			}
		}
		n.Metrics = metrics
	}
	if raw, ok := o.get("children"); ok && isArray(raw) {
		children := make([]*Indicator, 0)
		if err := json.Unmarshal(raw, &children); err != nil {
			return fmt.Errorf("indicator %q: children: %w", n.Name, err)
		}
		for i, c := range children {
			if c == nil {
				return fmt.Errorf("indicator %q: children[%d] is null", n.Name, i)
			}
		}
		n.Children = children
	}
	return nil
}

// MarshalJSON writes the indicator with its original member order.
func (n Indicator) MarshalJSON() ([]byte, error) {
	o := n.fields.clone()

	for _, f := range []struct{ key, v string }{
		{"indicator", n.Name},
		{"description", n.Description},
		{"data_source", n.DataSource},
	} {
		if err := setString(&o, f.key, f.v); err != nil {
			return nil, err
		}
	}
	if n.Metrics != nil {
		if err := o.set("metrics", n.Metrics); err != nil {
			return nil, err
		}
	}
	if n.Children != nil {
		if err := o.set("children", n.Children); err != nil {
			return nil, err
		}
	}
	return o.MarshalJSON()
}
