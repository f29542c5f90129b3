// Package models defines the delivery health tree.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// object is a JSON object that remembers the order of its members, so a
// document can be read and written back with unknown fields untouched.
type object struct {
	keys []string
	vals map[string]json.RawMessage
}

func decodeObject(data []byte) (object, error) {
	o := object{vals: make(map[string]json.RawMessage)}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return o, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return o, fmt.Errorf("expected JSON object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return o, err
		}
		key, ok := tok.(string)
		if !ok {
			return o, fmt.Errorf("expected object key, got %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return o, err
		}
		o.put(key, raw)
	}

	if _, err := dec.Token(); err != nil {
		return o, err
	}
	return o, nil
}

func (o *object) put(key string, raw json.RawMessage) {
	if o.vals == nil {
		o.vals = make(map[string]json.RawMessage)
	}
	if _, ok := o.vals[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.vals[key] = raw
}

func (o *object) set(key string, v any) error {
	raw, err := marshalNoEscape(v)
	if err != nil {
		return fmt.Errorf("field %q: %w", key, err)
	}
	o.put(key, raw)
	return nil
}

func (o object) has(key string) bool {
	_, ok := o.vals[key]
	return ok
}

func (o object) get(key string) (json.RawMessage, bool) {
	raw, ok := o.vals[key]
	return raw, ok
}

func (o object) clone() object {
	c := object{
		keys: append([]string(nil), o.keys...),
		vals: make(map[string]json.RawMessage, len(o.vals)),
	}
	for k, v := range o.vals {
		c.vals[k] = v
	}
	return c
}

// MarshalJSON writes members in insertion order.
func (o object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalNoEscape(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(o.vals[k])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// decodeInto decodes the member key into v. It reports false, leaving v
// unchanged, when the member is absent, null, or has a different JSON type.
func (o object) decodeInto(key string, v any) bool {
	raw, ok := o.vals[key]
	if !ok || string(bytes.TrimSpace(raw)) == "null" {
		return false
	}
	return json.Unmarshal(raw, v) == nil
}

// setKeep sets key to v unless the existing member already decodes to v.
func setKeep[T comparable](o *object, key string, v T) error {
	if raw, ok := o.get(key); ok {
		var cur T
		if json.Unmarshal(raw, &cur) == nil && cur == v {
			return nil
		}
	}
	return o.set(key, v)
}

// setString is setKeep for strings, except that an empty v never adds a
// member or replaces a member of another JSON type.
func setString(o *object, key, v string) error {
	if v == "" {
		raw, ok := o.get(key)
		if !ok {
			return nil
		}
		var s string
		if json.Unmarshal(raw, &s) != nil {
			return nil
		}
	}
	return setKeep(o, key, v)
}

func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '['
}
