package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Fact is one named observation recorded by a pillar.
type Fact struct {
	Key   string
	Value any // bool, int or string
}

// Details is an ordered set of facts. It marshals to a JSON object (and a
// YAML mapping) whose keys keep the order in which the pillar recorded them.
type Details []Fact

// Get returns the value stored under key.
func (d Details) Get(key string) (any, bool) {
	for _, f := range d {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Bool returns the boolean stored under key, false when absent.
func (d Details) Bool(key string) bool {
	v, _ := d.Get(key)
	b, _ := v.(bool)
	return b
}

// Int returns the integer stored under key, 0 when absent.
func (d Details) Int(key string) int {
	v, _ := d.Get(key)
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}

// String returns the string stored under key, "" when absent.
func (d Details) String(key string) string {
	v, _ := d.Get(key)
	s, _ := v.(string)
	return s
}

// Keys returns the fact names in order.
func (d Details) Keys() []string {
	keys := make([]string, len(d))
	for i, f := range d {
		keys[i] = f.Key
	}
	return keys
}

// MarshalJSON writes the facts as a JSON object in recorded order.
func (d Details) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range d {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(f.Value)
		if err != nil {
			return nil, fmt.Errorf("marshaling detail %q: %w", f.Key, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object back into ordered facts. Integral
// numbers decode as int.
func (d *Details) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*d = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("details: expected object, got %v", tok)
	}

	var out Details
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("details: expected key, got %v", keyTok)
		}
		var raw any
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("details: decoding %q: %w", key, err)
		}
		if n, ok := raw.(json.Number); ok {
			if i, err := n.Int64(); err == nil {
				raw = int(i)
			} else if f, err := n.Float64(); err == nil {
				raw = f
			}
		}
		out = append(out, Fact{Key: key, Value: raw})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*d = out
	return nil
}

// MarshalYAML emits a mapping node so YAML output keeps fact order.
func (d Details) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, f := range d {
		var v yaml.Node
		if err := v.Encode(f.Value); err != nil {
			return nil, fmt.Errorf("encoding detail %q: %w", f.Key, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Key},
			&v,
		)
	}
	return node, nil
}
