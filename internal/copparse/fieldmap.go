package copparse

import (
	"bytes"
	"encoding/json"
)

// FieldMap is an ordered label → value mapping. Insertion order follows the
// row/column traversal order of the source table, and the first value written
// for a label is kept (later rows repeating a label are ignored). Downstream
// reporting matches labels by exact string, so keys are stored as extracted,
// trimmed but otherwise unmodified.
type FieldMap struct {
	keys   []string
	values map[string]string
}

// NewFieldMap returns an empty FieldMap.
func NewFieldMap() *FieldMap {
	return &FieldMap{values: make(map[string]string)}
}

// Set records value under label unless the label is already present.
// It reports whether the value was inserted.
func (m *FieldMap) Set(label, value string) bool {
	if _, ok := m.values[label]; ok {
		return false
	}
	m.keys = append(m.keys, label)
	m.values[label] = value
	return true
}

// Get returns the value for label and whether it is present.
func (m *FieldMap) Get(label string) (string, bool) {
	v, ok := m.values[label]
	return v, ok
}

// Has reports whether label is present.
func (m *FieldMap) Has(label string) bool {
	_, ok := m.values[label]
	return ok
}

// Len returns the number of fields.
func (m *FieldMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the labels in insertion order. The returned slice is shared;
// callers must not modify it.
func (m *FieldMap) Keys() []string {
	if m == nil {
		return nil
	}
	return m.keys
}

// MarshalJSON encodes the map as a JSON object preserving insertion order.
func (m *FieldMap) MarshalJSON() ([]byte, error) {
	if m == nil || len(m.keys) == 0 {
		return []byte("{}"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object. Key order follows the document order
// of the encoded object.
func (m *FieldMap) UnmarshalJSON(data []byte) error {
	m.keys = nil
	m.values = make(map[string]string)

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return &json.UnmarshalTypeError{Value: "non-object", Type: nil}
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key := keyTok.(string)
		var val string
		if err := dec.Decode(&val); err != nil {
			return err
		}
		m.Set(key, val)
	}
	_, err = dec.Token() // closing brace
	return err
}
