// package record
//
// the unit of data moving through the pipeline: a json object whose field
// order is kept from source to destination
package record

import (
	"bytes"
	"encoding/json"

	"github.com/iancoleman/orderedmap"
)

// Record : one json object. The zero value is an empty record
type Record struct {
	fields *orderedmap.OrderedMap
}

// Field : key / value pair, used to build records in order
type Field struct {
	Key   string
	Value any
}

// New : record holding the given fields in order
func New(fields ...Field) Record {
	r := Record{fields: newMap()}
	for _, f := range fields {
		r.fields.Set(f.Key, f.Value)
	}
	return r
}

func newMap() *orderedmap.OrderedMap {
	m := orderedmap.New()
	m.SetEscapeHTML(false)
	return m
}

// Get : value stored under key
func (r Record) Get(key string) (any, bool) {
	if r.fields == nil {
		return nil, false
	}
	return r.fields.Get(key)
}

// Set : adds or replaces key, new keys go last
func (r *Record) Set(key string, value any) {
	if r.fields == nil {
		r.fields = newMap()
	}
	r.fields.Set(key, value)
}

// Delete : removes key if present
func (r Record) Delete(key string) {
	if r.fields != nil {
		r.fields.Delete(key)
	}
}

// Keys : field names in order. The slice is a copy
func (r Record) Keys() []string {
	if r.fields == nil {
		return nil
	}
	return append([]string(nil), r.fields.Keys()...)
}

// Fields : ordered key / value pairs
func (r Record) Fields() []Field {
	out := make([]Field, 0, r.Len())
	for _, k := range r.Keys() {
		v, _ := r.fields.Get(k)
		out = append(out, Field{Key: k, Value: v})
	}
	return out
}

// Len : number of fields
func (r Record) Len() int {
	if r.fields == nil {
		return 0
	}
	return len(r.fields.Keys())
}

// Clone : shallow copy, nested values are shared with r
func (r Record) Clone() Record {
	out := Record{fields: newMap()}
	if r.fields == nil {
		return out
	}
	for _, k := range r.fields.Keys() {
		v, _ := r.fields.Get(k)
		out.fields.Set(k, v)
	}
	return out
}

func (r Record) MarshalJSON() ([]byte, error) {
	if r.fields == nil {
		return []byte("{}"), nil
	}
	return r.fields.MarshalJSON()
}

// UnmarshalJSON keeps key order at every depth and keeps numbers as
// json.Number, so their source text is written back unchanged
func (r *Record) UnmarshalJSON(b []byte) error {
	m := newMap()
	if err := m.UnmarshalJSON(b); err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var exact map[string]any
	if err := dec.Decode(&exact); err != nil {
		return err
	}
	withNumbers(m, exact)
	r.fields = m
	return nil
}

// withNumbers : replaces the float64 leaves of ordered with the json.Number
// found at the same path in exact
func withNumbers(ordered any, exact any) any {
	switch v := ordered.(type) {
	case *orderedmap.OrderedMap:
		setNumbers(v, exact)
	case orderedmap.OrderedMap:
		// values is a map, the copy writes through
		setNumbers(&v, exact)
		return v
	case []any:
		e, ok := exact.([]any)
		if !ok || len(e) != len(v) {
			return v
		}
		for i := range v {
			v[i] = withNumbers(v[i], e[i])
		}
	case float64:
		if n, ok := exact.(json.Number); ok {
			return n
		}
	}
	return ordered
}

func setNumbers(m *orderedmap.OrderedMap, exact any) {
	e, ok := exact.(map[string]any)
	if !ok {
		return
	}
	for _, k := range m.Keys() {
		v, _ := m.Get(k)
		m.Set(k, withNumbers(v, e[k]))
	}
}
