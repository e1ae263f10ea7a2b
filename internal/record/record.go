// Package record implements the open record: the bucket of JSON members that a typed
// struct does not claim, kept verbatim so that documents round-trip without loss.
//
// Decoding happens in three explicit steps. The source object is split into a
// key -> raw value map (Parse), each declared field is claimed and type-checked by
// name (Take, Require, TakeRaw), and whatever is left becomes the struct's Fields
// (Object.Rest). Encoding is the inverse merge performed by Writer.
package record

import (
	"bytes"
	"slices"
	"strings"

	json "github.com/goccy/go-json"
)

// Fields holds the JSON members of an object that no typed field claimed.
// Values are kept as the exact bytes that were decoded.
type Fields map[string]json.RawMessage

// Keys returns the member names in sorted order.
func (f Fields) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Has reports whether the member exists.
func (f Fields) Has(key string) bool {
	_, ok := f[key]
	return ok
}

// Get decodes the member named key into dst. It returns false if the member is absent.
func (f Fields) Get(key string, dst any) (bool, error) {
	raw, ok := f[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return true, &FieldTypeError{Path: key, Want: typeName(dst), Err: err}
	}
	return true, nil
}

// Clone returns a copy of f that shares no memory with it.
func (f Fields) Clone() Fields {
	if f == nil {
		return nil
	}
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = slices.Clone(v)
	}
	return out
}

// Equal reports whether f and other hold the same keys with semantically equal values.
// Insignificant whitespace inside values is ignored.
func (f Fields) Equal(other Fields) bool {
	if len(f) != len(other) {
		return false
	}
	for k, v := range f {
		ov, ok := other[k]
		if !ok || !RawEqual(v, ov) {
			return false
		}
	}
	return true
}

// RawEqual compares two raw JSON values after compacting them.
func RawEqual(a, b json.RawMessage) bool {
	var ca, cb bytes.Buffer
	if json.Compact(&ca, a) != nil || json.Compact(&cb, b) != nil {
		return bytes.Equal(a, b)
	}
	return bytes.Equal(ca.Bytes(), cb.Bytes())
}

// IsNull reports whether raw is the JSON literal null.
func IsNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

// IsNamespaced reports whether a member name carries an extension prefix such as "eo:".
func IsNamespaced(key string) bool {
	i := strings.IndexByte(key, ':')
	return i > 0 && i < len(key)-1
}

// Decode unmarshals the members as one JSON object into dst, which is typically a struct
// whose tags name a subset of the members.
func (f Fields) Decode(dst any) error {
	b, err := NewWriter().Merge(f).Bytes()
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return &FieldTypeError{Path: "", Want: typeName(dst), Err: err}
	}
	return nil
}
