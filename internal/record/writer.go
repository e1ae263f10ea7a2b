package record

import (
	"bytes"

	json "github.com/goccy/go-json"
)

// Writer builds a JSON object: declared members in the order they are set, followed by
// the open record in sorted key order. A declared member always wins over an open
// record member with the same name.
type Writer struct {
	keys   []string
	values map[string]json.RawMessage
	err    error
}

func NewWriter() *Writer {
	return &Writer{values: map[string]json.RawMessage{}}
}

// Set encodes v and adds it as a declared member. Setting the same key twice keeps the
// first position and the last value.
func (w *Writer) Set(key string, v any) *Writer {
	if w.err != nil {
		return w
	}
	raw, ok := v.(json.RawMessage)
	if !ok {
		b, err := json.Marshal(v)
		if err != nil {
			w.err = &FieldTypeError{Path: key, Want: "encodable value", Err: err}
			return w
		}
		raw = b
	}
	if _, seen := w.values[key]; !seen {
		w.keys = append(w.keys, key)
	}
	w.values[key] = raw
	return w
}

// SetIf calls Set only when present is true. It is how absent optionals are omitted.
func (w *Writer) SetIf(present bool, key string, v any) *Writer {
	if present {
		return w.Set(key, v)
	}
	return w
}

// SetPtr sets key to *p when p is not nil.
func SetPtr[T any](w *Writer, key string, p *T) *Writer {
	if p == nil {
		return w
	}
	return w.Set(key, *p)
}

// Merge appends the members of f in sorted key order, skipping any key already set.
func (w *Writer) Merge(f Fields) *Writer {
	for _, k := range f.Keys() {
		if _, seen := w.values[k]; seen {
			continue
		}
		w.keys = append(w.keys, k)
		w.values[k] = f[k]
	}
	return w
}

// Bytes returns the encoded object, or the first error met while setting members.
func (w *Writer) Bytes() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range w.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		var compact bytes.Buffer
		if err := json.Compact(&compact, w.values[k]); err != nil {
			return nil, &FieldTypeError{Path: k, Want: "valid JSON", Err: err}
		}
		buf.Write(compact.Bytes())
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
