package record

import (
	"reflect"

	json "github.com/goccy/go-json"
)

// Object is a JSON object in the middle of being decoded. Declared fields are claimed
// out of it one at a time; the members left over are the open record.
type Object struct {
	path    string
	members map[string]json.RawMessage
}

// Parse splits a JSON object into its members. It fails if b is not a JSON object.
func Parse(b []byte) (*Object, error) {
	return ParseAt("", b)
}

// ParseAt is Parse for an object nested at path. The path only appears in errors.
func ParseAt(path string, b []byte) (*Object, error) {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(b, &members); err != nil {
		return nil, &NotAnObjectError{Path: path, Err: err}
	}
	if members == nil {
		return nil, &NotAnObjectError{Path: path}
	}
	return &Object{path: path, members: members}, nil
}

// Child joins key onto the object's path.
func (o *Object) Child(key string) string {
	if o.path == "" {
		return key
	}
	return o.path + "." + key
}

// Len returns the number of members not yet claimed.
func (o *Object) Len() int {
	return len(o.members)
}

// TakeRaw claims the member named key, whatever its value, including null.
func (o *Object) TakeRaw(key string) (json.RawMessage, bool) {
	raw, ok := o.members[key]
	if ok {
		delete(o.members, key)
	}
	return raw, ok
}

// TakeNamespaced claims every member whose name carries an extension prefix.
func (o *Object) TakeNamespaced() Fields {
	var out Fields
	for k, v := range o.members {
		if !IsNamespaced(k) {
			continue
		}
		if out == nil {
			out = Fields{}
		}
		out[k] = v
		delete(o.members, k)
	}
	return out
}

// Rest returns the members nobody claimed. It returns nil when there are none.
func (o *Object) Rest() Fields {
	if len(o.members) == 0 {
		return nil
	}
	out := make(Fields, len(o.members))
	for k, v := range o.members {
		out[k] = v
	}
	return out
}

// Take claims an optional member and decodes it as a T.
//
// An absent member, and a member whose value is null, both report ok == false. A null
// is left in the object so that it ends up in the open record and is written back out.
func Take[T any](o *Object, key string) (v T, ok bool, err error) {
	raw, found := o.members[key]
	if !found || IsNull(raw) {
		return v, false, nil
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, false, &FieldTypeError{Path: o.Child(key), Want: typeName(&v), Err: err}
	}
	delete(o.members, key)
	return v, true, nil
}

// TakePtr is Take for optional scalars, returning nil when the member is absent or null.
func TakePtr[T any](o *Object, key string) (*T, error) {
	v, ok, err := Take[T](o, key)
	if err != nil || !ok {
		return nil, err
	}
	return &v, nil
}

// Require claims a mandatory member and decodes it as a T. Null is not accepted.
func Require[T any](o *Object, key string) (T, error) {
	raw, found := o.members[key]
	if !found {
		var zero T
		return zero, &MissingFieldError{Path: o.Child(key)}
	}
	if IsNull(raw) {
		var zero T
		return zero, &FieldTypeError{Path: o.Child(key), Want: typeName(&zero), Err: errNull}
	}
	v, _, err := Take[T](o, key)
	return v, err
}

// RequireLiteral claims a mandatory string member that must equal want.
func RequireLiteral(o *Object, key, want string) error {
	got, err := Require[string](o, key)
	if err != nil {
		return err
	}
	if got != want {
		return &LiteralMismatchError{Path: o.Child(key), Want: want, Got: got}
	}
	return nil
}

func typeName(ptr any) string {
	t := reflect.TypeOf(ptr)
	if t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "value"
	}
	name := t.String()
	switch {
	case t.Kind() == reflect.String:
		return "string"
	case t.Kind() == reflect.Float64, t.Kind() == reflect.Float32:
		return "number"
	case t.Kind() >= reflect.Int && t.Kind() <= reflect.Uint64:
		return "integer"
	case t.Kind() == reflect.Bool:
		return "boolean"
	case t.Kind() == reflect.Slice && t.Elem().Kind() != reflect.Uint8:
		return "array"
	case t.Kind() == reflect.Map, t.Kind() == reflect.Struct:
		return "object"
	}
	return name
}
