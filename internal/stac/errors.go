package stac

import (
	"fmt"
	"strings"
)

// DecodeError reports a document that is not well formed for its declared type.
type DecodeError struct {
	Type string
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("could not decode STAC document: %v", e.Err)
	}
	return fmt.Sprintf("could not decode STAC %s: %v", e.Type, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

type UnknownTypeError struct {
	Type string
}

func (e *UnknownTypeError) Error() string {
	if e.Type == "" {
		return `document has no "type" member`
	}
	return fmt.Sprintf("unknown document type %q: expected one of %s", e.Type, strings.Join(wireTypes, ", "))
}

type ProviderRoleError struct {
	Role string
}

func (e *ProviderRoleError) Error() string {
	return fmt.Sprintf("unknown provider role %q", e.Role)
}

// TemporalError reports common metadata whose instants are missing, malformed or out of
// order.
type TemporalError struct {
	Field  string
	Reason string
}

func (e *TemporalError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}
