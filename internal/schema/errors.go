package schema

import (
	"fmt"
	"strings"

	"github.com/andyballingall/stacv/internal/stac"
)

type VersionParseError struct {
	Version string
}

func (e *VersionParseError) Error() string {
	return fmt.Sprintf("stac_version %q is not a valid semantic version", e.Version)
}

type UnknownKindError struct {
	Kind stac.Kind
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("no core schema for document kind %s", e.Kind)
}

// SchemaFetchError reports a schema, or a schema it references, that could not be
// retrieved.
type SchemaFetchError struct {
	Location string
	Err      error
}

func (e *SchemaFetchError) Error() string {
	return fmt.Sprintf("could not fetch schema %s: %v", e.Location, e.Err)
}

func (e *SchemaFetchError) Unwrap() error {
	return e.Err
}

// SchemaCompilationError reports a schema that was retrieved but is not a usable JSON
// Schema.
type SchemaCompilationError struct {
	Location string
	Err      error
}

func (e *SchemaCompilationError) Error() string {
	return fmt.Sprintf("could not compile schema %s: %v", e.Location, e.Err)
}

func (e *SchemaCompilationError) Unwrap() error {
	return e.Err
}

// ViolationsError reports a document that failed one or more of its schemas.
type ViolationsError struct {
	Violations []Violation
}

func (e *ViolationsError) Error() string {
	if len(e.Violations) == 1 {
		return "document is invalid: " + e.Violations[0].String()
	}
	lines := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		lines[i] = "  " + v.String()
	}
	return fmt.Sprintf("document is invalid (%d violations):\n%s", len(e.Violations), strings.Join(lines, "\n"))
}
