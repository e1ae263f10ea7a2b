// Package validator provides interfaces and types for JSON Schema validation.
package validator

import (
	"io"
	"slices"
	"strings"
)

// Draft represents a JSON Schema draft version.
type Draft string

const (
	// Draft4 represents JSON Schema Draft 4.
	Draft4 Draft = "http://json-schema.org/draft-04/schema#"
	// Draft6 represents JSON Schema Draft 6.
	Draft6 Draft = "http://json-schema.org/draft-06/schema#"
	// Draft7 represents JSON Schema Draft 7.
	Draft7 Draft = "http://json-schema.org/draft-07/schema#"
	// Draft2019_09 represents JSON Schema Draft 2019-09.
	Draft2019_09 Draft = "https://json-schema.org/draft/2019-09/schema"
	// Draft2020_12 represents JSON Schema Draft 2020-12.
	Draft2020_12 Draft = "https://json-schema.org/draft/2020-12/schema"
)

// A JSONDocument is a parsed JSON document, as returned by ParseJSON.
type JSONDocument interface{}

// A JSONSchema is a parsed JSON document representing a JSON Schema.
// A Compiler must compile the JSONSchema before use, which will identify any JSON Schema issues.
type JSONSchema JSONDocument

// Validator represents something which can be used to validate a JSON document.
type Validator interface {
	// Validate validates a JSON document. A document that does not conform is reported
	// as a *ValidationError.
	Validate(v JSONDocument) error
}

// Compiler defines a JSON Schema compiler. Schemas referenced through $ref are either
// added up front with AddSchema or retrieved on demand through the compiler's Loader.
type Compiler interface {
	// AddSchema registers a JSONSchema with the compiler.
	// An error is produced if the JSONSchema cannot be added.
	AddSchema(id string, data JSONSchema) error

	// Compile creates a Validator from the JSONSchema previously added with the given ID.
	// An error is produced if the JSONSchema cannot be compiled.
	Compile(id string) (Validator, error)

	// SupportedSchemaVersions returns a slice of Draft representing the supported schema versions.
	SupportedSchemaVersions() []Draft
}

// CheckDraft returns an *UnsupportedDraftError when schema declares a $schema that c
// cannot compile. A schema without $schema is accepted and compiled with the default draft.
func CheckDraft(c Compiler, schema JSONSchema) error {
	obj, ok := schema.(map[string]any)
	if !ok {
		return nil
	}
	declared, ok := obj["$schema"].(string)
	if !ok {
		return nil
	}
	norm := strings.TrimSuffix(declared, "#")
	if slices.ContainsFunc(c.SupportedSchemaVersions(), func(d Draft) bool {
		return strings.TrimSuffix(string(d), "#") == norm
	}) {
		return nil
	}
	return &UnsupportedDraftError{Draft: declared}
}

// Loader returns the raw bytes of the schema published at url. Compilers use it to
// resolve references to schemas that were not added explicitly.
type Loader func(url string) ([]byte, error)

// ParseJSON decodes a JSON document with numbers preserved exactly, which is the form
// Compiler and Validator expect.
func ParseJSON(r io.Reader) (JSONDocument, error) {
	return parseJSON(r)
}
