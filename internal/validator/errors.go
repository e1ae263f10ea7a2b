package validator

import (
	"fmt"
	"strings"
)

// Failure is one reason a document did not conform to a schema.
type Failure struct {
	// InstanceLocation is a JSON pointer into the document.
	InstanceLocation string
	// KeywordLocation is the absolute location of the schema keyword that failed.
	KeywordLocation string
	Message         string
}

func (f Failure) String() string {
	at := f.InstanceLocation
	if at == "" {
		at = "/"
	}
	return fmt.Sprintf("%s: %s", at, f.Message)
}

// ValidationError reports a document that does not conform to a schema.
type ValidationError struct {
	SchemaURL string
	Failures  []Failure
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		msgs[i] = f.String()
	}
	return fmt.Sprintf("document does not conform to %s: %s", e.SchemaURL, strings.Join(msgs, "; "))
}

// LoadError reports a referenced schema that the Loader could not provide.
type LoadError struct {
	URL string
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("could not load schema %s: %v", e.URL, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// UnsupportedDraftError reports a schema written for a JSON Schema draft the compiler
// does not implement.
type UnsupportedDraftError struct {
	Draft string
}

func (e *UnsupportedDraftError) Error() string {
	return fmt.Sprintf("unsupported JSON Schema draft %q", e.Draft)
}
