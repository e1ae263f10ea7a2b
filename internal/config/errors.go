package config

import (
	"fmt"
)

type MissingConfigError struct {
	Path string
}

func (e *MissingConfigError) Error() string {
	return fmt.Sprintf("config file not found: %s", e.Path)
}

type InvalidYAMLError struct {
	Path    string
	Wrapped error
}

func (e *InvalidYAMLError) Error() string {
	return fmt.Sprintf("%s is not a valid yaml document: %v", e.Path, e.Wrapped)
}

func (e *InvalidYAMLError) Unwrap() error { return e.Wrapped }

// InvalidConfigError reports a setting that fails its constraint. Reason is the
// failing rule, such as "required" or "max=64".
type InvalidConfigError struct {
	Field  string
	Reason string
	Value  string
}

func (e *InvalidConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid configuration: %s", e.Reason)
	}
	return fmt.Sprintf("config property %s is invalid (%s): '%s'", e.Field, e.Reason, e.Value)
}

type InvalidURLError struct {
	Wrapped  error
	Property string
	Value    string
}

func (e *InvalidURLError) Error() string {
	return fmt.Sprintf(
		"config property %s has invalid URL '%s': %v",
		e.Property,
		e.Value,
		e.Wrapped,
	)
}

func (e *InvalidURLError) Unwrap() error { return e.Wrapped }
