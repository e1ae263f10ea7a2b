package app

import (
	"fmt"
	"strings"

	"github.com/andyballingall/stacv/internal/fetch"
)

// formatValue implements pflag.Value to provide a custom type name in help text
// and validation for output formats.
type formatValue string

func (f *formatValue) String() string {
	return string(*f)
}

func (f *formatValue) Set(v string) error {
	if v != "json" && v != "text" {
		return fmt.Errorf("must be 'text' or 'json'")
	}
	*f = formatValue(v)
	return nil
}

func (f *formatValue) Type() string {
	return "<format>"
}

// pathValue implements pflag.Value to provide a custom type name in help text.
type pathValue string

func (p *pathValue) String() string {
	return string(*p)
}

func (p *pathValue) Set(v string) error {
	*p = pathValue(v)
	return nil
}

func (p *pathValue) Type() string {
	return "<path>"
}

// mirrorValue collects repeated --mirror prefix=dir flags.
type mirrorValue []fetch.Mirror

func (m *mirrorValue) String() string {
	parts := make([]string, len(*m))
	for i, mm := range *m {
		parts[i] = mm.Prefix + "=" + mm.Dir
	}
	return strings.Join(parts, ",")
}

func (m *mirrorValue) Set(v string) error {
	prefix, dir, ok := strings.Cut(v, "=")
	if !ok || prefix == "" || dir == "" {
		return fmt.Errorf("must be <prefix>=<dir>")
	}
	*m = append(*m, fetch.Mirror{Prefix: prefix, Dir: dir})
	return nil
}

func (m *mirrorValue) Type() string {
	return "<prefix=dir>"
}
