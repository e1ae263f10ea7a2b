package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DocumentPattern selects the files validated when a directory is given as input.
const DocumentPattern = "**/*.json"

// NoMatchError reports a glob pattern that matched no files.
type NoMatchError struct {
	Pattern string
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("no files match pattern: %s", e.Pattern)
}

// ExpandPatterns turns command line inputs into a sorted, de-duplicated list of files.
// Each input may be a file, a directory (searched for DocumentPattern) or a doublestar
// glob such as "catalog/**/item-*.json".
func ExpandPatterns(patterns []string) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}

	for _, pattern := range patterns {
		matches, err := expand(pattern)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			add(m)
		}
	}
	slices.Sort(out)
	return out, nil
}

func expand(pattern string) ([]string, error) {
	if !ContainsGlob(pattern) {
		info, err := os.Stat(pattern)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			return []string{filepath.Clean(pattern)}, nil
		}
		return glob(filepath.Join(pattern, DocumentPattern), pattern)
	}
	return glob(pattern, pattern)
}

func glob(pattern, original string) ([]string, error) {
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", original, err)
	}
	if len(matches) == 0 {
		return nil, &NoMatchError{Pattern: original}
	}
	return matches, nil
}

// ContainsGlob reports whether pattern uses any glob metacharacters.
func ContainsGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}
