package fs

import "path/filepath"

// CanonicalPath returns path made absolute with every symlink resolved, so that two
// names for one directory compare equal. The path must exist.
func CanonicalPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
