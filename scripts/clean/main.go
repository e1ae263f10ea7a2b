// Package main removes build output, coverage profiles and stacv log files.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

var (
	dirs     = []string{"bin"}
	patterns = []string{".stacv.log", "coverage*", "*.out", "*.test", "*.coverprofile"}
)

func main() {
	for _, dir := range dirs {
		remove(dir, os.RemoveAll)
	}
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			fmt.Printf("❌ Bad pattern %s: %v\n", pattern, err)
			continue
		}
		for _, match := range matches {
			remove(match, os.Remove)
		}
	}
}

func remove(path string, rm func(string) error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return
	}
	if err := rm(path); err != nil {
		fmt.Printf("❌ Failed to remove %s: %v\n", path, err)
		return
	}
	fmt.Printf("✅ Removed %s\n", path)
}
