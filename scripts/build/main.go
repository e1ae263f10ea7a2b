// Package main builds the stacv binary into bin/, stamping the version from git.
package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

const versionVar = "github.com/andyballingall/stacv/internal/app.Version"

func main() {
	binaryName := "stacv"
	if runtime.GOOS == "windows" {
		binaryName += ".exe"
	}
	version := gitVersion()

	if err := os.MkdirAll("bin", 0o755); err != nil {
		fmt.Printf("❌ Failed to create bin directory: %v\n", err)
		os.Exit(1)
	}

	outputPath := filepath.Join("bin", binaryName)
	fmt.Printf("Building stacv %s...\n", version)

	ldflags := fmt.Sprintf("-s -w -X %s=%s", versionVar, version)
	cmd := exec.CommandContext(context.Background(), "go", "build", "-trimpath", "-ldflags", ldflags,
		"-o", outputPath, "./cmd/stacv")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		fmt.Printf("❌ Build failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Build complete: %s\n", outputPath)
}

// gitVersion describes HEAD, or returns "dev" outside a git checkout.
func gitVersion() string {
	var out bytes.Buffer
	cmd := exec.CommandContext(context.Background(), "git", "describe", "--tags", "--always", "--dirty")
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "dev"
	}
	return strings.TrimSpace(out.String())
}
