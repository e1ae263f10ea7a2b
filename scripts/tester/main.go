// Package main runs the test suite and optionally enforces a coverage floor.
//
//	go run ./scripts/tester                 run all tests
//	go run ./scripts/tester --race          with the race detector
//	go run ./scripts/tester --min=85        fail when total coverage is below 85%
//	go run ./scripts/tester --summary       print per-function coverage
//	go run ./scripts/tester --html          open the coverage report in a browser
package main

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

const coverageFile = "coverage.out"

type options struct {
	race     bool
	summary  bool
	html     bool
	min      float64
	goArgs   []string
	coverage bool
}

func main() {
	opts, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(2)
	}

	testArgs := []string{"./..."}
	if opts.race {
		testArgs = append(testArgs, "-race")
	}
	if opts.coverage {
		testArgs = append(testArgs, "-coverprofile="+coverageFile, "-coverpkg=./internal/...")
	}
	testArgs = append(testArgs, opts.goArgs...)

	if _, lookErr := exec.LookPath("gotestsum"); lookErr == nil {
		run("gotestsum", append([]string{"--"}, testArgs...)...)
	} else {
		run("go", append([]string{"test"}, testArgs...)...)
	}

	switch {
	case opts.summary:
		run("go", "tool", "cover", "-func", coverageFile)
	case opts.html:
		run("go", "tool", "cover", "-html", coverageFile)
	}
	if opts.min > 0 {
		checkTotal(opts.min)
	}
}

func parseArgs(args []string) (options, error) {
	var opts options
	for _, arg := range args {
		switch {
		case arg == "--race":
			opts.race = true
		case arg == "--summary":
			opts.summary = true
		case arg == "--html":
			opts.html = true
		case strings.HasPrefix(arg, "--min="):
			v, err := strconv.ParseFloat(strings.TrimPrefix(arg, "--min="), 64)
			if err != nil || v < 0 || v > 100 {
				return opts, fmt.Errorf("--min must be a percentage, got %q", arg)
			}
			opts.min = v
		default:
			opts.goArgs = append(opts.goArgs, arg)
		}
	}
	opts.coverage = opts.summary || opts.html || opts.min > 0
	return opts, nil
}

func run(name string, args ...string) {
	cmd := exec.CommandContext(context.Background(), name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		fmt.Printf("❌ %s failed: %v\n", name, err)
		os.Exit(1)
	}
}

func checkTotal(minimum float64) {
	var out bytes.Buffer
	cmd := exec.CommandContext(context.Background(), "go", "tool", "cover", "-func", coverageFile)
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		fmt.Printf("❌ Error running go tool cover: %v\n", err)
		os.Exit(1)
	}

	total, err := totalCoverage(out.Bytes())
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}
	if total < minimum {
		fmt.Printf("❌ Coverage %.1f%% is below the %.1f%% floor\n", total, minimum)
		os.Exit(1)
	}
	fmt.Printf("✅ Coverage %.1f%% (floor %.1f%%)\n", total, minimum)
}

// totalCoverage reads the percentage from the "total:" line of go tool cover -func.
func totalCoverage(output []byte) (float64, error) {
	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "total:") {
			continue
		}
		fields := strings.Fields(line)
		pct := strings.TrimSuffix(fields[len(fields)-1], "%")
		return strconv.ParseFloat(pct, 64)
	}
	return 0, fmt.Errorf("no total line in coverage output")
}
