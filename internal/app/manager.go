package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/andyballingall/stacv/internal/config"
	"github.com/andyballingall/stacv/internal/fetch"
	"github.com/andyballingall/stacv/internal/fs"
	"github.com/andyballingall/stacv/internal/report"
	"github.com/andyballingall/stacv/internal/schema"
	"github.com/andyballingall/stacv/internal/stac"
)

// ValidateOptions carries the validate command's settings after config file,
// environment and flags have been merged.
type ValidateOptions struct {
	Verbose        bool
	Format         string
	UseColour      bool
	FailFast       bool
	StrictTemporal bool
	Concurrency    int
	// Mirrors are added to the ones from the config file.
	Mirrors  []fetch.Mirror
	Progress bool
}

// Manager defines the operations behind the CLI commands.
type Manager interface {
	Config() *config.Config
	Validate(ctx context.Context, inputs []string, opts ValidateOptions) error
	WatchValidation(ctx context.Context, inputs []string, opts ValidateOptions, readyChan chan<- struct{}) error
	Resolve(ctx context.Context, input string) (schema.Resolution, error)
	RoundTrip(ctx context.Context, input string) ([]byte, error)
}

// Ensure the interface is satisfied.
var _ Manager = (*LazyManager)(nil)

// LazyManager acts as a placeholder for a real Manager implementation, allowing
// for deferred initialization of dependencies.
type LazyManager struct {
	inner   Manager
	release func() error
}

// SetInner installs m. release, if not nil, frees what m was built with, such as the
// log file, and is called by Close.
func (l *LazyManager) SetInner(m Manager, release func() error) {
	l.inner = m
	l.release = release
}

// Close calls the release function given to SetInner, once.
func (l *LazyManager) Close() error {
	release := l.release
	l.release = nil
	if release == nil {
		return nil
	}
	return release()
}

// HasInner returns true if the inner manager has been set.
// This is used by PersistentPreRunE to skip initialization if already configured (e.g., in tests).
func (l *LazyManager) HasInner() bool {
	return l.inner != nil
}

func (l *LazyManager) check() Manager {
	if l.inner == nil {
		panic("LazyManager accessed before initialization; check command wiring.")
	}
	return l.inner
}

func (l *LazyManager) Config() *config.Config {
	return l.check().Config()
}

func (l *LazyManager) Validate(ctx context.Context, inputs []string, opts ValidateOptions) error {
	return l.check().Validate(ctx, inputs, opts)
}

func (l *LazyManager) WatchValidation(ctx context.Context, inputs []string, opts ValidateOptions,
	readyChan chan<- struct{},
) error {
	return l.check().WatchValidation(ctx, inputs, opts, readyChan)
}

func (l *LazyManager) Resolve(ctx context.Context, input string) (schema.Resolution, error) {
	return l.check().Resolve(ctx, input)
}

func (l *LazyManager) RoundTrip(ctx context.Context, input string) ([]byte, error) {
	return l.check().RoundTrip(ctx, input)
}

// Ensure the interface is satisfied.
var _ Manager = (*CLIManager)(nil)

// CLIManager is the concrete implementation of the Manager interface.
type CLIManager struct {
	logger         *slog.Logger
	cfg            *config.Config
	newFetcher     func(fetch.Options) fetch.Fetcher
	reporterWriter io.Writer
	progressWriter io.Writer
}

func NewCLIManager(l *slog.Logger, cfg *config.Config, stdout, stderr io.Writer) *CLIManager {
	return &CLIManager{
		logger:         l,
		cfg:            cfg,
		newFetcher:     fetch.New,
		reporterWriter: stdout,
		progressWriter: stderr,
	}
}

func (m *CLIManager) Config() *config.Config {
	return m.cfg
}

func (m *CLIManager) fetcher(extra []fetch.Mirror) fetch.Fetcher {
	opts := m.cfg.FetchOptions()
	opts.Mirrors = append(slices.Clone(extra), opts.Mirrors...)
	return m.newFetcher(opts)
}

func (m *CLIManager) newRunner(opts ValidateOptions) *schema.Runner {
	f := m.fetcher(opts.Mirrors)
	v := schema.NewValidator(f,
		schema.WithConcurrency(opts.Concurrency),
		schema.WithStrictTemporal(opts.StrictTemporal),
		schema.WithLogger(m.logger),
	)
	r := schema.NewRunner(v, m.logger)
	r.SetSource(f)
	r.SetStopOnFirstError(opts.FailFast)
	r.SetVerbose(opts.Verbose)
	r.SetNumWorkers(opts.Concurrency)
	return r
}

func (m *CLIManager) reporter(opts ValidateOptions) schema.Reporter {
	if opts.Format == "json" {
		return &report.JSONReporter{}
	}
	// Colour only reaches terminals.
	return &report.TextReporter{Verbose: opts.Verbose, UseColour: opts.UseColour && isTerminal(m.reporterWriter)}
}

// Validate validates every document named by inputs and writes a report. It returns
// an *InvalidDocumentsError when any document is invalid.
func (m *CLIManager) Validate(ctx context.Context, inputs []string, opts ValidateOptions) error {
	m.logger.Debug("validating documents", "inputs", inputs, "verbose", opts.Verbose,
		"format", opts.Format, "failFast", opts.FailFast, "strictTemporal", opts.StrictTemporal,
		"concurrency", opts.Concurrency)

	paths, err := expandInputs(inputs)
	if err != nil {
		return err
	}
	return m.validatePaths(ctx, paths, opts)
}

func (m *CLIManager) validatePaths(ctx context.Context, paths []string, opts ValidateOptions) error {
	stop := startProgress(m.progressWriter, opts.Progress,
		fmt.Sprintf("Validating %d file(s)", len(paths)))
	rep, err := m.newRunner(opts).ValidateFiles(ctx, paths)
	stop()
	if err != nil {
		return err
	}

	if wErr := m.reporter(opts).Write(m.reporterWriter, rep); wErr != nil {
		return wErr
	}
	if !rep.OK() {
		return &InvalidDocumentsError{Invalid: len(rep.Failed()), Total: len(rep.Results)}
	}
	return nil
}

// WatchValidation validates inputs once and then again for each changed document until
// ctx is cancelled. If you want to know when the watcher is ready to start listening to
// changes, pass a non-nil readyChan to be notified.
func (m *CLIManager) WatchValidation(ctx context.Context, inputs []string, opts ValidateOptions,
	readyChan chan<- struct{},
) error {
	m.logger.Debug("watching validation", "inputs", inputs)

	roots, err := watchRoots(inputs)
	if err != nil {
		return err
	}
	opts.Progress = false

	if vErr := m.Validate(ctx, inputs, opts); vErr != nil {
		m.logger.Error("Validation failed", "error", vErr)
	}

	watcher := schema.NewWatcher(roots, m.logger)
	callback := func(event schema.WatchEvent) {
		m.logger.Info("Documents changed:", "paths", event.Paths)
		if vErr := m.validatePaths(ctx, event.Paths, opts); vErr != nil {
			m.logger.Error("Validation failed", "error", vErr)
		}
	}

	// Forward watcher Ready signal if caller wants notification
	if readyChan != nil {
		go func() {
			<-watcher.Ready
			readyChan <- struct{}{}
		}()
	}

	return watcher.Watch(ctx, callback)
}

// Resolve reports which schemas apply to the document at input.
func (m *CLIManager) Resolve(ctx context.Context, input string) (schema.Resolution, error) {
	m.logger.Debug("resolving schemas", "input", input)
	obj, err := stac.Read(ctx, m.fetcher(nil), input)
	if err != nil {
		return schema.Resolution{}, err
	}
	return schema.NewResolver().Explain(obj)
}

// RoundTrip decodes the document at input and returns its canonical encoding.
func (m *CLIManager) RoundTrip(ctx context.Context, input string) ([]byte, error) {
	m.logger.Debug("re-encoding document", "input", input)
	b, err := m.fetcher(nil).Fetch(ctx, input)
	if err != nil {
		return nil, err
	}
	return stac.Reencode(b)
}

// expandInputs expands local paths and globs. URLs are kept as given, after the local
// files.
func expandInputs(inputs []string) ([]string, error) {
	var local, remote []string
	for _, in := range inputs {
		if fetch.IsRemote(in) {
			remote = append(remote, in)
		} else {
			local = append(local, in)
		}
	}
	var paths []string
	if len(local) > 0 {
		expanded, err := fs.ExpandPatterns(local)
		if err != nil {
			return nil, err
		}
		paths = expanded
	}
	return append(paths, remote...), nil
}

// watchRoots maps inputs to what the watcher observes: files and directories as
// given, and the matches of a glob. Roots are canonicalised and duplicates dropped.
func watchRoots(inputs []string) ([]string, error) {
	var candidates []string
	for _, in := range inputs {
		switch {
		case fetch.IsRemote(in):
			return nil, &WatchURLError{URL: in}
		case fs.ContainsGlob(in):
			matches, err := fs.ExpandPatterns([]string{in})
			if err != nil {
				return nil, err
			}
			candidates = append(candidates, matches...)
		default:
			candidates = append(candidates, in)
		}
	}

	seen := make(map[string]bool, len(candidates))
	roots := make([]string, 0, len(candidates))
	for _, c := range candidates {
		root, err := fs.CanonicalPath(c)
		if err != nil {
			return nil, err
		}
		if !seen[root] {
			seen[root] = true
			roots = append(roots, root)
		}
	}
	return roots, nil
}
