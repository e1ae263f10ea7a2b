package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/andyballingall/stacv/internal/fs"
)

const (
	LogFile   = ".stacv.log"
	LogEnvVar = "STACV_LOG_FILE"
)

// logPath is $STACV_LOG_FILE, or .stacv.log in dir.
func logPath(dir string, envp fs.EnvProvider) string {
	if p := envp.Get(LogEnvVar); p != "" {
		return p
	}
	return filepath.Join(dir, LogFile)
}

// newLogger writes every record as JSON to the file at path and plain lines at level
// to console. If the file cannot be opened the logger is console only and the error is
// returned with it. The close function is never nil.
func newLogger(console io.Writer, level *slog.LevelVar, path string) (*slog.Logger, func() error, error) {
	con := &consoleHandler{w: console, level: level}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return slog.New(con), func() error { return nil }, err
	}
	file := slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(teeHandler{file: file, console: con}), f.Close, nil
}

// teeHandler sends each record to the log file and the console.
type teeHandler struct {
	file    slog.Handler
	console slog.Handler
}

func (t teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return t.file.Enabled(ctx, level) || t.console.Enabled(ctx, level)
}

//nolint:gocritic // slog.Record is passed by value in the interface
func (t teeHandler) Handle(ctx context.Context, r slog.Record) error {
	var fileErr, consoleErr error
	if t.file.Enabled(ctx, r.Level) {
		fileErr = t.file.Handle(ctx, r.Clone())
	}
	if t.console.Enabled(ctx, r.Level) {
		consoleErr = t.console.Handle(ctx, r)
	}
	return errors.Join(fileErr, consoleErr)
}

func (t teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return teeHandler{file: t.file.WithAttrs(attrs), console: t.console.WithAttrs(attrs)}
}

func (t teeHandler) WithGroup(name string) slog.Handler {
	return teeHandler{file: t.file.WithGroup(name), console: t.console.WithGroup(name)}
}

// consoleHandler writes one line per record: a prefix for warnings and errors, the
// message, then any error attribute. Other attributes are shown at debug level only,
// and "component" never is. Groups are flattened.
type consoleHandler struct {
	w     io.Writer
	level *slog.LevelVar
	attrs []slog.Attr
}

func (c *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= c.level.Level()
}

//nolint:gocritic // slog.Record is passed by value in the interface
func (c *consoleHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	switch {
	case r.Level >= slog.LevelError:
		b.WriteString("Error: ")
	case r.Level >= slog.LevelWarn:
		b.WriteString("Warning: ")
	}
	b.WriteString(r.Message)

	debug := c.level.Level() <= slog.LevelDebug
	write := func(a slog.Attr) bool {
		switch {
		case a.Key == "error" || a.Key == "err":
			fmt.Fprintf(&b, ": %v", a.Value)
		case a.Key == "component" || !debug:
		default:
			fmt.Fprintf(&b, " %s=%v", a.Key, a.Value)
		}
		return true
	}
	for _, a := range c.attrs {
		write(a)
	}
	r.Attrs(write)
	b.WriteByte('\n')

	// One write per record keeps lines whole when documents are validated concurrently.
	_, err := io.WriteString(c.w, b.String())
	return err
}

func (c *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &consoleHandler{w: c.w, level: c.level, attrs: slices.Concat(c.attrs, attrs)}
}

func (c *consoleHandler) WithGroup(string) slog.Handler {
	return c
}
