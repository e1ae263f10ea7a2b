package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/andyballingall/stacv/internal/config"
	"github.com/andyballingall/stacv/internal/fetch"
	"github.com/andyballingall/stacv/internal/fs"
)

const validItem = `{
	"stac_version": "1.0.0",
	"stac_extensions": ["https://stac-extensions.github.io/eo/v1.0.0/schema.json"],
	"type": "Feature",
	"id": "item-1",
	"geometry": {"type": "Point", "coordinates": [1, 2]},
	"properties": {"datetime": "2020-12-14T18:02:31Z", "eo:cloud_cover": 3},
	"links": [],
	"assets": {}
}`

var errNoNetwork = errors.New("network disabled in tests")

// syncBuffer is a bytes.Buffer that the watcher goroutine and the test can share.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func mirrorDir(t *testing.T, host string) string {
	t.Helper()
	dir, err := filepath.Abs(filepath.Join("..", "schema", "testdata", "mirror", host))
	require.NoError(t, err)
	return dir
}

// newTestManager returns a CLIManager that serves the published schemas from the schema
// package's test mirror and has no network access.
func newTestManager(t *testing.T, out io.Writer) *CLIManager {
	t.Helper()
	cfg := config.Default()
	cfg.Mirrors = []config.Mirror{
		{Prefix: "https://schemas.stacspec.org/", Dir: mirrorDir(t, "schemas.stacspec.org")},
		{Prefix: "https://stac-extensions.github.io/", Dir: mirrorDir(t, "stac-extensions.github.io")},
	}
	m := NewCLIManager(slog.New(slog.DiscardHandler), cfg, out, io.Discard)
	m.newFetcher = func(opts fetch.Options) fetch.Fetcher {
		offline := fetch.FetcherFunc(func(_ context.Context, uri string) ([]byte, error) {
			return nil, &fetch.FetchError{URI: uri, Err: errNoNetwork}
		})
		return &fetch.MirrorFetcher{
			Mirrors: opts.Mirrors,
			Next:    &fetch.SchemeFetcher{Remote: offline, Local: &fetch.FileFetcher{}},
		}
	}
	return m
}

func writeDoc(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func textOpts() ValidateOptions {
	return ValidateOptions{Format: "text", FailFast: false, Concurrency: 2}
}

func TestCLIManager_Validate(t *testing.T) {
	t.Parallel()

	badItem := strings.Replace(validItem, `"eo:cloud_cover": 3`, `"eo:cloud_cover": "cloudy"`, 1)

	t.Run("valid documents", func(t *testing.T) {
		t.Parallel()
		var out bytes.Buffer
		m := newTestManager(t, &out)
		dir := t.TempDir()
		writeDoc(t, dir, "a/item.json", validItem)
		writeDoc(t, dir, "b/item.json", validItem)

		require.NoError(t, m.Validate(context.Background(), []string{dir}, textOpts()))
		assert.Contains(t, out.String(), "Validation summary: 2 valid, 0 invalid")
	})

	t.Run("invalid document, verbose", func(t *testing.T) {
		t.Parallel()
		var out bytes.Buffer
		m := newTestManager(t, &out)
		dir := t.TempDir()
		good := writeDoc(t, dir, "good.json", validItem)
		bad := writeDoc(t, dir, "bad.json", badItem)

		opts := textOpts()
		opts.Verbose = true
		err := m.Validate(context.Background(), []string{good, bad}, opts)
		var target *InvalidDocumentsError
		require.ErrorAs(t, err, &target)
		assert.Equal(t, 1, target.Invalid)
		assert.Equal(t, 2, target.Total)
		assert.Contains(t, out.String(), "[FAIL] "+bad+" (item-1)")
		assert.Contains(t, out.String(), "/properties/eo:cloud_cover")
		assert.Contains(t, out.String(), "[PASS] "+good)
	})

	t.Run("json output", func(t *testing.T) {
		t.Parallel()
		var out bytes.Buffer
		m := newTestManager(t, &out)
		dir := t.TempDir()
		writeDoc(t, dir, "bad.json", badItem)

		opts := textOpts()
		opts.Format = "json"
		opts.Verbose = true
		err := m.Validate(context.Background(), []string{filepath.Join(dir, "*.json")}, opts)
		require.Error(t, err)

		b := out.Bytes()
		assert.Equal(t, int64(1), gjson.GetBytes(b, "stats.invalid").Int())
		assert.Equal(t, "item-1", gjson.GetBytes(b, "results.0.id").String())
		assert.Equal(t, "/properties/eo:cloud_cover",
			gjson.GetBytes(b, "results.0.violations.0.instance").String())
	})

	t.Run("strict temporal", func(t *testing.T) {
		t.Parallel()
		var out bytes.Buffer
		m := newTestManager(t, &out)
		doc := strings.Replace(validItem, `"datetime": "2020-12-14T18:02:31Z"`,
			`"datetime": null, "start_datetime": "2021-01-01T00:00:00Z", "end_datetime": "2020-01-01T00:00:00Z"`, 1)
		path := writeDoc(t, t.TempDir(), "item.json", doc)

		require.NoError(t, m.Validate(context.Background(), []string{path}, textOpts()))

		opts := textOpts()
		opts.StrictTemporal = true
		opts.Verbose = true
		require.Error(t, m.Validate(context.Background(), []string{path}, opts))
		assert.Contains(t, out.String(), "/properties/")
	})

	t.Run("mirrors from options", func(t *testing.T) {
		t.Parallel()
		var out bytes.Buffer
		m := newTestManager(t, &out)
		m.cfg.Mirrors = nil
		path := writeDoc(t, t.TempDir(), "item.json", validItem)

		err := m.Validate(context.Background(), []string{path}, textOpts())
		require.ErrorIs(t, err, errNoNetwork)

		opts := textOpts()
		opts.Mirrors = []fetch.Mirror{
			{Prefix: "https://schemas.stacspec.org/", Dir: mirrorDir(t, "schemas.stacspec.org")},
			{Prefix: "https://stac-extensions.github.io/", Dir: mirrorDir(t, "stac-extensions.github.io")},
		}
		require.NoError(t, m.Validate(context.Background(), []string{path}, opts))
	})

	t.Run("missing input", func(t *testing.T) {
		t.Parallel()
		m := newTestManager(t, io.Discard)
		err := m.Validate(context.Background(), []string{filepath.Join(t.TempDir(), "nope.json")}, textOpts())
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("glob without matches", func(t *testing.T) {
		t.Parallel()
		m := newTestManager(t, io.Discard)
		err := m.Validate(context.Background(), []string{filepath.Join(t.TempDir(), "*.json")}, textOpts())
		var target *fs.NoMatchError
		require.ErrorAs(t, err, &target)
	})
}

func TestCLIManager_WatchValidation(t *testing.T) {
	t.Parallel()

	t.Run("validates again after a change", func(t *testing.T) {
		t.Parallel()
		out := &syncBuffer{}
		m := newTestManager(t, out)
		dir := t.TempDir()
		path := writeDoc(t, dir, "item.json", validItem)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		ready := make(chan struct{}, 1)
		errCh := make(chan error, 1)
		go func() {
			errCh <- m.WatchValidation(ctx, []string{dir}, textOpts(), ready)
		}()

		select {
		case <-ready:
		case <-time.After(5 * time.Second):
			t.Fatal("watcher did not start")
		}
		assert.Contains(t, out.String(), "1 valid, 0 invalid")

		bad := strings.Replace(validItem, `"eo:cloud_cover": 3`, `"eo:cloud_cover": 300`, 1)
		require.NoError(t, os.WriteFile(path, []byte(bad), 0o600))

		require.Eventually(t, func() bool {
			return strings.Contains(out.String(), "0 valid, 1 invalid")
		}, 5*time.Second, 50*time.Millisecond)

		cancel()
		require.ErrorIs(t, <-errCh, context.Canceled)
	})

	t.Run("every document changed together is validated again", func(t *testing.T) {
		t.Parallel()
		out := &syncBuffer{}
		m := newTestManager(t, out)
		dir := t.TempDir()
		a := writeDoc(t, dir, "a.json", validItem)
		b := writeDoc(t, dir, "b.json", validItem)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		ready := make(chan struct{}, 1)
		errCh := make(chan error, 1)
		go func() {
			errCh <- m.WatchValidation(ctx, []string{dir}, textOpts(), ready)
		}()
		select {
		case <-ready:
		case <-time.After(5 * time.Second):
			t.Fatal("watcher did not start")
		}

		bad := strings.Replace(validItem, `"eo:cloud_cover": 3`, `"eo:cloud_cover": 300`, 1)
		require.NoError(t, os.WriteFile(a, []byte(bad), 0o600))
		require.NoError(t, os.WriteFile(b, []byte(bad), 0o600))

		require.Eventually(t, func() bool {
			s := out.String()
			return strings.Contains(s, "[FAIL] "+a) && strings.Contains(s, "[FAIL] "+b)
		}, 5*time.Second, 50*time.Millisecond)

		cancel()
		require.ErrorIs(t, <-errCh, context.Canceled)
	})

	t.Run("urls cannot be watched", func(t *testing.T) {
		t.Parallel()
		m := newTestManager(t, io.Discard)
		err := m.WatchValidation(context.Background(), []string{"https://example.com/item.json"}, textOpts(), nil)
		var target *WatchURLError
		require.ErrorAs(t, err, &target)
	})
}

func TestCLIManager_Resolve(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, io.Discard)
	doc := `{"stac_version":"1.0.0-rc.1","stac_extensions":["eo","landsat"],"type":"Feature","id":"x",
		"geometry":null,"properties":{"datetime":null},"links":[],"assets":{}}`
	path := writeDoc(t, t.TempDir(), "item.json", doc)

	res, err := m.Resolve(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://schemas.stacspec.org/v1.0.0-rc.1/item-spec/json-schema/item.json",
		"https://schemas.stacspec.org/v1.0.0-rc.1/extensions/eo/json-schema/schema.json",
	}, res.URIs())
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, "landsat", res.Skipped[0].Extension)

	_, err = m.Resolve(context.Background(), filepath.Join(t.TempDir(), "missing.json"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestCLIManager_RoundTrip(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, io.Discard)
	doc := `{"type":"Catalog","id":"c","description":"d","stac_version":"1.0.0","links":[],"x-custom":{"a":[1,2]}}`
	path := writeDoc(t, t.TempDir(), "catalog.json", doc)

	out, err := m.RoundTrip(context.Background(), path)
	require.NoError(t, err)
	assert.JSONEq(t, doc, string(out))
	assert.True(t, strings.HasPrefix(string(out), `{"type":"Catalog"`))

	bad := writeDoc(t, t.TempDir(), "bad.json", `{"type":"Catalog"`)
	_, err = m.RoundTrip(context.Background(), bad)
	require.Error(t, err)
}

func TestExpandInputs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := writeDoc(t, dir, "a.json", "{}")
	b := writeDoc(t, dir, "sub/b.json", "{}")

	got, err := expandInputs([]string{"https://example.com/x.json", dir})
	require.NoError(t, err)
	assert.Equal(t, []string{a, b, "https://example.com/x.json"}, got)

	got, err = expandInputs([]string{"https://example.com/x.json"})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/x.json"}, got)
}

func TestWatchRoots(t *testing.T) {
	t.Parallel()

	dir, err := fs.CanonicalPath(t.TempDir())
	require.NoError(t, err)
	a := writeDoc(t, dir, "a.json", "{}")

	roots, err := watchRoots([]string{dir, filepath.Join(dir, "*.json"), a})
	require.NoError(t, err)
	assert.Equal(t, []string{dir, a}, roots, "duplicates are dropped")

	_, err = watchRoots([]string{filepath.Join(dir, "missing.json")})
	require.Error(t, err)
}
