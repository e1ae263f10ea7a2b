package schema

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/andyballingall/stacv/internal/fetch"
	"github.com/andyballingall/stacv/internal/stac"
)

var errOffline = errors.New("network disabled in tests")

// meta is a stac.Meta for documents that only need to be resolved.
type meta struct {
	version string
	kind    stac.Kind
	exts    []string
}

func (m meta) StacVersion() string          { return m.version }
func (m meta) DeclaredType() stac.Kind      { return m.kind }
func (m meta) DeclaredExtensions() []string { return m.exts }

// recordingFetcher serves schemas from a testdata mirror and records every URI requested.
type recordingFetcher struct {
	mu      sync.Mutex
	fetched []string
	next    fetch.Fetcher
}

// newRecordingFetcher serves the trimmed fixture schemas in testdata/mirror.
func newRecordingFetcher() *recordingFetcher {
	return newMirrorFetcher("testdata/mirror")
}

// newPublishedFetcher serves the published v1.0.0 schemas in testdata/published.
func newPublishedFetcher() *recordingFetcher {
	return newMirrorFetcher("testdata/published")
}

func newMirrorFetcher(dir string) *recordingFetcher {
	offline := fetch.FetcherFunc(func(_ context.Context, uri string) ([]byte, error) {
		return nil, &fetch.FetchError{URI: uri, Err: errOffline}
	})
	return &recordingFetcher{
		next: &fetch.MirrorFetcher{
			Mirrors: []fetch.Mirror{{Prefix: "https://", Dir: dir}},
			Next:    offline,
		},
	}
}

func (r *recordingFetcher) Fetch(ctx context.Context, uri string) ([]byte, error) {
	r.mu.Lock()
	r.fetched = append(r.fetched, uri)
	r.mu.Unlock()
	return r.next.Fetch(ctx, uri)
}

func (r *recordingFetcher) Fetched() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.fetched...)
}

func decode(t *testing.T, doc string) stac.Object {
	t.Helper()
	obj, err := stac.Decode([]byte(doc))
	require.NoError(t, err)
	return obj
}

const rc1EOItem = `{
	"stac_version": "1.0.0-rc.1",
	"stac_extensions": ["eo"],
	"type": "Feature",
	"id": "rc1-item",
	"geometry": null,
	"properties": {"datetime": "2020-12-14T18:02:31Z", "eo:cloud_cover": 12.5},
	"links": [],
	"assets": {}
}`

const v1EOItem = `{
	"stac_version": "1.0.0",
	"stac_extensions": ["https://stac-extensions.github.io/eo/v1.0.0/schema.json"],
	"type": "Feature",
	"id": "v1-item",
	"geometry": {"type": "Point", "coordinates": [1, 2]},
	"bbox": [1, 2, 1, 2],
	"properties": {"datetime": "2020-12-14T18:02:31Z", "eo:cloud_cover": 3},
	"links": [{"rel": "self", "href": "./item.json"}],
	"assets": {"data": {"href": "./data.tif"}}
}`
