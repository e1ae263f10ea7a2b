package fetch

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Mirror maps every URI under Prefix to a file under Dir. Mirrors let validation run
// without network access against a local copy of the published schemas.
type Mirror struct {
	Prefix string
	Dir    string
}

// MirrorFetcher serves URIs from the longest matching mirror and hands the rest to Next.
// A URI that matches a mirror but has no file there also falls through to Next.
type MirrorFetcher struct {
	Mirrors []Mirror
	Next    Fetcher
}

func (m *MirrorFetcher) Fetch(ctx context.Context, uri string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &FetchError{URI: uri, Err: err}
	}
	if path, ok := m.lookup(uri); ok {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			return b, nil
		case !errors.Is(err, fs.ErrNotExist):
			return nil, &FetchError{URI: uri, Err: err}
		}
	}
	if m.Next == nil {
		return nil, &FetchError{URI: uri, Err: fs.ErrNotExist}
	}
	return m.Next.Fetch(ctx, uri)
}

func (m *MirrorFetcher) lookup(uri string) (string, bool) {
	best := -1
	for i, mir := range m.Mirrors {
		if !strings.HasPrefix(uri, mir.Prefix) {
			continue
		}
		if best < 0 || len(mir.Prefix) > len(m.Mirrors[best].Prefix) {
			best = i
		}
	}
	if best < 0 {
		return "", false
	}
	mir := m.Mirrors[best]
	rest := strings.TrimPrefix(strings.TrimPrefix(uri, mir.Prefix), "/")
	if i := strings.IndexAny(rest, "?#"); i >= 0 {
		rest = rest[:i]
	}
	dir := filepath.Clean(mir.Dir)
	p := filepath.Join(dir, filepath.FromSlash(rest))
	if p != dir && !strings.HasPrefix(p, dir+string(filepath.Separator)) {
		return "", false
	}
	return p, true
}
