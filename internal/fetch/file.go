package fetch

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// FileFetcher reads file:// URIs and plain filesystem paths.
type FileFetcher struct {
	// Root, when set, is joined to relative paths.
	Root string
}

func (f *FileFetcher) Fetch(ctx context.Context, uri string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &FetchError{URI: uri, Err: err}
	}
	path, err := f.path(uri)
	if err != nil {
		return nil, &FetchError{URI: uri, Err: err}
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, &FetchError{URI: uri, Err: err}
	}
	return b, nil
}

func (f *FileFetcher) path(uri string) (string, error) {
	p := uri
	if strings.HasPrefix(uri, "file://") {
		u, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		p = u.Path
	}
	p = filepath.FromSlash(p)
	if f.Root != "" && !filepath.IsAbs(p) {
		p = filepath.Join(f.Root, p)
	}
	return p, nil
}
