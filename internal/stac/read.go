package stac

import (
	"context"
	"fmt"
	"os"

	"github.com/andyballingall/stacv/internal/fetch"
)

// ReadFile decodes the document stored at path.
func ReadFile(path string) (Object, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Object{}, err
	}
	return Decode(b)
}

// Read fetches and decodes the document at uri, which may be a URL or a local path.
func Read(ctx context.Context, f fetch.Fetcher, uri string) (Object, error) {
	b, err := f.Fetch(ctx, uri)
	if err != nil {
		return Object{}, err
	}
	obj, err := Decode(b)
	if err != nil {
		return Object{}, fmt.Errorf("%s: %w", uri, err)
	}
	return obj, nil
}

// ResolveLink fetches and decodes the document a link points at.
func ResolveLink(ctx context.Context, f fetch.Fetcher, l Link) (Object, error) {
	return Read(ctx, f, l.Href)
}
