// Package fetch retrieves schema and document bytes by URI.
package fetch

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrNotRemote is returned by RemoteOnly for URIs that are neither http nor https.
var ErrNotRemote = errors.New("not an http or https URI")

// Fetcher returns the bytes found at uri.
type Fetcher interface {
	Fetch(ctx context.Context, uri string) ([]byte, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, uri string) ([]byte, error)

func (f FetcherFunc) Fetch(ctx context.Context, uri string) ([]byte, error) {
	return f(ctx, uri)
}

// IsRemote reports whether uri has an http or https scheme.
func IsRemote(uri string) bool {
	return strings.HasPrefix(uri, "http://") || strings.HasPrefix(uri, "https://")
}

// SchemeFetcher sends http and https URIs to Remote and everything else to Local.
type SchemeFetcher struct {
	Remote Fetcher
	Local  Fetcher
}

func (s *SchemeFetcher) Fetch(ctx context.Context, uri string) ([]byte, error) {
	if IsRemote(uri) {
		return s.Remote.Fetch(ctx, uri)
	}
	return s.Local.Fetch(ctx, uri)
}

// RemoteOnly passes http and https URIs to Next and refuses the rest, so a schema
// location can never name a local file. Mirrors behind Next still apply.
type RemoteOnly struct {
	Next Fetcher
}

func (r *RemoteOnly) Fetch(ctx context.Context, uri string) ([]byte, error) {
	if !IsRemote(uri) {
		return nil, &FetchError{URI: uri, Err: ErrNotRemote}
	}
	return r.Next.Fetch(ctx, uri)
}

// Options configures the Fetcher built by New.
type Options struct {
	UserAgent string
	Timeout   time.Duration
	Mirrors   []Mirror
}

// New returns the standard fetcher: mirrors first, then the network or the local
// filesystem depending on the URI scheme.
func New(opts Options) Fetcher {
	base := &SchemeFetcher{
		Remote: NewHTTPFetcher(opts.Timeout, opts.UserAgent),
		Local:  &FileFetcher{},
	}
	if len(opts.Mirrors) == 0 {
		return base
	}
	return &MirrorFetcher{Mirrors: opts.Mirrors, Next: base}
}
