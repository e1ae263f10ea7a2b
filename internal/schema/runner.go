package schema

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/andyballingall/stacv/internal/fetch"
	"github.com/andyballingall/stacv/internal/stac"
)

// ErrStopValidating is a sentinel error used to signal that further validation should be
// stopped and the report shown.
var ErrStopValidating = errors.New("stopping after first invalid document")

// Runner validates a batch of files, each holding a Catalog, Collection, Item or
// FeatureCollection of Items.
type Runner struct {
	validator *Validator
	logger    *slog.Logger
	source    fetch.Fetcher

	stopOnFirstError bool
	verbose          bool
	numWorkers       int
}

// NewRunner creates a runner that uses v for each document.
func NewRunner(v *Validator, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{
		validator:        v,
		logger:           logger.With("component", "runner"),
		source:           &fetch.FileFetcher{},
		stopOnFirstError: false,
		numWorkers:       runtime.GOMAXPROCS(0),
	}
}

// SetStopOnFirstError controls whether the run stops at the first invalid document.
func (r *Runner) SetStopOnFirstError(b bool) {
	r.stopOnFirstError = b
}

// SetVerbose controls whether every violation of a document is collected, or only
// the fact that it failed.
func (r *Runner) SetVerbose(b bool) {
	r.verbose = b
}

// SetSource replaces the fetcher used to read the documents themselves. By default
// inputs are local paths.
func (r *Runner) SetSource(f fetch.Fetcher) {
	if f != nil {
		r.source = f
	}
}

// SetNumWorkers controls how many files are validated in parallel.
func (r *Runner) SetNumWorkers(n int) {
	if n > 0 {
		r.numWorkers = n
	}
}

// ValidateFiles validates every document in paths. Invalid documents are recorded in the
// report; an error is returned only when validation itself could not be carried out,
// such as a schema that cannot be fetched, or when ctx is cancelled.
func (r *Runner) ValidateFiles(ctx context.Context, paths []string) (*Report, error) {
	report := NewReport()
	report.StartTime = time.Now()
	defer func() { report.EndTime = time.Now() }()

	runCtx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()

	var wg sync.WaitGroup
	sem := make(chan struct{}, r.numWorkers)

	var finalErr error
	var errOnce sync.Once

Loop:
	for _, path := range paths {
		select {
		case <-runCtx.Done():
			break Loop
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			defer func() { <-sem }()

			if err := r.validateFile(runCtx, path, report); err != nil {
				errOnce.Do(func() {
					if !errors.Is(err, ErrStopValidating) {
						finalErr = err
					}
					cancelRun()
				})
			}
		}(path)
	}

	wg.Wait()

	if ctx.Err() != nil {
		return report, ctx.Err()
	}
	if finalErr != nil {
		return report, finalErr
	}
	return report, nil
}

func (r *Runner) validateFile(ctx context.Context, path string, report *Report) error {
	b, err := r.source.Fetch(ctx, path)
	if err != nil {
		return err
	}

	objs, err := stac.DecodeDocuments(b)
	if err != nil {
		report.Add(Result{Source: path, Index: -1, Err: err})
		return r.stop()
	}

	for i, obj := range objs {
		if ce := ctx.Err(); ce != nil {
			return ce
		}
		res := Result{Source: path, Index: -1, ID: obj.ID(), Kind: obj.DeclaredType()}
		if len(objs) > 1 {
			res.Index = i
		}
		if err := r.validateObject(ctx, obj, &res); err != nil {
			return err
		}
		report.Add(res)
		r.logger.Debug("Validated document", "path", path, "id", res.ID, "valid", res.Valid())
		if !res.Valid() {
			if err := r.stop(); err != nil {
				return err
			}
		}
	}
	return nil
}

// validateObject fills in res. Problems with the document itself end up in res; only
// failures of the validation machinery are returned.
func (r *Runner) validateObject(ctx context.Context, obj stac.Object, res *Result) error {
	var vpe *VersionParseError
	if !r.verbose {
		ok, err := r.validator.IsValid(ctx, obj)
		switch {
		case errors.As(err, &vpe):
			res.Err = err
		case err != nil:
			return err
		case !ok:
			res.Violations = []Violation{{Message: "document does not satisfy its schemas"}}
		}
		return nil
	}

	err := r.validator.ValidateVerbose(ctx, obj)
	var ve *ViolationsError
	switch {
	case err == nil:
	case errors.As(err, &ve):
		res.Violations = ve.Violations
	case errors.As(err, &vpe):
		res.Err = err
	default:
		return err
	}
	return nil
}

func (r *Runner) stop() error {
	if r.stopOnFirstError {
		return ErrStopValidating
	}
	return nil
}
