package schema

import (
	"cmp"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/andyballingall/stacv/internal/stac"
)

// Reporter defines the interface for creating formatted validation reports.
type Reporter interface {
	Write(w io.Writer, report *Report) error
}

// Result is the outcome of validating one document.
type Result struct {
	Source string
	// Index is the position of the document within a FeatureCollection, or -1.
	Index      int
	ID         string
	Kind       stac.Kind
	Violations []Violation
	// Err is set when the document could not be decoded or its stac_version is invalid.
	Err error
}

func (r Result) Valid() bool {
	return r.Err == nil && len(r.Violations) == 0
}

// Report collects the results of a validation run.
type Report struct {
	mu sync.Mutex

	StartTime time.Time
	EndTime   time.Time
	Results   []Result
}

func NewReport() *Report {
	return &Report{}
}

// Add records a result. It is safe for concurrent use.
func (r *Report) Add(res Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Results = append(r.Results, res)
}

// Sorted returns the results ordered by source and then position in the source.
func (r *Report) Sorted() []Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := slices.Clone(r.Results)
	slices.SortStableFunc(out, func(a, b Result) int {
		if c := cmp.Compare(a.Source, b.Source); c != 0 {
			return c
		}
		return cmp.Compare(a.Index, b.Index)
	})
	return out
}

// Passed returns the valid results, sorted.
func (r *Report) Passed() []Result {
	return r.filter(true)
}

// Failed returns the invalid results, sorted.
func (r *Report) Failed() []Result {
	return r.filter(false)
}

func (r *Report) filter(valid bool) []Result {
	var out []Result
	for _, res := range r.Sorted() {
		if res.Valid() == valid {
			out = append(out, res)
		}
	}
	return out
}

// OK reports whether every document in the run was valid.
func (r *Report) OK() bool {
	return len(r.Failed()) == 0
}

func (r *Report) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}
