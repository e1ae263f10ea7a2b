package schema

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	json "github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"github.com/andyballingall/stacv/internal/fetch"
	"github.com/andyballingall/stacv/internal/stac"
	"github.com/andyballingall/stacv/internal/validator"
)

// errSchemaFailed stops the remaining checks once a document is known to be invalid.
var errSchemaFailed = errors.New("document failed a schema")

// Violation is one way in which a document does not conform.
type Violation struct {
	// SchemaLocation is the schema the document failed. It is empty for the temporal
	// consistency check, which is not backed by a schema.
	SchemaLocation   string
	InstanceLocation string
	KeywordLocation  string
	Message          string
}

func (v Violation) String() string {
	at := v.InstanceLocation
	if at == "" {
		at = "/"
	}
	if v.SchemaLocation == "" {
		return fmt.Sprintf("%s: %s", at, v.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", at, v.Message, v.SchemaLocation)
}

// CompilerFactory returns a fresh compiler whose references are loaded with l.
type CompilerFactory func(l validator.Loader) validator.Compiler

// Validator checks documents against the schemas their stac_version and
// stac_extensions call for. Schemas are fetched for every call; nothing is cached.
// Schema locations and their references must be http or https URIs.
type Validator struct {
	fetcher        fetch.Fetcher
	resolver       *Resolver
	newCompiler    CompilerFactory
	concurrency    int
	strictTemporal bool
	logger         *slog.Logger
}

type Option func(*Validator)

func WithCompilerFactory(f CompilerFactory) Option {
	return func(v *Validator) {
		v.newCompiler = f
	}
}

// WithConcurrency sets how many schemas are fetched and checked at once. The default of
// 1 works through them one at a time in resolution order.
func WithConcurrency(n int) Option {
	return func(v *Validator) {
		if n > 0 {
			v.concurrency = n
		}
	}
}

// WithStrictTemporal adds the timestamp consistency rules of CommonMetadata.CheckTemporal
// to every Item validation.
func WithStrictTemporal(strict bool) Option {
	return func(v *Validator) {
		v.strictTemporal = strict
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(v *Validator) {
		if l != nil {
			v.logger = l
		}
	}
}

func NewValidator(f fetch.Fetcher, opts ...Option) *Validator {
	v := &Validator{
		fetcher:  &fetch.RemoteOnly{Next: f},
		resolver: NewResolver(),
		newCompiler: func(l validator.Loader) validator.Compiler {
			return validator.NewSanthoshCompiler(validator.WithLoader(l))
		},
		concurrency: 1,
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, o := range opts {
		o(v)
	}
	v.logger = v.logger.With("component", "validator")
	return v
}

// IsValid reports whether obj satisfies every schema that applies to it. It stops at the
// first failing schema. A document that fails is not an error; an error means the
// question could not be answered.
func (v *Validator) IsValid(ctx context.Context, obj stac.Object) (bool, error) {
	violations, err := v.run(ctx, obj, true)
	if err != nil {
		return false, err
	}
	return len(violations) == 0, nil
}

// ValidateVerbose checks obj against every applicable schema and returns a
// *ViolationsError listing all failures, ordered by schema and then by instance location.
func (v *Validator) ValidateVerbose(ctx context.Context, obj stac.Object) error {
	violations, err := v.run(ctx, obj, false)
	if err != nil {
		return err
	}
	if len(violations) > 0 {
		return &ViolationsError{Violations: violations}
	}
	return nil
}

func (v *Validator) run(ctx context.Context, obj stac.Object, failFast bool) ([]Violation, error) {
	locs, err := v.resolver.Resolve(obj)
	if err != nil {
		return nil, err
	}

	var temporal []Violation
	if v.strictTemporal {
		temporal = temporalViolations(obj)
		if failFast && len(temporal) > 0 {
			return temporal, nil
		}
	}

	raw, err := json.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("encoding %s %s: %w", obj.DeclaredType(), obj.ID(), err)
	}
	instance, err := validator.ParseJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("encoding %s %s: %w", obj.DeclaredType(), obj.ID(), err)
	}

	results := make([][]Violation, len(locs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(v.concurrency)

	for i, loc := range locs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			vs, err := v.check(gctx, loc, instance)
			if err != nil {
				return err
			}
			results[i] = vs
			if failFast && len(vs) > 0 {
				return errSchemaFailed
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, errSchemaFailed) {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var out []Violation
	for _, vs := range results {
		out = append(out, vs...)
	}
	return append(out, temporal...), nil
}

// check fetches and compiles the schema at loc and validates instance against it.
func (v *Validator) check(ctx context.Context, loc Location, instance validator.JSONDocument) ([]Violation, error) {
	uri, _, _ := strings.Cut(loc.URI, "#")
	logger := v.logger.With("schema", uri)

	logger.Debug("Fetching schema")
	b, err := v.fetcher.Fetch(ctx, uri)
	if err != nil {
		return nil, &SchemaFetchError{Location: uri, Err: err}
	}
	doc, err := validator.ParseJSON(bytes.NewReader(b))
	if err != nil {
		return nil, &SchemaCompilationError{Location: uri, Err: err}
	}

	c := v.newCompiler(func(ref string) ([]byte, error) {
		logger.Debug("Fetching referenced schema", "ref", ref)
		return v.fetcher.Fetch(ctx, ref)
	})
	if err := validator.CheckDraft(c, doc); err != nil {
		return nil, &SchemaCompilationError{Location: uri, Err: err}
	}
	if err := c.AddSchema(uri, doc); err != nil {
		return nil, &SchemaCompilationError{Location: uri, Err: err}
	}
	sv, err := c.Compile(uri)
	if err != nil {
		var le *validator.LoadError
		if errors.As(err, &le) {
			return nil, &SchemaFetchError{Location: le.URL, Err: le.Err}
		}
		return nil, &SchemaCompilationError{Location: uri, Err: err}
	}

	err = sv.Validate(instance)
	if err == nil {
		logger.Debug("Schema satisfied")
		return nil, nil
	}
	var ve *validator.ValidationError
	if !errors.As(err, &ve) {
		return nil, fmt.Errorf("validating against %s: %w", uri, err)
	}
	logger.Debug("Schema not satisfied", "failures", len(ve.Failures))
	out := make([]Violation, len(ve.Failures))
	for i, f := range ve.Failures {
		out[i] = Violation{
			SchemaLocation:   loc.URI,
			InstanceLocation: f.InstanceLocation,
			KeywordLocation:  f.KeywordLocation,
			Message:          f.Message,
		}
	}
	return out, nil
}

func temporalViolations(obj stac.Object) []Violation {
	meta, ok := obj.Temporal()
	if !ok {
		return nil
	}
	err := meta.CheckTemporal()
	if err == nil {
		return nil
	}
	var te *stac.TemporalError
	if !errors.As(err, &te) {
		return []Violation{{Message: err.Error()}}
	}
	return []Violation{{
		InstanceLocation: "/properties/" + te.Field,
		KeywordLocation:  "temporal",
		Message:          te.Field + " " + te.Reason,
	}}
}
