package validator

import (
	"bytes"
	"errors"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/dlclark/regexp2"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NewSanthoshCompiler returns a concrete implementation of Compiler.
// Using the santhosh-tekuri/jsonschema/v6 package.
func NewSanthoshCompiler(opts ...Option) Compiler {
	s := &santhoshCompiler{}
	for _, o := range opts {
		o(s)
	}
	s.reset()
	return s
}

type Option func(*santhoshCompiler)

// WithLoader makes the compiler resolve unknown schema URLs through l.
func WithLoader(l Loader) Option {
	return func(s *santhoshCompiler) {
		s.loader = l
	}
}

var printer = message.NewPrinter(language.English)

// santhoshValidator wraps jsonschema.Schema to implement Validator.
type santhoshValidator struct {
	v *jsonschema.Schema
}

// Validate adapts jsonschema.Schema.Validate to match the Validator interface.
func (sv *santhoshValidator) Validate(doc JSONDocument) error {
	err := sv.v.Validate(doc)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	return &ValidationError{SchemaURL: sv.v.Location, Failures: failures(ve)}
}

// failures flattens the tree of causes into its leaves, which carry the specific reasons.
func failures(ve *jsonschema.ValidationError) []Failure {
	var out []Failure
	var walk func(*jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			out = append(out, Failure{
				InstanceLocation: pointer(e.InstanceLocation),
				KeywordLocation:  keywordLocation(e),
				Message:          e.ErrorKind.LocalizedString(printer),
			})
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(ve)
	slices.SortStableFunc(out, func(a, b Failure) int {
		if c := strings.Compare(a.InstanceLocation, b.InstanceLocation); c != 0 {
			return c
		}
		return strings.Compare(a.KeywordLocation, b.KeywordLocation)
	})
	return out
}

func pointer(tokens []string) string {
	if len(tokens) == 0 {
		return ""
	}
	var b strings.Builder
	r := strings.NewReplacer("~", "~0", "/", "~1")
	for _, t := range tokens {
		b.WriteByte('/')
		b.WriteString(r.Replace(t))
	}
	return b.String()
}

func keywordLocation(e *jsonschema.ValidationError) string {
	kw := e.ErrorKind.KeywordPath()
	if len(kw) == 0 {
		return e.SchemaURL
	}
	return e.SchemaURL + "/" + strings.Join(kw, "/")
}

// santhoshCompiler wraps jsonschema.Compiler to implement Compiler.
type santhoshCompiler struct {
	mu     sync.Mutex
	c      *jsonschema.Compiler
	loader Loader
	// loadErr is the first loader failure seen by the Compile in progress.
	loadErr *LoadError
}

func (s *santhoshCompiler) reset() {
	s.c = jsonschema.NewCompiler()
	s.c.UseRegexpEngine(ecmaCompile)
	if s.loader != nil {
		s.c.UseLoader(urlLoader(s.load))
	}
}

// load runs inside Compile, with mu held.
func (s *santhoshCompiler) load(url string) (any, error) {
	b, err := s.loader(url)
	if err == nil {
		var doc JSONDocument
		if doc, err = parseJSON(bytes.NewReader(b)); err == nil {
			return doc, nil
		}
	}
	le := &LoadError{URL: url, Err: err}
	if s.loadErr == nil {
		s.loadErr = le
	}
	return nil, le
}

func (s *santhoshCompiler) AddSchema(id string, schemaData JSONSchema) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.AddResource(id, schemaData)
}

func (s *santhoshCompiler) Compile(id string) (Validator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadErr = nil
	v, err := s.c.Compile(id)
	if err != nil {
		if s.loadErr != nil {
			return nil, s.loadErr
		}
		return nil, err
	}
	return &santhoshValidator{v: v}, nil
}

func (s *santhoshCompiler) SupportedSchemaVersions() []Draft {
	return []Draft{
		Draft4,
		Draft6,
		Draft7,
		Draft2019_09,
		Draft2020_12,
	}
}

// ecmaRegexp matches with ECMA 262 semantics. Published extension schemas
// use lookahead in patternProperties, which package regexp rejects.
type ecmaRegexp regexp2.Regexp

func (re *ecmaRegexp) MatchString(s string) bool {
	matched, err := (*regexp2.Regexp)(re).MatchString(s)
	return err == nil && matched
}

func (re *ecmaRegexp) String() string {
	return (*regexp2.Regexp)(re).String()
}

func ecmaCompile(s string) (jsonschema.Regexp, error) {
	re, err := regexp2.Compile(s, regexp2.ECMAScript)
	if err != nil {
		return nil, err
	}
	return (*ecmaRegexp)(re), nil
}

type urlLoader func(url string) (any, error)

func (l urlLoader) Load(url string) (any, error) {
	return l(url)
}

func parseJSON(r io.Reader) (JSONDocument, error) {
	return jsonschema.UnmarshalJSON(r)
}
