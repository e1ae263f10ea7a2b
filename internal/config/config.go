// Package config loads stacv settings from defaults, an optional stacv.yml file
// and STACV_ environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/andyballingall/stacv/internal/fetch"
	"github.com/andyballingall/stacv/internal/fs"
)

const (
	// FileName is the config file looked up in the working directory.
	FileName = "stacv.yml"
	// EnvPrefix marks environment variables that override config keys.
	EnvPrefix = "STACV_"
	// PathEnvVar names a config file to use instead of ./stacv.yml.
	PathEnvVar = "STACV_CONFIG"
)

type HTTP struct {
	Timeout   time.Duration `koanf:"timeout" validate:"gte=0"`
	UserAgent string        `koanf:"user_agent" validate:"required"`
}

type Validate struct {
	Concurrency    int  `koanf:"concurrency" validate:"min=1,max=64"`
	StrictTemporal bool `koanf:"strict_temporal"`
	FailFast       bool `koanf:"fail_fast"`
}

// Mirror serves schema URLs starting with Prefix from the local directory Dir.
type Mirror struct {
	Prefix string `koanf:"prefix" validate:"required"`
	Dir    string `koanf:"dir" validate:"required"`
}

type Config struct {
	HTTP     HTTP     `koanf:"http"`
	Validate Validate `koanf:"validate"`
	Mirrors  []Mirror `koanf:"mirrors" validate:"dive"`

	// Source is the config file that was loaded, or "" when none was found.
	Source string `koanf:"-"`
}

func defaults() map[string]any {
	return map[string]any{
		"http.timeout":             fetch.DefaultTimeout.String(),
		"http.user_agent":          fetch.DefaultUserAgent,
		"validate.concurrency":     1,
		"validate.strict_temporal": false,
		"validate.fail_fast":       true,
	}
}

// Default returns the configuration used when no file or environment overrides exist.
func Default() *Config {
	cfg, err := load("", nil)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load builds the configuration. path is the explicit --config value and may be empty,
// in which case $STACV_CONFIG and then ./stacv.yml are tried. An explicitly named file
// must exist; the working directory file is optional.
func Load(path string, envp fs.EnvProvider) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = envp.Get(PathEnvVar)
		explicit = path != ""
	}
	if !explicit {
		path = FileName
	}

	if _, err := os.Stat(path); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		if explicit {
			return nil, &MissingConfigError{Path: path}
		}
		path = ""
	}

	cfg, err := load(path, env.Provider(EnvPrefix, ".", envKey))
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func load(path string, envProvider koanf.Provider) (*Config, error) {
	k := koanf.New(".")
	for key, value := range defaults() {
		if err := k.Set(key, value); err != nil {
			return nil, err
		}
	}

	if path != "" {
		if err := k.Load(file.Provider(path), YAML()); err != nil {
			return nil, &InvalidYAMLError{Path: path, Wrapped: err}
		}
	}
	if envProvider != nil {
		if err := k.Load(envProvider, nil); err != nil {
			return nil, fmt.Errorf("reading %s environment: %w", EnvPrefix, err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, &InvalidConfigError{Field: "", Reason: err.Error()}
	}
	cfg.Source = path

	if err := cfg.Check(); err != nil {
		return nil, err
	}
	if err := cfg.resolveMirrorDirs(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps STACV_HTTP_USER_AGENT to http.user_agent. Variables outside the
// http and validate sections are ignored.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	section, rest, ok := strings.Cut(key, "_")
	if !ok || (section != "http" && section != "validate") {
		return ""
	}
	return section + "." + rest
}

var checker = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("koanf"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Check validates field constraints and mirror prefixes.
func (c *Config) Check() error {
	if err := checker.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return fieldError(fieldErrs[0])
		}
		return err
	}
	for i, m := range c.Mirrors {
		if err := validateHTTPURL(fmt.Sprintf("mirrors[%d].prefix", i), m.Prefix); err != nil {
			return err
		}
	}
	return nil
}

func fieldError(fe validator.FieldError) error {
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}
	reason := fe.Tag()
	if fe.Param() != "" {
		reason += "=" + fe.Param()
	}
	return &InvalidConfigError{Field: field, Reason: reason, Value: fmt.Sprint(fe.Value())}
}

// resolveMirrorDirs makes relative mirror dirs absolute, anchored at the config file.
func (c *Config) resolveMirrorDirs() error {
	if c.Source == "" {
		return nil
	}
	base, err := filepath.Abs(filepath.Dir(c.Source))
	if err != nil {
		return err
	}
	for i, m := range c.Mirrors {
		if !filepath.IsAbs(m.Dir) {
			c.Mirrors[i].Dir = filepath.Join(base, m.Dir)
		}
	}
	return nil
}

// FetchOptions converts the http and mirrors sections for fetch.New.
func (c *Config) FetchOptions() fetch.Options {
	opts := fetch.Options{
		UserAgent: c.HTTP.UserAgent,
		Timeout:   c.HTTP.Timeout,
	}
	for _, m := range c.Mirrors {
		opts.Mirrors = append(opts.Mirrors, fetch.Mirror{Prefix: m.Prefix, Dir: m.Dir})
	}
	return opts
}

func validateHTTPURL(prop, val string) error {
	u, pErr := url.Parse(val)
	if pErr != nil {
		return &InvalidURLError{Property: prop, Value: val, Wrapped: pErr}
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return &InvalidURLError{
			Property: prop,
			Value:    val,
			Wrapped:  errors.New("scheme must be http or https"),
		}
	}
	if u.Host == "" {
		return &InvalidURLError{Property: prop, Value: val, Wrapped: errors.New("missing host")}
	}
	return nil
}
