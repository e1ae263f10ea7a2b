package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andyballingall/stacv/internal/fetch"
	"github.com/andyballingall/stacv/internal/fs"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	assert.Equal(t, fetch.DefaultTimeout, cfg.HTTP.Timeout)
	assert.Equal(t, fetch.DefaultUserAgent, cfg.HTTP.UserAgent)
	assert.Equal(t, 1, cfg.Validate.Concurrency)
	assert.True(t, cfg.Validate.FailFast)
	assert.False(t, cfg.Validate.StrictTemporal)
	assert.Empty(t, cfg.Mirrors)
	assert.Empty(t, cfg.Source)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("full file", func(t *testing.T) {
		t.Parallel()
		path := writeConfig(t, `
http:
  timeout: 5s
  user_agent: my-agent/1.0
validate:
  concurrency: 4
  strict_temporal: true
  fail_fast: false
mirrors:
  - prefix: https://schemas.stacspec.org/
    dir: schemas
  - prefix: https://stac-extensions.github.io/
    dir: /opt/stac-extensions
`)
		cfg, err := Load(path, fs.MapEnv{})
		require.NoError(t, err)

		assert.Equal(t, path, cfg.Source)
		assert.Equal(t, 5*time.Second, cfg.HTTP.Timeout)
		assert.Equal(t, "my-agent/1.0", cfg.HTTP.UserAgent)
		assert.Equal(t, Validate{Concurrency: 4, StrictTemporal: true, FailFast: false}, cfg.Validate)
		require.Len(t, cfg.Mirrors, 2)
		assert.Equal(t, filepath.Join(filepath.Dir(path), "schemas"), cfg.Mirrors[0].Dir)
		assert.Equal(t, "/opt/stac-extensions", cfg.Mirrors[1].Dir)
	})

	t.Run("partial file keeps defaults", func(t *testing.T) {
		t.Parallel()
		path := writeConfig(t, "validate:\n  concurrency: 2\n")
		cfg, err := Load(path, fs.MapEnv{})
		require.NoError(t, err)
		assert.Equal(t, 2, cfg.Validate.Concurrency)
		assert.True(t, cfg.Validate.FailFast)
		assert.Equal(t, fetch.DefaultUserAgent, cfg.HTTP.UserAgent)
	})

	t.Run("empty file", func(t *testing.T) {
		t.Parallel()
		cfg, err := Load(writeConfig(t, ""), fs.MapEnv{})
		require.NoError(t, err)
		assert.Equal(t, 1, cfg.Validate.Concurrency)
	})

	t.Run("path from environment", func(t *testing.T) {
		t.Parallel()
		path := writeConfig(t, "http:\n  user_agent: from-env-file\n")
		cfg, err := Load("", fs.MapEnv{PathEnvVar: path})
		require.NoError(t, err)
		assert.Equal(t, "from-env-file", cfg.HTTP.UserAgent)
	})

	t.Run("explicit path missing", func(t *testing.T) {
		t.Parallel()
		missing := filepath.Join(t.TempDir(), "nope.yml")
		_, err := Load(missing, fs.MapEnv{})
		var target *MissingConfigError
		require.ErrorAs(t, err, &target)
		assert.EqualError(t, err, "config file not found: "+missing)
	})

	t.Run("environment path missing", func(t *testing.T) {
		t.Parallel()
		missing := filepath.Join(t.TempDir(), "nope.yml")
		_, err := Load("", fs.MapEnv{PathEnvVar: missing})
		var target *MissingConfigError
		require.ErrorAs(t, err, &target)
	})

	t.Run("no file anywhere", func(t *testing.T) {
		t.Parallel()
		cfg, err := Load("", fs.MapEnv{})
		require.NoError(t, err)
		assert.Empty(t, cfg.Source)
	})
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		check   func(t *testing.T, err error)
	}{
		{
			name:    "invalid yaml",
			content: "invalid: yaml: :",
			check: func(t *testing.T, err error) {
				t.Helper()
				var target *InvalidYAMLError
				require.ErrorAs(t, err, &target)
				assert.Contains(t, err.Error(), "is not a valid yaml document")
			},
		},
		{
			name:    "concurrency too low",
			content: "validate:\n  concurrency: 0\n",
			check: func(t *testing.T, err error) {
				t.Helper()
				var target *InvalidConfigError
				require.ErrorAs(t, err, &target)
				assert.Equal(t, "validate.concurrency", target.Field)
				assert.Equal(t, "min=1", target.Reason)
			},
		},
		{
			name:    "concurrency too high",
			content: "validate:\n  concurrency: 65\n",
			check: func(t *testing.T, err error) {
				t.Helper()
				var target *InvalidConfigError
				require.ErrorAs(t, err, &target)
				assert.Equal(t, "max=64", target.Reason)
				assert.Equal(t, "65", target.Value)
			},
		},
		{
			name:    "empty user agent",
			content: "http:\n  user_agent: \"\"\n",
			check: func(t *testing.T, err error) {
				t.Helper()
				var target *InvalidConfigError
				require.ErrorAs(t, err, &target)
				assert.Equal(t, "http.user_agent", target.Field)
				assert.Equal(t, "required", target.Reason)
			},
		},
		{
			name:    "mirror missing dir",
			content: "mirrors:\n  - prefix: https://example.com/\n",
			check: func(t *testing.T, err error) {
				t.Helper()
				var target *InvalidConfigError
				require.ErrorAs(t, err, &target)
				assert.Equal(t, "mirrors[0].dir", target.Field)
			},
		},
		{
			name:    "mirror prefix not http",
			content: "mirrors:\n  - prefix: ftp://example.com/\n    dir: x\n",
			check: func(t *testing.T, err error) {
				t.Helper()
				var target *InvalidURLError
				require.ErrorAs(t, err, &target)
				assert.Equal(t, "mirrors[0].prefix", target.Property)
				assert.Contains(t, err.Error(), "scheme must be http or https")
			},
		},
		{
			name:    "mirror prefix without host",
			content: "mirrors:\n  - prefix: https://\n    dir: x\n",
			check: func(t *testing.T, err error) {
				t.Helper()
				var target *InvalidURLError
				require.ErrorAs(t, err, &target)
				assert.Contains(t, err.Error(), "missing host")
			},
		},
		{
			name:    "wrong type",
			content: "validate:\n  concurrency: lots\n",
			check: func(t *testing.T, err error) {
				t.Helper()
				var target *InvalidConfigError
				require.ErrorAs(t, err, &target)
				assert.Contains(t, err.Error(), "invalid configuration")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Load(writeConfig(t, tt.content), fs.MapEnv{})
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("STACV_VALIDATE_CONCURRENCY", "8")
	t.Setenv("STACV_VALIDATE_STRICT_TEMPORAL", "true")
	t.Setenv("STACV_HTTP_USER_AGENT", "env-agent")
	t.Setenv("STACV_HTTP_TIMEOUT", "2s")
	t.Setenv("STACV_LOG_FILE", "/tmp/ignored.log")

	path := writeConfig(t, "validate:\n  concurrency: 2\nhttp:\n  user_agent: file-agent\n")
	cfg, err := Load(path, fs.MapEnv{})
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Validate.Concurrency)
	assert.True(t, cfg.Validate.StrictTemporal)
	assert.Equal(t, "env-agent", cfg.HTTP.UserAgent)
	assert.Equal(t, 2*time.Second, cfg.HTTP.Timeout)
}

func TestEnvKey(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"STACV_HTTP_USER_AGENT":          "http.user_agent",
		"STACV_HTTP_TIMEOUT":             "http.timeout",
		"STACV_VALIDATE_FAIL_FAST":       "validate.fail_fast",
		"STACV_VALIDATE_STRICT_TEMPORAL": "validate.strict_temporal",
		"STACV_CONFIG":                   "",
		"STACV_LOG_FILE":                 "",
	}
	for in, want := range tests {
		assert.Equal(t, want, envKey(in), in)
	}
}

func TestFetchOptions(t *testing.T) {
	t.Parallel()

	cfg := &Config{
		HTTP:    HTTP{Timeout: time.Second, UserAgent: "ua"},
		Mirrors: []Mirror{{Prefix: "https://a/", Dir: "/a"}},
	}
	assert.Equal(t, fetch.Options{
		UserAgent: "ua",
		Timeout:   time.Second,
		Mirrors:   []fetch.Mirror{{Prefix: "https://a/", Dir: "/a"}},
	}, cfg.FetchOptions())
}

func TestYAMLParser(t *testing.T) {
	t.Parallel()

	m, err := YAML().Unmarshal([]byte("a:\n  b: 1\n"))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": map[string]any{"b": 1}}, m)

	out, err := YAML().Marshal(map[string]any{"a": "b"})
	require.NoError(t, err)
	assert.Equal(t, "a: b\n", string(out))
}
