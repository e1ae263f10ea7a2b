package fs

import "os"

// EnvProvider reads environment variables. Commands take one so that tests can set
// STACV_CONFIG and STACV_LOG_FILE without touching the process environment.
type EnvProvider interface {
	Get(key string) string
}

// NewEnvProvider returns the process environment.
func NewEnvProvider() EnvProvider {
	return processEnv{}
}

type processEnv struct{}

func (processEnv) Get(key string) string {
	return os.Getenv(key)
}

// MapEnv is an EnvProvider backed by a fixed map. Unset keys read as "".
type MapEnv map[string]string

func (m MapEnv) Get(key string) string {
	return m[key]
}
