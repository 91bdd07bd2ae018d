package config

import (
	"os"

	"github.com/spf13/viper"
)

// Source looks up a named configuration value. Implementations are consulted
// on every call so rotated secrets and overrides take effect without a restart.
type Source interface {
	Lookup(name string) (string, bool)
}

// EnvSource reads the process environment
type EnvSource struct{}

// Lookup implements Source
func (EnvSource) Lookup(name string) (string, bool) {
	return os.LookupEnv(name)
}

// MapSource serves fixed values, mainly for tests and the CLI
type MapSource map[string]string

// Lookup implements Source
func (m MapSource) Lookup(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

// ViperSource reads through a viper instance, so values from the environment,
// a .env file or config.yaml are all visible.
type ViperSource struct {
	v *viper.Viper
}

// NewViperSource wraps v
func NewViperSource(v *viper.Viper) *ViperSource {
	return &ViperSource{v: v}
}

// Lookup implements Source
func (s *ViperSource) Lookup(name string) (string, bool) {
	// An empty environment value does not hide a config file value.
	if value, ok := os.LookupEnv(name); ok && value != "" {
		return value, true
	}
	if s.v == nil || !s.v.IsSet(name) {
		return "", false
	}
	return s.v.GetString(name), true
}

// Chain consults sources in order and returns the first hit
type Chain []Source

// Lookup implements Source
func (c Chain) Lookup(name string) (string, bool) {
	for _, src := range c {
		if src == nil {
			continue
		}
		if value, ok := src.Lookup(name); ok {
			return value, true
		}
	}
	return "", false
}

// FirstNonEmpty returns the first name in names whose value is non-empty.
func FirstNonEmpty(src Source, names ...string) (name, value string, ok bool) {
	if src == nil {
		return "", "", false
	}
	for _, n := range names {
		v, found := src.Lookup(n)
		if !found || v == "" {
			continue
		}
		return n, v, true
	}
	return "", "", false
}
