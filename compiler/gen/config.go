package gen

import (
	"path"
	"runtime"
	"strings"
	"unicode"
)

// defaultHeader is the first line of every generated file.
const defaultHeader = "Code generated by cqlgen. DO NOT EDIT."

// Config holds the global codegen configuration of a run.
type Config struct {
	// Namespace is the Go import path of the generated package.
	// For example: "github.com/org/project/shop".
	Namespace string

	// Keyspace is the name of the keyspace to generate code for.
	Keyspace string

	// Target is the output directory. Generated files are written to
	// Target/<package>. An empty target selects preview mode.
	Target string

	// Header is the comment written at the top of each generated file.
	// Defaults to "Code generated by cqlgen. DO NOT EDIT.".
	Header string

	// Features are the enabled codegen features.
	Features []Feature

	// Workers bounds the number of artifacts rendered in parallel.
	// Zero means GOMAXPROCS.
	Workers int
}

// DefaultConfig returns a Config with the default header and the
// features that are enabled by default.
func DefaultConfig() *Config {
	c := &Config{Header: defaultHeader}
	for _, f := range AllFeatures {
		if f.Default {
			c.Features = append(c.Features, f)
		}
	}
	return c
}

// Validate reports the first missing or invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Namespace == "":
		return NewConfigError("Namespace", nil, "namespace cannot be empty")
	case c.Keyspace == "":
		return NewConfigError("Keyspace", nil, "keyspace cannot be empty")
	case c.Package() == "":
		return NewConfigError("Namespace", c.Namespace, "namespace does not end in a valid package name")
	case c.Workers < 0:
		return NewConfigError("Workers", c.Workers, "workers cannot be negative")
	}
	return nil
}

// Preview reports if the run is a dry run.
func (c *Config) Preview() bool {
	return c.Target == ""
}

// Package returns the Go package name of the generated code, derived
// from the last element of the namespace.
//
//	github.com/acme/shop-model => shopmodel
func (c *Config) Package() string {
	base := strings.ToLower(path.Base(strings.TrimRight(c.Namespace, "/")))
	pkg := strings.Map(func(r rune) rune {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, base)
	if pkg == "" || pkg == "." || !unicode.IsLetter([]rune(pkg)[0]) {
		return ""
	}
	return pkg
}

// HeaderComment returns the header line, falling back to the default.
func (c *Config) HeaderComment() string {
	if c.Header == "" {
		return defaultHeader
	}
	return c.Header
}

// NumWorkers returns the effective number of render workers.
func (c *Config) NumWorkers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// FeatureEnabled reports if the given feature name is enabled.
// It returns a ConfigError for unknown features.
func (c *Config) FeatureEnabled(name string) (bool, error) {
	if _, ok := FeatureByName(name); !ok {
		return false, NewConfigError("Features", name, "unknown feature")
	}
	return c.HasFeature(name), nil
}

// HasFeature reports if the feature is in the enabled list.
func (c *Config) HasFeature(name string) bool {
	for _, f := range c.Features {
		if f.Name == name {
			return true
		}
	}
	return false
}
