package gen

import "errors"

// Option configures code generation.
type Option func(*Config) error

// WithNamespace sets the import path of the generated package.
// For example: "github.com/org/project/shop".
func WithNamespace(ns string) Option {
	return func(c *Config) error {
		if ns == "" {
			return NewConfigError("Namespace", nil, "namespace cannot be empty")
		}
		c.Namespace = ns
		return nil
	}
}

// WithKeyspace sets the keyspace to generate code for.
func WithKeyspace(ks string) Option {
	return func(c *Config) error {
		if ks == "" {
			return NewConfigError("Keyspace", nil, "keyspace cannot be empty")
		}
		c.Keyspace = ks
		return nil
	}
}

// WithTarget sets the output directory.
// Leaving the target unset selects preview mode.
func WithTarget(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("Target", nil, "target directory cannot be empty")
		}
		c.Target = dir
		return nil
	}
}

// WithHeader sets the file header comment.
// The header is added at the top of each generated file.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithFeatures enables specific features.
func WithFeatures(features ...Feature) Option {
	return func(c *Config) error {
		for _, f := range features {
			if !c.HasFeature(f.Name) {
				c.Features = append(c.Features, f)
			}
		}
		return nil
	}
}

// WithFeatureNames enables features by name. Unknown names fail with a
// ConfigError.
func WithFeatureNames(names ...string) Option {
	return func(c *Config) error {
		var errs []error
		for _, n := range names {
			f, ok := FeatureByName(n)
			if !ok {
				errs = append(errs, NewConfigError("Features", n, "unknown feature"))
				continue
			}
			if !c.HasFeature(f.Name) {
				c.Features = append(c.Features, f)
			}
		}
		return errors.Join(errs...)
	}
}

// WithoutFeatures disables the given features, including default ones.
// Unknown names fail with a ConfigError.
func WithoutFeatures(names ...string) Option {
	return func(c *Config) error {
		var (
			errs []error
			drop = make(map[string]bool, len(names))
		)
		for _, n := range names {
			if _, ok := FeatureByName(n); !ok {
				errs = append(errs, NewConfigError("Features", n, "unknown feature"))
				continue
			}
			drop[n] = true
		}
		var kept []Feature
		for _, f := range c.Features {
			if !drop[f.Name] {
				kept = append(kept, f)
			}
		}
		c.Features = kept
		return errors.Join(errs...)
	}
}

// WithWorkers sets the number of parallel render workers.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n < 0 {
			return NewConfigError("Workers", n, "workers cannot be negative")
		}
		c.Workers = n
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a new Config from DefaultConfig and the given options.
func NewConfig(opts ...Option) (*Config, error) {
	c := DefaultConfig()
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}
