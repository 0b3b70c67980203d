// Package config loads cqlgen settings from a TOML or YAML file.
//
// A file holds defaults for a project; flags given on the command line
// override the values read here.
//
//	keyspace  = "shop"
//	namespace = "example.com/shop/model"
//	out       = "./model"
//	features  = ["jsontags"]
//	disabled_features = ["stringer"]
//
//	[cassandra]
//	hosts   = ["127.0.0.1"]
//	timeout = "5s"
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/syssam/cqlgen/compiler/gen"
	"github.com/syssam/cqlgen/compiler/load"
)

// File is the content of a configuration file.
type File struct {
	Keyspace         string    `toml:"keyspace" yaml:"keyspace"`
	Namespace        string    `toml:"namespace" yaml:"namespace"`
	Out              string    `toml:"out" yaml:"out"`
	Header           string    `toml:"header" yaml:"header"`
	Features         []string  `toml:"features" yaml:"features"`
	DisabledFeatures []string  `toml:"disabled_features" yaml:"disabled_features"`
	Workers          int       `toml:"workers" yaml:"workers"`
	SchemaFile       string    `toml:"schema_file" yaml:"schema_file"`
	Cassandra        Cassandra `toml:"cassandra" yaml:"cassandra"`

	// dir is the directory holding the file, used to resolve relative paths.
	dir string
}

// Cassandra holds the connection settings of the live schema source.
type Cassandra struct {
	Hosts       []string `toml:"hosts" yaml:"hosts"`
	Port        int      `toml:"port" yaml:"port"`
	Username    string   `toml:"username" yaml:"username"`
	Password    string   `toml:"password" yaml:"password"`
	Consistency string   `toml:"consistency" yaml:"consistency"`
	Timeout     string   `toml:"timeout" yaml:"timeout"`
	Attempts    int      `toml:"attempts" yaml:"attempts"`
}

// Load reads the file at path. The format is chosen by extension:
// .toml, or .yaml/.yml.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read: %w", err)
	}
	f := &File{dir: filepath.Dir(path)}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		md, err := toml.Decode(string(data), f)
		if err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("config: %s: unknown keys %v", path, undecoded)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(f); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("config: %s: unsupported format %q", path, ext)
	}
	if err := f.validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return f, nil
}

func (f *File) validate() error {
	if f.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", f.Workers)
	}
	if _, err := f.Cassandra.timeout(); err != nil {
		return err
	}
	return nil
}

// Resolve returns p relative to the directory of the file, unless p is
// empty or absolute.
func (f *File) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || f.dir == "" {
		return p
	}
	return filepath.Join(f.dir, p)
}

// Options returns the generator options set by the file. Unset values
// yield no option, so the defaults of gen.NewConfig apply.
func (f *File) Options() []gen.Option {
	var opts []gen.Option
	if f.Namespace != "" {
		opts = append(opts, gen.WithNamespace(f.Namespace))
	}
	if f.Keyspace != "" {
		opts = append(opts, gen.WithKeyspace(f.Keyspace))
	}
	if f.Out != "" {
		opts = append(opts, gen.WithTarget(f.Resolve(f.Out)))
	}
	if f.Header != "" {
		opts = append(opts, gen.WithHeader(f.Header))
	}
	if len(f.Features) > 0 {
		opts = append(opts, gen.WithFeatureNames(f.Features...))
	}
	if len(f.DisabledFeatures) > 0 {
		opts = append(opts, gen.WithoutFeatures(f.DisabledFeatures...))
	}
	if f.Workers > 0 {
		opts = append(opts, gen.WithWorkers(f.Workers))
	}
	return opts
}

// CassandraConfig returns the settings of the live schema source.
func (f *File) CassandraConfig() load.CassandraConfig {
	timeout, _ := f.Cassandra.timeout()
	return load.CassandraConfig{
		Hosts:       f.Cassandra.Hosts,
		Port:        f.Cassandra.Port,
		Username:    f.Cassandra.Username,
		Password:    f.Cassandra.Password,
		Consistency: f.Cassandra.Consistency,
		Timeout:     timeout,
		Attempts:    f.Cassandra.Attempts,
	}
}

func (c Cassandra) timeout() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("cassandra.timeout: %w", err)
	}
	return d, nil
}
