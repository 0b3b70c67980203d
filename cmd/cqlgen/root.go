package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/syssam/cqlgen/compiler"
	"github.com/syssam/cqlgen/compiler/gen"
	"github.com/syssam/cqlgen/compiler/load"
	"github.com/syssam/cqlgen/internal/config"
)

// options holds the command line flags.
type options struct {
	create     bool
	preview    bool
	keyspace   string
	namespace  string
	hosts      []string
	out        string
	configPath string
	schemaFile string
	dumpSchema string
	features   []string
	noFeatures []string
	workers    int
	watch      bool
	verbose    bool
	rest       bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	o := &options{}
	cmd := &cobra.Command{
		Use:   "cqlgen",
		Short: "Generate Go code from a Cassandra keyspace schema",
		Long: `cqlgen reads the user-defined types and tables of a Cassandra keyspace
and generates a Go package holding a value type per user-defined type, an
entity per table and a gocql data-access type per entity.

Exactly one of --create or --preview selects the action. Without either,
this help is printed.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), cmd, o, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	fs := cmd.Flags()
	fs.BoolVarP(&o.create, "create", "c", false, "write the generated package below --out")
	fs.BoolVarP(&o.preview, "preview", "p", false, "print the generated files to stdout")
	fs.StringVarP(&o.keyspace, "keyspace", "k", "", "keyspace to generate code for")
	fs.StringVarP(&o.namespace, "namespace", "n", "", "import path of the generated package")
	fs.StringSliceVarP(&o.hosts, "db", "d", nil, "cassandra host (repeatable)")
	fs.StringVarP(&o.out, "out", "o", "", "output directory for --create")
	fs.StringVar(&o.configPath, "config", "", "path to a TOML or YAML config file")
	fs.StringVar(&o.schemaFile, "schema-file", "", "read the schema from a snapshot file instead of a cluster")
	fs.StringVar(&o.dumpSchema, "dump-schema", "", `write the schema snapshot to a file ("-" for stdout)`)
	fs.StringSliceVar(&o.features, "feature", nil, "enable an optional feature (repeatable)")
	fs.StringSliceVar(&o.noFeatures, "no-feature", nil, "disable a feature, including default ones (repeatable)")
	fs.IntVar(&o.workers, "workers", 0, "number of parallel rendering workers (default GOMAXPROCS)")
	fs.BoolVar(&o.watch, "watch", false, "regenerate when --schema-file changes")
	fs.BoolVarP(&o.verbose, "verbose", "v", false, "enable debug logging")
	fs.BoolVar(&o.rest, "rest", false, "generate REST scaffolding (not supported)")
	cmd.MarkFlagsMutuallyExclusive("create", "preview")
	return cmd
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func run(ctx context.Context, cmd *cobra.Command, o *options, stdout, stderr io.Writer) error {
	if !o.create && !o.preview && o.dumpSchema == "" {
		return cmd.Help()
	}
	logger := newLogger(stderr, o.verbose)
	if o.rest {
		logger.Warn("REST scaffolding is not supported; --rest is ignored")
	}

	file := &config.File{}
	if o.configPath != "" {
		f, err := config.Load(o.configPath)
		if err != nil {
			return err
		}
		file = f
	}
	cfg, err := buildConfig(cmd, o, file)
	if err != nil {
		return err
	}
	if o.watch && o.schemaPath(file) == "" {
		return gen.NewConfigError("watch", true, "--watch requires --schema-file")
	}

	src, closeSrc, err := openSource(ctx, o, file, logger)
	if err != nil {
		return err
	}
	defer closeSrc()

	if o.dumpSchema != "" {
		if err := dumpSchema(ctx, src, cfg.Keyspace, o.dumpSchema, stdout); err != nil {
			return err
		}
		if !o.create && !o.preview {
			return nil
		}
	}

	generate := func() error {
		artifacts, err := compiler.Generate(ctx, src, cfg, compiler.DefaultSink(cfg, stdout), logger)
		if err != nil {
			return err
		}
		if o.create {
			fmt.Fprintf(stderr, "%s %d files in %s\n", color.GreenString("wrote"), len(artifacts), cfg.Target)
		}
		return nil
	}
	if !o.watch {
		return generate()
	}
	return watch(ctx, o.schemaPath(file), logger, generate)
}

// buildConfig merges the config file with the flags; flags win.
func buildConfig(cmd *cobra.Command, o *options, file *config.File) (*gen.Config, error) {
	opts := file.Options()
	flags := cmd.Flags()
	if flags.Changed("namespace") {
		opts = append(opts, gen.WithNamespace(o.namespace))
	}
	if flags.Changed("keyspace") {
		opts = append(opts, gen.WithKeyspace(o.keyspace))
	}
	if flags.Changed("out") {
		opts = append(opts, gen.WithTarget(o.out))
	}
	if flags.Changed("feature") {
		opts = append(opts, gen.WithFeatureNames(o.features...))
	}
	if flags.Changed("no-feature") {
		opts = append(opts, gen.WithoutFeatures(o.noFeatures...))
	}
	if flags.Changed("workers") {
		opts = append(opts, gen.WithWorkers(o.workers))
	}
	cfg, err := gen.NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	if o.preview {
		cfg.Target = ""
	}
	if o.create && cfg.Target == "" {
		return nil, gen.NewConfigError("Target", nil, "--create requires --out")
	}
	if !o.create && !o.preview {
		// Dumping the schema only needs the keyspace.
		if cfg.Keyspace == "" {
			return nil, gen.NewConfigError("Keyspace", nil, "keyspace is required")
		}
		return cfg, nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (o *options) schemaPath(file *config.File) string {
	if o.schemaFile != "" {
		return o.schemaFile
	}
	return file.Resolve(file.SchemaFile)
}

// openSource returns the snapshot source when a schema file is given,
// and a cluster source otherwise.
func openSource(ctx context.Context, o *options, file *config.File, logger *slog.Logger) (load.Source, func(), error) {
	if p := o.schemaPath(file); p != "" {
		return load.NewSnapshotSource(p), func() {}, nil
	}
	cc := file.CassandraConfig()
	if len(o.hosts) > 0 {
		cc.Hosts = o.hosts
	}
	if len(cc.Hosts) == 0 {
		return nil, nil, gen.NewConfigError("db", nil, "either --db or --schema-file is required")
	}
	cc.Logger = logger
	src, err := load.NewCassandraSource(ctx, cc)
	if err != nil {
		return nil, nil, err
	}
	return src, src.Close, nil
}

// dumpSchema writes the snapshot of keyspace to path, or to stdout if
// path is "-".
func dumpSchema(ctx context.Context, src load.Source, keyspace, path string, stdout io.Writer) error {
	ks, err := src.Keyspace(ctx, keyspace)
	if err != nil {
		return fmt.Errorf("read keyspace %q: %w", keyspace, err)
	}
	if path == "-" {
		return load.WriteSnapshot(stdout, ks)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("dump schema: %w", err)
	}
	if err := load.WriteSnapshot(f, ks); err != nil {
		f.Close()
		return fmt.Errorf("dump schema: %w", err)
	}
	return f.Close()
}
