// Package compiler runs the code generation pipeline: it fetches a
// keyspace snapshot, builds the models, renders them with the cql dialect
// and hands the artifacts to a sink.
//
//	cfg, err := gen.NewConfig(gen.WithNamespace("example.com/shop"), gen.WithKeyspace("shop"))
//	...
//	artifacts, err := compiler.Generate(ctx, load.NewSnapshotSource("shop.yaml"), cfg, nil, nil)
package compiler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/syssam/cqlgen/compiler/gen"
	"github.com/syssam/cqlgen/compiler/gen/cql"
	"github.com/syssam/cqlgen/compiler/load"
)

// DefaultSink returns the sink matching the mode of cfg: a FileSink
// below cfg.Target, or a PreviewSink writing to w when no target is set.
func DefaultSink(cfg *gen.Config, w io.Writer) gen.Sink {
	if cfg.Preview() {
		return gen.NewPreviewSink(w)
	}
	return gen.NewFileSink(cfg.Target)
}

// Generate runs a single generation. A nil sink selects DefaultSink over
// the standard output; a nil logger selects slog.Default.
//
// Nothing reaches the sink unless every model was built and rendered, so
// a schema or rendering error leaves no output behind.
func Generate(ctx context.Context, src load.Source, cfg *gen.Config, sink gen.Sink, logger *slog.Logger) ([]*gen.Artifact, error) {
	if cfg == nil {
		return nil, gen.NewConfigError("Config", nil, "config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if src == nil {
		return nil, gen.NewConfigError("Source", nil, "schema source cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if sink == nil {
		sink = DefaultSink(cfg, os.Stdout)
	}
	start := time.Now()

	ks, err := src.Keyspace(ctx, cfg.Keyspace)
	if err != nil {
		return nil, fmt.Errorf("compiler: read keyspace %q: %w", cfg.Keyspace, err)
	}
	logger.Debug("schema loaded", "keyspace", ks.Name, "types", len(ks.Types), "tables", len(ks.Tables))

	graph, err := gen.NewGraph(cfg, ks)
	if err != nil {
		return nil, err
	}

	generator := gen.NewJenniferGenerator(graph).WithLogger(logger)
	generator.WithDialect(cql.NewDialect(generator))
	artifacts, err := generator.Generate(ctx)
	if err != nil {
		return nil, err
	}

	if err := sink.Write(ctx, artifacts); err != nil {
		return nil, err
	}
	logger.Info("generation complete",
		"keyspace", cfg.Keyspace,
		"package", graph.Package(),
		"types", len(graph.Types),
		"entities", len(graph.Entities),
		"files", len(artifacts),
		"preview", cfg.Preview(),
		"duration", time.Since(start),
	)
	return artifacts, nil
}
