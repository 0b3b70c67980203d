package gen

import (
	"bytes"
	"context"
	"log/slog"
	"path"

	"github.com/dave/jennifer/jen"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/imports"
)

// JenniferGenerator renders the models of a Graph into artifacts using a
// Dialect. Rendering runs in parallel, but the artifacts are returned in
// a fixed order: value types, entities, then data-access types.
type JenniferGenerator struct {
	graph   *Graph
	workers int
	pkg     string
	dialect Dialect
	log     *slog.Logger
}

// NewJenniferGenerator creates a new Jennifer-based generator.
// You must call WithDialect() to set a dialect before calling Generate().
//
// Example:
//
//	import "github.com/syssam/cqlgen/compiler/gen/cql"
//
//	gen := gen.NewJenniferGenerator(graph)
//	gen.WithDialect(cql.NewDialect(gen))
//	artifacts, err := gen.Generate(ctx)
func NewJenniferGenerator(g *Graph) *JenniferGenerator {
	return &JenniferGenerator{
		graph:   g,
		workers: g.NumWorkers(),
		pkg:     g.Package(),
		log:     slog.Default(),
	}
}

// WithWorkers sets the number of parallel workers.
func (g *JenniferGenerator) WithWorkers(n int) *JenniferGenerator {
	if n > 0 {
		g.workers = n
	}
	return g
}

// WithDialect sets the dialect generator.
func (g *JenniferGenerator) WithDialect(d Dialect) *JenniferGenerator {
	if d != nil {
		g.dialect = d
	}
	return g
}

// WithLogger sets the logger used to report rendering progress.
func (g *JenniferGenerator) WithLogger(l *slog.Logger) *JenniferGenerator {
	if l != nil {
		g.log = l
	}
	return g
}

// renderTask renders a single artifact into its slot.
type renderTask struct {
	kind ArtifactKind
	name string
	file string
	gen  func() (*jen.File, error)
}

// Generate renders every model. Either all artifacts are returned or
// none: a failure in any task cancels the others.
func (g *JenniferGenerator) Generate(ctx context.Context) ([]*Artifact, error) {
	if g.dialect == nil {
		return nil, NewConfigError("Dialect", nil, "no dialect set: call WithDialect() before Generate()")
	}
	var tasks []renderTask
	for _, m := range g.graph.Types {
		tasks = append(tasks, renderTask{
			kind: KindValue,
			name: m.Ident(),
			file: m.File(),
			gen:  func() (*jen.File, error) { return g.dialect.GenValueType(m) },
		})
	}
	for _, e := range g.graph.Entities {
		tasks = append(tasks, renderTask{
			kind: KindEntity,
			name: e.Ident(),
			file: e.File(),
			gen:  func() (*jen.File, error) { return g.dialect.GenEntity(e) },
		})
	}
	for _, e := range g.graph.Entities {
		tasks = append(tasks, renderTask{
			kind: KindDAL,
			name: e.DALIdent(),
			file: e.DALFile(),
			gen:  func() (*jen.File, error) { return g.dialect.GenDAL(e) },
		})
	}

	artifacts := make([]*Artifact, len(tasks))
	errg, ctx := errgroup.WithContext(ctx)
	errg.SetLimit(g.workers)
	for i, t := range tasks {
		errg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			a, err := g.render(t)
			if err != nil {
				return err
			}
			artifacts[i] = a
			return nil
		})
	}
	if err := errg.Wait(); err != nil {
		return nil, err
	}
	g.log.Debug("rendered artifacts", "dialect", g.dialect.Name(), "count", len(artifacts), "workers", g.workers)
	return artifacts, nil
}

// render generates and formats a single artifact.
func (g *JenniferGenerator) render(t renderTask) (*Artifact, error) {
	name := path.Join(g.pkg, t.file)
	f, err := t.gen()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, NewGenerationError(string(t.kind), name, "render", err)
	}
	out, err := imports.Process(name, buf.Bytes(), &imports.Options{
		FormatOnly: true,
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
	})
	if err != nil {
		return nil, NewGenerationError(string(t.kind), name, "format", err)
	}
	return &Artifact{
		Kind:        t.kind,
		LogicalName: t.name,
		Path:        name,
		Contents:    out,
	}, nil
}

// =============================================================================
// GeneratorHelper interface implementation
// =============================================================================

// NewFile creates a new Jennifer file with the header comment.
func (g *JenniferGenerator) NewFile() *jen.File {
	f := jen.NewFile(g.pkg)
	f.HeaderComment(g.graph.HeaderComment())
	return f
}

// Graph returns the run context.
func (g *JenniferGenerator) Graph() *Graph {
	return g.graph
}

// Pkg returns the output package name.
func (g *JenniferGenerator) Pkg() string {
	return g.pkg
}

// FeatureEnabled reports if the given feature name is enabled.
func (g *JenniferGenerator) FeatureEnabled(name string) bool {
	enabled, _ := g.graph.FeatureEnabled(name)
	return enabled
}

// Verify JenniferGenerator implements GeneratorHelper at compile time.
var _ GeneratorHelper = (*JenniferGenerator)(nil)
