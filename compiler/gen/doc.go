// Package gen provides code generation for Cassandra keyspaces.
//
// This package turns the metadata of a keyspace (user-defined types and
// tables) into Go source files for the gocql driver: one value type per
// user-defined type, one entity per table and one data-access type per
// table.
//
// # Architecture
//
// The code generation pipeline follows this flow:
//
//	load.Keyspace (system_schema or snapshot file)
//	        ↓
//	   Registry + UDT builder (topological order, cycle detection)
//	        ↓
//	   Entity builder (key roles, column order)
//	        ↓
//	   Graph (run context)
//	        ↓
//	   Dialect (gen/cql) rendered by JenniferGenerator
//	        ↓
//	   []*Artifact → Sink (FileSink or PreviewSink)
//
// # Key Types
//
//   - TypeDescriptor: closed set of resolved types, matched with Visit
//   - Registry: maps CQL type expressions to descriptors, owns UDT models
//   - UdtModel: a user-defined type with its fields
//   - EntityModel: a table with its columns and key roles
//   - Graph: Config, Registry and the ordered models of one run
//   - Artifact: a rendered file
//
// # Error Handling
//
// The package uses structured error types:
//
//   - ConfigError: configuration errors (ErrMissingConfig)
//   - UnknownUserTypeError, UnsupportedTypeError, CyclicTypeDependencyError,
//     UnresolvedColumnTypeError, DuplicateTypeError, InvalidKeyLayoutError
//     and SchemaError: schema shapes that cannot be generated (ErrInvalidSchema)
//   - UnsupportedFieldTypeError and GenerationError: generator defects
//     (ErrGenerationFailed)
//   - OutputWriteError: sink failures (ErrOutputFailed)
//
// Example error handling:
//
//	graph, err := gen.NewGraph(config, keyspace)
//	if err != nil {
//	    if gen.IsCycleError(err) {
//	        // Handle user types containing each other
//	    }
//	    return err
//	}
//
// # Configuration
//
// Configuration is done via the functional options pattern:
//
//	config, err := gen.NewConfig(
//	    gen.WithNamespace("github.com/org/project/shop"),
//	    gen.WithKeyspace("shop"),
//	    gen.WithTarget("./internal"),              // Omit for preview mode
//	    gen.WithFeatures(gen.FeatureJSONTags),     // Enable json tags
//	)
//
// # Usage
//
//	generator := gen.NewJenniferGenerator(graph)
//	generator.WithDialect(cql.NewDialect(generator)).WithWorkers(4)
//	artifacts, err := generator.Generate(ctx)
//	if err != nil {
//	    return err
//	}
//	err = gen.NewFileSink(config.Target).Write(ctx, artifacts)
//
// # Features
//
// The generator supports optional features:
//
//   - jsontags: json struct tags next to the cql tags
//   - stringer: String methods (enabled by default)
//   - listbypartition: DAL List method (enabled by default)
//   - schemacomments: table comments in entity doc comments
package gen
