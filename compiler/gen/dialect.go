package gen

import "github.com/dave/jennifer/jen"

// Dialect generates the Go code of a driver flavour. Each method is a
// pure function of its model: the same model always yields the same file.
//
//	┌──────────────────────────────┐
//	│      JenniferGenerator       │  parallel rendering, artifact order
//	└──────────────┬───────────────┘
//	               │ uses
//	               ▼
//	┌──────────────────────────────┐
//	│           Dialect            │  value types, entities, DAL
//	└──────────────┬───────────────┘
//	               │ implemented by
//	               ▼
//	┌──────────────────────────────┐
//	│   cql.Dialect (gen/cql)      │  gocql flavour
//	└──────────────────────────────┘
//
// A method returns an UnsupportedFieldTypeError when it meets a type
// descriptor it has no rendering rule for.
type Dialect interface {
	// Name returns the dialect name (e.g., "cql").
	Name() string
	// GenValueType generates the value type of a user-defined type ({type}.go).
	GenValueType(m *UdtModel) (*jen.File, error)
	// GenEntity generates the entity of a table ({entity}.go).
	GenEntity(e *EntityModel) (*jen.File, error)
	// GenDAL generates the data-access type of a table ({entity}_dal.go).
	GenDAL(e *EntityModel) (*jen.File, error)
}

// GeneratorHelper provides helper methods for dialect implementations.
// JenniferGenerator implements this interface, allowing dialect packages
// to use helper methods without importing the full generator.
type GeneratorHelper interface {
	// NewFile creates a new Jennifer file with the standard header comment.
	NewFile() *jen.File

	// Graph returns the run context.
	Graph() *Graph

	// Pkg returns the output package name.
	Pkg() string

	// FeatureEnabled reports if the given feature name is enabled.
	FeatureEnabled(name string) bool
}
