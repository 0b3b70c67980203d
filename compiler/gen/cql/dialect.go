// Package cql generates gocql flavoured Go code for the Jennifer generator.
//
// Usage:
//
//	import (
//	    "github.com/syssam/cqlgen/compiler/gen"
//	    "github.com/syssam/cqlgen/compiler/gen/cql"
//	)
//
//	generator := gen.NewJenniferGenerator(graph)
//	generator.WithDialect(cql.NewDialect(generator))
//	artifacts, err := generator.Generate(ctx)
//
// Generated code structure:
//
//	{package}/
//	├── {type}.go           # Value type of a user-defined type
//	├── {entity}.go         # Entity struct, column constants
//	└── {entity}_dal.go     # Data-access type over *gocql.Session
package cql

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/cqlgen/compiler/gen"
)

// Import paths referenced by the generated code.
const (
	gocqlPkg = "github.com/gocql/gocql"
	infPkg   = "gopkg.in/inf.v0"
)

// Dialect implements gen.Dialect for the gocql driver.
//
// Generated code:
//   - Value types with cql struct tags, marshalled by gocql as UDTs
//   - Entities with column lists and scan targets in column order
//   - DAL types with Get, List, Save and Delete by primary key
type Dialect struct {
	helper gen.GeneratorHelper
}

// NewDialect creates a new gocql dialect generator.
// The helper parameter should be a *gen.JenniferGenerator.
func NewDialect(helper gen.GeneratorHelper) *Dialect {
	return &Dialect{helper: helper}
}

// Name returns the dialect name.
func (d *Dialect) Name() string {
	return "cql"
}

// GenValueType generates the value type file ({type}.go).
func (d *Dialect) GenValueType(m *gen.UdtModel) (*jen.File, error) {
	return genValueType(d.helper, m)
}

// GenEntity generates the entity file ({entity}.go).
func (d *Dialect) GenEntity(e *gen.EntityModel) (*jen.File, error) {
	return genEntity(d.helper, e)
}

// GenDAL generates the data-access file ({entity}_dal.go).
func (d *Dialect) GenDAL(e *gen.EntityModel) (*jen.File, error) {
	return genDAL(d.helper, e)
}

// Verify Dialect implements gen.Dialect at compile time.
var _ gen.Dialect = (*Dialect)(nil)
