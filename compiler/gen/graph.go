package gen

import (
	"fmt"

	"github.com/syssam/cqlgen/compiler/load"
)

// Graph is the context of a single generation run. It holds the
// configuration, the populated type registry and the ordered models.
// Nothing in it is shared between runs.
type Graph struct {
	*Config
	// Registry owns the canonical model of every user-defined type.
	Registry *Registry
	// Types are the user-defined types, dependencies first.
	Types []*UdtModel
	// Entities are the tables, sorted by name.
	Entities []*EntityModel
}

// NewGraph builds the models of the given keyspace snapshot. User-defined
// types are registered before any table is resolved.
func NewGraph(c *Config, ks *load.Keyspace) (*Graph, error) {
	if c == nil {
		return nil, NewConfigError("Config", nil, "config cannot be nil")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if ks == nil {
		return nil, NewSchemaError(c.Keyspace, "", "keyspace snapshot is nil", nil)
	}
	if err := ks.Validate(); err != nil {
		return nil, NewSchemaError(ks.Name, "", "invalid keyspace snapshot", err)
	}
	g := &Graph{Config: c, Registry: NewRegistry()}
	types, err := buildTypes(g.Registry, ks.Types)
	if err != nil {
		return nil, err
	}
	g.Types = types
	if g.Entities, err = buildEntities(g.Registry, ks.Name, ks.Tables); err != nil {
		return nil, err
	}
	if err := g.checkNames(); err != nil {
		return nil, err
	}
	return g, nil
}

// checkNames verifies that no two generated declarations or files share
// a name.
func (g *Graph) checkNames() error {
	owners := make(map[string]string)
	claim := func(owner string, idents ...string) error {
		for _, id := range idents {
			if prev, ok := owners[id]; ok && prev != owner {
				return NewSchemaError(owner, "", fmt.Sprintf("generated name %q collides with %s", id, prev), nil)
			}
			owners[id] = owner
		}
		return nil
	}
	for _, t := range g.Types {
		id := t.Ident()
		if err := claim("type "+t.Name, id, id+"TypeName", "file "+t.File()); err != nil {
			return err
		}
	}
	for _, e := range g.Entities {
		id := e.Ident()
		if err := claim("table "+e.Table,
			id, id+"Table", id+"Columns", id+"PartitionKeys", id+"ClusteringKeys",
			e.DALIdent(), "New"+e.DALIdent(),
			"file "+e.File(), "file "+e.DALFile(),
		); err != nil {
			return err
		}
	}
	return nil
}

// Type returns the registered model of the named user-defined type.
func (g *Graph) Type(name string) (*UdtModel, bool) {
	return g.Registry.Lookup(name)
}
