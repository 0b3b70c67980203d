package load

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
)

// ErrKeyspaceNotFound is returned by a Source when the requested keyspace does not exist.
var ErrKeyspaceNotFound = errors.New("load: keyspace not found")

// Source yields a consistent metadata snapshot of a single keyspace.
// Retries on transient failures belong to the Source; callers treat any
// returned error as terminal.
type Source interface {
	Keyspace(ctx context.Context, name string) (*Keyspace, error)
}

// SourceFunc adapts an ordinary function to the Source interface.
type SourceFunc func(ctx context.Context, name string) (*Keyspace, error)

// Keyspace calls f(ctx, name).
func (f SourceFunc) Keyspace(ctx context.Context, name string) (*Keyspace, error) {
	return f(ctx, name)
}

// Keyspace represents the user-defined types and tables of a keyspace
// as they were read from the database (or from a snapshot file).
type Keyspace struct {
	Name   string      `json:"name" yaml:"name"`
	Types  []*UserType `json:"types,omitempty" yaml:"types,omitempty"`
	Tables []*Table    `json:"tables,omitempty" yaml:"tables,omitempty"`
}

// UserType represents a raw user-defined type. Field types are kept in
// their CQL textual form (e.g. "frozen<list<address>>").
type UserType struct {
	Name   string           `json:"name" yaml:"name"`
	Fields []*UserTypeField `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// UserTypeField is a single field of a raw user-defined type.
type UserTypeField struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

// ColumnKind mirrors the "kind" column of system_schema.columns.
type ColumnKind string

// Column kinds.
const (
	KindPartitionKey ColumnKind = "partition_key"
	KindClustering   ColumnKind = "clustering"
	KindStatic       ColumnKind = "static"
	KindRegular      ColumnKind = "regular"
)

// Valid reports if k is a known column kind.
func (k ColumnKind) Valid() bool {
	switch k {
	case KindPartitionKey, KindClustering, KindStatic, KindRegular:
		return true
	default:
		return false
	}
}

// Table represents a raw table descriptor.
type Table struct {
	Name    string    `json:"name" yaml:"name"`
	Comment string    `json:"comment,omitempty" yaml:"comment,omitempty"`
	Columns []*Column `json:"columns,omitempty" yaml:"columns,omitempty"`
}

// Column represents a raw column descriptor.
type Column struct {
	Name string     `json:"name" yaml:"name"`
	Type string     `json:"type" yaml:"type"`
	Kind ColumnKind `json:"kind" yaml:"kind"`
	// Position is the declared ordinal of a key column. It is -1 (or ignored)
	// for regular and static columns.
	Position int `json:"position,omitempty" yaml:"position,omitempty"`
	// ClusteringOrder is "asc", "desc" or "none".
	ClusteringOrder string `json:"clustering_order,omitempty" yaml:"clustering_order,omitempty"`
}

// PartitionKey returns the partition key columns in their declared order.
func (t *Table) PartitionKey() []*Column { return t.keyColumns(KindPartitionKey) }

// ClusteringKey returns the clustering columns in their declared order.
func (t *Table) ClusteringKey() []*Column { return t.keyColumns(KindClustering) }

func (t *Table) keyColumns(kind ColumnKind) []*Column {
	var cols []*Column
	for _, c := range t.Columns {
		if c.Kind == kind {
			cols = append(cols, c)
		}
	}
	slices.SortStableFunc(cols, func(a, b *Column) int {
		return cmp.Compare(a.Position, b.Position)
	})
	return cols
}

// Validate checks the structural sanity of the snapshot: names are present
// and unique, and every column has a known kind and a type.
func (k *Keyspace) Validate() error {
	if k.Name == "" {
		return errors.New("load: keyspace name is empty")
	}
	seen := make(map[string]bool, len(k.Types))
	for _, t := range k.Types {
		if t.Name == "" {
			return fmt.Errorf("load: keyspace %q: user type with empty name", k.Name)
		}
		if seen[t.Name] {
			return fmt.Errorf("load: keyspace %q: duplicate user type %q", k.Name, t.Name)
		}
		seen[t.Name] = true
		for _, f := range t.Fields {
			if f.Name == "" || f.Type == "" {
				return fmt.Errorf("load: user type %q: field name and type are required", t.Name)
			}
		}
	}
	clear(seen)
	for _, t := range k.Tables {
		if t.Name == "" {
			return fmt.Errorf("load: keyspace %q: table with empty name", k.Name)
		}
		if seen[t.Name] {
			return fmt.Errorf("load: keyspace %q: duplicate table %q", k.Name, t.Name)
		}
		seen[t.Name] = true
		if len(t.PartitionKey()) == 0 {
			return fmt.Errorf("load: table %q: missing partition key", t.Name)
		}
		cols := make(map[string]bool, len(t.Columns))
		for _, c := range t.Columns {
			switch {
			case c.Name == "" || c.Type == "":
				return fmt.Errorf("load: table %q: column name and type are required", t.Name)
			case !c.Kind.Valid():
				return fmt.Errorf("load: table %q: column %q has unknown kind %q", t.Name, c.Name, c.Kind)
			case cols[c.Name]:
				return fmt.Errorf("load: table %q: duplicate column %q", t.Name, c.Name)
			}
			cols[c.Name] = true
		}
	}
	return nil
}
