package gen

import (
	"fmt"
	"strings"
	"unicode"
)

type (
	// Field is a typed, named member of a UdtModel or EntityModel.
	Field struct {
		// Name is the CQL name of the field or column.
		Name string
		// Type is the resolved type. UDTs are referenced by name only.
		Type TypeDescriptor
		// Nullable fields of scalar and user-defined types are rendered as pointers.
		Nullable bool
		// structField holds the Go identifier of the field.
		structField string
	}

	// UdtModel is the model of a user-defined type. It is immutable once
	// registered.
	UdtModel struct {
		// Name is the CQL name of the type.
		Name   string
		Fields []*Field
		ident  string
	}

	// KeyKind is the primary key membership of a column.
	KeyKind uint8

	// SortOrder is the clustering order of a clustering column.
	SortOrder uint8

	// KeyRole describes the part a column plays in the primary key.
	KeyRole struct {
		Kind    KeyKind
		Ordinal int
		Order   SortOrder
	}

	// Column is an entity field with its key role.
	Column struct {
		*Field
		Role   KeyRole
		Static bool
	}

	// EntityModel is the model of a table.
	EntityModel struct {
		// Table is the CQL name of the table.
		Table    string
		Keyspace string
		Comment  string
		// Columns are ordered: partition keys, clustering keys, static
		// columns and regular columns.
		Columns []*Column
		// Counter is set for counter tables.
		Counter bool
		ident   string
	}
)

// Key kinds.
const (
	KeyNone KeyKind = iota
	KeyPartition
	KeyClustering
)

// Sort orders.
const (
	Asc SortOrder = iota
	Desc
)

// String returns the CQL form of the order.
func (o SortOrder) String() string {
	if o == Desc {
		return "DESC"
	}
	return "ASC"
}

// String returns a human readable form of the role.
func (r KeyRole) String() string {
	switch r.Kind {
	case KeyPartition:
		return fmt.Sprintf("partition key #%d", r.Ordinal)
	case KeyClustering:
		return fmt.Sprintf("clustering key #%d %s", r.Ordinal, r.Order)
	default:
		return "regular"
	}
}

// StructField returns the Go identifier of the field.
func (f *Field) StructField() string {
	if f.structField == "" {
		return goIdent(f.Name)
	}
	return f.structField
}

// Param returns the name of the field when used as a function parameter.
//
//	OrderID => orderID
//	URLPath => urlPath
func (f *Field) Param() string {
	rs := []rune(f.StructField())
	n := 0
	for n < len(rs) && unicode.IsUpper(rs[n]) {
		n++
	}
	if n > 1 && n < len(rs) && unicode.IsLower(rs[n]) {
		n--
	}
	for i := 0; i < n; i++ {
		rs[i] = unicode.ToLower(rs[i])
	}
	return builderField(string(rs), reservedParams)
}

// reservedParams are identifiers used by generated function bodies.
var reservedParams = names(
	"ctx", "d", "e", "q", "iter", "err", "row", "rows", "entity",
	"context", "fmt", "gocql", "strings", "time", "net", "big", "inf",
	"any", "append", "error", "new", "nil",
)

// reservedReceivers are the imported packages, predeclared identifiers
// and locals that generated methods of values and entities refer to.
var reservedReceivers = names(
	"context", "fmt", "gocql", "strings", "time", "net", "big", "inf",
	"any", "nil", "builder", "zero",
)

// Ident returns the Go identifier of the type.
func (m *UdtModel) Ident() string {
	if m.ident == "" {
		return goIdent(m.Name)
	}
	return m.ident
}

// Receiver returns the receiver name used in methods of the type.
func (m *UdtModel) Receiver() string { return receiver(m.Ident()) }

// File returns the name of the file holding the type.
func (m *UdtModel) File() string { return snake(m.Ident()) + ".go" }

// Ident returns the Go identifier of the entity.
func (e *EntityModel) Ident() string {
	if e.ident == "" {
		return goIdent(singular(e.Table))
	}
	return e.ident
}

// Receiver returns the receiver name used in methods of the entity.
func (e *EntityModel) Receiver() string { return receiver(e.Ident()) }

// File returns the name of the file holding the entity.
func (e *EntityModel) File() string { return snake(e.Ident()) + ".go" }

// DALIdent returns the Go identifier of the data-access type.
func (e *EntityModel) DALIdent() string { return e.Ident() + "DAL" }

// DALFile returns the name of the file holding the data-access type.
func (e *EntityModel) DALFile() string { return snake(e.Ident()) + "_dal.go" }

// PartitionKey returns the partition key columns by ordinal.
func (e *EntityModel) PartitionKey() []*Column {
	return e.columns(func(c *Column) bool { return c.Role.Kind == KeyPartition })
}

// ClusteringKey returns the clustering key columns by ordinal.
func (e *EntityModel) ClusteringKey() []*Column {
	return e.columns(func(c *Column) bool { return c.Role.Kind == KeyClustering })
}

// PrimaryKey returns the partition key followed by the clustering key.
func (e *EntityModel) PrimaryKey() []*Column {
	return e.columns(func(c *Column) bool { return c.Role.Kind != KeyNone })
}

// NonKey returns the static and regular columns.
func (e *EntityModel) NonKey() []*Column {
	return e.columns(func(c *Column) bool { return c.Role.Kind == KeyNone })
}

func (e *EntityModel) columns(fn func(*Column) bool) []*Column {
	var cs []*Column
	for _, c := range e.Columns {
		if fn(c) {
			cs = append(cs, c)
		}
	}
	return cs
}

// QualifiedTable returns the keyspace qualified table name.
func (e *EntityModel) QualifiedTable() string {
	return quoteIdent(e.Keyspace) + "." + quoteIdent(e.Table)
}

// ColumnNames returns the quoted CQL names of the given columns.
func ColumnNames(cs []*Column) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = quoteIdent(c.Name)
	}
	return out
}

// cqlReserved holds the reserved CQL keywords that must be quoted when
// used as identifiers.
var cqlReserved = names(
	"add", "allow", "alter", "and", "apply", "asc", "authorize", "batch", "begin",
	"by", "columnfamily", "create", "default", "delete", "desc", "describe", "drop",
	"entries", "execute", "from", "full", "grant", "if", "in", "index", "infinity",
	"insert", "into", "is", "keyspace", "limit", "materialized", "mbean", "mbeans",
	"modify", "nan", "norecursive", "not", "null", "of", "on", "or", "order",
	"primary", "rename", "replace", "revoke", "schema", "select", "set", "table",
	"to", "token", "truncate", "unlogged", "unset", "update", "use", "using", "view",
	"where", "with",
)

// quoteIdent quotes a CQL identifier unless it is a plain lower-case,
// non-reserved name.
func quoteIdent(s string) string {
	_, reserved := cqlReserved[s]
	plain := s != "" && !reserved
	for i, r := range s {
		if !(r == '_' || r >= 'a' && r <= 'z' || i > 0 && r >= '0' && r <= '9') {
			plain = false
			break
		}
	}
	if plain {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// assignFields sets unique Go identifiers on fields. A field whose
// identifier collides with an earlier field, or with a method generated
// for the owner, gets an underscore suffix. Renaming a field renames its
// methods, so the check repeats until no identifier changes.
func assignFields(fields []*Field, methods func(ident string) []string) {
	for _, f := range fields {
		f.structField = goIdent(f.Name)
	}
	for changed := true; changed; {
		changed = false
		generated := make(map[string]bool)
		for _, f := range fields {
			for _, m := range methods(f.structField) {
				generated[m] = true
			}
		}
		taken := make(map[string]bool, len(fields))
		for _, f := range fields {
			for taken[f.structField] || generated[f.structField] {
				f.structField += "_"
				changed = true
			}
			taken[f.structField] = true
		}
	}
}
