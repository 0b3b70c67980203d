package gen

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/syssam/cqlgen/compiler/load"
)

// buildEntities builds one EntityModel per table, sorted by table name.
// All user-defined types must be registered in reg beforehand.
func buildEntities(reg *Registry, keyspace string, tables []*load.Table) ([]*EntityModel, error) {
	tables = slices.Clone(tables)
	slices.SortFunc(tables, func(a, b *load.Table) int { return cmp.Compare(a.Name, b.Name) })
	entities := make([]*EntityModel, 0, len(tables))
	for _, t := range tables {
		e, err := buildEntity(reg, keyspace, t)
		if err != nil {
			return nil, err
		}
		entities = append(entities, e)
	}
	return entities, nil
}

func buildEntity(reg *Registry, keyspace string, t *load.Table) (*EntityModel, error) {
	e := &EntityModel{
		Table:    t.Name,
		Keyspace: keyspace,
		Comment:  t.Comment,
		ident:    goIdent(singular(t.Name)),
	}
	pk, ck := t.PartitionKey(), t.ClusteringKey()
	if err := checkPositions(t.Name, "partition", pk); err != nil {
		return nil, err
	}
	if err := checkPositions(t.Name, "clustering", ck); err != nil {
		return nil, err
	}
	var static, regular []*load.Column
	for _, c := range t.Columns {
		switch c.Kind {
		case load.KindStatic:
			static = append(static, c)
		case load.KindRegular:
			regular = append(regular, c)
		case load.KindPartitionKey, load.KindClustering:
		default:
			return nil, NewSchemaError(t.Name, c.Name, fmt.Sprintf("unknown column kind %q", c.Kind), nil)
		}
	}
	byName := func(a, b *load.Column) int { return cmp.Compare(a.Name, b.Name) }
	slices.SortFunc(static, byName)
	slices.SortFunc(regular, byName)

	add := func(c *load.Column, role KeyRole) error {
		typ, err := reg.ResolveString(c.Type)
		if err != nil {
			return &UnresolvedColumnTypeError{Table: t.Name, Column: c.Name, Type: c.Type, Cause: err}
		}
		if hasScalar(typ, ScalarCounter) {
			e.Counter = true
		}
		e.Columns = append(e.Columns, &Column{
			Field:  &Field{Name: c.Name, Type: typ, Nullable: role.Kind == KeyNone},
			Role:   role,
			Static: c.Kind == load.KindStatic,
		})
		return nil
	}
	for i, c := range pk {
		if err := add(c, KeyRole{Kind: KeyPartition, Ordinal: i}); err != nil {
			return nil, err
		}
	}
	for i, c := range ck {
		role := KeyRole{Kind: KeyClustering, Ordinal: i}
		if strings.EqualFold(c.ClusteringOrder, "desc") {
			role.Order = Desc
		}
		if err := add(c, role); err != nil {
			return nil, err
		}
	}
	for _, c := range append(static, regular...) {
		if err := add(c, KeyRole{}); err != nil {
			return nil, err
		}
	}
	fields := make([]*Field, len(e.Columns))
	for i, c := range e.Columns {
		fields[i] = c.Field
	}
	assignFields(fields, func(id string) []string {
		return []string{"Get" + id, "String", "Values", "Pointers"}
	})
	return e, nil
}

// checkPositions verifies that the key columns, sorted by position, are
// numbered 0, 1, ... without gaps or duplicates.
func checkPositions(table, key string, cs []*load.Column) error {
	for i, c := range cs {
		if c.Position != i {
			pos := make([]int, len(cs))
			for j, c := range cs {
				pos[j] = c.Position
			}
			return &InvalidKeyLayoutError{Table: table, Key: key, Positions: pos}
		}
	}
	return nil
}
