package cql

import (
	"fmt"
	"slices"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/cqlgen/compiler/gen"
)

// typeRenderer renders the Go type of a descriptor. Nested types are
// always rendered by value; pointers are added by fieldType only.
type typeRenderer struct {
	graph *gen.Graph
	owner string
	field string
}

func (r typeRenderer) unsupported(t gen.TypeDescriptor) *gen.UnsupportedFieldTypeError {
	return &gen.UnsupportedFieldTypeError{Type: t, Owner: r.owner, Field: r.field}
}

// comparable reports if the rendered Go type of t can key a map.
func (r typeRenderer) comparable(t gen.TypeDescriptor) bool {
	switch t := t.(type) {
	case *gen.ScalarType:
		return !isScalar(t, gen.ScalarBlob, gen.ScalarInet)
	case *gen.TupleType:
		for _, e := range t.Elems {
			if !r.comparable(e) {
				return false
			}
		}
		return true
	case *gen.UserType:
		// Hard cycles are rejected before rendering, and soft ones pass
		// through a collection, so the recursion ends.
		m, ok := r.graph.Type(t.Name)
		if !ok {
			return false
		}
		for _, f := range m.Fields {
			if !r.comparable(f.Type) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// isScalar reports if t is a scalar of one of the given kinds.
func isScalar(t gen.TypeDescriptor, kinds ...gen.ScalarKind) bool {
	s, ok := t.(*gen.ScalarType)
	return ok && slices.Contains(kinds, s.Kind)
}

func (r typeRenderer) VisitScalar(t *gen.ScalarType) (jen.Code, error) {
	switch t.Kind {
	case gen.ScalarASCII, gen.ScalarText, gen.ScalarVarchar:
		return jen.String(), nil
	case gen.ScalarBigint, gen.ScalarCounter:
		return jen.Int64(), nil
	case gen.ScalarBlob:
		return jen.Index().Byte(), nil
	case gen.ScalarBoolean:
		return jen.Bool(), nil
	case gen.ScalarDate, gen.ScalarTimestamp:
		return jen.Qual("time", "Time"), nil
	case gen.ScalarDecimal:
		return jen.Op("*").Qual(infPkg, "Dec"), nil
	case gen.ScalarDouble:
		return jen.Float64(), nil
	case gen.ScalarDuration:
		return jen.Qual(gocqlPkg, "Duration"), nil
	case gen.ScalarFloat:
		return jen.Float32(), nil
	case gen.ScalarInet:
		return jen.Qual("net", "IP"), nil
	case gen.ScalarInt:
		return jen.Int32(), nil
	case gen.ScalarSmallint:
		return jen.Int16(), nil
	case gen.ScalarTime:
		return jen.Qual("time", "Duration"), nil
	case gen.ScalarTinyint:
		return jen.Int8(), nil
	case gen.ScalarUUID, gen.ScalarTimeUUID:
		return jen.Qual(gocqlPkg, "UUID"), nil
	case gen.ScalarVarint:
		return jen.Op("*").Qual("math/big", "Int"), nil
	}
	return nil, r.unsupported(t)
}

func (r typeRenderer) VisitList(t *gen.ListType) (jen.Code, error) {
	elem, err := gen.Visit[jen.Code](t.Elem, r)
	if err != nil {
		return nil, err
	}
	return jen.Index().Add(elem), nil
}

func (r typeRenderer) VisitSet(t *gen.SetType) (jen.Code, error) {
	elem, err := gen.Visit[jen.Code](t.Elem, r)
	if err != nil {
		return nil, err
	}
	return jen.Index().Add(elem), nil
}

// VisitMap renders a map. gocql decodes blob and inet keys into strings,
// since []byte and net.IP cannot key a Go map. Any other key must be
// comparable.
func (r typeRenderer) VisitMap(t *gen.MapType) (jen.Code, error) {
	var key jen.Code
	switch {
	case isScalar(t.Key, gen.ScalarBlob, gen.ScalarInet):
		key = jen.String()
	case !r.comparable(t.Key):
		err := r.unsupported(t)
		err.Reason = fmt.Sprintf("map key %s is not comparable in Go", t.Key)
		return nil, err
	default:
		k, err := gen.Visit[jen.Code](t.Key, r)
		if err != nil {
			return nil, err
		}
		key = k
	}
	value, err := gen.Visit[jen.Code](t.Value, r)
	if err != nil {
		return nil, err
	}
	return jen.Map(key).Add(value), nil
}

func (r typeRenderer) VisitUser(t *gen.UserType) (jen.Code, error) {
	m, ok := r.graph.Type(t.Name)
	if !ok {
		return nil, r.unsupported(t)
	}
	return jen.Id(m.Ident()), nil
}

// VisitTuple renders an anonymous struct. gocql binds tuple elements to
// struct fields by position.
func (r typeRenderer) VisitTuple(t *gen.TupleType) (jen.Code, error) {
	fields := make([]jen.Code, len(t.Elems))
	for i, e := range t.Elems {
		elem, err := gen.Visit[jen.Code](e, r)
		if err != nil {
			return nil, err
		}
		fields[i] = jen.Id(fmt.Sprintf("Field%d", i)).Add(elem)
	}
	return jen.Struct(fields...), nil
}

// nillable reports if the Go type of t already has nil as a value.
func nillable(t gen.TypeDescriptor) bool {
	switch t := t.(type) {
	case *gen.ListType, *gen.SetType, *gen.MapType:
		return true
	case *gen.ScalarType:
		switch t.Kind {
		case gen.ScalarBlob, gen.ScalarDecimal, gen.ScalarInet, gen.ScalarVarint:
			return true
		}
	}
	return false
}

// pointer reports if the field renders as a pointer.
func pointer(f *gen.Field) bool {
	return f.Nullable && !nillable(f.Type)
}

// fieldType renders the Go type of a struct field of owner.
func fieldType(g *gen.Graph, owner string, f *gen.Field) (jen.Code, error) {
	typ, err := gen.Visit[jen.Code](f.Type, typeRenderer{graph: g, owner: owner, field: f.Name})
	if err != nil {
		return nil, err
	}
	if pointer(f) {
		return jen.Op("*").Add(typ), nil
	}
	return typ, nil
}

// structTags returns the tags of a generated struct field.
func structTags(h gen.GeneratorHelper, f *gen.Field) map[string]string {
	tags := map[string]string{"cql": f.Name}
	if h.FeatureEnabled(gen.FeatureJSONTags.Name) {
		if f.Nullable || nillable(f.Type) {
			tags["json"] = f.Name + ",omitempty"
		} else {
			tags["json"] = f.Name
		}
	}
	return tags
}
