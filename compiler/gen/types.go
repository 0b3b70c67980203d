package gen

import "strings"

// TypeDescriptor is a resolved column or field type. The set of
// implementations is closed: ScalarType, ListType, SetType, MapType,
// UserType and TupleType. Use Visit to match on it.
type TypeDescriptor interface {
	// String returns the CQL form of the type.
	String() string
	typeDescriptor()
}

// ScalarKind is a native CQL type with a fixed Go mapping.
type ScalarKind string

// Native CQL types.
const (
	ScalarASCII     ScalarKind = "ascii"
	ScalarBigint    ScalarKind = "bigint"
	ScalarBlob      ScalarKind = "blob"
	ScalarBoolean   ScalarKind = "boolean"
	ScalarCounter   ScalarKind = "counter"
	ScalarDate      ScalarKind = "date"
	ScalarDecimal   ScalarKind = "decimal"
	ScalarDouble    ScalarKind = "double"
	ScalarDuration  ScalarKind = "duration"
	ScalarFloat     ScalarKind = "float"
	ScalarInet      ScalarKind = "inet"
	ScalarInt       ScalarKind = "int"
	ScalarSmallint  ScalarKind = "smallint"
	ScalarText      ScalarKind = "text"
	ScalarTime      ScalarKind = "time"
	ScalarTimestamp ScalarKind = "timestamp"
	ScalarTimeUUID  ScalarKind = "timeuuid"
	ScalarTinyint   ScalarKind = "tinyint"
	ScalarUUID      ScalarKind = "uuid"
	ScalarVarchar   ScalarKind = "varchar"
	ScalarVarint    ScalarKind = "varint"
)

var scalarKinds = func() map[string]ScalarKind {
	m := make(map[string]ScalarKind)
	for _, k := range []ScalarKind{
		ScalarASCII, ScalarBigint, ScalarBlob, ScalarBoolean, ScalarCounter,
		ScalarDate, ScalarDecimal, ScalarDouble, ScalarDuration, ScalarFloat,
		ScalarInet, ScalarInt, ScalarSmallint, ScalarText, ScalarTime,
		ScalarTimestamp, ScalarTimeUUID, ScalarTinyint, ScalarUUID,
		ScalarVarchar, ScalarVarint,
	} {
		m[string(k)] = k
	}
	return m
}()

type (
	// ScalarType is a native, non-parameterized type.
	ScalarType struct {
		Kind ScalarKind
	}

	// ListType is list<Elem>.
	ListType struct {
		Elem TypeDescriptor
	}

	// SetType is set<Elem>.
	SetType struct {
		Elem TypeDescriptor
	}

	// MapType is map<Key, Value>.
	MapType struct {
		Key   TypeDescriptor
		Value TypeDescriptor
	}

	// UserType references a user-defined type by name. The canonical
	// model is held by the Registry.
	UserType struct {
		Name string
	}

	// TupleType is tuple<Elems...>.
	TupleType struct {
		Elems []TypeDescriptor
	}
)

func (*ScalarType) typeDescriptor() {}
func (*ListType) typeDescriptor()   {}
func (*SetType) typeDescriptor()    {}
func (*MapType) typeDescriptor()    {}
func (*UserType) typeDescriptor()   {}
func (*TupleType) typeDescriptor()  {}

func (t *ScalarType) String() string { return string(t.Kind) }
func (t *ListType) String() string   { return "list<" + t.Elem.String() + ">" }
func (t *SetType) String() string    { return "set<" + t.Elem.String() + ">" }
func (t *MapType) String() string    { return "map<" + t.Key.String() + ", " + t.Value.String() + ">" }
func (t *UserType) String() string   { return t.Name }

func (t *TupleType) String() string {
	elems := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		elems[i] = e.String()
	}
	return "tuple<" + strings.Join(elems, ", ") + ">"
}

// TypeVisitor is implemented by code that handles every TypeDescriptor
// variant. Adding a variant to the closed set breaks every visitor at
// compile time.
type TypeVisitor[R any] interface {
	VisitScalar(*ScalarType) (R, error)
	VisitList(*ListType) (R, error)
	VisitSet(*SetType) (R, error)
	VisitMap(*MapType) (R, error)
	VisitUser(*UserType) (R, error)
	VisitTuple(*TupleType) (R, error)
}

// Visit dispatches t to the matching method of v. A nil or foreign
// descriptor yields an UnsupportedFieldTypeError.
func Visit[R any](t TypeDescriptor, v TypeVisitor[R]) (R, error) {
	switch t := t.(type) {
	case *ScalarType:
		return v.VisitScalar(t)
	case *ListType:
		return v.VisitList(t)
	case *SetType:
		return v.VisitSet(t)
	case *MapType:
		return v.VisitMap(t)
	case *UserType:
		return v.VisitUser(t)
	case *TupleType:
		return v.VisitTuple(t)
	default:
		var zero R
		return zero, &UnsupportedFieldTypeError{Type: t}
	}
}

// IsCollection reports if t is a list, set or map.
func IsCollection(t TypeDescriptor) bool {
	switch t.(type) {
	case *ListType, *SetType, *MapType:
		return true
	default:
		return false
	}
}

// typeRef is a reference from one type to a user-defined type.
type typeRef struct {
	name string
	// soft is set when the reference goes through a collection, so the
	// referencing type does not embed the target by value.
	soft bool
}

// userTypeRefs returns the user-defined types t refers to, in the order
// they appear.
func userTypeRefs(t TypeDescriptor) []typeRef {
	var refs []typeRef
	var walk func(TypeDescriptor, bool)
	walk = func(t TypeDescriptor, soft bool) {
		switch t := t.(type) {
		case *UserType:
			refs = append(refs, typeRef{name: t.Name, soft: soft})
		case *ListType:
			walk(t.Elem, true)
		case *SetType:
			walk(t.Elem, true)
		case *MapType:
			walk(t.Key, true)
			walk(t.Value, true)
		case *TupleType:
			for _, e := range t.Elems {
				walk(e, soft)
			}
		}
	}
	walk(t, false)
	return refs
}

// hasScalar reports if kind appears anywhere in t.
func hasScalar(t TypeDescriptor, kind ScalarKind) bool {
	switch t := t.(type) {
	case *ScalarType:
		return t.Kind == kind
	case *ListType:
		return hasScalar(t.Elem, kind)
	case *SetType:
		return hasScalar(t.Elem, kind)
	case *MapType:
		return hasScalar(t.Key, kind) || hasScalar(t.Value, kind)
	case *TupleType:
		for _, e := range t.Elems {
			if hasScalar(e, kind) {
				return true
			}
		}
	}
	return false
}
