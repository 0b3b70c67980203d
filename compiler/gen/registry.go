package gen

import (
	"fmt"

	"github.com/syssam/cqlgen/compiler/load"
)

// Registry maps CQL type expressions to TypeDescriptors and owns the
// canonical UdtModel of every user-defined type of a run. It is written
// by the UDT builder and read-only afterwards.
type Registry struct {
	types map[string]*UdtModel
	order []*UdtModel
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]*UdtModel)}
}

// Register adds m to the registry. Registering a name twice fails with
// a DuplicateTypeError.
func (r *Registry) Register(m *UdtModel) error {
	if _, ok := r.types[m.Name]; ok {
		return &DuplicateTypeError{Name: m.Name}
	}
	r.types[m.Name] = m
	r.order = append(r.order, m)
	return nil
}

// Lookup returns the model registered under name.
func (r *Registry) Lookup(name string) (*UdtModel, bool) {
	m, ok := r.types[name]
	return m, ok
}

// Models returns the registered models in registration order.
func (r *Registry) Models() []*UdtModel {
	return r.order
}

// Resolve maps a parsed CQL type to its descriptor. frozen<> wrappers are
// transparent. A reference to an unregistered user type fails with an
// UnknownUserTypeError, a native type without a Go mapping with an
// UnsupportedTypeError.
func (r *Registry) Resolve(e *load.TypeExpr) (TypeDescriptor, error) {
	return r.resolve(e, nil)
}

// ResolveString parses and resolves a CQL type string.
func (r *Registry) ResolveString(s string) (TypeDescriptor, error) {
	e, err := load.ParseType(s)
	if err != nil {
		return nil, &UnsupportedTypeError{Type: s, Reason: err.Error()}
	}
	return r.Resolve(e)
}

// resolve is like Resolve, but also accepts references to the user types
// in pending. It is used while the registry is being populated, when a
// type may refer to another one that is registered later.
func (r *Registry) resolve(e *load.TypeExpr, pending map[string]bool) (TypeDescriptor, error) {
	if e.Custom {
		return nil, &UnsupportedTypeError{Type: e.String(), Reason: "custom types have no Go mapping"}
	}
	if e.Literal {
		return nil, &UnsupportedTypeError{Type: e.String(), Reason: "unexpected literal"}
	}
	arity := func(n int) error {
		if len(e.Args) != n {
			return &UnsupportedTypeError{Type: e.String(), Reason: fmt.Sprintf("expected %d type parameter(s), got %d", n, len(e.Args))}
		}
		return nil
	}
	switch e.Name {
	case "frozen":
		if err := arity(1); err != nil {
			return nil, err
		}
		return r.resolve(e.Unfrozen(), pending)
	case "list", "set":
		if err := arity(1); err != nil {
			return nil, err
		}
		elem, err := r.resolve(e.Args[0], pending)
		if err != nil {
			return nil, err
		}
		if e.Name == "list" {
			return &ListType{Elem: elem}, nil
		}
		return &SetType{Elem: elem}, nil
	case "map":
		if err := arity(2); err != nil {
			return nil, err
		}
		k, err := r.resolve(e.Args[0], pending)
		if err != nil {
			return nil, err
		}
		v, err := r.resolve(e.Args[1], pending)
		if err != nil {
			return nil, err
		}
		return &MapType{Key: k, Value: v}, nil
	case "tuple":
		if len(e.Args) == 0 {
			return nil, &UnsupportedTypeError{Type: e.String(), Reason: "tuple without elements"}
		}
		t := &TupleType{Elems: make([]TypeDescriptor, len(e.Args))}
		for i, a := range e.Args {
			elem, err := r.resolve(a, pending)
			if err != nil {
				return nil, err
			}
			t.Elems[i] = elem
		}
		return t, nil
	case "vector", "empty":
		return nil, &UnsupportedTypeError{Type: e.String(), Reason: "no Go mapping"}
	}
	if kind, ok := scalarKinds[e.Name]; ok {
		if err := arity(0); err != nil {
			return nil, err
		}
		return &ScalarType{Kind: kind}, nil
	}
	if len(e.Args) > 0 {
		return nil, &UnsupportedTypeError{Type: e.String(), Reason: "unknown parameterized type"}
	}
	if _, ok := r.types[e.Name]; ok || pending[e.Name] {
		return &UserType{Name: e.Name}, nil
	}
	return nil, &UnknownUserTypeError{Name: e.Name}
}
