package gen

import (
	"errors"
	"slices"

	"github.com/syssam/cqlgen/compiler/load"
)

// buildTypes resolves the raw user-defined types of a keyspace, orders
// them so that no type precedes a type it depends on, and registers them
// in that order.
//
// A type referring to another one by value (directly or inside a tuple)
// has a hard dependency on it. References inside a list, set or map are
// soft: Go can hold a slice or map of a type that is still being defined.
// Only a cycle made of hard dependencies is an error; soft dependencies
// order the output whenever they do not close a cycle.
func buildTypes(reg *Registry, raw []*load.UserType) ([]*UdtModel, error) {
	pending := make(map[string]bool, len(raw))
	for _, t := range raw {
		if pending[t.Name] {
			return nil, &DuplicateTypeError{Name: t.Name}
		}
		pending[t.Name] = true
	}
	var (
		models = make(map[string]*UdtModel, len(raw))
		deps   = make(map[string]map[string]bool, len(raw)) // name => dependency => hard
	)
	for _, t := range raw {
		m := &UdtModel{Name: t.Name, ident: goIdent(t.Name)}
		deps[t.Name] = make(map[string]bool)
		for _, rf := range t.Fields {
			e, err := load.ParseType(rf.Type)
			if err != nil {
				return nil, NewSchemaError(t.Name, rf.Name, "invalid type", err)
			}
			typ, err := reg.resolve(e, pending)
			if err != nil {
				var unknown *UnknownUserTypeError
				if errors.As(err, &unknown) {
					unknown.Owner, unknown.Field = t.Name, rf.Name
				}
				return nil, err
			}
			m.Fields = append(m.Fields, &Field{Name: rf.Name, Type: typ})
			for _, ref := range userTypeRefs(typ) {
				if ref.soft && ref.name == t.Name {
					continue
				}
				deps[t.Name][ref.name] = deps[t.Name][ref.name] || !ref.soft
			}
		}
		assignFields(m.Fields, func(id string) []string {
			return []string{"Get" + id, "String"}
		})
		models[t.Name] = m
	}
	order, err := sortTypes(deps)
	if err != nil {
		return nil, err
	}
	for _, name := range order {
		if err := reg.Register(models[name]); err != nil {
			return nil, err
		}
	}
	return reg.Models(), nil
}

// sortTypes runs Kahn's algorithm over deps, always picking the smallest
// ready name so the result is deterministic. When only soft cycles are
// left, the smallest node without pending hard dependencies is released.
func sortTypes(deps map[string]map[string]bool) ([]string, error) {
	var (
		remaining = make(map[string]bool, len(deps))
		order     = make([]string, 0, len(deps))
	)
	for name := range deps {
		remaining[name] = true
	}
	blocked := func(name string, hardOnly bool) bool {
		for dep, hard := range deps[name] {
			if remaining[dep] && (hard || !hardOnly) {
				return true
			}
		}
		return false
	}
	for len(remaining) > 0 {
		names := sortedNames(remaining)
		next := ""
		for _, name := range names {
			if !blocked(name, false) {
				next = name
				break
			}
		}
		if next == "" {
			if cycle := hardCycle(deps, names, remaining); cycle != nil {
				return nil, &CyclicTypeDependencyError{Cycle: cycle}
			}
			for _, name := range names {
				if !blocked(name, true) {
					next = name
					break
				}
			}
		}
		order = append(order, next)
		delete(remaining, next)
	}
	return order, nil
}

// hardCycle returns a cycle of hard dependencies among the remaining
// types, or nil if there is none.
func hardCycle(deps map[string]map[string]bool, names []string, remaining map[string]bool) []string {
	const (
		white = iota
		grey
		black
	)
	var (
		color = make(map[string]int, len(names))
		stack []string
		visit func(string) []string
	)
	visit = func(n string) []string {
		color[n] = grey
		stack = append(stack, n)
		var next []string
		for dep, hard := range deps[n] {
			if hard && remaining[dep] {
				next = append(next, dep)
			}
		}
		slices.Sort(next)
		for _, dep := range next {
			switch color[dep] {
			case grey:
				i := slices.Index(stack, dep)
				return append(slices.Clone(stack[i:]), dep)
			case white:
				if c := visit(dep); c != nil {
					return c
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[n] = black
		return nil
	}
	for _, n := range names {
		if color[n] == white {
			if c := visit(n); c != nil {
				return c
			}
		}
	}
	return nil
}

func sortedNames(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}
