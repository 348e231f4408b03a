package schema

import (
	"github.com/syssam/relmodel"
)

// orderUserDefinedTypes sorts udts so that each type follows the types it
// depends on. Types without dependencies keep their registration order and
// come first. Each pass moves every pending type whose dependencies are all
// ordered; a pass without progress means the remaining types form a cycle.
//
// Only types registered in the same namespace count as dependencies. Other
// named types cannot be created from here and would never resolve.
func orderUserDefinedTypes(namespace string, udts []UserDefinedType) ([]UserDefinedType, error) {
	known := make(map[string]UserDefinedType, len(udts))
	for _, u := range udts {
		known[u.TypeName()] = u
	}
	type pending struct {
		udt  UserDefinedType
		deps map[string]struct{}
	}
	var (
		ordered = make([]UserDefinedType, 0, len(udts))
		done    = make(map[string]struct{}, len(udts))
		queue   []*pending
	)
	for _, u := range udts {
		deps := make(map[string]struct{})
		for _, name := range directDependencies(u, known) {
			deps[name] = struct{}{}
		}
		if len(deps) == 0 {
			ordered = append(ordered, u)
			done[u.TypeName()] = struct{}{}
			continue
		}
		queue = append(queue, &pending{udt: u, deps: deps})
	}
	for len(queue) > 0 {
		rest := queue[:0]
		for _, p := range queue {
			for name := range p.deps {
				if _, ok := done[name]; ok {
					delete(p.deps, name)
				}
			}
			if len(p.deps) == 0 {
				ordered = append(ordered, p.udt)
				done[p.udt.TypeName()] = struct{}{}
				continue
			}
			rest = append(rest, p)
		}
		if len(rest) == len(queue) {
			names := make([]string, len(rest))
			for i, p := range rest {
				names[i] = p.udt.TypeName()
			}
			return nil, relmodel.NewCyclicDependencyError(namespace, names)
		}
		queue = rest
	}
	return ordered, nil
}

// directDependencies returns the names of the known types u depends on.
func directDependencies(u UserDefinedType, known map[string]UserDefinedType) []string {
	var deps []string
	switch u := u.(type) {
	case *UserDefinedObjectType:
		for _, name := range u.Dependencies() {
			if _, ok := known[name]; ok {
				deps = append(deps, name)
			}
		}
	case *UserDefinedArrayType:
		// An array only waits for its element if the element is an object
		// type of this namespace.
		if _, ok := known[u.ElementTypeName()].(*UserDefinedObjectType); ok {
			deps = append(deps, u.ElementTypeName())
		}
	}
	return deps
}
