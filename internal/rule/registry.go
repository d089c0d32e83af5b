package rule

import (
	"fmt"
	"slices"
)

// Registry holds at most one live Module per Kind. Kinds are iterated in the
// order they were first written. The zero value is an empty registry with
// no System.
type Registry struct {
	sys     System
	modules []*Module
	byKind  map[Kind]*Module
}

// NewRegistry creates an empty registry whose modules validate against sys.
func NewRegistry(sys System) *Registry {
	return &Registry{
		sys:    sys,
		byKind: make(map[Kind]*Module),
	}
}

// Get returns the live module of the given kind.
func (r *Registry) Get(kind Kind) (*Module, bool) {
	m, ok := r.byKind[kind]
	return m, ok
}

// Set routes value into the module of the given kind, creating it on first
// use, and returns the outcome of that module's Add.
func (r *Registry) Set(kind Kind, value string) (ModuleError, error) {
	m, err := r.fetch(kind)
	if err != nil {
		return NoError, err
	}
	return m.Add(value), nil
}

// Invert sets the negation flag on the module of the given kind, creating
// it on first use.
func (r *Registry) Invert(kind Kind, invert bool) error {
	m, err := r.fetch(kind)
	if err != nil {
		return err
	}
	m.SetInverted(invert)
	return nil
}

func (r *Registry) fetch(kind Kind) (*Module, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedKind, kind)
	}
	if m, ok := r.byKind[kind]; ok {
		return m, nil
	}
	m, err := NewModule(kind, r.sys)
	if err != nil {
		return nil, err
	}
	if r.byKind == nil {
		r.byKind = make(map[Kind]*Module)
	}
	r.modules = append(r.modules, m)
	r.byKind[kind] = m
	return m, nil
}

// Items returns the live modules in first-seen order.
func (r *Registry) Items() []*Module {
	return slices.Clone(r.modules)
}

// Len returns the number of live modules.
func (r *Registry) Len() int {
	return len(r.modules)
}
