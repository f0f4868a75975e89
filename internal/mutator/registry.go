package mutator

import (
	"errors"
	"fmt"
)

// Error definitions for the registry
var (
	// ErrNilMutator is returned when registering a nil mutator
	ErrNilMutator = errors.New("mutator cannot be nil")
	// ErrEmptyMutatorName is returned when a mutator declares an empty name
	ErrEmptyMutatorName = errors.New("mutator name cannot be empty")
	// ErrDuplicateMutator is returned when a name is registered twice
	ErrDuplicateMutator = errors.New("mutator already registered")
	// ErrMutatorNotFound is returned when looking up an unknown name
	ErrMutatorNotFound = errors.New("mutator not found")
)

// Registry is the selection table for mutators. Iteration order is the
// registration order, keeping listings and random selection deterministic
// under a seeded randomness provider.
type Registry struct {
	byName map[string]Mutator
	order  []string
}

// NewRegistry creates an empty mutator registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Mutator)}
}

// Register adds a mutator under its Spec().Name.
func (r *Registry) Register(m Mutator) error {
	if m == nil {
		return ErrNilMutator
	}
	name := m.Spec().Name
	if name == "" {
		return ErrEmptyMutatorName
	}
	if _, exists := r.byName[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateMutator, name)
	}
	r.byName[name] = m
	r.order = append(r.order, name)
	return nil
}

// Get returns the mutator registered under name.
func (r *Registry) Get(name string) (Mutator, error) {
	m, exists := r.byName[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrMutatorNotFound, name)
	}
	return m, nil
}

// Names returns all registered names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// All returns all registered mutators in registration order.
func (r *Registry) All() []Mutator {
	mutators := make([]Mutator, 0, len(r.order))
	for _, name := range r.order {
		mutators = append(mutators, r.byName[name])
	}
	return mutators
}

// Len returns the number of registered mutators.
func (r *Registry) Len() int {
	return len(r.order)
}
