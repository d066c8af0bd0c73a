// Package object holds Lox's callable/class runtime model and the
// Environment it executes against.
package object

import "tree_lox/value"

// Environment is a chained mapping from name to Value. The global
// environment has no Enclosing; every block, call and method bind
// creates a fresh child.
type Environment struct {
	values    map[string]value.Value
	Enclosing *Environment
}

func NewEnvironment(enclosing *Environment) *Environment {
	return &Environment{
		values:    make(map[string]value.Value),
		Enclosing: enclosing,
	}
}

// Define unconditionally inserts or overwrites name in this environment.
// At global scope this permits redefinition; the resolver rejects
// redefinition of a local before this is ever reached.
func (e *Environment) Define(name string, v value.Value) {
	e.values[name] = v
}

// Get returns the value bound to name in this environment or an
// enclosing one, walking outward. ok is false if no environment in the
// chain defines it.
func (e *Environment) Get(name string) (value.Value, bool) {
	for env := e; env != nil; env = env.Enclosing {
		if v, ok := env.values[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Assign sets name to v in the nearest environment (walking outward) that
// already defines it. ok is false if no environment in the chain does.
func (e *Environment) Assign(name string, v value.Value) bool {
	for env := e; env != nil; env = env.Enclosing {
		if _, ok := env.values[name]; ok {
			env.values[name] = v
			return true
		}
	}
	return false
}

// Ancestor returns the environment distance hops out from e. The resolver
// guarantees distance never walks past the environment chain's root.
func (e *Environment) Ancestor(distance int) *Environment {
	env := e
	for i := 0; i < distance; i++ {
		env = env.Enclosing
	}
	return env
}

// GetAt and AssignAt access a binding known to live exactly distance
// scopes out. The resolver has already proven it is there, so a missing
// entry is a programmer error in the resolver/interpreter, not a Lox
// runtime error.
func (e *Environment) GetAt(distance int, name string) value.Value {
	v, ok := e.Ancestor(distance).values[name]
	if !ok {
		panic("object: resolved local '" + name + "' missing from environment")
	}
	return v
}

func (e *Environment) AssignAt(distance int, name string, v value.Value) {
	e.Ancestor(distance).values[name] = v
}
