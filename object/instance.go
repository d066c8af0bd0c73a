package object

import (
	"fmt"

	"github.com/google/uuid"

	"tree_lox/value"
)

// Instance is a class instance: fields created on first assignment, plus
// methods resolved through Class. id is a non-semantic handle used only
// by the 'id' native function; it plays no role
// in equality (identity equality is Go pointer identity) or in String.
type Instance struct {
	value.Sealed
	Class  *Class
	Fields map[string]value.Value
	id     uuid.UUID
}

func NewInstance(class *Class) *Instance {
	return &Instance{
		Class:  class,
		Fields: make(map[string]value.Value),
		id:     uuid.New(),
	}
}

func (i *Instance) String() string {
	return fmt.Sprintf("%s instance", i.Class.Name)
}

// ID returns a stable, float-safe integer derived from the instance's
// internal uuid, for the 'id' native function.
func (i *Instance) ID() value.Number {
	var n uint64
	for _, b := range i.id[:8] {
		n = n<<8 | uint64(b)
	}
	// Keep it within float64's exact-integer range.
	return value.Number(n % (1 << 53))
}

// Get looks up name, checking fields first and then the class's (and its
// superclasses') methods, returning a bound method in the latter case.
func (i *Instance) Get(name string) (value.Value, bool) {
	if v, ok := i.Fields[name]; ok {
		return v, true
	}
	if method, ok := i.Class.FindMethod(name); ok {
		return method.Bind(i), true
	}
	return nil, false
}

// Set assigns to the field map, creating the field if absent.
func (i *Instance) Set(name string, v value.Value) {
	i.Fields[name] = v
}
