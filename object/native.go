package object

import (
	"fmt"
	"time"

	"tree_lox/value"
)

// NativeFunction wraps a Go function as a Lox callable. Fn returns an
// error for a domain/type mismatch (wrong argument shape);
// the interpreter turns that into the same runtime-error shape a Lox-level
// call site error gets, carrying the call expression's token.
type NativeFunction struct {
	value.Sealed
	Name   string
	Arity_ int
	Fn     func(args []value.Value) (value.Value, error)
}

func (n *NativeFunction) String() string {
	return fmt.Sprintf("<native fn %s>", n.Name)
}

func (n *NativeFunction) Arity() int { return n.Arity_ }

// Globals returns the native-function table installed in the interpreter's
// global environment: 'clock', plus reflective field access, an
// isinstance check and a debugging id().
func Globals() []*NativeFunction {
	return []*NativeFunction{
		{Name: "clock", Arity_: 0, Fn: nativeClock},
		{Name: "string", Arity_: 1, Fn: nativeString},
		{Name: "getattr", Arity_: 2, Fn: nativeGetattr},
		{Name: "setattr", Arity_: 3, Fn: nativeSetattr},
		{Name: "delattr", Arity_: 2, Fn: nativeDelattr},
		{Name: "isinstance", Arity_: 2, Fn: nativeIsinstance},
		{Name: "id", Arity_: 1, Fn: nativeID},
	}
}

func nativeClock(args []value.Value) (value.Value, error) {
	return value.Number(float64(time.Now().UnixNano()) / 1e9), nil
}

func nativeString(args []value.Value) (value.Value, error) {
	return value.String(args[0].String()), nil
}

func asInstance(v value.Value, argPos, fn string) (*Instance, error) {
	inst, ok := v.(*Instance)
	if !ok {
		return nil, fmt.Errorf("%s argument to '%s' must be an instance.", argPos, fn)
	}
	return inst, nil
}

func asFieldName(v value.Value, argPos, fn string) (string, error) {
	s, ok := v.(value.String)
	if !ok {
		return "", fmt.Errorf("%s argument to '%s' must be a string.", argPos, fn)
	}
	return string(s), nil
}

func nativeGetattr(args []value.Value) (value.Value, error) {
	inst, err := asInstance(args[0], "First", "getattr")
	if err != nil {
		return nil, err
	}
	field, err := asFieldName(args[1], "Second", "getattr")
	if err != nil {
		return nil, err
	}
	if v, ok := inst.Get(field); ok {
		return v, nil
	}
	return nil, fmt.Errorf("Undefined property '%s'.", field)
}

func nativeSetattr(args []value.Value) (value.Value, error) {
	inst, err := asInstance(args[0], "First", "setattr")
	if err != nil {
		return nil, err
	}
	field, err := asFieldName(args[1], "Second", "setattr")
	if err != nil {
		return nil, err
	}
	inst.Set(field, args[2])
	return args[2], nil
}

func nativeDelattr(args []value.Value) (value.Value, error) {
	inst, err := asInstance(args[0], "First", "delattr")
	if err != nil {
		return nil, err
	}
	field, err := asFieldName(args[1], "Second", "delattr")
	if err != nil {
		return nil, err
	}
	if _, ok := inst.Fields[field]; !ok {
		return nil, fmt.Errorf("Undefined property '%s'.", field)
	}
	delete(inst.Fields, field)
	return value.Nil{}, nil
}

func nativeIsinstance(args []value.Value) (value.Value, error) {
	inst, err := asInstance(args[0], "First", "isinstance")
	if err != nil {
		return nil, err
	}
	class, ok := args[1].(*Class)
	if !ok {
		return nil, fmt.Errorf("Second argument to 'isinstance' must be a class.")
	}
	return value.Boolean(inst.Class.IsSubclassOf(class)), nil
}

func nativeID(args []value.Value) (value.Value, error) {
	if inst, ok := args[0].(*Instance); ok {
		return inst.ID(), nil
	}
	return value.Number(0), nil
}
