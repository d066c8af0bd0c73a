// Package value defines Lox's runtime value model: a tagged union of nil,
// boolean, double, string, callable and instance. Primitive
// values are represented by dedicated Go types so a type switch can
// recover the Lox type without an extra tag field; callables and
// instances (package object) are pointers implementing the same Value
// interface.
package value

import "strconv"

// Value is implemented by every kind of data a Lox variable can hold.
// Primitive kinds implement it by value; object kinds (tree_lox/object)
// implement it by pointer.
type Value interface {
	String() string
	loxValue()
}

// Sealed is embedded by the pointer-backed object kinds (tree_lox/object)
// to satisfy Value's unexported loxValue method, since that method can
// only be implemented (directly or via embedding) by types in this
// package.
type Sealed struct{}

func (Sealed) loxValue() {}

// TypeError is panicked by the arithmetic/comparison helpers below when an
// operand has the wrong type. The interpreter checks operand types and
// raises its own diag.RuntimeError before calling these helpers; it does
// not recover TypeError.
type TypeError struct{}

// Nil, Boolean, Number and String are Lox's primitive values, stored by
// value rather than behind a pointer. Numbers are always float64, Lox has
// no integer type.
type (
	Nil     struct{}
	Boolean bool
	Number  float64
	String  string
)

func (Nil) loxValue()     {}
func (Boolean) loxValue() {}
func (Number) loxValue()  {}
func (String) loxValue()  {}

func (Nil) String() string { return "nil" }

func (b Boolean) String() string {
	if b {
		return "true"
	}
	return "false"
}

// String formats a Number dropping the trailing ".0" for integral values.
func (n Number) String() string {
	return strconv.FormatFloat(float64(n), 'f', -1, 64)
}

func (s String) String() string { return string(s) }

// Truthy: nil and false are falsy, everything else (including 0 and "") is
// truthy.
func Truthy(v Value) bool {
	switch t := v.(type) {
	case Nil:
		return false
	case Boolean:
		return bool(t)
	default:
		return true
	}
}

// EqualTo implements structural equality: nil equals only nil, numbers
// compare by IEEE-754 (so NaN != NaN), strings by content, booleans by
// value, and anything else (callables, instances) by identity (for the
// pointer-backed object types, Go pointer identity).
func EqualTo(a, b Value) bool {
	return a == b
}

func LessThan(a, b Value) bool {
	switch x := a.(type) {
	case Number:
		if y, ok := b.(Number); ok {
			return x < y
		}
	case String:
		if y, ok := b.(String); ok {
			return x < y
		}
	}
	panic(TypeError{})
}

func GreaterThan(a, b Value) bool {
	switch x := a.(type) {
	case Number:
		if y, ok := b.(Number); ok {
			return x > y
		}
	case String:
		if y, ok := b.(String); ok {
			return x > y
		}
	}
	panic(TypeError{})
}

func Negate(a Value) Value {
	if x, ok := a.(Number); ok {
		return -x
	}
	panic(TypeError{})
}

// Add implements '+': numeric addition for two Numbers, concatenation for
// two Strings; any other combination is a type error.
func Add(a, b Value) Value {
	switch x := a.(type) {
	case Number:
		if y, ok := b.(Number); ok {
			return x + y
		}
	case String:
		if y, ok := b.(String); ok {
			return x + y
		}
	}
	panic(TypeError{})
}

func Sub(a, b Value) Value {
	x, ok1 := a.(Number)
	y, ok2 := b.(Number)
	if ok1 && ok2 {
		return x - y
	}
	panic(TypeError{})
}

func Mul(a, b Value) Value {
	x, ok1 := a.(Number)
	y, ok2 := b.(Number)
	if ok1 && ok2 {
		return x * y
	}
	panic(TypeError{})
}

func Div(a, b Value) Value {
	x, ok1 := a.(Number)
	y, ok2 := b.(Number)
	if ok1 && ok2 {
		return x / y
	}
	panic(TypeError{})
}

// IsNumber and IsString are used by the interpreter to phrase "operands
// must be..." errors without repeating type-switch boilerplate.
func IsNumber(v Value) bool { _, ok := v.(Number); return ok }
func IsString(v Value) bool { _, ok := v.(String); return ok }
