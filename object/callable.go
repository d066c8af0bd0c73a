package object

import "tree_lox/value"

// Callable is implemented by every value that can appear as the callee of
// a Call expression: user functions, bound methods, classes (which act as
// their own instance factory) and native functions. The actual call
// mechanics live in the interpreter package, since invoking a Function
// requires executing a statement list, and Function must not import the
// interpreter package, it would create a cycle. Callers type-switch on
// the concrete type to perform the call; Callable exists so arity can be
// checked uniformly beforehand.
type Callable interface {
	value.Value
	Arity() int
}

var (
	_ Callable = (*Function)(nil)
	_ Callable = (*Class)(nil)
	_ Callable = (*NativeFunction)(nil)
)
