package object

import (
	"fmt"

	"tree_lox/ast"
	"tree_lox/value"
)

// Function is a user-defined callable: the AST node it was declared from,
// the environment captured at declaration time, and whether it is a
// class's 'init' method, which always yields the bound instance
// regardless of what it returns.
type Function struct {
	value.Sealed
	Declaration *ast.Function
	Closure     *Environment
	IsInit      bool
}

func NewFunction(decl *ast.Function, closure *Environment, isInit bool) *Function {
	return &Function{Declaration: decl, Closure: closure, IsInit: isInit}
}

func (f *Function) String() string {
	return fmt.Sprintf("<fn %s>", f.Declaration.Name.Lexeme)
}

func (f *Function) Arity() int {
	return len(f.Declaration.Params)
}

// Bind returns a new Function whose closure is a fresh child of the
// original closure with 'this' defined as instance: a bound method.
func (f *Function) Bind(instance *Instance) *Function {
	env := NewEnvironment(f.Closure)
	env.Define("this", instance)
	return &Function{Declaration: f.Declaration, Closure: env, IsInit: f.IsInit}
}
