// Package resolver implements the static scope-resolution pass: a single
// walk over the parsed statement list that annotates every variable
// reference with how many environment links separate its use from its
// declaration, so the interpreter never has to search for a binding at
// run time.
package resolver

import (
	"fmt"

	"tree_lox/ast"
	"tree_lox/token"
)

// ErrorSink matches the contract shared with the scanner and parser: a
// static error is reported with a line and location and does not stop
// resolution, but does prevent the driver from advancing to evaluation.
type ErrorSink interface {
	ReportStatic(line int, where, message string)
}

type functionKind int

const (
	noFunction functionKind = iota
	inFunction
	inMethod
	inInitializer
)

type classKind int

const (
	noClass classKind = iota
	inClass
	inSubclass
)

// scope maps a name to whether its declaration has finished being
// resolved yet; a name present but false means "declared but not yet
// defined", the state that makes 'var a = a;' a static error.
type scope map[string]bool

// Locals is the side table populated by Resolve: for every Variable node
// reached through a local scope, the number of environment links between
// its use and its declaration. A Variable absent from the table refers to
// a global.
type Locals map[*ast.Variable]int

// Resolver performs the pass. It is used once per top-level parse; create
// a fresh one for each run rather than reusing across scripts.
type Resolver struct {
	scopes []scope
	locals Locals

	currentFunction functionKind
	currentClass    classKind

	errors   ErrorSink
	hadError bool
}

func New(sink ErrorSink) *Resolver {
	return &Resolver{
		locals: make(Locals),
		errors: sink,
	}
}

// Resolve walks every top-level statement and returns the completed side
// table. ok is false if any static error was reported, in which case the
// driver must not proceed to evaluation.
func (r *Resolver) Resolve(stmts []ast.Stmt) (Locals, bool) {
	r.resolveStmts(stmts)
	return r.locals, !r.hadError
}

// Statements
// --------------------------------------------------------

func (r *Resolver) resolveStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
}

func (r *Resolver) resolveStmt(s ast.Stmt) {
	if s == nil {
		return
	}
	s.Accept(r)
}

func (r *Resolver) VisitBlockStmt(s *ast.Block) ast.ControlKind {
	r.beginScope()
	r.resolveStmts(s.Statements)
	r.endScope()
	return ast.ControlLinear
}

func (r *Resolver) VisitExpressionStmt(s *ast.Expression) ast.ControlKind {
	r.resolveExpr(s.Expression)
	return ast.ControlLinear
}

func (r *Resolver) VisitPrintStmt(s *ast.Print) ast.ControlKind {
	r.resolveExpr(s.Expression)
	return ast.ControlLinear
}

func (r *Resolver) VisitAssertStmt(s *ast.Assert) ast.ControlKind {
	r.resolveExpr(s.Expression)
	return ast.ControlLinear
}

func (r *Resolver) VisitBreakStmt(s *ast.Break) ast.ControlKind {
	return ast.ControlLinear
}

func (r *Resolver) VisitContinueStmt(s *ast.Continue) ast.ControlKind {
	return ast.ControlLinear
}

func (r *Resolver) VisitReturnStmt(s *ast.Return) ast.ControlKind {
	if r.currentFunction == noFunction {
		r.error(s.Keyword, "Can't return from top-level code.")
	}

	if s.Value != nil {
		if r.currentFunction == inInitializer {
			r.error(s.Keyword, "Can't return a value from an initializer.")
		}
		r.resolveExpr(s.Value)
	}
	return ast.ControlLinear
}

func (r *Resolver) VisitIfStmt(s *ast.If) ast.ControlKind {
	r.resolveExpr(s.Condition)
	r.resolveStmt(s.ThenBranch)
	if s.ElseBranch != nil {
		r.resolveStmt(s.ElseBranch)
	}
	return ast.ControlLinear
}

func (r *Resolver) VisitForStmt(s *ast.For) ast.ControlKind {
	r.resolveExpr(s.Condition)
	r.resolveStmt(s.Body)
	if s.Update != nil {
		r.resolveExpr(s.Update)
	}
	return ast.ControlLinear
}

func (r *Resolver) VisitVarStmt(s *ast.Var) ast.ControlKind {
	r.declare(s.Name)
	if s.Initializer != nil {
		r.resolveExpr(s.Initializer)
	}
	r.define(s.Name)
	return ast.ControlLinear
}

func (r *Resolver) VisitFunctionStmt(s *ast.Function) ast.ControlKind {
	r.declare(s.Name)
	r.define(s.Name)

	r.resolveFunction(s, inFunction)
	return ast.ControlLinear
}

func (r *Resolver) VisitClassStmt(s *ast.Class) ast.ControlKind {
	enclosingClass := r.currentClass
	r.currentClass = inClass
	defer func() { r.currentClass = enclosingClass }()

	r.declare(s.Name)
	r.define(s.Name)

	if s.Superclass != nil {
		if s.Superclass.Name.Lexeme == s.Name.Lexeme {
			r.error(s.Superclass.Name, "A class can't inherit from itself.")
		} else {
			r.currentClass = inSubclass
			r.resolveExpr(s.Superclass)
		}

		r.beginScope()
		r.scopes[len(r.scopes)-1]["super"] = true
		defer r.endScope()
	}

	r.beginScope()
	r.scopes[len(r.scopes)-1]["this"] = true
	defer r.endScope()

	for _, method := range s.Methods {
		kind := inMethod
		if method.Name.Lexeme == "init" {
			kind = inInitializer
		}
		r.resolveFunction(method, kind)
	}

	return ast.ControlLinear
}

func (r *Resolver) resolveFunction(fn *ast.Function, kind functionKind) {
	enclosingFunction := r.currentFunction
	r.currentFunction = kind
	defer func() { r.currentFunction = enclosingFunction }()

	r.beginScope()
	defer r.endScope()

	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}
	r.resolveStmts(fn.Body)
}

// Expressions
// --------------------------------------------------------

func (r *Resolver) resolveExpr(e ast.Expr) {
	if e == nil {
		return
	}
	e.Accept(r)
}

func (r *Resolver) VisitVariableExpr(e *ast.Variable) any {
	if len(r.scopes) > 0 {
		if defined, ok := r.scopes[len(r.scopes)-1][e.Name.Lexeme]; ok && !defined {
			r.error(e.Name, "Can't read local variable in its own initializer.")
		}
	}
	r.resolveLocal(e)
	return nil
}

func (r *Resolver) VisitAssignExpr(e *ast.Assign) any {
	r.resolveExpr(e.Value)
	r.resolveLocal(e.Target)
	return nil
}

func (r *Resolver) VisitThisExpr(e *ast.This) any {
	if r.currentClass == noClass {
		r.error(e.Keyword, "Can't use 'this' outside of a class.")
		return nil
	}
	r.resolveLocal(e.Var)
	return nil
}

func (r *Resolver) VisitSuperExpr(e *ast.Super) any {
	switch r.currentClass {
	case noClass:
		r.error(e.Keyword, "Can't use 'super' outside of a class.")
	case inClass:
		r.error(e.Keyword, "Can't use 'super' in a class with no superclass.")
	}
	r.resolveLocal(e.Var)
	return nil
}

func (r *Resolver) VisitTernaryExpr(e *ast.Ternary) any {
	r.resolveExpr(e.Condition)
	r.resolveExpr(e.TrueExpr)
	r.resolveExpr(e.FalseExpr)
	return nil
}

func (r *Resolver) VisitLogicalExpr(e *ast.Logical) any {
	r.resolveExpr(e.Left)
	r.resolveExpr(e.Right)
	return nil
}

func (r *Resolver) VisitBinaryExpr(e *ast.Binary) any {
	r.resolveExpr(e.Left)
	r.resolveExpr(e.Right)
	return nil
}

func (r *Resolver) VisitUnaryExpr(e *ast.Unary) any {
	r.resolveExpr(e.Right)
	return nil
}

func (r *Resolver) VisitCallExpr(e *ast.Call) any {
	r.resolveExpr(e.Callee)
	for _, arg := range e.Arguments {
		r.resolveExpr(arg)
	}
	return nil
}

func (r *Resolver) VisitGetExpr(e *ast.Get) any {
	r.resolveExpr(e.Object)
	return nil
}

func (r *Resolver) VisitSetExpr(e *ast.Set) any {
	r.resolveExpr(e.Value)
	r.resolveExpr(e.Object)
	return nil
}

func (r *Resolver) VisitGroupingExpr(e *ast.Grouping) any {
	r.resolveExpr(e.Expr)
	return nil
}

func (r *Resolver) VisitLiteralExpr(e *ast.Literal) any {
	return nil
}

// Scope management
// --------------------------------------------------------

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, make(scope))
}

func (r *Resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *Resolver) declare(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}

	current := r.scopes[len(r.scopes)-1]
	if _, ok := current[name.Lexeme]; ok {
		r.error(name, fmt.Sprintf(
			"Already a variable with the name '%s' in this scope.", name.Lexeme))
	}
	current[name.Lexeme] = false
}

func (r *Resolver) define(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = true
}

// resolveLocal walks scopes from innermost outward; the first scope that
// declares the name gives the distance. No hit leaves the Variable absent
// from the table, which the interpreter treats as a global lookup.
func (r *Resolver) resolveLocal(v *ast.Variable) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][v.Name.Lexeme]; ok {
			r.locals[v] = len(r.scopes) - 1 - i
			return
		}
	}
}

func (r *Resolver) error(tok token.Token, message string) {
	r.hadError = true
	where := " at '" + tok.Lexeme + "'"
	if tok.Kind == token.END_OF_FILE {
		where = " at end"
	}
	r.errors.ReportStatic(tok.Line, where, message)
}
