// Package interpreter implements the tree-walking evaluator: it executes
// the statement list the parser produced using the resolver's side table
// to reach every local variable by a fixed number of environment hops
// instead of searching the chain by name.
package interpreter

import (
	"fmt"
	"io"
	"os"

	"tree_lox/ast"
	"tree_lox/config"
	"tree_lox/diag"
	"tree_lox/object"
	"tree_lox/resolver"
	"tree_lox/token"
	"tree_lox/util"
	"tree_lox/value"
)

// Interpreter holds the mutable environment pointer and the immutable
// reference to globals, plus the resolver side table, the call-name stack
// and the output/diagnostic wiring below; all other control is lexical
// (the Go call stack plus the ControlKind values statement execution
// returns).
type Interpreter struct {
	Globals     *object.Environment
	environment *object.Environment
	locals      resolver.Locals

	sink   *diag.Sink
	opts   config.Options
	Stdout io.Writer // where 'print' writes; defaults to os.Stdout

	callStack []string // user-function names currently executing, innermost last
	// pendingReturn carries a Return statement's value out of the
	// ControlKind channel; see ast/stmt.go's doc comment. It is only ever
	// read immediately after receiving ast.ControlReturn from the same
	// synchronous call it was set in.
	pendingReturn value.Value

	// RunID and TraceWriter implement the '--trace' CLI flag: when
	// TraceWriter is non-nil, every runtime error additionally prints one
	// '[run <id>] ...' frame per enclosing call, tagged with RunID. Left
	// nil (the default), error output is exactly "<msg>\n[line N]".
	RunID       string
	TraceWriter io.Writer
}

// New creates an Interpreter with a fresh global environment preseeded
// with the native-function table.
func New(sink *diag.Sink, opts config.Options) *Interpreter {
	globals := object.NewEnvironment(nil)
	for _, fn := range object.Globals() {
		globals.Define(fn.Name, fn)
	}

	return &Interpreter{
		Globals:     globals,
		environment: globals,
		locals:      make(resolver.Locals),
		sink:        sink,
		opts:        opts,
		Stdout:      os.Stdout,
		callStack:   []string{"<script>"},
	}
}

// AddLocals merges a resolved program's side table into the interpreter's
// own. Merging rather than replacing matters in REPL mode: a function
// declared on one line can be called from a later line, and its body's
// Variable nodes must still resolve through the same interpreter's table,
// even though each line is parsed and resolved separately.
func (i *Interpreter) AddLocals(locals resolver.Locals) {
	for k, v := range locals {
		i.locals[k] = v
	}
}

// Interpret executes a top-level statement list, catching any propagated
// runtime error at the boundary and reporting it through the diag.Sink.
// It returns false if a runtime error occurred.
func (i *Interpreter) Interpret(stmts []ast.Stmt) (ok bool) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		rerr, isRuntime := r.(diag.RuntimeError)
		if !isRuntime {
			panic(r)
		}
		i.reportTrace(rerr)
		i.callStack = i.callStack[:1]
		i.sink.ReportRuntimeError(rerr)
		ok = false
	}()

	for _, s := range stmts {
		i.execute(s)
	}
	return true
}

func (i *Interpreter) reportTrace(err diag.RuntimeError) {
	if i.TraceWriter == nil {
		return
	}
	fmt.Fprintf(i.TraceWriter, "[run %s] error in %s at line %d\n",
		i.RunID, *util.Last(i.callStack), err.Token.Line)
	for depth := len(i.callStack) - 1; depth >= 0; depth-- {
		fmt.Fprintf(i.TraceWriter, "[run %s] line %d in %s\n",
			i.RunID, err.Token.Line, i.callStack[depth])
	}
}

// Statement evaluators
// --------------------------------------------------------

func (i *Interpreter) execute(s ast.Stmt) ast.ControlKind {
	return s.Accept(i)
}

func (i *Interpreter) VisitBlockStmt(s *ast.Block) ast.ControlKind {
	return i.executeIn(s.Statements, object.NewEnvironment(i.environment))
}

// executeIn runs statements against env, restoring the previous
// environment on every exit path (normal completion, a control signal,
// or a runtime-error panic) via defer.
func (i *Interpreter) executeIn(stmts []ast.Stmt, env *object.Environment) ast.ControlKind {
	previous := i.environment
	i.environment = env
	defer func() { i.environment = previous }()

	for _, s := range stmts {
		if ctl := i.execute(s); ctl != ast.ControlLinear {
			return ctl
		}
	}
	return ast.ControlLinear
}

func (i *Interpreter) VisitExpressionStmt(s *ast.Expression) ast.ControlKind {
	i.evaluate(s.Expression)
	return ast.ControlLinear
}

func (i *Interpreter) VisitPrintStmt(s *ast.Print) ast.ControlKind {
	fmt.Fprintln(i.Stdout, i.evaluate(s.Expression).String())
	return ast.ControlLinear
}

func (i *Interpreter) VisitAssertStmt(s *ast.Assert) ast.ControlKind {
	if !value.Truthy(i.evaluate(s.Expression)) {
		panic(i.runtimeError(s.Keyword, "Assertion failure."))
	}
	return ast.ControlLinear
}

func (i *Interpreter) VisitBreakStmt(s *ast.Break) ast.ControlKind {
	return ast.ControlBreak
}

func (i *Interpreter) VisitContinueStmt(s *ast.Continue) ast.ControlKind {
	return ast.ControlContinue
}

func (i *Interpreter) VisitReturnStmt(s *ast.Return) ast.ControlKind {
	if s.Value != nil {
		i.pendingReturn = i.evaluate(s.Value)
	} else {
		i.pendingReturn = value.Nil{}
	}
	return ast.ControlReturn
}

func (i *Interpreter) VisitIfStmt(s *ast.If) ast.ControlKind {
	if value.Truthy(i.evaluate(s.Condition)) {
		return i.execute(s.ThenBranch)
	} else if s.ElseBranch != nil {
		return i.execute(s.ElseBranch)
	}
	return ast.ControlLinear
}

// VisitForStmt drives both a parsed 'while' loop (Update == nil) and a
// desugared 'for' loop. A ControlContinue result from the body is treated
// the same as normal completion: reaching the update expression is
// exactly the point of tracking Update separately.
func (i *Interpreter) VisitForStmt(s *ast.For) ast.ControlKind {
	for value.Truthy(i.evaluate(s.Condition)) {
		switch ctl := i.execute(s.Body); ctl {
		case ast.ControlBreak:
			return ast.ControlLinear
		case ast.ControlReturn:
			return ctl
		}

		if s.Update != nil {
			i.evaluate(s.Update)
		}
	}
	return ast.ControlLinear
}

func (i *Interpreter) VisitVarStmt(s *ast.Var) ast.ControlKind {
	var val value.Value = value.Nil{}
	if s.Initializer != nil {
		val = i.evaluate(s.Initializer)
	}
	i.environment.Define(s.Name.Lexeme, val)
	return ast.ControlLinear
}

func (i *Interpreter) VisitFunctionStmt(s *ast.Function) ast.ControlKind {
	fn := object.NewFunction(s, i.environment, false)
	i.environment.Define(s.Name.Lexeme, fn)
	return ast.ControlLinear
}

func (i *Interpreter) VisitClassStmt(s *ast.Class) ast.ControlKind {
	var superclass *object.Class
	if s.Superclass != nil {
		v := i.lookUpVariable(s.Superclass)
		sc, ok := v.(*object.Class)
		if !ok {
			panic(i.runtimeError(s.Superclass.Name, "Superclass must be a class."))
		}
		superclass = sc
	}

	// Defined ahead of the class body so a method that mentions the
	// class name by itself resolves once the class statement finishes.
	i.environment.Define(s.Name.Lexeme, value.Nil{})

	methodEnv := i.environment
	if superclass != nil {
		methodEnv = object.NewEnvironment(i.environment)
		methodEnv.Define("super", superclass)
	}

	methods := make(map[string]*object.Function, len(s.Methods))
	for _, m := range s.Methods {
		methods[m.Name.Lexeme] = object.NewFunction(m, methodEnv, m.Name.Lexeme == "init")
	}

	class := object.NewClass(s.Name.Lexeme, methods, superclass)
	i.environment.Assign(s.Name.Lexeme, class)
	return ast.ControlLinear
}

// Expression evaluators
// --------------------------------------------------------

func (i *Interpreter) evaluate(e ast.Expr) value.Value {
	return e.Accept(i).(value.Value)
}

func (i *Interpreter) VisitLiteralExpr(e *ast.Literal) any {
	switch v := e.Value.(type) {
	case nil:
		return value.Nil{}
	case bool:
		return value.Boolean(v)
	case float64:
		return value.Number(v)
	case string:
		return value.String(v)
	default:
		panic(fmt.Sprintf("interpreter: literal of unexpected Go type %T", e.Value))
	}
}

func (i *Interpreter) VisitGroupingExpr(e *ast.Grouping) any {
	return i.evaluate(e.Expr)
}

func (i *Interpreter) VisitVariableExpr(e *ast.Variable) any {
	return i.lookUpVariable(e)
}

func (i *Interpreter) lookUpVariable(v *ast.Variable) value.Value {
	if distance, ok := i.locals[v]; ok {
		return i.environment.GetAt(distance, v.Name.Lexeme)
	}
	val, ok := i.Globals.Get(v.Name.Lexeme)
	if !ok {
		panic(i.runtimeError(v.Name, "Undefined variable '%s'.", v.Name.Lexeme))
	}
	return val
}

func (i *Interpreter) VisitAssignExpr(e *ast.Assign) any {
	val := i.evaluate(e.Value)

	if distance, ok := i.locals[e.Target]; ok {
		i.environment.AssignAt(distance, e.Target.Name.Lexeme, val)
	} else if !i.Globals.Assign(e.Target.Name.Lexeme, val) {
		panic(i.runtimeError(e.Target.Name, "Undefined variable '%s'.", e.Target.Name.Lexeme))
	}

	return val
}

func (i *Interpreter) VisitTernaryExpr(e *ast.Ternary) any {
	if value.Truthy(i.evaluate(e.Condition)) {
		return i.evaluate(e.TrueExpr)
	}
	return i.evaluate(e.FalseExpr)
}

// VisitLogicalExpr short-circuits and returns the operand's own value,
// not a coerced boolean.
func (i *Interpreter) VisitLogicalExpr(e *ast.Logical) any {
	left := i.evaluate(e.Left)

	switch e.Operator.Kind {
	case token.OR:
		if value.Truthy(left) {
			return left
		}
	case token.AND:
		if !value.Truthy(left) {
			return left
		}
	}

	return i.evaluate(e.Right)
}

func (i *Interpreter) VisitUnaryExpr(e *ast.Unary) any {
	right := i.evaluate(e.Right)

	switch e.Operator.Kind {
	case token.BANG:
		return value.Boolean(!value.Truthy(right))
	case token.MINUS:
		if !value.IsNumber(right) {
			panic(i.runtimeError(e.Operator, "Operand must be a number."))
		}
		return value.Negate(right)
	default:
		panic("interpreter: unreachable unary operator " + e.Operator.Kind.String())
	}
}

func (i *Interpreter) VisitBinaryExpr(e *ast.Binary) any {
	left := i.evaluate(e.Left)
	right := i.evaluate(e.Right)

	requireNumbers := func() {
		if !value.IsNumber(left) || !value.IsNumber(right) {
			panic(i.runtimeError(e.Operator, "Operands must be numbers."))
		}
	}

	switch e.Operator.Kind {
	case token.PLUS:
		bothNumbers := value.IsNumber(left) && value.IsNumber(right)
		bothStrings := value.IsString(left) && value.IsString(right)
		if !bothNumbers && !bothStrings {
			panic(i.runtimeError(e.Operator, "Operands must be two numbers or two strings."))
		}
		return value.Add(left, right)

	case token.MINUS:
		requireNumbers()
		return value.Sub(left, right)
	case token.STAR:
		requireNumbers()
		return value.Mul(left, right)
	case token.SLASH:
		requireNumbers()
		return value.Div(left, right)

	case token.GREATER:
		requireNumbers()
		return value.Boolean(value.GreaterThan(left, right))
	case token.GREATER_EQUAL:
		requireNumbers()
		// A direct >=, not !LessThan: NaN on either side makes both
		// LessThan and >= false, so negating LessThan would make NaN >= x
		// true. Same for LESS_EQUAL below. Only EQUAL_EQUAL/BANG_EQUAL get
		// the configurable NaN policy; the ordering operators follow
		// IEEE-754 and are always false when either side is NaN.
		return value.Boolean(left.(value.Number) >= right.(value.Number))
	case token.LESS:
		requireNumbers()
		return value.Boolean(value.LessThan(left, right))
	case token.LESS_EQUAL:
		requireNumbers()
		return value.Boolean(left.(value.Number) <= right.(value.Number))

	case token.EQUAL_EQUAL:
		return value.Boolean(i.equal(left, right))
	case token.BANG_EQUAL:
		return value.Boolean(!i.equal(left, right))

	default:
		panic("interpreter: unreachable binary operator " + e.Operator.Kind.String())
	}
}

// equal applies the configurable NaN-equality policy on top of
// value.EqualTo's IEEE-754 default: config can opt into treating two NaNs
// as equal.
func (i *Interpreter) equal(a, b value.Value) bool {
	if !i.opts.StrictNaNEquality {
		if x, ok := a.(value.Number); ok {
			if y, ok := b.(value.Number); ok && isNaN(x) && isNaN(y) {
				return true
			}
		}
	}
	return value.EqualTo(a, b)
}

func isNaN(n value.Number) bool { return n != n }

func (i *Interpreter) VisitCallExpr(e *ast.Call) any {
	callee := i.evaluate(e.Callee)

	args := make([]value.Value, len(e.Arguments))
	for idx, a := range e.Arguments {
		args[idx] = i.evaluate(a)
	}

	callable, ok := callee.(object.Callable)
	if !ok {
		panic(i.runtimeError(e.Paren, "Can only call functions and classes."))
	}
	if len(args) != callable.Arity() {
		panic(i.runtimeError(e.Paren, "Expected %d arguments but got %d.", callable.Arity(), len(args)))
	}

	return i.callValue(callable, args, e.Paren)
}

func (i *Interpreter) callValue(callable object.Callable, args []value.Value, paren token.Token) value.Value {
	switch c := callable.(type) {
	case *object.Function:
		return i.callFunction(c, args, paren)
	case *object.Class:
		return i.instantiate(c, args, paren)
	case *object.NativeFunction:
		result, err := c.Fn(args)
		if err != nil {
			panic(i.runtimeError(paren, "%s", err.Error()))
		}
		return result
	default:
		panic(i.runtimeError(paren, "Can only call functions and classes."))
	}
}

func (i *Interpreter) callFunction(fn *object.Function, args []value.Value, paren token.Token) value.Value {
	if len(i.callStack) >= i.opts.MaxCallDepth {
		panic(i.runtimeError(paren, "Stack overflow."))
	}

	env := object.NewEnvironment(fn.Closure)
	for idx, param := range fn.Declaration.Params {
		env.Define(param.Lexeme, args[idx])
	}

	// Popped only on a normal return: a runtime-error panic leaves the
	// stack as it was at the error so Interpret can trace it, and
	// Interpret then truncates it back to the script frame.
	i.callStack = append(i.callStack, fn.Declaration.Name.Lexeme)
	ctl := i.executeIn(fn.Declaration.Body, env)
	util.Pop(&i.callStack)

	if fn.IsInit {
		this, _ := fn.Closure.Get("this")
		return this
	}
	if ctl == ast.ControlReturn {
		return i.pendingReturn
	}
	return value.Nil{}
}

func (i *Interpreter) instantiate(class *object.Class, args []value.Value, paren token.Token) value.Value {
	instance := object.NewInstance(class)
	if init, ok := class.FindMethod("init"); ok {
		i.callFunction(init.Bind(instance), args, paren)
	}
	return instance
}

func (i *Interpreter) VisitGetExpr(e *ast.Get) any {
	obj := i.evaluate(e.Object)

	instance, ok := obj.(*object.Instance)
	if !ok {
		panic(i.runtimeError(e.Name, "Only instances have properties."))
	}

	v, ok := instance.Get(e.Name.Lexeme)
	if !ok {
		panic(i.runtimeError(e.Name, "Undefined property '%s'.", e.Name.Lexeme))
	}
	return v
}

func (i *Interpreter) VisitSetExpr(e *ast.Set) any {
	obj := i.evaluate(e.Object)

	instance, ok := obj.(*object.Instance)
	if !ok {
		panic(i.runtimeError(e.Name, "Only instances have fields."))
	}

	val := i.evaluate(e.Value)
	instance.Set(e.Name.Lexeme, val)
	return val
}

func (i *Interpreter) VisitThisExpr(e *ast.This) any {
	return i.lookUpVariable(e.Var)
}

// VisitSuperExpr resolves 'super' at the recorded distance to get the
// superclass, finds the method there, and binds it to 'this', which
// always lives exactly one scope nearer, since the resolver nests the
// 'this' scope inside the 'super' scope.
func (i *Interpreter) VisitSuperExpr(e *ast.Super) any {
	distance := i.locals[e.Var]
	superclass := i.environment.GetAt(distance, "super").(*object.Class)
	instance := i.environment.GetAt(distance-1, "this").(*object.Instance)

	method, ok := superclass.FindMethod(e.Method.Lexeme)
	if !ok {
		panic(i.runtimeError(e.Method, "Undefined property '%s'.", e.Method.Lexeme))
	}
	return method.Bind(instance)
}

// Error helpers
// --------------------------------------------------------

func (i *Interpreter) runtimeError(tok token.Token, format string, args ...any) diag.RuntimeError {
	return diag.RuntimeError{Token: tok, Message: fmt.Sprintf(format, args...)}
}
