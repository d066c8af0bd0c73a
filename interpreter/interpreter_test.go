package interpreter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tree_lox/config"
	"tree_lox/diag"
	"tree_lox/parser"
	"tree_lox/resolver"
)

// runSource drives one script through the full pipeline and returns
// stdout, the diagnostic sink's output, and whether Interpret reported
// success, the same shape cmd/lox's run() drives, minus the CLI plumbing.
func runSource(t *testing.T, source string) (stdout, diagOut string, ok bool) {
	t.Helper()

	var errBuf bytes.Buffer
	sink := diag.New(&errBuf)

	stmts, parseOK := parser.New(source, sink).Parse()
	require.True(t, parseOK, "parse errors: %s", errBuf.String())

	locals, resolveOK := resolver.New(sink).Resolve(stmts)
	require.True(t, resolveOK, "resolve errors: %s", errBuf.String())

	var outBuf bytes.Buffer
	interp := New(sink, config.Default())
	interp.Stdout = &outBuf
	interp.AddLocals(locals)

	ok = interp.Interpret(stmts)
	return outBuf.String(), errBuf.String(), ok
}

func lines(s string) string {
	return strings.TrimRight(s, "\n")
}

// Scenario 1: print 1 + 2; -> 3
func TestArithmeticPrint(t *testing.T) {
	out, _, ok := runSource(t, "print 1 + 2;")
	assert.True(t, ok)
	assert.Equal(t, "3", lines(out))
}

// Scenario 2: block-scoped shadowing restores the outer binding on exit.
func TestBlockScopingRestoresOuterBinding(t *testing.T) {
	out, _, ok := runSource(t, `var a = 1; { var a = 2; print a; } print a;`)
	assert.True(t, ok)
	assert.Equal(t, "2\n1", lines(out))
}

// Scenario 3: a closure captures the environment at declaration, not call.
func TestClosureCapturesDeclarationEnvironment(t *testing.T) {
	out, _, ok := runSource(t, `
		fun makeCounter() {
			var i = 0;
			fun count() {
				i = i + 1;
				print i;
			}
			return count;
		}
		var c = makeCounter();
		c();
		c();
	`)
	assert.True(t, ok)
	assert.Equal(t, "1\n2", lines(out))
}

// Scenario 4: a method call on a fresh instance.
func TestMethodCall(t *testing.T) {
	out, _, ok := runSource(t, `class Bacon { eat() { print "Crunch"; } } Bacon().eat();`)
	assert.True(t, ok)
	assert.Equal(t, "Crunch", lines(out))
}

// Scenario 5: init() sets fields visible right after construction.
func TestInitializerSetsField(t *testing.T) {
	out, _, ok := runSource(t, `class A { init(x) { this.x = x; } } print A(7).x;`)
	assert.True(t, ok)
	assert.Equal(t, "7", lines(out))
}

// Scenario 6: mismatched '+' operands is a runtime error, not a static one.
func TestBadPlusOperandsIsRuntimeError(t *testing.T) {
	_, diagOut, ok := runSource(t, `"a" + 1;`)
	assert.False(t, ok)
	assert.Contains(t, diagOut, "Operands must be two numbers or two strings.")
}

func TestInheritanceCallsSuperMethod(t *testing.T) {
	out, _, ok := runSource(t, `
		class Doughnut {
			cook() { print "Fry until golden brown."; }
		}
		class BostonCream < Doughnut {
			cook() {
				super.cook();
				print "Pipe full of custard and coat with chocolate.";
			}
		}
		BostonCream().cook();
	`)
	assert.True(t, ok)
	assert.Equal(t, "Fry until golden brown.\nPipe full of custard and coat with chocolate.", lines(out))
}

func TestBreakExitsLoop(t *testing.T) {
	out, _, ok := runSource(t, `
		for (var i = 0; i < 10; i = i + 1) {
			if (i == 3) break;
			print i;
		}
	`)
	assert.True(t, ok)
	assert.Equal(t, "0\n1\n2", lines(out))
}

func TestContinueSkipsBodyButRunsUpdate(t *testing.T) {
	out, _, ok := runSource(t, `
		for (var i = 0; i < 5; i = i + 1) {
			if (i == 2) continue;
			print i;
		}
	`)
	assert.True(t, ok)
	assert.Equal(t, "0\n1\n3\n4", lines(out))
}

func TestTernaryExpression(t *testing.T) {
	out, _, ok := runSource(t, `print true ? "yes" : "no";`)
	assert.True(t, ok)
	assert.Equal(t, "yes", lines(out))
}

func TestAssertFailureIsRuntimeError(t *testing.T) {
	_, diagOut, ok := runSource(t, `assert 1 == 2;`)
	assert.False(t, ok)
	assert.Contains(t, diagOut, "Assertion failure.")
}

func TestNativeClockAndIsinstance(t *testing.T) {
	out, _, ok := runSource(t, `
		class Animal {}
		class Dog < Animal {}
		print isinstance(Dog(), Animal);
		print clock() > 0;
	`)
	assert.True(t, ok)
	assert.Equal(t, "true\ntrue", lines(out))
}

func TestGetattrSetattrDelattr(t *testing.T) {
	out, _, ok := runSource(t, `
		class Box {}
		var b = Box();
		setattr(b, "x", 10);
		print getattr(b, "x");
		delattr(b, "x");
		print isinstance(b, Box);
	`)
	assert.True(t, ok)
	assert.Equal(t, "10\ntrue", lines(out))
}

func TestUndefinedVariableIsRuntimeError(t *testing.T) {
	_, diagOut, ok := runSource(t, `print undefinedThing;`)
	assert.False(t, ok)
	assert.Contains(t, diagOut, "Undefined variable 'undefinedThing'.")
}

func TestCallingNonCallableIsRuntimeError(t *testing.T) {
	_, diagOut, ok := runSource(t, `var x = 1; x();`)
	assert.False(t, ok)
	assert.Contains(t, diagOut, "Can only call functions and classes.")
}

func TestWrongArityIsRuntimeError(t *testing.T) {
	_, diagOut, ok := runSource(t, `fun f(a, b) { return a + b; } f(1);`)
	assert.False(t, ok)
	assert.Contains(t, diagOut, "Expected 2 arguments but got 1.")
}
