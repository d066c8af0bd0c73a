package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tree_lox/parser"
)

type stubSink struct {
	reports []string
}

func (s *stubSink) ReportStatic(line int, where, message string) {
	s.reports = append(s.reports, message)
}

func mustResolve(t *testing.T, source string) (Locals, bool, []string) {
	t.Helper()
	psink := &stubSink{}
	stmts, ok := parser.New(source, psink).Parse()
	require.True(t, ok, "parse errors: %v", psink.reports)

	rsink := &stubSink{}
	locals, ok := New(rsink).Resolve(stmts)
	return locals, ok, rsink.reports
}

func TestResolveReportsSelfReferencingInitializer(t *testing.T) {
	_, ok, reports := mustResolve(t, "{ var a = a; }")
	assert.False(t, ok)
	assert.Contains(t, reports, "Can't read local variable in its own initializer.")
}

func TestResolveReportsReturnOutsideFunction(t *testing.T) {
	_, ok, reports := mustResolve(t, "return 1;")
	assert.False(t, ok)
	assert.Contains(t, reports, "Can't return from top-level code.")
}

func TestResolveReportsReturnValueFromInitializer(t *testing.T) {
	_, ok, reports := mustResolve(t, "class A { init() { return 1; } }")
	assert.False(t, ok)
	assert.Contains(t, reports, "Can't return a value from an initializer.")
}

func TestResolveReportsShadowingRedeclaration(t *testing.T) {
	_, ok, reports := mustResolve(t, "fun f() { var a = 1; var a = 2; }")
	assert.False(t, ok)
	assert.Contains(t, reports, "Already a variable with the name 'a' in this scope.")
}

func TestResolveReportsThisOutsideClass(t *testing.T) {
	_, ok, reports := mustResolve(t, "print this;")
	assert.False(t, ok)
	assert.Contains(t, reports, "Can't use 'this' outside of a class.")
}

func TestResolveReportsSuperWithoutSuperclass(t *testing.T) {
	_, ok, reports := mustResolve(t, "class A { f() { super.f(); } }")
	assert.False(t, ok)
	assert.Contains(t, reports, "Can't use 'super' in a class with no superclass.")
}

func TestResolveReportsSelfInheritance(t *testing.T) {
	_, ok, reports := mustResolve(t, "class A < A {}")
	assert.False(t, ok)
	assert.Contains(t, reports, "A class can't inherit from itself.")
}

func TestResolveValidProgramProducesLocalsAndNoErrors(t *testing.T) {
	locals, ok, reports := mustResolve(t, "{ var a = 1; print a; }")
	assert.True(t, ok)
	assert.Empty(t, reports)
	assert.NotEmpty(t, locals)
}

func TestResolveGlobalVariableIsAbsentFromLocals(t *testing.T) {
	locals, ok, _ := mustResolve(t, "var a = 1; print a;")
	assert.True(t, ok)
	assert.Empty(t, locals)
}
