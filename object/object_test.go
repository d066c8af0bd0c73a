package object

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tree_lox/value"
)

func TestEnvironmentGetWalksEnclosingChain(t *testing.T) {
	global := NewEnvironment(nil)
	global.Define("a", value.Number(1))

	child := NewEnvironment(global)
	v, ok := child.Get("a")
	require.True(t, ok)
	assert.Equal(t, value.Number(1), v)
}

func TestEnvironmentAssignFailsForUndeclaredName(t *testing.T) {
	env := NewEnvironment(nil)
	assert.False(t, env.Assign("missing", value.Number(1)))
}

func TestEnvironmentGetAtAndAssignAt(t *testing.T) {
	global := NewEnvironment(nil)
	global.Define("a", value.Number(1))
	child := NewEnvironment(global)

	assert.Equal(t, value.Number(1), child.GetAt(1, "a"))

	child.AssignAt(1, "a", value.Number(2))
	v, _ := global.Get("a")
	assert.Equal(t, value.Number(2), v)
}

func TestClassFindMethodWalksSuperclassChain(t *testing.T) {
	base := NewClass("Base", map[string]*Function{"greet": {}}, nil)
	derived := NewClass("Derived", map[string]*Function{}, base)

	_, ok := derived.FindMethod("greet")
	assert.True(t, ok)

	_, ok = derived.FindMethod("missing")
	assert.False(t, ok)
}

func TestClassIsSubclassOf(t *testing.T) {
	base := NewClass("Base", nil, nil)
	derived := NewClass("Derived", nil, base)
	unrelated := NewClass("Other", nil, nil)

	assert.True(t, derived.IsSubclassOf(base))
	assert.True(t, derived.IsSubclassOf(derived))
	assert.False(t, derived.IsSubclassOf(unrelated))
}

func TestInstanceGetSetFields(t *testing.T) {
	class := NewClass("Point", map[string]*Function{}, nil)
	instance := NewInstance(class)

	instance.Set("x", value.Number(3))
	v, ok := instance.Get("x")
	require.True(t, ok)
	assert.Equal(t, value.Number(3), v)

	_, ok = instance.Get("y")
	assert.False(t, ok)
}

func TestInstanceStringIncludesClassName(t *testing.T) {
	class := NewClass("Point", map[string]*Function{}, nil)
	instance := NewInstance(class)
	assert.Equal(t, "Point instance", instance.String())
}

func TestFunctionBindDefinesThis(t *testing.T) {
	class := NewClass("Point", map[string]*Function{}, nil)
	instance := NewInstance(class)
	closure := NewEnvironment(nil)

	fn := NewFunction(nil, closure, false)
	bound := fn.Bind(instance)

	this, ok := bound.Closure.Get("this")
	require.True(t, ok)
	assert.Same(t, instance, this)
}

func TestNativeFunctionsAreRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, fn := range Globals() {
		names[fn.Name] = true
	}
	for _, want := range []string{"clock", "string", "getattr", "setattr", "delattr", "isinstance", "id"} {
		assert.True(t, names[want], "missing native function %q", want)
	}
}

func TestNativeGetattrSetattrDelattr(t *testing.T) {
	class := NewClass("Box", map[string]*Function{}, nil)
	instance := NewInstance(class)

	var getattr, setattr, delattr *NativeFunction
	for _, fn := range Globals() {
		switch fn.Name {
		case "getattr":
			getattr = fn
		case "setattr":
			setattr = fn
		case "delattr":
			delattr = fn
		}
	}
	require.NotNil(t, getattr)
	require.NotNil(t, setattr)
	require.NotNil(t, delattr)

	_, err := setattr.Fn([]value.Value{instance, value.String("x"), value.Number(5)})
	require.NoError(t, err)

	v, err := getattr.Fn([]value.Value{instance, value.String("x")})
	require.NoError(t, err)
	assert.Equal(t, value.Number(5), v)

	_, err = delattr.Fn([]value.Value{instance, value.String("x")})
	require.NoError(t, err)

	_, err = getattr.Fn([]value.Value{instance, value.String("x")})
	assert.Error(t, err)
}
