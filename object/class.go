package object

import "tree_lox/value"

// Class is a callable that acts as its own instance factory. Superclass
// is nil for a root class; FindMethod walks the chain.
type Class struct {
	value.Sealed
	Name       string
	Methods    map[string]*Function
	Superclass *Class
}

func NewClass(name string, methods map[string]*Function, superclass *Class) *Class {
	return &Class{Name: name, Methods: methods, Superclass: superclass}
}

func (c *Class) String() string {
	return c.Name
}

// Arity equals the arity of 'init' if the class (or a superclass)
// declares one, else 0 (instantiating with no initializer takes no
// arguments).
func (c *Class) Arity() int {
	if init, ok := c.FindMethod("init"); ok {
		return init.Arity()
	}
	return 0
}

// FindMethod searches this class's own methods, then its superclass
// chain.
func (c *Class) FindMethod(name string) (*Function, bool) {
	if m, ok := c.Methods[name]; ok {
		return m, true
	}
	if c.Superclass != nil {
		return c.Superclass.FindMethod(name)
	}
	return nil, false
}

// IsSubclassOf reports whether c is class or descends from it, walking the
// same chain FindMethod does. Backs the 'isinstance' native function.
func (c *Class) IsSubclassOf(class *Class) bool {
	for cur := c; cur != nil; cur = cur.Superclass {
		if cur == class {
			return true
		}
	}
	return false
}
