package object

import (
	"fmt"

	"github.com/pyrl-lang/pyrl/internal/ast"
)

// Function is a user-defined closure: its body AST plus the environment
// active when it was defined.
type Function struct {
	Name    string
	Params  []ast.Param
	Body    *ast.Block
	Closure *Environment
	IsInit  bool // true for a class `init` method
}

func (*Function) Kind() Kind { return KindFunction }
func (f *Function) String() string { return fmt.Sprintf("<function %s>", displayName(f.Name)) }

func displayName(n string) string {
	if n == "" {
		return "anonymous"
	}
	return n
}

// Arity describes how many arguments a built-in accepts: a closed sum of
// fixed/range/variadic shapes, rather than a bare int, so built-ins like
// `print` (variadic) and `range` (1-3 args) are representable without a
// magic sentinel.
type Arity struct {
	Min      int
	Max      int  // ignored when Variadic is true
	Variadic bool
}

func Fixed(n int) Arity { return Arity{Min: n, Max: n} }
func Range(min, max int) Arity { return Arity{Min: min, Max: max} }
func Variadic(min int) Arity { return Arity{Min: min, Variadic: true} }

func (a Arity) Accepts(n int) bool {
	if n < a.Min {
		return false
	}
	if a.Variadic {
		return true
	}
	return n <= a.Max
}

func (a Arity) String() string {
	switch {
	case a.Variadic:
		return fmt.Sprintf("at least %d", a.Min)
	case a.Min == a.Max:
		return fmt.Sprintf("%d", a.Min)
	default:
		return fmt.Sprintf("between %d and %d", a.Min, a.Max)
	}
}

// Handler is the signature every built-in implements.
type Handler func(args []Value) (Value, error)

// BuiltIn wraps a host-registered operation.
type BuiltIn struct {
	Name    string
	Arity   Arity
	Handler Handler
}

func (*BuiltIn) Kind() Kind { return KindBuiltIn }
func (b *BuiltIn) String() string { return fmt.Sprintf("<built-in %s>", b.Name) }

// Class is a user-defined class descriptor.
type Class struct {
	Name    string
	Parent  *Class // nil if no `extends`
	Props   []PropSpec
	Methods map[string]*Function
	Closure *Environment // environment the class was declared in
}

// PropSpec is one `prop name = default` declaration, default may be nil.
type PropSpec struct {
	Name    string
	Default ast.Expr
}

func (*Class) Kind() Kind { return KindClass }
func (c *Class) String() string { return c.Name }

// FindMethod walks the parent chain and stops at the first match.
func (c *Class) FindMethod(name string) *Function {
	if m, ok := c.Methods[name]; ok {
		return m
	}
	if c.Parent != nil {
		return c.Parent.FindMethod(name)
	}
	return nil
}

// AllProps returns the property list in declaration order, child overriding
// parent on name collision.
func (c *Class) AllProps() []PropSpec {
	var parentProps []PropSpec
	if c.Parent != nil {
		parentProps = c.Parent.AllProps()
	}
	seen := make(map[string]int, len(parentProps)+len(c.Props))
	out := make([]PropSpec, 0, len(parentProps)+len(c.Props))
	for _, p := range parentProps {
		seen[p.Name] = len(out)
		out = append(out, p)
	}
	for _, p := range c.Props {
		if idx, ok := seen[p.Name]; ok {
			out[idx] = p
			continue
		}
		seen[p.Name] = len(out)
		out = append(out, p)
	}
	return out
}

// Instance holds an open field map over a shared class reference.
type Instance struct {
	Class  *Class
	Fields map[string]Value
}

func NewInstance(c *Class) *Instance {
	return &Instance{Class: c, Fields: make(map[string]Value)}
}

func (*Instance) Kind() Kind { return KindInstance }
func (i *Instance) String() string { return fmt.Sprintf("<%s instance>", i.Class.Name) }

// Bind returns a copy of the method whose closure additionally binds
// "$self" to instance.
func (f *Function) Bind(instance *Instance) *Function {
	env := NewEnvironment(f.Closure)
	env.Define("$self", instance)
	return &Function{Name: f.Name, Params: f.Params, Body: f.Body, Closure: env, IsInit: f.IsInit}
}
