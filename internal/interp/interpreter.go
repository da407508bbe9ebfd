// Package interp is the tree-walking evaluator: it executes an
// *ast.Program directly against a chain of object.Environment frames,
// with a sigil-keyed variable namespace and control-flow, regex, and
// class constructs built in.
package interp

import (
	"fmt"
	"io"
	"math"
	"regexp"
	"strings"

	"github.com/pyrl-lang/pyrl/internal/ast"
	"github.com/pyrl-lang/pyrl/internal/object"
)

// Interpreter holds the state one execution of a program shares: the
// global frame, the resolver's scope-distance table, and where Print
// statements write to.
type Interpreter struct {
	Globals  *object.Environment
	locals   map[ast.Expr]int
	out      io.Writer
	tests    []registeredTest
	depth    int
	maxDepth int
}

type registeredTest struct {
	label string
	body  *ast.Block
	env   *object.Environment
}

// TestResult is one `test "label" { ... }` block's outcome.
type TestResult struct {
	Label  string
	Passed bool
	Err    error
}

// NewInterpreter builds an Interpreter with every mandated built-in already
// registered in the global frame.
func NewInterpreter(out io.Writer) *Interpreter {
	globals := object.NewEnvironment(nil)
	in := &Interpreter{Globals: globals, locals: make(map[ast.Expr]int), out: out, maxDepth: 4096}
	RegisterBuiltins(in)
	return in
}

// SetLocals merges in the scope-distance table a Resolver pass produced.
// Merging rather than replacing keeps distances alive for functions
// defined by an earlier Execute call and invoked by a later one.
func (in *Interpreter) SetLocals(locals map[ast.Expr]int) {
	for k, v := range locals {
		in.locals[k] = v
	}
}

// SetMaxCallDepth overrides the recursion guard a host's config.Limits may
// supply at create_vm() time; callFunction consults it to turn runaway
// recursion into a TypeError instead of a Go stack overflow that would
// crash the embedding host.
func (in *Interpreter) SetMaxCallDepth(n int) { in.maxDepth = n }

// Run executes every top-level statement against the global frame. `test`
// blocks are registered but not executed; call RunTests to execute them.
func (in *Interpreter) Run(prog *ast.Program) error {
	_, _, err := in.execStmts(in.Globals, prog.Stmts)
	return err
}

// RunTests executes every registered test block in isolation (its own
// child frame over the environment captured when it was declared) and
// reports pass/fail: a test fails if any `assert` inside it fails, or if
// evaluating it raises any other runtime error.
func (in *Interpreter) RunTests() []TestResult {
	results := make([]TestResult, 0, len(in.tests))
	for _, t := range in.tests {
		env := object.NewEnvironment(t.env)
		_, _, err := in.execStmts(env, t.body.Stmts)
		results = append(results, TestResult{Label: t.label, Passed: err == nil, Err: err})
	}
	return results
}

// ---------------------------------------------------------------- statements

func (in *Interpreter) execStmts(env *object.Environment, stmts []ast.Stmt) (object.Value, bool, error) {
	for _, s := range stmts {
		val, returned, err := in.execStmt(env, s)
		if err != nil || returned {
			return val, returned, err
		}
	}
	return object.None, false, nil
}

// execBlock runs an `if`/`while`/`for` body in the enclosing environment:
// branch and loop bodies do not open a scope, so a name first assigned
// inside one is still bound after it. Only function calls and test runs
// get a frame of their own.
func (in *Interpreter) execBlock(env *object.Environment, b *ast.Block) (object.Value, bool, error) {
	return in.execStmts(env, b.Stmts)
}

func (in *Interpreter) execStmt(env *object.Environment, s ast.Stmt) (object.Value, bool, error) {
	switch n := s.(type) {
	case *ast.Assign:
		val, err := in.eval(env, n.Value)
		if err != nil {
			return nil, false, err
		}
		if err := in.assignTo(env, n.Target, val); err != nil {
			return nil, false, err
		}
		return object.None, false, nil

	case *ast.ExprStmt:
		_, err := in.eval(env, n.X)
		return object.None, false, err

	case *ast.Return:
		if n.Value == nil {
			return object.None, true, nil
		}
		v, err := in.eval(env, n.Value)
		return v, true, err

	case *ast.Print:
		args, err := in.evalArgs(env, n.Args)
		if err != nil {
			return nil, false, err
		}
		// The grammar gives print its own statement form, but evaluation
		// still dispatches through the builtin table so a host's
		// register_builtin("print", ...) override takes effect.
		fn, ok := env.Get("print")
		if !ok {
			return nil, false, New(KindName, n.Position(), "Undefined function: print")
		}
		if _, err := in.Apply(fn, args, n.Position()); err != nil {
			return nil, false, err
		}
		return object.None, false, nil

	case *ast.Assert:
		v, err := in.eval(env, n.X)
		if err != nil {
			return nil, false, err
		}
		if !object.IsTruthy(v) {
			return nil, false, New(KindAssertion, n.Position(), "Assertion failed: %s", n.X)
		}
		return object.None, false, nil

	case *ast.If:
		cond, err := in.eval(env, n.Cond)
		if err != nil {
			return nil, false, err
		}
		if object.IsTruthy(cond) {
			return in.execBlock(env, n.Then)
		}
		for _, e := range n.Elif {
			ec, err := in.eval(env, e.Cond)
			if err != nil {
				return nil, false, err
			}
			if object.IsTruthy(ec) {
				return in.execBlock(env, e.Body)
			}
		}
		if n.Else != nil {
			return in.execBlock(env, n.Else)
		}
		return object.None, false, nil

	case *ast.While:
		for {
			cond, err := in.eval(env, n.Cond)
			if err != nil {
				return nil, false, err
			}
			if !object.IsTruthy(cond) {
				return object.None, false, nil
			}
			val, returned, err := in.execBlock(env, n.Body)
			if err != nil || returned {
				return val, returned, err
			}
		}

	case *ast.For:
		return in.execFor(env, n)

	case *ast.FuncDef:
		fn := &object.Function{Name: n.Name, Params: n.Params, Body: n.Body, Closure: env}
		if n.Kind == ast.KindAnonBlock {
			env.DefineHere("&"+n.Name, fn)
		} else {
			// Indented-style `def name(...)` binds both the bare name (so
			// sigil-less calls work) and "&name" (so the function can also
			// be passed around as a func-var value).
			env.DefineHere(n.Name, fn)
			env.DefineHere("&"+n.Name, fn)
		}
		return object.None, false, nil

	case *ast.ClassDef:
		class, err := in.buildClass(env, n)
		if err != nil {
			return nil, false, err
		}
		env.DefineHere(n.Name, class)
		return object.None, false, nil

	case *ast.TestBlock:
		in.tests = append(in.tests, registeredTest{label: n.Label, body: n.Body, env: env})
		return object.None, false, nil

	case *ast.Block:
		return in.execBlock(env, n)
	}
	return object.None, false, fmt.Errorf("interp: unhandled statement %T", s)
}

func (in *Interpreter) execFor(env *object.Environment, n *ast.For) (object.Value, bool, error) {
	iter, err := in.eval(env, n.Iter)
	if err != nil {
		return nil, false, err
	}
	items, err := iterableValues(iter, n.Position())
	if err != nil {
		return nil, false, err
	}
	for _, item := range items {
		env.DefineHere("$"+n.VarName, item)
		val, returned, err := in.execStmts(env, n.Body.Stmts)
		if err != nil || returned {
			return val, returned, err
		}
	}
	return object.None, false, nil
}

func iterableValues(v object.Value, pos ast.Pos) ([]object.Value, error) {
	switch x := v.(type) {
	case *object.List:
		return x.Elems, nil
	case *object.Hash:
		out := make([]object.Value, 0, x.Len())
		for _, k := range x.Keys() {
			out = append(out, object.Str(k))
		}
		return out, nil
	case object.Str:
		out := make([]object.Value, 0, len(x))
		for _, r := range string(x) {
			out = append(out, object.Str(string(r)))
		}
		return out, nil
	default:
		return nil, New(KindType, pos, "Cannot iterate over %s", v.Kind())
	}
}

func (in *Interpreter) buildClass(env *object.Environment, n *ast.ClassDef) (*object.Class, error) {
	var parent *object.Class
	if n.Parent != "" {
		pv, ok := env.Get(n.Parent)
		if !ok {
			return nil, Undefined(n.Position(), n.Parent)
		}
		pc, ok := pv.(*object.Class)
		if !ok {
			return nil, New(KindType, n.Position(), "%s is not a class", n.Parent)
		}
		parent = pc
	}

	class := &object.Class{Name: n.Name, Parent: parent, Methods: make(map[string]*object.Function), Closure: env}
	for _, m := range n.Members {
		switch member := m.(type) {
		case *ast.PropDef:
			class.Props = append(class.Props, object.PropSpec{Name: member.Name, Default: member.Default})
		case *ast.MethodDef:
			class.Methods[member.Name] = &object.Function{
				Name: member.Name, Params: member.Params, Body: member.Body, Closure: env, IsInit: member.IsInit,
			}
		}
	}
	return class, nil
}

// ---------------------------------------------------------------- assignment

// assignTo writes val to the assignable expression target: a sigil
// variable, an index expression, or an attribute expression.
func (in *Interpreter) assignTo(env *object.Environment, target ast.Expr, val object.Value) error {
	switch t := target.(type) {
	case *ast.VarRef:
		k := sigilKey(t.Sigil, t.Name)
		if depth, resolved := in.locals[ast.Expr(t)]; resolved {
			// Rebind at the exact frame the resolver found it in — a loop
			// body or nested closure reusing an enclosing binding must
			// write through to that frame, not shadow it locally.
			env.AssignAt(depth, k, val)
			return nil
		}
		if t.Sigil == '$' {
			if self, ok := in.selfOf(env); ok {
				if _, isField := self.Fields[t.Name]; isField {
					self.Fields[t.Name] = val
					return nil
				}
			}
		}
		env.DefineHere(k, val)
		return nil

	case *ast.Index:
		coll, err := in.eval(env, t.Collection)
		if err != nil {
			return err
		}
		keyVal, err := in.eval(env, t.Key)
		if err != nil {
			return err
		}
		return setIndex(coll, keyVal, val, t.Position())

	case *ast.Attr:
		obj, err := in.eval(env, t.Obj)
		if err != nil {
			return err
		}
		inst, ok := obj.(*object.Instance)
		if !ok {
			return New(KindType, t.Position(), "Cannot set attribute '%s' on %s", t.Name, obj.Kind())
		}
		inst.Fields[t.Name] = val
		return nil

	default:
		return New(KindType, target.Position(), "invalid assignment target")
	}
}

func setIndex(coll, key, val object.Value, pos ast.Pos) error {
	switch c := coll.(type) {
	case *object.List:
		idx, ok := key.(object.Int)
		if !ok {
			return BadIndex(pos, key.String(), coll.Kind().String())
		}
		i := normalizeIndex(int(idx), len(c.Elems))
		if i < 0 || i >= len(c.Elems) {
			return BadIndex(pos, key.String(), coll.Kind().String())
		}
		c.Elems[i] = val
		return nil
	case *object.Hash:
		s, ok := key.(object.Str)
		if !ok {
			return New(KindType, pos, "hash keys must be strings")
		}
		c.Set(string(s), val)
		return nil
	default:
		return BadIndex(pos, key.String(), coll.Kind().String())
	}
}

func normalizeIndex(i, length int) int {
	if i < 0 {
		return length + i
	}
	return i
}

// selfOf returns the nearest enclosing `$self` binding, if any.
func (in *Interpreter) selfOf(env *object.Environment) (*object.Instance, bool) {
	v, ok := env.Get("$self")
	if !ok {
		return nil, false
	}
	inst, ok := v.(*object.Instance)
	return inst, ok
}

func sigilKey(sigil byte, name string) string { return string(sigil) + name }

// ---------------------------------------------------------------- expressions

func (in *Interpreter) eval(env *object.Environment, e ast.Expr) (object.Value, error) {
	switch n := e.(type) {
	case *ast.Literal:
		return literalValue(n), nil

	case *ast.VarRef:
		return in.getVar(env, n)

	case *ast.IdentRef:
		// A bare identifier resolves &name (user function) first, then the
		// bare name itself (built-in, class, or a def-declared alias).
		if v, ok := env.Get("&" + n.Name); ok {
			return v, nil
		}
		if v, ok := env.Get(n.Name); ok {
			return v, nil
		}
		return nil, Undefined(n.Position(), n.Name)

	case *ast.Index:
		return in.evalIndex(env, n)

	case *ast.Attr:
		return in.evalAttr(env, n)

	case *ast.MethodCall:
		return in.evalMethodCall(env, n)

	case *ast.Call:
		return in.evalCall(env, n)

	case *ast.Unary:
		return in.evalUnary(env, n)

	case *ast.Binary:
		return in.evalBinary(env, n)

	case *ast.LogicalAnd:
		l, err := in.eval(env, n.L)
		if err != nil {
			return nil, err
		}
		if !object.IsTruthy(l) {
			return l, nil
		}
		return in.eval(env, n.R)

	case *ast.LogicalOr:
		l, err := in.eval(env, n.L)
		if err != nil {
			return nil, err
		}
		if object.IsTruthy(l) {
			return l, nil
		}
		return in.eval(env, n.R)

	case *ast.LogicalNot:
		x, err := in.eval(env, n.X)
		if err != nil {
			return nil, err
		}
		return object.Bool(!object.IsTruthy(x)), nil

	case *ast.Compare:
		return in.evalCompare(env, n)

	case *ast.RegexMatch:
		return in.evalRegexMatch(env, n)

	case *ast.RegexSubst:
		return in.evalRegexSubst(env, n)

	case *ast.ListLit:
		elems := make([]object.Value, len(n.Elems))
		for i, el := range n.Elems {
			v, err := in.eval(env, el)
			if err != nil {
				return nil, err
			}
			elems[i] = v
		}
		return object.NewList(elems...), nil

	case *ast.HashLit:
		h := object.NewHash()
		for _, p := range n.Pairs {
			v, err := in.eval(env, p.Value)
			if err != nil {
				return nil, err
			}
			h.Set(p.Key, v)
		}
		return h, nil

	case *ast.RegexLit:
		return compileRegex(n.Source, n.Flags, n.Position())

	case *ast.Lambda:
		body := &ast.Block{Stmts: []ast.Stmt{&ast.Return{Value: n.Body}}}
		return &object.Function{Params: n.Params, Body: body, Closure: env}, nil
	}
	return nil, fmt.Errorf("interp: unhandled expression %T", e)
}

func literalValue(l *ast.Literal) object.Value {
	switch l.Kind {
	case ast.LitInt:
		return object.Int(l.I)
	case ast.LitFloat:
		return object.Float(l.F)
	case ast.LitString:
		return object.Str(l.S)
	case ast.LitBool:
		return object.Bool(l.B)
	default:
		return object.None
	}
}

func (in *Interpreter) getVar(env *object.Environment, v *ast.VarRef) (object.Value, error) {
	k := sigilKey(v.Sigil, v.Name)
	if depth, ok := in.locals[ast.Expr(v)]; ok {
		if val, ok := env.GetAt(depth, k); ok {
			return val, nil
		}
	}
	// Inside a method, an unqualified $name that names an instance field
	// reads the field; only params and locals (resolved above) shadow it.
	// The field wins over a same-named global.
	if v.Sigil == '$' {
		if self, ok := in.selfOf(env); ok {
			if val, ok := self.Fields[v.Name]; ok {
				return val, nil
			}
		}
	}
	if val, ok := env.Get(k); ok {
		return val, nil
	}
	return nil, Undefined(v.Position(), string(v.Sigil)+v.Name)
}

func (in *Interpreter) evalIndex(env *object.Environment, n *ast.Index) (object.Value, error) {
	coll, err := in.eval(env, n.Collection)
	if err != nil {
		return nil, err
	}
	key, err := in.eval(env, n.Key)
	if err != nil {
		return nil, err
	}
	switch c := coll.(type) {
	case *object.List:
		idx, ok := key.(object.Int)
		if !ok {
			return nil, BadIndex(n.Position(), key.String(), coll.Kind().String())
		}
		i := normalizeIndex(int(idx), len(c.Elems))
		if i < 0 || i >= len(c.Elems) {
			return nil, BadIndex(n.Position(), key.String(), coll.Kind().String())
		}
		return c.Elems[i], nil
	case *object.Hash:
		s, ok := key.(object.Str)
		if !ok {
			return nil, New(KindType, n.Position(), "hash keys must be strings")
		}
		v, ok := c.Get(string(s))
		if !ok {
			return nil, New(KindKey, n.Position(), "Key not found: %q", string(s))
		}
		return v, nil
	case object.Str:
		idx, ok := key.(object.Int)
		if !ok {
			return nil, BadIndex(n.Position(), key.String(), coll.Kind().String())
		}
		runes := []rune(string(c))
		i := normalizeIndex(int(idx), len(runes))
		if i < 0 || i >= len(runes) {
			return nil, BadIndex(n.Position(), key.String(), coll.Kind().String())
		}
		return object.Str(string(runes[i])), nil
	default:
		return nil, BadIndex(n.Position(), key.String(), coll.Kind().String())
	}
}

func (in *Interpreter) evalAttr(env *object.Environment, n *ast.Attr) (object.Value, error) {
	obj, err := in.eval(env, n.Obj)
	if err != nil {
		return nil, err
	}
	inst, ok := obj.(*object.Instance)
	if !ok {
		return nil, New(KindType, n.Position(), "Cannot access attribute '%s' on %s", n.Name, obj.Kind())
	}
	if v, ok := inst.Fields[n.Name]; ok {
		return v, nil
	}
	if m := inst.Class.FindMethod(n.Name); m != nil {
		return m.Bind(inst), nil
	}
	return nil, New(KindName, n.Position(), "Undefined field: %s", n.Name)
}

func (in *Interpreter) evalMethodCall(env *object.Environment, n *ast.MethodCall) (object.Value, error) {
	obj, err := in.eval(env, n.Obj)
	if err != nil {
		return nil, err
	}
	inst, ok := obj.(*object.Instance)
	if !ok {
		return nil, New(KindType, n.Position(), "Cannot call method '%s' on %s", n.Name, obj.Kind())
	}
	method := inst.Class.FindMethod(n.Name)
	if method == nil {
		return nil, New(KindName, n.Position(), "Undefined method: %s", n.Name)
	}
	args, err := in.evalArgs(env, n.Args)
	if err != nil {
		return nil, err
	}
	return in.callFunction(method.Bind(inst), args, n.Position())
}

func (in *Interpreter) evalArgs(env *object.Environment, exprs []ast.Expr) ([]object.Value, error) {
	args := make([]object.Value, len(exprs))
	for i, a := range exprs {
		v, err := in.eval(env, a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return args, nil
}

func (in *Interpreter) evalCall(env *object.Environment, n *ast.Call) (object.Value, error) {
	callee, err := in.eval(env, n.Callee)
	if err != nil {
		// A bare name that fails to resolve in call position reports an
		// undefined function, not the expression-position undefined
		// variable wording.
		if id, ok := n.Callee.(*ast.IdentRef); ok && ErrorKind(err) == KindName {
			return nil, New(KindName, id.Position(), "Undefined function: %s", id.Name)
		}
		return nil, err
	}
	args, err := in.evalArgs(env, n.Args)
	if err != nil {
		return nil, err
	}
	return in.Apply(callee, args, n.Position())
}

// Apply invokes any callable Value: a user function, a built-in, or a
// class (instantiation). Exported for builtins.go's higher-order
// functions (map, filter, any, all, sort's key callback, ...) to call
// back into user-supplied functions without duplicating this dispatch.
func (in *Interpreter) Apply(callee object.Value, args []object.Value, pos ast.Pos) (object.Value, error) {
	switch fn := callee.(type) {
	case *object.Function:
		return in.callFunction(fn, args, pos)
	case *object.BuiltIn:
		if !fn.Arity.Accepts(len(args)) {
			return nil, New(KindType, pos, "%s expects %s arguments, got %d", fn.Name, fn.Arity, len(args))
		}
		return fn.Handler(args)
	case *object.Class:
		return in.instantiate(fn, args, pos)
	default:
		return nil, New(KindType, pos, "%s is not callable", callee.Kind())
	}
}

func (in *Interpreter) instantiate(class *object.Class, args []object.Value, pos ast.Pos) (object.Value, error) {
	inst := object.NewInstance(class)
	for _, p := range class.AllProps() {
		if p.Default != nil {
			v, err := in.eval(class.Closure, p.Default)
			if err != nil {
				return nil, err
			}
			inst.Fields[p.Name] = v
		} else {
			inst.Fields[p.Name] = object.None
		}
	}
	if init := class.FindMethod("init"); init != nil {
		if _, err := in.callFunction(init.Bind(inst), args, pos); err != nil {
			return nil, err
		}
	}
	return inst, nil
}

func (in *Interpreter) callFunction(fn *object.Function, args []object.Value, pos ast.Pos) (object.Value, error) {
	if in.depth >= in.maxDepth {
		return nil, New(KindType, pos, "maximum call depth exceeded (%d)", in.maxDepth)
	}
	in.depth++
	defer func() { in.depth-- }()

	callEnv := object.NewEnvironment(fn.Closure)
	if err := bindParams(in, callEnv, fn.Params, args, pos); err != nil {
		return nil, err
	}
	val, returned, err := in.execStmts(callEnv, fn.Body.Stmts)
	if err != nil {
		return nil, err
	}
	if fn.IsInit {
		self, _ := callEnv.Get("$self")
		return self, nil
	}
	if !returned {
		return object.None, nil
	}
	return val, nil
}

func bindParams(in *Interpreter, callEnv *object.Environment, params []ast.Param, args []object.Value, pos ast.Pos) error {
	required := 0
	for _, p := range params {
		if p.Default == nil && !p.Vararg {
			required++
		}
	}
	if len(params) == 0 || !params[len(params)-1].Vararg {
		if len(args) < required || len(args) > len(params) {
			return New(KindType, pos, "expected %d arguments, got %d", len(params), len(args))
		}
	} else if len(args) < required {
		return New(KindType, pos, "expected at least %d arguments, got %d", required, len(args))
	}

	i := 0
	for _, p := range params {
		if p.Vararg {
			rest := make([]object.Value, 0, len(args)-i)
			for ; i < len(args); i++ {
				rest = append(rest, args[i])
			}
			callEnv.DefineHere("$"+p.Name, object.NewList(rest...))
			continue
		}
		var v object.Value
		switch {
		case i < len(args):
			v = args[i]
		case p.Default != nil:
			dv, err := in.eval(callEnv, p.Default)
			if err != nil {
				return err
			}
			v = dv
		default:
			v = object.None
		}
		callEnv.DefineHere("$"+p.Name, v)
		i++
	}
	return nil
}

// ---------------------------------------------------------------- operators

func (in *Interpreter) evalUnary(env *object.Environment, n *ast.Unary) (object.Value, error) {
	x, err := in.eval(env, n.X)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case "-":
		switch v := x.(type) {
		case object.Int:
			return -v, nil
		case object.Float:
			return -v, nil
		}
		return nil, New(KindType, n.Position(), "bad operand type for unary -: %s", x.Kind())
	case "+":
		switch x.(type) {
		case object.Int, object.Float:
			return x, nil
		}
		return nil, New(KindType, n.Position(), "bad operand type for unary +: %s", x.Kind())
	}
	return nil, fmt.Errorf("interp: unknown unary operator %q", n.Op)
}

func numToFloat(v object.Value) (float64, bool) {
	switch x := v.(type) {
	case object.Int:
		return float64(x), true
	case object.Float:
		return float64(x), true
	}
	return 0, false
}

func (in *Interpreter) evalBinary(env *object.Environment, n *ast.Binary) (object.Value, error) {
	l, err := in.eval(env, n.L)
	if err != nil {
		return nil, err
	}
	r, err := in.eval(env, n.R)
	if err != nil {
		return nil, err
	}
	return binaryOp(n.Op, l, r, n.Position())
}

func binaryOp(op string, l, r object.Value, pos ast.Pos) (object.Value, error) {
	if op == "+" {
		if ls, ok := l.(object.Str); ok {
			if rs, ok := r.(object.Str); ok {
				return ls + rs, nil
			}
		}
		if ll, ok := l.(*object.List); ok {
			if rl, ok := r.(*object.List); ok {
				out := make([]object.Value, 0, len(ll.Elems)+len(rl.Elems))
				out = append(out, ll.Elems...)
				out = append(out, rl.Elems...)
				return object.NewList(out...), nil
			}
		}
	}

	if op == "*" {
		if s, n, ok := strAndInt(l, r); ok {
			if n < 0 {
				n = 0
			}
			return object.Str(strings.Repeat(string(s), int(n))), nil
		}
	}

	li, liok := l.(object.Int)
	ri, riok := r.(object.Int)
	if liok && riok {
		switch op {
		case "+":
			return li + ri, nil
		case "-":
			return li - ri, nil
		case "*":
			return li * ri, nil
		case "//":
			if ri == 0 {
				return nil, New(KindZeroDivision, pos, "integer division by zero")
			}
			return object.Int(floorDivInt(int64(li), int64(ri))), nil
		case "%":
			if ri == 0 {
				return nil, New(KindZeroDivision, pos, "integer modulo by zero")
			}
			return object.Int(floorModInt(int64(li), int64(ri))), nil
		case "**", "^":
			if ri >= 0 {
				return object.Int(intPow(int64(li), int64(ri))), nil
			}
		}
	}

	lf, lok := numToFloat(l)
	rf, rok := numToFloat(r)
	if !lok || !rok {
		return nil, New(KindType, pos, "unsupported operand types for %s: %s and %s", op, l.Kind(), r.Kind())
	}
	switch op {
	case "+":
		return object.Float(lf + rf), nil
	case "-":
		return object.Float(lf - rf), nil
	case "*":
		return object.Float(lf * rf), nil
	case "/":
		if rf == 0 {
			return nil, New(KindZeroDivision, pos, "division by zero")
		}
		return object.Float(lf / rf), nil
	case "//":
		if rf == 0 {
			return nil, New(KindZeroDivision, pos, "division by zero")
		}
		return object.Float(math.Floor(lf / rf)), nil
	case "%":
		if rf == 0 {
			return nil, New(KindZeroDivision, pos, "modulo by zero")
		}
		return object.Float(math.Mod(lf, rf)), nil
	case "**", "^":
		return object.Float(math.Pow(lf, rf)), nil
	}
	return nil, fmt.Errorf("interp: unknown binary operator %q", op)
}

// strAndInt matches a string/integer operand pair in either order, for
// string repetition.
func strAndInt(l, r object.Value) (object.Str, object.Int, bool) {
	if s, ok := l.(object.Str); ok {
		if n, ok := r.(object.Int); ok {
			return s, n, true
		}
	}
	if n, ok := l.(object.Int); ok {
		if s, ok := r.(object.Str); ok {
			return s, n, true
		}
	}
	return "", 0, false
}

func floorDivInt(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorModInt(a, b int64) int64 {
	m := a % b
	if m != 0 && ((a < 0) != (b < 0)) {
		m += b
	}
	return m
}

func intPow(base, exp int64) int64 {
	result := int64(1)
	for i := int64(0); i < exp; i++ {
		result *= base
	}
	return result
}

func (in *Interpreter) evalCompare(env *object.Environment, n *ast.Compare) (object.Value, error) {
	l, err := in.eval(env, n.L)
	if err != nil {
		return nil, err
	}
	r, err := in.eval(env, n.R)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case "==":
		return object.Bool(valuesEqual(l, r)), nil
	case "!=":
		return object.Bool(!valuesEqual(l, r)), nil
	case "in":
		return membership(l, r, n.Position())
	}
	return orderCompare(n.Op, l, r, n.Position())
}

func orderCompare(op string, l, r object.Value, pos ast.Pos) (object.Value, error) {
	if ls, ok := l.(object.Str); ok {
		if rs, ok := r.(object.Str); ok {
			return object.Bool(strCompare(op, string(ls), string(rs))), nil
		}
	}
	lf, lok := numToFloat(l)
	rf, rok := numToFloat(r)
	if !lok || !rok {
		return nil, New(KindType, pos, "unsupported operand types for %s: %s and %s", op, l.Kind(), r.Kind())
	}
	switch op {
	case "<":
		return object.Bool(lf < rf), nil
	case "<=":
		return object.Bool(lf <= rf), nil
	case ">":
		return object.Bool(lf > rf), nil
	case ">=":
		return object.Bool(lf >= rf), nil
	}
	return nil, fmt.Errorf("interp: unknown comparison operator %q", op)
}

func strCompare(op, l, r string) bool {
	switch op {
	case "<":
		return l < r
	case "<=":
		return l <= r
	case ">":
		return l > r
	case ">=":
		return l >= r
	}
	return false
}

func membership(l, r object.Value, pos ast.Pos) (object.Value, error) {
	switch coll := r.(type) {
	case *object.List:
		for _, e := range coll.Elems {
			if valuesEqual(l, e) {
				return object.Bool(true), nil
			}
		}
		return object.Bool(false), nil
	case *object.Hash:
		s, ok := l.(object.Str)
		if !ok {
			return object.Bool(false), nil
		}
		_, ok = coll.Get(string(s))
		return object.Bool(ok), nil
	case object.Str:
		s, ok := l.(object.Str)
		if !ok {
			return nil, New(KindType, pos, "left side of 'in' must be a string when testing string containment")
		}
		return object.Bool(strings.Contains(string(coll), string(s))), nil
	default:
		return nil, New(KindType, pos, "'in' unsupported against %s", r.Kind())
	}
}

func valuesEqual(l, r object.Value) bool {
	if lf, lok := numToFloat(l); lok {
		if rf, rok := numToFloat(r); rok {
			return lf == rf
		}
	}
	switch lv := l.(type) {
	case object.Str:
		rv, ok := r.(object.Str)
		return ok && lv == rv
	case object.Bool:
		rv, ok := r.(object.Bool)
		return ok && lv == rv
	case object.NoneType:
		_, ok := r.(object.NoneType)
		return ok
	case *object.List:
		rv, ok := r.(*object.List)
		if !ok || len(lv.Elems) != len(rv.Elems) {
			return false
		}
		for i := range lv.Elems {
			if !valuesEqual(lv.Elems[i], rv.Elems[i]) {
				return false
			}
		}
		return true
	case *object.Hash:
		rv, ok := r.(*object.Hash)
		if !ok || lv.Len() != rv.Len() {
			return false
		}
		for _, k := range lv.Keys() {
			a, _ := lv.Get(k)
			b, bok := rv.Get(k)
			if !bok || !valuesEqual(a, b) {
				return false
			}
		}
		return true
	default:
		return l == r
	}
}

// ---------------------------------------------------------------- regex

func compileRegex(source, flags string, pos ast.Pos) (*object.Regex, error) {
	pattern := source
	var inline []byte
	for _, f := range flags {
		switch f {
		case 'i':
			inline = append(inline, 'i')
		case 'm':
			inline = append(inline, 'm')
		case 's':
			inline = append(inline, 's')
		}
	}
	if len(inline) > 0 {
		pattern = "(?" + string(inline) + ")" + pattern
	}
	compiled, err := regexp.Compile(pattern)
	if err != nil {
		return nil, New(KindRegex, pos, "invalid regex /%s/: %s", source, err)
	}
	return &object.Regex{Source: source, Flags: flags, Compiled: compiled, Global: strings.ContainsRune(flags, 'g')}, nil
}

func (in *Interpreter) regexFromExpr(env *object.Environment, e ast.Expr) (*object.Regex, error) {
	if lit, ok := e.(*ast.RegexLit); ok {
		return compileRegex(lit.Source, lit.Flags, lit.Position())
	}
	v, err := in.eval(env, e)
	if err != nil {
		return nil, err
	}
	switch x := v.(type) {
	case *object.Regex:
		return x, nil
	case object.Str:
		return compileRegex(string(x), "", e.Position())
	default:
		return nil, New(KindType, e.Position(), "expected a regex or string pattern, got %s", v.Kind())
	}
}

func (in *Interpreter) evalRegexMatch(env *object.Environment, n *ast.RegexMatch) (object.Value, error) {
	target, err := in.eval(env, n.Target)
	if err != nil {
		return nil, err
	}
	ts := stringify(target)
	re, err := in.regexFromExpr(env, n.Pattern)
	if err != nil {
		return nil, err
	}
	matched := re.Compiled.MatchString(ts)
	if n.Negated {
		matched = !matched
	}
	return object.Bool(matched), nil
}

func (in *Interpreter) evalRegexSubst(env *object.Environment, n *ast.RegexSubst) (object.Value, error) {
	target, err := in.eval(env, n.Target)
	if err != nil {
		return nil, err
	}
	ts := stringify(target)
	re, err := compileRegex(n.Pattern, n.Flags, n.Position())
	if err != nil {
		return nil, err
	}
	repl := n.Replacement

	var out string
	if re.Global {
		out = re.Compiled.ReplaceAllString(ts, repl)
	} else {
		out = replaceFirst(re.Compiled, ts, repl)
	}
	result := object.Str(out)
	// Only a bare assignable target (variable, index, attribute) is
	// rebound in place; a substitution against an arbitrary expression is
	// just used as a value.
	switch n.Target.(type) {
	case *ast.VarRef, *ast.Index, *ast.Attr:
		if err := in.assignTo(env, n.Target, result); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// stringify coerces a regex-operator target: non-string targets are
// matched against their string form.
func stringify(v object.Value) string {
	if s, ok := v.(object.Str); ok {
		return string(s)
	}
	return v.String()
}

func replaceFirst(re *regexp.Regexp, s, repl string) string {
	loc := re.FindStringSubmatchIndex(s)
	if loc == nil {
		return s
	}
	var sb strings.Builder
	sb.WriteString(s[:loc[0]])
	sb.Write(re.ExpandString(nil, repl, s, loc))
	sb.WriteString(s[loc[1]:])
	return sb.String()
}
