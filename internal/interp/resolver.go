package interp

import (
	"github.com/pyrl-lang/pyrl/internal/ast"
)

// Resolver performs a static scope-distance pass: a declare/define walk
// over nested scopes that records, for each variable reference, how many
// environment frames back its binding lives, so the interpreter can jump
// straight to the right frame instead of walking the chain and
// re-discovering it (and so a closure keeps seeing the binding that was
// in scope when it was created, even if an outer frame later defines a
// same-named variable).
//
// Pyrl has no block-scoped declaration keyword: every `$name = ...`
// assignment target is declared in its innermost enclosing FUNCTION
// scope, sigil-qualified, since a binding's key is its sigil concatenated
// with its name. Only a function, lambda, or method body opens a scope;
// `if`/`while`/`for` bodies do not, so a name first assigned inside a
// branch or loop survives it. Top-level bindings and anything the resolver
// can't find in an enclosing scope are left unresolved and fall through
// to dynamic lookup at eval time (the global frame, plus the method $self
// field fallback below).
type Resolver struct {
	locals    map[ast.Expr]int
	scopes    []map[string]bool
	classes   map[string]*ast.ClassDef
	selfProps map[string]bool // prop names of the class whose method body is currently being resolved
}

func NewResolver() *Resolver {
	return &Resolver{
		locals:  make(map[ast.Expr]int),
		classes: make(map[string]*ast.ClassDef),
	}
}

// propNames collects c's own and inherited prop names: a method body's
// unqualified `$name` that names a prop is left unresolved here so the
// interpreter's $self field fallback handles it, rather than the resolver
// declaring it as a fresh local that would shadow the field.
func (r *Resolver) propNames(c *ast.ClassDef) map[string]bool {
	set := make(map[string]bool)
	for cur := c; cur != nil; {
		for _, m := range cur.Members {
			if pd, ok := m.(*ast.PropDef); ok {
				set[pd.Name] = true
			}
		}
		cur = r.classes[cur.Parent]
	}
	return set
}

// Locals returns the scope-distance table built by Resolve, keyed by the
// exact *ast.VarRef (or similar) node whose name was found in an enclosing
// scope.
func (r *Resolver) Locals() map[ast.Expr]int { return r.locals }

// Resolve walks an entire program, populating the Locals table.
func (r *Resolver) Resolve(prog *ast.Program) {
	for _, s := range prog.Stmts {
		r.stmt(s)
	}
}

func (r *Resolver) beginScope() { r.scopes = append(r.scopes, make(map[string]bool)) }
func (r *Resolver) endScope() { r.scopes = r.scopes[:len(r.scopes)-1] }

func (r *Resolver) declare(name string) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name] = false
}

func (r *Resolver) define(name string) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name] = true
}

func (r *Resolver) resolveLocal(expr ast.Expr, name string) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name]; ok {
			r.locals[expr] = len(r.scopes) - 1 - i
			return
		}
	}
}

// existingDistance reports how many scopes up `name` is already bound,
// without declaring it. An assignment target must consult this *before*
// declaring: a loop body or closure that assigns to a variable already
// bound in an enclosing scope must rebind that binding (so mutations are
// visible to the loop's next iteration and to the defining function's
// other closures), not shadow it with a fresh local the way a first
// assignment to a brand-new name does.
func (r *Resolver) existingDistance(name string) (int, bool) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name]; ok {
			return len(r.scopes) - 1 - i, true
		}
	}
	return 0, false
}

func key(sigil byte, name string) string { return string(sigil) + name }

// ---------------------------------------------------------------- statements

func (r *Resolver) stmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.Assign:
		r.expr(n.Value)
		if v, ok := n.Target.(*ast.VarRef); ok {
			if v.Sigil == '$' && r.selfProps[v.Name] {
				// Leave unresolved: an assignment to an unqualified field
				// name writes through $self rather than shadowing it with
				// a fresh local.
				break
			}
			k := key(v.Sigil, v.Name)
			if d, ok := r.existingDistance(k); ok {
				// Already bound in an enclosing scope (an outer loop
				// iteration's variable, or a captured closure upvalue):
				// rebind it there instead of shadowing.
				r.locals[ast.Expr(n.Target)] = d
			} else {
				r.declare(k)
				r.define(k)
				if len(r.scopes) > 0 {
					// Top level has no enclosing scope to rebind or shadow;
					// leave it unresolved so the interpreter treats it as a
					// dynamic global lookup, matching resolveLocal's behavior
					// for reads of the same name.
					r.locals[ast.Expr(n.Target)] = 0
				}
			}
		} else {
			r.expr(n.Target)
		}
	case *ast.ExprStmt:
		r.expr(n.X)
	case *ast.Return:
		if n.Value != nil {
			r.expr(n.Value)
		}
	case *ast.Print:
		for _, a := range n.Args {
			r.expr(a)
		}
	case *ast.Assert:
		r.expr(n.X)
	case *ast.If:
		r.expr(n.Cond)
		r.block(n.Then)
		for _, e := range n.Elif {
			r.expr(e.Cond)
			r.block(e.Body)
		}
		if n.Else != nil {
			r.block(n.Else)
		}
	case *ast.While:
		r.expr(n.Cond)
		r.block(n.Body)
	case *ast.For:
		r.expr(n.Iter)
		// The loop variable binds in the enclosing function scope (the
		// global frame at top level) and survives the loop, like any other
		// assignment.
		r.declare(key('$', n.VarName))
		r.define(key('$', n.VarName))
		r.block(n.Body)
	case *ast.FuncDef:
		r.resolveFunc(n.Params, n.Body, false)
	case *ast.ClassDef:
		r.classDef(n)
	case *ast.TestBlock:
		r.block(n.Body)
	case *ast.Block:
		r.block(n)
	}
}

// block resolves a statement list without opening a scope: `if`, `while`,
// `for`, and `test` bodies share their enclosing function's (or the
// global) scope.
func (r *Resolver) block(b *ast.Block) {
	for _, s := range b.Stmts {
		r.stmt(s)
	}
}

func (r *Resolver) resolveFunc(params []ast.Param, body *ast.Block, method bool) {
	if method {
		// Mirror the runtime frame shape: Function.Bind interposes a frame
		// holding $self between the call frame and the closure, so the
		// static distances have to count it too.
		r.beginScope()
		r.declare(key('$', "self"))
		r.define(key('$', "self"))
	}
	r.beginScope()
	for _, p := range params {
		if p.Default != nil {
			r.expr(p.Default)
		}
		r.declare(key('$', p.Name))
		r.define(key('$', p.Name))
	}
	for _, s := range body.Stmts {
		r.stmt(s)
	}
	r.endScope()
	if method {
		r.endScope()
	}
}

func (r *Resolver) classDef(c *ast.ClassDef) {
	r.classes[c.Name] = c
	props := r.propNames(c)
	for _, m := range c.Members {
		switch member := m.(type) {
		case *ast.PropDef:
			if member.Default != nil {
				r.expr(member.Default)
			}
		case *ast.MethodDef:
			prev := r.selfProps
			r.selfProps = props
			r.resolveFunc(member.Params, member.Body, true)
			r.selfProps = prev
		}
	}
}

// ---------------------------------------------------------------- expressions

func (r *Resolver) expr(e ast.Expr) {
	switch n := e.(type) {
	case *ast.Literal, *ast.IdentRef, *ast.RegexLit:
		// nothing to resolve
	case *ast.VarRef:
		r.resolveLocal(n, key(n.Sigil, n.Name))
	case *ast.Index:
		r.expr(n.Collection)
		r.expr(n.Key)
	case *ast.Attr:
		r.expr(n.Obj)
	case *ast.MethodCall:
		r.expr(n.Obj)
		for _, a := range n.Args {
			r.expr(a)
		}
	case *ast.Call:
		r.expr(n.Callee)
		for _, a := range n.Args {
			r.expr(a)
		}
	case *ast.Unary:
		r.expr(n.X)
	case *ast.Binary:
		r.expr(n.L)
		r.expr(n.R)
	case *ast.LogicalAnd:
		r.expr(n.L)
		r.expr(n.R)
	case *ast.LogicalOr:
		r.expr(n.L)
		r.expr(n.R)
	case *ast.LogicalNot:
		r.expr(n.X)
	case *ast.Compare:
		r.expr(n.L)
		r.expr(n.R)
	case *ast.RegexMatch:
		r.expr(n.Target)
		r.expr(n.Pattern)
	case *ast.RegexSubst:
		r.expr(n.Target)
	case *ast.ListLit:
		for _, el := range n.Elems {
			r.expr(el)
		}
	case *ast.HashLit:
		for _, p := range n.Pairs {
			r.expr(p.Value)
		}
	case *ast.Lambda:
		r.beginScope()
		for _, p := range n.Params {
			if p.Default != nil {
				r.expr(p.Default)
			}
			r.declare(key('$', p.Name))
			r.define(key('$', p.Name))
		}
		r.expr(n.Body)
		r.endScope()
	}
}
