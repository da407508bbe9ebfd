package vm

import "github.com/pyrl-lang/pyrl/internal/ast"

// treeOf renders one AST node as a serialized tree (parse()'s result):
// nested maps and slices of plain values, the shape a host embedding the
// VM can hand straight to json_stringify or its own marshaler without any
// Go struct coupling.
func treeOf(n ast.Node) map[string]any {
	if n == nil {
		return nil
	}
	pos := n.Position()
	m := map[string]any{"line": pos.Line, "col": pos.Col}

	switch v := n.(type) {
	case *ast.Program:
		m["type"] = "Program"
		m["stmts"] = stmtList(v.Stmts)

	case *ast.Assign:
		m["type"] = "Assign"
		m["target"] = treeOf(v.Target)
		m["value"] = treeOf(v.Value)
	case *ast.ExprStmt:
		m["type"] = "ExprStmt"
		m["x"] = treeOf(v.X)
	case *ast.Return:
		m["type"] = "Return"
		if v.Value != nil {
			m["value"] = treeOf(v.Value)
		}
	case *ast.Print:
		m["type"] = "Print"
		m["args"] = exprList(v.Args)
	case *ast.Assert:
		m["type"] = "Assert"
		m["x"] = treeOf(v.X)
	case *ast.If:
		m["type"] = "If"
		m["cond"] = treeOf(v.Cond)
		m["then"] = treeOf(v.Then)
		elifs := make([]any, len(v.Elif))
		for i, e := range v.Elif {
			elifs[i] = map[string]any{"cond": treeOf(e.Cond), "body": treeOf(e.Body)}
		}
		m["elif"] = elifs
		if v.Else != nil {
			m["else"] = treeOf(v.Else)
		}
	case *ast.While:
		m["type"] = "While"
		m["cond"] = treeOf(v.Cond)
		m["body"] = treeOf(v.Body)
	case *ast.For:
		m["type"] = "For"
		m["var"] = string(v.VarSigil) + v.VarName
		m["iter"] = treeOf(v.Iter)
		m["body"] = treeOf(v.Body)
	case *ast.FuncDef:
		m["type"] = "FuncDef"
		m["name"] = v.Name
		m["params"] = paramList(v.Params)
		m["body"] = treeOf(v.Body)
	case *ast.PropDef:
		m["type"] = "PropDef"
		m["name"] = v.Name
		if v.Default != nil {
			m["default"] = treeOf(v.Default)
		}
	case *ast.MethodDef:
		m["type"] = "MethodDef"
		m["name"] = v.Name
		m["isInit"] = v.IsInit
		m["params"] = paramList(v.Params)
		m["body"] = treeOf(v.Body)
	case *ast.ClassDef:
		m["type"] = "ClassDef"
		m["name"] = v.Name
		m["parent"] = v.Parent
		members := make([]any, len(v.Members))
		for i, mem := range v.Members {
			members[i] = treeOf(mem)
		}
		m["members"] = members
	case *ast.TestBlock:
		m["type"] = "TestBlock"
		m["label"] = v.Label
		m["body"] = treeOf(v.Body)
	case *ast.Block:
		m["type"] = "Block"
		m["stmts"] = stmtList(v.Stmts)

	case *ast.Literal:
		m["type"] = "Literal"
		m["repr"] = v.String()
	case *ast.VarRef:
		m["type"] = "VarRef"
		m["name"] = string(v.Sigil) + v.Name
	case *ast.IdentRef:
		m["type"] = "IdentRef"
		m["name"] = v.Name
	case *ast.Index:
		m["type"] = "Index"
		m["collection"] = treeOf(v.Collection)
		m["key"] = treeOf(v.Key)
	case *ast.Attr:
		m["type"] = "Attr"
		m["obj"] = treeOf(v.Obj)
		m["name"] = v.Name
	case *ast.MethodCall:
		m["type"] = "MethodCall"
		m["obj"] = treeOf(v.Obj)
		m["name"] = v.Name
		m["args"] = exprList(v.Args)
	case *ast.Call:
		m["type"] = "Call"
		m["callee"] = treeOf(v.Callee)
		m["args"] = exprList(v.Args)
	case *ast.Unary:
		m["type"] = "Unary"
		m["op"] = v.Op
		m["x"] = treeOf(v.X)
	case *ast.Binary:
		m["type"] = "Binary"
		m["op"] = v.Op
		m["l"] = treeOf(v.L)
		m["r"] = treeOf(v.R)
	case *ast.LogicalAnd:
		m["type"] = "LogicalAnd"
		m["l"] = treeOf(v.L)
		m["r"] = treeOf(v.R)
	case *ast.LogicalOr:
		m["type"] = "LogicalOr"
		m["l"] = treeOf(v.L)
		m["r"] = treeOf(v.R)
	case *ast.LogicalNot:
		m["type"] = "LogicalNot"
		m["x"] = treeOf(v.X)
	case *ast.Compare:
		m["type"] = "Compare"
		m["op"] = v.Op
		m["l"] = treeOf(v.L)
		m["r"] = treeOf(v.R)
	case *ast.RegexMatch:
		m["type"] = "RegexMatch"
		m["negated"] = v.Negated
		m["target"] = treeOf(v.Target)
		m["pattern"] = treeOf(v.Pattern)
	case *ast.RegexSubst:
		m["type"] = "RegexSubst"
		m["target"] = treeOf(v.Target)
		m["pattern"] = v.Pattern
		m["replacement"] = v.Replacement
		m["flags"] = v.Flags
	case *ast.ListLit:
		m["type"] = "ListLit"
		m["elems"] = exprList(v.Elems)
	case *ast.HashLit:
		m["type"] = "HashLit"
		pairs := make([]any, len(v.Pairs))
		for i, p := range v.Pairs {
			pairs[i] = map[string]any{"key": p.Key, "value": treeOf(p.Value)}
		}
		m["pairs"] = pairs
	case *ast.RegexLit:
		m["type"] = "RegexLit"
		m["source"] = v.Source
		m["flags"] = v.Flags
	case *ast.Lambda:
		m["type"] = "Lambda"
		m["params"] = paramList(v.Params)
		m["body"] = treeOf(v.Body)

	default:
		m["type"] = "Unknown"
		m["repr"] = n.String()
	}
	return m
}

func stmtList(stmts []ast.Stmt) []any {
	out := make([]any, len(stmts))
	for i, s := range stmts {
		out[i] = treeOf(s)
	}
	return out
}

func exprList(exprs []ast.Expr) []any {
	out := make([]any, len(exprs))
	for i, e := range exprs {
		out[i] = treeOf(e)
	}
	return out
}

func paramList(params []ast.Param) []any {
	out := make([]any, len(params))
	for i, p := range params {
		entry := map[string]any{"name": p.Name, "vararg": p.Vararg}
		if p.Default != nil {
			entry["default"] = treeOf(p.Default)
		}
		out[i] = entry
	}
	return out
}
