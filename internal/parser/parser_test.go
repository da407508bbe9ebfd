package parser

import (
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyrl-lang/pyrl/internal/ast"
	"github.com/pyrl-lang/pyrl/internal/lexer"
)

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()
	toks, err := lexer.New([]byte(src)).Scan()
	require.NoError(t, err, "lexing %q", src)
	prog, err := New(toks).Parse()
	require.NoError(t, err, "parsing %q", src)
	return prog
}

func TestParseScalarAssignment(t *testing.T) {
	prog := parse(t, "$x = 1\n")
	require.Len(t, prog.Stmts, 1)
	a, ok := prog.Stmts[0].(*ast.Assign)
	require.True(t, ok, "expected *ast.Assign, got %T", prog.Stmts[0])
	v, ok := a.Target.(*ast.VarRef)
	require.True(t, ok)
	assert.Equal(t, byte('$'), v.Sigil)
	assert.Equal(t, "x", v.Name)
	lit, ok := a.Value.(*ast.Literal)
	require.True(t, ok)
	assert.Equal(t, ast.LitInt, lit.Kind)
	assert.Equal(t, int64(1), lit.I)
}

func TestParseIndentedIfBlock(t *testing.T) {
	prog := parse(t, "if $n <= 1:\n    return 1\nreturn 2\n")
	require.Len(t, prog.Stmts, 2)
	ifstmt, ok := prog.Stmts[0].(*ast.If)
	require.True(t, ok, "expected *ast.If, got %T", prog.Stmts[0])
	require.Len(t, ifstmt.Then.Stmts, 1)
	_, ok = ifstmt.Then.Stmts[0].(*ast.Return)
	assert.True(t, ok)
	assert.Nil(t, ifstmt.Else)
}

func TestParseElifElseChain(t *testing.T) {
	prog := parse(t, "if $x == 1:\n    $y = 1\nelif $x == 2:\n    $y = 2\nelse:\n    $y = 3\n")
	ifstmt := prog.Stmts[0].(*ast.If)
	require.Len(t, ifstmt.Elif, 1)
	require.NotNil(t, ifstmt.Else)
}

func TestParseAnonBlockFunction(t *testing.T) {
	prog := parse(t, "&double($x) = {\n    return $x * 2\n}\n")
	fn, ok := prog.Stmts[0].(*ast.FuncDef)
	require.True(t, ok, "expected *ast.FuncDef, got %T", prog.Stmts[0])
	assert.Equal(t, ast.KindAnonBlock, fn.Kind)
	assert.Equal(t, "double", fn.Name)
	require.Len(t, fn.Params, 1)
	assert.Equal(t, "x", fn.Params[0].Name)
}

func TestParseIndentedDef(t *testing.T) {
	prog := parse(t, "def add($a, $b):\n    return $a + $b\n")
	fn := prog.Stmts[0].(*ast.FuncDef)
	assert.Equal(t, ast.KindIndentedDef, fn.Kind)
	assert.Equal(t, "add", fn.Name)
	require.Len(t, fn.Params, 2)
}

func TestParseBracedWhileInsideAnonBlock(t *testing.T) {
	prog := parse(t, "&f($s) = {\n    $i = 0;\n    while $i >= 0 {\n        $i = $i - 1\n    };\n    return $i\n}\n")
	fn := prog.Stmts[0].(*ast.FuncDef)
	require.Len(t, fn.Body.Stmts, 3)
	_, ok := fn.Body.Stmts[1].(*ast.While)
	assert.True(t, ok)
}

func TestParseClassDef(t *testing.T) {
	prog := parse(t, `class Counter { prop count = 0 ;
  init() = { $count = 0 } ;
  method inc() = { $count = $count + 1 } ;
  method get() = { return $count } }
`)
	c, ok := prog.Stmts[0].(*ast.ClassDef)
	require.True(t, ok, "expected *ast.ClassDef, got %T", prog.Stmts[0])
	assert.Equal(t, "Counter", c.Name)
	assert.Equal(t, "", c.Parent)

	var props, methods, inits int
	for _, m := range c.Members {
		switch mem := m.(type) {
		case *ast.PropDef:
			props++
			assert.Equal(t, "count", mem.Name)
		case *ast.MethodDef:
			if mem.IsInit {
				inits++
			} else {
				methods++
			}
		}
	}
	assert.Equal(t, 1, props)
	assert.Equal(t, 1, inits)
	assert.Equal(t, 2, methods)
}

func TestParseClassExtends(t *testing.T) {
	prog := parse(t, "class Dog extends Animal { method speak() = { return \"woof\" } }\n")
	c := prog.Stmts[0].(*ast.ClassDef)
	assert.Equal(t, "Animal", c.Parent)
}

func TestParseHashLitSquareBracketIndex(t *testing.T) {
	prog := parse(t, `%u = {"name": "Alice", "age": 30}
%u["email"] = "a@x"
`)
	require.Len(t, prog.Stmts, 2)
	assign := prog.Stmts[0].(*ast.Assign)
	hl, ok := assign.Value.(*ast.HashLit)
	require.True(t, ok)
	require.Len(t, hl.Pairs, 2)

	second := prog.Stmts[1].(*ast.Assign)
	idx, ok := second.Target.(*ast.Index)
	require.True(t, ok, "expected square-bracket index target, got %T", second.Target)
	lit := idx.Key.(*ast.Literal)
	assert.Equal(t, "email", lit.S)
}

func TestParseRegexMatchExpression(t *testing.T) {
	prog := parse(t, "if $t =~ m/world/ :\n    print(\"yes\")\n")
	ifstmt := prog.Stmts[0].(*ast.If)
	rm, ok := ifstmt.Cond.(*ast.RegexMatch)
	require.True(t, ok, "expected *ast.RegexMatch, got %T", ifstmt.Cond)
	assert.False(t, rm.Negated)
}

func TestParseRegexNotMatch(t *testing.T) {
	prog := parse(t, "$ok = $t !~ m/world/\n")
	assign := prog.Stmts[0].(*ast.Assign)
	rm := assign.Value.(*ast.RegexMatch)
	assert.True(t, rm.Negated)
}

func TestParsePrecedencePowerOverUnaryOverMultiplicative(t *testing.T) {
	// -2 ** 2 should parse as -(2 ** 2), power binds tighter than unary.
	prog := parse(t, "$x = -2 ** 2\n")
	assign := prog.Stmts[0].(*ast.Assign)
	un, ok := assign.Value.(*ast.Unary)
	require.True(t, ok, "expected outer *ast.Unary, got %T", assign.Value)
	assert.Equal(t, "-", un.Op)
	bin, ok := un.X.(*ast.Binary)
	require.True(t, ok, "expected power binary inside unary, got %T", un.X)
	assert.Equal(t, "**", bin.Op)
}

func TestParseListAndLambdaLiteral(t *testing.T) {
	prog := parse(t, "@xs = [1, 2, 3]\n&f = {|$x| $x + 1}\n")
	assign := prog.Stmts[0].(*ast.Assign)
	list, ok := assign.Value.(*ast.ListLit)
	require.True(t, ok)
	assert.Len(t, list.Elems, 3)

	second := prog.Stmts[1].(*ast.Assign)
	lam, ok := second.Value.(*ast.Lambda)
	require.True(t, ok, "expected *ast.Lambda, got %T", second.Value)
	require.Len(t, lam.Params, 1)
	assert.Equal(t, "x", lam.Params[0].Name)
}

func TestParseForLoopOverRangeCall(t *testing.T) {
	prog := parse(t, "for $i in range(3):\n    print($i)\n")
	f, ok := prog.Stmts[0].(*ast.For)
	require.True(t, ok, "expected *ast.For, got %T", prog.Stmts[0])
	assert.Equal(t, "i", f.VarName)
	_, ok = f.Iter.(*ast.Call)
	assert.True(t, ok)
}

func TestParseTestBlock(t *testing.T) {
	prog := parse(t, "test \"basic math\" {\n    assert 1 + 1 == 2\n}\n")
	tb, ok := prog.Stmts[0].(*ast.TestBlock)
	require.True(t, ok, "expected *ast.TestBlock, got %T", prog.Stmts[0])
	assert.Equal(t, "basic math", tb.Label)
	require.Len(t, tb.Body.Stmts, 1)
}

func TestParseRejectsMixedBlockStyles(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"braced while inside indented if", "if $x:\n    while $x { $x = 0 }\n"},
		{"indented if inside braced function", "&f() = { if True: return 1 }\n"},
		{"braced then with indented else", "if $x { print(1) } else:\n    print(2)\n"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			toks, err := lexer.New([]byte(c.src)).Scan()
			require.NoError(t, err)
			_, err = New(toks).Parse()
			assert.Error(t, err, "mixed styles should not parse: %q", c.src)
		})
	}
}

func TestParseErrorReportsPosition(t *testing.T) {
	toks, err := lexer.New([]byte("$x = \n")).Scan()
	require.NoError(t, err)
	_, err = New(toks).Parse()
	require.Error(t, err)
	oe, ok := oops.AsOops(err)
	require.True(t, ok, "expected an oops error, got %T", err)
	assert.Equal(t, 1, oe.Context()["line"])
}
