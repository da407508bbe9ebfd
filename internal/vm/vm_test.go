package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyrl-lang/pyrl/internal/object"
)

func TestExecuteAccumulatesStateAcrossCalls(t *testing.T) {
	v := New()
	res := v.Execute("$x = 2\n")
	require.True(t, res.OK)

	res = v.Execute("print($x + 1)\n")
	require.True(t, res.OK)
	assert.Equal(t, "3\n", res.Stdout)
}

func TestExecuteFunctionDefinedInEarlierCall(t *testing.T) {
	v := New()
	res := v.Execute("def twice($n):\n    return $n * 2\n")
	require.True(t, res.OK)

	res = v.Execute("print(twice(4))\n")
	require.True(t, res.OK)
	assert.Equal(t, "8\n", res.Stdout)
}

func TestExecuteErrorEnvelope(t *testing.T) {
	v := New()
	res := v.Execute("print($nope)\n")
	require.False(t, res.OK)
	require.NotNil(t, res.Error)
	assert.Equal(t, "NameError", res.Error.Kind)
	assert.Contains(t, res.Error.Message, "Undefined variable: $nope")
	assert.Equal(t, 1, res.Error.Line)
}

func TestExecuteParseErrorEnvelope(t *testing.T) {
	v := New()
	res := v.Execute("$x = \n")
	require.False(t, res.OK)
	require.NotNil(t, res.Error)
	assert.Equal(t, "ParseError", res.Error.Kind)
}

func TestTokenizeReportsKindValuePosition(t *testing.T) {
	v := New()
	toks, err := v.Tokenize("$x = 1\n")
	require.NoError(t, err)
	require.NotEmpty(t, toks)
	assert.Equal(t, "SCALAR", toks[0].Kind)
	assert.Equal(t, "x", toks[0].Value)
	assert.Equal(t, 1, toks[0].Line)
	assert.Equal(t, 1, toks[0].Col)
}

func TestParseSerializedTree(t *testing.T) {
	v := New()
	tree, err := v.Parse("$x = 1\n")
	require.NoError(t, err)
	root, ok := tree.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Program", root["type"])
	stmts, ok := root["stmts"].([]any)
	require.True(t, ok)
	require.Len(t, stmts, 1)
	assign := stmts[0].(map[string]any)
	assert.Equal(t, "Assign", assign["type"])
}

func TestResetKeepsBuiltinsDropsUserGlobals(t *testing.T) {
	v := New()
	require.True(t, v.Execute("$x = 1\n").OK)
	v.Reset()

	res := v.Execute("print(len(\"hi\"))\n")
	require.True(t, res.OK)
	assert.Equal(t, "2\n", res.Stdout)

	res = v.Execute("print($x)\n")
	require.False(t, res.OK)
}

func TestGetVariablesSnapshotsTopLevelBindings(t *testing.T) {
	v := New()
	require.True(t, v.Execute("$x = 5\n@xs = [1, 2]\n").OK)
	vars := v.GetVariables()
	assert.Equal(t, "5", vars["$x"])
	assert.Equal(t, "[1, 2]", vars["@xs"])
}

func TestRegisterBuiltinOverride(t *testing.T) {
	v := New()
	v.RegisterBuiltin("answer", func([]object.Value) (object.Value, error) {
		return object.Int(42), nil
	}, object.Fixed(0))

	res := v.Execute("print(answer())\n")
	require.True(t, res.OK)
	assert.Equal(t, "42\n", res.Stdout)
}

func TestRegisterBuiltinOverridesPrint(t *testing.T) {
	v := New()
	var got []string
	v.RegisterBuiltin("print", func(args []object.Value) (object.Value, error) {
		for _, a := range args {
			got = append(got, a.String())
		}
		return object.None, nil
	}, object.Variadic(0))

	res := v.Execute("print(\"hi\", 42)\n")
	require.True(t, res.OK)
	assert.Empty(t, res.Stdout)
	assert.Equal(t, []string{"hi", "42"}, got)
}

func TestRunTestsSummary(t *testing.T) {
	v := New()
	res := v.Execute(`test "ok" {
    assert 1 + 1 == 2
}
test "bad" {
    assert 1 == 2
}
`)
	require.True(t, res.OK)

	sum := v.RunTests()
	assert.Equal(t, 2, sum.Total)
	assert.Equal(t, 1, sum.Passed)
	assert.Equal(t, 1, sum.Failed)
	require.Len(t, sum.Failures, 1)
	assert.Equal(t, "bad", sum.Failures[0].Label)
	assert.Equal(t, 5, sum.Failures[0].Line)
	assert.Contains(t, sum.Failures[0].Message, "Assertion failed")
}

func TestVMIDsAreUniqueAndVersionParses(t *testing.T) {
	a, b := New(), New()
	assert.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, "0.1.0", Version())
}
