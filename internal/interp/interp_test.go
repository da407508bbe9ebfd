package interp

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyrl-lang/pyrl/internal/lexer"
	"github.com/pyrl-lang/pyrl/internal/parser"
)

// run lexes, parses, resolves, and executes src against a fresh
// Interpreter, returning everything it wrote to stdout.
func run(t *testing.T, src string) (string, error) {
	t.Helper()
	toks, err := lexer.New([]byte(src)).Scan()
	require.NoError(t, err)
	prog, err := parser.New(toks).Parse()
	require.NoError(t, err)

	r := NewResolver()
	r.Resolve(prog)

	buf := &bytes.Buffer{}
	in := NewInterpreter(buf)
	in.SetLocals(r.Locals())
	err = in.Run(prog)
	return buf.String(), err
}

func TestRecursiveFactorial(t *testing.T) {
	out, err := run(t, `def factorial($n):
    if $n <= 1:
        return 1
    return $n * factorial($n - 1)
print(factorial(5))
`)
	require.NoError(t, err)
	assert.Equal(t, "120\n", out)
}

func TestHashRoundTrip(t *testing.T) {
	out, err := run(t, `%u = {"name": "Alice", "age": 30}
%u["email"] = "a@x"
print(len(%u))
print(%u["email"])
`)
	require.NoError(t, err)
	assert.Equal(t, "3\na@x\n", out)
}

func TestAnonBlockFunctionWithWhile(t *testing.T) {
	out, err := run(t, `&reverse_string($s) = {
    $r = "";
    $i = len($s) - 1;
    while $i >= 0 {
        $r = $r + $s[$i];
        $i = $i - 1
    };
    return $r
}
print(&reverse_string("hello"))
`)
	require.NoError(t, err)
	assert.Equal(t, "olleh\n", out)
}

func TestClassWithInitAndMethod(t *testing.T) {
	out, err := run(t, `class Counter { prop count = 0 ;
  init() = { $count = 0 } ;
  method inc() = { $count = $count + 1 } ;
  method get() = { return $count } }
$c = Counter()
$c.inc(); $c.inc(); $c.inc()
print($c.get())
`)
	require.NoError(t, err)
	assert.Equal(t, "3\n", out)
}

func TestBuiltinNotShadowedByScalar(t *testing.T) {
	out, err := run(t, `$len = 5
print(len("hi"))
print($len)
`)
	require.NoError(t, err)
	assert.Equal(t, "2\n5\n", out)
}

func TestRegexMatch(t *testing.T) {
	out, err := run(t, `$t = "hello world"
if $t =~ m/world/ :
    print("yes")
`)
	require.NoError(t, err)
	assert.Equal(t, "yes\n", out)
}

func TestClosureCapturesMutationsSinceCreation(t *testing.T) {
	out, err := run(t, `def make_counter():
    $n = 0
    def bump():
        $n = $n + 1
        return $n
    return bump
&inc = make_counter()
print(&inc())
print(&inc())
print(&inc())
`)
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n3\n", out)
}

func TestListReferenceSemanticsVsScalarCopy(t *testing.T) {
	out, err := run(t, `@a = [1, 2]
@b = @a
append(@b, 3)
print(len(@a))

$x = 1
$y = $x
$y = 9
print($x)
`)
	require.NoError(t, err)
	assert.Equal(t, "3\n1\n", out)
}

func TestClassAttributePrecedence(t *testing.T) {
	out, err := run(t, `class Animal { prop sound = "..." ;
  method speak() = { return $sound } }
class Dog extends Animal { prop sound = "woof" }
$d = Dog()
print($d.speak())
`)
	require.NoError(t, err)
	assert.Equal(t, "woof\n", out)
}

func TestUndefinedVariableErrorMessage(t *testing.T) {
	_, err := run(t, "print($nope)\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Undefined variable: $nope")
}

func TestUndefinedFunctionCallErrorMessage(t *testing.T) {
	_, err := run(t, "nope(1)\n")
	require.Error(t, err)
	assert.Equal(t, KindName, ErrorKind(err))
	assert.Contains(t, err.Error(), "Undefined function: nope")
}

func TestIndexErrorMessage(t *testing.T) {
	_, err := run(t, `$x = 5
print($x[0])
`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Cannot access index")
}

func TestZeroDivisionError(t *testing.T) {
	_, err := run(t, "print(1 / 0)\n")
	require.Error(t, err)
	assert.Equal(t, KindZeroDivision, ErrorKind(err))
}

func TestAssertionFailureHaltsExecution(t *testing.T) {
	out, err := run(t, `assert 1 == 2
print("unreachable")
`)
	require.Error(t, err)
	assert.Equal(t, KindAssertion, ErrorKind(err))
	assert.Equal(t, "", out)
}

func TestForLoopOverListHashString(t *testing.T) {
	out, err := run(t, `@xs = [1, 2, 3]
$total = 0
for $v in @xs:
    $total = $total + $v
print($total)

%h = {"a": 1, "b": 2}
for $k in %h:
    print($k)

for $c in "ab":
    print($c)
`)
	require.NoError(t, err)
	assert.Equal(t, "6\na\nb\na\nb\n", out)
}

func TestBranchAssignmentSurvivesTheBlock(t *testing.T) {
	out, err := run(t, `def sign($n):
    if $n < 0:
        $label = "neg"
    else:
        $label = "pos"
    return $label
print(sign(-3))
print(sign(7))

for $i in range(3):
    $last = $i
print($last)
`)
	require.NoError(t, err)
	assert.Equal(t, "neg\npos\n2\n", out)
}

func TestFuncVarCallStatement(t *testing.T) {
	out, err := run(t, `&greet() = {
    print("hi")
}
&greet()
`)
	require.NoError(t, err)
	assert.Equal(t, "hi\n", out)
}

func TestBareNameCallFindsFuncVar(t *testing.T) {
	out, err := run(t, `&double($x) = {
    return $x * 2
}
print(double(21))
`)
	require.NoError(t, err)
	assert.Equal(t, "42\n", out)
}

func TestStringRepetition(t *testing.T) {
	out, err := run(t, `print("ab" * 3)
print(2 * "xy")
`)
	require.NoError(t, err)
	assert.Equal(t, "ababab\nxyxy\n", out)
}

func TestRegexMatchStringifiesTarget(t *testing.T) {
	out, err := run(t, `if 1234 =~ m/23/ :
    print("yes")
`)
	require.NoError(t, err)
	assert.Equal(t, "yes\n", out)
}

func TestRegexSubstInPlace(t *testing.T) {
	out, err := run(t, `$s = "hello world"
$r = $s =~ s/world/there/
print($s)
print($r)
`)
	require.NoError(t, err)
	assert.Equal(t, "hello there\nhello there\n", out)
}

func TestNoneTruthiness(t *testing.T) {
	out, err := run(t, `if None:
    print("truthy")
else:
    print("falsy")
`)
	require.NoError(t, err)
	assert.Equal(t, "falsy\n", out)
}

func TestBareNoneIsUndefinedNotNoneLiteral(t *testing.T) {
	_, err := run(t, "print(none)\n")
	require.Error(t, err)
}

func TestRunTestsTallyPassAndFail(t *testing.T) {
	toks, err := lexer.New([]byte(`test "ok" {
    assert 1 + 1 == 2
}
test "bad" {
    assert 1 == 2
}
`)).Scan()
	require.NoError(t, err)
	prog, err := parser.New(toks).Parse()
	require.NoError(t, err)

	r := NewResolver()
	r.Resolve(prog)
	buf := &bytes.Buffer{}
	in := NewInterpreter(buf)
	in.SetLocals(r.Locals())
	require.NoError(t, in.Run(prog))

	results := in.RunTests()
	require.Len(t, results, 2)
	assert.True(t, results[0].Passed)
	assert.False(t, results[1].Passed)
}
