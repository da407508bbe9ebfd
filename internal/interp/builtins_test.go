package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBuiltinsTable exercises the built-in table end to end through full
// Pyrl programs, one built-in family per case, rather than calling the
// bi* handlers directly.
func TestBuiltinsTable(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"len string", `print(len("hello"))`, "5\n"},
		{"len list", `print(len([1, 2, 3]))`, "3\n"},
		{"range two-arg", "for $i in range(2, 5):\n    print($i)\n", "2\n3\n4\n"},
		{"range negative step", "for $i in range(5, 0, -2):\n    print($i)\n", "5\n3\n1\n"},
		{"int from hex string", `print(int("0x10"))`, "16\n"},
		{"float coercion", `print(float("3.5"))`, "3.5\n"},
		{"str coercion", `print(str(42))`, "42\n"},
		{"bool truthiness", `print(bool(0))
print(bool("x"))`, "false\ntrue\n"},
		{"type tags", `print(type(1))
print(type(1.5))
print(type("s"))
print(type(True))
print(type(None))
print(type([1]))
print(type({"a": 1}))`, "int\nfloat\nstr\nbool\nnone\nlist\ndict\n"},
		{"abs", `print(abs(-3))`, "3\n"},
		{"round", `print(round(3.456, 2))`, "3.46\n"},
		{"min max", `print(min(3, 1, 2))
print(max(3, 1, 2))`, "1\n3\n"},
		{"sum", `print(sum([1, 2, 3]))`, "6\n"},
		{"pow sqrt", `print(pow(2, 10))
print(sqrt(9.0))`, "1024\n3\n"},
		{"string case", `print(lower("HI"))
print(upper("hi"))`, "hi\nHI\n"},
		{"strip", `print(strip("  hi  "))`, "hi\n"},
		{"split join", `print(join(",", split("a,b,c", ",")))`, "a,b,c\n"},
		{"replace", `print(replace("foo bar foo", "foo", "baz"))`, "baz bar baz\n"},
		{"find", `print(find("hello", "ll"))`, "2\n"},
		{"startswith endswith", `print(startswith("hello", "he"))
print(endswith("hello", "lo"))`, "true\ntrue\n"},
		{"append extend insert remove pop", `@xs = [1, 2]
append(@xs, 3)
extend(@xs, [4, 5])
insert(@xs, 0, 0)
remove(@xs, 2)
print(@xs)
print(pop(@xs))`, "[0, 1, 3, 4]\n5\n"},
		{"mutating ops return None", `@xs = [2, 1]
print(append(@xs, 3))
print(sort(@xs))
print(@xs)`, "None\nNone\n[1, 2, 3]\n"},
		{"sort reverse", `@xs = [3, 1, 2]
sort(@xs)
print(@xs)
reverse(@xs)
print(@xs)`, "[1, 2, 3]\n[3, 2, 1]\n"},
		{"sorted reversed non-mutating", `@xs = [3, 1, 2]
print(sorted(@xs))
print(@xs)
print(reversed(@xs))
print(@xs)`, "[1, 2, 3]\n[3, 1, 2]\n[2, 1, 3]\n[3, 1, 2]\n"},
		{"keys values items", `%h = {"a": 1, "b": 2}
print(keys(%h))
print(values(%h))
print(items(%h))`, "[\"a\", \"b\"]\n[1, 2]\n[[\"a\", 1], [\"b\", 2]]\n"},
		{"get setdefault update", `%h = {"a": 1}
print(get(%h, "a", 0))
print(get(%h, "z", 99))
setdefault(%h, "b", 2)
update(%h, {"c": 3})
print(%h)`, "1\n99\n{\"a\": 1, \"b\": 2, \"c\": 3}\n"},
		{"enumerate zip", `for $pair in enumerate(["x", "y"]):
    print($pair)
print(zip([1, 2], ["a", "b"]))`, "[0, \"x\"]\n[1, \"y\"]\n[[1, \"a\"], [2, \"b\"]]\n"},
		{"any all", `print(any([False, False, True]))
print(all([True, True, False]))`, "true\nfalse\n"},
		{"re_match descriptor", `%m = re_match("hello", "h(e)l")
print(%m["match"])
print(%m["groups"])
print(%m["start"], %m["end"])`, "hel\n[\"e\"]\n0 3\n"},
		{"re_match miss is None", `print(re_match("hello", "^x"))`, "None\n"},
		{"re_search finds anywhere", `%m = re_search("hello world", "wor")
print(%m["start"])`, "6\n"},
		{"re_sub re_split re_findall", `print(re_sub("hello", "l", "L"))
print(re_split("a,b,c", ","))
print(re_findall("a1b2", "[0-9]"))`, "heLLo\n[\"a\", \"b\", \"c\"]\n[\"1\", \"2\"]\n"},
		{"json round trip", `$s = json_stringify([1, "two", 3.0])
print($s)
@xs = json_parse($s)
print(len(@xs))`, "[1,\"two\",3]\n3\n"},
		{"json_parse keeps object key order", `%h = json_parse("{\"b\": 1, \"a\": 2}")
print(keys(%h))`, "[\"b\", \"a\"]\n"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			out, err := run(t, c.src)
			require.NoError(t, err)
			assert.Equal(t, c.want, out)
		})
	}
}

func TestRangeStepZeroIsError(t *testing.T) {
	_, err := run(t, "for $i in range(0, 5, 0):\n    print($i)\n")
	require.Error(t, err)
}

func TestMapFilterHigherOrderBuiltins(t *testing.T) {
	out, err := run(t, `def double($x):
    return $x * 2
def is_even($x):
    return $x % 2 == 0
print(map(&double, [1, 2, 3]))
print(filter(&is_even, [1, 2, 3, 4]))
`)
	require.NoError(t, err)
	assert.Equal(t, "[2, 4, 6]\n[2, 4]\n", out)
}
