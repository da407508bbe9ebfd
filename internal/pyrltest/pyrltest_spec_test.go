// Package pyrltest exercises the language end to end through the public
// internal/vm embedding surface, as Ginkgo behavior specs rather than
// flat table tests: guarantees like "closures capture by reference" and
// "containers alias, scalars copy" read naturally as Describe/It specs
// and awkwardly as input/output tables.
package pyrltest_test

import (
	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/pyrl-lang/pyrl/internal/token"
	"github.com/pyrl-lang/pyrl/internal/vm"
)

var _ = Describe("running whole programs", func() {
	var v *vm.VM

	BeforeEach(func() {
		v = vm.New()
	})

	It("computes a recursive factorial", func() {
		res := v.Execute(`def factorial($n):
    if $n <= 1:
        return 1
    return $n * factorial($n - 1)
print(factorial(5))
`)
		Expect(res.Error).To(BeNil())
		Expect(res.OK).To(BeTrue())
		Expect(res.Stdout).To(Equal("120\n"))
	})

	It("round-trips a hash through insert and index", func() {
		res := v.Execute(`%u = {"name": "Alice", "age": 30}
%u["email"] = "a@x"
print(len(%u))
print(%u["email"])
`)
		Expect(res.Error).To(BeNil())
		Expect(res.Stdout).To(Equal("3\na@x\n"))
	})

	It("runs an anonymous block function with a while loop", func() {
		res := v.Execute(`&reverse_string($s) = {
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
		Expect(res.Error).To(BeNil())
		Expect(res.Stdout).To(Equal("olleh\n"))
	})

	It("drives a class through init and method calls", func() {
		res := v.Execute(`class Counter { prop count = 0 ;
  init() = { $count = 0 } ;
  method inc() = { $count = $count + 1 } ;
  method get() = { return $count } }
$c = Counter()
$c.inc(); $c.inc(); $c.inc()
print($c.get())
`)
		Expect(res.Error).To(BeNil())
		Expect(res.Stdout).To(Equal("3\n"))
	})

	It("keeps a built-in callable when a scalar takes its name", func() {
		res := v.Execute(`$len = 5
print(len("hi"))
print($len)
`)
		Expect(res.Error).To(BeNil())
		Expect(res.Stdout).To(Equal("2\n5\n"))
	})

	It("matches a Perl-style regex in an if condition", func() {
		res := v.Execute(`$t = "hello world"
if $t =~ m/world/ :
    print("yes")
`)
		Expect(res.Error).To(BeNil())
		Expect(res.Stdout).To(Equal("yes\n"))
	})
})

var _ = Describe("language guarantees", func() {
	var v *vm.VM

	BeforeEach(func() {
		v = vm.New()
	})

	It("tokenization reports each token's kind and value", func() {
		toks, err := v.Tokenize("$x = 1 + 2")
		Expect(err).NotTo(HaveOccurred())
		Expect(toks).To(HaveLen(6)) // SCALAR ASSIGN INT PLUS INT EOF
		Expect(toks[0].Kind).To(Equal(token.SCALAR.String()))
		Expect(toks[0].Value).To(Equal("x"))
		Expect(toks[2].Value).To(Equal("1"))
		Expect(toks[4].Value).To(Equal("2"))
	})

	It("balances INDENT and DEDENT tokens in a well-formed program", func() {
		toks, err := v.Tokenize("if $x:\n    if $x:\n        print($x)\n    print($x)\nprint($x)\n")
		Expect(err).NotTo(HaveOccurred())
		var indents, dedents int
		indentKind, dedentKind := token.INDENT.String(), token.DEDENT.String()
		for _, tk := range toks {
			switch tk.Kind {
			case indentKind:
				indents++
			case dedentKind:
				dedents++
			}
		}
		Expect(indents).To(Equal(dedents))
		Expect(indents).To(Equal(2))
	})

	It("produces identical output and variable snapshots for identical source against a fresh VM", func() {
		src := `$x = 2 + 3
@xs = [1, 2, $x]
print(@xs)
`
		first := vm.New()
		second := vm.New()
		r1 := first.Execute(src)
		r2 := second.Execute(src)
		Expect(r1.Error).To(BeNil())
		Expect(r1.Stdout).To(Equal(r2.Stdout))
		Expect(first.GetVariables()).To(Equal(second.GetVariables()))
	})

	It("isolates sigil namespaces: $len does not shadow built-in len", func() {
		res := v.Execute(`$len = 99
print(len("abcd"))
`)
		Expect(res.Error).To(BeNil())
		Expect(res.Stdout).To(Equal("4\n"))
	})

	It("lets a closure see mutations made after its creation", func() {
		res := v.Execute(`def make_counter():
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
		Expect(res.Error).To(BeNil())
		Expect(res.Stdout).To(Equal("1\n2\n3\n"))
	})

	It("aliases lists through shared bindings while scalars copy", func() {
		res := v.Execute(`@a = [1, 2]
@b = @a
append(@b, 3)
print(@a)

$x = 1
$y = $x
$y = 9
print($x)
`)
		Expect(res.Error).To(BeNil())
		Expect(res.Stdout).To(Equal("[1, 2, 3]\n1\n"))
	})

	It("shadows class defaults with instance fields and walks the parent chain for methods", func() {
		res := v.Execute(`class Animal { prop sound = "..." ;
  method speak() = { return $sound } }
class Dog extends Animal { prop sound = "woof" }
$d = Dog()
print($d.speak())
`)
		Expect(res.Error).To(BeNil())
		Expect(res.Stdout).To(Equal("woof\n"))
	})
})
