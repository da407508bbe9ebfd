// The built-in dispatcher table. Each entry is an *object.BuiltIn
// registered into the global frame under its bare name, the same
// namespace def-declared functions and class names share.
//
// json_parse/json_stringify use github.com/json-iterator/go rather than
// encoding/json; the re_* family uses the standard library regexp
// package.
package interp

import (
	"fmt"
	"io"
	"math"
	"math/rand"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/pyrl-lang/pyrl/internal/ast"
	"github.com/pyrl-lang/pyrl/internal/object"
)

var rng = rand.New(rand.NewSource(time.Now().UnixNano()))

// Seed reseeds the shared `random`/`randint`/`choice`/`shuffle` source.
// Exposed so a host can force deterministic output (config.Limits.
// Deterministic) without going through the `seed` built-in from user
// source.
func Seed(n int64) { rng = rand.New(rand.NewSource(n)) }

func noPos() ast.Pos { return ast.Pos{} }

func badType(name string, v object.Value) error {
	return New(KindType, noPos(), "%s: unsupported argument type %s", name, v.Kind())
}

func def(env *object.Environment, name string, arity object.Arity, h object.Handler) {
	env.Define(name, &object.BuiltIn{Name: name, Arity: arity, Handler: h})
}

// RegisterBuiltins installs every mandated built-in into in's global
// frame.
func RegisterBuiltins(in *Interpreter) {
	g := in.Globals

	def(g, "print", object.Variadic(0), in.biPrint)
	def(g, "len", object.Fixed(1), biLen)
	def(g, "range", object.Range(1, 3), biRange)
	def(g, "int", object.Fixed(1), biInt)
	def(g, "float", object.Fixed(1), biFloat)
	def(g, "str", object.Fixed(1), biStr)
	def(g, "bool", object.Fixed(1), biBool)
	def(g, "list", object.Range(0, 1), biList)
	def(g, "dict", object.Range(0, 1), biDict)
	def(g, "type", object.Fixed(1), biType)

	def(g, "abs", object.Fixed(1), biAbs)
	def(g, "round", object.Range(1, 2), biRound)
	def(g, "min", object.Variadic(1), biMin)
	def(g, "max", object.Variadic(1), biMax)
	def(g, "sum", object.Range(1, 2), biSum)
	def(g, "pow", object.Fixed(2), biPow)
	def(g, "sqrt", object.Fixed(1), mathFn(math.Sqrt))
	def(g, "sin", object.Fixed(1), mathFn(math.Sin))
	def(g, "cos", object.Fixed(1), mathFn(math.Cos))
	def(g, "tan", object.Fixed(1), mathFn(math.Tan))
	def(g, "log", object.Fixed(1), mathFn(math.Log))
	def(g, "exp", object.Fixed(1), mathFn(math.Exp))
	def(g, "floor", object.Fixed(1), mathFn(math.Floor))
	def(g, "ceil", object.Fixed(1), mathFn(math.Ceil))

	def(g, "lower", object.Fixed(1), strFn(strings.ToLower))
	def(g, "upper", object.Fixed(1), strFn(strings.ToUpper))
	def(g, "strip", object.Fixed(1), strFn(strings.TrimSpace))
	def(g, "split", object.Range(1, 2), biSplit)
	def(g, "join", object.Fixed(2), biJoin)
	def(g, "replace", object.Fixed(3), biReplace)
	def(g, "find", object.Fixed(2), biFind)
	def(g, "startswith", object.Fixed(2), biStartsWith)
	def(g, "endswith", object.Fixed(2), biEndsWith)

	def(g, "append", object.Fixed(2), biAppend)
	def(g, "extend", object.Fixed(2), biExtend)
	def(g, "insert", object.Fixed(3), biInsert)
	def(g, "remove", object.Fixed(2), biRemove)
	def(g, "pop", object.Range(1, 2), biPop)
	def(g, "sort", object.Fixed(1), biSort)
	def(g, "sorted", object.Fixed(1), biSorted)
	def(g, "reverse", object.Fixed(1), biReverse)
	def(g, "reversed", object.Fixed(1), biReversed)

	def(g, "keys", object.Fixed(1), biKeys)
	def(g, "values", object.Fixed(1), biValues)
	def(g, "items", object.Fixed(1), biItems)
	def(g, "get", object.Range(2, 3), biGet)
	def(g, "setdefault", object.Fixed(3), biSetDefault)
	def(g, "update", object.Fixed(2), biUpdate)

	def(g, "enumerate", object.Fixed(1), biEnumerate)
	def(g, "zip", object.Variadic(1), biZip)
	def(g, "map", object.Fixed(2), in.biMap)
	def(g, "filter", object.Fixed(2), in.biFilter)
	def(g, "any", object.Fixed(1), biAny)
	def(g, "all", object.Fixed(1), biAll)

	def(g, "random", object.Fixed(0), biRandom)
	def(g, "randint", object.Fixed(2), biRandint)
	def(g, "choice", object.Fixed(1), biChoice)
	def(g, "shuffle", object.Fixed(1), biShuffle)
	def(g, "seed", object.Fixed(1), biSeed)

	def(g, "re_match", object.Fixed(2), biReMatch)
	def(g, "re_search", object.Fixed(2), biReSearch)
	def(g, "re_findall", object.Fixed(2), biReFindAll)
	def(g, "re_sub", object.Fixed(3), biReSub)
	def(g, "re_split", object.Fixed(2), biReSplit)

	def(g, "time", object.Fixed(0), biTime)
	def(g, "sleep", object.Fixed(1), biSleep)

	def(g, "json_parse", object.Fixed(1), biJSONParse)
	def(g, "json_stringify", object.Fixed(1), biJSONStringify)
}

// ---------------------------------------------------------------- core

// biPrint writes each argument's string form, space-separated, with a
// trailing newline.
func (in *Interpreter) biPrint(args []object.Value) (object.Value, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	fmt.Fprintln(in.out, strings.Join(parts, " "))
	return object.None, nil
}

func biLen(args []object.Value) (object.Value, error) {
	switch v := args[0].(type) {
	case object.Str:
		return object.Int(len([]rune(string(v)))), nil
	case *object.List:
		return object.Int(len(v.Elems)), nil
	case *object.Hash:
		return object.Int(v.Len()), nil
	default:
		return nil, badType("len", v)
	}
}

func biRange(args []object.Value) (object.Value, error) {
	ints := make([]int64, len(args))
	for i, a := range args {
		n, ok := a.(object.Int)
		if !ok {
			return nil, badType("range", a)
		}
		ints[i] = int64(n)
	}
	start, stop, step := int64(0), int64(0), int64(1)
	switch len(ints) {
	case 1:
		stop = ints[0]
	case 2:
		start, stop = ints[0], ints[1]
	case 3:
		start, stop, step = ints[0], ints[1], ints[2]
	}
	if step == 0 {
		return nil, New(KindType, noPos(), "range() step must not be zero")
	}
	var out []object.Value
	if step > 0 {
		for i := start; i < stop; i += step {
			out = append(out, object.Int(i))
		}
	} else {
		for i := start; i > stop; i += step {
			out = append(out, object.Int(i))
		}
	}
	return object.NewList(out...), nil
}

func biInt(args []object.Value) (object.Value, error) {
	switch v := args[0].(type) {
	case object.Int:
		return v, nil
	case object.Float:
		return object.Int(int64(v)), nil
	case object.Bool:
		if v {
			return object.Int(1), nil
		}
		return object.Int(0), nil
	case object.Str:
		// base 0 lets strconv detect 0x/0b/0o prefixes, so int("0x10")
		// accepts prefixed forms; a bare decimal string like "42" or "-7"
		// still parses the same way under base 0.
		s := strings.TrimSpace(string(v))
		n, err := strconv.ParseInt(s, 0, 64)
		if err != nil {
			return nil, New(KindType, noPos(), "invalid literal for int(): %q", string(v))
		}
		return object.Int(n), nil
	default:
		return nil, badType("int", v)
	}
}

func biFloat(args []object.Value) (object.Value, error) {
	switch v := args[0].(type) {
	case object.Float:
		return v, nil
	case object.Int:
		return object.Float(v), nil
	case object.Str:
		var f float64
		if _, err := fmt.Sscanf(strings.TrimSpace(string(v)), "%g", &f); err != nil {
			return nil, New(KindType, noPos(), "invalid literal for float(): %q", string(v))
		}
		return object.Float(f), nil
	default:
		return nil, badType("float", v)
	}
}

func biStr(args []object.Value) (object.Value, error) { return object.Str(args[0].String()), nil }

func biBool(args []object.Value) (object.Value, error) { return object.Bool(object.IsTruthy(args[0])), nil }

func biList(args []object.Value) (object.Value, error) {
	if len(args) == 0 {
		return object.NewList(), nil
	}
	vals, err := iterableValues(args[0], noPos())
	if err != nil {
		return nil, err
	}
	out := make([]object.Value, len(vals))
	copy(out, vals)
	return object.NewList(out...), nil
}

func biDict(args []object.Value) (object.Value, error) {
	if len(args) == 0 {
		return object.NewHash(), nil
	}
	src, ok := args[0].(*object.Hash)
	if !ok {
		return nil, badType("dict", args[0])
	}
	out := object.NewHash()
	for _, k := range src.Keys() {
		v, _ := src.Get(k)
		out.Set(k, v)
	}
	return out, nil
}

func biType(args []object.Value) (object.Value, error) { return object.Str(args[0].Kind().String()), nil }

// ---------------------------------------------------------------- numeric

func biAbs(args []object.Value) (object.Value, error) {
	switch v := args[0].(type) {
	case object.Int:
		if v < 0 {
			return -v, nil
		}
		return v, nil
	case object.Float:
		return object.Float(math.Abs(float64(v))), nil
	default:
		return nil, badType("abs", v)
	}
}

func biRound(args []object.Value) (object.Value, error) {
	f, ok := numToFloat(args[0])
	if !ok {
		return nil, badType("round", args[0])
	}
	ndigits := 0
	if len(args) == 2 {
		n, ok := args[1].(object.Int)
		if !ok {
			return nil, badType("round", args[1])
		}
		ndigits = int(n)
	}
	scale := math.Pow(10, float64(ndigits))
	rounded := math.Round(f*scale) / scale
	if ndigits <= 0 && len(args) < 2 {
		return object.Int(int64(rounded)), nil
	}
	return object.Float(rounded), nil
}

func biMin(args []object.Value) (object.Value, error) { return extremum(args, true) }
func biMax(args []object.Value) (object.Value, error) { return extremum(args, false) }

func extremum(args []object.Value, wantMin bool) (object.Value, error) {
	vals := args
	if len(args) == 1 {
		if l, ok := args[0].(*object.List); ok {
			if len(l.Elems) == 0 {
				return nil, New(KindType, noPos(), "min/max of an empty list")
			}
			vals = l.Elems
		}
	}
	best := vals[0]
	for _, v := range vals[1:] {
		r, err := orderCompare("<", v, best, noPos())
		if err != nil {
			return nil, err
		}
		less := bool(r.(object.Bool))
		if less == wantMin {
			best = v
		}
	}
	return best, nil
}

func biSum(args []object.Value) (object.Value, error) {
	l, ok := args[0].(*object.List)
	if !ok {
		return nil, badType("sum", args[0])
	}
	var acc object.Value = object.Int(0)
	if len(args) == 2 {
		acc = args[1]
	}
	for _, v := range l.Elems {
		r, err := binaryOp("+", acc, v, noPos())
		if err != nil {
			return nil, err
		}
		acc = r
	}
	return acc, nil
}

func biPow(args []object.Value) (object.Value, error) { return binaryOp("**", args[0], args[1], noPos()) }

func mathFn(f func(float64) float64) object.Handler {
	return func(args []object.Value) (object.Value, error) {
		v, ok := numToFloat(args[0])
		if !ok {
			return nil, badType("math function", args[0])
		}
		return object.Float(f(v)), nil
	}
}

// ---------------------------------------------------------------- strings

func strFn(f func(string) string) object.Handler {
	return func(args []object.Value) (object.Value, error) {
		s, ok := args[0].(object.Str)
		if !ok {
			return nil, badType("string function", args[0])
		}
		return object.Str(f(string(s))), nil
	}
}

func biSplit(args []object.Value) (object.Value, error) {
	s, ok := args[0].(object.Str)
	if !ok {
		return nil, badType("split", args[0])
	}
	sep := " "
	if len(args) == 2 {
		sv, ok := args[1].(object.Str)
		if !ok {
			return nil, badType("split", args[1])
		}
		sep = string(sv)
	}
	var parts []string
	if len(args) < 2 {
		parts = strings.Fields(string(s))
	} else {
		parts = strings.Split(string(s), sep)
	}
	out := make([]object.Value, len(parts))
	for i, p := range parts {
		out[i] = object.Str(p)
	}
	return object.NewList(out...), nil
}

func biJoin(args []object.Value) (object.Value, error) {
	sep, ok := args[0].(object.Str)
	if !ok {
		return nil, badType("join", args[0])
	}
	l, ok := args[1].(*object.List)
	if !ok {
		return nil, badType("join", args[1])
	}
	parts := make([]string, len(l.Elems))
	for i, e := range l.Elems {
		s, ok := e.(object.Str)
		if !ok {
			return nil, New(KindType, noPos(), "join(): element %d is not a string", i)
		}
		parts[i] = string(s)
	}
	return object.Str(strings.Join(parts, string(sep))), nil
}

func biReplace(args []object.Value) (object.Value, error) {
	s, ok1 := args[0].(object.Str)
	old, ok2 := args[1].(object.Str)
	new_, ok3 := args[2].(object.Str)
	if !ok1 || !ok2 || !ok3 {
		return nil, New(KindType, noPos(), "replace() expects three strings")
	}
	return object.Str(strings.ReplaceAll(string(s), string(old), string(new_))), nil
}

func biFind(args []object.Value) (object.Value, error) {
	s, ok1 := args[0].(object.Str)
	sub, ok2 := args[1].(object.Str)
	if !ok1 || !ok2 {
		return nil, New(KindType, noPos(), "find() expects two strings")
	}
	return object.Int(strings.Index(string(s), string(sub))), nil
}

func biStartsWith(args []object.Value) (object.Value, error) {
	s, ok1 := args[0].(object.Str)
	prefix, ok2 := args[1].(object.Str)
	if !ok1 || !ok2 {
		return nil, New(KindType, noPos(), "startswith() expects two strings")
	}
	return object.Bool(strings.HasPrefix(string(s), string(prefix))), nil
}

func biEndsWith(args []object.Value) (object.Value, error) {
	s, ok1 := args[0].(object.Str)
	suffix, ok2 := args[1].(object.Str)
	if !ok1 || !ok2 {
		return nil, New(KindType, noPos(), "endswith() expects two strings")
	}
	return object.Bool(strings.HasSuffix(string(s), string(suffix))), nil
}

// ---------------------------------------------------------------- lists

func asList(name string, v object.Value) (*object.List, error) {
	l, ok := v.(*object.List)
	if !ok {
		return nil, badType(name, v)
	}
	return l, nil
}

func biAppend(args []object.Value) (object.Value, error) {
	l, err := asList("append", args[0])
	if err != nil {
		return nil, err
	}
	l.Elems = append(l.Elems, args[1])
	return object.None, nil
}

func biExtend(args []object.Value) (object.Value, error) {
	l, err := asList("extend", args[0])
	if err != nil {
		return nil, err
	}
	other, err := asList("extend", args[1])
	if err != nil {
		return nil, err
	}
	l.Elems = append(l.Elems, other.Elems...)
	return object.None, nil
}

func biInsert(args []object.Value) (object.Value, error) {
	l, err := asList("insert", args[0])
	if err != nil {
		return nil, err
	}
	idxV, ok := args[1].(object.Int)
	if !ok {
		return nil, badType("insert", args[1])
	}
	idx := normalizeIndex(int(idxV), len(l.Elems))
	if idx < 0 {
		idx = 0
	}
	if idx > len(l.Elems) {
		idx = len(l.Elems)
	}
	l.Elems = append(l.Elems, nil)
	copy(l.Elems[idx+1:], l.Elems[idx:])
	l.Elems[idx] = args[2]
	return object.None, nil
}

func biRemove(args []object.Value) (object.Value, error) {
	l, err := asList("remove", args[0])
	if err != nil {
		return nil, err
	}
	for i, e := range l.Elems {
		if valuesEqual(e, args[1]) {
			l.Elems = append(l.Elems[:i], l.Elems[i+1:]...)
			return object.None, nil
		}
	}
	return nil, New(KindIndex, noPos(), "remove(): value not found in list")
}

func biPop(args []object.Value) (object.Value, error) {
	l, err := asList("pop", args[0])
	if err != nil {
		return nil, err
	}
	if len(l.Elems) == 0 {
		return nil, New(KindIndex, noPos(), "pop from empty list")
	}
	idx := len(l.Elems) - 1
	if len(args) == 2 {
		iv, ok := args[1].(object.Int)
		if !ok {
			return nil, badType("pop", args[1])
		}
		idx = normalizeIndex(int(iv), len(l.Elems))
	}
	if idx < 0 || idx >= len(l.Elems) {
		return nil, New(KindIndex, noPos(), "pop index out of range")
	}
	v := l.Elems[idx]
	l.Elems = append(l.Elems[:idx], l.Elems[idx+1:]...)
	return v, nil
}

func sortElems(elems []object.Value) error {
	var sortErr error
	sort.SliceStable(elems, func(i, j int) bool {
		if sortErr != nil {
			return false
		}
		r, err := orderCompare("<", elems[i], elems[j], noPos())
		if err != nil {
			sortErr = err
			return false
		}
		return bool(r.(object.Bool))
	})
	return sortErr
}

func biSort(args []object.Value) (object.Value, error) {
	l, err := asList("sort", args[0])
	if err != nil {
		return nil, err
	}
	if err := sortElems(l.Elems); err != nil {
		return nil, err
	}
	return object.None, nil
}

func biSorted(args []object.Value) (object.Value, error) {
	l, err := asList("sorted", args[0])
	if err != nil {
		return nil, err
	}
	out := make([]object.Value, len(l.Elems))
	copy(out, l.Elems)
	if err := sortElems(out); err != nil {
		return nil, err
	}
	return object.NewList(out...), nil
}

func biReverse(args []object.Value) (object.Value, error) {
	l, err := asList("reverse", args[0])
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(l.Elems)-1; i < j; i, j = i+1, j-1 {
		l.Elems[i], l.Elems[j] = l.Elems[j], l.Elems[i]
	}
	return object.None, nil
}

func biReversed(args []object.Value) (object.Value, error) {
	l, err := asList("reversed", args[0])
	if err != nil {
		return nil, err
	}
	out := make([]object.Value, len(l.Elems))
	for i, e := range l.Elems {
		out[len(l.Elems)-1-i] = e
	}
	return object.NewList(out...), nil
}

// ---------------------------------------------------------------- hashes

func asHash(name string, v object.Value) (*object.Hash, error) {
	h, ok := v.(*object.Hash)
	if !ok {
		return nil, badType(name, v)
	}
	return h, nil
}

func biKeys(args []object.Value) (object.Value, error) {
	h, err := asHash("keys", args[0])
	if err != nil {
		return nil, err
	}
	out := make([]object.Value, 0, h.Len())
	for _, k := range h.Keys() {
		out = append(out, object.Str(k))
	}
	return object.NewList(out...), nil
}

func biValues(args []object.Value) (object.Value, error) {
	h, err := asHash("values", args[0])
	if err != nil {
		return nil, err
	}
	out := make([]object.Value, 0, h.Len())
	for _, k := range h.Keys() {
		v, _ := h.Get(k)
		out = append(out, v)
	}
	return object.NewList(out...), nil
}

func biItems(args []object.Value) (object.Value, error) {
	h, err := asHash("items", args[0])
	if err != nil {
		return nil, err
	}
	out := make([]object.Value, 0, h.Len())
	for _, k := range h.Keys() {
		v, _ := h.Get(k)
		out = append(out, object.NewList(object.Str(k), v))
	}
	return object.NewList(out...), nil
}

func biGet(args []object.Value) (object.Value, error) {
	h, err := asHash("get", args[0])
	if err != nil {
		return nil, err
	}
	k, ok := args[1].(object.Str)
	if !ok {
		return nil, badType("get", args[1])
	}
	if v, ok := h.Get(string(k)); ok {
		return v, nil
	}
	if len(args) == 3 {
		return args[2], nil
	}
	return object.None, nil
}

func biSetDefault(args []object.Value) (object.Value, error) {
	h, err := asHash("setdefault", args[0])
	if err != nil {
		return nil, err
	}
	k, ok := args[1].(object.Str)
	if !ok {
		return nil, badType("setdefault", args[1])
	}
	if v, ok := h.Get(string(k)); ok {
		return v, nil
	}
	h.Set(string(k), args[2])
	return args[2], nil
}

func biUpdate(args []object.Value) (object.Value, error) {
	h, err := asHash("update", args[0])
	if err != nil {
		return nil, err
	}
	other, err := asHash("update", args[1])
	if err != nil {
		return nil, err
	}
	for _, k := range other.Keys() {
		v, _ := other.Get(k)
		h.Set(k, v)
	}
	return h, nil
}

// ---------------------------------------------------------------- higher-order

func biEnumerate(args []object.Value) (object.Value, error) {
	vals, err := iterableValues(args[0], noPos())
	if err != nil {
		return nil, err
	}
	out := make([]object.Value, len(vals))
	for i, v := range vals {
		out[i] = object.NewList(object.Int(i), v)
	}
	return object.NewList(out...), nil
}

func biZip(args []object.Value) (object.Value, error) {
	lists := make([][]object.Value, len(args))
	shortest := -1
	for i, a := range args {
		l, err := asList("zip", a)
		if err != nil {
			return nil, err
		}
		lists[i] = l.Elems
		if shortest == -1 || len(l.Elems) < shortest {
			shortest = len(l.Elems)
		}
	}
	out := make([]object.Value, 0, shortest)
	for i := 0; i < shortest; i++ {
		row := make([]object.Value, len(lists))
		for j := range lists {
			row[j] = lists[j][i]
		}
		out = append(out, object.NewList(row...))
	}
	return object.NewList(out...), nil
}

func (in *Interpreter) biMap(args []object.Value) (object.Value, error) {
	l, err := asList("map", args[1])
	if err != nil {
		return nil, err
	}
	out := make([]object.Value, len(l.Elems))
	for i, e := range l.Elems {
		v, err := in.Apply(args[0], []object.Value{e}, noPos())
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return object.NewList(out...), nil
}

func (in *Interpreter) biFilter(args []object.Value) (object.Value, error) {
	l, err := asList("filter", args[1])
	if err != nil {
		return nil, err
	}
	var out []object.Value
	for _, e := range l.Elems {
		v, err := in.Apply(args[0], []object.Value{e}, noPos())
		if err != nil {
			return nil, err
		}
		if object.IsTruthy(v) {
			out = append(out, e)
		}
	}
	return object.NewList(out...), nil
}

func biAny(args []object.Value) (object.Value, error) {
	l, err := asList("any", args[0])
	if err != nil {
		return nil, err
	}
	for _, e := range l.Elems {
		if object.IsTruthy(e) {
			return object.Bool(true), nil
		}
	}
	return object.Bool(false), nil
}

func biAll(args []object.Value) (object.Value, error) {
	l, err := asList("all", args[0])
	if err != nil {
		return nil, err
	}
	for _, e := range l.Elems {
		if !object.IsTruthy(e) {
			return object.Bool(false), nil
		}
	}
	return object.Bool(true), nil
}

// ---------------------------------------------------------------- random

func biRandom([]object.Value) (object.Value, error) { return object.Float(rng.Float64()), nil }

func biRandint(args []object.Value) (object.Value, error) {
	a, ok1 := args[0].(object.Int)
	b, ok2 := args[1].(object.Int)
	if !ok1 || !ok2 {
		return nil, New(KindType, noPos(), "randint() expects two integers")
	}
	if b < a {
		return nil, New(KindType, noPos(), "randint(): low must be <= high")
	}
	return object.Int(int64(a) + rng.Int63n(int64(b-a)+1)), nil
}

func biChoice(args []object.Value) (object.Value, error) {
	l, err := asList("choice", args[0])
	if err != nil {
		return nil, err
	}
	if len(l.Elems) == 0 {
		return nil, New(KindIndex, noPos(), "choice(): empty list")
	}
	return l.Elems[rng.Intn(len(l.Elems))], nil
}

func biShuffle(args []object.Value) (object.Value, error) {
	l, err := asList("shuffle", args[0])
	if err != nil {
		return nil, err
	}
	rng.Shuffle(len(l.Elems), func(i, j int) { l.Elems[i], l.Elems[j] = l.Elems[j], l.Elems[i] })
	return object.None, nil
}

func biSeed(args []object.Value) (object.Value, error) {
	n, ok := args[0].(object.Int)
	if !ok {
		return nil, badType("seed", args[0])
	}
	rng = rand.New(rand.NewSource(int64(n)))
	return object.None, nil
}

// ---------------------------------------------------------------- regex

func reArgs(name string, args []object.Value) (string, *regexp.Regexp, error) {
	s, ok := args[0].(object.Str)
	if !ok {
		return "", nil, New(KindType, noPos(), "%s(): first argument must be a string", name)
	}
	pat, ok := args[1].(object.Str)
	if !ok {
		return "", nil, New(KindType, noPos(), "%s(): second argument must be a string pattern", name)
	}
	re, err := regexp.Compile(string(pat))
	if err != nil {
		return "", nil, New(KindRegex, noPos(), "invalid pattern /%s/: %s", string(pat), err)
	}
	return string(s), re, nil
}

// matchDescriptor renders one submatch-index set as the truthy hash
// re_match/re_search return: {match, groups, start, end}.
func matchDescriptor(s string, loc []int) object.Value {
	h := object.NewHash()
	h.Set("match", object.Str(s[loc[0]:loc[1]]))
	groups := make([]object.Value, 0, len(loc)/2-1)
	for i := 2; i < len(loc); i += 2 {
		if loc[i] < 0 {
			groups = append(groups, object.None)
			continue
		}
		groups = append(groups, object.Str(s[loc[i]:loc[i+1]]))
	}
	h.Set("groups", object.NewList(groups...))
	h.Set("start", object.Int(loc[0]))
	h.Set("end", object.Int(loc[1]))
	return h
}

func biReMatch(args []object.Value) (object.Value, error) {
	s, re, err := reArgs("re_match", args)
	if err != nil {
		return nil, err
	}
	loc := re.FindStringSubmatchIndex(s)
	if loc == nil || loc[0] != 0 {
		return object.None, nil
	}
	return matchDescriptor(s, loc), nil
}

func biReSearch(args []object.Value) (object.Value, error) {
	s, re, err := reArgs("re_search", args)
	if err != nil {
		return nil, err
	}
	loc := re.FindStringSubmatchIndex(s)
	if loc == nil {
		return object.None, nil
	}
	return matchDescriptor(s, loc), nil
}

func biReFindAll(args []object.Value) (object.Value, error) {
	s, re, err := reArgs("re_findall", args)
	if err != nil {
		return nil, err
	}
	matches := re.FindAllString(s, -1)
	out := make([]object.Value, len(matches))
	for i, m := range matches {
		out[i] = object.Str(m)
	}
	return object.NewList(out...), nil
}

func biReSub(args []object.Value) (object.Value, error) {
	s, ok := args[0].(object.Str)
	if !ok {
		return nil, badType("re_sub", args[0])
	}
	pat, ok := args[1].(object.Str)
	if !ok {
		return nil, badType("re_sub", args[1])
	}
	repl, ok := args[2].(object.Str)
	if !ok {
		return nil, badType("re_sub", args[2])
	}
	re, err := regexp.Compile(string(pat))
	if err != nil {
		return nil, New(KindRegex, noPos(), "invalid pattern /%s/: %s", string(pat), err)
	}
	return object.Str(re.ReplaceAllString(string(s), string(repl))), nil
}

func biReSplit(args []object.Value) (object.Value, error) {
	s, re, err := reArgs("re_split", args)
	if err != nil {
		return nil, err
	}
	parts := re.Split(s, -1)
	out := make([]object.Value, len(parts))
	for i, p := range parts {
		out[i] = object.Str(p)
	}
	return object.NewList(out...), nil
}

// ---------------------------------------------------------------- time, json

func biTime([]object.Value) (object.Value, error) {
	return object.Float(float64(time.Now().UnixNano()) / 1e9), nil
}

func biSleep(args []object.Value) (object.Value, error) {
	secs, ok := numToFloat(args[0])
	if !ok {
		return nil, badType("sleep", args[0])
	}
	time.Sleep(time.Duration(secs * float64(time.Second)))
	return object.None, nil
}

func biJSONParse(args []object.Value) (object.Value, error) {
	s, ok := args[0].(object.Str)
	if !ok {
		return nil, badType("json_parse", args[0])
	}
	// Decoded through jsoniter's streaming Iterator rather than an
	// UnmarshalFromString into map[string]any, so object keys land in the
	// Hash in document order and repeated parses stay deterministic.
	iter := jsoniter.ParseString(jsoniter.ConfigCompatibleWithStandardLibrary, string(s))
	v := readJSONValue(iter)
	if iter.Error != nil && iter.Error != io.EOF {
		return nil, New(KindType, noPos(), "json_parse(): %s", iter.Error)
	}
	return v, nil
}

func readJSONValue(iter *jsoniter.Iterator) object.Value {
	switch iter.WhatIsNext() {
	case jsoniter.NilValue:
		iter.ReadNil()
		return object.None
	case jsoniter.BoolValue:
		return object.Bool(iter.ReadBool())
	case jsoniter.NumberValue:
		num := iter.ReadNumber()
		if n, err := num.Int64(); err == nil {
			return object.Int(n)
		}
		f, _ := num.Float64()
		return object.Float(f)
	case jsoniter.StringValue:
		return object.Str(iter.ReadString())
	case jsoniter.ArrayValue:
		l := object.NewList()
		iter.ReadArrayCB(func(it *jsoniter.Iterator) bool {
			l.Elems = append(l.Elems, readJSONValue(it))
			return true
		})
		return l
	case jsoniter.ObjectValue:
		h := object.NewHash()
		iter.ReadObjectCB(func(it *jsoniter.Iterator, field string) bool {
			h.Set(field, readJSONValue(it))
			return true
		})
		return h
	default:
		iter.Skip()
		return object.None
	}
}

func biJSONStringify(args []object.Value) (object.Value, error) {
	out, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalToString(toJSON(args[0]))
	if err != nil {
		return nil, New(KindType, noPos(), "json_stringify(): %s", err)
	}
	return object.Str(out), nil
}

func toJSON(v object.Value) any {
	switch x := v.(type) {
	case object.NoneType:
		return nil
	case object.Bool:
		return bool(x)
	case object.Int:
		return int64(x)
	case object.Float:
		return float64(x)
	case object.Str:
		return string(x)
	case *object.List:
		out := make([]any, len(x.Elems))
		for i, e := range x.Elems {
			out[i] = toJSON(e)
		}
		return out
	case *object.Hash:
		out := make(map[string]any, x.Len())
		for _, k := range x.Keys() {
			e, _ := x.Get(k)
			out[k] = toJSON(e)
		}
		return out
	default:
		return x.String()
	}
}
