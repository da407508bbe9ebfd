// Package object defines the Pyrl runtime value model and the
// lexically-scoped Environment: the Value interface, its Kind()/String()
// shape, and the IsTruthy helper.
package object

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Kind tags the variant of a Value.
type Kind int

const (
	KindInt Kind = iota
	KindFloat
	KindStr
	KindBool
	KindNone
	KindList
	KindHash
	KindFunction
	KindBuiltIn
	KindClass
	KindInstance
	KindRegex
)

var kindNames = map[Kind]string{
	KindInt: "int", KindFloat: "float", KindStr: "str", KindBool: "bool", KindNone: "none",
	KindList: "list", KindHash: "dict", KindFunction: "function", KindBuiltIn: "function",
	KindClass: "class", KindInstance: "instance", KindRegex: "regex",
}

func (k Kind) String() string { return kindNames[k] }

// Value is implemented by every Pyrl runtime value.
type Value interface {
	Kind() Kind
	String() string
}

// ---------------------------------------------------------------- scalars

type Int int64

func (Int) Kind() Kind { return KindInt }
func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }

type Float float64

func (Float) Kind() Kind { return KindFloat }
func (f Float) String() string { return strconv.FormatFloat(float64(f), 'g', -1, 64) }

type Str string

func (Str) Kind() Kind { return KindStr }
func (s Str) String() string { return string(s) }

type Bool bool

func (Bool) Kind() Kind { return KindBool }
func (b Bool) String() string { return strconv.FormatBool(bool(b)) }

type NoneType struct{}

func (NoneType) Kind() Kind { return KindNone }
func (NoneType) String() string { return "None" }

// None is the single shared None value.
var None = NoneType{}

// ---------------------------------------------------------------- containers

// List is a reference type: two names can alias the same backing slice
// via the same *List pointer.
type List struct {
	Elems []Value
}

func NewList(elems ...Value) *List { return &List{Elems: elems} }

func (*List) Kind() Kind { return KindList }
func (l *List) String() string {
	parts := make([]string, len(l.Elems))
	for i, e := range l.Elems {
		parts[i] = reprOf(e)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Hash is an insertion-ordered mapping from string key to Value, and a
// reference type like List.
type Hash struct {
	keys   []string
	values map[string]Value
}

func NewHash() *Hash {
	return &Hash{values: make(map[string]Value)}
}

func (*Hash) Kind() Kind { return KindHash }

func (h *Hash) String() string {
	parts := make([]string, 0, len(h.keys))
	for _, k := range h.keys {
		parts = append(parts, fmt.Sprintf("%q: %s", k, reprOf(h.values[k])))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (h *Hash) Get(key string) (Value, bool) {
	v, ok := h.values[key]
	return v, ok
}

func (h *Hash) Set(key string, v Value) {
	if _, exists := h.values[key]; !exists {
		h.keys = append(h.keys, key)
	}
	h.values[key] = v
}

func (h *Hash) Delete(key string) {
	if _, exists := h.values[key]; !exists {
		return
	}
	delete(h.values, key)
	for i, k := range h.keys {
		if k == key {
			h.keys = append(h.keys[:i], h.keys[i+1:]...)
			break
		}
	}
}

func (h *Hash) Len() int { return len(h.keys) }

// Keys returns the keys in insertion order.
func (h *Hash) Keys() []string {
	out := make([]string, len(h.keys))
	copy(out, h.keys)
	return out
}

// reprOf renders a value the way it should look nested inside a list/hash
// literal's own String(), i.e. strings get quoted.
func reprOf(v Value) string {
	if s, ok := v.(Str); ok {
		return fmt.Sprintf("%q", string(s))
	}
	return v.String()
}

// ---------------------------------------------------------------- regex

// Regex is a compiled pattern plus its original flags. The `g` (global)
// flag is tracked separately since Go's regexp package has no notion of
// it; callers branch on Global themselves.
type Regex struct {
	Source   string
	Flags    string
	Compiled *regexp.Regexp
	Global   bool
}

func (*Regex) Kind() Kind { return KindRegex }
func (r *Regex) String() string { return fmt.Sprintf("/%s/%s", r.Source, r.Flags) }

// IsTruthy implements Pyrl's truthiness table: None, False, 0/0.0, "",
// [], {} are falsy; everything else is truthy.
func IsTruthy(v Value) bool {
	switch x := v.(type) {
	case NoneType:
		return false
	case Bool:
		return bool(x)
	case Int:
		return x != 0
	case Float:
		return x != 0
	case Str:
		return x != ""
	case *List:
		return len(x.Elems) > 0
	case *Hash:
		return x.Len() > 0
	default:
		return true
	}
}
