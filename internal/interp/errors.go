// Errors are built on github.com/samber/oops so that every stage of the
// pipeline — lexer, parser, evaluator — reports its error kind as
// structured fields (kind, line, column) rather than a string the host
// has to parse back apart.
package interp

import (
	"fmt"

	"github.com/samber/oops"

	"github.com/pyrl-lang/pyrl/internal/ast"
)

// Kind is one of the closed set of diagnostic kinds named across the
// three pipeline stages.
type Kind string

const (
	KindLex          Kind = "LexError"
	KindParse        Kind = "ParseError"
	KindName         Kind = "NameError"
	KindType         Kind = "TypeError"
	KindIndex        Kind = "IndexError"
	KindKey          Kind = "KeyError"
	KindZeroDivision Kind = "ZeroDivisionError"
	KindRegex        Kind = "RegexError"
	KindAssertion    Kind = "AssertionError"
)

// New builds a structured diagnostic carrying kind and source position,
// the shape every runtime error message includes.
func New(kind Kind, pos ast.Pos, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	return oops.
		Code(string(kind)).
		With("line", pos.Line).
		With("col", pos.Col).
		Errorf("%s: %s", kind, msg)
}

// Wrap attaches kind/position to an error produced by a lower layer (the
// lexer's *lexer.Error, for instance) without discarding its message.
func Wrap(kind Kind, pos ast.Pos, err error) error {
	return oops.
		Code(string(kind)).
		With("line", pos.Line).
		With("col", pos.Col).
		Wrapf(err, "%s", kind)
}

// Undefined builds the "Undefined variable" diagnostic, including the
// sigil as written at the access site.
func Undefined(pos ast.Pos, asWritten string) error {
	return New(KindName, pos, "Undefined variable: %s", asWritten)
}

// BadIndex builds the "Cannot access index" diagnostic.
func BadIndex(pos ast.Pos, key, typeName string) error {
	return New(KindIndex, pos, "Cannot access index '%s' on %s", key, typeName)
}

// ErrorKind reports the structured kind code recorded against err, or ""
// if err was not produced by this package.
func ErrorKind(err error) Kind {
	if err == nil {
		return ""
	}
	if oe, ok := oops.AsOops(err); ok {
		if code, ok := oe.Code().(string); ok {
			return Kind(code)
		}
	}
	return ""
}

// Position extracts the line/column recorded against err, or (0, 0) if
// absent.
func Position(err error) (line, col int) {
	if err == nil {
		return 0, 0
	}
	oe, ok := oops.AsOops(err)
	if !ok {
		return 0, 0
	}
	ctx := oe.Context()
	if v, ok := ctx["line"].(int); ok {
		line = v
	}
	if v, ok := ctx["col"].(int); ok {
		col = v
	}
	return line, col
}
