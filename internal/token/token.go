// Package token enumerates the lexical tokens Pyrl's grammar requires and
// the Token value the lexer emits for each one.
package token

import "fmt"

// Kind is the tag of a lexical token.
type Kind int

const (
	EOF Kind = iota
	NEWLINE
	INDENT
	DEDENT

	IDENT    // bare identifier, e.g. len
	SCALAR   // $name
	ARRAYVAR // @name
	HASHVAR  // %name
	FUNCVAR  // &name

	INT
	FLOAT
	STRING    // '...' "..." """...""" '''...'''
	RAWSTRING // r"..."

	REGEX_MATCH // m/body/flags
	REGEX_SUBST // s/body/repl/flags
	REGEX_QR    // qr/body/flags

	// punctuation
	LPAREN
	RPAREN
	LBRACKET
	RBRACKET
	LBRACE
	RBRACE
	COMMA
	COLON
	SEMI
	DOT
	PIPE // |, lambda parameter delimiter

	// operators
	PLUS
	MINUS
	STAR
	SLASH
	DSLASH // //
	PERCENT
	POW  // **
	CARET // ^ (alternate power operator)
	ASSIGN
	EQ
	NEQ
	LT
	LE
	GT
	GE
	MATCH    // =~
	NOTMATCH // !~

	// keywords
	KW_IF
	KW_ELIF
	KW_ELSE
	KW_FOR
	KW_IN
	KW_WHILE
	KW_DEF
	KW_RETURN
	KW_CLASS
	KW_EXTENDS
	KW_METHOD
	KW_INIT
	KW_PROP
	KW_TEST
	KW_PRINT
	KW_ASSERT
	KW_AND
	KW_OR
	KW_NOT
	KW_TRUE
	KW_FALSE
	KW_NONE
)

var names = map[Kind]string{
	EOF: "EOF", NEWLINE: "NEWLINE", INDENT: "INDENT", DEDENT: "DEDENT",
	IDENT: "IDENT", SCALAR: "SCALAR", ARRAYVAR: "ARRAYVAR", HASHVAR: "HASHVAR", FUNCVAR: "FUNCVAR",
	INT: "INT", FLOAT: "FLOAT", STRING: "STRING", RAWSTRING: "RAWSTRING",
	REGEX_MATCH: "REGEX_MATCH", REGEX_SUBST: "REGEX_SUBST", REGEX_QR: "REGEX_QR",
	LPAREN: "(", RPAREN: ")", LBRACKET: "[", RBRACKET: "]", LBRACE: "{", RBRACE: "}",
	COMMA: ",", COLON: ":", SEMI: ";", DOT: ".", PIPE: "|",
	PLUS: "+", MINUS: "-", STAR: "*", SLASH: "/", DSLASH: "//", PERCENT: "%",
	POW: "**", CARET: "^", ASSIGN: "=", EQ: "==", NEQ: "!=",
	LT: "<", LE: "<=", GT: ">", GE: ">=", MATCH: "=~", NOTMATCH: "!~",
	KW_IF: "if", KW_ELIF: "elif", KW_ELSE: "else", KW_FOR: "for", KW_IN: "in",
	KW_WHILE: "while", KW_DEF: "def", KW_RETURN: "return", KW_CLASS: "class",
	KW_EXTENDS: "extends", KW_METHOD: "method", KW_INIT: "init", KW_PROP: "prop",
	KW_TEST: "test", KW_PRINT: "print", KW_ASSERT: "assert",
	KW_AND: "and", KW_OR: "or", KW_NOT: "not", KW_TRUE: "True", KW_FALSE: "False", KW_NONE: "None",
}

func (k Kind) String() string {
	if n, ok := names[k]; ok {
		return n
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Keywords maps a reserved word's source spelling to its Kind. Anything not
// in this table is lexed as IDENT.
var Keywords = map[string]Kind{
	"if": KW_IF, "elif": KW_ELIF, "else": KW_ELSE, "for": KW_FOR, "in": KW_IN,
	"while": KW_WHILE, "def": KW_DEF, "return": KW_RETURN, "class": KW_CLASS,
	"extends": KW_EXTENDS, "method": KW_METHOD, "init": KW_INIT, "prop": KW_PROP,
	"test": KW_TEST, "print": KW_PRINT, "assert": KW_ASSERT,
	"and": KW_AND, "or": KW_OR, "not": KW_NOT, "True": KW_TRUE, "False": KW_FALSE, "None": KW_NONE,
}

// Token is one lexical unit, carrying enough position information for
// error diagnostics to report a precise line and column.
type Token struct {
	Kind   Kind
	Lexeme string // raw source text matched
	Text   string // decoded/cooked value: the string's contents, the regex body, etc.
	Flags  string // regex flags, when Kind is one of the REGEX_* kinds
	Line   int
	Col    int
}

func (t Token) String() string {
	if t.Text != "" && t.Text != t.Lexeme {
		return fmt.Sprintf("%s %q (%q) [%d:%d]", t.Kind, t.Lexeme, t.Text, t.Line, t.Col)
	}
	return fmt.Sprintf("%s %q [%d:%d]", t.Kind, t.Lexeme, t.Line, t.Col)
}

// Sigil returns the single-character sigil for variable-reference kinds, or
// 0 if the kind carries no sigil.
func (k Kind) Sigil() byte {
	switch k {
	case SCALAR:
		return '$'
	case ARRAYVAR:
		return '@'
	case HASHVAR:
		return '%'
	case FUNCVAR:
		return '&'
	}
	return 0
}
