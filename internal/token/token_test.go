package token

import "testing"

func TestKindSigil(t *testing.T) {
	cases := []struct {
		kind Kind
		want byte
	}{
		{SCALAR, '$'},
		{ARRAYVAR, '@'},
		{HASHVAR, '%'},
		{FUNCVAR, '&'},
		{IDENT, 0},
		{EOF, 0},
	}
	for _, c := range cases {
		if got := c.kind.Sigil(); got != c.want {
			t.Errorf("%s.Sigil() = %q, want %q", c.kind, got, c.want)
		}
	}
}

func TestKeywordsCoverGrammarWords(t *testing.T) {
	for _, word := range []string{"if", "elif", "else", "for", "in", "while", "def",
		"return", "class", "extends", "method", "init", "prop", "test", "print",
		"assert", "and", "or", "not", "True", "False", "None"} {
		if _, ok := Keywords[word]; !ok {
			t.Errorf("Keywords missing %q", word)
		}
	}
	if _, ok := Keywords["len"]; ok {
		t.Error("Keywords should not claim built-in names as reserved words")
	}
}

func TestKindStringUnknown(t *testing.T) {
	var k Kind = 9999
	if got := k.String(); got != "Kind(9999)" {
		t.Errorf("String() = %q, want Kind(9999)", got)
	}
}
