package lexer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/silk-lang/silk/pkgs/token"
)

func kinds(t *testing.T, source string) []token.Kind {
	t.Helper()
	tokens, err := Tokenize(source)
	if err != nil {
		t.Fatalf("Tokenize(%q) returned error: %v", source, err)
	}
	out := make([]token.Kind, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Kind
	}
	return out
}

func TestTokenizeSimpleAssignment(t *testing.T) {
	got := kinds(t, "x = 1\n")
	want := []token.Kind{token.IDENT, token.ASSIGN, token.INT, token.NEWLINE, token.EOF}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Tokenize mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizeIndentDedent(t *testing.T) {
	src := "if x:\n    y = 1\n    z = 2\nw = 3\n"
	got := kinds(t, src)
	want := []token.Kind{
		token.IF, token.IDENT, token.COLON, token.NEWLINE,
		token.INDENT,
		token.IDENT, token.ASSIGN, token.INT, token.NEWLINE,
		token.IDENT, token.ASSIGN, token.INT, token.NEWLINE,
		token.DEDENT,
		token.IDENT, token.ASSIGN, token.INT, token.NEWLINE,
		token.EOF,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Tokenize mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizeNestedIndentDedentTwice(t *testing.T) {
	src := "if a:\n    if b:\n        c\nd\n"
	got := kinds(t, src)
	want := []token.Kind{
		token.IF, token.IDENT, token.COLON, token.NEWLINE,
		token.INDENT,
		token.IF, token.IDENT, token.COLON, token.NEWLINE,
		token.INDENT,
		token.IDENT, token.NEWLINE,
		token.DEDENT, token.DEDENT,
		token.IDENT, token.NEWLINE,
		token.EOF,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Tokenize mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizeMismatchedDedentIsError(t *testing.T) {
	src := "if a:\n    if b:\n        c\n   d\n"
	_, err := Tokenize(src)
	if err == nil {
		t.Fatalf("expected an IndentationError, got none")
	}
}

func TestTokenizeBracketsSuppressNewline(t *testing.T) {
	src := "x = (1 +\n     2)\n"
	got := kinds(t, src)
	want := []token.Kind{
		token.IDENT, token.ASSIGN, token.LPAREN, token.INT, token.PLUS, token.INT, token.RPAREN,
		token.NEWLINE, token.EOF,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Tokenize mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizeNumberForms(t *testing.T) {
	tests := []struct {
		src  string
		kind token.Kind
		lit  string
	}{
		{"1_000_000", token.INT, "1000000"},
		{"0b1010", token.INT, "0b1010"},
		{"0o17", token.INT, "0o17"},
		{"0xFF", token.INT, "0xFF"},
		{"3.14", token.FLOAT, "3.14"},
		{"1e10", token.FLOAT, "1e10"},
		{"1.5e-3", token.FLOAT, "1.5e-3"},
	}
	for _, tt := range tests {
		tokens, err := Tokenize(tt.src)
		if err != nil {
			t.Fatalf("Tokenize(%q) error: %v", tt.src, err)
		}
		if tokens[0].Kind != tt.kind || tokens[0].Literal != tt.lit {
			t.Errorf("Tokenize(%q) = %s(%q), want %s(%q)", tt.src, tokens[0].Kind, tokens[0].Literal, tt.kind, tt.lit)
		}
	}
}

func TestTokenizeIntOverflow(t *testing.T) {
	_, err := Tokenize("99999999999999999999999999\n")
	if err == nil {
		t.Fatalf("expected an overflow error")
	}
}

func TestTokenizeStringFlavors(t *testing.T) {
	tokens, err := Tokenize(`"a\nb"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tokens[0].Kind != token.STRING || tokens[0].Literal != "a\nb" {
		t.Errorf("got %v, want STRING(a\\nb)", tokens[0])
	}

	tokens, err = Tokenize(`r"a\nb"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tokens[0].Kind != token.RAWSTRING || tokens[0].Literal != `a\nb` {
		t.Errorf("got %v, want RAWSTRING(a\\nb) literal", tokens[0])
	}

	tokens, err = Tokenize(`b"abc"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tokens[0].Kind != token.BYTESTRING || tokens[0].Literal != "abc" {
		t.Errorf("got %v, want BYTESTRING(abc)", tokens[0])
	}
}

func TestTokenizeByteStringRejectsNonASCII(t *testing.T) {
	_, err := Tokenize(`b"café"`)
	if err == nil {
		t.Fatalf("expected a non-ASCII byte string error")
	}
}

func TestTokenizeFString(t *testing.T) {
	tokens, err := Tokenize(`f"hi {name!r:>10}, {{literal}}"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tokens[0].Kind != token.FSTRING_START {
		t.Fatalf("got %v, want FSTRING_START", tokens[0])
	}
	parts := tokens[0].FStringParts
	if len(parts) != 3 {
		t.Fatalf("got %d parts, want 3: %+v", len(parts), parts)
	}
	if diff := cmp.Diff("hi ", parts[0].Text, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("part 0 mismatch (-want +got):\n%s", diff)
	}
	if !parts[1].IsExpr || parts[1].Code != "name!r" {
		t.Errorf("part 1 = %+v, want expr hole `name!r`", parts[1])
	}
	if parts[1].FormatSpec != ">10" {
		t.Errorf("format spec = %q, want %q", parts[1].FormatSpec, ">10")
	}
}

func TestTokenizeTripleQuotedString(t *testing.T) {
	tokens, err := Tokenize("\"\"\"line1\nline2\"\"\"")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tokens[0].Literal != "line1\nline2" {
		t.Errorf("got %q, want %q", tokens[0].Literal, "line1\nline2")
	}
}

func TestTokenizeUnterminatedStringIsError(t *testing.T) {
	_, err := Tokenize(`"no closing quote`)
	if err == nil {
		t.Fatalf("expected an unterminated-string error")
	}
}

func TestTokenizeOperators(t *testing.T) {
	got := kinds(t, "a ** b // c <<= d\n")
	want := []token.Kind{
		token.IDENT, token.DSTAR, token.IDENT, token.DSLASH, token.IDENT,
		token.LSHIFT_ASSIGN, token.IDENT, token.NEWLINE, token.EOF,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Tokenize mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizeKeywordsAreCaseSensitive(t *testing.T) {
	got := kinds(t, "If x:\n    pass\n")
	if got[0] != token.IDENT {
		t.Errorf("got %v for 'If', want IDENT (keywords are case-sensitive)", got[0])
	}
}

func TestTokenizeEmptySource(t *testing.T) {
	got := kinds(t, "")
	want := []token.Kind{token.EOF}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Tokenize mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizeNoTrailingNewlineSynthesizesOne(t *testing.T) {
	got := kinds(t, "x = 1")
	want := []token.Kind{token.IDENT, token.ASSIGN, token.INT, token.NEWLINE, token.EOF}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Tokenize mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizeBlankAndCommentOnlyLines(t *testing.T) {
	got := kinds(t, "\n# just a comment\n\nx = 1\n")
	want := []token.Kind{
		token.NEWLINE, token.NEWLINE, token.NEWLINE,
		token.IDENT, token.ASSIGN, token.INT, token.NEWLINE,
		token.EOF,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Tokenize mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizeCarriageReturnNewlines(t *testing.T) {
	got := kinds(t, "x = 1\r\ny = 2\r\n")
	want := []token.Kind{
		token.IDENT, token.ASSIGN, token.INT, token.NEWLINE,
		token.IDENT, token.ASSIGN, token.INT, token.NEWLINE,
		token.EOF,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Tokenize mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizeUnderscoreMustSeparateDigits(t *testing.T) {
	for _, src := range []string{"1_\n", "1__2\n", "1_.5\n", "0x_\n"} {
		if _, err := Tokenize(src); err == nil {
			t.Errorf("Tokenize(%q): expected an invalid-number error, got none", src)
		}
	}
}

func TestTokenizeLoneBangIsError(t *testing.T) {
	if _, err := Tokenize("a ! b\n"); err == nil {
		t.Fatalf("expected an unexpected-character error for lone '!'")
	}
}
