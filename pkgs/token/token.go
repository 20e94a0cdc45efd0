package token

import "fmt"

// Token is one lexical unit produced by the lexer. Literal carries the
// raw or processed text appropriate to Kind: for STRING/RAWSTRING it is
// the fully-unescaped value, for BYTESTRING it is the decoded byte
// sequence rendered back as a string, for INT/FLOAT it is the digit text
// with `_` separators dropped and any exponent marker written as a
// lower-case `e` (parsing to a number is the parser/analyzer's job), and for
// IDENT/keywords it is the identifier or keyword spelling.
type Token struct {
	Kind    Kind
	Literal string
	Span    Span

	// FStringParts is non-nil only for FSTRING_START tokens; the lexer
	// scans the whole f-string (including nested `{expr}` segments,
	// which it does not itself parse) in one pass and attaches the
	// ordered parts here.
	FStringParts []FStringPart
}

// FStringPart is one ordered segment of an f-string literal: either a
// literal text run or a `{code}` / `{code:format_spec}` expression hole.
// The code inside an expression part is NOT tokenized by the lexer; the
// parser re-enters tokenize+parse on that substring when it builds the
// AST, mirroring how the source span of the hole is recorded here.
type FStringPart struct {
	IsExpr     bool
	Text       string // set when !IsExpr
	Code       string // set when IsExpr
	FormatSpec string // set when IsExpr and a ':' format spec follows
	Span       Span
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%s", t.Kind, t.Literal, t.Span)
}
