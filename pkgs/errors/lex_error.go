// Package errors defines the closed diagnostic taxonomies for every
// stage of the pipeline: LexError and ParseError (both abort-on-first,
// returned as plain Go errors), and Diagnostic (semantic stage,
// accumulated). Each taxonomy gets its own Go type — a kind tag plus
// the structured context fields that kind carries — rather than one
// generic error with a string discriminator.
package errors

import (
	"fmt"

	"github.com/silk-lang/silk/pkgs/token"
)

// LexErrorKind enumerates every way the lexer can fail.
type LexErrorKind int

const (
	UnexpectedCharacter LexErrorKind = iota
	UnterminatedString
	InvalidNumber
	IndentationError
	InvalidEscape
	InvalidUnicodeEscape
	UnexpectedEOF
	NonASCIIByteString
	InconsistentIndentation
)

var lexKindNames = map[LexErrorKind]string{
	UnexpectedCharacter:     "unexpected character",
	UnterminatedString:      "unterminated string",
	InvalidNumber:           "invalid number literal",
	IndentationError:        "indentation error",
	InvalidEscape:           "invalid escape sequence",
	InvalidUnicodeEscape:    "invalid unicode escape",
	UnexpectedEOF:           "unexpected end of file",
	NonASCIIByteString:      "non-ASCII byte in byte string literal",
	InconsistentIndentation: "inconsistent use of tabs and spaces in indentation",
}

// LexError is returned by the lexer the first time it cannot produce a
// valid token; lexing aborts on the first error (spec: lex/parse stages
// short-circuit immediately).
type LexError struct {
	Kind    LexErrorKind
	Span    token.Span
	Detail  string // free-form extra context, e.g. the offending character
	Message string // pre-rendered human message
}

func (e *LexError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Span, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Span, lexKindNames[e.Kind], e.Detail)
}

func NewLexError(kind LexErrorKind, span token.Span, detail string) *LexError {
	return &LexError{Kind: kind, Span: span, Detail: detail}
}
