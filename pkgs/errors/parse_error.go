package errors

import (
	"fmt"

	"github.com/silk-lang/silk/pkgs/token"
)

// ParseErrorKind enumerates every way the parser can fail.
type ParseErrorKind int

const (
	UnexpectedToken ParseErrorKind = iota
	UnexpectedEOFParse
	InvalidSyntax
	InvalidExpression
	InvalidStatement
	IndentationErrorParse
	InvalidPattern
	NonDefaultParamAfterDefault
	PositionalAfterKeyword
	InvalidAssignmentTarget
	InvalidWalrusTarget
)

var parseKindNames = map[ParseErrorKind]string{
	UnexpectedToken:             "unexpected token",
	UnexpectedEOFParse:          "unexpected end of file",
	InvalidSyntax:               "invalid syntax",
	InvalidExpression:           "invalid expression",
	InvalidStatement:            "invalid statement",
	IndentationErrorParse:       "indentation error",
	InvalidPattern:              "invalid pattern",
	NonDefaultParamAfterDefault: "non-default argument follows default argument",
	PositionalAfterKeyword:      "positional argument follows keyword argument",
	InvalidAssignmentTarget:     "invalid assignment target",
	InvalidWalrusTarget:         "walrus target must be a plain identifier",
}

// ParseError is returned the first time the parser cannot continue;
// parsing aborts on the first error.
type ParseError struct {
	Kind     ParseErrorKind
	Span     token.Span
	Expected string // populated for UnexpectedToken
	Found    string // populated for UnexpectedToken
	Message  string
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case UnexpectedToken:
		return fmt.Sprintf("%s: expected %s, found %s", e.Span, e.Expected, e.Found)
	default:
		if e.Message != "" {
			return fmt.Sprintf("%s: %s", e.Span, e.Message)
		}
		return fmt.Sprintf("%s: %s", e.Span, parseKindNames[e.Kind])
	}
}

func NewParseError(kind ParseErrorKind, span token.Span, message string) *ParseError {
	return &ParseError{Kind: kind, Span: span, Message: message}
}

func NewUnexpectedToken(span token.Span, expected, found string) *ParseError {
	return &ParseError{Kind: UnexpectedToken, Span: span, Expected: expected, Found: found}
}
