package errors

import (
	"fmt"

	"github.com/silk-lang/silk/pkgs/token"
)

// DiagnosticKind enumerates every semantic-analysis finding. Unlike
// LexError/ParseError, diagnostics accumulate across one analysis run
// rather than aborting the pass that found them.
type DiagnosticKind int

const (
	UndefinedName DiagnosticKind = iota
	RedefinedSymbol
	ReturnOutsideFunction
	BreakOutsideLoop
	ContinueOutsideLoop
	IncompatibleTypes
	WrongArgumentCount
	WrongArgumentType
	UnusedVariable
	UnusedFunction
	UnreachableCode
	UseBeforeInitialization
	MissingReturnOnPath
	NotIndexable
	NotCallable
	InvalidAnnotation
	GlobalOutsideFunction
	NonlocalOutsideFunction
	NonlocalAtModuleScope
)

var diagnosticKindNames = map[DiagnosticKind]string{
	UndefinedName:           "undefined name",
	RedefinedSymbol:         "redefined symbol",
	ReturnOutsideFunction:   "'return' outside function",
	BreakOutsideLoop:        "'break' outside loop",
	ContinueOutsideLoop:     "'continue' outside loop",
	IncompatibleTypes:       "incompatible types",
	WrongArgumentCount:      "wrong number of arguments",
	WrongArgumentType:       "wrong argument type",
	UnusedVariable:          "unused variable",
	UnusedFunction:          "unused function",
	UnreachableCode:         "unreachable code",
	UseBeforeInitialization: "use of possibly uninitialized variable",
	MissingReturnOnPath:     "missing return on some code path",
	NotIndexable:            "value is not indexable",
	NotCallable:             "value is not callable",
	InvalidAnnotation:       "invalid type annotation",
	GlobalOutsideFunction:   "'global' outside function",
	NonlocalOutsideFunction: "'nonlocal' outside function",
	NonlocalAtModuleScope:   "'nonlocal' at module scope binds nothing",
}

// Severity distinguishes hard errors (analysis cannot be trusted to be
// complete, e.g. undefined name) from advisory findings (unused
// variable) that do not imply the rest of the analysis is unreliable.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

// Diagnostic is one finding produced during semantic analysis. Name,
// Expected, Found, Message are free-form payload fields populated
// according to Kind; not every field is meaningful for every kind, the
// same way the original taxonomy's per-variant payloads differ.
type Diagnostic struct {
	Kind     DiagnosticKind
	Severity Severity
	Span     token.Span
	Name     string
	Expected string
	Found    string
	Message  string
}

func (d Diagnostic) String() string {
	if d.Message != "" {
		return fmt.Sprintf("%s: %s", d.Span, d.Message)
	}
	base := diagnosticKindNames[d.Kind]
	if d.Name != "" {
		return fmt.Sprintf("%s: %s: %s", d.Span, base, d.Name)
	}
	return fmt.Sprintf("%s: %s", d.Span, base)
}

func newDiag(kind DiagnosticKind, sev Severity, span token.Span, name, message string) Diagnostic {
	return Diagnostic{Kind: kind, Severity: sev, Span: span, Name: name, Message: message}
}

func NewUndefinedName(span token.Span, name string) Diagnostic {
	return newDiag(UndefinedName, SeverityError, span, name, "")
}

func NewRedefinedSymbol(span token.Span, name string) Diagnostic {
	return newDiag(RedefinedSymbol, SeverityError, span, name, "")
}

func NewReturnOutsideFunction(span token.Span) Diagnostic {
	return newDiag(ReturnOutsideFunction, SeverityError, span, "", "")
}

func NewBreakOutsideLoop(span token.Span) Diagnostic {
	return newDiag(BreakOutsideLoop, SeverityError, span, "", "")
}

func NewContinueOutsideLoop(span token.Span) Diagnostic {
	return newDiag(ContinueOutsideLoop, SeverityError, span, "", "")
}

func NewIncompatibleTypes(span token.Span, expected, found string) Diagnostic {
	d := newDiag(IncompatibleTypes, SeverityError, span, "", "")
	d.Expected, d.Found = expected, found
	return d
}

func NewWrongArgumentCount(span token.Span, expected, found string) Diagnostic {
	d := newDiag(WrongArgumentCount, SeverityError, span, "", "")
	d.Expected, d.Found = expected, found
	return d
}

func NewWrongArgumentType(span token.Span, expected, found string) Diagnostic {
	d := newDiag(WrongArgumentType, SeverityError, span, "", "")
	d.Expected, d.Found = expected, found
	return d
}

func NewUnusedVariable(span token.Span, name string) Diagnostic {
	return newDiag(UnusedVariable, SeverityWarning, span, name, "")
}

func NewUnusedFunction(span token.Span, name string) Diagnostic {
	return newDiag(UnusedFunction, SeverityWarning, span, name, "")
}

// NewUnreachableCode records the kind of the diverging statement that
// made the code at span unreachable ("return", "raise", ...) in Name.
func NewUnreachableCode(span token.Span, after string) Diagnostic {
	return newDiag(UnreachableCode, SeverityWarning, span, after, "")
}

func NewUseBeforeInitialization(span token.Span, name string) Diagnostic {
	return newDiag(UseBeforeInitialization, SeverityError, span, name, "")
}

func NewMissingReturnOnPath(span token.Span, name string) Diagnostic {
	return newDiag(MissingReturnOnPath, SeverityError, span, name, "")
}

func NewNotIndexable(span token.Span, found string) Diagnostic {
	d := newDiag(NotIndexable, SeverityError, span, "", "")
	d.Found = found
	return d
}

func NewNotCallable(span token.Span, found string) Diagnostic {
	d := newDiag(NotCallable, SeverityError, span, "", "")
	d.Found = found
	return d
}

func NewGlobalOutsideFunction(span token.Span) Diagnostic {
	return newDiag(GlobalOutsideFunction, SeverityError, span, "", "")
}

func NewNonlocalOutsideFunction(span token.Span) Diagnostic {
	return newDiag(NonlocalOutsideFunction, SeverityError, span, "", "")
}

func NewNonlocalAtModuleScope(span token.Span) Diagnostic {
	return newDiag(NonlocalAtModuleScope, SeverityError, span, "", "")
}
