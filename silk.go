// Package silk is the public façade over Silk's front-end pipeline:
// lexing, parsing, and semantic analysis, without execution or
// codegen. It exists so a caller (the silkc CLI, an editor plugin, a
// test harness) depends on one stable entry point rather than reaching
// into pkgs/lexer, pkgs/parser, and pkgs/sema directly.
package silk

import (
	"github.com/silk-lang/silk/pkgs/ast"
	silkerrors "github.com/silk-lang/silk/pkgs/errors"
	"github.com/silk-lang/silk/pkgs/lexer"
	"github.com/silk-lang/silk/pkgs/parser"
	"github.com/silk-lang/silk/pkgs/sema"
	"github.com/silk-lang/silk/pkgs/token"
)

// Tokenize runs the lexer alone, for tooling that only needs the token
// stream (syntax highlighters, a `silkc lex` subcommand).
func Tokenize(source string) ([]token.Token, error) {
	return lexer.Tokenize(source)
}

// Parse lexes and parses source into a Program. A non-nil error is a
// *silkerrors.ParseError or *silkerrors.LexError — the pass that failed
// aborts rather than returning partial results.
func Parse(source string) (*ast.Program, error) {
	return parser.Parse(source)
}

// AnalysisOptions re-exports sema's options struct so callers never
// need to import pkgs/sema directly for the common case.
type AnalysisOptions = sema.AnalysisOptions

// DefaultAnalysisOptions returns the standard configuration:
// control-flow analysis enabled.
func DefaultAnalysisOptions() AnalysisOptions {
	return sema.DefaultAnalysisOptions()
}

// Analyze runs every pass of Pass 1-3 semantic analysis over an
// already-parsed Program. The returned diagnostics slice is nil iff
// analysis found nothing to report.
func Analyze(program *ast.Program, opts AnalysisOptions) (*sema.SymbolTable, []silkerrors.Diagnostic) {
	return sema.Analyze(program, opts)
}

// Check lexes, parses, and fully analyzes source in one call — the
// operation a `silkc check` subcommand or a one-shot linter wants.
// A lex/parse failure returns before analysis ever runs; a successful
// parse with semantic diagnostics still returns the diagnostics with a
// nil error, since error reporting is the caller's job, not ours.
func Check(source string, opts AnalysisOptions) (*ast.Program, *sema.SymbolTable, []silkerrors.Diagnostic, error) {
	prog, err := Parse(source)
	if err != nil {
		return nil, nil, nil, err
	}
	table, diags := Analyze(prog, opts)
	return prog, table, diags, nil
}
