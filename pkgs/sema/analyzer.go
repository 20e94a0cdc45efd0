package sema

import (
	"github.com/silk-lang/silk/pkgs/ast"
	silkerrors "github.com/silk-lang/silk/pkgs/errors"
)

// AnalysisOptions carries per-invocation analyzer settings as an
// explicit options struct rather than package-level flags.
type AnalysisOptions struct {
	// ControlFlowEnabled gates Pass 3 (reachability, definite-assignment,
	// return-path completeness, usage diagnostics). Defaults to true via
	// DefaultAnalysisOptions; the zero value is false, so callers using a
	// literal AnalysisOptions{} must opt back in explicitly.
	ControlFlowEnabled bool
}

// DefaultAnalysisOptions returns the standard configuration: control
// flow analysis on.
func DefaultAnalysisOptions() AnalysisOptions {
	return AnalysisOptions{ControlFlowEnabled: true}
}

// context aggregates every piece of mutable state threaded through the
// three passes — symbol table, diagnostics, loop depth, the innermost
// enclosing function's declared return type — into one value rather
// than passing half a dozen parameters through every recursive call.
type context struct {
	st    *SymbolTable
	diags []silkerrors.Diagnostic
	opts  AnalysisOptions

	// funcScope maps a StmtFunctionDef/StmtClassDef node to the scope
	// index Pass 1 pushed for its body, so Pass 2 (and Pass 3, for
	// nested function bodies) re-enter the same scope rather than
	// building a second, disconnected one.
	funcScope map[*ast.Stmt]int

	loopDepth int

	curReturn          *Type
	curReturnAnnotated bool
	curFuncName        string
	inFunction         bool
}

func newContext(opts AnalysisOptions) *context {
	return &context{
		st:        NewSymbolTable(),
		opts:      opts,
		funcScope: map[*ast.Stmt]int{},
	}
}

func (c *context) report(d silkerrors.Diagnostic) {
	c.diags = append(c.diags, d)
}

// Analyze runs the full pipeline (symbol collection, name resolution +
// type inference, and — unless disabled — control-flow analysis) over
// an already-parsed Program. The result is (table, nil) iff no
// diagnostic was ever reported, else (table, diagnostics); semantic
// findings accumulate rather than aborting the run.
func Analyze(program *ast.Program, opts AnalysisOptions) (*SymbolTable, []silkerrors.Diagnostic) {
	c := newContext(opts)
	c.collectProgram(program)
	c.resolveProgram(program)
	if opts.ControlFlowEnabled {
		c.analyzeControlFlow(program)
		c.reportUnused()
	}
	return c.st, c.diags
}
