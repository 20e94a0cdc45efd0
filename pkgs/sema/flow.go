package sema

import (
	"sort"

	"github.com/silk-lang/silk/pkgs/ast"
	silkerrors "github.com/silk-lang/silk/pkgs/errors"
)

// analyzeControlFlow runs Pass 3: reachability, definite-assignment,
// and return-path completeness, gated entirely behind
// AnalysisOptions.ControlFlowEnabled by the caller in Analyze.
// Definite assignment covers each function body plus the top-level
// module body (restricted to names the module itself binds as plain
// variables).
func (c *context) analyzeControlFlow(prog *ast.Program) {
	c.analyzeBlock(prog.Statements)
	locals := map[string]bool{}
	for name, sym := range c.st.Scopes[0].Symbols {
		if sym.Kind == SymVariable && !sym.IsBuiltin {
			locals[name] = true
		}
	}
	if len(locals) > 0 {
		c.flowBlock(prog.Statements, locals, assignSet{})
	}
}

// analyzeBlock walks stmts in order, reporting UnreachableCode once for
// the first statement following one that always diverges, and returns
// whether the whole block itself always diverges.
func (c *context) analyzeBlock(stmts []*ast.Stmt) bool {
	diverged, _ := c.analyzeBlockFrom(stmts, false, "")
	return diverged
}

// analyzeBlockFrom is analyzeBlock with a seeded divergence state, so a
// block that starts out already unreachable (e.g. a try construct's
// else clause when the try body always diverges) reports unreachable
// code on its own first statement instead of looking reachable.
func (c *context) analyzeBlockFrom(stmts []*ast.Stmt, seedDiverged bool, seedReason string) (bool, string) {
	diverged := seedDiverged
	divergedBy := seedReason
	reported := false
	for _, s := range stmts {
		if diverged && !reported {
			c.report(silkerrors.NewUnreachableCode(s.Span, divergedBy))
			reported = true
		}
		if c.analyzeStmt(s) && !diverged {
			diverged = true
			divergedBy = stmtKindName(s)
		}
	}
	return diverged, divergedBy
}

// analyzeStmt recurses into every nested block (so nested unreachable
// code and nested function return-completeness are always checked,
// regardless of whether s itself is reachable) and reports whether s
// always diverges (never falls through to the statement after it).
func (c *context) analyzeStmt(s *ast.Stmt) bool {
	if s == nil {
		return false
	}
	switch s.Kind {
	case ast.StmtReturn, ast.StmtRaise, ast.StmtBreak, ast.StmtContinue:
		return true

	case ast.StmtIf:
		bodyDiverges := c.analyzeBlock(s.Body)
		if len(s.Orelse) == 0 {
			return false
		}
		orelseDiverges := c.analyzeBlock(s.Orelse)
		return bodyDiverges && orelseDiverges

	case ast.StmtWhile:
		c.analyzeBlock(s.Body)
		c.analyzeBlock(s.Orelse)
		if isLiteralTrue(s.Test) && !stmtContainsBreak(s.Body) {
			return true
		}
		return false

	case ast.StmtFor:
		c.analyzeBlock(s.Body)
		c.analyzeBlock(s.Orelse)
		return false

	case ast.StmtWith:
		return c.analyzeBlock(s.Body)

	case ast.StmtTry:
		bodyDiverges, bodyReason := c.analyzeBlockFrom(s.Body, false, "")
		for _, h := range s.Handlers {
			c.analyzeBlock(h.Body)
		}
		c.analyzeBlockFrom(s.Orelse, bodyDiverges, bodyReason)
		if len(s.Finalbody) > 0 {
			return c.analyzeBlock(s.Finalbody)
		}
		return false

	case ast.StmtMatch:
		hasWildcard := false
		allDiverge := true
		for _, cs := range s.Cases {
			if cs.Pattern != nil && cs.Pattern.Kind == ast.PatternWildcard {
				hasWildcard = true
			}
			if !c.analyzeBlock(cs.Body) {
				allDiverge = false
			}
		}
		return hasWildcard && allDiverge && len(s.Cases) > 0

	case ast.StmtFunctionDef:
		if _, ok := c.funcScope[s]; ok {
			bodyDiverges := c.analyzeBlock(s.Body)
			c.checkDefiniteAssignment(s)
			if s.ReturnType != nil {
				retType := typeFromAnnotation(s.ReturnType)
				if retType.Kind != KindNone && retType.Kind != KindUnknown && retType.Kind != KindAny && !bodyDiverges {
					c.report(silkerrors.NewMissingReturnOnPath(s.Span, s.Name))
				}
			}
		}
		return false

	case ast.StmtClassDef:
		c.analyzeBlock(s.Body)
		return false

	default:
		return false
	}
}

// stmtKindName names a statement kind the way a diagnostic message
// refers to it.
func stmtKindName(s *ast.Stmt) string {
	switch s.Kind {
	case ast.StmtReturn:
		return "return"
	case ast.StmtRaise:
		return "raise"
	case ast.StmtBreak:
		return "break"
	case ast.StmtContinue:
		return "continue"
	case ast.StmtWhile:
		return "while"
	case ast.StmtIf:
		return "if"
	case ast.StmtTry:
		return "try"
	case ast.StmtMatch:
		return "match"
	case ast.StmtWith:
		return "with"
	default:
		return "statement"
	}
}

func isLiteralTrue(e *ast.Expr) bool {
	return e != nil && e.Kind == ast.ExprBool && e.BoolValue
}

// stmtContainsBreak reports whether a break targeting THIS loop appears
// anywhere in stmts — it descends into if/try/with/match bodies (a
// break there still exits the enclosing loop) but not into nested
// loops or function bodies (their break targets themselves).
func stmtContainsBreak(stmts []*ast.Stmt) bool {
	for _, s := range stmts {
		if s == nil {
			continue
		}
		switch s.Kind {
		case ast.StmtBreak:
			return true
		case ast.StmtFor, ast.StmtWhile, ast.StmtFunctionDef, ast.StmtClassDef:
			continue
		case ast.StmtIf:
			if stmtContainsBreak(s.Body) || stmtContainsBreak(s.Orelse) {
				return true
			}
		case ast.StmtWith:
			if stmtContainsBreak(s.Body) {
				return true
			}
		case ast.StmtTry:
			if stmtContainsBreak(s.Body) || stmtContainsBreak(s.Orelse) || stmtContainsBreak(s.Finalbody) {
				return true
			}
			for _, h := range s.Handlers {
				if stmtContainsBreak(h.Body) {
					return true
				}
			}
		case ast.StmtMatch:
			for _, cs := range s.Cases {
				if stmtContainsBreak(cs.Body) {
					return true
				}
			}
		}
	}
	return false
}

// assignSet is the definite-assignment state at one program point: the
// subset of a function's local variables known to be assigned on every
// path reaching this point.
type assignSet map[string]bool

func (a assignSet) clone() assignSet {
	out := make(assignSet, len(a))
	for k := range a {
		out[k] = true
	}
	return out
}

// intersect returns the names assigned in every one of sets (the merge
// rule at control-flow join points: a variable is definitely assigned
// after an if/try/match only if every taken branch assigned it).
func intersect(sets ...assignSet) assignSet {
	if len(sets) == 0 {
		return assignSet{}
	}
	out := sets[0].clone()
	for _, s := range sets[1:] {
		for k := range out {
			if !s[k] {
				delete(out, k)
			}
		}
	}
	return out
}

// checkDefiniteAssignment runs definite-assignment analysis over one
// function body, restricted to names the function
// itself declares as local variables — free variables resolved from an
// enclosing or global scope were already validated to exist in Pass 2,
// so they need no initialization tracking here.
func (c *context) checkDefiniteAssignment(s *ast.Stmt) {
	scope, ok := c.funcScope[s]
	if !ok {
		return
	}
	locals := map[string]bool{}
	for name, sym := range c.st.Scopes[scope].Symbols {
		if sym.Kind == SymVariable {
			locals[name] = true
		}
	}
	if len(locals) == 0 {
		return
	}
	initial := assignSet{}
	if s.Params != nil {
		for _, p := range s.Params.Args {
			initial[p.Name] = true
		}
		if s.Params.Vararg != nil {
			initial[s.Params.Vararg.Name] = true
		}
		for _, p := range s.Params.KwOnly {
			initial[p.Name] = true
		}
		if s.Params.Kwarg != nil {
			initial[s.Params.Kwarg.Name] = true
		}
	}
	c.flowBlock(s.Body, locals, initial)
}

func (c *context) flowBlock(stmts []*ast.Stmt, locals map[string]bool, in assignSet) assignSet {
	cur := in
	for _, s := range stmts {
		cur = c.flowStmt(s, locals, cur)
	}
	return cur
}

// checkExprInit reports UseBeforeInitialization for every local-variable
// read in e that is not yet definitely assigned, and returns an updated
// set (a reported variable is treated as assigned from here on, so one
// unread-before-init mistake is reported once, not once per later use).
func (c *context) checkExprInit(e *ast.Expr, locals map[string]bool, assigned assignSet) assignSet {
	if e == nil {
		return assigned
	}
	walkExpr(e, func(n *ast.Expr) {
		// A walrus assigns its target before any later sibling reads it
		// (pre-order visit: the NamedExpr is seen before its Target).
		if n.Kind == ast.ExprNamedExpr && n.Target != nil && n.Target.Kind == ast.ExprIdentifier && locals[n.Target.Name] {
			assigned[n.Target.Name] = true
			return
		}
		if n.Kind == ast.ExprIdentifier && locals[n.Name] && !assigned[n.Name] {
			c.report(silkerrors.NewUseBeforeInitialization(n.Span, n.Name))
			assigned[n.Name] = true
		}
	})
	return assigned
}

func (c *context) flowStmt(s *ast.Stmt, locals map[string]bool, assigned assignSet) assignSet {
	if s == nil {
		return assigned
	}
	switch s.Kind {
	case ast.StmtExpr:
		return c.checkExprInit(s.Expression, locals, assigned)

	case ast.StmtAssign:
		assigned = c.checkExprInit(s.Value, locals, assigned)
		for _, t := range s.Targets {
			if t.Kind == ast.ExprIdentifier {
				if locals[t.Name] {
					assigned[t.Name] = true
				}
				continue
			}
			assigned = c.checkExprInit(t, locals, assigned)
		}
		return assigned

	case ast.StmtAnnAssign:
		if s.Value != nil {
			assigned = c.checkExprInit(s.Value, locals, assigned)
			if len(s.Targets) > 0 && s.Targets[0].Kind == ast.ExprIdentifier && locals[s.Targets[0].Name] {
				assigned[s.Targets[0].Name] = true
			}
		}
		return assigned

	case ast.StmtAugAssign:
		assigned = c.checkExprInit(s.Value, locals, assigned)
		if len(s.Targets) > 0 {
			assigned = c.checkExprInit(s.Targets[0], locals, assigned)
			if s.Targets[0].Kind == ast.ExprIdentifier && locals[s.Targets[0].Name] {
				assigned[s.Targets[0].Name] = true
			}
		}
		return assigned

	case ast.StmtReturn:
		return c.checkExprInit(s.Expression, locals, assigned)

	case ast.StmtAssert:
		assigned = c.checkExprInit(s.Test, locals, assigned)
		return c.checkExprInit(s.Msg, locals, assigned)

	case ast.StmtRaise:
		assigned = c.checkExprInit(s.Expression, locals, assigned)
		return c.checkExprInit(s.Cause, locals, assigned)

	case ast.StmtDelete:
		for _, t := range s.Targets {
			assigned = c.checkExprInit(t, locals, assigned)
		}
		return assigned

	case ast.StmtIf:
		assigned = c.checkExprInit(s.Test, locals, assigned)
		bodyOut := c.flowBlock(s.Body, locals, assigned.clone())
		if len(s.Orelse) == 0 {
			return assigned
		}
		orelseOut := c.flowBlock(s.Orelse, locals, assigned.clone())
		return intersect(bodyOut, orelseOut)

	case ast.StmtWhile:
		assigned = c.checkExprInit(s.Test, locals, assigned)
		c.flowBlock(s.Body, locals, assigned.clone())
		if len(s.Orelse) > 0 {
			return c.flowBlock(s.Orelse, locals, assigned.clone())
		}
		return assigned

	case ast.StmtFor:
		assigned = c.checkExprInit(s.Iter, locals, assigned)
		bodyIn := assigned.clone()
		for _, name := range targetNames(s.Target) {
			bodyIn[name] = true
		}
		c.flowBlock(s.Body, locals, bodyIn)
		if len(s.Orelse) > 0 {
			return c.flowBlock(s.Orelse, locals, assigned.clone())
		}
		return assigned

	case ast.StmtWith:
		for _, item := range s.Items {
			assigned = c.checkExprInit(item.ContextExpr, locals, assigned)
			for _, name := range targetNames(item.OptionalVars) {
				if locals[name] {
					assigned[name] = true
				}
			}
		}
		return c.flowBlock(s.Body, locals, assigned)

	case ast.StmtTry:
		c.flowBlock(s.Body, locals, assigned.clone())
		paths := []assignSet{}
		for _, h := range s.Handlers {
			handlerIn := assigned.clone()
			if h.Name != "" && locals[h.Name] {
				handlerIn[h.Name] = true
			}
			paths = append(paths, c.flowBlock(h.Body, locals, handlerIn))
		}
		successPath := assigned.clone()
		if len(s.Orelse) > 0 {
			successPath = c.flowBlock(s.Orelse, locals, successPath)
		}
		paths = append(paths, successPath)
		merged := intersect(paths...)
		if len(s.Finalbody) > 0 {
			return c.flowBlock(s.Finalbody, locals, merged)
		}
		return merged

	case ast.StmtMatch:
		assigned = c.checkExprInit(s.Subject, locals, assigned)
		paths := []assignSet{assigned.clone()}
		for _, cs := range s.Cases {
			caseIn := assigned.clone()
			for _, name := range patternNames(cs.Pattern) {
				if locals[name] {
					caseIn[name] = true
				}
			}
			caseIn = c.checkExprInit(cs.Guard, locals, caseIn)
			paths = append(paths, c.flowBlock(cs.Body, locals, caseIn))
		}
		return intersect(paths...)

	case ast.StmtGlobal, ast.StmtNonlocal:
		// Declaring a name global/nonlocal imports it from the outer
		// scope already initialized.
		for _, name := range s.Identifiers {
			if locals[name] {
				assigned[name] = true
			}
		}
		return assigned

	case ast.StmtFunctionDef, ast.StmtClassDef:
		// Nested defs are analyzed independently by analyzeStmt's own
		// StmtFunctionDef/StmtClassDef case; their bodies run later
		// (or in another scope entirely) and don't affect this
		// function's own assignment state.
		return assigned

	default:
		return assigned
	}
}

// reportUnused emits UnusedVariable/UnusedFunction for every symbol
// across every scope that Pass 2 never marked Used, excluding builtins,
// `_`-prefixed names, and a function or class named `main`. Findings
// are sorted by source position first — map iteration over a scope's
// symbols is unordered, and diagnostics must come out deterministically.
func (c *context) reportUnused() {
	var found []silkerrors.Diagnostic
	for _, scope := range c.st.Scopes {
		isTopLevel := scope.Kind == ScopeGlobal
		for name, sym := range scope.Symbols {
			if sym.Used || sym.IsBuiltin || name == "_" || (len(name) > 0 && name[0] == '_') {
				continue
			}
			switch sym.Kind {
			case SymVariable, SymParameter:
				found = append(found, silkerrors.NewUnusedVariable(sym.DefSpan, name))
			case SymFunction, SymClass:
				// Only top-level functions/classes are advisory-reported;
				// locally nested ones are not.
				if !isTopLevel || name == "main" {
					continue
				}
				found = append(found, silkerrors.NewUnusedFunction(sym.DefSpan, name))
			}
		}
	}
	sort.Slice(found, func(i, j int) bool {
		si, sj := found[i].Span, found[j].Span
		if si.Line != sj.Line {
			return si.Line < sj.Line
		}
		return si.Column < sj.Column
	})
	c.diags = append(c.diags, found...)
}
