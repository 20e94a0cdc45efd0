package sema

import (
	"github.com/silk-lang/silk/pkgs/ast"
	silkerrors "github.com/silk-lang/silk/pkgs/errors"
	"github.com/silk-lang/silk/pkgs/token"
)

// collectProgram runs Pass 1: a forward-reference hoisting pre-pass
// over top-level function/class names, followed by a
// full walk that defines every other symbol and builds the scope tree
// that Pass 2 and Pass 3 re-enter via c.funcScope.
func (c *context) collectProgram(prog *ast.Program) {
	const root = 0
	for _, name := range builtinNames {
		c.st.Define(root, newBuiltinSymbol(name))
	}
	c.hoistTopLevel(prog.Statements, root)
	for _, s := range prog.Statements {
		c.collectStmt(s, root)
	}
}

// hoistTopLevel defines every top-level function/class name in the
// global scope before any body is walked, so top-level definitions may
// reference one another regardless of textual order. Names defined
// inside function bodies are
// deliberately NOT hoisted here — they become visible only when
// collectStmt reaches their textual assignment, later in the walk.
func (c *context) hoistTopLevel(stmts []*ast.Stmt, scope int) {
	for _, s := range stmts {
		switch s.Kind {
		case ast.StmtFunctionDef:
			c.defineFunctionSymbol(s, scope)
		case ast.StmtClassDef:
			c.st.Define(scope, &Symbol{Name: s.Name, Kind: SymClass, DefSpan: s.Span, Type: Unknown})
		}
	}
}

func (c *context) defineFunctionSymbol(s *ast.Stmt, scope int) {
	retType := Unknown
	annotated := s.ReturnType != nil
	if annotated {
		retType = typeFromAnnotation(s.ReturnType)
	}
	c.st.Define(scope, &Symbol{
		Name: s.Name, Kind: SymFunction, DefSpan: s.Span,
		Type: FuncOf(retType), Params: s.Params, ReturnAnnotated: annotated,
	})
}

// defineOrRedefine implements the Pass-1 re-assignment/redefinition
// rule: re-assigning an existing Variable/Parameter is idempotent;
// redefining a Function/Class/Module name emits RedefinedSymbol.
func (c *context) defineOrRedefine(scope int, name string, kind SymbolKind, span token.Span, typ *Type) {
	if existing, ok := c.st.LookupLocal(scope, name); ok && !existing.IsBuiltin {
		switch existing.Kind {
		case SymFunction, SymClass, SymModule:
			c.report(silkerrors.NewRedefinedSymbol(span, name))
			return
		default:
			existing.Type = typ
			return
		}
	}
	c.st.Define(scope, &Symbol{Name: name, Kind: kind, DefSpan: span, Type: typ})
}

func (c *context) collectStmt(s *ast.Stmt, scope int) {
	if s == nil {
		return
	}
	c.collectWalrusIn(s, scope)
	switch s.Kind {
	case ast.StmtAssign:
		for _, t := range s.Targets {
			c.collectAssignTarget(t, scope)
		}
	case ast.StmtAnnAssign:
		if len(s.Targets) > 0 && s.Targets[0].Kind == ast.ExprIdentifier {
			c.defineOrRedefine(scope, s.Targets[0].Name, SymVariable, s.Targets[0].Span, typeFromAnnotation(s.Annotation))
		}
	case ast.StmtAugAssign:
		if len(s.Targets) > 0 && s.Targets[0].Kind == ast.ExprIdentifier {
			if _, ok := c.st.Lookup(scope, s.Targets[0].Name); !ok {
				c.report(silkerrors.NewUndefinedName(s.Targets[0].Span, s.Targets[0].Name))
			}
		}
	case ast.StmtFunctionDef:
		if scope != 0 {
			c.defineFunctionSymbol(s, scope)
		}
		childScope := c.st.Push(ScopeFunction, scope)
		c.funcScope[s] = childScope
		c.defineParams(s.Params, childScope)
		for _, b := range s.Body {
			c.collectStmt(b, childScope)
		}
	case ast.StmtClassDef:
		if scope != 0 {
			c.st.Define(scope, &Symbol{Name: s.Name, Kind: SymClass, DefSpan: s.Span, Type: Unknown})
		}
		childScope := c.st.Push(ScopeClass, scope)
		c.funcScope[s] = childScope
		for _, b := range s.Body {
			c.collectStmt(b, childScope)
		}
	case ast.StmtFor:
		for _, name := range targetNames(s.Target) {
			c.defineOrRedefine(scope, name, SymVariable, s.Target.Span, Unknown)
		}
		for _, b := range s.Body {
			c.collectStmt(b, scope)
		}
		for _, b := range s.Orelse {
			c.collectStmt(b, scope)
		}
	case ast.StmtWhile, ast.StmtIf:
		for _, b := range s.Body {
			c.collectStmt(b, scope)
		}
		for _, b := range s.Orelse {
			c.collectStmt(b, scope)
		}
	case ast.StmtWith:
		for _, item := range s.Items {
			if item.OptionalVars != nil {
				for _, name := range targetNames(item.OptionalVars) {
					c.defineOrRedefine(scope, name, SymVariable, item.Span, Unknown)
				}
			}
		}
		for _, b := range s.Body {
			c.collectStmt(b, scope)
		}
	case ast.StmtTry:
		for _, b := range s.Body {
			c.collectStmt(b, scope)
		}
		for _, h := range s.Handlers {
			if h.Name != "" {
				c.defineOrRedefine(scope, h.Name, SymVariable, h.Span, Unknown)
			}
			for _, b := range h.Body {
				c.collectStmt(b, scope)
			}
		}
		for _, b := range s.Orelse {
			c.collectStmt(b, scope)
		}
		for _, b := range s.Finalbody {
			c.collectStmt(b, scope)
		}
	case ast.StmtImport:
		for _, a := range s.Names {
			name := a.AsName
			if name == "" {
				name = a.Name
			}
			c.defineOrRedefine(scope, name, SymModule, a.Span, Unknown)
		}
	case ast.StmtImportFrom:
		for _, a := range s.Names {
			name := a.AsName
			if name == "" {
				name = a.Name
			}
			c.defineOrRedefine(scope, name, SymModule, a.Span, Unknown)
		}
	case ast.StmtMatch:
		for _, cs := range s.Cases {
			for _, name := range patternNames(cs.Pattern) {
				c.defineOrRedefine(scope, name, SymVariable, cs.Span, Unknown)
			}
			for _, b := range cs.Body {
				c.collectStmt(b, scope)
			}
		}
	}
}

func (c *context) collectAssignTarget(t *ast.Expr, scope int) {
	for _, name := range targetNames(t) {
		c.defineOrRedefine(scope, name, SymVariable, t.Span, Unknown)
	}
}

// collectWalrusIn scans every expression reachable from s for walrus
// targets and defines them as Variables in scope — the
// named-expression target binds in the enclosing scope, not some
// ephemeral inner one.
func (c *context) collectWalrusIn(s *ast.Stmt, scope int) {
	for _, e := range []*ast.Expr{s.Expression, s.Value, s.Test, s.Iter, s.Msg, s.Cause, s.Annotation, s.ReturnType} {
		for _, w := range walrusTargets(e) {
			if w.Target != nil && w.Target.Kind == ast.ExprIdentifier {
				c.defineOrRedefine(scope, w.Target.Name, SymVariable, w.Target.Span, Unknown)
			}
		}
	}
	for _, t := range s.Targets {
		for _, w := range walrusTargets(t) {
			if w.Target != nil && w.Target.Kind == ast.ExprIdentifier {
				c.defineOrRedefine(scope, w.Target.Name, SymVariable, w.Target.Span, Unknown)
			}
		}
	}
}

// defineParams defines every formal parameter of a function as a
// Parameter symbol in its (already-pushed) function scope.
func (c *context) defineParams(params *ast.Params, scope int) {
	if params == nil {
		return
	}
	for _, p := range params.Args {
		c.st.Define(scope, &Symbol{Name: p.Name, Kind: SymParameter, DefSpan: p.Span, Type: typeFromAnnotation(p.Annotation)})
	}
	if params.Vararg != nil {
		c.st.Define(scope, &Symbol{Name: params.Vararg.Name, Kind: SymParameter, DefSpan: params.Vararg.Span, Type: ListOf(Unknown)})
	}
	for _, p := range params.KwOnly {
		c.st.Define(scope, &Symbol{Name: p.Name, Kind: SymParameter, DefSpan: p.Span, Type: typeFromAnnotation(p.Annotation)})
	}
	if params.Kwarg != nil {
		c.st.Define(scope, &Symbol{Name: params.Kwarg.Name, Kind: SymParameter, DefSpan: params.Kwarg.Span, Type: DictOf(Str, Unknown)})
	}
}
