package sema

import "github.com/silk-lang/silk/pkgs/ast"

// walkExpr visits e and every expression reachable from it (pre-order),
// calling visit on each non-nil node. It is used by Pass 1 to find
// walrus targets buried anywhere in a statement's expressions, and is
// intentionally naive about scoping (Pass 2 is what actually enforces
// comprehension/lambda scope boundaries); Pass 1 only needs to know
// that a `:=` exists somewhere and where it binds.
func walkExpr(e *ast.Expr, visit func(*ast.Expr)) {
	if e == nil {
		return
	}
	visit(e)
	walkExpr(e.Left, visit)
	walkExpr(e.Right, visit)
	walkExpr(e.Operand, visit)
	walkExpr(e.Func, visit)
	walkExpr(e.Value, visit)
	walkExpr(e.Index, visit)
	walkExpr(e.Lower, visit)
	walkExpr(e.Upper, visit)
	walkExpr(e.Step, visit)
	walkExpr(e.Body, visit)
	walkExpr(e.Test, visit)
	walkExpr(e.OrElse, visit)
	walkExpr(e.Target, visit)
	walkExpr(e.Element, visit)
	for _, el := range e.Elements {
		walkExpr(el, visit)
	}
	for _, k := range e.Keys {
		walkExpr(k, visit)
	}
	for _, v := range e.Values {
		walkExpr(v, visit)
	}
	for _, a := range e.Args {
		walkExpr(a, visit)
	}
	for _, kw := range e.Keywords {
		walkExpr(kw.Value, visit)
	}
	for _, cmp := range e.Comparators {
		walkExpr(cmp, visit)
	}
	for _, g := range e.Generators {
		walkExpr(g.Target, visit)
		walkExpr(g.Iter, visit)
		for _, f := range g.Ifs {
			walkExpr(f, visit)
		}
	}
	for _, part := range e.FStringParts {
		walkExpr(part.Code, visit)
	}
}

// walrusTargets returns every `name := value` binding found anywhere in
// e, in left-to-right discovery order.
func walrusTargets(e *ast.Expr) []*ast.Expr {
	var out []*ast.Expr
	walkExpr(e, func(n *ast.Expr) {
		if n.Kind == ast.ExprNamedExpr {
			out = append(out, n)
		}
	})
	return out
}
