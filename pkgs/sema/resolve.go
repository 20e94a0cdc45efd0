package sema

import (
	"strconv"

	"github.com/silk-lang/silk/pkgs/ast"
	silkerrors "github.com/silk-lang/silk/pkgs/errors"
)

// resolveProgram runs Pass 2 over every top-level statement: name
// resolution, type inference, annotated-assignment and return-type
// checking, break/continue loop-depth tracking, and decorator/
// base-class resolution.
func (c *context) resolveProgram(prog *ast.Program) {
	for _, s := range prog.Statements {
		c.resolveStmt(s, 0)
	}
}

func (c *context) resolveStmt(s *ast.Stmt, scope int) {
	if s == nil {
		return
	}
	switch s.Kind {
	case ast.StmtExpr:
		c.inferExpr(s.Expression, scope)

	case ast.StmtAssign:
		valType := c.inferExpr(s.Value, scope)
		for _, t := range s.Targets {
			c.resolveTarget(t, scope)
			if t.Kind == ast.ExprIdentifier {
				if sym, ok := c.st.Lookup(scope, t.Name); ok {
					sym.Type = valType
				}
			}
		}

	case ast.StmtAnnAssign:
		annType := typeFromAnnotation(s.Annotation)
		if len(s.Targets) > 0 {
			c.resolveTarget(s.Targets[0], scope)
		}
		if s.Value != nil {
			valType := c.inferExpr(s.Value, scope)
			if !valType.IsCompatibleWith(annType) {
				c.report(silkerrors.NewIncompatibleTypes(s.Span, annType.String(), valType.String()))
			}
		}
		if len(s.Targets) > 0 && s.Targets[0].Kind == ast.ExprIdentifier {
			if sym, ok := c.st.Lookup(scope, s.Targets[0].Name); ok {
				sym.Type = annType
			}
		}

	case ast.StmtAugAssign:
		c.inferExpr(s.Value, scope)
		if len(s.Targets) > 0 {
			c.resolveTarget(s.Targets[0], scope)
		}

	case ast.StmtReturn:
		c.resolveReturn(s, scope)

	case ast.StmtPass:
		// nothing to resolve

	case ast.StmtBreak:
		if c.loopDepth == 0 {
			c.report(silkerrors.NewBreakOutsideLoop(s.Span))
		}

	case ast.StmtContinue:
		if c.loopDepth == 0 {
			c.report(silkerrors.NewContinueOutsideLoop(s.Span))
		}

	case ast.StmtIf:
		c.inferExpr(s.Test, scope)
		for _, b := range s.Body {
			c.resolveStmt(b, scope)
		}
		for _, b := range s.Orelse {
			c.resolveStmt(b, scope)
		}

	case ast.StmtWhile:
		c.inferExpr(s.Test, scope)
		c.loopDepth++
		for _, b := range s.Body {
			c.resolveStmt(b, scope)
		}
		c.loopDepth--
		for _, b := range s.Orelse {
			c.resolveStmt(b, scope)
		}

	case ast.StmtFor:
		c.inferExpr(s.Iter, scope)
		c.resolveTarget(s.Target, scope)
		c.loopDepth++
		for _, b := range s.Body {
			c.resolveStmt(b, scope)
		}
		c.loopDepth--
		for _, b := range s.Orelse {
			c.resolveStmt(b, scope)
		}

	case ast.StmtWith:
		for _, item := range s.Items {
			c.inferExpr(item.ContextExpr, scope)
			if item.OptionalVars != nil {
				c.resolveTarget(item.OptionalVars, scope)
			}
		}
		for _, b := range s.Body {
			c.resolveStmt(b, scope)
		}

	case ast.StmtTry:
		for _, b := range s.Body {
			c.resolveStmt(b, scope)
		}
		for _, h := range s.Handlers {
			if h.Type != nil {
				c.inferExpr(h.Type, scope)
			}
			for _, b := range h.Body {
				c.resolveStmt(b, scope)
			}
		}
		for _, b := range s.Orelse {
			c.resolveStmt(b, scope)
		}
		for _, b := range s.Finalbody {
			c.resolveStmt(b, scope)
		}

	case ast.StmtMatch:
		c.inferExpr(s.Subject, scope)
		for _, cs := range s.Cases {
			c.resolvePattern(cs.Pattern, scope)
			if cs.Guard != nil {
				c.inferExpr(cs.Guard, scope)
			}
			for _, b := range cs.Body {
				c.resolveStmt(b, scope)
			}
		}

	case ast.StmtFunctionDef:
		c.resolveFunctionDef(s, scope)

	case ast.StmtClassDef:
		c.resolveClassDef(s, scope)

	case ast.StmtImport, ast.StmtImportFrom:
		// Module bindings are defined in Pass 1; nothing references an
		// import statement itself.

	case ast.StmtGlobal:
		c.resolveGlobalNonlocal(s, scope, true)

	case ast.StmtNonlocal:
		c.resolveGlobalNonlocal(s, scope, false)

	case ast.StmtAssert:
		c.inferExpr(s.Test, scope)
		if s.Msg != nil {
			c.inferExpr(s.Msg, scope)
		}

	case ast.StmtRaise:
		if s.Expression != nil {
			c.inferExpr(s.Expression, scope)
		}
		if s.Cause != nil {
			c.inferExpr(s.Cause, scope)
		}

	case ast.StmtDelete:
		for _, t := range s.Targets {
			c.inferExpr(t, scope)
		}
	}
}

func (c *context) resolveReturn(s *ast.Stmt, scope int) {
	var valType *Type = NoneT
	if s.Expression != nil {
		valType = c.inferExpr(s.Expression, scope)
	}
	if !c.inFunction {
		c.report(silkerrors.NewReturnOutsideFunction(s.Span))
		return
	}
	if !c.curReturnAnnotated {
		return
	}
	if s.Expression == nil {
		if c.curReturn.Kind != KindNone && c.curReturn.Kind != KindUnknown && c.curReturn.Kind != KindAny {
			c.report(silkerrors.NewIncompatibleTypes(s.Span, c.curReturn.String(), "None"))
		}
		return
	}
	if !valType.IsCompatibleWith(c.curReturn) {
		c.report(silkerrors.NewIncompatibleTypes(s.Span, c.curReturn.String(), valType.String()))
	}
}

func (c *context) resolveFunctionDef(s *ast.Stmt, scope int) {
	for _, d := range s.Decorators {
		c.inferExpr(d, scope)
	}
	if s.Params != nil {
		for _, p := range s.Params.Args {
			if p.Default != nil {
				c.inferExpr(p.Default, scope)
			}
		}
		for _, p := range s.Params.KwOnly {
			if p.Default != nil {
				c.inferExpr(p.Default, scope)
			}
		}
	}
	childScope, ok := c.funcScope[s]
	if !ok {
		return
	}
	prevReturn, prevAnnotated, prevName, prevInFunc, prevLoop := c.curReturn, c.curReturnAnnotated, c.curFuncName, c.inFunction, c.loopDepth
	retType := Unknown
	if s.ReturnType != nil {
		retType = typeFromAnnotation(s.ReturnType)
	}
	c.curReturn, c.curReturnAnnotated, c.curFuncName, c.inFunction, c.loopDepth = retType, s.ReturnType != nil, s.Name, true, 0
	for _, b := range s.Body {
		c.resolveStmt(b, childScope)
	}
	c.curReturn, c.curReturnAnnotated, c.curFuncName, c.inFunction, c.loopDepth = prevReturn, prevAnnotated, prevName, prevInFunc, prevLoop
}

func (c *context) resolveClassDef(s *ast.Stmt, scope int) {
	for _, d := range s.Decorators {
		c.inferExpr(d, scope)
	}
	for _, b := range s.Bases {
		c.inferExpr(b, scope)
	}
	for _, kw := range s.ClassKeywords {
		c.inferExpr(kw.Value, scope)
	}
	childScope, ok := c.funcScope[s]
	if !ok {
		return
	}
	for _, b := range s.Body {
		c.resolveStmt(b, childScope)
	}
}

func (c *context) resolveGlobalNonlocal(s *ast.Stmt, scope int, isGlobal bool) {
	if !c.inFunction {
		if isGlobal {
			c.report(silkerrors.NewGlobalOutsideFunction(s.Span))
		} else {
			c.report(silkerrors.NewNonlocalOutsideFunction(s.Span))
		}
		return
	}
	for _, name := range s.Identifiers {
		if isGlobal {
			if sym, ok := c.st.Lookup(0, name); ok {
				c.st.Define(scope, sym)
			} else {
				c.st.Define(scope, &Symbol{Name: name, Kind: SymVariable, DefSpan: s.Span, Type: Unknown})
			}
			continue
		}
		// nonlocal: must resolve to an enclosing function scope, not the
		// global scope directly.
		found := false
		for idx := c.st.Scopes[scope].Parent; idx != -1; idx = c.st.Scopes[idx].Parent {
			if c.st.Scopes[idx].Kind == ScopeGlobal {
				break
			}
			if sym, ok := c.st.LookupLocal(idx, name); ok {
				c.st.Define(scope, sym)
				found = true
				break
			}
		}
		if !found {
			c.report(silkerrors.NewNonlocalAtModuleScope(s.Span))
		}
	}
}

// resolveTarget resolves the reference-position parts of an assignment/
// binding target (the base of an attribute or subscript target); a bare
// identifier target is a pure binding and was already defined in Pass 1,
// so it needs no lookup here.
func (c *context) resolveTarget(t *ast.Expr, scope int) {
	if t == nil {
		return
	}
	switch t.Kind {
	case ast.ExprIdentifier:
		// binding position, not a reference.
	case ast.ExprAttribute:
		c.inferExpr(t.Value, scope)
	case ast.ExprSubscript:
		c.inferExpr(t.Value, scope)
		if t.Index != nil {
			c.inferExpr(t.Index, scope)
		}
	case ast.ExprTuple, ast.ExprList:
		for _, el := range t.Elements {
			c.resolveTarget(el, scope)
		}
	case ast.ExprStarred:
		c.resolveTarget(t.Operand, scope)
	default:
		c.inferExpr(t, scope)
	}
}

func (c *context) resolvePattern(p *ast.Pattern, scope int) {
	if p == nil {
		return
	}
	switch p.Kind {
	case ast.PatternLiteral:
		c.inferExpr(p.Literal, scope)
	case ast.PatternSequence:
		for _, el := range p.Elements {
			c.resolvePattern(el, scope)
		}
		c.resolvePattern(p.Star, scope)
	case ast.PatternMapping:
		for _, k := range p.Keys {
			c.inferExpr(k, scope)
		}
		for _, v := range p.Values {
			c.resolvePattern(v, scope)
		}
	case ast.PatternClass:
		if sym, ok := c.st.Lookup(scope, p.ClassName); ok {
			sym.Used = true
		} else {
			c.report(silkerrors.NewUndefinedName(p.Span, p.ClassName))
		}
		for _, sub := range p.Positional {
			c.resolvePattern(sub, scope)
		}
		for _, sub := range p.KwPatterns {
			c.resolvePattern(sub, scope)
		}
	case ast.PatternOr:
		for _, alt := range p.Alternatives {
			c.resolvePattern(alt, scope)
		}
	case ast.PatternAs:
		c.resolvePattern(p.Inner, scope)
	}
}

// inferExpr computes e's inferred type, resolving every identifier
// reference along the way (marking symbols used, emitting
// UndefinedName for anything unresolved).
func (c *context) inferExpr(e *ast.Expr, scope int) *Type {
	if e == nil {
		return Unknown
	}
	switch e.Kind {
	case ast.ExprInt:
		return Int
	case ast.ExprFloat:
		return Float
	case ast.ExprString, ast.ExprRawString:
		return Str
	case ast.ExprByteString:
		return Unknown
	case ast.ExprFString:
		for _, part := range e.FStringParts {
			if part.IsExpr && part.Code != nil {
				c.inferExpr(part.Code, scope)
			}
		}
		return Str
	case ast.ExprBool:
		return Bool
	case ast.ExprNone:
		return NoneT
	case ast.ExprNotImplemented, ast.ExprEllipsis:
		return Unknown

	case ast.ExprIdentifier:
		sym, ok := c.st.Lookup(scope, e.Name)
		if !ok {
			c.report(silkerrors.NewUndefinedName(e.Span, e.Name))
			return Unknown
		}
		sym.Used = true
		return sym.Type

	case ast.ExprList:
		return ListOf(homogeneous(c.inferAll(e.Elements, scope)))
	case ast.ExprSet:
		return SetOf(homogeneous(c.inferAll(e.Elements, scope)))
	case ast.ExprTuple:
		return TupleOf(c.inferAll(e.Elements, scope)...)
	case ast.ExprDict:
		return c.inferDict(e, scope)

	case ast.ExprListComp:
		elemType := c.inferComprehension(e, scope)
		return ListOf(elemType)
	case ast.ExprSetComp:
		elemType := c.inferComprehension(e, scope)
		return SetOf(elemType)
	case ast.ExprGeneratorExp:
		c.inferComprehension(e, scope)
		return Unknown
	case ast.ExprDictComp:
		return c.inferDictComp(e, scope)

	case ast.ExprBinOp:
		return c.inferBinOp(e, scope)
	case ast.ExprUnaryOp:
		return c.inferUnaryOp(e, scope)
	case ast.ExprBoolOp:
		for _, v := range e.Values {
			c.inferExpr(v, scope)
		}
		return Unknown
	case ast.ExprCompare:
		c.inferExpr(e.Left, scope)
		for _, cmp := range e.Comparators {
			c.inferExpr(cmp, scope)
		}
		return Bool

	case ast.ExprCall:
		return c.inferCall(e, scope)
	case ast.ExprAttribute:
		c.inferExpr(e.Value, scope)
		return Unknown
	case ast.ExprSubscript:
		return c.inferSubscript(e, scope)
	case ast.ExprSlice:
		c.inferExpr(e.Lower, scope)
		c.inferExpr(e.Upper, scope)
		c.inferExpr(e.Step, scope)
		return Unknown

	case ast.ExprLambda:
		return c.inferLambda(e, scope)
	case ast.ExprIfExp:
		bodyType := c.inferExpr(e.Body, scope)
		c.inferExpr(e.Test, scope)
		orelseType := c.inferExpr(e.OrElse, scope)
		if bodyType.Equal(orelseType) {
			return bodyType
		}
		return Unknown
	case ast.ExprNamedExpr:
		valType := c.inferExpr(e.Value, scope)
		if e.Target != nil && e.Target.Kind == ast.ExprIdentifier {
			if sym, ok := c.st.Lookup(scope, e.Target.Name); ok {
				sym.Type = valType
			}
		}
		return valType
	case ast.ExprStarred:
		c.inferExpr(e.Operand, scope)
		return Unknown
	case ast.ExprAwait:
		c.inferExpr(e.Operand, scope)
		return Unknown
	case ast.ExprYield, ast.ExprYieldFrom:
		if e.Operand != nil {
			c.inferExpr(e.Operand, scope)
		}
		return Unknown
	}
	return Unknown
}

func (c *context) inferAll(elems []*ast.Expr, scope int) []*Type {
	out := make([]*Type, len(elems))
	for i, el := range elems {
		out[i] = c.inferExpr(el, scope)
	}
	return out
}

// homogeneous implements the "if all infer to the same non-Unknown T"
// rule shared by List/Set literal inference.
func homogeneous(types []*Type) *Type {
	if len(types) == 0 {
		return Unknown
	}
	first := types[0]
	if first.Kind == KindUnknown {
		return Unknown
	}
	for _, t := range types[1:] {
		if !t.Equal(first) {
			return Unknown
		}
	}
	return first
}

func (c *context) inferDict(e *ast.Expr, scope int) *Type {
	if len(e.Keys) == 0 {
		return DictOf(Unknown, Unknown)
	}
	var keyTypes, valTypes []*Type
	for i := range e.Keys {
		if e.Keys[i] == nil {
			// `**mapping` unpacking entry: resolve the value for
			// diagnostics but it contributes no single key/value type.
			c.inferExpr(e.Values[i], scope)
			continue
		}
		keyTypes = append(keyTypes, c.inferExpr(e.Keys[i], scope))
		valTypes = append(valTypes, c.inferExpr(e.Values[i], scope))
	}
	if len(keyTypes) == 0 {
		return DictOf(Unknown, Unknown)
	}
	return DictOf(homogeneous(keyTypes), homogeneous(valTypes))
}

// inferComprehension handles the List/Set/Generator comprehension
// shared shape: a fresh Local scope scoped to the generator chain, the
// first generator's iterable resolved in the outer scope, each target
// bound as a Variable, filters and element resolved against the
// comprehension scope. Comprehension-bound names do not leak: the
// pushed scope is never attached to any enclosing node.
func (c *context) inferComprehension(e *ast.Expr, scope int) *Type {
	inner := c.st.Push(ScopeLocal, scope)
	for i, gen := range e.Generators {
		iterScope := scope
		if i > 0 {
			iterScope = inner
		}
		c.inferExpr(gen.Iter, iterScope)
		for _, name := range targetNames(gen.Target) {
			c.st.Define(inner, &Symbol{Name: name, Kind: SymVariable, DefSpan: gen.Target.Span, Type: Unknown})
		}
		for _, f := range gen.Ifs {
			c.inferExpr(f, inner)
		}
	}
	return c.inferExpr(e.Element, inner)
}

func (c *context) inferDictComp(e *ast.Expr, scope int) *Type {
	inner := c.st.Push(ScopeLocal, scope)
	for i, gen := range e.Generators {
		iterScope := scope
		if i > 0 {
			iterScope = inner
		}
		c.inferExpr(gen.Iter, iterScope)
		for _, name := range targetNames(gen.Target) {
			c.st.Define(inner, &Symbol{Name: name, Kind: SymVariable, DefSpan: gen.Target.Span, Type: Unknown})
		}
		for _, f := range gen.Ifs {
			c.inferExpr(f, inner)
		}
	}
	var keyType, valType *Type = Unknown, Unknown
	if len(e.Keys) > 0 {
		keyType = c.inferExpr(e.Keys[0], inner)
	}
	if len(e.Values) > 0 {
		valType = c.inferExpr(e.Values[0], inner)
	}
	return DictOf(keyType, valType)
}

func (c *context) inferLambda(e *ast.Expr, scope int) *Type {
	if e.Params != nil {
		for _, p := range e.Params.Args {
			if p.Default != nil {
				c.inferExpr(p.Default, scope)
			}
		}
	}
	inner := c.st.Push(ScopeFunction, scope)
	if e.Params != nil {
		for _, p := range e.Params.Args {
			c.st.Define(inner, &Symbol{Name: p.Name, Kind: SymParameter, DefSpan: p.Span, Type: Unknown})
		}
		if e.Params.Vararg != nil {
			c.st.Define(inner, &Symbol{Name: e.Params.Vararg.Name, Kind: SymParameter, DefSpan: e.Params.Vararg.Span, Type: ListOf(Unknown)})
		}
		for _, p := range e.Params.KwOnly {
			c.st.Define(inner, &Symbol{Name: p.Name, Kind: SymParameter, DefSpan: p.Span, Type: Unknown})
		}
		if e.Params.Kwarg != nil {
			c.st.Define(inner, &Symbol{Name: e.Params.Kwarg.Name, Kind: SymParameter, DefSpan: e.Params.Kwarg.Span, Type: DictOf(Str, Unknown)})
		}
	}
	c.inferExpr(e.Body, inner)
	return FuncOf(Unknown)
}

func (c *context) inferBinOp(e *ast.Expr, scope int) *Type {
	left := c.inferExpr(e.Left, scope)
	right := c.inferExpr(e.Right, scope)
	switch e.BinOp {
	case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpFloorDiv, ast.OpMod, ast.OpPow:
		if left.Kind == KindUnknown || right.Kind == KindUnknown {
			return Unknown
		}
		if left.Kind == KindInt && right.Kind == KindInt {
			return Int
		}
		if left.Kind == KindFloat && right.Kind == KindFloat {
			return Float
		}
		if (left.Kind == KindInt && right.Kind == KindFloat) || (left.Kind == KindFloat && right.Kind == KindInt) {
			return Float
		}
		if left.Kind == KindStr && right.Kind == KindStr && e.BinOp == ast.OpAdd {
			return Str
		}
		c.report(silkerrors.NewIncompatibleTypes(e.Span, "numeric or str", left.String()+" "+binOpSymbol(e.BinOp)+" "+right.String()))
		return Unknown
	case ast.OpLShift, ast.OpRShift, ast.OpBitAnd, ast.OpBitOr, ast.OpBitXor:
		if left.Kind == KindUnknown || right.Kind == KindUnknown {
			return Unknown
		}
		if left.Kind == KindInt && right.Kind == KindInt {
			return Int
		}
		c.report(silkerrors.NewIncompatibleTypes(e.Span, "int", left.String()+" "+binOpSymbol(e.BinOp)+" "+right.String()))
		return Unknown
	}
	return Unknown
}

func binOpSymbol(op ast.BinOperator) string {
	switch op {
	case ast.OpAdd:
		return "+"
	case ast.OpSub:
		return "-"
	case ast.OpMul:
		return "*"
	case ast.OpDiv:
		return "/"
	case ast.OpFloorDiv:
		return "//"
	case ast.OpMod:
		return "%"
	case ast.OpPow:
		return "**"
	case ast.OpLShift:
		return "<<"
	case ast.OpRShift:
		return ">>"
	case ast.OpBitAnd:
		return "&"
	case ast.OpBitOr:
		return "|"
	case ast.OpBitXor:
		return "^"
	default:
		return "?"
	}
}

func (c *context) inferUnaryOp(e *ast.Expr, scope int) *Type {
	operand := c.inferExpr(e.Operand, scope)
	switch e.UnaryOp {
	case ast.OpNot:
		return Bool
	case ast.OpUAdd, ast.OpUSub:
		if operand.Kind == KindInt || operand.Kind == KindFloat || operand.Kind == KindUnknown {
			return operand
		}
		c.report(silkerrors.NewIncompatibleTypes(e.Span, "numeric", operand.String()))
		return Unknown
	case ast.OpInvert:
		if operand.Kind == KindInt || operand.Kind == KindUnknown {
			if operand.Kind == KindUnknown {
				return Unknown
			}
			return Int
		}
		c.report(silkerrors.NewIncompatibleTypes(e.Span, "int", operand.String()))
		return Unknown
	}
	return Unknown
}

func (c *context) inferCall(e *ast.Expr, scope int) *Type {
	var sym *Symbol
	var funcType *Type
	if e.Func.Kind == ast.ExprIdentifier {
		if s, ok := c.st.Lookup(scope, e.Func.Name); ok {
			s.Used = true
			sym = s
			funcType = s.Type
		} else {
			c.report(silkerrors.NewUndefinedName(e.Func.Span, e.Func.Name))
			funcType = Unknown
		}
	} else {
		funcType = c.inferExpr(e.Func, scope)
	}

	argTypes := c.inferAll(e.Args, scope)
	for _, kw := range e.Keywords {
		c.inferExpr(kw.Value, scope)
	}

	if sym != nil && sym.Kind == SymFunction && sym.Params != nil {
		variadic := sym.Params.Vararg != nil || sym.Params.Kwarg != nil
		if !variadic && len(e.Args) != len(sym.Params.Args) {
			c.report(silkerrors.NewWrongArgumentCount(e.Span, strconv.Itoa(len(sym.Params.Args)), strconv.Itoa(len(e.Args))))
		} else {
			for i, want := range sym.Params.Args {
				if i >= len(argTypes) || want.Annotation == nil {
					continue
				}
				wantType := typeFromAnnotation(want.Annotation)
				if !argTypes[i].IsCompatibleWith(wantType) {
					c.report(silkerrors.NewWrongArgumentType(e.Span, wantType.String(), argTypes[i].String()))
				}
			}
		}
	}

	if funcType != nil && funcType.Kind != KindFunction && funcType.Kind != KindUnknown && funcType.Kind != KindAny {
		c.report(silkerrors.NewNotCallable(e.Span, funcType.String()))
		return Unknown
	}
	if funcType != nil && funcType.Kind == KindFunction {
		return funcType.Return
	}
	return Unknown
}

func (c *context) inferSubscript(e *ast.Expr, scope int) *Type {
	valType := c.inferExpr(e.Value, scope)
	if e.Index != nil && e.Index.Kind == ast.ExprSlice {
		c.inferExpr(e.Index.Lower, scope)
		c.inferExpr(e.Index.Upper, scope)
		c.inferExpr(e.Index.Step, scope)
		if !valType.IsIndexable() {
			c.report(silkerrors.NewNotIndexable(e.Span, valType.String()))
			return Unknown
		}
		return valType
	}
	idxType := c.inferExpr(e.Index, scope)
	if !valType.IsIndexable() {
		c.report(silkerrors.NewNotIndexable(e.Span, valType.String()))
		return Unknown
	}
	switch valType.Kind {
	case KindList:
		c.checkIndexType(e, idxType, Int)
		return valType.Elem
	case KindDict:
		c.checkIndexType(e, idxType, valType.Key)
		return valType.Value
	case KindStr:
		c.checkIndexType(e, idxType, Int)
		return Str
	case KindTuple:
		c.checkIndexType(e, idxType, Int)
		if e.Index != nil && e.Index.Kind == ast.ExprInt {
			if n, err := strconv.Atoi(e.Index.NumberText); err == nil && n >= 0 && n < len(valType.Elems) {
				return valType.Elems[n]
			}
		}
		return Unknown
	default:
		return Unknown
	}
}

// checkIndexType verifies a subscript's index expression against the
// container's expected index type (Int for sequences and str, the
// declared key type for dicts).
func (c *context) checkIndexType(e *ast.Expr, got, want *Type) {
	if want == nil {
		return
	}
	if !got.IsCompatibleWith(want) {
		c.report(silkerrors.NewIncompatibleTypes(e.Span, want.String(), got.String()))
	}
}
