package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/silk-lang/silk/pkgs/ast"
)

func parse(t *testing.T, source string) *ast.Program {
	t.Helper()
	prog, err := Parse(source)
	if err != nil {
		t.Fatalf("Parse(%q) returned error: %v", source, err)
	}
	return prog
}

func mustErr(t *testing.T, source string) {
	t.Helper()
	if _, err := Parse(source); err == nil {
		t.Fatalf("Parse(%q): expected an error, got none", source)
	}
}

func TestParseSimpleAssignment(t *testing.T) {
	prog := parse(t, "x = 1\n")
	if len(prog.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Statements))
	}
	s := prog.Statements[0]
	if s.Kind != ast.StmtAssign {
		t.Fatalf("expected StmtAssign, got %v", s.Kind)
	}
	if len(s.Targets) != 1 || s.Targets[0].Name != "x" {
		t.Fatalf("unexpected targets: %+v", s.Targets)
	}
	if s.Value.Kind != ast.ExprInt || s.Value.NumberText != "1" {
		t.Fatalf("unexpected value: %+v", s.Value)
	}
}

func TestParseBinOpPrecedence(t *testing.T) {
	// 1 + 2 * 3 must bind as 1 + (2 * 3), not (1 + 2) * 3.
	prog := parse(t, "x = 1 + 2 * 3\n")
	value := prog.Statements[0].Value
	if value.Kind != ast.ExprBinOp || value.BinOp != ast.OpAdd {
		t.Fatalf("expected top-level Add, got %+v", value)
	}
	if value.Right.Kind != ast.ExprBinOp || value.Right.BinOp != ast.OpMul {
		t.Fatalf("expected right operand to be a Mul, got %+v", value.Right)
	}
}

func TestParseChainedComparison(t *testing.T) {
	// a < b <= c is one Compare node with two operators, not two And-ed nodes.
	prog := parse(t, "x = a < b <= c\n")
	value := prog.Statements[0].Value
	if value.Kind != ast.ExprCompare {
		t.Fatalf("expected ExprCompare, got %v", value.Kind)
	}
	want := []ast.CompareOperator{ast.CmpLt, ast.CmpLtE}
	if diff := cmp.Diff(want, value.CompareOps); diff != "" {
		t.Errorf("CompareOps mismatch (-want +got):\n%s", diff)
	}
	if len(value.Comparators) != 2 {
		t.Fatalf("expected 2 comparators, got %d", len(value.Comparators))
	}
}

func TestParseListLiteralVsComprehension(t *testing.T) {
	lit := parse(t, "x = [1, 2, 3]\n").Statements[0].Value
	if lit.Kind != ast.ExprList || len(lit.Elements) != 3 {
		t.Fatalf("expected a 3-element list literal, got %+v", lit)
	}

	comp := parse(t, "x = [v for v in xs]\n").Statements[0].Value
	if comp.Kind != ast.ExprListComp {
		t.Fatalf("expected ExprListComp, got %v", comp.Kind)
	}
	if len(comp.Generators) != 1 || comp.Generators[0].Target.Name != "v" {
		t.Fatalf("unexpected generators: %+v", comp.Generators)
	}
}

func TestParseDictLiteralVsComprehension(t *testing.T) {
	lit := parse(t, "x = {1: 2, 3: 4}\n").Statements[0].Value
	if lit.Kind != ast.ExprDict || len(lit.Keys) != 2 {
		t.Fatalf("expected a 2-pair dict literal, got %+v", lit)
	}

	comp := parse(t, "x = {k: v for k, v in items}\n").Statements[0].Value
	if comp.Kind != ast.ExprDictComp {
		t.Fatalf("expected ExprDictComp, got %v", comp.Kind)
	}
}

func TestParseMultiGeneratorComprehensionWithFilter(t *testing.T) {
	comp := parse(t, "x = [a for a in xs if a for b in ys if b]\n").Statements[0].Value
	if comp.Kind != ast.ExprListComp {
		t.Fatalf("expected ExprListComp, got %v", comp.Kind)
	}
	if len(comp.Generators) != 2 {
		t.Fatalf("expected 2 generators (nested for), got %d", len(comp.Generators))
	}
	if len(comp.Generators[0].Ifs) != 1 || len(comp.Generators[1].Ifs) != 1 {
		t.Fatalf("expected each generator to carry its own if-filter, got %+v", comp.Generators)
	}
}

func TestParseSliceVsSubscript(t *testing.T) {
	sub := parse(t, "x = a[0]\n").Statements[0].Value
	if sub.Kind != ast.ExprSubscript || sub.Index.Kind == ast.ExprSlice {
		t.Fatalf("expected a plain subscript, got %+v", sub)
	}

	sl := parse(t, "x = a[1:2:3]\n").Statements[0].Value
	if sl.Kind != ast.ExprSubscript || sl.Index.Kind != ast.ExprSlice {
		t.Fatalf("expected a slice subscript, got %+v", sl)
	}
	if sl.Index.Lower == nil || sl.Index.Upper == nil || sl.Index.Step == nil {
		t.Fatalf("expected lower/upper/step all present, got %+v", sl.Index)
	}
}

func TestParseCallKeywordAndPositionalArgs(t *testing.T) {
	call := parse(t, "x = f(1, 2, a=3, b=4)\n").Statements[0].Value
	if call.Kind != ast.ExprCall {
		t.Fatalf("expected ExprCall, got %v", call.Kind)
	}
	if len(call.Args) != 2 {
		t.Fatalf("expected 2 positional args, got %d", len(call.Args))
	}
	if len(call.Keywords) != 2 || call.Keywords[0].Arg != "a" || call.Keywords[1].Arg != "b" {
		t.Fatalf("unexpected keywords: %+v", call.Keywords)
	}
}

func TestParseLambdaWithDefault(t *testing.T) {
	lam := parse(t, "x = lambda a, b=1: a + b\n").Statements[0].Value
	if lam.Kind != ast.ExprLambda {
		t.Fatalf("expected ExprLambda, got %v", lam.Kind)
	}
	if len(lam.Params.Args) != 2 || lam.Params.Args[1].Default == nil {
		t.Fatalf("expected second param to carry a default, got %+v", lam.Params.Args)
	}
}

func TestParseWalrusInIfCondition(t *testing.T) {
	prog := parse(t, "if (n := len(xs)) > 0:\n    y = n\n")
	s := prog.Statements[0]
	if s.Kind != ast.StmtIf {
		t.Fatalf("expected StmtIf, got %v", s.Kind)
	}
	if s.Test.Kind != ast.ExprCompare || s.Test.Left.Kind != ast.ExprNamedExpr {
		t.Fatalf("expected the walrus expr on the left of the comparison, got %+v", s.Test)
	}
	if s.Test.Left.Target.Name != "n" {
		t.Fatalf("expected walrus target %q, got %q", "n", s.Test.Left.Target.Name)
	}
}

func TestParseWalrusRejectsNonIdentifierTarget(t *testing.T) {
	mustErr(t, "if (a.b := 1):\n    pass\n")
}

func TestParseIfElifElse(t *testing.T) {
	src := "if a:\n    x = 1\nelif b:\n    x = 2\nelse:\n    x = 3\n"
	prog := parse(t, src)
	top := prog.Statements[0]
	if top.Kind != ast.StmtIf {
		t.Fatalf("expected StmtIf, got %v", top.Kind)
	}
	if len(top.Orelse) != 1 || top.Orelse[0].Kind != ast.StmtIf {
		t.Fatalf("expected elif to desugar into a single nested If in Orelse, got %+v", top.Orelse)
	}
	elif := top.Orelse[0]
	if len(elif.Orelse) != 1 || elif.Orelse[0].Kind != ast.StmtAssign {
		t.Fatalf("expected the final else body in the elif's Orelse, got %+v", elif.Orelse)
	}
}

func TestParseFunctionDefWithAnnotations(t *testing.T) {
	src := "def add(a: int, b: int) -> int:\n    return a + b\n"
	prog := parse(t, src)
	fn := prog.Statements[0]
	if fn.Kind != ast.StmtFunctionDef || fn.Name != "add" {
		t.Fatalf("expected a FunctionDef named add, got %+v", fn)
	}
	if fn.ReturnType == nil || fn.ReturnType.Name != "int" {
		t.Fatalf("expected return annotation int, got %+v", fn.ReturnType)
	}
	if len(fn.Params.Args) != 2 || fn.Params.Args[0].Annotation == nil {
		t.Fatalf("expected both params annotated, got %+v", fn.Params.Args)
	}
}

func TestParseClassDefWithBases(t *testing.T) {
	prog := parse(t, "class Dog(Animal):\n    pass\n")
	cls := prog.Statements[0]
	if cls.Kind != ast.StmtClassDef || cls.Name != "Dog" {
		t.Fatalf("expected a ClassDef named Dog, got %+v", cls)
	}
	if len(cls.Bases) != 1 || cls.Bases[0].Name != "Animal" {
		t.Fatalf("expected one base Animal, got %+v", cls.Bases)
	}
}

func TestParseForLoop(t *testing.T) {
	prog := parse(t, "for x in xs:\n    y = x\n")
	loop := prog.Statements[0]
	if loop.Kind != ast.StmtFor || loop.Target.Name != "x" || loop.Iter.Name != "xs" {
		t.Fatalf("unexpected for loop: %+v", loop)
	}
}

func TestParseTryExceptFinally(t *testing.T) {
	src := "try:\n    a()\nexcept ValueError as e:\n    b()\nfinally:\n    c()\n"
	prog := parse(t, src)
	tr := prog.Statements[0]
	if tr.Kind != ast.StmtTry {
		t.Fatalf("expected StmtTry, got %v", tr.Kind)
	}
	if len(tr.Handlers) != 1 || tr.Handlers[0].Type.Name != "ValueError" || tr.Handlers[0].Name != "e" {
		t.Fatalf("unexpected handler: %+v", tr.Handlers)
	}
	if len(tr.Finalbody) != 1 {
		t.Fatalf("expected one finally statement, got %d", len(tr.Finalbody))
	}
}

func TestParseWithStatement(t *testing.T) {
	prog := parse(t, "with open(\"f\") as fh:\n    read(fh)\n")
	w := prog.Statements[0]
	if w.Kind != ast.StmtWith {
		t.Fatalf("expected StmtWith, got %v", w.Kind)
	}
	if len(w.Items) != 1 || w.Items[0].OptionalVars.Name != "fh" {
		t.Fatalf("unexpected with items: %+v", w.Items)
	}
}

func TestParseMatchStatement(t *testing.T) {
	src := "match x:\n    case 1:\n        y = 1\n    case _:\n        y = 2\n"
	prog := parse(t, src)
	m := prog.Statements[0]
	if m.Kind != ast.StmtMatch || m.Subject.Name != "x" {
		t.Fatalf("unexpected match: %+v", m)
	}
	if len(m.Cases) != 2 {
		t.Fatalf("expected 2 cases, got %d", len(m.Cases))
	}
}

func TestParseGlobalAndNonlocal(t *testing.T) {
	prog := parse(t, "def f():\n    global x\n    nonlocal y\n")
	fn := prog.Statements[0]
	if len(fn.Body) != 2 {
		t.Fatalf("expected 2 body statements, got %d", len(fn.Body))
	}
	if fn.Body[0].Kind != ast.StmtGlobal || fn.Body[0].Identifiers[0] != "x" {
		t.Fatalf("unexpected global stmt: %+v", fn.Body[0])
	}
	if fn.Body[1].Kind != ast.StmtNonlocal || fn.Body[1].Identifiers[0] != "y" {
		t.Fatalf("unexpected nonlocal stmt: %+v", fn.Body[1])
	}
}

func TestParseImportForms(t *testing.T) {
	prog := parse(t, "import os\nfrom collections import OrderedDict as OD\n")
	imp := prog.Statements[0]
	if imp.Kind != ast.StmtImport || imp.Names[0].Name != "os" {
		t.Fatalf("unexpected import: %+v", imp)
	}
	from := prog.Statements[1]
	if from.Kind != ast.StmtImportFrom || from.Module != "collections" {
		t.Fatalf("unexpected import-from: %+v", from)
	}
	if from.Names[0].Name != "OrderedDict" || from.Names[0].AsName != "OD" {
		t.Fatalf("unexpected aliased name: %+v", from.Names[0])
	}
}

func TestParseAugAssign(t *testing.T) {
	prog := parse(t, "x += 1\n")
	s := prog.Statements[0]
	if s.Kind != ast.StmtAugAssign || s.AugOp != ast.OpAdd {
		t.Fatalf("expected AugAssign with Add, got %+v", s)
	}
}

func TestParseAnnAssignWithoutValue(t *testing.T) {
	prog := parse(t, "x: int\n")
	s := prog.Statements[0]
	if s.Kind != ast.StmtAnnAssign || s.Annotation.Name != "int" || s.Value != nil {
		t.Fatalf("unexpected ann-assign: %+v", s)
	}
}

func TestParseFStringParts(t *testing.T) {
	prog := parse(t, "x = f\"hello {name}!\"\n")
	val := prog.Statements[0].Value
	if val.Kind != ast.ExprFString {
		t.Fatalf("expected ExprFString, got %v", val.Kind)
	}
	var hasExprPart bool
	for _, part := range val.FStringParts {
		if part.IsExpr {
			hasExprPart = true
			if part.Code == nil || part.Code.Name != "name" {
				t.Fatalf("expected the hole to parse to identifier name, got %+v", part.Code)
			}
		}
	}
	if !hasExprPart {
		t.Fatalf("expected at least one expression part, got %+v", val.FStringParts)
	}
}

func TestParseUnexpectedTokenIsError(t *testing.T) {
	mustErr(t, "x = \n")
}

func TestParseUnclosedParenIsError(t *testing.T) {
	mustErr(t, "x = (1 + 2\n")
}

func TestParseSemicolonChainedStatements(t *testing.T) {
	prog := parse(t, "a = 1; b = 2; c = 3\n")
	if len(prog.Statements) != 3 {
		t.Fatalf("expected 3 statements from semicolon-chained line, got %d: %+v", len(prog.Statements), prog.Statements)
	}
	for i, name := range []string{"a", "b", "c"} {
		s := prog.Statements[i]
		if s.Kind != ast.StmtAssign || s.Targets[0].Name != name {
			t.Fatalf("statement %d: expected assignment to %q, got %+v", i, name, s)
		}
	}
}

func TestParseTupleSubscript(t *testing.T) {
	sub := parse(t, "x: Dict[str, int] = {}\n").Statements[0].Annotation
	if sub.Kind != ast.ExprSubscript {
		t.Fatalf("expected a subscripted annotation, got %v", sub.Kind)
	}
	if sub.Index.Kind != ast.ExprTuple || len(sub.Index.Elements) != 2 {
		t.Fatalf("expected a 2-element tuple index, got %+v", sub.Index)
	}
}

func TestParseClassKeywordBases(t *testing.T) {
	prog := parse(t, "class Dog(Animal, metaclass=Meta):\n    pass\n")
	cls := prog.Statements[0]
	if len(cls.Bases) != 1 || cls.Bases[0].Name != "Animal" {
		t.Fatalf("expected one positional base Animal, got %+v", cls.Bases)
	}
	if len(cls.ClassKeywords) != 1 || cls.ClassKeywords[0].Arg != "metaclass" {
		t.Fatalf("expected a metaclass keyword base, got %+v", cls.ClassKeywords)
	}
}

func TestParseAsyncFunctionDef(t *testing.T) {
	prog := parse(t, "async def f():\n    pass\n")
	fn := prog.Statements[0]
	if fn.Kind != ast.StmtFunctionDef || !fn.IsAsync {
		t.Fatalf("expected an async FunctionDef, got %+v", fn)
	}
}

func TestParseBlankLinesInsideBlock(t *testing.T) {
	src := "def f():\n    a = 1\n\n    # comment\n    b = 2\n"
	prog := parse(t, src)
	fn := prog.Statements[0]
	if len(fn.Body) != 2 {
		t.Fatalf("expected 2 body statements across blank/comment lines, got %d", len(fn.Body))
	}
}

func TestParseCompoundStatementSpanCoversBody(t *testing.T) {
	src := "if a:\n    x = 1\n    y = 2\n"
	prog := parse(t, src)
	s := prog.Statements[0]
	last := s.Body[len(s.Body)-1]
	if s.Span.EndByte < last.Span.EndByte {
		t.Fatalf("statement span %+v does not enclose its last body statement %+v", s.Span, last.Span)
	}
}
