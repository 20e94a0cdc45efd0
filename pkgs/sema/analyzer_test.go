package sema

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/silk-lang/silk/pkgs/parser"
	silkerrors "github.com/silk-lang/silk/pkgs/errors"
)

func analyze(t *testing.T, source string, opts AnalysisOptions) []silkerrors.Diagnostic {
	t.Helper()
	prog, err := parser.Parse(source)
	if err != nil {
		t.Fatalf("Parse(%q) returned error: %v", source, err)
	}
	_, diags := Analyze(prog, opts)
	return diags
}

func kinds(diags []silkerrors.Diagnostic) []silkerrors.DiagnosticKind {
	out := make([]silkerrors.DiagnosticKind, len(diags))
	for i, d := range diags {
		out[i] = d.Kind
	}
	return out
}

func TestAnalyzeUndefinedName(t *testing.T) {
	diags := analyze(t, "x = y\n", AnalysisOptions{ControlFlowEnabled: false})
	if diff := cmp.Diff([]silkerrors.DiagnosticKind{silkerrors.UndefinedName}, kinds(diags)); diff != "" {
		t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
	}
}

func TestAnalyzeForwardReferenceSucceeds(t *testing.T) {
	src := "def a() -> int:\n    return b()\ndef b() -> int:\n    return 1\n"
	diags := analyze(t, src, AnalysisOptions{ControlFlowEnabled: false})
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics for mutually-forward-referencing top-level functions, got %v", diags)
	}
}

func TestAnalyzeTypeMismatchAccumulatesInSourceOrder(t *testing.T) {
	src := "a: int = 1.5\nb: str = 2\nc: bool = \"x\"\n"
	diags := analyze(t, src, AnalysisOptions{ControlFlowEnabled: false})
	got := kinds(diags)
	want := []silkerrors.DiagnosticKind{
		silkerrors.IncompatibleTypes,
		silkerrors.IncompatibleTypes,
		silkerrors.IncompatibleTypes,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
	}
	for i := 0; i+1 < len(diags); i++ {
		a, b := diags[i].Span, diags[i+1].Span
		if a.Line > b.Line || (a.Line == b.Line && a.Column > b.Column) {
			t.Errorf("diagnostics out of source order: %v before %v", a, b)
		}
	}
}

func TestAnalyzeIntWidensToFloatButNotReverse(t *testing.T) {
	diags := analyze(t, "a: float = 1\n", AnalysisOptions{ControlFlowEnabled: false})
	if len(diags) != 0 {
		t.Fatalf("expected int->float widening to succeed, got %v", diags)
	}
	diags = analyze(t, "a: int = 1.0\n", DefaultAnalysisOptions())
	found := false
	for _, d := range diags {
		if d.Kind == silkerrors.IncompatibleTypes {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected float->int to be incompatible, got %v", diags)
	}
}

func TestAnalyzeUnreachableAfterReturn(t *testing.T) {
	src := "def f() -> int:\n    return 1\n    x = 2\n"
	diags := analyze(t, src, DefaultAnalysisOptions())
	found := false
	for _, d := range diags {
		if d.Kind == silkerrors.UnreachableCode {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected UnreachableCode after an unconditional return, got %v", diags)
	}
}

func TestAnalyzeUseBeforeInitialization(t *testing.T) {
	src := "def f() -> int:\n    if True:\n        x = 1\n    return x\n"
	diags := analyze(t, src, DefaultAnalysisOptions())
	found := false
	for _, d := range diags {
		if d.Kind == silkerrors.UseBeforeInitialization {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected UseBeforeInitialization for a variable only assigned on one branch, got %v", diags)
	}
}

func TestAnalyzeDefiniteAssignmentBothBranches(t *testing.T) {
	src := "def f(flag: bool) -> int:\n    if flag:\n        x = 1\n    else:\n        x = 2\n    return x\n"
	diags := analyze(t, src, DefaultAnalysisOptions())
	for _, d := range diags {
		if d.Kind == silkerrors.UseBeforeInitialization {
			t.Fatalf("did not expect UseBeforeInitialization when both branches assign, got %v", diags)
		}
	}
}

func TestAnalyzeMissingReturnOnPath(t *testing.T) {
	src := "def f(flag: bool) -> int:\n    if flag:\n        return 1\n"
	diags := analyze(t, src, DefaultAnalysisOptions())
	found := false
	for _, d := range diags {
		if d.Kind == silkerrors.MissingReturnOnPath {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected MissingReturnOnPath when only one branch returns, got %v", diags)
	}
}

func TestAnalyzeUnusedVariableGatedByControlFlow(t *testing.T) {
	src := "def f() -> None:\n    x = 1\n"
	withFlow := analyze(t, src, AnalysisOptions{ControlFlowEnabled: true})
	foundWith := false
	for _, d := range withFlow {
		if d.Kind == silkerrors.UnusedVariable {
			foundWith = true
		}
	}
	if !foundWith {
		t.Fatalf("expected UnusedVariable with control flow enabled, got %v", withFlow)
	}

	withoutFlow := analyze(t, src, AnalysisOptions{ControlFlowEnabled: false})
	for _, d := range withoutFlow {
		if d.Kind == silkerrors.UnusedVariable {
			t.Fatalf("did not expect UnusedVariable with control flow disabled, got %v", withoutFlow)
		}
	}
}

func TestAnalyzeBuiltinShadowingIsNotRedefinition(t *testing.T) {
	src := "len = 5\n"
	diags := analyze(t, src, DefaultAnalysisOptions())
	for _, d := range diags {
		if d.Kind == silkerrors.RedefinedSymbol {
			t.Fatalf("shadowing a builtin should not report RedefinedSymbol, got %v", diags)
		}
	}
}

func TestAnalyzeBreakOutsideLoop(t *testing.T) {
	diags := analyze(t, "break\n", DefaultAnalysisOptions())
	found := false
	for _, d := range diags {
		if d.Kind == silkerrors.BreakOutsideLoop {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected BreakOutsideLoop at module scope, got %v", diags)
	}
}

func TestAnalyzeUnusedParameterIsReported(t *testing.T) {
	src := "def f(a: int, b: int) -> int:\n    return a\n"
	diags := analyze(t, src, DefaultAnalysisOptions())
	found := false
	for _, d := range diags {
		if d.Kind == silkerrors.UnusedVariable {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected UnusedVariable for unused parameter b, got %v", diags)
	}
}

func TestAnalyzeUnusedTopLevelClassIsReported(t *testing.T) {
	diags := analyze(t, "class Dog:\n    pass\n", DefaultAnalysisOptions())
	found := false
	for _, d := range diags {
		if d.Kind == silkerrors.UnusedFunction {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected UnusedFunction for an unused top-level class, got %v", diags)
	}
}

func TestAnalyzeNestedFunctionAndClassAreNotReportedUnused(t *testing.T) {
	src := "def outer() -> None:\n    def inner() -> None:\n        pass\n    class Helper:\n        pass\nouter()\n"
	diags := analyze(t, src, DefaultAnalysisOptions())
	for _, d := range diags {
		if d.Kind == silkerrors.UnusedFunction {
			t.Fatalf("did not expect UnusedFunction for a locally-nested function/class, got %v", diags)
		}
	}
}

func TestAnalyzeWrongArgumentCount(t *testing.T) {
	src := "def f(a: int, b: int) -> int:\n    return a + b\nf(1)\n"
	diags := analyze(t, src, DefaultAnalysisOptions())
	found := false
	for _, d := range diags {
		if d.Kind == silkerrors.WrongArgumentCount {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected WrongArgumentCount, got %v", diags)
	}
}

func TestAnalyzeUnreachableCodeNamesDivergingStatement(t *testing.T) {
	src := "def f() -> int:\n    return 1\n    x = 2\n"
	diags := analyze(t, src, DefaultAnalysisOptions())
	for _, d := range diags {
		if d.Kind == silkerrors.UnreachableCode {
			if d.Name != "return" {
				t.Fatalf("expected the diagnostic to name the diverging statement %q, got %q", "return", d.Name)
			}
			return
		}
	}
	t.Fatalf("expected UnreachableCode, got %v", diags)
}

func TestAnalyzeModuleLevelUseBeforeInitialization(t *testing.T) {
	src := "print(x)\nx = 1\n"
	diags := analyze(t, src, DefaultAnalysisOptions())
	found := false
	for _, d := range diags {
		if d.Kind == silkerrors.UseBeforeInitialization && d.Name == "x" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected UseBeforeInitialization for a top-level read before assignment, got %v", diags)
	}
}

func TestAnalyzeWalrusInitializesItsTarget(t *testing.T) {
	src := "def f(xs: int) -> int:\n    if (n := xs) > 0:\n        return n\n    return 0\n"
	diags := analyze(t, src, DefaultAnalysisOptions())
	for _, d := range diags {
		if d.Kind == silkerrors.UseBeforeInitialization {
			t.Fatalf("did not expect UseBeforeInitialization for a walrus-bound name, got %v", diags)
		}
	}
}

func TestAnalyzeSubscriptIndexType(t *testing.T) {
	src := "xs: List[int] = [1, 2]\ny = xs[\"a\"]\n"
	diags := analyze(t, src, AnalysisOptions{ControlFlowEnabled: false})
	found := false
	for _, d := range diags {
		if d.Kind == silkerrors.IncompatibleTypes {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected IncompatibleTypes for a str index into a List[int], got %v", diags)
	}
}

func TestAnalyzeWhileTrueWithoutBreakDiverges(t *testing.T) {
	src := "def f() -> int:\n    while True:\n        pass\n"
	diags := analyze(t, src, DefaultAnalysisOptions())
	for _, d := range diags {
		if d.Kind == silkerrors.MissingReturnOnPath {
			t.Fatalf("an infinite loop satisfies return-path completeness, got %v", diags)
		}
	}
}

func TestAnalyzeReturnOutsideFunction(t *testing.T) {
	diags := analyze(t, "return 1\n", AnalysisOptions{ControlFlowEnabled: false})
	found := false
	for _, d := range diags {
		if d.Kind == silkerrors.ReturnOutsideFunction {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected ReturnOutsideFunction at module scope, got %v", diags)
	}
}

func TestAnalyzeComprehensionNamesDoNotLeak(t *testing.T) {
	src := "xs: List[int] = [1]\nys = [v * 2 for v in xs]\nprint(v)\n"
	diags := analyze(t, src, AnalysisOptions{ControlFlowEnabled: false})
	found := false
	for _, d := range diags {
		if d.Kind == silkerrors.UndefinedName && d.Name == "v" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected the comprehension-bound name to be undefined outside it, got %v", diags)
	}
}
