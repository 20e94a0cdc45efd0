package sema

// builtinReturnTypes lists the pre-defined function symbols seeded
// into every global scope: fixed return types, no declared parameter
// list (so call-site argument-count/type checks never fire for them).
var builtinReturnTypes = map[string]*Type{
	"len":   Int,
	"str":   Str,
	"int":   Int,
	"float": Float,
	"bool":  Bool,
	"print": NoneT,
	"input": Str,
	"range": Unknown,
	"open":  Unknown,
}

func newBuiltinSymbol(name string) *Symbol {
	ret, ok := builtinReturnTypes[name]
	if !ok {
		return nil
	}
	return &Symbol{Name: name, Kind: SymFunction, Type: FuncOf(ret), IsBuiltin: true}
}

// builtinNames lists every pre-seeded global in a stable order, used by
// collectProgram to populate the root scope before any user code runs.
var builtinNames = []string{"len", "str", "int", "float", "bool", "print", "input", "range", "open"}
