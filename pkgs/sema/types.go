// Package sema implements Silk's multi-pass semantic analyzer over the
// AST package's spanned tagged unions: symbol collection with
// forward-reference hoisting, name resolution with gradual type
// inference, and control-flow analysis (reachability, definite
// assignment, return-path completeness, usage tracking). All passes
// share one mutable context and accumulate diagnostics rather than
// aborting on the first finding.
package sema

import "strings"

// TypeKind selects which of a Type's fields are meaningful.
type TypeKind int

const (
	KindInt TypeKind = iota
	KindFloat
	KindStr
	KindBool
	KindNone
	KindAny
	KindUnknown
	KindList
	KindSet
	KindTuple
	KindDict
	KindFunction
)

// Type is a recursive tagged-union inferred type. Unknown is the
// gradual-typing unit: compatible with every other type in both
// directions.
type Type struct {
	Kind TypeKind

	Elem *Type // KindList, KindSet: element type

	Elems []*Type // KindTuple: positional element types

	Key   *Type // KindDict
	Value *Type // KindDict

	Return *Type // KindFunction
}

// Singleton primitive types. Never mutate through these pointers —
// collection constructors below always allocate fresh wrappers, but a
// caller that wanted to e.g. change Int.Kind in place would corrupt
// every inferred Int expression in the program.
var (
	Int     = &Type{Kind: KindInt}
	Float   = &Type{Kind: KindFloat}
	Str     = &Type{Kind: KindStr}
	Bool    = &Type{Kind: KindBool}
	NoneT   = &Type{Kind: KindNone}
	AnyT    = &Type{Kind: KindAny}
	Unknown = &Type{Kind: KindUnknown}
)

// ListOf, SetOf, TupleOf, DictOf, FuncOf construct the parameterized
// members of the lattice.
func ListOf(elem *Type) *Type       { return &Type{Kind: KindList, Elem: orUnknown(elem)} }
func SetOf(elem *Type) *Type        { return &Type{Kind: KindSet, Elem: orUnknown(elem)} }
func TupleOf(elems ...*Type) *Type  { return &Type{Kind: KindTuple, Elems: elems} }
func DictOf(key, val *Type) *Type   { return &Type{Kind: KindDict, Key: orUnknown(key), Value: orUnknown(val)} }
func FuncOf(ret *Type) *Type        { return &Type{Kind: KindFunction, Return: orUnknown(ret)} }

func orUnknown(t *Type) *Type {
	if t == nil {
		return Unknown
	}
	return t
}

// String renders a type the way a diagnostic message would name it.
func (t *Type) String() string {
	if t == nil {
		return "Unknown"
	}
	switch t.Kind {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindStr:
		return "str"
	case KindBool:
		return "bool"
	case KindNone:
		return "None"
	case KindAny:
		return "Any"
	case KindUnknown:
		return "Unknown"
	case KindList:
		return "List[" + t.Elem.String() + "]"
	case KindSet:
		return "Set[" + t.Elem.String() + "]"
	case KindTuple:
		parts := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			parts[i] = e.String()
		}
		return "Tuple[" + strings.Join(parts, ", ") + "]"
	case KindDict:
		return "Dict[" + t.Key.String() + ", " + t.Value.String() + "]"
	case KindFunction:
		return "Function[" + t.Return.String() + "]"
	default:
		return "Unknown"
	}
}

// Equal is structural equality, used where the inference rules ask for
// "the same type T" (e.g. every list element agreeing).
func (t *Type) Equal(o *Type) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case KindList, KindSet:
		return t.Elem.Equal(o.Elem)
	case KindDict:
		return t.Key.Equal(o.Key) && t.Value.Equal(o.Value)
	case KindTuple:
		if len(t.Elems) != len(o.Elems) {
			return false
		}
		for i := range t.Elems {
			if !t.Elems[i].Equal(o.Elems[i]) {
				return false
			}
		}
		return true
	case KindFunction:
		return t.Return.Equal(o.Return)
	default:
		return true
	}
}

// IsCompatibleWith reports whether a value of type t may be used where
// a value of type o is expected (the assignment/argument/return
// direction: source.IsCompatibleWith(target)). Unknown and Any are
// compatible with everything in both directions; int widens into
// float, never the reverse; collections require structural match.
func (t *Type) IsCompatibleWith(o *Type) bool {
	if t == nil || o == nil {
		return true
	}
	if t.Kind == KindUnknown || o.Kind == KindUnknown {
		return true
	}
	if t.Kind == KindAny || o.Kind == KindAny {
		return true
	}
	if t.Kind == KindInt && o.Kind == KindFloat {
		return true
	}
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case KindFunction:
		return t.Return.IsCompatibleWith(o.Return)
	case KindList, KindSet:
		return t.Elem.IsCompatibleWith(o.Elem)
	case KindDict:
		return t.Key.IsCompatibleWith(o.Key) && t.Value.IsCompatibleWith(o.Value)
	case KindTuple:
		if len(t.Elems) != len(o.Elems) {
			return false
		}
		for i := range t.Elems {
			if !t.Elems[i].IsCompatibleWith(o.Elems[i]) {
				return false
			}
		}
		return true
	default:
		return true // same primitive Kind
	}
}

// IsIndexable reports whether subscripting (x[i]) is legal for t.
func (t *Type) IsIndexable() bool {
	switch t.Kind {
	case KindList, KindTuple, KindDict, KindStr, KindUnknown, KindAny:
		return true
	default:
		return false
	}
}
