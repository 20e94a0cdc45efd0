package sema

import "github.com/silk-lang/silk/pkgs/ast"

// typeFromAnnotation interprets a type-annotation expression (parsed by
// the parser as a plain Expr, per this implementation's choice to reuse
// the expression grammar for annotations rather than add a distinct
// Type-annotation AST — see DESIGN.md) into the InferredType lattice.
//
// Named types (int/float/str/bool/None/Any) map directly. Generic forms
// (List[T], Set[T], Dict[K, V], Tuple[T, ...]) map to their lattice
// constructor. Forms the lattice has no member for — unions (T | U),
// Optional[T], Callable[[...], R]'s parameter list, Literal[...],
// unknown class names used as types — collapse to Unknown, which is
// always a safe (if imprecise) answer in a gradual-typing lattice.
func typeFromAnnotation(e *ast.Expr) *Type {
	if e == nil {
		return Unknown
	}
	switch e.Kind {
	case ast.ExprNone:
		return NoneT
	case ast.ExprIdentifier:
		switch e.Name {
		case "int":
			return Int
		case "float":
			return Float
		case "str":
			return Str
		case "bool":
			return Bool
		case "None":
			return NoneT
		case "Any":
			return AnyT
		default:
			return Unknown
		}
	case ast.ExprSubscript:
		base := e.Value
		if base == nil || base.Kind != ast.ExprIdentifier {
			return Unknown
		}
		switch base.Name {
		case "List", "list":
			return ListOf(typeFromAnnotation(e.Index))
		case "Set", "set":
			return SetOf(typeFromAnnotation(e.Index))
		case "Dict", "dict":
			if e.Index != nil && e.Index.Kind == ast.ExprTuple && len(e.Index.Elements) == 2 {
				return DictOf(typeFromAnnotation(e.Index.Elements[0]), typeFromAnnotation(e.Index.Elements[1]))
			}
			return DictOf(Unknown, Unknown)
		case "Tuple", "tuple":
			if e.Index != nil && e.Index.Kind == ast.ExprTuple {
				elems := make([]*Type, len(e.Index.Elements))
				for i, el := range e.Index.Elements {
					elems[i] = typeFromAnnotation(el)
				}
				return TupleOf(elems...)
			}
			return TupleOf(typeFromAnnotation(e.Index))
		case "Optional":
			// Optional[T] admits None in addition to T; the lattice has
			// no union member, so this collapses to Unknown rather than
			// silently dropping the None arm.
			return Unknown
		case "Callable":
			if e.Index != nil && e.Index.Kind == ast.ExprTuple && len(e.Index.Elements) == 2 {
				return FuncOf(typeFromAnnotation(e.Index.Elements[1]))
			}
			return FuncOf(Unknown)
		case "Literal":
			return Unknown
		default:
			return Unknown
		}
	case ast.ExprBinOp:
		// `T | U` union annotation syntax; no union member in the
		// lattice, so collapse to Unknown (still safely compatible
		// with both arms via the Unknown escape hatch).
		return Unknown
	default:
		return Unknown
	}
}
