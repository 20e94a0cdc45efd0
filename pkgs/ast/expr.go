// Package ast defines Silk's abstract syntax tree as a set of tagged
// unions (a Kind field selecting which of a struct's fields are
// meaningful) rather than one Go interface implementation per node
// type: a discriminated union keeps
// the parser and every analyzer pass working over two closed types
// (Expr, Stmt) instead of a sprawling type switch over dozens of
// concrete types, and keeps zero-value construction cheap in tests.
package ast

import "github.com/silk-lang/silk/pkgs/token"

// ExprKind selects which fields of an Expr are populated.
type ExprKind int

const (
	ExprIdentifier ExprKind = iota
	ExprInt
	ExprFloat
	ExprString
	ExprRawString
	ExprByteString
	ExprFString
	ExprBool
	ExprNone
	ExprNotImplemented
	ExprEllipsis
	ExprList
	ExprTuple
	ExprSet
	ExprDict
	ExprListComp
	ExprSetComp
	ExprDictComp
	ExprGeneratorExp
	ExprBinOp
	ExprUnaryOp
	ExprBoolOp
	ExprCompare
	ExprCall
	ExprAttribute
	ExprSubscript
	ExprSlice
	ExprLambda
	ExprIfExp
	ExprNamedExpr // walrus
	ExprStarred
	ExprAwait
	ExprYield
	ExprYieldFrom
)

// BinOperator enumerates arithmetic/bitwise binary operators (the
// operators that appear in BinOp, not the chained-comparison or boolean
// operators, which get their own node kinds/op sets).
type BinOperator int

const (
	OpAdd BinOperator = iota
	OpSub
	OpMul
	OpDiv
	OpFloorDiv
	OpMod
	OpPow
	OpLShift
	OpRShift
	OpBitAnd
	OpBitOr
	OpBitXor
)

// UnaryOperator enumerates prefix unary operators.
type UnaryOperator int

const (
	OpUAdd UnaryOperator = iota
	OpUSub
	OpInvert // ~
	OpNot
)

// BoolOperator is the short-circuiting and/or operator.
type BoolOperator int

const (
	OpAnd BoolOperator = iota
	OpOr
)

// CompareOperator enumerates the operators usable in a chained
// comparison (a < b <= c is one Compare node with Ops=[Lt,LtE]).
type CompareOperator int

const (
	CmpLt CompareOperator = iota
	CmpLtE
	CmpGt
	CmpGtE
	CmpEq
	CmpNotEq
	CmpIs
	CmpIsNot
	CmpIn
	CmpNotIn
)

// Expr is a tagged-union expression node. Only the fields relevant to
// Kind are populated; the rest are zero values.
type Expr struct {
	Kind ExprKind
	Span token.Span

	// ExprIdentifier, ExprAttribute (Attr name)
	Name string

	// ExprInt, ExprFloat: the token's digit text (`_` separators dropped).
	NumberText string

	// ExprString / ExprRawString / ExprByteString: processed value.
	StringValue string

	// ExprFString
	FStringParts []FStringPart

	// ExprBool
	BoolValue bool

	// ExprList, ExprTuple, ExprSet: element expressions.
	Elements []*Expr

	// ExprDict: parallel Keys/Values; a nil Keys[i] denotes a `**expr`
	// dict-unpacking entry, whose value is Values[i].
	Keys   []*Expr
	Values []*Expr

	// ExprListComp, ExprSetComp, ExprGeneratorExp: element expression.
	// ExprDictComp: key/value pair instead, via Keys[0]/Values[0].
	Element     *Expr
	Generators  []Comprehension

	// ExprBinOp
	BinOp BinOperator
	Left  *Expr
	Right *Expr

	// ExprUnaryOp
	UnaryOp  UnaryOperator
	Operand  *Expr

	// ExprBoolOp
	BoolOp BoolOperator
	// Values reused for BoolOp operand list (2+ operands), and for
	// ExprCompare's Comparators field name below it is not reused.

	// ExprCompare: Left <Ops[0]> Comparators[0] <Ops[1]> Comparators[1] ...
	CompareOps []CompareOperator
	Comparators []*Expr

	// ExprCall
	Func     *Expr
	Args     []*Expr
	Keywords []CallKeyword

	// ExprAttribute: Value.Name
	Value *Expr

	// ExprSubscript: Value[Index] (Index may itself be an ExprSlice)
	Index *Expr

	// ExprSlice: Value[Lower:Upper:Step], any of which may be nil.
	Lower *Expr
	Upper *Expr
	Step  *Expr

	// ExprLambda
	Params *Params
	Body   *Expr

	// ExprIfExp: Body if Test else OrElse
	Test   *Expr
	OrElse *Expr

	// ExprNamedExpr (walrus): Target := Value  (Target.Kind==ExprIdentifier)
	Target *Expr

	// ExprStarred, ExprAwait, ExprYield, ExprYieldFrom: wrapped expr,
	// reuses Operand. ExprYieldFrom/ExprYield may have nil Operand
	// (bare `yield`).
}

// FStringPart mirrors token.FStringPart but with the expression half
// already parsed into an Expr (the lexer only records the source text
// of the hole; the parser re-parses it).
type FStringPart struct {
	IsExpr     bool
	Text       string
	Code       *Expr
	FormatSpec string
	Span       token.Span
}

// Comprehension is one `for target in iter [if cond]*` clause of a
// comprehension or generator expression. Multiple Comprehension values
// chain left to right (nested loops), each optionally filtered by
// multiple `if` clauses.
type Comprehension struct {
	Target  *Expr
	Iter    *Expr
	Ifs     []*Expr
	IsAsync bool
}

// CallKeyword is one `name=value` or `**value` argument in a call.
// Arg == "" with Value non-nil denotes `**value`.
type CallKeyword struct {
	Arg   string
	Value *Expr
	Span  token.Span
}
