package ast

import "github.com/silk-lang/silk/pkgs/token"

// The functions below are small node constructors: each fills in Kind
// and the handful of fields that matter for that node, leaving
// everything else zero. They exist for parser and test ergonomics;
// nothing requires going through them.

func Ident(name string, span token.Span) *Expr {
	return &Expr{Kind: ExprIdentifier, Name: name, Span: span}
}

func IntLit(text string, span token.Span) *Expr {
	return &Expr{Kind: ExprInt, NumberText: text, Span: span}
}

func FloatLit(text string, span token.Span) *Expr {
	return &Expr{Kind: ExprFloat, NumberText: text, Span: span}
}

func StringLit(value string, span token.Span) *Expr {
	return &Expr{Kind: ExprString, StringValue: value, Span: span}
}

func BoolLit(v bool, span token.Span) *Expr {
	return &Expr{Kind: ExprBool, BoolValue: v, Span: span}
}

func NoneLit(span token.Span) *Expr {
	return &Expr{Kind: ExprNone, Span: span}
}

func Binary(op BinOperator, left, right *Expr, span token.Span) *Expr {
	return &Expr{Kind: ExprBinOp, BinOp: op, Left: left, Right: right, Span: span}
}

func Unary(op UnaryOperator, operand *Expr, span token.Span) *Expr {
	return &Expr{Kind: ExprUnaryOp, UnaryOp: op, Operand: operand, Span: span}
}

func Compare(left *Expr, ops []CompareOperator, comparators []*Expr, span token.Span) *Expr {
	return &Expr{Kind: ExprCompare, Left: left, CompareOps: ops, Comparators: comparators, Span: span}
}

func Call(fn *Expr, args []*Expr, keywords []CallKeyword, span token.Span) *Expr {
	return &Expr{Kind: ExprCall, Func: fn, Args: args, Keywords: keywords, Span: span}
}

func ExprStatement(e *Expr) *Stmt {
	return &Stmt{Kind: StmtExpr, Expression: e, Span: e.Span}
}

func Assign(targets []*Expr, value *Expr, span token.Span) *Stmt {
	return &Stmt{Kind: StmtAssign, Targets: targets, Value: value, Span: span}
}

func Return(value *Expr, span token.Span) *Stmt {
	return &Stmt{Kind: StmtReturn, Expression: value, Span: span}
}

func If(test *Expr, body, orelse []*Stmt, span token.Span) *Stmt {
	return &Stmt{Kind: StmtIf, Test: test, Body: body, Orelse: orelse, Span: span}
}

func NewProgram(statements []*Stmt, span token.Span) *Program {
	return &Program{Statements: statements, Span: span}
}
