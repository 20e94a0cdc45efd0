package ast

import "github.com/silk-lang/silk/pkgs/token"

// PatternKind selects which fields of a Pattern are populated. Patterns
// appear only in `match`/`case` statements.
type PatternKind int

const (
	PatternWildcard PatternKind = iota // `case _:`
	PatternCapture                     // `case name:` (binds name)
	PatternLiteral                     // `case 1:` / `case "x":` / `case None:`
	PatternSequence                    // `case [a, b, *rest]:`
	PatternMapping                     // `case {"k": v, **rest}:`
	PatternClass                       // `case Point(x=0, y=0):`
	PatternOr                          // `case 1 | 2 | 3:`
	PatternAs                          // `case pat as name:`
)

// Pattern is a tagged-union match pattern node.
type Pattern struct {
	Kind PatternKind
	Span token.Span

	// PatternCapture, PatternAs (binding name)
	Name string

	// PatternLiteral
	Literal *Expr

	// PatternSequence: Elements, plus at most one `*rest` capture of the
	// remainder, recorded through StarName. The parser leaves Star nil.
	Elements []*Pattern
	Star     *Pattern
	StarName string // name bound by *rest, "" if rest is discarded (*_)

	// PatternMapping: parallel Keys (literal expressions)/Values
	// (sub-patterns), plus an optional **rest capture name.
	Keys     []*Expr
	Values   []*Pattern
	RestName string // "" if no **rest

	// PatternClass
	ClassName string
	Positional []*Pattern
	KwPatterns map[string]*Pattern

	// PatternOr
	Alternatives []*Pattern

	// PatternAs: Inner pattern bound to Name.
	Inner *Pattern
}
