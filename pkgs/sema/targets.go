package sema

import "github.com/silk-lang/silk/pkgs/ast"

// targetNames collects every identifier a binding target introduces:
// a bare name, or a tuple/list/starred destructuring of names.
// Attribute and subscript
// targets (`obj.attr = x`, `d[k] = x`) bind nothing new and are
// excluded — those are reference positions on obj/d, handled
// separately during resolution.
func targetNames(target *ast.Expr) []string {
	if target == nil {
		return nil
	}
	switch target.Kind {
	case ast.ExprIdentifier:
		return []string{target.Name}
	case ast.ExprTuple, ast.ExprList:
		var names []string
		for _, el := range target.Elements {
			names = append(names, targetNames(el)...)
		}
		return names
	case ast.ExprStarred:
		return targetNames(target.Operand)
	default:
		return nil
	}
}

// patternNames collects every name a match pattern binds, walking
// sub-patterns the way targetNames walks destructuring targets.
func patternNames(p *ast.Pattern) []string {
	if p == nil {
		return nil
	}
	var names []string
	switch p.Kind {
	case ast.PatternCapture:
		if p.Name != "" && p.Name != "_" {
			names = append(names, p.Name)
		}
	case ast.PatternAs:
		names = append(names, patternNames(p.Inner)...)
		if p.Name != "" {
			names = append(names, p.Name)
		}
	case ast.PatternSequence:
		for _, el := range p.Elements {
			names = append(names, patternNames(el)...)
		}
		if p.Star != nil {
			names = append(names, patternNames(p.Star)...)
		}
		if p.StarName != "" {
			names = append(names, p.StarName)
		}
	case ast.PatternMapping:
		for _, v := range p.Values {
			names = append(names, patternNames(v)...)
		}
		if p.RestName != "" {
			names = append(names, p.RestName)
		}
	case ast.PatternClass:
		for _, sub := range p.Positional {
			names = append(names, patternNames(sub)...)
		}
		for _, sub := range p.KwPatterns {
			names = append(names, patternNames(sub)...)
		}
	case ast.PatternOr:
		// Alternatives are required to bind the same names in real
		// Python match statements; take the first alternative's names.
		if len(p.Alternatives) > 0 {
			names = append(names, patternNames(p.Alternatives[0])...)
		}
	}
	return names
}
