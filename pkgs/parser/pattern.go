package parser

import (
	"github.com/silk-lang/silk/pkgs/ast"
	silkerrors "github.com/silk-lang/silk/pkgs/errors"
	"github.com/silk-lang/silk/pkgs/token"
)

// parsePattern parses one `case` pattern: an or-pattern optionally bound
// with `as name`, mirroring ParseExpression's walrus handling one level up
// from the operator it wraps.
func (p *Parser) parsePattern() (*ast.Pattern, error) {
	pat, err := p.parseOrPattern()
	if err != nil {
		return nil, err
	}
	if p.match(token.AS) {
		name, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		return &ast.Pattern{Kind: ast.PatternAs, Inner: pat, Name: name.Literal, Span: pat.Span.Join(name.Span)}, nil
	}
	return pat, nil
}

// parseOrPattern folds `pat1 | pat2 | pat3` into a single PatternOr node,
// the pattern-grammar analogue of parseChainedComparison.
func (p *Parser) parseOrPattern() (*ast.Pattern, error) {
	first, err := p.parseClosedPattern()
	if err != nil {
		return nil, err
	}
	if !p.check(token.PIPE) {
		return first, nil
	}
	alts := []*ast.Pattern{first}
	span := first.Span
	for p.match(token.PIPE) {
		next, err := p.parseClosedPattern()
		if err != nil {
			return nil, err
		}
		alts = append(alts, next)
		span = span.Join(next.Span)
	}
	return &ast.Pattern{Kind: ast.PatternOr, Alternatives: alts, Span: span}, nil
}

func (p *Parser) parseClosedPattern() (*ast.Pattern, error) {
	tok := p.current()
	switch tok.Kind {
	case token.LBRACKET:
		return p.parseSequencePattern(token.LBRACKET, token.RBRACKET)
	case token.LPAREN:
		return p.parseSequencePattern(token.LPAREN, token.RPAREN)
	case token.LBRACE:
		return p.parseMappingPattern()
	case token.MINUS, token.INT, token.FLOAT, token.STRING, token.RAWSTRING, token.BYTESTRING, token.TRUE, token.FALSE, token.NONE:
		return p.parseLiteralPattern()
	case token.IDENT:
		return p.parseCaptureOrClassOrValuePattern()
	default:
		return nil, silkerrors.NewParseError(silkerrors.InvalidExpression, tok.Span, "expected a pattern, found "+tok.Kind.String())
	}
}

// parseLiteralPattern parses a literal pattern: a number (with optional
// unary minus), a string, or True/False/None.
func (p *Parser) parseLiteralPattern() (*ast.Pattern, error) {
	start := p.current().Span
	lit, err := p.parsePrecedence(UNARY)
	if err != nil {
		return nil, err
	}
	return &ast.Pattern{Kind: ast.PatternLiteral, Literal: lit, Span: start.Join(lit.Span)}, nil
}

// parseCaptureOrClassOrValuePattern disambiguates `_` (wildcard), a bare
// name (capture), `Name(...)`/`Name.Attr(...)` (class pattern), and a
// dotted name with no call (a value pattern, e.g. `case Color.RED:`) on
// an identifier lookahead.
func (p *Parser) parseCaptureOrClassOrValuePattern() (*ast.Pattern, error) {
	name, _ := p.expect(token.IDENT)
	className := name.Literal
	span := name.Span
	var expr *ast.Expr
	dotted := false
	for p.check(token.DOT) {
		dotted = true
		p.advance()
		part, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		if expr == nil {
			expr = ast.Ident(name.Literal, name.Span)
		}
		span = span.Join(part.Span)
		expr = &ast.Expr{Kind: ast.ExprAttribute, Value: expr, Name: part.Literal, Span: span}
		className += "." + part.Literal
	}

	if p.check(token.LPAREN) {
		return p.parseClassPattern(className, span)
	}
	if dotted {
		return &ast.Pattern{Kind: ast.PatternLiteral, Literal: expr, Span: span}, nil
	}
	if name.Literal == "_" {
		return &ast.Pattern{Kind: ast.PatternWildcard, Span: span}, nil
	}
	return &ast.Pattern{Kind: ast.PatternCapture, Name: name.Literal, Span: span}, nil
}

func (p *Parser) parseClassPattern(dotted string, nameSpan token.Span) (*ast.Pattern, error) {
	p.advance() // '('
	pat := &ast.Pattern{Kind: ast.PatternClass, ClassName: dotted, KwPatterns: map[string]*ast.Pattern{}, Span: nameSpan}
	for !p.check(token.RPAREN) {
		if p.check(token.IDENT) && p.peek(1).Kind == token.ASSIGN {
			kwName := p.advance().Literal
			p.advance() // '='
			sub, err := p.parsePattern()
			if err != nil {
				return nil, err
			}
			pat.KwPatterns[kwName] = sub
		} else {
			sub, err := p.parsePattern()
			if err != nil {
				return nil, err
			}
			pat.Positional = append(pat.Positional, sub)
		}
		if !p.match(token.COMMA) {
			break
		}
	}
	end, err := p.expect(token.RPAREN)
	if err != nil {
		return nil, err
	}
	pat.Span = nameSpan.Join(end.Span)
	return pat, nil
}

// parseSequencePattern parses `[p1, p2, *rest]` or the parenthesized form
// `(p1, p2, *rest)`, both meaning the same sequence pattern per the
// language's match grammar.
func (p *Parser) parseSequencePattern(open, close token.Kind) (*ast.Pattern, error) {
	start := p.advance().Span
	pat := &ast.Pattern{Kind: ast.PatternSequence, Span: start}
	for !p.check(close) {
		if p.match(token.STAR) {
			if p.check(token.IDENT) {
				name, err := p.expect(token.IDENT)
				if err != nil {
					return nil, err
				}
				if name.Literal != "_" {
					pat.StarName = name.Literal
				}
			}
		} else {
			sub, err := p.parsePattern()
			if err != nil {
				return nil, err
			}
			pat.Elements = append(pat.Elements, sub)
		}
		if !p.match(token.COMMA) {
			break
		}
	}
	end, err := p.expect(close)
	if err != nil {
		return nil, err
	}
	pat.Span = start.Join(end.Span)
	return pat, nil
}

// parseMappingPattern parses `{"k": pat, **rest}`.
func (p *Parser) parseMappingPattern() (*ast.Pattern, error) {
	start := p.advance().Span // '{'
	pat := &ast.Pattern{Kind: ast.PatternMapping, Span: start}
	for !p.check(token.RBRACE) {
		if p.match(token.DSTAR) {
			name, err := p.expect(token.IDENT)
			if err != nil {
				return nil, err
			}
			pat.RestName = name.Literal
		} else {
			key, err := p.parsePrecedence(BIT_OR + 1)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.COLON); err != nil {
				return nil, err
			}
			val, err := p.parsePattern()
			if err != nil {
				return nil, err
			}
			pat.Keys = append(pat.Keys, key)
			pat.Values = append(pat.Values, val)
		}
		if !p.match(token.COMMA) {
			break
		}
	}
	end, err := p.expect(token.RBRACE)
	if err != nil {
		return nil, err
	}
	pat.Span = start.Join(end.Span)
	return pat, nil
}
