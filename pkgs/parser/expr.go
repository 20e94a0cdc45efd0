package parser

import (
	"github.com/silk-lang/silk/pkgs/ast"
	silkerrors "github.com/silk-lang/silk/pkgs/errors"
	"github.com/silk-lang/silk/pkgs/lexer"
	"github.com/silk-lang/silk/pkgs/token"
)

// Precedence levels, lowest to highest. Walrus binds loosest of all
// operators parsed by parsePrecedence; postfix (call/subscript/
// attribute) binds tightest. Comparisons are one level, but unlike a
// normal left-associative binary operator they fold every chained
// comparator into a single Compare node instead of nesting BinOp nodes.
type Precedence int

const (
	LOWEST Precedence = iota
	WALRUS
	TERNARY
	LOGIC_OR
	LOGIC_AND
	LOGIC_NOT
	COMPARISON
	BIT_OR
	BIT_XOR
	BIT_AND
	SHIFT
	ADDITIVE
	MULTIPLICATIVE
	UNARY
	POWER
	POSTFIX
)

var binPrecedence = map[token.Kind]Precedence{
	token.PIPE:     BIT_OR,
	token.CARET:    BIT_XOR,
	token.AMP:      BIT_AND,
	token.LSHIFT:   SHIFT,
	token.RSHIFT:   SHIFT,
	token.PLUS:     ADDITIVE,
	token.MINUS:    ADDITIVE,
	token.STAR:     MULTIPLICATIVE,
	token.SLASH:    MULTIPLICATIVE,
	token.DSLASH:   MULTIPLICATIVE,
	token.PERCENT:  MULTIPLICATIVE,
	token.AT:       MULTIPLICATIVE,
	token.DSTAR:    POWER,
	token.LPAREN:   POSTFIX,
	token.LBRACKET: POSTFIX,
	token.DOT:      POSTFIX,
}

var binOps = map[token.Kind]ast.BinOperator{
	token.PLUS: ast.OpAdd, token.MINUS: ast.OpSub, token.STAR: ast.OpMul,
	token.SLASH: ast.OpDiv, token.DSLASH: ast.OpFloorDiv, token.PERCENT: ast.OpMod,
	token.DSTAR: ast.OpPow, token.LSHIFT: ast.OpLShift, token.RSHIFT: ast.OpRShift,
	token.AMP: ast.OpBitAnd, token.PIPE: ast.OpBitOr, token.CARET: ast.OpBitXor,
}

var compareOps = map[token.Kind]ast.CompareOperator{
	token.LT: ast.CmpLt, token.LE: ast.CmpLtE, token.GT: ast.CmpGt, token.GE: ast.CmpGtE,
	token.EQ: ast.CmpEq, token.NE: ast.CmpNotEq,
}

func isComparisonStart(k token.Kind) bool {
	switch k {
	case token.LT, token.LE, token.GT, token.GE, token.EQ, token.NE, token.IN, token.IS:
		return true
	}
	return false
}

// ParseExpression parses one full expression, including a top-level
// walrus assignment expression.
func (p *Parser) ParseExpression() (*ast.Expr, error) {
	return p.parsePrecedence(WALRUS)
}

// parseExpressionNoWalrus parses an expression forbidding a bare
// top-level walrus; used where `:=` would be ambiguous with a
// surrounding construct's own `:`, e.g. slice bounds.
func (p *Parser) parseExpressionNoWalrus() (*ast.Expr, error) {
	return p.parsePrecedence(TERNARY)
}

func (p *Parser) parsePrecedence(minPrec Precedence) (*ast.Expr, error) {
	left, err := p.parseUnaryOrPrimary()
	if err != nil {
		return nil, err
	}
	return p.parseInfix(left, minPrec)
}

func (p *Parser) parseInfix(left *ast.Expr, minPrec Precedence) (*ast.Expr, error) {
	for {
		cur := p.current().Kind

		if cur == token.WALRUS && WALRUS >= minPrec {
			if left.Kind != ast.ExprIdentifier {
				return nil, silkerrors.NewParseError(silkerrors.InvalidWalrusTarget, p.current().Span, "")
			}
			op := p.advance()
			right, err := p.parsePrecedence(WALRUS)
			if err != nil {
				return nil, err
			}
			left = &ast.Expr{Kind: ast.ExprNamedExpr, Target: left, Value: right, Span: left.Span.Join(op.Span).Join(right.Span)}
			continue
		}

		if cur == token.IF && TERNARY >= minPrec {
			p.advance()
			test, err := p.parsePrecedence(TERNARY)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.ELSE); err != nil {
				return nil, err
			}
			orelse, err := p.parsePrecedence(TERNARY)
			if err != nil {
				return nil, err
			}
			left = &ast.Expr{Kind: ast.ExprIfExp, Body: left, Test: test, OrElse: orelse, Span: left.Span.Join(orelse.Span)}
			continue
		}

		if cur == token.OR && LOGIC_OR >= minPrec {
			p.advance()
			right, err := p.parsePrecedence(LOGIC_OR + 1)
			if err != nil {
				return nil, err
			}
			left = p.foldBoolOp(ast.OpOr, left, right)
			continue
		}
		if cur == token.AND && LOGIC_AND >= minPrec {
			p.advance()
			right, err := p.parsePrecedence(LOGIC_AND + 1)
			if err != nil {
				return nil, err
			}
			left = p.foldBoolOp(ast.OpAnd, left, right)
			continue
		}

		if (isComparisonStart(cur) || (cur == token.NOT && p.peek(1).Kind == token.IN)) && COMPARISON >= minPrec {
			node, err := p.parseChainedComparison(left)
			if err != nil {
				return nil, err
			}
			left = node
			continue
		}

		if prec, ok := binPrecedence[cur]; ok && prec >= minPrec {
			switch cur {
			case token.LPAREN:
				node, err := p.parseCall(left)
				if err != nil {
					return nil, err
				}
				left = node
				continue
			case token.LBRACKET:
				node, err := p.parseSubscript(left)
				if err != nil {
					return nil, err
				}
				left = node
				continue
			case token.DOT:
				node, err := p.parseAttribute(left)
				if err != nil {
					return nil, err
				}
				left = node
				continue
			}

			p.advance()
			nextMin := prec + 1
			if cur == token.DSTAR {
				nextMin = prec // right-associative
			}
			right, err := p.parsePrecedence(nextMin)
			if err != nil {
				return nil, err
			}
			left = &ast.Expr{Kind: ast.ExprBinOp, BinOp: binOps[cur], Left: left, Right: right, Span: left.Span.Join(right.Span)}
			continue
		}

		return left, nil
	}
}

func (p *Parser) foldBoolOp(op ast.BoolOperator, left, right *ast.Expr) *ast.Expr {
	if left.Kind == ast.ExprBoolOp && left.BoolOp == op {
		left.Values = append(left.Values, right)
		left.Span = left.Span.Join(right.Span)
		return left
	}
	return &ast.Expr{Kind: ast.ExprBoolOp, BoolOp: op, Values: []*ast.Expr{left, right}, Span: left.Span.Join(right.Span)}
}

// parseChainedComparison folds a < b <= c is ... into a single Compare
// node with ops=[Lt,LtE,Is] and comparators=[b,c,...], rather than the
// nested single-op Compare nodes a naive left-fold would produce.
func (p *Parser) parseChainedComparison(left *ast.Expr) (*ast.Expr, error) {
	var ops []ast.CompareOperator
	var comparators []*ast.Expr

	for isComparisonStart(p.current().Kind) || (p.current().Kind == token.NOT && p.peek(1).Kind == token.IN) {
		op, err := p.parseCompareOperator()
		if err != nil {
			return nil, err
		}
		right, err := p.parsePrecedence(COMPARISON + 1)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
		comparators = append(comparators, right)
	}
	last := comparators[len(comparators)-1]
	return &ast.Expr{Kind: ast.ExprCompare, Left: left, CompareOps: ops, Comparators: comparators, Span: left.Span.Join(last.Span)}, nil
}

func (p *Parser) parseCompareOperator() (ast.CompareOperator, error) {
	switch p.current().Kind {
	case token.IS:
		p.advance()
		if p.check(token.NOT) {
			p.advance()
			return ast.CmpIsNot, nil
		}
		return ast.CmpIs, nil
	case token.IN:
		p.advance()
		return ast.CmpIn, nil
	case token.NOT:
		p.advance()
		if _, err := p.expect(token.IN); err != nil {
			return 0, err
		}
		return ast.CmpNotIn, nil
	default:
		if op, ok := compareOps[p.current().Kind]; ok {
			p.advance()
			return op, nil
		}
		return 0, silkerrors.NewParseError(silkerrors.InvalidExpression, p.current().Span, "expected a comparison operator")
	}
}

func (p *Parser) parseUnaryOrPrimary() (*ast.Expr, error) {
	start := p.current().Span
	switch p.current().Kind {
	case token.NOT:
		p.advance()
		operand, err := p.parsePrecedence(LOGIC_NOT)
		if err != nil {
			return nil, err
		}
		return &ast.Expr{Kind: ast.ExprUnaryOp, UnaryOp: ast.OpNot, Operand: operand, Span: start.Join(operand.Span)}, nil
	case token.PLUS:
		p.advance()
		operand, err := p.parsePrecedence(UNARY)
		if err != nil {
			return nil, err
		}
		return &ast.Expr{Kind: ast.ExprUnaryOp, UnaryOp: ast.OpUAdd, Operand: operand, Span: start.Join(operand.Span)}, nil
	case token.MINUS:
		p.advance()
		operand, err := p.parsePrecedence(UNARY)
		if err != nil {
			return nil, err
		}
		return &ast.Expr{Kind: ast.ExprUnaryOp, UnaryOp: ast.OpUSub, Operand: operand, Span: start.Join(operand.Span)}, nil
	case token.TILDE:
		p.advance()
		operand, err := p.parsePrecedence(UNARY)
		if err != nil {
			return nil, err
		}
		return &ast.Expr{Kind: ast.ExprUnaryOp, UnaryOp: ast.OpInvert, Operand: operand, Span: start.Join(operand.Span)}, nil
	case token.STAR:
		p.advance()
		operand, err := p.parsePrecedence(UNARY)
		if err != nil {
			return nil, err
		}
		return &ast.Expr{Kind: ast.ExprStarred, Operand: operand, Span: start.Join(operand.Span)}, nil
	case token.AWAIT:
		p.advance()
		operand, err := p.parsePrecedence(UNARY)
		if err != nil {
			return nil, err
		}
		return &ast.Expr{Kind: ast.ExprAwait, Operand: operand, Span: start.Join(operand.Span)}, nil
	case token.YIELD:
		return p.parseYieldExpr()
	case token.LAMBDA:
		return p.parseLambda()
	default:
		return p.parsePrimary()
	}
}

func (p *Parser) parseYieldExpr() (*ast.Expr, error) {
	start := p.advance().Span
	if p.check(token.FROM) {
		p.advance()
		operand, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		return &ast.Expr{Kind: ast.ExprYieldFrom, Operand: operand, Span: start.Join(operand.Span)}, nil
	}
	if p.check(token.NEWLINE) || p.check(token.RPAREN) || p.check(token.EOF) {
		return &ast.Expr{Kind: ast.ExprYield, Span: start}, nil
	}
	operand, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.Expr{Kind: ast.ExprYield, Operand: operand, Span: start.Join(operand.Span)}, nil
}

func (p *Parser) parseLambda() (*ast.Expr, error) {
	start := p.advance().Span
	params, err := p.parseParams(true)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.COLON); err != nil {
		return nil, err
	}
	body, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.Expr{Kind: ast.ExprLambda, Params: params, Body: body, Span: start.Join(body.Span)}, nil
}

func (p *Parser) parsePrimary() (*ast.Expr, error) {
	tok := p.current()
	start := tok.Span

	switch tok.Kind {
	case token.INT:
		p.advance()
		return &ast.Expr{Kind: ast.ExprInt, NumberText: tok.Literal, Span: start}, nil
	case token.FLOAT:
		p.advance()
		return &ast.Expr{Kind: ast.ExprFloat, NumberText: tok.Literal, Span: start}, nil
	case token.STRING:
		p.advance()
		return p.maybeConcatAdjacentStrings(&ast.Expr{Kind: ast.ExprString, StringValue: tok.Literal, Span: start})
	case token.RAWSTRING:
		p.advance()
		return &ast.Expr{Kind: ast.ExprRawString, StringValue: tok.Literal, Span: start}, nil
	case token.BYTESTRING:
		p.advance()
		return &ast.Expr{Kind: ast.ExprByteString, StringValue: tok.Literal, Span: start}, nil
	case token.FSTRING_START:
		p.advance()
		parts, err := p.parseFStringParts(tok)
		if err != nil {
			return nil, err
		}
		return &ast.Expr{Kind: ast.ExprFString, FStringParts: parts, Span: start}, nil
	case token.TRUE:
		p.advance()
		return &ast.Expr{Kind: ast.ExprBool, BoolValue: true, Span: start}, nil
	case token.FALSE:
		p.advance()
		return &ast.Expr{Kind: ast.ExprBool, BoolValue: false, Span: start}, nil
	case token.NONE:
		p.advance()
		return &ast.Expr{Kind: ast.ExprNone, Span: start}, nil
	case token.NOTIMPLEMENTED:
		p.advance()
		return &ast.Expr{Kind: ast.ExprNotImplemented, Span: start}, nil
	case token.ELLIPSIS:
		p.advance()
		return &ast.Expr{Kind: ast.ExprEllipsis, Span: start}, nil
	case token.IDENT:
		p.advance()
		return &ast.Expr{Kind: ast.ExprIdentifier, Name: tok.Literal, Span: start}, nil
	case token.LPAREN:
		return p.parseParenthesizedOrTuple()
	case token.LBRACKET:
		return p.parseListOrComprehension()
	case token.LBRACE:
		return p.parseDictOrSetOrComprehension()
	default:
		return nil, silkerrors.NewParseError(silkerrors.InvalidExpression, start, "expected an expression, found "+tok.Kind.String())
	}
}

// maybeConcatAdjacentStrings implements Python-style adjacent string
// literal concatenation: "a" "b" == "ab".
func (p *Parser) maybeConcatAdjacentStrings(left *ast.Expr) (*ast.Expr, error) {
	for p.check(token.STRING) {
		tok := p.advance()
		left = &ast.Expr{Kind: ast.ExprString, StringValue: left.StringValue + tok.Literal, Span: left.Span.Join(tok.Span)}
	}
	return left, nil
}

func (p *Parser) parseFStringParts(tok token.Token) ([]ast.FStringPart, error) {
	parts := make([]ast.FStringPart, 0, len(tok.FStringParts))
	for _, raw := range tok.FStringParts {
		if !raw.IsExpr {
			parts = append(parts, ast.FStringPart{Text: raw.Text, Span: raw.Span})
			continue
		}
		subTokens, err := lexer.Tokenize(raw.Code)
		if err != nil {
			return nil, err
		}
		sub := New(subTokens)
		expr, err := sub.ParseExpression()
		if err != nil {
			return nil, err
		}
		parts = append(parts, ast.FStringPart{IsExpr: true, Code: expr, FormatSpec: raw.FormatSpec, Span: raw.Span})
	}
	return parts, nil
}

func (p *Parser) parseParenthesizedOrTuple() (*ast.Expr, error) {
	start := p.advance().Span // consume '('
	if p.check(token.RPAREN) {
		end := p.advance().Span
		return &ast.Expr{Kind: ast.ExprTuple, Span: start.Join(end)}, nil
	}

	// Generator expression: ( expr for ... )
	first, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	if p.check(token.FOR) || (p.check(token.ASYNC) && p.peek(1).Kind == token.FOR) {
		gens, err := p.parseComprehensionGenerators()
		if err != nil {
			return nil, err
		}
		end, err := p.expect(token.RPAREN)
		if err != nil {
			return nil, err
		}
		return &ast.Expr{Kind: ast.ExprGeneratorExp, Element: first, Generators: gens, Span: start.Join(end.Span)}, nil
	}

	if p.check(token.COMMA) {
		elems := []*ast.Expr{first}
		for p.match(token.COMMA) {
			if p.check(token.RPAREN) {
				break
			}
			e, err := p.ParseExpression()
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
		}
		end, err := p.expect(token.RPAREN)
		if err != nil {
			return nil, err
		}
		return &ast.Expr{Kind: ast.ExprTuple, Elements: elems, Span: start.Join(end.Span)}, nil
	}

	end, err := p.expect(token.RPAREN)
	if err != nil {
		return nil, err
	}
	first.Span = start.Join(end.Span)
	return first, nil
}

func (p *Parser) parseListOrComprehension() (*ast.Expr, error) {
	start := p.advance().Span // '['
	if p.check(token.RBRACKET) {
		end := p.advance().Span
		return &ast.Expr{Kind: ast.ExprList, Span: start.Join(end)}, nil
	}
	first, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	if p.check(token.FOR) || (p.check(token.ASYNC) && p.peek(1).Kind == token.FOR) {
		gens, err := p.parseComprehensionGenerators()
		if err != nil {
			return nil, err
		}
		end, err := p.expect(token.RBRACKET)
		if err != nil {
			return nil, err
		}
		return &ast.Expr{Kind: ast.ExprListComp, Element: first, Generators: gens, Span: start.Join(end.Span)}, nil
	}
	elems := []*ast.Expr{first}
	for p.match(token.COMMA) {
		if p.check(token.RBRACKET) {
			break
		}
		e, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
	}
	end, err := p.expect(token.RBRACKET)
	if err != nil {
		return nil, err
	}
	return &ast.Expr{Kind: ast.ExprList, Elements: elems, Span: start.Join(end.Span)}, nil
}

func (p *Parser) parseDictOrSetOrComprehension() (*ast.Expr, error) {
	start := p.advance().Span // '{'
	if p.check(token.RBRACE) {
		end := p.advance().Span
		return &ast.Expr{Kind: ast.ExprDict, Span: start.Join(end)}, nil
	}

	if p.match(token.DSTAR) {
		// **expr dict-unpacking entry
		val, err := p.parsePrecedence(BIT_OR + 1)
		if err != nil {
			return nil, err
		}
		return p.finishDict(start, nil, val)
	}

	first, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}

	if p.match(token.COLON) {
		val, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		if p.check(token.FOR) || (p.check(token.ASYNC) && p.peek(1).Kind == token.FOR) {
			gens, err := p.parseComprehensionGenerators()
			if err != nil {
				return nil, err
			}
			end, err := p.expect(token.RBRACE)
			if err != nil {
				return nil, err
			}
			return &ast.Expr{Kind: ast.ExprDictComp, Keys: []*ast.Expr{first}, Values: []*ast.Expr{val}, Generators: gens, Span: start.Join(end.Span)}, nil
		}
		return p.finishDict(start, first, val)
	}

	if p.check(token.FOR) || (p.check(token.ASYNC) && p.peek(1).Kind == token.FOR) {
		gens, err := p.parseComprehensionGenerators()
		if err != nil {
			return nil, err
		}
		end, err := p.expect(token.RBRACE)
		if err != nil {
			return nil, err
		}
		return &ast.Expr{Kind: ast.ExprSetComp, Element: first, Generators: gens, Span: start.Join(end.Span)}, nil
	}

	elems := []*ast.Expr{first}
	for p.match(token.COMMA) {
		if p.check(token.RBRACE) {
			break
		}
		e, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
	}
	end, err := p.expect(token.RBRACE)
	if err != nil {
		return nil, err
	}
	return &ast.Expr{Kind: ast.ExprSet, Elements: elems, Span: start.Join(end.Span)}, nil
}

func (p *Parser) finishDict(start token.Span, firstKey, firstVal *ast.Expr) (*ast.Expr, error) {
	keys := []*ast.Expr{firstKey}
	values := []*ast.Expr{firstVal}
	for p.match(token.COMMA) {
		if p.check(token.RBRACE) {
			break
		}
		if p.match(token.DSTAR) {
			v, err := p.parsePrecedence(BIT_OR + 1)
			if err != nil {
				return nil, err
			}
			keys = append(keys, nil)
			values = append(values, v)
			continue
		}
		k, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.COLON); err != nil {
			return nil, err
		}
		v, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
		values = append(values, v)
	}
	end, err := p.expect(token.RBRACE)
	if err != nil {
		return nil, err
	}
	return &ast.Expr{Kind: ast.ExprDict, Keys: keys, Values: values, Span: start.Join(end.Span)}, nil
}

// parseComprehensionGenerators parses one or more chained `for ... [if
// ...]*` clauses, e.g.
// `[x*y for x in xs for y in ys if y > 0]`. The comprehension target is
// parsed at primary precedence (a bare `k, v` list of such targets folds
// into one tuple target), the
// iterable at "or"-level precedence (stopping before a trailing `if`),
// and each filter at "and"-level precedence (stopping before a ternary
// `else`/the next `for`).
func (p *Parser) parseComprehensionGenerators() ([]ast.Comprehension, error) {
	var gens []ast.Comprehension
	for p.check(token.FOR) || p.check(token.ASYNC) {
		isAsync := p.match(token.ASYNC)
		if _, err := p.expect(token.FOR); err != nil {
			return nil, err
		}
		target, err := p.parsePrecedence(POSTFIX)
		if err != nil {
			return nil, err
		}
		if p.check(token.COMMA) {
			elems := []*ast.Expr{target}
			for p.match(token.COMMA) {
				if p.check(token.IN) {
					break
				}
				e, err := p.parsePrecedence(POSTFIX)
				if err != nil {
					return nil, err
				}
				elems = append(elems, e)
			}
			target = &ast.Expr{Kind: ast.ExprTuple, Elements: elems, Span: target.Span.Join(elems[len(elems)-1].Span)}
		}
		if _, err := p.expect(token.IN); err != nil {
			return nil, err
		}
		iter, err := p.parsePrecedence(LOGIC_OR)
		if err != nil {
			return nil, err
		}
		var ifs []*ast.Expr
		for p.check(token.IF) {
			p.advance()
			cond, err := p.parsePrecedence(LOGIC_AND)
			if err != nil {
				return nil, err
			}
			ifs = append(ifs, cond)
		}
		gens = append(gens, ast.Comprehension{Target: target, Iter: iter, Ifs: ifs, IsAsync: isAsync})
	}
	return gens, nil
}

func (p *Parser) parseCall(callee *ast.Expr) (*ast.Expr, error) {
	p.advance() // '('
	var args []*ast.Expr
	var keywords []ast.CallKeyword
	seenKeyword := false

	for !p.check(token.RPAREN) {
		if p.check(token.IDENT) && p.peek(1).Kind == token.ASSIGN {
			name := p.advance().Literal
			p.advance() // '='
			val, err := p.ParseExpression()
			if err != nil {
				return nil, err
			}
			keywords = append(keywords, ast.CallKeyword{Arg: name, Value: val, Span: val.Span})
			seenKeyword = true
		} else if p.match(token.DSTAR) {
			val, err := p.ParseExpression()
			if err != nil {
				return nil, err
			}
			keywords = append(keywords, ast.CallKeyword{Arg: "", Value: val, Span: val.Span})
			seenKeyword = true
		} else {
			startSpan := p.current().Span
			val, err := p.ParseExpression()
			if err != nil {
				return nil, err
			}
			if seenKeyword {
				return nil, silkerrors.NewParseError(silkerrors.PositionalAfterKeyword, startSpan, "")
			}
			args = append(args, val)
		}
		if !p.match(token.COMMA) {
			break
		}
	}
	end, err := p.expect(token.RPAREN)
	if err != nil {
		return nil, err
	}
	return &ast.Expr{Kind: ast.ExprCall, Func: callee, Args: args, Keywords: keywords, Span: callee.Span.Join(end.Span)}, nil
}

// parseSubscript handles plain indexing (`x[i]`), slicing (`x[a:b:c]`,
// detected by a top-level `:` inside the brackets), and tuple indices
// (`d[a, b]`, which generic annotations like Dict[str, int] rely on).
// The resulting span covers the whole `value[...]` range through the
// closing bracket.
func (p *Parser) parseSubscript(value *ast.Expr) (*ast.Expr, error) {
	p.advance() // '['

	var lower, upper, step *ast.Expr
	var err error
	isSlice := false

	if !p.check(token.COLON) {
		lower, err = p.parseExpressionNoWalrus()
		if err != nil {
			return nil, err
		}
	}
	if p.match(token.COLON) {
		isSlice = true
		if !p.check(token.COLON) && !p.check(token.RBRACKET) {
			upper, err = p.parseExpressionNoWalrus()
			if err != nil {
				return nil, err
			}
		}
		if p.match(token.COLON) {
			if !p.check(token.RBRACKET) {
				step, err = p.parseExpressionNoWalrus()
				if err != nil {
					return nil, err
				}
			}
		}
	}

	if !isSlice && p.check(token.COMMA) {
		elems := []*ast.Expr{lower}
		for p.match(token.COMMA) {
			if p.check(token.RBRACKET) {
				break
			}
			e, err := p.parseExpressionNoWalrus()
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
		}
		end, err := p.expect(token.RBRACKET)
		if err != nil {
			return nil, err
		}
		span := value.Span.Join(end.Span)
		idx := &ast.Expr{Kind: ast.ExprTuple, Elements: elems, Span: elems[0].Span.Join(elems[len(elems)-1].Span)}
		return &ast.Expr{Kind: ast.ExprSubscript, Value: value, Index: idx, Span: span}, nil
	}

	end, err := p.expect(token.RBRACKET)
	if err != nil {
		return nil, err
	}
	span := value.Span.Join(end.Span)

	if isSlice {
		sliceExpr := &ast.Expr{Kind: ast.ExprSlice, Lower: lower, Upper: upper, Step: step, Span: span}
		return &ast.Expr{Kind: ast.ExprSubscript, Value: value, Index: sliceExpr, Span: span}, nil
	}
	return &ast.Expr{Kind: ast.ExprSubscript, Value: value, Index: lower, Span: span}, nil
}

func (p *Parser) parseAttribute(value *ast.Expr) (*ast.Expr, error) {
	p.advance() // '.'
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	return &ast.Expr{Kind: ast.ExprAttribute, Value: value, Name: name.Literal, Span: value.Span.Join(name.Span)}, nil
}
