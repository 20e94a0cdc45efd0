package parser

import (
	"github.com/silk-lang/silk/pkgs/ast"
	silkerrors "github.com/silk-lang/silk/pkgs/errors"
	"github.com/silk-lang/silk/pkgs/token"
)

// ParseProgram parses an entire module: a sequence of statements,
// skipping blank top-level lines, until EOF.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	start := p.current().Span
	var stmts []*ast.Stmt
	p.skipNewlines()
	for !p.atEnd() {
		line, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, line...)
		p.skipNewlines()
	}
	end := p.current().Span
	return ast.NewProgram(stmts, start.Join(end)), nil
}

// parseStatement parses one statement line. Compound statements
// (if/while/for/def/...) always yield exactly one statement; a simple
// statement line may yield several when `;`-separated.
func (p *Parser) parseStatement() ([]*ast.Stmt, error) {
	switch p.current().Kind {
	case token.IF:
		stmt, err := p.parseIfStatement()
		return single(stmt, err)
	case token.WHILE:
		stmt, err := p.parseWhileStatement()
		return single(stmt, err)
	case token.FOR:
		stmt, err := p.parseForStatement(false)
		return single(stmt, err)
	case token.ASYNC:
		stmt, err := p.parseAsyncStatement()
		return single(stmt, err)
	case token.DEF:
		stmt, err := p.parseFunctionDef(nil)
		return single(stmt, err)
	case token.AT:
		stmt, err := p.parseDecorated()
		return single(stmt, err)
	case token.CLASS:
		stmt, err := p.parseClassDef()
		return single(stmt, err)
	case token.WITH:
		stmt, err := p.parseWithStatement(false)
		return single(stmt, err)
	case token.TRY:
		stmt, err := p.parseTryStatement()
		return single(stmt, err)
	case token.MATCH:
		stmt, err := p.parseMatchStatement()
		return single(stmt, err)
	default:
		return p.parseSimpleStatementLine()
	}
}

// single wraps a one-statement production's result into the slice shape
// parseStatement's callers expect, so compound and `;`-chained simple
// statements share one return convention.
func single(stmt *ast.Stmt, err error) ([]*ast.Stmt, error) {
	if err != nil {
		return nil, err
	}
	return []*ast.Stmt{stmt}, nil
}

// parseSimpleStatementLine parses one or more `;`-separated simple
// statements terminated by NEWLINE (or EOF), returning all of them.
func (p *Parser) parseSimpleStatementLine() ([]*ast.Stmt, error) {
	first, err := p.parseSimpleStatement()
	if err != nil {
		return nil, err
	}
	stmts := []*ast.Stmt{first}
	for p.match(token.SEMICOLON) {
		if p.check(token.NEWLINE) || p.atEnd() {
			break
		}
		next, err := p.parseSimpleStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, next)
	}
	if !p.atEnd() {
		if _, err := p.expect(token.NEWLINE); err != nil {
			return nil, err
		}
	}
	return stmts, nil
}

func (p *Parser) parseSimpleStatement() (*ast.Stmt, error) {
	start := p.current().Span
	switch p.current().Kind {
	case token.PASS:
		p.advance()
		return &ast.Stmt{Kind: ast.StmtPass, Span: start}, nil
	case token.BREAK:
		p.advance()
		return &ast.Stmt{Kind: ast.StmtBreak, Span: start}, nil
	case token.CONTINUE:
		p.advance()
		return &ast.Stmt{Kind: ast.StmtContinue, Span: start}, nil
	case token.RETURN:
		return p.parseReturnStatement()
	case token.GLOBAL:
		return p.parseGlobalOrNonlocal(ast.StmtGlobal)
	case token.NONLOCAL:
		return p.parseGlobalOrNonlocal(ast.StmtNonlocal)
	case token.ASSERT:
		return p.parseAssertStatement()
	case token.RAISE:
		return p.parseRaiseStatement()
	case token.DEL:
		return p.parseDelStatement()
	case token.IMPORT:
		return p.parseImportStatement()
	case token.FROM:
		return p.parseFromImportStatement()
	default:
		return p.parseExprOrAssignStatement()
	}
}

func (p *Parser) parseReturnStatement() (*ast.Stmt, error) {
	start := p.advance().Span
	if p.check(token.NEWLINE) || p.check(token.SEMICOLON) || p.atEnd() {
		return &ast.Stmt{Kind: ast.StmtReturn, Span: start}, nil
	}
	val, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.Stmt{Kind: ast.StmtReturn, Expression: val, Span: start.Join(val.Span)}, nil
}

func (p *Parser) parseGlobalOrNonlocal(kind ast.StmtKind) (*ast.Stmt, error) {
	start := p.advance().Span
	names := []string{}
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	names = append(names, name.Literal)
	end := name.Span
	for p.match(token.COMMA) {
		n, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		names = append(names, n.Literal)
		end = n.Span
	}
	return &ast.Stmt{Kind: kind, Identifiers: names, Span: start.Join(end)}, nil
}

func (p *Parser) parseAssertStatement() (*ast.Stmt, error) {
	start := p.advance().Span
	test, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	stmt := &ast.Stmt{Kind: ast.StmtAssert, Test: test, Span: start.Join(test.Span)}
	if p.match(token.COMMA) {
		msg, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		stmt.Msg = msg
		stmt.Span = start.Join(msg.Span)
	}
	return stmt, nil
}

func (p *Parser) parseRaiseStatement() (*ast.Stmt, error) {
	start := p.advance().Span
	stmt := &ast.Stmt{Kind: ast.StmtRaise, Span: start}
	if p.check(token.NEWLINE) || p.check(token.SEMICOLON) || p.atEnd() {
		return stmt, nil
	}
	exc, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	stmt.Expression = exc
	stmt.Span = start.Join(exc.Span)
	if p.match(token.FROM) {
		cause, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		stmt.Cause = cause
		stmt.Span = start.Join(cause.Span)
	}
	return stmt, nil
}

func (p *Parser) parseDelStatement() (*ast.Stmt, error) {
	start := p.advance().Span
	targets := []*ast.Expr{}
	first, err := p.parsePrecedence(POSTFIX)
	if err != nil {
		return nil, err
	}
	targets = append(targets, first)
	end := first.Span
	for p.match(token.COMMA) {
		t, err := p.parsePrecedence(POSTFIX)
		if err != nil {
			return nil, err
		}
		targets = append(targets, t)
		end = t.Span
	}
	return &ast.Stmt{Kind: ast.StmtDelete, Targets: targets, Span: start.Join(end)}, nil
}

func (p *Parser) parseAlias() (ast.Alias, error) {
	name, err := p.expect(token.IDENT)
	if err != nil {
		return ast.Alias{}, err
	}
	dotted := name.Literal
	span := name.Span
	for p.match(token.DOT) {
		part, err := p.expect(token.IDENT)
		if err != nil {
			return ast.Alias{}, err
		}
		dotted += "." + part.Literal
		span = span.Join(part.Span)
	}
	alias := ast.Alias{Name: dotted, Span: span}
	if p.match(token.AS) {
		asName, err := p.expect(token.IDENT)
		if err != nil {
			return ast.Alias{}, err
		}
		alias.AsName = asName.Literal
		alias.Span = span.Join(asName.Span)
	}
	return alias, nil
}

func (p *Parser) parseImportStatement() (*ast.Stmt, error) {
	start := p.advance().Span
	var names []ast.Alias
	first, err := p.parseAlias()
	if err != nil {
		return nil, err
	}
	names = append(names, first)
	end := first.Span
	for p.match(token.COMMA) {
		a, err := p.parseAlias()
		if err != nil {
			return nil, err
		}
		names = append(names, a)
		end = a.Span
	}
	return &ast.Stmt{Kind: ast.StmtImport, Names: names, Span: start.Join(end)}, nil
}

func (p *Parser) parseFromImportStatement() (*ast.Stmt, error) {
	start := p.advance().Span
	level := 0
	for p.check(token.DOT) || p.check(token.ELLIPSIS) {
		if p.match(token.ELLIPSIS) {
			level += 3
			continue
		}
		p.advance()
		level++
	}
	module := ""
	if p.check(token.IDENT) {
		tok, _ := p.expect(token.IDENT)
		module = tok.Literal
		for p.match(token.DOT) {
			part, err := p.expect(token.IDENT)
			if err != nil {
				return nil, err
			}
			module += "." + part.Literal
		}
	}
	if _, err := p.expect(token.IMPORT); err != nil {
		return nil, err
	}
	var names []ast.Alias
	if p.match(token.STAR) {
		names = append(names, ast.Alias{Name: "*"})
	} else {
		paren := p.match(token.LPAREN)
		for {
			name, err := p.expect(token.IDENT)
			if err != nil {
				return nil, err
			}
			alias := ast.Alias{Name: name.Literal, Span: name.Span}
			if p.match(token.AS) {
				asName, err := p.expect(token.IDENT)
				if err != nil {
					return nil, err
				}
				alias.AsName = asName.Literal
			}
			names = append(names, alias)
			if !p.match(token.COMMA) {
				break
			}
			if paren && p.check(token.RPAREN) {
				break
			}
		}
		if paren {
			if _, err := p.expect(token.RPAREN); err != nil {
				return nil, err
			}
		}
	}
	return &ast.Stmt{Kind: ast.StmtImportFrom, Module: module, Names: names, Level: level, Span: start}, nil
}

// parseExprOrAssignStatement handles a bare expression statement, a
// plain (possibly chained/tuple-target) assignment, an augmented
// assignment, or an annotated assignment/declaration.
func (p *Parser) parseExprOrAssignStatement() (*ast.Stmt, error) {
	start := p.current().Span
	first, err := p.parseTargetListOrExpr()
	if err != nil {
		return nil, err
	}

	if p.check(token.COLON) {
		p.advance()
		annotation, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		stmt := &ast.Stmt{Kind: ast.StmtAnnAssign, Targets: []*ast.Expr{first}, Annotation: annotation, Span: start.Join(annotation.Span)}
		if p.match(token.ASSIGN) {
			val, err := p.ParseExpression()
			if err != nil {
				return nil, err
			}
			stmt.Value = val
			stmt.Span = start.Join(val.Span)
		}
		return stmt, nil
	}

	if augOp, ok := augAssignOps[p.current().Kind]; ok {
		p.advance()
		val, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		return &ast.Stmt{Kind: ast.StmtAugAssign, Targets: []*ast.Expr{first}, AugOp: augOp, Value: val, Span: start.Join(val.Span)}, nil
	}

	if p.check(token.ASSIGN) {
		targets := []*ast.Expr{first}
		var value *ast.Expr
		for p.match(token.ASSIGN) {
			next, err := p.parseTargetListOrExpr()
			if err != nil {
				return nil, err
			}
			value = next
			if p.check(token.ASSIGN) {
				targets = append(targets, next)
			}
		}
		return &ast.Stmt{Kind: ast.StmtAssign, Targets: targets, Value: value, Span: start.Join(value.Span)}, nil
	}

	return &ast.Stmt{Kind: ast.StmtExpr, Expression: first, Span: first.Span}, nil
}

var augAssignOps = map[token.Kind]ast.BinOperator{
	token.PLUS_ASSIGN: ast.OpAdd, token.MINUS_ASSIGN: ast.OpSub,
	token.STAR_ASSIGN: ast.OpMul, token.SLASH_ASSIGN: ast.OpDiv,
	token.DSLASH_ASSIGN: ast.OpFloorDiv, token.PERCENT_ASSIGN: ast.OpMod,
	token.DSTAR_ASSIGN: ast.OpPow, token.LSHIFT_ASSIGN: ast.OpLShift,
	token.RSHIFT_ASSIGN: ast.OpRShift, token.AMP_ASSIGN: ast.OpBitAnd,
	token.PIPE_ASSIGN: ast.OpBitOr, token.CARET_ASSIGN: ast.OpBitXor,
}

// parseTargetListOrExpr parses a single expression, or a bare
// comma-separated tuple of expressions used as an assignment target
// (`a, b = 1, 2`), folding the latter into one ExprTuple node.
func (p *Parser) parseTargetListOrExpr() (*ast.Expr, error) {
	first, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	if !p.check(token.COMMA) {
		return first, nil
	}
	elems := []*ast.Expr{first}
	start := first.Span
	end := first.Span
	for p.match(token.COMMA) {
		if p.check(token.ASSIGN) || p.check(token.NEWLINE) || p.check(token.COLON) || p.atEnd() {
			break
		}
		e, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
		end = e.Span
	}
	return &ast.Expr{Kind: ast.ExprTuple, Elements: elems, Span: start.Join(end)}, nil
}

// parseBlock parses `NEWLINE INDENT stmt+ DEDENT`.
func (p *Parser) parseBlock() ([]*ast.Stmt, error) {
	if p.check(token.NEWLINE) {
		// Blank and comment-only lines surface as extra NEWLINE tokens;
		// they carry no block structure, so fold them away on both sides
		// of the INDENT and between statements.
		p.skipNewlines()
		if _, err := p.expect(token.INDENT); err != nil {
			return nil, err
		}
		var stmts []*ast.Stmt
		for !p.check(token.DEDENT) && !p.atEnd() {
			line, err := p.parseStatement()
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, line...)
			p.skipNewlines()
		}
		if _, err := p.expect(token.DEDENT); err != nil {
			return nil, err
		}
		return stmts, nil
	}
	// Single-line suite: `if x: y = 1`
	return p.parseSimpleStatementLine()
}

// stmtsEnd returns the span of the last statement of the last non-empty
// block, falling back to start, so a compound statement's span encloses
// its whole suite.
func stmtsEnd(start token.Span, blocks ...[]*ast.Stmt) token.Span {
	end := start
	for _, b := range blocks {
		if len(b) > 0 {
			end = b[len(b)-1].Span
		}
	}
	return end
}

func (p *Parser) parseIfStatement() (*ast.Stmt, error) {
	start := p.advance().Span
	test, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.COLON); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	var orelse []*ast.Stmt
	if p.check(token.ELIF) {
		elifStart := p.current().Span
		nested, err := p.parseIfStatement()
		if err != nil {
			return nil, err
		}
		nested.Span = elifStart.Join(nested.Span)
		orelse = []*ast.Stmt{nested}
	} else if p.match(token.ELSE) {
		if _, err := p.expect(token.COLON); err != nil {
			return nil, err
		}
		orelse, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}
	return &ast.Stmt{Kind: ast.StmtIf, Test: test, Body: body, Orelse: orelse, Span: start.Join(stmtsEnd(start, body, orelse))}, nil
}

func (p *Parser) parseWhileStatement() (*ast.Stmt, error) {
	start := p.advance().Span
	test, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.COLON); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	var orelse []*ast.Stmt
	if p.match(token.ELSE) {
		if _, err := p.expect(token.COLON); err != nil {
			return nil, err
		}
		orelse, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}
	return &ast.Stmt{Kind: ast.StmtWhile, Test: test, Body: body, Orelse: orelse, Span: start.Join(stmtsEnd(start, body, orelse))}, nil
}

func (p *Parser) parseForStatement(isAsync bool) (*ast.Stmt, error) {
	start := p.advance().Span
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
		target = &ast.Expr{Kind: ast.ExprTuple, Elements: elems, Span: target.Span}
	}
	if _, err := p.expect(token.IN); err != nil {
		return nil, err
	}
	iter, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.COLON); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	var orelse []*ast.Stmt
	if p.match(token.ELSE) {
		if _, err := p.expect(token.COLON); err != nil {
			return nil, err
		}
		orelse, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}
	return &ast.Stmt{Kind: ast.StmtFor, Target: target, Iter: iter, Body: body, Orelse: orelse, IsAsync: isAsync, Span: start.Join(stmtsEnd(start, body, orelse))}, nil
}

func (p *Parser) parseAsyncStatement() (*ast.Stmt, error) {
	p.advance() // 'async'
	switch p.current().Kind {
	case token.FOR:
		return p.parseForStatement(true)
	case token.WITH:
		return p.parseWithStatement(true)
	case token.DEF:
		stmt, err := p.parseFunctionDef(nil)
		if err != nil {
			return nil, err
		}
		stmt.IsAsync = true
		return stmt, nil
	default:
		return nil, silkerrors.NewParseError(silkerrors.InvalidStatement, p.current().Span, "expected 'for', 'with', or 'def' after 'async'")
	}
}

func (p *Parser) parseDecorated() (*ast.Stmt, error) {
	var decorators []*ast.Expr
	for p.check(token.AT) {
		p.advance()
		expr, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		decorators = append(decorators, expr)
		if _, err := p.expect(token.NEWLINE); err != nil {
			return nil, err
		}
	}
	isAsync := false
	if p.check(token.ASYNC) {
		p.advance()
		isAsync = true
	}
	switch p.current().Kind {
	case token.DEF:
		stmt, err := p.parseFunctionDef(decorators)
		if err != nil {
			return nil, err
		}
		stmt.IsAsync = isAsync
		return stmt, nil
	case token.CLASS:
		stmt, err := p.parseClassDef()
		if err != nil {
			return nil, err
		}
		stmt.Decorators = decorators
		return stmt, nil
	default:
		return nil, silkerrors.NewParseError(silkerrors.InvalidStatement, p.current().Span, "expected 'def' or 'class' after decorator")
	}
}

func (p *Parser) parseFunctionDef(decorators []*ast.Expr) (*ast.Stmt, error) {
	start := p.advance().Span
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	params, err := p.parseParamList(token.RPAREN)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	var returnType *ast.Expr
	if p.match(token.ARROW) {
		returnType, err = p.ParseExpression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.COLON); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.Stmt{
		Kind: ast.StmtFunctionDef, Name: name.Literal, Params: params,
		ReturnType: returnType, Body: body, Decorators: decorators,
		Span: start.Join(stmtsEnd(start, body)),
	}, nil
}

func (p *Parser) parseClassDef() (*ast.Stmt, error) {
	start := p.advance().Span
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	var bases []*ast.Expr
	var keywords []ast.CallKeyword
	if p.match(token.LPAREN) {
		for !p.check(token.RPAREN) {
			// `metaclass=Meta`-style keyword base: IDENT followed by a
			// single `=` (not `==`).
			if p.check(token.IDENT) && p.peek(1).Kind == token.ASSIGN {
				kwName := p.advance()
				p.advance() // '='
				val, err := p.ParseExpression()
				if err != nil {
					return nil, err
				}
				keywords = append(keywords, ast.CallKeyword{Arg: kwName.Literal, Value: val, Span: kwName.Span.Join(val.Span)})
			} else {
				b, err := p.ParseExpression()
				if err != nil {
					return nil, err
				}
				bases = append(bases, b)
			}
			if !p.match(token.COMMA) {
				break
			}
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.COLON); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.Stmt{Kind: ast.StmtClassDef, Name: name.Literal, Bases: bases, ClassKeywords: keywords, Body: body, Span: start.Join(stmtsEnd(start, body))}, nil
}

func (p *Parser) parseWithStatement(isAsync bool) (*ast.Stmt, error) {
	start := p.advance().Span
	var items []ast.WithItem
	for {
		ctx, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		item := ast.WithItem{ContextExpr: ctx, Span: ctx.Span}
		if p.match(token.AS) {
			target, err := p.parsePrecedence(POSTFIX)
			if err != nil {
				return nil, err
			}
			item.OptionalVars = target
			item.Span = ctx.Span.Join(target.Span)
		}
		items = append(items, item)
		if !p.match(token.COMMA) {
			break
		}
	}
	if _, err := p.expect(token.COLON); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.Stmt{Kind: ast.StmtWith, Items: items, Body: body, IsAsync: isAsync, Span: start.Join(stmtsEnd(start, body))}, nil
}

func (p *Parser) parseTryStatement() (*ast.Stmt, error) {
	start := p.advance().Span
	if _, err := p.expect(token.COLON); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	stmt := &ast.Stmt{Kind: ast.StmtTry, Body: body, Span: start}
	for p.check(token.EXCEPT) {
		handlerStart := p.advance().Span
		var typ *ast.Expr
		var name string
		if !p.check(token.COLON) {
			typ, err = p.ParseExpression()
			if err != nil {
				return nil, err
			}
			if p.match(token.AS) {
				n, err := p.expect(token.IDENT)
				if err != nil {
					return nil, err
				}
				name = n.Literal
			}
		}
		if _, err := p.expect(token.COLON); err != nil {
			return nil, err
		}
		handlerBody, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		stmt.Handlers = append(stmt.Handlers, ast.ExceptHandler{Type: typ, Name: name, Body: handlerBody, Span: handlerStart})
	}
	if p.match(token.ELSE) {
		if _, err := p.expect(token.COLON); err != nil {
			return nil, err
		}
		stmt.Orelse, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}
	if p.match(token.FINALLY) {
		if _, err := p.expect(token.COLON); err != nil {
			return nil, err
		}
		stmt.Finalbody, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}
	end := stmtsEnd(start, stmt.Body)
	for _, h := range stmt.Handlers {
		end = stmtsEnd(end, h.Body)
	}
	end = stmtsEnd(end, stmt.Orelse, stmt.Finalbody)
	stmt.Span = start.Join(end)
	return stmt, nil
}

func (p *Parser) parseMatchStatement() (*ast.Stmt, error) {
	start := p.advance().Span
	subject, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.COLON); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.NEWLINE); err != nil {
		return nil, err
	}
	p.skipNewlines()
	if _, err := p.expect(token.INDENT); err != nil {
		return nil, err
	}
	var cases []ast.MatchCase
	p.skipNewlines()
	for p.check(token.CASE) {
		caseStart := p.advance().Span
		pattern, err := p.parsePattern()
		if err != nil {
			return nil, err
		}
		var guard *ast.Expr
		if p.match(token.IF) {
			guard, err = p.ParseExpression()
			if err != nil {
				return nil, err
			}
		}
		if _, err := p.expect(token.COLON); err != nil {
			return nil, err
		}
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		cases = append(cases, ast.MatchCase{Pattern: pattern, Guard: guard, Body: body, Span: caseStart})
		p.skipNewlines()
	}
	if _, err := p.expect(token.DEDENT); err != nil {
		return nil, err
	}
	end := start
	for _, cs := range cases {
		end = stmtsEnd(end, cs.Body)
	}
	return &ast.Stmt{Kind: ast.StmtMatch, Subject: subject, Cases: cases, Span: start.Join(end)}, nil
}

// parseParams parses a parenthesized or (for lambdas) bare parameter
// list up to the terminating ')' or ':'.
func (p *Parser) parseParams(isLambda bool) (*ast.Params, error) {
	if isLambda {
		if p.check(token.COLON) {
			return &ast.Params{}, nil
		}
		return p.parseParamList(token.COLON)
	}
	return p.parseParamList(token.RPAREN)
}

func (p *Parser) parseParamList(terminator token.Kind) (*ast.Params, error) {
	params := &ast.Params{}
	seenDefault := false
	seenStar := false

	for !p.check(terminator) {
		if p.match(token.DSTAR) {
			name, err := p.expect(token.IDENT)
			if err != nil {
				return nil, err
			}
			param := ast.Parameter{Name: name.Literal, Span: name.Span}
			if terminator != token.COLON && p.match(token.COLON) {
				ann, err := p.ParseExpression()
				if err != nil {
					return nil, err
				}
				param.Annotation = ann
			}
			params.Kwarg = &param
			break
		}
		if p.match(token.STAR) {
			seenStar = true
			if p.match(token.COMMA) {
				continue
			}
			if p.check(terminator) {
				return nil, silkerrors.NewParseError(silkerrors.InvalidSyntax, p.current().Span, "named arguments must follow bare *")
			}
			name, err := p.expect(token.IDENT)
			if err != nil {
				return nil, err
			}
			param := ast.Parameter{Name: name.Literal, Span: name.Span}
			if terminator != token.COLON && p.match(token.COLON) {
				ann, err := p.ParseExpression()
				if err != nil {
					return nil, err
				}
				param.Annotation = ann
			}
			params.Vararg = &param
			if !p.match(token.COMMA) {
				break
			}
			continue
		}

		name, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		param := ast.Parameter{Name: name.Literal, Span: name.Span}
		if terminator != token.COLON && p.match(token.COLON) {
			ann, err := p.ParseExpression()
			if err != nil {
				return nil, err
			}
			param.Annotation = ann
		}
		if p.match(token.ASSIGN) {
			def, err := p.ParseExpression()
			if err != nil {
				return nil, err
			}
			param.Default = def
			seenDefault = true
		} else if seenDefault && !seenStar {
			return nil, silkerrors.NewParseError(silkerrors.NonDefaultParamAfterDefault, param.Span, "")
		}

		if seenStar {
			params.KwOnly = append(params.KwOnly, param)
		} else {
			params.Args = append(params.Args, param)
		}
		if !p.match(token.COMMA) {
			break
		}
	}
	return params, nil
}
