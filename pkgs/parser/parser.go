// Package parser builds Silk's AST from a token stream using recursive
// descent for statements and Pratt (precedence-climbing) parsing for
// expressions. The Parser walks a pre-lexed token slice through
// match/check/expect helpers and aborts on the first error, since
// lex/parse diagnostics are meant to short-circuit immediately
// (semantic diagnostics are the ones that accumulate, in package
// sema).
package parser

import (
	"github.com/silk-lang/silk/pkgs/ast"
	silkerrors "github.com/silk-lang/silk/pkgs/errors"
	"github.com/silk-lang/silk/pkgs/lexer"
	"github.com/silk-lang/silk/pkgs/token"
)

// Parser consumes a pre-lexed token slice and produces AST nodes.
type Parser struct {
	tokens []token.Token
	pos    int
}

// New builds a Parser over an already-tokenized source.
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse tokenizes source and parses it into a Program in one call.
func Parse(source string) (*ast.Program, error) {
	tokens, err := lexer.Tokenize(source)
	if err != nil {
		return nil, err
	}
	return New(tokens).ParseProgram()
}

func (p *Parser) current() token.Token {
	return p.tokens[p.pos]
}

func (p *Parser) peek(offset int) token.Token {
	idx := p.pos + offset
	if idx >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[idx]
}

func (p *Parser) atEnd() bool {
	return p.current().Kind == token.EOF
}

func (p *Parser) check(kind token.Kind) bool {
	return p.current().Kind == kind
}

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) advance() token.Token {
	tok := p.current()
	if !p.atEnd() {
		p.pos++
	}
	return tok
}

func (p *Parser) expect(kind token.Kind) (token.Token, error) {
	if p.check(kind) {
		return p.advance(), nil
	}
	return token.Token{}, silkerrors.NewUnexpectedToken(p.current().Span, kind.String(), p.current().Kind.String())
}

// skipNewlines consumes zero or more top-level NEWLINE tokens, used
// between statements where blank lines are permitted.
func (p *Parser) skipNewlines() {
	for p.check(token.NEWLINE) {
		p.advance()
	}
}
