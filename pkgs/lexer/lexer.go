// Package lexer turns Silk source text into a stream of tokens,
// including the virtual INDENT/DEDENT/NEWLINE tokens that make
// indentation significant. The scanner is a struct carrying the input,
// a rune cursor, and line/column counters, with ASCII classification
// tables built once in init(); indentation is tracked with a monotonic
// stack of column widths so each block boundary surfaces as exactly one
// INDENT or a balanced run of DEDENTs.
package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	silkerrors "github.com/silk-lang/silk/pkgs/errors"
	"github.com/silk-lang/silk/pkgs/token"
)

var (
	isIdentStart [128]bool
	isIdentCont  [128]bool
	isDigitASCII [128]bool
)

func init() {
	for c := 'a'; c <= 'z'; c++ {
		isIdentStart[c] = true
		isIdentCont[c] = true
	}
	for c := 'A'; c <= 'Z'; c++ {
		isIdentStart[c] = true
		isIdentCont[c] = true
	}
	isIdentStart['_'] = true
	isIdentCont['_'] = true
	for c := '0'; c <= '9'; c++ {
		isDigitASCII[c] = true
		isIdentCont[c] = true
	}
}

func isIdentStartRune(r rune) bool {
	if r < 128 {
		return isIdentStart[r]
	}
	return unicode.IsLetter(r)
}

func isIdentContRune(r rune) bool {
	if r < 128 {
		return isIdentCont[r]
	}
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// Lexer scans one Silk source unit into tokens. It is single-use: build
// a new Lexer per source string.
type Lexer struct {
	input []rune

	pos    int // index into input of ch
	readPos int
	ch     rune

	byteOffset    int // byte offset corresponding to pos
	readByteOffset int

	line   int
	column int

	// indentStack holds the column width of each currently-open
	// indentation level; indentStack[0] is always 0 (the module's
	// base level).
	indentStack []int
	atLineStart bool
	pendingDedents int

	// parenDepth tracks nesting of (), [], {} — inside any bracket,
	// newlines are NOT significant, mirroring Python's "implicit line
	// joining".
	parenDepth int

	// pendingNewline is set once real content has been scanned on the
	// current logical line and cleared when a NEWLINE token (real or
	// synthesized) closes it; it tells atEOF whether the final line
	// needs a synthesized closing NEWLINE before EOF.
	pendingNewline bool
}

// New constructs a Lexer over source.
func New(source string) *Lexer {
	l := &Lexer{
		input:       []rune(source),
		indentStack: []int{0},
		atLineStart: true,
		line:        1,
		column:      1,
	}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0
		l.pos = l.readPos
		l.byteOffset = l.readByteOffset
		return
	}
	l.ch = l.input[l.readPos]
	l.pos = l.readPos
	l.byteOffset = l.readByteOffset
	l.readByteOffset += utf8.RuneLen(l.ch)
	l.readPos++
}

func (l *Lexer) peekChar() rune {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

func (l *Lexer) peekCharAt(offset int) rune {
	idx := l.readPos + offset - 1
	if idx < 0 || idx >= len(l.input) {
		return 0
	}
	return l.input[idx]
}

func (l *Lexer) advance() {
	if l.ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	l.readChar()
}

func (l *Lexer) here() token.Span {
	return token.Span{StartByte: l.byteOffset, EndByte: l.byteOffset, Line: l.line, Column: l.column}
}

func (l *Lexer) spanFrom(start token.Span) token.Span {
	return token.Span{StartByte: start.StartByte, EndByte: l.byteOffset, Line: start.Line, Column: start.Column}
}

// Tokenize runs the lexer to completion, returning every token
// including a trailing EOF, or the first lexical error encountered.
func Tokenize(source string) ([]token.Token, error) {
	l := New(source)
	var tokens []token.Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			return tokens, nil
		}
	}
}

// Next scans and returns the next token, or a *silkerrors.LexError.
func (l *Lexer) Next() (token.Token, error) {
	if l.pendingDedents > 0 {
		l.pendingDedents--
		return token.Token{Kind: token.DEDENT, Span: l.here()}, nil
	}

	if l.atLineStart && l.parenDepth == 0 {
		tok, emit, err := l.handleIndentation()
		if err != nil {
			return token.Token{}, err
		}
		if emit {
			return tok, nil
		}
	}

	l.skipSpacesAndComments()

	start := l.here()

	if l.ch == 0 {
		return l.atEOF(start)
	}

	switch {
	case l.ch == '\n':
		l.advance()
		if l.parenDepth > 0 {
			return l.Next()
		}
		l.atLineStart = true
		l.pendingNewline = false
		return token.Token{Kind: token.NEWLINE, Span: l.spanFrom(start)}, nil
	case l.ch == '\\' && l.peekChar() == '\n':
		// explicit line continuation: consume both and keep scanning.
		l.advance()
		l.advance()
		return l.Next()
	case isIdentStartRune(l.ch):
		tok, err := l.readIdentifierOrPrefixedString(start)
		if err == nil {
			l.pendingNewline = true
		}
		return tok, err
	case isDigit(l.ch):
		tok, err := l.readNumber(start)
		if err == nil {
			l.pendingNewline = true
		}
		return tok, err
	case l.ch == '"' || l.ch == '\'':
		tok, err := l.readString(start, false, false, false)
		if err == nil {
			l.pendingNewline = true
		}
		return tok, err
	default:
		tok, err := l.readOperator(start)
		if err == nil {
			l.pendingNewline = true
		}
		return tok, err
	}
}

// atEOF synthesizes the tail of the stream once real source content is
// exhausted: a closing NEWLINE only if the final logical line never got
// one (no trailing newline in the source), one DEDENT per still-open
// indentation level, then the single terminating EOF.
func (l *Lexer) atEOF(start token.Span) (token.Token, error) {
	if l.pendingNewline {
		l.pendingNewline = false
		return token.Token{Kind: token.NEWLINE, Span: start}, nil
	}
	if len(l.indentStack) > 1 {
		l.indentStack = l.indentStack[:len(l.indentStack)-1]
		l.pendingDedents = len(l.indentStack) - 1
		l.indentStack = l.indentStack[:1]
		return token.Token{Kind: token.DEDENT, Span: start}, nil
	}
	return token.Token{Kind: token.EOF, Span: start}, nil
}

// handleIndentation runs once per physical line, only at the start of a
// logical line (outside brackets). It measures the line's indentation
// column width and emits INDENT/DEDENT as needed, or falls through
// (emit=false) to let the caller scan the line's first real token when
// indentation is unchanged. A blank or comment-only line still ends
// with its own NEWLINE token (the newline character itself always
// emits one, per the lexer's physical-line handling) but never touches
// the indent stack; atLineStart stays set so the next call measures
// the following physical line.
func (l *Lexer) handleIndentation() (token.Token, bool, error) {
	lineStart := l.here()
	width := 0
	for l.ch == ' ' || l.ch == '\t' {
		if l.ch == '\t' {
			width += 8 - (width % 8)
		} else {
			width++
		}
		l.advance()
	}

	if l.ch == '#' {
		for l.ch != '\n' && l.ch != 0 {
			l.advance()
		}
	}
	if l.ch == '\r' && l.peekChar() == '\n' {
		l.advance()
	}

	if l.ch == '\n' {
		nlStart := l.here()
		l.advance()
		return token.Token{Kind: token.NEWLINE, Span: l.spanFrom(nlStart)}, true, nil
	}
	if l.ch == 0 {
		l.atLineStart = false
		return token.Token{}, false, nil
	}

	l.atLineStart = false
	top := l.indentStack[len(l.indentStack)-1]
	switch {
	case width > top:
		l.indentStack = append(l.indentStack, width)
		return token.Token{Kind: token.INDENT, Span: lineStart}, true, nil
	case width < top:
		count := 0
		for len(l.indentStack) > 1 && l.indentStack[len(l.indentStack)-1] > width {
			l.indentStack = l.indentStack[:len(l.indentStack)-1]
			count++
		}
		if l.indentStack[len(l.indentStack)-1] != width {
			return token.Token{}, false, silkerrors.NewLexError(
				silkerrors.IndentationError, lineStart,
				"unindent does not match any outer indentation level")
		}
		l.pendingDedents = count - 1
		return token.Token{Kind: token.DEDENT, Span: lineStart}, true, nil
	default:
		return token.Token{}, false, nil
	}
}

func (l *Lexer) skipSpacesAndComments() {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' {
			l.advance()
		}
		if l.ch == '#' {
			for l.ch != '\n' && l.ch != 0 {
				l.advance()
			}
			continue
		}
		// Inside brackets, blank/comment-only lines are just
		// whitespace: fold them away entirely.
		if l.parenDepth > 0 && l.ch == '\n' {
			save := l.pos
			l.advance()
			for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' {
				l.advance()
			}
			if l.ch == '#' {
				for l.ch != '\n' && l.ch != 0 {
					l.advance()
				}
				continue
			}
			_ = save
			continue
		}
		return
	}
}

func (l *Lexer) readIdentifierOrPrefixedString(start token.Span) (token.Token, error) {
	lit := l.readIdentRunes()

	switch strings.ToLower(lit) {
	case "r":
		if l.ch == '"' || l.ch == '\'' {
			return l.readString(start, true, false, false)
		}
	case "b":
		if l.ch == '"' || l.ch == '\'' {
			return l.readString(start, false, true, false)
		}
		if (l.ch == 'r' || l.ch == 'R') && (l.peekChar() == '"' || l.peekChar() == '\'') {
			l.advance()
			return l.readString(start, true, true, false)
		}
	case "rb", "br":
		if l.ch == '"' || l.ch == '\'' {
			return l.readString(start, true, true, false)
		}
	case "f":
		if l.ch == '"' || l.ch == '\'' {
			return l.readFString(start)
		}
	}

	kind := token.LookupIdent(lit)
	return token.Token{Kind: kind, Literal: lit, Span: l.spanFrom(start)}, nil
}

func (l *Lexer) readIdentRunes() string {
	var b strings.Builder
	for isIdentContRune(l.ch) {
		b.WriteRune(l.ch)
		l.advance()
	}
	return b.String()
}

func (l *Lexer) readOperator(start token.Span) (token.Token, error) {
	ch := l.ch
	next := l.peekChar()

	three := func(a, b rune, k token.Kind) (token.Token, bool) {
		if l.ch == a && l.peekChar() == b && l.peekCharAt(2) == '=' {
			l.advance()
			l.advance()
			l.advance()
			return token.Token{Kind: k, Span: l.spanFrom(start)}, true
		}
		return token.Token{}, false
	}
	if tok, ok := three('*', '*', token.DSTAR_ASSIGN); ok {
		return tok, nil
	}
	if tok, ok := three('/', '/', token.DSLASH_ASSIGN); ok {
		return tok, nil
	}
	if tok, ok := three('<', '<', token.LSHIFT_ASSIGN); ok {
		return tok, nil
	}
	if tok, ok := three('>', '>', token.RSHIFT_ASSIGN); ok {
		return tok, nil
	}

	two := func(a, b rune, k token.Kind) (token.Token, bool) {
		if ch == a && next == b {
			l.advance()
			l.advance()
			return token.Token{Kind: k, Span: l.spanFrom(start)}, true
		}
		return token.Token{}, false
	}
	twoChecks := []struct {
		a, b rune
		k    token.Kind
	}{
		{'*', '*', token.DSTAR}, {'/', '/', token.DSLASH},
		{'<', '<', token.LSHIFT}, {'>', '>', token.RSHIFT},
		{'<', '=', token.LE}, {'>', '=', token.GE},
		{'=', '=', token.EQ}, {'!', '=', token.NE},
		{'+', '=', token.PLUS_ASSIGN}, {'-', '=', token.MINUS_ASSIGN},
		{'*', '=', token.STAR_ASSIGN}, {'/', '=', token.SLASH_ASSIGN},
		{'%', '=', token.PERCENT_ASSIGN}, {'&', '=', token.AMP_ASSIGN},
		{'|', '=', token.PIPE_ASSIGN}, {'^', '=', token.CARET_ASSIGN},
		{':', '=', token.WALRUS}, {'-', '>', token.ARROW},
	}
	for _, c := range twoChecks {
		if tok, ok := two(c.a, c.b, c.k); ok {
			return tok, nil
		}
	}

	if ch == '.' && next == '.' && l.peekCharAt(2) == '.' {
		l.advance()
		l.advance()
		l.advance()
		return token.Token{Kind: token.ELLIPSIS, Span: l.spanFrom(start)}, nil
	}

	single := map[rune]token.Kind{
		'+': token.PLUS, '-': token.MINUS, '*': token.STAR, '/': token.SLASH,
		'%': token.PERCENT, '<': token.LT, '>': token.GT, '=': token.ASSIGN,
		'&': token.AMP, '|': token.PIPE, '^': token.CARET, '~': token.TILDE,
		'.': token.DOT, ',': token.COMMA, ':': token.COLON, ';': token.SEMICOLON,
		'@': token.AT,
	}
	if k, ok := single[ch]; ok {
		l.advance()
		return token.Token{Kind: k, Span: l.spanFrom(start)}, nil
	}

	brackets := map[rune]token.Kind{
		'(': token.LPAREN, ')': token.RPAREN,
		'[': token.LBRACKET, ']': token.RBRACKET,
		'{': token.LBRACE, '}': token.RBRACE,
	}
	if k, ok := brackets[ch]; ok {
		switch ch {
		case '(', '[', '{':
			l.parenDepth++
		default:
			if l.parenDepth > 0 {
				l.parenDepth--
			}
		}
		l.advance()
		return token.Token{Kind: k, Span: l.spanFrom(start)}, nil
	}

	badCh := ch
	l.advance()
	return token.Token{}, silkerrors.NewLexError(silkerrors.UnexpectedCharacter, start, string(badCh))
}
