package lexer

import (
	"strings"

	silkerrors "github.com/silk-lang/silk/pkgs/errors"
	"github.com/silk-lang/silk/pkgs/token"
)

// readString scans a regular, raw, and/or byte string literal,
// including its triple-quoted form. Escape processing is skipped
// entirely for raw strings; byte strings additionally reject non-ASCII
// bytes and support `\xHH`.
func (l *Lexer) readString(start token.Span, raw, isByte, _ bool) (token.Token, error) {
	quote := l.ch
	triple := l.peekChar() == quote && l.peekCharAt(2) == quote
	l.advance()
	if triple {
		l.advance()
		l.advance()
	}

	var b strings.Builder
	for {
		if l.ch == 0 {
			return token.Token{}, silkerrors.NewLexError(silkerrors.UnterminatedString, start, "")
		}
		if !triple && l.ch == '\n' {
			return token.Token{}, silkerrors.NewLexError(silkerrors.UnterminatedString, start, "")
		}
		if l.ch == quote {
			if !triple {
				l.advance()
				break
			}
			if l.peekChar() == quote && l.peekCharAt(2) == quote {
				l.advance()
				l.advance()
				l.advance()
				break
			}
		}
		if l.ch == '\\' && !raw {
			val, err := l.readEscape(isByte)
			if err != nil {
				return token.Token{}, err
			}
			b.WriteString(val)
			continue
		}
		if l.ch == '\\' && raw {
			// raw strings keep the backslash verbatim but still honor
			// it as an escape for the purpose of not ending the string
			// early on `\"`.
			b.WriteRune(l.ch)
			l.advance()
			if l.ch != 0 {
				b.WriteRune(l.ch)
				l.advance()
			}
			continue
		}
		if isByte && l.ch > 127 {
			return token.Token{}, silkerrors.NewLexError(silkerrors.NonASCIIByteString, l.here(), string(l.ch))
		}
		b.WriteRune(l.ch)
		l.advance()
	}

	kind := token.STRING
	if raw {
		kind = token.RAWSTRING
	}
	if isByte {
		kind = token.BYTESTRING
	}
	return token.Token{Kind: kind, Literal: b.String(), Span: l.spanFrom(start)}, nil
}

func (l *Lexer) readEscape(isByte bool) (string, error) {
	escStart := l.here()
	l.advance() // consume backslash
	c := l.ch
	switch c {
	case 'n':
		l.advance()
		return "\n", nil
	case 'r':
		l.advance()
		return "\r", nil
	case 't':
		l.advance()
		return "\t", nil
	case '\\':
		l.advance()
		return "\\", nil
	case '\'':
		l.advance()
		return "'", nil
	case '"':
		l.advance()
		return "\"", nil
	case '0':
		l.advance()
		return "\x00", nil
	case 'x':
		if !isByte {
			return "", silkerrors.NewLexError(silkerrors.InvalidEscape, escStart, string(c))
		}
		l.advance()
		hi, lo := l.ch, l.peekChar()
		if !isHexDigit(hi) || !isHexDigit(lo) {
			return "", silkerrors.NewLexError(silkerrors.InvalidEscape, escStart, "\\x requires two hex digits")
		}
		l.advance()
		l.advance()
		return string([]byte{byte(hexVal(hi)*16 + hexVal(lo))}), nil
	case 'u':
		if isByte {
			return "", silkerrors.NewLexError(silkerrors.InvalidEscape, escStart, "\\u is not valid in a byte string")
		}
		l.advance()
		r, err := l.readUnicodeEscape(4, escStart)
		if err != nil {
			return "", err
		}
		return string(r), nil
	case 'U':
		if isByte {
			return "", silkerrors.NewLexError(silkerrors.InvalidEscape, escStart, "\\U is not valid in a byte string")
		}
		l.advance()
		r, err := l.readUnicodeEscape(8, escStart)
		if err != nil {
			return "", err
		}
		return string(r), nil
	default:
		return "", silkerrors.NewLexError(silkerrors.InvalidEscape, escStart, string(c))
	}
}

func (l *Lexer) readUnicodeEscape(digits int, start token.Span) (rune, error) {
	val := 0
	for i := 0; i < digits; i++ {
		if !isHexDigit(l.ch) {
			return 0, silkerrors.NewLexError(silkerrors.InvalidUnicodeEscape, start, "")
		}
		val = val*16 + hexVal(l.ch)
		l.advance()
	}
	return rune(val), nil
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func hexVal(r rune) int {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0')
	case r >= 'a' && r <= 'f':
		return int(r-'a') + 10
	default:
		return int(r-'A') + 10
	}
}

// readFString scans an f-string, splitting it into literal-text and
// `{expr[:format_spec]}` parts. The code inside each expression hole is
// captured as raw source text (doubled `{{`/`}}` is the literal-text
// escape); the parser is responsible for re-tokenizing and parsing that
// substring, since the lexer has no notion of expression grammar.
func (l *Lexer) readFString(start token.Span) (token.Token, error) {
	quote := l.ch
	triple := l.peekChar() == quote && l.peekCharAt(2) == quote
	l.advance()
	if triple {
		l.advance()
		l.advance()
	}

	var parts []token.FStringPart
	var text strings.Builder

	flushText := func(partStart token.Span) {
		if text.Len() > 0 {
			parts = append(parts, token.FStringPart{Text: text.String(), Span: l.spanFrom(partStart)})
			text.Reset()
		}
	}

	for {
		if l.ch == 0 {
			return token.Token{}, silkerrors.NewLexError(silkerrors.UnterminatedString, start, "")
		}
		if !triple && l.ch == '\n' {
			return token.Token{}, silkerrors.NewLexError(silkerrors.UnterminatedString, start, "")
		}
		if l.ch == quote {
			if !triple {
				l.advance()
				break
			}
			if l.peekChar() == quote && l.peekCharAt(2) == quote {
				l.advance()
				l.advance()
				l.advance()
				break
			}
		}
		if l.ch == '{' && l.peekChar() == '{' {
			text.WriteRune('{')
			l.advance()
			l.advance()
			continue
		}
		if l.ch == '}' && l.peekChar() == '}' {
			text.WriteRune('}')
			l.advance()
			l.advance()
			continue
		}
		if l.ch == '{' {
			flushText(l.here())
			part, err := l.readFStringExprPart()
			if err != nil {
				return token.Token{}, err
			}
			parts = append(parts, part)
			continue
		}
		if l.ch == '\\' {
			val, err := l.readEscape(false)
			if err != nil {
				return token.Token{}, err
			}
			text.WriteString(val)
			continue
		}
		text.WriteRune(l.ch)
		l.advance()
	}
	flushText(l.here())

	return token.Token{Kind: token.FSTRING_START, FStringParts: parts, Span: l.spanFrom(start)}, nil
}

// readFStringExprPart scans one `{code}` or `{code:spec}` hole,
// respecting nested brackets/quotes so that commas, colons, and braces
// inside the expression itself don't terminate the hole early.
func (l *Lexer) readFStringExprPart() (token.FStringPart, error) {
	holeStart := l.here()
	l.advance() // consume '{'

	var code strings.Builder
	var formatSpec strings.Builder
	depth := 0
	inFormatSpec := false
	var quoteCh rune

	for {
		if l.ch == 0 {
			return token.FStringPart{}, silkerrors.NewLexError(silkerrors.UnterminatedString, holeStart, "unterminated f-string expression")
		}
		if quoteCh != 0 {
			if l.ch == quoteCh {
				quoteCh = 0
			}
			if inFormatSpec {
				formatSpec.WriteRune(l.ch)
			} else {
				code.WriteRune(l.ch)
			}
			l.advance()
			continue
		}
		switch l.ch {
		case '\'', '"':
			quoteCh = l.ch
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ':':
			if depth == 0 && !inFormatSpec {
				inFormatSpec = true
				l.advance()
				continue
			}
		case '}':
			if depth == 0 {
				l.advance()
				return token.FStringPart{
					IsExpr:     true,
					Code:       strings.TrimSpace(code.String()),
					FormatSpec: formatSpec.String(),
					Span:       l.spanFrom(holeStart),
				}, nil
			}
		}
		if inFormatSpec {
			formatSpec.WriteRune(l.ch)
		} else {
			code.WriteRune(l.ch)
		}
		l.advance()
	}
}
