package lexer

import (
	"strings"

	silkerrors "github.com/silk-lang/silk/pkgs/errors"
	"github.com/silk-lang/silk/pkgs/token"
)

const maxInt64Text = "9223372036854775807"

// readNumber scans an integer or float literal: decimal digits with
// optional `_` separators, `0b`/`0o`/`0x` prefixes for integers, and a
// mandatory digit after `.` plus an optional exponent for floats. An
// underscore is only valid between two digits.
func (l *Lexer) readNumber(start token.Span) (token.Token, error) {
	if l.ch == '0' && (l.peekChar() == 'b' || l.peekChar() == 'B') {
		return l.readPrefixedInt(start, "01", "0b")
	}
	if l.ch == '0' && (l.peekChar() == 'o' || l.peekChar() == 'O') {
		return l.readPrefixedInt(start, "01234567", "0o")
	}
	if l.ch == '0' && (l.peekChar() == 'x' || l.peekChar() == 'X') {
		return l.readPrefixedInt(start, "0123456789abcdefABCDEF", "0x")
	}

	var b strings.Builder
	b.WriteRune(l.ch)
	l.advance()
	isFloat := false

	digitRun := func() error {
		for isDigit(l.ch) || l.ch == '_' {
			if l.ch == '_' {
				if !isDigit(l.peekChar()) {
					return silkerrors.NewLexError(silkerrors.InvalidNumber, l.spanFrom(start),
						"underscore must separate digits")
				}
			} else {
				b.WriteRune(l.ch)
			}
			l.advance()
		}
		return nil
	}

	if err := digitRun(); err != nil {
		return token.Token{}, err
	}

	if l.ch == '.' && isDigit(l.peekChar()) {
		isFloat = true
		b.WriteRune('.')
		l.advance()
		if err := digitRun(); err != nil {
			return token.Token{}, err
		}
	}
	// A `.` with no following digit is not part of the number: the spec
	// requires a digit after the dot for the float form, so a trailing
	// bare dot (e.g. `x.attr` after `1`) is left for the next token.

	if (l.ch == 'e' || l.ch == 'E') && (isDigit(l.peekChar()) || ((l.peekChar() == '+' || l.peekChar() == '-') && isDigit(l.peekCharAt(2)))) {
		isFloat = true
		b.WriteRune('e')
		l.advance()
		if l.ch == '+' || l.ch == '-' {
			b.WriteRune(l.ch)
			l.advance()
		}
		for isDigit(l.ch) {
			b.WriteRune(l.ch)
			l.advance()
		}
	}

	text := b.String()
	if !isFloat && overflowsInt64(text) {
		return token.Token{}, silkerrors.NewLexError(silkerrors.InvalidNumber, l.spanFrom(start),
			"integer literal out of range for a 64-bit signed integer")
	}

	kind := token.INT
	if isFloat {
		kind = token.FLOAT
	}
	return token.Token{Kind: kind, Literal: text, Span: l.spanFrom(start)}, nil
}

func (l *Lexer) readPrefixedInt(start token.Span, digits, prefix string) (token.Token, error) {
	l.advance() // '0'
	l.advance() // b/o/x
	var b strings.Builder
	sawDigit := false
	for strings.ContainsRune(digits, l.ch) || l.ch == '_' {
		if l.ch == '_' {
			if !sawDigit || !strings.ContainsRune(digits, l.peekChar()) {
				return token.Token{}, silkerrors.NewLexError(silkerrors.InvalidNumber, l.spanFrom(start),
					"underscore must separate digits")
			}
		} else {
			b.WriteRune(l.ch)
			sawDigit = true
		}
		l.advance()
	}
	if b.Len() == 0 {
		return token.Token{}, silkerrors.NewLexError(silkerrors.InvalidNumber, l.spanFrom(start),
			prefix+" literal requires at least one digit")
	}
	return token.Token{Kind: token.INT, Literal: prefix + b.String(), Span: l.spanFrom(start)}, nil
}

// overflowsInt64 reports whether a non-negative base-10 digit string
// exceeds math.MaxInt64.
func overflowsInt64(text string) bool {
	if len(text) > len(maxInt64Text) {
		return true
	}
	if len(text) < len(maxInt64Text) {
		return false
	}
	return text > maxInt64Text
}
