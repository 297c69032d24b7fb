package lexer

import (
	"strconv"
	"unicode"

	"github.com/xplshn/enumdefs/pkg/token"
)

// Lexer splits an enumerator value expression into tokens. It never fails:
// anything it does not understand comes back as a token.Illegal and the
// parser decides what to do with it.
type Lexer struct {
	source []rune
	pos    int
	offset int
}

func NewLexer(source string) *Lexer {
	return &Lexer{source: []rune(source)}
}

// Tokenize runs the lexer to the end and returns every token, EOF included.
func Tokenize(source string) []token.Token {
	l := NewLexer(source)
	var toks []token.Token
	for {
		tok := l.Next()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks
		}
	}
}

func (l *Lexer) Next() token.Token {
	l.skipWhitespace()
	startPos, startOff := l.pos, l.offset

	if l.isAtEnd() {
		return l.makeToken(token.EOF, "", startPos, startOff)
	}

	ch := l.peek()
	if unicode.IsLetter(ch) || ch == '_' {
		l.advance()
		return l.identifier(startPos, startOff)
	}
	if unicode.IsDigit(ch) {
		return l.numberLiteral(startPos, startOff)
	}

	l.advance()
	switch ch {
	case '(': return l.makeToken(token.LParen, "", startPos, startOff)
	case ')': return l.makeToken(token.RParen, "", startPos, startOff)
	case '+': return l.makeToken(token.Plus, "", startPos, startOff)
	case '-': return l.makeToken(token.Minus, "", startPos, startOff)
	case '~': return l.makeToken(token.Complement, "", startPos, startOff)
	case '&': return l.makeToken(token.And, "", startPos, startOff)
	case '|': return l.makeToken(token.Or, "", startPos, startOff)
	case '^': return l.makeToken(token.Xor, "", startPos, startOff)
	case '<':
		if l.match('<') {
			return l.makeToken(token.Shl, "", startPos, startOff)
		}
	case '>':
		if l.match('>') {
			return l.makeToken(token.Shr, "", startPos, startOff)
		}
	}
	return l.makeToken(token.Illegal, string(l.source[startPos:l.pos]), startPos, startOff)
}

func (l *Lexer) peek() rune {
	if l.isAtEnd() {
		return 0
	}
	return l.source[l.pos]
}

func (l *Lexer) peekNext() rune {
	if l.pos+1 >= len(l.source) {
		return 0
	}
	return l.source[l.pos+1]
}

func (l *Lexer) advance() rune {
	if l.isAtEnd() {
		return 0
	}
	ch := l.source[l.pos]
	l.pos++
	l.offset += len(string(ch))
	return ch
}

func (l *Lexer) match(expected rune) bool {
	if l.isAtEnd() || l.source[l.pos] != expected {
		return false
	}
	l.advance()
	return true
}

func (l *Lexer) isAtEnd() bool { return l.pos >= len(l.source) }

func (l *Lexer) makeToken(tokType token.Type, value string, startPos, startOff int) token.Token {
	return token.Token{Type: tokType, Value: value, Pos: startOff, Len: l.pos - startPos}
}

func (l *Lexer) skipWhitespace() {
	for unicode.IsSpace(l.peek()) {
		l.advance()
	}
}

func (l *Lexer) identifier(startPos, startOff int) token.Token {
	for unicode.IsLetter(l.peek()) || unicode.IsDigit(l.peek()) || l.peek() == '_' {
		l.advance()
	}
	return l.makeToken(token.Ident, string(l.source[startPos:l.pos]), startPos, startOff)
}

// numberLiteral reads a decimal, octal or hex integer. C integer suffixes
// (u, U, l, L in any combination) are consumed and dropped. The token value is
// the literal's decimal form.
func (l *Lexer) numberLiteral(startPos, startOff int) token.Token {
	if l.peek() == '0' && (l.peekNext() == 'x' || l.peekNext() == 'X') {
		l.advance()
		l.advance()
		for isHexDigit(l.peek()) {
			l.advance()
		}
	} else {
		for unicode.IsDigit(l.peek()) {
			l.advance()
		}
	}
	digits := string(l.source[startPos:l.pos])

	for isIntSuffix(l.peek()) {
		l.advance()
	}
	if unicode.IsLetter(l.peek()) || l.peek() == '_' {
		for unicode.IsLetter(l.peek()) || unicode.IsDigit(l.peek()) || l.peek() == '_' {
			l.advance()
		}
		return l.makeToken(token.Illegal, string(l.source[startPos:l.pos]), startPos, startOff)
	}

	val, err := strconv.ParseUint(digits, 0, 64)
	if err != nil {
		return l.makeToken(token.Illegal, digits, startPos, startOff)
	}
	return l.makeToken(token.Number, strconv.FormatInt(int64(val), 10), startPos, startOff)
}

func isHexDigit(c rune) bool {
	return unicode.IsDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isIntSuffix(c rune) bool {
	return c == 'u' || c == 'U' || c == 'l' || c == 'L'
}
