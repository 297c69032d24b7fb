package parser

import (
	"fmt"
	"strconv"
	"unicode"

	"github.com/xplshn/enumdefs/pkg/ast"
	"github.com/xplshn/enumdefs/pkg/lexer"
	"github.com/xplshn/enumdefs/pkg/token"
)

// SyntaxError reports the first token the parser could not accept.
type SyntaxError struct {
	Expr string
	Tok  token.Token
	Msg  string
}

func (e *SyntaxError) Error() string {
	if e.Tok.Type == token.EOF {
		return fmt.Sprintf("%s at end of %q", e.Msg, e.Expr)
	}
	return fmt.Sprintf("%s at offset %d of %q", e.Msg, e.Tok.Pos, e.Expr)
}

// Parser holds the state for parsing one value expression
type Parser struct {
	source   string
	tokens   []token.Token
	pos      int
	current  token.Token
	previous token.Token
	err      error
}

// NewParser creates and initializes a new Parser from a token stream
func NewParser(source string, tokens []token.Token) *Parser {
	p := &Parser{source: source, tokens: tokens, pos: 0}
	if len(tokens) > 0 {
		p.current = p.tokens[0]
	}
	return p
}

// ParseExpr tokenizes and parses a complete expression.
func ParseExpr(source string) (*ast.Node, error) {
	return NewParser(source, lexer.Tokenize(source)).Parse()
}

// Parser helpers
func (p *Parser) advance() {
	if p.pos < len(p.tokens) {
		p.previous = p.current
		p.pos++
		if p.pos < len(p.tokens) {
			p.current = p.tokens[p.pos]
		}
	}
}

func (p *Parser) peekAt(offset int) token.Token {
	if p.pos+offset < len(p.tokens) {
		return p.tokens[p.pos+offset]
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *Parser) check(tokType token.Type) bool {
	return p.current.Type == tokType
}

func (p *Parser) match(tokType token.Type) bool {
	if !p.check(tokType) {
		return false
	}
	p.advance()
	return true
}

func (p *Parser) fail(tok token.Token, format string, args ...interface{}) {
	if p.err == nil {
		p.err = &SyntaxError{Expr: p.source, Tok: tok, Msg: fmt.Sprintf(format, args...)}
	}
}

func (p *Parser) expect(tokType token.Type, message string) {
	if p.check(tokType) {
		p.advance()
		return
	}
	p.fail(p.current, message)
}

// Expression Parsing
func getBinaryOpPrecedence(op token.Type) int {
	switch op {
	case token.Plus, token.Minus:
		return 12
	case token.Shl, token.Shr:
		return 11
	case token.And:
		return 8
	case token.Xor:
		return 7
	case token.Or:
		return 6
	default:
		return -1
	}
}

// castLength reports how many tokens a C cast like "(guint)" or
// "(unsigned long)" spans at the current position, or 0 if there is none.
// Only lower-case type words qualify, which keeps "(FOO)" a parenthesized
// enumerator reference.
func (p *Parser) castLength() int {
	if !p.check(token.LParen) {
		return 0
	}
	n := 1
	for p.peekAt(n).Type == token.Ident && isTypeWord(p.peekAt(n).Value) {
		n++
	}
	if n == 1 || p.peekAt(n).Type != token.RParen {
		return 0
	}
	switch p.peekAt(n + 1).Type {
	case token.Number, token.Ident, token.LParen, token.Minus, token.Plus, token.Complement:
		return n + 1
	}
	return 0
}

func isTypeWord(s string) bool {
	if s == "" || !unicode.IsLower(rune(s[0])) {
		return false
	}
	for _, r := range s {
		if unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

func (p *Parser) parsePrimaryExpr() *ast.Node {
	tok := p.current
	if p.match(token.Number) {
		val, _ := strconv.ParseInt(p.previous.Value, 10, 64)
		return ast.NewNumber(tok, val)
	}
	if p.match(token.Ident) {
		return ast.NewIdent(tok, p.previous.Value)
	}
	if p.match(token.LParen) {
		expr := p.parseExpr()
		p.expect(token.RParen, "expected ')'")
		return expr
	}
	if tok.Type == token.Illegal {
		p.fail(tok, "unexpected %q", tok.Value)
	} else {
		p.fail(tok, "expected an expression, found %s", tok.Type)
	}
	return ast.NewNumber(tok, 0)
}

func (p *Parser) parseUnaryExpr() *ast.Node {
	tok := p.current
	if n := p.castLength(); n > 0 {
		for i := 0; i < n; i++ {
			p.advance()
		}
		return p.parseUnaryExpr()
	}
	if p.match(token.Minus) || p.match(token.Plus) || p.match(token.Complement) {
		op := p.previous.Type
		operand := p.parseUnaryExpr()
		return ast.NewUnaryOp(tok, op, operand)
	}
	return p.parsePrimaryExpr()
}

func (p *Parser) parseBinaryExpr(minPrec int) *ast.Node {
	left := p.parseUnaryExpr()
	for p.err == nil {
		op := p.current.Type
		prec := getBinaryOpPrecedence(op)
		if prec < minPrec {
			break
		}
		opTok := p.current
		p.advance()
		right := p.parseBinaryExpr(prec + 1)
		left = ast.NewBinaryOp(opTok, op, left, right)
	}
	return left
}

func (p *Parser) parseExpr() *ast.Node {
	return p.parseBinaryExpr(0)
}

// Parse parses the whole token stream as one expression.
func (p *Parser) Parse() (*ast.Node, error) {
	if len(p.tokens) == 0 {
		return nil, &SyntaxError{Expr: p.source, Msg: "empty expression"}
	}
	root := p.parseExpr()
	if p.err == nil && !p.check(token.EOF) {
		p.fail(p.current, "unexpected %s", p.current.Type)
	}
	if p.err != nil {
		return nil, p.err
	}
	return root, nil
}
