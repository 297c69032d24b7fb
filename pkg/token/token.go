package token

import "fmt"

type Type int

const (
	EOF Type = iota
	Illegal
	Ident
	Number
	LParen
	RParen
	Plus
	Minus
	Complement
	And
	Or
	Xor
	Shl
	Shr
)

var typeNames = map[Type]string{
	EOF:        "end of expression",
	Illegal:    "illegal character",
	Ident:      "identifier",
	Number:     "number",
	LParen:     "'('",
	RParen:     "')'",
	Plus:       "'+'",
	Minus:      "'-'",
	Complement: "'~'",
	And:        "'&'",
	Or:         "'|'",
	Xor:        "'^'",
	Shl:        "'<<'",
	Shr:        "'>>'",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("token(%d)", int(t))
}

// Token is a single lexeme of an enumerator value expression. Pos is the
// byte offset of the lexeme in the expression text.
type Token struct {
	Type  Type
	Value string
	Pos   int
	Len   int
}
