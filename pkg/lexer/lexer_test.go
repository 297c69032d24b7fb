package lexer

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/xplshn/enumdefs/pkg/token"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []token.Token
	}{
		{
			name: "hex and suffixed decimal",
			src:  "0x1F + 10u",
			want: []token.Token{
				{Type: token.Number, Value: "31", Pos: 0, Len: 4},
				{Type: token.Plus, Pos: 5, Len: 1},
				{Type: token.Number, Value: "10", Pos: 7, Len: 3},
				{Type: token.EOF, Pos: 10, Len: 0},
			},
		},
		{
			name: "shift with cast",
			src:  "(guint) 1 << 3",
			want: []token.Token{
				{Type: token.LParen, Pos: 0, Len: 1},
				{Type: token.Ident, Value: "guint", Pos: 1, Len: 5},
				{Type: token.RParen, Pos: 6, Len: 1},
				{Type: token.Number, Value: "1", Pos: 8, Len: 1},
				{Type: token.Shl, Pos: 10, Len: 2},
				{Type: token.Number, Value: "3", Pos: 13, Len: 1},
				{Type: token.EOF, Pos: 14, Len: 0},
			},
		},
		{
			name: "names and operators",
			src:  "~FOO_A|GM_B^x",
			want: []token.Token{
				{Type: token.Complement, Pos: 0, Len: 1},
				{Type: token.Ident, Value: "FOO_A", Pos: 1, Len: 5},
				{Type: token.Or, Pos: 6, Len: 1},
				{Type: token.Ident, Value: "GM_B", Pos: 7, Len: 4},
				{Type: token.Xor, Pos: 11, Len: 1},
				{Type: token.Ident, Value: "x", Pos: 12, Len: 1},
				{Type: token.EOF, Pos: 13, Len: 0},
			},
		},
		{
			name: "octal and long suffix",
			src:  "010UL",
			want: []token.Token{
				{Type: token.Number, Value: "8", Pos: 0, Len: 5},
				{Type: token.EOF, Pos: 5, Len: 0},
			},
		},
		{
			name: "single angle bracket is illegal",
			src:  "1 < 2",
			want: []token.Token{
				{Type: token.Number, Value: "1", Pos: 0, Len: 1},
				{Type: token.Illegal, Value: "<", Pos: 2, Len: 1},
				{Type: token.Number, Value: "2", Pos: 4, Len: 1},
				{Type: token.EOF, Pos: 5, Len: 0},
			},
		},
		{
			name: "letters glued to a number",
			src:  "12abc",
			want: []token.Token{
				{Type: token.Illegal, Value: "12abc", Pos: 0, Len: 5},
				{Type: token.EOF, Pos: 5, Len: 0},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Tokenize(tt.src)); diff != "" {
				t.Errorf("Tokenize(%q) mismatch (-want +got):\n%s", tt.src, diff)
			}
		})
	}
}

func TestTokenizeEmpty(t *testing.T) {
	got := Tokenize("   ")
	if len(got) != 1 || got[0].Type != token.EOF {
		t.Fatalf("Tokenize of blank input = %v, want a single EOF", got)
	}
}
