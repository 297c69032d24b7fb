// Package eval computes the numeric value of enumerator initializers.
//
// It understands exactly what C headers use for enum values: integer literals
// (decimal, octal, hex, with or without u/l suffixes), lower-case casts,
// enumerator names, unary - + ~, the binary operators << >> & ^ | + -, and
// parentheses. Anything else is rejected rather than interpreted.
package eval

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/xplshn/enumdefs/pkg/ast"
	"github.com/xplshn/enumdefs/pkg/lexer"
	"github.com/xplshn/enumdefs/pkg/parser"
	"github.com/xplshn/enumdefs/pkg/token"
)

// UnresolvedError is returned when the expression is well formed but refers to
// names the lookup could not turn into numbers.
type UnresolvedError struct {
	Expr  string
	Names []string
}

func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("cannot evaluate %q: unresolved %s", e.Expr, strings.Join(e.Names, ", "))
}

// Eval parses expr and folds it to a single value.
func Eval(expr string, lookup ast.Lookup) (int64, error) {
	root, err := parser.ParseExpr(expr)
	if err != nil {
		return 0, err
	}
	root = ast.FoldConstants(root, lookup)
	if root.Type == ast.Number {
		return root.Data.(ast.NumberNode).Value, nil
	}
	return 0, &UnresolvedError{Expr: expr, Names: ast.Idents(root)}
}

var symbolicName = regexp.MustCompile(`^[A-Z][_A-Z0-9]+$`)

// Symbols lists the enumerator-like names (upper case, digits and underscores,
// at least two characters) that appear in expr, in order of first appearance.
// Hex digits are never mistaken for names.
func Symbols(expr string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, tok := range lexer.Tokenize(expr) {
		if tok.Type != token.Ident || seen[tok.Value] || !symbolicName.MatchString(tok.Value) {
			continue
		}
		seen[tok.Value] = true
		names = append(names, tok.Value)
	}
	return names
}

// Substitute replaces every whole-word occurrence of an identifier in expr for
// which replace returns ok. The rest of the text, spacing included, is kept.
func Substitute(expr string, replace func(name string) (string, bool)) string {
	var sb strings.Builder
	last := 0
	for _, tok := range lexer.Tokenize(expr) {
		if tok.Type != token.Ident {
			continue
		}
		repl, ok := replace(tok.Value)
		if !ok {
			continue
		}
		end := tok.Pos + len(tok.Value)
		sb.WriteString(expr[last:tok.Pos])
		sb.WriteString(repl)
		last = end
	}
	sb.WriteString(expr[last:])
	return sb.String()
}
