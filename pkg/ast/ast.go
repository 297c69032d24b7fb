// Package ast defines the tree produced when parsing an enumerator value expression
package ast

import (
	"github.com/xplshn/enumdefs/pkg/token"
)

// NodeType defines the kind of a node in the AST
type NodeType int

const (
	Number NodeType = iota
	Ident
	BinaryOp
	UnaryOp
)

// Node represents a node in the expression tree
type Node struct {
	Type   NodeType
	Tok    token.Token
	Parent *Node
	Data   interface{}
}

type NumberNode struct{ Value int64 }
type IdentNode struct{ Name string }
type BinaryOpNode struct{ Op token.Type; Left, Right *Node }
type UnaryOpNode struct{ Op token.Type; Expr *Node }

func newNode(tok token.Token, nodeType NodeType, data interface{}, children ...*Node) *Node {
	node := &Node{Type: nodeType, Tok: tok, Data: data}
	for _, child := range children {
		if child != nil {
			child.Parent = node
		}
	}
	return node
}

func NewNumber(tok token.Token, value int64) *Node {
	return newNode(tok, Number, NumberNode{Value: value})
}
func NewIdent(tok token.Token, name string) *Node {
	return newNode(tok, Ident, IdentNode{Name: name})
}
func NewBinaryOp(tok token.Token, op token.Type, left, right *Node) *Node {
	return newNode(tok, BinaryOp, BinaryOpNode{Op: op, Left: left, Right: right}, left, right)
}
func NewUnaryOp(tok token.Token, op token.Type, expr *Node) *Node {
	return newNode(tok, UnaryOp, UnaryOpNode{Op: op, Expr: expr}, expr)
}

// Lookup resolves an identifier to a number. ok is false when the name is unknown
// or has no numeric value yet.
type Lookup func(name string) (value int64, ok bool)

// FoldConstants reduces the tree as far as possible. Identifiers are replaced
// by the value lookup returns for them; identifiers lookup cannot resolve are
// left in place, so the result is a single Number node only when the whole
// expression was computable.
func FoldConstants(node *Node, lookup Lookup) *Node {
	if node == nil {
		return nil
	}

	// Fold children first
	switch d := node.Data.(type) {
	case BinaryOpNode:
		d.Left = FoldConstants(d.Left, lookup)
		d.Right = FoldConstants(d.Right, lookup)
		node.Data = d
	case UnaryOpNode:
		d.Expr = FoldConstants(d.Expr, lookup)
		node.Data = d
	}

	switch node.Type {
	case Ident:
		if lookup == nil {
			return node
		}
		if val, ok := lookup(node.Data.(IdentNode).Name); ok {
			return NewNumber(node.Tok, val)
		}
	case BinaryOp:
		d := node.Data.(BinaryOpNode)
		if d.Left.Type == Number && d.Right.Type == Number {
			l, r := d.Left.Data.(NumberNode).Value, d.Right.Data.(NumberNode).Value
			var res int64
			folded := true
			switch d.Op {
			case token.Plus: res = l + r
			case token.Minus: res = l - r
			case token.And: res = l & r
			case token.Or: res = l | r
			case token.Xor: res = l ^ r
			case token.Shl: res = l << uint64(r)
			case token.Shr: res = l >> uint64(r)
			default:
				folded = false
			}
			if folded {
				return NewNumber(node.Tok, res)
			}
		}
	case UnaryOp:
		d := node.Data.(UnaryOpNode)
		if d.Expr.Type == Number {
			val := d.Expr.Data.(NumberNode).Value
			switch d.Op {
			case token.Minus:
				return NewNumber(node.Tok, -val)
			case token.Plus:
				return NewNumber(node.Tok, val)
			case token.Complement:
				return NewNumber(node.Tok, ^val)
			}
		}
	}
	return node
}

// Idents returns the identifier names still present in the tree, in source
// order, without duplicates.
func Idents(node *Node) []string {
	var names []string
	seen := make(map[string]bool)
	var walk func(n *Node)
	walk = func(n *Node) {
		if n == nil {
			return
		}
		switch d := n.Data.(type) {
		case IdentNode:
			if !seen[d.Name] {
				seen[d.Name] = true
				names = append(names, d.Name)
			}
		case BinaryOpNode:
			walk(d.Left)
			walk(d.Right)
		case UnaryOpNode:
			walk(d.Expr)
		}
	}
	walk(node)
	return names
}
