// Package ast defines the shape of the C abstract syntax tree a parser
// hands to this module's code generators, one top-level production at a
// time, through the callback table package modulegen exposes (§6).
//
// The parser and lexer themselves are external collaborators (§1) — only
// the tree shape they populate belongs here: a common Node interface with
// per-kind marker methods (exprNode/stmtNode) and concrete struct
// types, rather than a single untyped Data/Children pair.
package ast

import "cgen/src/token"

// Node is implemented by every AST node and exposes its defining token for
// diagnostics.
type Node interface {
	Tok() token.Token
}

// Expr is implemented by expression nodes.
type Expr interface {
	Node
	exprNode()
}

// Stmt is implemented by statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// base is embedded by every concrete node to carry its defining token.
type base struct {
	T token.Token
}

// Tok returns the node's defining token.
func (b base) Tok() token.Token { return b.T }
