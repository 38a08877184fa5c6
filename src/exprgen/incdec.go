package exprgen

import (
	"cgen/src/ast"
	"cgen/src/cgtype"
	"cgen/src/ir"
	"cgen/src/scope"
)

// genIncDec lowers prefix/postfix ++/-- (§4.6 "Increment/decrement"): the
// update itself is an add/sub by the constant 1 (pointer-scaled for pointer
// operands) applied through the same machinery as compound assignment, with
// a post-form saving the pre-update value to return.
func (g *Generator) genIncDec(e *ast.IncDec, sc *scope.Scope, blk *ir.Block) (*EResult, error) {
	lv, err := g.Gen(e.Operand, sc, blk)
	if err != nil {
		return nil, err
	}
	lv, err = g.asLvalue(lv)
	if err != nil {
		return nil, err
	}

	old := g.asRvalue(blk, lv)
	one := &EResult{Type: cgtype.Basic(cgtype.Int), CVKnown: true, CVInt: 1, TFirst: e.Tok(), TLast: e.Tok()}

	op := "+"
	if e.Op == "--" {
		op = "-"
	}
	updated, err := g.applyBinaryOp(e.Tok(), op, old, one, blk)
	if err != nil {
		return nil, err
	}
	updated, err = g.typeConvert(blk, updated, lv.Type, false)
	if err != nil {
		return nil, err
	}
	updated = g.materialize(blk, updated)
	blk.CreateWrite(lv.Type.Bits(), lv.IRVar, updated.IRVar)

	if e.Prefix {
		return &EResult{IRVar: updated.IRVar, Type: lv.Type, TFirst: e.Tok(), TLast: e.Tok()}, nil
	}
	old = g.materialize(blk, old)
	return &EResult{IRVar: old.IRVar, Type: lv.Type, TFirst: e.Tok(), TLast: e.Tok()}, nil
}
