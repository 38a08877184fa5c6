package exprgen

import (
	"cgen/src/ast"
	"cgen/src/cgtype"
	"cgen/src/ir"
	"cgen/src/scope"
)

// genLogical lowers && and ||. The right-hand operand must not be evaluated
// when the left short-circuits, so a real branch is required even though
// the IR has no phi node: a local "merge slot" variable holds the result
// and is written from whichever side actually ran, read back once control
// reaches the join label. This stands in for the dummy-labeled-block
// technique some three-address IRs use for the same purpose; with this
// IR's linear Entries sequence and no SSA form to maintain, a local slot is
// the direct equivalent.
func (g *Generator) genLogical(e *ast.Logical, sc *scope.Scope, blk *ir.Block) (*EResult, error) {
	l, err := g.Gen(e.L, sc, blk)
	if err != nil {
		return nil, err
	}
	l = g.asRvalue(blk, l)
	if err := g.checkScalar(l, e.Tok(), "&&/||"); err != nil {
		return nil, err
	}
	l = g.materializeToLogic(blk, l)

	if l.CVKnown {
		shortCircuits := (e.Op == "&&" && l.CVInt == 0) || (e.Op == "||" && l.CVInt != 0)
		if shortCircuits {
			return &EResult{Type: cgtype.Basic(cgtype.Logic), CVKnown: true, CVInt: l.CVInt, TFirst: e.Tok(), TLast: e.Tok()}, nil
		}
		r, err := g.Gen(e.R, sc, blk)
		if err != nil {
			return nil, err
		}
		r = g.asRvalue(blk, r)
		if err := g.checkScalar(r, e.Tok(), "&&/||"); err != nil {
			return nil, err
		}
		return g.materializeToLogic(blk, r), nil
	}

	proc := blk.Proc()
	slot := proc.CreateLocal("land_merge", ir.IntType(cgtype.Basic(cgtype.Logic).Bits()))
	if e.Op == "||" {
		slot = proc.CreateLocal("lor_merge", ir.IntType(cgtype.Basic(cgtype.Logic).Bits()))
	}
	slotPtr := blk.CreateLvarPtr(slot)
	joinLabel := proc.NewLabelName("logic_join")

	if e.Op == "&&" {
		blk.CreateWrite(slot.Type.Bits, slotPtr.Dest, mustImm(blk, 0))
		blk.CreateJz(l.IRVar, joinLabel)
	} else {
		blk.CreateWrite(slot.Type.Bits, slotPtr.Dest, mustImm(blk, 1))
		blk.CreateJnz(l.IRVar, joinLabel)
	}

	r, err := g.Gen(e.R, sc, blk)
	if err != nil {
		return nil, err
	}
	r = g.asRvalue(blk, r)
	if err := g.checkScalar(r, e.Tok(), "&&/||"); err != nil {
		return nil, err
	}
	r = g.materializeToLogic(blk, r)
	blk.CreateWrite(slot.Type.Bits, slotPtr.Dest, r.IRVar)
	blk.Label(joinLabel)

	read := blk.CreateRead(slot.Type.Bits, slotPtr.Dest)
	return &EResult{IRVar: read.Dest, Type: cgtype.Basic(cgtype.Logic), TFirst: e.Tok(), TLast: e.Tok()}, nil
}

// materializeToLogic normalizes a scalar result to a 0/1 _Bool value,
// comparing against zero unless it is already known-boolean.
func (g *Generator) materializeToLogic(blk *ir.Block, r *EResult) *EResult {
	if r.CVKnown {
		v := int64(0)
		if r.CVInt != 0 {
			v = 1
		}
		return &EResult{Type: cgtype.Basic(cgtype.Logic), CVKnown: true, CVInt: v, TFirst: r.TFirst, TLast: r.TLast}
	}
	r = g.materialize(blk, r)
	zero := blk.CreateImm(r.Type.Bits(), 0)
	cmp := blk.CreateNeq(r.IRVar, zero.Dest)
	return &EResult{IRVar: cmp.Dest, Type: cgtype.Basic(cgtype.Logic), TFirst: r.TFirst, TLast: r.TLast}
}

// mustImm emits an immediate and returns its register name, for call sites
// that only need the name inline.
func mustImm(blk *ir.Block, v int64) string {
	return blk.CreateImm(cgtype.Basic(cgtype.Logic).Bits(), v).Dest
}
