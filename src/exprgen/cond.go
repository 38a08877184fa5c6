package exprgen

import (
	"cgen/src/ast"
	"cgen/src/ir"
	"cgen/src/scope"
)

// genCond lowers c ? t : f. Like && and ||, the branch not taken must not
// execute, so the non-constant case uses the same local merge-slot pattern
// as genLogical. The result takes the true arm's type. When the true arm is
// void, no slot is created and no value is merged; the false arm is then
// evaluated for its effects only.
func (g *Generator) genCond(e *ast.Cond, sc *scope.Scope, blk *ir.Block) (*EResult, error) {
	c, err := g.Gen(e.C, sc, blk)
	if err != nil {
		return nil, err
	}
	c = g.asRvalue(blk, c)
	if err := g.checkScalar(c, e.Tok(), "?:"); err != nil {
		return nil, err
	}
	c = g.materializeToLogic(blk, c)

	if c.CVKnown {
		if c.CVInt != 0 {
			t, err := g.Gen(e.T, sc, blk)
			if err != nil {
				return nil, err
			}
			return g.asRvalue(blk, t), nil
		}
		f, err := g.Gen(e.F, sc, blk)
		if err != nil {
			return nil, err
		}
		return g.asRvalue(blk, f), nil
	}

	proc := blk.Proc()
	elseLabel := proc.NewLabelName("cond_else")
	joinLabel := proc.NewLabelName("cond_join")
	blk.CreateJz(c.IRVar, elseLabel)

	t, err := g.Gen(e.T, sc, blk)
	if err != nil {
		return nil, err
	}
	t = g.asRvalue(blk, t)

	if t.Type.IsVoid() {
		blk.CreateJmp(joinLabel)
		blk.Label(elseLabel)
		f, err := g.Gen(e.F, sc, blk)
		if err != nil {
			return nil, err
		}
		g.asRvalue(blk, f)
		blk.Label(joinLabel)
		return &EResult{Type: t.Type, TFirst: e.Tok(), TLast: e.Tok()}, nil
	}

	slot := proc.CreateLocal("cond_merge", irTypeOf(t.Type))
	slotPtr := blk.CreateLvarPtr(slot)
	t = g.materialize(blk, t)
	blk.CreateWrite(slot.Type.Bits, slotPtr.Dest, t.IRVar)
	blk.CreateJmp(joinLabel)

	blk.Label(elseLabel)
	f, err := g.Gen(e.F, sc, blk)
	if err != nil {
		return nil, err
	}
	f = g.asRvalue(blk, f)
	f, err = g.typeConvert(blk, f, t.Type, false)
	if err != nil {
		return nil, err
	}
	f = g.materialize(blk, f)
	blk.CreateWrite(slot.Type.Bits, slotPtr.Dest, f.IRVar)
	blk.Label(joinLabel)

	read := blk.CreateRead(slot.Type.Bits, slotPtr.Dest)
	return &EResult{IRVar: read.Dest, Type: t.Type, TFirst: e.Tok(), TLast: e.Tok()}, nil
}
