package exprgen

import (
	"cgen/src/ast"
	"cgen/src/cgtype"
	"cgen/src/diag"
	"cgen/src/ir"
	"cgen/src/scope"
)

func (g *Generator) genUnary(e *ast.Unary, sc *scope.Scope, blk *ir.Block) (*EResult, error) {
	switch e.Op {
	case "&":
		return g.genAddressOf(e, sc, blk)
	case "*":
		return g.genDeref(e, sc, blk)
	}

	r, err := g.Gen(e.Operand, sc, blk)
	if err != nil {
		return nil, err
	}
	r = g.asRvalue(blk, r)
	if err := g.checkScalar(r, e.Tok(), "unary "+e.Op); err != nil {
		return nil, err
	}

	switch e.Op {
	case "-":
		r = g.promote(blk, r)
		if r.CVKnown {
			return &EResult{Type: r.Type, CVKnown: true, CVInt: maskAndSign(-r.CVInt, r.Type.Bits(), effectiveUnsigned(r.Type)),
				TFirst: e.Tok(), TLast: e.Tok()}, nil
		}
		r = g.materialize(blk, r)
		instr := blk.CreateNeg(r.Type.Bits(), r.IRVar)
		return &EResult{IRVar: instr.Dest, Type: r.Type, TFirst: e.Tok(), TLast: e.Tok()}, nil

	case "~":
		r = g.promote(blk, r)
		if r.CVKnown {
			return &EResult{Type: r.Type, CVKnown: true, CVInt: maskAndSign(^r.CVInt, r.Type.Bits(), effectiveUnsigned(r.Type)),
				TFirst: e.Tok(), TLast: e.Tok()}, nil
		}
		r = g.materialize(blk, r)
		instr := blk.CreateBNot(r.Type.Bits(), r.IRVar)
		return &EResult{IRVar: instr.Dest, Type: r.Type, TFirst: e.Tok(), TLast: e.Tok()}, nil

	case "!":
		r = g.materializeToLogic(blk, r)
		if r.CVKnown {
			return &EResult{Type: cgtype.Basic(cgtype.Logic), CVKnown: true, CVInt: boolToInt(r.CVInt == 0),
				TFirst: e.Tok(), TLast: e.Tok()}, nil
		}
		zero := blk.CreateImm(r.Type.Bits(), 0)
		instr := blk.CreateEq(r.IRVar, zero.Dest)
		return &EResult{IRVar: instr.Dest, Type: cgtype.Basic(cgtype.Logic), TFirst: e.Tok(), TLast: e.Tok()}, nil
	}

	return nil, g.Sink.Error(diag.CodeTypeMismatch, e.Tok().Line, e.Tok().Pos, "unrecognized unary operator %q", e.Op)
}

// genAddressOf implements &x (§4.6 "Address-of"). Taking the address of a
// function name is legal but redundant (the name already decays to a
// function pointer), so it only warns rather than requiring an lvalue.
func (g *Generator) genAddressOf(e *ast.Unary, sc *scope.Scope, blk *ir.Block) (*EResult, error) {
	r, err := g.Gen(e.Operand, sc, blk)
	if err != nil {
		return nil, err
	}
	if r.Type.Kind == cgtype.KindFunc {
		g.Sink.Warning(diag.CodeExplicitFuncAddr, e.Tok().Line, e.Tok().Pos, "'&' on a function name is redundant")
		return g.asRvalue(blk, r), nil
	}
	r, err = g.asLvalue(r)
	if err != nil {
		return nil, err
	}
	return &EResult{IRVar: r.IRVar, Type: cgtype.PointerTo(r.Type, 0), TFirst: e.Tok(), TLast: e.Tok()}, nil
}

// genDeref implements *p (§4.6 "Dereference").
func (g *Generator) genDeref(e *ast.Unary, sc *scope.Scope, blk *ir.Block) (*EResult, error) {
	r, err := g.Gen(e.Operand, sc, blk)
	if err != nil {
		return nil, err
	}
	r = g.asRvalue(blk, r)
	if r.Type.Kind != cgtype.KindPointer {
		return nil, g.Sink.Error(diag.CodeTypeMismatch, e.Tok().Line, e.Tok().Pos, "'*' requires a pointer operand")
	}
	r = g.materialize(blk, r)
	return &EResult{IRVar: r.IRVar, Type: r.Type.Target, LValue: true, TFirst: e.Tok(), TLast: e.Tok()}, nil
}
