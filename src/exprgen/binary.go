package exprgen

import (
	"cgen/src/ast"
	"cgen/src/cgtype"
	"cgen/src/diag"
	"cgen/src/ir"
	"cgen/src/scope"
	"cgen/src/token"
)

func (g *Generator) genBinary(e *ast.Binary, sc *scope.Scope, blk *ir.Block) (*EResult, error) {
	l, err := g.Gen(e.L, sc, blk)
	if err != nil {
		return nil, err
	}
	r, err := g.Gen(e.R, sc, blk)
	if err != nil {
		return nil, err
	}
	l, r = g.asRvalue(blk, l), g.asRvalue(blk, r)
	return g.applyBinaryOp(e.Tok(), e.Op, l, r, blk)
}

// applyBinaryOp carries out op over two already-evaluated rvalues. Shared by
// genBinary and compound-assignment (§4.6 "Assignment... op= applies the
// operator between the current lvalue and RHS before converting back").
func (g *Generator) applyBinaryOp(tok token.Token, op string, l, r *EResult, blk *ir.Block) (*EResult, error) {
	lPtr, rPtr := l.Type.Kind == cgtype.KindPointer, r.Type.Kind == cgtype.KindPointer
	if lPtr || rPtr {
		if op == "+" || op == "-" {
			return g.genPointerArith(tok, op, l, r, blk)
		}
		if !relOps[op] {
			return nil, g.Sink.Error(diag.CodeTypeMismatch, tok.Line, tok.Pos, "operator %q is not defined for pointer operands", op)
		}
	}

	common, flags := uac(l.Type, r.Type)
	g.reportUAC(tok, flags, bitwiseOps[op])
	lc := g.convertMustSucceed(blk, l, common)
	rc := g.convertMustSucceed(blk, r, common)

	if relOps[op] {
		return g.genCompare(tok, op, lc, rc, blk), nil
	}
	return g.genArith(tok, op, lc, rc, common, blk)
}

// genArith applies +, -, *, /, %, &, |, ^, <<, >> to two operands already
// converted to their common UAC type, folding the result when both sides
// are compile-time constant (§4.6 "Constant folding").
func (g *Generator) genArith(tok token.Token, op string, l, r *EResult, result *cgtype.CGType, blk *ir.Block) (*EResult, error) {
	unsigned := effectiveUnsigned(result)
	bits := result.Bits()

	if l.CVKnown && r.CVKnown {
		if v, ok := g.foldConstant(op, l.CVInt, r.CVInt, bits, unsigned, tok); ok {
			return &EResult{Type: result, CVKnown: true, CVInt: v, TFirst: tok, TLast: tok}, nil
		}
		// Diagnostic already reported (divide-by-zero, bad shift); fall
		// through and still emit a runtime instruction so codegen has
		// something well-formed to work with.
	}

	l, r = g.materialize(blk, l), g.materialize(blk, r)
	var instr *ir.Instruction
	switch op {
	case "+":
		instr = blk.CreateAdd(bits, l.IRVar, r.IRVar)
	case "-":
		instr = blk.CreateSub(bits, l.IRVar, r.IRVar)
	case "*":
		instr = blk.CreateMul(bits, l.IRVar, r.IRVar)
	case "/":
		if unsigned {
			instr = blk.CreateUDiv(bits, l.IRVar, r.IRVar)
		} else {
			instr = blk.CreateSDiv(bits, l.IRVar, r.IRVar)
		}
	case "%":
		if unsigned {
			instr = blk.CreateUMod(bits, l.IRVar, r.IRVar)
		} else {
			instr = blk.CreateSMod(bits, l.IRVar, r.IRVar)
		}
	case "&":
		instr = blk.CreateAnd(bits, l.IRVar, r.IRVar)
	case "|":
		instr = blk.CreateOr(bits, l.IRVar, r.IRVar)
	case "^":
		instr = blk.CreateXor(bits, l.IRVar, r.IRVar)
	case "<<":
		instr = blk.CreateShl(bits, l.IRVar, r.IRVar)
	case ">>":
		if unsigned {
			instr = blk.CreateShrL(bits, l.IRVar, r.IRVar)
		} else {
			instr = blk.CreateShrA(bits, l.IRVar, r.IRVar)
		}
	default:
		return nil, g.Sink.Error(diag.CodeTypeMismatch, tok.Line, tok.Pos, "unrecognized binary operator %q", op)
	}
	return &EResult{IRVar: instr.Dest, Type: result, TFirst: tok, TLast: tok}, nil
}

// genCompare applies a relational or equality operator, folding when both
// sides are constant.
func (g *Generator) genCompare(tok token.Token, op string, l, r *EResult, blk *ir.Block) *EResult {
	logic := cgtype.Basic(cgtype.Logic)
	unsigned := effectiveUnsigned(l.Type)

	if l.CVKnown && r.CVKnown {
		v := boolToInt(compareConstants(op, l.CVInt, r.CVInt, unsigned))
		return &EResult{Type: logic, CVKnown: true, CVInt: v, TFirst: tok, TLast: tok}
	}

	l, r = g.materialize(blk, l), g.materialize(blk, r)
	var instr *ir.Instruction
	switch op {
	case "==":
		instr = blk.CreateEq(l.IRVar, r.IRVar)
	case "!=":
		instr = blk.CreateNeq(l.IRVar, r.IRVar)
	case "<":
		if unsigned {
			instr = blk.CreateLtU(l.IRVar, r.IRVar)
		} else {
			instr = blk.CreateLt(l.IRVar, r.IRVar)
		}
	case "<=":
		if unsigned {
			instr = blk.CreateLtEqU(l.IRVar, r.IRVar)
		} else {
			instr = blk.CreateLtEq(l.IRVar, r.IRVar)
		}
	case ">":
		if unsigned {
			instr = blk.CreateGtU(l.IRVar, r.IRVar)
		} else {
			instr = blk.CreateGt(l.IRVar, r.IRVar)
		}
	case ">=":
		if unsigned {
			instr = blk.CreateGtEqU(l.IRVar, r.IRVar)
		} else {
			instr = blk.CreateGtEq(l.IRVar, r.IRVar)
		}
	}
	return &EResult{IRVar: instr.Dest, Type: logic, TFirst: tok, TLast: tok}
}

// genPointerArith implements pointer +/- integer (either order) and
// pointer - pointer (§4.6 "Pointer arithmetic"). Constants fold through
// CVSymbol when the pointer side is a known symbol base, otherwise the
// difference/index is computed at runtime via ptridx/ptrdiff.
func (g *Generator) genPointerArith(tok token.Token, op string, l, r *EResult, blk *ir.Block) (*EResult, error) {
	lPtr, rPtr := l.Type.Kind == cgtype.KindPointer, r.Type.Kind == cgtype.KindPointer

	if lPtr && rPtr {
		if op != "-" {
			return nil, g.Sink.Error(diag.CodeTypeMismatch, tok.Line, tok.Pos, "cannot add two pointers")
		}
		if !cgtype.PointerCompatible(l.Type, r.Type) {
			g.Sink.Warning(diag.CodeIncompatiblePtrCmp, tok.Line, tok.Pos, "subtracting pointers to incompatible types")
		}
		bits := cgtype.PointerBits
		if l.CVKnown && r.CVKnown && l.CVSymbol != nil && r.CVSymbol != nil && l.CVSymbol.Name == r.CVSymbol.Name {
			return &EResult{Type: cgtype.Basic(cgtype.Long), CVKnown: true, CVInt: l.CVInt - r.CVInt, TFirst: tok, TLast: tok}, nil
		}
		l, r = g.materialize(blk, l), g.materialize(blk, r)
		instr := blk.CreatePtrDiff(bits, l.IRVar, r.IRVar)
		return &EResult{IRVar: instr.Dest, Type: cgtype.Basic(cgtype.Long), TFirst: tok, TLast: tok}, nil
	}

	ptr, idx := l, r
	if !lPtr {
		ptr, idx = r, l
	}
	if op == "-" && !lPtr {
		return nil, g.Sink.Error(diag.CodeTypeMismatch, tok.Line, tok.Pos, "cannot subtract a pointer from an integer")
	}

	idx = g.promote(blk, idx)
	signedIdx := idx
	if op == "-" {
		if signedIdx.CVKnown {
			signedIdx = &EResult{Type: signedIdx.Type, CVKnown: true, CVInt: -signedIdx.CVInt, TFirst: tok, TLast: tok}
		} else {
			signedIdx = g.materialize(blk, signedIdx)
			neg := blk.CreateNeg(signedIdx.Type.Bits(), signedIdx.IRVar)
			signedIdx = &EResult{IRVar: neg.Dest, Type: signedIdx.Type, TFirst: tok, TLast: tok}
		}
	}

	if ptr.CVKnown && ptr.CVSymbol != nil && signedIdx.CVKnown {
		elemSize, err := ptr.Type.Target.SizeOf()
		if err == nil {
			return &EResult{Type: ptr.Type, CVKnown: true, CVSymbol: ptr.CVSymbol,
				CVInt: ptr.CVInt + signedIdx.CVInt*int64(elemSize), TFirst: tok, TLast: tok}, nil
		}
	}

	ptr = g.materialize(blk, ptr)
	signedIdx = g.materialize(blk, signedIdx)
	instr := blk.CreatePtrIdx(ptr.IRVar, signedIdx.IRVar, irTypeOf(ptr.Type.Target))
	return &EResult{IRVar: instr.Dest, Type: ptr.Type, TFirst: tok, TLast: tok}, nil
}
