package exprgen

import (
	"cgen/src/ast"
	"cgen/src/cgtype"
	"cgen/src/diag"
	"cgen/src/ir"
	"cgen/src/scope"
)

// genAssign lowers = and the compound assignment operators (§4.6
// "Assignment"): the LHS must be an lvalue and may not be an array (array
// assignment is rejected outright); a struct/union LHS is accepted for plain
// "=" only and is copied with reccopy; compound forms apply the operator
// between the current value and
// the RHS, through the same path genBinary uses, before converting the
// result back to the LHS type.
func (g *Generator) genAssign(e *ast.Assign, sc *scope.Scope, blk *ir.Block) (*EResult, error) {
	lv, err := g.Gen(e.LHS, sc, blk)
	if err != nil {
		return nil, err
	}
	lv, err = g.asLvalue(lv)
	if err != nil {
		return nil, err
	}
	if lv.Type.Kind == cgtype.KindArray {
		return nil, g.Sink.Error(diag.CodeAssignToArray, e.Tok().Line, e.Tok().Pos, "array type is not assignable")
	}

	rhs, err := g.Gen(e.RHS, sc, blk)
	if err != nil {
		return nil, err
	}
	rhs = g.asRvalue(blk, rhs)

	if lv.Type.Kind == cgtype.KindRecord {
		if e.Op != "=" {
			return nil, g.Sink.Error(diag.CodeTypeMismatch, e.Tok().Line, e.Tok().Pos, "compound assignment is not defined for struct/union operands")
		}
		converted, err := g.typeConvert(blk, rhs, lv.Type, false)
		if err != nil {
			return nil, err
		}
		size, _ := lv.Type.SizeOf()
		blk.CreateRecCopy(lv.IRVar, converted.IRVar, int(size))
		return &EResult{IRVar: lv.IRVar, Type: lv.Type, LValue: true, TFirst: e.Tok(), TLast: e.Tok()}, nil
	}

	var value *EResult
	if e.Op == "=" {
		value, err = g.typeConvert(blk, rhs, lv.Type, false)
		if err != nil {
			return nil, err
		}
	} else {
		op := e.Op[:len(e.Op)-1] // "+=" -> "+"
		current := g.asRvalue(blk, lv)
		result, err := g.applyBinaryOp(e.Tok(), op, current, rhs, blk)
		if err != nil {
			return nil, err
		}
		value, err = g.typeConvert(blk, result, lv.Type, false)
		if err != nil {
			return nil, err
		}
	}

	value = g.materialize(blk, value)
	blk.CreateWrite(lv.Type.Bits(), lv.IRVar, value.IRVar)
	return &EResult{IRVar: value.IRVar, Type: lv.Type, TFirst: e.Tok(), TLast: e.Tok()}, nil
}
