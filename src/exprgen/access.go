package exprgen

import (
	"cgen/src/ast"
	"cgen/src/cgtype"
	"cgen/src/diag"
	"cgen/src/ir"
	"cgen/src/scope"
)

// genCall lowers f(args...) (§4.6 "Call"), dispatching to a direct call
// when the callee is a function-typed identifier and to an indirect call
// (through a synthesized callsign descriptor) otherwise.
func (g *Generator) genCall(e *ast.Call, sc *scope.Scope, blk *ir.Block) (*EResult, error) {
	if ident, ok := e.Callee.(*ast.Ident); ok {
		if m, found := sc.Lookup(ident.Name); found && m.Kind != scope.TDef && m.Kind != scope.EElem && m.Type.Kind == cgtype.KindFunc {
			return g.genDirectCall(e, m.Type, m.IRName, sc, blk)
		}
	}

	callee, err := g.Gen(e.Callee, sc, blk)
	if err != nil {
		return nil, err
	}
	callee = g.asRvalue(blk, callee)
	ft := callee.Type
	if ft.Kind == cgtype.KindPointer {
		ft = ft.Target
	}
	if ft.Kind != cgtype.KindFunc {
		return nil, g.Sink.Error(diag.CodeTypeMismatch, e.Tok().Line, e.Tok().Pos, "called object is not a function or function pointer")
	}
	return g.genIndirectCall(e, ft, callee, sc, blk)
}

func (g *Generator) genDirectCall(e *ast.Call, ft *cgtype.CGType, callee string, sc *scope.Scope, blk *ir.Block) (*EResult, error) {
	args, err := g.genCallArgs(e, ft, sc, blk)
	if err != nil {
		return nil, err
	}
	retBits := 0
	if !ft.Return.IsVoid() {
		retBits = ft.Return.Bits()
	}
	instr := blk.CreateCall(retBits, callee, args)
	return &EResult{IRVar: instr.Dest, Type: ft.Return, TFirst: e.Tok(), TLast: e.Tok()}, nil
}

func (g *Generator) genIndirectCall(e *ast.Call, ft *cgtype.CGType, callee *EResult, sc *scope.Scope, blk *ir.Block) (*EResult, error) {
	args, err := g.genCallArgs(e, ft, sc, blk)
	if err != nil {
		return nil, err
	}
	sig := g.Module.CreateProc("callsign", irTypeOf(ft.Return), ft.Variadic, ir.LinkCallsign)
	for i, argT := range ft.Args {
		sig.CreateParam(argParamName(i), irTypeOf(argT))
	}
	callee = g.materialize(blk, callee)
	retBits := 0
	if !ft.Return.IsVoid() {
		retBits = ft.Return.Bits()
	}
	instr := blk.CreateCallIndirect(retBits, callee.IRVar, args, sig)
	return &EResult{IRVar: instr.Dest, Type: ft.Return, TFirst: e.Tok(), TLast: e.Tok()}, nil
}

func argParamName(i int) string {
	names := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	if i < len(names) {
		return names[i]
	}
	return "arg"
}

// genCallArgs evaluates call arguments left to right, converting each to
// its declared parameter type and default-argument-promoting the variadic
// tail (§4.6 "Call... variadic arguments receive default argument
// promotion"), reporting CodeArgCountMismatch for non-variadic arity errors.
func (g *Generator) genCallArgs(e *ast.Call, ft *cgtype.CGType, sc *scope.Scope, blk *ir.Block) ([]string, error) {
	if !ft.Variadic && len(e.Args) != len(ft.Args) {
		return nil, g.Sink.Error(diag.CodeArgCountMismatch, e.Tok().Line, e.Tok().Pos,
			"expected %d argument(s), got %d", len(ft.Args), len(e.Args))
	}
	if ft.Variadic && len(e.Args) < len(ft.Args) {
		return nil, g.Sink.Error(diag.CodeArgCountMismatch, e.Tok().Line, e.Tok().Pos,
			"expected at least %d argument(s), got %d", len(ft.Args), len(e.Args))
	}

	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		r, err := g.Gen(a, sc, blk)
		if err != nil {
			return nil, err
		}
		r = g.asRvalue(blk, r)
		if i < len(ft.Args) {
			r, err = g.typeConvert(blk, r, ft.Args[i], false)
			if err != nil {
				return nil, err
			}
		} else {
			r = g.defaultArgumentPromote(blk, r)
		}
		r = g.materialize(blk, r)
		args[i] = r.IRVar
	}
	return args, nil
}

// genIndex lowers a[i] (§4.6 "Array indexing"), warning CodeArrayBounds
// when both the array's declared size and the index are compile-time
// known and the index falls outside it.
func (g *Generator) genIndex(e *ast.Index, sc *scope.Scope, blk *ir.Block) (*EResult, error) {
	base, err := g.Gen(e.Array, sc, blk)
	if err != nil {
		return nil, err
	}
	arrType := base.Type
	base = g.asRvalue(blk, base)
	if base.Type.Kind != cgtype.KindPointer {
		return nil, g.Sink.Error(diag.CodeTypeMismatch, e.Tok().Line, e.Tok().Pos, "subscripted value is not an array or pointer")
	}

	idx, err := g.Gen(e.Idx, sc, blk)
	if err != nil {
		return nil, err
	}
	idx = g.asRvalue(blk, idx)
	if !idx.Type.IsIntegral() {
		return nil, g.Sink.Error(diag.CodeTypeMismatch, e.Tok().Line, e.Tok().Pos, "array subscript is not an integer")
	}
	idx = g.promote(blk, idx)

	if arrType.Kind == cgtype.KindArray && arrType.Size != nil && idx.CVKnown {
		if idx.CVInt < 0 || uint64(idx.CVInt) >= *arrType.Size {
			g.Sink.Warning(diag.CodeArrayBounds, e.Tok().Line, e.Tok().Pos, "array index %d is out of bounds for array of size %d", idx.CVInt, *arrType.Size)
		}
	}

	base = g.materialize(blk, base)
	idx = g.materialize(blk, idx)
	instr := blk.CreatePtrIdx(base.IRVar, idx.IRVar, irTypeOf(base.Type.Target))
	return &EResult{IRVar: instr.Dest, Type: base.Type.Target, LValue: true, TFirst: e.Tok(), TLast: e.Tok()}, nil
}

// genMember lowers a.b and a->b (§4.6 "Member access"): "->" dereferences
// first, "." requires an lvalue record (or a pointer, for chained access
// through a previously dereferenced expression).
func (g *Generator) genMember(e *ast.Member, sc *scope.Scope, blk *ir.Block) (*EResult, error) {
	base, err := g.Gen(e.X, sc, blk)
	if err != nil {
		return nil, err
	}

	var basePtr *EResult
	var recType *cgtype.CGType
	if e.Arrow {
		base = g.asRvalue(blk, base)
		if base.Type.Kind != cgtype.KindPointer {
			return nil, g.Sink.Error(diag.CodeTypeMismatch, e.Tok().Line, e.Tok().Pos, "'->' requires a pointer operand")
		}
		basePtr = g.materialize(blk, base)
		recType = base.Type.Target
	} else {
		if base.Type.Kind == cgtype.KindPointer {
			basePtr = g.materialize(blk, g.asRvalue(blk, base))
			recType = base.Type.Target
		} else {
			base, err = g.asLvalue(base)
			if err != nil {
				return nil, err
			}
			basePtr = base
			recType = base.Type
		}
	}

	if recType.Kind != cgtype.KindRecord {
		return nil, g.Sink.Error(diag.CodeTypeMismatch, e.Tok().Line, e.Tok().Pos, "member reference base is not a struct or union")
	}
	elem, _, ok := recType.Rec.FindElem(e.Name)
	if !ok {
		return nil, g.Sink.Error(diag.CodeUndeclaredIdentifier, e.Tok().Line, e.Tok().Pos, "%q has no member named %q", recType.Rec.DisplayName(), e.Name)
	}
	idx := recordElemIndex(recType.Rec, e.Name)
	instr := blk.CreateRecMbr(basePtr.IRVar, idx, irTypeOf(elem.Type))
	return &EResult{IRVar: instr.Dest, Type: elem.Type, LValue: true, TFirst: e.Tok(), TLast: e.Tok()}, nil
}

// recordElemIndex finds a member's positional index, needed by CreateRecMbr
// since Record.FindElem reports only the element and its byte offset.
func recordElemIndex(rec *cgtype.Record, name string) int {
	for i, el := range rec.Elems {
		if el.Name == name {
			return i
		}
	}
	return -1
}
