package exprgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cgen/src/ast"
	"cgen/src/cgtype"
	"cgen/src/diag"
	"cgen/src/ir"
	"cgen/src/scope"
	"cgen/src/token"
)

// stubResolver always resolves to whatever type it was constructed with,
// standing in for declgen.Generator.ResolveTypeName in isolation.
type stubResolver struct{ t *cgtype.CGType }

func (s stubResolver) ResolveTypeName(tn *ast.TypeName, sc *scope.Scope) (*cgtype.CGType, error) {
	return s.t, nil
}

func newGenerator(resolve *cgtype.CGType) (*Generator, *ir.Proc) {
	reg := cgtype.NewRegistry()
	sink := diag.NewSink()
	mod := ir.NewModule()
	proc := mod.CreateProc("f", ir.IntType(32), false, ir.LinkDefault)
	g := NewGenerator(reg, sink, mod, stubResolver{t: resolve})
	return g, proc
}

func tok() token.Token { return token.Token{Line: 1, Pos: 1} }

func ident(name string) *ast.Ident { return &ast.Ident{Name: name} }

func intLit(v string) *ast.IntLit { return &ast.IntLit{Text: v} }

func declareLocal(sc *scope.Scope, proc *ir.Proc, name string, t *cgtype.CGType) {
	v := proc.CreateLocal(name, irTypeOf(t))
	_ = sc.Insert(&scope.Member{Kind: scope.LVar, Name: name, Type: t, IRName: v.Name})
}

func TestIntLitFoldsToConstant(t *testing.T) {
	g, proc := newGenerator(nil)
	sc := scope.NewFileScope()
	res, err := g.Gen(intLit("5"), sc, proc.Body)
	require.NoError(t, err)
	assert.True(t, res.CVKnown)
	assert.Equal(t, int64(5), res.CVInt)
	assert.Equal(t, "", res.IRVar, "a fresh constant has no register until materialized")
}

func TestUACPromotesCharOperandsToInt(t *testing.T) {
	common, _ := uac(cgtype.Basic(cgtype.Char), cgtype.Basic(cgtype.Char))
	assert.Equal(t, cgtype.Basic(cgtype.Int).IntRank(), common.IntRank())
}

func TestUACUnsignedDominatesSameRank(t *testing.T) {
	common, flags := uac(cgtype.Basic(cgtype.Int), cgtype.Basic(cgtype.UInt))
	assert.True(t, common.IsUnsigned())
	assert.True(t, flags.mix2u)
}

func TestConstantFoldAddition(t *testing.T) {
	g, proc := newGenerator(nil)
	sc := scope.NewFileScope()
	bin := &ast.Binary{Op: "+", L: intLit("2"), R: intLit("3")}
	res, err := g.Gen(bin, sc, proc.Body)
	require.NoError(t, err)
	assert.True(t, res.CVKnown)
	assert.Equal(t, int64(5), res.CVInt)
	assert.Empty(t, proc.Body.Entries, "a fully constant expression should emit no instructions")
}

func TestConstantFoldAdditionOverflowWraps(t *testing.T) {
	g, proc := newGenerator(nil)
	sc := scope.NewFileScope()
	bin := &ast.Binary{Op: "+", L: intLit("32767"), R: intLit("1")}
	res, err := g.Gen(bin, sc, proc.Body)
	require.NoError(t, err)
	assert.True(t, res.CVKnown)
	assert.Equal(t, int64(-32768), res.CVInt)
	assert.Equal(t, 1, g.Sink.WarningCount())
	diags := g.Sink.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, diag.CodeArithmeticOverflow, diags[0].Code)
}

func TestDivideByZeroConstantReportsDiagnostic(t *testing.T) {
	g, proc := newGenerator(nil)
	sc := scope.NewFileScope()
	bin := &ast.Binary{Op: "/", L: intLit("1"), R: intLit("0")}
	_, err := g.Gen(bin, sc, proc.Body)
	require.NoError(t, err)
	assert.Equal(t, 1, g.Sink.WarningCount())
}

func TestShiftOutOfRangeReportsDiagnostic(t *testing.T) {
	g, proc := newGenerator(nil)
	sc := scope.NewFileScope()
	bin := &ast.Binary{Op: "<<", L: intLit("1"), R: intLit("64")}
	_, err := g.Gen(bin, sc, proc.Body)
	require.NoError(t, err)
	assert.Equal(t, 1, g.Sink.WarningCount())
}

func TestArrayDecaysToPointerOnRvalue(t *testing.T) {
	g, proc := newGenerator(nil)
	sc := scope.NewFileScope()
	size := uint64(4)
	arr := cgtype.ArrayOf(cgtype.Basic(cgtype.Int), nil, &size)
	declareLocal(sc, proc, "a", arr)
	res, err := g.Gen(ident("a"), sc, proc.Body)
	require.NoError(t, err)
	res = g.asRvalue(proc.Body, res)
	assert.Equal(t, cgtype.KindPointer, res.Type.Kind)
}

func TestAssignToArrayIsRejected(t *testing.T) {
	g, proc := newGenerator(nil)
	sc := scope.NewFileScope()
	size := uint64(4)
	arr := cgtype.ArrayOf(cgtype.Basic(cgtype.Int), nil, &size)
	declareLocal(sc, proc, "a", arr)
	assign := &ast.Assign{Op: "=", LHS: ident("a"), RHS: intLit("1")}
	_, err := g.Gen(assign, sc, proc.Body)
	assert.Error(t, err)
}

func TestSimpleAssignmentEmitsWrite(t *testing.T) {
	g, proc := newGenerator(nil)
	sc := scope.NewFileScope()
	declareLocal(sc, proc, "x", cgtype.Basic(cgtype.Int))
	assign := &ast.Assign{Op: "=", LHS: ident("x"), RHS: intLit("7")}
	res, err := g.Gen(assign, sc, proc.Body)
	require.NoError(t, err)
	assert.Equal(t, cgtype.Basic(cgtype.Int), res.Type)
	found := false
	for _, e := range proc.Body.Entries {
		if e.Instr != nil && e.Instr.Op == ir.OpWrite {
			found = true
		}
	}
	assert.True(t, found)
}

func TestCompoundAssignmentAppliesOperator(t *testing.T) {
	g, proc := newGenerator(nil)
	sc := scope.NewFileScope()
	declareLocal(sc, proc, "x", cgtype.Basic(cgtype.Int))
	assign := &ast.Assign{Op: "+=", LHS: ident("x"), RHS: intLit("1")}
	_, err := g.Gen(assign, sc, proc.Body)
	require.NoError(t, err)
	writes := 0
	for _, e := range proc.Body.Entries {
		if e.Instr != nil && e.Instr.Op == ir.OpWrite {
			writes++
		}
	}
	assert.Equal(t, 1, writes)
}

func TestPreIncrementReturnsUpdatedValue(t *testing.T) {
	g, proc := newGenerator(nil)
	sc := scope.NewFileScope()
	declareLocal(sc, proc, "x", cgtype.Basic(cgtype.Int))
	inc := &ast.IncDec{Op: "++", Prefix: true, Operand: ident("x")}
	res, err := g.Gen(inc, sc, proc.Body)
	require.NoError(t, err)
	assert.Equal(t, cgtype.Basic(cgtype.Int), res.Type)
}

func TestPostIncrementSavesOldValue(t *testing.T) {
	g, proc := newGenerator(nil)
	sc := scope.NewFileScope()
	declareLocal(sc, proc, "x", cgtype.Basic(cgtype.Int))
	inc := &ast.IncDec{Op: "++", Prefix: false, Operand: ident("x")}
	_, err := g.Gen(inc, sc, proc.Body)
	require.NoError(t, err)
	reads := 0
	for _, e := range proc.Body.Entries {
		if e.Instr != nil && e.Instr.Op == ir.OpRead {
			reads++
		}
	}
	assert.GreaterOrEqual(t, reads, 1)
}

func TestLogicalAndShortCircuitsOnConstantFalse(t *testing.T) {
	g, proc := newGenerator(nil)
	sc := scope.NewFileScope()
	land := &ast.Logical{Op: "&&", L: intLit("0"), R: ident("undeclared_would_error")}
	res, err := g.Gen(land, sc, proc.Body)
	require.NoError(t, err)
	assert.True(t, res.CVKnown)
	assert.Equal(t, int64(0), res.CVInt)
}

func TestLogicalOrEmitsJoinForNonConstantLHS(t *testing.T) {
	g, proc := newGenerator(nil)
	sc := scope.NewFileScope()
	declareLocal(sc, proc, "a", cgtype.Basic(cgtype.Int))
	declareLocal(sc, proc, "b", cgtype.Basic(cgtype.Int))
	lor := &ast.Logical{Op: "||", L: ident("a"), R: ident("b")}
	res, err := g.Gen(lor, sc, proc.Body)
	require.NoError(t, err)
	assert.False(t, res.CVKnown)
	assert.Equal(t, cgtype.Basic(cgtype.Logic), res.Type)
}

func TestConditionalFoldsOnConstantCondition(t *testing.T) {
	g, proc := newGenerator(nil)
	sc := scope.NewFileScope()
	cond := &ast.Cond{C: intLit("1"), T: intLit("10"), F: intLit("20")}
	res, err := g.Gen(cond, sc, proc.Body)
	require.NoError(t, err)
	assert.True(t, res.CVKnown)
	assert.Equal(t, int64(10), res.CVInt)
}

func TestConditionalEmitsMergeSlotForNonConstant(t *testing.T) {
	g, proc := newGenerator(nil)
	sc := scope.NewFileScope()
	declareLocal(sc, proc, "c", cgtype.Basic(cgtype.Int))
	cond := &ast.Cond{C: ident("c"), T: intLit("10"), F: intLit("20")}
	res, err := g.Gen(cond, sc, proc.Body)
	require.NoError(t, err)
	assert.False(t, res.CVKnown)
	assert.Len(t, proc.Locals, 2) // "c" and the cond_merge slot
}

func TestArrayIndexEmitsPtrIdx(t *testing.T) {
	g, proc := newGenerator(nil)
	sc := scope.NewFileScope()
	size := uint64(4)
	arr := cgtype.ArrayOf(cgtype.Basic(cgtype.Int), nil, &size)
	declareLocal(sc, proc, "a", arr)
	idx := &ast.Index{Array: ident("a"), Idx: intLit("1")}
	res, err := g.Gen(idx, sc, proc.Body)
	require.NoError(t, err)
	assert.True(t, res.LValue)
	assert.Equal(t, cgtype.Basic(cgtype.Int), res.Type)
}

func TestArrayIndexOutOfBoundsWarns(t *testing.T) {
	g, proc := newGenerator(nil)
	sc := scope.NewFileScope()
	size := uint64(2)
	arr := cgtype.ArrayOf(cgtype.Basic(cgtype.Int), nil, &size)
	declareLocal(sc, proc, "a", arr)
	idx := &ast.Index{Array: ident("a"), Idx: intLit("5")}
	_, err := g.Gen(idx, sc, proc.Body)
	require.NoError(t, err)
	assert.Equal(t, 1, g.Sink.WarningCount())
}

func TestMemberAccessByDot(t *testing.T) {
	reg := cgtype.NewRegistry()
	rec := reg.CreateRecord(cgtype.Struct, "point", "@@struct.point")
	require.NoError(t, rec.AppendElem("x", cgtype.Basic(cgtype.Int)))
	require.NoError(t, rec.AppendElem("y", cgtype.Basic(cgtype.Int)))

	sink := diag.NewSink()
	mod := ir.NewModule()
	proc := mod.CreateProc("f", ir.IntType(32), false, ir.LinkDefault)
	g := NewGenerator(reg, sink, mod, stubResolver{})

	sc := scope.NewFileScope()
	declareLocal(sc, proc, "p", cgtype.RecordType(rec))
	mbr := &ast.Member{X: ident("p"), Name: "y", Arrow: false}
	res, err := g.Gen(mbr, sc, proc.Body)
	require.NoError(t, err)
	assert.True(t, res.LValue)
	assert.Equal(t, cgtype.Basic(cgtype.Int), res.Type)
}

func TestUndeclaredIdentifierReportsDiagnostic(t *testing.T) {
	g, proc := newGenerator(nil)
	sc := scope.NewFileScope()
	_, err := g.Gen(ident("nope"), sc, proc.Body)
	assert.Error(t, err)
}

func TestDirectCallUsesProcedureLinkName(t *testing.T) {
	g, proc := newGenerator(nil)
	sc := scope.NewFileScope()
	ft := cgtype.FuncType(cgtype.Basic(cgtype.Int), []*cgtype.CGType{cgtype.Basic(cgtype.Int)}, false, cgtype.ConvDefault)
	require.NoError(t, sc.Insert(&scope.Member{Kind: scope.GSym, Name: "add", Type: ft, IRName: "@add"}))

	call := &ast.Call{Callee: ident("add"), Args: []ast.Expr{intLit("1")}}
	res, err := g.Gen(call, sc, proc.Body)
	require.NoError(t, err)
	assert.Equal(t, cgtype.Basic(cgtype.Int), res.Type)

	found := false
	for _, e := range proc.Body.Entries {
		if e.Instr != nil && e.Instr.Op == ir.OpCall && e.Instr.Callee == "@add" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestCallArgCountMismatchReportsDiagnostic(t *testing.T) {
	g, proc := newGenerator(nil)
	sc := scope.NewFileScope()
	ft := cgtype.FuncType(cgtype.Basic(cgtype.Int), []*cgtype.CGType{cgtype.Basic(cgtype.Int)}, false, cgtype.ConvDefault)
	require.NoError(t, sc.Insert(&scope.Member{Kind: scope.GSym, Name: "add", Type: ft, IRName: "@add"}))

	call := &ast.Call{Callee: ident("add"), Args: nil}
	_, err := g.Gen(call, sc, proc.Body)
	assert.Error(t, err)
}

func TestCastConvertsToResolvedType(t *testing.T) {
	g, proc := newGenerator(cgtype.Basic(cgtype.Short))
	sc := scope.NewFileScope()
	cast := &ast.Cast{Type: &ast.TypeName{}, Operand: intLit("100000")}
	res, err := g.Gen(cast, sc, proc.Body)
	require.NoError(t, err)
	assert.Equal(t, cgtype.Basic(cgtype.Short), res.Type)
}

func TestSizeofConstantType(t *testing.T) {
	g, proc := newGenerator(cgtype.Basic(cgtype.Int))
	sc := scope.NewFileScope()
	sz := &ast.Sizeof{TypeArg: &ast.TypeName{}}
	res, err := g.Gen(sz, sc, proc.Body)
	require.NoError(t, err)
	assert.True(t, res.CVKnown)
	assert.Equal(t, int64(2), res.CVInt)
}

func TestEvalConstIntSatisfiesConstEvaluator(t *testing.T) {
	g, _ := newGenerator(nil)
	sc := scope.NewFileScope()
	bin := &ast.Binary{Op: "*", L: intLit("3"), R: intLit("4")}
	v, ok := g.EvalConstInt(bin, sc)
	assert.True(t, ok)
	assert.Equal(t, int64(12), v)
}

func TestEvalConstIntRejectsNonConstant(t *testing.T) {
	g, proc := newGenerator(nil)
	sc := scope.NewFileScope()
	declareLocal(sc, proc, "x", cgtype.Basic(cgtype.Int))
	_, ok := g.EvalConstInt(ident("x"), sc)
	assert.False(t, ok)
}
