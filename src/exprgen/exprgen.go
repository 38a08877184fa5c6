// Package exprgen lowers expression ASTs to the three-address IR and
// evaluates constant expressions (§4.6).
//
// Every expression form produces an EResult rather than emitting its final
// value eagerly: constants stay unmaterialized (no IR register minted) until
// something actually needs to read them as an operand, matching the
// teacher's habit of deferring register allocation to point of use in
// src/ir/lir. Two wrappers enforce the lvalue/rvalue discipline the rest of
// code generation relies on: asLvalue and asRvalue.
//
// DeclGen needs ExprGen to evaluate constant expressions (array sizes, enum
// initializers) and ExprGen needs DeclGen to resolve cast/sizeof type-names
// — a direct import in either direction would cycle. Package declgen
// depends on a small ConstEvaluator interface that *this* package satisfies
// (EvalConstInt, below); this package depends on the small TypeResolver
// interface that declgen.Generator satisfies. modulegen.New wires concrete
// instances of both together (§9 "Parser callback indirection").
package exprgen

import (
	"fmt"

	"cgen/src/ast"
	"cgen/src/cgtype"
	"cgen/src/diag"
	"cgen/src/ir"
	"cgen/src/scope"
	"cgen/src/token"
)

// TypeResolver resolves a cast/sizeof/__va_arg type-name to a CGType.
// declgen.Generator.ResolveTypeName satisfies this structurally.
type TypeResolver interface {
	ResolveTypeName(tn *ast.TypeName, sc *scope.Scope) (*cgtype.CGType, error)
}

// Generator holds the shared state ExprGen's operations consult: the
// record/enum registry (for strict-enum queries reached through CGType),
// the diagnostic sink, the IR module being built (for synthesizing string
// constants and call-signature descriptors) and a type resolver satisfied
// by DeclGen.
type Generator struct {
	Registry *cgtype.Registry
	Sink     *diag.Sink
	Module   *ir.Module
	Types    TypeResolver
}

// NewGenerator returns a Generator backed by the given registry, sink,
// module and type resolver.
func NewGenerator(reg *cgtype.Registry, sink *diag.Sink, mod *ir.Module, types TypeResolver) *Generator {
	return &Generator{Registry: reg, Sink: sink, Module: mod, Types: types}
}

// Gen lowers one expression node into an EResult, emitting whatever IR the
// node requires into blk.
func (g *Generator) Gen(e ast.Expr, sc *scope.Scope, blk *ir.Block) (*EResult, error) {
	switch n := e.(type) {
	case *ast.Ident:
		return g.genIdent(n, sc)
	case *ast.IntLit:
		return g.genIntLit(n)
	case *ast.CharLit:
		return g.genCharLit(n)
	case *ast.StringLit:
		return g.genStringLit(n)
	case *ast.Paren:
		return g.genParen(n, sc, blk)
	case *ast.Unary:
		return g.genUnary(n, sc, blk)
	case *ast.IncDec:
		return g.genIncDec(n, sc, blk)
	case *ast.Binary:
		return g.genBinary(n, sc, blk)
	case *ast.Logical:
		return g.genLogical(n, sc, blk)
	case *ast.Assign:
		return g.genAssign(n, sc, blk)
	case *ast.Cond:
		return g.genCond(n, sc, blk)
	case *ast.Call:
		return g.genCall(n, sc, blk)
	case *ast.Index:
		return g.genIndex(n, sc, blk)
	case *ast.Member:
		return g.genMember(n, sc, blk)
	case *ast.Cast:
		return g.genCast(n, sc, blk)
	case *ast.Sizeof:
		return g.genSizeof(n, sc, blk)
	case *ast.Builtin:
		return g.genBuiltin(n, sc, blk)
	}
	return nil, fmt.Errorf("exprgen: unrecognized expression node %T", e)
}

// asLvalue verifies r denotes an lvalue, reporting CodeNotAnLvalue
// otherwise (§4.6 "as_lvalue").
func (g *Generator) asLvalue(r *EResult) (*EResult, error) {
	if !r.LValue {
		return nil, g.Sink.Error(diag.CodeNotAnLvalue, r.TFirst.Line, r.TFirst.Pos, "expression is not an lvalue")
	}
	return r, nil
}

// asRvalue implements §4.6's "as_rvalue": arrays decay to pointer-to-
// element, functions decay to function-pointer, records pass through
// (handled by pointer), and any other lvalue is read through a `read`
// instruction of its own width.
func (g *Generator) asRvalue(blk *ir.Block, r *EResult) *EResult {
	switch r.Type.Kind {
	case cgtype.KindArray:
		return &EResult{IRVar: r.IRVar, Type: cgtype.PointerTo(r.Type.Elem, 0),
			CVKnown: r.CVKnown, CVInt: r.CVInt, CVSymbol: r.CVSymbol, TFirst: r.TFirst, TLast: r.TLast}
	case cgtype.KindFunc:
		return &EResult{IRVar: r.IRVar, Type: cgtype.PointerTo(r.Type, 0),
			CVKnown: r.CVKnown, CVInt: r.CVInt, CVSymbol: r.CVSymbol, TFirst: r.TFirst, TLast: r.TLast}
	}
	if !r.LValue {
		return g.materialize(blk, r)
	}
	if r.Type.Kind == cgtype.KindRecord {
		return &EResult{IRVar: r.IRVar, Type: r.Type, TFirst: r.TFirst, TLast: r.TLast}
	}
	instr := blk.CreateRead(r.Type.Bits(), r.IRVar)
	return &EResult{IRVar: instr.Dest, Type: r.Type,
		CVKnown: r.CVKnown, CVInt: r.CVInt, CVSymbol: r.CVSymbol, TFirst: r.TFirst, TLast: r.TLast}
}

// materialize emits an `imm` instruction for a constant that has not yet
// been assigned a virtual register, so it can be used as an operand. A
// result already backed by a register, or one not known-constant, passes
// through unchanged.
func (g *Generator) materialize(blk *ir.Block, r *EResult) *EResult {
	if r.IRVar != "" || !r.CVKnown {
		return r
	}
	instr := blk.CreateImm(r.Type.Bits(), r.CVInt)
	out := *r
	out.IRVar = instr.Dest
	return &out
}

// checkScalar rejects a record or array operand where a scalar is required
// (the truth value of &&/||/?:/if/while/for conditions).
func (g *Generator) checkScalar(r *EResult, tok token.Token, context string) error {
	if r.Type.Kind == cgtype.KindRecord || r.Type.Kind == cgtype.KindArray {
		return g.Sink.Error(diag.CodeTypeMismatch, tok.Line, tok.Pos, "%s requires a scalar operand", context)
	}
	return nil
}

// EvalConstInt evaluates e as a constant integer expression by running it
// through Gen against a disposable procedure's block (§4.7 "Constant
// expressions... evaluated by running ExprGen against a disposable labeled
// block and asserting cvknown"). It satisfies declgen.ConstEvaluator.
func (g *Generator) EvalConstInt(e ast.Expr, sc *scope.Scope) (int64, bool) {
	dummyMod := ir.NewModule()
	dummyProc := dummyMod.CreateProc("__const", ir.IntType(cgtype.PointerBits), false, ir.LinkDefault)
	res, err := g.Gen(e, sc, dummyProc.Body)
	if err != nil {
		return 0, false
	}
	res = g.asRvalue(dummyProc.Body, res)
	if !res.CVKnown {
		g.Sink.Error(diag.CodeNotConstant, e.Tok().Line, e.Tok().Pos, "expression is not a constant expression")
		return 0, false
	}
	return res.CVInt, true
}

func (g *Generator) genIdent(e *ast.Ident, sc *scope.Scope) (*EResult, error) {
	m, ok := sc.Lookup(e.Name)
	if !ok {
		return nil, g.Sink.Error(diag.CodeUndeclaredIdentifier, e.Tok().Line, e.Tok().Pos, "%q is undeclared", e.Name)
	}
	if m.Kind == scope.TDef {
		return nil, g.Sink.Error(diag.CodeTypeMismatch, e.Tok().Line, e.Tok().Pos, "%q names a type, not a value", e.Name)
	}
	if m.Kind == scope.EElem {
		return &EResult{Type: cgtype.EnumType(m.Enum), CVKnown: true, CVInt: m.EnumValue, TFirst: e.Tok(), TLast: e.Tok()}, nil
	}
	return &EResult{IRVar: m.IRName, Type: m.Type, LValue: m.Type.Kind != cgtype.KindFunc, TFirst: e.Tok(), TLast: e.Tok()}, nil
}

func (g *Generator) genIntLit(e *ast.IntLit) (*EResult, error) {
	v, err := ast.ParseIntLiteral(e.Text)
	if err != nil {
		return nil, g.Sink.Error(diag.CodeInvalidLiteral, e.Tok().Line, e.Tok().Pos, "%s", err)
	}
	elm := cgtype.Int
	switch {
	case v.LongLong && v.Unsigned:
		elm = cgtype.ULongLong
	case v.LongLong:
		elm = cgtype.LongLong
	case v.Long && v.Unsigned:
		elm = cgtype.ULong
	case v.Long:
		elm = cgtype.Long
	case v.Unsigned:
		elm = cgtype.UInt
	}
	return &EResult{Type: cgtype.Basic(elm), CVKnown: true, CVInt: int64(v.Value), TFirst: e.Tok(), TLast: e.Tok()}, nil
}

func (g *Generator) genCharLit(e *ast.CharLit) (*EResult, error) {
	content := ast.StripQuotes(e.Text, '\'')
	ev, err := ast.DecodeEscape(content)
	if err != nil {
		return nil, g.Sink.Error(diag.CodeInvalidEscape, e.Tok().Line, e.Tok().Pos, "%s", err)
	}
	elm := cgtype.Char
	if e.Wide {
		elm = cgtype.Int
	}
	return &EResult{Type: cgtype.Basic(elm), CVKnown: true, CVInt: ev.Value, TFirst: e.Tok(), TLast: e.Tok()}, nil
}

func (g *Generator) genStringLit(e *ast.StringLit) (*EResult, error) {
	content := ast.StripQuotes(e.Text, '"')
	bytes, err := ast.DecodeStringLiteral(content)
	if err != nil {
		return nil, g.Sink.Error(diag.CodeInvalidEscape, e.Tok().Line, e.Tok().Pos, "%s", err)
	}
	v := g.Module.CreateString(bytes)
	size := uint64(len(bytes))
	arrType := cgtype.ArrayOf(cgtype.Basic(cgtype.Char), nil, &size)
	return &EResult{IRVar: v.Name, Type: arrType, LValue: true,
		CVKnown: true, CVSymbol: &SymbolRef{Name: v.Name}, TFirst: e.Tok(), TLast: e.Tok()}, nil
}

func (g *Generator) genParen(e *ast.Paren, sc *scope.Scope, blk *ir.Block) (*EResult, error) {
	return g.Gen(e.Inner, sc, blk)
}

// irTypeOf maps a CGType to the IR type expression used for lvarptr/varptr/
// recmbr instruction operands and synthesized callsign signatures.
func irTypeOf(t *cgtype.CGType) *ir.Type {
	switch t.Kind {
	case cgtype.KindBasic:
		if t.Elm == cgtype.VaList {
			return ir.VaListType()
		}
		return ir.IntType(t.Bits())
	case cgtype.KindPointer, cgtype.KindFunc:
		return ir.PtrType(cgtype.PointerBits)
	case cgtype.KindEnum:
		return ir.IntType(cgtype.EnumBits)
	case cgtype.KindArray:
		size := uint64(0)
		if t.Size != nil {
			size = *t.Size
		}
		return ir.ArrayType(size, irTypeOf(t.Elem))
	case cgtype.KindRecord:
		return ir.IdentType(t.Rec.IRName)
	}
	return ir.IntType(cgtype.PointerBits)
}

// effectiveUnsigned reports whether t's arithmetic should be carried out as
// unsigned: enums and _Bool are always signed-rank int for this purpose.
func effectiveUnsigned(t *cgtype.CGType) bool {
	if t.Kind != cgtype.KindBasic {
		return false
	}
	return t.IsUnsigned()
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
