package exprgen

import (
	"cgen/src/cgtype"
	"cgen/src/ir"
	"cgen/src/token"
)

// Exported wrappers around operations StmtGen (and, later, InitGen) need to
// reuse verbatim rather than reimplementing: the lvalue/rvalue discipline,
// constant materialization, scalar-condition normalization and the CGType->
// IR type mapping all belong here rather than in ExprGen's own expression
// lowering, so a second package can drive the same pipeline ExprGen's
// binary/logical/conditional operators use internally.

// AsRvalue decays arrays/functions and reads through an lvalue, matching
// the rule every operand of a binary/logical/conditional expression is put
// through before use.
func (g *Generator) AsRvalue(blk *ir.Block, r *EResult) *EResult {
	return g.asRvalue(blk, r)
}

// AsLvalue verifies r denotes an lvalue.
func (g *Generator) AsLvalue(r *EResult) (*EResult, error) {
	return g.asLvalue(r)
}

// Materialize assigns a constant result an IR register if it does not
// already have one.
func (g *Generator) Materialize(blk *ir.Block, r *EResult) *EResult {
	return g.materialize(blk, r)
}

// CheckScalar rejects a record/array operand where a scalar is required.
func (g *Generator) CheckScalar(r *EResult, tok token.Token, context string) error {
	return g.checkScalar(r, tok, context)
}

// MaterializeToLogic normalizes a scalar rvalue to a 0/1 _Bool, the same
// normalization && / || / ?: apply to their operands.
func (g *Generator) MaterializeToLogic(blk *ir.Block, r *EResult) *EResult {
	return g.materializeToLogic(blk, r)
}

// TypeConvert performs an implicit (or, with explicit=true, an explicit
// cast-style) conversion of r to dst.
func (g *Generator) TypeConvert(blk *ir.Block, r *EResult, dst *cgtype.CGType, explicit bool) (*EResult, error) {
	return g.typeConvert(blk, r, dst, explicit)
}

// IRTypeOf maps a CGType to the IR type expression used for lvarptr/varptr/
// recmbr instruction operands and synthesized callsign signatures.
func IRTypeOf(t *cgtype.CGType) *ir.Type {
	return irTypeOf(t)
}
