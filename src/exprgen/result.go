package exprgen

import (
	"cgen/src/cgtype"
	"cgen/src/token"
)

// SymbolRef anchors a constant pointer-valued EResult to the IR name of the
// global or local it is based on, so pointer arithmetic and pointer
// differences can fold at compile time (§4.6 "Constant folding... Pointer
// arithmetic folds as base_symbol + (cvint + index * sizeof(element)) when
// the base is symbol-known").
type SymbolRef struct {
	Name string
}

// EResult is the value ExprGen produces for every expression node (§4.6).
// A result with IRVar == "" and CVKnown == true is a constant that has not
// yet been assigned a virtual register (see Generator.materialize).
type EResult struct {
	IRVar  string
	Type   *cgtype.CGType
	LValue bool

	CVKnown  bool
	CVInt    int64
	CVSymbol *SymbolRef

	TFirst, TLast token.Token

	// Used is a consumption flag that no stage of this module sets or
	// reads; StmtGen's expression-statement lowering does not report
	// CodeUnusedValue.
	Used bool
}
