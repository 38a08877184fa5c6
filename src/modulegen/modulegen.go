// Package modulegen orchestrates one translation unit's code generation
// (§4.10, §6): it is the object an external parser drives through direct
// callbacks (§9 "Parser callback indirection... model as an object
// implementing a visitor trait"), wiring together the registry, symbol
// directory, scope tree and the four generator stages (DeclGen, ExprGen,
// StmtGen, InitGen) that were each built and tested in isolation.
//
// Since this module supplies no parser of its own (§6: the parser is an
// external collaborator, consumed only through its callback contract),
// Generator's exported methods ARE that callback table: a real driver feeds
// it one top-level construct at a time exactly as the grammar reduces it.
package modulegen

import (
	"cgen/src/cgtype"
	"cgen/src/declgen"
	"cgen/src/diag"
	"cgen/src/exprgen"
	"cgen/src/initgen"
	"cgen/src/ir"
	"cgen/src/scope"
	"cgen/src/stmtgen"
	"cgen/src/symtab"
)

// Options configures one translation unit's code generation (ambient
// configuration, stripped of the backend/target/thread flags that no
// longer apply to this stage).
type Options struct {
	// StrictEnum mirrors §3's "enums are strict by default"; this
	// implementation has no relaxation mechanism (cgtype.CGType.IsStrictEnum
	// always returns true for an enum type — see DESIGN.md's Open Question
	// decisions), so this field is reserved for a future per-enum switch
	// and currently has no effect besides documenting the default.
	StrictEnum bool
	// WarnAsError promotes every warning to also set the module error
	// flag (diag.Sink), the `-Werror`-style override of §7's default
	// "warnings never interrupt code generation" policy.
	WarnAsError bool
}

// DefaultOptions returns the documented defaults (§3).
func DefaultOptions() Options {
	return Options{StrictEnum: true}
}

// Generator holds one translation unit's complete state: the shared
// registry and diagnostic sink, the IR module under construction, the
// module-level symbol directory, the file-scope root of the scope tree,
// and the four generator stages wired together against them.
type Generator struct {
	Registry  *cgtype.Registry
	Sink      *diag.Sink
	Module    *ir.Module
	Symbols   *symtab.Table
	FileScope *scope.Scope
	Options   Options

	Decls *declgen.Generator
	Exprs *exprgen.Generator
	Stmts *stmtgen.Generator
	Inits *initgen.Generator

	// curFunc is set for the duration of ProcessFunctionDef's body lowering
	// and nil otherwise; statement callbacks (ProcessIf/While/...) consult
	// it for the enclosing procedure's label table and structural stacks.
	curFunc *stmtgen.FuncCtx
	// curScope is the scope the statement callbacks lower against while
	// curFunc is set: the function body's outermost block scope. A nested
	// block's own child frame is opened and discarded internally by
	// stmtgen.Gen's *ast.Block case, so curScope itself never needs to
	// track descent into nested blocks.
	curScope *scope.Scope
}

// New wires a fresh Generator: ExprGen and DeclGen resolve their mutual
// dependency through the narrow ConstEvaluator/TypeResolver interfaces
// (§9), exactly as every package's own test suite wires them, and InitGen/
// StmtGen are layered on top.
func New(opts Options) *Generator {
	reg := cgtype.NewRegistry()
	sink := diag.NewSinkWithOptions(opts.WarnAsError)
	mod := ir.NewModule()

	exprs := exprgen.NewGenerator(reg, sink, mod, nil)
	decls := declgen.NewGenerator(reg, sink, exprs)
	exprs.Types = decls
	inits := initgen.NewGenerator(reg, sink, exprs)
	stmts := stmtgen.NewGenerator(reg, sink, exprs, decls, inits)

	return &Generator{
		Registry:  reg,
		Sink:      sink,
		Module:    mod,
		Symbols:   symtab.NewTable(),
		FileScope: scope.NewFileScope(),
		Options:   opts,
		Decls:     decls,
		Exprs:     exprs,
		Stmts:     stmts,
		Inits:     inits,
	}
}

// IdentIsType answers the parser's `ident_is_type` grammar-disambiguation
// query (§6) against file scope — this is the predicate every nested scope
// a declarator walks through ultimately falls back to.
func (g *Generator) IdentIsType(name string) bool {
	return declgen.IdentIsType(g.FileScope, name)
}

// bindFileScopeSymbol inserts or updates name's GSym member in file scope
// to reflect sym's latest composed type and IR name. A name already bound
// here (from an earlier declaration of the same symbol) is updated in
// place rather than re-inserted, relying on scope.Scope storing *Member by
// pointer — the same convention stmtgen.genInit exploits for an unsized
// local array declarator.
func (g *Generator) bindFileScopeSymbol(name string, sym *symtab.Symbol) {
	if m, ok := g.FileScope.LookupLocal(name); ok {
		m.Type = sym.Type
		m.IRName = sym.IRName
		return
	}
	_ = g.FileScope.Insert(&scope.Member{Kind: scope.GSym, Name: name, Type: sym.Type, IRName: sym.IRName})
}
