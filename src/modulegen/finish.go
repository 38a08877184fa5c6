package modulegen

import (
	"cgen/src/exprgen"
	"cgen/src/ir"
	"cgen/src/symtab"
)

// Finish completes the module once every top-level construct has been
// processed (§4.10: "After parsing the module, iterates the symbol
// directory and emits an IR declaration for every declared-but-not-defined
// symbol"). A symbol declared extern or merely forward-declared and never
// given a body/initializer in this translation unit surfaces here as an
// ir.LinkExtern Proc or Var; typedef entries carry no IR representation and
// are skipped.
func (g *Generator) Finish() error {
	for _, sym := range g.Symbols.All() {
		if sym.Kind == symtab.KindType || sym.Defined {
			continue
		}
		switch sym.Kind {
		case symtab.KindFunc:
			g.Module.DeclareProc(sym.IRName, exprgen.IRTypeOf(sym.Type.Return), sym.Type.Variadic, ir.LinkExtern)
		case symtab.KindVar:
			g.Module.DeclareVar(sym.IRName, exprgen.IRTypeOf(sym.Type), ir.LinkExtern)
		}
	}
	return nil
}
