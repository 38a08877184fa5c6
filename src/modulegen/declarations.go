package modulegen

import (
	"cgen/src/ast"
	"cgen/src/cgtype"
	"cgen/src/diag"
	"cgen/src/exprgen"
	"cgen/src/ir"
	"cgen/src/symtab"
)

// ProcessGlobalDecl lowers one top-level declaration (§4.8, §4.10): a
// typedef, a tag-only declaration ("struct foo;"), or one or more
// declarators sharing a DeclSpec. A declarator without an initializer only
// registers with the symbol directory — no IR entity is created for it
// until Finish's deferred extern-emission pass, since a plain declaration
// may never be defined in this translation unit at all. A declarator with
// an initializer is a definition: it is registered and its ir.Var is built
// immediately, data block and all.
func (g *Generator) ProcessGlobalDecl(n *ast.GlobalDecl) error {
	if n.Spec.StorageClass == "typedef" {
		for _, d := range n.Declarators {
			if err := g.Decls.DefineTypedef(n.Spec, d.Declarator, g.FileScope); err != nil {
				return err
			}
		}
		return nil
	}

	base, err := g.Decls.ResolveDeclSpec(n.Spec, g.FileScope)
	if err != nil {
		return err
	}
	if len(n.Declarators) == 0 {
		return nil // tag-only declaration; ResolveDeclSpec already registered the tag
	}

	static := n.Spec.StorageClass == "static"
	extern := n.Spec.StorageClass == "extern"

	for _, d := range n.Declarators {
		t, name, err := g.Decls.ApplyDeclarator(base, d.Declarator, g.FileScope)
		if err != nil {
			return err
		}
		kind := symtab.KindVar
		if t.Kind == cgtype.KindFunc {
			kind = symtab.KindFunc
		}

		if d.Init == nil {
			sym, err := g.Symbols.Declare(name, kind, t, static, extern)
			if err != nil {
				return g.Sink.Error(diag.CodeRedefinition, d.Tok().Line, d.Tok().Pos, "%s", err)
			}
			g.bindFileScopeSymbol(name, sym)
			continue
		}

		if kind == symtab.KindFunc {
			return g.Sink.Error(diag.CodeTypeMismatch, d.Tok().Line, d.Tok().Pos,
				"function %q cannot have an initializer", name)
		}

		sym, err := g.Symbols.Define(name, kind, t, static)
		if err != nil {
			return g.Sink.Error(diag.CodeRedefinition, d.Tok().Line, d.Tok().Pos, "%s", err)
		}
		g.bindFileScopeSymbol(name, sym)

		resolved, data, err := g.Inits.BuildGlobalInitializer(sym.Type, d.Init, g.FileScope)
		if err != nil {
			return err
		}
		if resolved != sym.Type {
			sym.Type = resolved
			if m, ok := g.FileScope.LookupLocal(name); ok {
				m.Type = resolved
			}
		}

		linkage := ir.LinkGlobal
		if static {
			linkage = ir.LinkDefault
		}
		v := g.Module.DeclareVar(sym.IRName, exprgen.IRTypeOf(sym.Type), linkage)
		v.Data = data
	}
	return nil
}
