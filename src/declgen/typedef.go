package declgen

import (
	"cgen/src/ast"
	"cgen/src/cgtype"
	"cgen/src/diag"
	"cgen/src/scope"
)

// DefineTypedef resolves one typedef declarator and inserts it into sc's
// ordinary namespace as a scope.TDef member (§4.8 "Typedef... produce
// appropriate registry entries and scope insertions").
func (g *Generator) DefineTypedef(spec *ast.DeclSpec, d *ast.Declarator, sc *scope.Scope) error {
	base, err := g.ResolveDeclSpec(spec, sc)
	if err != nil {
		return err
	}
	t, name, err := g.ApplyDeclarator(base, d, sc)
	if err != nil {
		return err
	}
	if name == "" {
		return g.Sink.Error(diag.CodeTypeMismatch, d.Tok().Line, d.Tok().Pos, "typedef requires a name")
	}
	if err := sc.Insert(&scope.Member{Kind: scope.TDef, Name: name, Type: t}); err != nil {
		return g.Sink.Error(diag.CodeRedefinition, d.Tok().Line, d.Tok().Pos, "%s", err)
	}
	return nil
}

// IdentIsType answers the parser's `ident_is_type` query (§6), used to
// disambiguate an identifier as a typedef name versus an ordinary
// identifier during parsing.
func IdentIsType(sc *scope.Scope, name string) bool {
	m, ok := sc.Lookup(name)
	return ok && m.Kind == scope.TDef
}

// usrCallingConvention reports whether a declarator's attribute list
// requests the "usr" calling convention (§4.8: "only usr is recognized").
func usrCallingConvention(attrs []ast.Attr) cgtype.CallConv {
	for _, a := range attrs {
		if a.Name == "usr" {
			return cgtype.ConvUsr
		}
	}
	return cgtype.ConvDefault
}
