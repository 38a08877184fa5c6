package declgen

import (
	"cgen/src/ast"
	"cgen/src/cgtype"
	"cgen/src/diag"
	"cgen/src/scope"
)

// qualBits packs a Qualifier list into the CGType.Pointer QualBits mask.
// Only the bit positions matter for PointerCompatible (which ignores
// qualifiers entirely); the exact encoding is local to this package.
func qualBits(quals []ast.Qualifier) uint8 {
	var bits uint8
	for _, q := range quals {
		switch q.Name {
		case "const":
			bits |= 1 << 0
		case "volatile":
			bits |= 1 << 1
		case "restrict":
			bits |= 1 << 2
		case "_Atomic":
			bits |= 1 << 3
		}
	}
	return bits
}

// ApplyDeclarator walks a Declarator tree and wraps base into the final
// CGType it denotes, returning the identifier name bound at its leaf ("" for
// an abstract declarator).
//
// The wrap order follows the Declarator convention documented in
// ast/decl.go: a node wraps around whatever its Inner subtree produces, so
// a node closer to the tree's root becomes an outer layer of the resulting
// type. Array/function suffix nodes bind tighter to the identifier than a
// leading pointer — for "int *p[3]" the root is the Array node (wrapping a
// Pointer node wrapping the Ident leaf), producing "array[3] of pointer to
// int", not "pointer to array[3] of int".
func (g *Generator) ApplyDeclarator(base *cgtype.CGType, d *ast.Declarator, sc *scope.Scope) (*cgtype.CGType, string, error) {
	if d == nil {
		return base, "", nil
	}
	switch d.Kind {
	case ast.DeclIdent:
		return base, d.Name, nil

	case ast.DeclAbstract:
		if d.Inner != nil {
			return g.ApplyDeclarator(base, d.Inner, sc)
		}
		return base, "", nil

	case ast.DeclPointer:
		inner, name, err := g.ApplyDeclarator(base, d.Inner, sc)
		if err != nil {
			return nil, "", err
		}
		return cgtype.PointerTo(inner, qualBits(d.PointerQuals)), name, nil

	case ast.DeclArray:
		elem, name, err := g.ApplyDeclarator(base, d.Inner, sc)
		if err != nil {
			return nil, "", err
		}
		if elem.IsIncomplete() {
			return nil, "", g.Sink.Error(diag.CodeIncompleteType, d.Tok().Line, d.Tok().Pos,
				"array element has incomplete type")
		}
		if elem.Kind == cgtype.KindFunc {
			return nil, "", g.Sink.Error(diag.CodeIncompleteType, d.Tok().Line, d.Tok().Pos,
				"array of functions is not allowed")
		}
		var size *uint64
		if d.ArraySize != nil {
			v, ok := g.Eval.EvalConstInt(d.ArraySize, sc)
			if !ok {
				return nil, "", g.Sink.Error(diag.CodeNotConstant, d.Tok().Line, d.Tok().Pos,
					"array size is not a constant expression")
			}
			if v < 0 {
				return nil, "", g.Sink.Error(diag.CodeNegativeArrayIndex, d.Tok().Line, d.Tok().Pos,
					"array size must not be negative")
			}
			u := uint64(v)
			size = &u
		}
		return cgtype.ArrayOf(elem, nil, size), name, nil

	case ast.DeclFunc:
		ret, name, err := g.ApplyDeclarator(base, d.Inner, sc)
		if err != nil {
			return nil, "", err
		}
		if ret.Kind == cgtype.KindArray {
			return nil, "", g.Sink.Error(diag.CodeFuncReturnsArray, d.Tok().Line, d.Tok().Pos,
				"function cannot return an array type")
		}

		args, err := g.resolveParams(d, sc)
		if err != nil {
			return nil, "", err
		}
		return cgtype.FuncType(ret, args, d.Variadic, usrCallingConvention(d.Attrs)), name, nil
	}
	return nil, "", g.Sink.Error(diag.CodeTypeMismatch, d.Tok().Line, d.Tok().Pos, "unrecognized declarator kind")
}

// resolveParams processes a function declarator's parameter list (§4.8):
// "void" alone means no parameters; named and unnamed parameters may not be
// mixed (warning); each parameter's own declarator is applied in a fresh
// scope the caller discards (a function declarator that is not a
// definition has no body scope to keep).
func (g *Generator) resolveParams(d *ast.Declarator, sc *scope.Scope) ([]*cgtype.CGType, error) {
	if len(d.Params) == 1 {
		p := d.Params[0]
		if p.Declarator == nil && p.Spec.TypeSpec == ast.TypeSpecBasic && p.Spec.BaseKeyword == "void" {
			return nil, nil // "void is the only parameter" rule
		}
	}

	paramScope := sc.Open()
	named, unnamed := 0, 0
	args := make([]*cgtype.CGType, 0, len(d.Params))
	for _, p := range d.Params {
		base, err := g.ResolveDeclSpec(p.Spec, paramScope)
		if err != nil {
			return nil, err
		}
		t, name, err := g.ApplyDeclarator(base, p.Declarator, paramScope)
		if err != nil {
			return nil, err
		}
		if t.Kind == cgtype.KindArray {
			t = cgtype.PointerTo(t.Elem, 0) // array parameter decays to pointer
		}
		if name != "" {
			named++
			_ = paramScope.Insert(&scope.Member{Kind: scope.Arg, Name: name, Type: t})
		} else {
			unnamed++
		}
		args = append(args, t)
	}
	if named > 0 && unnamed > 0 {
		g.Sink.Warning(diag.CodeMixedNamedArgs, d.Tok().Line, d.Tok().Pos,
			"function declarator mixes named and unnamed parameters")
	}
	return args, nil
}
