package exprgen

import (
	"cgen/src/ast"
	"cgen/src/cgtype"
	"cgen/src/diag"
	"cgen/src/ir"
	"cgen/src/scope"
)

func (g *Generator) genCast(e *ast.Cast, sc *scope.Scope, blk *ir.Block) (*EResult, error) {
	dst, err := g.Types.ResolveTypeName(e.Type, sc)
	if err != nil {
		return nil, err
	}
	r, err := g.Gen(e.Operand, sc, blk)
	if err != nil {
		return nil, err
	}
	out, err := g.typeConvert(blk, r, dst, true)
	if err != nil {
		return nil, err
	}
	out.TFirst, out.TLast = e.Tok(), e.Tok()
	return out, nil
}

// genSizeof lowers sizeof(type-name) and sizeof expr (§4.6 "Sizeof"),
// reporting CodeIncompleteType when the operand's type has no known size.
func (g *Generator) genSizeof(e *ast.Sizeof, sc *scope.Scope, blk *ir.Block) (*EResult, error) {
	var t *cgtype.CGType
	if e.TypeArg != nil {
		var err error
		t, err = g.Types.ResolveTypeName(e.TypeArg, sc)
		if err != nil {
			return nil, err
		}
	} else {
		r, err := g.Gen(e.ValueArg, sc, blk)
		if err != nil {
			return nil, err
		}
		t = r.Type
		if r.Type.Kind == cgtype.KindArray || r.Type.Kind == cgtype.KindFunc {
			t = r.Type
		}
	}

	size, err := t.SizeOf()
	if err != nil {
		return nil, g.Sink.Error(diag.CodeIncompleteType, e.Tok().Line, e.Tok().Pos, "sizeof applied to incomplete type %s", t.String())
	}
	return &EResult{Type: cgtype.Basic(cgtype.ULong), CVKnown: true, CVInt: int64(size), TFirst: e.Tok(), TLast: e.Tok()}, nil
}

// genBuiltin lowers __va_start/__va_arg/__va_end/__va_copy (§4.8
// "Variadic procedures"), requiring the enclosing procedure to itself be
// variadic.
func (g *Generator) genBuiltin(e *ast.Builtin, sc *scope.Scope, blk *ir.Block) (*EResult, error) {
	proc := blk.Proc()
	if !proc.Variadic {
		return nil, g.Sink.Error(diag.CodeVaStartOutsideVariadic, e.Tok().Line, e.Tok().Pos, "%s used outside a variadic procedure", e.Name)
	}

	switch e.Name {
	case "__va_start":
		list, err := g.genVaListOperand(e.Args[0], sc, blk)
		if err != nil {
			return nil, err
		}
		lastFixed := ""
		if n := len(proc.Params); n > 0 {
			lastFixed = proc.Params[n-1].Name
		}
		blk.CreateVaStart(list.IRVar, lastFixed)
		return &EResult{Type: cgtype.Basic(cgtype.Void), TFirst: e.Tok(), TLast: e.Tok()}, nil

	case "__va_arg":
		list, err := g.genVaListOperand(e.Args[0], sc, blk)
		if err != nil {
			return nil, err
		}
		t, err := g.Types.ResolveTypeName(e.Type, sc)
		if err != nil {
			return nil, err
		}
		instr := blk.CreateVaArg(t.Bits(), list.IRVar)
		return &EResult{IRVar: instr.Dest, Type: t, TFirst: e.Tok(), TLast: e.Tok()}, nil

	case "__va_end":
		list, err := g.genVaListOperand(e.Args[0], sc, blk)
		if err != nil {
			return nil, err
		}
		blk.CreateVaEnd(list.IRVar)
		return &EResult{Type: cgtype.Basic(cgtype.Void), TFirst: e.Tok(), TLast: e.Tok()}, nil

	case "__va_copy":
		dst, err := g.genVaListOperand(e.Args[0], sc, blk)
		if err != nil {
			return nil, err
		}
		src, err := g.genVaListOperand(e.Args[1], sc, blk)
		if err != nil {
			return nil, err
		}
		blk.CreateVaCopy(dst.IRVar, src.IRVar)
		return &EResult{Type: cgtype.Basic(cgtype.Void), TFirst: e.Tok(), TLast: e.Tok()}, nil
	}

	return nil, g.Sink.Error(diag.CodeTypeMismatch, e.Tok().Line, e.Tok().Pos, "unrecognized builtin %q", e.Name)
}

func (g *Generator) genVaListOperand(arg ast.Expr, sc *scope.Scope, blk *ir.Block) (*EResult, error) {
	r, err := g.Gen(arg, sc, blk)
	if err != nil {
		return nil, err
	}
	r, err = g.asLvalue(r)
	if err != nil {
		return nil, err
	}
	return r, nil
}
