package initgen

import (
	"cgen/src/ast"
	"cgen/src/cgtype"
	"cgen/src/diag"
	"cgen/src/exprgen"
	"cgen/src/ir"
)

// buildStringInit lowers `char s[] = "hi";` / `int s[] = L"hi";` (§4.9
// "String literals directly initialize char[] or wide-char int[] arrays;
// array size is inferred from the string length if not specified; excess
// characters error"). The decoded bytes (plus the implicit NUL terminator
// ast.DecodeStringLiteral appends) become one array-index child apiece.
func (g *Generator) buildStringInit(t *cgtype.CGType, lit *ast.StringLit, blk *ir.Block) (*Init, *cgtype.CGType, error) {
	content := ast.StripQuotes(lit.Text, '"')
	bytes, err := ast.DecodeStringLiteral(content)
	if err != nil {
		return nil, t, g.Sink.Error(diag.CodeInvalidEscape, lit.Tok().Line, lit.Tok().Pos, "%s", err)
	}

	if t.Size != nil && uint64(len(bytes)) > *t.Size {
		return nil, t, g.Sink.Error(diag.CodeExcessInitializers, lit.Tok().Line, lit.Tok().Pos,
			"string literal of length %d exceeds declared array size %d", len(bytes)-1, *t.Size)
	}

	elemBits := t.Elem.Bits()
	node := &Init{Array: make(map[int64]*Init, len(bytes))}
	for i, b := range bytes {
		imm := blk.CreateImm(elemBits, b)
		node.Array[int64(i)] = &Init{Scalar: &exprgen.EResult{
			IRVar: imm.Dest, Type: t.Elem, CVKnown: true, CVInt: b, TFirst: lit.Tok(), TLast: lit.Tok(),
		}}
	}

	resolved := t
	if t.Size == nil {
		size := uint64(len(bytes))
		resolved = t.Clone()
		resolved.Size = &size
	}
	return node, resolved, nil
}
