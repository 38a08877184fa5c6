package exprgen

import (
	"cgen/src/cgtype"
	"cgen/src/diag"
	"cgen/src/ir"
)

// typeConvert dispatches on (src kind x dst kind) to convert r to dst,
// emitting trunc/sgnext/zrext as needed and warning per §4.6's rules
// ("type_convert(eres, dst_type, explicit?)"). explicit distinguishes an
// explicit cast from an implicit conversion for the warnings that only fire
// on the latter (truncation, integer<->pointer, incompatible pointer
// targets).
func (g *Generator) typeConvert(blk *ir.Block, r *EResult, dst *cgtype.CGType, explicit bool) (*EResult, error) {
	r = g.asRvalue(blk, r)
	src := r.Type
	tok := r.TFirst

	if dst.IsVoid() {
		return &EResult{Type: dst, TFirst: r.TFirst, TLast: r.TLast}, nil
	}

	switch {
	case src.Kind == cgtype.KindRecord && dst.Kind == cgtype.KindRecord:
		if src.Rec != dst.Rec {
			return nil, g.Sink.Error(diag.CodeTypeMismatch, tok.Line, tok.Pos, "incompatible struct/union types")
		}
		return r, nil

	case (src.IsIntegral() || src.Kind == cgtype.KindEnum) && (dst.IsIntegral() || dst.Kind == cgtype.KindEnum):
		return g.convertIntegral(blk, r, dst, explicit), nil

	case src.Kind == cgtype.KindPointer && dst.Kind == cgtype.KindPointer:
		if !explicit && !cgtype.PointerCompatible(src, dst) {
			g.Sink.Warning(diag.CodeIncompatiblePtrCmp, tok.Line, tok.Pos, "conversion between incompatible pointer types")
		}
		return &EResult{IRVar: r.IRVar, Type: dst, CVKnown: r.CVKnown, CVInt: r.CVInt, CVSymbol: r.CVSymbol,
			TFirst: r.TFirst, TLast: r.TLast}, nil

	case src.IsIntegral() && dst.Kind == cgtype.KindPointer:
		if !explicit && !(r.CVKnown && r.CVInt == 0) {
			g.Sink.Warning(diag.CodeTypeMismatch, tok.Line, tok.Pos, "integer converted to pointer without a cast")
		}
		return &EResult{IRVar: r.IRVar, Type: dst, CVKnown: r.CVKnown, CVInt: r.CVInt, TFirst: r.TFirst, TLast: r.TLast}, nil

	case src.Kind == cgtype.KindPointer && dst.IsIntegral():
		if !explicit {
			g.Sink.Warning(diag.CodeTypeMismatch, tok.Line, tok.Pos, "pointer converted to integer without a cast")
		}
		return &EResult{IRVar: r.IRVar, Type: dst, TFirst: r.TFirst, TLast: r.TLast}, nil
	}
	return nil, g.Sink.Error(diag.CodeTypeMismatch, tok.Line, tok.Pos, "cannot convert %s to %s", src.String(), dst.String())
}

// convertMustSucceed performs a conversion this package itself knows to be
// always valid (integer promotion ahead of an operator, default argument
// promotion): it falls back to the unconverted value on the error path,
// which typeConvert never takes for these call sites.
func (g *Generator) convertMustSucceed(blk *ir.Block, r *EResult, dst *cgtype.CGType) *EResult {
	out, err := g.typeConvert(blk, r, dst, true)
	if err != nil {
		return r
	}
	return out
}

// promote applies integer promotion: enums and sub-int ranks (char, short,
// _Bool) widen to int ahead of an operator (§4.6 UAC step 2).
func (g *Generator) promote(blk *ir.Block, r *EResult) *EResult {
	intRank := cgtype.Basic(cgtype.Int).IntRank()
	if r.Type.Kind == cgtype.KindEnum || r.Type.IsLogic() || r.Type.IntRank() < intRank {
		return g.convertMustSucceed(blk, r, cgtype.Basic(cgtype.Int))
	}
	return r
}

// defaultArgumentPromote applies the promotion variadic call arguments
// receive in lieu of a declared parameter type (§4.6 "Call").
func (g *Generator) defaultArgumentPromote(blk *ir.Block, r *EResult) *EResult {
	if !r.Type.IsIntegral() {
		return r
	}
	return g.promote(blk, r)
}

// convertIntegral handles every integer<->integer and enum<->(integer|enum)
// conversion, folding constants where possible.
func (g *Generator) convertIntegral(blk *ir.Block, r *EResult, dst *cgtype.CGType, explicit bool) *EResult {
	tok := r.TFirst
	src := r.Type

	switch {
	case src.Kind == cgtype.KindEnum && dst.Kind == cgtype.KindEnum && src.Enm != dst.Enm:
		g.Sink.Warning(diag.CodeEnumMix, tok.Line, tok.Pos, "conversion between different enum types")
	case src.Kind == cgtype.KindEnum && dst.Kind != cgtype.KindEnum && src.IsStrictEnum():
		g.Sink.Warning(diag.CodeEnumMix, tok.Line, tok.Pos, "strict enum value used as a plain integer")
	case dst.Kind == cgtype.KindEnum && src.Kind != cgtype.KindEnum && dst.IsStrictEnum():
		g.Sink.Warning(diag.CodeEnumMix, tok.Line, tok.Pos, "plain integer used as a strict enum value")
	}

	srcBits, dstBits := src.Bits(), dst.Bits()
	srcUnsigned, dstUnsigned := effectiveUnsigned(src), effectiveUnsigned(dst)

	if srcUnsigned != dstUnsigned && srcBits == dstBits {
		g.Sink.Warning(diag.CodeSignednessChange, tok.Line, tok.Pos, "implicit signedness change")
	}
	if r.CVKnown && r.CVInt < 0 && dstUnsigned {
		g.Sink.Warning(diag.CodeSignednessChange, tok.Line, tok.Pos, "negative constant converted to an unsigned type")
	}

	var irVar string
	switch {
	case dstBits == srcBits:
		irVar = r.IRVar
	case dstBits < srcBits:
		if !explicit {
			g.Sink.Warning(diag.CodeTruncation, tok.Line, tok.Pos,
				"implicit conversion truncates value from %d to %d bits", srcBits, dstBits)
		}
		if r.IRVar != "" {
			irVar = blk.CreateTrunc(dstBits, r.IRVar).Dest
		}
	default:
		r = g.materialize(blk, r)
		if srcUnsigned {
			irVar = blk.CreateZrExt(dstBits, r.IRVar).Dest
		} else {
			irVar = blk.CreateSgnExt(dstBits, r.IRVar).Dest
		}
	}

	out := &EResult{IRVar: irVar, Type: dst, TFirst: r.TFirst, TLast: r.TLast}
	if r.CVKnown {
		out.CVKnown = true
		out.CVInt = maskAndSign(r.CVInt, dstBits, dstUnsigned)
		out.IRVar = "" // a folded constant stays unmaterialized until needed again
	}
	return out
}
