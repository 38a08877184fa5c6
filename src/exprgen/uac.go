package exprgen

import (
	"cgen/src/cgtype"
	"cgen/src/diag"
	"cgen/src/token"
)

// uacFlags records which usual-arithmetic-conversions conditions applied to
// a pairing of operands (§4.6), so each operator can decide for itself
// which ones matter to its own diagnostics.
type uacFlags struct {
	signed, mix2u bool // a signed operand was converted to unsigned
	enum, enummix, enuminc bool
	truth, truthmix bool
}

// uac computes the usual-arithmetic-conversions result type for two
// integer-or-enum operands and the flags to diagnose (§4.6 "Usual
// arithmetic conversions"). It does not itself emit any conversion
// instructions — the caller applies the result type via typeConvert once
// the surrounding operator has decided how each side must land.
func uac(a, b *cgtype.CGType) (*cgtype.CGType, uacFlags) {
	var f uacFlags

	aEnum, bEnum := a.Kind == cgtype.KindEnum, b.Kind == cgtype.KindEnum
	if aEnum || bEnum {
		f.enum = true
		switch {
		case aEnum && bEnum && a.Enm != b.Enm:
			f.enuminc = true
		case aEnum != bEnum:
			f.enummix = true
		}
	}

	aTruth, bTruth := a.IsLogic(), b.IsLogic()
	if aTruth || bTruth {
		f.truth = true
		if aTruth != bTruth {
			f.truthmix = true
		}
	}

	rankA, rankB := a.IntRank(), b.IntRank()
	intRank := cgtype.Basic(cgtype.Int).IntRank()
	rank := rankA
	if rankB > rank {
		rank = rankB
	}
	if rank < intRank {
		rank = intRank
	}

	unsignedA, unsignedB := effectiveUnsigned(a), effectiveUnsigned(b)
	var resultUnsigned bool
	switch {
	case rankA == rankB:
		resultUnsigned = unsignedA || unsignedB
	case rankA > rankB:
		resultUnsigned = unsignedA
	default:
		resultUnsigned = unsignedB
	}
	if unsignedA != unsignedB {
		f.signed = true
		if resultUnsigned {
			f.mix2u = true
		}
	}

	return elmForRankAndSign(rank, resultUnsigned), f
}

// elmForRankAndSign maps a post-promotion rank (always >= int's) and a
// signedness to the basic CGType UAC settles on.
func elmForRankAndSign(rank int, unsigned bool) *cgtype.CGType {
	intRank := cgtype.Basic(cgtype.Int).IntRank()
	longRank := cgtype.Basic(cgtype.Long).IntRank()
	switch {
	case rank <= intRank:
		if unsigned {
			return cgtype.Basic(cgtype.UInt)
		}
		return cgtype.Basic(cgtype.Int)
	case rank == longRank:
		if unsigned {
			return cgtype.Basic(cgtype.ULong)
		}
		return cgtype.Basic(cgtype.Long)
	default:
		if unsigned {
			return cgtype.Basic(cgtype.ULongLong)
		}
		return cgtype.Basic(cgtype.LongLong)
	}
}

// reportUAC emits the warnings §4.6 names for the flags uac collected.
// isBitwise selects CodeSignedBitwise over the generic CodeSignednessChange
// for &, |, ^, << and >>, matching the diagnostic taxonomy's split between
// a plain signedness change and one happening in a bitwise context.
func (g *Generator) reportUAC(tok token.Token, f uacFlags, isBitwise bool) {
	switch {
	case f.enuminc:
		g.Sink.Warning(diag.CodeEnumMix, tok.Line, tok.Pos, "operands are incompatible enum types")
	case f.enummix:
		g.Sink.Warning(diag.CodeEnumMix, tok.Line, tok.Pos, "enum operand mixed with a non-enum operand")
	}
	if f.truthmix {
		g.Sink.Warning(diag.CodeLogicAsInteger, tok.Line, tok.Pos, "_Bool operand mixed with a non-_Bool operand")
	}
	if f.mix2u {
		if isBitwise {
			g.Sink.Warning(diag.CodeSignedBitwise, tok.Line, tok.Pos, "signed operand converted to unsigned for a bitwise operation")
		} else {
			g.Sink.Warning(diag.CodeSignednessChange, tok.Line, tok.Pos, "signed operand converted to unsigned")
		}
	}
}

var bitwiseOps = map[string]bool{"&": true, "|": true, "^": true, "<<": true, ">>": true}
var relOps = map[string]bool{"==": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true}
