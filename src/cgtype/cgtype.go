// Package cgtype implements the C type system (§3, §4.1): construction,
// cloning, composition, compatibility and the integer-rank/predicate queries
// the rest of code generation relies on.
//
// CGType is a proper Go sum type, per design note §9 ("tagged variants
// over inheritance"): one struct carrying a Kind discriminant plus the
// fields relevant to that kind, rather than an inheritance hierarchy with
// a type-erased extension pointer.
package cgtype

import "fmt"

// Kind discriminates the CGType variant.
type Kind int

const (
	KindBasic Kind = iota
	KindPointer
	KindArray
	KindRecord
	KindEnum
	KindFunc
)

// ElmType enumerates the basic C scalar types (§3). There is no
// floating-point element: this C dialect's CGType has none.
type ElmType int

const (
	Void ElmType = iota
	Char
	UChar
	Short
	UShort
	Int
	UInt
	Long
	ULong
	LongLong
	ULongLong
	Logic // C _Bool
	VaList
)

var elmNames = [...]string{
	"void", "char", "unsigned char", "short", "unsigned short", "int", "unsigned int",
	"long", "unsigned long", "long long", "unsigned long long", "_Bool", "va_list",
}

func (e ElmType) String() string {
	if int(e) < 0 || int(e) >= len(elmNames) {
		return "?"
	}
	return elmNames[e]
}

// bitWidth is the fixed dimension table of §4.1: "pointer = 16 bits, char =
// 8, short/int/logic = 16, long = 32, longlong = 64, enum = 16."
var bitWidth = [...]int{
	Void:       0,
	Char:       8,
	UChar:      8,
	Short:      16,
	UShort:     16,
	Int:        16,
	UInt:       16,
	Long:       32,
	ULong:      32,
	LongLong:   64,
	ULongLong:  64,
	Logic:      16,
	VaList:     0,
}

// PointerBits is the fixed width of every pointer value.
const PointerBits = 16

// EnumBits is the fixed width of every enum value.
const EnumBits = 16

// unsignedElm marks each ElmType that is the unsigned member of its pair.
var unsignedElm = map[ElmType]bool{
	UChar: true, UShort: true, UInt: true, ULong: true, ULongLong: true,
}

// CallConv is the calling convention attached to a function type (§4.8:
// "only usr is recognized, setting calling convention").
type CallConv int

const (
	ConvDefault CallConv = iota
	ConvUsr
)

// CGType is the tagged C type value described by §3.
type CGType struct {
	Kind Kind

	// KindBasic
	Elm ElmType

	// KindPointer
	Target   *CGType
	QualBits uint8

	// KindArray
	Elem      *CGType
	IndexType *CGType // optional
	Size      *uint64 // nil if size unknown (incomplete array)

	// KindRecord
	Rec *Record

	// KindEnum
	Enm *Enum

	// KindFunc
	Return   *CGType
	Args     []*CGType
	Variadic bool
	Conv     CallConv
}

// Basic constructs a basic scalar CGType.
func Basic(elm ElmType) *CGType {
	return &CGType{Kind: KindBasic, Elm: elm}
}

// PointerTo constructs a pointer CGType.
func PointerTo(target *CGType, qualBits uint8) *CGType {
	return &CGType{Kind: KindPointer, Target: target, QualBits: qualBits}
}

// ArrayOf constructs an array CGType. size is nil for an incomplete array.
func ArrayOf(elem *CGType, indexType *CGType, size *uint64) *CGType {
	return &CGType{Kind: KindArray, Elem: elem, IndexType: indexType, Size: size}
}

// RecordType constructs a CGType referring to a Record registry entry.
func RecordType(rec *Record) *CGType {
	return &CGType{Kind: KindRecord, Rec: rec}
}

// EnumType constructs a CGType referring to an Enum registry entry.
func EnumType(enm *Enum) *CGType {
	return &CGType{Kind: KindEnum, Enm: enm}
}

// FuncType constructs a function CGType.
func FuncType(ret *CGType, args []*CGType, variadic bool, conv CallConv) *CGType {
	return &CGType{Kind: KindFunc, Return: ret, Args: args, Variadic: variadic, Conv: conv}
}

// Clone performs the deep copy described by §3: "CGTypes are owned by their
// embedder... and cloned on sharing." Record and Enum references are left
// shared (they are registry-owned, never copied).
func (t *CGType) Clone() *CGType {
	if t == nil {
		return nil
	}
	c := *t
	switch t.Kind {
	case KindPointer:
		c.Target = t.Target.Clone()
	case KindArray:
		c.Elem = t.Elem.Clone()
		if t.IndexType != nil {
			c.IndexType = t.IndexType.Clone()
		}
		if t.Size != nil {
			sz := *t.Size
			c.Size = &sz
		}
	case KindFunc:
		c.Return = t.Return.Clone()
		c.Args = make([]*CGType, len(t.Args))
		for i, a := range t.Args {
			c.Args[i] = a.Clone()
		}
	}
	return &c
}

// String renders a debug-only textual form of the type (not the specified
// IR textual serializer, which is an external collaborator — §1).
func (t *CGType) String() string {
	if t == nil {
		return "<nil type>"
	}
	switch t.Kind {
	case KindBasic:
		return t.Elm.String()
	case KindPointer:
		return fmt.Sprintf("%s*", t.Target.String())
	case KindArray:
		if t.Size != nil {
			return fmt.Sprintf("%s[%d]", t.Elem.String(), *t.Size)
		}
		return fmt.Sprintf("%s[]", t.Elem.String())
	case KindRecord:
		return t.Rec.DisplayName()
	case KindEnum:
		return t.Enm.DisplayName()
	case KindFunc:
		return fmt.Sprintf("%s(...)->%s", "func", t.Return.String())
	}
	return "?"
}

// IsVoid reports whether t is the basic void type.
func (t *CGType) IsVoid() bool {
	return t.Kind == KindBasic && t.Elm == Void
}

// IsLogic reports whether t is the _Bool type.
func (t *CGType) IsLogic() bool {
	return t.Kind == KindBasic && t.Elm == Logic
}

// IsInteger reports whether t is a basic integer type (excludes void,
// va_list and logic — logic is tracked separately per §9).
func (t *CGType) IsInteger() bool {
	if t.Kind != KindBasic {
		return false
	}
	switch t.Elm {
	case Void, VaList, Logic:
		return false
	default:
		return true
	}
}

// IsIntegral reports whether t is an integer or an enum (§4.1 "is_integral").
func (t *CGType) IsIntegral() bool {
	return t.IsInteger() || t.Kind == KindEnum
}

// IsArithmetic is an alias for IsIntegral: this dialect has no floating
// point, so "arithmetic" and "integral" coincide (§4.1 "is_arithmetic").
func (t *CGType) IsArithmetic() bool {
	return t.IsIntegral()
}

// IsStrictEnum reports whether t is an enum type, which by §3 default rules
// is always "strict" in this implementation (no per-enum relaxation is
// modeled; see DESIGN.md Open Question decisions).
func (t *CGType) IsStrictEnum() bool {
	return t.Kind == KindEnum
}

// IsFunctionPointer reports whether t is a pointer to a function type.
func (t *CGType) IsFunctionPointer() bool {
	return t.Kind == KindPointer && t.Target != nil && t.Target.Kind == KindFunc
}

// IsUnsigned reports whether t is an unsigned basic type. Enums and logic
// are treated as signed for this query; callers needing enum/logic
// signedness for UAC consult IntRank and IsStrictEnum directly.
func (t *CGType) IsUnsigned() bool {
	return t.Kind == KindBasic && unsignedElm[t.Elm]
}

// rankOrder gives the strict ordering char < short < int < long < longlong
// used by IntRank; Logic ranks alongside char per §4.1.
var rankOrder = map[ElmType]int{
	Logic: 0, Char: 0, UChar: 0,
	Short: 1, UShort: 1,
	Int: 2, UInt: 2,
	Long: 3, ULong: 3,
	LongLong: 4, ULongLong: 4,
}

// IntRank returns the integer conversion rank used by UAC (§4.1 "int_rank").
// Enums rank as int.
func (t *CGType) IntRank() int {
	if t.Kind == KindEnum {
		return rankOrder[Int]
	}
	if t.Kind != KindBasic {
		return -1
	}
	return rankOrder[t.Elm]
}

// Bits returns the storage width in bits of t, where defined without a
// complete-type query (basic types, pointers, enums). Use SizeOf for arrays
// and records.
func (t *CGType) Bits() int {
	switch t.Kind {
	case KindBasic:
		return bitWidth[t.Elm]
	case KindPointer:
		return PointerBits
	case KindEnum:
		return EnumBits
	}
	return 0
}

// IsIncomplete reports whether t is an incomplete type (§3): an array of
// unknown size or incomplete element, an undefined record, or an undefined
// enum.
func (t *CGType) IsIncomplete() bool {
	switch t.Kind {
	case KindArray:
		return t.Size == nil || t.Elem.IsIncomplete()
	case KindRecord:
		return t.Rec == nil || !t.Rec.Defined
	case KindEnum:
		return t.Enm == nil || !t.Enm.Defined
	case KindBasic:
		return t.Elm == Void
	}
	return false
}

// SizeOf computes sizeof(t) in bytes from the fixed dimension table and the
// Record/Enum size rules (§4.1, §8 "Record size").
func (t *CGType) SizeOf() (uint64, error) {
	if t.IsIncomplete() {
		return 0, fmt.Errorf("sizeof applied to incomplete type %s", t.String())
	}
	switch t.Kind {
	case KindBasic:
		return uint64(bitWidth[t.Elm] / 8), nil
	case KindPointer:
		return PointerBits / 8, nil
	case KindEnum:
		return EnumBits / 8, nil
	case KindArray:
		elemSz, err := t.Elem.SizeOf()
		if err != nil {
			return 0, err
		}
		return elemSz * *t.Size, nil
	case KindRecord:
		return t.Rec.Size(), nil
	case KindFunc:
		return 0, fmt.Errorf("sizeof applied to function type")
	}
	return 0, fmt.Errorf("sizeof: unknown kind")
}
