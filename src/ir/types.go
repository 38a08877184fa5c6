// Package ir is the three-address intermediate representation this module
// emits (§3, §6): modules, procedures, labeled-block bodies, and the IR
// type-expression language, all built through CreateXxx builder methods.
//
// The builder-method texture (Module.CreateXxx / Proc.CreateXxx /
// Block.CreateXxx) follows the Module.CreateFunction / Function.CreateBlock
// / Function.CreateParam shape of a lower-level IR builder, with its
// register-allocation surface (backend-only, Non-goal "target code
// generation") and concurrency primitives dropped per the single-threaded
// scheduling model (§5).
package ir

import "fmt"

// TypeKind discriminates one IR type expression (§6 "IR type expressions").
type TypeKind int

const (
	TInt TypeKind = iota
	TPtr
	TIdent // ident(@@rec) -- a record referenced by its IR tag name
	TArray
	TVaList
)

// Type is an IR type expression.
type Type struct {
	Kind  TypeKind
	Bits  int    // valid for TInt, TPtr
	Ident string // valid for TIdent: the record's IR tag name, e.g. "@@struct.point"
	Size  uint64 // valid for TArray
	Elem  *Type  // valid for TArray
}

// IntType constructs int.<bits>.
func IntType(bits int) *Type { return &Type{Kind: TInt, Bits: bits} }

// PtrType constructs ptr.<bits>.
func PtrType(bits int) *Type { return &Type{Kind: TPtr, Bits: bits} }

// IdentType constructs ident(@@rec).
func IdentType(irName string) *Type { return &Type{Kind: TIdent, Ident: irName} }

// ArrayType constructs array[<size>](<elemtype>).
func ArrayType(size uint64, elem *Type) *Type { return &Type{Kind: TArray, Size: size, Elem: elem} }

// VaListType constructs the va_list pseudo-type.
func VaListType() *Type { return &Type{Kind: TVaList} }

// String renders t using the textual grammar of §6.
func (t *Type) String() string {
	if t == nil {
		return "?"
	}
	switch t.Kind {
	case TInt:
		return fmt.Sprintf("int.%d", t.Bits)
	case TPtr:
		return fmt.Sprintf("ptr.%d", t.Bits)
	case TIdent:
		return fmt.Sprintf("ident(%s)", t.Ident)
	case TArray:
		return fmt.Sprintf("array[%d](%s)", t.Size, t.Elem.String())
	case TVaList:
		return "va_list"
	}
	return "?"
}
