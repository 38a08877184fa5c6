// compose.go implements the composite-type and compatibility rules of §4.1:
// "compose(a, b) -> c | Conflict" for merging a forward declaration with its
// later (re)declaration, and "pointer_compatible(a, b)" for assignment and
// comparison checks that ignore qualifiers.
package cgtype

// Conflict is returned by Compose when a and b cannot be merged into one
// composite type.
type Conflict struct {
	Reason string
}

func (c *Conflict) Error() string { return c.Reason }

// Compose merges two declarations of what is claimed to be the same type,
// completing an incomplete array size or record/enum definition from
// whichever side has it (§4.1). The qualifier bits of two composed pointer
// types are OR-ed together.
func Compose(a, b *CGType) (*CGType, error) {
	if a == nil || b == nil {
		return nil, &Conflict{Reason: "composing a nil type"}
	}
	if a.Kind != b.Kind {
		return nil, &Conflict{Reason: "incompatible type kinds"}
	}
	switch a.Kind {
	case KindBasic:
		if a.Elm != b.Elm {
			return nil, &Conflict{Reason: "incompatible basic types"}
		}
		return Basic(a.Elm), nil

	case KindPointer:
		target, err := Compose(a.Target, b.Target)
		if err != nil {
			return nil, err
		}
		return PointerTo(target, a.QualBits|b.QualBits), nil

	case KindArray:
		elem, err := Compose(a.Elem, b.Elem)
		if err != nil {
			return nil, err
		}
		size := a.Size
		if size == nil {
			size = b.Size
		} else if b.Size != nil && *a.Size != *b.Size {
			return nil, &Conflict{Reason: "conflicting array sizes"}
		}
		return ArrayOf(elem, a.IndexType, size), nil

	case KindRecord:
		if a.Rec != b.Rec {
			return nil, &Conflict{Reason: "incompatible record types"}
		}
		return RecordType(a.Rec), nil

	case KindEnum:
		if a.Enm != b.Enm {
			return nil, &Conflict{Reason: "incompatible enum types"}
		}
		return EnumType(a.Enm), nil

	case KindFunc:
		ret, err := Compose(a.Return, b.Return)
		if err != nil {
			return nil, err
		}
		if a.Variadic != b.Variadic {
			return nil, &Conflict{Reason: "conflicting variadic-ness"}
		}
		if len(a.Args) != 0 && len(b.Args) != 0 {
			if len(a.Args) != len(b.Args) {
				return nil, &Conflict{Reason: "conflicting argument counts"}
			}
			args := make([]*CGType, len(a.Args))
			for i := range a.Args {
				arg, err := Compose(a.Args[i], b.Args[i])
				if err != nil {
					return nil, err
				}
				args[i] = arg
			}
			return FuncType(ret, args, a.Variadic, a.Conv), nil
		}
		args := a.Args
		if len(args) == 0 {
			args = b.Args
		}
		return FuncType(ret, args, a.Variadic, a.Conv), nil
	}
	return nil, &Conflict{Reason: "unknown type kind"}
}

// PointerCompatible reports whether a and b are the same type ignoring
// qualifiers, the rule used for pointer assignment/comparison diagnostics
// (§4.1, §4.6). A void pointer is compatible with any object pointer.
func PointerCompatible(a, b *CGType) bool {
	if a == nil || b == nil {
		return false
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindBasic:
		if a.Elm == Void || b.Elm == Void {
			return true
		}
		return a.Elm == b.Elm
	case KindPointer:
		if a.Target.IsVoid() || b.Target.IsVoid() {
			return true
		}
		return PointerCompatible(a.Target, b.Target)
	case KindArray:
		return PointerCompatible(a.Elem, b.Elem)
	case KindRecord:
		return a.Rec == b.Rec
	case KindEnum:
		return a.Enm == b.Enm
	case KindFunc:
		if !PointerCompatible(a.Return, b.Return) {
			return false
		}
		if a.Variadic != b.Variadic || len(a.Args) != len(b.Args) {
			return false
		}
		for i := range a.Args {
			if !PointerCompatible(a.Args[i], b.Args[i]) {
				return false
			}
		}
		return true
	}
	return false
}
