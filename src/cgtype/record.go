package cgtype

import "fmt"

// RecordKind discriminates struct from union (§3).
type RecordKind int

const (
	Struct RecordKind = iota
	Union
)

func (k RecordKind) String() string {
	if k == Union {
		return "union"
	}
	return "struct"
}

// RecordElem is one member of a Record, in declaration order.
type RecordElem struct {
	Name string
	Type *CGType
}

// Record is a tag-scoped struct/union definition (§3, §4.2). It is owned by
// a Registry for the lifetime of the translation unit; CGType values
// reference it directly rather than through an indirection layer, because
// in Go a *Record already behaves as a stable weak index — it is never
// copied and outlives every CGType that points at it.
type Record struct {
	Name    string // "" for an anonymous record
	AnonSeq int    // disambiguating sequence number when Name == ""
	IRName  string // IR identifier, e.g. "@@struct.point" or "@@anon.3"
	Kind    RecordKind
	Elems   []RecordElem
	Defined bool
}

// DisplayName returns a human-readable name for diagnostics.
func (r *Record) DisplayName() string {
	if r == nil {
		return "<incomplete record>"
	}
	if r.Name != "" {
		return fmt.Sprintf("%s %s", r.Kind, r.Name)
	}
	return fmt.Sprintf("%s <anonymous #%d>", r.Kind, r.AnonSeq)
}

// AppendElem appends a named member, rejecting duplicate names (§4.2).
func (r *Record) AppendElem(name string, t *CGType) error {
	for _, e := range r.Elems {
		if e.Name == name {
			return fmt.Errorf("duplicate member %q in %s", name, r.DisplayName())
		}
	}
	r.Elems = append(r.Elems, RecordElem{Name: name, Type: t})
	return nil
}

// FindElem looks up a member by name and returns it with its byte offset.
func (r *Record) FindElem(name string) (RecordElem, uint64, bool) {
	offset := uint64(0)
	for _, e := range r.Elems {
		if e.Name == name {
			return e, offset, true
		}
		if r.Kind == Struct {
			if sz, err := e.Type.SizeOf(); err == nil {
				offset += sz
			}
		}
	}
	return RecordElem{}, 0, false
}

// Size computes sizeof(Record): the sum of member sizes for a struct, or
// the maximum member size for a union (§3, §8 "Record size").
func (r *Record) Size() uint64 {
	var total, max uint64
	for _, e := range r.Elems {
		sz, err := e.Type.SizeOf()
		if err != nil {
			continue
		}
		total += sz
		if sz > max {
			max = sz
		}
	}
	if r.Kind == Union {
		return max
	}
	return total
}

// OffsetOf returns the byte offset of element index i (0 for every member of
// a union, cumulative prior-member sizes for a struct).
func (r *Record) OffsetOf(i int) uint64 {
	if r.Kind == Union || i <= 0 {
		return 0
	}
	var offset uint64
	for j := 0; j < i && j < len(r.Elems); j++ {
		if sz, err := r.Elems[j].Type.SizeOf(); err == nil {
			offset += sz
		}
	}
	return offset
}

// Registry owns every Record and Enum created for one translation unit
// (§2 "Records / Enums registry", §5 "Shared resources... owned by one
// translation unit and never shared").
type Registry struct {
	records   []*Record
	enums     []*Enum
	recordSeq int
	enumSeq   int
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// CreateRecord creates and registers a new Record. cName is "" for an
// anonymous record, in which case an auto-incrementing sequence number
// disambiguates it (§9 "Anonymous tag disambiguation").
func (reg *Registry) CreateRecord(kind RecordKind, cName, irName string) *Record {
	r := &Record{Name: cName, Kind: kind, IRName: irName}
	if cName == "" {
		r.AnonSeq = reg.recordSeq
		reg.recordSeq++
	}
	reg.records = append(reg.records, r)
	return r
}

// Records returns every Record registered so far, in creation order.
func (reg *Registry) Records() []*Record {
	return reg.records
}
