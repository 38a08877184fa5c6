// Package symtab implements the module-level symbol directory of §4.4: one
// entry per distinct external identifier, tracking its IR name, kind, type
// and linkage flags across every declaration and (at most one) definition
// seen for it in the translation unit.
//
// This is a directory separate from scope.Scope by design: scope.go answers
// "is this name visible here", symtab answers "what has been declared about
// this external identifier so far, across the whole translation unit".
package symtab

import (
	"fmt"

	"cgen/src/cgtype"
)

// Kind discriminates what a Symbol denotes.
type Kind int

const (
	KindFunc Kind = iota
	KindVar
	KindType // typedef; carried here only so redeclaration-as-a-different-kind can be reported
)

// Linkage records the storage-class history relevant to merging
// declarations (§4.4: "static vs non-static", "extern clears on
// definition").
type Linkage struct {
	Static   bool
	Extern   bool
	Defined  bool
}

// Symbol is one module-level identifier's accumulated declaration state.
type Symbol struct {
	CName  string
	IRName string // e.g. "@main", "@counter"
	Kind   Kind
	Type   *cgtype.CGType
	Linkage
}

// Table is the module-level symbol directory (§4.4). One Table exists per
// translation unit.
type Table struct {
	order   []*Symbol
	byCName map[string]*Symbol
	seq     int
}

// NewTable returns an empty Table.
func NewTable() *Table {
	return &Table{byCName: make(map[string]*Symbol)}
}

// Lookup returns the Symbol for name, if any has been declared so far.
func (t *Table) Lookup(name string) (*Symbol, bool) {
	s, ok := t.byCName[name]
	return s, ok
}

// All returns every Symbol in first-declaration order, for the deferred
// extern-emission pass at end of translation unit (§4.10).
func (t *Table) All() []*Symbol {
	return t.order
}

// nextIRName allocates a fresh, disambiguated IR identifier for a new
// module-level symbol (§4.4 "IR identifier, prefixed @").
func (t *Table) nextIRName(cName string) string {
	if _, clash := t.byCName[cName]; !clash {
		return "@" + cName
	}
	t.seq++
	return fmt.Sprintf("@%s.%d", cName, t.seq)
}

// Declare records a declaration (not a definition) of cName. If cName is
// new, a Symbol is created and returned. If cName already exists, the two
// types are composed per cgtype.Compose and linkage is merged; a Conflict
// from Compose, or an incompatible Kind, is reported as an error (§4.4
// "redeclaration with an incompatible type is an error").
func (t *Table) Declare(cName string, kind Kind, typ *cgtype.CGType, static, extern bool) (*Symbol, error) {
	existing, ok := t.byCName[cName]
	if !ok {
		s := &Symbol{
			CName:  cName,
			IRName: t.nextIRName(cName),
			Kind:   kind,
			Type:   typ,
			Linkage: Linkage{Static: static, Extern: extern},
		}
		t.order = append(t.order, s)
		t.byCName[cName] = s
		return s, nil
	}

	if existing.Kind != kind {
		return nil, fmt.Errorf("%q redeclared as a different kind of symbol", cName)
	}
	composed, err := cgtype.Compose(existing.Type, typ)
	if err != nil {
		return nil, fmt.Errorf("conflicting declarations of %q: %w", cName, err)
	}
	existing.Type = composed

	// A later non-static declaration may not widen a prior static one
	// (§4.4 "static-vs-non-static mismatch"); the reverse narrowing is
	// allowed and takes effect immediately.
	if existing.Static && !static {
		return nil, fmt.Errorf("non-static declaration of %q follows static declaration", cName)
	}
	existing.Static = existing.Static || static

	if !existing.Defined {
		existing.Extern = existing.Extern && extern
	}
	return existing, nil
}

// Define records cName's definition (a function body or an initialized
// variable). It is an error to define the same symbol twice; defining a
// symbol that was declared extern clears the Extern flag (§4.4 "extern
// clears on definition").
func (t *Table) Define(cName string, kind Kind, typ *cgtype.CGType, static bool) (*Symbol, error) {
	existing, ok := t.byCName[cName]
	if !ok {
		s := &Symbol{
			CName:  cName,
			IRName: t.nextIRName(cName),
			Kind:   kind,
			Type:   typ,
			Linkage: Linkage{Static: static, Defined: true},
		}
		t.order = append(t.order, s)
		t.byCName[cName] = s
		return s, nil
	}

	if existing.Defined {
		return nil, fmt.Errorf("redefinition of %q", cName)
	}
	if existing.Kind != kind {
		return nil, fmt.Errorf("%q redeclared as a different kind of symbol", cName)
	}
	composed, err := cgtype.Compose(existing.Type, typ)
	if err != nil {
		return nil, fmt.Errorf("conflicting declarations of %q: %w", cName, err)
	}
	existing.Type = composed
	existing.Defined = true
	existing.Extern = false
	existing.Static = existing.Static || static
	return existing, nil
}

// DeclarationFollowsDefinitionWarning reports whether redeclaring an
// already-defined symbol (without attempting to redefine it) should be
// surfaced as a warning rather than silently accepted (§4.4).
func (t *Table) DeclarationFollowsDefinitionWarning(cName string) bool {
	s, ok := t.byCName[cName]
	return ok && s.Defined
}
