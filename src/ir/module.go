package ir

import "fmt"

// Linkage classifies how a Proc or Var is exposed at module scope (§3, §6).
type Linkage int

const (
	LinkDefault Linkage = iota
	LinkGlobal
	LinkExtern
	// LinkCallsign marks a synthetic Proc created solely to carry the
	// signature of an indirect call target (§4.6 "call-signature
	// descriptor", GLOSSARY "Callsign").
	LinkCallsign
)

// namer mints disambiguated IR identifiers for one category (strings,
// anonymous records, callsigns, ...), appending ".<n>" on a name collision
// (§6 "disambiguation numbers are appended on conflict", §9 "Anonymous tag
// disambiguation: keep a per-module counter per category").
type namer struct {
	seen map[string]int
}

func newNamer() *namer { return &namer{seen: make(map[string]int)} }

func (n *namer) name(prefix, base string) string {
	count, clash := n.seen[base]
	n.seen[base] = count + 1
	if !clash {
		return prefix + base
	}
	return fmt.Sprintf("%s%s.%d", prefix, base, count)
}

// Module is the top-level IR container: an ordered list of procedure,
// variable and record declarations (§3, §6).
type Module struct {
	Procs   []*Proc
	Vars    []*Var
	Records []*RecordDecl

	globalNames   *namer
	tagNames      *namer
	localSeq      int
}

// NewModule returns an empty Module.
func NewModule() *Module {
	return &Module{globalNames: newNamer(), tagNames: newNamer()}
}

// CreateProc declares a new procedure and appends it to the module in
// declaration order.
func (m *Module) CreateProc(cName string, ret *Type, variadic bool, linkage Linkage) *Proc {
	prefix := "@"
	if linkage == LinkCallsign {
		prefix = "@@"
	}
	return m.DeclareProc(m.globalNames.name(prefix, cName), ret, variadic, linkage)
}

// DeclareProc appends a procedure whose identifier was already assigned
// elsewhere — ModuleGen derives module-scope names from the symbol
// directory (src/symtab) rather than minting them again here, so the two
// disambiguation counters never have to be kept in lockstep. CreateProc,
// CreateString and CreateRecord mint the identifiers this package names
// itself (callsigns, strings, anonymous records).
func (m *Module) DeclareProc(name string, ret *Type, variadic bool, linkage Linkage) *Proc {
	p := &Proc{
		Name:     name,
		Return:   ret,
		Variadic: variadic,
		Linkage:  linkage,
		temps:    newNamer(),
		labels:   newNamer(),
	}
	p.Body = &Block{proc: p}
	m.Procs = append(m.Procs, p)
	return p
}

// CreateVar declares a new module-scope variable.
func (m *Module) CreateVar(cName string, typ *Type, linkage Linkage) *Var {
	return m.DeclareVar(m.globalNames.name("@", cName), typ, linkage)
}

// DeclareVar appends a variable whose identifier was already assigned
// elsewhere, analogous to DeclareProc.
func (m *Module) DeclareVar(name string, typ *Type, linkage Linkage) *Var {
	v := &Var{
		Name:    name,
		Type:    typ,
		Linkage: linkage,
	}
	m.Vars = append(m.Vars, v)
	return v
}

// CreateString allocates an anonymous string constant as a char-array Var,
// named from the "@@" tag namespace (§6: "@@" prefixes tags, strings and
// callsign procedures).
func (m *Module) CreateString(bytes []int64) *Var {
	v := &Var{
		Name: m.tagNames.name("@@", "str"),
		Type: ArrayType(uint64(len(bytes)), IntType(8)),
		Data: bytes,
	}
	m.Vars = append(m.Vars, v)
	return v
}

// CreateRecord declares a new IR-level record layout. cName is "" for an
// anonymous record, disambiguated via the tag namer.
func (m *Module) CreateRecord(cName string, elements []*Type) *RecordDecl {
	base := cName
	if base == "" {
		base = "anon"
	}
	r := &RecordDecl{
		Name:     m.tagNames.name("@@", base),
		Elements: elements,
	}
	m.Records = append(m.Records, r)
	return r
}

// Var is an IR variable declaration, with an optional flat initializer data
// block produced by InitGen's digestion (§4.9).
type Var struct {
	Name    string
	Type    *Type
	Linkage Linkage
	Data    []int64 // nil if uninitialized
}

// RecordDecl is the IR-level layout of a record: an ordered element-type
// list carrying no C-level names, only what code generation needs to
// compute offsets.
type RecordDecl struct {
	Name     string
	Elements []*Type
}

// Param is one procedure parameter.
type Param struct {
	Name string
	Type *Type
}

// Proc is an IR procedure: linkage, parameters, return type, a labeled-block
// body, a local-variable table and an attribute list (§3, §6).
type Proc struct {
	Name     string
	Linkage  Linkage
	Params   []*Param
	Return   *Type
	Variadic bool
	Attrs    []string
	Body     *Block
	Locals   []*Var

	temps  *namer
	labels *namer
}

// CreateParam appends a parameter to the procedure.
func (p *Proc) CreateParam(cName string, typ *Type) *Param {
	param := &Param{Name: "%" + cName, Type: typ}
	p.Params = append(p.Params, param)
	return param
}

// CreateLocal declares a new local variable, minted at the point of
// declaration per §3 lifecycle rules.
func (p *Proc) CreateLocal(cName string, typ *Type) *Var {
	v := &Var{Name: p.temps.name("%", cName), Type: typ}
	p.Locals = append(p.Locals, v)
	return v
}

// NewTemp mints a fresh anonymous virtual register name for an
// intermediate expression result.
func (p *Proc) NewTemp() string {
	return p.temps.name("%", "t")
}

// NewLabelName mints a fresh structural label name in the "%" namespace,
// used by StmtGen via util.Labeler for loop/if/switch targets.
func (p *Proc) NewLabelName(base string) string {
	return p.labels.name("%", base)
}

// AddAttr appends a procedure attribute (e.g. "usr", §4.8 calling
// convention attribute).
func (p *Proc) AddAttr(attr string) {
	p.Attrs = append(p.Attrs, attr)
}
