package ast

// DeclSpec is the set of declaration specifiers collected before any
// declarator is seen: storage class, qualifiers, and a type specifier that
// is either a basic-type combination (counts of short/long/signed/unsigned
// plus a base keyword) or a reference/definition of a struct, union or enum
// tag (§4.8).
type DeclSpec struct {
	base

	StorageClass string // "", "static", "extern", "typedef"

	// Qualifiers, recorded in source order for the order-of-specifiers warning.
	Quals []Qualifier

	// TypeSpec selects which of the following fields is meaningful.
	TypeSpec TypeSpecKind

	// Basic-type modifier counts, valid when TypeSpec == TypeSpecBasic.
	Short, Long, Signed, Unsigned int
	BaseKeyword                   string // "", "char", "int", "_Bool", "void", "va_list"

	// Tag reference/definition, valid when TypeSpec is TypeSpecStruct/Union/Enum.
	TagName    string // "" for anonymous
	TagDefined bool   // true if this specifier carries a '{ ... }' body
	Fields     []*FieldDecl
	Enumerators []*Enumerator

	// TypedefName is set when TypeSpec == TypeSpecTypedefName; it names a
	// previously declared typedef identifier looked up via Scope.
	TypedefName string

	Attrs []Attr
}

// TypeSpecKind discriminates which shape of type specifier DeclSpec carries.
type TypeSpecKind int

const (
	TypeSpecBasic TypeSpecKind = iota
	TypeSpecStruct
	TypeSpecUnion
	TypeSpecEnum
	TypeSpecTypedefName
)

// Qualifier is a source-order qualifier/storage/function-specifier token
// used for the order-of-specifiers warning (§4.8).
type Qualifier struct {
	Tok  interface{} // left generic: populated by the parser with its own token type if desired.
	Name string      // "const", "restrict", "volatile", "_Atomic", "static" (as qualifier position), "inline"
}

// Attr is a `usr` calling-convention attribute or any other attribute the
// parser recognized syntactically (§4.8: "only usr is recognized").
type Attr struct {
	Name string
	Args []string
}

// FieldDecl is one member of a struct/union body.
type FieldDecl struct {
	base
	Spec       *DeclSpec
	Declarator *Declarator
}

// Enumerator is one `name` or `name = value` entry of an enum body.
type Enumerator struct {
	base
	Name  string
	Value Expr // nil if the value is implicit (previous + 1, or 0 for the first)
}

// DeclaratorKind discriminates the recursive Declarator shape.
type DeclaratorKind int

const (
	DeclIdent DeclaratorKind = iota
	DeclPointer
	DeclArray
	DeclFunc
	DeclAbstract // no identifier at the leaf: used in cast/sizeof/param type-names
)

// Declarator is the recursive declarator tree: pointer/array/function
// wrappers around an identifier (or, for abstract declarators used in
// casts and sizeof, around nothing). §4.8 "Declarator application" walks
// this tree outside-in from the Node the parser built, producing a CGType.
type Declarator struct {
	base
	Kind DeclaratorKind

	Inner *Declarator // wrapped declarator; nil at the leaf

	Name string // valid when Kind == DeclIdent

	PointerQuals []Qualifier // valid when Kind == DeclPointer

	ArraySize Expr // valid when Kind == DeclArray; nil if size omitted ("[]")

	Params   []*ParamDecl // valid when Kind == DeclFunc
	Variadic bool         // valid when Kind == DeclFunc

	Attrs []Attr
}

// ParamDecl is one parameter of a function declarator.
type ParamDecl struct {
	base
	Spec       *DeclSpec
	Declarator *Declarator // nil for an unnamed parameter
}

// InitDeclarator pairs a declarator with its optional initializer, e.g. the
// "x = 1" in "int x = 1, y;".
type InitDeclarator struct {
	base
	Declarator *Declarator
	Init       *Initializer // nil if there is no initializer
}

// GlobalDecl is a top-level declaration: a DeclSpec applied to zero or more
// InitDeclarators (zero for a tag-only declaration like "struct foo;").
type GlobalDecl struct {
	base
	Spec        *DeclSpec
	Declarators []*InitDeclarator
}

func (*GlobalDecl) stmtNode() {} // a GlobalDecl may also appear as a block-local declaration statement.

// FunctionDef is a function definition: specifiers, a function declarator,
// and a compound-statement body.
type FunctionDef struct {
	base
	Spec       *DeclSpec
	Declarator *Declarator
	Body       *Block
}
