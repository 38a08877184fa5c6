package ast

// Ident is a reference to a previously declared identifier.
type Ident struct {
	base
	Name string
}

func (*Ident) exprNode() {}

// IntLit is an integer literal. Text is the raw lexeme, e.g. "0x1F", "042",
// "10ULL"; ParseIntLiteral (see literal.go) extracts the numeric value and
// suffix flags from it, matching §6's accepted literal syntax.
type IntLit struct {
	base
	Text string
}

func (*IntLit) exprNode() {}

// CharLit is a character literal, e.g. 'a', '\n', L'x'.
type CharLit struct {
	base
	Text string // Raw lexeme, including the enclosing quotes and optional L prefix.
	Wide bool   // True for L'x' (wide/int-sized character constants).
}

func (*CharLit) exprNode() {}

// StringLit is a string literal, already lexed but not yet escape-decoded.
type StringLit struct {
	base
	Text string // Raw lexeme, including the enclosing quotes and optional L prefix.
	Wide bool
}

func (*StringLit) exprNode() {}

// Unary is a prefix unary operator: -x, !x, ~x, &x, *x.
type Unary struct {
	base
	Op      string
	Operand Expr
}

func (*Unary) exprNode() {}

// IncDec is ++x, --x, x++ or x--.
type IncDec struct {
	base
	Op      string // "++" or "--"
	Prefix  bool
	Operand Expr
}

func (*IncDec) exprNode() {}

// Binary is a binary arithmetic, bitwise or relational operator:
// + - * / % | & ^ << >> == != < <= > >=.
type Binary struct {
	base
	Op   string
	L, R Expr
}

func (*Binary) exprNode() {}

// Logical is a short-circuiting && or || expression.
type Logical struct {
	base
	Op   string // "&&" or "||"
	L, R Expr
}

func (*Logical) exprNode() {}

// Assign is a (possibly compound) assignment: = += -= *= /= %= |= &= ^= <<= >>=.
type Assign struct {
	base
	Op       string
	LHS, RHS Expr
}

func (*Assign) exprNode() {}

// Cond is the ternary conditional c ? t : f.
type Cond struct {
	base
	C, T, F Expr
}

func (*Cond) exprNode() {}

// Call is a function call f(args...).
type Call struct {
	base
	Callee Expr
	Args   []Expr
}

func (*Call) exprNode() {}

// Index is array/pointer subscripting a[i].
type Index struct {
	base
	Array, Idx Expr
}

func (*Index) exprNode() {}

// Member is struct/union member access: a.b or a->b.
type Member struct {
	base
	X     Expr
	Name  string
	Arrow bool
}

func (*Member) exprNode() {}

// Cast is an explicit cast (T)e.
type Cast struct {
	base
	Type    *TypeName
	Operand Expr
}

func (*Cast) exprNode() {}

// Sizeof is sizeof(expr) or sizeof(type-name).
type Sizeof struct {
	base
	TypeArg  *TypeName // non-nil for sizeof(type-name)
	ValueArg Expr      // non-nil for sizeof expr
}

func (*Sizeof) exprNode() {}

// Paren is a parenthesized expression (e). It is preserved as its own node
// because parenthesizing is one of the lvalue-producing forms (§8 "Lvalue
// discipline").
type Paren struct {
	base
	Inner Expr
}

func (*Paren) exprNode() {}

// Builtin is one of the variadic-argument builtins: __va_start, __va_arg,
// __va_end, __va_copy.
type Builtin struct {
	base
	Name string
	Args []Expr
	Type *TypeName // used by __va_arg(ap, type)
}

func (*Builtin) exprNode() {}

// TypeName is a type used in a cast, sizeof or __va_arg: declaration
// specifiers applied through an abstract declarator (one with no identifier
// at its leaf).
type TypeName struct {
	base
	Spec       *DeclSpec
	Declarator *Declarator
}
