// Package declgen implements declaration-specifier processing, declarator
// application and typedef/record/enum definition (§4.8).
//
// Constant-expression evaluation (enum initializers, array sizes) is needed
// here but belongs to ExprGen (§4.7 "Constant expressions... evaluated by
// running ExprGen against a disposable labeled block"). Rather than import
// package exprgen — which itself needs DeclGen to resolve cast/sizeof type
// names — this package depends only on the small ConstEvaluator interface
// below; exprgen.Generator satisfies it structurally, and ModuleGen wires
// the two together (§9 "Parser callback indirection": model cross-stage
// dependencies as narrow interfaces, not direct package coupling).
package declgen

import (
	"fmt"

	"cgen/src/ast"
	"cgen/src/cgtype"
	"cgen/src/diag"
	"cgen/src/scope"
)

// ConstEvaluator evaluates a constant expression to an int64, reporting
// ok=false (and a NotConstant diagnostic, already emitted) if it isn't one.
type ConstEvaluator interface {
	EvalConstInt(e ast.Expr, sc *scope.Scope) (int64, bool)
}

// Generator holds the shared state DeclGen's operations consult: the record/
// enum registry and the diagnostic sink. It carries no scope/symtab
// reference of its own — callers pass the relevant scope.Scope explicitly,
// matching ExprGen/StmtGen's style of threading scope through call
// arguments rather than storing it (a Generator is reused across an entire
// translation unit, but scopes nest and change constantly).
type Generator struct {
	Registry *cgtype.Registry
	Sink     *diag.Sink
	Eval     ConstEvaluator
}

// NewGenerator returns a Generator backed by the given registry, sink and
// constant evaluator.
func NewGenerator(reg *cgtype.Registry, sink *diag.Sink, eval ConstEvaluator) *Generator {
	return &Generator{Registry: reg, Sink: sink, Eval: eval}
}

// qualifierOrder is the canonical qualifier ordering of §4.8, used only to
// detect out-of-order input for the warning; it is not enforced as a parse
// grammar.
var qualifierOrder = map[string]int{
	"const": 0, "restrict": 1, "volatile": 2, "_Atomic": 3,
}

// checkQualifierOrder emits CodeSpecifierOrder if spec.Quals are not listed
// in canonical const/restrict/volatile/atomic order.
func (g *Generator) checkQualifierOrder(spec *ast.DeclSpec) {
	last := -1
	for _, q := range spec.Quals {
		rank, known := qualifierOrder[q.Name]
		if !known {
			continue
		}
		if rank < last {
			g.Sink.Warning(diag.CodeSpecifierOrder, spec.Tok().Line, spec.Tok().Pos,
				"qualifier %q out of canonical order", q.Name)
			return
		}
		last = rank
	}
}

// ResolveBasicSpec resolves a TypeSpecBasic DeclSpec's short/long/signed/
// unsigned counts and base keyword into an ElmType, applying the "empty
// specifier defaults to int" rule and rejecting incompatible combinations
// (§4.8).
func (g *Generator) ResolveBasicSpec(spec *ast.DeclSpec) (cgtype.ElmType, error) {
	if spec.Short > 0 && spec.Long > 0 {
		return 0, fmt.Errorf("both 'short' and 'long' specified")
	}
	if spec.Signed > 0 && spec.Unsigned > 0 {
		return 0, fmt.Errorf("both 'signed' and 'unsigned' specified")
	}

	base := spec.BaseKeyword
	if base == "" {
		base = "int" // empty type specifier defaults to int (§4.8)
	}

	switch base {
	case "void":
		if spec.Short > 0 || spec.Long > 0 || spec.Signed > 0 || spec.Unsigned > 0 {
			return 0, fmt.Errorf("'void' cannot be combined with a sign or length modifier")
		}
		return cgtype.Void, nil
	case "_Bool":
		if spec.Short > 0 || spec.Long > 0 || spec.Signed > 0 || spec.Unsigned > 0 {
			return 0, fmt.Errorf("'_Bool' cannot be combined with a sign or length modifier")
		}
		return cgtype.Logic, nil
	case "va_list":
		if spec.Short > 0 || spec.Long > 0 || spec.Signed > 0 || spec.Unsigned > 0 {
			return 0, fmt.Errorf("'va_list' cannot be combined with a sign or length modifier")
		}
		return cgtype.VaList, nil
	case "char":
		if spec.Short > 0 || spec.Long > 0 {
			return 0, fmt.Errorf("'char' cannot be combined with 'short' or 'long'")
		}
		if spec.Unsigned > 0 {
			return cgtype.UChar, nil
		}
		return cgtype.Char, nil
	case "int":
		switch {
		case spec.Short > 0:
			if spec.Unsigned > 0 {
				return cgtype.UShort, nil
			}
			return cgtype.Short, nil
		case spec.Long >= 2:
			if spec.Unsigned > 0 {
				return cgtype.ULongLong, nil
			}
			return cgtype.LongLong, nil
		case spec.Long == 1:
			if spec.Unsigned > 0 {
				return cgtype.ULong, nil
			}
			return cgtype.Long, nil
		default:
			if spec.Unsigned > 0 {
				return cgtype.UInt, nil
			}
			return cgtype.Int, nil
		}
	}
	return 0, fmt.Errorf("unrecognized base type keyword %q", base)
}

// ResolveDeclSpec resolves a full DeclSpec — basic type, tag reference/
// definition, or typedef name — into a base CGType, in the given scope.
func (g *Generator) ResolveDeclSpec(spec *ast.DeclSpec, sc *scope.Scope) (*cgtype.CGType, error) {
	g.checkQualifierOrder(spec)

	switch spec.TypeSpec {
	case ast.TypeSpecBasic:
		elm, err := g.ResolveBasicSpec(spec)
		if err != nil {
			return nil, g.Sink.Error(diag.CodeTypeMismatch, spec.Tok().Line, spec.Tok().Pos, "%s", err)
		}
		return cgtype.Basic(elm), nil

	case ast.TypeSpecStruct, ast.TypeSpecUnion:
		return g.resolveRecordSpec(spec, sc)

	case ast.TypeSpecEnum:
		return g.resolveEnumSpec(spec, sc)

	case ast.TypeSpecTypedefName:
		m, ok := sc.Lookup(spec.TypedefName)
		if !ok || m.Kind != scope.TDef {
			return nil, g.Sink.Error(diag.CodeUndeclaredIdentifier, spec.Tok().Line, spec.Tok().Pos,
				"%q is not a typedef name", spec.TypedefName)
		}
		return m.Type.Clone(), nil
	}
	return nil, fmt.Errorf("unrecognized declaration specifier kind")
}

func (g *Generator) recordKind(spec *ast.DeclSpec) cgtype.RecordKind {
	if spec.TypeSpec == ast.TypeSpecUnion {
		return cgtype.Union
	}
	return cgtype.Struct
}

// resolveRecordSpec resolves a struct/union specifier: a bare tag reference
// looks the tag up (possibly forward-declaring it); a '{ ... }' body
// defines it.
func (g *Generator) resolveRecordSpec(spec *ast.DeclSpec, sc *scope.Scope) (*cgtype.CGType, error) {
	kind := g.recordKind(spec)

	if !spec.TagDefined {
		if spec.TagName == "" {
			return nil, g.Sink.Error(diag.CodeIncompleteType, spec.Tok().Line, spec.Tok().Pos,
				"anonymous struct/union must have a body")
		}
		if tg, ok := sc.LookupTag(spec.TagName); ok && tg.Kind == scope.RecordTag {
			return cgtype.RecordType(tg.Record), nil
		}
		rec := g.Registry.CreateRecord(kind, spec.TagName, "@@"+kindWord(kind)+"."+spec.TagName)
		if err := sc.InsertTag(&scope.Tag{Kind: scope.RecordTag, Name: spec.TagName, Record: rec}); err != nil {
			return nil, g.Sink.Error(diag.CodeRedefinition, spec.Tok().Line, spec.Tok().Pos, "%s", err)
		}
		return cgtype.RecordType(rec), nil
	}

	if !sc.IsFileScope {
		g.Sink.Warning(diag.CodeDefinitionInnerScope, spec.Tok().Line, spec.Tok().Pos,
			"struct/union defined in inner scope has limited visibility")
	}

	irName := "@@" + kindWord(kind) + "." + spec.TagName
	rec := g.Registry.CreateRecord(kind, spec.TagName, irName)
	for _, f := range spec.Fields {
		fieldBase, err := g.ResolveDeclSpec(f.Spec, sc)
		if err != nil {
			return nil, err
		}
		fieldType, name, err := g.ApplyDeclarator(fieldBase, f.Declarator, sc)
		if err != nil {
			return nil, err
		}
		if fieldType.IsIncomplete() {
			return nil, g.Sink.Error(diag.CodeIncompleteType, f.Tok().Line, f.Tok().Pos,
				"member %q has incomplete type", name)
		}
		if err := rec.AppendElem(name, fieldType); err != nil {
			return nil, g.Sink.Error(diag.CodeRedefinition, f.Tok().Line, f.Tok().Pos, "%s", err)
		}
	}
	rec.Defined = true

	if spec.TagName != "" {
		if err := sc.InsertTag(&scope.Tag{Kind: scope.RecordTag, Name: spec.TagName, Record: rec}); err != nil {
			g.Sink.Warning(diag.CodeNestedTagDefinition, spec.Tok().Line, spec.Tok().Pos,
				"%s", err)
		}
	}
	return cgtype.RecordType(rec), nil
}

func kindWord(k cgtype.RecordKind) string {
	if k == cgtype.Union {
		return "union"
	}
	return "struct"
}

// resolveEnumSpec resolves an enum specifier analogously to
// resolveRecordSpec.
func (g *Generator) resolveEnumSpec(spec *ast.DeclSpec, sc *scope.Scope) (*cgtype.CGType, error) {
	if !spec.TagDefined {
		if tg, ok := sc.LookupTag(spec.TagName); ok && tg.Kind == scope.EnumTag {
			return cgtype.EnumType(tg.Enum), nil
		}
		en := g.Registry.CreateEnum(spec.TagName)
		if spec.TagName != "" {
			_ = sc.InsertTag(&scope.Tag{Kind: scope.EnumTag, Name: spec.TagName, Enum: en})
		}
		return cgtype.EnumType(en), nil
	}

	if !sc.IsFileScope {
		g.Sink.Warning(diag.CodeDefinitionInnerScope, spec.Tok().Line, spec.Tok().Pos,
			"enum defined in inner scope has limited visibility")
	}

	en := g.Registry.CreateEnum(spec.TagName)
	next := int64(0)
	if len(spec.Enumerators) == 0 {
		return nil, g.Sink.Error(diag.CodeIncompleteType, spec.Tok().Line, spec.Tok().Pos,
			"enum must have at least one enumerator")
	}
	for _, e := range spec.Enumerators {
		value := next
		if e.Value != nil {
			v, ok := g.Eval.EvalConstInt(e.Value, sc)
			if !ok {
				return nil, g.Sink.Error(diag.CodeNotConstant, e.Tok().Line, e.Tok().Pos,
					"enumerator %q is not a constant expression", e.Name)
			}
			value = v
		}
		if err := en.AppendElem(e.Name, value); err != nil {
			return nil, g.Sink.Error(diag.CodeRedefinition, e.Tok().Line, e.Tok().Pos, "%s", err)
		}
		if err := sc.Insert(&scope.Member{Kind: scope.EElem, Name: e.Name, Type: cgtype.EnumType(en), EnumValue: value, Enum: en}); err != nil {
			return nil, g.Sink.Error(diag.CodeRedefinition, e.Tok().Line, e.Tok().Pos, "%s", err)
		}
		next = value + 1
	}
	en.Defined = true

	if spec.TagName != "" {
		if err := sc.InsertTag(&scope.Tag{Kind: scope.EnumTag, Name: spec.TagName, Enum: en}); err != nil {
			g.Sink.Warning(diag.CodeNestedTagDefinition, spec.Tok().Line, spec.Tok().Pos, "%s", err)
		}
	}
	return cgtype.EnumType(en), nil
}

// ResolveTypeName resolves a cast/sizeof/__va_arg type-name to a CGType,
// satisfying exprgen's TypeResolver interface.
func (g *Generator) ResolveTypeName(tn *ast.TypeName, sc *scope.Scope) (*cgtype.CGType, error) {
	base, err := g.ResolveDeclSpec(tn.Spec, sc)
	if err != nil {
		return nil, err
	}
	t, _, err := g.ApplyDeclarator(base, tn.Declarator, sc)
	return t, err
}
