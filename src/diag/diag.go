// Package diag provides the module-wide diagnostic sink used by every code
// generation stage.
//
// Code generation runs single-threaded (§5), so the sink carries no
// channel or goroutine plumbing; its recovery policy is what matters: the
// first fatal diagnostic sets a module-wide error flag, yet generation
// keeps running so sibling declarations can still be checked and further
// diagnostics collected (§7 "Recovery policy").
package diag

import "fmt"

// Severity classifies a Diagnostic as fatal or merely informational.
type Severity int

const (
	// SeverityWarning never sets the module error flag.
	SeverityWarning Severity = iota
	// SeverityError sets the module error flag; the caller discards the module.
	SeverityError
)

// String returns a print-friendly name for the Severity.
func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Code is a stable identifier for a class of diagnostic, taken from the
// taxonomy in spec §7.
type Code string

// Fatal diagnostic codes.
const (
	CodeUndeclaredIdentifier    Code = "UNDECLARED_IDENTIFIER"
	CodeTypeMismatch            Code = "TYPE_MISMATCH"
	CodeRedefinition            Code = "REDEFINITION"
	CodeNotAPointer             Code = "NOT_A_POINTER"
	CodeNotAFunction            Code = "NOT_A_FUNCTION"
	CodeNotAnLvalue             Code = "NOT_AN_LVALUE"
	CodeAssignToArray           Code = "ASSIGN_TO_ARRAY"
	CodeFuncReturnsArray        Code = "FUNC_RETURNS_ARRAY"
	CodeExcessInitializers      Code = "EXCESS_INITIALIZERS"
	CodeDuplicateCase           Code = "DUPLICATE_CASE"
	CodeLabelUndefined          Code = "LABEL_UNDEFINED"
	CodeVoidValueUsed           Code = "VOID_VALUE_USED"
	CodeInvalidLiteral          Code = "INVALID_LITERAL"
	CodeInvalidEscape           Code = "INVALID_ESCAPE"
	CodeIncompleteType          Code = "INCOMPLETE_TYPE"
	CodeNotConstant             Code = "NOT_CONSTANT"
	CodeArgCountMismatch        Code = "ARG_COUNT_MISMATCH"
	CodeNegativeArrayIndex      Code = "NEGATIVE_ARRAY_INDEX"
	CodeVaStartOutsideVariadic  Code = "VA_START_OUTSIDE_VARIADIC"
	CodeBreakContinueOutside    Code = "BREAK_CONTINUE_OUTSIDE"
	CodeGotoOutsideProcedure    Code = "GOTO_OUTSIDE_PROCEDURE"
)

// Warning diagnostic codes.
const (
	CodeSpecifierOrder        Code = "SPECIFIER_ORDER"
	CodeSignednessChange      Code = "SIGNEDNESS_CHANGE"
	CodeTruncation            Code = "TRUNCATION"
	CodeSignedBitwise         Code = "SIGNED_BITWISE"
	CodeEnumMix               Code = "ENUM_MIX"
	CodeLogicAsInteger        Code = "LOGIC_AS_INTEGER"
	CodeUnusedValue           Code = "UNUSED_VALUE"
	CodeUnusedLocal           Code = "UNUSED_LOCAL"
	CodeShadowedIdentifier    Code = "SHADOWED_IDENTIFIER"
	CodeNonBracketedInit      Code = "NON_BRACKETED_INIT"
	CodeFieldOverwritten      Code = "FIELD_OVERWRITTEN"
	CodeCaseNotInEnum         Code = "CASE_NOT_IN_ENUM"
	CodeIncompatiblePtrCmp    Code = "INCOMPATIBLE_POINTER_COMPARE"
	CodeUselessTypeDecl       Code = "USELESS_TYPE_DECL"
	CodeGratuitousBlock       Code = "GRATUITOUS_NESTED_BLOCK"
	CodeExplicitFuncAddr      Code = "EXPLICIT_FUNC_ADDR"
	CodeDefinitionInnerScope  Code = "DEFINITION_INNER_SCOPE"
	CodeArithmeticOverflow    Code = "ARITHMETIC_OVERFLOW"
	CodeDivideByZero          Code = "DIVIDE_BY_ZERO"
	CodeShiftOutOfRange       Code = "SHIFT_OUT_OF_RANGE"
	CodeShiftNegative         Code = "SHIFT_NEGATIVE"
	CodeLabelUnused           Code = "LABEL_UNUSED"
	CodeArrayBounds           Code = "ARRAY_BOUNDS"
	CodeMixedNamedArgs        Code = "MIXED_NAMED_UNNAMED_ARGS"
	CodeNestedTagDefinition   Code = "NESTED_TAG_DEFINITION"
)

// Diagnostic is a single reported finding.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Line     int
	Pos      int
}

// String renders the Diagnostic the way it would appear on stderr.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s at line %d:%d [%s]", d.Severity, d.Message, d.Line, d.Pos, d.Code)
}

// Sink accumulates diagnostics for one translation unit in insertion order.
// It is not safe for concurrent use — code generation is single-threaded
// (§5) and Sink carries no synchronization, unlike the util.perror it
// replaces.
type Sink struct {
	diags       []Diagnostic
	hasError    bool
	warnings    int
	warnAsError bool
}

// NewSink returns an empty Sink.
func NewSink() *Sink {
	return &Sink{diags: make([]Diagnostic, 0, 16)}
}

// NewSinkWithOptions returns an empty Sink. warnAsError makes every
// subsequent Warning also set the module error flag, the `-Werror`-style
// override of §7's default "warnings never interrupt code generation"
// policy.
func NewSinkWithOptions(warnAsError bool) *Sink {
	return &Sink{diags: make([]Diagnostic, 0, 16), warnAsError: warnAsError}
}

// Error records a fatal diagnostic, sets the module error flag and returns a
// plain error describing it so the caller can propagate it immediately while
// the Sink keeps the full history for later inspection.
func (s *Sink) Error(code Code, line, pos int, format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	s.diags = append(s.diags, Diagnostic{Severity: SeverityError, Code: code, Message: msg, Line: line, Pos: pos})
	s.hasError = true
	return fmt.Errorf("%s", msg)
}

// Warning records a non-fatal diagnostic. It never returns an error:
// generation continues unconditionally (§7). It sets the error flag only
// when the Sink was created with warnAsError (NewSinkWithOptions).
func (s *Sink) Warning(code Code, line, pos int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	s.diags = append(s.diags, Diagnostic{Severity: SeverityWarning, Code: code, Message: msg, Line: line, Pos: pos})
	s.warnings++
	if s.warnAsError {
		s.hasError = true
	}
}

// HasError reports whether any fatal diagnostic (or, with warnAsError, any
// warning) has been recorded.
func (s *Sink) HasError() bool {
	return s.hasError
}

// WarningCount returns the number of warnings recorded so far. It never
// decreases over the Sink's lifetime (§8 "Warning counter monotonicity").
func (s *Sink) WarningCount() int {
	return s.warnings
}

// Diagnostics returns all recorded diagnostics in insertion order.
func (s *Sink) Diagnostics() []Diagnostic {
	return s.diags
}
