// label.go provides per-procedure generation of IR labels for structured
// control flow (%while, %do, %for, %case, ...).
//
// Labels are minted per-procedure (§3: "Labels are tracked per procedure"),
// so a Labeler is created fresh for every ir.Proc and carries no
// cross-procedure or cross-thread state.
package util

import "fmt"

// Label categories for structured statements.
const (
	LabelWhileHead = iota
	LabelWhileEnd
	LabelDoHead
	LabelDoNext
	LabelDoEnd
	LabelForHead
	LabelForNext
	LabelForEnd
	LabelIfFalse
	LabelIfEnd
	LabelCaseCond
	LabelCaseBody
	LabelSwitchDefault
	LabelSwitchEnd
	LabelCondFalse
	LabelCondEnd
	labelCount
)

// labelPrefixes stores the string literal prefixes for labels of each category.
var labelPrefixes = [labelCount]string{
	"while",
	"end_while",
	"do",
	"next_do",
	"end_do",
	"for",
	"next_for",
	"end_for",
	"if_false",
	"end_if",
	"case_cnd",
	"case_body",
	"default",
	"end_switch",
	"cond_false",
	"cond_end",
}

// Labeler mints unique, per-category IR labels for a single procedure.
type Labeler struct {
	indices [labelCount]int
}

// NewLabeler returns a Labeler whose counters all start at zero.
func NewLabeler() *Labeler {
	return &Labeler{}
}

// New returns the next label of category typ as a bare identifier (without
// the leading '%' used in the IR textual identifier grammar).
func (l *Labeler) New(typ int) string {
	if typ < 0 || typ >= labelCount {
		return "label_error"
	}
	s := fmt.Sprintf("%s%d", labelPrefixes[typ], l.indices[typ])
	l.indices[typ]++
	return s
}
