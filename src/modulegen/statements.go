package modulegen

import (
	"fmt"

	"cgen/src/ast"
)

// ProcessStmt lowers one statement within the function body currently being
// processed (§6 "process_stmt"). A real incremental driver may call this
// once per top-level statement of the function's outermost block instead of
// handing the whole body to ProcessFunctionDef at once; either path reaches
// the same stmtgen.Gen dispatch and appends to the same procedure body.
func (g *Generator) ProcessStmt(s ast.Stmt) error {
	if g.curFunc == nil {
		return fmt.Errorf("statement callback invoked outside a function body")
	}
	return g.Stmts.Gen(s, g.curScope, g.curFunc, g.curFunc.Proc.Body)
}

// ProcessBlock lowers a nested compound statement (§6 "process_block").
// stmtgen.Gen's own *ast.Block case opens and discards the nested scope
// frame, so curScope is never advanced here.
func (g *Generator) ProcessBlock(n *ast.Block) error { return g.ProcessStmt(n) }

// ProcessIf lowers an if/else-if/else chain (§6 "process_if").
func (g *Generator) ProcessIf(n *ast.If) error { return g.ProcessStmt(n) }

// ProcessWhile lowers a pre-tested loop (§6 "process_while").
func (g *Generator) ProcessWhile(n *ast.While) error { return g.ProcessStmt(n) }

// ProcessDoWhile lowers a post-tested loop (§6 "process_do_while").
func (g *Generator) ProcessDoWhile(n *ast.DoWhile) error { return g.ProcessStmt(n) }

// ProcessFor lowers a C for-loop (§6 "process_for").
func (g *Generator) ProcessFor(n *ast.For) error { return g.ProcessStmt(n) }

// ProcessSwitch lowers a switch statement (§6 "process_switch").
func (g *Generator) ProcessSwitch(n *ast.Switch) error { return g.ProcessStmt(n) }
