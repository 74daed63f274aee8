// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codegen

import (
	"fmt"

	"github.com/gp2toolchain/gp2c/internal/analysis"
	"github.com/gp2toolchain/gp2c/internal/ast"
)

// loop emits the `body!` combinator: repeat body until it fails.
func (g *Generator) loop(c *ast.Command, data Data) error {
	if analysis.NeverFails(c.Body) {
		return fmt.Errorf("codegen: loop body can never fail, so the loop can never terminate")
	}
	if analysis.NullCommand(c.Body) {
		g.warnf("loop body neither fails nor changes the host graph: it may not terminate")
	}

	body := data
	body.Context = LoopBody
	body.LoopDepth++
	body.Indent = data.Indent + 1

	if analysis.SingleRule(c.Body) {
		body.RestorePoint = -1
	} else {
		body.RecordChanges = true
		body.RestorePoint = g.allocateRestorePoint()
	}

	g.w.Line(data.Indent, "/* Loop Statement */")
	if body.RestorePoint >= 0 {
		g.strategy.Capture(g.w, data.Indent, body.RestorePoint)
	}
	g.w.Line(data.Indent, "while(success)")
	g.w.Line(data.Indent, "{")
	if err := g.Command(c.Body, body); err != nil {
		return err
	}
	if body.RestorePoint >= 0 {
		if body.LoopDepth > 1 {
			// A nested loop's frame must track the baseline left by each
			// successful iteration: a later failing iteration should only
			// unwind its own changes, not everything the outer loop has
			// already committed to.
			g.w.Line(body.Indent, "/* Update restore point for next iteration of inner loop. */")
			g.strategy.Refresh(g.w, body.Indent, body.RestorePoint)
		} else {
			g.w.Line(body.Indent, "/* Graph changes from loop body may not have been used.")
			g.w.Line(body.Indent, "   Discard them so that future graph roll backs are uncorrupted. */")
			g.strategy.DiscardIfSuccess(g.w, body.Indent, body.RestorePoint)
		}
	}
	g.w.Line(data.Indent, "}")
	g.w.Line(data.Indent, "success = true;")
	return nil
}
