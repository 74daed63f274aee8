// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codegen

import (
	"github.com/gp2toolchain/gp2c/internal/analysis"
	"github.com/gp2toolchain/gp2c/internal/ast"
)

// branch emits an if or try statement. then and else are generated under
// the caller's own context (not IfBody/TryBody): that distinction applies
// only to the condition.
func (g *Generator) branch(c *ast.Command, data Data) error {
	condition := data
	if c.Kind == ast.If {
		condition.Context = IfBody
	} else {
		condition.Context = TryBody
	}
	condition.Indent = data.Indent + 1

	// A restore point is allocated unless the condition is provably simple
	// enough that undoing its effects would be pure overhead: a single
	// rule call in an if-condition only needs to be matched, and a
	// try-condition that cannot change the graph (or is a single rule
	// call paired with null then/else branches) needs nothing to restore
	// either.
	if condition.Context == IfBody {
		if analysis.SingleRule(c.Condition) {
			condition.RestorePoint = -1
		} else {
			condition.RecordChanges = true
			condition.RestorePoint = g.allocateRestorePoint()
		}
	} else {
		nullCondition := analysis.NullCommand(c.Condition)
		simpleTry := analysis.SingleRule(c.Condition) &&
			analysis.NullCommand(c.Then) && analysis.NullCommand(c.Else)
		if nullCondition || simpleTry {
			condition.RestorePoint = -1
		} else {
			condition.RecordChanges = true
			condition.RestorePoint = g.allocateRestorePoint()
		}
	}

	if condition.Context == IfBody {
		g.w.Line(data.Indent, "/* If Statement */")
	} else {
		g.w.Line(data.Indent, "/* Try Statement */")
	}
	g.w.Line(data.Indent, "/* Condition */")
	if condition.RestorePoint >= 0 {
		g.strategy.Capture(g.w, data.Indent, condition.RestorePoint)
	}
	g.w.Line(data.Indent, "do")
	g.w.Line(data.Indent, "{")
	if err := g.Command(c.Condition, condition); err != nil {
		return err
	}
	g.w.Line(data.Indent, "} while(false);")
	g.w.Blank()

	if condition.Context == IfBody && condition.RestorePoint >= 0 {
		// The condition is used purely as a test: its graph effects must
		// not leak into either branch, so it is always rolled back here
		// regardless of whether the match succeeded.
		g.strategy.Undo(g.w, data.Indent, condition.RestorePoint)
	}

	body := data
	body.Indent = data.Indent + 1

	g.w.Line(data.Indent, "/* Then Branch */")
	g.w.Line(data.Indent, "if(success)")
	g.w.Line(data.Indent, "{")
	if condition.Context == TryBody && condition.RestorePoint >= 0 {
		g.strategy.Discard(g.w, body.Indent, condition.RestorePoint)
	}
	if err := g.Command(c.Then, body); err != nil {
		return err
	}
	g.w.Line(data.Indent, "}")

	g.w.Line(data.Indent, "/* Else Branch */")
	g.w.Line(data.Indent, "else")
	g.w.Line(data.Indent, "{")
	if condition.Context == TryBody && condition.RestorePoint >= 0 {
		g.strategy.Undo(g.w, body.Indent, condition.RestorePoint)
	}
	g.w.Line(body.Indent, "success = true;")
	if err := g.Command(c.Else, body); err != nil {
		return err
	}
	g.w.Line(data.Indent, "}")

	if data.Context == IfBody || data.Context == TryBody {
		g.w.Line(data.Indent, "break;")
	}
	return nil
}
