// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codegen

// failure emits context-dependent failure handling. ruleName is the name of
// the rule that failed to match, or "" if this failure originates from a
// fail statement.
func (g *Generator) failure(ruleName string, data Data) {
	if data.Context == MainBody {
		// A failure at the top level ends the whole program: report the
		// cause, release every resource and exit. The emitted program
		// reports this as "no output graph" rather than crashing, so a
		// caller inspecting gp2.output can tell deliberate non-applicability
		// apart from a real error.
		if ruleName != "" {
			g.w.Linef(data.Indent, "fprintf(output_file, \"No output graph: rule %s not applicable.\\n\");", ruleName)
		} else {
			g.w.Line(data.Indent, "fprintf(output_file, \"No output graph: Fail statement invoked\\n\");")
		}
		g.w.Line(data.Indent, "printf(\"Output information saved to file gp2.output\\n\");")
		g.w.Line(data.Indent, "garbageCollect();")
		g.w.Line(data.Indent, "fclose(output_file);")
		// Returning 0 here on a semantic failure (as opposed to a crash)
		// matches GP2's convention that "no output graph" is a normal,
		// inspectable outcome rather than a tool error; see the design
		// notes for the case this reasoning does not obviously cover.
		g.w.Line(data.Indent, "return 0;")
		return
	}

	g.w.Line(data.Indent, "success = false;")
	switch data.Context {
	case IfBody, TryBody:
		g.w.Line(data.Indent, "break;")
	case LoopBody:
		if data.RestorePoint >= 0 {
			g.strategy.Undo(g.w, data.Indent, data.RestorePoint)
		}
	}
}
