// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codegen

// ruleCall emits the match/apply/success/failure expansion for one rule
// reference. name, emptyLHS and predicate describe the rule; lastRule is
// true when this is the final entry of an enclosing rule-set call (or when
// the call is not inside a rule-set at all), which controls whether failure
// code is generated here or left to a later entry in the set.
func (g *Generator) ruleCall(name string, emptyLHS, predicate, lastRule bool, data Data) {
	if emptyLHS {
		// A rule with no left-hand side always matches: there is nothing
		// to test, so a predicate rule of this shape has no observable
		// effect at all and generates no code, not even a fresh success
		// assignment. This is the GP2 source's behaviour, preserved here
		// rather than "fixed": whatever success held on entry carries
		// through unchanged.
		if predicate {
			return
		}
		if data.RestorePoint >= 0 && g.strategy.RecordOnApply() {
			g.w.Linef(data.Indent, "apply%s(true);", name)
		} else {
			g.w.Linef(data.Indent, "apply%s(false);", name)
		}
		g.w.Line(data.Indent, "success = true;")
		g.w.Blank()
		return
	}

	g.w.Linef(data.Indent, "if(match%s(M_%s))", name, name)
	g.w.Line(data.Indent, "{")
	if !predicate {
		// A rule call used purely to witness a match in an if-condition
		// must not mutate the host graph unless an enclosing recording
		// scope can undo the mutation: otherwise the mutation survives
		// even when the if chooses its else branch.
		if data.Context != IfBody || data.RestorePoint >= 0 {
			if data.RecordChanges && g.strategy.RecordOnApply() {
				g.w.Linef(data.Indent+1, "apply%s(M_%s, true);", name, name)
			} else {
				g.w.Linef(data.Indent+1, "apply%s(M_%s, false);", name, name)
			}
		} else {
			g.w.Linef(data.Indent+1, "initialiseMorphism(M_%s, host);", name)
		}
	}
	g.w.Line(data.Indent+1, "success = true;")
	if !lastRule {
		g.w.Line(data.Indent+1, "break;")
	}
	g.w.Line(data.Indent, "}")

	if lastRule {
		g.w.Line(data.Indent, "else")
		g.w.Line(data.Indent, "{")
		failData := data
		failData.Indent = data.Indent + 1
		g.failure(name, failData)
		g.w.Line(data.Indent, "}")
	}
}
