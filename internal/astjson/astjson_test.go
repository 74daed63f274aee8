// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package astjson

import (
	"strings"
	"testing"

	"github.com/gp2toolchain/gp2c/internal/ast"
)

func TestDecodeForwardReference(t *testing.T) {
	// "later" is declared after "main" references it: the two-pass
	// decode must still resolve it.
	data := []byte(`[
		{"kind": "main", "main": {"kind": "ruleCall", "rule": "later"}},
		{"kind": "rule", "name": "later", "leftNodes": 2, "emptyLHS": false, "isPredicate": false}
	]`)
	decls, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(decls) != 2 {
		t.Fatalf("len(decls) = %d, want 2", len(decls))
	}
	main := decls[0]
	if main.Kind != ast.MainDeclaration {
		t.Fatalf("decls[0].Kind = %v, want MainDeclaration", main.Kind)
	}
	if main.Main.Kind != ast.RuleCall || main.Main.Rule.Rule.Name != "later" {
		t.Fatalf("main command did not resolve to the later-declared rule: %+v", main.Main)
	}
	if main.Main.Rule.Rule.LeftNodes != 2 {
		t.Errorf("resolved rule LeftNodes = %d, want 2", main.Main.Rule.Rule.LeftNodes)
	}
}

func TestDecodeProcedureLocals(t *testing.T) {
	data := []byte(`[
		{"kind": "main", "main": {"kind": "procedureCall", "procedure": "Go"}},
		{"kind": "procedure", "name": "Go", "body": {"kind": "ruleCall", "rule": "step"},
		 "locals": [{"kind": "rule", "name": "step", "emptyLHS": false, "isPredicate": false}]}
	]`)
	decls, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	proc := decls[1]
	if proc.Kind != ast.ProcedureDeclaration {
		t.Fatalf("decls[1].Kind = %v, want ProcedureDeclaration", proc.Kind)
	}
	if len(proc.Locals) != 1 || proc.Locals[0].Rule.Name != "step" {
		t.Fatalf("procedure locals not built: %+v", proc.Locals)
	}
	if proc.Procedure.Body.Rule.Rule != proc.Locals[0].Rule {
		t.Errorf("main's procedure body should reference the same *ast.Rule as the local declaration")
	}
}

func TestDecodeDuplicateRuleRejected(t *testing.T) {
	data := []byte(`[
		{"kind": "rule", "name": "r"},
		{"kind": "rule", "name": "r"},
		{"kind": "main", "main": {"kind": "skip"}}
	]`)
	if _, err := Decode(data); err == nil {
		t.Fatal("expected an error for a duplicate rule declaration")
	}
}

func TestDecodeUndeclaredRuleRejected(t *testing.T) {
	data := []byte(`[{"kind": "main", "main": {"kind": "ruleCall", "rule": "ghost"}}]`)
	if _, err := Decode(data); err == nil {
		t.Fatal("expected an error for an undeclared rule reference")
	}
}

func TestDecodeUndeclaredProcedureRejected(t *testing.T) {
	data := []byte(`[{"kind": "main", "main": {"kind": "procedureCall", "procedure": "Ghost"}}]`)
	if _, err := Decode(data); err == nil {
		t.Fatal("expected an error for an undeclared procedure reference")
	}
}

func TestDecodeUnknownCommandKindRejected(t *testing.T) {
	data := []byte(`[{"kind": "main", "main": {"kind": "frobnicate"}}]`)
	if _, err := Decode(data); err == nil {
		t.Fatal("expected an error for an unknown command kind")
	}
}

func TestDecodeUnknownDeclarationKindRejected(t *testing.T) {
	data := []byte(`[{"kind": "typedef"}]`)
	if _, err := Decode(data); err == nil {
		t.Fatal("expected an error for an unknown declaration kind")
	}
}

func TestDecodeRuleSetCallAndBreak(t *testing.T) {
	data := []byte(`[
		{"kind": "rule", "name": "a", "isPredicate": true},
		{"kind": "rule", "name": "b"},
		{"kind": "main", "main": {"kind": "loop", "loopBody": {"kind": "sequence", "commands": [
			{"kind": "ruleSetCall", "ruleSet": ["a", "b"]},
			{"kind": "break", "innerLoop": true}
		]}}}
	]`)
	decls, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	body := decls[2].Main.Body.Commands
	if body[0].Kind != ast.RuleSetCall || len(body[0].RuleSet) != 2 {
		t.Fatalf("rule set call not decoded: %+v", body[0])
	}
	if body[1].Kind != ast.Break || !body[1].InnerLoop {
		t.Fatalf("break's innerLoop flag not decoded: %+v", body[1])
	}
}

func TestDecodeRuleSetCallEmptyRejected(t *testing.T) {
	data := []byte(`[
		{"kind": "rule", "name": "a"},
		{"kind": "main", "main": {"kind": "ruleSetCall", "ruleSet": []}}
	]`)
	if _, err := Decode(data); err == nil {
		t.Fatal("expected an error for a rule set call with no rules")
	}
}

func TestDecodeMalformedJSON(t *testing.T) {
	if _, err := Decode([]byte("not json")); err == nil {
		t.Fatal("expected an error for malformed JSON")
	}
}

func TestDecodeIfTryOrAndFail(t *testing.T) {
	data := []byte(`[
		{"kind": "rule", "name": "r"},
		{"kind": "main", "main": {"kind": "if",
			"condition": {"kind": "ruleCall", "rule": "r"},
			"then": {"kind": "or", "left": {"kind": "skip"}, "right": {"kind": "fail"}},
			"else": {"kind": "try",
				"condition": {"kind": "ruleCall", "rule": "r"},
				"then": {"kind": "skip"},
				"else": {"kind": "fail"}
			}
		}}
	]`)
	decls, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	main := decls[1].Main
	if main.Kind != ast.If {
		t.Fatalf("main.Kind = %v, want If", main.Kind)
	}
	if main.Then.Kind != ast.Or || main.Then.Left.Kind != ast.Skip || main.Then.Right.Kind != ast.Fail {
		t.Fatalf("or branch not decoded: %+v", main.Then)
	}
	if main.Else.Kind != ast.Try {
		t.Fatalf("else branch not decoded as Try: %+v", main.Else)
	}
}

func TestDecodeRejectsWhitespaceOnlyInput(t *testing.T) {
	_, err := Decode([]byte("   \n"))
	if err == nil {
		t.Fatal("expected an error decoding whitespace-only input")
	}
	if !strings.Contains(err.Error(), "astjson") {
		t.Errorf("error should be namespaced with astjson:, got %q", err)
	}
}
