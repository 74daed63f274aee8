// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package analysis

import (
	"testing"

	"github.com/gp2toolchain/gp2c/internal/ast"
)

func rule(emptyLHS, predicate bool) *ast.RuleRef {
	return &ast.RuleRef{Name: "r", Rule: &ast.Rule{Name: "r", EmptyLHS: emptyLHS, IsPredicate: predicate}}
}

func ruleCall(emptyLHS, predicate bool) *ast.Command {
	return &ast.Command{Kind: ast.RuleCall, Rule: rule(emptyLHS, predicate)}
}

func seq(cmds ...*ast.Command) *ast.Command {
	return &ast.Command{Kind: ast.Sequence, Commands: cmds}
}

func TestSingleRule(t *testing.T) {
	skip := &ast.Command{Kind: ast.Skip}
	fail := &ast.Command{Kind: ast.Fail}
	cases := []struct {
		name string
		cmd  *ast.Command
		want bool
	}{
		{"bare rule call", ruleCall(false, false), true},
		{"rule set call", &ast.Command{Kind: ast.RuleSetCall, RuleSet: []*ast.RuleRef{rule(false, false)}}, true},
		{"skip then rule", seq(skip, ruleCall(false, false)), true},
		{"fail then rule", seq(fail, ruleCall(false, false)), true},
		{"two rules in sequence", seq(ruleCall(false, false), ruleCall(false, false)), false},
		{"empty sequence of predicates", seq(ruleCall(false, true), ruleCall(false, true)), true},
		{"if is never simple", &ast.Command{Kind: ast.If, Condition: skip, Then: skip, Else: skip}, false},
		{"loop is never simple", &ast.Command{Kind: ast.Loop, Body: skip}, false},
		{"or of two simple branches", &ast.Command{Kind: ast.Or, Left: ruleCall(false, false), Right: skip}, true},
		{"or with an if branch", &ast.Command{Kind: ast.Or, Left: ruleCall(false, false), Right: &ast.Command{Kind: ast.If, Condition: skip, Then: skip, Else: skip}}, false},
		{"procedure delegates to body", &ast.Command{Kind: ast.ProcedureCall, Procedure: &ast.Procedure{Body: ruleCall(false, false)}}, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := SingleRule(c.cmd); got != c.want {
				t.Errorf("SingleRule(%s) = %v, want %v", c.name, got, c.want)
			}
		})
	}
}

func TestNullCommand(t *testing.T) {
	predicateCall := ruleCall(false, true)
	mutatingCall := ruleCall(false, false)
	cases := []struct {
		name string
		cmd  *ast.Command
		want bool
	}{
		{"predicate rule", predicateCall, true},
		{"mutating rule", mutatingCall, false},
		{"rule set all predicates", &ast.Command{Kind: ast.RuleSetCall, RuleSet: []*ast.RuleRef{rule(false, true), rule(false, true)}}, true},
		{"rule set one mutator", &ast.Command{Kind: ast.RuleSetCall, RuleSet: []*ast.RuleRef{rule(false, true), rule(false, false)}}, false},
		{"if with null branches", &ast.Command{Kind: ast.If, Condition: mutatingCall, Then: predicateCall, Else: predicateCall}, true},
		{"try requires null condition too", &ast.Command{Kind: ast.Try, Condition: mutatingCall, Then: predicateCall, Else: predicateCall}, false},
		{"loop delegates to body", &ast.Command{Kind: ast.Loop, Body: predicateCall}, true},
		{"skip, fail, break", seq(&ast.Command{Kind: ast.Skip}, &ast.Command{Kind: ast.Fail}, &ast.Command{Kind: ast.Break}), true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := NullCommand(c.cmd); got != c.want {
				t.Errorf("NullCommand(%s) = %v, want %v", c.name, got, c.want)
			}
		})
	}
}

func TestNeverFails(t *testing.T) {
	emptyLHSCall := ruleCall(true, false)
	normalCall := ruleCall(false, false)
	cases := []struct {
		name string
		cmd  *ast.Command
		want bool
	}{
		{"empty LHS rule", emptyLHSCall, true},
		{"non-empty LHS rule", normalCall, false},
		{"fail never succeeds", &ast.Command{Kind: ast.Fail}, false},
		{"loop always terminates successfully", &ast.Command{Kind: ast.Loop, Body: normalCall}, true},
		{"if needs both branches safe", &ast.Command{Kind: ast.If, Condition: normalCall, Then: emptyLHSCall, Else: &ast.Command{Kind: ast.Fail}}, false},
		{"if with both branches safe", &ast.Command{Kind: ast.If, Condition: normalCall, Then: emptyLHSCall, Else: &ast.Command{Kind: ast.Skip}}, true},
		{"rule set needs every rule empty LHS", &ast.Command{Kind: ast.RuleSetCall, RuleSet: []*ast.RuleRef{rule(true, false), rule(false, false)}}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := NeverFails(c.cmd); got != c.want {
				t.Errorf("NeverFails(%s) = %v, want %v", c.name, got, c.want)
			}
		})
	}
}
