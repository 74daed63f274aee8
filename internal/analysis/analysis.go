// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package analysis implements the three pure recursions over a command tree
// that the generator uses to suppress backtracking scaffolding it can prove
// is unnecessary: SingleRule, NullCommand and NeverFails. Each is a
// structural recursion with no side effects and no shared state, so they
// compose and can be called in any order.
package analysis

import "github.com/gp2toolchain/gp2c/internal/ast"

// SingleRule reports whether c is "as simple as a single rule call": a
// sequence of null commands followed by at most one simple command, a rule
// call or rule-set call, a procedure call whose body is itself simple, an Or
// whose branches are both simple, or one of skip/fail/break.
//
// It is used to decide whether an if-condition, a try-condition, or a loop
// body needs a restore point at all: backtracking scaffolding around
// `rule!` or `try rule` would be dead weight.
func SingleRule(c *ast.Command) bool {
	switch c.Kind {
	case ast.Sequence:
		cmds := c.Commands
		for len(cmds) > 0 && NullCommand(cmds[0]) {
			cmds = cmds[1:]
		}
		if len(cmds) == 0 {
			return true
		}
		if len(cmds) > 1 {
			return false
		}
		return SingleRule(cmds[0])

	case ast.RuleCall, ast.RuleSetCall, ast.Skip, ast.Fail, ast.Break:
		return true

	case ast.ProcedureCall:
		return SingleRule(c.Procedure.Body)

	case ast.Or:
		return SingleRule(c.Left) && SingleRule(c.Right)

	case ast.If, ast.Try, ast.Loop:
		return false

	default:
		return false
	}
}

// NullCommand reports whether c provably never alters the host graph: a
// sequence of null commands, a predicate rule call, a rule set made
// entirely of predicates, a procedure whose body is null, an if/try/loop/or
// whose constituents are all null, or skip/fail/break.
func NullCommand(c *ast.Command) bool {
	switch c.Kind {
	case ast.Sequence:
		for _, sub := range c.Commands {
			if !NullCommand(sub) {
				return false
			}
		}
		return true

	case ast.RuleCall:
		return c.Rule.Rule.IsPredicate

	case ast.RuleSetCall:
		for _, r := range c.RuleSet {
			if !r.Rule.IsPredicate {
				return false
			}
		}
		return true

	case ast.ProcedureCall:
		return NullCommand(c.Procedure.Body)

	case ast.If:
		return NullCommand(c.Then) && NullCommand(c.Else)

	case ast.Try:
		return NullCommand(c.Condition) && NullCommand(c.Then) && NullCommand(c.Else)

	case ast.Loop:
		return NullCommand(c.Body)

	case ast.Or:
		return NullCommand(c.Left) && NullCommand(c.Right)

	case ast.Skip, ast.Fail, ast.Break:
		return true

	default:
		return false
	}
}

// NeverFails reports whether c provably cannot set the runtime success flag
// to false: a sequence, procedure call, if/try, or or-statement whose
// constituents all never fail, an empty-LHS rule call or rule set, a loop
// (which always terminates with success true), or skip/break. Fail never
// satisfies this.
//
// NeverFails is used to reject loops whose bodies cannot terminate: a loop
// body that can never fail runs forever.
func NeverFails(c *ast.Command) bool {
	switch c.Kind {
	case ast.Sequence:
		for _, sub := range c.Commands {
			if !NeverFails(sub) {
				return false
			}
		}
		return true

	case ast.RuleCall:
		return c.Rule.Rule.EmptyLHS

	case ast.RuleSetCall:
		for _, r := range c.RuleSet {
			if !r.Rule.EmptyLHS {
				return false
			}
		}
		return true

	case ast.ProcedureCall:
		return NeverFails(c.Procedure.Body)

	case ast.If, ast.Try:
		return NeverFails(c.Then) && NeverFails(c.Else)

	case ast.Loop:
		return true

	case ast.Or:
		return NeverFails(c.Left) && NeverFails(c.Right)

	case ast.Break, ast.Skip:
		return true

	case ast.Fail:
		return false

	default:
		return false
	}
}
