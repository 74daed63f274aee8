// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codegen

import "github.com/gp2toolchain/gp2c/internal/ast"

func mkRule(name string, emptyLHS, predicate bool) *ast.Rule {
	return &ast.Rule{Name: name, LeftNodes: 1, LeftEdges: 0, Variables: 0, EmptyLHS: emptyLHS, IsPredicate: predicate}
}

func ruleCallCmd(r *ast.Rule) *ast.Command {
	return &ast.Command{Kind: ast.RuleCall, Rule: &ast.RuleRef{Name: r.Name, Rule: r}}
}

func ruleSetCmd(rules ...*ast.Rule) *ast.Command {
	refs := make([]*ast.RuleRef, len(rules))
	for i, r := range rules {
		refs[i] = &ast.RuleRef{Name: r.Name, Rule: r}
	}
	return &ast.Command{Kind: ast.RuleSetCall, RuleSet: refs}
}

func seqCmd(cmds ...*ast.Command) *ast.Command {
	return &ast.Command{Kind: ast.Sequence, Commands: cmds}
}

func skipCmd() *ast.Command { return &ast.Command{Kind: ast.Skip} }
func failCmd() *ast.Command { return &ast.Command{Kind: ast.Fail} }
func breakCmd(inner bool) *ast.Command {
	return &ast.Command{Kind: ast.Break, InnerLoop: inner}
}

func ifCmd(cond, then, els *ast.Command) *ast.Command {
	return &ast.Command{Kind: ast.If, Condition: cond, Then: then, Else: els}
}

func tryCmd(cond, then, els *ast.Command) *ast.Command {
	return &ast.Command{Kind: ast.Try, Condition: cond, Then: then, Else: els}
}

func loopCmd(body *ast.Command) *ast.Command {
	return &ast.Command{Kind: ast.Loop, Body: body}
}
