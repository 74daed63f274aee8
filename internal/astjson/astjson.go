// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package astjson decodes the JSON encoding of a declaration list that the
// gp2c CLI reads from disk. The real front end (parser plus semantic
// analyser) is an external collaborator reached only through this wire
// format: by the time a declaration list reaches this package, every rule
// call already carries its empty_lhs/is_predicate flags and every break
// already carries its inner_loop flag. This package resolves the named
// references between declarations (a rule call by rule name, a procedure
// call by procedure name) into the pointer-linked tree internal/codegen
// expects; it performs no analysis of its own.
package astjson

import (
	"encoding/json"
	"fmt"

	"github.com/gp2toolchain/gp2c/internal/ast"
)

type declarationJSON struct {
	Kind string `json:"kind"`

	// main
	Main *commandJSON `json:"main,omitempty"`

	// procedure, rule
	Name string `json:"name,omitempty"`

	// procedure
	Body   *commandJSON      `json:"body,omitempty"`
	Locals []declarationJSON `json:"locals,omitempty"`

	// rule
	LeftNodes   int  `json:"leftNodes,omitempty"`
	LeftEdges   int  `json:"leftEdges,omitempty"`
	Variables   int  `json:"variables,omitempty"`
	EmptyLHS    bool `json:"emptyLHS,omitempty"`
	IsPredicate bool `json:"isPredicate,omitempty"`
}

type commandJSON struct {
	Kind string `json:"kind"`

	Commands []commandJSON `json:"commands,omitempty"`

	Rule    string   `json:"rule,omitempty"`
	RuleSet []string `json:"ruleSet,omitempty"`

	Procedure string `json:"procedure,omitempty"`

	Condition *commandJSON `json:"condition,omitempty"`
	Then      *commandJSON `json:"then,omitempty"`
	Else      *commandJSON `json:"else,omitempty"`

	Body *commandJSON `json:"loopBody,omitempty"`

	Left  *commandJSON `json:"left,omitempty"`
	Right *commandJSON `json:"right,omitempty"`

	InnerLoop bool `json:"innerLoop,omitempty"`
}

// symbols is the table of rules and procedures declared so far, keyed by
// name, used to resolve the name references commandJSON carries into the
// pointer-linked ast.Command tree.
type symbols struct {
	rules      map[string]*ast.Rule
	procedures map[string]*ast.Procedure
}

// Decode parses a JSON-encoded declaration list.
func Decode(data []byte) ([]*ast.Declaration, error) {
	var raw []declarationJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("astjson: %w", err)
	}

	syms := &symbols{rules: map[string]*ast.Rule{}, procedures: map[string]*ast.Procedure{}}
	if err := declareSymbols(raw, syms); err != nil {
		return nil, err
	}

	decls := make([]*ast.Declaration, 0, len(raw))
	for i := range raw {
		d, err := buildDeclaration(&raw[i], syms)
		if err != nil {
			return nil, err
		}
		decls = append(decls, d)
	}
	return decls, nil
}

// declareSymbols registers every rule and procedure name (recursing into
// procedure locals) before any command is built, so that a command may
// reference a declaration appearing later in the source text.
func declareSymbols(raw []declarationJSON, syms *symbols) error {
	for i := range raw {
		d := &raw[i]
		switch d.Kind {
		case "rule":
			if _, dup := syms.rules[d.Name]; dup {
				return fmt.Errorf("astjson: duplicate rule declaration %q", d.Name)
			}
			syms.rules[d.Name] = &ast.Rule{
				Name:        d.Name,
				LeftNodes:   d.LeftNodes,
				LeftEdges:   d.LeftEdges,
				Variables:   d.Variables,
				EmptyLHS:    d.EmptyLHS,
				IsPredicate: d.IsPredicate,
			}
		case "procedure":
			if _, dup := syms.procedures[d.Name]; dup {
				return fmt.Errorf("astjson: duplicate procedure declaration %q", d.Name)
			}
			syms.procedures[d.Name] = &ast.Procedure{Name: d.Name}
			if err := declareSymbols(d.Locals, syms); err != nil {
				return err
			}
		case "main":
			// nothing to declare
		default:
			return fmt.Errorf("astjson: unknown declaration kind %q", d.Kind)
		}
	}
	return nil
}

func buildDeclaration(d *declarationJSON, syms *symbols) (*ast.Declaration, error) {
	switch d.Kind {
	case "main":
		cmd, err := buildCommand(d.Main, syms)
		if err != nil {
			return nil, err
		}
		return &ast.Declaration{Kind: ast.MainDeclaration, Main: cmd}, nil

	case "procedure":
		proc := syms.procedures[d.Name]
		body, err := buildCommand(d.Body, syms)
		if err != nil {
			return nil, err
		}
		proc.Body = body

		locals := make([]*ast.Declaration, 0, len(d.Locals))
		for i := range d.Locals {
			local, err := buildDeclaration(&d.Locals[i], syms)
			if err != nil {
				return nil, err
			}
			locals = append(locals, local)
		}
		return &ast.Declaration{Kind: ast.ProcedureDeclaration, Procedure: proc, Locals: locals}, nil

	case "rule":
		return &ast.Declaration{Kind: ast.RuleDeclaration, Rule: syms.rules[d.Name]}, nil

	default:
		return nil, fmt.Errorf("astjson: unknown declaration kind %q", d.Kind)
	}
}

func buildCommand(c *commandJSON, syms *symbols) (*ast.Command, error) {
	if c == nil {
		return nil, fmt.Errorf("astjson: missing command")
	}
	switch c.Kind {
	case "sequence":
		cmds := make([]*ast.Command, 0, len(c.Commands))
		for i := range c.Commands {
			sub, err := buildCommand(&c.Commands[i], syms)
			if err != nil {
				return nil, err
			}
			cmds = append(cmds, sub)
		}
		return &ast.Command{Kind: ast.Sequence, Commands: cmds}, nil

	case "ruleCall":
		rule, err := lookupRule(syms, c.Rule)
		if err != nil {
			return nil, err
		}
		return &ast.Command{Kind: ast.RuleCall, Rule: &ast.RuleRef{Name: c.Rule, Rule: rule}}, nil

	case "ruleSetCall":
		if len(c.RuleSet) == 0 {
			return nil, fmt.Errorf("astjson: rule set call with no rules")
		}
		refs := make([]*ast.RuleRef, 0, len(c.RuleSet))
		for _, name := range c.RuleSet {
			rule, err := lookupRule(syms, name)
			if err != nil {
				return nil, err
			}
			refs = append(refs, &ast.RuleRef{Name: name, Rule: rule})
		}
		return &ast.Command{Kind: ast.RuleSetCall, RuleSet: refs}, nil

	case "procedureCall":
		proc, ok := syms.procedures[c.Procedure]
		if !ok {
			return nil, fmt.Errorf("astjson: undeclared procedure %q", c.Procedure)
		}
		return &ast.Command{Kind: ast.ProcedureCall, Procedure: proc}, nil

	case "if", "try":
		cond, err := buildCommand(c.Condition, syms)
		if err != nil {
			return nil, err
		}
		then, err := buildCommand(c.Then, syms)
		if err != nil {
			return nil, err
		}
		els, err := buildCommand(c.Else, syms)
		if err != nil {
			return nil, err
		}
		kind := ast.If
		if c.Kind == "try" {
			kind = ast.Try
		}
		return &ast.Command{Kind: kind, Condition: cond, Then: then, Else: els}, nil

	case "loop":
		body, err := buildCommand(c.Body, syms)
		if err != nil {
			return nil, err
		}
		return &ast.Command{Kind: ast.Loop, Body: body}, nil

	case "or":
		left, err := buildCommand(c.Left, syms)
		if err != nil {
			return nil, err
		}
		right, err := buildCommand(c.Right, syms)
		if err != nil {
			return nil, err
		}
		return &ast.Command{Kind: ast.Or, Left: left, Right: right}, nil

	case "skip":
		return &ast.Command{Kind: ast.Skip}, nil

	case "fail":
		return &ast.Command{Kind: ast.Fail}, nil

	case "break":
		return &ast.Command{Kind: ast.Break, InnerLoop: c.InnerLoop}, nil

	default:
		return nil, fmt.Errorf("astjson: unknown command kind %q", c.Kind)
	}
}

func lookupRule(syms *symbols, name string) (*ast.Rule, error) {
	rule, ok := syms.rules[name]
	if !ok {
		return nil, fmt.Errorf("astjson: undeclared rule %q", name)
	}
	return rule, nil
}
