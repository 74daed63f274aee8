// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package codegen translates a GP2 command tree into the C source of the
// runtime program that executes it: a straight-line translation of
// sequence, rule-set, if/try/else, loop, or, skip, fail and break into
// structured C control flow plus the minimal backtracking scaffolding each
// construct actually needs.
package codegen

import (
	"fmt"
	"io"

	"github.com/gp2toolchain/gp2c/internal/analysis"
	"github.com/gp2toolchain/gp2c/internal/ast"
	"github.com/gp2toolchain/gp2c/internal/emit"
	"github.com/gp2toolchain/gp2c/internal/restore"
)

// Context identifies the nearest enclosing combinator's body kind. The code
// generated on rule-match failure is dispatched on this value; see failure.go.
type Context int

const (
	MainBody Context = iota
	IfBody
	TryBody
	LoopBody
)

func (c Context) String() string {
	switch c {
	case MainBody:
		return "MainBody"
	case IfBody:
		return "IfBody"
	case TryBody:
		return "TryBody"
	case LoopBody:
		return "LoopBody"
	default:
		return "Context(?)"
	}
}

// Data is threaded through command generation by value, exactly as it is
// read: nothing in this package mutates a Data a caller is still holding.
type Data struct {
	Context       Context
	LoopDepth     int
	RecordChanges bool
	// RestorePoint is the id of the restore-point frame enclosing this
	// command, or -1 if no frame is in scope.
	RestorePoint int
	Indent       int
}

// mainData is the CommandData a main declaration's body is generated with.
func mainData() Data {
	return Data{Context: MainBody, LoopDepth: 0, RecordChanges: false, RestorePoint: -1, Indent: 1}
}

// Generator walks a command tree and writes the equivalent C source to an
// emit.Writer. The restore-point counter lives on the Generator, not in a
// package-level variable, so that two Generators never share identifiers
// and a Generator can be reused (its counter keeps climbing) or discarded
// freely.
type Generator struct {
	w                 *emit.Writer
	strategy          restore.Strategy
	restorePointCount int
	warnings          []string
	callStack         []string
}

// New returns a Generator that writes to w, restoring host-graph state
// according to strategy.
func New(w io.Writer, strategy restore.Strategy) *Generator {
	return &Generator{w: emit.New(w), strategy: strategy}
}

// Warnings returns the compile-time warnings accumulated so far, such as a
// loop body that can neither fail nor change the graph.
func (g *Generator) Warnings() []string {
	return g.warnings
}

func (g *Generator) warnf(format string, args ...any) {
	g.warnings = append(g.warnings, fmt.Sprintf(format, args...))
}

func (g *Generator) allocateRestorePoint() int {
	id := g.restorePointCount
	g.restorePointCount++
	return id
}

// Command emits the C translation of c under data. It returns an error only
// for conditions the generator treats as fatal: a loop body that can never
// fail (so the loop can never terminate), a procedure call cycle, or a
// command of unknown kind.
func (g *Generator) Command(c *ast.Command, data Data) error {
	switch c.Kind {
	case ast.Sequence:
		for i, sub := range c.Commands {
			if err := g.Command(sub, data); err != nil {
				return err
			}
			if data.Context == LoopBody && i != len(c.Commands)-1 {
				g.w.Line(data.Indent, "if(!success) break;")
				g.w.Blank()
			}
		}
		return nil

	case ast.RuleCall:
		g.w.Line(data.Indent, "/* Rule Call */")
		g.ruleCall(c.Rule.Name, c.Rule.Rule.EmptyLHS, c.Rule.Rule.IsPredicate, true, data)
		return nil

	case ast.RuleSetCall:
		g.w.Line(data.Indent, "/* Rule Set Call */")
		g.w.Line(data.Indent, "do")
		g.w.Line(data.Indent, "{")
		inner := data
		inner.Indent = data.Indent + 1
		for i, r := range c.RuleSet {
			last := i == len(c.RuleSet)-1
			g.ruleCall(r.Name, r.Rule.EmptyLHS, r.Rule.IsPredicate, last, inner)
		}
		g.w.Line(data.Indent, "} while(false);")
		return nil

	case ast.ProcedureCall:
		name := c.Procedure.Name
		for _, active := range g.callStack {
			if active == name {
				return fmt.Errorf("codegen: recursive procedure call to %q (GP2 procedures may not recurse)", name)
			}
		}
		g.callStack = append(g.callStack, name)
		err := g.Command(c.Procedure.Body, data)
		g.callStack = g.callStack[:len(g.callStack)-1]
		return err

	case ast.If, ast.Try:
		return g.branch(c, data)

	case ast.Loop:
		return g.loop(c, data)

	case ast.Or:
		inner := data
		inner.Indent = data.Indent + 1
		g.w.Line(data.Indent, "/* Or Statement */")
		g.w.Line(data.Indent, "int random = rand();")
		g.w.Line(data.Indent, "if((random % 2) == 0)")
		g.w.Line(data.Indent, "{")
		if err := g.Command(c.Left, inner); err != nil {
			return err
		}
		g.w.Line(data.Indent, "}")
		g.w.Line(data.Indent, "else")
		g.w.Line(data.Indent, "{")
		if err := g.Command(c.Right, inner); err != nil {
			return err
		}
		g.w.Line(data.Indent, "}")
		if data.Context == IfBody || data.Context == TryBody {
			g.w.Line(data.Indent, "break;")
		}
		return nil

	case ast.Skip:
		g.w.Line(data.Indent, "/* Skip Statement */")
		g.w.Line(data.Indent, "success = true;")
		return nil

	case ast.Fail:
		g.w.Line(data.Indent, "/* Fail Statement */")
		g.failure("", data)
		return nil

	case ast.Break:
		g.w.Line(data.Indent, "/* Break Statement */")
		if data.RestorePoint >= 0 {
			if c.InnerLoop {
				g.w.Line(data.Indent, "/* Update restore point for next iteration of inner loop. */")
				g.strategy.Refresh(g.w, data.Indent, data.RestorePoint)
			} else {
				g.w.Line(data.Indent, "/* Graph changes from loop body not required.")
				g.w.Line(data.Indent, "   Discard them so that future graph roll backs are uncorrupted. */")
				g.strategy.Discard(g.w, data.Indent, data.RestorePoint)
			}
		}
		g.w.Line(data.Indent, "break;")
		return nil

	default:
		return fmt.Errorf("codegen: unexpected command kind %v", c.Kind)
	}
}
