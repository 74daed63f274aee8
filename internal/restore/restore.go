// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package restore provides the two alternative strategies for rolling back
// host-graph mutations at a restore point: change-recording (undo entries
// popped off a change-log stack) and graph-copying (whole-graph snapshots
// pushed onto a stack of copies). The generator is written once against the
// Strategy interface; selecting an implementation is a single decision made
// at generator construction time, mirroring the global mode toggle the
// runtime library exposes for the same choice.
package restore

import "github.com/gp2toolchain/gp2c/internal/emit"

// Strategy captures, discards and undoes a restore-point frame, and decides
// whether rule applications under an active frame should pass
// record_changes=true to the generated apply<Rule> call.
type Strategy interface {
	// Name identifies the strategy for diagnostics.
	Name() string

	// RecordOnApply reports whether a rule application under an active
	// restore point should be told to record its changes. Change-recording
	// needs this so undo has something to replay; graph-copying already
	// has a full snapshot, so recording would be redundant.
	RecordOnApply() bool

	// Capture emits the code that establishes restore point id at the
	// current point in the program.
	Capture(w *emit.Writer, indent, id int)

	// Discard emits the code that accepts the changes made since restore
	// point id was captured and releases the frame, without undoing
	// anything.
	Discard(w *emit.Writer, indent, id int)

	// Undo emits the code that rolls the host graph back to restore point
	// id and releases the frame.
	Undo(w *emit.Writer, indent, id int)

	// Refresh emits the code that moves restore point id forward to the
	// current state, used when an inner loop iteration succeeds and the
	// enclosing frame must track the new baseline rather than be released.
	Refresh(w *emit.Writer, indent, id int)

	// DiscardIfSuccess emits Discard's effect guarded by a runtime check
	// that the loop iteration just run succeeded; the generator emits it at
	// the end of each iteration of an outermost recording loop. A failing
	// final iteration has already undone restore point
	// id via Undo before the enclosing while re-tests its condition, so an
	// unconditional discard here would release a frame twice.
	DiscardIfSuccess(w *emit.Writer, indent, id int)
}

// ChangeRecording tracks host-graph mutations on a global change-log stack.
// A restore point is the stack position at the moment of capture; undo
// replays entries above that position in reverse, discard simply forgets
// the position was ever interesting.
type ChangeRecording struct{}

func (ChangeRecording) Name() string         { return "change-recording" }
func (ChangeRecording) RecordOnApply() bool { return true }

func (ChangeRecording) Capture(w *emit.Writer, indent, id int) {
	w.Linef(indent, "int restore_point%d = graph_change_stack == NULL ? 0 : topOfGraphChangeStack();", id)
}

func (ChangeRecording) Discard(w *emit.Writer, indent, id int) {
	w.Linef(indent, "discardChanges(restore_point%d);", id)
}

func (ChangeRecording) Undo(w *emit.Writer, indent, id int) {
	w.Linef(indent, "undoChanges(host, restore_point%d);", id)
}

func (ChangeRecording) Refresh(w *emit.Writer, indent, id int) {
	w.Linef(indent, "if(success) restore_point%d = topOfGraphChangeStack();", id)
}

func (ChangeRecording) DiscardIfSuccess(w *emit.Writer, indent, id int) {
	w.Linef(indent, "if(success) discardChanges(restore_point%d);", id)
}

// GraphCopying takes a full snapshot of the host graph at each restore
// point instead of recording individual changes. It trades memory and copy
// time for a simpler, change-op-free undo.
//
// Refresh has no snapshot-based equivalent of "advance the baseline
// in place": a nested loop whose outer frame is a graph copy cannot cheaply
// fold a successful inner iteration into that copy. This implementation
// keeps the change-log-stack call the change-recording strategy would use,
// preserving the original generator's behaviour here rather than inventing
// a new one; see the design notes for the open question this leaves.
type GraphCopying struct{}

func (GraphCopying) Name() string         { return "graph-copying" }
func (GraphCopying) RecordOnApply() bool { return false }

func (GraphCopying) Capture(w *emit.Writer, indent, id int) {
	w.Line(indent, "copyGraph(host);")
}

func (GraphCopying) Discard(w *emit.Writer, indent, id int) {
	w.Linef(indent, "Graph *copy%d = popGraphs(%d);", id, id)
	w.Linef(indent, "freeGraph(copy%d);", id)
}

func (GraphCopying) Undo(w *emit.Writer, indent, id int) {
	w.Linef(indent, "host = popGraphs(%d);", id)
}

func (GraphCopying) Refresh(w *emit.Writer, indent, id int) {
	w.Linef(indent, "if(success) restore_point%d = topOfGraphChangeStack();", id)
}

func (GraphCopying) DiscardIfSuccess(w *emit.Writer, indent, id int) {
	w.Line(indent, "if(success)")
	w.Line(indent, "{")
	w.Linef(indent+1, "Graph *copy%d = popGraphs(%d);", id, id)
	w.Linef(indent+1, "freeGraph(copy%d);", id)
	w.Line(indent, "}")
}
