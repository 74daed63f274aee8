// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package emit is the formatted-output layer the generator writes the
// target program's text through. It owns nothing about GP2 semantics: it
// just tracks indentation and guarantees every logical line ends with
// exactly one newline, which keeps two runs over the same input
// byte-for-byte identical.
package emit

import (
	"fmt"
	"io"
)

// Writer accumulates target-program source text. The zero value is not
// usable; construct one with New.
type Writer struct {
	w   io.Writer
	err error
}

// New returns a Writer that writes to w.
func New(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Err returns the first error encountered by a write, if any. Callers doing
// a long sequence of Line/Linef calls can ignore the return value of each
// and check Err once at the end.
func (e *Writer) Err() error {
	return e.err
}

// Line writes s indented by indent*3 spaces, followed by a newline. Three
// spaces per level matches the nesting depth of the generated control
// structures without the output growing uncomfortably wide for deeply
// nested loops and branches.
func (e *Writer) Line(indent int, s string) {
	e.Linef(indent, "%s", s)
}

// Linef is Line with printf-style parameter substitution.
func (e *Writer) Linef(indent int, format string, args ...any) {
	if e.err != nil {
		return
	}
	pad := indentString(indent)
	_, e.err = fmt.Fprintf(e.w, "%s%s\n", pad, fmt.Sprintf(format, args...))
}

// Raw writes s followed by a newline with no leading indentation. It is
// used for top-level text such as #include directives and blank lines
// between declarations, which do not participate in the nested indentation
// of command bodies.
func (e *Writer) Raw(s string) {
	e.Rawf("%s", s)
}

// Rawf is Raw with printf-style parameter substitution.
func (e *Writer) Rawf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format+"\n", args...)
}

// Blank writes an empty line.
func (e *Writer) Blank() {
	e.Raw("")
}

func indentString(indent int) string {
	if indent <= 0 {
		return ""
	}
	const unit = "   "
	buf := make([]byte, 0, len(unit)*indent)
	for i := 0; i < indent; i++ {
		buf = append(buf, unit...)
	}
	return string(buf)
}
