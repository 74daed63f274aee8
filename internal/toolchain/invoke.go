// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package toolchain shells out to the external per-rule compiler that
// turns one RuleDeclaration into its match<Rule>/apply<Rule> pair and the
// Rule.h header the generated main.c #includes. That compiler is a
// collaborator reached only through its command-line contract: this
// package's job is building a correct, loggable argv for it, not
// understanding what it does.
package toolchain

import (
	"bytes"
	"os"
	"os/exec"
	"strings"

	shellquote "github.com/kballard/go-shellquote"
	"golang.org/x/mod/semver"
	"golang.org/x/xerrors"
)

// RuleCompiler describes how to invoke the external rule compiler: its
// executable path and any flags that apply to every rule (for example, a
// shared output directory).
type RuleCompiler struct {
	Path      string
	ExtraArgs []string

	// MinVersion, if non-empty, is the lowest semver (vMAJOR.MINOR.PATCH)
	// the version reported by Version must satisfy when compared with
	// CheckCompilerVersion.
	MinVersion string
}

// CompileRule runs the rule compiler for a single rule declaration,
// producing ruleName.h and ruleName.c in outputDir. It returns the
// compiler's combined stdout/stderr for diagnostics even on failure.
func (rc RuleCompiler) CompileRule(ruleName, sourceFile, outputDir string) (output string, err error) {
	args := append(append([]string{}, rc.ExtraArgs...), "-rule", ruleName, "-o", outputDir, sourceFile)
	cmd := exec.Command(rc.Path, args...)
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	if runErr := cmd.Run(); runErr != nil {
		return buf.String(), xerrors.Errorf("toolchain: %s failed: %w", CommandLine(rc.Path, args), runErr)
	}
	return buf.String(), nil
}

// Version runs the rule compiler with --version and returns its reported
// version string, trimmed of surrounding whitespace. Most rule compilers
// print a single semver line to stdout and exit 0; this does not attempt to
// cope with anything else.
func (rc RuleCompiler) Version() (string, error) {
	cmd := exec.Command(rc.Path, "--version")
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	if err := cmd.Run(); err != nil {
		return "", xerrors.Errorf("toolchain: %s failed: %w", CommandLine(rc.Path, []string{"--version"}), err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// CheckCompilerVersion reports whether version — a semver string such as
// one a rule compiler might embed in its `--version` output — satisfies
// min. An empty min always passes: MinVersion is optional, and not every
// rule compiler reports a semver-shaped version at all.
func CheckCompilerVersion(version, min string) error {
	if min == "" {
		return nil
	}
	if !semver.IsValid(version) {
		return xerrors.Errorf("toolchain: compiler reported an invalid version %q", version)
	}
	if !semver.IsValid(min) {
		return xerrors.Errorf("toolchain: configured minimum version %q is invalid", min)
	}
	if semver.Compare(version, min) < 0 {
		return xerrors.Errorf("toolchain: compiler version %s is older than the required minimum %s", version, min)
	}
	return nil
}

// CommandLine renders path and args as a single shell-safe string, suitable
// for logging or for a generated build script. It is what a user would
// type to invoke the same command, and ParseArgs splits it back into path
// and args: shellquote.Join only adds
// quoting where a token would otherwise be split or misinterpreted by a
// shell.
func CommandLine(path string, args []string) string {
	return shellquote.Join(append([]string{path}, args...)...)
}

// ParseArgs splits a shell-quoted argument string the way a POSIX shell
// would, for reading compiler invocations back out of a build log.
func ParseArgs(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	return shellquote.Split(s)
}

// WriteBuildScript writes a POSIX shell script to path that compiles every
// rule in names with rc, then compiles main.c together with the generated
// rule sources (outputDir/<name>.c) with cc. This is a convenience for a caller that wants to hand a
// reviewer a single script rather than driving the compiler from Go.
func WriteBuildScript(path string, rc RuleCompiler, names []string, sourceFile, outputDir, cc string) error {
	var b strings.Builder
	b.WriteString("#!/bin/sh\n")
	b.WriteString("set -e\n")
	for _, name := range names {
		args := append(append([]string{}, rc.ExtraArgs...), "-rule", name, "-o", outputDir, sourceFile)
		b.WriteString(CommandLine(rc.Path, args))
		b.WriteString("\n")
	}
	objs := make([]string, len(names))
	for i, name := range names {
		objs[i] = outputDir + "/" + name + ".c"
	}
	ccArgs := append([]string{"-o", outputDir + "/gp2run", outputDir + "/main.c"}, objs...)
	b.WriteString(CommandLine(cc, ccArgs))
	b.WriteString("\n")
	return os.WriteFile(path, []byte(b.String()), 0o755)
}
