// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command gp2c translates a GP2 declaration list into the C source of the
// runtime program that executes it under GP2's backtracking operational
// semantics.
//
// Usage:
//
//	gp2c -decls program.json -o outdir
//
// program.json is the JSON encoding read by internal/astjson: the parsed
// and semantically-analysed declaration list that the front end (not part
// of this tool) produces. gp2c writes outdir/main.c and, unless -copy is
// given, restores backtracked host-graph state by replaying recorded
// changes rather than snapshotting the whole graph.
//
// gp2c does not compile the result on its own: a separate per-rule
// compiler turns each RuleDeclaration into its match<Rule>/apply<Rule>
// pair, and a C compiler links those against main.c. -cc names that
// per-rule compiler; when -cc-min-version is also set, gp2c runs
// `-cc --version` and rejects a compiler older than the minimum before
// writing main.c. -build-script, given -cc and -gp2-source, writes a
// shell script that compiles every rule and links the result:
//
//	gp2c -decls program.json -o outdir \
//	     -cc ./rulec -cc-min-version v2.1.0 \
//	     -gp2-source program.gpr -build-script outdir/build.sh
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/gp2toolchain/gp2c/internal/astjson"
	"github.com/gp2toolchain/gp2c/internal/codegen"
	"github.com/gp2toolchain/gp2c/internal/restore"
	"github.com/gp2toolchain/gp2c/internal/toolchain"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("gp2c: ")

	var (
		declsPath    string
		outDir       string
		copyMode     bool
		ccPath       string
		ccArgs       string
		ccMinVersion string
		buildScript  string
		linkCC       string
		gp2Source    string
	)
	flag.StringVar(&declsPath, "decls", "", "read the declaration list from `file`")
	flag.StringVar(&outDir, "o", "", "write main.c to `dir`")
	flag.BoolVar(&copyMode, "copy", false, "restore backtracked state by copying the whole host graph instead of recording changes")
	flag.StringVar(&ccPath, "cc", "", "path to the external per-rule compiler, used by -cc-min-version and -build-script")
	flag.StringVar(&ccArgs, "cc-args", "", "extra shell-quoted arguments passed to every invocation of -cc")
	flag.StringVar(&ccMinVersion, "cc-min-version", "", "reject -cc if its reported `--version` is older than this semver")
	flag.StringVar(&buildScript, "build-script", "", "write a shell script to `file` that compiles every rule with -cc and links the result with -link-cc")
	flag.StringVar(&linkCC, "link-cc", "cc", "C compiler invoked by -build-script to link main.c against the compiled rules")
	flag.StringVar(&gp2Source, "gp2-source", "", "the .gpr source `file` -cc reads rule bodies from, required by -build-script")
	flag.Parse()

	if declsPath == "" || outDir == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(declsPath, outDir, copyMode, ccPath, ccArgs, ccMinVersion, buildScript, linkCC, gp2Source); err != nil {
		log.Fatal(err)
	}
}

func run(declsPath, outDir string, copyMode bool, ccPath, ccArgs, ccMinVersion, buildScript, linkCC, gp2Source string) error {
	data, err := os.ReadFile(declsPath)
	if err != nil {
		return fmt.Errorf("gp2c: %w", err)
	}
	decls, err := astjson.Decode(data)
	if err != nil {
		return err
	}

	var rc toolchain.RuleCompiler
	if ccPath != "" {
		extraArgs, err := toolchain.ParseArgs(ccArgs)
		if err != nil {
			return fmt.Errorf("gp2c: -cc-args: %w", err)
		}
		rc = toolchain.RuleCompiler{Path: ccPath, ExtraArgs: extraArgs, MinVersion: ccMinVersion}
		if ccMinVersion != "" {
			version, err := rc.Version()
			if err != nil {
				return fmt.Errorf("gp2c: checking %s: %w", ccPath, err)
			}
			if err := toolchain.CheckCompilerVersion(version, ccMinVersion); err != nil {
				return fmt.Errorf("gp2c: %w", err)
			}
			log.Printf("%s reports version %s, satisfies -cc-min-version %s", ccPath, version, ccMinVersion)
		}
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("gp2c: %w", err)
	}
	mainPath := filepath.Join(outDir, "main.c")
	f, err := os.Create(mainPath)
	if err != nil {
		return fmt.Errorf("gp2c: %w", err)
	}
	defer f.Close()

	var strategy restore.Strategy = restore.ChangeRecording{}
	if copyMode {
		strategy = restore.GraphCopying{}
	}

	result, err := codegen.Generate(f, decls, strategy)
	if err != nil {
		return fmt.Errorf("gp2c: %w", err)
	}
	for _, w := range result.Warnings {
		log.Printf("warning: %s", w)
	}
	log.Printf("wrote %s (%s, %d restore point(s))", mainPath, strategy.Name(), result.RestorePointCount)

	if buildScript != "" {
		if ccPath == "" {
			return fmt.Errorf("gp2c: -build-script requires -cc")
		}
		if gp2Source == "" {
			return fmt.Errorf("gp2c: -build-script requires -gp2-source")
		}
		if err := toolchain.WriteBuildScript(buildScript, rc, result.RuleNames, gp2Source, outDir, linkCC); err != nil {
			return fmt.Errorf("gp2c: writing %s: %w", buildScript, err)
		}
		log.Printf("wrote %s (%d rule(s))", buildScript, len(result.RuleNames))
	}
	return nil
}
