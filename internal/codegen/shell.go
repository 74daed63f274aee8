// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codegen

import (
	"fmt"
	"io"

	"github.com/gp2toolchain/gp2c/internal/ast"
	"github.com/gp2toolchain/gp2c/internal/emit"
	"github.com/gp2toolchain/gp2c/internal/restore"
)

// Host graph capacities the generated program allocates at startup. A GP2
// program's host graph is read from a file at runtime, so the generator has
// no way to size these precisely; 128 nodes and 128 edges is enough
// headroom for the example graphs the runtime library grows beyond anyway.
const (
	HostNodeCapacity = 128
	HostEdgeCapacity = 128
)

// Result carries everything Generate produced beyond the emitted C source:
// non-fatal warnings, the number of restore points allocated, and the rule
// names the program references, useful for a caller that wants to report
// generation statistics or drive a separate per-rule build step.
type Result struct {
	Warnings          []string
	RestorePointCount int
	RuleNames         []string
}

// Generate writes the complete runtime program for decls to w: includes,
// per-rule morphism plumbing, a garbage-collecting teardown, the host-graph
// builder, and a main function that drives the main declaration's command
// tree to completion. It returns an error for a missing main declaration,
// a fatal generation condition (a non-terminating loop or a recursive
// procedure), or a failed write to w; non-fatal diagnostics are reported
// through Result.Warnings.
func Generate(w io.Writer, decls []*ast.Declaration, strategy restore.Strategy) (Result, error) {
	g := New(w, strategy)
	ew := g.w

	main := findMain(decls)
	if main == nil {
		return Result{}, fmt.Errorf("codegen: no main declaration")
	}
	rules := collectRules(decls)

	ew.Raw("#include <time.h>")
	ew.Raw("#include \"common.h\"")
	ew.Raw("#include \"debug.h\"")
	ew.Raw("#include \"graph.h\"")
	ew.Raw("#include \"graphStacks.h\"")
	ew.Raw("#include \"parser.h\"")
	ew.Raw("#include \"morphism.h\"")
	ew.Blank()

	for _, r := range rules {
		ew.Rawf("#include \"%s.h\"", r.Name)
		ew.Rawf("Morphism *M_%s = NULL;", r.Name)
	}
	ew.Blank()

	ew.Raw("static void freeMorphisms(void)")
	ew.Raw("{")
	for _, r := range rules {
		ew.Linef(1, "freeMorphism(M_%s);", r.Name)
	}
	ew.Raw("}")
	ew.Blank()

	ew.Raw("static void garbageCollect(void)")
	ew.Raw("{")
	ew.Line(1, "freeGraph(host);")
	ew.Line(1, "freeMorphisms();")
	freeStackCall(ew, strategy)
	ew.Line(1, "closeLogFile();")
	ew.Raw("}")
	ew.Blank()

	ew.Raw("Graph *host = NULL;")
	ew.Raw("int *node_map = NULL;")
	ew.Blank()

	emitBuildHostGraph(ew)

	ew.Raw("bool success = true;")
	ew.Blank()

	ew.Raw("int main(int argc, char **argv)")
	ew.Raw("{")
	ew.Line(1, "srand(time(NULL));")
	ew.Line(1, "openLogFile(\"gp2.log\");")
	ew.Blank()
	ew.Line(1, "if(argc != 2)")
	ew.Line(1, "{")
	ew.Line(2, "fprintf(stderr, \"Error: missing <host-file> argument.\\n\");")
	// Returning 0 on a usage error mirrors the main-body failure path: the
	// tool considers "could not run" and "ran and found nothing" the same
	// kind of non-fatal outcome. A caller scripting around this binary
	// cannot distinguish the two from the exit code alone; see the design
	// notes for why this is preserved rather than changed here.
	ew.Line(2, "return 0;")
	ew.Line(1, "}")
	ew.Blank()

	ew.Line(1, "host = buildHostGraph(argv[1]);")
	ew.Line(1, "if(host == NULL)")
	ew.Line(1, "{")
	ew.Line(2, "fprintf(stderr, \"Error parsing host graph file.\\n\");")
	ew.Line(2, "return 0;")
	ew.Line(1, "}")

	ew.Line(1, "FILE *output_file = fopen(\"gp2.output\", \"w\");")
	ew.Line(1, "if(output_file == NULL)")
	ew.Line(1, "{")
	ew.Line(2, "perror(\"gp2.output\");")
	ew.Line(2, "exit(1);")
	ew.Line(1, "}")
	ew.Blank()

	for _, r := range rules {
		ew.Linef(1, "M_%s = makeMorphism(%d, %d, %d);", r.Name, r.LeftNodes, r.LeftEdges, r.Variables)
	}
	ew.Blank()

	if err := g.Command(main.Main, mainData()); err != nil {
		return Result{}, err
	}

	ew.Line(1, "printGraph(host, output_file);")
	ew.Line(1, "printf(\"Output graph saved to file gp2.output\\n\");")
	ew.Line(1, "garbageCollect();")
	ew.Line(1, "fclose(output_file);")
	ew.Line(1, "return 0;")
	ew.Raw("}")

	if err := ew.Err(); err != nil {
		return Result{}, err
	}
	ruleNames := make([]string, len(rules))
	for i, r := range rules {
		ruleNames[i] = r.Name
	}
	return Result{Warnings: g.Warnings(), RestorePointCount: g.restorePointCount, RuleNames: ruleNames}, nil
}

func freeStackCall(ew *emit.Writer, strategy restore.Strategy) {
	if strategy.RecordOnApply() {
		ew.Line(1, "freeGraphChangeStack();")
	} else {
		ew.Line(1, "freeGraphStack();")
	}
}

func emitBuildHostGraph(ew *emit.Writer) {
	ew.Raw("static Graph *buildHostGraph(char *host_file)")
	ew.Raw("{")
	ew.Line(1, "yyin = fopen(host_file, \"r\");")
	ew.Line(1, "if(yyin == NULL)")
	ew.Line(1, "{")
	ew.Line(2, "perror(host_file);")
	ew.Line(2, "return NULL;")
	ew.Line(1, "}")
	ew.Blank()
	ew.Linef(1, "host = newGraph(%d, %d);", HostNodeCapacity, HostEdgeCapacity)
	ew.Linef(1, "node_map = calloc(%d, sizeof(int));", HostNodeCapacity)
	ew.Line(1, "if(node_map == NULL)")
	ew.Line(1, "{")
	ew.Line(2, "freeGraph(host);")
	ew.Line(2, "return NULL;")
	ew.Line(1, "}")
	ew.Line(1, "int result = yyparse();")
	ew.Line(1, "free(node_map);")
	ew.Line(1, "fclose(yyin);")
	ew.Line(1, "if(result == 0) return host;")
	ew.Line(1, "else")
	ew.Line(1, "{")
	ew.Line(2, "freeGraph(host);")
	ew.Line(2, "return NULL;")
	ew.Line(1, "}")
	ew.Raw("}")
	ew.Blank()
}

// findMain returns the program's main declaration, or nil if decls contains
// none.
func findMain(decls []*ast.Declaration) *ast.Declaration {
	for _, d := range decls {
		if d.Kind == ast.MainDeclaration {
			return d
		}
	}
	return nil
}

// collectRules walks decls, including rules declared locally to a
// procedure, and returns every rule declaration found. Order is preserved
// so the generated morphism declarations and allocation calls are
// deterministic across runs of the same input.
func collectRules(decls []*ast.Declaration) []*ast.Rule {
	var rules []*ast.Rule
	for _, d := range decls {
		switch d.Kind {
		case ast.RuleDeclaration:
			rules = append(rules, d.Rule)
		case ast.ProcedureDeclaration:
			rules = append(rules, collectRules(d.Locals)...)
		}
	}
	return rules
}
