package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"kiln/ast"
	"kiln/config"
	"kiln/lower"
	"kiln/trace"
)

func main() {
	configPath := flag.String("config", "", "Session config file (YAML)")
	emit := flag.Bool("emit", false, "Emit bin/main.ll and link with clang instead of running in process")
	target := flag.String("target", "", "Target triple override (implies -emit)")
	dumpIR := flag.Bool("dump-ir", false, "Print the textual IR before running")
	repl := flag.Bool("repl", false, "Start the interactive session")

	// Trace flags
	traceEnabled := flag.Bool("trace", false, "Enable lowering tracing")
	traceFilter := flag.String("trace-filter", "", "Trace filter pattern (glob, e.g., 'call' or 'loop_*')")

	flag.Parse()

	if *traceEnabled {
		var filters []string
		if *traceFilter != "" {
			filters = strings.Split(*traceFilter, ",")
		}
		trace.Init(true, filters, os.Stderr)
		log.Printf("Tracing enabled (filter: %q)", *traceFilter)
	}

	opts := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		opts = loaded
	}
	if *emit || *target != "" {
		opts.ExecutionEngine = false
		opts.Target = *target
	}

	if *repl {
		runRepl(opts)
		return
	}

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] program.json\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}

	out, err := compileFile(flag.Arg(0), opts, *dumpIR)
	if err != nil {
		log.Fatalf("Compile failed: %v", err)
	}
	fmt.Print(out)
}

// compileFile decodes one JSON program file and runs it through a fresh
// session
func compileFile(path string, opts config.Options, dumpIR bool) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	root, err := ast.DecodeProgram(data)
	if err != nil {
		return "", err
	}

	sess, err := lower.NewSession(opts)
	if err != nil {
		return "", err
	}
	if dumpIR {
		// Lower first so the dump shows the full module
		if _, err := sess.Lowerer().Lower(root); err != nil {
			sess.Lowerer().Builder().Dispose()
			return "", err
		}
		fmt.Fprintln(os.Stderr, sess.IR())
		out, err := sess.Lowerer().Builder().Finish()
		return out, err
	}
	return sess.Run(root)
}
