// Command lox is the tree-walking interpreter's CLI front end: zero
// arguments starts a REPL, one argument runs a script file, and anything
// else is a usage error. A '--trace' flag may appear anywhere in the
// argument list to turn on call-stack trace diagnostics.
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime/pprof"

	"github.com/google/uuid"

	"tree_lox/config"
	"tree_lox/diag"
	"tree_lox/interpreter"
	"tree_lox/parser"
	"tree_lox/resolver"
)

func main() {
	if profOut, has := os.LookupEnv("CPUPROFILE"); has && profOut != "" {
		f, err := os.Create(profOut)
		if err != nil {
			log.Fatalf("Cannot create profile output file: '%v' (%v).\n", profOut, err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	opts, err := config.Load(".loxrc.toml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot read .loxrc.toml (%v).\n", err)
		os.Exit(64)
	}

	args, trace := extractTraceFlag(os.Args[1:])

	switch len(args) {
	case 0:
		runPrompt(opts, trace)
	case 1:
		os.Exit(runFile(args[0], opts, trace))
	default:
		fmt.Fprintf(os.Stdout, "Usage: %s [--trace] [script]\n", filepath.Base(os.Args[0]))
		os.Exit(64)
	}
}

// extractTraceFlag pulls '--trace' out of args wherever it appears,
// leaving the remaining positional arguments (the script path, if any)
// in order.
func extractTraceFlag(args []string) (rest []string, trace bool) {
	for _, a := range args {
		if a == "--trace" {
			trace = true
			continue
		}
		rest = append(rest, a)
	}
	return rest, trace
}

// runFile implements file mode: the driver checks the sink's flags at
// each phase boundary and picks an exit code from the first phase that
// failed.
func runFile(path string, opts config.Options, trace bool) int {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot open file '%s' (%v).\n", path, err)
		return 64
	}

	sink := diag.New(os.Stderr)
	interp := interpreter.New(sink, opts)
	if trace {
		interp.TraceWriter = os.Stderr
	}
	run(string(source), sink, opts, interp)

	switch {
	case sink.HadRuntimeError():
		return 70
	case sink.HadStaticError():
		return 64
	default:
		return 0
	}
}

// runPrompt implements REPL mode: each line is independent, and a bad
// line does not stop the session.
func runPrompt(opts config.Options, trace bool) {
	lineScanner := bufio.NewScanner(os.Stdin)
	sink := diag.New(os.Stderr)
	interp := interpreter.New(sink, opts)
	if trace {
		interp.TraceWriter = os.Stderr
	}

	for {
		fmt.Fprint(os.Stdout, opts.Prompt)
		if !lineScanner.Scan() {
			break
		}

		sink.Reset()
		run(lineScanner.Text(), sink, opts, interp)
	}

	if err := lineScanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		os.Exit(70)
	}
}

// run drives one script through the whole pipeline: parse, resolve,
// interpret, gated at each boundary by the sink's error flags. The
// interpreter is supplied by the caller so REPL lines share one global
// environment while a file-mode run gets a fresh one.
func run(source string, sink *diag.Sink, opts config.Options, interp *interpreter.Interpreter) {
	p := parser.New(source, sink)
	stmts, ok := p.Parse()
	if !ok {
		return
	}

	locals, ok := resolver.New(sink).Resolve(stmts)
	if !ok {
		return
	}

	interp.AddLocals(locals)
	interp.RunID = uuid.NewString()
	interp.Interpret(stmts)
}
