// Package diag implements the error sink shared by the scanner, parser,
// resolver and interpreter: a place to report static and runtime
// diagnostics and to track whether any were seen, so the driver can gate
// advancing between pipeline phases.
package diag

import (
	"fmt"
	"io"

	"tree_lox/token"
)

// Sink collects diagnostics produced while scanning, parsing, resolving
// and interpreting a single run. It is not safe for concurrent use; the
// language pipeline is single-threaded.
type Sink struct {
	out        io.Writer
	hadStatic  bool
	hadRuntime bool
}

func New(out io.Writer) *Sink {
	return &Sink{out: out}
}

// HadStaticError reports whether ReportStatic has been called since the
// last Reset.
func (s *Sink) HadStaticError() bool { return s.hadStatic }

// HadRuntimeError reports whether ReportRuntimeError has been called
// since the last Reset.
func (s *Sink) HadRuntimeError() bool { return s.hadRuntime }

// Reset clears both flags. The REPL driver calls this between lines so
// that one bad line doesn't wedge the session.
func (s *Sink) Reset() {
	s.hadStatic = false
	s.hadRuntime = false
}

// ReportStatic implements the scanner/parser/resolver error-sink contract:
// "[Line N] error <where>: <msg>", where is empty for scan errors.
func (s *Sink) ReportStatic(line int, where, message string) {
	s.hadStatic = true
	fmt.Fprintf(s.out, "[Line %d] error%s: %s\n", line, where, message)
}

// RuntimeError is the value an interpreter run propagates when evaluation
// fails; it carries the offending token so the driver can report a line
// number without the interpreter itself needing to format output.
type RuntimeError struct {
	Token   token.Token
	Message string
}

func (e RuntimeError) Error() string { return e.Message }

// ReportRuntimeError implements the interpreter's half of the error-sink
// contract: "<msg>\n[line N]".
func (s *Sink) ReportRuntimeError(err RuntimeError) {
	s.hadRuntime = true
	fmt.Fprintf(s.out, "%s\n[line %d]\n", err.Message, err.Token.Line)
}
