package diag

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"tree_lox/token"
)

func TestReportStaticSetsFlagAndFormats(t *testing.T) {
	var buf bytes.Buffer
	sink := New(&buf)

	sink.ReportStatic(3, " at 'x'", "Expect ';' after value.")

	assert.True(t, sink.HadStaticError())
	assert.False(t, sink.HadRuntimeError())
	assert.Equal(t, "[Line 3] error at 'x': Expect ';' after value.\n", buf.String())
}

func TestReportRuntimeErrorSetsFlagAndFormats(t *testing.T) {
	var buf bytes.Buffer
	sink := New(&buf)

	sink.ReportRuntimeError(RuntimeError{
		Token:   token.Token{Line: 7},
		Message: "Undefined variable 'x'.",
	})

	assert.True(t, sink.HadRuntimeError())
	assert.False(t, sink.HadStaticError())
	assert.Equal(t, "Undefined variable 'x'.\n[line 7]\n", buf.String())
}

func TestResetClearsBothFlags(t *testing.T) {
	var buf bytes.Buffer
	sink := New(&buf)

	sink.ReportStatic(1, "", "bad")
	sink.ReportRuntimeError(RuntimeError{Token: token.Token{Line: 1}, Message: "bad"})
	sink.Reset()

	assert.False(t, sink.HadStaticError())
	assert.False(t, sink.HadRuntimeError())
}
