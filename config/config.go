// Package config loads the interpreter's optional runtime tunables from a
// .loxrc.toml file. These knobs configure interpreter behavior, never
// language semantics beyond the one open question (NaN-equality) left to
// the implementer.
package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Options is decoded from .loxrc.toml on top of Default(), so a missing
// file (the common case) or a missing field just runs with the defaults.
type Options struct {
	// Prompt is printed before each REPL read (default "> ").
	Prompt string `toml:"prompt"`
	// EchoReplResults is decoded from the file, but nothing in the driver
	// or the interpreter reads it: bare expression statements typed at the
	// REPL are not echoed, whatever its value.
	EchoReplResults bool `toml:"echo-repl-results"`
	// MaxCallDepth bounds the interpreter's call stack; exceeding it
	// raises a "Stack overflow." runtime error instead of crashing the
	// host process.
	MaxCallDepth int `toml:"max-call-depth"`
	// StrictNaNEquality selects the NaN-equality policy: true (default) is
	// IEEE-754 (NaN != NaN); false makes two NaNs compare equal.
	StrictNaNEquality bool `toml:"strict-nan-equality"`
}

// Default returns the options used when no .loxrc.toml is found.
func Default() Options {
	return Options{
		Prompt:            "> ",
		EchoReplResults:   false,
		MaxCallDepth:      255,
		StrictNaNEquality: true,
	}
}

// Load reads .loxrc.toml from path if present, overlaying it onto
// Default(). A missing file is not an error; a malformed one is.
func Load(path string) (Options, error) {
	opts := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return opts, nil
	}

	if _, err := toml.DecodeFile(path, &opts); err != nil {
		return Options{}, err
	}
	return opts, nil
}
