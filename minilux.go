// Package minilux implements the Minilux scripting language: a tokenizer,
// a best-effort recursive-descent parser, a tree-walking evaluator over a
// global mutable runtime, and a source formatter.
//
// The quickest way in:
//
//	in := minilux.NewInterpreter()
//	err := in.Run(`$x = 1; printf("x = ", $x)`)
//
// or, for a script on disk, minilux.RunFile(path).
package minilux

import (
	"fmt"
	"os"
	"path/filepath"
)

// Version is the language/interpreter version.
const Version = "0.1.0"

// Run parses src and executes it against the interpreter's runtime.
// Parsing cannot fail; an error means execution hit an environment
// problem (include, socket connect, stdin).
func (in *Interpreter) Run(src string) error {
	return in.Execute(Parse(src))
}

// RunFile executes a script file on a fresh interpreter, with the file's
// parent directory as the base directory for relative includes.
func RunFile(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	in := NewInterpreter()

	abs := path
	if a, aerr := filepath.Abs(path); aerr == nil {
		abs = a
	}
	in.PushBaseDir(filepath.Dir(abs))
	defer in.PopBaseDir()

	return in.Execute(Parse(string(src)))
}
