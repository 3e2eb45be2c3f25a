// Command minilux runs Minilux scripts, formats source files, and hosts
// the interactive console.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/docopt/docopt-go"
	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"

	"github.com/minilux-org/minilux"
)

const historyFile = ".minilux_history"

var usage = `minilux

Usage:
  minilux [SCRIPT]
  minilux fmt [-w] FILE
  minilux -h | --help
  minilux -v | --version

Arguments:
  SCRIPT  Path to a Minilux script. Without one, minilux starts the REPL
          when stdin is a TTY and otherwise executes stdin as a script.
  FILE    Path to format.

Options:
  -w             Write the formatted result back to FILE.
  -h, --help     Display this help.
  -v, --version  Print the minilux version.
`

func main() {
	opts, err := docopt.ParseDoc(usage)
	if err != nil {
		// Error in the usage doc. This should never happen.
		panic(err.Error())
	}

	if v, _ := opts.Bool("--version"); v {
		fmt.Println(minilux.Version)
		return
	}

	if isFmt, _ := opts.Bool("fmt"); isFmt {
		file, _ := opts.String("FILE")
		write, _ := opts.Bool("-w")
		if err := runFmt(file, write); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if script, _ := opts.String("SCRIPT"); script != "" {
		if err := minilux.RunFile(script); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if isatty.IsTerminal(os.Stdin.Fd()) {
		runRepl()
		return
	}

	// Piped input: execute stdin as one script.
	src, err := io.ReadAll(os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := minilux.NewInterpreter().Run(string(src)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runFmt(path string, writeInPlace bool) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	formatted := minilux.FormatSource(string(content))

	if writeInPlace {
		if err := os.WriteFile(path, []byte(formatted), 0o644); err != nil {
			return fmt.Errorf("failed to write file: %w", err)
		}
		return nil
	}

	fmt.Print(formatted)
	return nil
}

func runRepl() {
	fmt.Println("Minilux Interpreter Console (REPL)")
	fmt.Printf("Version %s on %s/%s -- [Go]\n", minilux.Version, runtime.GOOS, runtime.GOARCH)
	fmt.Println("Type \"exit\" to quit")
	fmt.Println()

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	// One interpreter for the whole session: definitions persist across
	// lines.
	in := minilux.NewInterpreter()

	for {
		line, err := ln.Prompt("> ")
		if err == liner.ErrPromptAborted {
			continue
		}
		if err != nil {
			break
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "exit" {
			break
		}
		if trimmed == "" {
			continue
		}
		ln.AppendHistory(trimmed)

		if err := in.Run(trimmed); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}
}
