// builtin_sys.go — process and time builtins: shell, sleep.
package minilux

import (
	"os/exec"
	"runtime"
	"strings"
	"time"
)

func init() {
	registerBuiltin("shell", builtinShell)
	registerBuiltin("sleep", builtinSleep)
}

// builtinShell forwards one command line to the host shell and returns
// the captured standard output with exactly one trailing newline sequence
// trimmed. Standard error is discarded; any execution failure yields
// empty text.
func builtinShell(in *Interpreter, args []Expr) (Value, error) {
	v, ok, err := firstArg(in, args)
	if err != nil || !ok {
		return Str(""), err
	}

	cmdStr := v.String()
	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.Command("cmd", "/C", cmdStr)
	} else {
		cmd = exec.Command("sh", "-c", cmdStr)
	}

	out, runErr := cmd.Output()
	if runErr != nil && len(out) == 0 {
		return Str(""), nil
	}

	stdout := string(out)
	stdout = strings.TrimSuffix(stdout, "\n")
	stdout = strings.TrimSuffix(stdout, "\r")
	return Str(stdout), nil
}

// builtinSleep blocks the evaluation thread for the requested whole
// seconds. No cancellation: once invoked it runs to completion.
func builtinSleep(in *Interpreter, args []Expr) (Value, error) {
	v, ok, err := firstArg(in, args)
	if err != nil || !ok {
		return Nil, err
	}
	time.Sleep(time.Duration(v.ToInt()) * time.Second)
	return Nil, nil
}
