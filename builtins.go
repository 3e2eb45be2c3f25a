// builtins.go — the expression-position builtin registry and the core
// string/number builtins.
//
// Builtins dispatch by literal name at evaluation time. Each entry
// receives its argument *expressions* and evaluates only the ones it
// consumes — extra arguments are never evaluated, matching statement-form
// leniency elsewhere in the language. An unknown name never reaches this
// table; the evaluator reports it on the diagnostic channel and yields
// the absent value.
package minilux

import (
	"strconv"
	"strings"
)

type builtinFunc func(in *Interpreter, args []Expr) (Value, error)

// exprBuiltins is the closed expression-builtin table. Population happens
// in the per-concern builtin files' init functions.
var exprBuiltins = map[string]builtinFunc{}

func registerBuiltin(name string, fn builtinFunc) {
	exprBuiltins[name] = fn
}

// firstArg evaluates the first argument, or returns (Nil, false) when the
// call has none.
func firstArg(in *Interpreter, args []Expr) (Value, bool, error) {
	if len(args) == 0 {
		return Nil, false, nil
	}
	v, err := in.evalExpr(args[0])
	if err != nil {
		return Nil, false, err
	}
	return v, true, nil
}

func init() {
	registerBuiltin("len", builtinLen)
	registerBuiltin("number", builtinNumber)
	registerBuiltin("lower", builtinLower)
	registerBuiltin("upper", builtinUpper)
}

// builtinLen returns the byte length of a text or the element count of a
// list; anything else is 0.
func builtinLen(in *Interpreter, args []Expr) (Value, error) {
	v, ok, err := firstArg(in, args)
	if err != nil || !ok {
		return Int(0), err
	}
	switch v.Tag {
	case VTStr:
		return Int(int64(len(v.Text))), nil
	case VTArray:
		return Int(int64(len(v.Elems))), nil
	}
	return Int(0), nil
}

// builtinNumber parses a text as a decimal integer (surrounding
// whitespace tolerated); ints pass through, everything else is 0.
func builtinNumber(in *Interpreter, args []Expr) (Value, error) {
	v, ok, err := firstArg(in, args)
	if err != nil || !ok {
		return Int(0), err
	}
	switch v.Tag {
	case VTInt:
		return v, nil
	case VTStr:
		n, perr := strconv.ParseInt(strings.TrimSpace(v.Text), 10, 64)
		if perr != nil {
			return Int(0), nil
		}
		return Int(n), nil
	}
	return Int(0), nil
}

func builtinLower(in *Interpreter, args []Expr) (Value, error) {
	v, ok, err := firstArg(in, args)
	if err != nil || !ok {
		return Str(""), err
	}
	return Str(strings.ToLower(v.String())), nil
}

func builtinUpper(in *Interpreter, args []Expr) (Value, error) {
	v, ok, err := firstArg(in, args)
	if err != nil || !ok {
		return Str(""), err
	}
	return Str(strings.ToUpper(v.String())), nil
}
