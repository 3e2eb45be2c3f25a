// builtin_file.go — whole-file text I/O builtins: fread, fwrite.
//
// Neither builtin raises: fread yields empty text when the file cannot be
// read, and fwrite reports success as int 1/0.
package minilux

import "os"

func init() {
	registerBuiltin("fread", builtinFread)
	registerBuiltin("fwrite", builtinFwrite)
}

func builtinFread(in *Interpreter, args []Expr) (Value, error) {
	v, ok, err := firstArg(in, args)
	if err != nil || !ok {
		return Str(""), err
	}
	content, readErr := os.ReadFile(v.String())
	if readErr != nil {
		return Str(""), nil
	}
	return Str(string(content)), nil
}

func builtinFwrite(in *Interpreter, args []Expr) (Value, error) {
	if len(args) < 2 {
		return Int(0), nil
	}
	path, err := in.evalExpr(args[0])
	if err != nil {
		return Nil, err
	}
	content, err := in.evalExpr(args[1])
	if err != nil {
		return Nil, err
	}
	if writeErr := os.WriteFile(path.String(), []byte(content.String()), 0o644); writeErr != nil {
		return Int(0), nil
	}
	return Int(1), nil
}
