// interpreter.go — tree-walking evaluator for Minilux.
//
// Statements execute against a single Runtime. Early return is propagated
// as an explicit control sum, not a panic: every statement-execution call
// returns (control, error), and every composite statement (if arms, while
// body, procedure body) checks the control after each child and yields it
// upward unchanged, skipping the remaining siblings. The procedure-call
// statement absorbs the signal; at top level a return simply terminates
// the remaining statements.
//
// Error discipline follows the language's asymmetry: environment problems
// (include read failure, socket connect failure, stdin read failure) are
// hard errors that unwind execution, while data and logic problems
// (unknown names, bad indexes, zero division, mismatched arithmetic)
// degrade to the absent value plus, for unknown names, one diagnostic
// line on the side channel.
package minilux

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// control is the return signal threaded through statement execution.
// The zero value means "continue with the next sibling".
type control struct {
	returning bool
	value     Value
}

var proceed = control{}

// Interpreter executes statements against its Runtime. The three streams
// are configurable so embedders and tests can capture program output,
// diagnostics, and feed stdin; they default to the process streams.
type Interpreter struct {
	rt       *Runtime
	baseDirs []string

	Stdout io.Writer // program output (printf)
	Diag   io.Writer // diagnostic side channel (unknown names)

	stdin *bufio.Reader

	// Dial is the TCP connect function; swappable in tests.
	Dial func(addr string) (net.Conn, error)
}

// NewInterpreter returns an interpreter with a fresh Runtime and the
// process working directory as the initial base directory.
func NewInterpreter() *Interpreter {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	return &Interpreter{
		rt:       NewRuntime(),
		baseDirs: []string{cwd},
		Stdout:   os.Stdout,
		Diag:     os.Stderr,
		stdin:    bufio.NewReader(os.Stdin),
		Dial: func(addr string) (net.Conn, error) {
			return net.Dial("tcp", addr)
		},
	}
}

// SetStdin replaces the input stream used by the read statement.
func (in *Interpreter) SetStdin(r io.Reader) {
	in.stdin = bufio.NewReader(r)
}

// Runtime exposes the interpreter's global state.
func (in *Interpreter) Runtime() *Runtime { return in.rt }

/* ---------- base-directory stack ---------- */

// PushBaseDir pushes a resolved directory for relative include
// resolution. One entry per active nested inclusion.
func (in *Interpreter) PushBaseDir(dir string) {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	in.baseDirs = append(in.baseDirs, dir)
}

// PopBaseDir pops the top entry; the initial working-directory entry is
// never popped.
func (in *Interpreter) PopBaseDir() {
	if len(in.baseDirs) > 1 {
		in.baseDirs = in.baseDirs[:len(in.baseDirs)-1]
	}
}

// resolveIncludePath returns the path to load: absolute paths verbatim,
// relative paths tried against the top of the base-directory stack and
// then the process working directory.
func (in *Interpreter) resolveIncludePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}

	base := in.baseDirs[len(in.baseDirs)-1]
	candidate := filepath.Join(base, path)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}

	cwd, err := os.Getwd()
	if err != nil {
		return path
	}
	return filepath.Join(cwd, path)
}

/* ---------- statement execution ---------- */

// Execute runs a statement sequence to completion. A top-level return is
// legal and stops the remaining statements without error.
func (in *Interpreter) Execute(stmts []Stmt) error {
	for _, s := range stmts {
		ctl, err := in.execStmt(s)
		if err != nil {
			return err
		}
		if ctl.returning {
			break
		}
	}
	return nil
}

// runBody executes a composite's children, yielding the first return
// signal to the caller without running subsequent siblings.
func (in *Interpreter) runBody(body []Stmt) (control, error) {
	for _, s := range body {
		ctl, err := in.execStmt(s)
		if err != nil {
			return proceed, err
		}
		if ctl.returning {
			return ctl, nil
		}
	}
	return proceed, nil
}

func (in *Interpreter) execStmt(s Stmt) (control, error) {
	switch st := s.(type) {
	case *AssignStmt:
		v, err := in.evalExpr(st.Value)
		if err != nil {
			return proceed, err
		}
		in.rt.SetVar(st.Var, v)
		return proceed, nil

	case *IndexAssignStmt:
		idxVal, err := in.evalExpr(st.Index)
		if err != nil {
			return proceed, err
		}
		v, err := in.evalExpr(st.Value)
		if err != nil {
			return proceed, err
		}
		arr := in.rt.GetVar(st.Var)
		// Out-of-range writes are silently ignored.
		if idx := idxVal.ToInt(); arr.Tag == VTArray && idx >= 0 && idx < int64(len(arr.Elems)) {
			arr.Elems[idx] = v
		}
		in.rt.SetVar(st.Var, arr)
		return proceed, nil

	case *IfStmt:
		return in.execIf(st)

	case *WhileStmt:
		for {
			cond, err := in.evalExpr(st.Cond)
			if err != nil {
				return proceed, err
			}
			if !cond.Truthy() {
				return proceed, nil
			}
			ctl, err := in.runBody(st.Body)
			if err != nil {
				return proceed, err
			}
			if ctl.returning {
				// A return inside the loop breaks it immediately.
				return ctl, nil
			}
		}

	case *PrintfStmt:
		return proceed, in.execPrintf(st)

	case *ReadStmt:
		line, err := in.stdin.ReadString('\n')
		if err != nil && line == "" {
			return proceed, fmt.Errorf("failed to read input: %w", err)
		}
		line = strings.TrimRight(line, "\r\n")
		in.rt.SetVar(st.Var, Str(line))
		return proceed, nil

	case *IncStmt:
		v, err := in.evalExpr(st.Value)
		if err != nil {
			return proceed, err
		}
		in.rt.SetVar(st.Var, in.rt.GetVar(st.Var).Add(v))
		return proceed, nil

	case *DecStmt:
		v, err := in.evalExpr(st.Value)
		if err != nil {
			return proceed, err
		}
		in.rt.SetVar(st.Var, in.rt.GetVar(st.Var).Sub(v))
		return proceed, nil

	case *PushStmt:
		v, err := in.evalExpr(st.Value)
		if err != nil {
			return proceed, err
		}
		arr := in.rt.GetVar(st.Array)
		if arr.Tag == VTArray {
			arr.Elems = append(arr.Elems, v)
		} else {
			// A non-list target is replaced, not wrapped.
			arr = Arr([]Value{v})
		}
		in.rt.SetVar(st.Array, arr)
		return proceed, nil

	case *PopStmt:
		arr := in.rt.GetVar(st.Array)
		if arr.Tag == VTArray && len(arr.Elems) > 0 {
			arr.Elems = arr.Elems[:len(arr.Elems)-1]
		}
		in.rt.SetVar(st.Array, arr)
		return proceed, nil

	case *ShiftStmt:
		arr := in.rt.GetVar(st.Array)
		if arr.Tag == VTArray && len(arr.Elems) > 0 {
			arr.Elems = arr.Elems[1:]
		}
		in.rt.SetVar(st.Array, arr)
		return proceed, nil

	case *UnshiftStmt:
		v, err := in.evalExpr(st.Value)
		if err != nil {
			return proceed, err
		}
		arr := in.rt.GetVar(st.Array)
		if arr.Tag == VTArray {
			arr.Elems = append([]Value{v}, arr.Elems...)
		} else {
			arr = Arr([]Value{v})
		}
		in.rt.SetVar(st.Array, arr)
		return proceed, nil

	case *SockopenStmt:
		host, err := in.evalExpr(st.Host)
		if err != nil {
			return proceed, err
		}
		port, err := in.evalExpr(st.Port)
		if err != nil {
			return proceed, err
		}
		addr := fmt.Sprintf("%s:%d", host.String(), port.ToInt())
		conn, err := in.Dial(addr)
		if err != nil {
			return proceed, fmt.Errorf("failed to connect to %s", addr)
		}
		in.rt.SetSocket(st.Name, conn)
		return proceed, nil

	case *SockcloseStmt:
		if c, ok := in.rt.Socket(st.Name); ok {
			c.Close()
		}
		in.rt.RemoveSocket(st.Name)
		return proceed, nil

	case *SockwriteStmt:
		data, err := in.evalExpr(st.Data)
		if err != nil {
			return proceed, err
		}
		if c, ok := in.rt.Socket(st.Name); ok {
			// Write errors are indistinguishable from success.
			_, _ = c.Write([]byte(data.String()))
		}
		return proceed, nil

	case *SockreadStmt:
		if c, ok := in.rt.Socket(st.Name); ok {
			buf := make([]byte, 1024)
			n, err := c.Read(buf)
			if err != nil {
				// Closed and errored reads both yield empty text.
				in.rt.SetVar(st.Var, Str(""))
			} else {
				in.rt.SetVar(st.Var, Str(string(buf[:n])))
			}
		}
		return proceed, nil

	case *IncludeStmt:
		return proceed, in.execInclude(st.Path)

	case *FuncDefStmt:
		in.rt.DefineFunc(st.Name, st.Body)
		return proceed, nil

	case *FuncCallStmt:
		return in.execFuncCall(st)

	case *ReturnStmt:
		if st.Value == nil {
			return control{returning: true, value: Nil}, nil
		}
		v, err := in.evalExpr(st.Value)
		if err != nil {
			return proceed, err
		}
		return control{returning: true, value: v}, nil
	}

	return proceed, nil
}

func (in *Interpreter) execIf(st *IfStmt) (control, error) {
	cond, err := in.evalExpr(st.Cond)
	if err != nil {
		return proceed, err
	}
	if cond.Truthy() {
		return in.runBody(st.Then)
	}

	for _, arm := range st.Elseifs {
		c, err := in.evalExpr(arm.Cond)
		if err != nil {
			return proceed, err
		}
		if c.Truthy() {
			return in.runBody(arm.Body)
		}
	}

	if st.Else != nil {
		return in.runBody(st.Else)
	}
	return proceed, nil
}

func (in *Interpreter) execPrintf(st *PrintfStmt) error {
	var out strings.Builder
	out.WriteString(st.Format)

	for _, arg := range st.Args {
		v, err := in.evalExpr(arg)
		if err != nil {
			return err
		}
		switch v.Tag {
		case VTInt, VTStr:
			out.WriteString(v.String())
		case VTArray:
			fmt.Fprintf(&out, "[Array(%d)]", len(v.Elems))
		}
		// Nil renders as nothing.
	}

	// Second unescaping pass over the assembled output: backslash
	// sequences that survived the lexer (doubly escaped, or carried in
	// argument values) expand here.
	text := strings.NewReplacer(`\n`, "\n", `\t`, "\t").Replace(out.String())

	fmt.Fprint(in.Stdout, text)
	if !strings.HasSuffix(text, "\n") {
		fmt.Fprintln(in.Stdout)
	}
	return nil
}

// execFuncCall runs a procedure invocation. The sleep builtin is checked
// ahead of the procedure table, so a user definition cannot shadow it. An
// unknown name is a diagnostic, not an error.
func (in *Interpreter) execFuncCall(st *FuncCallStmt) (control, error) {
	if st.Name == "sleep" {
		if len(st.Args) > 0 {
			v, err := in.evalExpr(st.Args[0])
			if err != nil {
				return proceed, err
			}
			time.Sleep(time.Duration(v.ToInt()) * time.Second)
		}
		return proceed, nil
	}

	body, ok := in.rt.Func(st.Name)
	if !ok {
		fmt.Fprintf(in.Diag, "Warning: function '%s' not defined\n", st.Name)
		return proceed, nil
	}

	// The invocation absorbs the body's return signal.
	if _, err := in.runBody(body); err != nil {
		return proceed, err
	}
	return proceed, nil
}

// execInclude loads, parses, and executes another source unit under the
// current runtime — full sharing, no isolation. The resolved parent
// directory is pushed for the duration of the inclusion and popped on
// every exit path.
func (in *Interpreter) execInclude(path string) error {
	resolved := in.resolveIncludePath(path)
	src, err := os.ReadFile(resolved)
	if err != nil {
		return fmt.Errorf("failed to include file: %w", err)
	}

	stmts := Parse(string(src))

	if dir := filepath.Dir(resolved); dir != "" {
		in.PushBaseDir(dir)
		defer in.PopBaseDir()
	}
	return in.Execute(stmts)
}

/* ---------- expression evaluation ---------- */

func (in *Interpreter) evalExpr(e Expr) (Value, error) {
	switch ex := e.(type) {
	case *IntLit:
		return Int(ex.Value), nil

	case *StrLit:
		return Str(ex.Value), nil

	case *VarRef:
		return in.rt.GetVar(ex.Name), nil

	case *BinaryExpr:
		left, err := in.evalExpr(ex.Left)
		if err != nil {
			return Nil, err
		}
		right, err := in.evalExpr(ex.Right)
		if err != nil {
			return Nil, err
		}
		return evalBinary(ex.Op, left, right), nil

	case *UnaryExpr:
		v, err := in.evalExpr(ex.Expr)
		if err != nil {
			return Nil, err
		}
		if ex.Op == OpNot {
			return Bool(!v.Truthy()), nil
		}
		return Int(-v.ToInt()), nil

	case *ArrayLit:
		elems := make([]Value, 0, len(ex.Elems))
		for _, el := range ex.Elems {
			v, err := in.evalExpr(el)
			if err != nil {
				return Nil, err
			}
			elems = append(elems, v)
		}
		return Arr(elems), nil

	case *IndexExpr:
		base, err := in.evalExpr(ex.Base)
		if err != nil {
			return Nil, err
		}
		idxVal, err := in.evalExpr(ex.Index)
		if err != nil {
			return Nil, err
		}
		return indexValue(base, idxVal.ToInt()), nil

	case *CallExpr:
		if fn, ok := exprBuiltins[ex.Name]; ok {
			return fn(in, ex.Args)
		}
		fmt.Fprintf(in.Diag, "Warning: unknown function '%s'\n", ex.Name)
		return Nil, nil
	}

	return Nil, nil
}

func evalBinary(op BinOp, left, right Value) Value {
	switch op {
	case OpAdd:
		return left.Add(right)
	case OpSub:
		return left.Sub(right)
	case OpMul:
		return left.Mul(right)
	case OpDiv:
		return left.Div(right)
	case OpMod:
		return left.Mod(right)
	case OpEq:
		return Bool(left.Equals(right))
	case OpNe:
		return Bool(!left.Equals(right))
	case OpLt:
		c, ok := left.Compare(right)
		return Bool(ok && c < 0)
	case OpLe:
		c, ok := left.Compare(right)
		return Bool(ok && c <= 0)
	case OpGt:
		c, ok := left.Compare(right)
		return Bool(ok && c > 0)
	case OpGe:
		c, ok := left.Compare(right)
		return Bool(ok && c >= 0)
	case OpAnd:
		return Bool(left.Truthy() && right.Truthy())
	case OpOr:
		return Bool(left.Truthy() || right.Truthy())
	}
	return Nil
}

// indexValue reads base[idx]: out-of-range and non-indexable bases yield
// Nil; text indexes by rune and yields a one-rune text.
func indexValue(base Value, idx int64) Value {
	if idx < 0 {
		return Nil
	}
	switch base.Tag {
	case VTArray:
		if idx < int64(len(base.Elems)) {
			return base.Elems[idx].Clone()
		}
	case VTStr:
		runes := []rune(base.Text)
		if idx < int64(len(runes)) {
			return Str(string(runes[idx]))
		}
	}
	return Nil
}
