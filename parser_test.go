// parser_test.go
package minilux

import (
	"reflect"
	"testing"
)

func wantStmts(t *testing.T, src string, want []Stmt) {
	t.Helper()
	got := Parse(src)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("\nsource:\n%s\nwant:\n%#v\ngot:\n%#v\n", src, want, got)
	}
}

func wantOneStmt(t *testing.T, src string, want Stmt) {
	t.Helper()
	wantStmts(t, src, []Stmt{want})
}

func Test_Parser_Assignment(t *testing.T) {
	wantOneStmt(t, `$x = 1`, &AssignStmt{Var: "x", Value: &IntLit{Value: 1}})
	wantOneStmt(t, `$msg = "hi";`, &AssignStmt{Var: "msg", Value: &StrLit{Value: "hi"}})
}

func Test_Parser_IndexAssignment(t *testing.T) {
	wantOneStmt(t, `$a[0] = 5`, &IndexAssignStmt{
		Var:   "a",
		Index: &IntLit{Value: 0},
		Value: &IntLit{Value: 5},
	})
}

func Test_Parser_ArithmeticPrecedence(t *testing.T) {
	wantOneStmt(t, `$x = 1 + 2 * 3`, &AssignStmt{
		Var: "x",
		Value: &BinaryExpr{
			Op:   OpAdd,
			Left: &IntLit{Value: 1},
			Right: &BinaryExpr{
				Op:    OpMul,
				Left:  &IntLit{Value: 2},
				Right: &IntLit{Value: 3},
			},
		},
	})
}

func Test_Parser_LeftAssociativity(t *testing.T) {
	wantOneStmt(t, `$x = 10 - 2 - 3`, &AssignStmt{
		Var: "x",
		Value: &BinaryExpr{
			Op: OpSub,
			Left: &BinaryExpr{
				Op:    OpSub,
				Left:  &IntLit{Value: 10},
				Right: &IntLit{Value: 2},
			},
			Right: &IntLit{Value: 3},
		},
	})
}

func Test_Parser_LogicalOperators(t *testing.T) {
	want := &AssignStmt{
		Var: "x",
		Value: &BinaryExpr{
			Op:    OpOr,
			Left:  &BinaryExpr{Op: OpAnd, Left: &IntLit{Value: 1}, Right: &IntLit{Value: 0}},
			Right: &IntLit{Value: 1},
		},
	}
	wantOneStmt(t, `$x = 1 AND 0 OR 1`, want)
	wantOneStmt(t, `$x = 1 && 0 || 1`, want)
}

func Test_Parser_SplitDoubledPipeReadsAsOr(t *testing.T) {
	wantOneStmt(t, `$x = 1 | | 0`, &AssignStmt{
		Var: "x",
		Value: &BinaryExpr{
			Op:    OpOr,
			Left:  &IntLit{Value: 1},
			Right: &IntLit{Value: 0},
		},
	})
}

func Test_Parser_SinglePipeEndsExpression(t *testing.T) {
	// A lone '|' is reserved: the expression stops before it and the rest
	// of the line is dropped.
	wantOneStmt(t, `$x = 1 | 0`, &AssignStmt{Var: "x", Value: &IntLit{Value: 1}})
}

func Test_Parser_UnaryBindsTighterThanIndexless(t *testing.T) {
	wantOneStmt(t, `$x = !$a[0]`, &AssignStmt{
		Var: "x",
		Value: &UnaryExpr{
			Op: OpNot,
			Expr: &IndexExpr{
				Base:  &VarRef{Name: "a"},
				Index: &IntLit{Value: 0},
			},
		},
	})
	wantOneStmt(t, `$x = -$y`, &AssignStmt{
		Var:   "x",
		Value: &UnaryExpr{Op: OpNeg, Expr: &VarRef{Name: "y"}},
	})
}

func Test_Parser_NestedIndexing(t *testing.T) {
	wantOneStmt(t, `$x = $a[1][2]`, &AssignStmt{
		Var: "x",
		Value: &IndexExpr{
			Base: &IndexExpr{
				Base:  &VarRef{Name: "a"},
				Index: &IntLit{Value: 1},
			},
			Index: &IntLit{Value: 2},
		},
	})
}

func Test_Parser_ArrayLiteral(t *testing.T) {
	wantOneStmt(t, `$a = [1, "two", $x]`, &AssignStmt{
		Var: "a",
		Value: &ArrayLit{Elems: []Expr{
			&IntLit{Value: 1},
			&StrLit{Value: "two"},
			&VarRef{Name: "x"},
		}},
	})
}

func Test_Parser_IfElseifElse(t *testing.T) {
	src := `
if ($x == 1) {
    printf("one");
} elseif ($x == 2) {
    printf("two");
} else {
    printf("many");
}
`
	wantOneStmt(t, src, &IfStmt{
		Cond: &BinaryExpr{Op: OpEq, Left: &VarRef{Name: "x"}, Right: &IntLit{Value: 1}},
		Then: []Stmt{&PrintfStmt{Format: "one"}},
		Elseifs: []ElseifClause{{
			Cond: &BinaryExpr{Op: OpEq, Left: &VarRef{Name: "x"}, Right: &IntLit{Value: 2}},
			Body: []Stmt{&PrintfStmt{Format: "two"}},
		}},
		Else: []Stmt{&PrintfStmt{Format: "many"}},
	})
}

func Test_Parser_While(t *testing.T) {
	wantOneStmt(t, `while ($i < 3) { inc $i + 1; }`, &WhileStmt{
		Cond: &BinaryExpr{Op: OpLt, Left: &VarRef{Name: "i"}, Right: &IntLit{Value: 3}},
		Body: []Stmt{&IncStmt{Var: "i", Value: &IntLit{Value: 1}}},
	})
}

func Test_Parser_PrintfFormatOnlyWhenFirstIsStringLiteral(t *testing.T) {
	wantOneStmt(t, `printf("x=", $x)`, &PrintfStmt{
		Format: "x=",
		Args:   []Expr{&VarRef{Name: "x"}},
	})
	// Non-literal first argument: empty format, everything is an argument.
	wantOneStmt(t, `printf($x, 1)`, &PrintfStmt{
		Args: []Expr{&VarRef{Name: "x"}, &IntLit{Value: 1}},
	})
}

func Test_Parser_IncDecRequireMatchingOperator(t *testing.T) {
	wantOneStmt(t, `inc $i + 1`, &IncStmt{Var: "i", Value: &IntLit{Value: 1}})
	wantOneStmt(t, `dec $i - 2`, &DecStmt{Var: "i", Value: &IntLit{Value: 2}})

	// `inc` with '-' (and vice versa) is malformed and vanishes.
	if got := Parse(`inc $i - 1`); len(got) != 0 {
		t.Fatalf("want no statements, got %#v", got)
	}
	if got := Parse(`dec $i + 1`); len(got) != 0 {
		t.Fatalf("want no statements, got %#v", got)
	}
}

func Test_Parser_ListOps(t *testing.T) {
	wantStmts(t, "push $a, 1\npop $a\nshift $a\nunshift $a, 2\n", []Stmt{
		&PushStmt{Array: "a", Value: &IntLit{Value: 1}},
		&PopStmt{Array: "a"},
		&ShiftStmt{Array: "a"},
		&UnshiftStmt{Array: "a", Value: &IntLit{Value: 2}},
	})
}

func Test_Parser_SocketStatements(t *testing.T) {
	wantStmts(t, `
sockopen("h", "localhost", 8080)
sockwrite("h", "ping")
sockread("h", $reply)
sockclose("h")
`, []Stmt{
		&SockopenStmt{Name: "h", Host: &StrLit{Value: "localhost"}, Port: &IntLit{Value: 8080}},
		&SockwriteStmt{Name: "h", Data: &StrLit{Value: "ping"}},
		&SockreadStmt{Name: "h", Var: "reply"},
		&SockcloseStmt{Name: "h"},
	})
}

func Test_Parser_SocketHandleMustBeLiteral(t *testing.T) {
	if got := Parse(`sockclose($h)`); len(got) != 0 {
		t.Fatalf("want no statements, got %#v", got)
	}
}

func Test_Parser_Include(t *testing.T) {
	wantOneStmt(t, `include "lib.mlx"`, &IncludeStmt{Path: "lib.mlx"})
}

func Test_Parser_FuncDefAndReturn(t *testing.T) {
	wantOneStmt(t, `func answer() { return 42; }`, &FuncDefStmt{
		Name: "answer",
		Body: []Stmt{&ReturnStmt{Value: &IntLit{Value: 42}}},
	})
	// Parameter list is optional; `function` is an alias.
	wantOneStmt(t, "function bare {\nreturn\n}", &FuncDefStmt{
		Name: "bare",
		Body: []Stmt{&ReturnStmt{}},
	})
}

func Test_Parser_CallForms(t *testing.T) {
	wantOneStmt(t, `greet;`, &FuncCallStmt{Name: "greet"})
	wantOneStmt(t, "greet\n", &FuncCallStmt{Name: "greet"})

	// The braced form parses the inline body for recovery but discards it.
	wantOneStmt(t, `greet { printf("ignored"); }`, &FuncCallStmt{Name: "greet"})
}

func Test_Parser_SleepBecomesCallStatement(t *testing.T) {
	wantOneStmt(t, `sleep(2)`, &FuncCallStmt{
		Name: "sleep",
		Args: []Expr{&IntLit{Value: 2}},
	})
}

func Test_Parser_ExpressionBuiltins(t *testing.T) {
	wantOneStmt(t, `$n = len($s)`, &AssignStmt{
		Var:   "n",
		Value: &CallExpr{Name: "len", Args: []Expr{&VarRef{Name: "s"}}},
	})
	wantOneStmt(t, `$out = shell("uptime")`, &AssignStmt{
		Var:   "out",
		Value: &CallExpr{Name: "shell", Args: []Expr{&StrLit{Value: "uptime"}}},
	})
}

func Test_Parser_BuiltinWithoutParensDegrades(t *testing.T) {
	wantOneStmt(t, `$n = len`, &AssignStmt{Var: "n", Value: &IntLit{}})
	wantOneStmt(t, `$s = upper`, &AssignStmt{Var: "s", Value: &StrLit{}})
}

func Test_Parser_UserCallInExpression(t *testing.T) {
	wantOneStmt(t, `$x = compute(1, "a")`, &AssignStmt{
		Var: "x",
		Value: &CallExpr{
			Name: "compute",
			Args: []Expr{&IntLit{Value: 1}, &StrLit{Value: "a"}},
		},
	})
}

func Test_Parser_MalformedInputIsSwallowed(t *testing.T) {
	cases := []string{
		`if (1)`,        // missing body
		`while 1 { }`,   // missing parens
		`sockopen("h")`, // missing host and port
		`read(5)`,       // non-variable operand
		`+ * /`,         // operator soup
		`func`,          // missing name
		`include`,       // missing path
	}
	for _, src := range cases {
		if got := Parse(src); len(got) != 0 {
			t.Fatalf("source %q: want no statements, got %#v", src, got)
		}
	}

	// `$x =` still parses: the missing value degrades to the zero literal.
	wantOneStmt(t, `$x =`, &AssignStmt{Var: "x", Value: &IntLit{}})
}

func Test_Parser_StrayElseifAndElseDropped(t *testing.T) {
	// A stray arm is skipped; its block contents then parse as top-level
	// statements.
	wantOneStmt(t, `else { printf("x") }`, &PrintfStmt{Format: "x"})
}

func Test_Parser_RecoveryContinuesAfterGarbage(t *testing.T) {
	wantStmts(t, "if (1)\n$x = 7\n", []Stmt{
		&AssignStmt{Var: "x", Value: &IntLit{Value: 7}},
	})
}

func Test_Parser_EmptySource(t *testing.T) {
	if got := Parse("\n\n  # only a comment\n"); got != nil {
		t.Fatalf("want nil, got %#v", got)
	}
}
