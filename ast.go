// ast.go — statement and expression nodes produced by the parser.
//
// Nodes are pure data: no node holds runtime state, trees are owned by
// their parent and never shared. Both hierarchies are closed variants in
// the marker-interface style.
package minilux

// Expr is an expression node.
type Expr interface{ exprNode() }

// BinOp enumerates binary operators.
type BinOp int

const (
	OpAdd BinOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd
	OpOr
)

// UnaryOp enumerates unary operators.
type UnaryOp int

const (
	OpNot UnaryOp = iota
	OpNeg
)

type (
	// IntLit is an integer literal.
	IntLit struct{ Value int64 }

	// StrLit is a text literal (escapes already decoded).
	StrLit struct{ Value string }

	// VarRef reads a variable by name (sigil stripped).
	VarRef struct{ Name string }

	// BinaryExpr applies a binary operator, strictly left-associative.
	BinaryExpr struct {
		Op    BinOp
		Left  Expr
		Right Expr
	}

	// UnaryExpr applies not/negate to one operand.
	UnaryExpr struct {
		Op   UnaryOp
		Expr Expr
	}

	// ArrayLit is an ordered list literal.
	ArrayLit struct{ Elems []Expr }

	// IndexExpr is a postfix base[index] access.
	IndexExpr struct {
		Base  Expr
		Index Expr
	}

	// CallExpr calls a builtin or user procedure by name in expression
	// position. Builtin dispatch happens at evaluation time.
	CallExpr struct {
		Name string
		Args []Expr
	}
)

func (*IntLit) exprNode()     {}
func (*StrLit) exprNode()     {}
func (*VarRef) exprNode()     {}
func (*BinaryExpr) exprNode() {}
func (*UnaryExpr) exprNode()  {}
func (*ArrayLit) exprNode()   {}
func (*IndexExpr) exprNode()  {}
func (*CallExpr) exprNode()   {}

// Stmt is a statement node. Bodies are owned ordered sequences.
type Stmt interface{ stmtNode() }

type (
	// AssignStmt is `$x = expr`.
	AssignStmt struct {
		Var   string
		Value Expr
	}

	// IndexAssignStmt is `$x[index] = expr`.
	IndexAssignStmt struct {
		Var   string
		Index Expr
		Value Expr
	}

	// ElseifClause is one `elseif (cond) { body }` arm.
	ElseifClause struct {
		Cond Expr
		Body []Stmt
	}

	// IfStmt is the conditional with optional elseif chain and else body
	// (nil means no else).
	IfStmt struct {
		Cond    Expr
		Then    []Stmt
		Elseifs []ElseifClause
		Else    []Stmt
	}

	// WhileStmt re-evaluates Cond before each pass over Body.
	WhileStmt struct {
		Cond Expr
		Body []Stmt
	}

	// PrintfStmt prints Format followed by each argument's rendering.
	PrintfStmt struct {
		Format string
		Args   []Expr
	}

	// ReadStmt blocks on one stdin line into Var.
	ReadStmt struct{ Var string }

	// IncStmt is `inc $x + expr` (additive, text-concatenating).
	IncStmt struct {
		Var   string
		Value Expr
	}

	// DecStmt is `dec $x - expr` (integer-only subtraction).
	DecStmt struct {
		Var   string
		Value Expr
	}

	// PushStmt appends to a list variable.
	PushStmt struct {
		Array string
		Value Expr
	}

	// PopStmt removes the last element of a list variable.
	PopStmt struct{ Array string }

	// ShiftStmt removes the first element of a list variable.
	ShiftStmt struct{ Array string }

	// UnshiftStmt prepends to a list variable.
	UnshiftStmt struct {
		Array string
		Value Expr
	}

	// SockopenStmt opens a TCP connection under a literal handle name.
	SockopenStmt struct {
		Name string
		Host Expr
		Port Expr
	}

	// SockcloseStmt closes and forgets a handle.
	SockcloseStmt struct{ Name string }

	// SockwriteStmt writes Data to the named handle.
	SockwriteStmt struct {
		Name string
		Data Expr
	}

	// SockreadStmt reads one buffer from the named handle into Var.
	SockreadStmt struct {
		Name string
		Var  string
	}

	// IncludeStmt executes another source unit under the shared runtime.
	IncludeStmt struct{ Path string }

	// FuncDefStmt (re)defines a zero-argument procedure.
	FuncDefStmt struct {
		Name string
		Body []Stmt
	}

	// FuncCallStmt invokes a procedure by name in statement position.
	// Args are parsed at some call sites but not consumed by procedures.
	FuncCallStmt struct {
		Name string
		Args []Expr
	}

	// ReturnStmt unwinds to the enclosing procedure invocation (or ends
	// top-level execution). Value nil means `return` with no expression.
	ReturnStmt struct{ Value Expr }
)

func (*AssignStmt) stmtNode()      {}
func (*IndexAssignStmt) stmtNode() {}
func (*IfStmt) stmtNode()          {}
func (*WhileStmt) stmtNode()       {}
func (*PrintfStmt) stmtNode()      {}
func (*ReadStmt) stmtNode()        {}
func (*IncStmt) stmtNode()         {}
func (*DecStmt) stmtNode()         {}
func (*PushStmt) stmtNode()        {}
func (*PopStmt) stmtNode()         {}
func (*ShiftStmt) stmtNode()       {}
func (*UnshiftStmt) stmtNode()     {}
func (*SockopenStmt) stmtNode()    {}
func (*SockcloseStmt) stmtNode()   {}
func (*SockwriteStmt) stmtNode()   {}
func (*SockreadStmt) stmtNode()    {}
func (*IncludeStmt) stmtNode()     {}
func (*FuncDefStmt) stmtNode()     {}
func (*FuncCallStmt) stmtNode()    {}
func (*ReturnStmt) stmtNode()      {}
