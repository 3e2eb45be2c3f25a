// parser.go — recursive-descent parser for Minilux.
//
// The parser never fails: a malformed construct degrades to nil and simply
// contributes no statement, and parsing continues with the remaining
// tokens. This best-effort recovery is a language property, not an
// accident — callers cannot observe a parse error, only a shorter program.
//
// Statement kinds dispatch on the leading token. Keyword-led forms parse
// directly; a leading VARIABLE token needs one token of lookahead:
//
//	name {        procedure call with a literal-brace body (body parsed,
//	              then ignored — invocation resolves via the global table)
//	name = / [    assignment (plain or indexed)
//	name ; / \n   bare procedure call
//	otherwise     assignment attempt
//
// Expressions use a precedence-climbing chain, strictly left-associative:
// or → and → equality → comparison → additive → multiplicative → unary →
// postfix-index → primary. Expression builtins (len, number, sleep, shell,
// lower, upper) are dedicated primary productions; when their parenthesis
// is missing they degrade to a default literal instead of erroring.
package minilux

// Parser consumes one token sequence left to right.
type Parser struct {
	toks []Token
	pos  int
}

// NewParser tokenizes src and returns a parser over the result.
func NewParser(src string) *Parser {
	return &Parser{toks: Tokenize(src)}
}

// Parse is the convenience entry point: source text to statements.
func Parse(src string) []Stmt {
	return NewParser(src).Parse()
}

var eofToken = Token{Type: EOF}

func (p *Parser) cur() Token {
	if p.pos >= len(p.toks) {
		return eofToken
	}
	return p.toks[p.pos]
}

func (p *Parser) peekAt(n int) Token {
	if p.pos+n >= len(p.toks) {
		return eofToken
	}
	return p.toks[p.pos+n]
}

func (p *Parser) advance() { p.pos++ }

// expect consumes the current token iff it has the wanted type.
func (p *Parser) expect(t TokenType) bool {
	if p.cur().Type == t {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) skipNewlines() {
	for p.cur().Type == NEWLINE {
		p.advance()
	}
}

// skipStatementEnd consumes an optional semicolon and any trailing
// newlines.
func (p *Parser) skipStatementEnd() {
	if p.cur().Type == SEMICOLON {
		p.advance()
	}
	p.skipNewlines()
}

// Parse consumes the whole token sequence and returns the statements that
// parsed successfully.
func (p *Parser) Parse() []Stmt {
	var stmts []Stmt
	p.skipNewlines()

	for p.cur().Type != EOF {
		p.skipNewlines()
		if p.cur().Type == EOF {
			break
		}
		if s := p.parseStatement(); s != nil {
			stmts = append(stmts, s)
		}
		p.skipNewlines()
	}
	return stmts
}

func (p *Parser) parseStatement() Stmt {
	p.skipNewlines()

	switch p.cur().Type {
	case IF:
		return p.parseIf()
	case WHILE:
		return p.parseWhile()
	case PRINTF:
		return p.parsePrintf()
	case READ:
		return p.parseRead()
	case INC:
		return p.parseIncDec(PLUS)
	case DEC:
		return p.parseIncDec(MINUS)
	case PUSH:
		return p.parseListOp(PUSH)
	case POP:
		return p.parseListOp(POP)
	case SHIFT:
		return p.parseListOp(SHIFT)
	case UNSHIFT:
		return p.parseListOp(UNSHIFT)
	case SOCKOPEN:
		return p.parseSockopen()
	case SOCKCLOSE:
		return p.parseSockclose()
	case SOCKWRITE:
		return p.parseSockwrite()
	case SOCKREAD:
		return p.parseSockread()
	case INCLUDE:
		return p.parseInclude()
	case FUNC:
		return p.parseFuncDef()
	case RETURN:
		return p.parseReturn()
	case SLEEP:
		return p.parseSleep()
	case ELSEIF, ELSE:
		// Stray arms the preceding if should have consumed; drop them
		// rather than erroring.
		p.advance()
		return nil
	case VARIABLE:
		name := p.cur().Text
		switch p.peekAt(1).Type {
		case LCURLY:
			return p.parseFuncCallBraced()
		case ASSIGN, LSQUARE:
			return p.parseAssignment()
		case SEMICOLON, NEWLINE, EOF:
			p.advance()
			p.skipStatementEnd()
			return &FuncCallStmt{Name: name}
		default:
			return p.parseAssignment()
		}
	default:
		p.advance()
		return nil
	}
}

func (p *Parser) parseIf() Stmt {
	p.advance()

	if !p.expect(LROUND) {
		return nil
	}
	cond := p.parseExpr()
	if !p.expect(RROUND) {
		return nil
	}
	if !p.expect(LCURLY) {
		return nil
	}
	then := p.parseBlock()

	var elseifs []ElseifClause
	var elseBody []Stmt

	p.skipNewlines()
	for p.cur().Type == ELSEIF {
		p.advance()
		if !p.expect(LROUND) {
			break
		}
		c := p.parseExpr()
		if !p.expect(RROUND) {
			break
		}
		if !p.expect(LCURLY) {
			break
		}
		elseifs = append(elseifs, ElseifClause{Cond: c, Body: p.parseBlock()})
		p.skipNewlines()
	}

	if p.cur().Type == ELSE {
		p.advance()
		if p.expect(LCURLY) {
			elseBody = p.parseBlock()
		}
	}

	return &IfStmt{Cond: cond, Then: then, Elseifs: elseifs, Else: elseBody}
}

func (p *Parser) parseWhile() Stmt {
	p.advance()

	if !p.expect(LROUND) {
		return nil
	}
	cond := p.parseExpr()
	if !p.expect(RROUND) {
		return nil
	}
	if !p.expect(LCURLY) {
		return nil
	}
	return &WhileStmt{Cond: cond, Body: p.parseBlock()}
}

// parseBlock consumes statements up to the closing brace (or EOF).
func (p *Parser) parseBlock() []Stmt {
	var stmts []Stmt
	p.skipNewlines()

	for p.cur().Type != RCURLY && p.cur().Type != EOF {
		p.skipNewlines()
		if p.cur().Type == RCURLY {
			break
		}
		if s := p.parseStatement(); s != nil {
			stmts = append(stmts, s)
		}
		p.skipNewlines()
	}
	p.expect(RCURLY)
	return stmts
}

func (p *Parser) parseAssignment() Stmt {
	if p.cur().Type != VARIABLE {
		return nil
	}
	name := p.cur().Text
	p.advance()

	if p.cur().Type == LSQUARE {
		p.advance()
		index := p.parseExpr()
		if !p.expect(RSQUARE) {
			return nil
		}
		if !p.expect(ASSIGN) {
			return nil
		}
		value := p.parseExpr()
		p.skipStatementEnd()
		return &IndexAssignStmt{Var: name, Index: index, Value: value}
	}

	if !p.expect(ASSIGN) {
		return nil
	}
	value := p.parseExpr()
	p.skipStatementEnd()
	return &AssignStmt{Var: name, Value: value}
}

func (p *Parser) parsePrintf() Stmt {
	p.advance()

	if !p.expect(LROUND) {
		return nil
	}

	first := p.parseExpr()
	var format string
	var args []Expr

	// The first argument is the format only when it is a string literal;
	// anything else becomes a plain argument with an empty format.
	if s, ok := first.(*StrLit); ok {
		format = s.Value
	} else {
		args = append(args, first)
	}

	for p.cur().Type == COMMA {
		p.advance()
		args = append(args, p.parseExpr())
	}

	if !p.expect(RROUND) {
		return nil
	}
	p.skipStatementEnd()
	return &PrintfStmt{Format: format, Args: args}
}

func (p *Parser) parseRead() Stmt {
	p.advance()

	if !p.expect(LROUND) {
		return nil
	}
	if p.cur().Type != VARIABLE {
		return nil
	}
	name := p.cur().Text
	p.advance()
	if !p.expect(RROUND) {
		return nil
	}
	p.skipStatementEnd()
	return &ReadStmt{Var: name}
}

// parseIncDec handles `inc $x + expr` and `dec $x - expr`; op selects the
// required operator token.
func (p *Parser) parseIncDec(op TokenType) Stmt {
	inc := p.cur().Type == INC
	p.advance()

	if p.cur().Type != VARIABLE {
		return nil
	}
	name := p.cur().Text
	p.advance()

	if !p.expect(op) {
		return nil
	}
	value := p.parseExpr()
	p.skipStatementEnd()

	if inc {
		return &IncStmt{Var: name, Value: value}
	}
	return &DecStmt{Var: name, Value: value}
}

// parseListOp handles push/pop/shift/unshift; push and unshift carry a
// comma-separated value.
func (p *Parser) parseListOp(kind TokenType) Stmt {
	p.advance()

	if p.cur().Type != VARIABLE {
		return nil
	}
	name := p.cur().Text
	p.advance()

	switch kind {
	case POP:
		p.skipStatementEnd()
		return &PopStmt{Array: name}
	case SHIFT:
		p.skipStatementEnd()
		return &ShiftStmt{Array: name}
	}

	if !p.expect(COMMA) {
		return nil
	}
	value := p.parseExpr()
	p.skipStatementEnd()

	if kind == PUSH {
		return &PushStmt{Array: name, Value: value}
	}
	return &UnshiftStmt{Array: name, Value: value}
}

// sockHandleName consumes the literal handle name common to all socket
// forms.
func (p *Parser) sockHandleName() (string, bool) {
	if p.cur().Type != STRING {
		return "", false
	}
	name := p.cur().Text
	p.advance()
	return name, true
}

func (p *Parser) parseSockopen() Stmt {
	p.advance()

	if !p.expect(LROUND) {
		return nil
	}
	name, ok := p.sockHandleName()
	if !ok {
		return nil
	}
	if !p.expect(COMMA) {
		return nil
	}
	host := p.parseExpr()
	if !p.expect(COMMA) {
		return nil
	}
	port := p.parseExpr()
	if !p.expect(RROUND) {
		return nil
	}
	p.skipStatementEnd()
	return &SockopenStmt{Name: name, Host: host, Port: port}
}

func (p *Parser) parseSockclose() Stmt {
	p.advance()

	if !p.expect(LROUND) {
		return nil
	}
	name, ok := p.sockHandleName()
	if !ok {
		return nil
	}
	if !p.expect(RROUND) {
		return nil
	}
	p.skipStatementEnd()
	return &SockcloseStmt{Name: name}
}

func (p *Parser) parseSockwrite() Stmt {
	p.advance()

	if !p.expect(LROUND) {
		return nil
	}
	name, ok := p.sockHandleName()
	if !ok {
		return nil
	}
	if !p.expect(COMMA) {
		return nil
	}
	data := p.parseExpr()
	if !p.expect(RROUND) {
		return nil
	}
	p.skipStatementEnd()
	return &SockwriteStmt{Name: name, Data: data}
}

func (p *Parser) parseSockread() Stmt {
	p.advance()

	if !p.expect(LROUND) {
		return nil
	}
	name, ok := p.sockHandleName()
	if !ok {
		return nil
	}
	if !p.expect(COMMA) {
		return nil
	}
	if p.cur().Type != VARIABLE {
		return nil
	}
	varName := p.cur().Text
	p.advance()
	if !p.expect(RROUND) {
		return nil
	}
	p.skipStatementEnd()
	return &SockreadStmt{Name: name, Var: varName}
}

func (p *Parser) parseInclude() Stmt {
	p.advance()

	if p.cur().Type != STRING {
		return nil
	}
	path := p.cur().Text
	p.advance()
	p.skipStatementEnd()
	return &IncludeStmt{Path: path}
}

// parseSleep turns statement-position `sleep(expr)` into a call statement;
// the evaluator special-cases the name ahead of the procedure table.
func (p *Parser) parseSleep() Stmt {
	p.advance()

	if !p.expect(LROUND) {
		return nil
	}
	seconds := p.parseExpr()
	if !p.expect(RROUND) {
		return nil
	}
	p.skipStatementEnd()
	return &FuncCallStmt{Name: SLEEP.TokenString(), Args: []Expr{seconds}}
}

func (p *Parser) parseFuncDef() Stmt {
	p.advance()

	if p.cur().Type != VARIABLE {
		return nil
	}
	name := p.cur().Text
	p.advance()

	// Tolerate an empty parameter list.
	if p.cur().Type == LROUND {
		p.advance()
		p.expect(RROUND)
	}

	if !p.expect(LCURLY) {
		return nil
	}
	return &FuncDefStmt{Name: name, Body: p.parseBlock()}
}

func (p *Parser) parseReturn() Stmt {
	p.advance()

	var value Expr
	if t := p.cur().Type; t != SEMICOLON && t != NEWLINE && t != EOF {
		value = p.parseExpr()
	}
	p.skipStatementEnd()
	return &ReturnStmt{Value: value}
}

// parseFuncCallBraced handles `name { ... }`: the inline body is parsed
// for recovery but discarded — invocation always resolves through the
// global procedure table.
func (p *Parser) parseFuncCallBraced() Stmt {
	if p.cur().Type != VARIABLE {
		return nil
	}
	name := p.cur().Text
	p.advance()

	if p.expect(LCURLY) {
		p.parseBlock()
		return &FuncCallStmt{Name: name}
	}

	p.skipStatementEnd()
	return &FuncCallStmt{Name: name}
}

/* ---------- expressions ---------- */

func (p *Parser) parseExpr() Expr {
	return p.parseOr()
}

func (p *Parser) parseOr() Expr {
	left := p.parseAnd()

	for p.cur().Type == OR || p.cur().Type == PIPE {
		// A single '|' is reserved; only a doubled form written with an
		// interior space ("| |") reads as or.
		if p.cur().Type == PIPE {
			if p.peekAt(1).Type != PIPE {
				break
			}
			p.advance()
		}
		p.advance()
		right := p.parseAnd()
		left = &BinaryExpr{Op: OpOr, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseAnd() Expr {
	left := p.parseEquality()

	for p.cur().Type == AND || p.cur().Type == AMP {
		if p.cur().Type == AMP {
			if p.peekAt(1).Type != AMP {
				break
			}
			p.advance()
		}
		p.advance()
		right := p.parseEquality()
		left = &BinaryExpr{Op: OpAnd, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseEquality() Expr {
	left := p.parseComparison()

	for {
		var op BinOp
		switch p.cur().Type {
		case EQ:
			op = OpEq
		case NEQ:
			op = OpNe
		default:
			return left
		}
		p.advance()
		right := p.parseComparison()
		left = &BinaryExpr{Op: op, Left: left, Right: right}
	}
}

func (p *Parser) parseComparison() Expr {
	left := p.parseAdditive()

	for {
		var op BinOp
		switch p.cur().Type {
		case LESS:
			op = OpLt
		case LESS_EQ:
			op = OpLe
		case GREATER:
			op = OpGt
		case GREATER_EQ:
			op = OpGe
		default:
			return left
		}
		p.advance()
		right := p.parseAdditive()
		left = &BinaryExpr{Op: op, Left: left, Right: right}
	}
}

func (p *Parser) parseAdditive() Expr {
	left := p.parseMultiplicative()

	for {
		var op BinOp
		switch p.cur().Type {
		case PLUS:
			op = OpAdd
		case MINUS:
			op = OpSub
		default:
			return left
		}
		p.advance()
		right := p.parseMultiplicative()
		left = &BinaryExpr{Op: op, Left: left, Right: right}
	}
}

func (p *Parser) parseMultiplicative() Expr {
	left := p.parseUnary()

	for {
		var op BinOp
		switch p.cur().Type {
		case MULT:
			op = OpMul
		case DIV:
			op = OpDiv
		case MOD:
			op = OpMod
		default:
			return left
		}
		p.advance()
		right := p.parseUnary()
		left = &BinaryExpr{Op: op, Left: left, Right: right}
	}
}

func (p *Parser) parseUnary() Expr {
	switch p.cur().Type {
	case NOT:
		p.advance()
		return &UnaryExpr{Op: OpNot, Expr: p.parseUnary()}
	case MINUS:
		p.advance()
		return &UnaryExpr{Op: OpNeg, Expr: p.parseUnary()}
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() Expr {
	expr := p.parsePrimary()

	for p.cur().Type == LSQUARE {
		p.advance()
		index := p.parseExpr()
		p.expect(RSQUARE)
		expr = &IndexExpr{Base: expr, Index: index}
	}
	return expr
}

// parseBuiltinCall parses an expression-builtin's parenthesized argument.
// A missing parenthesis degrades to def rather than erroring.
func (p *Parser) parseBuiltinCall(tok TokenType, def Expr) Expr {
	p.advance()
	if p.expect(LROUND) {
		arg := p.parseExpr()
		p.expect(RROUND)
		return &CallExpr{Name: tok.TokenString(), Args: []Expr{arg}}
	}
	return def
}

func (p *Parser) parsePrimary() Expr {
	switch tok := p.cur(); tok.Type {
	case INTEGER:
		p.advance()
		return &IntLit{Value: tok.Num}
	case STRING:
		p.advance()
		return &StrLit{Value: tok.Text}
	case LEN, NUMBER, SLEEP:
		return p.parseBuiltinCall(tok.Type, &IntLit{})
	case SHELL, LOWER, UPPER:
		return p.parseBuiltinCall(tok.Type, &StrLit{})
	case VARIABLE:
		p.advance()
		if p.cur().Type != LROUND {
			return &VarRef{Name: tok.Text}
		}
		p.advance()
		var args []Expr
		for p.cur().Type != RROUND && p.cur().Type != EOF {
			args = append(args, p.parseExpr())
			if p.cur().Type == COMMA {
				p.advance()
			}
		}
		p.expect(RROUND)
		return &CallExpr{Name: tok.Text, Args: args}
	case LROUND:
		p.advance()
		expr := p.parseExpr()
		p.expect(RROUND)
		return expr
	case LSQUARE:
		p.advance()
		var elems []Expr
		for p.cur().Type != RSQUARE && p.cur().Type != EOF {
			elems = append(elems, p.parseExpr())
			if p.cur().Type == COMMA {
				p.advance()
			}
		}
		p.expect(RSQUARE)
		return &ArrayLit{Elems: elems}
	default:
		p.advance()
		return &IntLit{}
	}
}
