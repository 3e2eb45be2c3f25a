// lexer.go — tokenizer for Minilux source text.
//
// The lexer is total: it never fails. Unrecognized characters are skipped,
// a backslash at end of input is dropped, and an unterminated string simply
// runs to EOF. Newlines are significant (statement separator, also drives
// indentation in the formatter); all other whitespace and '#'-to-end-of-line
// comments are discarded.
//
// Identifiers starting with '$' become VARIABLE tokens with the sigil
// stripped. Bare identifiers are matched exactly (case-sensitively) against
// the keyword table and its aliases; unmatched ones become VARIABLE tokens
// anyway — telling a bare procedure name from a variable is the parser's
// job, not ours.
package minilux

import "strconv"

// TokenType represents the kind of token.
type TokenType int

const (
	// Special
	EOF TokenType = iota
	NEWLINE

	// Literals
	INTEGER  // integer literal, value in Token.Num
	STRING   // string literal, decoded text in Token.Text
	VARIABLE // $name (sigil stripped) or bare identifier, name in Token.Text

	// Keywords
	IF
	ELSEIF
	ELSE
	WHILE
	PRINTF
	SHELL
	LEN
	SLEEP
	INC
	DEC
	ARRAY
	PUSH
	POP
	SHIFT
	UNSHIFT
	SOCKOPEN
	SOCKCLOSE
	SOCKWRITE
	SOCKREAD
	SOCKSTATUS
	READ
	LOWER
	UPPER
	NUMBER
	INCLUDE
	FUNC
	RETURN
	AND
	OR
	NOT

	// Operators
	PLUS
	MINUS
	MULT
	DIV
	MOD
	ASSIGN // "="
	EQ     // "=="
	NEQ    // "!="
	LESS
	LESS_EQ
	GREATER
	GREATER_EQ
	AMP  // single '&', reserved
	PIPE // single '|', reserved
	AT

	// Delimiters
	LCURLY
	RCURLY
	LROUND
	RROUND
	LSQUARE
	RSQUARE
	SEMICOLON
	COMMA
	PERIOD
)

// Token is an immutable lexical token. Text carries the decoded string
// literal or the identifier name; Num carries the integer literal value.
type Token struct {
	Type TokenType
	Text string
	Num  int64
}

// keywords maps canonical keyword spellings to token types. This is the
// single source of truth for the keyword <-> string mapping; TokenString
// renders the reverse direction.
var keywords = map[string]TokenType{
	"if":         IF,
	"elseif":     ELSEIF,
	"else":       ELSE,
	"while":      WHILE,
	"printf":     PRINTF,
	"shell":      SHELL,
	"len":        LEN,
	"sleep":      SLEEP,
	"inc":        INC,
	"dec":        DEC,
	"array":      ARRAY,
	"push":       PUSH,
	"pop":        POP,
	"shift":      SHIFT,
	"unshift":    UNSHIFT,
	"sockopen":   SOCKOPEN,
	"sockclose":  SOCKCLOSE,
	"sockwrite":  SOCKWRITE,
	"sockread":   SOCKREAD,
	"sockstatus": SOCKSTATUS,
	"read":       READ,
	"lower":      LOWER,
	"upper":      UPPER,
	"number":     NUMBER,
	"include":    INCLUDE,
	"func":       FUNC,
	"return":     RETURN,
	"AND":        AND,
	"OR":         OR,
}

// keywordAliases also resolve to keyword tokens but are not canonical
// output spellings (the formatter rewrites them).
var keywordAliases = map[string]TokenType{
	"print":    PRINTF,
	"strlen":   LEN,
	"function": FUNC,
	"not":      NOT,
}

// exprBuiltinTokens are the keyword tokens that act as expression-level
// builtin functions (called with parens). Shared by the parser and the
// formatter.
var exprBuiltinTokens = map[TokenType]bool{
	SHELL:  true,
	LEN:    true,
	LOWER:  true,
	UPPER:  true,
	NUMBER: true,
	PRINTF: true,
	SLEEP:  true,
}

// MatchKeyword resolves an identifier to a keyword token type, trying the
// canonical table first and the alias table second. Exact match only.
func MatchKeyword(name string) (TokenType, bool) {
	if t, ok := keywords[name]; ok {
		return t, true
	}
	if t, ok := keywordAliases[name]; ok {
		return t, true
	}
	return 0, false
}

// TokenString returns the canonical source spelling for a token type.
// Literal-carrying types and NEWLINE/EOF render as "".
func (t TokenType) TokenString() string {
	switch t {
	case IF:
		return "if"
	case ELSEIF:
		return "elseif"
	case ELSE:
		return "else"
	case WHILE:
		return "while"
	case PRINTF:
		return "printf"
	case SHELL:
		return "shell"
	case LEN:
		return "len"
	case SLEEP:
		return "sleep"
	case INC:
		return "inc"
	case DEC:
		return "dec"
	case ARRAY:
		return "array"
	case PUSH:
		return "push"
	case POP:
		return "pop"
	case SHIFT:
		return "shift"
	case UNSHIFT:
		return "unshift"
	case SOCKOPEN:
		return "sockopen"
	case SOCKCLOSE:
		return "sockclose"
	case SOCKWRITE:
		return "sockwrite"
	case SOCKREAD:
		return "sockread"
	case SOCKSTATUS:
		return "sockstatus"
	case READ:
		return "read"
	case LOWER:
		return "lower"
	case UPPER:
		return "upper"
	case NUMBER:
		return "number"
	case INCLUDE:
		return "include"
	case FUNC:
		return "func"
	case RETURN:
		return "return"
	case AND:
		return "AND"
	case OR:
		return "OR"
	case NOT:
		return "!"
	case PLUS:
		return "+"
	case MINUS:
		return "-"
	case MULT:
		return "*"
	case DIV:
		return "/"
	case MOD:
		return "%"
	case ASSIGN:
		return "="
	case EQ:
		return "=="
	case NEQ:
		return "!="
	case LESS:
		return "<"
	case LESS_EQ:
		return "<="
	case GREATER:
		return ">"
	case GREATER_EQ:
		return ">="
	case AMP:
		return "&"
	case PIPE:
		return "|"
	case AT:
		return "@"
	case LCURLY:
		return "{"
	case RCURLY:
		return "}"
	case LROUND:
		return "("
	case RROUND:
		return ")"
	case LSQUARE:
		return "["
	case RSQUARE:
		return "]"
	case SEMICOLON:
		return ";"
	case COMMA:
		return ","
	case PERIOD:
		return "."
	}
	return ""
}

// Lexer scans one source text left to right. Each tokenization pass is
// independent; no state is shared between passes.
type Lexer struct {
	src []rune
	pos int
}

// NewLexer returns a lexer over the given source text.
func NewLexer(src string) *Lexer {
	return &Lexer{src: []rune(src)}
}

// Tokenize scans the whole source in one pass, EOF token included.
func Tokenize(src string) []Token {
	l := NewLexer(src)
	var toks []Token
	for {
		t := l.Next()
		toks = append(toks, t)
		if t.Type == EOF {
			return toks
		}
	}
}

func (l *Lexer) cur() (rune, bool) {
	if l.pos >= len(l.src) {
		return 0, false
	}
	return l.src[l.pos], true
}

func (l *Lexer) advance() { l.pos++ }

func (l *Lexer) skipWhitespace() {
	for ch, ok := l.cur(); ok; ch, ok = l.cur() {
		if ch != ' ' && ch != '\t' && ch != '\r' {
			break
		}
		l.advance()
	}
}

func (l *Lexer) skipComment() {
	for ch, ok := l.cur(); ok && ch != '\n'; ch, ok = l.cur() {
		l.advance()
	}
}

// readString consumes a quoted literal, decoding backslash escapes. An
// unknown escape keeps the escaped character; a lone backslash at end of
// input is dropped.
func (l *Lexer) readString(quote rune) string {
	var out []rune
	l.advance() // opening quote
	for {
		ch, ok := l.cur()
		if !ok {
			break
		}
		if ch == quote {
			l.advance()
			break
		}
		if ch == '\\' {
			l.advance()
			esc, ok := l.cur()
			if !ok {
				break
			}
			switch esc {
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			case 'r':
				out = append(out, '\r')
			default:
				out = append(out, esc)
			}
			l.advance()
			continue
		}
		out = append(out, ch)
		l.advance()
	}
	return string(out)
}

func (l *Lexer) readNumber() int64 {
	start := l.pos
	for ch, ok := l.cur(); ok && ch >= '0' && ch <= '9'; ch, ok = l.cur() {
		l.advance()
	}
	n, err := strconv.ParseInt(string(l.src[start:l.pos]), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func (l *Lexer) readIdentifier() string {
	start := l.pos
	for ch, ok := l.cur(); ok && isIdentRune(ch); ch, ok = l.cur() {
		l.advance()
	}
	return string(l.src[start:l.pos])
}

func isIdentRune(ch rune) bool {
	return ch == '_' ||
		(ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z') ||
		(ch >= '0' && ch <= '9') ||
		ch > 127
}

func isIdentStart(ch rune) bool {
	return ch == '_' ||
		(ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z') ||
		ch > 127
}

// twoChar emits a two-character operator when the next rune matches, else
// the single-character fallback.
func (l *Lexer) twoChar(next rune, pair, single TokenType) Token {
	l.advance()
	if ch, ok := l.cur(); ok && ch == next {
		l.advance()
		return Token{Type: pair}
	}
	return Token{Type: single}
}

// Next returns the next token. At end of input it returns EOF forever.
func (l *Lexer) Next() Token {
	for {
		l.skipWhitespace()
		if ch, ok := l.cur(); ok && ch == '#' {
			l.skipComment()
			continue
		}
		break
	}

	ch, ok := l.cur()
	if !ok {
		return Token{Type: EOF}
	}

	switch ch {
	case '\n':
		l.advance()
		return Token{Type: NEWLINE}
	case '+':
		l.advance()
		return Token{Type: PLUS}
	case '-':
		l.advance()
		return Token{Type: MINUS}
	case '*':
		l.advance()
		return Token{Type: MULT}
	case '/':
		l.advance()
		return Token{Type: DIV}
	case '%':
		l.advance()
		return Token{Type: MOD}
	case '=':
		return l.twoChar('=', EQ, ASSIGN)
	case '!':
		return l.twoChar('=', NEQ, NOT)
	case '<':
		return l.twoChar('=', LESS_EQ, LESS)
	case '>':
		return l.twoChar('=', GREATER_EQ, GREATER)
	case '&':
		return l.twoChar('&', AND, AMP)
	case '|':
		return l.twoChar('|', OR, PIPE)
	case '$':
		l.advance()
		return Token{Type: VARIABLE, Text: l.readIdentifier()}
	case '@':
		l.advance()
		return Token{Type: AT}
	case '{':
		l.advance()
		return Token{Type: LCURLY}
	case '}':
		l.advance()
		return Token{Type: RCURLY}
	case '(':
		l.advance()
		return Token{Type: LROUND}
	case ')':
		l.advance()
		return Token{Type: RROUND}
	case '[':
		l.advance()
		return Token{Type: LSQUARE}
	case ']':
		l.advance()
		return Token{Type: RSQUARE}
	case ';':
		l.advance()
		return Token{Type: SEMICOLON}
	case ',':
		l.advance()
		return Token{Type: COMMA}
	case '.':
		l.advance()
		return Token{Type: PERIOD}
	case '"', '\'':
		return Token{Type: STRING, Text: l.readString(ch)}
	}

	if ch >= '0' && ch <= '9' {
		return Token{Type: INTEGER, Num: l.readNumber()}
	}
	if isIdentStart(ch) {
		ident := l.readIdentifier()
		if t, ok := MatchKeyword(ident); ok {
			return Token{Type: t}
		}
		return Token{Type: VARIABLE, Text: ident}
	}

	// Anything else is silently skipped.
	l.advance()
	return l.Next()
}
