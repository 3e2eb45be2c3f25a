// formatter.go — the Minilux source formatter.
//
// Formatting is line oriented: each line keeps its comments, indentation
// is rebuilt from brace structure (4 spaces per level), runs of blank
// lines collapse to one, and code is re-printed from its tokens with
// canonical spacing. Keyword spellings are normalized case-insensitively
// here (the lexer itself matches exactly), and '$' positions are tracked
// against the raw text so bare identifiers do not grow a sigil on output.
// Formatting is idempotent.
package minilux

import (
	"strconv"
	"strings"
)

// tryKeyword is the case-insensitive keyword lookup used only for
// normalizing misspelled keywords on output.
func tryKeyword(name string) (TokenType, bool) {
	lower := strings.ToLower(name)
	for kw, t := range keywords {
		if lower == strings.ToLower(kw) {
			return t, true
		}
	}
	for kw, t := range keywordAliases {
		if lower == strings.ToLower(kw) {
			return t, true
		}
	}
	return 0, false
}

// scanOutsideStrings walks a line byte-by-byte, calling visit for each
// byte index outside string literals. Returns visit's first hit.
func scanOutsideStrings(line string, visit func(i int, ch byte) (int, bool)) (int, bool) {
	inDouble := false
	inSingle := false
	escape := false

	for i := 0; i < len(line); i++ {
		ch := line[i]
		if escape {
			escape = false
			continue
		}
		if ch == '\\' && (inDouble || inSingle) {
			escape = true
			continue
		}
		switch {
		case ch == '"' && !inSingle:
			inDouble = !inDouble
		case ch == '\'' && !inDouble:
			inSingle = !inSingle
		case !inDouble && !inSingle:
			if r, ok := visit(i, ch); ok {
				return r, true
			}
		}
	}
	return 0, false
}

// findCommentStart locates the '#' comment marker outside string
// literals.
func findCommentStart(line string) (int, bool) {
	return scanOutsideStrings(line, func(i int, ch byte) (int, bool) {
		if ch == '#' {
			return i, true
		}
		return 0, false
	})
}

// findDollarPositions collects the byte offsets of '$' outside string
// literals.
func findDollarPositions(code string) map[int]bool {
	positions := map[int]bool{}
	scanOutsideStrings(code, func(i int, ch byte) (int, bool) {
		if ch == '$' {
			positions[i] = true
		}
		return 0, false
	})
	return positions
}

// buildIndentMap assigns a brace-depth indent level to every line.
func buildIndentMap(lines []string) []int {
	indents := make([]int, 0, len(lines))
	current := 0

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		code := trimmed
		if pos, ok := findCommentStart(trimmed); ok {
			code = strings.TrimSpace(trimmed[:pos])
		}

		if code == "" {
			indents = append(indents, max(current, 0))
			continue
		}

		if strings.HasPrefix(code, "}") {
			current--
		}
		indents = append(indents, max(current, 0))
		if strings.HasSuffix(code, "{") {
			current++
		}
	}
	return indents
}

// fmtToken is a formatting token: a lexed token, or a bare identifier
// that must not be re-printed with a '$' sigil.
type fmtToken struct {
	tok  Token
	bare bool
}

func (f fmtToken) output() string {
	if f.bare {
		return f.tok.Text
	}
	switch f.tok.Type {
	case INTEGER:
		return strconv.FormatInt(f.tok.Num, 10)
	case STRING:
		return quoteLiteral(f.tok.Text)
	case VARIABLE:
		return "$" + f.tok.Text
	}
	return f.tok.Type.TokenString()
}

func quoteLiteral(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		"\n", `\n`,
		"\t", `\t`,
		"\r", `\r`,
		`"`, `\"`,
	)
	return `"` + r.Replace(s) + `"`
}

func (f fmtToken) isBinaryOp() bool {
	if f.bare {
		return false
	}
	switch f.tok.Type {
	case PLUS, MINUS, MULT, DIV, MOD, ASSIGN, EQ, NEQ,
		LESS, LESS_EQ, GREATER, GREATER_EQ, AND, OR:
		return true
	}
	return false
}

func (f fmtToken) isOpening() bool {
	if f.bare {
		return false
	}
	switch f.tok.Type {
	case LROUND, LSQUARE, LCURLY:
		return true
	}
	return false
}

func (f fmtToken) isClosing() bool {
	if f.bare {
		return false
	}
	switch f.tok.Type {
	case RROUND, RSQUARE, RCURLY:
		return true
	}
	return false
}

func (f fmtToken) isCallable() bool {
	if f.bare || f.tok.Type == VARIABLE {
		return true
	}
	return exprBuiltinTokens[f.tok.Type]
}

func (f fmtToken) is(t TokenType) bool {
	return !f.bare && f.tok.Type == t
}

// fmtTokenize lexes code for formatting, re-attaching the information the
// lexer discards: whether an identifier carried a '$' (via position
// tracking against the raw text) and whether a misspelled keyword should
// be normalized.
func fmtTokenize(code string) []fmtToken {
	tokens := Tokenize(code)
	dollarPositions := findDollarPositions(code)

	var result []fmtToken
	sourcePos := 0

	for _, tok := range tokens {
		if tok.Type == NEWLINE || tok.Type == EOF {
			continue
		}

		switch tok.Type {
		case VARIABLE:
			dollarPat := "$" + tok.Text
			remaining := code[sourcePos:]

			if offset := strings.Index(remaining, dollarPat); offset >= 0 {
				absPos := sourcePos + offset
				if dollarPositions[absPos] {
					result = append(result, fmtToken{tok: tok})
				} else if kw, ok := tryKeyword(tok.Text); ok {
					result = append(result, fmtToken{tok: Token{Type: kw}})
				} else {
					result = append(result, fmtToken{tok: tok, bare: true})
				}
				sourcePos = absPos + len(dollarPat)
			} else if offset := strings.Index(remaining, tok.Text); offset >= 0 {
				if kw, ok := tryKeyword(tok.Text); ok {
					result = append(result, fmtToken{tok: Token{Type: kw}})
				} else {
					result = append(result, fmtToken{tok: tok, bare: true})
				}
				sourcePos += offset + len(tok.Text)
			} else {
				result = append(result, fmtToken{tok: tok})
			}

		case STRING:
			remaining := code[sourcePos:]
			offset := strings.IndexAny(remaining, `"'`)
			if offset >= 0 {
				quote := remaining[offset]
				pos := sourcePos + offset + 1
				for pos < len(code) {
					if code[pos] == '\\' {
						pos += 2
					} else if code[pos] == quote {
						pos++
						break
					} else {
						pos++
					}
				}
				sourcePos = pos
			}
			result = append(result, fmtToken{tok: tok})

		case INTEGER:
			numStr := strconv.FormatInt(tok.Num, 10)
			if offset := strings.Index(code[sourcePos:], numStr); offset >= 0 {
				sourcePos += offset + len(numStr)
			}
			result = append(result, fmtToken{tok: tok})

		default:
			if tokStr := tok.Type.TokenString(); tokStr != "" {
				remaining := strings.ToLower(code[sourcePos:])
				if offset := strings.Index(remaining, strings.ToLower(tokStr)); offset >= 0 {
					sourcePos += offset + len(tokStr)
				}
			}
			result = append(result, fmtToken{tok: tok})
		}
	}
	return result
}

// needsSpaceBefore decides token joining during re-printing.
func needsSpaceBefore(tok, prev fmtToken) bool {
	if tok.isClosing() {
		return false
	}
	if tok.is(LSQUARE) {
		return prev.isBinaryOp()
	}
	if tok.is(LROUND) {
		return !prev.isCallable() && !prev.isOpening() && !prev.is(NOT)
	}
	if tok.is(COMMA) || tok.is(SEMICOLON) {
		return false
	}
	if tok.isBinaryOp() {
		return true
	}
	if prev.isOpening() || prev.is(NOT) || prev.is(AT) {
		return false
	}
	return true
}

// formatCode re-prints one comment-free code portion from its tokens.
func formatCode(code string) string {
	tokens := fmtTokenize(code)
	if len(tokens) == 0 {
		return ""
	}

	var b strings.Builder
	for i, ft := range tokens {
		text := ft.output()
		if text == "" {
			continue
		}
		if i > 0 && needsSpaceBefore(ft, tokens[i-1]) {
			b.WriteByte(' ')
		}
		b.WriteString(text)
	}
	return b.String()
}

// FormatSource formats Minilux source code.
func FormatSource(source string) string {
	lines := splitLines(source)
	indentMap := buildIndentMap(lines)
	var output []string
	consecutiveBlanks := 0

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			consecutiveBlanks++
			if consecutiveBlanks <= 1 {
				output = append(output, "")
			}
			continue
		}
		consecutiveBlanks = 0

		indent := strings.Repeat("    ", indentMap[i])

		if strings.HasPrefix(trimmed, "#") {
			output = append(output, indent+trimmed)
			continue
		}

		codePart := trimmed
		commentPart := ""
		if pos, ok := findCommentStart(trimmed); ok {
			codePart = strings.TrimSpace(trimmed[:pos])
			commentPart = strings.TrimSpace(trimmed[pos:])
		}

		formatted := ""
		if codePart != "" {
			formatted = formatCode(codePart)
		}

		var outLine string
		switch {
		case commentPart != "" && formatted == "":
			outLine = indent + commentPart
		case commentPart != "":
			outLine = indent + formatted + "  " + commentPart
		default:
			outLine = indent + formatted
		}
		output = append(output, strings.TrimRight(outLine, " \t"))
	}

	result := strings.Join(output, "\n")
	if !strings.HasSuffix(result, "\n") {
		result += "\n"
	}
	return result
}

// splitLines mirrors line iteration without a trailing empty line, \r\n
// tolerated.
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}
