// lexer_test.go
package minilux

import (
	"reflect"
	"testing"
)

func typesWithoutEOF(tokens []Token) []TokenType {
	if len(tokens) == 0 {
		return nil
	}
	end := len(tokens)
	if tokens[end-1].Type == EOF {
		end--
	}
	out := make([]TokenType, 0, end)
	for i := 0; i < end; i++ {
		out = append(out, tokens[i].Type)
	}
	return out
}

func wantTypes(t *testing.T, src string, want []TokenType) []Token {
	t.Helper()
	got := Tokenize(src)
	gotTypes := typesWithoutEOF(got)
	if !reflect.DeepEqual(gotTypes, want) {
		t.Fatalf("\nsource:\n%s\nwant types:\n%v\ngot types:\n%v\n", src, want, gotTypes)
	}
	return got
}

func Test_Lexer_AssignmentAndArithmetic(t *testing.T) {
	got := wantTypes(t, `$count = 1 + 2 * 3`, []TokenType{
		VARIABLE, ASSIGN, INTEGER, PLUS, INTEGER, MULT, INTEGER,
	})
	if got[0].Text != "count" {
		t.Fatalf("sigil not stripped: %q", got[0].Text)
	}
	if got[2].Num != 1 || got[4].Num != 2 || got[6].Num != 3 {
		t.Fatalf("integer literals wrong: %v", got)
	}
}

func Test_Lexer_TwoCharOperators(t *testing.T) {
	wantTypes(t, `== != <= >= && ||`, []TokenType{
		EQ, NEQ, LESS_EQ, GREATER_EQ, AND, OR,
	})
}

func Test_Lexer_SingleAmpAndPipeAreReserved(t *testing.T) {
	wantTypes(t, `1 & 2 | 3`, []TokenType{
		INTEGER, AMP, INTEGER, PIPE, INTEGER,
	})
}

func Test_Lexer_KeywordsAreExactMatch(t *testing.T) {
	// Canonical spellings resolve; case variants stay bare identifiers.
	wantTypes(t, "if while func return", []TokenType{IF, WHILE, FUNC, RETURN})
	wantTypes(t, "AND OR", []TokenType{AND, OR})
	got := wantTypes(t, "If WHILE and", []TokenType{VARIABLE, VARIABLE, VARIABLE})
	if got[0].Text != "If" || got[2].Text != "and" {
		t.Fatalf("unexpected identifier payloads: %v", got)
	}
}

func Test_Lexer_KeywordAliases(t *testing.T) {
	wantTypes(t, "print strlen function not", []TokenType{PRINTF, LEN, FUNC, NOT})
}

func Test_Lexer_StringEscapes(t *testing.T) {
	got := wantTypes(t, `"a\nb\t\\\"q\""`, []TokenType{STRING})
	if got[0].Text != "a\nb\t\\\"q\"" {
		t.Fatalf("escapes decoded wrong: %q", got[0].Text)
	}
}

func Test_Lexer_SingleQuotedStrings(t *testing.T) {
	got := wantTypes(t, `'it\'s'`, []TokenType{STRING})
	if got[0].Text != "it's" {
		t.Fatalf("got %q", got[0].Text)
	}
}

func Test_Lexer_UnterminatedEscapeDropped(t *testing.T) {
	got := wantTypes(t, `"ab\`, []TokenType{STRING})
	if got[0].Text != "ab" {
		t.Fatalf("got %q", got[0].Text)
	}
}

func Test_Lexer_CommentsAndNewlines(t *testing.T) {
	wantTypes(t, "# heading\n$x = 1 # trailing\n", []TokenType{
		NEWLINE, VARIABLE, ASSIGN, INTEGER, NEWLINE,
	})
}

func Test_Lexer_UnknownCharactersSkipped(t *testing.T) {
	wantTypes(t, "1 ? 2 ` 3", []TokenType{INTEGER, INTEGER, INTEGER})
}

func Test_Lexer_SocketKeywords(t *testing.T) {
	wantTypes(t, "sockopen sockclose sockwrite sockread sockstatus", []TokenType{
		SOCKOPEN, SOCKCLOSE, SOCKWRITE, SOCKREAD, SOCKSTATUS,
	})
}

func Test_Lexer_EOFIsSticky(t *testing.T) {
	l := NewLexer("")
	for i := 0; i < 3; i++ {
		if tok := l.Next(); tok.Type != EOF {
			t.Fatalf("call %d: want EOF, got %v", i, tok.Type)
		}
	}
}

func Test_TokenString_RoundTripsKeywords(t *testing.T) {
	for name, typ := range keywords {
		if got := typ.TokenString(); got != name {
			t.Fatalf("TokenString(%v) = %q, want %q", typ, got, name)
		}
	}
}
