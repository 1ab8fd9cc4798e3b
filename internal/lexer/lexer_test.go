package lexer

import (
	"testing"

	"github.com/ruvylang/ruvy/internal/token"
)

func tokenize(t *testing.T, src string) []token.Token {
	t.Helper()
	toks := Tokenize(src)
	if len(toks) == 0 || toks[len(toks)-1].Type != token.EOF {
		t.Fatalf("token stream must end with EOF, got %v", toks)
	}
	return toks[:len(toks)-1]
}

func TestOperators(t *testing.T) {
	src := "= == => -> + += ++ - -= -- * *= / /= % %= ! != ? < <= << > >= >> && || & | ^ . .. ..= ... :: : , ;"
	want := []token.Type{
		token.ASSIGN, token.EQ, token.FATARROW, token.ARROW,
		token.PLUS, token.PLUS_ASSIGN, token.INCREMENT,
		token.MINUS, token.MINUS_ASSIGN, token.DECREMENT,
		token.STAR, token.STAR_ASSIGN,
		token.SLASH, token.SLASH_ASSIGN,
		token.PERCENT, token.PERCENT_ASSIGN,
		token.BANG, token.NOT_EQ, token.QUESTION,
		token.LT, token.LE, token.SHL,
		token.GT, token.GE, token.SHR,
		token.AND, token.OR, token.BITAND, token.BITOR, token.BITXOR,
		token.DOT, token.DOTDOT, token.DOTDOTEQ, token.DOTDOTDOT,
		token.COLONCOLON, token.COLON, token.COMMA, token.SEMICOLON,
	}
	toks := tokenize(t, src)
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}
	for i, w := range want {
		if toks[i].Type != w {
			t.Errorf("token %d = %s, want %s", i, toks[i].Type, w)
		}
	}
}

func TestKeywordsAndIdentifiers(t *testing.T) {
	toks := tokenize(t, "let mut count fun match spawn actor flavor")
	want := []struct {
		typ    token.Type
		lexeme string
	}{
		{token.LET, "let"},
		{token.MUT, "mut"},
		{token.IDENT, "count"},
		{token.FUN, "fun"},
		{token.MATCH, "match"},
		{token.SPAWN, "spawn"},
		{token.ACTOR, "actor"},
		{token.IDENT, "flavor"},
	}
	for i, w := range want {
		if toks[i].Type != w.typ || toks[i].Lexeme != w.lexeme {
			t.Errorf("token %d = %s %q, want %s %q", i, toks[i].Type, toks[i].Lexeme, w.typ, w.lexeme)
		}
	}
}

func TestNumbers(t *testing.T) {
	cases := []struct {
		src    string
		typ    token.Type
		lexeme string
	}{
		{"42", token.INT, "42"},
		{"1_000_000", token.INT, "1_000_000"},
		{"3.14", token.FLOAT, "3.14"},
		{"1e9", token.FLOAT, "1e9"},
		{"2.5e-3", token.FLOAT, "2.5e-3"},
		{"10i64", token.INT, "10i64"},
		{"7u8", token.INT, "7u8"},
	}
	for _, tt := range cases {
		toks := tokenize(t, tt.src)
		if toks[0].Type != tt.typ || toks[0].Lexeme != tt.lexeme {
			t.Errorf("%q = %s %q, want %s %q", tt.src, toks[0].Type, toks[0].Lexeme, tt.typ, tt.lexeme)
		}
	}
}

// 1..3 must lex as int, range operator, int; the dot must not start a
// fractional part.
func TestIntRangeDisambiguation(t *testing.T) {
	toks := tokenize(t, "1..3")
	want := []token.Type{token.INT, token.DOTDOT, token.INT}
	for i, w := range want {
		if toks[i].Type != w {
			t.Fatalf("token %d = %s, want %s", i, toks[i].Type, w)
		}
	}
}

func TestStringEscapes(t *testing.T) {
	toks := tokenize(t, `"a\nb\t\"c\"\\d"`)
	if toks[0].Type != token.STRING {
		t.Fatalf("got %s", toks[0].Type)
	}
	if toks[0].Lexeme != "a\nb\t\"c\"\\d" {
		t.Fatalf("got %q", toks[0].Lexeme)
	}
}

func TestUnicodeEscape(t *testing.T) {
	toks := tokenize(t, `"snowman: \u{2603}"`)
	if toks[0].Lexeme != "snowman: ☃" {
		t.Fatalf("got %q", toks[0].Lexeme)
	}
}

func TestUnterminatedString(t *testing.T) {
	toks := Tokenize(`"never closed`)
	if toks[0].Type != token.ILLEGAL {
		t.Fatalf("got %s", toks[0].Type)
	}
}

func TestFStringParts(t *testing.T) {
	toks := tokenize(t, `f"sum is {a + b}!"`)
	if toks[0].Type != token.FSTRING {
		t.Fatalf("got %s", toks[0].Type)
	}
	parts := toks[0].Parts
	if len(parts) != 3 {
		t.Fatalf("got %d parts: %#v", len(parts), parts)
	}
	if parts[0].IsExpr || parts[0].Text != "sum is " {
		t.Errorf("part 0 = %#v", parts[0])
	}
	if !parts[1].IsExpr || parts[1].Text != "a + b" {
		t.Errorf("part 1 = %#v", parts[1])
	}
	if parts[2].IsExpr || parts[2].Text != "!" {
		t.Errorf("part 2 = %#v", parts[2])
	}
}

func TestCommentsAreTrivia(t *testing.T) {
	src := `
		// line comment
		1 /* block /* nested */ comment */ + 2
	`
	toks := tokenize(t, src)
	want := []token.Type{token.INT, token.PLUS, token.INT}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens: %v", len(toks), toks)
	}
	for i, w := range want {
		if toks[i].Type != w {
			t.Errorf("token %d = %s, want %s", i, toks[i].Type, w)
		}
	}
}

func TestDocCommentsAreTokens(t *testing.T) {
	src := "/// Adds things.\n/// Second line.\nfun add(a, b) { a + b }"
	toks := tokenize(t, src)
	if toks[0].Type != token.DOC || toks[0].Lexeme != "Adds things." {
		t.Fatalf("token 0 = %s %q", toks[0].Type, toks[0].Lexeme)
	}
	if toks[1].Type != token.DOC || toks[1].Lexeme != "Second line." {
		t.Fatalf("token 1 = %s %q", toks[1].Type, toks[1].Lexeme)
	}
	if toks[2].Type != token.FUN {
		t.Fatalf("token 2 = %s", toks[2].Type)
	}
}

func TestPositions(t *testing.T) {
	toks := tokenize(t, "let x = 1\nlet y = 2")
	if toks[0].Line != 1 || toks[0].Column != 1 {
		t.Errorf("let at %d:%d", toks[0].Line, toks[0].Column)
	}
	if toks[1].Line != 1 || toks[1].Column != 5 {
		t.Errorf("x at %d:%d", toks[1].Line, toks[1].Column)
	}
	// Second line starts over at column 1.
	if toks[4].Line != 2 || toks[4].Column != 1 {
		t.Errorf("second let at %d:%d", toks[4].Line, toks[4].Column)
	}
}

func TestCharLiteral(t *testing.T) {
	toks := tokenize(t, `'x' '\n'`)
	if toks[0].Type != token.CHAR || toks[0].Lexeme != "x" {
		t.Fatalf("token 0 = %s %q", toks[0].Type, toks[0].Lexeme)
	}
	if toks[1].Type != token.CHAR || toks[1].Lexeme != "\n" {
		t.Fatalf("token 1 = %s %q", toks[1].Type, toks[1].Lexeme)
	}
}
