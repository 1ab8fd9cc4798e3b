package token

import "fmt"

// Type identifies the lexical class of a token.
type Type string

const (
	ILLEGAL Type = "ILLEGAL"
	EOF     Type = "EOF"

	// Identifiers and literals
	IDENT   Type = "IDENT"
	INT     Type = "INT"
	FLOAT   Type = "FLOAT"
	STRING  Type = "STRING"
	FSTRING Type = "FSTRING" // interpolated string, lexed as raw text + parts
	CHAR    Type = "CHAR"

	// Operators
	ASSIGN   Type = "="
	PLUS     Type = "+"
	MINUS    Type = "-"
	STAR     Type = "*"
	SLASH    Type = "/"
	PERCENT  Type = "%"
	BANG     Type = "!"
	QUESTION Type = "?"

	PLUS_ASSIGN    Type = "+="
	MINUS_ASSIGN   Type = "-="
	STAR_ASSIGN    Type = "*="
	SLASH_ASSIGN   Type = "/="
	PERCENT_ASSIGN Type = "%="
	INCREMENT      Type = "++"
	DECREMENT      Type = "--"

	EQ     Type = "=="
	NOT_EQ Type = "!="
	LT     Type = "<"
	GT     Type = ">"
	LE     Type = "<="
	GE     Type = ">="

	AND Type = "&&"
	OR  Type = "||"

	BITAND Type = "&"
	BITOR  Type = "|"
	BITXOR Type = "^"
	SHL    Type = "<<"
	SHR    Type = ">>"

	DOT        Type = "."
	DOTDOT     Type = ".."
	DOTDOTEQ   Type = "..="
	DOTDOTDOT  Type = "..."
	ARROW      Type = "->"
	FATARROW   Type = "=>"
	COLONCOLON Type = "::"

	// Delimiters
	COMMA     Type = ","
	SEMICOLON Type = ";"
	COLON     Type = ":"
	NEWLINE   Type = "NEWLINE"
	DOC       Type = "DOC" // /// doc comment line

	LPAREN   Type = "("
	RPAREN   Type = ")"
	LBRACE   Type = "{"
	RBRACE   Type = "}"
	LBRACKET Type = "["
	RBRACKET Type = "]"

	// Keywords
	LET      Type = "LET"
	MUT      Type = "MUT"
	CONST    Type = "CONST"
	FUN      Type = "FUN"
	PUB      Type = "PUB"
	ASYNC    Type = "ASYNC"
	AWAIT    Type = "AWAIT"
	RETURN   Type = "RETURN"
	IF       Type = "IF"
	ELSE     Type = "ELSE"
	WHILE    Type = "WHILE"
	FOR      Type = "FOR"
	IN       Type = "IN"
	LOOP     Type = "LOOP"
	BREAK    Type = "BREAK"
	CONTINUE Type = "CONTINUE"
	MATCH    Type = "MATCH"
	TRY      Type = "TRY"
	CATCH    Type = "CATCH"
	FINALLY  Type = "FINALLY"
	THROW    Type = "THROW"
	TRUE     Type = "TRUE"
	FALSE    Type = "FALSE"
	NIL      Type = "NIL"
	MODULE   Type = "MODULE"
	IMPORT   Type = "IMPORT"
	EXPORT   Type = "EXPORT"
	AS       Type = "AS"
	STRUCT   Type = "STRUCT"
	ENUM     Type = "ENUM"
	TRAIT    Type = "TRAIT"
	IMPL     Type = "IMPL"
	ACTOR    Type = "ACTOR"
	RECEIVE  Type = "RECEIVE"
	SPAWN    Type = "SPAWN"
	UNDERSCORE Type = "_"
)

// Token is a single lexical token with its source position.
type Token struct {
	Type    Type
	Lexeme  string
	Line    int
	Column  int
	Offset  int
	// Parts carries the decomposed pieces of an f-string: literal text
	// chunks interleaved with raw expression source. Nil for other tokens.
	Parts []FStringPart
}

// FStringPart is one piece of an interpolated string.
type FStringPart struct {
	IsExpr bool
	Text   string
	Line   int
	Column int
}

// Pos is a position inside a source file.
type Pos struct {
	Line   int
	Column int
	Offset int
}

// Span is a half-open source range attached to every AST node.
type Span struct {
	Start Pos
	End   Pos
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d:%d", s.Start.Line, s.Start.Column, s.End.Line, s.End.Column)
}

// SpanOf builds a zero-width span at the token's position.
func SpanOf(t Token) Span {
	p := Pos{Line: t.Line, Column: t.Column, Offset: t.Offset}
	end := p
	end.Column += len(t.Lexeme)
	end.Offset += len(t.Lexeme)
	return Span{Start: p, End: end}
}

var keywords = map[string]Type{
	"let":      LET,
	"mut":      MUT,
	"const":    CONST,
	"fun":      FUN,
	"pub":      PUB,
	"async":    ASYNC,
	"await":    AWAIT,
	"return":   RETURN,
	"if":       IF,
	"else":     ELSE,
	"while":    WHILE,
	"for":      FOR,
	"in":       IN,
	"loop":     LOOP,
	"break":    BREAK,
	"continue": CONTINUE,
	"match":    MATCH,
	"try":      TRY,
	"catch":    CATCH,
	"finally":  FINALLY,
	"throw":    THROW,
	"true":     TRUE,
	"false":    FALSE,
	"nil":      NIL,
	"module":   MODULE,
	"import":   IMPORT,
	"export":   EXPORT,
	"as":       AS,
	"struct":   STRUCT,
	"enum":     ENUM,
	"trait":    TRAIT,
	"impl":     IMPL,
	"actor":    ACTOR,
	"receive":  RECEIVE,
	"spawn":    SPAWN,
}

// LookupIdent maps an identifier to its keyword type, or IDENT.
func LookupIdent(ident string) Type {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	if ident == "_" {
		return UNDERSCORE
	}
	return IDENT
}

// Keywords returns the language keyword list (used by REPL completion).
func Keywords() []string {
	out := make([]string, 0, len(keywords))
	for k := range keywords {
		out = append(out, k)
	}
	return out
}
