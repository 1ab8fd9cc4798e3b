package lexer

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ruvylang/ruvy/internal/token"
)

type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           rune // current char under examination
	line         int  // current line number
	column       int  // current column number
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}

	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		l.readPosition++
		l.column++
		return
	}

	r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += w
	l.column++
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *Lexer) peekCharAt(offset int) rune {
	pos := l.readPosition
	for i := 0; i < offset; i++ {
		if pos >= len(l.input) {
			return 0
		}
		_, w := utf8.DecodeRuneInString(l.input[pos:])
		pos += w
	}
	if pos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[pos:])
	return r
}

func (l *Lexer) newToken(t token.Type, lexeme string) token.Token {
	col := l.column - (utf8.RuneCountInString(lexeme) - 1)
	if col < 1 {
		col = 1
	}
	return token.Token{Type: t, Lexeme: lexeme, Line: l.line, Column: col, Offset: l.position}
}

// twoChar consumes the peeked char and returns a two-character token.
func (l *Lexer) twoChar(t token.Type) token.Token {
	first := l.ch
	l.readChar()
	return l.newToken(t, string(first)+string(l.ch))
}

func (l *Lexer) NextToken() token.Token {
	l.skipWhitespaceAndComments()

	if l.ch == '/' && l.peekChar() == '/' {
		return l.readDocComment()
	}

	var tok token.Token

	switch l.ch {
	case 0:
		tok = token.Token{Type: token.EOF, Line: l.line, Column: l.column, Offset: l.position}
	case '=':
		if l.peekChar() == '=' {
			tok = l.twoChar(token.EQ)
		} else if l.peekChar() == '>' {
			tok = l.twoChar(token.FATARROW)
		} else {
			tok = l.newToken(token.ASSIGN, "=")
		}
	case '+':
		if l.peekChar() == '+' {
			tok = l.twoChar(token.INCREMENT)
		} else if l.peekChar() == '=' {
			tok = l.twoChar(token.PLUS_ASSIGN)
		} else {
			tok = l.newToken(token.PLUS, "+")
		}
	case '-':
		if l.peekChar() == '-' {
			tok = l.twoChar(token.DECREMENT)
		} else if l.peekChar() == '=' {
			tok = l.twoChar(token.MINUS_ASSIGN)
		} else if l.peekChar() == '>' {
			tok = l.twoChar(token.ARROW)
		} else {
			tok = l.newToken(token.MINUS, "-")
		}
	case '*':
		if l.peekChar() == '=' {
			tok = l.twoChar(token.STAR_ASSIGN)
		} else {
			tok = l.newToken(token.STAR, "*")
		}
	case '/':
		if l.peekChar() == '=' {
			tok = l.twoChar(token.SLASH_ASSIGN)
		} else {
			tok = l.newToken(token.SLASH, "/")
		}
	case '%':
		if l.peekChar() == '=' {
			tok = l.twoChar(token.PERCENT_ASSIGN)
		} else {
			tok = l.newToken(token.PERCENT, "%")
		}
	case '!':
		if l.peekChar() == '=' {
			tok = l.twoChar(token.NOT_EQ)
		} else {
			tok = l.newToken(token.BANG, "!")
		}
	case '?':
		tok = l.newToken(token.QUESTION, "?")
	case '<':
		if l.peekChar() == '=' {
			tok = l.twoChar(token.LE)
		} else if l.peekChar() == '<' {
			tok = l.twoChar(token.SHL)
		} else {
			tok = l.newToken(token.LT, "<")
		}
	case '>':
		if l.peekChar() == '=' {
			tok = l.twoChar(token.GE)
		} else if l.peekChar() == '>' {
			tok = l.twoChar(token.SHR)
		} else {
			tok = l.newToken(token.GT, ">")
		}
	case '&':
		if l.peekChar() == '&' {
			tok = l.twoChar(token.AND)
		} else {
			tok = l.newToken(token.BITAND, "&")
		}
	case '|':
		if l.peekChar() == '|' {
			tok = l.twoChar(token.OR)
		} else {
			tok = l.newToken(token.BITOR, "|")
		}
	case '^':
		tok = l.newToken(token.BITXOR, "^")
	case '.':
		if l.peekChar() == '.' {
			if l.peekCharAt(1) == '=' {
				l.readChar()
				l.readChar()
				tok = l.newToken(token.DOTDOTEQ, "..=")
			} else if l.peekCharAt(1) == '.' {
				l.readChar()
				l.readChar()
				tok = l.newToken(token.DOTDOTDOT, "...")
			} else {
				tok = l.twoChar(token.DOTDOT)
			}
		} else {
			tok = l.newToken(token.DOT, ".")
		}
	case ':':
		if l.peekChar() == ':' {
			tok = l.twoChar(token.COLONCOLON)
		} else {
			tok = l.newToken(token.COLON, ":")
		}
	case ',':
		tok = l.newToken(token.COMMA, ",")
	case ';':
		tok = l.newToken(token.SEMICOLON, ";")
	case '(':
		tok = l.newToken(token.LPAREN, "(")
	case ')':
		tok = l.newToken(token.RPAREN, ")")
	case '{':
		tok = l.newToken(token.LBRACE, "{")
	case '}':
		tok = l.newToken(token.RBRACE, "}")
	case '[':
		tok = l.newToken(token.LBRACKET, "[")
	case ']':
		tok = l.newToken(token.RBRACKET, "]")
	case '"':
		return l.readString()
	case '\'':
		return l.readChar2()
	default:
		if l.ch == 'f' && l.peekChar() == '"' {
			return l.readFString()
		}
		if isLetter(l.ch) {
			return l.readIdentifier()
		}
		if unicode.IsDigit(l.ch) {
			return l.readNumber()
		}
		tok = l.newToken(token.ILLEGAL, string(l.ch))
	}

	l.readChar()
	return tok
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n' {
			l.readChar()
		}
		if l.ch == '/' && l.peekChar() == '/' {
			// /// doc comments are tokens, not trivia.
			if l.peekCharAt(1) == '/' {
				return
			}
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
			continue
		}
		if l.ch == '/' && l.peekChar() == '*' {
			l.readChar()
			l.readChar()
			depth := 1
			for depth > 0 && l.ch != 0 {
				if l.ch == '/' && l.peekChar() == '*' {
					depth++
					l.readChar()
				} else if l.ch == '*' && l.peekChar() == '/' {
					depth--
					l.readChar()
				}
				l.readChar()
			}
			continue
		}
		return
	}
}

// readDocComment lexes one /// line into a DOC token; consecutive lines
// become separate tokens the parser joins.
func (l *Lexer) readDocComment() token.Token {
	line, col, off := l.line, l.column, l.position
	l.readChar()
	l.readChar()
	l.readChar()
	if l.ch == ' ' {
		l.readChar()
	}
	var sb strings.Builder
	for l.ch != '\n' && l.ch != 0 {
		sb.WriteRune(l.ch)
		l.readChar()
	}
	return token.Token{Type: token.DOC, Lexeme: sb.String(), Line: line, Column: col, Offset: off}
}

func (l *Lexer) readIdentifier() token.Token {
	line, col, off := l.line, l.column, l.position
	start := l.position
	for isLetter(l.ch) || unicode.IsDigit(l.ch) {
		l.readChar()
	}
	lexeme := l.input[start:l.position]
	return token.Token{
		Type:   token.LookupIdent(lexeme),
		Lexeme: lexeme,
		Line:   line,
		Column: col,
		Offset: off,
	}
}

func (l *Lexer) readNumber() token.Token {
	line, col, off := l.line, l.column, l.position
	start := l.position
	isFloat := false

	for unicode.IsDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}

	// Only a fractional part if the dot is followed by a digit: 1..3 must
	// stay an int followed by a range operator.
	if l.ch == '.' && unicode.IsDigit(l.peekChar()) {
		isFloat = true
		l.readChar()
		for unicode.IsDigit(l.ch) || l.ch == '_' {
			l.readChar()
		}
	}

	if l.ch == 'e' || l.ch == 'E' {
		next := l.peekChar()
		if unicode.IsDigit(next) || next == '+' || next == '-' {
			isFloat = true
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			for unicode.IsDigit(l.ch) {
				l.readChar()
			}
		}
	}

	// Optional type suffix: 10i64, 2.5f64.
	if !isFloat && (l.ch == 'i' || l.ch == 'u' || l.ch == 'f') {
		suffixStart := l.position
		l.readChar()
		for unicode.IsDigit(l.ch) {
			l.readChar()
		}
		suffix := l.input[suffixStart:l.position]
		if suffix != "i8" && suffix != "i16" && suffix != "i32" && suffix != "i64" &&
			suffix != "u8" && suffix != "u16" && suffix != "u32" && suffix != "u64" &&
			suffix != "f32" && suffix != "f64" {
			// Not a numeric suffix; rewind is not possible, report as illegal.
			return token.Token{Type: token.ILLEGAL, Lexeme: l.input[start:l.position], Line: line, Column: col, Offset: off}
		}
		if strings.HasPrefix(suffix, "f") {
			isFloat = true
		}
	}

	typ := token.INT
	if isFloat {
		typ = token.FLOAT
	}
	return token.Token{Type: typ, Lexeme: l.input[start:l.position], Line: line, Column: col, Offset: off}
}

func (l *Lexer) readString() token.Token {
	line, col, off := l.line, l.column, l.position
	var sb strings.Builder
	l.readChar() // consume opening quote
	for l.ch != '"' && l.ch != 0 {
		if l.ch == '\\' {
			l.readChar()
			if l.ch == 'u' && l.peekChar() == '{' {
				l.readChar()
				l.readChar()
				var hex strings.Builder
				for l.ch != '}' && l.ch != '"' && l.ch != 0 {
					hex.WriteRune(l.ch)
					l.readChar()
				}
				if v, err := strconv.ParseUint(hex.String(), 16, 32); err == nil {
					sb.WriteRune(rune(v))
				}
			} else {
				sb.WriteRune(unescape(l.ch))
			}
		} else {
			sb.WriteRune(l.ch)
		}
		l.readChar()
	}
	if l.ch == 0 {
		return token.Token{Type: token.ILLEGAL, Lexeme: "unterminated string", Line: line, Column: col, Offset: off}
	}
	l.readChar() // consume closing quote
	return token.Token{Type: token.STRING, Lexeme: sb.String(), Line: line, Column: col, Offset: off}
}

// readFString lexes f"...{expr}..." into an FSTRING token whose Parts
// alternate literal text with raw expression source. The parser re-lexes
// the expression parts.
func (l *Lexer) readFString() token.Token {
	line, col, off := l.line, l.column, l.position
	l.readChar() // consume 'f'
	l.readChar() // consume opening quote

	var parts []token.FStringPart
	var sb strings.Builder
	flushText := func() {
		if sb.Len() > 0 {
			parts = append(parts, token.FStringPart{Text: sb.String(), Line: l.line, Column: l.column})
			sb.Reset()
		}
	}

	for l.ch != '"' && l.ch != 0 {
		if l.ch == '\\' {
			l.readChar()
			sb.WriteRune(unescape(l.ch))
			l.readChar()
			continue
		}
		if l.ch == '{' {
			if l.peekChar() == '{' { // escaped brace
				sb.WriteRune('{')
				l.readChar()
				l.readChar()
				continue
			}
			flushText()
			exprLine, exprCol := l.line, l.column
			l.readChar() // consume '{'
			depth := 1
			var expr strings.Builder
			for depth > 0 && l.ch != 0 {
				if l.ch == '{' {
					depth++
				} else if l.ch == '}' {
					depth--
					if depth == 0 {
						break
					}
				}
				expr.WriteRune(l.ch)
				l.readChar()
			}
			if l.ch == 0 {
				return token.Token{Type: token.ILLEGAL, Lexeme: "unterminated interpolation", Line: line, Column: col, Offset: off}
			}
			l.readChar() // consume '}'
			parts = append(parts, token.FStringPart{IsExpr: true, Text: expr.String(), Line: exprLine, Column: exprCol})
			continue
		}
		if l.ch == '}' && l.peekChar() == '}' {
			sb.WriteRune('}')
			l.readChar()
			l.readChar()
			continue
		}
		sb.WriteRune(l.ch)
		l.readChar()
	}
	if l.ch == 0 {
		return token.Token{Type: token.ILLEGAL, Lexeme: "unterminated string", Line: line, Column: col, Offset: off}
	}
	l.readChar() // consume closing quote
	flushText()
	return token.Token{Type: token.FSTRING, Lexeme: "f\"...\"", Line: line, Column: col, Offset: off, Parts: parts}
}

// readChar2 lexes a character literal 'c'.
func (l *Lexer) readChar2() token.Token {
	line, col, off := l.line, l.column, l.position
	l.readChar() // consume opening quote
	var r rune
	if l.ch == '\\' {
		l.readChar()
		r = unescape(l.ch)
	} else {
		r = l.ch
	}
	l.readChar()
	if l.ch != '\'' {
		return token.Token{Type: token.ILLEGAL, Lexeme: "unterminated char literal", Line: line, Column: col, Offset: off}
	}
	l.readChar() // consume closing quote
	return token.Token{Type: token.CHAR, Lexeme: string(r), Line: line, Column: col, Offset: off}
}

func unescape(ch rune) rune {
	switch ch {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case '0':
		return 0
	case '\\':
		return '\\'
	case '"':
		return '"'
	case '\'':
		return '\''
	default:
		return ch
	}
}

func isLetter(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

// Tokenize runs the lexer to EOF and returns every token.
func Tokenize(input string) []token.Token {
	l := New(input)
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks
		}
	}
}
