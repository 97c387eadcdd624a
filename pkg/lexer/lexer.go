// Package lexer provides tokenization for Smalltalk method bodies.
//
// Tokenization is character-by-character and never fails: unrecognized
// characters are silently dropped and scanning continues. The returned
// token list is always terminated by an EOF token.
//
// Two characters need context to lex correctly, and that context is
// maintained incrementally as tokens are emitted rather than by rescanning
// the emitted history:
//
//   - '|' is a binary operator inside an unmatched parenthesis opened
//     within the innermost open block (or outside any block). Otherwise the
//     innermost block decides: the pipe closes the parameter list when
//     parameters have been declared and no pipe emitted yet; after that,
//     delimiter pipes pair up around a temporaries declaration, so an odd
//     count means the next pipe closes one, and an even count falls back on
//     whether the preceding token could serve as a message receiver.
//     Outside any block the same pairing applies to the whole stream.
//   - '-' merges with an immediately following numeral into one signed
//     number token only when the preceding token cannot itself be a message
//     receiver; otherwise it lexes as an ordinary binary operator. A leading
//     '+' is never merged.
package lexer

import "strings"

// blockScope tracks the declaration structure of one open block: how many
// parameters have been declared and how many delimiter pipes have been
// emitted since its opening bracket. parenAtEntry is the parenthesis depth
// when the block opened, so only parens opened inside the block force the
// binary reading of a pipe.
type blockScope struct {
	params       int
	pipes        int
	parenAtEntry int
}

// Lexer tokenizes a Smalltalk method body.
type Lexer struct {
	input     string
	pos       int
	line      int // 1-indexed
	lineStart int // offset of the first byte of the current line
	tokens    []Token

	// Disambiguation state, updated as tokens are emitted.
	parenDepth int
	blocks     []blockScope
	topPipes   int
}

// New creates a Lexer for the given method body.
func New(input string) *Lexer {
	return &Lexer{
		input:  input,
		line:   1,
		tokens: make([]Token, 0),
	}
}

// Tokenize is a convenience wrapper that tokenizes body in one call.
func Tokenize(body string) []Token {
	return New(body).Tokenize()
}

// Tokenize processes the entire input and returns all tokens, terminated
// by an EOF token.
func (l *Lexer) Tokenize() []Token {
	for !l.isAtEnd() {
		l.scanToken()
	}
	l.tokens = append(l.tokens, Token{
		Type:   EOF,
		Value:  "",
		Line:   l.line,
		Column: l.col(),
	})
	return l.tokens
}

// Helper methods for character access and movement

func (l *Lexer) isAtEnd() bool {
	return l.pos >= len(l.input)
}

func (l *Lexer) peek() byte {
	if l.isAtEnd() {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekNext() byte {
	return l.peekAhead(1)
}

func (l *Lexer) peekAhead(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) advance() byte {
	ch := l.input[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.lineStart = l.pos
	}
	return ch
}

// col returns the 1-based column of the current position.
func (l *Lexer) col() int {
	return l.pos - l.lineStart + 1
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isWordChar(c byte) bool {
	return isAlpha(c) || isDigit(c) || c == '_'
}

func isRadixDigit(c byte) bool {
	return isDigit(c) || isAlpha(c)
}

// isBinaryChar reports whether c can appear in a binary-selector run.
func isBinaryChar(c byte) bool {
	switch c {
	case '\\', '+', '*', '/', '=', '>', '<', '@', '%', '~', '&', '-', '?', ',', '|':
		return true
	}
	return false
}

// emit appends a token and updates the disambiguation state it affects.
func (l *Lexer) emit(typ TokenType, value string, line, col int) {
	l.tokens = append(l.tokens, Token{Type: typ, Value: value, Line: line, Column: col})

	switch typ {
	case LPAREN, LPARRAY:
		l.parenDepth++
	case RPAREN:
		if l.parenDepth > 0 {
			l.parenDepth--
		}
	case LBRACKET, LBARRAY:
		l.blocks = append(l.blocks, blockScope{parenAtEntry: l.parenDepth})
	case RBRACKET:
		if n := len(l.blocks); n > 0 {
			l.blocks = l.blocks[:n-1]
		}
	case COLON:
		// A colon with no pipe yet in the innermost block declares a
		// block parameter.
		if n := len(l.blocks); n > 0 && l.blocks[n-1].pipes == 0 {
			l.blocks[n-1].params++
		}
	case PIPE:
		if n := len(l.blocks); n > 0 {
			l.blocks[n-1].pipes++
		} else if l.parenDepth == 0 {
			l.topPipes++
		}
	}
}

func (l *Lexer) lastToken() (Token, bool) {
	if len(l.tokens) == 0 {
		return Token{}, false
	}
	return l.tokens[len(l.tokens)-1], true
}

// pipeIsBinary resolves the role of a '|' about to be emitted. The
// innermost open block takes precedence over enclosing parentheses: a
// parenthesis forces the binary reading only when it was opened inside
// that block.
func (l *Lexer) pipeIsBinary() bool {
	if n := len(l.blocks); n > 0 {
		scope := l.blocks[n-1]
		if l.parenDepth > scope.parenAtEntry {
			return true
		}
		pipes := scope.pipes
		if scope.params > 0 {
			if pipes == 0 {
				return false // closes the parameter list
			}
			pipes-- // the parameter list closer does not pair with anything
		}
		if pipes%2 == 1 {
			return false // closes a temporaries declaration
		}
		last, ok := l.lastToken()
		return ok && last.CanReceive()
	}

	if l.parenDepth > 0 {
		return true
	}
	if l.topPipes%2 == 1 {
		return false
	}
	last, ok := l.lastToken()
	return ok && last.CanReceive()
}

// signedContext reports whether a '-' before a numeral should merge into a
// signed number token. It merges only when the preceding token cannot
// itself be a message receiver.
func (l *Lexer) signedContext() bool {
	last, ok := l.lastToken()
	if !ok {
		return true // start of input
	}
	switch last.Type {
	case ASSIGN, RETURN, LPAREN, LBRACKET, LBRACE, LPARRAY, LBARRAY,
		BINARY_SELECTOR, KEYWORD, CASCADE, PERIOD, COLON, PIPE:
		return true
	}
	return false
}

// scanToken scans a single token from the current position.
func (l *Lexer) scanToken() {
	ch := l.peek()
	line, col := l.line, l.col()

	switch {
	case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
		l.advance()

	case ch == '"':
		l.scanComment()

	case ch == '\'':
		l.scanString()

	case ch == '$':
		next := l.peekNext()
		if next != 0 && next != ' ' && next != '\t' && next != '\r' && next != '\n' {
			l.advance()
			l.advance()
			l.emit(CHARACTER, l.input[l.pos-2:l.pos], line, col)
		} else {
			l.advance() // lone marker, dropped
		}

	case ch == '#':
		l.scanHash()

	case isDigit(ch):
		l.scanNumber(false)

	case ch == '-':
		if isDigit(l.peekNext()) && l.signedContext() {
			l.scanNumber(true)
		} else {
			l.scanBinarySelector()
		}

	case ch == ':':
		if l.peekNext() == '=' {
			l.advance()
			l.advance()
			l.emit(ASSIGN, ":=", line, col)
		} else {
			l.advance()
			l.emit(COLON, ":", line, col)
		}

	case ch == '^':
		l.advance()
		l.emit(RETURN, "^", line, col)

	case ch == ';':
		l.advance()
		l.emit(CASCADE, ";", line, col)

	case ch == '.':
		l.advance()
		l.emit(PERIOD, ".", line, col)

	case ch == '|':
		l.advance()
		if l.pipeIsBinary() {
			l.emit(BINARY_SELECTOR, "|", line, col)
		} else {
			l.emit(PIPE, "|", line, col)
		}

	case ch == '(':
		l.advance()
		l.emit(LPAREN, "(", line, col)

	case ch == ')':
		l.advance()
		l.emit(RPAREN, ")", line, col)

	case ch == '[':
		l.advance()
		l.emit(LBRACKET, "[", line, col)

	case ch == ']':
		l.advance()
		l.emit(RBRACKET, "]", line, col)

	case ch == '{':
		l.advance()
		l.emit(LBRACE, "{", line, col)

	case ch == '}':
		l.advance()
		l.emit(RBRACE, "}", line, col)

	case ch == '<':
		if isAlpha(l.peekNext()) && strings.IndexByte(l.input[l.pos:], '>') >= 0 {
			l.scanPragma()
		} else {
			l.scanBinarySelector()
		}

	case isBinaryChar(ch):
		l.scanBinarySelector()

	case isAlpha(ch):
		l.scanIdentifierOrKeyword()

	default:
		l.advance() // unknown character, dropped
	}
}

// scanComment handles "comment" with doubled-quote escapes. An
// unterminated comment drops the opening quote and rescans its content.
func (l *Lexer) scanComment() {
	l.scanQuoted('"', COMMENT)
}

// scanString handles 'string' with doubled-quote escapes. An unterminated
// string drops the opening quote and rescans its content.
func (l *Lexer) scanString() {
	l.scanQuoted('\'', STRING)
}

func (l *Lexer) scanQuoted(quote byte, typ TokenType) {
	if quotedEnd(l.input, l.pos, quote) == -1 {
		l.advance()
		return
	}

	line, col := l.line, l.col()
	start := l.pos
	l.advance() // opening quote
	for {
		c := l.advance()
		if c == quote {
			if l.peek() == quote {
				l.advance()
				continue
			}
			break
		}
	}
	l.emit(typ, l.input[start:l.pos], line, col)
}

// quotedEnd returns the offset of the closing delimiter for the quoted
// span opening at start, or -1 if the span never closes.
func quotedEnd(text string, start int, quote byte) int {
	pos := start + 1
	for pos < len(text) {
		if text[pos] == quote {
			if pos+1 < len(text) && text[pos+1] == quote {
				pos += 2
				continue
			}
			return pos
		}
		pos++
	}
	return -1
}

// scanHash handles #( and #[ openers and the three symbol forms: bare
// word (with keyword parts), quoted, and operator run.
func (l *Lexer) scanHash() {
	line, col := l.line, l.col()
	next := l.peekNext()

	switch {
	case next == '(':
		l.advance()
		l.advance()
		l.emit(LPARRAY, "#(", line, col)

	case next == '[':
		l.advance()
		l.advance()
		l.emit(LBARRAY, "#[", line, col)

	case next == '\'':
		if quotedEnd(l.input, l.pos+1, '\'') == -1 {
			l.advance() // drop the # and rescan
			return
		}
		start := l.pos
		l.advance() // #
		l.advance() // opening quote
		for {
			c := l.advance()
			if c == '\'' {
				if l.peek() == '\'' {
					l.advance()
					continue
				}
				break
			}
		}
		l.emit(SYMBOL, l.input[start:l.pos], line, col)

	case isAlpha(next) || next == '_':
		start := l.pos
		l.advance() // #
		for !l.isAtEnd() && isWordChar(l.peek()) {
			l.advance()
		}
		// Keyword symbol parts: each is a word-character run ending in ':'.
		for {
			j := l.pos
			for j < len(l.input) && isWordChar(l.input[j]) {
				j++
			}
			if j < len(l.input) && l.input[j] == ':' {
				for l.pos <= j {
					l.advance()
				}
			} else {
				break
			}
		}
		l.emit(SYMBOL, l.input[start:l.pos], line, col)

	case isBinaryChar(next):
		start := l.pos
		l.advance() // #
		for !l.isAtEnd() && isBinaryChar(l.peek()) {
			l.advance()
		}
		l.emit(SYMBOL, l.input[start:l.pos], line, col)

	default:
		l.advance() // lone #, dropped
	}
}

// scanPragma handles <name ...> bracketed annotations.
func (l *Lexer) scanPragma() {
	line, col := l.line, l.col()
	start := l.pos
	l.advance() // <
	for !l.isAtEnd() && l.peek() != '>' {
		l.advance()
	}
	if !l.isAtEnd() {
		l.advance() // >
	}
	l.emit(PRAGMA, l.input[start:l.pos], line, col)
}

// scanNumber handles integers, floats with optional exponent, radix
// integers (16rFF), and scaled decimals (3.14s2). The token carries the
// raw text; decoding happens in ParseNumber.
func (l *Lexer) scanNumber(signed bool) {
	line, col := l.line, l.col()
	start := l.pos

	if signed {
		l.advance() // -
	}
	for !l.isAtEnd() && isDigit(l.peek()) {
		l.advance()
	}

	switch {
	case l.peek() == 'r' && isRadixDigit(l.peekNext()):
		l.advance() // r
		for !l.isAtEnd() && isRadixDigit(l.peek()) {
			l.advance()
		}

	case l.peek() == '.' && isDigit(l.peekNext()):
		l.advance() // .
		for !l.isAtEnd() && isDigit(l.peek()) {
			l.advance()
		}
		if l.peek() == 's' {
			l.advance() // s
			for !l.isAtEnd() && isDigit(l.peek()) {
				l.advance()
			}
		} else {
			l.scanExponent()
		}

	default:
		l.scanExponent()
	}

	l.emit(NUMBER, l.input[start:l.pos], line, col)
}

// scanExponent consumes an [eE][+-]?digits suffix when fully present.
func (l *Lexer) scanExponent() {
	c := l.peek()
	if c != 'e' && c != 'E' {
		return
	}
	next := l.peekNext()
	switch {
	case isDigit(next):
		l.advance()
	case (next == '+' || next == '-') && isDigit(l.peekAhead(2)):
		l.advance()
		l.advance()
	default:
		return
	}
	for !l.isAtEnd() && isDigit(l.peek()) {
		l.advance()
	}
}

// scanBinarySelector consumes a run of operator characters.
func (l *Lexer) scanBinarySelector() {
	line, col := l.line, l.col()
	start := l.pos
	for !l.isAtEnd() && isBinaryChar(l.peek()) {
		l.advance()
	}
	l.emit(BINARY_SELECTOR, l.input[start:l.pos], line, col)
}

// scanIdentifierOrKeyword handles identifiers, keyword fragments, and the
// six pseudo-variable keywords.
func (l *Lexer) scanIdentifierOrKeyword() {
	line, col := l.line, l.col()
	start := l.pos
	for !l.isAtEnd() && isWordChar(l.peek()) {
		l.advance()
	}
	word := l.input[start:l.pos]

	// identifier immediately followed by ':' is a keyword fragment,
	// unless the colon begins a := assignment.
	if l.peek() == ':' && l.peekNext() != '=' {
		l.advance()
		l.emit(KEYWORD, word+":", line, col)
		return
	}

	if typ, ok := reserved[word]; ok {
		l.emit(typ, word, line, col)
		return
	}
	l.emit(IDENTIFIER, word, line, col)
}
