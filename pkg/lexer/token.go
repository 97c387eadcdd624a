// Package lexer provides tokenization for Smalltalk method bodies.
package lexer

// TokenType represents the type of a token.
type TokenType string

// Token types produced by the lexer.
const (
	// Literals
	STRING    TokenType = "STRING"    // 'hello', with '' as the escape
	SYMBOL    TokenType = "SYMBOL"    // #word, #at:put:, #'quoted', #+
	NUMBER    TokenType = "NUMBER"    // 42, 3.14, 1e5, 16rFF, 3.14s2
	CHARACTER TokenType = "CHARACTER" // $a, $], $$

	// Pseudo-variable keywords
	NIL         TokenType = "NIL"
	TRUE        TokenType = "TRUE"
	FALSE       TokenType = "FALSE"
	SELF        TokenType = "SELF"
	SUPER       TokenType = "SUPER"
	THISCONTEXT TokenType = "THISCONTEXT"

	// Identifiers and selectors
	IDENTIFIER      TokenType = "IDENTIFIER"      // variable names
	KEYWORD         TokenType = "KEYWORD"         // identifier immediately followed by ':'
	BINARY_SELECTOR TokenType = "BINARY_SELECTOR" // operator-character run

	// Delimiters
	LPAREN   TokenType = "LPAREN"   // (
	RPAREN   TokenType = "RPAREN"   // )
	LBRACKET TokenType = "LBRACKET" // [
	RBRACKET TokenType = "RBRACKET" // ]
	LBRACE   TokenType = "LBRACE"   // {
	RBRACE   TokenType = "RBRACE"   // }
	LPARRAY  TokenType = "LPARRAY"  // #( literal array opener
	LBARRAY  TokenType = "LBARRAY"  // #[ byte array opener

	// Operators
	ASSIGN  TokenType = "ASSIGN"  // :=
	RETURN  TokenType = "RETURN"  // ^
	CASCADE TokenType = "CASCADE" // ;
	PERIOD  TokenType = "PERIOD"  // .
	PIPE    TokenType = "PIPE"    // | as a declaration delimiter
	COLON   TokenType = "COLON"   // : introducing a block parameter

	// Special
	COMMENT TokenType = "COMMENT" // "..." with "" as the escape
	PRAGMA  TokenType = "PRAGMA"  // <primitive: 'name'>
	EOF     TokenType = "EOF"
)

// Token represents a single token with its position in the source.
// Line and Column are both 1-based.
type Token struct {
	Type   TokenType `json:"type"`
	Value  string    `json:"value"`
	Line   int       `json:"line"`
	Column int       `json:"col"`
}

// reserved maps the six pseudo-variable keywords to their token types.
var reserved = map[string]TokenType{
	"nil":         NIL,
	"true":        TRUE,
	"false":       FALSE,
	"self":        SELF,
	"super":       SUPER,
	"thisContext": THISCONTEXT,
}

// IsPseudoVariable reports whether the token is one of the six reserved
// pseudo-variable keywords.
func (t Token) IsPseudoVariable() bool {
	switch t.Type {
	case NIL, TRUE, FALSE, SELF, SUPER, THISCONTEXT:
		return true
	}
	return false
}

// CanReceive reports whether the token could serve as a message receiver:
// the end of a value expression, from the lexer's point of view.
func (t Token) CanReceive() bool {
	switch t.Type {
	case IDENTIFIER, NUMBER, STRING, SYMBOL, CHARACTER, RPAREN, RBRACKET,
		TRUE, FALSE, NIL, SELF, SUPER, THISCONTEXT:
		return true
	}
	return false
}
