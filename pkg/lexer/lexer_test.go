package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// types strips positions and values, keeping only the token type sequence.
func types(tokens []Token) []TokenType {
	out := make([]TokenType, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Type
	}
	return out
}

func TestTokenize_BasicTokens(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Token
	}{
		{
			name:  "empty input",
			input: "",
			expected: []Token{
				{Type: EOF, Value: "", Line: 1, Column: 1},
			},
		},
		{
			name:  "assignment",
			input: "x := 1",
			expected: []Token{
				{Type: IDENTIFIER, Value: "x", Line: 1, Column: 1},
				{Type: ASSIGN, Value: ":=", Line: 1, Column: 3},
				{Type: NUMBER, Value: "1", Line: 1, Column: 6},
				{Type: EOF, Value: "", Line: 1, Column: 7},
			},
		},
		{
			name:  "return",
			input: "^ self",
			expected: []Token{
				{Type: RETURN, Value: "^", Line: 1, Column: 1},
				{Type: SELF, Value: "self", Line: 1, Column: 3},
				{Type: EOF, Value: "", Line: 1, Column: 7},
			},
		},
		{
			name:  "period and cascade",
			input: "a. b; c",
			expected: []Token{
				{Type: IDENTIFIER, Value: "a", Line: 1, Column: 1},
				{Type: PERIOD, Value: ".", Line: 1, Column: 2},
				{Type: IDENTIFIER, Value: "b", Line: 1, Column: 4},
				{Type: CASCADE, Value: ";", Line: 1, Column: 5},
				{Type: IDENTIFIER, Value: "c", Line: 1, Column: 7},
				{Type: EOF, Value: "", Line: 1, Column: 8},
			},
		},
		{
			name:  "brackets and braces",
			input: "([{}])",
			expected: []Token{
				{Type: LPAREN, Value: "(", Line: 1, Column: 1},
				{Type: LBRACKET, Value: "[", Line: 1, Column: 2},
				{Type: LBRACE, Value: "{", Line: 1, Column: 3},
				{Type: RBRACE, Value: "}", Line: 1, Column: 4},
				{Type: RBRACKET, Value: "]", Line: 1, Column: 5},
				{Type: RPAREN, Value: ")", Line: 1, Column: 6},
				{Type: EOF, Value: "", Line: 1, Column: 7},
			},
		},
		{
			name:  "line tracking",
			input: "a\nb",
			expected: []Token{
				{Type: IDENTIFIER, Value: "a", Line: 1, Column: 1},
				{Type: IDENTIFIER, Value: "b", Line: 2, Column: 1},
				{Type: EOF, Value: "", Line: 2, Column: 2},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Tokenize(tt.input))
		})
	}
}

func TestTokenize_Literals(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantType  TokenType
		wantValue string
	}{
		{"string", "'hello'", STRING, "'hello'"},
		{"string with doubled quote", "'it''s'", STRING, "'it''s'"},
		{"empty string", "''", STRING, "''"},
		{"comment", `"note"`, COMMENT, `"note"`},
		{"comment with doubled quote", `"a ""b"" c"`, COMMENT, `"a ""b"" c"`},
		{"character", "$a", CHARACTER, "$a"},
		{"character bracket", "$]", CHARACTER, "$]"},
		{"character dollar", "$$", CHARACTER, "$$"},
		{"symbol word", "#foo", SYMBOL, "#foo"},
		{"symbol keyword", "#at:put:", SYMBOL, "#at:put:"},
		{"symbol quoted", "#'hello world'", SYMBOL, "#'hello world'"},
		{"symbol operator", "#+", SYMBOL, "#+"},
		{"integer", "42", NUMBER, "42"},
		{"float", "3.14", NUMBER, "3.14"},
		{"exponent", "1e5", NUMBER, "1e5"},
		{"signed exponent", "2e-5", NUMBER, "2e-5"},
		{"radix", "16rFF", NUMBER, "16rFF"},
		{"binary radix", "2r1010", NUMBER, "2r1010"},
		{"scaled decimal", "3.14s2", NUMBER, "3.14s2"},
		{"pragma", "<primitive: 1>", PRAGMA, "<primitive: 1>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := Tokenize(tt.input)
			require.Len(t, tokens, 2) // literal + EOF
			assert.Equal(t, tt.wantType, tokens[0].Type)
			assert.Equal(t, tt.wantValue, tokens[0].Value)
		})
	}
}

func TestTokenize_PseudoVariables(t *testing.T) {
	tokens := Tokenize("nil true false self super thisContext")
	assert.Equal(t,
		[]TokenType{NIL, TRUE, FALSE, SELF, SUPER, THISCONTEXT, EOF},
		types(tokens))
	for _, tok := range tokens[:6] {
		assert.True(t, tok.IsPseudoVariable())
	}
}

func TestTokenize_KeywordsAndSelectors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []TokenType
	}{
		{
			name:  "keyword message",
			input: "d at: 1 put: 2",
			want:  []TokenType{IDENTIFIER, KEYWORD, NUMBER, KEYWORD, NUMBER, EOF},
		},
		{
			name:  "colon of := is not a keyword",
			input: "at := 1",
			want:  []TokenType{IDENTIFIER, ASSIGN, NUMBER, EOF},
		},
		{
			name:  "binary selector run",
			input: "a >= b",
			want:  []TokenType{IDENTIFIER, BINARY_SELECTOR, IDENTIFIER, EOF},
		},
		{
			name:  "comparison is not a pragma",
			input: "a < b",
			want:  []TokenType{IDENTIFIER, BINARY_SELECTOR, IDENTIFIER, EOF},
		},
		{
			name:  "array openers",
			input: "#(1) #[2]",
			want:  []TokenType{LPARRAY, NUMBER, RPAREN, LBARRAY, NUMBER, RBRACKET, EOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, types(Tokenize(tt.input)))
		})
	}
}

// TestTokenize_PipeRoles covers the three roles of '|': binary operator,
// block parameter list closer, and temporaries delimiter.
func TestTokenize_PipeRoles(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []TokenType
	}{
		{
			name:  "binary operator inside parentheses",
			input: "(a | b)",
			want:  []TokenType{LPAREN, IDENTIFIER, BINARY_SELECTOR, IDENTIFIER, RPAREN, EOF},
		},
		{
			name:  "temporaries delimiters at top level",
			input: "| x | x := 1",
			want:  []TokenType{PIPE, IDENTIFIER, PIPE, IDENTIFIER, ASSIGN, NUMBER, EOF},
		},
		{
			name:  "binary operator after receiver at top level",
			input: "a | b",
			want:  []TokenType{IDENTIFIER, BINARY_SELECTOR, IDENTIFIER, EOF},
		},
		{
			name:  "parameter list closer in block",
			input: "[ :x | x ]",
			want:  []TokenType{LBRACKET, COLON, IDENTIFIER, PIPE, IDENTIFIER, RBRACKET, EOF},
		},
		{
			name:  "temporaries inside block",
			input: "[ | t | t ]",
			want:  []TokenType{LBRACKET, PIPE, IDENTIFIER, PIPE, IDENTIFIER, RBRACKET, EOF},
		},
		{
			name:  "binary pipe after params closed",
			input: "[ :x | x | x ]",
			want:  []TokenType{LBRACKET, COLON, IDENTIFIER, PIPE, IDENTIFIER, BINARY_SELECTOR, IDENTIFIER, RBRACKET, EOF},
		},
		{
			name:  "parameter list closer in block inside parentheses",
			input: "(coll collect: [ :x | x ])",
			want: []TokenType{LPAREN, IDENTIFIER, KEYWORD, LBRACKET, COLON, IDENTIFIER,
				PIPE, IDENTIFIER, RBRACKET, RPAREN, EOF},
		},
		{
			name:  "block temporaries inside parentheses",
			input: "( [ | t | t ] )",
			want: []TokenType{LPAREN, LBRACKET, PIPE, IDENTIFIER, PIPE, IDENTIFIER,
				RBRACKET, RPAREN, EOF},
		},
		{
			name:  "paren opened inside a block still forces binary",
			input: "[ (a | b) ]",
			want: []TokenType{LBRACKET, LPAREN, IDENTIFIER, BINARY_SELECTOR, IDENTIFIER,
				RPAREN, RBRACKET, EOF},
		},
		{
			name:  "block under paren then binary pipe after it closes",
			input: "x := (b select: [ :e | e ]) size",
			want: []TokenType{IDENTIFIER, ASSIGN, LPAREN, IDENTIFIER, KEYWORD, LBRACKET,
				COLON, IDENTIFIER, PIPE, IDENTIFIER, RBRACKET, RPAREN, IDENTIFIER, EOF},
		},
		{
			name:  "outer state restored after block",
			input: "[ :x | x ] value | y",
			want: []TokenType{LBRACKET, COLON, IDENTIFIER, PIPE, IDENTIFIER, RBRACKET,
				IDENTIFIER, BINARY_SELECTOR, IDENTIFIER, EOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, types(Tokenize(tt.input)))
		})
	}
}

// TestTokenize_SignedNumbers covers the merge rule for '-': it joins a
// following numeral only when the previous token cannot be a receiver.
func TestTokenize_SignedNumbers(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Token
	}{
		{
			name:  "negative literal at start",
			input: "-5",
			want: []Token{
				{Type: NUMBER, Value: "-5", Line: 1, Column: 1},
				{Type: EOF, Value: "", Line: 1, Column: 3},
			},
		},
		{
			name:  "negative argument after binary operator",
			input: "x + -5",
			want: []Token{
				{Type: IDENTIFIER, Value: "x", Line: 1, Column: 1},
				{Type: BINARY_SELECTOR, Value: "+", Line: 1, Column: 3},
				{Type: NUMBER, Value: "-5", Line: 1, Column: 5},
				{Type: EOF, Value: "", Line: 1, Column: 7},
			},
		},
		{
			name:  "subtraction after receiver",
			input: "x - 5",
			want: []Token{
				{Type: IDENTIFIER, Value: "x", Line: 1, Column: 1},
				{Type: BINARY_SELECTOR, Value: "-", Line: 1, Column: 3},
				{Type: NUMBER, Value: "5", Line: 1, Column: 5},
				{Type: EOF, Value: "", Line: 1, Column: 6},
			},
		},
		{
			name:  "subtraction without spaces",
			input: "x-5",
			want: []Token{
				{Type: IDENTIFIER, Value: "x", Line: 1, Column: 1},
				{Type: BINARY_SELECTOR, Value: "-", Line: 1, Column: 2},
				{Type: NUMBER, Value: "5", Line: 1, Column: 3},
				{Type: EOF, Value: "", Line: 1, Column: 4},
			},
		},
		{
			name:  "negative after keyword",
			input: "x at: -1",
			want: []Token{
				{Type: IDENTIFIER, Value: "x", Line: 1, Column: 1},
				{Type: KEYWORD, Value: "at:", Line: 1, Column: 3},
				{Type: NUMBER, Value: "-1", Line: 1, Column: 7},
				{Type: EOF, Value: "", Line: 1, Column: 9},
			},
		},
		{
			name:  "negative after assignment",
			input: "x := -2",
			want: []Token{
				{Type: IDENTIFIER, Value: "x", Line: 1, Column: 1},
				{Type: ASSIGN, Value: ":=", Line: 1, Column: 3},
				{Type: NUMBER, Value: "-2", Line: 1, Column: 6},
				{Type: EOF, Value: "", Line: 1, Column: 8},
			},
		},
		{
			name:  "negative radix",
			input: "( -16rFF )",
			want: []Token{
				{Type: LPAREN, Value: "(", Line: 1, Column: 1},
				{Type: NUMBER, Value: "-16rFF", Line: 1, Column: 3},
				{Type: RPAREN, Value: ")", Line: 1, Column: 10},
				{Type: EOF, Value: "", Line: 1, Column: 11},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.input))
		})
	}
}

func TestTokenize_EdgeCases(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []TokenType
	}{
		{
			name:  "unterminated string drops the quote and rescans",
			input: "'abc",
			want:  []TokenType{IDENTIFIER, EOF},
		},
		{
			name:  "unterminated comment drops the quote and rescans",
			input: `"abc`,
			want:  []TokenType{IDENTIFIER, EOF},
		},
		{
			name:  "lone dollar dropped",
			input: "$",
			want:  []TokenType{EOF},
		},
		{
			name:  "lone hash dropped",
			input: "# x",
			want:  []TokenType{IDENTIFIER, EOF},
		},
		{
			name:  "unknown character dropped",
			input: "a ` b",
			want:  []TokenType{IDENTIFIER, IDENTIFIER, EOF},
		},
		{
			name:  "colon alone introduces a parameter",
			input: "[ :x ]",
			want:  []TokenType{LBRACKET, COLON, IDENTIFIER, RBRACKET, EOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, types(Tokenize(tt.input)))
		})
	}
}

func TestTokenize_FullBodies(t *testing.T) {
	input := `| sum |
sum := 0.
#(1 2 3) do: [ :each | sum := sum + each ].
^ sum`

	tokens := Tokenize(input)
	assert.Equal(t, []TokenType{
		PIPE, IDENTIFIER, PIPE,
		IDENTIFIER, ASSIGN, NUMBER, PERIOD,
		LPARRAY, NUMBER, NUMBER, NUMBER, RPAREN, KEYWORD,
		LBRACKET, COLON, IDENTIFIER, PIPE, IDENTIFIER, ASSIGN, IDENTIFIER,
		BINARY_SELECTOR, IDENTIFIER, RBRACKET, PERIOD,
		RETURN, IDENTIFIER, EOF,
	}, types(tokens))

	// Positions survive across lines.
	assert.Equal(t, 4, tokens[len(tokens)-2].Line)
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Number
	}{
		{"integer", "42", Number{Int: 42}},
		{"negative integer", "-7", Number{Int: -7}},
		{"float", "3.14", Number{IsFloat: true, Float: 3.14}},
		{"exponent", "1e5", Number{IsFloat: true, Float: 1e5}},
		{"negative exponent", "2e-5", Number{IsFloat: true, Float: 2e-5}},
		{"hex radix", "16rFF", Number{Int: 255}},
		{"binary radix", "2r1010", Number{Int: 10}},
		{"base 36", "36rZ", Number{Int: 35}},
		{"negative radix", "-16r100", Number{Int: -256}},
		{"scaled decimal approximates to float", "3.14s2", Number{IsFloat: true, Float: 3.14}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseNumber(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseNumber_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"radix base too small", "1r000"},
		{"radix base too large", "37rZZ"},
		{"digits beyond the base", "2r1012"},
		{"empty radix digits", "16r"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseNumber(tt.input)
			require.Error(t, err)

			var invalid *InvalidNumberError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tt.input, invalid.Literal)
		})
	}
}
