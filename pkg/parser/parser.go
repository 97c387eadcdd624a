// Package parser builds abstract syntax trees for Smalltalk method bodies.
//
// Grammar, tightest binding first: primary, unary send, binary send
// (left-associative), keyword send, cascade, with assignment checked ahead
// of cascade. A sequence is an optional temporaries declaration followed
// by period-separated statements; a return statement, if present, is
// always the last statement parsed.
//
// The parser fails on the first structural problem and never attempts
// local recovery: a malformed body yields a typed error carrying the
// offending token's position, never a partial tree.
package parser

import (
	"fmt"
	"strings"

	"github.com/chazu/tonel/pkg/ast"
	"github.com/chazu/tonel/pkg/lexer"
)

// Parser converts a method body into an AST. A Parser holds no state
// between calls; one instance may be reused for any number of parses, but
// not concurrently.
type Parser struct {
	tokens []lexer.Token
	pos    int
}

// New creates a Parser.
func New() *Parser {
	return &Parser{}
}

// Parse is a convenience wrapper that parses body in one call.
func Parse(body string) (*ast.Sequence, error) {
	return New().Parse(body)
}

// Parse tokenizes and parses a method body.
func (p *Parser) Parse(body string) (*ast.Sequence, error) {
	return p.ParseTokens(lexer.Tokenize(body))
}

// ParseTokens parses an already-tokenized method body. The token list is
// expected to be EOF-terminated, as produced by the lexer.
func (p *Parser) ParseTokens(tokens []lexer.Token) (*ast.Sequence, error) {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != lexer.EOF {
		tokens = append(tokens, lexer.Token{Type: lexer.EOF, Line: 1})
	}
	p.tokens = tokens
	p.pos = 0
	p.skipComments()
	return p.parseSequence()
}

// Token access

func (p *Parser) current() lexer.Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return p.tokens[len(p.tokens)-1] // EOF
}

func (p *Parser) peek() lexer.Token {
	if p.pos+1 < len(p.tokens) {
		return p.tokens[p.pos+1]
	}
	return p.tokens[len(p.tokens)-1] // EOF
}

// advance moves past the current token, transparently skipping comments
// and pragmas, and returns the token that was current.
func (p *Parser) advance() lexer.Token {
	tok := p.current()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	p.skipComments()
	return tok
}

func (p *Parser) skipComments() {
	for p.pos < len(p.tokens)-1 {
		t := p.tokens[p.pos].Type
		if t != lexer.COMMENT && t != lexer.PRAGMA {
			break
		}
		p.pos++
	}
}

func (p *Parser) match(types ...lexer.TokenType) bool {
	cur := p.current().Type
	for _, t := range types {
		if cur == t {
			return true
		}
	}
	return false
}

func (p *Parser) consume(typ lexer.TokenType, message string) (lexer.Token, error) {
	if p.match(typ) {
		return p.advance(), nil
	}
	cur := p.current()
	if message == "" {
		message = fmt.Sprintf("expected %s, got %s", typ, cur.Type)
	}
	return lexer.Token{}, &SyntaxError{Line: cur.Line, Column: cur.Column, Message: message}
}

func (p *Parser) syntaxErrorf(tok lexer.Token, format string, args ...any) error {
	return &SyntaxError{Line: tok.Line, Column: tok.Column, Message: fmt.Sprintf(format, args...)}
}

// Grammar

func (p *Parser) parseSequence() (*ast.Sequence, error) {
	var temps *ast.Temporaries

	if p.match(lexer.PIPE) {
		t, err := p.parseTemporaries()
		if err != nil {
			return nil, err
		}
		temps = t
	}

	stmts, err := p.parseStatements()
	if err != nil {
		return nil, err
	}
	return &ast.Sequence{Temporaries: temps, Statements: stmts}, nil
}

// parseTemporaries parses: | var1 var2 ... |
func (p *Parser) parseTemporaries() (*ast.Temporaries, error) {
	if _, err := p.consume(lexer.PIPE, ""); err != nil {
		return nil, err
	}

	names := []string{}
	for !p.match(lexer.PIPE, lexer.EOF) {
		tok := p.current()
		if tok.Type != lexer.IDENTIFIER && !tok.IsPseudoVariable() {
			break
		}
		if tok.IsPseudoVariable() {
			return nil, &ReservedIdentifierError{Name: tok.Value, Line: tok.Line, Column: tok.Column}
		}
		p.advance()
		names = append(names, tok.Value)
	}

	if _, err := p.consume(lexer.PIPE, "expected closing '|' for temporaries"); err != nil {
		return nil, err
	}
	return &ast.Temporaries{Names: names}, nil
}

func (p *Parser) parseStatements() ([]ast.Node, error) {
	stmts := []ast.Node{}

	for !p.match(lexer.EOF, lexer.RBRACKET) {
		p.skipComments()
		if p.match(lexer.EOF, lexer.RBRACKET) {
			break
		}

		// Standalone periods between statements are discarded.
		if p.match(lexer.PERIOD) {
			p.advance()
			continue
		}

		if p.match(lexer.RETURN) {
			ret, err := p.parseReturn()
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, ret)
			if p.match(lexer.PERIOD) {
				p.advance()
			}
			break // return is always the last statement parsed
		}

		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if expr != nil {
			stmts = append(stmts, expr)
		}

		if p.match(lexer.PERIOD) {
			p.advance()
		} else if !p.match(lexer.EOF, lexer.RBRACKET) {
			break
		}
	}

	return stmts, nil
}

// parseReturn parses: ^ expression
func (p *Parser) parseReturn() (*ast.Return, error) {
	if _, err := p.consume(lexer.RETURN, ""); err != nil {
		return nil, err
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if expr == nil {
		return nil, p.syntaxErrorf(p.current(), "expected expression after '^'")
	}
	return &ast.Return{Expression: expr}, nil
}

func (p *Parser) parseExpression() (ast.Node, error) {
	if p.match(lexer.EOF) {
		return nil, nil
	}
	if p.isAssignment() {
		return p.parseAssignment()
	}
	return p.parseCascade()
}

// isAssignment reports whether the current position starts an assignment:
// an identifier or reserved word immediately followed by :=.
func (p *Parser) isAssignment() bool {
	tok := p.current()
	if tok.Type != lexer.IDENTIFIER && !tok.IsPseudoVariable() {
		return false
	}
	return p.peek().Type == lexer.ASSIGN
}

// parseAssignment parses: variable := expression
func (p *Parser) parseAssignment() (ast.Node, error) {
	tok := p.current()
	if tok.Type != lexer.IDENTIFIER && !tok.IsPseudoVariable() {
		return nil, p.syntaxErrorf(tok, "expected variable name in assignment")
	}
	if tok.IsPseudoVariable() {
		return nil, &ReservedIdentifierError{Name: tok.Value, Line: tok.Line, Column: tok.Column}
	}
	p.advance()

	if _, err := p.consume(lexer.ASSIGN, ""); err != nil {
		return nil, err
	}

	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if value == nil {
		return nil, p.syntaxErrorf(p.current(), "expected expression after ':='")
	}
	return &ast.Assignment{Name: tok.Value, Value: value}, nil
}

// parseCascade parses: expression (; message)*
//
// The receiver of every cascaded message is the receiver of the first
// parsed send, whose own selector and arguments become the first entry of
// the message list. Each subsequent message parses its arguments at the
// precedence matching its own selector kind.
func (p *Parser) parseCascade() (ast.Node, error) {
	expr, err := p.parseKeywordSend()
	if err != nil {
		return nil, err
	}
	if !p.match(lexer.CASCADE) {
		return expr, nil
	}

	var receiver ast.Node
	messages := []ast.CascadeMessage{}
	if send, ok := expr.(*ast.MessageSend); ok {
		receiver = send.Receiver
		messages = append(messages, ast.CascadeMessage{Selector: send.Selector, Arguments: send.Arguments})
	} else {
		receiver = expr
	}

	for p.match(lexer.CASCADE) {
		p.advance()

		switch {
		case p.match(lexer.KEYWORD):
			var selector strings.Builder
			args := []ast.Node{}
			for p.match(lexer.KEYWORD) {
				selector.WriteString(p.advance().Value)
				arg, err := p.parseBinarySend()
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
			}
			messages = append(messages, ast.CascadeMessage{Selector: selector.String(), Arguments: args})

		case p.match(lexer.BINARY_SELECTOR):
			selector := p.advance().Value
			arg, err := p.parseUnarySend()
			if err != nil {
				return nil, err
			}
			messages = append(messages, ast.CascadeMessage{Selector: selector, Arguments: []ast.Node{arg}})

		case p.match(lexer.IDENTIFIER):
			selector := p.advance().Value
			messages = append(messages, ast.CascadeMessage{Selector: selector, Arguments: []ast.Node{}})

		default:
			return nil, p.syntaxErrorf(p.current(), "expected message selector after ';'")
		}
	}

	return &ast.Cascade{Receiver: receiver, Messages: messages}, nil
}

// parseKeywordSend parses at most one compound keyword message whose
// arguments parse at binary-send level.
func (p *Parser) parseKeywordSend() (ast.Node, error) {
	receiver, err := p.parseBinarySend()
	if err != nil {
		return nil, err
	}
	if !p.match(lexer.KEYWORD) {
		return receiver, nil
	}

	var selector strings.Builder
	args := []ast.Node{}
	for p.match(lexer.KEYWORD) {
		kw := p.advance().Value
		selector.WriteString(kw)
		arg, err := p.parseBinarySend()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return &ast.MessageSend{Receiver: receiver, Selector: selector.String(), Arguments: args}, nil
}

// parseBinarySend parses a left-associative chain of binary messages.
func (p *Parser) parseBinarySend() (ast.Node, error) {
	left, err := p.parseUnarySend()
	if err != nil {
		return nil, err
	}

	for p.match(lexer.BINARY_SELECTOR) {
		op := p.advance().Value
		right, err := p.parseUnarySend()
		if err != nil {
			return nil, err
		}
		left = &ast.MessageSend{Receiver: left, Selector: op, Arguments: []ast.Node{right}}
	}
	return left, nil
}

// parseUnarySend parses zero or more trailing unary selectors, each
// checked to not be the start of a keyword fragment.
func (p *Parser) parseUnarySend() (ast.Node, error) {
	receiver, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for p.match(lexer.IDENTIFIER) {
		if p.peek().Type == lexer.COLON {
			break
		}
		selector := p.advance().Value
		receiver = &ast.MessageSend{Receiver: receiver, Selector: selector, Arguments: []ast.Node{}}
	}
	return receiver, nil
}

func (p *Parser) parsePrimary() (ast.Node, error) {
	tok := p.current()

	switch tok.Type {
	case lexer.IDENTIFIER:
		p.advance()
		return &ast.Variable{Name: tok.Value}, nil

	case lexer.NIL:
		p.advance()
		return &ast.Literal{Value: ast.NilValue()}, nil

	case lexer.TRUE:
		p.advance()
		return &ast.Literal{Value: ast.BoolValue(true)}, nil

	case lexer.FALSE:
		p.advance()
		return &ast.Literal{Value: ast.BoolValue(false)}, nil

	case lexer.SELF, lexer.SUPER, lexer.THISCONTEXT:
		p.advance()
		return &ast.Variable{Name: tok.Value}, nil

	case lexer.NUMBER:
		p.advance()
		value, err := p.decodeNumber(tok)
		if err != nil {
			return nil, err
		}
		return &ast.Literal{Value: value}, nil

	case lexer.STRING:
		p.advance()
		return &ast.Literal{Value: ast.StringValue(unquoteString(tok.Value))}, nil

	case lexer.CHARACTER:
		p.advance()
		return &ast.Literal{Value: ast.CharacterValue(tok.Value[1:])}, nil

	case lexer.SYMBOL:
		p.advance()
		return &ast.Literal{Value: ast.SymbolValue(symbolName(tok.Value))}, nil

	case lexer.LBRACKET:
		return p.parseBlock()

	case lexer.LPAREN:
		p.advance()
		// A parenthesized expression may be any full expression,
		// including assignment and cascade.
		var expr ast.Node
		var err error
		if p.isAssignment() {
			expr, err = p.parseAssignment()
		} else {
			expr, err = p.parseCascade()
		}
		if err != nil {
			return nil, err
		}
		if expr == nil {
			return nil, p.syntaxErrorf(p.current(), "expected expression inside parentheses")
		}
		if _, err := p.consume(lexer.RPAREN, "expected ')' to close parenthesized expression"); err != nil {
			return nil, err
		}
		return expr, nil

	case lexer.LBRACE:
		return p.parseDynamicArray()

	case lexer.LPARRAY:
		return p.parseLiteralArray()

	case lexer.LBARRAY:
		return p.parseByteArray()

	default:
		return nil, p.syntaxErrorf(tok, "unexpected token %s", tok.Type)
	}
}

// parseBlock parses: [ :param1 :param2 | temporaries? statements ]
func (p *Parser) parseBlock() (*ast.Block, error) {
	if _, err := p.consume(lexer.LBRACKET, ""); err != nil {
		return nil, err
	}

	params := []string{}
	for p.match(lexer.COLON) {
		p.advance()
		tok := p.current()
		switch {
		case tok.Type == lexer.IDENTIFIER:
			p.advance()
			params = append(params, tok.Value)
		case tok.IsPseudoVariable():
			return nil, &ReservedIdentifierError{Name: tok.Value, Line: tok.Line, Column: tok.Column}
		default:
			return nil, p.syntaxErrorf(tok, "expected block parameter name after ':'")
		}
	}

	if len(params) > 0 && p.match(lexer.PIPE) {
		p.advance()
	}

	var body *ast.Sequence
	if !p.match(lexer.RBRACKET, lexer.EOF) {
		var temps *ast.Temporaries
		if p.match(lexer.PIPE) {
			t, err := p.parseTemporaries()
			if err != nil {
				return nil, err
			}
			temps = t
		}
		stmts, err := p.parseStatements()
		if err != nil {
			return nil, err
		}
		body = &ast.Sequence{Temporaries: temps, Statements: stmts}
	}

	if p.match(lexer.EOF) {
		return nil, p.syntaxErrorf(p.current(), "unclosed block - missing ']'")
	}
	if _, err := p.consume(lexer.RBRACKET, ""); err != nil {
		return nil, err
	}
	return &ast.Block{Parameters: params, Body: body}, nil
}

// parseDynamicArray parses: { expr. expr }
func (p *Parser) parseDynamicArray() (*ast.DynamicArray, error) {
	if _, err := p.consume(lexer.LBRACE, ""); err != nil {
		return nil, err
	}

	exprs := []ast.Node{}
	for !p.match(lexer.RBRACE, lexer.EOF) {
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if expr != nil {
			exprs = append(exprs, expr)
		}

		if p.match(lexer.PERIOD) {
			p.advance()
		} else if !p.match(lexer.RBRACE) {
			break
		}
	}

	if _, err := p.consume(lexer.RBRACE, "expected '}' to close dynamic array"); err != nil {
		return nil, err
	}
	return &ast.DynamicArray{Expressions: exprs}, nil
}

// parseLiteralArray parses: #( elements ). Elements are raw data, never
// executable nodes; a bare parenthesis opens a nested sub-array.
func (p *Parser) parseLiteralArray() (*ast.LiteralArray, error) {
	if _, err := p.consume(lexer.LPARRAY, ""); err != nil {
		return nil, err
	}
	elements, err := p.literalArrayElements()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.RPAREN, "expected ')' to close literal array"); err != nil {
		return nil, err
	}
	return &ast.LiteralArray{Elements: elements}, nil
}

func (p *Parser) literalArrayElements() ([]ast.Value, error) {
	elements := []ast.Value{}

	for !p.match(lexer.RPAREN, lexer.EOF) {
		tok := p.current()

		switch tok.Type {
		case lexer.NUMBER:
			p.advance()
			value, err := p.decodeNumber(tok)
			if err != nil {
				return nil, err
			}
			elements = append(elements, value)

		case lexer.STRING:
			p.advance()
			elements = append(elements, ast.StringValue(unquoteString(tok.Value)))

		case lexer.CHARACTER:
			p.advance()
			elements = append(elements, ast.CharacterValue(tok.Value[1:]))

		case lexer.SYMBOL:
			p.advance()
			elements = append(elements, ast.SymbolValue(symbolName(tok.Value)))

		case lexer.IDENTIFIER, lexer.BINARY_SELECTOR:
			// Bare words and operator runs become symbol values.
			p.advance()
			elements = append(elements, ast.SymbolValue(tok.Value))

		case lexer.KEYWORD:
			// Adjacent keyword fragments fold into one selector symbol,
			// so #(at:put:) holds the single symbol at:put:.
			var selector strings.Builder
			for p.match(lexer.KEYWORD) {
				selector.WriteString(p.advance().Value)
			}
			elements = append(elements, ast.SymbolValue(selector.String()))

		case lexer.CASCADE:
			p.advance()
			elements = append(elements, ast.SymbolValue(tok.Value))

		case lexer.TRUE:
			p.advance()
			elements = append(elements, ast.BoolValue(true))

		case lexer.FALSE:
			p.advance()
			elements = append(elements, ast.BoolValue(false))

		case lexer.NIL:
			p.advance()
			elements = append(elements, ast.NilValue())

		case lexer.SELF, lexer.SUPER, lexer.THISCONTEXT:
			// Pseudo-variable names are plain symbols here, not references.
			p.advance()
			elements = append(elements, ast.SymbolValue(tok.Value))

		case lexer.LPARRAY, lexer.LPAREN:
			p.advance()
			nested, err := p.literalArrayElements()
			if err != nil {
				return nil, err
			}
			if _, err := p.consume(lexer.RPAREN, "expected ')' to close literal array"); err != nil {
				return nil, err
			}
			elements = append(elements, ast.ArrayValue(nested))

		default:
			return elements, nil
		}
	}

	return elements, nil
}

// parseByteArray parses: #[ integers ]. Every element must be an integer
// in the range 0-255.
func (p *Parser) parseByteArray() (*ast.ByteArray, error) {
	if _, err := p.consume(lexer.LBARRAY, ""); err != nil {
		return nil, err
	}

	values := []int{}
	for !p.match(lexer.RBRACKET, lexer.EOF) {
		tok := p.current()
		if tok.Type != lexer.NUMBER {
			break
		}
		p.advance()

		num, err := lexer.ParseNumber(tok.Value)
		if err != nil || num.IsFloat || num.Int < 0 || num.Int > 255 {
			return nil, &InvalidByteValueError{Literal: tok.Value, Line: tok.Line, Column: tok.Column}
		}
		values = append(values, int(num.Int))
	}

	if _, err := p.consume(lexer.RBRACKET, "expected ']' to close byte array"); err != nil {
		return nil, err
	}
	return &ast.ByteArray{Values: values}, nil
}

// decodeNumber converts a NUMBER token into a literal value, positioning
// any decode failure at the token.
func (p *Parser) decodeNumber(tok lexer.Token) (ast.Value, error) {
	num, err := lexer.ParseNumber(tok.Value)
	if err != nil {
		return ast.Value{}, fmt.Errorf("line %d, column %d: %w", tok.Line, tok.Column, err)
	}
	if num.IsFloat {
		return ast.FloatValue(num.Float), nil
	}
	return ast.IntValue(num.Int), nil
}

// unquoteString strips the delimiters from a STRING token and collapses
// doubled quotes.
func unquoteString(text string) string {
	if len(text) >= 2 {
		text = text[1 : len(text)-1]
	}
	return strings.ReplaceAll(text, "''", "'")
}

// symbolName strips the # from a SYMBOL token, and the quotes of a quoted
// symbol.
func symbolName(text string) string {
	name := text[1:]
	if strings.HasPrefix(name, "'") && strings.HasSuffix(name, "'") && len(name) >= 2 {
		name = strings.ReplaceAll(name[1:len(name)-1], "''", "'")
	}
	return name
}
