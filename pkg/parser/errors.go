package parser

import "fmt"

// SyntaxError reports a structural violation in a method body. Line and
// Column locate the offending token, 1-based.
type SyntaxError struct {
	Line    int
	Column  int
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Message)
}

// ReservedIdentifierError reports an attempt to bind a reserved word
// (nil, true, false, self, super, thisContext) as an assignment target,
// temporary name, or block parameter.
type ReservedIdentifierError struct {
	Name   string
	Line   int
	Column int
}

func (e *ReservedIdentifierError) Error() string {
	return fmt.Sprintf("line %d, column %d: cannot use reserved identifier %q as a variable name",
		e.Line, e.Column, e.Name)
}

// InvalidByteValueError reports a byte-array element that is not an
// integer in the range 0-255.
type InvalidByteValueError struct {
	Literal string
	Line    int
	Column  int
}

func (e *InvalidByteValueError) Error() string {
	return fmt.Sprintf("line %d, column %d: byte value must be an integer 0-255, got %s",
		e.Line, e.Column, e.Literal)
}
