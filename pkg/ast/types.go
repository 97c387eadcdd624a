// Package ast defines the node types for parsed Smalltalk method bodies.
//
// The node set is closed: every variant implements the unexported marker
// method on Node, so a type switch over nodes can be checked for
// exhaustiveness. Trees are built once by the parser and never mutated
// afterward; the caller is the sole owner.
package ast

// Node is implemented by every syntax node in a parsed method body.
type Node interface {
	node()
}

// Sequence is the root of a method body or block body: an optional
// temporaries declaration followed by statements.
type Sequence struct {
	Temporaries *Temporaries `json:"temporaries,omitempty"`
	Statements  []Node       `json:"statements"`
}

// Temporaries declares locally scoped variables: | a b c |
type Temporaries struct {
	Names []string `json:"names"`
}

// Assignment represents: name := value
type Assignment struct {
	Name  string `json:"name"`
	Value Node   `json:"value"`
}

// Return represents: ^ expression. When present it is always the final
// statement of its enclosing sequence.
type Return struct {
	Expression Node `json:"expression"`
}

// Block represents: [ :params | body ]. Body is nil for an empty block.
type Block struct {
	Parameters []string  `json:"parameters"`
	Body       *Sequence `json:"body,omitempty"`
}

// MessageSend represents a unary, binary, or keyword message send.
type MessageSend struct {
	Receiver  Node   `json:"receiver"`
	Selector  string `json:"selector"`
	Arguments []Node `json:"arguments"`
}

// CascadeMessage is one selector/arguments entry within a cascade.
type CascadeMessage struct {
	Selector  string `json:"selector"`
	Arguments []Node `json:"arguments"`
}

// Cascade represents semicolon-chained messages to one shared receiver.
// The initially parsed send supplies the receiver and the first entry of
// Messages.
type Cascade struct {
	Receiver Node             `json:"receiver"`
	Messages []CascadeMessage `json:"messages"`
}

// Literal holds a literal value: nil, boolean, number, string, character,
// or symbol.
type Literal struct {
	Value Value `json:"value"`
}

// Variable is a reference to an identifier or to one of the
// pseudo-variables self, super, and thisContext.
type Variable struct {
	Name string `json:"name"`
}

// LiteralArray represents #( ... ). Elements are raw data, never
// executable nodes: a bare word inside the array is a symbol value, not a
// variable reference.
type LiteralArray struct {
	Elements []Value `json:"elements"`
}

// DynamicArray represents { expr. expr }: sub-expressions evaluated at
// use time.
type DynamicArray struct {
	Expressions []Node `json:"expressions"`
}

// ByteArray represents #[ ... ]; each value is constrained to 0-255.
type ByteArray struct {
	Values []int `json:"values"`
}

func (*Sequence) node()     {}
func (*Temporaries) node()  {}
func (*Assignment) node()   {}
func (*Return) node()       {}
func (*Block) node()        {}
func (*MessageSend) node()  {}
func (*Cascade) node()      {}
func (*Literal) node()      {}
func (*Variable) node()     {}
func (*LiteralArray) node() {}
func (*DynamicArray) node() {}
func (*ByteArray) node()    {}
