package ast

// ValueKind discriminates the variants of a literal Value.
type ValueKind string

const (
	NilKind       ValueKind = "nil"
	BoolKind      ValueKind = "boolean"
	IntKind       ValueKind = "integer"
	FloatKind     ValueKind = "float"
	StringKind    ValueKind = "string"
	CharacterKind ValueKind = "character"
	SymbolKind    ValueKind = "symbol"
	ArrayKind     ValueKind = "array"
)

// Value is the decoded payload of a literal or a literal-array element.
// Exactly one field besides Kind is meaningful, selected by Kind. Array
// values appear only as nested literal-array elements.
type Value struct {
	Kind     ValueKind `json:"kind"`
	Bool     bool      `json:"bool,omitempty"`
	Int      int64     `json:"int,omitempty"`
	Float    float64   `json:"float,omitempty"`
	Text     string    `json:"text,omitempty"`
	Elements []Value   `json:"elements,omitempty"`
}

// NilValue returns the nil literal value.
func NilValue() Value { return Value{Kind: NilKind} }

// BoolValue returns a boolean literal value.
func BoolValue(b bool) Value { return Value{Kind: BoolKind, Bool: b} }

// IntValue returns an integer literal value.
func IntValue(i int64) Value { return Value{Kind: IntKind, Int: i} }

// FloatValue returns a float literal value.
func FloatValue(f float64) Value { return Value{Kind: FloatKind, Float: f} }

// StringValue returns a string literal value.
func StringValue(s string) Value { return Value{Kind: StringKind, Text: s} }

// CharacterValue returns a character literal value.
func CharacterValue(c string) Value { return Value{Kind: CharacterKind, Text: c} }

// SymbolValue returns a symbol value. Bare words inside literal arrays
// decode as symbols.
func SymbolValue(name string) Value { return Value{Kind: SymbolKind, Text: name} }

// ArrayValue returns a nested literal-array value.
func ArrayValue(elements []Value) Value { return Value{Kind: ArrayKind, Elements: elements} }
