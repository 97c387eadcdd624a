package lexer

import (
	"fmt"
	"strconv"
	"strings"
)

// Number is the decoded value of a NUMBER token: either an integer or a
// float. Scaled decimals are approximated as floats.
type Number struct {
	IsFloat bool
	Int     int64
	Float   float64
}

// InvalidNumberError reports a NUMBER token whose text could not be
// decoded.
type InvalidNumberError struct {
	Literal string
	Reason  string
}

func (e *InvalidNumberError) Error() string {
	return fmt.Sprintf("invalid number literal %q: %s", e.Literal, e.Reason)
}

// ParseNumber decodes the text of a NUMBER token.
//
// Supported forms:
//   - integers: 123, -123
//   - floats: 123.45, 1.23e4, 2e-5
//   - radix integers: 16rFF, 2r1010, -16r100 (base 2-36)
//   - scaled decimals: 3.14s2, approximated as a float (the scale is
//     recorded nowhere; exact decimal arithmetic is out of scope)
func ParseNumber(text string) (Number, error) {
	if i := strings.IndexByte(text, 'r'); i >= 0 {
		return parseRadix(text, i)
	}

	if i := strings.IndexByte(text, 's'); i >= 0 {
		f, err := strconv.ParseFloat(text[:i], 64)
		if err != nil {
			return Number{}, &InvalidNumberError{Literal: text, Reason: "malformed scaled decimal"}
		}
		return Number{IsFloat: true, Float: f}, nil
	}

	if strings.ContainsAny(text, ".eE") {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Number{}, &InvalidNumberError{Literal: text, Reason: "malformed float"}
		}
		return Number{IsFloat: true, Float: f}, nil
	}

	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return Number{}, &InvalidNumberError{Literal: text, Reason: "malformed integer"}
	}
	return Number{Int: v}, nil
}

func parseRadix(text string, rPos int) (Number, error) {
	basePart := text[:rPos]
	digits := text[rPos+1:]

	negative := strings.HasPrefix(basePart, "-")
	if negative {
		basePart = basePart[1:]
	}

	base, err := strconv.Atoi(basePart)
	if err != nil || base < 2 || base > 36 {
		return Number{}, &InvalidNumberError{Literal: text, Reason: "radix base must be 2-36"}
	}

	v, err := strconv.ParseInt(digits, base, 64)
	if err != nil {
		return Number{}, &InvalidNumberError{Literal: text, Reason: fmt.Sprintf("malformed base-%d digits", base)}
	}
	if negative {
		v = -v
	}
	return Number{Int: v}, nil
}
