package parser

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// ErrorInfo is the error record a validation entry point returns on
// failure. Line is 1-based; ErrorText is the corresponding source line.
type ErrorInfo struct {
	Reason    string `json:"reason"`
	Line      int    `json:"line"`
	ErrorText string `json:"errorText"`
}

var linePattern = regexp.MustCompile(`(?i)line (\d+)`)

// NewErrorInfo builds the error record for a failed parse of content. The
// line is taken from the failure's own position when available, and
// otherwise recovered by pattern-matching "line N" out of the error text.
func NewErrorInfo(content string, err error) *ErrorInfo {
	line := 1

	var syn *SyntaxError
	var res *ReservedIdentifierError
	var byteVal *InvalidByteValueError
	switch {
	case errors.As(err, &syn):
		line = syn.Line
	case errors.As(err, &res):
		line = res.Line
	case errors.As(err, &byteVal):
		line = byteVal.Line
	default:
		if m := linePattern.FindStringSubmatch(err.Error()); m != nil {
			line, _ = strconv.Atoi(m[1])
		}
	}
	if line < 1 {
		line = 1
	}

	lines := strings.Split(content, "\n")
	errorText := ""
	if line <= len(lines) {
		errorText = strings.TrimSpace(lines[line-1])
	}

	return &ErrorInfo{Reason: err.Error(), Line: line, ErrorText: errorText}
}

// Validate reports whether body parses as a Smalltalk method body,
// returning the error record on failure.
func Validate(body string) (bool, *ErrorInfo) {
	if _, err := Parse(body); err != nil {
		return false, NewErrorInfo(body, err)
	}
	return true, nil
}

// ValidateFile validates the contents of the file at path.
func ValidateFile(path string) (bool, *ErrorInfo) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, &ErrorInfo{
			Reason:    fmt.Sprintf("failed to read file: %v", err),
			Line:      1,
			ErrorText: path,
		}
	}
	return Validate(string(data))
}
