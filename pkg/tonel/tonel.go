// Package tonel parses the Tonel package source format.
//
// A Tonel file is an optional leading comment, one Class, Trait, or
// Extension definition carrying flat key-value metadata, and a series of
// method definitions. Method headers are matched structurally; each body
// is sliced out of the raw text by the boundary scanner so that brackets
// inside strings, comments, and character literals never confuse the
// match.
//
// A method whose body cannot be bounded is skipped with a warning rather
// than failing the whole file: a single malformed region never blocks
// discovery of subsequent valid methods.
package tonel

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/chazu/tonel/pkg/parser"
	"github.com/chazu/tonel/pkg/scanner"
)

// Method represents one method definition in a Tonel file. Body is the
// raw method body text, exclusive of its brackets.
type Method struct {
	ClassName     string         `json:"className"`
	IsClassMethod bool           `json:"isClassMethod"`
	Selector      string         `json:"selector"`
	Body          string         `json:"body"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

// ClassDefinition represents the class, trait, or extension definition.
type ClassDefinition struct {
	Type     string         `json:"type"` // "Class", "Trait", or "Extension"
	Metadata map[string]any `json:"metadata"`
}

// File represents a complete parsed Tonel file.
type File struct {
	Comment  string          `json:"comment,omitempty"`
	Class    ClassDefinition `json:"classDefinition"`
	Methods  []Method        `json:"methods"`
	Warnings []string        `json:"warnings,omitempty"`
}

var (
	commentPattern  = regexp.MustCompile(`^"([^"]*)"`)
	classDefPattern = regexp.MustCompile(`(Class|Trait|Extension)\s*\{([^}]*)\}`)

	// Method header: optional {metadata}, class name, optional "class",
	// ">>", then a keyword, unary, or binary selector, up to the opening
	// bracket of the body.
	methodHeaderPattern = regexp.MustCompile(
		`(?:(\{[^}]*\})\s*)?` +
			`([A-Z][a-zA-Z0-9_]*)\s*` +
			`(?:(class)\s*)?` +
			`>>\s*` +
			`((?:[a-zA-Z][a-zA-Z0-9_]*\s*:\s*[a-zA-Z0-9_]*\s*)*[a-zA-Z][a-zA-Z0-9_]*(?:\s*:\s*[a-zA-Z0-9_]*)?|[+\-*/=><@%~|&?,]\s*[a-zA-Z0-9_]*)\s*` +
			`\[`)

	binarySelectorPattern = regexp.MustCompile(`^([+\-*/=><@%~|&?,])`)
	keywordPattern        = regexp.MustCompile(`[a-zA-Z][a-zA-Z0-9_]*:`)
	unarySelectorPattern  = regexp.MustCompile(`^([a-zA-Z][a-zA-Z0-9_]*)`)
	// Value alternatives: a bracketed array captured whole (it may contain
	// commas), or a run up to the next separator.
	stonPairPattern = regexp.MustCompile(`#([a-zA-Z][a-zA-Z0-9_]*)\s*:\s*(\[[^\]]*\]|[^,}]+)`)
)

// Parser parses the Tonel structure of a file without validating method
// body syntax.
type Parser struct{}

// NewParser creates a Tonel structural parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse parses Tonel content into its structured representation.
func (p *Parser) Parse(content string) (*File, error) {
	content = strings.TrimSpace(content)

	file := &File{Methods: []Method{}}

	if m := commentPattern.FindStringSubmatch(content); m != nil {
		file.Comment = m[1]
		content = strings.TrimSpace(content[len(m[0]):])
	}

	loc := classDefPattern.FindStringSubmatchIndex(content)
	if loc == nil {
		return nil, fmt.Errorf("no valid class definition found")
	}
	file.Class = ClassDefinition{
		Type:     content[loc[2]:loc[3]],
		Metadata: parseSimpleSTON(content[loc[4]:loc[5]]),
	}
	content = strings.TrimSpace(content[loc[1]:])

	for _, match := range methodHeaderPattern.FindAllStringSubmatchIndex(content, -1) {
		metadataStr := group(content, match, 1)
		className := group(content, match, 2)
		isClassMethod := group(content, match, 3) == "class"
		selector := extractSelector(strings.TrimSpace(group(content, match, 4)))

		bracketPos := match[1] - 1 // position of '['
		body, _, err := scanner.Extract(content, bracketPos)
		if err != nil {
			file.Warnings = append(file.Warnings,
				fmt.Sprintf("failed to parse method %s>>%s: %v", className, selector, err))
			continue
		}

		var metadata map[string]any
		if metadataStr != "" {
			metadata = parseSimpleSTON(metadataStr[1 : len(metadataStr)-1])
		}

		file.Methods = append(file.Methods, Method{
			ClassName:     className,
			IsClassMethod: isClassMethod,
			Selector:      selector,
			Body:          body,
			Metadata:      metadata,
		})
	}

	return file, nil
}

// ParseFile parses the Tonel file at path.
func (p *Parser) ParseFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return p.Parse(string(data))
}

// Validate reports whether content is structurally valid Tonel, returning
// the error record on failure.
func (p *Parser) Validate(content string) (bool, *parser.ErrorInfo) {
	if _, err := p.Parse(content); err != nil {
		return false, parser.NewErrorInfo(content, err)
	}
	return true, nil
}

// ValidateFile validates the structure of the Tonel file at path.
func (p *Parser) ValidateFile(path string) (bool, *parser.ErrorInfo) {
	return validateFile(path, p.Validate)
}

// group returns the text of capture group n, or "" when unmatched.
func group(content string, match []int, n int) string {
	if match[2*n] == -1 {
		return ""
	}
	return content[match[2*n]:match[2*n+1]]
}

// extractSelector normalizes the raw selector text of a method header
// into the bare selector: "+" for binary, "at:put:" for keyword, "value"
// for unary.
func extractSelector(raw string) string {
	if m := binarySelectorPattern.FindStringSubmatch(raw); m != nil {
		return m[1]
	}
	if keywords := keywordPattern.FindAllString(raw, -1); keywords != nil {
		return strings.Join(keywords, "")
	}
	if m := unarySelectorPattern.FindStringSubmatch(raw); m != nil {
		return m[1]
	}
	return strings.TrimSpace(raw)
}

// parseSimpleSTON parses the flat #key : value metadata form used by
// Tonel definitions. Values may be symbols, strings, arrays of strings,
// integers, booleans, or nil; anything else stays a plain string.
func parseSimpleSTON(ston string) map[string]any {
	result := map[string]any{}
	if strings.TrimSpace(ston) == "" {
		return result
	}

	for _, m := range stonPairPattern.FindAllStringSubmatch(ston, -1) {
		key := m[1]
		value := strings.TrimSpace(m[2])

		switch {
		case strings.HasPrefix(value, "#"):
			result[key] = strings.Trim(value[1:], "'")
		case strings.HasPrefix(value, "'") && strings.HasSuffix(value, "'") && len(value) >= 2:
			result[key] = value[1 : len(value)-1]
		case strings.HasPrefix(value, "[") && strings.HasSuffix(value, "]"):
			inner := strings.TrimSpace(value[1 : len(value)-1])
			items := []string{}
			if inner != "" {
				for _, item := range strings.Split(inner, ",") {
					items = append(items, strings.Trim(strings.TrimSpace(item), "'"))
				}
			}
			result[key] = items
		case isDigits(value):
			n, _ := strconv.Atoi(value)
			result[key] = n
		case value == "true" || value == "false":
			result[key] = value == "true"
		case value == "nil":
			result[key] = nil
		default:
			result[key] = value
		}
	}

	return result
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func validateFile(path string, validate func(string) (bool, *parser.ErrorInfo)) (bool, *parser.ErrorInfo) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, &parser.ErrorInfo{
			Reason:    fmt.Sprintf("failed to read file: %v", err),
			Line:      1,
			ErrorText: path,
		}
	}
	return validate(string(data))
}
