package tonel

import (
	"fmt"

	"github.com/chazu/tonel/pkg/parser"
)

// FullParser validates both the Tonel structure and the Smalltalk syntax
// of every method body.
type FullParser struct {
	structure *Parser
	body      *parser.Parser
}

// NewFullParser creates a parser that checks structure and method bodies.
func NewFullParser() *FullParser {
	return &FullParser{
		structure: NewParser(),
		body:      parser.New(),
	}
}

// Parse parses content and fails on the first method body that is not
// valid Smalltalk. Methods skipped by the structural pass keep their
// warnings; only bodies that were extracted are checked.
func (p *FullParser) Parse(content string) (*File, error) {
	file, err := p.structure.Parse(content)
	if err != nil {
		return nil, err
	}
	if err := p.checkBodies(file); err != nil {
		return nil, err
	}
	return file, nil
}

// ParseFile parses and fully validates the Tonel file at path.
func (p *FullParser) ParseFile(path string) (*File, error) {
	file, err := p.structure.ParseFile(path)
	if err != nil {
		return nil, err
	}
	if err := p.checkBodies(file); err != nil {
		return nil, err
	}
	return file, nil
}

func (p *FullParser) checkBodies(file *File) error {
	for _, m := range file.Methods {
		if _, err := p.body.Parse(m.Body); err != nil {
			target := m.ClassName
			if m.IsClassMethod {
				target += " class"
			}
			return fmt.Errorf("invalid Smalltalk syntax in method %s>>%s: %w",
				target, m.Selector, err)
		}
	}
	return nil
}

// Validate reports whether content is fully valid Tonel, structure and
// method bodies both, returning the error record on failure.
func (p *FullParser) Validate(content string) (bool, *parser.ErrorInfo) {
	if _, err := p.Parse(content); err != nil {
		return false, parser.NewErrorInfo(content, err)
	}
	return true, nil
}

// ValidateFile fully validates the Tonel file at path.
func (p *FullParser) ValidateFile(path string) (bool, *parser.ErrorInfo) {
	return validateFile(path, p.Validate)
}
