// Package linter flags style problems in Tonel Smalltalk sources: class
// naming, instance variable count, method length, and direct instance
// variable access outside accessors and initializers.
package linter

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/chazu/tonel/pkg/tonel"
)

// Severity levels for lint issues.
const (
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// Method length thresholds, in lines of body text. Methods over the soft
// limit get a warning, methods over the hard limit an error. Test and
// baseline methods get the relaxed limit instead.
const (
	softLineLimit    = 15
	hardLineLimit    = 24
	relaxedLineLimit = 40
)

const maxInstanceVars = 10

// Issue is one lint finding.
type Issue struct {
	Severity      string `json:"severity"`
	Message       string `json:"message"`
	ClassName     string `json:"className,omitempty"`
	Selector      string `json:"selector,omitempty"`
	IsClassMethod bool   `json:"isClassMethod,omitempty"`
}

// Linter checks Tonel files and accumulates issue counts across files.
type Linter struct {
	parser   *tonel.Parser
	Warnings int
	Errors   int
}

// New creates a Linter.
func New() *Linter {
	return &Linter{parser: tonel.NewParser()}
}

var (
	// A class name carries a project prefix when it starts with two or
	// more capitals, or with a capital-lowercase-capital run.
	allCapsPrefix = regexp.MustCompile(`^[A-Z]{2,}`)
	camelPrefix   = regexp.MustCompile(`^[A-Z][a-z][A-Z]`)
)

// Lint checks content and returns its issues. Structural failures are
// reported as a single error issue rather than an error value, so one
// broken file never stops a directory run.
func (l *Linter) Lint(content string) []Issue {
	file, err := l.parser.Parse(content)
	if err != nil {
		issue := Issue{Severity: SeverityError, Message: fmt.Sprintf("failed to parse file: %v", err)}
		l.Errors++
		return []Issue{issue}
	}

	var issues []Issue
	issues = append(issues, l.checkClassName(file)...)
	issues = append(issues, l.checkInstanceVars(file)...)

	patterns := accessPatterns(metaStrings(file.Class.Metadata, "instVars"))
	for _, m := range file.Methods {
		issues = append(issues, l.checkMethodLength(m)...)
		issues = append(issues, l.checkDirectAccess(m, patterns)...)
	}

	for _, w := range file.Warnings {
		issues = append(issues, l.record(Issue{Severity: SeverityWarning, Message: w}))
	}

	return issues
}

// LintFile lints the file at path. The error is non-nil only when the
// file cannot be read.
func (l *Linter) LintFile(path string) ([]Issue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return l.Lint(string(data)), nil
}

func (l *Linter) checkClassName(file *tonel.File) []Issue {
	name := strings.TrimPrefix(metaString(file.Class.Metadata, "name"), "#")
	if name == "" {
		return nil
	}
	// Baselines and test classes follow their own naming conventions.
	if strings.HasPrefix(name, "BaselineOf") || strings.HasSuffix(name, "Test") {
		return nil
	}
	if len(name) >= 3 && (allCapsPrefix.MatchString(name) || camelPrefix.MatchString(name)) {
		return nil
	}
	return []Issue{l.record(Issue{
		Severity:  SeverityWarning,
		Message:   fmt.Sprintf("class name %q has no project prefix", name),
		ClassName: name,
	})}
}

func (l *Linter) checkInstanceVars(file *tonel.File) []Issue {
	instVars := metaStrings(file.Class.Metadata, "instVars")
	if len(instVars) <= maxInstanceVars {
		return nil
	}
	name := strings.TrimPrefix(metaString(file.Class.Metadata, "name"), "#")
	return []Issue{l.record(Issue{
		Severity:  SeverityWarning,
		Message:   fmt.Sprintf("class has %d instance variables, more than %d suggests it does too much", len(instVars), maxInstanceVars),
		ClassName: name,
	})}
}

func (l *Linter) checkMethodLength(m tonel.Method) []Issue {
	lines := strings.Split(strings.TrimSpace(m.Body), "\n")
	count := len(lines)

	limit := softLineLimit
	if relaxedCategory(metaString(m.Metadata, "category")) {
		limit = relaxedLineLimit
	}
	if count <= limit {
		return nil
	}

	severity := SeverityWarning
	if limit == softLineLimit && count > hardLineLimit {
		severity = SeverityError
	}
	return []Issue{l.record(Issue{
		Severity:      severity,
		Message:       fmt.Sprintf("method is %d lines long, limit is %d", count, limit),
		ClassName:     m.ClassName,
		Selector:      m.Selector,
		IsClassMethod: m.IsClassMethod,
	})}
}

// varPattern holds the compiled access patterns for one instance
// variable, built once per lint run rather than per method.
type varPattern struct {
	name   string
	assign *regexp.Regexp
	ret    *regexp.Regexp
}

func accessPatterns(instVars []string) []varPattern {
	patterns := make([]varPattern, 0, len(instVars))
	for _, v := range instVars {
		patterns = append(patterns, varPattern{
			name:   v,
			assign: regexp.MustCompile(`\b` + regexp.QuoteMeta(v) + `\s*:=`),
			ret:    regexp.MustCompile(`^\^\s*` + regexp.QuoteMeta(v) + `\b`),
		})
	}
	return patterns
}

func (l *Linter) checkDirectAccess(m tonel.Method, patterns []varPattern) []Issue {
	if len(patterns) == 0 || m.IsClassMethod {
		return nil
	}
	category := strings.ToLower(metaString(m.Metadata, "category"))
	// Accessors and initializers are exactly where direct access belongs.
	if strings.Contains(category, "accessing") || strings.Contains(category, "initializ") {
		return nil
	}

	var issues []Issue
	for _, p := range patterns {
		for _, line := range strings.Split(m.Body, "\n") {
			trimmed := strings.TrimSpace(line)
			hit := p.ret.MatchString(trimmed)
			if !hit {
				if loc := p.assign.FindStringIndex(trimmed); loc != nil &&
					!strings.Contains(trimmed[:loc[0]], "self") {
					hit = true
				}
			}
			if hit {
				issues = append(issues, l.record(Issue{
					Severity:  SeverityWarning,
					Message:   fmt.Sprintf("direct access to instance variable %q outside accessors", p.name),
					ClassName: m.ClassName,
					Selector:  m.Selector,
				}))
				break
			}
		}
	}
	return issues
}

func (l *Linter) record(issue Issue) Issue {
	switch issue.Severity {
	case SeverityError:
		l.Errors++
	default:
		l.Warnings++
	}
	return issue
}

// relaxedCategory reports whether a method category gets the relaxed
// length limit: setup and fixture code runs long by nature.
func relaxedCategory(category string) bool {
	c := strings.ToLower(category)
	for _, keyword := range []string{"building", "initialization", "testing", "data", "examples"} {
		if strings.Contains(c, keyword) {
			return true
		}
	}
	return false
}

// PrintIssues writes the issues found in one file.
func (l *Linter) PrintIssues(w io.Writer, name string, issues []Issue) {
	if len(issues) == 0 {
		return
	}
	fmt.Fprintf(w, "%s:\n", name)
	for _, issue := range issues {
		marker := "warning"
		if issue.Severity == SeverityError {
			marker = "error"
		}
		where := ""
		if issue.Selector != "" {
			target := issue.ClassName
			if issue.IsClassMethod {
				target += " class"
			}
			where = fmt.Sprintf(" [%s>>%s]", target, issue.Selector)
		}
		fmt.Fprintf(w, "  %s:%s %s\n", marker, where, issue.Message)
	}
}

// PrintSummary writes the run totals and returns the process exit code:
// 0 when clean, 1 with warnings only, 2 with any errors.
func (l *Linter) PrintSummary(w io.Writer, filesAnalyzed int) int {
	fmt.Fprintf(w, "analyzed %d file(s): %d warning(s), %d error(s)\n",
		filesAnalyzed, l.Warnings, l.Errors)
	switch {
	case l.Errors > 0:
		return 2
	case l.Warnings > 0:
		return 1
	default:
		return 0
	}
}

func metaString(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}

func metaStrings(m map[string]any, key string) []string {
	if m == nil {
		return nil
	}
	items, _ := m[key].([]string)
	return items
}
