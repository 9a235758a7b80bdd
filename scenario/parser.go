package scenario

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/eykd/pet-go/pattern"
	"github.com/eykd/pet-go/step"
)

var (
	headerRE      = regexp.MustCompile(`^test (?:"(.*)"|'(.*)')$`)
	instructionRE = regexp.MustCompile(`^(given|when|then|and) (.*)$`)
)

const utf8BOM = "\xef\xbb\xbf"

// Resolver maps instruction text to a registered step. *step.Registry
// implements it.
type Resolver interface {
	Resolve(line string) (step.Match, bool, error)
	Suggest(line string) (string, bool)
}

// isComment returns true if the first non-whitespace character is '#'.
func isComment(trimmed string) bool {
	return strings.HasPrefix(trimmed, "#")
}

// splitLines normalizes line endings and drops a single trailing newline so
// that line numbers match what an editor shows.
func splitLines(content string) []string {
	content = strings.TrimPrefix(content, utf8BOM)
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.TrimSuffix(content, "\n")
	if content == "" {
		return nil
	}
	return strings.Split(content, "\n")
}

// Parse parses scenario source text, resolving every instruction through r.
// It fails on the first malformed line; no scenarios are returned in that
// case. Warnings (empty or duplicate scenarios) are returned alongside a
// successful parse. This is a pure function with no I/O.
func Parse(content, sourcePath string, r Resolver) ([]Scenario, []Diagnostic, error) {
	var scenarios []Scenario
	current := -1

	for i, line := range splitLines(content) {
		loc := Location{File: sourcePath, Line: i + 1}
		trimmed := strings.TrimSpace(line)

		if trimmed == "" || isComment(trimmed) {
			continue
		}

		if m := headerRE.FindStringSubmatch(trimmed); m != nil {
			scenarios = append(scenarios, Scenario{
				Name:  m[1] + m[2],
				File:  sourcePath,
				Line:  loc.Line,
				Steps: []Step{},
			})
			current = len(scenarios) - 1
			continue
		}

		m := instructionRE.FindStringSubmatch(trimmed)
		if m == nil {
			return nil, nil, &SyntaxError{Location: loc, Text: line}
		}
		if current < 0 {
			return nil, nil, &OrphanStepError{Location: loc, Text: line}
		}

		keyword, text := m[1], m[2]
		match, ok, err := r.Resolve(text)
		if err != nil {
			var mle *pattern.MalformedLiteralError
			if errors.As(err, &mle) {
				return nil, nil, &LiteralError{Location: loc, Text: line, Err: mle}
			}
			return nil, nil, fmt.Errorf("%s: resolving step: %w", loc, err)
		}
		if !ok {
			suggestion, _ := r.Suggest(text)
			return nil, nil, &UnmatchedStepError{
				Location:    loc,
				Text:        line,
				Instruction: text,
				Suggestion:  suggestion,
			}
		}

		scenarios[current].Steps = append(scenarios[current].Steps, Step{
			Location:    loc,
			Keyword:     keyword,
			Text:        text,
			Raw:         line,
			Description: match.Definition.Description,
			Args:        match.Args,
			Handler:     match.Definition.Handler,
		})
	}

	return scenarios, lint(scenarios), nil
}

// lint reports scenarios with no steps and names declared more than once in
// the same file.
func lint(scenarios []Scenario) []Diagnostic {
	var diags []Diagnostic
	seen := make(map[string]bool, len(scenarios))
	for _, sc := range scenarios {
		loc := sc.Location()
		if len(sc.Steps) == 0 {
			diags = append(diags, Diagnostic{
				Severity: "warning",
				Code:     CodeEmptyScenario,
				Message:  fmt.Sprintf("scenario %q has no steps", sc.Name),
				Location: &loc,
			})
		}
		if seen[sc.Name] {
			diags = append(diags, Diagnostic{
				Severity: "warning",
				Code:     CodeDuplicateScenario,
				Message:  fmt.Sprintf("scenario %q is declared more than once", sc.Name),
				Location: &loc,
			})
		}
		seen[sc.Name] = true
	}
	return diags
}

// ParseFile reads a scenario file from disk and parses it.
func ParseFile(ctx context.Context, path string, r Resolver) ([]Scenario, []Diagnostic, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading scenario file: %w", err)
	}
	return Parse(string(data), path, r)
}
