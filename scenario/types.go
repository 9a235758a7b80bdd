// Package scenario parses .pet scenario files into scenarios whose steps are
// already resolved against a step registry.
package scenario

import (
	"fmt"

	"github.com/eykd/pet-go/step"
)

// Location identifies a line in a scenario file.
type Location struct {
	File string `json:"file"`
	Line int    `json:"line"` // 1-based
}

// String formats the location as file:line.
func (l Location) String() string {
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// Step is one given/when/then/and line resolved to a registered handler.
type Step struct {
	Location    Location     `json:"location"`
	Keyword     string       `json:"keyword"`     // "given" | "when" | "then" | "and"
	Text        string       `json:"text"`        // instruction text after the keyword
	Raw         string       `json:"raw"`         // source line as written
	Description string       `json:"description"` // description of the matched definition
	Args        step.Args    `json:"args"`        // coerced placeholder values
	Handler     step.Handler `json:"-"`
}

// Scenario is a named, ordered sequence of steps declared by a test line.
type Scenario struct {
	Name  string `json:"name"`
	File  string `json:"file"`
	Line  int    `json:"line"` // 1-based line of the test header
	Steps []Step `json:"steps"`
}

// Location returns the location of the scenario header.
func (s Scenario) Location() Location {
	return Location{File: s.File, Line: s.Line}
}

// Diagnostic is a structured parse error or warning.
type Diagnostic struct {
	Severity string    `json:"severity"` // "error" | "warning"
	Code     string    `json:"code"`     // e.g. "PETE001", "PETW001"
	Message  string    `json:"message"`
	Location *Location `json:"location,omitempty"`
}

// Parse errors.
const (
	CodeSyntaxError      = "PETE001"
	CodeUnmatchedStep    = "PETE002"
	CodeOrphanStep       = "PETE003"
	CodeMalformedLiteral = "PETE004"
	CodeIOFailure        = "PETE005"
)

// Parse warnings.
const (
	CodeEmptyScenario     = "PETW001"
	CodeDuplicateScenario = "PETW002"
)
