package scenario

import (
	"errors"
	"fmt"
	"strings"

	"github.com/eykd/pet-go/pattern"
)

// SyntaxError reports a line that is not blank, a comment, a test header or
// an instruction.
type SyntaxError struct {
	Location Location
	Text     string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: syntax error: %s", e.Location, e.Text)
}

// Code returns the diagnostic code.
func (e *SyntaxError) Code() string { return CodeSyntaxError }

// UnmatchedStepError reports an instruction no registered step matches.
type UnmatchedStepError struct {
	Location    Location
	Text        string // the full source line
	Instruction string // the text after the keyword
	Suggestion  string // closest registered description, if any
}

func (e *UnmatchedStepError) Error() string {
	msg := fmt.Sprintf("%s: no step matches %q", e.Location, e.Instruction)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}
	return msg
}

// Code returns the diagnostic code.
func (e *UnmatchedStepError) Code() string { return CodeUnmatchedStep }

// OrphanStepError reports an instruction that appears before any test header.
type OrphanStepError struct {
	Location Location
	Text     string
}

func (e *OrphanStepError) Error() string {
	return fmt.Sprintf("%s: %s\nencountered a step without a test", e.Location, e.Text)
}

// Code returns the diagnostic code.
func (e *OrphanStepError) Code() string { return CodeOrphanStep }

// LiteralError locates a malformed literal captured from an instruction.
type LiteralError struct {
	Location Location
	Text     string
	Err      *pattern.MalformedLiteralError
}

func (e *LiteralError) Error() string {
	return fmt.Sprintf("%s: %v", e.Location, e.Err)
}

func (e *LiteralError) Unwrap() error { return e.Err }

// Code returns the diagnostic code.
func (e *LiteralError) Code() string { return CodeMalformedLiteral }

type coded interface {
	error
	Code() string
}

// DiagnosticFor converts a parse error into an error Diagnostic. The location
// moves from the message into Location. Errors that did not come from the
// parser map to CodeIOFailure without a location.
func DiagnosticFor(err error) Diagnostic {
	d := Diagnostic{Severity: "error", Code: CodeIOFailure, Message: err.Error()}

	var c coded
	if errors.As(err, &c) {
		d.Code = c.Code()
	}

	var loc *Location
	var (
		se *SyntaxError
		ue *UnmatchedStepError
		oe *OrphanStepError
		le *LiteralError
	)
	switch {
	case errors.As(err, &se):
		loc = &se.Location
	case errors.As(err, &ue):
		loc = &ue.Location
	case errors.As(err, &oe):
		loc = &oe.Location
	case errors.As(err, &le):
		loc = &le.Location
	}
	if loc != nil {
		l := *loc
		d.Location = &l
		d.Message = strings.TrimPrefix(d.Message, l.String()+": ")
	}
	return d
}
