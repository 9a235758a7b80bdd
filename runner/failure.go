package runner

import (
	"errors"
	"fmt"
	"strings"

	"github.com/eykd/pet-go/scenario"
)

// StepFailure ties an error to the step whose handler produced it.
type StepFailure struct {
	Step  scenario.Step
	Err   error
	Stack []byte // goroutine stack when the handler panicked, else nil
}

func (f *StepFailure) Error() string {
	return fmt.Sprintf("%s> %s: %v", f.Step.Location, strings.TrimSpace(f.Step.Raw), f.Err)
}

func (f *StepFailure) Unwrap() error { return f.Err }

// Wrap attaches s to err. If err already carries a StepFailure, from a
// nested run for instance, that failure is returned unchanged so a failure
// is never wrapped twice. Wrap(s, nil) returns nil.
func Wrap(s scenario.Step, err error) *StepFailure {
	if err == nil {
		return nil
	}
	var sf *StepFailure
	if errors.As(err, &sf) {
		return sf
	}
	f := &StepFailure{Step: s, Err: err}
	var pe *PanicError
	if errors.As(err, &pe) {
		f.Stack = pe.Stack
	}
	return f
}

// PanicError is the error recorded when a step handler panics.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	if err, ok := e.Value.(error); ok {
		return "panic: " + err.Error()
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap exposes a panicked error value to errors.Is and errors.As.
func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}
