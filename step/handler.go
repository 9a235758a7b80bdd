// Package step holds the step registry and the types step handlers work with.
//
// A step library registers handlers against descriptions during setup:
//
//	reg := step.NewRegistry()
//	reg.MustRegister("I print $text", func(ctx context.Context, st *step.State, args step.Args) error {
//		st.Append("lines", args.Text(0))
//		return nil
//	})
//	reg.Freeze()
//
// Handlers run one at a time per scenario. A handler that blocks is awaited;
// returning (or panicking) ends the step.
package step

import (
	"context"
	"fmt"
	"strconv"

	"github.com/eykd/pet-go/pattern"
)

// Handler executes one step. st is the scenario's shared state and args are
// the coerced placeholder values in description order.
type Handler func(ctx context.Context, st *State, args Args) error

// Args are the coerced placeholder values for one step invocation.
type Args []pattern.Literal

// ArgError reports a missing argument or one of the wrong kind.
type ArgError struct {
	Index int
	Want  pattern.Kind
	Got   pattern.Kind // zero when the index is out of range
}

func (e *ArgError) Error() string {
	if e.Got == 0 {
		return fmt.Sprintf("argument %d: missing, want %s", e.Index, e.Want)
	}
	return fmt.Sprintf("argument %d: got %s, want %s", e.Index, e.Got, e.Want)
}

// Len returns the number of arguments.
func (a Args) Len() int { return len(a) }

// Value returns argument i as a string or float64, or nil if out of range.
func (a Args) Value(i int) any {
	if i < 0 || i >= len(a) {
		return nil
	}
	return a[i].Value()
}

// Values returns every argument as a string or float64.
func (a Args) Values() []any {
	out := make([]any, len(a))
	for i, lit := range a {
		out[i] = lit.Value()
	}
	return out
}

// String returns argument i, which must be a quoted string.
func (a Args) String(i int) (string, error) {
	lit, err := a.at(i, pattern.KindString)
	if err != nil {
		return "", err
	}
	return lit.Str, nil
}

// Number returns argument i, which must be numeric.
func (a Args) Number(i int) (float64, error) {
	lit, err := a.at(i, pattern.KindNumber)
	if err != nil {
		return 0, err
	}
	return lit.Num, nil
}

// Int returns argument i, which must be an integral number.
func (a Args) Int(i int) (int, error) {
	n, err := a.Number(i)
	if err != nil {
		return 0, err
	}
	if n != float64(int(n)) {
		return 0, fmt.Errorf("argument %d: %v is not an integer", i, n)
	}
	return int(n), nil
}

// Text returns argument i as text whatever its kind: strings unquoted,
// numbers formatted without trailing zeros. Out of range yields "".
func (a Args) Text(i int) string {
	if i < 0 || i >= len(a) {
		return ""
	}
	if a[i].Kind == pattern.KindNumber {
		return strconv.FormatFloat(a[i].Num, 'f', -1, 64)
	}
	return a[i].Str
}

func (a Args) at(i int, want pattern.Kind) (pattern.Literal, error) {
	if i < 0 || i >= len(a) {
		return pattern.Literal{}, &ArgError{Index: i, Want: want}
	}
	if a[i].Kind != want {
		return pattern.Literal{}, &ArgError{Index: i, Want: want, Got: a[i].Kind}
	}
	return a[i], nil
}
