// Package assert provides small assertion helpers for step handlers. Each
// helper returns nil on success or an *Error describing the mismatch, so a
// handler can simply return its result.
package assert

import (
	"fmt"
	"reflect"

	"github.com/google/go-cmp/cmp"
)

// Error is returned when an assertion does not hold.
type Error struct {
	Message string
	Diff    string // (-expected +actual) for composite values, else empty
}

func (e *Error) Error() string {
	if e.Diff == "" {
		return e.Message
	}
	return e.Message + "\n" + e.Diff
}

// True fails with "Assertion failed" unless fact holds.
func True(fact bool) error {
	if !fact {
		return &Error{Message: "Assertion failed"}
	}
	return nil
}

// Eq fails unless actual and expected are equal. Numbers of different Go
// types compare by value, so Eq(2, 2.0) holds. what optionally names the
// compared value for the message:
//
//	assert.Eq(st.Number("apples"), 3.0, "amount of apples")
//	// Expected amount of apples to be 3, but it was 0
func Eq(actual, expected any, what ...string) error {
	a, e := normalize(actual), normalize(expected)
	if equal(a, e) {
		return nil
	}

	subject := "value"
	if len(what) > 0 && what[0] != "" {
		subject = what[0]
	}
	err := &Error{Message: fmt.Sprintf("Expected %s to be %s, but it was %s", subject, inspect(e), inspect(a))}
	if isComposite(a) || isComposite(e) {
		err.Diff = diff(e, a)
	}
	return err
}

// equal uses cmp.Equal, falling back to reflect.DeepEqual for values cmp
// refuses to compare (structs with unexported fields).
func equal(a, b any) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = reflect.DeepEqual(a, b)
		}
	}()
	return cmp.Equal(a, b)
}

func diff(want, got any) (d string) {
	defer func() {
		if recover() != nil {
			d = ""
		}
	}()
	return cmp.Diff(want, got)
}

// normalize turns any numeric value into float64 so that scenario numbers,
// which are always float64, compare equal to ints written in Go code.
func normalize(v any) any {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	default:
		return v
	}
}

func isComposite(v any) bool {
	switch reflect.ValueOf(v).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct, reflect.Pointer:
		return true
	default:
		return false
	}
}

func inspect(v any) string {
	switch v := v.(type) {
	case string:
		return fmt.Sprintf("'%s'", v)
	case nil:
		return "undefined"
	default:
		return fmt.Sprintf("%v", v)
	}
}
