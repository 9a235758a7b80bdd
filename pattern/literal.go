package pattern

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Kind identifies the type of a coerced Literal.
type Kind int

const (
	// KindString is a quoted string literal.
	KindString Kind = iota + 1
	// KindNumber is an integer or decimal literal.
	KindNumber
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	default:
		return "unknown"
	}
}

// Literal is a coerced placeholder value: either a string or a number.
type Literal struct {
	Kind Kind
	Str  string
	Num  float64
}

// StringLiteral returns a string Literal.
func StringLiteral(s string) Literal { return Literal{Kind: KindString, Str: s} }

// NumberLiteral returns a number Literal.
func NumberLiteral(n float64) Literal { return Literal{Kind: KindNumber, Num: n} }

// Value returns the literal as a string or float64.
func (l Literal) Value() any {
	if l.Kind == KindNumber {
		return l.Num
	}
	return l.Str
}

// String formats the literal the way it would be written in a scenario.
func (l Literal) String() string {
	if l.Kind == KindNumber {
		return strconv.FormatFloat(l.Num, 'f', -1, 64)
	}
	return strconv.Quote(l.Str)
}

// MalformedLiteralError reports a captured token that is neither a validly
// quoted string nor a finite number.
type MalformedLiteralError struct {
	Token  string
	Reason string
}

func (e *MalformedLiteralError) Error() string {
	return fmt.Sprintf("malformed literal %q: %s", e.Token, e.Reason)
}

// Coerce converts a captured token into a Literal. Quoted tokens yield the
// text between the quotes with no escape processing; anything else must
// parse as a finite number.
func Coerce(token string) (Literal, error) {
	if token == "" {
		return Literal{}, &MalformedLiteralError{Token: token, Reason: "empty token"}
	}

	if q := token[0]; q == '"' || q == '\'' {
		if len(token) < 2 || token[len(token)-1] != q {
			return Literal{}, &MalformedLiteralError{Token: token, Reason: "unterminated or mismatched quotes"}
		}
		return StringLiteral(token[1 : len(token)-1]), nil
	}

	n, err := strconv.ParseFloat(token, 64)
	if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
		return Literal{}, &MalformedLiteralError{Token: token, Reason: "not a quoted string or finite number"}
	}
	return NumberLiteral(n), nil
}

// CoerceAll coerces every token in order, stopping at the first malformed one.
func CoerceAll(tokens []string) ([]Literal, error) {
	out := make([]Literal, 0, len(tokens))
	for _, tok := range tokens {
		lit, err := Coerce(tok)
		if err != nil {
			return nil, err
		}
		out = append(out, lit)
	}
	return out, nil
}

// MarshalJSON encodes a string literal as a JSON string and a number literal
// as a JSON number.
func (l Literal) MarshalJSON() ([]byte, error) {
	if l.Kind == KindNumber {
		return json.Marshal(l.Num)
	}
	return json.Marshal(l.Str)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (l *Literal) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch v := v.(type) {
	case string:
		*l = StringLiteral(v)
	case float64:
		*l = NumberLiteral(v)
	default:
		return fmt.Errorf("literal must be a JSON string or number, got %s", data)
	}
	return nil
}
