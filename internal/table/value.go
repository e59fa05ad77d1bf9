package table

// value.go converts raw wizard input into typed cell values.
//
// All Parse* functions return a Value with Valid=false for empty or
// unparsable input, letting null flow through to the saved row instead
// of failing the save.

import (
	"strconv"
	"strings"
)

// Value is one typed cell. Exactly one of Bool, Int, Float, or Text is
// meaningful, selected by Kind; Valid=false means null.
type Value struct {
	Kind  Kind
	Valid bool

	Bool  bool
	Int   int64
	Float float64
	Text  string
}

// Parse converts a raw input string to a Value of the given kind.
func Parse(raw string, kind Kind) Value {
	switch kind {
	case KindBool:
		return ParseBool(raw)
	case KindInt:
		return ParseInt(raw)
	case KindFloat:
		return ParseFloat(raw)
	default:
		return ParseText(raw)
	}
}

// ParseBool converts a raw input to a boolean Value.
// Accepts various representations: true/false, yes/no, t/f, y/n, 1/0.
// Unrecognized input yields false, matching an unticked checkbox.
func ParseBool(raw string) Value {
	switch strings.TrimSpace(strings.ToLower(raw)) {
	case "true", "t", "yes", "y", "1", "on":
		return Value{Kind: KindBool, Valid: true, Bool: true}
	default:
		return Value{Kind: KindBool, Valid: true, Bool: false}
	}
}

// ParseInt converts a raw input to an integer Value.
// Empty or unparsable input yields null.
func ParseInt(raw string) Value {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Value{Kind: KindInt}
	}
	i, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return Value{Kind: KindInt}
	}
	return Value{Kind: KindInt, Valid: true, Int: i}
}

// ParseFloat converts a raw input to a float Value.
// Empty or unparsable input yields null.
func ParseFloat(raw string) Value {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Value{Kind: KindFloat}
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return Value{Kind: KindFloat}
	}
	return Value{Kind: KindFloat, Valid: true, Float: f}
}

// ParseText converts a raw input to a text Value.
// Text never goes null; null input becomes the empty string.
func ParseText(raw string) Value {
	return Value{Kind: KindText, Valid: true, Text: raw}
}

// Cell returns the on-disk cell representation of the value.
// Booleans serialize as True/False so that column inference recognizes
// them on the next load; nulls serialize as the empty cell.
func (v Value) Cell() string {
	if !v.Valid {
		return ""
	}
	switch v.Kind {
	case KindBool:
		if v.Bool {
			return "True"
		}
		return "False"
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	default:
		return v.Text
	}
}

// Interface returns the value as a native Go type for JSON encoding,
// or nil when the value is null.
func (v Value) Interface() any {
	if !v.Valid {
		return nil
	}
	switch v.Kind {
	case KindBool:
		return v.Bool
	case KindInt:
		return v.Int
	case KindFloat:
		return v.Float
	default:
		return v.Text
	}
}
