package table

import (
	"regexp"
	"strconv"
	"strings"
)

// Kind is the inferred input kind of a column. It decides both the
// widget shown by the wizard and the parser applied on save.
type Kind int

const (
	KindText Kind = iota
	KindBool
	KindInt
	KindFloat
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	default:
		return "text"
	}
}

// numericRegex validates that a string is a valid numeric format after cleanup.
// Matches integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// InferKind classifies a column from its existing raw cell values.
//
// Null cells are ignored. A column with no non-null cells is text.
// Otherwise the checks run strictest-first: all boolean tokens, all
// integers, all plain floats, then a lenient numeric-coercion pass
// (stripping currency symbols and thousands separators) that yields
// float on success. Anything else is text.
func InferKind(values []string) Kind {
	nonNull := make([]string, 0, len(values))
	for _, v := range values {
		if !IsNull(v) {
			nonNull = append(nonNull, strings.TrimSpace(v))
		}
	}
	if len(nonNull) == 0 {
		return KindText
	}

	allBool, allInt, allFloat := true, true, true
	for _, v := range nonNull {
		if allBool && !isBoolCell(v) {
			allBool = false
		}
		if allInt {
			if _, err := strconv.ParseInt(v, 10, 64); err != nil {
				allInt = false
			}
		}
		if allFloat {
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				allFloat = false
			}
		}
	}
	switch {
	case allBool:
		return KindBool
	case allInt:
		return KindInt
	case allFloat:
		return KindFloat
	}

	// Last chance: coerce with numeric cleanup. A column of values like
	// "$1,234.56" still counts as numeric input.
	for _, v := range nonNull {
		if _, ok := coerceNumeric(v); !ok {
			return KindText
		}
	}
	return KindFloat
}

// isBoolCell reports whether a stored cell is a boolean literal.
// Only true/false spellings count here; lenient forms like "yes" or "1"
// are accepted on user input but never drive column inference.
func isBoolCell(s string) bool {
	switch strings.ToLower(s) {
	case "true", "false":
		return true
	default:
		return false
	}
}

// coerceNumeric attempts a lenient numeric parse, handling currency
// symbols, thousands separators, and accounting format (parentheses
// for negative).
func coerceNumeric(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	// Detect negative accounting format "(123.45)"
	isNegative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		isNegative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	// Remove common currency symbols and thousands separators
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, "€", "") // Euro
	s = strings.ReplaceAll(s, "£", "") // Pound
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	if isNegative {
		s = "-" + s
	}

	if !numericRegex.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
