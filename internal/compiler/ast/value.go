package ast

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Truthy reports whether a configuration value counts as true.
//
// nil, false, numeric zero, "", "0" and empty collections are false;
// everything else is true.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != "" && x != "0"
	case int:
		return x != 0
	case int8:
		return x != 0
	case int16:
		return x != 0
	case int32:
		return x != 0
	case int64:
		return x != 0
	case uint:
		return x != 0
	case uint8:
		return x != 0
	case uint16:
		return x != 0
	case uint32:
		return x != 0
	case uint64:
		return x != 0
	case float32:
		return x != 0
	case float64:
		return x != 0
	case []any:
		return len(x) > 0
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() > 0
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	}
	return true
}

// IsScalar reports whether v is a single value rather than a list
func IsScalar(v any) bool {
	switch v.(type) {
	case nil, []any:
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return false
	}
	return true
}

// Args normalizes a raw function value into an argument list.
// Scalars become a one-element list and nil becomes a list holding nil.
func Args(v any) []any {
	switch x := v.(type) {
	case nil:
		return []any{nil}
	case []any:
		return x
	case []string:
		out := make([]any, len(x))
		for i, s := range x {
			out[i] = s
		}
		return out
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out
	}
	return []any{v}
}

// ToString converts a scalar value to its configuration text form.
// true is "1", false and nil are "".
func ToString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		if x {
			return "1"
		}
		return ""
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float32:
		return formatFloat(float64(x), 32)
	case float64:
		return FormatFloat(x)
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}

// FormatFloat renders a float in shortest form. Magnitudes that are too small
// or too large for a readable fixed form use exponent notation.
func FormatFloat(f float64) string {
	return formatFloat(f, 64)
}

// formatFloat formats with the shortest digits that round-trip at bitSize
func formatFloat(f float64, bitSize int) string {
	abs := math.Abs(f)
	if f != 0 && (abs < 1e-4 || abs >= 1e15) {
		return strconv.FormatFloat(f, 'E', -1, bitSize)
	}
	return strconv.FormatFloat(f, 'f', -1, bitSize)
}

// IsNumeric reports whether v is a number or a string holding a decimal number
func IsNumeric(v any) bool {
	switch x := v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	case float32:
		return !math.IsInf(float64(x), 0)
	case float64:
		return !math.IsInf(x, 0)
	case string:
		return numericString(x)
	}
	return false
}

func numericString(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	lower := strings.ToLower(s)
	if strings.Contains(lower, "x") || strings.Contains(lower, "inf") ||
		strings.Contains(lower, "nan") || strings.Contains(lower, "_") {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// ToFloat converts a numeric value to float64
func ToFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	case string:
		if !numericString(x) {
			return 0, false
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	}
	return 0, false
}
