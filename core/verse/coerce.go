package verse

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

var errBadLabel = errors.New("not a base-10 integer")

// ParseLabel parses a chapter or verse key. Surrounding whitespace, a
// leading sign and single underscores between digits ("1_000") are accepted.
// The value must fit in an int; larger labels fail with strconv.ErrRange
// rather than being kept as arbitrary-precision integers.
func ParseLabel(label string) (int, error) {
	s := strings.TrimSpace(label)
	if strings.Contains(s, "_") {
		digits := strings.TrimLeft(s, "+-")
		if strings.HasPrefix(digits, "_") || strings.HasSuffix(digits, "_") || strings.Contains(digits, "__") {
			return 0, errBadLabel
		}
		s = strings.ReplaceAll(s, "_", "")
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) {
			return 0, numErr.Err
		}
		return 0, err
	}
	return n, nil
}

// CoerceInt converts a chapter or verse value to an integer. Values that do
// not denote a whole number come back null instead of failing.
func CoerceInt(v any) NullInt {
	switch t := v.(type) {
	case int:
		return Int(t)
	case int64:
		return fromInt64(t)
	case json.Number:
		return parseNumeric(string(t))
	case string:
		return parseNumeric(strings.TrimSpace(t))
	case float64:
		return fromFloat(t)
	default:
		// null, booleans, objects and arrays
		return NullInt{}
	}
}

func parseNumeric(s string) NullInt {
	if s == "" {
		return NullInt{}
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return fromInt64(n)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return NullInt{}
	}
	return fromFloat(f)
}

func fromFloat(f float64) NullInt {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return NullInt{}
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return NullInt{}
	}
	return fromInt64(int64(f))
}

func fromInt64(n int64) NullInt {
	if n < math.MinInt || n > math.MaxInt {
		return NullInt{}
	}
	return Int(int(n))
}

// ScalarString renders a decoded JSON value as cell text. Strings pass
// through, numbers keep their literal, null becomes "" and composite values
// are written as compact JSON. Booleans use JSON spelling ("true", "false"),
// so neither null nor booleans are rendered as "None", "True" or "False".
func ScalarString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return ""
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
