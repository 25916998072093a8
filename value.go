package formula

import (
	"strconv"
	"strings"
)

// Format is the inferred display format of a numeric value. Formats are
// detected from raw cell text before coercion and propagated through every
// operation under the merge rule currency > percent > plain.
type Format uint8

const (
	FormatPlain    Format = 0
	FormatPercent  Format = 1
	FormatCurrency Format = 2
)

func (f Format) String() string {
	switch f {
	case FormatCurrency:
		return "currency"
	case FormatPercent:
		return "percent"
	default:
		return "plain"
	}
}

// Value is a computed numeric result together with its display format.
// The engine never produces string or boolean results.
type Value struct {
	Number float64
	Format Format
}

// mergeFormat combines two operand formats. The rule is associative and
// commutative: currency wins over percent, percent wins over plain.
func mergeFormat(a, b Format) Format {
	if b > a {
		return b
	}
	return a
}

// currency symbols stripped during coercion and recognized for
// format detection
const currencySymbols = "$€£¥"

// detectFormat inspects raw cell text for a leading currency symbol or a
// trailing percent sign. Detection is presentation metadata only; it never
// changes the numeric value.
func detectFormat(s string) Format {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return FormatPlain
	}
	for _, sym := range currencySymbols {
		if strings.HasPrefix(trimmed, string(sym)) {
			return FormatCurrency
		}
	}
	if strings.HasSuffix(trimmed, "%") {
		return FormatPercent
	}
	return FormatPlain
}

// cleanNumericString strips monetary symbols, thousands separators, and a
// single trailing percent sign so the remainder can be parsed as a number
func cleanNumericString(s string) string {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.TrimSuffix(cleaned, "%")
	var b strings.Builder
	for _, ch := range cleaned {
		if ch == ',' || strings.ContainsRune(currencySymbols, ch) {
			continue
		}
		b.WriteRune(ch)
	}
	return strings.TrimSpace(b.String())
}

// coerceValue converts a raw row value to a numeric Value. The rules are
// fixed by the engine contract:
//   - numbers pass through unchanged
//   - booleans coerce to 1/0
//   - empty or missing values coerce to 0, never to an error
//   - strings are cleaned of monetary symbols and separators first; a
//     cleaned string that still fails to parse is always an error, never
//     silently 0
//
// context names the offending location for error messages, e.g.
// `column "Revenue"` or `cell "B2"`.
func coerceValue(raw any, context string) (Value, error) {
	switch v := raw.(type) {
	case nil:
		return Value{}, nil
	case float64:
		return Value{Number: v}, nil
	case float32:
		return Value{Number: float64(v)}, nil
	case int:
		return Value{Number: float64(v)}, nil
	case int32:
		return Value{Number: float64(v)}, nil
	case int64:
		return Value{Number: float64(v)}, nil
	case bool:
		if v {
			return Value{Number: 1}, nil
		}
		return Value{}, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return Value{}, nil
		}
		format := detectFormat(v)
		cleaned := cleanNumericString(v)
		num, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return Value{}, newEvalError(KindConversion, "cannot convert %q in %s to a number", v, context)
		}
		return Value{Number: num, Format: format}, nil
	default:
		return Value{}, newEvalError(KindConversion, "cannot convert value in %s to a number", context)
	}
}

// stringifyIdentity renders a raw row value for identity comparison.
// Numbers render without a trailing ".0" so 42 and 42.0 match.
func stringifyIdentity(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		if v {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

// rangeValue converts a raw cell value for range iteration. Unlike scalar
// coercion, range expansion follows the spreadsheet convention: empty
// cells, booleans, and non-numeric text are silently skipped rather than
// reported as errors.
func rangeValue(raw any) (Value, bool) {
	switch v := raw.(type) {
	case float64:
		return Value{Number: v}, true
	case float32:
		return Value{Number: float64(v)}, true
	case int:
		return Value{Number: float64(v)}, true
	case int32:
		return Value{Number: float64(v)}, true
	case int64:
		return Value{Number: float64(v)}, true
	case string:
		if strings.TrimSpace(v) == "" {
			return Value{}, false
		}
		format := detectFormat(v)
		num, err := strconv.ParseFloat(cleanNumericString(v), 64)
		if err != nil {
			return Value{}, false
		}
		return Value{Number: num, Format: format}, true
	default:
		return Value{}, false
	}
}
