// pkg/cleaner/operations.go
package cleaner

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/retailops/ingress/pkg/frame"
)

// deduplicate removes rows that are exact duplicates of an earlier row,
// comparing across all columns. First occurrence wins.
func deduplicate(fr *frame.Frame) *frame.Frame {
	seen := make(map[string]bool, fr.NumRows())
	return fr.Filter(func(row []interface{}) bool {
		fp := frame.Fingerprint(row)
		if seen[fp] {
			return false
		}
		seen[fp] = true
		return true
	})
}

// normalizeTimestamps coerces every value of the named column to
// time.Time. Any single failure aborts the whole operation; there is
// no per-row skip at this stage. Returns the number of values that
// were actually converted.
func normalizeTimestamps(fr *frame.Frame, col string) (int, error) {
	coerced := 0
	for i := 0; i < fr.NumRows(); i++ {
		v := fr.Value(i, col)
		if _, ok := v.(time.Time); ok {
			continue
		}
		t, err := toTime(v)
		if err != nil {
			return coerced, fmt.Errorf("row %d: %w", i, err)
		}
		fr.SetValue(i, col, t)
		coerced++
	}
	return coerced, nil
}

// filterPositive retains only the rows whose value in the named column
// is a strictly positive number
func filterPositive(fr *frame.Frame, col string) *frame.Frame {
	idx := fr.ColumnIndex(col)
	return fr.Filter(func(row []interface{}) bool {
		return IsValidPositive(row[idx])
	})
}

// IsValidPositive reports whether v is coercible to a number strictly
// greater than zero. It is a total predicate: non-coercible input
// (including nil) yields false, never an error.
func IsValidPositive(v interface{}) bool {
	f, ok := ParseFloat(v)
	return ok && f > 0
}

// ParseFloat attempts numeric coercion of a scalar. Booleans are not
// numbers here.
func ParseFloat(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case nil:
		return 0, false
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case string:
		cleaned := strings.TrimSpace(val)
		if cleaned == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(cleaned, 64)
		return f, err == nil
	case []byte:
		return ParseFloat(string(val))
	default:
		return 0, false
	}
}

// timeFormats are tried in order when coercing text timestamps
var timeFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"01-02-2006",
	"2006/01/02",
}

// toTime attempts to convert a value to time.Time
func toTime(v interface{}) (time.Time, error) {
	switch val := v.(type) {
	case time.Time:
		return val, nil
	case string:
		cleaned := strings.TrimSpace(val)
		if cleaned == "" {
			return time.Time{}, errors.New("empty string")
		}
		for _, format := range timeFormats {
			if t, err := time.Parse(format, cleaned); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("cannot parse time from %q", cleaned)
	case []byte:
		return toTime(string(val))
	default:
		return time.Time{}, fmt.Errorf("cannot convert %T to time", v)
	}
}
