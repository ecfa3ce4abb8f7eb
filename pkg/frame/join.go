// pkg/frame/join.go
package frame

import "fmt"

// InnerJoin joins two frames on the named key column, keeping only rows
// with a match on both sides. The key column appears once in the output.
// Non-key columns present in both frames are disambiguated with the
// given suffixes. Output order is left-row-major: each left row is
// followed by one output row per matching right row, in right order.
func InnerJoin(left, right *Frame, key, leftSuffix, rightSuffix string) (*Frame, error) {
	leftKey := left.ColumnIndex(key)
	if leftKey < 0 {
		return nil, fmt.Errorf("join key %q not found in left frame", key)
	}
	rightKey := right.ColumnIndex(key)
	if rightKey < 0 {
		return nil, fmt.Errorf("join key %q not found in right frame", key)
	}

	overlap := make(map[string]bool)
	for _, col := range left.columns {
		if col != key && right.HasColumn(col) {
			overlap[col] = true
		}
	}

	// Output columns: all left columns, then right columns minus the key
	var outCols []string
	for _, col := range left.columns {
		if overlap[col] {
			outCols = append(outCols, col+leftSuffix)
		} else {
			outCols = append(outCols, col)
		}
	}
	for _, col := range right.columns {
		if col == key {
			continue
		}
		if overlap[col] {
			outCols = append(outCols, col+rightSuffix)
		} else {
			outCols = append(outCols, col)
		}
	}

	// Index right rows by key value
	rightByKey := make(map[string][]int)
	for i, row := range right.rows {
		k := keyString(row[rightKey])
		rightByKey[k] = append(rightByKey[k], i)
	}

	out := New(outCols)
	for _, lrow := range left.rows {
		matches := rightByKey[keyString(lrow[leftKey])]
		for _, ri := range matches {
			rrow := right.rows[ri]
			joined := make([]interface{}, 0, len(outCols))
			joined = append(joined, lrow...)
			for ci, v := range rrow {
				if ci == rightKey {
					continue
				}
				joined = append(joined, v)
			}
			out.rows = append(out.rows, joined)
		}
	}

	return out, nil
}

// keyString normalizes a join key so that numerically equal keys of
// different scalar types still match
func keyString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "\x00nil"
	case int64:
		return fmt.Sprintf("%d", val)
	case int:
		return fmt.Sprintf("%d", val)
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%v", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
