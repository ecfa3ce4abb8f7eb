// pkg/loader/json.go
package loader

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/retailops/ingress/pkg/frame"
)

// readJSON reads an array of flat JSON objects. Column order follows
// the key order of the records as they appear in the file (first-seen
// wins), which a map-based decode would not preserve, so the array is
// walked token by token.
func readJSON(f *os.File) (*frame.Frame, error) {
	dec := json.NewDecoder(f)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, fmt.Errorf("parse json: expected an array of records, got %v", tok)
	}

	var columns []string
	seen := make(map[string]bool)
	var records []map[string]interface{}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
		if d, ok := tok.(json.Delim); !ok || d != '{' {
			return nil, fmt.Errorf("parse json: expected a record object, got %v", tok)
		}

		rec := make(map[string]interface{})
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, fmt.Errorf("parse json: %w", err)
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("parse json: expected object key, got %v", keyTok)
			}

			var val interface{}
			if err := dec.Decode(&val); err != nil {
				return nil, fmt.Errorf("parse json: value for %q: %w", key, err)
			}

			if !seen[key] {
				seen[key] = true
				columns = append(columns, key)
			}
			rec[key] = convertJSONValue(val)
		}
		if _, err := dec.Token(); err != nil { // closing brace
			return nil, fmt.Errorf("parse json: %w", err)
		}
		records = append(records, rec)
	}
	if _, err := dec.Token(); err != nil { // closing bracket
		return nil, fmt.Errorf("parse json: %w", err)
	}

	fr := frame.New(columns)
	for _, rec := range records {
		row := make([]interface{}, len(columns))
		for i, col := range columns {
			row[i] = rec[col]
		}
		if err := fr.AppendRow(row); err != nil {
			return nil, err
		}
	}
	return fr, nil
}

// convertJSONValue narrows json.Number to int64 where it is integral
func convertJSONValue(v interface{}) interface{} {
	num, ok := v.(json.Number)
	if !ok {
		return v
	}
	if i, err := num.Int64(); err == nil {
		return i
	}
	if f, err := num.Float64(); err == nil {
		return f
	}
	return num.String()
}
