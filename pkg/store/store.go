// pkg/store/store.go
package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/retailops/ingress/pkg/frame"
)

// Store persists frames into the layered schemas and reads aggregate
// queries back out. Every write uses append semantics: the destination
// table is created on first use and rows are always added, never
// replaced or deduplicated.
type Store struct {
	db        *sqlx.DB
	logger    *zap.Logger
	batchSize int
}

// New creates a Store over an open database handle
func New(db *sqlx.DB, logger *zap.Logger) *Store {
	return &Store{
		db:        db,
		logger:    logger,
		batchSize: 1000,
	}
}

// WithBatchSize sets the number of rows per INSERT statement
func (s *Store) WithBatchSize(n int) *Store {
	if n > 0 {
		s.batchSize = n
	}
	return s
}

// Append writes all rows of the frame into schema.table, creating the
// table if it does not exist. Returns the number of rows written.
func (s *Store) Append(ctx context.Context, schema, table string, fr *frame.Frame) (int64, error) {
	columns := fr.Columns()
	if len(columns) == 0 {
		return 0, fmt.Errorf("frame for %s.%s has no columns", schema, table)
	}

	ddlTypes := inferColumnTypes(fr)
	if err := s.createTableIfNotExists(ctx, schema, table, columns, ddlTypes); err != nil {
		return 0, err
	}

	fullName := quoteIdent(schema) + "." + quoteIdent(table)
	quoted := make([]string, len(columns))
	for i, col := range columns {
		quoted[i] = quoteIdent(col)
	}
	columnStr := strings.Join(quoted, ", ")

	var total int64
	for start := 0; start < fr.NumRows(); start += s.batchSize {
		end := start + s.batchSize
		if end > fr.NumRows() {
			end = fr.NumRows()
		}

		placeholders := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*len(columns))
		for r := start; r < end; r++ {
			row := fr.Row(r)
			ph := make([]string, len(columns))
			for c := range columns {
				ph[c] = fmt.Sprintf("$%d", len(args)+1)
				args = append(args, bindValue(row[c], ddlTypes[c]))
			}
			placeholders = append(placeholders, "("+strings.Join(ph, ", ")+")")
		}

		query := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
			fullName, columnStr, strings.Join(placeholders, ", "))

		result, err := s.db.ExecContext(ctx, query, args...)
		if err != nil {
			return total, fmt.Errorf("append to %s.%s: %w", schema, table, err)
		}
		if n, err := result.RowsAffected(); err == nil {
			total += n
		} else {
			total += int64(end - start)
		}
	}

	s.logger.Info("Appended rows",
		zap.String("table", schema+"."+table),
		zap.Int64("rows", total))

	return total, nil
}

// createTableIfNotExists issues portable DDL for the destination table
func (s *Store) createTableIfNotExists(ctx context.Context, schema, table string, columns, ddlTypes []string) error {
	defs := make([]string, len(columns))
	for i, col := range columns {
		defs[i] = quoteIdent(col) + " " + ddlTypes[i]
	}

	createSQL := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s.%s (\n\t%s\n)",
		quoteIdent(schema), quoteIdent(table), strings.Join(defs, ",\n\t"))

	if _, err := s.db.ExecContext(ctx, createSQL); err != nil {
		return fmt.Errorf("create table %s.%s: %w", schema, table, err)
	}
	return nil
}

// QueryFrame runs a read query and materializes the result as a frame
func (s *Store) QueryFrame(ctx context.Context, query string, args ...interface{}) (*frame.Frame, error) {
	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("query columns: %w", err)
	}

	fr := frame.New(columns)
	for rows.Next() {
		vals, err := rows.SliceScan()
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		for i, v := range vals {
			if b, ok := v.([]byte); ok {
				vals[i] = string(b)
			}
		}
		if err := fr.AppendRow(vals); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return fr, nil
}

// inferColumnTypes derives a DDL type per column by scanning all of its
// values. A column with mixed or unrecognized content degrades to TEXT,
// which matches how the raw layer keeps dirty feeds intact.
func inferColumnTypes(fr *frame.Frame) []string {
	types := make([]string, fr.NumColumns())
	for c := range types {
		var hasInt, hasFloat, hasTime, hasBool, hasOther bool
		for r := 0; r < fr.NumRows(); r++ {
			switch fr.Row(r)[c].(type) {
			case nil:
			case int, int32, int64:
				hasInt = true
			case float32, float64:
				hasFloat = true
			case time.Time:
				hasTime = true
			case bool:
				hasBool = true
			default:
				hasOther = true
			}
		}

		switch {
		case hasOther:
			types[c] = "TEXT"
		case hasTime && !hasInt && !hasFloat && !hasBool:
			types[c] = "TIMESTAMPTZ"
		case hasBool && !hasInt && !hasFloat && !hasTime:
			types[c] = "BOOLEAN"
		case hasFloat && !hasTime && !hasBool:
			types[c] = "DOUBLE PRECISION"
		case hasInt && !hasFloat && !hasTime && !hasBool:
			types[c] = "BIGINT"
		default:
			types[c] = "TEXT"
		}
	}
	return types
}

// bindValue coerces a cell to match the declared DDL type of its column
func bindValue(v interface{}, ddlType string) interface{} {
	if v == nil {
		return nil
	}
	switch ddlType {
	case "TEXT":
		switch val := v.(type) {
		case string:
			return val
		case []byte:
			return string(val)
		case time.Time:
			return val.Format(time.RFC3339)
		default:
			return fmt.Sprintf("%v", val)
		}
	case "DOUBLE PRECISION":
		switch val := v.(type) {
		case int:
			return float64(val)
		case int32:
			return float64(val)
		case int64:
			return float64(val)
		case float32:
			return float64(val)
		default:
			return v
		}
	case "BIGINT":
		switch val := v.(type) {
		case int:
			return int64(val)
		case int32:
			return int64(val)
		default:
			return v
		}
	default:
		return v
	}
}

// quoteIdent double-quotes an SQL identifier
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
