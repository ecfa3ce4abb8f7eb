// pkg/model/schema.go
package model

import "strings"

// ColumnType is the declared logical type of a table column
type ColumnType int

const (
	TypeText ColumnType = iota
	TypeInteger
	TypeFloat
	TypeTimestamp
)

// String returns a string representation of the column type
func (t ColumnType) String() string {
	switch t {
	case TypeText:
		return "text"
	case TypeInteger:
		return "integer"
	case TypeFloat:
		return "float"
	case TypeTimestamp:
		return "timestamp"
	default:
		return "unknown"
	}
}

// Column describes one declared column of a table
type Column struct {
	Name            string     // Column name
	Type            ColumnType // Declared logical type
	RequirePositive bool       // Rows failing the positive-number check are dropped
}

// TableSchema declares the expected structure of a destination table.
// Cleaning rules are derived from it: Timestamp columns get coerced,
// RequirePositive columns get filtered. Columns absent from the loaded
// data simply skip their rule.
type TableSchema struct {
	Schema  string   // Destination schema name
	Table   string   // Destination table name
	Columns []Column // Declared columns
}

// FullName returns the fully qualified table name
func (ts *TableSchema) FullName() string {
	return ts.Schema + "." + ts.Table
}

// GetColumnByName returns a column by name (case-insensitive)
// Returns nil if column not found
func (ts *TableSchema) GetColumnByName(name string) *Column {
	for i, col := range ts.Columns {
		if strings.EqualFold(col.Name, name) {
			return &ts.Columns[i]
		}
	}
	return nil
}

// TimestampColumns returns the names of all declared timestamp columns
func (ts *TableSchema) TimestampColumns() []string {
	var names []string
	for _, col := range ts.Columns {
		if col.Type == TypeTimestamp {
			names = append(names, col.Name)
		}
	}
	return names
}

// PositiveColumns returns the names of all columns that must hold a
// strictly positive number
func (ts *TableSchema) PositiveColumns() []string {
	var names []string
	for _, col := range ts.Columns {
		if col.RequirePositive {
			names = append(names, col.Name)
		}
	}
	return names
}

// CustomerTransactions is the declared shape of the transaction feed
func CustomerTransactions() *TableSchema {
	return &TableSchema{
		Schema: "raw",
		Table:  "customer_transactions",
		Columns: []Column{
			{Name: "customer_id", Type: TypeInteger},
			{Name: "product_id", Type: TypeInteger},
			{Name: "quantity", Type: TypeInteger},
			{Name: "price", Type: TypeFloat, RequirePositive: true},
			{Name: "timestamp", Type: TypeTimestamp},
		},
	}
}

// ProductCatalog is the declared shape of the catalog feed
func ProductCatalog() *TableSchema {
	return &TableSchema{
		Schema: "raw",
		Table:  "product_catalog",
		Columns: []Column{
			{Name: "product_id", Type: TypeInteger},
			{Name: "product_name", Type: TypeText},
			{Name: "category", Type: TypeText},
			{Name: "price", Type: TypeFloat, RequirePositive: true},
		},
	}
}

// CleaningStats accounts for what a cleaning pass changed
type CleaningStats struct {
	RowsIn            int // Rows before cleaning
	RowsOut           int // Rows after cleaning
	DuplicatesRemoved int // Exact-duplicate rows dropped
	TimestampsCoerced int // Values converted to time.Time
	InvalidDropped    int // Rows dropped by the positive-number filter
}

// Add merges another stats value into s
func (s *CleaningStats) Add(other CleaningStats) {
	s.RowsIn += other.RowsIn
	s.RowsOut += other.RowsOut
	s.DuplicatesRemoved += other.DuplicatesRemoved
	s.TimestampsCoerced += other.TimestampsCoerced
	s.InvalidDropped += other.InvalidDropped
}
