// pkg/cleaner/cleaner.go
package cleaner

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/retailops/ingress/pkg/frame"
	"github.com/retailops/ingress/pkg/model"
)

// Cleaner applies the fixed cleaning sequence to a loaded frame:
// exact-duplicate removal, timestamp coercion, positive-number filtering.
// Which columns each step touches is driven by the table's declared
// schema, intersected with the columns actually present in the frame.
type Cleaner struct {
	logger *zap.Logger
}

// New creates a new Cleaner instance
func New(logger *zap.Logger) (*Cleaner, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &Cleaner{logger: logger}, nil
}

// Clean runs the cleaning sequence and returns the cleaned frame.
// Deduplication keeps the first occurrence and preserves relative row
// order. A timestamp value that cannot be coerced is fatal for the
// whole table; rows failing the positive-number check are dropped
// silently. All input columns survive in their original order.
func (c *Cleaner) Clean(fr *frame.Frame, schema *model.TableSchema) (*frame.Frame, model.CleaningStats, error) {
	if schema == nil {
		return nil, model.CleaningStats{}, errors.New("table schema cannot be nil")
	}

	stats := model.CleaningStats{RowsIn: fr.NumRows()}

	out := deduplicate(fr)
	stats.DuplicatesRemoved = fr.NumRows() - out.NumRows()

	for _, col := range schema.TimestampColumns() {
		if !out.HasColumn(col) {
			continue
		}
		coerced, err := normalizeTimestamps(out, col)
		if err != nil {
			return nil, stats, model.NewError(model.CategoryParse, "clean",
				fmt.Errorf("table %s, column %s: %w", schema.Table, col, err))
		}
		stats.TimestampsCoerced += coerced
	}

	for _, col := range schema.PositiveColumns() {
		if !out.HasColumn(col) {
			continue
		}
		before := out.NumRows()
		out = filterPositive(out, col)
		stats.InvalidDropped += before - out.NumRows()
	}

	stats.RowsOut = out.NumRows()

	c.logger.Info("Cleaned table",
		zap.String("table", schema.Table),
		zap.Int("rowsIn", stats.RowsIn),
		zap.Int("rowsOut", stats.RowsOut),
		zap.Int("duplicatesRemoved", stats.DuplicatesRemoved),
		zap.Int("timestampsCoerced", stats.TimestampsCoerced),
		zap.Int("invalidDropped", stats.InvalidDropped))

	return out, stats, nil
}
