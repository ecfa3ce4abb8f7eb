// pkg/loader/loader.go
package loader

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/retailops/ingress/pkg/frame"
	"github.com/retailops/ingress/pkg/model"
)

// Format identifies a supported input file format
type Format string

const (
	// FormatCSV is a delimited-text file with a header row
	FormatCSV Format = "csv"
	// FormatJSON is an array of flat JSON objects
	FormatJSON Format = "json"
)

// Loader reads source files into frames
type Loader struct {
	logger *zap.Logger
}

// New creates a new Loader
func New(logger *zap.Logger) *Loader {
	return &Loader{logger: logger}
}

// Load reads the file at path into a frame. The format is declared by
// the caller, never inferred from the file name. Columns are exactly
// the source file's fields in source field order; scalar types are
// inferred per value.
func (l *Loader) Load(path string, format Format) (*frame.Frame, error) {
	switch format {
	case FormatCSV, FormatJSON:
	default:
		return nil, model.Errorf(model.CategoryFormat, "load",
			"unsupported file format %q", string(format))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, model.NewError(model.CategoryIO, "load",
			fmt.Errorf("open %s: %w", path, err))
	}
	defer f.Close()

	var fr *frame.Frame
	switch format {
	case FormatCSV:
		fr, err = readCSV(f)
	case FormatJSON:
		fr, err = readJSON(f)
	}
	if err != nil {
		return nil, model.NewError(model.CategoryIO, "load",
			fmt.Errorf("read %s: %w", path, err))
	}

	l.logger.Info("Loaded input file",
		zap.String("path", path),
		zap.String("format", string(format)),
		zap.Int("rows", fr.NumRows()),
		zap.Int("columns", fr.NumColumns()))

	return fr, nil
}

// readCSV reads a header-first delimited file. Cell types are inferred
// the way a tabular parser would: integer, then float, then string.
func readCSV(f *os.File) (*frame.Frame, error) {
	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("parse csv: missing header row")
	}

	fr := frame.New(records[0])
	for _, rec := range records[1:] {
		row := make([]interface{}, len(rec))
		for i, cell := range rec {
			row[i] = inferScalar(cell)
		}
		if err := fr.AppendRow(row); err != nil {
			return nil, err
		}
	}
	return fr, nil
}

// inferScalar converts a text cell to the narrowest scalar that
// represents it. Empty cells become nil.
func inferScalar(s string) interface{} {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	if i, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return f
	}
	return s
}
