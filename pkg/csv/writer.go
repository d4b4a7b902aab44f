package csv

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/tablekit/tablekit/pkg/compress"
	"github.com/tablekit/tablekit/pkg/config"
	"github.com/tablekit/tablekit/pkg/errors"
	"github.com/tablekit/tablekit/pkg/table"
)

// Writer exports typed tables as delimited text.
type Writer struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewWriter creates a writer with the given configuration.
func NewWriter(cfg *config.Config, logger *zap.Logger) *Writer {
	return &Writer{cfg: cfg, logger: logger}
}

// WriteFile exports the table to a file, compressing when the extension
// (or config) names a compression algorithm.
func (w *Writer) WriteFile(path string, tbl *table.Table) error {
	file, err := os.Create(path) //nolint:gosec // G304: path is caller-controlled
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to create output file")
	}
	defer file.Close()

	algo := compress.Detect(path)
	if w.cfg.CSV.Compression != "" {
		algo, err = compress.Parse(w.cfg.CSV.Compression)
		if err != nil {
			return err
		}
	}

	buffered := bufio.NewWriterSize(file, w.cfg.Performance.BufferSize)
	dst, err := compress.NewWriter(buffered, algo, compress.Default)
	if err != nil {
		return err
	}

	if err := w.Write(dst, tbl); err != nil {
		dst.Close()
		return err
	}
	if err := dst.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to flush compressed output")
	}
	if err := buffered.Flush(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to flush output file")
	}
	return nil
}

// Write serializes the table as delimited text: a header line of column
// names followed by one line per row. When WriteIndex is set, a leading
// unnamed column carries the 1-based row index.
func (w *Writer) Write(dst io.Writer, tbl *table.Table) error {
	cw := csv.NewWriter(dst)
	cw.Comma = w.cfg.CSV.DelimiterRune()

	names := tbl.Names()
	width := len(names)
	if w.cfg.CSV.WriteIndex {
		width++
	}

	line := make([]string, 0, width)
	if w.cfg.CSV.WriteIndex {
		line = append(line, "")
	}
	line = append(line, names...)
	if err := cw.Write(line); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to write header")
	}

	it := tbl.NewBatchIterator(w.cfg.Performance.BatchSize)
	rowNum := 0
	for {
		batch, ok := it.NextBatch()
		if !ok {
			break
		}
		for _, row := range batch {
			line = line[:0]
			if w.cfg.CSV.WriteIndex {
				line = append(line, strconv.Itoa(rowNum+1))
			}
			for c := 0; c < tbl.NumCols(); c++ {
				line = append(line, formatValue(row.At(c)))
			}
			if err := cw.Write(line); err != nil {
				return errors.Wrap(err, errors.ErrorTypeFile, "failed to write row")
			}
			rowNum++
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to flush rows")
	}

	if w.logger != nil {
		w.logger.Info("table exported",
			zap.String("table", w.cfg.Name),
			zap.Int("rows", tbl.NumRows()),
			zap.Int("columns", tbl.NumCols()))
	}

	return nil
}

// formatValue renders a cell so that importing the output reproduces
// the original value. Nulls become empty fields.
func formatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		s := strconv.FormatFloat(val, 'g', -1, 64)
		// Keep a fraction marker on whole floats so a re-import
		// infers float again instead of int
		if _, err := strconv.ParseInt(s, 10, 64); err == nil {
			s += ".0"
		}
		return s
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		if val.Nanosecond() == 0 {
			return val.Format(time.RFC3339)
		}
		return val.Format(time.RFC3339Nano)
	default:
		return ""
	}
}
