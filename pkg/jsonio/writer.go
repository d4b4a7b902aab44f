// Package jsonio exports typed tables as JSON lines, one object per row.
package jsonio

import (
	"bufio"
	"io"
	"os"

	gojson "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/tablekit/tablekit/pkg/compress"
	"github.com/tablekit/tablekit/pkg/config"
	"github.com/tablekit/tablekit/pkg/errors"
	"github.com/tablekit/tablekit/pkg/table"
)

// indexKey is the object member carrying the 1-based row index.
const indexKey = "_index"

// Writer exports tables as newline-delimited JSON.
type Writer struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewWriter creates a JSON-lines writer with the given configuration.
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

// Write serializes the table as one JSON object per line. When
// WriteIndex is set each object carries a 1-based "_index" member;
// a table that already has a column of that name is rejected rather
// than silently overwritten.
func (w *Writer) Write(dst io.Writer, tbl *table.Table) error {
	if w.cfg.CSV.WriteIndex {
		if _, err := tbl.Column(indexKey); err == nil {
			return errors.Newf(errors.ErrorTypeDuplicateName,
				"table already has a column named %q", indexKey)
		}
	}

	enc := gojson.NewEncoder(dst)

	it := tbl.NewIterator()
	for i := 0; it.Next(); i++ {
		obj := it.Row().AsMap()
		if w.cfg.CSV.WriteIndex {
			obj[indexKey] = i + 1
		}
		if err := enc.Encode(obj); err != nil {
			return errors.Wrap(err, errors.ErrorTypeFile, "failed to encode row")
		}
	}

	if w.logger != nil {
		w.logger.Info("table exported",
			zap.String("table", w.cfg.Name),
			zap.String("format", "json"),
			zap.Int("rows", tbl.NumRows()))
	}

	return nil
}
