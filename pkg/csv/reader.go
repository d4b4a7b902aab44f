// Package csv provides delimited-text import and export for typed
// tables. Import parses a header line plus comma-separated rows into
// typed columns, with declared or inferred per-column types; export
// serializes a table back to the same format.
package csv

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/tablekit/tablekit/pkg/compress"
	"github.com/tablekit/tablekit/pkg/config"
	"github.com/tablekit/tablekit/pkg/errors"
	"github.com/tablekit/tablekit/pkg/pool"
	"github.com/tablekit/tablekit/pkg/schema"
	"github.com/tablekit/tablekit/pkg/table"
)

// Reader imports delimited text into typed tables.
type Reader struct {
	cfg      *config.Config
	logger   *zap.Logger
	inferrer *schema.InferenceEngine
}

// NewReader creates a reader with the given configuration.
func NewReader(cfg *config.Config, logger *zap.Logger) *Reader {
	return &Reader{
		cfg:      cfg,
		logger:   logger,
		inferrer: schema.NewInferenceEngine(logger, cfg.Inference.SampleSize, cfg.Inference.ConfidenceThreshold),
	}
}

// ReadFile imports a delimited file, decompressing transparently when
// the extension (or config) names a compression algorithm.
func (r *Reader) ReadFile(path string) (*table.Table, *schema.Schema, error) {
	file, err := os.Open(path) //nolint:gosec // G304: path is caller-controlled
	if err != nil {
		return nil, nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to open input file")
	}
	defer file.Close()

	algo := compress.Detect(path)
	if r.cfg.CSV.Compression != "" {
		algo, err = compress.Parse(r.cfg.CSV.Compression)
		if err != nil {
			return nil, nil, err
		}
	}

	src, err := compress.NewReader(bufio.NewReaderSize(file, r.cfg.Performance.BufferSize), algo)
	if err != nil {
		return nil, nil, err
	}
	defer src.Close()

	return r.Read(src, r.cfg.Name)
}

// Read imports delimited text from src into a table named name.
// Construction is all-or-nothing: a malformed row or an unparsable
// value fails the whole import with a parse error.
func (r *Reader) Read(src io.Reader, name string) (*table.Table, *schema.Schema, error) {
	cr := csv.NewReader(src)
	cr.Comma = r.cfg.CSV.DelimiterRune()
	cr.FieldsPerRecord = -1 // field counts are validated per row below

	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, errors.Wrap(err, errors.ErrorTypeParse, "malformed delimited input")
	}

	headers, rows, err := r.splitHeader(records)
	if err != nil {
		return nil, nil, err
	}

	sch, err := r.resolveSchema(name, headers, rows)
	if err != nil {
		return nil, nil, err
	}

	tbl, err := r.buildTable(sch, rows)
	if err != nil {
		return nil, nil, err
	}

	if r.logger != nil {
		r.logger.Info("table imported",
			zap.String("table", name),
			zap.Int("rows", tbl.NumRows()),
			zap.Int("columns", tbl.NumCols()))
	}

	return tbl, sch, nil
}

// splitHeader separates the header line from data rows. Header-less
// input takes its column names from the declared column specs.
func (r *Reader) splitHeader(records [][]string) ([]string, [][]string, error) {
	if r.cfg.CSV.HasHeader {
		if len(records) == 0 {
			return nil, nil, errors.New(errors.ErrorTypeParse, "input has no header line")
		}
		headers := make([]string, len(records[0]))
		for i, h := range records[0] {
			headers[i] = pool.InternString(strings.TrimSpace(h))
		}
		return headers, records[1:], nil
	}

	if len(r.cfg.CSV.Columns) == 0 {
		return nil, nil, errors.New(errors.ErrorTypeConfig, "header-less input requires declared columns")
	}
	headers := make([]string, len(r.cfg.CSV.Columns))
	for i, spec := range r.cfg.CSV.Columns {
		headers[i] = pool.InternString(spec.Name)
	}
	return headers, records, nil
}

// resolveSchema combines declared column types with inference over
// sampled rows, then applies factor encoding to inferred text columns
// unless plain strings were requested. Declared types bypass both
// inference and factor promotion.
func (r *Reader) resolveSchema(name string, headers []string, rows [][]string) (*schema.Schema, error) {
	declared := make(map[string]string, len(r.cfg.CSV.Columns))
	for _, spec := range r.cfg.CSV.Columns {
		declared[spec.Name] = spec.Type
	}
	isDeclared := func(name string) bool {
		t, ok := declared[name]
		return ok && t != ""
	}

	fields := make([]schema.Field, len(headers))
	for col, header := range headers {
		if typeName, ok := declared[header]; ok && typeName != "" {
			t, err := table.ParseType(typeName)
			if err != nil {
				return nil, err
			}
			fields[col] = schema.NewField(header, t, true)
			continue
		}

		limit := len(rows)
		if limit > r.cfg.Inference.SampleSize {
			limit = r.cfg.Inference.SampleSize
		}
		samples := make([]string, 0, limit)
		for _, row := range rows[:limit] {
			if col < len(row) {
				samples = append(samples, row[col])
			}
		}
		fields[col] = r.inferrer.InferField(header, samples)
	}

	// Inferred text columns become categorical codes unless plain strings
	// are asked for; a declared string type is kept as written
	if !r.cfg.CSV.PlainStrings {
		for i := range fields {
			if fields[i].Type == table.TypeString && !isDeclared(fields[i].Name) {
				fields[i] = schema.NewField(fields[i].Name, table.TypeFactor, fields[i].Nullable)
			}
		}
	}

	sch := &schema.Schema{Name: name, Fields: fields}
	if err := sch.Validate(); err != nil {
		return nil, err
	}
	return sch, nil
}

func (r *Reader) buildTable(sch *schema.Schema, rows [][]string) (*table.Table, error) {
	columns := make([]table.Column, len(sch.Fields))
	for i, field := range sch.Fields {
		columns[i] = table.NewColumn(field.Type)
	}

	for rowNum, row := range rows {
		if len(row) != len(sch.Fields) {
			return nil, errors.Newf(errors.ErrorTypeParse,
				"row %d has %d fields, expected %d", rowNum+1, len(row), len(sch.Fields)).
				WithDetail("row", rowNum+1)
		}

		for col, raw := range row {
			if err := appendCell(columns[col], sch.Fields[col], raw); err != nil {
				return nil, errors.Wrap(err, errors.ErrorTypeParse,
					"row "+strconv.Itoa(rowNum+1)+", column "+strconv.Quote(sch.Fields[col].Name)).
					WithDetail("row", rowNum+1).
					WithDetail("column", sch.Fields[col].Name)
			}
		}
	}

	builder := table.NewBuilder()
	for i, field := range sch.Fields {
		builder.Add(field.Name, columns[i])
	}
	return builder.Build()
}

// appendCell parses one cell into its column. Blank cells are nulls.
func appendCell(col table.Column, field schema.Field, raw string) error {
	switch field.Type {
	case table.TypeString, table.TypeFactor:
		if raw == "" {
			col.AppendNull()
			return nil
		}
		return col.Append(pool.InternString(raw))
	default:
		value := strings.TrimSpace(raw)
		if value == "" {
			col.AppendNull()
			return nil
		}
		return col.Append(value)
	}
}
