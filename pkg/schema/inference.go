package schema

import (
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tablekit/tablekit/pkg/errors"
	"github.com/tablekit/tablekit/pkg/table"
)

// InferenceEngine detects column types from sampled string values.
//
// Detection follows the coercion hierarchy bool < int < float < time <
// string: a column keeps the narrowest type every sampled value parses
// as, with integers widening to float when the two are mixed. When no
// type reaches the confidence threshold the column falls back to string.
type InferenceEngine struct {
	logger *zap.Logger

	sampleSize          int
	confidenceThreshold float64
}

// NewInferenceEngine creates a type inference engine.
func NewInferenceEngine(logger *zap.Logger, sampleSize int, confidenceThreshold float64) *InferenceEngine {
	if sampleSize <= 0 {
		sampleSize = 1000
	}
	if confidenceThreshold <= 0 || confidenceThreshold > 1 {
		confidenceThreshold = 0.95
	}
	return &InferenceEngine{
		logger:              logger,
		sampleSize:          sampleSize,
		confidenceThreshold: confidenceThreshold,
	}
}

// InferSchema infers a schema from header names and sampled rows.
// Rows beyond the engine's sample size are ignored. Short rows are
// rejected by the reader before inference, so values beyond a row's
// length are treated as null here.
func (e *InferenceEngine) InferSchema(name string, headers []string, rows [][]string) (*Schema, error) {
	if len(headers) == 0 {
		return nil, errors.New(errors.ErrorTypeData, "no headers to infer schema from")
	}

	limit := len(rows)
	if limit > e.sampleSize {
		limit = e.sampleSize
	}

	fields := make([]Field, len(headers))
	for col, header := range headers {
		samples := make([]string, 0, limit)
		for r := 0; r < limit; r++ {
			if col < len(rows[r]) {
				samples = append(samples, rows[r][col])
			}
		}
		fields[col] = e.InferField(header, samples)
	}

	sch := &Schema{Name: name, Fields: fields}
	if err := sch.Validate(); err != nil {
		return nil, err
	}

	if e.logger != nil {
		e.logger.Debug("schema inferred",
			zap.String("schema", name),
			zap.Int("fields", len(fields)),
			zap.Int("sampled_rows", limit))
	}

	return sch, nil
}

// InferField infers one column's type from sampled values.
func (e *InferenceEngine) InferField(name string, samples []string) Field {
	var ints, floats, bools, times, nonNull int

	for _, raw := range samples {
		value := strings.TrimSpace(raw)
		if value == "" {
			continue
		}
		nonNull++

		if _, err := strconv.ParseInt(value, 10, 64); err == nil {
			ints++
			floats++ // every int parses as a float
			continue
		}
		if _, err := strconv.ParseFloat(value, 64); err == nil {
			floats++
			continue
		}
		if isBoolLiteral(value) {
			bools++
			continue
		}
		if _, err := time.Parse(time.RFC3339, value); err == nil {
			times++
		}
	}

	nullable := nonNull < len(samples)
	if nonNull == 0 {
		// All-null column: string is the only safe choice
		return NewField(name, table.TypeString, true)
	}

	meets := func(count int) bool {
		return float64(count)/float64(nonNull) >= e.confidenceThreshold
	}

	var t table.Type
	switch {
	case bools == nonNull:
		t = table.TypeBool
	case ints == nonNull:
		t = table.TypeInt
	case floats == nonNull:
		t = table.TypeFloat
	case times == nonNull:
		t = table.TypeTime
	case meets(ints):
		t = table.TypeInt
	case meets(floats):
		t = table.TypeFloat
	case meets(bools):
		t = table.TypeBool
	case meets(times):
		t = table.TypeTime
	default:
		t = table.TypeString
	}

	return NewField(name, t, nullable)
}

// DetectValue reports the narrowest type a single value parses as.
func DetectValue(value string) table.Type {
	value = strings.TrimSpace(value)
	if value == "" {
		return table.TypeString
	}
	if _, err := strconv.ParseInt(value, 10, 64); err == nil {
		return table.TypeInt
	}
	if _, err := strconv.ParseFloat(value, 64); err == nil {
		return table.TypeFloat
	}
	if isBoolLiteral(value) {
		return table.TypeBool
	}
	if _, err := time.Parse(time.RFC3339, value); err == nil {
		return table.TypeTime
	}
	return table.TypeString
}

func isBoolLiteral(value string) bool {
	switch value {
	case "true", "false", "TRUE", "FALSE", "True", "False":
		return true
	}
	return false
}
