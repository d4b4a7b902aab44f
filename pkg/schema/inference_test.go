package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablekit/tablekit/pkg/table"
	"github.com/tablekit/tablekit/pkg/testutil"
)

func TestInferField(t *testing.T) {
	engine := NewInferenceEngine(testutil.TestLogger(t), 1000, 0.95)

	tests := []struct {
		name     string
		samples  []string
		want     table.Type
		nullable bool
	}{
		{"ints", []string{"1", "2", "13"}, table.TypeInt, false},
		{"floats", []string{"1.5", "2.25"}, table.TypeFloat, false},
		{"ints widen to float", []string{"1", "2", "3.5"}, table.TypeFloat, false},
		{"bools", []string{"true", "FALSE", "True"}, table.TypeBool, false},
		{"times", []string{"2024-06-01T00:00:00Z", "2024-06-02T12:30:00Z"}, table.TypeTime, false},
		{"text", []string{"king", "queen"}, table.TypeString, false},
		{"mixed falls back to text", []string{"1", "king", "true"}, table.TypeString, false},
		{"blank counts as null", []string{"1", "", "3"}, table.TypeInt, true},
		{"all null", []string{"", "", ""}, table.TypeString, true},
		{"whitespace trimmed", []string{" 7 ", "8"}, table.TypeInt, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			field := engine.InferField("col", tc.samples)
			assert.Equal(t, tc.want, field.Type)
			assert.Equal(t, tc.nullable, field.Nullable)
			assert.Equal(t, tc.want.String(), field.TypeName)
		})
	}
}

func TestInferFieldThreshold(t *testing.T) {
	// With a loose threshold a single outlier no longer forces string
	loose := NewInferenceEngine(testutil.TestLogger(t), 1000, 0.5)
	samples := []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "oops"}
	assert.Equal(t, table.TypeInt, loose.InferField("col", samples).Type)

	strict := NewInferenceEngine(testutil.TestLogger(t), 1000, 0.95)
	assert.Equal(t, table.TypeString, strict.InferField("col", samples).Type)
}

func TestInferSchema(t *testing.T) {
	engine := NewInferenceEngine(testutil.TestLogger(t), 1000, 0.95)

	sch, err := engine.InferSchema("deck",
		[]string{"face", "suit", "value"},
		[][]string{
			{"king", "spades", "13"},
			{"queen", "spades", "12"},
		})
	require.NoError(t, err)

	assert.Equal(t, "deck", sch.Name)
	require.Len(t, sch.Fields, 3)
	assert.Equal(t, table.TypeString, sch.Fields[0].Type)
	assert.Equal(t, table.TypeString, sch.Fields[1].Type)
	assert.Equal(t, table.TypeInt, sch.Fields[2].Type)
	assert.Equal(t, []string{"face", "suit", "value"}, sch.FieldNames())
}

func TestInferSchemaSampleCap(t *testing.T) {
	// Rows past the sample cap must not influence the type
	engine := NewInferenceEngine(testutil.TestLogger(t), 2, 0.95)

	sch, err := engine.InferSchema("t",
		[]string{"v"},
		[][]string{{"1"}, {"2"}, {"not a number"}})
	require.NoError(t, err)
	assert.Equal(t, table.TypeInt, sch.Fields[0].Type)
}

func TestInferSchemaNoHeaders(t *testing.T) {
	engine := NewInferenceEngine(testutil.TestLogger(t), 1000, 0.95)
	_, err := engine.InferSchema("t", nil, nil)
	require.Error(t, err)
}

func TestDetectValue(t *testing.T) {
	assert.Equal(t, table.TypeInt, DetectValue("42"))
	assert.Equal(t, table.TypeFloat, DetectValue("4.2"))
	assert.Equal(t, table.TypeBool, DetectValue("true"))
	assert.Equal(t, table.TypeTime, DetectValue("2024-06-01T00:00:00Z"))
	assert.Equal(t, table.TypeString, DetectValue("spades"))
	assert.Equal(t, table.TypeString, DetectValue(""))
}

func TestSchemaValidate(t *testing.T) {
	sch := &Schema{Name: "t", Fields: []Field{
		NewField("a", table.TypeInt, false),
		NewField("a", table.TypeString, false),
	}}
	err := sch.Validate()
	require.Error(t, err)
}
