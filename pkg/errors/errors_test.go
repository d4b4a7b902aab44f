package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAndIsType(t *testing.T) {
	err := New(ErrorTypeLengthMismatch, "column lengths differ")
	assert.True(t, IsType(err, ErrorTypeLengthMismatch))
	assert.False(t, IsType(err, ErrorTypeDuplicateName))
	assert.Equal(t, ErrorTypeLengthMismatch, TypeOf(err))
	assert.Contains(t, err.Error(), "length_mismatch")
	assert.NotEmpty(t, err.Stack)
}

func TestNewf(t *testing.T) {
	err := Newf(ErrorTypeNotFound, "no column named %q", "suit")
	assert.Contains(t, err.Error(), `no column named "suit"`)
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Wrap(cause, ErrorTypeFile, "failed to write output")

	assert.True(t, IsType(err, ErrorTypeFile))
	assert.True(t, stderrors.Is(err, cause))
	assert.Contains(t, err.Error(), "disk full")
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrorTypeFile, "ignored"))
}

func TestWrapPreservesStack(t *testing.T) {
	inner := New(ErrorTypeParse, "bad value")
	outer := Wrap(inner, ErrorTypeData, "row 3")

	require.NotEmpty(t, outer.Stack)
	assert.Equal(t, inner.Stack[0], outer.Stack[0])
}

func TestWrapThroughFmt(t *testing.T) {
	// IsType sees through fmt wrapping via errors.As
	err := fmt.Errorf("import failed: %w", New(ErrorTypeParse, "row 2"))
	assert.True(t, IsType(err, ErrorTypeParse))
}

func TestWithDetail(t *testing.T) {
	err := New(ErrorTypeParse, "bad row").
		WithDetail("row", 7).
		WithDetail("column", "value")

	assert.Equal(t, 7, err.Details["row"])
	assert.Equal(t, "value", err.Details["column"])
}

func TestTypeOfForeignError(t *testing.T) {
	assert.Equal(t, ErrorTypeInternal, TypeOf(stderrors.New("plain")))
}
