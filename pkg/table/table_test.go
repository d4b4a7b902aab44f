package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablekit/tablekit/pkg/errors"
)

func TestBuildAndRowCount(t *testing.T) {
	tbl, err := NewBuilder().
		Add("face", Strings("king", "queen")).
		Add("suit", Strings("spades", "spades")).
		Add("value", Ints(13, 12)).
		Build()
	require.NoError(t, err)

	assert.Equal(t, 2, tbl.NumRows())
	assert.Equal(t, 3, tbl.NumCols())
	assert.Equal(t, []string{"face", "suit", "value"}, tbl.Names())
}

func TestBuildLengthMismatch(t *testing.T) {
	_, err := NewBuilder().
		Add("face", Strings("king", "queen")).
		Add("value", Ints(13)).
		Build()
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeLengthMismatch))
}

func TestBuildDuplicateName(t *testing.T) {
	_, err := NewBuilder().
		Add("face", Strings("king")).
		Add("face", Strings("queen")).
		Build()
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeDuplicateName))
}

func TestBuildEmpty(t *testing.T) {
	tbl, err := NewBuilder().Build()
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.NumRows())
	assert.Equal(t, 0, tbl.NumCols())
}

func TestRowProjection(t *testing.T) {
	tbl, err := NewBuilder().
		Add("face", Strings("king", "queen")).
		Add("suit", Strings("spades", "spades")).
		Add("value", Ints(13, 12)).
		Build()
	require.NoError(t, err)

	row, err := tbl.Row(0)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{
		"face":  "king",
		"suit":  "spades",
		"value": int64(13),
	}, row.AsMap())

	// Order follows column declaration
	assert.Equal(t, []string{"face", "suit", "value"}, row.Names())
	assert.Equal(t, "king", row.At(0))

	v, ok := row.Value("value")
	require.True(t, ok)
	assert.Equal(t, int64(13), v)

	_, ok = row.Value("color")
	assert.False(t, ok)
}

func TestRowIndexOutOfRange(t *testing.T) {
	tbl, err := NewBuilder().Add("face", Strings("king")).Build()
	require.NoError(t, err)

	for _, i := range []int{-1, 1, 99} {
		_, err := tbl.Row(i)
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrorTypeIndexRange), "index %d", i)
	}
}

func TestColumnLookup(t *testing.T) {
	tbl, err := NewBuilder().Add("face", Strings("king")).Build()
	require.NoError(t, err)

	col, err := tbl.Column("face")
	require.NoError(t, err)
	assert.Equal(t, TypeString, col.Type())

	_, err = tbl.Column("missing")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeNotFound))
}

func TestIterator(t *testing.T) {
	tbl, err := NewBuilder().
		Add("value", Ints(1, 2, 3)).
		Build()
	require.NoError(t, err)

	var got []int64
	it := tbl.NewIterator()
	for it.Next() {
		v, _ := it.Row().Value("value")
		got = append(got, v.(int64))
	}
	assert.Equal(t, []int64{1, 2, 3}, got)
}

func TestBatchIterator(t *testing.T) {
	tbl, err := NewBuilder().
		Add("value", Ints(1, 2, 3, 4, 5)).
		Build()
	require.NoError(t, err)

	it := tbl.NewBatchIterator(2)

	var sizes []int
	total := 0
	for {
		batch, ok := it.NextBatch()
		if !ok {
			break
		}
		sizes = append(sizes, len(batch))
		total += len(batch)
	}
	assert.Equal(t, []int{2, 2, 1}, sizes)
	assert.Equal(t, 5, total)
}

func TestBatchIteratorNonPositiveSize(t *testing.T) {
	tbl, err := NewBuilder().
		Add("value", Ints(1, 2, 3)).
		Build()
	require.NoError(t, err)

	// A non-positive size falls back to the default instead of stalling
	it := tbl.NewBatchIterator(0)
	batch, ok := it.NextBatch()
	require.True(t, ok)
	assert.Len(t, batch, 3)

	_, ok = it.NextBatch()
	assert.False(t, ok)
}

func TestConcurrentReaders(t *testing.T) {
	tbl, err := NewBuilder().
		Add("value", Ints(1, 2, 3, 4, 5, 6, 7, 8)).
		Build()
	require.NoError(t, err)

	done := make(chan struct{})
	for g := 0; g < 4; g++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for i := 0; i < tbl.NumRows(); i++ {
				row, err := tbl.Row(i)
				if err != nil {
					t.Error(err)
					return
				}
				if row.At(0).(int64) != int64(i+1) {
					t.Errorf("row %d: got %v", i, row.At(0))
					return
				}
			}
		}()
	}
	for g := 0; g < 4; g++ {
		<-done
	}
}
