package pool

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInternReturnsCanonicalInstance(t *testing.T) {
	p := NewStringInternPool(100)

	a := p.Intern("spades")
	b := p.Intern("spades")
	assert.Equal(t, a, b)

	_, misses, size := p.Stats()
	assert.Equal(t, int64(1), misses)
	assert.Equal(t, int64(1), size)

	hits, _, _ := p.Stats()
	assert.Equal(t, int64(1), hits)
}

func TestInternSizeCap(t *testing.T) {
	p := NewStringInternPool(3)
	for i := 0; i < 10; i++ {
		p.Intern("level-" + strconv.Itoa(i))
	}

	_, _, size := p.Stats()
	assert.Equal(t, int64(3), size)

	// Strings past the cap still pass through unchanged
	assert.Equal(t, "level-9", p.Intern("level-9"))
}

func TestGlobalIntern(t *testing.T) {
	assert.Equal(t, "column_0", InternString("column_0"))
	assert.Equal(t, "hearts", InternString("hearts"))
}
