// Package pool provides string interning for tablekit.
//
// Tabular data repeats the same small set of strings over and over:
// header names, factor levels, low-cardinality text cells ("spades"
// appears once per card in a deck, thirteen times in total). Interning
// collapses those repeats onto a single backing string.
package pool

import (
	"sync"
	"sync/atomic"
)

// StringInternPool provides string interning to reduce memory allocations
// for frequently repeated strings (header names, factor levels, cells).
type StringInternPool struct {
	mu      sync.RWMutex
	strings map[string]string
	maxSize int
	size    int64
	hits    int64
	misses  int64
}

// Global string intern pool with common header names pre-populated
var globalStringInternPool = &StringInternPool{
	strings: make(map[string]string, 256),
	maxSize: 10000, // Limit to prevent unbounded growth
}

func init() {
	// Pre-intern header names that show up in most datasets
	common := []string{
		"id", "name", "value", "type", "index",
		"key", "label", "count", "date", "time",
	}
	for _, s := range common {
		globalStringInternPool.Intern(s)
	}
}

// NewStringInternPool creates an intern pool with the given size cap.
func NewStringInternPool(maxSize int) *StringInternPool {
	return &StringInternPool{
		strings: make(map[string]string, 64),
		maxSize: maxSize,
	}
}

// Intern returns the canonical instance of s, storing it if unseen.
// Once the pool is full, unseen strings pass through unstored.
func (p *StringInternPool) Intern(s string) string {
	p.mu.RLock()
	if interned, ok := p.strings[s]; ok {
		p.mu.RUnlock()
		atomic.AddInt64(&p.hits, 1)
		return interned
	}
	p.mu.RUnlock()

	atomic.AddInt64(&p.misses, 1)

	p.mu.Lock()
	defer p.mu.Unlock()

	// Re-check under the write lock
	if interned, ok := p.strings[s]; ok {
		return interned
	}

	if int(atomic.LoadInt64(&p.size)) >= p.maxSize {
		return s
	}

	p.strings[s] = s
	atomic.AddInt64(&p.size, 1)
	return s
}

// Stats returns pool hit/miss counters and current size.
func (p *StringInternPool) Stats() (hits, misses, size int64) {
	return atomic.LoadInt64(&p.hits), atomic.LoadInt64(&p.misses), atomic.LoadInt64(&p.size)
}

// InternString interns a string using the global pool.
func InternString(s string) string {
	return globalStringInternPool.Intern(s)
}
