// Package bloom flags possibly repeated strings in a single pass.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// DefaultFalsePositiveRate suits directory menus of a few hundred entries.
const DefaultFalsePositiveRate = 0.01

// Filter answers "seen before?" for strings with no false negatives.
type Filter struct {
	bits *bloom.BloomFilter
}

// NewFilter sizes a filter for n keys at the given false positive rate.
// A zero n is treated as one.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{bits: bloom.NewWithEstimates(max(n, 1), fpRate)}
}

// TestAndAdd records key and reports whether it may have been recorded
// before.
func (f *Filter) TestAndAdd(key string) bool {
	return f.bits.TestAndAddString(key)
}
