// Package seqbuf implements a growable staging buffer for single-pass
// element producers.
//
// Producers are modeled as iter.Seq values: finite, pull-based, and not
// restartable. The buffer grows by rounding its capacity up to the next power
// of two each time the current allocation is exhausted, which amortizes the
// per-element cost to O(1), and is trimmed to its exact length on return.
// Staging a producer before touching table storage is what gives the table's
// bulk operations their all-or-nothing failure contract.
package seqbuf

import (
	"iter"
	"math/bits"
)

// Collect drains seq into a freshly allocated buffer. sizeHint pre-sizes the
// first allocation; it may be above or below the actual element count.
func Collect[E any](seq iter.Seq[E], sizeHint int) []E {
	buf := newBuf[E](sizeHint)
	for v := range seq {
		buf = grow(buf, 1)
		buf = append(buf, v)
	}

	return buf
}

// CollectLimit drains seq into a buffer of at most limit elements. It stops
// pulling as soon as the producer exceeds the limit and reports the overflow,
// leaving the rest of the producer unconsumed.
func CollectLimit[E any](seq iter.Seq[E], sizeHint, limit int) ([]E, bool) {
	if sizeHint > limit {
		sizeHint = limit
	}

	buf := newBuf[E](sizeHint)
	for v := range seq {
		if len(buf) == limit {
			return buf, true
		}
		buf = grow(buf, limit)
		buf = append(buf, v)
	}

	return buf, false
}

func newBuf[E any](sizeHint int) []E {
	if sizeHint < 1 {
		sizeHint = 1
	}

	return make([]E, 0, nextPow2(sizeHint))
}

// grow doubles the capacity when the allocation is exhausted, never exceeding
// what is needed to hold limit elements (limit <= 1 means unbounded).
func grow[E any](buf []E, limit int) []E {
	if len(buf) < cap(buf) {
		return buf
	}

	next := cap(buf) << 1
	if limit > 1 && next > nextPow2(limit) {
		next = nextPow2(limit)
	}
	grown := make([]E, len(buf), next)
	copy(grown, buf)

	return grown
}

// nextPow2 rounds n up to the next power of two. n must be positive.
func nextPow2(n int) int {
	if n&(n-1) == 0 {
		return n
	}

	return 1 << bits.Len(uint(n))
}
