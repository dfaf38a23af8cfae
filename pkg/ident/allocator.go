// Package ident assigns surrogate ids and human-facing sequence numbers.
// The allocator is explicit state threaded through the pipeline, not a
// process-wide counter, so the pipeline stays re-runnable in tests.
package ident

import (
	"fmt"

	"github.com/craftshop-erp/shopdata/pkg/entity"
)

type seqKey struct {
	prefix string
	year   int
}

type Allocator struct {
	next map[entity.Kind]int
	seq  map[seqKey]int
}

// New seeds id counters above the maxima already present in the base
// dataset, keyed by model label. Kinds absent from the base start at 1.
func New(baseMax map[string]int) *Allocator {
	a := &Allocator{
		next: make(map[entity.Kind]int),
		seq:  make(map[seqKey]int),
	}
	for _, k := range entity.Kinds() {
		a.next[k] = baseMax[k.Model()] + 1
	}
	return a
}

// NextID hands out the next surrogate id for a kind. Ids increment in
// the order entities are first created, never reused.
func (a *Allocator) NextID(k entity.Kind) int {
	id := a.next[k]
	a.next[k] = id + 1
	return id
}

// Sequence generates the next human-facing number for a prefix and
// year, formatted {prefix}{year:04d}-{counter:04d}. Counters are per
// prefix per year, start at 1, and never reuse a value even when the
// entity is later pruned.
func (a *Allocator) Sequence(prefix string, year int) string {
	key := seqKey{prefix, year}
	a.seq[key]++
	return fmt.Sprintf("%s%04d-%04d", prefix, year, a.seq[key])
}
