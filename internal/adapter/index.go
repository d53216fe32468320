package adapter

import (
	"fmt"
	"slices"
)

type indexEntry struct {
	sub   SubAdapter
	order int
	seq   int

	// cached while the index is valid
	offset int
	count  int
}

// PositionIndex is the ordered registry of sub-adapters. It maps a global
// position to the owning sub-adapter and its relative position.
//
// Sub-adapters are sorted by order and then by registration sequence. The
// per-adapter offsets are cached and must be invalidated whenever any
// sub-adapter changes its item count.
type PositionIndex struct {
	entries []indexEntry
	nextSeq int
	total   int
	valid   bool
}

// NewPositionIndex creates an empty index
func NewPositionIndex() *PositionIndex {
	return &PositionIndex{}
}

// Add registers sub with the given order key
func (p *PositionIndex) Add(order int, sub SubAdapter) error {
	if p.contains(sub) {
		return fmt.Errorf("%w: adapter registered twice", ErrInvalidOperation)
	}
	p.entries = append(p.entries, indexEntry{sub: sub, order: order, seq: p.nextSeq})
	p.nextSeq++
	slices.SortStableFunc(p.entries, func(a, b indexEntry) int {
		if a.order != b.order {
			return a.order - b.order
		}
		return a.seq - b.seq
	})
	p.valid = false
	return nil
}

// Remove unregisters sub and reports whether it was registered
func (p *PositionIndex) Remove(sub SubAdapter) bool {
	for i, e := range p.entries {
		if e.sub == sub {
			p.entries = slices.Delete(p.entries, i, i+1)
			p.valid = false
			return true
		}
	}
	return false
}

// Invalidate drops the cached offsets
func (p *PositionIndex) Invalidate() {
	p.valid = false
}

func (p *PositionIndex) contains(sub SubAdapter) bool {
	for _, e := range p.entries {
		if e.sub == sub {
			return true
		}
	}
	return false
}

func (p *PositionIndex) rebuild() {
	if p.valid {
		return
	}
	offset := 0
	for i := range p.entries {
		p.entries[i].offset = offset
		p.entries[i].count = p.entries[i].sub.Count()
		offset += p.entries[i].count
	}
	p.total = offset
	p.valid = true
}

// Total returns the sum of the item counts of all sub-adapters
func (p *PositionIndex) Total() int {
	p.rebuild()
	return p.total
}

// Locate returns the sub-adapter owning the global position and the
// position relative to that sub-adapter
func (p *PositionIndex) Locate(global int) (SubAdapter, int, error) {
	p.rebuild()
	if global < 0 || global >= p.total {
		return nil, -1, fmt.Errorf("%w: %d not in [0, %d)", ErrOutOfRange, global, p.total)
	}
	for _, e := range p.entries {
		if global < e.offset+e.count {
			return e.sub, global - e.offset, nil
		}
	}
	// unreachable while total matches the entries
	return nil, -1, fmt.Errorf("%w: %d", ErrOutOfRange, global)
}

// OffsetOf returns the global position of the first item of sub
func (p *PositionIndex) OffsetOf(sub SubAdapter) (int, error) {
	p.rebuild()
	for _, e := range p.entries {
		if e.sub == sub {
			return e.offset, nil
		}
	}
	return 0, ErrNotAttached
}

// Adapters returns the registered sub-adapters in position order
func (p *PositionIndex) Adapters() []SubAdapter {
	subs := make([]SubAdapter, len(p.entries))
	for i, e := range p.entries {
		subs[i] = e.sub
	}
	return subs
}

// Len returns the number of registered sub-adapters
func (p *PositionIndex) Len() int {
	return len(p.entries)
}

// MovedPosition returns where the row at p ends up after the row at from
// was moved to to. Rows between the two endpoints shift by one.
func MovedPosition(p, from, to int) int {
	switch {
	case p == from:
		return to
	case from < to && p > from && p <= to:
		return p - 1
	case from > to && p >= to && p < from:
		return p + 1
	}
	return p
}
