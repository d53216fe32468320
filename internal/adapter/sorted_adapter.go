package adapter

import (
	"fmt"
	"slices"

	"github.com/pstuifzand/tui-listadapter/internal/model"
)

// SortedAdapter keeps its items ordered by a comparator. Positions are
// decided by the comparator, so positional inserts, sets and moves are
// rejected with ErrInvalidOperation.
type SortedAdapter struct {
	listBase
	cmp func(a, b model.Item) int
}

// NewSortedAdapter creates a sorted adapter holding items
func NewSortedAdapter(cmp func(a, b model.Item) int, items ...model.Item) *SortedAdapter {
	sa := &SortedAdapter{cmp: cmp}
	sa.self = sa
	sa.items = slices.Clone(items)
	slices.SortStableFunc(sa.items, cmp)
	return sa
}

// Add inserts every item at its sorted position, after equal items
func (sa *SortedAdapter) Add(items ...model.Item) error {
	for _, item := range items {
		pos := sa.upperBound(item)
		sa.insertAt(pos, []model.Item{item})
	}
	return nil
}

func (sa *SortedAdapter) upperBound(item model.Item) int {
	lo, hi := 0, len(sa.items)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if sa.cmp(sa.items[mid], item) <= 0 {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// Insert is not supported; use Add
func (sa *SortedAdapter) Insert(pos int, items ...model.Item) error {
	return fmt.Errorf("%w: positional insert into sorted adapter", ErrInvalidOperation)
}

// Set is not supported; remove and Add instead
func (sa *SortedAdapter) Set(pos int, item model.Item) error {
	return fmt.Errorf("%w: set on sorted adapter", ErrInvalidOperation)
}

// Move is not supported; the order is owned by the comparator
func (sa *SortedAdapter) Move(from, to int) error {
	return fmt.Errorf("%w: move on sorted adapter", ErrInvalidOperation)
}

// Remove removes count items starting at the relative position
func (sa *SortedAdapter) Remove(pos, count int) error {
	return sa.removeRange(pos, count)
}

// SetNewList sorts and replaces every item
func (sa *SortedAdapter) SetNewList(items []model.Item) {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, sa.cmp)
	sa.replaceAll(sorted)
}
