package adapter

import (
	"fmt"
	"slices"

	"github.com/pstuifzand/tui-listadapter/internal/model"
)

// SubAdapter is one contiguous slice of the global position space. Every
// mutation primitive notifies the owning composite after mutating.
type SubAdapter interface {
	Count() int
	ItemAt(pos int) (model.Item, error)
	Items() []model.Item
	Order() int
	// Bind is called by the composite on registration and with a nil
	// adapter on removal
	Bind(a *Adapter, order int)

	Insert(pos int, items ...model.Item) error
	Remove(pos, count int) error
	Set(pos int, item model.Item) error
	Move(from, to int) error
}

// listBase holds the shared state of the slice backed sub-adapters
type listBase struct {
	self  SubAdapter
	items []model.Item
	owner *Adapter
	order int
}

func (b *listBase) Count() int { return len(b.items) }

func (b *listBase) ItemAt(pos int) (model.Item, error) {
	if pos < 0 || pos >= len(b.items) {
		return nil, fmt.Errorf("%w: relative %d not in [0, %d)", ErrOutOfRange, pos, len(b.items))
	}
	return b.items[pos], nil
}

func (b *listBase) Items() []model.Item {
	return slices.Clone(b.items)
}

func (b *listBase) Order() int { return b.order }

func (b *listBase) Bind(a *Adapter, order int) {
	b.owner = a
	b.order = order
}

// Adapter returns the composite this sub-adapter is registered with
func (b *listBase) Adapter() *Adapter { return b.owner }

// GlobalPosition translates a relative position to a global one
func (b *listBase) GlobalPosition(rel int) (int, error) {
	offset, ok := b.offset()
	if !ok {
		return -1, ErrNotAttached
	}
	return offset + rel, nil
}

// PositionOf returns the relative position of the item with the given
// identifier, or -1
func (b *listBase) PositionOf(id int64) int {
	for i, item := range b.items {
		if item.Identifier() == id {
			return i
		}
	}
	return -1
}

func (b *listBase) offset() (int, bool) {
	if b.owner == nil {
		return 0, false
	}
	offset, err := b.owner.OffsetOf(b.self)
	if err != nil {
		return 0, false
	}
	return offset, true
}

func (b *listBase) prepare(items []model.Item) {
	if b.owner != nil {
		b.owner.Prepare(items)
	}
}

func (b *listBase) removeRange(pos, count int) error {
	if count <= 0 {
		return nil
	}
	if pos < 0 || pos+count > len(b.items) {
		return fmt.Errorf("%w: remove [%d, %d) from %d items", ErrOutOfRange, pos, pos+count, len(b.items))
	}
	offset, attached := b.offset()
	b.items = slices.Delete(b.items, pos, pos+count)
	if attached {
		b.owner.NotifyRemoved(offset+pos, count)
	}
	return nil
}

func (b *listBase) insertAt(pos int, items []model.Item) {
	b.prepare(items)
	b.items = slices.Insert(b.items, pos, items...)
	if offset, ok := b.offset(); ok {
		b.owner.NotifyInserted(offset+pos, len(items))
	}
}

func (b *listBase) replaceAll(items []model.Item) {
	b.prepare(items)
	b.items = slices.Clone(items)
	if b.owner != nil {
		b.owner.NotifyDataSetChanged()
	}
}

// ItemAdapter is the plain mutable item list
type ItemAdapter struct {
	listBase
}

// NewItemAdapter creates an item adapter holding items
func NewItemAdapter(items ...model.Item) *ItemAdapter {
	ia := &ItemAdapter{}
	ia.self = ia
	ia.items = slices.Clone(items)
	return ia
}

// Add appends items
func (ia *ItemAdapter) Add(items ...model.Item) error {
	return ia.Insert(len(ia.items), items...)
}

// Insert inserts items at the relative position
func (ia *ItemAdapter) Insert(pos int, items ...model.Item) error {
	if pos < 0 || pos > len(ia.items) {
		return fmt.Errorf("%w: insert at %d into %d items", ErrOutOfRange, pos, len(ia.items))
	}
	if len(items) == 0 {
		return nil
	}
	ia.insertAt(pos, items)
	return nil
}

// Set replaces the item at the relative position
func (ia *ItemAdapter) Set(pos int, item model.Item) error {
	if pos < 0 || pos >= len(ia.items) {
		return fmt.Errorf("%w: set %d of %d items", ErrOutOfRange, pos, len(ia.items))
	}
	ia.prepare([]model.Item{item})
	ia.items[pos] = item
	if offset, ok := ia.offset(); ok {
		ia.owner.NotifyChanged(offset+pos, 1, nil)
	}
	return nil
}

// SetNewList replaces every item without computing a diff
func (ia *ItemAdapter) SetNewList(items []model.Item) {
	ia.replaceAll(items)
}

// Remove removes count items starting at the relative position
func (ia *ItemAdapter) Remove(pos, count int) error {
	return ia.removeRange(pos, count)
}

// Move moves the item at from to to; the items in between shift by one.
// Rows that the move hooks remove below from are not counted in to.
func (ia *ItemAdapter) Move(from, to int) error {
	n := len(ia.items)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("%w: move %d to %d in %d items", ErrOutOfRange, from, to, n)
	}
	if from == to {
		return nil
	}
	offset, attached := ia.offset()
	if attached {
		// rows the hooks took away below from no longer count towards to
		removed, err := ia.owner.BeforeMove(offset + from)
		if err != nil {
			return fmt.Errorf("move %d: %w", from, err)
		}
		if to > from {
			to -= min(removed, to-from)
		}
	}
	if from != to {
		item := ia.items[from]
		ia.items = slices.Delete(ia.items, from, from+1)
		ia.items = slices.Insert(ia.items, to, item)
		if attached {
			ia.owner.NotifyMoved(offset+from, offset+to)
		}
	}
	if attached {
		return ia.owner.AfterMove(offset + to)
	}
	return nil
}

// Clear removes every item
func (ia *ItemAdapter) Clear() {
	_ = ia.removeRange(0, len(ia.items))
}

// SwapItems replaces the backing list without notifying anyone. The caller
// guarantees that the notifications already sent describe the new list.
func (ia *ItemAdapter) SwapItems(items []model.Item) {
	ia.items = slices.Clone(items)
	if ia.owner != nil {
		ia.owner.index.Invalidate()
	}
}
