package adapter

import (
	"fmt"

	"github.com/pstuifzand/tui-listadapter/internal/model"
)

// Source is an externally owned item sequence
type Source interface {
	Len() int
	At(i int) model.Item
}

// SliceSource adapts a slice to Source
type SliceSource []model.Item

func (s SliceSource) Len() int            { return len(s) }
func (s SliceSource) At(i int) model.Item { return s[i] }

// ReadOnlyAdapter exposes an external Source. The source owns its items;
// every mutation through the adapter fails with ErrInvalidOperation. When the
// source changes, call Invalidate.
type ReadOnlyAdapter struct {
	source Source
	owner  *Adapter
	order  int
}

// NewReadOnlyAdapter creates an adapter over source
func NewReadOnlyAdapter(source Source) *ReadOnlyAdapter {
	return &ReadOnlyAdapter{source: source}
}

func (r *ReadOnlyAdapter) Count() int { return r.source.Len() }

func (r *ReadOnlyAdapter) ItemAt(pos int) (model.Item, error) {
	if pos < 0 || pos >= r.source.Len() {
		return nil, fmt.Errorf("%w: relative %d not in [0, %d)", ErrOutOfRange, pos, r.source.Len())
	}
	return r.source.At(pos), nil
}

func (r *ReadOnlyAdapter) Items() []model.Item {
	items := make([]model.Item, r.source.Len())
	for i := range items {
		items[i] = r.source.At(i)
	}
	return items
}

func (r *ReadOnlyAdapter) Order() int { return r.order }

func (r *ReadOnlyAdapter) Bind(a *Adapter, order int) {
	r.owner = a
	r.order = order
}

func (r *ReadOnlyAdapter) Insert(int, ...model.Item) error {
	return fmt.Errorf("%w: insert into read-only adapter", ErrInvalidOperation)
}

func (r *ReadOnlyAdapter) Remove(int, int) error {
	return fmt.Errorf("%w: remove from read-only adapter", ErrInvalidOperation)
}

func (r *ReadOnlyAdapter) Set(int, model.Item) error {
	return fmt.Errorf("%w: set on read-only adapter", ErrInvalidOperation)
}

func (r *ReadOnlyAdapter) Move(int, int) error {
	return fmt.Errorf("%w: move on read-only adapter", ErrInvalidOperation)
}

// Replace swaps the source and announces a data set change
func (r *ReadOnlyAdapter) Replace(source Source) {
	r.source = source
	r.Invalidate()
}

// Invalidate announces that the source changed in unknown ways
func (r *ReadOnlyAdapter) Invalidate() {
	if r.owner != nil {
		r.owner.NotifyDataSetChanged()
	}
}
