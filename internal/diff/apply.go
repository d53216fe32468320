package diff

import (
	"fmt"

	"github.com/pstuifzand/tui-listadapter/internal/adapter"
	"github.com/pstuifzand/tui-listadapter/internal/expansion"
	"github.com/pstuifzand/tui-listadapter/internal/model"
	"github.com/pstuifzand/tui-listadapter/internal/selection"
)

// Target is a sub-adapter whose backing list can be swapped silently once
// the notifications describing the new list were sent
type Target interface {
	adapter.SubAdapter
	SwapItems(items []model.Item)
}

// replay turns script operations into sub-adapter primitives. Changes are
// held back until the new instances are swapped in.
type replay struct {
	sub     Target
	items   []model.Item
	changes []Op
	err     error
}

func (r *replay) Inserted(pos, count int) {
	if r.err == nil {
		r.err = r.sub.Insert(pos, r.items[pos:pos+count]...)
	}
}

func (r *replay) Removed(pos, count int) {
	if r.err == nil {
		r.err = r.sub.Remove(pos, count)
	}
}

func (r *replay) Moved(from, to int) {
	if r.err == nil {
		r.err = r.sub.Move(from, to)
	}
}

func (r *replay) Changed(pos, count int, payload any) {
	r.changes = append(r.changes, Op{Kind: OpChange, Pos: pos, Count: count, Payload: payload})
}

// Apply replays s onto sub, which must hold the old list of s, and leaves
// newItems as its backing list. Matched items hand their selected and
// expanded flags to their new instance, so position indexed extension state
// survives the replacement. Rows of sub should not be expanded; Set
// collapses them first.
func Apply(a *adapter.Adapter, sub Target, newItems []model.Item, s Script) error {
	if sub.Count() != s.OldLen || len(newItems) != s.NewLen {
		return fmt.Errorf("%w: script for %d -> %d items applied to %d -> %d items",
			adapter.ErrInvalidOperation, s.OldLen, s.NewLen, sub.Count(), len(newItems))
	}
	offset, err := a.OffsetOf(sub)
	if err != nil {
		return err
	}
	old := sub.Items()
	for _, m := range s.Matches {
		carryFlags(old[m.Old], newItems[m.New])
	}

	r := &replay{sub: sub, items: newItems}
	s.Dispatch(r)
	if r.err != nil {
		return fmt.Errorf("replay: %w", r.err)
	}
	sub.SwapItems(newItems)
	for _, op := range r.changes {
		a.NotifyChanged(offset+op.Pos, op.Count, op.Payload)
	}
	a.Logger().Printf("diff applied at %d: %d ops", offset, len(s.Ops))
	return nil
}

func carryFlags(from, to model.Item) {
	if from == to {
		return
	}
	if s, ok := model.AsSelectable(to); ok {
		s.SetSelected(model.IsSelected(from))
	}
	if e, ok := model.AsExpandable(to); ok {
		e.SetExpanded(model.IsExpanded(from))
	}
	if p, ok := to.(model.HasParent); ok && model.ParentOf(from) != model.NoIdentifier {
		p.SetParentID(model.ParentOf(from))
	}
}

// Set replaces the list of sub with newItems through a computed script.
// Expanded rows of sub are collapsed first and expanded again by identifier
// afterwards, so the script only sees the top level items. Selected sub-item
// rows are selected again once they are back.
func Set(a *adapter.Adapter, sub Target, newItems []model.Item, opts ...Option) (Script, error) {
	exp, hasExpansion := adapter.ExtensionOf[*expansion.Extension](a)
	var expanded, selected []int64
	if hasExpansion {
		offset, err := a.OffsetOf(sub)
		if err != nil {
			return Script{}, err
		}
		inSub := func(pos int) bool { return pos >= offset && pos < offset+sub.Count() }
		for _, pos := range exp.ExpandedPositions() {
			if !inSub(pos) {
				continue
			}
			if item, err := a.Item(pos); err == nil {
				expanded = append(expanded, item.Identifier())
			}
		}
		if sel, ok := adapter.ExtensionOf[*selection.Extension](a); ok {
			for _, pos := range sel.SelectedPositions() {
				if !inSub(pos) {
					continue
				}
				if item, err := a.Item(pos); err == nil && model.ParentOf(item) != model.NoIdentifier {
					selected = append(selected, item.Identifier())
				}
			}
		}
		if err := exp.CollapseIn(sub); err != nil {
			return Script{}, err
		}
	}

	a.Prepare(newItems)
	s := Compute(sub.Items(), newItems, opts...)
	if err := Apply(a, sub, newItems, s); err != nil {
		return s, err
	}
	if hasExpansion {
		if err := exp.ExpandByIdentifier(expanded...); err != nil {
			return s, err
		}
		if sel, ok := adapter.ExtensionOf[*selection.Extension](a); ok && len(selected) > 0 {
			if err := sel.SelectByIdentifier(selected...); err != nil {
				return s, err
			}
		}
	}
	return s, nil
}
