// Package selection keeps track of the selected rows of a composite adapter
package selection

import (
	"slices"

	"github.com/pstuifzand/tui-listadapter/internal/adapter"
	"github.com/pstuifzand/tui-listadapter/internal/model"
)

// Payload is sent with the change notification of a (de)selected row
const Payload = "selection"

// Listener is called after an item was selected or deselected
type Listener func(item model.Item, selected bool)

// Extension is the position indexed selection state. The set of positions is
// redundant with the items' own flags and is kept in sync with them.
type Extension struct {
	adapter.BaseExtension

	selected map[int]struct{}

	clickable         bool
	multiSelect       bool
	selectOnLongClick bool
	allowDeselection  bool
	updateOnSelection bool
	listener          Listener
}

// Option configures an Extension
type Option func(*Extension)

// WithClickSelection enables selecting rows by clicking them
func WithClickSelection(enabled bool) Option {
	return func(e *Extension) { e.clickable = enabled }
}

// WithMultiSelect allows more than one selected row at a time
func WithMultiSelect(enabled bool) Option {
	return func(e *Extension) { e.multiSelect = enabled }
}

// WithSelectOnLongClick selects on long click instead of click
func WithSelectOnLongClick(enabled bool) Option {
	return func(e *Extension) { e.selectOnLongClick = enabled }
}

// WithAllowDeselection allows a click to deselect a selected row
func WithAllowDeselection(enabled bool) Option {
	return func(e *Extension) { e.allowDeselection = enabled }
}

// WithSelectWithItemUpdate sends a change notification for every
// (de)selected row
func WithSelectWithItemUpdate(enabled bool) Option {
	return func(e *Extension) { e.updateOnSelection = enabled }
}

// WithListener sets the selection listener
func WithListener(l Listener) Option {
	return func(e *Extension) { e.listener = l }
}

// New creates a selection extension
func New(opts ...Option) *Extension {
	e := &Extension{
		selected:          make(map[int]struct{}),
		clickable:         true,
		allowDeselection:  true,
		updateOnSelection: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetListener replaces the selection listener
func (e *Extension) SetListener(l Listener) {
	e.listener = l
}

// MultiSelect reports whether multi select is enabled
func (e *Extension) MultiSelect() bool {
	return e.multiSelect
}

// SetMultiSelect enables or disables multi select
func (e *Extension) SetMultiSelect(enabled bool) {
	e.multiSelect = enabled
}

func (e *Extension) owner() (*adapter.Adapter, error) {
	a := e.Adapter()
	if a == nil {
		return nil, adapter.ErrNotAttached
	}
	return a, nil
}

// Select selects the row at pos
func (e *Extension) Select(pos int) error {
	return e.SelectAt(pos, true, false)
}

// SelectAt selects the row at pos. fireEvent controls the listener call and
// considerSelectableFlag skips items that refuse selection.
func (e *Extension) SelectAt(pos int, fireEvent, considerSelectableFlag bool) error {
	a, err := e.owner()
	if err != nil {
		return err
	}
	item, err := a.Item(pos)
	if err != nil {
		return err
	}
	s, ok := model.AsSelectable(item)
	if !ok {
		return nil
	}
	if considerSelectableFlag && !s.Selectable() {
		return nil
	}
	_, tracked := e.selected[pos]
	if s.Selected() && tracked {
		return nil
	}
	s.SetSelected(true)
	e.selected[pos] = struct{}{}
	if e.updateOnSelection {
		a.NotifyChanged(pos, 1, Payload)
	}
	if fireEvent && e.listener != nil {
		e.listener(item, true)
	}
	return nil
}

// Deselect deselects the row at pos
func (e *Extension) Deselect(pos int) error {
	return e.DeselectAt(pos, true)
}

// DeselectAt deselects the row at pos; deselecting an unselected row is a no-op
func (e *Extension) DeselectAt(pos int, fireEvent bool) error {
	return e.deselect(pos, fireEvent, e.updateOnSelection)
}

func (e *Extension) deselect(pos int, fireEvent, notify bool) error {
	a, err := e.owner()
	if err != nil {
		return err
	}
	item, err := a.Item(pos)
	if err != nil {
		return err
	}
	_, tracked := e.selected[pos]
	delete(e.selected, pos)
	s, ok := model.AsSelectable(item)
	if !ok || (!s.Selected() && !tracked) {
		return nil
	}
	s.SetSelected(false)
	if notify {
		a.NotifyChanged(pos, 1, Payload)
	}
	if fireEvent && e.listener != nil {
		e.listener(item, false)
	}
	return nil
}

// DeselectSilently clears the selection of the row at pos without sending
// a change notification. Used for rows that are about to disappear.
func (e *Extension) DeselectSilently(pos int) error {
	return e.deselect(pos, true, false)
}

// Toggle flips the selection of the row at pos
func (e *Extension) Toggle(pos int) error {
	if e.IsSelected(pos) {
		return e.Deselect(pos)
	}
	return e.Select(pos)
}

// IsSelected reports whether the row at pos is selected
func (e *Extension) IsSelected(pos int) bool {
	_, ok := e.selected[pos]
	return ok
}

// SelectAll selects every selectable row
func (e *Extension) SelectAll() error {
	a, err := e.owner()
	if err != nil {
		return err
	}
	for pos := range a.Count() {
		if err := e.SelectAt(pos, false, true); err != nil {
			return err
		}
	}
	return nil
}

// DeselectAll deselects every selected row
func (e *Extension) DeselectAll() error {
	return e.deselectAllExcept(-1)
}

func (e *Extension) deselectAllExcept(keep int) error {
	for _, pos := range e.SelectedPositions() {
		if pos == keep {
			continue
		}
		if err := e.Deselect(pos); err != nil {
			return err
		}
	}
	return nil
}

// SelectByIdentifier selects the rows holding the given identifiers.
// Identifiers that are not bound to a row are skipped.
func (e *Extension) SelectByIdentifier(ids ...int64) error {
	a, err := e.owner()
	if err != nil {
		return err
	}
	for _, id := range ids {
		if pos := a.PositionOf(id); pos >= 0 {
			if err := e.SelectAt(pos, false, true); err != nil {
				return err
			}
		}
	}
	return nil
}

// DeselectByIdentifier deselects the rows holding the given identifiers
func (e *Extension) DeselectByIdentifier(ids ...int64) error {
	a, err := e.owner()
	if err != nil {
		return err
	}
	for _, id := range ids {
		if pos := a.PositionOf(id); pos >= 0 {
			if err := e.DeselectAt(pos, false); err != nil {
				return err
			}
		}
	}
	return nil
}

// SelectedPositions returns the selected positions in ascending order
func (e *Extension) SelectedPositions() []int {
	positions := make([]int, 0, len(e.selected))
	for pos := range e.selected {
		positions = append(positions, pos)
	}
	slices.Sort(positions)
	return positions
}

// SelectedItems returns the selected items in position order
func (e *Extension) SelectedItems() []model.Item {
	a := e.Adapter()
	if a == nil {
		return nil
	}
	var items []model.Item
	for _, pos := range e.SelectedPositions() {
		if item, err := a.Item(pos); err == nil {
			items = append(items, item)
		}
	}
	return items
}

// SelectedIdentifiers returns the identifiers of the selected items in
// position order
func (e *Extension) SelectedIdentifiers() []int64 {
	var ids []int64
	for _, item := range e.SelectedItems() {
		ids = append(ids, item.Identifier())
	}
	return ids
}

// DeleteAllSelected removes every selected item, highest position first,
// and returns the removed items in that order. An extension implementing
// adapter.ItemRemover takes care of the removal when one is registered.
func (e *Extension) DeleteAllSelected() ([]model.Item, error) {
	a, err := e.owner()
	if err != nil {
		return nil, err
	}
	remover, hasRemover := adapter.ExtensionOf[adapter.ItemRemover](a)
	positions := e.SelectedPositions()
	removed := make([]model.Item, 0, len(positions))
	for i := len(positions) - 1; i >= 0; i-- {
		pos := positions[i]
		if hasRemover {
			item, err := remover.RemoveItem(pos)
			if err != nil {
				return removed, err
			}
			removed = append(removed, item)
			continue
		}
		sub, rel, err := a.Locate(pos)
		if err != nil {
			return removed, err
		}
		item, err := sub.ItemAt(rel)
		if err != nil {
			return removed, err
		}
		if err := sub.Remove(rel, 1); err != nil {
			return removed, err
		}
		removed = append(removed, item)
	}
	return removed, nil
}

// ItemsInserted shifts selected positions at or after pos and picks up
// inserted items that already carry the selected flag
func (e *Extension) ItemsInserted(pos, count int) {
	shifted := make(map[int]struct{}, len(e.selected))
	for p := range e.selected {
		if p >= pos {
			p += count
		}
		shifted[p] = struct{}{}
	}
	e.selected = shifted
	e.syncRange(pos, count)
}

// ItemsRemoved drops selected positions inside the removed range and shifts
// the ones after it
func (e *Extension) ItemsRemoved(pos, count int) {
	shifted := make(map[int]struct{}, len(e.selected))
	for p := range e.selected {
		switch {
		case p < pos:
			shifted[p] = struct{}{}
		case p >= pos+count:
			shifted[p-count] = struct{}{}
		}
	}
	e.selected = shifted
}

// ItemMoved lets the selection follow the moved row
func (e *Extension) ItemMoved(from, to int) {
	shifted := make(map[int]struct{}, len(e.selected))
	for p := range e.selected {
		shifted[adapter.MovedPosition(p, from, to)] = struct{}{}
	}
	e.selected = shifted
}

// ItemsChanged re-reads the selected flag of the changed rows
func (e *Extension) ItemsChanged(pos, count int, _ any) {
	e.syncRange(pos, count)
}

// DataSetChanged rebuilds the selection from the item flags
func (e *Extension) DataSetChanged() {
	e.selected = make(map[int]struct{})
	if a := e.Adapter(); a != nil {
		e.syncRange(0, a.Count())
	}
}

func (e *Extension) syncRange(pos, count int) {
	a := e.Adapter()
	if a == nil {
		return
	}
	for p := pos; p < pos+count; p++ {
		item, err := a.Item(p)
		if err != nil {
			return
		}
		if model.IsSelected(item) {
			e.selected[p] = struct{}{}
		} else {
			delete(e.selected, p)
		}
	}
}

// OnClick toggles the selection unless selection happens on long click
func (e *Extension) OnClick(pos int, item model.Item) bool {
	if !e.clickable || e.selectOnLongClick {
		return false
	}
	e.handleClick(pos, item)
	return false
}

// OnLongClick toggles the selection when selection happens on long click
func (e *Extension) OnLongClick(pos int, item model.Item) bool {
	if !e.clickable || !e.selectOnLongClick {
		return false
	}
	e.handleClick(pos, item)
	return false
}

func (e *Extension) handleClick(pos int, item model.Item) {
	if !model.IsSelectable(item) || e.Adapter() == nil {
		return
	}
	if e.IsSelected(pos) {
		if e.allowDeselection {
			_ = e.Deselect(pos)
		}
		return
	}
	if !e.multiSelect {
		_ = e.deselectAllExcept(pos)
	}
	_ = e.Select(pos)
}
