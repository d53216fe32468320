// Package expansion materialises the sub-items of expanded rows inside the
// global position space of a composite adapter.
package expansion

import (
	"fmt"
	"maps"
	"slices"

	"github.com/pstuifzand/tui-listadapter/internal/adapter"
	"github.com/pstuifzand/tui-listadapter/internal/model"
	"github.com/pstuifzand/tui-listadapter/internal/selection"
)

// Listener is called after a row was expanded or collapsed
type Listener func(item model.Item, expanded bool)

// Extension tracks the expanded rows. The map holds, per expanded position,
// the number of direct sub-item rows its expansion inserted. A position is
// present iff the item there is expanded and has at least one sub-item.
type Extension struct {
	adapter.BaseExtension

	expanded map[int]int
	// mutating is non-zero while the extension changes rows itself
	mutating int
	moving   *movingRow

	singleExpanded bool
	autoExpand     bool
	listener       Listener
}

// Option configures an Extension
type Option func(*Extension)

// WithSingleExpanded keeps at most one expanded branch: expanding a row
// collapses every other expanded row that is not one of its ancestors
func WithSingleExpanded(enabled bool) Option {
	return func(e *Extension) { e.singleExpanded = enabled }
}

// WithAutoExpand toggles expandable rows when they are clicked
func WithAutoExpand(enabled bool) Option {
	return func(e *Extension) { e.autoExpand = enabled }
}

// WithListener sets the expansion listener
func WithListener(l Listener) Option {
	return func(e *Extension) { e.listener = l }
}

// New creates an expansion extension
func New(opts ...Option) *Extension {
	e := &Extension{
		expanded:   make(map[int]int),
		autoExpand: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Extension) owner() (*adapter.Adapter, error) {
	a := e.Adapter()
	if a == nil {
		return nil, adapter.ErrNotAttached
	}
	return a, nil
}

// IsExpanded reports whether the row at pos is expanded
func (e *Extension) IsExpanded(pos int) bool {
	_, ok := e.expanded[pos]
	return ok
}

// Toggle expands a collapsed row and collapses an expanded one
func (e *Extension) Toggle(pos int) error {
	if e.IsExpanded(pos) {
		return e.Collapse(pos)
	}
	return e.Expand(pos)
}

// Expand inserts the sub-items of the row at pos directly after it. Children
// that are flagged expanded themselves are expanded as well. Rows that are
// not expandable, have no sub-items or are already expanded are left alone.
func (e *Extension) Expand(pos int) error {
	a, err := e.owner()
	if err != nil {
		return err
	}
	item, err := a.Item(pos)
	if err != nil {
		return err
	}
	exp, ok := model.AsExpandable(item)
	if !ok || len(exp.SubItems()) == 0 || e.IsExpanded(pos) {
		return nil
	}
	if e.singleExpanded {
		if pos, err = e.collapseOthers(a, pos, item); err != nil {
			return err
		}
	}
	return e.expand(a, pos, item, exp)
}

func (e *Extension) expand(a *adapter.Adapter, pos int, item model.Item, exp model.Expandable) error {
	sub, rel, err := a.Locate(pos)
	if err != nil {
		return err
	}
	children := exp.SubItems()
	// the flags of the children are reset here and restored by the nested
	// expansion below, so the map and the flags agree at every notification
	var nested []int
	for i, child := range children {
		if p, ok := child.(model.HasParent); ok {
			p.SetParentID(item.Identifier())
		}
		if ce, ok := model.AsExpandable(child); ok {
			if ce.Expanded() && len(ce.SubItems()) > 0 {
				nested = append(nested, i)
			}
			ce.SetExpanded(false)
		}
	}

	exp.SetExpanded(true)
	e.expanded[pos] = len(children)
	e.mutating++
	err = sub.Insert(rel+1, children...)
	e.mutating--
	if err != nil {
		exp.SetExpanded(false)
		delete(e.expanded, pos)
		return fmt.Errorf("expand %d: %w", pos, err)
	}
	a.Logger().Printf("expanded %d: %d rows", pos, len(children))
	if e.listener != nil {
		e.listener(item, true)
	}

	for i := len(nested) - 1; i >= 0; i-- {
		child := children[nested[i]]
		ce, _ := model.AsExpandable(child)
		if err := e.expand(a, pos+1+nested[i], child, ce); err != nil {
			return err
		}
	}
	return nil
}

// collapseOthers collapses every expanded row except the ancestors of the
// item at pos and returns the position of that item afterwards
func (e *Extension) collapseOthers(a *adapter.Adapter, pos int, item model.Item) (int, error) {
	ancestors := make(map[int64]bool)
	for parent := model.ParentOf(item); parent != model.NoIdentifier; {
		ancestors[parent] = true
		p, _, ok := a.ItemByIdentifier(parent)
		if !ok {
			break
		}
		parent = model.ParentOf(p)
	}

	keys := slices.Sorted(maps.Keys(e.expanded))
	for i := len(keys) - 1; i >= 0; i-- {
		k := keys[i]
		other, err := a.Item(k)
		if err != nil {
			return pos, err
		}
		if ancestors[other.Identifier()] {
			continue
		}
		rows, err := e.collapse(a, k, false)
		if err != nil {
			return pos, err
		}
		if k < pos {
			pos -= rows
		}
	}
	return pos, nil
}

// Collapse removes the rows of the expanded subtree at pos. Rows that are
// not expanded are left alone.
func (e *Extension) Collapse(pos int) error {
	a, err := e.owner()
	if err != nil {
		return err
	}
	if _, err := a.Item(pos); err != nil {
		return err
	}
	if !e.IsExpanded(pos) {
		return nil
	}
	_, err = e.collapse(a, pos, false)
	return err
}

// collapse returns the number of rows it removed. With keepNested the
// expanded rows inside the subtree keep their flag, so expanding pos again
// restores them.
func (e *Extension) collapse(a *adapter.Adapter, pos int, keepNested bool) (int, error) {
	rows := e.subtreeRows(pos)
	if rows == 0 {
		return 0, nil
	}
	sub, rel, err := a.Locate(pos)
	if err != nil {
		return 0, err
	}
	if rel+1+rows > sub.Count() {
		return 0, fmt.Errorf("collapse %d: %w: %d rows below it, %d left in its adapter",
			pos, adapter.ErrOutOfRange, rows, sub.Count()-rel-1)
	}

	// the subtree keys are released before the rows go, and restored when
	// the sub-adapter refuses the removal
	released := make(map[int]int)
	for p, n := range e.expanded {
		if p >= pos && p <= pos+rows {
			released[p] = n
		}
	}
	e.setFlags(a, released, pos, false, keepNested)
	for p := range released {
		delete(e.expanded, p)
	}

	if sel, ok := adapter.ExtensionOf[*selection.Extension](a); ok {
		for _, p := range sel.SelectedPositions() {
			if p > pos && p <= pos+rows {
				if err := sel.DeselectSilently(p); err != nil {
					return 0, err
				}
			}
		}
	}

	e.mutating++
	err = sub.Remove(rel+1, rows)
	e.mutating--
	if err != nil {
		maps.Copy(e.expanded, released)
		e.setFlags(a, released, pos, true, keepNested)
		return 0, fmt.Errorf("collapse %d: %w", pos, err)
	}
	a.Logger().Printf("collapsed %d: %d rows", pos, rows)
	if e.listener != nil {
		if item, err := a.Item(pos); err == nil {
			e.listener(item, false)
		}
	}
	return rows, nil
}

// setFlags sets the expanded flag of the rows in keys. Only the row at pos
// is touched when keepNested is set.
func (e *Extension) setFlags(a *adapter.Adapter, keys map[int]int, pos int, value, keepNested bool) {
	for p := range keys {
		if keepNested && p != pos {
			continue
		}
		if item, err := a.Item(p); err == nil {
			if exp, ok := model.AsExpandable(item); ok {
				exp.SetExpanded(value)
			}
		}
	}
}

// ExpandAll expands every expandable row at every level
func (e *Extension) ExpandAll() error {
	a, err := e.owner()
	if err != nil {
		return err
	}
	for pos := a.Count() - 1; pos >= 0; pos-- {
		if err := e.expandTree(a, pos); err != nil {
			return err
		}
	}
	return nil
}

func (e *Extension) expandTree(a *adapter.Adapter, pos int) error {
	item, err := a.Item(pos)
	if err != nil {
		return err
	}
	exp, ok := model.AsExpandable(item)
	if !ok || len(exp.SubItems()) == 0 {
		return nil
	}
	if !e.IsExpanded(pos) {
		if err := e.expand(a, pos, item, exp); err != nil {
			return err
		}
	}
	// children are visited last to first, so the rows of a child are inserted
	// after every child that still has to be visited
	n := len(exp.SubItems())
	for i := n - 1; i >= 0; i-- {
		if err := e.expandTree(a, pos+1+i+e.rowsBefore(pos, i)); err != nil {
			return err
		}
	}
	return nil
}

// rowsBefore returns the number of materialised grandchild rows that sit
// between the parent at pos and its i-th child
func (e *Extension) rowsBefore(pos, i int) int {
	rows := 0
	child := pos + 1
	for range i {
		n := e.subtreeRows(child)
		rows += n
		child += 1 + n
	}
	return rows
}

// subtreeRows counts the rows materialised below pos
func (e *Extension) subtreeRows(pos int) int {
	count, ok := e.expanded[pos]
	if !ok {
		return 0
	}
	rows := 0
	child := pos + 1
	for range count {
		n := e.subtreeRows(child)
		rows += 1 + n
		child += 1 + n
	}
	return rows
}

// CollapseAll collapses every expanded row, last to first
func (e *Extension) CollapseAll() error {
	a, err := e.owner()
	if err != nil {
		return err
	}
	return e.collapseRange(a, 0, a.Count())
}

// CollapseIn collapses the expanded rows owned by sub
func (e *Extension) CollapseIn(sub adapter.SubAdapter) error {
	a, err := e.owner()
	if err != nil {
		return err
	}
	offset, err := a.OffsetOf(sub)
	if err != nil {
		return err
	}
	return e.collapseRange(a, offset, offset+sub.Count())
}

func (e *Extension) collapseRange(a *adapter.Adapter, from, to int) error {
	keys := slices.Sorted(maps.Keys(e.expanded))
	for i := len(keys) - 1; i >= 0; i-- {
		if keys[i] < from || keys[i] >= to || !e.IsExpanded(keys[i]) {
			continue
		}
		if _, err := e.collapse(a, keys[i], false); err != nil {
			return err
		}
	}
	return nil
}

// ExpandByIdentifier expands the rows holding the given identifiers.
// Identifiers that are not bound to a row are skipped.
func (e *Extension) ExpandByIdentifier(ids ...int64) error {
	a, err := e.owner()
	if err != nil {
		return err
	}
	for _, id := range ids {
		if pos := a.PositionOf(id); pos >= 0 {
			if err := e.Expand(pos); err != nil {
				return err
			}
		}
	}
	return nil
}

// CollapseByIdentifier collapses the rows holding the given identifiers
func (e *Extension) CollapseByIdentifier(ids ...int64) error {
	a, err := e.owner()
	if err != nil {
		return err
	}
	for _, id := range ids {
		if pos := a.PositionOf(id); pos >= 0 {
			if err := e.Collapse(pos); err != nil {
				return err
			}
		}
	}
	return nil
}

// ExpandedPositions returns the expanded positions in ascending order
func (e *Extension) ExpandedPositions() []int {
	return slices.Sorted(maps.Keys(e.expanded))
}

// ExpandedIdentifiers returns the identifiers of the expanded rows in
// position order
func (e *Extension) ExpandedIdentifiers() []int64 {
	a := e.Adapter()
	if a == nil {
		return nil
	}
	var ids []int64
	for _, pos := range e.ExpandedPositions() {
		if item, err := a.Item(pos); err == nil {
			ids = append(ids, item.Identifier())
		}
	}
	return ids
}

// ExpandedDescendantCountBetween sums the rows inserted by the expanded
// positions in [from, to)
func (e *Extension) ExpandedDescendantCountBetween(from, to int) int {
	total := 0
	for pos, count := range e.expanded {
		if pos >= from && pos < to {
			total += count
		}
	}
	return total
}

// ParentPosition returns the position of the row holding the parent of the
// item at pos, or -1 for top level rows
func (e *Extension) ParentPosition(pos int) int {
	a := e.Adapter()
	if a == nil {
		return -1
	}
	item, err := a.Item(pos)
	if err != nil {
		return -1
	}
	parent := model.ParentOf(item)
	if parent == model.NoIdentifier {
		return -1
	}
	for p := pos - 1; p >= 0; p-- {
		candidate, err := a.Item(p)
		if err != nil {
			return -1
		}
		if candidate.Identifier() == parent {
			return p
		}
	}
	return -1
}

// RemoveItem removes the row at pos together with its materialised subtree
// and detaches the item from its parent
func (e *Extension) RemoveItem(pos int) (model.Item, error) {
	a, err := e.owner()
	if err != nil {
		return nil, err
	}
	item, err := a.Item(pos)
	if err != nil {
		return nil, err
	}
	if e.IsExpanded(pos) {
		if _, err := e.collapse(a, pos, false); err != nil {
			return nil, err
		}
	}
	sub, rel, err := a.Locate(pos)
	if err != nil {
		return nil, err
	}
	// the block of the parent shrinks through ItemsRemoved
	if err := sub.Remove(rel, 1); err != nil {
		return nil, err
	}
	if p, ok := item.(model.HasParent); ok {
		p.SetParentID(model.NoIdentifier)
	}
	return item, nil
}

// movingRow is an expanded row collapsed by BeforeMove
type movingRow struct {
	id       int64
	selected []int64
}

// BeforeMove collapses the row at pos when it is expanded, so its sub-item
// rows do not stay behind, and returns the number of rows it removed.
// Nested expansion and the selection inside the subtree are restored by
// AfterMove.
func (e *Extension) BeforeMove(pos int) (int, error) {
	e.moving = nil
	a, err := e.owner()
	if err != nil || !e.IsExpanded(pos) {
		return 0, err
	}
	item, err := a.Item(pos)
	if err != nil {
		return 0, err
	}
	rows := e.subtreeRows(pos)
	moving := &movingRow{id: item.Identifier()}
	if sel, ok := adapter.ExtensionOf[*selection.Extension](a); ok {
		for _, p := range sel.SelectedPositions() {
			if p <= pos || p > pos+rows {
				continue
			}
			if selected, err := a.Item(p); err == nil {
				moving.selected = append(moving.selected, selected.Identifier())
			}
		}
	}
	removed, err := e.collapse(a, pos, true)
	if err != nil {
		return 0, err
	}
	e.moving = moving
	return removed, nil
}

// AfterMove expands the row collapsed by BeforeMove at its new position
func (e *Extension) AfterMove(pos int) error {
	moving := e.moving
	e.moving = nil
	if moving == nil {
		return nil
	}
	a, err := e.owner()
	if err != nil {
		return err
	}
	item, err := a.Item(pos)
	if err != nil {
		return err
	}
	exp, ok := model.AsExpandable(item)
	if !ok || item.Identifier() != moving.id || len(exp.SubItems()) == 0 {
		return nil
	}
	if err := e.expand(a, pos, item, exp); err != nil {
		return err
	}
	if sel, ok := adapter.ExtensionOf[*selection.Extension](a); ok && len(moving.selected) > 0 {
		return sel.SelectByIdentifier(moving.selected...)
	}
	return nil
}

// ItemsInserted shifts expanded positions at or after pos. Rows inserted
// inside an expanded block become sub-items of the block. Inserted items
// that claim to be expanded without materialised children are reset.
func (e *Extension) ItemsInserted(pos, count int) {
	a := e.Adapter()
	if e.mutating > 0 || a == nil {
		e.shift(func(p int) (int, bool) {
			if p >= pos {
				return p + count, true
			}
			return p, true
		})
	} else {
		added := make([]int, count)
		for i := range added {
			added[i] = pos + i
		}
		anchor := -1
		if pos+count < a.Count() {
			anchor = pos
		}
		e.restructure(a, rowChange{
			remap: func(p int) (int, bool) {
				if p >= pos {
					return p + count, true
				}
				return p, true
			},
			added:  added,
			anchor: anchor,
			moved:  -1,
		})
	}
	if a == nil {
		return
	}
	for p := pos; p < pos+count; p++ {
		item, err := a.Item(p)
		if err != nil {
			return
		}
		if exp, ok := model.AsExpandable(item); ok && exp.Expanded() {
			exp.SetExpanded(false)
		}
	}
}

// ItemsRemoved drops expanded positions inside the removed range and
// shifts the ones after it. Blocks that lose rows lose the sub-items.
func (e *Extension) ItemsRemoved(pos, count int) {
	remap := func(p int) (int, bool) {
		switch {
		case p < pos:
			return p, true
		case p >= pos+count:
			return p - count, true
		}
		return 0, false
	}
	a := e.Adapter()
	if e.mutating > 0 || a == nil {
		e.shift(remap)
		return
	}
	e.restructure(a, rowChange{remap: remap, anchor: -1, moved: -1})
}

// ItemMoved lets the expanded state follow the moved row. A row moved into
// or out of an expanded block joins or leaves it.
func (e *Extension) ItemMoved(from, to int) {
	remap := func(p int) (int, bool) {
		return adapter.MovedPosition(p, from, to), true
	}
	a := e.Adapter()
	if e.mutating > 0 || a == nil {
		e.shift(remap)
		return
	}
	anchor := -1
	if to+1 < a.Count() {
		anchor = adapter.MovedPosition(to+1, to, from)
	}
	e.restructure(a, rowChange{remap: remap, added: []int{to}, anchor: anchor, moved: from})
	if item, err := a.Item(to); err == nil && !e.IsExpanded(to) {
		if exp, ok := model.AsExpandable(item); ok {
			exp.SetExpanded(false)
		}
	}
}

func (e *Extension) shift(remap func(int) (int, bool)) {
	shifted := make(map[int]int, len(e.expanded))
	for p, n := range e.expanded {
		if np, ok := remap(p); ok {
			shifted[np] = n
		}
	}
	e.expanded = shifted
}

// rowChange describes a change made to the rows by someone else. remap maps
// an old position to its new one, or reports that the row is gone. added
// lists the new positions of rows that have to find their block, anchor is
// the old row that follows them (-1 when none does) and moved the old
// position of a moved row (-1 when none moved).
type rowChange struct {
	remap  func(int) (int, bool)
	added  []int
	anchor int
	moved  int
}

// owners maps every materialised sub-item row to the expanded row whose
// block it sits in directly
func (e *Extension) owners() map[int]int {
	owners := make(map[int]int)
	for p, count := range e.expanded {
		child := p + 1
		for range count {
			owners[child] = p
			child += 1 + e.subtreeRows(child)
		}
	}
	return owners
}

// restructure rebuilds the blocks after an external change. Rows keep their
// block unless it went away, in which case they move up to the nearest
// surviving ancestor block. Added rows join the block of their anchor.
// Blocks left without rows collapse. The sub-items of every surviving block
// are synced to its rows.
func (e *Extension) restructure(a *adapter.Adapter, c rowChange) {
	if len(e.expanded) == 0 {
		return
	}
	owners := e.owners()
	live := func(old int) (int, bool) {
		if old == c.moved {
			return 0, false
		}
		return c.remap(old)
	}
	// resolve returns the new position of the nearest live block around old
	resolve := func(old int) int {
		for {
			o, ok := owners[old]
			if !ok {
				return -1
			}
			if n, ok := live(o); ok {
				return n
			}
			old = o
		}
	}

	blocks := make(map[int][]int)
	owned := make(map[int]bool)
	for row := range owners {
		n, ok := live(row)
		if !ok {
			continue
		}
		if o := resolve(row); o >= 0 {
			blocks[o] = append(blocks[o], n)
			owned[n] = true
		}
	}
	if c.anchor >= 0 {
		if o := resolve(c.anchor); o >= 0 {
			for _, n := range c.added {
				blocks[o] = append(blocks[o], n)
				owned[n] = true
			}
		}
	}

	old := e.expanded
	e.expanded = make(map[int]int, len(old))
	for k := range old {
		n, ok := live(k)
		if !ok {
			continue
		}
		item, err := a.Item(n)
		if err != nil {
			continue
		}
		exp, ok := model.AsExpandable(item)
		if !ok {
			continue
		}
		rows := blocks[n]
		slices.Sort(rows)
		children := make([]model.Item, 0, len(rows))
		for _, r := range rows {
			child, err := a.Item(r)
			if err != nil {
				continue
			}
			if p, ok := child.(model.HasParent); ok {
				p.SetParentID(item.Identifier())
			}
			children = append(children, child)
		}
		syncSubItems(exp, children)
		if len(children) == 0 {
			exp.SetExpanded(false)
			continue
		}
		e.expanded[n] = len(children)
	}

	// rows that left every block are top level now
	for row := range owners {
		if n, ok := c.remap(row); ok && !owned[n] {
			if child, err := a.Item(n); err == nil {
				if p, ok := child.(model.HasParent); ok {
					p.SetParentID(model.NoIdentifier)
				}
			}
		}
	}
}

// syncSubItems makes the sub-items of exp match children. Items that can
// not take a new list only drop the sub-items that are gone.
func syncSubItems(exp model.Expandable, children []model.Item) {
	if setter, ok := exp.(model.SubItemSetter); ok {
		setter.SetSubItems(children)
		return
	}
	keep := make(map[int64]bool, len(children))
	for _, child := range children {
		keep[child.Identifier()] = true
	}
	for _, sub := range exp.SubItems() {
		if !keep[sub.Identifier()] {
			exp.RemoveSubItem(sub.Identifier())
		}
	}
}

// ItemsChanged carries the expanded flag over to replacement items.
// Positions whose new item can not expand are dropped.
func (e *Extension) ItemsChanged(pos, count int, _ any) {
	a := e.Adapter()
	if a == nil {
		return
	}
	for p := pos; p < pos+count; p++ {
		if !e.IsExpanded(p) {
			continue
		}
		item, err := a.Item(p)
		if err != nil {
			return
		}
		if exp, ok := model.AsExpandable(item); ok {
			exp.SetExpanded(true)
		} else {
			delete(e.expanded, p)
		}
	}
}

// DataSetChanged rebuilds the expanded positions. An item counts as
// expanded when it is flagged expanded and its first sub-item occupies the
// next row; every other expanded flag is reset.
func (e *Extension) DataSetChanged() {
	e.expanded = make(map[int]int)
	a := e.Adapter()
	if a == nil {
		return
	}
	items := a.Items()
	for pos, item := range items {
		exp, ok := model.AsExpandable(item)
		if !ok || !exp.Expanded() {
			continue
		}
		children := exp.SubItems()
		if len(children) > 0 && pos+1 < len(items) &&
			items[pos+1].Identifier() == children[0].Identifier() {
			e.expanded[pos] = len(children)
			continue
		}
		exp.SetExpanded(false)
	}
}

// OnClick toggles expandable rows when auto expand is enabled. The click is
// never consumed.
func (e *Extension) OnClick(pos int, item model.Item) bool {
	if !e.autoExpand || !model.HasSubItems(item) {
		return false
	}
	if err := e.Toggle(pos); err != nil && e.Adapter() != nil {
		e.Adapter().Logger().Printf("toggle %d: %v", pos, err)
	}
	return false
}
