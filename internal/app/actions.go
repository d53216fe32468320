package app

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dustin/go-humanize/english"
	"github.com/pstuifzand/tui-listadapter/internal/adapter"
	"github.com/pstuifzand/tui-listadapter/internal/diff"
	"github.com/pstuifzand/tui-listadapter/internal/model"
	"github.com/pstuifzand/tui-listadapter/internal/storage"
)

// cursorInItems returns the cursor position relative to the item list
func (a *App) cursorInItems() (int, bool) {
	sub, rel, err := a.adapter.Locate(a.list.Cursor())
	if err != nil || sub != adapter.SubAdapter(a.items) {
		return 0, false
	}
	return rel, true
}

func (a *App) click() {
	if _, err := a.adapter.Click(a.list.Cursor()); err != nil {
		a.SetStatus(err.Error())
	}
	a.updateFooter()
}

func (a *App) longClick() {
	if _, err := a.adapter.LongClick(a.list.Cursor()); err != nil {
		a.SetStatus(err.Error())
	}
}

// toggleSelection selects or deselects the cursor row
func (a *App) toggleSelection() {
	pos := a.list.Cursor()
	item, ok := a.list.CursorItem()
	if !ok || !model.IsSelectable(item) {
		return
	}
	var err error
	switch {
	case a.sel.IsSelected(pos):
		err = a.sel.Deselect(pos)
	case a.sel.MultiSelect():
		err = a.sel.SelectAt(pos, true, true)
	default:
		if err = a.sel.DeselectAll(); err == nil {
			err = a.sel.SelectAt(pos, true, true)
		}
	}
	if err != nil {
		a.SetStatus(err.Error())
	}
}

func (a *App) expand() {
	item, ok := a.list.CursorItem()
	if !ok || !model.HasSubItems(item) {
		return
	}
	if err := a.exp.Expand(a.list.Cursor()); err != nil {
		a.SetStatus(err.Error())
	}
}

// collapse collapses the cursor row, or moves to its parent when the row
// is not expanded
func (a *App) collapse() {
	pos := a.list.Cursor()
	if a.exp.IsExpanded(pos) {
		if err := a.exp.Collapse(pos); err != nil {
			a.SetStatus(err.Error())
		}
		return
	}
	if parent := a.exp.ParentPosition(pos); parent >= 0 {
		a.list.SetCursor(parent)
	}
}

func (a *App) toggleExpansion() {
	if err := a.exp.Toggle(a.list.Cursor()); err != nil {
		a.SetStatus(err.Error())
	}
}

func (a *App) expandAll() {
	if err := a.exp.ExpandAll(); err != nil {
		a.SetStatus(err.Error())
		return
	}
	a.SetStatus(fmt.Sprintf("Expanded %d rows", len(a.exp.ExpandedPositions())))
}

func (a *App) collapseAll() {
	if err := a.exp.CollapseAll(); err != nil {
		a.SetStatus(err.Error())
	}
}

func (a *App) selectAll() {
	if !a.sel.MultiSelect() {
		a.SetStatus("Multi select is off")
		return
	}
	if err := a.sel.SelectAll(); err != nil {
		a.SetStatus(err.Error())
	}
}

func (a *App) deselectAll() {
	if err := a.sel.DeselectAll(); err != nil {
		a.SetStatus(err.Error())
	}
}

// deleteSelected removes every selected row with its subtree
func (a *App) deleteSelected() {
	removed, err := a.sel.DeleteAllSelected()
	if err != nil {
		a.SetStatus("Delete failed: " + err.Error())
	}
	if len(removed) == 0 {
		return
	}
	ids := make([]int64, len(removed))
	for i, item := range removed {
		ids[i] = item.Identifier()
	}
	a.filter.Forget(ids...)
	a.dirty = true
	a.updateFooter()
	a.SetStatus(fmt.Sprintf("Deleted %s", pluralItems(len(removed))))
}

func pluralItems(n int) string {
	return english.Plural(n, "item", "")
}

// addItem inserts a new top level item after the subtree of the cursor row
func (a *App) addItem() {
	if a.filter.Active() {
		a.SetStatus("Clear the filter before adding items")
		return
	}
	rel, ok := a.cursorInItems()
	if !ok {
		rel = a.items.Count() - 1
	}
	items := a.items.Items()
	at := rel + 1
	for at < len(items) && model.ParentOf(items[at]) != model.NoIdentifier {
		at++
	}

	n := model.NewNode(itemType, fmt.Sprintf("New item %d", len(a.filter.Originals())+1))
	if err := a.items.Insert(at, n); err != nil {
		a.SetStatus(err.Error())
		return
	}
	if pos, err := a.items.GlobalPosition(at); err == nil {
		a.list.SetCursor(pos)
	}
	a.dirty = true
	a.updateFooter()
}

// addChild appends a new sub-item to the cursor row and shows it
func (a *App) addChild() {
	if _, ok := a.cursorInItems(); !ok {
		return
	}
	pos := a.list.Cursor()
	item, _ := a.list.CursorItem()
	node, ok := item.(*model.Node)
	if !ok {
		return
	}
	if a.exp.IsExpanded(pos) {
		if err := a.exp.Collapse(pos); err != nil {
			a.SetStatus(err.Error())
			return
		}
	}
	child := model.NewNode(itemType, fmt.Sprintf("New item %d", len(node.Children)+1))
	node.AddChild(child)
	if err := a.exp.Expand(pos); err != nil {
		a.SetStatus(err.Error())
		return
	}
	if at := a.adapter.PositionOf(child.ID); at >= 0 {
		a.list.SetCursor(at)
	}
	a.dirty = true
}

// reorder replaces the top level list through a diff, so selection and
// expansion follow the items
func (a *App) reorder(name string, arrange func([]model.Item)) {
	next := topLevel(a.items.Items())
	arrange(next)
	s, err := diff.Set(a.adapter, a.items, next, a.diffOpt...)
	if err != nil {
		a.SetStatus(name + " failed: " + err.Error())
		return
	}
	st := s.Stats()
	a.logger.Printf("%s: %d ops", name, len(s.Ops))
	a.SetStatus(fmt.Sprintf("%s: %d moved, %d inserted, %d removed", name, st.Moved, st.Inserted, st.Removed))
	if !a.filter.Active() {
		a.dirty = true
	}
}

func (a *App) shuffle() {
	a.reorder("Shuffle", func(items []model.Item) {
		a.rng.Shuffle(len(items), func(i, j int) { items[i], items[j] = items[j], items[i] })
	})
}

func (a *App) sortByLabel() {
	a.reorder("Sort", func(items []model.Item) {
		slices.SortStableFunc(items, func(x, y model.Item) int {
			return strings.Compare(strings.ToLower(model.LabelOf(x)), strings.ToLower(model.LabelOf(y)))
		})
	})
}

func (a *App) reverse() {
	a.reorder("Reverse", slices.Reverse[[]model.Item])
}

// applyFilter filters the item list; an empty query restores it
func (a *App) applyFilter(query string) {
	if err := a.filter.Apply(query); err != nil {
		a.SetStatus("Filter: " + err.Error())
		return
	}
	a.updateFooter()
}

func (a *App) startFilter() {
	a.search.Start(a.filter.Query())
}

// save writes the unfiltered outline and the extension state
func (a *App) save() {
	if err := a.Save(); err != nil {
		a.SetStatus("Failed to save: " + err.Error())
		return
	}
	a.SetStatus("Saved")
}

// Save writes the outline to its file
func (a *App) Save() error {
	if a.store.FilePath == "" {
		return fmt.Errorf("no file name")
	}
	a.syncOutline()
	if err := a.store.Save(a.outline); err != nil {
		return err
	}
	if err := a.saveState(); err != nil {
		a.logger.Printf("save state: %v", err)
	}
	a.dirty = false
	return nil
}

// syncOutline rebuilds the outline roots from the unfiltered top level items
func (a *App) syncOutline() {
	a.outline.Items = a.outline.Items[:0]
	for _, item := range a.filter.Originals() {
		if n, ok := item.(*model.Node); ok {
			a.outline.Items = append(a.outline.Items, n)
		}
	}
}

// appendItems adds top level nodes at the end of the list
func (a *App) appendItems(nodes ...*model.Node) error {
	if a.filter.Active() {
		return fmt.Errorf("list is filtered")
	}
	items := make([]model.Item, len(nodes))
	for i, n := range nodes {
		items[i] = n
	}
	if err := a.items.Add(items...); err != nil {
		return err
	}
	a.dirty = true
	a.updateFooter()
	return nil
}

// importFile appends the items of an outline file in any supported format.
// Stored identifiers are dropped so they cannot collide with ours.
func (a *App) importFile(path string) error {
	outline, err := storage.LoadFile(path)
	if err != nil {
		return err
	}
	for _, n := range outline.AllNodes() {
		n.ID = model.NoIdentifier
		n.Parent = model.NoIdentifier
	}
	if err := a.appendItems(outline.Items...); err != nil {
		return err
	}
	a.SetStatus(fmt.Sprintf("Imported %s from %s", pluralItems(len(outline.Items)), path))
	return nil
}

// exportFile writes the unfiltered list as markdown
func (a *App) exportFile(path string) error {
	a.syncOutline()
	if err := storage.ExportMarkdown(a.outline, path); err != nil {
		return err
	}
	a.SetStatus("Exported to " + path)
	return nil
}

func (a *App) dumpLayout() {
	a.logger.Print(a.adapter.Dump())
	a.SetStatus("Layout written to log")
}
