package ui

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/pstuifzand/tui-listadapter/internal/adapter"
	"github.com/pstuifzand/tui-listadapter/internal/model"
)

// Section tells the list view how to draw the rows of a sub-adapter
type Section int

const (
	SectionBody Section = iota
	SectionHeader
	SectionFooter
)

// maxDepth bounds the parent walk of a row
const maxDepth = 64

// ListView renders the rows of a composite adapter and keeps its cursor on
// the same item while the adapter notifies inserts, removals and moves
type ListView struct {
	a        *adapter.Adapter
	sections map[adapter.SubAdapter]Section

	cursor         int
	viewportOffset int // Index of first visible row
	top            int // Screen line of the first row at the last render
	updates        int // Notifications received since the last render
}

// NewListView creates a list view and registers it as observer of a
func NewListView(a *adapter.Adapter) *ListView {
	lv := &ListView{
		a:        a,
		sections: make(map[adapter.SubAdapter]Section),
	}
	a.RegisterObserver(lv)
	return lv
}

// Close stops observing the adapter
func (lv *ListView) Close() {
	lv.a.UnregisterObserver(lv)
}

// SetSection sets how the rows of sub are drawn
func (lv *ListView) SetSection(sub adapter.SubAdapter, s Section) {
	lv.sections[sub] = s
}

// ItemRangeInserted keeps the cursor on its item
func (lv *ListView) ItemRangeInserted(pos, count int) {
	lv.updates++
	if pos <= lv.cursor && lv.a.Count() > count {
		lv.cursor += count
	}
	lv.clamp()
}

// ItemRangeRemoved moves the cursor to the first row after the removed range
func (lv *ListView) ItemRangeRemoved(pos, count int) {
	lv.updates++
	switch {
	case lv.cursor >= pos+count:
		lv.cursor -= count
	case lv.cursor >= pos:
		lv.cursor = pos
	}
	lv.clamp()
}

// ItemMoved follows the item under the cursor
func (lv *ListView) ItemMoved(from, to int) {
	lv.updates++
	lv.cursor = adapter.MovedPosition(lv.cursor, from, to)
}

func (lv *ListView) ItemRangeChanged(pos, count int, payload any) {
	lv.updates++
}

func (lv *ListView) DataSetChanged() {
	lv.updates++
	lv.clamp()
}

// Updates returns the number of notifications received since the last render
func (lv *ListView) Updates() int {
	return lv.updates
}

func (lv *ListView) clamp() {
	if lv.cursor >= lv.a.Count() {
		lv.cursor = lv.a.Count() - 1
	}
	if lv.cursor < 0 {
		lv.cursor = 0
	}
}

// Cursor returns the global position of the cursor row
func (lv *ListView) Cursor() int {
	return lv.cursor
}

// CursorItem returns the item under the cursor
func (lv *ListView) CursorItem() (model.Item, bool) {
	item, err := lv.a.Item(lv.cursor)
	return item, err == nil
}

// SetCursor moves the cursor to pos, clamped to the rows
func (lv *ListView) SetCursor(pos int) {
	lv.cursor = pos
	lv.clamp()
}

// MoveCursor moves the cursor by delta rows
func (lv *ListView) MoveCursor(delta int) {
	lv.SetCursor(lv.cursor + delta)
}

// First moves the cursor to the first row
func (lv *ListView) First() {
	lv.SetCursor(0)
}

// Last moves the cursor to the last row
func (lv *ListView) Last() {
	lv.SetCursor(lv.a.Count() - 1)
}

// RowAt returns the global position drawn at screen line y
func (lv *ListView) RowAt(y int) (int, bool) {
	pos := lv.viewportOffset + y - lv.top
	if y < lv.top || pos >= lv.a.Count() {
		return 0, false
	}
	return pos, true
}

// Depth returns the nesting level of the row at pos
func (lv *ListView) Depth(pos int) int {
	item, err := lv.a.Item(pos)
	if err != nil {
		return 0
	}
	depth := 0
	for id := model.ParentOf(item); id != model.NoIdentifier && depth < maxDepth; depth++ {
		parent, _, ok := lv.a.ItemByIdentifier(id)
		if !ok {
			break
		}
		id = model.ParentOf(parent)
	}
	return depth
}

func (lv *ListView) sectionOf(pos int) Section {
	sub, _, err := lv.a.Locate(pos)
	if err != nil {
		return SectionBody
	}
	return lv.sections[sub]
}

// RowText returns the text drawn for the row at pos: indentation, the
// expansion marker, a check box for selectable body rows and the label
func (lv *ListView) RowText(pos int) string {
	indent, mark, rest := lv.rowParts(pos)
	if mark == "" {
		return rest
	}
	return indent + mark + " " + rest
}

// rowParts splits a row into indentation, marker and the remaining text.
// Header and footer rows only have text.
func (lv *ListView) rowParts(pos int) (indent, mark, rest string) {
	item, err := lv.a.Item(pos)
	if err != nil {
		return "", "", ""
	}
	label := FirstLine(model.LabelOf(item))
	if lv.sectionOf(pos) != SectionBody {
		return "", "", label
	}

	indent = strings.Repeat("  ", lv.Depth(pos))
	switch {
	case !model.IsSelectable(item):
		rest = label
	case model.IsSelected(item):
		rest = "[x] " + label
	default:
		rest = "[ ] " + label
	}
	return indent, marker(item), rest
}

func marker(item model.Item) string {
	switch {
	case !model.HasSubItems(item):
		return "•"
	case model.IsExpanded(item):
		return "▼"
	}
	return "▶"
}

func (lv *ListView) rowStyle(screen *Screen, pos int, item model.Item) tcell.Style {
	var style tcell.Style
	switch lv.sectionOf(pos) {
	case SectionHeader:
		style = screen.HeaderStyle()
	case SectionFooter:
		style = screen.FooterStyle()
	default:
		switch {
		case !item.Enabled():
			style = screen.DisabledStyle()
		case model.IsSelected(item):
			style = screen.SelectedStyle()
		default:
			style = screen.RowStyle()
		}
	}
	if pos == lv.cursor {
		style = screen.CursorStyle(style)
	}
	return style
}

// Render draws height rows starting at screen line startY
func (lv *ListView) Render(screen *Screen, startY, height int) {
	lv.top = startY
	lv.updates = 0
	height = max(height, 1)
	count := lv.a.Count()

	// Keep the cursor row visible
	if lv.cursor < lv.viewportOffset {
		lv.viewportOffset = lv.cursor
	} else if lv.cursor >= lv.viewportOffset+height {
		lv.viewportOffset = lv.cursor - height + 1
	}
	lv.viewportOffset = min(lv.viewportOffset, max(count-height, 0))
	lv.viewportOffset = max(lv.viewportOffset, 0)

	width, _ := screen.Size()
	y := startY
	for pos := lv.viewportOffset; pos < count && y < startY+height; pos++ {
		item, err := lv.a.Item(pos)
		if err != nil {
			break
		}
		style := lv.rowStyle(screen, pos, item)
		indent, mark, rest := lv.rowParts(pos)

		x := screen.DrawString(0, y, indent, style)
		if mark != "" {
			markStyle := screen.MarkerStyle(model.HasSubItems(item), model.IsExpanded(item))
			if pos == lv.cursor {
				markStyle = screen.CursorStyle(markStyle)
			}
			x += screen.DrawString(x, y, mark+" ", markStyle)
		}
		x += screen.DrawStringLimited(x, y, rest, width-x, style)
		screen.FillLine(x, y, style)
		y++
	}

	for ; y < startY+height; y++ {
		screen.FillLine(0, y, tcell.StyleDefault)
	}
}
