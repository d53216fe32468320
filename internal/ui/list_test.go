package ui

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pstuifzand/tui-listadapter/internal/adapter"
	"github.com/pstuifzand/tui-listadapter/internal/expansion"
	"github.com/pstuifzand/tui-listadapter/internal/model"
	"github.com/pstuifzand/tui-listadapter/internal/selection"
	"github.com/pstuifzand/tui-listadapter/internal/theme"
)

type listFixture struct {
	a      *adapter.Adapter
	header *adapter.ReadOnlyAdapter
	sub    *adapter.ItemAdapter
	sel    *selection.Extension
	exp    *expansion.Extension
	lv     *ListView
}

func newListFixture(t *testing.T, top int) listFixture {
	t.Helper()
	items := make([]model.Item, top)
	for i := range top {
		n := model.NewNode(1, fmt.Sprintf("item %d", i))
		n.AddChild(model.NewNode(2, fmt.Sprintf("item %d.0", i)))
		items[i] = n
	}
	f := listFixture{
		a:      adapter.New(),
		header: adapter.NewReadOnlyAdapter(adapter.SliceSource{model.NewNode(0, "Header")}),
		sub:    adapter.NewItemAdapter(items...),
		sel:    selection.New(selection.WithMultiSelect(true)),
		exp:    expansion.New(),
	}
	require.NoError(t, f.a.AddAdapter(0, f.header))
	require.NoError(t, f.a.AddAdapter(1, f.sub))
	f.a.AddExtension(f.sel)
	f.a.AddExtension(f.exp)
	f.lv = NewListView(f.a)
	f.lv.SetSection(f.header, SectionHeader)
	return f
}

func TestRowText(t *testing.T) {
	f := newListFixture(t, 2)
	require.NoError(t, f.exp.Expand(1))
	require.NoError(t, f.sel.Select(2))

	assert.Equal(t, "Header", f.lv.RowText(0))
	assert.Equal(t, "▼ [ ] item 0", f.lv.RowText(1))
	assert.Equal(t, "  • [x] item 0.0", f.lv.RowText(2))
	assert.Equal(t, "▶ [ ] item 1", f.lv.RowText(3))
	assert.Equal(t, 1, f.lv.Depth(2))
	assert.Equal(t, 0, f.lv.Depth(3))
}

func TestCursorFollowsItem(t *testing.T) {
	f := newListFixture(t, 5)
	f.lv.SetCursor(3) // item 2

	require.NoError(t, f.sub.Insert(0, model.NewNode(1, "new")))
	assert.Equal(t, 4, f.lv.Cursor())

	require.NoError(t, f.sub.Move(3, 0)) // item 2 to the front
	assert.Equal(t, 1, f.lv.Cursor())
	item, ok := f.lv.CursorItem()
	require.True(t, ok)
	assert.Equal(t, "item 2", model.LabelOf(item))

	// rows inserted below the cursor leave it in place
	require.NoError(t, f.exp.Expand(1))
	assert.Equal(t, 1, f.lv.Cursor())

	f.lv.SetCursor(3)
	require.NoError(t, f.exp.Collapse(1))
	assert.Equal(t, 2, f.lv.Cursor())
	item, ok = f.lv.CursorItem()
	require.True(t, ok)
	assert.Equal(t, "new", model.LabelOf(item))
}

func TestCursorOnRemoval(t *testing.T) {
	f := newListFixture(t, 5)
	f.lv.SetCursor(3)

	require.NoError(t, f.sub.Remove(1, 2)) // rows 2 and 3
	assert.Equal(t, 2, f.lv.Cursor())

	require.NoError(t, f.sub.Remove(0, 1))
	assert.Equal(t, 1, f.lv.Cursor())

	f.sub.Clear()
	assert.Equal(t, 0, f.lv.Cursor())
	assert.Positive(t, f.lv.Updates())
}

func TestCursorClamped(t *testing.T) {
	f := newListFixture(t, 3)
	f.lv.SetCursor(99)
	assert.Equal(t, 3, f.lv.Cursor())
	f.lv.MoveCursor(-10)
	assert.Equal(t, 0, f.lv.Cursor())
	f.lv.Last()
	assert.Equal(t, 3, f.lv.Cursor())
	f.lv.First()
	assert.Equal(t, 0, f.lv.Cursor())
}

func simRow(sim tcell.SimulationScreen, y int) string {
	cells, width, _ := sim.GetContents()
	var b strings.Builder
	for x := range width {
		b.WriteString(string(cells[y*width+x].Runes))
	}
	return strings.TrimRight(b.String(), " ")
}

func TestRender(t *testing.T) {
	f := newListFixture(t, 20)
	sim := tcell.NewSimulationScreen("UTF-8")
	screen, err := NewScreenFrom(sim, theme.TokyoNight())
	require.NoError(t, err)
	defer screen.Close()
	sim.SetSize(40, 6)

	f.lv.Render(screen, 0, 5)
	screen.Show()
	assert.Equal(t, "Header", simRow(sim, 0))
	assert.Equal(t, "▶ [ ] item 0", simRow(sim, 1))
	assert.Equal(t, 0, f.lv.Updates())

	f.lv.SetCursor(10)
	f.lv.Render(screen, 0, 5)
	screen.Show()
	assert.Equal(t, "▶ [ ] item 9", simRow(sim, 4))

	pos, ok := f.lv.RowAt(4)
	require.True(t, ok)
	assert.Equal(t, 10, pos)
}

func TestPrompt(t *testing.T) {
	p := NewPrompt("/")
	p.Start("ab")
	assert.True(t, p.IsActive())

	assert.Equal(t, PromptEditing, p.HandleKey(tcell.NewEventKey(tcell.KeyRune, 'c', tcell.ModNone)))
	p.HandleKey(tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone))
	p.HandleKey(tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone))
	assert.Equal(t, "ac", p.Text())

	assert.Equal(t, PromptCommit, p.HandleKey(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone)))
	assert.False(t, p.IsActive())
}

func TestStatusMessageTimesOut(t *testing.T) {
	s := NewStatusLine()
	now := s.now()
	s.now = func() time.Time { return now }
	s.SetMessage("deleted %d items", 3)
	assert.Equal(t, "deleted 3 items", s.Message())

	s.now = func() time.Time { return now.Add(messageTimeout + time.Second) }
	assert.Empty(t, s.Message())

	assert.Equal(t, "4 rows  1 selected  0 expanded  filter: x",
		Counts{Rows: 4, Selected: 1, Filter: "x"}.String())
}
