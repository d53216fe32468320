package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pstuifzand/tui-listadapter/internal/adapter"
	"github.com/pstuifzand/tui-listadapter/internal/expansion"
	"github.com/pstuifzand/tui-listadapter/internal/model"
	"github.com/pstuifzand/tui-listadapter/internal/selection"
)

func TestSaveLoad(t *testing.T) {
	m, err := NewManager(filepath.Join(t.TempDir(), "state"))
	require.NoError(t, err)

	snap := Snapshot{Selected: []int64{3, 1}, Expanded: []int64{2}}
	require.NoError(t, m.Save("list.toml", snap))

	loaded, err := m.Load("list.toml")
	require.NoError(t, err)
	assert.Equal(t, snap, loaded)
}

func TestLoadMissingAndCorrupted(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(dir)
	require.NoError(t, err)

	snap, err := m.Load("missing.toml")
	require.NoError(t, err)
	assert.Equal(t, Snapshot{}, snap)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.toml"), []byte("selected = [1,"), 0644))
	snap, err = m.Load("broken.toml")
	require.NoError(t, err)
	assert.Equal(t, Snapshot{}, snap)
}

func outline() []model.Item {
	var items []model.Item
	for i := range int64(3) {
		parent := model.NewNode(1, "parent")
		parent.ID = i + 1
		for j := range int64(2) {
			child := model.NewNode(2, "child")
			child.ID = (i+1)*10 + j
			parent.AddChild(child)
		}
		items = append(items, parent)
	}
	return items
}

func newAdapter(t *testing.T) *adapter.Adapter {
	t.Helper()
	a := adapter.New()
	require.NoError(t, a.AddAdapter(0, adapter.NewItemAdapter(outline()...)))
	a.AddExtension(selection.New(selection.WithMultiSelect(true)))
	a.AddExtension(expansion.New())
	return a
}

func TestCaptureRestore(t *testing.T) {
	a := newAdapter(t)
	exp, _ := adapter.ExtensionOf[*expansion.Extension](a)
	sel, _ := adapter.ExtensionOf[*selection.Extension](a)
	require.NoError(t, exp.Expand(1))
	require.NoError(t, sel.SelectByIdentifier(21, 3))

	snap := Capture(a)
	assert.Equal(t, []int64{2}, snap.Expanded)
	assert.Equal(t, []int64{21, 3}, snap.Selected)

	// a fresh list with the same identifiers gets the same state back
	b := newAdapter(t)
	require.NoError(t, Restore(b, snap))
	assert.Equal(t, snap, Capture(b))
	assert.Equal(t, 5, b.Count())
}
