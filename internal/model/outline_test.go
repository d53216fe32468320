package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeCapabilities(t *testing.T) {
	n := NewNode(1, "parent")
	var item Item = n

	s, ok := AsSelectable(item)
	require.True(t, ok)
	assert.True(t, s.Selectable())
	assert.False(t, IsSelected(item))
	s.SetSelected(true)
	assert.True(t, IsSelected(item))

	n.Unselectable = true
	assert.False(t, IsSelectable(item))

	assert.False(t, HasSubItems(item))
	n.AddChild(NewNode(2, "child"))
	assert.True(t, HasSubItems(item))
	assert.Equal(t, "parent", LabelOf(item))
}

func TestAddAndRemoveChild(t *testing.T) {
	parent := NewNode(1, "parent")
	parent.ID = 10
	child := NewNode(2, "child")
	child.ID = 11

	parent.AddChild(child)
	assert.Equal(t, int64(10), ParentOf(child))
	require.Len(t, parent.SubItems(), 1)

	assert.True(t, parent.RemoveSubItem(11))
	assert.False(t, parent.RemoveSubItem(11))
	assert.Empty(t, parent.Children)
	assert.Equal(t, NoIdentifier, child.Parent)
}

func TestContentEquals(t *testing.T) {
	a := &Node{ID: 1, Kind: 1, Text: "a"}
	b := &Node{ID: 1, Kind: 1, Text: "a"}
	c := &Node{ID: 1, Kind: 1, Text: "changed"}

	assert.True(t, SameContent(a, b))
	assert.False(t, SameContent(a, c))
	assert.True(t, SameIdentity(a, c))
}

func TestOutlineTraversal(t *testing.T) {
	o := NewOutline()
	root := &Node{ID: 1, Text: "root"}
	child := &Node{ID: 2, Text: "child"}
	grandchild := &Node{ID: 3, Text: "grandchild"}
	child.Children = []*Node{grandchild}
	root.Children = []*Node{child}
	o.Items = append(o.Items, root, &Node{ID: 4, Text: "second"})

	o.RestoreParents()

	all := o.AllNodes()
	require.Len(t, all, 4)
	assert.Equal(t, []int64{1, 2, 3, 4}, []int64{all[0].ID, all[1].ID, all[2].ID, all[3].ID})
	assert.Equal(t, int64(2), grandchild.Parent)
	assert.Equal(t, NoIdentifier, root.Parent)
	assert.Same(t, grandchild, o.FindByID(3))
	assert.Nil(t, o.FindByID(99))
}

func TestCloneKeepsIdentity(t *testing.T) {
	n := &Node{ID: 5, Text: "x", Children: []*Node{{ID: 6}}}
	c := n.Clone()
	assert.Equal(t, n.ID, c.ID)
	assert.NotSame(t, n.Children[0], c.Children[0])
	assert.True(t, SameContent(n, c))
}

func TestSetSubItems(t *testing.T) {
	parent := NewNode(1, "parent")
	parent.ID = 10
	first := NewNode(2, "first")
	second := NewNode(2, "second")
	parent.AddChild(first)

	parent.SetSubItems([]Item{second, first})
	assert.Equal(t, []*Node{second, first}, parent.Children)
	assert.Equal(t, int64(10), second.Parent)

	parent.SetSubItems(nil)
	assert.Empty(t, parent.Children)
}
