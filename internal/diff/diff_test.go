package diff

import (
	"fmt"
	"math/rand"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pstuifzand/tui-listadapter/internal/adapter"
	"github.com/pstuifzand/tui-listadapter/internal/expansion"
	"github.com/pstuifzand/tui-listadapter/internal/model"
	"github.com/pstuifzand/tui-listadapter/internal/selection"
)

func nodes(ids ...int64) []model.Item {
	items := make([]model.Item, len(ids))
	for i, id := range ids {
		n := model.NewNode(1, fmt.Sprintf("item %d", id))
		n.ID = id
		items[i] = n
	}
	return items
}

func identifiers(items []model.Item) []int64 {
	ids := make([]int64, len(items))
	for i, item := range items {
		ids[i] = item.Identifier()
	}
	return ids
}

// sliceConsumer replays a script on a list of identifiers
type sliceConsumer struct {
	ids     []int64
	target  []int64
	changed []int
}

func (c *sliceConsumer) Inserted(pos, count int) {
	c.ids = slices.Insert(c.ids, pos, c.target[pos:pos+count]...)
}

func (c *sliceConsumer) Removed(pos, count int) {
	c.ids = slices.Delete(c.ids, pos, pos+count)
}

func (c *sliceConsumer) Moved(from, to int) {
	id := c.ids[from]
	c.ids = slices.Delete(c.ids, from, from+1)
	c.ids = slices.Insert(c.ids, to, id)
}

func (c *sliceConsumer) Changed(pos, count int, _ any) {
	for p := pos; p < pos+count; p++ {
		c.changed = append(c.changed, p)
	}
}

func TestIdenticalListsProduceNoOps(t *testing.T) {
	items := nodes(1, 2, 3, 4, 5)
	s := Compute(items, items)
	assert.True(t, s.Empty())
	assert.Len(t, s.Matches, 5)

	clones := make([]model.Item, len(items))
	for i, item := range items {
		clones[i] = item.(*model.Node).Clone()
	}
	assert.True(t, Compute(items, clones).Empty())
}

func TestComputeScripts(t *testing.T) {
	for _, tc := range []struct {
		name     string
		old, new []int64
		want     []string
	}{
		{"append", []int64{1, 2}, []int64{1, 2, 3, 4}, []string{"insert 2+2"}},
		{"prepend", []int64{1, 2}, []int64{0, 1, 2}, []string{"insert 0+1"}},
		{"remove middle", []int64{1, 2, 3, 4, 5}, []int64{1, 5}, []string{"remove 1+3"}},
		{"remove two ranges", []int64{1, 2, 3, 4, 5}, []int64{2, 4}, []string{"remove 4+1", "remove 2+1", "remove 0+1"}},
		{"replace", []int64{1, 2, 3}, []int64{1, 9, 3}, []string{"remove 1+1", "insert 1+1"}},
		{"move to end", []int64{1, 2, 3, 4}, []int64{2, 3, 4, 1}, []string{"move 0 -> 3"}},
		{"move to front", []int64{1, 2, 3, 4}, []int64{4, 1, 2, 3}, []string{"move 3 -> 0"}},
		{"empty to some", nil, []int64{1, 2}, []string{"insert 0+2"}},
		{"some to empty", []int64{1, 2}, nil, []string{"remove 0+2"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s := Compute(nodes(tc.old...), nodes(tc.new...))
			var got []string
			for _, op := range s.Ops {
				got = append(got, op.String())
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestMoveDetectionDisabled(t *testing.T) {
	s := Compute(nodes(1, 2, 3, 4), nodes(2, 3, 4, 1), WithDetectMoves(false))
	st := s.Stats()
	assert.Zero(t, st.Moved)
	assert.Equal(t, 1, st.Removed)
	assert.Equal(t, 1, st.Inserted)
}

func TestContentChanges(t *testing.T) {
	old := nodes(1, 2, 3, 4)
	new := nodes(1, 2, 3, 4)
	new[1].(*model.Node).Text = "renamed"
	new[2].(*model.Node).Text = "renamed too"

	s := Compute(old, new)
	require.Len(t, s.Ops, 1)
	assert.Equal(t, Op{Kind: OpChange, Pos: 1, Count: 2}, s.Ops[0])

	s = Compute(old, new, WithPayload(func(_, n model.Item) any { return model.LabelOf(n) }))
	require.Len(t, s.Ops, 2)
	assert.Equal(t, "renamed too", s.Ops[1].Payload)

	s = Compute(old, new, WithContent(func(a, b model.Item) bool { return true }))
	assert.True(t, s.Empty())
}

func TestCustomIdentity(t *testing.T) {
	byLabel := func(a, b model.Item) bool { return model.LabelOf(a) == model.LabelOf(b) }
	old := nodes(1, 2)
	new := nodes(3, 4)
	new[0].(*model.Node).Text = "item 1"
	new[1].(*model.Node).Text = "item 2"
	assert.True(t, Compute(old, new, WithIdentity(byLabel)).Empty())
}

func TestReplayProducesNewList(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for round := range 200 {
		var old, new []int64
		for id := range int64(20) {
			if rng.Intn(4) != 0 {
				old = append(old, id)
			}
			if rng.Intn(4) != 0 {
				new = append(new, id)
			}
		}
		rng.Shuffle(len(new), func(i, j int) { new[i], new[j] = new[j], new[i] })

		for _, moves := range []bool{true, false} {
			s := Compute(nodes(old...), nodes(new...), WithDetectMoves(moves))
			c := &sliceConsumer{ids: slices.Clone(old), target: new}
			s.Dispatch(c)
			require.Equal(t, new, c.ids, "round %d moves %v", round, moves)
			assertScriptOrder(t, s)
		}
	}
}

// assertScriptOrder pins the replay discipline: removals high to low before
// anything else, insertions low to high, changes last
func assertScriptOrder(t *testing.T, s Script) {
	t.Helper()
	phase := OpRemove
	lastRemove, lastInsert := -1, -1
	for _, op := range s.Ops {
		switch op.Kind {
		case OpRemove:
			require.Equal(t, OpRemove, phase)
			if lastRemove >= 0 {
				require.Less(t, op.Pos, lastRemove)
			}
			lastRemove = op.Pos
		case OpMove:
			require.NotEqual(t, OpChange, phase)
			require.NotEqual(t, OpInsert, phase)
			phase = OpMove
		case OpInsert:
			require.NotEqual(t, OpChange, phase)
			require.Greater(t, op.Pos, lastInsert)
			lastInsert = op.Pos
			phase = OpInsert
		case OpChange:
			phase = OpChange
		}
	}
}

func TestMyersFindsLongestSubsequence(t *testing.T) {
	a := []byte("ABCABBA")
	b := []byte("CBABAC")
	pairs := commonSubsequence(len(a), len(b), func(i, j int) bool { return a[i] == b[j] })
	assert.Len(t, pairs, 4)
	for k, p := range pairs {
		assert.Equal(t, a[p[0]], b[p[1]])
		if k > 0 {
			assert.Greater(t, p[0], pairs[k-1][0])
			assert.Greater(t, p[1], pairs[k-1][1])
		}
	}
}

func newList(t *testing.T, items []model.Item) (*adapter.Adapter, *adapter.ItemAdapter, *selection.Extension) {
	t.Helper()
	a := adapter.New()
	sub := adapter.NewItemAdapter(items...)
	require.NoError(t, a.AddAdapter(0, sub))
	sel := selection.New(selection.WithMultiSelect(true))
	a.AddExtension(sel)
	return a, sub, sel
}

type opCounter struct {
	inserted, removed, moved, changed int
}

func (c *opCounter) ItemRangeInserted(int, int)     { c.inserted++ }
func (c *opCounter) ItemRangeRemoved(int, int)      { c.removed++ }
func (c *opCounter) ItemMoved(int, int)             { c.moved++ }
func (c *opCounter) ItemRangeChanged(int, int, any) { c.changed++ }
func (c *opCounter) DataSetChanged()                {}

func TestSetIsIdempotent(t *testing.T) {
	a, sub, _ := newList(t, nodes(1, 2, 3))
	var counter opCounter
	a.RegisterObserver(&counter)

	s, err := Set(a, sub, sub.Items())
	require.NoError(t, err)
	assert.True(t, s.Empty())
	assert.Equal(t, opCounter{}, counter)
}

func TestShufflePreservesSelection(t *testing.T) {
	ids := make([]int64, 100)
	for i := range ids {
		ids[i] = int64(i)
	}
	a, sub, sel := newList(t, nodes(ids...))
	require.NoError(t, sel.SelectByIdentifier(42))

	rng := rand.New(rand.NewSource(42))
	shuffled := slices.Clone(ids)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	_, err := Set(a, sub, nodes(shuffled...))
	require.NoError(t, err)

	assert.Equal(t, shuffled, identifiers(a.Items()))
	assert.Equal(t, []int64{42}, sel.SelectedIdentifiers())
	assert.Equal(t, []int{slices.Index(shuffled, 42)}, sel.SelectedPositions())
	for _, item := range a.Items() {
		assert.Equal(t, item.Identifier() == 42, model.IsSelected(item))
	}
}

func TestApplyNotifiesChanges(t *testing.T) {
	a, sub, _ := newList(t, nodes(1, 2, 3))
	var counter opCounter
	a.RegisterObserver(&counter)

	next := nodes(3, 2, 4)
	next[1].(*model.Node).Text = "two"
	s := Compute(sub.Items(), next)
	require.NoError(t, Apply(a, sub, next, s))

	assert.Equal(t, []int64{3, 2, 4}, identifiers(a.Items()))
	item, err := a.Item(1)
	require.NoError(t, err)
	assert.Same(t, next[1], item)
	assert.Equal(t, 1, counter.changed)
	assert.Equal(t, 1, counter.removed)
	assert.Equal(t, 1, counter.inserted)
}

func TestApplyRejectsStaleScript(t *testing.T) {
	a, sub, _ := newList(t, nodes(1, 2, 3))
	s := Compute(nodes(1, 2), nodes(2))
	assert.ErrorIs(t, Apply(a, sub, nodes(2), s), adapter.ErrInvalidOperation)
}

func TestSetKeepsExpansion(t *testing.T) {
	tree := func(ids ...int64) []model.Item {
		items := nodes(ids...)
		for _, item := range items {
			parent := item.(*model.Node)
			for c := range int64(2) {
				child := model.NewNode(2, fmt.Sprintf("child %d", c))
				child.ID = parent.ID*10 + c
				parent.AddChild(child)
			}
		}
		return items
	}
	a, sub, sel := newList(t, tree(1, 2, 3))
	exp := expansion.New()
	a.AddExtension(exp)

	require.NoError(t, exp.Expand(1))
	require.NoError(t, sel.Select(2))
	assert.Equal(t, []int64{1, 2, 20, 21, 3}, identifiers(a.Items()))

	_, err := Set(a, sub, tree(3, 2, 1))
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 2, 20, 21, 1}, identifiers(a.Items()))
	assert.Equal(t, []int64{2}, exp.ExpandedIdentifiers())
	// the selected child is selected again in its new instance
	assert.Equal(t, []int64{20}, sel.SelectedIdentifiers())
	assert.Equal(t, []int{2}, sel.SelectedPositions())
	child, err := a.Item(2)
	require.NoError(t, err)
	assert.True(t, model.IsSelected(child))
}

func TestSetKeepsSelectedSubItemsOfMovedParents(t *testing.T) {
	tree := func(ids ...int64) []model.Item {
		items := nodes(ids...)
		for _, item := range items {
			parent := item.(*model.Node)
			child := model.NewNode(2, "child")
			child.ID = parent.ID * 10
			parent.AddChild(child)
		}
		return items
	}
	a, sub, sel := newList(t, tree(1, 2, 3))
	exp := expansion.New()
	a.AddExtension(exp)
	require.NoError(t, exp.Expand(2))
	require.NoError(t, exp.Expand(0))
	require.Equal(t, []int64{1, 10, 2, 3, 30}, identifiers(a.Items()))
	require.NoError(t, sel.Select(1))
	require.NoError(t, sel.Select(2))

	_, err := Set(a, sub, tree(2, 3, 1))
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3, 30, 1, 10}, identifiers(a.Items()))
	assert.ElementsMatch(t, []int64{2, 10}, sel.SelectedIdentifiers())
	assert.ElementsMatch(t, []int{0, 4}, sel.SelectedPositions())
}

func TestFormat(t *testing.T) {
	old := nodes(1, 2, 3)
	new := nodes(3, 1, 4)
	new[1].(*model.Node).Text = "first"

	lines := Format(Compute(old, new), old, new)
	var text []string
	for _, l := range lines {
		text = append(text, l.Content)
	}
	out := strings.Join(text, "\n")
	assert.Contains(t, out, "remove 1+1")
	assert.Contains(t, out, "- 2: item 2")
	assert.Contains(t, out, "move 0 -> 1")
	assert.Contains(t, out, "+ 4: item 4")
	assert.Contains(t, out, "1: item 1 → first")
	assert.Contains(t, out, "1 inserted, 1 removed, 1 moved, 1 changed")

	empty := Format(Compute(old, old), old, old)
	assert.Equal(t, []Line{{Type: LineSummary, Content: "no changes"}}, empty)
}
