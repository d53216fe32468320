package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pstuifzand/tui-listadapter/internal/adapter"
	"github.com/pstuifzand/tui-listadapter/internal/expansion"
	"github.com/pstuifzand/tui-listadapter/internal/model"
	"github.com/pstuifzand/tui-listadapter/internal/selection"
)

func TestParse(t *testing.T) {
	for _, tc := range []struct {
		query string
		want  string
	}{
		{"grc", `fuzzy("grc")`},
		{"'Apple", `text("apple")`},
		{"/^a.*e$/", "regex(/^a.*e$/)"},
		{"gr 'ce", `and(fuzzy("gr"), text("ce"))`},
	} {
		expr, err := Parse(tc.query)
		require.NoError(t, err, tc.query)
		assert.Equal(t, tc.want, expr.String())
	}

	_, err := Parse("/[/")
	assert.Error(t, err)
}

func TestExpressions(t *testing.T) {
	item := model.NewNode(1, "Groceries for the week")
	for _, tc := range []struct {
		query string
		want  bool
	}{
		{"grc", true},
		{"GRC", true},
		{"xyz", false},
		{"'week", true},
		{"'weak", false},
		{"/^Groc/", true},
		{"/^groc/", false},
		{"grc 'week", true},
		{"grc 'month", false},
	} {
		expr, err := Parse(tc.query)
		require.NoError(t, err)
		assert.Equal(t, tc.want, expr.Matches(item), tc.query)
	}
}

func newList(t *testing.T) (*adapter.Adapter, *adapter.ItemAdapter, *selection.Extension, *expansion.Extension) {
	t.Helper()
	var items []model.Item
	for i, text := range []string{"apple", "banana", "cherry", "date"} {
		n := model.NewNode(1, text)
		n.ID = int64(i + 1)
		items = append(items, n)
	}
	fruit := items[1].(*model.Node)
	child := model.NewNode(2, "plantain")
	child.ID = 20
	fruit.AddChild(child)

	a := adapter.New()
	sub := adapter.NewItemAdapter(items...)
	require.NoError(t, a.AddAdapter(0, sub))
	sel := selection.New(selection.WithMultiSelect(true))
	exp := expansion.New()
	a.AddExtension(sel)
	a.AddExtension(exp)
	return a, sub, sel, exp
}

func labels(a *adapter.Adapter) []string {
	var out []string
	for _, item := range a.Items() {
		out = append(out, model.LabelOf(item))
	}
	return out
}

func TestFilterAndReset(t *testing.T) {
	a, sub, sel, _ := newList(t)
	require.NoError(t, sel.SelectByIdentifier(3))

	f := New(a, sub)
	require.NoError(t, f.Apply("'an"))
	assert.True(t, f.Active())
	assert.Equal(t, "'an", f.Query())
	assert.Equal(t, []string{"banana"}, labels(a))
	assert.Empty(t, sel.SelectedIdentifiers())

	require.NoError(t, f.Apply("e"))
	assert.Equal(t, []string{"apple", "cherry", "date"}, labels(a))
	assert.Equal(t, []int64{3}, sel.SelectedIdentifiers())

	require.NoError(t, f.Apply(""))
	assert.False(t, f.Active())
	assert.Equal(t, []string{"apple", "banana", "cherry", "date"}, labels(a))
	assert.Equal(t, []int64{3}, sel.SelectedIdentifiers())
}

func TestFilterMatchesSubItems(t *testing.T) {
	a, sub, _, exp := newList(t)
	require.NoError(t, exp.Expand(1))
	assert.Equal(t, 5, a.Count())

	f := New(a, sub)
	require.NoError(t, f.Apply("plant"))
	assert.Equal(t, []string{"banana", "plantain"}, labels(a))
	assert.Equal(t, []int64{2}, exp.ExpandedIdentifiers())
	assert.Len(t, f.Originals(), 4)

	require.NoError(t, f.Reset())
	assert.Equal(t, []string{"apple", "banana", "plantain", "cherry", "date"}, labels(a))
}

func TestForget(t *testing.T) {
	a, sub, _, _ := newList(t)
	f := New(a, sub)
	require.NoError(t, f.Apply("a"))
	f.Forget(1)
	require.NoError(t, f.Reset())
	assert.Equal(t, []string{"banana", "cherry", "date"}, labels(a))
}
