// Package filter narrows the items of a sub-adapter down to the ones that
// match a query, keeping the unfiltered list aside.
package filter

import (
	"slices"
	"strings"

	"github.com/pstuifzand/tui-listadapter/internal/adapter"
	"github.com/pstuifzand/tui-listadapter/internal/diff"
	"github.com/pstuifzand/tui-listadapter/internal/model"
)

// Filter applies queries to one sub-adapter. Filtered lists are applied
// through a diff, so selection and expansion survive filtering.
type Filter struct {
	a     *adapter.Adapter
	sub   diff.Target
	opts  []diff.Option
	parse func(query string) (Expr, error)

	originals []model.Item
	query     string
}

// Option configures a Filter
type Option func(*Filter)

// WithDiffOptions passes options to the diff that applies a filtered list
func WithDiffOptions(opts ...diff.Option) Option {
	return func(f *Filter) { f.opts = opts }
}

// WithParser replaces the query parser
func WithParser(parse func(query string) (Expr, error)) Option {
	return func(f *Filter) { f.parse = parse }
}

// New creates a filter for sub, which must be registered with a
func New(a *adapter.Adapter, sub diff.Target, opts ...Option) *Filter {
	f := &Filter{a: a, sub: sub, parse: Parse}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Active reports whether a query is applied
func (f *Filter) Active() bool {
	return f.originals != nil
}

// Query returns the applied query
func (f *Filter) Query() string {
	return f.query
}

// Originals returns the unfiltered top level items, or the current ones
// when no query is applied
func (f *Filter) Originals() []model.Item {
	if f.originals != nil {
		return slices.Clone(f.originals)
	}
	return topLevel(f.sub.Items())
}

// Apply filters the list by query. Items match when they or one of their
// sub-items match. An empty query restores the unfiltered list.
func (f *Filter) Apply(query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return f.Reset()
	}
	expr, err := f.parse(query)
	if err != nil {
		return err
	}
	if f.originals == nil {
		f.originals = topLevel(f.sub.Items())
	}

	var matched []model.Item
	for _, item := range f.originals {
		if matchesTree(expr, item) {
			matched = append(matched, item)
		}
	}
	if _, err := diff.Set(f.a, f.sub, matched, f.opts...); err != nil {
		return err
	}
	f.query = query
	f.a.Logger().Printf("filter %s: %d of %d", expr, len(matched), len(f.originals))
	return nil
}

// Reset restores the unfiltered list
func (f *Filter) Reset() error {
	if f.originals == nil {
		return nil
	}
	originals := f.originals
	f.originals = nil
	f.query = ""
	_, err := diff.Set(f.a, f.sub, originals, f.opts...)
	return err
}

// Forget drops items from the kept unfiltered list, so items removed while
// a query is applied stay removed after Reset
func (f *Filter) Forget(ids ...int64) {
	if f.originals == nil {
		return
	}
	f.originals = slices.DeleteFunc(f.originals, func(item model.Item) bool {
		return slices.Contains(ids, item.Identifier())
	})
}

func matchesTree(expr Expr, item model.Item) bool {
	if expr.Matches(item) {
		return true
	}
	if exp, ok := model.AsExpandable(item); ok {
		for _, sub := range exp.SubItems() {
			if matchesTree(expr, sub) {
				return true
			}
		}
	}
	return false
}

// topLevel skips the rows materialised by expanded parents
func topLevel(items []model.Item) []model.Item {
	out := make([]model.Item, 0, len(items))
	for _, item := range items {
		if model.ParentOf(item) == model.NoIdentifier {
			out = append(out, item)
		}
	}
	return out
}
