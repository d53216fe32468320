// Package model contains the item model shared by the adapters
package model

// NoIdentifier marks an item that has not been given an identifier yet
const NoIdentifier int64 = -1

// Item is a single row of list content
type Item interface {
	Identifier() int64
	SetIdentifier(id int64)
	// Type is stable per concrete item kind and is used for view pooling
	Type() int32
	Enabled() bool
}

// Selectable is implemented by items that carry a selection flag
type Selectable interface {
	Item
	Selectable() bool
	Selected() bool
	SetSelected(selected bool)
}

// Expandable is implemented by items that own sub-items
type Expandable interface {
	Item
	Expanded() bool
	SetExpanded(expanded bool)
	SubItems() []Item
	// RemoveSubItem detaches the sub-item with the given identifier
	RemoveSubItem(id int64) bool
}

// SubItemSetter is implemented by expandable items whose sub-items can be
// replaced as a whole
type SubItemSetter interface {
	SetSubItems(items []Item)
}

// HasParent is implemented by items that know the identifier of their parent
type HasParent interface {
	Item
	ParentID() int64
	SetParentID(id int64)
}

// Labeled items expose a text used for filtering and display
type Labeled interface {
	Label() string
}

// ContentComparer decides whether two items with the same identity look the same
type ContentComparer interface {
	ContentEquals(other Item) bool
}

// ClickHandler is the item's own click listener
type ClickHandler interface {
	HandleClick(pos int) bool
}

// AsSelectable returns the selectable view of item when it has one
func AsSelectable(item Item) (Selectable, bool) {
	s, ok := item.(Selectable)
	return s, ok
}

// AsExpandable returns the expandable view of item when it has one
func AsExpandable(item Item) (Expandable, bool) {
	e, ok := item.(Expandable)
	return e, ok
}

// IsSelectable reports whether item can be selected at all
func IsSelectable(item Item) bool {
	s, ok := item.(Selectable)
	return ok && s.Selectable()
}

// IsSelected reports whether item is currently selected
func IsSelected(item Item) bool {
	s, ok := item.(Selectable)
	return ok && s.Selected()
}

// IsExpanded reports whether item is currently expanded
func IsExpanded(item Item) bool {
	e, ok := item.(Expandable)
	return ok && e.Expanded()
}

// HasSubItems reports whether item is expandable and has at least one sub-item
func HasSubItems(item Item) bool {
	e, ok := item.(Expandable)
	return ok && len(e.SubItems()) > 0
}

// ParentOf returns the parent identifier of item, or NoIdentifier
func ParentOf(item Item) int64 {
	if p, ok := item.(HasParent); ok {
		return p.ParentID()
	}
	return NoIdentifier
}

// LabelOf returns the label of item, or an empty string
func LabelOf(item Item) string {
	if l, ok := item.(Labeled); ok {
		return l.Label()
	}
	return ""
}

// SameContent compares two items using ContentComparer when available and
// falls back to instance equality
func SameContent(a, b Item) bool {
	if c, ok := a.(ContentComparer); ok {
		return c.ContentEquals(b)
	}
	return a == b
}

// SameIdentity reports whether two items carry the same identifier
func SameIdentity(a, b Item) bool {
	return a.Identifier() == b.Identifier()
}
