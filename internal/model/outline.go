package model

// Node is the concrete item used throughout the application. A node owns its
// children; the link back to the parent is an identifier, never a pointer.
type Node struct {
	ID           int64   `json:"id"`
	Kind         int32   `json:"type"`
	Text         string  `json:"text"`
	Children     []*Node `json:"children,omitempty"`
	Disabled     bool    `json:"disabled,omitempty"`
	Unselectable bool    `json:"unselectable,omitempty"`

	Parent   int64 `json:"-"` // Restored from the tree after loading
	selected bool  // UI state, not persisted
	expanded bool  // UI state, not persisted

	// OnClick is the node's own click listener, optional
	OnClick func(pos int) bool `json:"-"`
}

// Outline is a forest of nodes
type Outline struct {
	Items []*Node `json:"items"`
}

// NewNode creates a node without identifier; one is assigned when the node
// enters an adapter
func NewNode(kind int32, text string) *Node {
	return &Node{
		ID:       NoIdentifier,
		Kind:     kind,
		Text:     text,
		Children: make([]*Node, 0),
		Parent:   NoIdentifier,
	}
}

// NewOutline creates an empty outline
func NewOutline() *Outline {
	return &Outline{
		Items: make([]*Node, 0),
	}
}

func (n *Node) Identifier() int64      { return n.ID }
func (n *Node) SetIdentifier(id int64) { n.ID = id }
func (n *Node) Type() int32            { return n.Kind }
func (n *Node) Enabled() bool          { return !n.Disabled }
func (n *Node) Label() string          { return n.Text }

func (n *Node) Selectable() bool        { return !n.Unselectable }
func (n *Node) Selected() bool          { return n.selected }
func (n *Node) SetSelected(value bool)  { n.selected = value }
func (n *Node) Expanded() bool          { return n.expanded }
func (n *Node) SetExpanded(value bool)  { n.expanded = value }
func (n *Node) ParentID() int64         { return n.Parent }
func (n *Node) SetParentID(value int64) { n.Parent = value }

// SubItems returns the children as items
func (n *Node) SubItems() []Item {
	items := make([]Item, len(n.Children))
	for i, child := range n.Children {
		items[i] = child
	}
	return items
}

// AddChild adds a child node to this node
func (n *Node) AddChild(child *Node) {
	child.Parent = n.ID
	n.Children = append(n.Children, child)
}

// SetSubItems replaces the children. Items that are not nodes are skipped.
func (n *Node) SetSubItems(items []Item) {
	children := make([]*Node, 0, len(items))
	for _, item := range items {
		if c, ok := item.(*Node); ok {
			c.Parent = n.ID
			children = append(children, c)
		}
	}
	n.Children = children
}

// RemoveSubItem removes the child with the given identifier
func (n *Node) RemoveSubItem(id int64) bool {
	for idx, c := range n.Children {
		if c.ID == id {
			n.Children = append(n.Children[:idx], n.Children[idx+1:]...)
			c.Parent = NoIdentifier
			return true
		}
	}
	return false
}

// ContentEquals compares the visible state of two nodes
func (n *Node) ContentEquals(other Item) bool {
	o, ok := other.(*Node)
	if !ok {
		return false
	}
	return n.Kind == o.Kind && n.Text == o.Text && n.Disabled == o.Disabled && len(n.Children) == len(o.Children)
}

// HandleClick forwards to OnClick when set
func (n *Node) HandleClick(pos int) bool {
	if n.OnClick == nil {
		return false
	}
	return n.OnClick(pos)
}

// Clone returns a shallow copy with the same identity and cloned children
func (n *Node) Clone() *Node {
	c := *n
	c.Children = make([]*Node, len(n.Children))
	for i, child := range n.Children {
		c.Children[i] = child.Clone()
	}
	return &c
}

// Roots returns the root nodes as items
func (o *Outline) Roots() []Item {
	items := make([]Item, len(o.Items))
	for i, n := range o.Items {
		items[i] = n
	}
	return items
}

// AllNodes returns all nodes in the outline (depth-first)
func (o *Outline) AllNodes() []*Node {
	var nodes []*Node
	for _, n := range o.Items {
		nodes = append(nodes, allNodesRecursive(n)...)
	}
	return nodes
}

func allNodesRecursive(n *Node) []*Node {
	nodes := []*Node{n}
	for _, child := range n.Children {
		nodes = append(nodes, allNodesRecursive(child)...)
	}
	return nodes
}

// FindByID finds a node by its identifier
func (o *Outline) FindByID(id int64) *Node {
	for _, n := range o.AllNodes() {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// RestoreParents reconstructs parent identifiers after deserialization
func (o *Outline) RestoreParents() {
	restoreParents(o.Items, NoIdentifier)
}

func restoreParents(nodes []*Node, parent int64) {
	for _, n := range nodes {
		n.Parent = parent
		restoreParents(n.Children, n.ID)
	}
}
