package adapter

import "github.com/pstuifzand/tui-listadapter/internal/model"

// Extension reacts to structural changes and interaction events without
// owning item storage. Every method is called on the adapter's thread.
type Extension interface {
	// Attach is called once when the extension is added to a
	Attach(a *Adapter)

	ItemsInserted(pos, count int)
	ItemsRemoved(pos, count int)
	ItemMoved(from, to int)
	ItemsChanged(pos, count int, payload any)
	DataSetChanged()

	// The interaction hooks report whether they consumed the event
	OnClick(pos int, item model.Item) bool
	OnLongClick(pos int, item model.Item) bool
	OnTouch(pos int, item model.Item, ev TouchEvent) bool
}

// BaseExtension implements Extension with no-ops. Embed it and override the
// hooks that matter.
type BaseExtension struct {
	adapter *Adapter
}

func (b *BaseExtension) Attach(a *Adapter)                        { b.adapter = a }
func (b *BaseExtension) ItemsInserted(pos, count int)             {}
func (b *BaseExtension) ItemsRemoved(pos, count int)              {}
func (b *BaseExtension) ItemMoved(from, to int)                   {}
func (b *BaseExtension) ItemsChanged(pos, count int, _ any)       {}
func (b *BaseExtension) DataSetChanged()                          {}
func (b *BaseExtension) OnClick(int, model.Item) bool             { return false }
func (b *BaseExtension) OnLongClick(int, model.Item) bool         { return false }
func (b *BaseExtension) OnTouch(int, model.Item, TouchEvent) bool { return false }

// Adapter returns the composite the extension is attached to
func (b *BaseExtension) Adapter() *Adapter { return b.adapter }

// ItemRemover is implemented by extensions that know how to remove an item
// together with the rows and links that depend on it
type ItemRemover interface {
	RemoveItem(pos int) (model.Item, error)
}

// MoveHook is implemented by extensions that keep rows attached to the row
// being moved. BeforeMove returns the number of rows it removed directly
// below pos; AfterMove is called with the position the row landed on.
type MoveHook interface {
	BeforeMove(pos int) (int, error)
	AfterMove(pos int) error
}

// ExtensionOf returns the first registered extension of type E
func ExtensionOf[E any](a *Adapter) (E, bool) {
	for _, ext := range a.extensions {
		if e, ok := ext.(E); ok {
			return e, true
		}
	}
	var zero E
	return zero, false
}

// Observer receives the notification stream meant for the UI layer
type Observer interface {
	ItemRangeInserted(pos, count int)
	ItemRangeRemoved(pos, count int)
	ItemMoved(from, to int)
	ItemRangeChanged(pos, count int, payload any)
	DataSetChanged()
}

// TouchAction is the kind of a touch event
type TouchAction int

const (
	TouchDown TouchAction = iota
	TouchMove
	TouchUp
	TouchCancel
)

// TouchEvent is a touch at a row
type TouchEvent struct {
	Action TouchAction
	X, Y   int
}
