// Package adapter stitches independently mutable sub-adapters into one
// contiguous list and fans structural changes out to extensions and observers.
package adapter

import (
	"errors"
	"io"
	"log"

	"github.com/pstuifzand/tui-listadapter/internal/ids"
	"github.com/pstuifzand/tui-listadapter/internal/model"
)

// DispatchPolicy decides what happens after an interaction hook reports
// that it consumed an event
type DispatchPolicy int

const (
	// DispatchAll offers every event to every hook, consumed or not
	DispatchAll DispatchPolicy = iota
	// StopOnConsume stops at the first hook that consumes the event
	StopOnConsume
)

func (p DispatchPolicy) String() string {
	switch p {
	case StopOnConsume:
		return "stop-on-consume"
	default:
		return "all"
	}
}

// ParseDispatchPolicy parses the String form of a policy
func ParseDispatchPolicy(s string) (DispatchPolicy, bool) {
	switch s {
	case "all", "":
		return DispatchAll, true
	case "stop-on-consume":
		return StopOnConsume, true
	}
	return DispatchAll, false
}

// Listener is an interaction listener; it reports whether it consumed the event
type Listener func(pos int, item model.Item) bool

// TouchListener is the touch variant of Listener
type TouchListener func(pos int, item model.Item, ev TouchEvent) bool

// Adapter is the composite adapter. It owns the position index, the type
// registry and the extensions; none of these may be shared with another
// Adapter.
type Adapter struct {
	index      *PositionIndex
	types      *TypeRegistry
	ids        *ids.Distributor
	extensions []Extension
	observers  []Observer

	stableIDs bool
	policy    DispatchPolicy
	logger    *log.Logger

	preClick  Listener
	click     Listener
	longClick Listener
	touch     TouchListener
}

// Option configures an Adapter
type Option func(*Adapter)

// WithIDDistributor sets the identifier source for items without identifier
func WithIDDistributor(d *ids.Distributor) Option {
	return func(a *Adapter) { a.ids = d }
}

// WithStableIDs enables or disables stable identifiers
func WithStableIDs(enabled bool) Option {
	return func(a *Adapter) { a.stableIDs = enabled }
}

// WithDispatchPolicy sets the interaction dispatch policy
func WithDispatchPolicy(p DispatchPolicy) Option {
	return func(a *Adapter) { a.policy = p }
}

// WithLogger sets the debug logger
func WithLogger(l *log.Logger) Option {
	return func(a *Adapter) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithPreClickListener sets a listener that sees clicks before the extensions
func WithPreClickListener(l Listener) Option {
	return func(a *Adapter) { a.preClick = l }
}

// WithClickListener sets the adapter level click listener
func WithClickListener(l Listener) Option {
	return func(a *Adapter) { a.click = l }
}

// WithLongClickListener sets the adapter level long click listener
func WithLongClickListener(l Listener) Option {
	return func(a *Adapter) { a.longClick = l }
}

// WithTouchListener sets the adapter level touch listener
func WithTouchListener(l TouchListener) Option {
	return func(a *Adapter) { a.touch = l }
}

// New creates an empty composite adapter
func New(opts ...Option) *Adapter {
	a := &Adapter{
		index:     NewPositionIndex(),
		types:     NewTypeRegistry(),
		stableIDs: true,
		policy:    DispatchAll,
		logger:    log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.ids == nil {
		a.ids = ids.New()
	}
	return a
}

// AddAdapter registers sub with the given order key and announces its items
// as inserted
func (a *Adapter) AddAdapter(order int, sub SubAdapter) error {
	if err := a.index.Add(order, sub); err != nil {
		return err
	}
	sub.Bind(a, order)
	items := sub.Items()
	a.Prepare(items)
	offset, _ := a.index.OffsetOf(sub)
	a.logger.Printf("adapter added: order=%d offset=%d count=%d", order, offset, len(items))
	a.NotifyInserted(offset, len(items))
	return nil
}

// RemoveAdapter unregisters sub and announces its items as removed
func (a *Adapter) RemoveAdapter(sub SubAdapter) error {
	offset, err := a.index.OffsetOf(sub)
	if err != nil {
		return err
	}
	count := sub.Count()
	a.index.Remove(sub)
	sub.Bind(nil, 0)
	a.logger.Printf("adapter removed: offset=%d count=%d", offset, count)
	a.NotifyRemoved(offset, count)
	return nil
}

// Adapters returns the sub-adapters in position order
func (a *Adapter) Adapters() []SubAdapter {
	return a.index.Adapters()
}

// OffsetOf returns the global position of the first item of sub
func (a *Adapter) OffsetOf(sub SubAdapter) (int, error) {
	return a.index.OffsetOf(sub)
}

// Locate returns the sub-adapter that owns pos and the relative position
func (a *Adapter) Locate(pos int) (SubAdapter, int, error) {
	return a.index.Locate(pos)
}

// Count returns the total number of rows
func (a *Adapter) Count() int {
	return a.index.Total()
}

// Item returns the item at the global position
func (a *Adapter) Item(pos int) (model.Item, error) {
	sub, rel, err := a.index.Locate(pos)
	if err != nil {
		return nil, err
	}
	return sub.ItemAt(rel)
}

// Items returns every row in global order
func (a *Adapter) Items() []model.Item {
	var items []model.Item
	for _, sub := range a.index.Adapters() {
		items = append(items, sub.Items()...)
	}
	return items
}

// ViewType returns the type of the item at the global position
func (a *Adapter) ViewType(pos int) (int32, error) {
	item, err := a.Item(pos)
	if err != nil {
		return 0, err
	}
	return item.Type(), nil
}

// StableID returns the identifier of the item at the global position, or
// NoIdentifier when stable identifiers are disabled
func (a *Adapter) StableID(pos int) (int64, error) {
	item, err := a.Item(pos)
	if err != nil {
		return model.NoIdentifier, err
	}
	if !a.stableIDs {
		return model.NoIdentifier, nil
	}
	return item.Identifier(), nil
}

// HasStableIDs reports whether stable identifiers are enabled
func (a *Adapter) HasStableIDs() bool {
	return a.stableIDs
}

// PositionOf returns the global position of the item with the given
// identifier, or -1
func (a *Adapter) PositionOf(id int64) int {
	pos := 0
	for _, sub := range a.index.Adapters() {
		for _, item := range sub.Items() {
			if item.Identifier() == id {
				return pos
			}
			pos++
		}
	}
	return -1
}

// ItemByIdentifier returns the item with the given identifier and its
// global position
func (a *Adapter) ItemByIdentifier(id int64) (model.Item, int, bool) {
	pos := a.PositionOf(id)
	if pos < 0 {
		return nil, -1, false
	}
	item, err := a.Item(pos)
	if err != nil {
		return nil, -1, false
	}
	return item, pos, true
}

// Prototype returns the prototype item for a view type. Types that were
// never registered are looked up among the bound items before failing.
func (a *Adapter) Prototype(typ int32) (model.Item, error) {
	prototype, err := a.types.Resolve(typ)
	if err == nil {
		return prototype, nil
	}
	for _, item := range a.Items() {
		if item.Type() == typ {
			a.types.Register(typ, item)
			return item, nil
		}
	}
	a.logger.Printf("no prototype for type %d", typ)
	return nil, err
}

// Types returns the type registry
func (a *Adapter) Types() *TypeRegistry {
	return a.types
}

// Prepare assigns identifiers to items that lack one
func (a *Adapter) Prepare(items []model.Item) {
	a.ids.AssignAll(items)
}

// IDs returns the identifier distributor
func (a *Adapter) IDs() *ids.Distributor {
	return a.ids
}

// Logger returns the debug logger
func (a *Adapter) Logger() *log.Logger {
	return a.logger
}

// AddExtension registers ext after the already registered extensions
func (a *Adapter) AddExtension(ext Extension) {
	a.extensions = append(a.extensions, ext)
	ext.Attach(a)
}

// Extensions returns the registered extensions in registration order
func (a *Adapter) Extensions() []Extension {
	exts := make([]Extension, len(a.extensions))
	copy(exts, a.extensions)
	return exts
}

// BeforeMove runs the move hooks of the extensions for the row at pos and
// returns the number of rows they removed below it
func (a *Adapter) BeforeMove(pos int) (int, error) {
	removed := 0
	for _, ext := range a.extensions {
		if h, ok := ext.(MoveHook); ok {
			n, err := h.BeforeMove(pos)
			if err != nil {
				return removed, err
			}
			removed += n
		}
	}
	return removed, nil
}

// AfterMove tells the move hooks where the row landed
func (a *Adapter) AfterMove(pos int) error {
	for _, ext := range a.extensions {
		if h, ok := ext.(MoveHook); ok {
			if err := h.AfterMove(pos); err != nil {
				return err
			}
		}
	}
	return nil
}

// RegisterObserver adds an observer for the notification stream
func (a *Adapter) RegisterObserver(o Observer) {
	a.observers = append(a.observers, o)
}

// UnregisterObserver removes a previously registered observer
func (a *Adapter) UnregisterObserver(o Observer) {
	for i, existing := range a.observers {
		if existing == o {
			a.observers = append(a.observers[:i], a.observers[i+1:]...)
			return
		}
	}
}

// NotifyInserted announces count rows inserted at pos
func (a *Adapter) NotifyInserted(pos, count int) {
	if count <= 0 {
		return
	}
	a.index.Invalidate()
	inserted := make([]model.Item, 0, count)
	for i := pos; i < pos+count; i++ {
		item, err := a.Item(i)
		if err != nil {
			break
		}
		inserted = append(inserted, item)
	}
	// sub-adapters that fill their rows themselves reach the distributor here
	a.Prepare(inserted)
	for _, item := range inserted {
		a.types.Register(item.Type(), item)
	}
	for _, ext := range a.extensions {
		ext.ItemsInserted(pos, count)
	}
	for _, o := range a.observers {
		o.ItemRangeInserted(pos, count)
	}
}

// NotifyRemoved announces count rows removed at pos
func (a *Adapter) NotifyRemoved(pos, count int) {
	if count <= 0 {
		return
	}
	a.index.Invalidate()
	for _, ext := range a.extensions {
		ext.ItemsRemoved(pos, count)
	}
	for _, o := range a.observers {
		o.ItemRangeRemoved(pos, count)
	}
}

// NotifyMoved announces that the row at from now lives at to
func (a *Adapter) NotifyMoved(from, to int) {
	if from == to {
		return
	}
	a.index.Invalidate()
	for _, ext := range a.extensions {
		ext.ItemMoved(from, to)
	}
	for _, o := range a.observers {
		o.ItemMoved(from, to)
	}
}

// NotifyChanged announces that count rows at pos changed content
func (a *Adapter) NotifyChanged(pos, count int, payload any) {
	if count <= 0 {
		return
	}
	a.index.Invalidate()
	for i := pos; i < pos+count; i++ {
		item, err := a.Item(i)
		if err != nil {
			break
		}
		a.types.Register(item.Type(), item)
	}
	for _, ext := range a.extensions {
		ext.ItemsChanged(pos, count, payload)
	}
	for _, o := range a.observers {
		o.ItemRangeChanged(pos, count, payload)
	}
}

// NotifyDataSetChanged announces that anything may have changed. Rows
// without identifier get one first.
func (a *Adapter) NotifyDataSetChanged() {
	a.index.Invalidate()
	items := a.Items()
	a.Prepare(items)
	for _, item := range items {
		a.types.Register(item.Type(), item)
	}
	for _, ext := range a.extensions {
		ext.DataSetChanged()
	}
	for _, o := range a.observers {
		o.DataSetChanged()
	}
}

// Click dispatches a click at pos: the pre-click listener, the extensions in
// registration order, the item's own handler and the adapter listener.
// Disabled items receive nothing.
func (a *Adapter) Click(pos int) (bool, error) {
	item, err := a.Item(pos)
	if err != nil {
		return false, err
	}
	if !item.Enabled() {
		return false, nil
	}
	steps := make([]func() bool, 0, len(a.extensions)+3)
	if a.preClick != nil {
		steps = append(steps, func() bool { return a.preClick(pos, item) })
	}
	for _, ext := range a.extensions {
		steps = append(steps, func() bool { return ext.OnClick(pos, item) })
	}
	if h, ok := item.(model.ClickHandler); ok {
		steps = append(steps, func() bool { return h.HandleClick(pos) })
	}
	if a.click != nil {
		steps = append(steps, func() bool { return a.click(pos, item) })
	}
	return a.dispatch(steps), nil
}

// LongClick dispatches a long click at pos
func (a *Adapter) LongClick(pos int) (bool, error) {
	item, err := a.Item(pos)
	if err != nil {
		return false, err
	}
	if !item.Enabled() {
		return false, nil
	}
	steps := make([]func() bool, 0, len(a.extensions)+1)
	for _, ext := range a.extensions {
		steps = append(steps, func() bool { return ext.OnLongClick(pos, item) })
	}
	if a.longClick != nil {
		steps = append(steps, func() bool { return a.longClick(pos, item) })
	}
	return a.dispatch(steps), nil
}

// Touch dispatches a touch event at pos
func (a *Adapter) Touch(pos int, ev TouchEvent) (bool, error) {
	item, err := a.Item(pos)
	if err != nil {
		return false, err
	}
	if !item.Enabled() {
		return false, nil
	}
	steps := make([]func() bool, 0, len(a.extensions)+1)
	for _, ext := range a.extensions {
		steps = append(steps, func() bool { return ext.OnTouch(pos, item, ev) })
	}
	if a.touch != nil {
		steps = append(steps, func() bool { return a.touch(pos, item, ev) })
	}
	return a.dispatch(steps), nil
}

func (a *Adapter) dispatch(steps []func() bool) bool {
	consumed := false
	for _, step := range steps {
		if step() {
			consumed = true
			if a.policy == StopOnConsume {
				break
			}
		}
	}
	return consumed
}

// SetDispatchPolicy changes the interaction dispatch policy
func (a *Adapter) SetDispatchPolicy(p DispatchPolicy) {
	a.policy = p
}

// IsOutOfRange reports whether err is an ErrOutOfRange
func IsOutOfRange(err error) bool {
	return errors.Is(err, ErrOutOfRange)
}
