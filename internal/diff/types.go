package diff

import (
	"fmt"

	"github.com/pstuifzand/tui-listadapter/internal/model"
)

// OpKind is the kind of an edit operation
type OpKind int

const (
	OpRemove OpKind = iota
	OpInsert
	OpMove
	OpChange
)

func (k OpKind) String() string {
	switch k {
	case OpRemove:
		return "remove"
	case OpInsert:
		return "insert"
	case OpMove:
		return "move"
	case OpChange:
		return "change"
	}
	return fmt.Sprintf("op(%d)", int(k))
}

// Op is one edit operation. Positions are valid against the list as it is
// after every earlier operation of the script was applied.
type Op struct {
	Kind    OpKind
	Pos     int
	Count   int
	To      int // destination of a move
	Payload any
}

func (op Op) String() string {
	switch op.Kind {
	case OpMove:
		return fmt.Sprintf("move %d -> %d", op.Pos, op.To)
	case OpChange:
		if op.Payload != nil {
			return fmt.Sprintf("change %d+%d (%v)", op.Pos, op.Count, op.Payload)
		}
	}
	return fmt.Sprintf("%s %d+%d", op.Kind, op.Pos, op.Count)
}

// Match pairs an old index with the new index of the same logical item
type Match struct {
	Old, New int
}

// Script is an ordered edit script: removals from high to low, then moves
// and insertions from low to high, then content changes at final positions
type Script struct {
	Ops     []Op
	Matches []Match
	OldLen  int
	NewLen  int
}

// Consumer receives the operations of a script, independent of any UI
// toolkit callback shape
type Consumer interface {
	Inserted(pos, count int)
	Removed(pos, count int)
	Moved(from, to int)
	Changed(pos, count int, payload any)
}

// Dispatch feeds every operation to c in script order
func (s Script) Dispatch(c Consumer) {
	for _, op := range s.Ops {
		switch op.Kind {
		case OpRemove:
			c.Removed(op.Pos, op.Count)
		case OpInsert:
			c.Inserted(op.Pos, op.Count)
		case OpMove:
			c.Moved(op.Pos, op.To)
		case OpChange:
			c.Changed(op.Pos, op.Count, op.Payload)
		}
	}
}

// Empty reports whether the script has no operations
func (s Script) Empty() bool {
	return len(s.Ops) == 0
}

// Stats counts rows per operation kind
type Stats struct {
	Inserted, Removed, Moved, Changed int
}

// Stats returns the number of rows touched per operation kind
func (s Script) Stats() Stats {
	var st Stats
	for _, op := range s.Ops {
		switch op.Kind {
		case OpRemove:
			st.Removed += op.Count
		case OpInsert:
			st.Inserted += op.Count
		case OpMove:
			st.Moved++
		case OpChange:
			st.Changed += op.Count
		}
	}
	return st
}

// Option configures Compute and Set
type Option func(*options)

type options struct {
	identity    func(a, b model.Item) bool
	content     func(a, b model.Item) bool
	payload     func(old, new model.Item) any
	detectMoves bool
}

func newOptions(opts []Option) options {
	o := options{
		identity:    model.SameIdentity,
		content:     model.SameContent,
		detectMoves: true,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithIdentity sets the predicate deciding whether two items are the same
// logical entity. Defaults to identifier equality.
func WithIdentity(eq func(a, b model.Item) bool) Option {
	return func(o *options) { o.identity = eq }
}

// WithContent sets the predicate deciding whether two items with the same
// identity look the same. Defaults to model.SameContent.
func WithContent(eq func(a, b model.Item) bool) Option {
	return func(o *options) { o.content = eq }
}

// WithPayload sets the function computing the payload of a change
func WithPayload(fn func(old, new model.Item) any) Option {
	return func(o *options) { o.payload = fn }
}

// WithDetectMoves enables pairing removed and inserted items of the same
// identity into moves
func WithDetectMoves(enabled bool) Option {
	return func(o *options) { o.detectMoves = enabled }
}
