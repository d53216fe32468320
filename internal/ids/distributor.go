// Package ids hands out identifiers to items that do not carry one
package ids

import (
	"sync/atomic"

	"github.com/pstuifzand/tui-listadapter/internal/model"
)

// DefaultOffset keeps generated identifiers clear of small identifiers that
// come from storage or from application code
const DefaultOffset int64 = 1 << 40

// Distributor is a monotonic identifier source. It is safe for concurrent use.
type Distributor struct {
	last atomic.Int64
}

// New creates a distributor starting at DefaultOffset
func New() *Distributor {
	return NewFrom(DefaultOffset)
}

// NewFrom creates a distributor whose first identifier is offset+1
func NewFrom(offset int64) *Distributor {
	d := &Distributor{}
	d.last.Store(offset)
	return d
}

// Next returns an identifier strictly greater than every identifier returned before
func (d *Distributor) Next() int64 {
	return d.last.Add(1)
}

// AssignIfMissing gives item an identifier when it has none. Sub-items of
// expandable items are handled too and their parent link is refreshed.
func (d *Distributor) AssignIfMissing(item model.Item) {
	if item.Identifier() == model.NoIdentifier {
		item.SetIdentifier(d.Next())
	}
	if e, ok := model.AsExpandable(item); ok {
		for _, sub := range e.SubItems() {
			d.AssignIfMissing(sub)
			if p, ok := sub.(model.HasParent); ok {
				p.SetParentID(item.Identifier())
			}
		}
	}
}

// AssignAll calls AssignIfMissing for every item
func (d *Distributor) AssignAll(items []model.Item) {
	for _, item := range items {
		d.AssignIfMissing(item)
	}
}
