package adapter

import (
	"github.com/davecgh/go-spew/spew"
)

type layoutEntry struct {
	Order  int
	Offset int
	Count  int
	Kind   string
}

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Dump describes the sub-adapter layout for debug logs
func (a *Adapter) Dump() string {
	var layout []layoutEntry
	for _, sub := range a.index.Adapters() {
		offset, _ := a.index.OffsetOf(sub)
		layout = append(layout, layoutEntry{
			Order:  sub.Order(),
			Offset: offset,
			Count:  sub.Count(),
			Kind:   kindOf(sub),
		})
	}
	return dumpConfig.Sdump(layout)
}

func kindOf(sub SubAdapter) string {
	switch sub.(type) {
	case *ItemAdapter:
		return "items"
	case *SortedAdapter:
		return "sorted"
	case *ReadOnlyAdapter:
		return "read-only"
	default:
		return "custom"
	}
}
