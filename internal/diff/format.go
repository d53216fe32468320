package diff

import (
	"fmt"
	"strings"

	"github.com/pstuifzand/tui-listadapter/internal/model"
)

// LineType indicates the type of a rendered script line
type LineType int

const (
	LineHeader LineType = iota
	LineSection
	LineRemoved
	LineInserted
	LineMoved
	LineChanged
	LineDetail
	LineSummary
	LineBlank
)

// Line is one rendered line of a script
type Line struct {
	Type    LineType
	Content string
	Indent  int
	// Old and New hold the labels of a changed item
	Old, New string
}

// Format renders s against the lists it was computed from. Each operation
// is shown with the items it touches, followed by a summary.
func Format(s Script, old, new []model.Item) []Line {
	var lines []Line
	if s.Empty() {
		return []Line{{Type: LineSummary, Content: "no changes"}}
	}

	byNew := make(map[int]int, len(s.Matches))
	for _, m := range s.Matches {
		byNew[m.New] = m.Old
	}

	// current mirrors the list while the script is replayed, so every
	// operation can name the items it touches
	current := make([]model.Item, len(old))
	copy(current, old)

	lines = append(lines, Line{Type: LineSection, Content: "Operations:"})
	for _, op := range s.Ops {
		lines = append(lines, Line{Type: lineTypeOf(op.Kind), Content: op.String(), Indent: 1})
		switch op.Kind {
		case OpRemove:
			for _, item := range current[op.Pos : op.Pos+op.Count] {
				lines = append(lines, itemLine(LineDetail, "-", item))
			}
			current = append(current[:op.Pos], current[op.Pos+op.Count:]...)
		case OpInsert:
			inserted := new[op.Pos : op.Pos+op.Count]
			for _, item := range inserted {
				lines = append(lines, itemLine(LineDetail, "+", item))
			}
			current = append(current[:op.Pos], append(append([]model.Item(nil), inserted...), current[op.Pos:]...)...)
		case OpMove:
			item := current[op.Pos]
			lines = append(lines, itemLine(LineDetail, "~", item))
			current = append(current[:op.Pos], current[op.Pos+1:]...)
			current = append(current[:op.To], append([]model.Item{item}, current[op.To:]...)...)
		case OpChange:
			for j := op.Pos; j < op.Pos+op.Count; j++ {
				before := old[byNew[j]]
				after := new[j]
				lines = append(lines, Line{
					Type: LineChanged,
					Content: fmt.Sprintf("%d: %s → %s",
						after.Identifier(),
						truncateText(model.LabelOf(before), 40),
						truncateText(model.LabelOf(after), 40)),
					Indent: 2,
					Old:    model.LabelOf(before),
					New:    model.LabelOf(after),
				})
			}
		}
	}

	st := s.Stats()
	lines = append(lines, Line{Type: LineBlank})
	lines = append(lines, Line{Type: LineSummary, Content: "=== Summary ==="})
	lines = append(lines, Line{
		Type: LineSummary,
		Content: fmt.Sprintf("  %d inserted, %d removed, %d moved, %d changed",
			st.Inserted, st.Removed, st.Moved, st.Changed),
	})
	return lines
}

func lineTypeOf(k OpKind) LineType {
	switch k {
	case OpRemove:
		return LineRemoved
	case OpInsert:
		return LineInserted
	case OpMove:
		return LineMoved
	}
	return LineChanged
}

func itemLine(t LineType, mark string, item model.Item) Line {
	return Line{
		Type:    t,
		Content: fmt.Sprintf("%s %d: %s", mark, item.Identifier(), truncateText(model.LabelOf(item), 60)),
		Indent:  2,
	}
}

// truncateText limits text length for display
func truncateText(text string, maxLen int) string {
	// Handle multi-line text
	lines := strings.Split(text, "\n")
	text = lines[0]
	if len(lines) > 1 {
		text += " ..."
	}

	if len(text) > maxLen {
		return text[:maxLen] + "..."
	}
	return text
}
