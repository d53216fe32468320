package ui

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
)

// messageTimeout is how long a status message stays visible
const messageTimeout = 5 * time.Second

// StatusLine shows the last message and the list counters
type StatusLine struct {
	message string
	shownAt time.Time
	now     func() time.Time
}

// NewStatusLine creates an empty status line
func NewStatusLine() *StatusLine {
	return &StatusLine{now: time.Now}
}

// SetMessage shows a message until it times out
func (s *StatusLine) SetMessage(format string, args ...any) {
	s.message = fmt.Sprintf(format, args...)
	s.shownAt = s.now()
}

// Message returns the visible message, empty once it timed out
func (s *StatusLine) Message() string {
	if s.message != "" && s.now().Sub(s.shownAt) > messageTimeout {
		s.message = ""
	}
	return s.message
}

// Counts is the right hand side of the status line
type Counts struct {
	Rows     int
	Selected int
	Expanded int
	Filter   string
}

func (c Counts) String() string {
	text := fmt.Sprintf("%d rows  %d selected  %d expanded", c.Rows, c.Selected, c.Expanded)
	if c.Filter != "" {
		text += fmt.Sprintf("  filter: %s", c.Filter)
	}
	return text
}

// Render draws the status line on line y
func (s *StatusLine) Render(screen *Screen, y int, c Counts) {
	width, _ := screen.Size()
	counts := c.String()
	countsWidth := StringWidth(counts)

	x := screen.DrawStringLimited(0, y, s.Message(), width-countsWidth-2, screen.StatusMessageStyle())
	screen.FillLine(x, y, tcell.StyleDefault)
	screen.DrawString(max(width-countsWidth, x+1), y, counts, screen.StatusCountStyle())
}
