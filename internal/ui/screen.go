package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/pstuifzand/tui-listadapter/internal/theme"
)

// Screen manages the tcell screen and rendering
type Screen struct {
	tcellScreen tcell.Screen
	width       int
	height      int
	Theme       *theme.Theme
}

// NewScreen creates a terminal screen with the given theme
func NewScreen(t *theme.Theme) (*Screen, error) {
	tcellScreen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create screen: %w", err)
	}
	return NewScreenFrom(tcellScreen, t)
}

// NewScreenFrom initializes an existing tcell screen, such as a
// simulation screen in tests
func NewScreenFrom(tcellScreen tcell.Screen, t *theme.Theme) (*Screen, error) {
	if err := tcellScreen.Init(); err != nil {
		return nil, fmt.Errorf("failed to init screen: %w", err)
	}
	if t == nil {
		t = theme.Default()
	}

	width, height := tcellScreen.Size()
	return &Screen{
		tcellScreen: tcellScreen,
		width:       width,
		height:      height,
		Theme:       t,
	}, nil
}

// Close closes the screen
func (s *Screen) Close() error {
	s.tcellScreen.Fini()
	return nil
}

// Clear clears the entire screen
func (s *Screen) Clear() {
	s.tcellScreen.Clear()
}

// SetCell sets a cell at the given position
func (s *Screen) SetCell(x, y int, r rune, style tcell.Style) {
	if x >= 0 && x < s.width && y >= 0 && y < s.height {
		s.tcellScreen.SetContent(x, y, r, nil, style)
	}
}

// DrawString draws text at the given position and returns the number of
// columns it used. Wide runes take two columns.
func (s *Screen) DrawString(x, y int, text string, style tcell.Style) int {
	col := 0
	for _, r := range text {
		w := RuneWidth(r)
		if w == 0 {
			continue
		}
		s.SetCell(x+col, y, r, style)
		col += w
	}
	return col
}

// DrawStringLimited draws a string, truncating it with an ellipsis if it
// exceeds maxWidth columns
func (s *Screen) DrawStringLimited(x, y int, text string, maxWidth int, style tcell.Style) int {
	if maxWidth <= 0 {
		return 0
	}
	return s.DrawString(x, y, TruncateToWidthWithEllipsis(text, maxWidth), style)
}

// FillLine paints the row from column x to the right edge
func (s *Screen) FillLine(x, y int, style tcell.Style) {
	for ; x < s.width; x++ {
		s.SetCell(x, y, ' ', style)
	}
}

// PollEvent polls for the next event (key press, mouse, etc.)
func (s *Screen) PollEvent() tcell.Event {
	return s.tcellScreen.PollEvent()
}

// Show shows the screen
func (s *Screen) Show() {
	s.tcellScreen.Show()
}

// Sync refreshes the size after a resize event
func (s *Screen) Sync() {
	s.tcellScreen.Sync()
	s.Size()
}

// Size returns the width and height of the screen
func (s *Screen) Size() (int, int) {
	s.width, s.height = s.tcellScreen.Size()
	return s.width, s.height
}

// EnableMouse enables mouse support on the screen
func (s *Screen) EnableMouse() {
	s.tcellScreen.EnableMouse()
}

// Theme-aware style methods

// RowStyle returns the style for a plain row
func (s *Screen) RowStyle() tcell.Style {
	return theme.Style(s.Theme.Colors.ListText)
}

// SelectedStyle returns the style for a selected row
func (s *Screen) SelectedStyle() tcell.Style {
	return theme.Style(s.Theme.Colors.ListSelected).Bold(true)
}

// DisabledStyle returns the style for a disabled row
func (s *Screen) DisabledStyle() tcell.Style {
	return theme.Style(s.Theme.Colors.ListDisabled).Dim(true)
}

// CursorStyle puts style on the cursor row background
func (s *Screen) CursorStyle(style tcell.Style) tcell.Style {
	return style.Background(s.Theme.Colors.ListCursor)
}

// MarkerStyle returns the style for the expansion marker of a row
func (s *Screen) MarkerStyle(expandable, expanded bool) tcell.Style {
	switch {
	case !expandable:
		return theme.Style(s.Theme.Colors.LeafMarker)
	case expanded:
		return theme.Style(s.Theme.Colors.ExpandedArrow)
	}
	return theme.Style(s.Theme.Colors.CollapsedArrow)
}

// HeaderStyle returns the style for header rows
func (s *Screen) HeaderStyle() tcell.Style {
	return theme.Style(s.Theme.Colors.HeaderText).Bold(true)
}

// FooterStyle returns the style for footer rows
func (s *Screen) FooterStyle() tcell.Style {
	return theme.Style(s.Theme.Colors.FooterText).Italic(true)
}

// FilterLabelStyle returns the style for the filter prompt label
func (s *Screen) FilterLabelStyle() tcell.Style {
	return theme.Style(s.Theme.Colors.FilterLabel).Bold(true)
}

// FilterTextStyle returns the style for the filter query
func (s *Screen) FilterTextStyle() tcell.Style {
	return theme.Style(s.Theme.Colors.FilterText)
}

// StatusMessageStyle returns the style for status messages
func (s *Screen) StatusMessageStyle() tcell.Style {
	return theme.Style(s.Theme.Colors.StatusMessage)
}

// StatusCountStyle returns the style for the counters on the status line
func (s *Screen) StatusCountStyle() tcell.Style {
	return theme.Style(s.Theme.Colors.StatusCount)
}
