package theme

import (
	"github.com/gdamore/tcell/v2"
)

// Colors holds all the color definitions for the theme
type Colors struct {
	// List rows
	ListText       tcell.Color
	ListSelected   tcell.Color
	ListDisabled   tcell.Color
	ListCursor     tcell.Color // background of the row under the cursor
	ExpandedArrow  tcell.Color
	CollapsedArrow tcell.Color
	LeafMarker     tcell.Color

	// Header and footer sections
	HeaderText tcell.Color
	FooterText tcell.Color

	// Filter prompt
	FilterLabel tcell.Color
	FilterText  tcell.Color

	// Status line
	StatusMessage tcell.Color
	StatusCount   tcell.Color
}

// Theme represents a complete color theme
type Theme struct {
	Name   string
	Colors Colors
}

// Style returns a style with fg on the terminal background
func Style(fg tcell.Color) tcell.Style {
	return tcell.StyleDefault.Foreground(fg)
}

// Default returns a default theme using terminal defaults
func Default() *Theme {
	return &Theme{
		Name: "default",
		Colors: Colors{
			ListText:       tcell.ColorDefault,
			ListSelected:   tcell.ColorYellow,
			ListDisabled:   tcell.ColorGray,
			ListCursor:     tcell.ColorDarkBlue,
			ExpandedArrow:  tcell.ColorDefault,
			CollapsedArrow: tcell.ColorDefault,
			LeafMarker:     tcell.ColorDefault,
			HeaderText:     tcell.ColorDefault,
			FooterText:     tcell.ColorGray,
			FilterLabel:    tcell.ColorDefault,
			FilterText:     tcell.ColorDefault,
			StatusMessage:  tcell.ColorDefault,
			StatusCount:    tcell.ColorDefault,
		},
	}
}

// TokyoNight returns the Tokyo Night theme
func TokyoNight() *Theme {
	return &Theme{
		Name: "tokyo-night",
		Colors: Colors{
			ListText:       HexToColor("#c0caf5"), // Light gray-blue
			ListSelected:   HexToColor("#7aa2f7"), // Blue
			ListDisabled:   HexToColor("#565f89"), // Comment gray
			ListCursor:     Blend("#1a1b26", "#7aa2f7", 0.2),
			ExpandedArrow:  HexToColor("#7dcfff"), // Cyan
			CollapsedArrow: HexToColor("#7dcfff"),
			LeafMarker:     HexToColor("#565f89"),
			HeaderText:     HexToColor("#bb9af7"), // Magenta
			FooterText:     HexToColor("#565f89"),
			FilterLabel:    HexToColor("#bb9af7"),
			FilterText:     HexToColor("#c0caf5"),
			StatusMessage:  HexToColor("#9ece6a"), // Green
			StatusCount:    HexToColor("#e0af68"), // Yellow
		},
	}
}

// Gruvbox returns the Gruvbox dark theme
func Gruvbox() *Theme {
	return &Theme{
		Name: "gruvbox",
		Colors: Colors{
			ListText:       HexToColor("#ebdbb2"),
			ListSelected:   HexToColor("#fabd2f"),
			ListDisabled:   HexToColor("#928374"),
			ListCursor:     Blend("#282828", "#fabd2f", 0.15),
			ExpandedArrow:  HexToColor("#8ec07c"),
			CollapsedArrow: HexToColor("#8ec07c"),
			LeafMarker:     HexToColor("#928374"),
			HeaderText:     HexToColor("#d3869b"),
			FooterText:     HexToColor("#928374"),
			FilterLabel:    HexToColor("#d3869b"),
			FilterText:     HexToColor("#ebdbb2"),
			StatusMessage:  HexToColor("#b8bb26"),
			StatusCount:    HexToColor("#fe8019"),
		},
	}
}

// Builtin returns the built-in theme with the given name
func Builtin(name string) (*Theme, bool) {
	switch name {
	case "default":
		return Default(), true
	case "tokyo-night":
		return TokyoNight(), true
	case "gruvbox":
		return Gruvbox(), true
	}
	return nil, false
}
