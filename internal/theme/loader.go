package theme

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gdamore/tcell/v2"
	"github.com/pelletier/go-toml/v2"
)

// ThemeConfig represents the raw TOML theme configuration. Base names the
// built-in theme that supplies every color left out.
type ThemeConfig struct {
	Name   string            `toml:"name"`
	Base   string            `toml:"base"`
	Colors map[string]string `toml:"colors"`
}

// getThemePaths returns the search paths for theme files
func getThemePaths() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return []string{
		filepath.Join(home, ".config", "tui-listadapter", "themes"),
		filepath.Join(home, ".local", "share", "tui-listadapter", "themes"),
	}
}

// findThemeFile searches for a theme file in standard locations
func findThemeFile(themeName string) (string, error) {
	filename := themeName + ".toml"

	for _, dir := range getThemePaths() {
		path := filepath.Join(dir, filename)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("theme file not found: %s", filename)
}

// LoadThemeFromFile loads a theme from a TOML file
func LoadThemeFromFile(filePath string) (*Theme, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read theme file: %w", err)
	}

	var config ThemeConfig
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse theme file: %w", err)
	}

	return configToTheme(config)
}

// LoadTheme loads a theme by name, searching standard theme directories
func LoadTheme(themeName string) (*Theme, error) {
	filePath, err := findThemeFile(themeName)
	if err != nil {
		return nil, err
	}

	return LoadThemeFromFile(filePath)
}

// configToTheme overrides the colors of the base theme with the configured ones
func configToTheme(config ThemeConfig) (*Theme, error) {
	base := config.Base
	if base == "" {
		base = "tokyo-night"
	}
	t, ok := Builtin(base)
	if !ok {
		return nil, fmt.Errorf("unknown base theme: %s", base)
	}

	slots := map[string]*tcell.Color{
		"list_text":       &t.Colors.ListText,
		"list_selected":   &t.Colors.ListSelected,
		"list_disabled":   &t.Colors.ListDisabled,
		"list_cursor":     &t.Colors.ListCursor,
		"expanded_arrow":  &t.Colors.ExpandedArrow,
		"collapsed_arrow": &t.Colors.CollapsedArrow,
		"leaf_marker":     &t.Colors.LeafMarker,
		"header_text":     &t.Colors.HeaderText,
		"footer_text":     &t.Colors.FooterText,
		"filter_label":    &t.Colors.FilterLabel,
		"filter_text":     &t.Colors.FilterText,
		"status_message":  &t.Colors.StatusMessage,
		"status_count":    &t.Colors.StatusCount,
	}
	for key, value := range config.Colors {
		slot, ok := slots[key]
		if !ok {
			return nil, fmt.Errorf("unknown theme color: %s", key)
		}
		*slot = ParseColorString(value)
	}

	if config.Name != "" {
		t.Name = config.Name
	}
	return t, nil
}

// LoadThemeOrDefault loads a theme by name, or returns Tokyo Night if not found
func LoadThemeOrDefault(themeName string) *Theme {
	if t, ok := Builtin(themeName); ok {
		return t
	}

	t, err := LoadTheme(themeName)
	if err != nil {
		return TokyoNight()
	}

	return t
}
