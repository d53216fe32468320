package theme

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColorString(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want tcell.Color
	}{
		{"#ff0000", tcell.NewRGBColor(255, 0, 0)},
		{"#0f0", tcell.NewRGBColor(0, 255, 0)},
		{"rgb(0, 0, 255)", tcell.NewRGBColor(0, 0, 255)},
		{"rgb(0, 0, 256)", tcell.ColorDefault},
		{"red", tcell.ColorRed},
		{"#12", tcell.ColorDefault},
		{"nonsense", tcell.ColorDefault},
	} {
		assert.Equal(t, tc.want, ParseColorString(tc.in), tc.in)
	}
}

func TestBlendEndpoints(t *testing.T) {
	assert.Equal(t, HexToColor("#000000"), Blend("#000000", "#ffffff", 0))
	assert.Equal(t, HexToColor("#ffffff"), Blend("#000000", "#ffffff", 1))
}

func TestLoadThemeFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mine.toml")
	data := `name = "mine"
base = "gruvbox"

[colors]
list_selected = "#ff0000"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	th, err := LoadThemeFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "mine", th.Name)
	assert.Equal(t, tcell.NewRGBColor(255, 0, 0), th.Colors.ListSelected)
	assert.Equal(t, Gruvbox().Colors.ListText, th.Colors.ListText)
}

func TestLoadThemeRejectsUnknownColor(t *testing.T) {
	_, err := configToTheme(ThemeConfig{Colors: map[string]string{"tree_arrow": "#fff"}})
	assert.ErrorContains(t, err, "unknown theme color")

	_, err = configToTheme(ThemeConfig{Base: "solarized"})
	assert.ErrorContains(t, err, "unknown base theme")
}

func TestLoadThemeOrDefault(t *testing.T) {
	assert.Equal(t, "gruvbox", LoadThemeOrDefault("gruvbox").Name)
	assert.Equal(t, "tokyo-night", LoadThemeOrDefault("does-not-exist").Name)
}
