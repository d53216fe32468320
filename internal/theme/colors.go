package theme

import (
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// HexToColor converts a hex color string (#RRGGBB or #RGB) to tcell.Color
func HexToColor(hexColor string) tcell.Color {
	if !strings.HasPrefix(hexColor, "#") {
		hexColor = "#" + hexColor
	}
	c, err := colorful.Hex(hexColor)
	if err != nil {
		return tcell.ColorDefault
	}
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// ParseColorString handles #RRGGBB, #RGB, rgb(r,g,b) and tcell color names
func ParseColorString(colorStr string) tcell.Color {
	colorStr = strings.TrimSpace(colorStr)

	if strings.HasPrefix(colorStr, "#") {
		return HexToColor(colorStr)
	}

	if inner, ok := strings.CutPrefix(colorStr, "rgb("); ok && strings.HasSuffix(inner, ")") {
		parts := strings.Split(strings.TrimSuffix(inner, ")"), ",")
		if len(parts) != 3 {
			return tcell.ColorDefault
		}
		var rgb [3]int32
		for i, p := range parts {
			v, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil || v < 0 || v > 255 {
				return tcell.ColorDefault
			}
			rgb[i] = int32(v)
		}
		return tcell.NewRGBColor(rgb[0], rgb[1], rgb[2])
	}

	if c, ok := tcell.ColorNames[strings.ToLower(colorStr)]; ok {
		return c
	}
	return tcell.ColorDefault
}

// Blend mixes two hex colors in Lab space; t=0 gives a, t=1 gives b
func Blend(a, b string, t float64) tcell.Color {
	ca, err := colorful.Hex(a)
	if err != nil {
		return HexToColor(b)
	}
	cb, err := colorful.Hex(b)
	if err != nil {
		return HexToColor(a)
	}
	r, g, bl := ca.BlendLab(cb, t).Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(bl))
}
