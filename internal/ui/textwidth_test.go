package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRuneWidth(t *testing.T) {
	tests := []struct {
		r    rune
		want int
	}{
		{'A', 1},
		{'😀', 2},
		{'中', 2},
		{'\u0301', 0},
		{'\t', 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RuneWidth(tt.r), "%q", tt.r)
	}
}

func TestTruncateToWidth(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth int
		want     string
	}{
		{"fits", "Hello", 10, "Hello"},
		{"ascii", "Hello", 3, "Hel"},
		{"keeps wide rune whole", "Hi😀", 3, "Hi"},
		{"cjk", "中国", 2, "中"},
		{"zero width", "Hello", 0, ""},
		{"negative width", "Hello", -1, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateToWidth(tt.input, tt.maxWidth)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, StringWidth(got), max(tt.maxWidth, 0))
		})
	}
}

func TestTruncateToWidthWithEllipsis(t *testing.T) {
	assert.Equal(t, "Hello", TruncateToWidthWithEllipsis("Hello", 10))
	assert.Equal(t, "He...", TruncateToWidthWithEllipsis("HelloWorld", 5))
	assert.Equal(t, "😀H...", TruncateToWidthWithEllipsis("😀HelloWorld", 6))
	assert.Equal(t, "He", TruncateToWidthWithEllipsis("HelloWorld", 2))
}

func TestPadStringToWidth(t *testing.T) {
	assert.Equal(t, "Hi   ", PadStringToWidth("Hi", 5))
	assert.Equal(t, "😀   ", PadStringToWidth("😀", 5))
	assert.Equal(t, "Hello", PadStringToWidth("Hello", 3))
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "one", FirstLine("one"))
	assert.Equal(t, "one ...", FirstLine("one\ntwo"))
	assert.Equal(t, "one", FirstLine("one\n"))
}
