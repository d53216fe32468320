package ui

import (
	"github.com/gdamore/tcell/v2"
)

// PromptResult tells the caller what a key did to the prompt
type PromptResult int

const (
	PromptEditing PromptResult = iota // text or cursor changed
	PromptCommit                      // Enter
	PromptCancel                      // Escape
)

// Prompt is a single line input with a label, used for the filter query
type Prompt struct {
	label     string
	text      []rune
	cursorPos int
	active    bool
}

// NewPrompt creates an inactive prompt
func NewPrompt(label string) *Prompt {
	return &Prompt{label: label}
}

// Start activates the prompt with initial text
func (p *Prompt) Start(text string) {
	p.active = true
	p.text = []rune(text)
	p.cursorPos = len(p.text)
}

// Stop deactivates the prompt
func (p *Prompt) Stop() {
	p.active = false
}

// IsActive returns whether the prompt takes input
func (p *Prompt) IsActive() bool {
	return p.active
}

// Text returns the current input
func (p *Prompt) Text() string {
	return string(p.text)
}

// HandleKey edits the input. The prompt stops itself on Enter and Escape.
func (p *Prompt) HandleKey(ev *tcell.EventKey) PromptResult {
	switch ev.Key() {
	case tcell.KeyEscape:
		p.Stop()
		return PromptCancel
	case tcell.KeyEnter:
		p.Stop()
		return PromptCommit
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if p.cursorPos > 0 {
			p.text = append(p.text[:p.cursorPos-1], p.text[p.cursorPos:]...)
			p.cursorPos--
		}
	case tcell.KeyDelete:
		if p.cursorPos < len(p.text) {
			p.text = append(p.text[:p.cursorPos], p.text[p.cursorPos+1:]...)
		}
	case tcell.KeyLeft:
		if p.cursorPos > 0 {
			p.cursorPos--
		}
	case tcell.KeyRight:
		if p.cursorPos < len(p.text) {
			p.cursorPos++
		}
	case tcell.KeyHome, tcell.KeyCtrlA:
		p.cursorPos = 0
	case tcell.KeyEnd, tcell.KeyCtrlE:
		p.cursorPos = len(p.text)
	case tcell.KeyCtrlU:
		p.text = p.text[:0]
		p.cursorPos = 0
	case tcell.KeyRune:
		p.text = append(p.text[:p.cursorPos], append([]rune{ev.Rune()}, p.text[p.cursorPos:]...)...)
		p.cursorPos++
	}
	return PromptEditing
}

// Render draws the label and input on line y with the cursor as a
// reversed cell
func (p *Prompt) Render(screen *Screen, y int) {
	x := screen.DrawString(0, y, p.label, screen.FilterLabelStyle())
	textStyle := screen.FilterTextStyle()
	for i, r := range p.text {
		style := textStyle
		if i == p.cursorPos {
			style = style.Reverse(true)
		}
		screen.SetCell(x, y, r, style)
		x += max(RuneWidth(r), 1)
	}
	if p.cursorPos == len(p.text) {
		screen.SetCell(x, y, ' ', textStyle.Reverse(true))
		x++
	}
	screen.FillLine(x, y, tcell.StyleDefault)
}
