package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// Prompt is a centered modal input, used for naming a new chatroom.
type Prompt struct {
	*tview.Flex
	input    *tview.InputField
	onSubmit func(text string)
	onCancel func()
}

// NewPrompt creates a modal prompt with the given title and label.
func NewPrompt(theme *Theme, title, label string) *Prompt {
	input := tview.NewInputField()
	input.SetLabel(label)
	input.SetBorder(true)
	input.SetTitle(" " + title + " ")
	input.SetTitleColor(theme.TitleColor)
	input.SetBorderColor(theme.InputBorderColor)
	input.SetBackgroundColor(theme.BgColor)
	input.SetFieldBackgroundColor(theme.BgColor)
	input.SetFieldTextColor(theme.FgColor)
	input.SetLabelColor(theme.AccentColor)

	p := &Prompt{input: input}

	input.SetDoneFunc(func(key tcell.Key) {
		switch key {
		case tcell.KeyEnter:
			text := p.input.GetText()
			p.input.SetText("")
			if p.onSubmit != nil {
				p.onSubmit(text)
			}
		case tcell.KeyEscape:
			p.input.SetText("")
			if p.onCancel != nil {
				p.onCancel()
			}
		}
	})

	// Center the input in a 60x3 box.
	inner := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(nil, 0, 1, false).
		AddItem(input, 3, 0, true).
		AddItem(nil, 0, 1, false)
	p.Flex = tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(inner, 60, 0, true).
		AddItem(nil, 0, 1, false)

	return p
}

// SetOnSubmit sets the callback fired on Enter.
func (p *Prompt) SetOnSubmit(fn func(text string)) {
	p.onSubmit = fn
}

// SetOnCancel sets the callback fired on Escape.
func (p *Prompt) SetOnCancel(fn func()) {
	p.onCancel = fn
}

// Clear empties the input field.
func (p *Prompt) Clear() {
	p.input.SetText("")
}

// Input exposes the underlying field for focus handling.
func (p *Prompt) Input() *tview.InputField {
	return p.input
}
