package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/rivo/tview"

	"github.com/mfigueira/echochat/internal/tui/ui"
)

// StatusBar shows the profile, signed-in phone, key hints, clock and the
// current flash message on a single line.
type StatusBar struct {
	*tview.TextView
	theme   *ui.Theme
	profile string
	phone   string
	hints   []string
	flash   *ui.FlashMessage
}

// NewStatusBar creates the status bar.
func NewStatusBar(theme *ui.Theme, profile string) *StatusBar {
	tv := tview.NewTextView().SetDynamicColors(true)
	tv.SetBackgroundColor(theme.BorderColor)
	tv.SetTextColor(theme.FgColor)

	sb := &StatusBar{TextView: tv, theme: theme, profile: profile}
	sb.render()
	return sb
}

// SetPhone updates the signed-in phone display. Empty hides it.
func (sb *StatusBar) SetPhone(phone string) {
	sb.phone = phone
	sb.render()
}

// SetHints replaces the key hints shown for the active view.
func (sb *StatusBar) SetHints(hints []string) {
	sb.hints = hints
	sb.render()
}

// SetFlash updates the transient message slot. Nil clears it.
func (sb *StatusBar) SetFlash(msg *ui.FlashMessage) {
	sb.flash = msg
	sb.render()
}

func (sb *StatusBar) render() {
	sb.Clear()

	line := fmt.Sprintf(" [::b]%s[-:-:-]", sb.profile)
	if sb.phone != "" {
		line += " | " + tview.Escape(sb.phone)
	}
	if len(sb.hints) > 0 {
		line += " | [::d]" + strings.Join(sb.hints, "  ") + "[-:-:-]"
	}
	line += " | " + time.Now().Format("15:04")
	if sb.flash != nil {
		color := "yellow"
		switch sb.flash.Level {
		case ui.FlashSuccess:
			color = "green"
		case ui.FlashErr:
			color = "red"
		}
		line += fmt.Sprintf(" | [%s]%s[-]", color, tview.Escape(sb.flash.Text))
	}

	_, _ = fmt.Fprint(sb, line)
}
