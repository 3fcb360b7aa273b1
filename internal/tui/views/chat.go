package views

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/mfigueira/echochat/internal/state"
	"github.com/mfigueira/echochat/internal/tui/ui"
)

// Chat shows the messages of a single room plus a composer. Only the
// revealed window of messages is rendered; pressing up at the top asks
// for an older page and the scroll position is kept on the message that
// was previously first.
type Chat struct {
	*tview.Flex
	theme    *ui.Theme
	messages *tview.TextView
	typing   *tview.TextView
	composer *tview.InputField

	roomTitle string
	lastMsgs  []state.Message
	lineCount int
	revealing bool

	onSend     func(text string)
	onLoadMore func() bool
}

// NewChat creates the chat view.
func NewChat(theme *ui.Theme) *Chat {
	messages := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWordWrap(true)
	messages.SetBorder(true)
	messages.SetBorderColor(theme.BorderColor)
	messages.SetBackgroundColor(theme.BgColor)
	messages.SetTextColor(theme.FgColor)
	messages.SetTitleColor(theme.TitleColor)

	typing := tview.NewTextView().SetDynamicColors(true)
	typing.SetBackgroundColor(theme.BgColor)

	composer := tview.NewInputField().
		SetLabel(" > ").
		SetFieldWidth(0)
	composer.SetBorder(true)
	composer.SetBorderColor(theme.BorderColor)
	composer.SetBackgroundColor(theme.BgColor)
	composer.SetFieldBackgroundColor(theme.BgColor)
	composer.SetFieldTextColor(theme.FgColor)
	composer.SetLabelColor(theme.AccentColor)
	composer.SetTitle(" Compose (i to focus) ")
	composer.SetTitleColor(theme.TitleColor)

	flex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(messages, 0, 1, true).
		AddItem(typing, 1, 0, false).
		AddItem(composer, 3, 0, false)

	c := &Chat{
		Flex:     flex,
		theme:    theme,
		messages: messages,
		typing:   typing,
		composer: composer,
	}

	composer.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter && c.onSend != nil {
			text := composer.GetText()
			if strings.TrimSpace(text) != "" {
				c.onSend(text)
				composer.SetText("")
			}
		}
	})

	// Pressing up while already at the top reveals an older page.
	messages.SetInputCapture(func(ev *tcell.EventKey) *tcell.EventKey {
		up := ev.Key() == tcell.KeyUp || (ev.Key() == tcell.KeyRune && ev.Rune() == 'k')
		if up {
			row, _ := messages.GetScrollOffset()
			if row == 0 && c.onLoadMore != nil {
				c.revealing = true
				if !c.onLoadMore() {
					c.revealing = false
				}
				return nil
			}
		}
		return ev
	})

	return c
}

// SetOnSend sets the callback when the composer submits.
func (c *Chat) SetOnSend(fn func(text string)) {
	c.onSend = fn
}

// SetOnLoadMore sets the callback asking for an older message page. It
// reports whether anything was revealed.
func (c *Chat) SetOnLoadMore(fn func() bool) {
	c.onLoadMore = fn
}

// SetRoomTitle updates the view title.
func (c *Chat) SetRoomTitle(title string) {
	c.roomTitle = title
	c.messages.SetTitle(fmt.Sprintf(" %s ", sanitizeForTerminal(title)))
}

// Update renders the revealed window. After a load-more the scroll offset
// is shifted by the number of newly prepended lines so the viewport stays
// on the message that was first before; otherwise the view follows the
// tail.
func (c *Chat) Update(msgs []state.Message, isTyping, hasMore bool) {
	c.lastMsgs = msgs
	c.messages.Clear()

	lines := 0
	if hasMore {
		_, _ = fmt.Fprint(c.messages, "[::d]  -- older messages above, press up to load --[-:-:-]\n\n")
		lines += 2
	}
	for _, m := range msgs {
		lines += c.renderMessage(m)
	}

	if c.revealing {
		c.revealing = false
		delta := lines - c.lineCount
		if delta < 0 {
			delta = 0
		}
		c.messages.ScrollTo(delta, 0)
	} else {
		c.messages.ScrollToEnd()
	}
	c.lineCount = lines

	c.typing.Clear()
	if isTyping {
		_, _ = fmt.Fprint(c.typing, " [yellow::d]AI is typing...[-:-:-]")
	}
}

// renderMessage writes one message and returns the number of lines used.
func (c *Chat) renderMessage(m state.Message) int {
	sender := "AI"
	align := ""
	if m.Sender == state.SenderUser {
		sender = "You"
		align = "[::b]"
	}
	ts := formatTimestamp(m.Timestamp)

	body := m.Content
	if m.Kind() == state.TypeImage {
		body = "[image attachment]"
	}
	body = tview.Escape(sanitizeForTerminal(body))

	_, _ = fmt.Fprintf(c.messages, "%s%s[-:-:-] [::d]%s[-:-:-]\n%s\n\n",
		align, sender, ts, body)
	return 3 + strings.Count(body, "\n")
}

// LastMessageText returns the newest message's text for copying, or
// false when the room is empty.
func (c *Chat) LastMessageText() (string, bool) {
	if len(c.lastMsgs) == 0 {
		return "", false
	}
	return c.lastMsgs[len(c.lastMsgs)-1].Content, true
}

// Messages exposes the message pane for focus handling.
func (c *Chat) Messages() *tview.TextView { return c.messages }

// Composer exposes the composer for focus handling.
func (c *Chat) Composer() *tview.InputField { return c.composer }
