package views

import (
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/mfigueira/echochat/internal/state"
	"github.com/mfigueira/echochat/internal/tui/ui"
)

// Dashboard is the chatroom list: a filterable table of rooms with a
// search bar above it.
type Dashboard struct {
	*tview.Flex
	theme  *ui.Theme
	search *tview.InputField
	table  *tview.Table
	rooms  []state.Chatroom

	onSelect     func(roomID int64)
	onDelete     func(roomID int64)
	onSearch     func(term string)
	onSearchDone func()
}

// NewDashboard creates the dashboard view.
func NewDashboard(theme *ui.Theme) *Dashboard {
	search := tview.NewInputField().
		SetLabel(" / ").
		SetFieldWidth(0)
	search.SetBorder(true)
	search.SetTitle(" Search ")
	search.SetTitleColor(theme.TitleColor)
	search.SetBorderColor(theme.BorderColor)
	search.SetBackgroundColor(theme.BgColor)
	search.SetFieldBackgroundColor(theme.BgColor)
	search.SetFieldTextColor(theme.FgColor)
	search.SetLabelColor(theme.AccentColor)

	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false)
	table.SetBorder(true)
	table.SetTitle(" Chatrooms ")
	table.SetTitleColor(theme.TitleColor)
	table.SetBorderColor(theme.BorderColor)
	table.SetBackgroundColor(theme.BgColor)
	table.SetSelectedStyle(tcell.StyleDefault.
		Foreground(theme.TableCursorFg).
		Background(theme.TableCursorBg))

	d := &Dashboard{
		Flex:   tview.NewFlex().SetDirection(tview.FlexRow),
		theme:  theme,
		search: search,
		table:  table,
	}
	d.AddItem(search, 3, 0, false)
	d.AddItem(table, 0, 1, true)

	search.SetChangedFunc(func(text string) {
		if d.onSearch != nil {
			d.onSearch(text)
		}
	})
	search.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEscape {
			search.SetText("")
			if d.onSearch != nil {
				d.onSearch("")
			}
		}
		if d.onSearchDone != nil {
			d.onSearchDone()
		}
	})

	table.SetSelectedFunc(func(row, col int) {
		if id, ok := d.roomAt(row); ok && d.onSelect != nil {
			d.onSelect(id)
		}
	})

	return d
}

// SetOnSelect sets the callback when a room is opened.
func (d *Dashboard) SetOnSelect(fn func(roomID int64)) {
	d.onSelect = fn
}

// SetOnDelete sets the callback when a room deletion is requested.
func (d *Dashboard) SetOnDelete(fn func(roomID int64)) {
	d.onDelete = fn
}

// SetOnSearch sets the callback fired as the search term changes.
func (d *Dashboard) SetOnSearch(fn func(term string)) {
	d.onSearch = fn
}

// SetOnSearchDone sets the callback fired when the search bar loses focus.
func (d *Dashboard) SetOnSearchDone(fn func()) {
	d.onSearchDone = fn
}

// Update refreshes the table with the (already filtered) room list.
func (d *Dashboard) Update(rooms []state.Chatroom) {
	d.rooms = rooms
	d.table.Clear()

	d.table.SetCell(0, 0, tview.NewTableCell(" Title").SetSelectable(false).SetTextColor(d.theme.MutedColor))
	d.table.SetCell(0, 1, tview.NewTableCell(" Last Message").SetSelectable(false).SetTextColor(d.theme.MutedColor))
	d.table.SetCell(0, 2, tview.NewTableCell(" Created").SetSelectable(false).SetTextColor(d.theme.MutedColor))

	for i, room := range rooms {
		row := i + 1
		last := ""
		if room.LastMessage != nil {
			last = *room.LastMessage
		}
		d.table.SetCell(row, 0, tview.NewTableCell(" "+tview.Escape(sanitizeForTerminal(room.Title))).SetMaxWidth(30).SetExpansion(1))
		d.table.SetCell(row, 1, tview.NewTableCell(" "+tview.Escape(sanitizeForTerminal(last))).SetMaxWidth(50).SetExpansion(2))
		d.table.SetCell(row, 2, tview.NewTableCell(" "+formatDate(room.CreatedAt)).SetMaxWidth(14))
	}

	if len(rooms) == 0 {
		d.table.SetCell(1, 0, tview.NewTableCell("  no chatrooms yet, press n to create one").
			SetSelectable(false).SetTextColor(d.theme.MutedColor))
	}
}

// Selected returns the id of the highlighted room, or false when the
// cursor is not on a room row.
func (d *Dashboard) Selected() (int64, bool) {
	row, _ := d.table.GetSelection()
	return d.roomAt(row)
}

// DeleteSelected invokes the delete callback for the highlighted room.
func (d *Dashboard) DeleteSelected() {
	if id, ok := d.Selected(); ok && d.onDelete != nil {
		d.onDelete(id)
	}
}

func (d *Dashboard) roomAt(row int) (int64, bool) {
	idx := row - 1 // header row
	if idx < 0 || idx >= len(d.rooms) {
		return 0, false
	}
	return d.rooms[idx].ID, true
}

// Search exposes the search input for focus handling.
func (d *Dashboard) Search() *tview.InputField { return d.search }

// Table exposes the room table for focus handling.
func (d *Dashboard) Table() *tview.Table { return d.table }

// formatTimestamp shows a clock for today's messages, date plus clock
// otherwise.
func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	now := time.Now()
	if t.Year() == now.Year() && t.YearDay() == now.YearDay() {
		return t.Format("15:04")
	}
	return t.Format("01/02 15:04")
}

// formatDate is the "Created on" column format.
func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 02, 2006")
}
