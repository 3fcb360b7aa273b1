// Package tui is the terminal interface: a tview application driven by
// state store events.
package tui

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"go.uber.org/zap"

	"github.com/mfigueira/echochat/internal/attach"
	"github.com/mfigueira/echochat/internal/auth"
	"github.com/mfigueira/echochat/internal/bus"
	"github.com/mfigueira/echochat/internal/responder"
	"github.com/mfigueira/echochat/internal/state"
	"github.com/mfigueira/echochat/internal/tui/keys"
	"github.com/mfigueira/echochat/internal/tui/model"
	"github.com/mfigueira/echochat/internal/tui/ui"
	"github.com/mfigueira/echochat/internal/tui/views"
)

// Page names.
const (
	pageLogin     = "login"
	pageDashboard = "dashboard"
	pageChat      = "chat"
	pageNewRoom   = "new-room"
	pageAttach    = "attach"
)

// App is the TUI shell. All state lives in the store; the shell renders
// snapshots and translates key presses into store, flow and responder
// calls. Redraws are driven by bus events.
type App struct {
	app    *tview.Application
	screen tcell.Screen
	pages  *tview.Pages
	theme  *ui.Theme

	store     *state.Store
	bus       *bus.Bus
	flow      *auth.Flow
	responder *responder.Responder
	flash     *ui.Flash
	logger    *zap.Logger
	profile   string
	countries []auth.CountryCode

	registry  *keys.Registry
	statusBar *views.StatusBar
	login     *views.Login
	dashboard *views.Dashboard
	chat      *views.Chat
	newRoom   *ui.Prompt
	attachP   *ui.Prompt

	window *model.Window

	ctx    context.Context
	cancel context.CancelFunc
}

// Options carries the dependencies of the shell.
type Options struct {
	Store     *state.Store
	Bus       *bus.Bus
	Flow      *auth.Flow
	Responder *responder.Responder
	Flash     *ui.Flash
	Logger    *zap.Logger
	Profile   string
	Countries []auth.CountryCode
}

// NewApp creates the TUI application.
func NewApp(opts Options) *App {
	ctx, cancel := context.WithCancel(context.Background())
	a := &App{
		app:       tview.NewApplication(),
		store:     opts.Store,
		bus:       opts.Bus,
		flow:      opts.Flow,
		responder: opts.Responder,
		flash:     opts.Flash,
		logger:    opts.Logger,
		profile:   opts.Profile,
		countries: opts.Countries,
		window:    model.NewWindow(0),
		ctx:       ctx,
		cancel:    cancel,
	}
	a.buildUI()
	return a
}

// buildUI constructs all widgets for the current theme and wires their
// callbacks. Called once at startup and again on theme toggle, since
// tview colors are fixed at construction.
func (a *App) buildUI() {
	snap := a.store.Snapshot()
	a.theme = ui.ForDarkMode(snap.UI.DarkMode)
	a.pages = tview.NewPages()
	a.registry = keys.NewRegistry()

	a.statusBar = views.NewStatusBar(a.theme, a.profile)
	a.login = views.NewLogin(a.theme, a.countries)
	a.dashboard = views.NewDashboard(a.theme)
	a.chat = views.NewChat(a.theme)
	a.newRoom = ui.NewPrompt(a.theme, "New chatroom", " title: ")
	a.attachP = ui.NewPrompt(a.theme, "Attach image", " path: ")

	a.setupBindings()
	a.setupCallbacks()

	a.pages.AddPage(pageLogin, a.login, true, false)
	a.pages.AddPage(pageDashboard, a.dashboard, true, false)
	a.pages.AddPage(pageChat, a.chat, true, false)
	a.pages.AddPage(pageNewRoom, a.newRoom, true, false)
	a.pages.AddPage(pageAttach, a.attachP, true, false)

	root := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.pages, 0, 1, true).
		AddItem(a.statusBar, 1, 0, false)
	a.app.SetRoot(root, true)
	a.app.SetInputCapture(a.captureKey)

	if a.flow.Step() == auth.SignedIn {
		a.showDashboard()
		if snap.Current != nil {
			a.pages.SwitchToPage(pageChat)
			a.statusBar.SetHints(a.registry.Hints(pageChat))
			a.app.SetFocus(a.chat.Composer())
		}
	} else {
		a.login.ShowStep(a.flow.Step())
		a.pages.SwitchToPage(pageLogin)
		a.statusBar.SetHints(a.registry.Hints(pageLogin))
	}
	a.refresh()
}

func (a *App) setupBindings() {
	a.registry.Global(&keys.Binding{
		Key: tcell.KeyCtrlC, Label: "C-c", Description: "quit",
		Hidden:  true,
		Handler: func() { a.Stop() },
	})
	a.registry.Global(&keys.Binding{
		Key: tcell.KeyCtrlT, Label: "C-t", Description: "theme",
		Handler: func() { a.toggleTheme() },
	})

	a.registry.View(pageDashboard, &keys.Binding{
		Key: tcell.KeyRune, Rune: 'n', Label: "n", Description: "new chat",
		Handler: func() { a.openNewRoomPrompt() },
	})
	a.registry.View(pageDashboard, &keys.Binding{
		Key: tcell.KeyRune, Rune: 'd', Label: "d", Description: "delete",
		Handler: func() { a.dashboard.DeleteSelected() },
	})
	a.registry.View(pageDashboard, &keys.Binding{
		Key: tcell.KeyRune, Rune: '/', Label: "/", Description: "search",
		Handler: func() { a.app.SetFocus(a.dashboard.Search()) },
	})
	a.registry.View(pageDashboard, &keys.Binding{
		Key: tcell.KeyRune, Rune: 'L', Label: "L", Description: "logout",
		Handler: func() { a.logout() },
	})
	a.registry.View(pageDashboard, &keys.Binding{
		Key: tcell.KeyRune, Rune: 'q', Label: "q", Description: "quit",
		Handler: func() { a.Stop() },
	})

	a.registry.View(pageChat, &keys.Binding{
		Key: tcell.KeyRune, Rune: 'i', Label: "i", Description: "compose",
		Handler: func() { a.app.SetFocus(a.chat.Composer()) },
	})
	a.registry.View(pageChat, &keys.Binding{
		Key: tcell.KeyRune, Rune: 'a', Label: "a", Description: "attach",
		Handler: func() { a.openAttachPrompt() },
	})
	a.registry.View(pageChat, &keys.Binding{
		Key: tcell.KeyRune, Rune: 'y', Label: "y", Description: "copy",
		Handler: func() { a.copyLastMessage() },
	})
}

func (a *App) setupCallbacks() {
	a.login.SetOnRequestCode(func(countryCode, number string) {
		a.login.ClearError()
		a.flash.Info("Sending code...")
		go func() {
			if err := a.flow.RequestCode(a.ctx, countryCode, number); err != nil {
				a.queueLoginError(err)
				return
			}
			a.flash.Success("OTP sent!")
		}()
	})
	a.login.SetOnVerify(func(code string) {
		a.login.ClearError()
		a.flash.Info("Verifying...")
		go func() {
			if _, err := a.flow.VerifyCode(a.ctx, code); err != nil {
				a.queueLoginError(err)
				return
			}
			a.flash.Success("Login successful!")
		}()
	})
	a.login.SetOnBack(func() {
		_ = a.flow.Back()
	})

	a.dashboard.SetOnSelect(func(roomID int64) { a.openRoom(roomID) })
	a.dashboard.SetOnDelete(func(roomID int64) {
		a.store.DeleteRoom(roomID)
		a.flash.Info("Chatroom deleted")
	})
	a.dashboard.SetOnSearch(func(term string) {
		a.store.SetSearchTerm(term)
	})
	a.dashboard.SetOnSearchDone(func() {
		a.app.SetFocus(a.dashboard.Table())
	})

	a.chat.SetOnSend(func(text string) {
		snap := a.store.Snapshot()
		if snap.Current == nil {
			return
		}
		if _, err := a.responder.Send(a.ctx, snap.Current.ID, text); err != nil {
			a.flash.Error(err.Error())
		}
	})
	a.chat.SetOnLoadMore(func() bool {
		snap := a.store.Snapshot()
		if snap.Current == nil {
			return false
		}
		total := len(snap.Messages[snap.Current.ID])
		if !a.window.LoadMore(total) {
			return false
		}
		a.renderChat(snap)
		return true
	})

	a.newRoom.SetOnSubmit(func(text string) {
		if _, err := a.store.CreateRoom(text); err != nil {
			a.flash.Error("Title cannot be empty")
			return
		}
		a.flash.Success("Chatroom created!")
	})
	a.newRoom.SetOnCancel(func() {
		a.store.SetShowCreateModal(false)
	})

	a.attachP.SetOnSubmit(func(path string) {
		a.closeAttachPrompt()
		snap := a.store.Snapshot()
		if snap.Current == nil {
			return
		}
		roomID := snap.Current.ID
		go func() {
			uri, err := attach.DataURI(path)
			if err != nil {
				a.flash.Error(err.Error())
				return
			}
			a.store.AppendMessage(roomID, attach.Message(a.store.AllocID(), uri, a.store.Now()))
			a.flash.Success("Image uploaded!")
		}()
	})
	a.attachP.SetOnCancel(func() { a.closeAttachPrompt() })
}

// captureKey is the global input filter: Escape walks back through the
// page stack, everything else goes through the binding registry unless
// an input widget has focus.
func (a *App) captureKey(ev *tcell.EventKey) *tcell.EventKey {
	page, _ := a.pages.GetFrontPage()

	if ev.Key() == tcell.KeyEscape {
		switch page {
		case pageChat:
			a.store.SelectRoom(nil)
			a.showDashboard()
			return nil
		case pageNewRoom:
			a.store.SetShowCreateModal(false)
			return nil
		case pageAttach:
			a.closeAttachPrompt()
			return nil
		}
	}

	// Tab moves between the composer and the message pane.
	if page == pageChat && ev.Key() == tcell.KeyTab {
		if a.app.GetFocus() == tview.Primitive(a.chat.Composer()) {
			a.app.SetFocus(a.chat.Messages())
		} else {
			a.app.SetFocus(a.chat.Composer())
		}
		return nil
	}

	// Control-key bindings fire even while a text widget has focus;
	// plain runes belong to the widget.
	if ev.Key() != tcell.KeyRune && ev.Key() != tcell.KeyEnter && a.registry.Dispatch(page, ev) {
		return nil
	}
	switch a.app.GetFocus().(type) {
	case *tview.InputField, *tview.DropDown, *tview.Button:
		return ev
	}

	if a.registry.Dispatch(page, ev) {
		return nil
	}
	return ev
}

// Run starts the event loops and blocks until the application stops.
func (a *App) Run() error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	a.screen = screen
	a.app.SetScreen(screen)

	go a.watchBus()
	go a.watchFlash()
	go a.tickClock()

	return a.app.Run()
}

// Stop shuts the TUI down.
func (a *App) Stop() {
	a.cancel()
	a.app.Stop()
}

// watchBus redraws on every state change. Events are coalesced by the
// tview queue; the handler re-renders from a fresh snapshot each time.
func (a *App) watchBus() {
	events, unsubscribe := a.bus.Subscribe("", 256)
	defer unsubscribe()
	for {
		select {
		case <-a.ctx.Done():
			return
		case evt, ok := <-events:
			if !ok {
				return
			}
			kind := evt.Kind
			a.app.QueueUpdateDraw(func() { a.handleEvent(kind) })
		}
	}
}

func (a *App) handleEvent(kind string) {
	switch kind {
	case bus.KindAuthStepChanged:
		step := a.flow.Step()
		if step == auth.SignedIn {
			a.showDashboard()
		} else {
			a.login.ShowStep(step)
			a.pages.SwitchToPage(pageLogin)
			a.statusBar.SetHints(a.registry.Hints(pageLogin))
			a.focusLogin(step)
		}
	case bus.KindSessionCleared:
		a.login.ShowStep(auth.SignedOut)
		a.pages.SwitchToPage(pageLogin)
		a.statusBar.SetHints(a.registry.Hints(pageLogin))
		a.focusLogin(auth.SignedOut)
	case bus.KindModalChanged:
		snap := a.store.Snapshot()
		if snap.UI.ShowCreateModal {
			a.newRoom.Clear()
			a.pages.ShowPage(pageNewRoom)
			a.app.SetFocus(a.newRoom.Input())
		} else {
			a.pages.HidePage(pageNewRoom)
			a.app.SetFocus(a.dashboard.Table())
		}
	case bus.KindThemeChanged:
		// Handled by toggleTheme, which rebuilds the widgets.
	}
	a.refresh()
}

// refresh re-renders the visible page from the current snapshot.
func (a *App) refresh() {
	snap := a.store.Snapshot()
	page, _ := a.pages.GetFrontPage()

	phone := ""
	if snap.Session.User != nil {
		phone = snap.Session.User.Phone
	}
	a.statusBar.SetPhone(phone)
	a.statusBar.SetFlash(a.flash.Current())

	switch page {
	case pageDashboard, pageNewRoom:
		a.dashboard.Update(state.FilterRooms(snap.Rooms, snap.UI.SearchTerm))
	case pageChat:
		a.renderChat(snap)
	}
}

func (a *App) renderChat(snap state.State) {
	if snap.Current == nil {
		return
	}
	msgs := snap.Messages[snap.Current.ID]
	a.chat.SetRoomTitle(snap.Current.Title)
	a.chat.Update(a.window.Slice(msgs), snap.Typing[snap.Current.ID], a.window.HasMore(len(msgs)))
}

func (a *App) showDashboard() {
	a.pages.SwitchToPage(pageDashboard)
	a.statusBar.SetHints(a.registry.Hints(pageDashboard))
	a.app.SetFocus(a.dashboard.Table())
	a.refresh()
}

func (a *App) openRoom(roomID int64) {
	snap := a.store.Snapshot()
	for i := range snap.Rooms {
		if snap.Rooms[i].ID == roomID {
			room := snap.Rooms[i]
			a.store.SelectRoom(&room)
			a.window.Reset()
			a.pages.SwitchToPage(pageChat)
			a.statusBar.SetHints(a.registry.Hints(pageChat))
			a.app.SetFocus(a.chat.Composer())
			a.refresh()
			return
		}
	}
}

func (a *App) openNewRoomPrompt() {
	a.store.SetShowCreateModal(true)
}

func (a *App) openAttachPrompt() {
	a.attachP.Clear()
	a.pages.ShowPage(pageAttach)
	a.app.SetFocus(a.attachP.Input())
}

func (a *App) closeAttachPrompt() {
	a.pages.HidePage(pageAttach)
	a.app.SetFocus(a.chat.Composer())
}

func (a *App) copyLastMessage() {
	text, ok := a.chat.LastMessageText()
	if !ok {
		return
	}
	if a.screen != nil {
		a.screen.SetClipboard([]byte(text))
	}
	a.flash.Success("Copied to clipboard!")
}

func (a *App) logout() {
	if err := a.flow.SignOut(); err != nil {
		a.logger.Warn("logout failed", zap.Error(err))
		return
	}
	a.flash.Info("Signed out")
}

// toggleTheme flips dark mode and rebuilds the UI with the new palette.
func (a *App) toggleTheme() {
	snap := a.store.Snapshot()
	a.store.SetDarkMode(!snap.UI.DarkMode)
	a.buildUI()
}

func (a *App) queueLoginError(err error) {
	if a.ctx.Err() != nil {
		return
	}
	a.app.QueueUpdateDraw(func() {
		a.login.ShowError(err.Error())
	})
}

func (a *App) focusLogin(step auth.Step) {
	if step == auth.CodeSent {
		a.app.SetFocus(a.login.CodeForm())
	} else {
		a.app.SetFocus(a.login.PhoneForm())
	}
}

// watchFlash re-renders the status bar whenever the toast slot changes,
// including the expiry that clears it.
func (a *App) watchFlash() {
	for {
		select {
		case <-a.ctx.Done():
			return
		case <-a.flash.Watch():
			a.app.QueueUpdateDraw(func() {
				a.statusBar.SetFlash(a.flash.Current())
			})
		}
	}
}

// tickClock keeps the status bar clock fresh.
func (a *App) tickClock() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-a.ctx.Done():
			return
		case <-ticker.C:
			a.app.QueueUpdateDraw(func() {
				a.statusBar.SetFlash(a.flash.Current())
			})
		}
	}
}
