package views

import (
	"fmt"

	"github.com/rivo/tview"

	"github.com/mfigueira/echochat/internal/auth"
	"github.com/mfigueira/echochat/internal/tui/ui"
)

// Login is the two-step sign-in form: phone entry with a country prefix
// dropdown, then code entry. The app swaps the visible step based on the
// flow's current state.
type Login struct {
	*tview.Flex
	theme     *ui.Theme
	countries []auth.CountryCode

	phoneForm *tview.Form
	codeForm  *tview.Form
	title     *tview.TextView
	errText   *tview.TextView
	body      *tview.Flex

	onRequest func(countryCode, number string)
	onVerify  func(code string)
	onBack    func()
}

// NewLogin creates the login view.
func NewLogin(theme *ui.Theme, countries []auth.CountryCode) *Login {
	if len(countries) == 0 {
		countries = auth.DefaultCountryCodes
	}
	l := &Login{theme: theme, countries: countries}

	l.errText = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	l.errText.SetBackgroundColor(theme.BgColor)

	l.phoneForm = l.newForm(" Sign in ")
	options := make([]string, len(countries))
	for i, c := range countries {
		options[i] = fmt.Sprintf("%s (%s)", c.Name, c.Code)
	}
	l.phoneForm.
		AddDropDown("Country", options, 0, nil).
		AddInputField("Phone number", "", 20, tview.InputFieldInteger, nil).
		AddButton("Send code", func() {
			if l.onRequest == nil {
				return
			}
			idx, _ := l.phoneForm.GetFormItemByLabel("Country").(*tview.DropDown).GetCurrentOption()
			number := l.phoneForm.GetFormItemByLabel("Phone number").(*tview.InputField).GetText()
			l.onRequest(l.countries[idx].Code, number)
		})

	l.codeForm = l.newForm(" Enter code ")
	l.codeForm.
		AddInputField("Verification code", "", 8, tview.InputFieldInteger, nil).
		AddButton("Verify", func() {
			if l.onVerify == nil {
				return
			}
			code := l.codeForm.GetFormItemByLabel("Verification code").(*tview.InputField).GetText()
			l.onVerify(code)
		}).
		AddButton("Back", func() {
			if l.onBack != nil {
				l.onBack()
			}
		})

	l.title = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	l.title.SetBackgroundColor(theme.BgColor)
	_, _ = fmt.Fprintf(l.title, "[::b]echochat[-:-:-]\n[::d]sign in with your phone[-:-:-]")

	l.body = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(nil, 0, 1, false).
		AddItem(l.title, 3, 0, false).
		AddItem(l.phoneForm, 9, 0, true).
		AddItem(l.errText, 1, 0, false).
		AddItem(nil, 0, 1, false)

	l.Flex = tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(l.body, 48, 0, true).
		AddItem(nil, 0, 1, false)

	return l
}

func (l *Login) newForm(title string) *tview.Form {
	form := tview.NewForm()
	form.SetBorder(true)
	form.SetTitle(title)
	form.SetTitleColor(l.theme.TitleColor)
	form.SetBorderColor(l.theme.InputBorderColor)
	form.SetBackgroundColor(l.theme.BgColor)
	form.SetFieldBackgroundColor(l.theme.BorderColor)
	form.SetFieldTextColor(l.theme.FgColor)
	form.SetLabelColor(l.theme.AccentColor)
	form.SetButtonBackgroundColor(l.theme.AccentColor)
	form.SetButtonTextColor(l.theme.BgColor)
	return form
}

// SetOnRequestCode sets the callback for the phone form submit.
func (l *Login) SetOnRequestCode(fn func(countryCode, number string)) {
	l.onRequest = fn
}

// SetOnVerify sets the callback for the code form submit.
func (l *Login) SetOnVerify(fn func(code string)) {
	l.onVerify = fn
}

// SetOnBack sets the callback for returning to the phone form.
func (l *Login) SetOnBack(fn func()) {
	l.onBack = fn
}

// ShowStep swaps the visible form to match the flow step and clears any
// stale inline error.
func (l *Login) ShowStep(step auth.Step) {
	l.ClearError()
	form := l.phoneForm
	if step == auth.CodeSent {
		form = l.codeForm
		form.GetFormItemByLabel("Verification code").(*tview.InputField).SetText("")
	}
	l.body.Clear()
	l.body.
		AddItem(nil, 0, 1, false).
		AddItem(l.title, 3, 0, false).
		AddItem(form, 9, 0, true).
		AddItem(l.errText, 1, 0, false).
		AddItem(nil, 0, 1, false)
}

// ShowError renders an inline validation error under the active form.
func (l *Login) ShowError(msg string) {
	l.errText.Clear()
	_, _ = fmt.Fprintf(l.errText, "[red]%s[-]", tview.Escape(msg))
}

// ClearError removes the inline error line.
func (l *Login) ClearError() {
	l.errText.Clear()
}

// PhoneForm exposes the phone form for focus handling.
func (l *Login) PhoneForm() *tview.Form { return l.phoneForm }

// CodeForm exposes the code form for focus handling.
func (l *Login) CodeForm() *tview.Form { return l.codeForm }
