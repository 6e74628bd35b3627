package preferences

import (
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"pomopet/internal/core/model"
)

// Window handles the settings form.
type Window struct {
	window        fyne.Window
	settings      model.Settings
	onSave        func(model.Settings)
	onReset       func()
	workEntry     *widget.Entry
	breakEntry    *widget.Entry
	longEntry     *widget.Entry
	sessionsEntry *widget.Entry
	soundCheck    *widget.Check
	notifyCheck   *widget.Check
}

// New creates a settings window. onReset is called after the user confirms
// wiping pet and statistics.
func New(app fyne.App, settings model.Settings, onSave func(model.Settings), onReset func()) *Window {
	window := app.NewWindow("PomoPet Settings")

	prefs := &Window{
		window:        window,
		onSave:        onSave,
		onReset:       onReset,
		workEntry:     widget.NewEntry(),
		breakEntry:    widget.NewEntry(),
		longEntry:     widget.NewEntry(),
		sessionsEntry: widget.NewEntry(),
		soundCheck:    widget.NewCheck("Play a sound when a phase ends", nil),
		notifyCheck:   widget.NewCheck("Show a notification when work is done", nil),
	}
	prefs.UpdateSettings(settings)

	form := container.NewVBox(
		widget.NewLabelWithStyle("Timer", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Work"), prefs.workEntry, widget.NewLabel("min")),
		container.NewHBox(widget.NewLabel("Short break"), prefs.breakEntry, widget.NewLabel("min")),
		container.NewHBox(widget.NewLabel("Long break"), prefs.longEntry, widget.NewLabel("min")),
		container.NewHBox(widget.NewLabel("Long break after"), prefs.sessionsEntry, widget.NewLabel("sessions")),
		widget.NewLabelWithStyle("Alerts", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.soundCheck,
		prefs.notifyCheck,
	)

	saveButton := widget.NewButton("Save", prefs.handleSave)
	cancelButton := widget.NewButton("Cancel", func() {
		window.Hide()
	})
	resetButton := widget.NewButton("Reset pet and stats", prefs.confirmReset)
	buttons := container.NewHBox(saveButton, resetButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(420, 360))
	window.SetCloseIntercept(window.Hide)

	return prefs
}

// Show displays the settings window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings model.Settings) {
	prefs.settings = settings
	prefs.workEntry.SetText(strconv.Itoa(settings.WorkDuration))
	prefs.breakEntry.SetText(strconv.Itoa(settings.BreakDuration))
	prefs.longEntry.SetText(strconv.Itoa(settings.LongBreakDuration))
	prefs.sessionsEntry.SetText(strconv.Itoa(settings.SessionsUntilLongBreak))
	prefs.soundCheck.SetChecked(settings.SoundEnabled)
	prefs.notifyCheck.SetChecked(settings.NotificationEnabled)
}

func (prefs *Window) handleSave() {
	settings := prefs.collect()
	prefs.settings = settings
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}

// collect reads the form; fields that do not hold a positive integer keep
// their previous value.
func (prefs *Window) collect() model.Settings {
	settings := prefs.settings
	if minutes, ok := parsePositiveInt(prefs.workEntry.Text); ok {
		settings.WorkDuration = minutes
	}
	if minutes, ok := parsePositiveInt(prefs.breakEntry.Text); ok {
		settings.BreakDuration = minutes
	}
	if minutes, ok := parsePositiveInt(prefs.longEntry.Text); ok {
		settings.LongBreakDuration = minutes
	}
	if count, ok := parsePositiveInt(prefs.sessionsEntry.Text); ok {
		settings.SessionsUntilLongBreak = count
	}
	settings.SoundEnabled = prefs.soundCheck.Checked
	settings.NotificationEnabled = prefs.notifyCheck.Checked
	return settings.Normalize()
}

func (prefs *Window) confirmReset() {
	dialog.ShowConfirm("Reset progress", "Start over with a new egg and empty statistics?", func(confirmed bool) {
		if confirmed && prefs.onReset != nil {
			prefs.onReset()
		}
	}, prefs.window)
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}
