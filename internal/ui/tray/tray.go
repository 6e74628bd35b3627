package tray

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/systray"

	"pomopet/internal/app"
	"pomopet/internal/core/session"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnToggle      func()
	OnReset       func()
	OnShowPet     func()
	OnPreferences func()
	OnQuit        func()
}

// Manager handles system tray state.
type Manager struct {
	app        desktop.App
	menu       *fyne.Menu
	statusItem *fyne.MenuItem
	petItem    *fyne.MenuItem
	toggleItem *fyne.MenuItem
	resetItem  *fyne.MenuItem
	callbacks  Callbacks
	running    bool
	setTooltip func(string)
}

// New creates a tray manager with the provided callbacks.
func New(desktopApp desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       desktopApp,
		callbacks: callbacks,
	}
	if desktopApp != nil {
		manager.setTooltip = systray.SetTooltip
	}

	manager.statusItem = fyne.NewMenuItem("Status: starting...", nil)
	manager.statusItem.Disabled = true
	manager.petItem = fyne.NewMenuItem("Pet: ...", nil)
	manager.petItem.Disabled = true

	manager.toggleItem = fyne.NewMenuItem("Start", func() {
		invoke(manager.callbacks.OnToggle)
	})
	manager.resetItem = fyne.NewMenuItem("Reset timer", func() {
		invoke(manager.callbacks.OnReset)
	})
	showPet := fyne.NewMenuItem("Show pet", func() {
		invoke(manager.callbacks.OnShowPet)
	})
	preferences := fyne.NewMenuItem("Settings", func() {
		invoke(manager.callbacks.OnPreferences)
	})
	quit := fyne.NewMenuItem("Quit", func() {
		invoke(manager.callbacks.OnQuit)
	})
	quit.IsQuit = true

	manager.menu = fyne.NewMenu("PomoPet",
		manager.statusItem,
		manager.petItem,
		fyne.NewMenuItemSeparator(),
		manager.toggleItem,
		manager.resetItem,
		fyne.NewMenuItemSeparator(),
		showPet,
		preferences,
		quit,
	)
	manager.refreshMenu()

	return manager
}

// Update refreshes menu labels from a snapshot. Must run on the UI thread.
func (manager *Manager) Update(snapshot app.Snapshot) {
	manager.running = snapshot.Timer.Status == session.StatusRunning
	manager.statusItem.Label = StatusLine(snapshot.Timer)
	manager.petItem.Label = PetLine(snapshot)
	if manager.running {
		manager.toggleItem.Label = "Pause"
	} else {
		manager.toggleItem.Label = "Start"
	}
	if manager.setTooltip != nil {
		manager.setTooltip(manager.statusItem.Label)
	}
	manager.refreshMenu()
}

// Running reports whether the last snapshot had the timer running.
func (manager *Manager) Running() bool {
	return manager.running
}

// StatusLine renders the timer state for the tray, e.g. "Work 24:59 (running)".
func StatusLine(state session.State) string {
	return fmt.Sprintf("%s %s (%s)", ModeLabel(state.Mode), session.FormatClock(state.TimeLeft), state.Status)
}

// PetLine renders the pet summary, e.g. "🐣 Level 4 · mood 72".
func PetLine(snapshot app.Snapshot) string {
	line := fmt.Sprintf("%s Level %d · mood %d", snapshot.Pet.Stage.Emoji(), snapshot.Pet.Level, snapshot.Pet.DisplayMood())
	if snapshot.LevelUp {
		line += " · level up!"
	}
	return line
}

// ModeLabel returns a human label for a timer mode.
func ModeLabel(mode session.Mode) string {
	switch mode {
	case session.ModeShortBreak:
		return "Short break"
	case session.ModeLongBreak:
		return "Long break"
	default:
		return "Work"
	}
}

func (manager *Manager) refreshMenu() {
	if manager.app != nil {
		manager.app.SetSystemTrayMenu(manager.menu)
	}
}

func invoke(callback func()) {
	if callback != nil {
		callback()
	}
}
