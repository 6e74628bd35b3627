package petview

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"pomopet/internal/app"
	"pomopet/internal/core/pet"
	"pomopet/internal/core/session"
)

var (
	bannerColor = color.NRGBA{R: 232, G: 190, B: 66, A: 255}
	clockColor  = color.NRGBA{R: 230, G: 76, B: 60, A: 255}
)

// Controls are the timer actions offered by the window.
type Controls struct {
	OnToggle func()
	OnReset  func()
}

// Window shows the pet, its progression and the running totals.
type Window struct {
	window       fyne.Window
	petLabel     *canvas.Text
	levelLabel   *widget.Label
	banner       *canvas.Text
	experience   *widget.ProgressBar
	xpLabel      *widget.Label
	mood         *widget.ProgressBar
	moodHearts   *widget.Label
	modeLabel    *widget.Label
	clock        *canvas.Text
	sessionLabel *widget.Label
	statsLabel   *widget.Label
	toggleButton *widget.Button
}

// New creates the pet window.
func New(fyneApp fyne.App, controls Controls) *Window {
	window := fyneApp.NewWindow("PomoPet")
	if fyneApp.Icon() != nil {
		window.SetIcon(fyneApp.Icon())
	}

	petLabel := canvas.NewText(pet.StageEgg.Emoji(), color.White)
	petLabel.Alignment = fyne.TextAlignCenter
	petLabel.TextSize = 64

	banner := canvas.NewText("Level up!", bannerColor)
	banner.Alignment = fyne.TextAlignCenter
	banner.TextStyle = fyne.TextStyle{Bold: true}
	banner.TextSize = 21
	banner.Hide()

	clock := canvas.NewText("--:--", clockColor)
	clock.Alignment = fyne.TextAlignCenter
	clock.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	clock.TextSize = 36

	mood := widget.NewProgressBar()
	mood.Max = pet.MaxMood

	view := &Window{
		window:       window,
		petLabel:     petLabel,
		levelLabel:   widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		banner:       banner,
		experience:   widget.NewProgressBar(),
		xpLabel:      widget.NewLabel(""),
		mood:         mood,
		moodHearts:   widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{}),
		modeLabel:    widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{}),
		clock:        clock,
		sessionLabel: widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{}),
		statsLabel:   widget.NewLabel(""),
	}
	view.toggleButton = widget.NewButton("Start", func() {
		if controls.OnToggle != nil {
			controls.OnToggle()
		}
	})
	resetButton := widget.NewButton("Reset", func() {
		if controls.OnReset != nil {
			controls.OnReset()
		}
	})

	content := container.NewVBox(
		view.modeLabel,
		view.clock,
		view.sessionLabel,
		container.NewGridWithColumns(2, view.toggleButton, resetButton),
		widget.NewSeparator(),
		view.petLabel,
		view.banner,
		view.levelLabel,
		view.xpLabel,
		view.experience,
		container.NewBorder(nil, nil, widget.NewLabel("Mood"), view.moodHearts),
		view.mood,
		widget.NewSeparator(),
		view.statsLabel,
	)
	window.SetContent(container.NewPadded(content))
	window.Resize(fyne.NewSize(320, 520))
	window.SetCloseIntercept(window.Hide)

	return view
}

// Show displays the window.
func (view *Window) Show() {
	view.window.Show()
	view.window.RequestFocus()
}

// Update renders a snapshot. Must run on the UI thread.
func (view *Window) Update(snapshot app.Snapshot) {
	timer := snapshot.Timer
	view.modeLabel.SetText(modeTitle(timer.Mode))
	view.clock.Text = session.FormatClock(timer.TimeLeft)
	view.clock.Refresh()
	view.sessionLabel.SetText(fmt.Sprintf("Session %d of %d", timer.CurrentSession, snapshot.Config.SessionsUntilLongBreak))
	if timer.Status == session.StatusRunning {
		view.toggleButton.SetText("Pause")
	} else {
		view.toggleButton.SetText("Start")
	}

	state := snapshot.Pet
	view.petLabel.Text = state.Stage.Emoji()
	view.petLabel.Refresh()
	view.levelLabel.SetText(fmt.Sprintf("Level %d %s", state.Level, state.Stage))
	view.xpLabel.SetText(fmt.Sprintf("XP %d / %d", state.Experience, pet.ExperienceForNextLevel(state.Experience)))
	view.experience.SetValue(pet.Progress(state.Experience) / 100)
	view.mood.SetValue(float64(state.DisplayMood()))
	view.moodHearts.SetText(MoodHearts(state.DisplayMood()))
	if snapshot.LevelUp {
		view.banner.Show()
	} else {
		view.banner.Hide()
	}

	view.statsLabel.SetText(StatsText(snapshot))
}

// StatsText renders the running totals and a line of encouragement.
func StatsText(snapshot app.Snapshot) string {
	return fmt.Sprintf("Pomodoros: %d\nFocused: %dh %02dm\nThis run: %d sessions\n%s",
		snapshot.Stats.TotalPomodoros,
		snapshot.Stats.TotalWorkMinutes/60,
		snapshot.Stats.TotalWorkMinutes%60,
		snapshot.Timer.SessionsCompleted,
		Motivation(snapshot.Timer.SessionsCompleted),
	)
}

// Motivation picks an encouragement for the sessions finished this run.
func Motivation(sessions int) string {
	switch {
	case sessions <= 0:
		return "🎯 Start your first pomodoro!"
	case sessions == 1:
		return "🌟 Great, the first step is done!"
	case sessions < 4:
		return "🔥 On a roll, keep it up!"
	case sessions < 8:
		return "💪 Impressive focus!"
	default:
		return "🏆 Outstanding focus, productivity master!"
	}
}

// MoodHearts renders mood as hearts, one more for each quarter above 25.
func MoodHearts(mood int) string {
	switch {
	case mood > 75:
		return "💖❤️💛"
	case mood > 50:
		return "❤️💛"
	case mood > 25:
		return "💛"
	default:
		return "💔"
	}
}

func modeTitle(mode session.Mode) string {
	switch mode {
	case session.ModeShortBreak:
		return "Short break"
	case session.ModeLongBreak:
		return "Long break"
	default:
		return "Focus"
	}
}
