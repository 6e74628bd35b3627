package session

import (
	"fmt"
	"time"

	"pomopet/internal/core/model"
)

// Mode is the current phase of the work/break cycle.
type Mode string

const (
	ModeWork       Mode = "work"
	ModeShortBreak Mode = "short_break"
	ModeLongBreak  Mode = "long_break"
)

// IsBreak reports whether the mode is a rest interval.
func (mode Mode) IsBreak() bool {
	return mode == ModeShortBreak || mode == ModeLongBreak
}

// Status reports whether the countdown is advancing.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusRunning Status = "running"
	StatusPaused  Status = "paused"
)

// State is an immutable snapshot of the session timer.
// TimeLeft is in seconds and stays within [0, DurationFor(Mode)].
type State struct {
	Mode              Mode
	Status            Status
	TimeLeft          int
	SessionsCompleted int
	CurrentSession    int
}

// Completion describes the phase that a tick finished.
type Completion struct {
	Finished      bool
	WorkCompleted bool
	From          Mode
	To            Mode
}

// New returns an idle timer at the start of a work phase.
func New(cfg model.TimerConfig) State {
	return State{
		Mode:              ModeWork,
		Status:            StatusIdle,
		TimeLeft:          DurationFor(ModeWork, cfg),
		SessionsCompleted: 0,
		CurrentSession:    1,
	}
}

// DurationFor returns the length of a phase in seconds.
func DurationFor(mode Mode, cfg model.TimerConfig) int {
	var duration time.Duration
	switch mode {
	case ModeShortBreak:
		duration = cfg.ShortBreak
	case ModeLongBreak:
		duration = cfg.LongBreak
	default:
		duration = cfg.Work
	}
	if duration < 0 {
		return 0
	}
	return int(duration / time.Second)
}

// Start begins or resumes the countdown. Ignored while running.
func Start(state State) State {
	return apply(state, ActionStart)
}

// Pause freezes the countdown. Ignored unless running.
func Pause(state State) State {
	return apply(state, ActionPause)
}

// Reset returns to an idle work phase. The cycle counters are kept.
func Reset(state State, cfg model.TimerConfig) State {
	next := New(cfg)
	next.SessionsCompleted = state.SessionsCompleted
	next.CurrentSession = state.CurrentSession
	return next
}

// Reconfigure applies cfg in place of previous. When the current phase's
// duration is unchanged the state carries on untouched, running or not, and
// other phases pick up their new lengths on their next entry. When it
// changed, the current phase restarts idle with the new length. Counters are
// kept and CurrentSession is clamped into the new cycle length.
func Reconfigure(state State, previous, cfg model.TimerConfig) State {
	next := state
	if duration := DurationFor(state.Mode, cfg); duration != DurationFor(state.Mode, previous) {
		next.TimeLeft = duration
		next.Status = StatusIdle
	}
	limit := cfg.SessionsUntilLongBreak
	if limit < 1 {
		limit = 1
	}
	if next.CurrentSession > limit {
		next.CurrentSession = limit
	}
	if next.CurrentSession < 1 {
		next.CurrentSession = 1
	}
	return next
}

// Tick advances a running countdown by one second. When the countdown
// reaches zero the phase completes and the timer switches mode.
func Tick(state State, cfg model.TimerConfig) (State, Completion) {
	if state.Status != StatusRunning {
		return state, Completion{}
	}

	next := state
	if next.TimeLeft > 0 {
		next.TimeLeft--
	}
	if next.TimeLeft > 0 {
		return next, Completion{}
	}

	completion := Completion{
		Finished: true,
		From:     next.Mode,
	}
	if next.Mode == ModeWork {
		next.SessionsCompleted++
		completion.WorkCompleted = true
	}
	next = SwitchMode(next, cfg)
	completion.To = next.Mode
	return next, completion
}

// SwitchMode moves to the phase that follows the current one. The new
// phase always starts idle.
func SwitchMode(state State, cfg model.TimerConfig) State {
	next := state
	next.Mode, next.CurrentSession = nextPhase(state.Mode, state.CurrentSession, cfg.SessionsUntilLongBreak)
	next.TimeLeft = DurationFor(next.Mode, cfg)
	next.Status = StatusIdle
	return next
}

// Progress returns the elapsed fraction of the current phase.
func (state State) Progress(cfg model.TimerConfig) float64 {
	total := DurationFor(state.Mode, cfg)
	if total <= 0 {
		return 1
	}
	progress := float64(total-state.TimeLeft) / float64(total)
	if progress < 0 {
		return 0
	}
	if progress > 1 {
		return 1
	}
	return progress
}

// FormatClock renders seconds as MM:SS.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
