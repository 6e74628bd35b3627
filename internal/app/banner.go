package app

import (
	"sync"
	"time"
)

// LevelUpDisplay is how long the level-up banner stays visible.
const LevelUpDisplay = 3 * time.Second

// Banner is a flag that clears itself a fixed time after being shown.
type Banner struct {
	mu       sync.Mutex
	duration time.Duration
	visible  bool
	timer    *time.Timer
	seq      uint64
	closed   bool
	onChange func(visible bool)
}

// NewBanner creates a hidden banner. onChange may be nil.
func NewBanner(duration time.Duration, onChange func(visible bool)) *Banner {
	if duration <= 0 {
		duration = LevelUpDisplay
	}
	return &Banner{duration: duration, onChange: onChange}
}

// Show makes the banner visible and (re)schedules the clear.
func (banner *Banner) Show() {
	banner.mu.Lock()
	if banner.closed {
		banner.mu.Unlock()
		return
	}
	banner.visible = true
	banner.seq++
	seq := banner.seq
	if banner.timer != nil {
		banner.timer.Stop()
	}
	banner.timer = time.AfterFunc(banner.duration, func() {
		banner.clear(seq)
	})
	banner.mu.Unlock()

	banner.notify(true)
}

// Visible reports whether the banner is showing.
func (banner *Banner) Visible() bool {
	banner.mu.Lock()
	defer banner.mu.Unlock()
	return banner.visible
}

// Close hides the banner and cancels any pending clear.
func (banner *Banner) Close() {
	banner.mu.Lock()
	defer banner.mu.Unlock()
	banner.closed = true
	banner.visible = false
	if banner.timer != nil {
		banner.timer.Stop()
		banner.timer = nil
	}
}

// clear ignores timers superseded by a later Show.
func (banner *Banner) clear(seq uint64) {
	banner.mu.Lock()
	if banner.closed || seq != banner.seq {
		banner.mu.Unlock()
		return
	}
	banner.visible = false
	banner.timer = nil
	banner.mu.Unlock()

	banner.notify(false)
}

func (banner *Banner) notify(visible bool) {
	if banner.onChange != nil {
		banner.onChange(visible)
	}
}
