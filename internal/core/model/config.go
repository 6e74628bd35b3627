package model

import (
	"time"

	"pomopet/internal/core/pet"
)

const (
	DefaultWorkMinutes      = 30
	DefaultBreakMinutes     = 5
	DefaultLongBreakMinutes = 15
	DefaultSessionsPerCycle = 4

	MaxPhaseMinutes     = 180
	MaxSessionsPerCycle = 12
)

// TimerConfig contains the phase durations used by the session timer.
type TimerConfig struct {
	Work                   time.Duration
	ShortBreak             time.Duration
	LongBreak              time.Duration
	SessionsUntilLongBreak int
}

// Settings defines user preferences. Durations are in minutes.
type Settings struct {
	SoundEnabled           bool
	NotificationEnabled    bool
	WorkDuration           int
	BreakDuration          int
	LongBreakDuration      int
	SessionsUntilLongBreak int
}

// DefaultSettings returns default settings.
func DefaultSettings() Settings {
	return Settings{
		SoundEnabled:           true,
		NotificationEnabled:    true,
		WorkDuration:           DefaultWorkMinutes,
		BreakDuration:          DefaultBreakMinutes,
		LongBreakDuration:      DefaultLongBreakMinutes,
		SessionsUntilLongBreak: DefaultSessionsPerCycle,
	}
}

// Normalize clamps out-of-range values. Non-positive values fall back to
// the default for that field.
func (settings Settings) Normalize() Settings {
	settings.WorkDuration = clampPositive(settings.WorkDuration, DefaultWorkMinutes, MaxPhaseMinutes)
	settings.BreakDuration = clampPositive(settings.BreakDuration, DefaultBreakMinutes, MaxPhaseMinutes)
	settings.LongBreakDuration = clampPositive(settings.LongBreakDuration, DefaultLongBreakMinutes, MaxPhaseMinutes)
	settings.SessionsUntilLongBreak = clampPositive(settings.SessionsUntilLongBreak, DefaultSessionsPerCycle, MaxSessionsPerCycle)
	return settings
}

// TimerConfig converts settings to TimerConfig.
func (settings Settings) TimerConfig() TimerConfig {
	normalized := settings.Normalize()
	return TimerConfig{
		Work:                   time.Duration(normalized.WorkDuration) * time.Minute,
		ShortBreak:             time.Duration(normalized.BreakDuration) * time.Minute,
		LongBreak:              time.Duration(normalized.LongBreakDuration) * time.Minute,
		SessionsUntilLongBreak: normalized.SessionsUntilLongBreak,
	}
}

// Stats holds running totals across all sessions.
type Stats struct {
	TotalPomodoros   int
	TotalWorkMinutes int
	LastPlayDate     time.Time
}

// DefaultStats returns empty stats stamped with now.
func DefaultStats(now time.Time) Stats {
	return Stats{LastPlayDate: now}
}

// Data is the persisted aggregate record.
type Data struct {
	Pet      pet.State
	Stats    Stats
	Settings Settings
}

// DefaultData returns the record used when nothing has been stored yet.
func DefaultData(now time.Time) Data {
	return Data{
		Pet:      pet.New(),
		Stats:    DefaultStats(now),
		Settings: DefaultSettings(),
	}
}

func clampPositive(value, fallback, max int) int {
	if value <= 0 {
		return fallback
	}
	if value > max {
		return max
	}
	return value
}
