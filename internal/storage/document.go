package storage

import (
	"fmt"
	"math"
	"strings"
	"time"

	"pomopet/internal/core/model"
	"pomopet/internal/core/pet"
)

type document struct {
	Version  int              `yaml:"version" json:"version"`
	Pet      petDocument      `yaml:"pet" json:"pet"`
	Stats    statsDocument    `yaml:"stats" json:"stats"`
	Settings settingsDocument `yaml:"settings" json:"settings"`
}

type petDocument struct {
	Level      int     `yaml:"level" json:"level"`
	Experience int     `yaml:"experience" json:"experience"`
	Mood       float64 `yaml:"mood" json:"mood"`
	Stage      string  `yaml:"stage" json:"stage"`
}

type statsDocument struct {
	TotalPomodoros   int    `yaml:"total_pomodoros" json:"total_pomodoros"`
	TotalWorkMinutes int    `yaml:"total_work_minutes" json:"total_work_minutes"`
	LastPlayDate     string `yaml:"last_play_date" json:"last_play_date"`
}

type settingsDocument struct {
	SoundEnabled           bool `yaml:"sound_enabled" json:"sound_enabled"`
	NotificationEnabled    bool `yaml:"notification_enabled" json:"notification_enabled"`
	WorkDuration           int  `yaml:"work_duration" json:"work_duration"`
	BreakDuration          int  `yaml:"break_duration" json:"break_duration"`
	LongBreakDuration      int  `yaml:"long_break_duration" json:"long_break_duration"`
	SessionsUntilLongBreak int  `yaml:"sessions_until_long_break" json:"sessions_until_long_break"`
}

func encodeDocument(data model.Data) document {
	return document{
		Version: SchemaVersion,
		Pet: petDocument{
			Level:      data.Pet.Level,
			Experience: data.Pet.Experience,
			Mood:       math.Round(data.Pet.Mood*10) / 10,
			Stage:      string(data.Pet.Stage),
		},
		Stats: statsDocument{
			TotalPomodoros:   data.Stats.TotalPomodoros,
			TotalWorkMinutes: data.Stats.TotalWorkMinutes,
			LastPlayDate:     data.Stats.LastPlayDate.UTC().Format(time.RFC3339),
		},
		Settings: settingsDocument{
			SoundEnabled:           data.Settings.SoundEnabled,
			NotificationEnabled:    data.Settings.NotificationEnabled,
			WorkDuration:           data.Settings.WorkDuration,
			BreakDuration:          data.Settings.BreakDuration,
			LongBreakDuration:      data.Settings.LongBreakDuration,
			SessionsUntilLongBreak: data.Settings.SessionsUntilLongBreak,
		},
	}
}

// decodeDocument merges a generically decoded record over defaults field by
// field. Missing fields keep their defaults silently; fields of the wrong
// type or out of range keep their defaults and are reported as problems.
func decodeDocument(raw map[string]any, now time.Time) (model.Data, error) {
	data := model.DefaultData(now)
	merger := &fieldMerger{}

	if section, ok := merger.section(raw, "pet"); ok {
		if experience, ok := merger.intField(section, "pet.experience"); ok {
			if experience < 0 {
				merger.problem("pet.experience", "negative")
			} else {
				data.Pet.Experience = experience
			}
		}
		if mood, ok := merger.floatField(section, "pet.mood"); ok {
			data.Pet.Mood = mood
		}
	}
	data.Pet = pet.Normalize(data.Pet)

	if section, ok := merger.section(raw, "stats"); ok {
		if total, ok := merger.intField(section, "stats.total_pomodoros"); ok && merger.nonNegative("stats.total_pomodoros", total) {
			data.Stats.TotalPomodoros = total
		}
		if minutes, ok := merger.intField(section, "stats.total_work_minutes"); ok && merger.nonNegative("stats.total_work_minutes", minutes) {
			data.Stats.TotalWorkMinutes = minutes
		}
		if date, ok := merger.timeField(section, "stats.last_play_date"); ok {
			data.Stats.LastPlayDate = date
		}
	}

	if section, ok := merger.section(raw, "settings"); ok {
		if enabled, ok := merger.boolField(section, "settings.sound_enabled"); ok {
			data.Settings.SoundEnabled = enabled
		}
		if enabled, ok := merger.boolField(section, "settings.notification_enabled"); ok {
			data.Settings.NotificationEnabled = enabled
		}
		if minutes, ok := merger.intField(section, "settings.work_duration"); ok && merger.positive("settings.work_duration", minutes) {
			data.Settings.WorkDuration = minutes
		}
		if minutes, ok := merger.intField(section, "settings.break_duration"); ok && merger.positive("settings.break_duration", minutes) {
			data.Settings.BreakDuration = minutes
		}
		if minutes, ok := merger.intField(section, "settings.long_break_duration"); ok && merger.positive("settings.long_break_duration", minutes) {
			data.Settings.LongBreakDuration = minutes
		}
		if count, ok := merger.intField(section, "settings.sessions_until_long_break"); ok && merger.positive("settings.sessions_until_long_break", count) {
			data.Settings.SessionsUntilLongBreak = count
		}
	}
	data.Settings = data.Settings.Normalize()

	if len(merger.problems) > 0 {
		return data, fmt.Errorf("%w: %s", ErrMalformed, strings.Join(merger.problems, "; "))
	}
	return data, nil
}

type fieldMerger struct {
	problems []string
}

func (merger *fieldMerger) problem(path, reason string) {
	merger.problems = append(merger.problems, path+": "+reason)
}

func (merger *fieldMerger) section(raw map[string]any, key string) (map[string]any, bool) {
	value, ok := raw[key]
	if !ok || value == nil {
		return nil, false
	}
	section, ok := value.(map[string]any)
	if !ok {
		merger.problem(key, "not a mapping")
		return nil, false
	}
	return section, true
}

func (merger *fieldMerger) lookup(section map[string]any, path string) (any, bool) {
	key := path[strings.LastIndex(path, ".")+1:]
	value, ok := section[key]
	if !ok || value == nil {
		return nil, false
	}
	return value, true
}

func (merger *fieldMerger) intField(section map[string]any, path string) (int, bool) {
	value, ok := merger.lookup(section, path)
	if !ok {
		return 0, false
	}
	switch number := value.(type) {
	case int:
		return number, true
	case int64:
		return int(number), true
	case uint64:
		return int(number), true
	case float64:
		if number != math.Trunc(number) || math.IsInf(number, 0) {
			merger.problem(path, "not an integer")
			return 0, false
		}
		return int(number), true
	}
	merger.problem(path, "not a number")
	return 0, false
}

func (merger *fieldMerger) floatField(section map[string]any, path string) (float64, bool) {
	value, ok := merger.lookup(section, path)
	if !ok {
		return 0, false
	}
	switch number := value.(type) {
	case int:
		return float64(number), true
	case int64:
		return float64(number), true
	case uint64:
		return float64(number), true
	case float64:
		if math.IsNaN(number) || math.IsInf(number, 0) {
			merger.problem(path, "not finite")
			return 0, false
		}
		return number, true
	}
	merger.problem(path, "not a number")
	return 0, false
}

func (merger *fieldMerger) boolField(section map[string]any, path string) (bool, bool) {
	value, ok := merger.lookup(section, path)
	if !ok {
		return false, false
	}
	flag, ok := value.(bool)
	if !ok {
		merger.problem(path, "not a boolean")
		return false, false
	}
	return flag, true
}

func (merger *fieldMerger) timeField(section map[string]any, path string) (time.Time, bool) {
	value, ok := merger.lookup(section, path)
	if !ok {
		return time.Time{}, false
	}
	switch stamp := value.(type) {
	case time.Time:
		return stamp, true
	case string:
		parsed, err := time.Parse(time.RFC3339, stamp)
		if err != nil {
			merger.problem(path, "not an RFC 3339 timestamp")
			return time.Time{}, false
		}
		return parsed, true
	}
	merger.problem(path, "not a timestamp")
	return time.Time{}, false
}

func (merger *fieldMerger) nonNegative(path string, value int) bool {
	if value < 0 {
		merger.problem(path, "negative")
		return false
	}
	return true
}

func (merger *fieldMerger) positive(path string, value int) bool {
	if value <= 0 {
		merger.problem(path, "not positive")
		return false
	}
	return true
}
