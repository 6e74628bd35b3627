package pet

import (
	"errors"
	"math"
)

const (
	// ExperiencePerLevel is the experience needed to gain one level.
	ExperiencePerLevel = 100
	// ExperiencePerSession is awarded for each completed work session.
	ExperiencePerSession = 50

	MinMood     = 0.0
	MaxMood     = 100.0
	DefaultMood = 50.0

	childLevel = 4
	adultLevel = 8
)

// ErrNegativeExperience is returned when a negative amount is added.
var ErrNegativeExperience = errors.New("experience amount must not be negative")

// Stage is the coarse life-cycle bucket derived from level.
type Stage string

const (
	StageEgg   Stage = "egg"
	StageChild Stage = "child"
	StageAdult Stage = "adult"
)

// Emoji returns the glyph shown for the stage.
func (stage Stage) Emoji() string {
	switch stage {
	case StageChild:
		return "🐣"
	case StageAdult:
		return "🐶"
	default:
		return "🥚"
	}
}

// Valid reports whether the stage is one of the known stages.
func (stage Stage) Valid() bool {
	switch stage {
	case StageEgg, StageChild, StageAdult:
		return true
	}
	return false
}

// State is a snapshot of the pet. Level and Stage are derived from
// Experience and must only be set through the functions in this package.
type State struct {
	Level      int
	Experience int
	Mood       float64
	Stage      Stage
}

// New returns a freshly hatched pet.
func New() State {
	return State{
		Level:      1,
		Experience: 0,
		Mood:       DefaultMood,
		Stage:      StageEgg,
	}
}

// DisplayMood returns mood rounded to the nearest integer.
func (state State) DisplayMood() int {
	return int(math.Round(state.Mood))
}

// LevelFor derives the level for a total amount of experience.
func LevelFor(experience int) int {
	if experience < 0 {
		experience = 0
	}
	return experience/ExperiencePerLevel + 1
}

// StageFor derives the stage for a level.
func StageFor(level int) Stage {
	if level >= adultLevel {
		return StageAdult
	}
	if level >= childLevel {
		return StageChild
	}
	return StageEgg
}

// ExperienceForNextLevel returns the total experience at which the next level starts.
func ExperienceForNextLevel(experience int) int {
	return LevelFor(experience) * ExperiencePerLevel
}

// Progress returns the percentage [0,100) of the way through the current level.
func Progress(experience int) float64 {
	if experience < 0 {
		return 0
	}
	inLevel := experience % ExperiencePerLevel
	return float64(inLevel) / ExperiencePerLevel * 100
}

// AddExperience returns a copy of state with amount added to experience.
// Mood grows by a tenth of the amount.
func AddExperience(state State, amount int) (State, error) {
	if amount < 0 {
		return state, ErrNegativeExperience
	}
	next := state
	next.Experience = state.Experience + amount
	next.Level = LevelFor(next.Experience)
	next.Stage = StageFor(next.Level)
	next.Mood = clampMood(state.Mood + float64(amount)/10)
	return next, nil
}

// AdjustMood returns a copy of state with delta applied to mood.
func AdjustMood(state State, delta float64) State {
	next := state
	next.Mood = clampMood(state.Mood + delta)
	return next
}

// Normalize recomputes derived fields and clamps mood.
func Normalize(state State) State {
	if state.Experience < 0 {
		state.Experience = 0
	}
	state.Level = LevelFor(state.Experience)
	state.Stage = StageFor(state.Level)
	state.Mood = clampMood(state.Mood)
	return state
}

// LevelledUp reports whether after is at a higher level than before.
func LevelledUp(before, after State) bool {
	return after.Level > before.Level
}

func clampMood(mood float64) float64 {
	if math.IsNaN(mood) {
		return DefaultMood
	}
	return math.Max(MinMood, math.Min(MaxMood, mood))
}
