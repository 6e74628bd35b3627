package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"pomopet/internal/core/model"
	"pomopet/internal/core/pet"
	"pomopet/internal/core/session"
	"pomopet/internal/core/timekeeper"
	"pomopet/internal/storage"
)

const saveTimeout = 5 * time.Second

// Notifier shows desktop notifications.
type Notifier interface {
	RequestPermission() error
	Show(title, body string) error
}

// SoundPlayer plays completion cues.
type SoundPlayer interface {
	Play(workComplete bool) error
}

// Deps are the collaborators of a Coordinator.
type Deps struct {
	Store          storage.Store
	Notifier       Notifier
	Sound          SoundPlayer
	Logger         *slog.Logger
	Now            func() time.Time
	TickInterval   time.Duration
	LevelUpDisplay time.Duration
}

// Snapshot is a consistent view of everything the UI shows.
type Snapshot struct {
	Timer    session.State
	Config   model.TimerConfig
	Pet      pet.State
	Stats    model.Stats
	Settings model.Settings
	LevelUp  bool
}

// Coordinator wires the session timer to the pet, stats and storage.
type Coordinator struct {
	mu       sync.Mutex
	saveMu   sync.Mutex
	store    storage.Store
	notifier Notifier
	sound    SoundPlayer
	logger   *slog.Logger
	now      func() time.Time
	keeper   *timekeeper.TimeKeeper
	banner   *Banner
	data     model.Data
	onChange func(Snapshot)
	done     chan struct{}
}

// New loads the stored record and prepares the timer. Load problems are
// logged and defaults are used in their place.
func New(ctx context.Context, deps Deps) *Coordinator {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	data, err := deps.Store.Load(ctx)
	if err != nil {
		deps.Logger.Warn("Stored data unusable, falling back to defaults", "error", err)
	}

	coordinator := &Coordinator{
		store:    deps.Store,
		notifier: deps.Notifier,
		sound:    deps.Sound,
		logger:   deps.Logger,
		now:      deps.Now,
		data:     data,
		done:     make(chan struct{}),
	}
	coordinator.banner = NewBanner(deps.LevelUpDisplay, func(bool) {
		coordinator.notifyChange()
	})
	coordinator.keeper = timekeeper.New(data.Settings.TimerConfig(), timekeeper.Config{
		TickInterval: deps.TickInterval,
		Now:          deps.Now,
	})
	coordinator.keeper.OnWorkCompleted(coordinator.handleWorkCompleted)

	events := coordinator.keeper.Subscribe(16)
	go coordinator.watch(events)

	if coordinator.notifier != nil {
		if err := coordinator.notifier.RequestPermission(); err != nil {
			coordinator.logger.Warn("Notification permission not granted", "error", err)
		}
	}

	return coordinator
}

// OnChange registers a callback run after every state change. It may be
// called from any goroutine.
func (c *Coordinator) OnChange(fn func(Snapshot)) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// Start begins or resumes the current phase.
func (c *Coordinator) Start() { c.keeper.Start() }

// Pause freezes the current phase.
func (c *Coordinator) Pause() { c.keeper.Pause() }

// Reset returns the timer to an idle work phase.
func (c *Coordinator) Reset() { c.keeper.Reset() }

// Toggle starts the timer unless it is running, in which case it pauses.
func (c *Coordinator) Toggle() { c.keeper.Toggle() }

// Snapshot returns the current combined state.
func (c *Coordinator) Snapshot() Snapshot {
	timerState, timerConfig := c.keeper.Snapshot()
	c.mu.Lock()
	data := c.data
	c.mu.Unlock()
	return Snapshot{
		Timer:    timerState,
		Config:   timerConfig,
		Pet:      data.Pet,
		Stats:    data.Stats,
		Settings: data.Settings,
		LevelUp:  c.banner.Visible(),
	}
}

// UpdateSettings normalizes and stores new settings. The timer is only
// reconfigured when a phase length or the cycle length changed.
func (c *Coordinator) UpdateSettings(settings model.Settings) model.Settings {
	normalized := settings.Normalize()
	c.mu.Lock()
	c.data.Settings = normalized
	c.mu.Unlock()

	if _, current := c.keeper.Snapshot(); current != normalized.TimerConfig() {
		c.keeper.UpdateConfig(normalized.TimerConfig())
	}
	c.persist()
	c.notifyChange()
	return normalized
}

// AdjustMood changes the pet's mood by delta.
func (c *Coordinator) AdjustMood(delta float64) {
	c.mu.Lock()
	c.data.Pet = pet.AdjustMood(c.data.Pet, delta)
	c.mu.Unlock()

	c.persist()
	c.notifyChange()
}

// ResetProgress deletes the stored record and starts over from defaults.
func (c *Coordinator) ResetProgress() {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	c.saveMu.Lock()
	if err := c.store.Delete(ctx); err != nil {
		c.logger.Error("Failed to delete stored data", "error", err)
	}
	c.mu.Lock()
	c.data = model.DefaultData(c.now())
	settings := c.data.Settings
	c.mu.Unlock()
	c.saveMu.Unlock()

	c.keeper.UpdateConfig(settings.TimerConfig())
	c.logger.Info("Progress reset")
	c.notifyChange()
}

// Close stops the timer and the level-up banner.
func (c *Coordinator) Close() {
	c.keeper.Stop()
	<-c.done
	c.banner.Close()
}

func (c *Coordinator) watch(events <-chan timekeeper.Event) {
	defer close(c.done)
	for event := range events {
		c.handleEvent(event)
	}
}

func (c *Coordinator) handleEvent(event timekeeper.Event) {
	if event.Type == timekeeper.EventStateChange && event.Completion.Finished && event.Completion.From.IsBreak() {
		c.mu.Lock()
		soundEnabled := c.data.Settings.SoundEnabled
		c.mu.Unlock()
		if soundEnabled {
			c.playSound(false)
		}
	}
	c.notifyChange()
}

func (c *Coordinator) handleWorkCompleted(event timekeeper.Event) {
	c.mu.Lock()
	before := c.data.Pet
	updated, err := pet.AddExperience(before, pet.ExperiencePerSession)
	if err != nil {
		c.mu.Unlock()
		c.logger.Error("Failed to reward pet", "error", err)
		return
	}
	c.data.Pet = updated
	c.data.Stats.TotalPomodoros++
	c.data.Stats.TotalWorkMinutes += c.data.Settings.WorkDuration
	c.data.Stats.LastPlayDate = c.now()
	settings := c.data.Settings
	c.mu.Unlock()

	levelledUp := pet.LevelledUp(before, updated)
	c.logger.Info("Work session completed",
		"event_id", event.ID,
		"sessions_completed", event.State.SessionsCompleted,
		"level", updated.Level,
		"experience", updated.Experience,
		"level_up", levelledUp,
	)
	if levelledUp {
		c.banner.Show()
	}

	if settings.NotificationEnabled && c.notifier != nil {
		title, body := completionMessage(updated, levelledUp)
		if err := c.notifier.Show(title, body); err != nil {
			c.logger.Warn("Failed to show notification", "error", err)
		}
	}
	if settings.SoundEnabled {
		c.playSound(true)
	}

	c.persist()
	c.notifyChange()
}

// persist saves the latest data. Failures are logged; memory stays authoritative.
func (c *Coordinator) persist() {
	c.saveMu.Lock()
	defer c.saveMu.Unlock()

	c.mu.Lock()
	data := c.data
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := c.store.Save(ctx, data); err != nil {
		c.logger.Error("Failed to save data", "error", err)
	}
}

func (c *Coordinator) playSound(workComplete bool) {
	if c.sound == nil {
		return
	}
	if err := c.sound.Play(workComplete); err != nil {
		c.logger.Debug("Sound playback failed", "error", err)
	}
}

func (c *Coordinator) notifyChange() {
	c.mu.Lock()
	fn := c.onChange
	c.mu.Unlock()
	if fn != nil {
		fn(c.Snapshot())
	}
}

func completionMessage(state pet.State, levelledUp bool) (string, string) {
	title := "Pomodoro complete!"
	body := "Great work! Time for a break. Your pet grew!"
	if levelledUp {
		body = fmt.Sprintf("Great work! Time for a break. Your pet reached level %d!", state.Level)
	}
	return title, body
}
