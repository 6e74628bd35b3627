package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"pomopet/internal/core/model"
	"pomopet/internal/core/pet"
	"pomopet/internal/core/session"
	"pomopet/internal/core/timekeeper"
)

var fixedNow = time.Date(2026, 10, 19, 14, 0, 0, 0, time.UTC)

type fakeStore struct {
	mu      sync.Mutex
	data    model.Data
	loadErr error
	saveErr error
	saves   int
	deletes int
}

func (s *fakeStore) Load(context.Context) (model.Data, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data, s.loadErr
}

func (s *fakeStore) Save(_ context.Context, data model.Data) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.data = data
	return nil
}

func (s *fakeStore) Delete(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes++
	s.data = model.Data{}
	return nil
}

func (s *fakeStore) Close() error { return nil }

func (s *fakeStore) saved() (model.Data, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data, s.saves
}

func (s *fakeStore) deleted() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deletes
}

type fakeNotifier struct {
	mu        sync.Mutex
	requested int
	shown     []string
}

func (n *fakeNotifier) RequestPermission() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.requested++
	return errors.New("denied")
}

func (n *fakeNotifier) Show(title, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.shown = append(n.shown, title+"|"+body)
	return nil
}

type fakeSound struct {
	mu    sync.Mutex
	plays []bool
}

func (s *fakeSound) Play(workComplete bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plays = append(s.plays, workComplete)
	return nil
}

func (s *fakeSound) played() []bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]bool(nil), s.plays...)
}

type fixture struct {
	coordinator *Coordinator
	store       *fakeStore
	notifier    *fakeNotifier
	sound       *fakeSound
}

func newFixture(t *testing.T, stored model.Data) *fixture {
	t.Helper()
	f := &fixture{
		store:    &fakeStore{data: stored},
		notifier: &fakeNotifier{},
		sound:    &fakeSound{},
	}
	f.coordinator = New(context.Background(), Deps{
		Store:          f.store,
		Notifier:       f.notifier,
		Sound:          f.sound,
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:            func() time.Time { return fixedNow },
		TickInterval:   time.Hour,
		LevelUpDisplay: time.Hour,
	})
	t.Cleanup(f.coordinator.Close)
	return f
}

func workCompleted() timekeeper.Event {
	return timekeeper.Event{
		ID:   "evt-1",
		Type: timekeeper.EventWorkCompleted,
		State: session.State{
			Mode:              session.ModeShortBreak,
			Status:            session.StatusIdle,
			SessionsCompleted: 1,
			CurrentSession:    1,
		},
		Completion: session.Completion{Finished: true, WorkCompleted: true, From: session.ModeWork, To: session.ModeShortBreak},
	}
}

func TestNew_RequestsPermissionAndUsesStoredData(t *testing.T) {
	stored := model.DefaultData(fixedNow)
	stored.Settings.WorkDuration = 25
	f := newFixture(t, stored)

	if f.notifier.requested != 1 {
		t.Errorf("permission requests = %d, want 1", f.notifier.requested)
	}
	snapshot := f.coordinator.Snapshot()
	if snapshot.Timer.TimeLeft != 25*60 {
		t.Errorf("TimeLeft = %d, want 1500", snapshot.Timer.TimeLeft)
	}
}

func TestWorkCompleted_RewardsPetAndStats(t *testing.T) {
	stored := model.DefaultData(fixedNow.Add(-time.Hour))
	stored.Pet = pet.State{Level: 1, Experience: 90, Mood: 50, Stage: pet.StageEgg}
	f := newFixture(t, stored)

	f.coordinator.handleWorkCompleted(workCompleted())

	snapshot := f.coordinator.Snapshot()
	if snapshot.Pet.Experience != 140 || snapshot.Pet.Level != 2 || snapshot.Pet.Mood != 55 {
		t.Errorf("Pet = %+v", snapshot.Pet)
	}
	if !snapshot.LevelUp {
		t.Error("level-up banner not shown")
	}
	if snapshot.Stats.TotalPomodoros != 1 || snapshot.Stats.TotalWorkMinutes != 30 {
		t.Errorf("Stats = %+v", snapshot.Stats)
	}
	if !snapshot.Stats.LastPlayDate.Equal(fixedNow) {
		t.Errorf("LastPlayDate = %v, want %v", snapshot.Stats.LastPlayDate, fixedNow)
	}

	saved, saves := f.store.saved()
	if saves != 1 || saved.Pet != snapshot.Pet {
		t.Errorf("saved %d times, pet %+v", saves, saved.Pet)
	}
	if len(f.notifier.shown) != 1 {
		t.Errorf("notifications = %v", f.notifier.shown)
	}
	if len(f.sound.plays) != 1 || !f.sound.plays[0] {
		t.Errorf("sound plays = %v, want [true]", f.sound.plays)
	}
}

func TestWorkCompleted_RespectsToggles(t *testing.T) {
	stored := model.DefaultData(fixedNow)
	stored.Settings.SoundEnabled = false
	stored.Settings.NotificationEnabled = false
	f := newFixture(t, stored)

	f.coordinator.handleWorkCompleted(workCompleted())

	if len(f.notifier.shown) != 0 {
		t.Errorf("notifications = %v, want none", f.notifier.shown)
	}
	if len(f.sound.plays) != 0 {
		t.Errorf("sound plays = %v, want none", f.sound.plays)
	}
	if f.coordinator.Snapshot().LevelUp {
		t.Error("banner shown without level up")
	}
}

func TestWorkCompleted_SaveFailureKeepsMemory(t *testing.T) {
	f := newFixture(t, model.DefaultData(fixedNow))
	f.store.saveErr = errors.New("disk full")

	f.coordinator.handleWorkCompleted(workCompleted())
	f.coordinator.handleWorkCompleted(workCompleted())

	snapshot := f.coordinator.Snapshot()
	if snapshot.Pet.Experience != 100 || snapshot.Stats.TotalPomodoros != 2 {
		t.Errorf("in-memory state lost: pet %+v stats %+v", snapshot.Pet, snapshot.Stats)
	}
	if _, saves := f.store.saved(); saves != 2 {
		t.Errorf("save attempts = %d, want 2", saves)
	}
}

func TestNew_LoadErrorUsesReturnedData(t *testing.T) {
	f := &fakeStore{data: model.DefaultData(fixedNow), loadErr: errors.New("corrupt")}
	coordinator := New(context.Background(), Deps{
		Store:        f,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		TickInterval: time.Hour,
	})
	defer coordinator.Close()

	if got := coordinator.Snapshot().Settings; got != model.DefaultSettings() {
		t.Errorf("Settings = %+v, want defaults", got)
	}
}

func TestUpdateSettings(t *testing.T) {
	f := newFixture(t, model.DefaultData(fixedNow))
	f.coordinator.Start()

	applied := f.coordinator.UpdateSettings(model.Settings{
		SoundEnabled:           true,
		WorkDuration:           45,
		BreakDuration:          0,
		LongBreakDuration:      20,
		SessionsUntilLongBreak: 2,
	})
	if applied.BreakDuration != model.DefaultBreakMinutes {
		t.Errorf("BreakDuration = %d, want default", applied.BreakDuration)
	}

	snapshot := f.coordinator.Snapshot()
	if snapshot.Timer.Status != session.StatusIdle || snapshot.Timer.TimeLeft != 45*60 {
		t.Errorf("Timer = %+v, want idle with 45 minutes", snapshot.Timer)
	}
	saved, _ := f.store.saved()
	if saved.Settings != applied {
		t.Errorf("saved settings = %+v, want %+v", saved.Settings, applied)
	}
}

func TestUpdateSettings_AlertTogglesKeepTimerRunning(t *testing.T) {
	f := newFixture(t, model.DefaultData(fixedNow))
	f.coordinator.Start()
	before := f.coordinator.Snapshot().Timer

	settings := model.DefaultSettings()
	settings.SoundEnabled = false
	settings.NotificationEnabled = false
	f.coordinator.UpdateSettings(settings)

	snapshot := f.coordinator.Snapshot()
	if snapshot.Timer != before {
		t.Errorf("Timer = %+v, want unchanged %+v", snapshot.Timer, before)
	}
	if snapshot.Settings.SoundEnabled || snapshot.Settings.NotificationEnabled {
		t.Errorf("Settings = %+v, want alerts off", snapshot.Settings)
	}
}

func TestUpdateSettings_BreakChangeKeepsWorkRunning(t *testing.T) {
	f := newFixture(t, model.DefaultData(fixedNow))
	f.coordinator.Start()

	settings := model.DefaultSettings()
	settings.BreakDuration = 10
	f.coordinator.UpdateSettings(settings)

	snapshot := f.coordinator.Snapshot()
	if snapshot.Timer.Mode != session.ModeWork || snapshot.Timer.Status != session.StatusRunning || snapshot.Timer.TimeLeft != 30*60 {
		t.Errorf("Timer = %+v, want running work phase", snapshot.Timer)
	}
	if snapshot.Config.ShortBreak != 10*time.Minute {
		t.Errorf("ShortBreak = %v, want 10m", snapshot.Config.ShortBreak)
	}
}

func TestToggle(t *testing.T) {
	f := newFixture(t, model.DefaultData(fixedNow))

	f.coordinator.Toggle()
	if got := f.coordinator.Snapshot().Timer.Status; got != session.StatusRunning {
		t.Fatalf("Status = %q, want running", got)
	}
	f.coordinator.Toggle()
	if got := f.coordinator.Snapshot().Timer.Status; got != session.StatusPaused {
		t.Fatalf("Status = %q, want paused", got)
	}
	f.coordinator.Reset()
	if got := f.coordinator.Snapshot().Timer.Status; got != session.StatusIdle {
		t.Fatalf("Status = %q, want idle", got)
	}
}

func TestAdjustMoodAndResetProgress(t *testing.T) {
	stored := model.DefaultData(fixedNow)
	stored.Pet = pet.State{Level: 3, Experience: 230, Mood: 95, Stage: pet.StageEgg}
	stored.Settings.WorkDuration = 50
	f := newFixture(t, stored)

	f.coordinator.AdjustMood(20)
	if mood := f.coordinator.Snapshot().Pet.Mood; mood != 100 {
		t.Errorf("Mood = %v, want 100", mood)
	}

	f.coordinator.ResetProgress()
	snapshot := f.coordinator.Snapshot()
	if snapshot.Pet != pet.New() {
		t.Errorf("Pet = %+v, want new pet", snapshot.Pet)
	}
	if snapshot.Settings != model.DefaultSettings() {
		t.Errorf("Settings = %+v, want defaults", snapshot.Settings)
	}
	if snapshot.Timer.TimeLeft != 30*60 {
		t.Errorf("TimeLeft = %d, want default work duration", snapshot.Timer.TimeLeft)
	}
	if deletes := f.store.deleted(); deletes != 1 {
		t.Errorf("deletes = %d, want 1", deletes)
	}
}

func TestBreakCompletionPlaysSoftCue(t *testing.T) {
	f := newFixture(t, model.DefaultData(fixedNow))
	f.coordinator.handleEvent(timekeeper.Event{
		Type:       timekeeper.EventStateChange,
		Completion: session.Completion{Finished: true, From: session.ModeShortBreak, To: session.ModeWork},
	})
	if plays := f.sound.played(); len(plays) != 1 || plays[0] {
		t.Errorf("sound plays = %v, want [false]", plays)
	}
}

func TestFullWorkSessionThroughTicker(t *testing.T) {
	store := &fakeStore{data: model.DefaultData(fixedNow)}
	coordinator := New(context.Background(), Deps{
		Store:        store,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		TickInterval: time.Millisecond,
	})
	defer coordinator.Close()

	completed := make(chan Snapshot, 1)
	coordinator.OnChange(func(snapshot Snapshot) {
		if snapshot.Stats.TotalPomodoros == 1 {
			select {
			case completed <- snapshot:
			default:
			}
		}
	})
	coordinator.UpdateSettings(model.Settings{WorkDuration: 1, BreakDuration: 1, LongBreakDuration: 1, SessionsUntilLongBreak: 4})
	coordinator.Start()

	select {
	case snapshot := <-completed:
		if snapshot.Pet.Experience != pet.ExperiencePerSession {
			t.Errorf("Experience = %d, want %d", snapshot.Pet.Experience, pet.ExperiencePerSession)
		}
		if snapshot.Timer.Mode != session.ModeShortBreak || snapshot.Timer.Status != session.StatusIdle {
			t.Errorf("Timer = %+v, want idle short break", snapshot.Timer)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("work session did not complete")
	}
}
