package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"pomopet/internal/core/model"
	"pomopet/internal/core/pet"
)

var fixedNow = time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC)

func sampleData() model.Data {
	return model.Data{
		Pet: pet.State{Level: 5, Experience: 430, Mood: 57.5, Stage: pet.StageChild},
		Stats: model.Stats{
			TotalPomodoros:   9,
			TotalWorkMinutes: 270,
			LastPlayDate:     time.Date(2026, 10, 18, 21, 4, 5, 0, time.UTC),
		},
		Settings: model.Settings{
			SoundEnabled:           false,
			NotificationEnabled:    true,
			WorkDuration:           25,
			BreakDuration:          5,
			LongBreakDuration:      20,
			SessionsUntilLongBreak: 3,
		},
	}
}

func newYAMLStore(t *testing.T) *YAMLStore {
	t.Helper()
	store := NewYAMLStore(filepath.Join(t.TempDir(), "nested", yamlFileName))
	store.now = func() time.Time { return fixedNow }
	return store
}

func newSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLite(context.Background(), filepath.Join(t.TempDir(), sqliteFileName))
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	store.now = func() time.Time { return fixedNow }
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func assertData(t *testing.T, got, want model.Data) {
	t.Helper()
	if got.Pet != want.Pet {
		t.Errorf("Pet = %+v, want %+v", got.Pet, want.Pet)
	}
	if got.Stats.TotalPomodoros != want.Stats.TotalPomodoros || got.Stats.TotalWorkMinutes != want.Stats.TotalWorkMinutes {
		t.Errorf("Stats = %+v, want %+v", got.Stats, want.Stats)
	}
	if !got.Stats.LastPlayDate.Equal(want.Stats.LastPlayDate) {
		t.Errorf("LastPlayDate = %v, want %v", got.Stats.LastPlayDate, want.Stats.LastPlayDate)
	}
	if got.Settings != want.Settings {
		t.Errorf("Settings = %+v, want %+v", got.Settings, want.Settings)
	}
}

func TestStores_RoundTrip(t *testing.T) {
	stores := map[string]Store{
		"yaml":   newYAMLStore(t),
		"sqlite": newSQLiteStore(t),
	}
	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := store.Save(ctx, sampleData()); err != nil {
				t.Fatalf("Save: %v", err)
			}
			got, err := store.Load(ctx)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			assertData(t, got, sampleData())
		})
	}
}

func TestStores_EmptyReturnsDefaults(t *testing.T) {
	stores := map[string]Store{
		"yaml":   newYAMLStore(t),
		"sqlite": newSQLiteStore(t),
	}
	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			got, err := store.Load(context.Background())
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			assertData(t, got, model.DefaultData(fixedNow))
		})
	}
}

func TestStores_Delete(t *testing.T) {
	stores := map[string]Store{
		"yaml":   newYAMLStore(t),
		"sqlite": newSQLiteStore(t),
	}
	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := store.Save(ctx, sampleData()); err != nil {
				t.Fatalf("Save: %v", err)
			}
			if err := store.Delete(ctx); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if err := store.Delete(ctx); err != nil {
				t.Fatalf("second Delete: %v", err)
			}
			got, err := store.Load(ctx)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			assertData(t, got, model.DefaultData(fixedNow))
		})
	}
}

func TestYAMLStore_OlderSchemaMergesSettings(t *testing.T) {
	store := newYAMLStore(t)
	writeFile(t, store.Path(), `
pet:
  experience: 90
  mood: 50
stats:
  total_pomodoros: 2
  total_work_minutes: 60
  last_play_date: "2026-10-01T10:00:00.000Z"
settings:
  work_duration: 25
`)

	got, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := model.DefaultData(fixedNow)
	want.Pet = pet.State{Level: 1, Experience: 90, Mood: 50, Stage: pet.StageEgg}
	want.Stats = model.Stats{TotalPomodoros: 2, TotalWorkMinutes: 60, LastPlayDate: time.Date(2026, 10, 1, 10, 0, 0, 0, time.UTC)}
	want.Settings.WorkDuration = 25
	assertData(t, got, want)
}

func TestYAMLStore_MalformedFieldsFallBack(t *testing.T) {
	store := newYAMLStore(t)
	writeFile(t, store.Path(), `
version: 1
pet:
  level: 40
  stage: adult
  experience: -20
  mood: "happy"
stats:
  total_pomodoros: 4
  last_play_date: yesterday
settings: [1, 2]
`)

	got, err := store.Load(context.Background())
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("err = %v, want ErrMalformed", err)
	}
	if got.Pet != pet.New() {
		t.Errorf("Pet = %+v, want defaults", got.Pet)
	}
	if got.Stats.TotalPomodoros != 4 {
		t.Errorf("TotalPomodoros = %d, want 4", got.Stats.TotalPomodoros)
	}
	if !got.Stats.LastPlayDate.Equal(fixedNow) {
		t.Errorf("LastPlayDate = %v, want load time", got.Stats.LastPlayDate)
	}
	if got.Settings != model.DefaultSettings() {
		t.Errorf("Settings = %+v, want defaults", got.Settings)
	}
}

func TestYAMLStore_UnparsableFile(t *testing.T) {
	store := newYAMLStore(t)
	writeFile(t, store.Path(), "pet: [unterminated\n")

	got, err := store.Load(context.Background())
	if err == nil {
		t.Fatal("expected parse error")
	}
	assertData(t, got, model.DefaultData(fixedNow))
}

func TestSQLiteStore_LegacyJSONRecord(t *testing.T) {
	store := newSQLiteStore(t)
	legacy := `{"pet":{"level":9,"experience":720.0,"mood":101,"stage":"egg"},"settings":{"sound_enabled":false,"work_duration":0}}`
	_, err := store.db.Exec(`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, 0)`, RecordKey, legacy)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := store.Load(context.Background())
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("err = %v, want ErrMalformed for work_duration", err)
	}
	if want := (pet.State{Level: 8, Experience: 720, Mood: 100, Stage: pet.StageAdult}); got.Pet != want {
		t.Errorf("Pet = %+v, want %+v", got.Pet, want)
	}
	if got.Settings.SoundEnabled {
		t.Error("SoundEnabled = true, want stored false")
	}
	if got.Settings.WorkDuration != model.DefaultWorkMinutes {
		t.Errorf("WorkDuration = %d, want default", got.Settings.WorkDuration)
	}
}

func TestSQLiteDSN_EscapesPath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix path layout")
	}
	got := sqliteDSN("/data/odd?dir#1/pomopet.db")
	want := "file:///data/odd%3Fdir%231/pomopet.db?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	if got != want {
		t.Errorf("sqliteDSN = %q, want %q", got, want)
	}
}

func TestSQLiteStore_UnusualDirectoryName(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("'?' is not allowed in Windows file names")
	}
	dir := filepath.Join(t.TempDir(), "odd?dir#1")
	path := filepath.Join(dir, sqliteFileName)
	store, err := NewSQLite(context.Background(), path)
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.Save(ctx, sampleData()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	assertData(t, got, sampleData())
	if _, err := os.Stat(path); err != nil {
		t.Errorf("database not created at %s: %v", path, err)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	yamlStore, err := Open(ctx, BackendYAML, dir)
	if err != nil {
		t.Fatalf("Open yaml: %v", err)
	}
	if _, ok := yamlStore.(*YAMLStore); !ok {
		t.Errorf("Open yaml returned %T", yamlStore)
	}

	sqliteStore, err := Open(ctx, BackendSQLite, dir)
	if err != nil {
		t.Fatalf("Open sqlite: %v", err)
	}
	defer sqliteStore.Close()
	if _, err := os.Stat(filepath.Join(dir, sqliteFileName)); err != nil {
		t.Errorf("database file not created: %v", err)
	}

	if _, err := Open(ctx, "redis", dir); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}
