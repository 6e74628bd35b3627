package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"pomopet/internal/app"
	"pomopet/internal/config"
	"pomopet/internal/core/model"
	"pomopet/internal/platform"
	"pomopet/internal/storage"
	"pomopet/internal/ui/notify"
	"pomopet/internal/ui/petview"
	"pomopet/internal/ui/preferences"
	"pomopet/internal/ui/tray"
	"pomopet/resources"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

const appName = "PomoPet"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		if errors.Is(err, platform.ErrAlreadyRunning) {
			logger.Info("Another instance is already running")
			return
		}
		logger.Error("Single instance check failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = guard.Release()
	}()

	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir, err = platform.DataDir(appName)
		if err != nil {
			logger.Error("Failed to resolve data directory", "error", err)
			os.Exit(1)
		}
	}

	ctx := context.Background()
	store, err := storage.Open(ctx, cfg.Storage, dataDir)
	if err != nil {
		logger.Error("Failed to open storage", "backend", cfg.Storage, "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			logger.Error("Failed to close storage", "error", closeErr)
		}
	}()
	logger.Info("Storage ready", "backend", cfg.Storage, "dir", dataDir)

	fyneApp := fyneapp.NewWithID("com.pomopet.app")
	fyneApp.SetIcon(resources.AppIcon())
	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		logger.Error("System tray unsupported on this platform")
		return
	}

	trayWindow := fyneApp.NewWindow(appName)
	trayWindow.SetContent(widget.NewLabel("PomoPet is running in the system tray."))
	trayWindow.SetCloseIntercept(func() {
		trayWindow.Hide()
	})
	trayWindow.Hide()
	desktopApp.SetSystemTrayWindow(trayWindow)

	coordinator := app.New(ctx, app.Deps{
		Store:          store,
		Notifier:       notify.New(fyneApp),
		Sound:          platform.NewSoundPlayer(),
		Logger:         logger,
		TickInterval:   cfg.TickInterval,
		LevelUpDisplay: cfg.LevelUpDisplay,
	})

	petWindow := petview.New(fyneApp, petview.Controls{
		OnToggle: coordinator.Toggle,
		OnReset:  coordinator.Reset,
	})

	var prefsWindow *preferences.Window
	prefsWindow = preferences.New(fyneApp, coordinator.Snapshot().Settings, func(updated model.Settings) {
		applied := coordinator.UpdateSettings(updated)
		prefsWindow.UpdateSettings(applied)
	}, func() {
		coordinator.ResetProgress()
		prefsWindow.UpdateSettings(coordinator.Snapshot().Settings)
	})

	trayManager := tray.New(desktopApp, tray.Callbacks{
		OnToggle:      coordinator.Toggle,
		OnReset:       coordinator.Reset,
		OnShowPet:     petWindow.Show,
		OnPreferences: prefsWindow.Show,
		OnQuit: func() {
			coordinator.Close()
			fyneApp.Quit()
		},
	})

	running := false
	render := func(snapshot app.Snapshot) {
		trayManager.Update(snapshot)
		petWindow.Update(snapshot)
		if trayManager.Running() != running {
			running = trayManager.Running()
			desktopApp.SetSystemTrayIcon(resources.TrayIcon(running))
		}
	}
	coordinator.OnChange(func(snapshot app.Snapshot) {
		fyne.Do(func() {
			render(snapshot)
		})
	})

	desktopApp.SetSystemTrayIcon(resources.TrayIcon(false))
	render(coordinator.Snapshot())

	petWindow.Show()
	fyneApp.Run()
	coordinator.Close()
}
