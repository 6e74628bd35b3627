package platform

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrSoundUnsupported indicates no sound player was found on this system.
var ErrSoundUnsupported = errors.New("sound playback unsupported")

// DataDir returns the directory where appName keeps its data: the
// OS-standard configuration directory, or a home-relative fallback.
func DataDir(appName string) (string, error) {
	name := strings.ToLower(strings.TrimSpace(appName))
	if name == "" {
		return "", fmt.Errorf("data dir: app name is empty")
	}

	configDir, err := os.UserConfigDir()
	if err == nil && configDir != "" {
		return filepath.Join(configDir, name), nil
	}

	homeDir, homeErr := os.UserHomeDir()
	if homeErr != nil {
		if err != nil {
			return "", fmt.Errorf("data dir: %w", err)
		}
		return "", fmt.Errorf("data dir: %w", homeErr)
	}

	return filepath.Join(fallbackConfigDir(homeDir), name), nil
}

// SoundPlayer plays short cues through an OS sound command.
type SoundPlayer struct {
	command func(workComplete bool) (*exec.Cmd, error)
}

// NewSoundPlayer returns a player using the platform's sound command.
func NewSoundPlayer() *SoundPlayer {
	return &SoundPlayer{command: soundCommand}
}

// Play starts the completion cue; workComplete selects the louder cue
// played when a work session ends. Play does not wait for playback.
func (player *SoundPlayer) Play(workComplete bool) error {
	cmd, err := player.command(workComplete)
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("play sound: %w", err)
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}

func firstExisting(paths ...string) string {
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
