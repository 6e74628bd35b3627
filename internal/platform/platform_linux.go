//go:build linux

package platform

import (
	"os/exec"
	"path/filepath"
)

const freedesktopSounds = "/usr/share/sounds/freedesktop/stereo"

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config")
}

func soundCommand(workComplete bool) (*exec.Cmd, error) {
	event := "bell"
	if workComplete {
		event = "complete"
	}

	if path, err := exec.LookPath("paplay"); err == nil {
		if sound := firstExisting(filepath.Join(freedesktopSounds, event+".oga")); sound != "" {
			return exec.Command(path, sound), nil
		}
	}
	if path, err := exec.LookPath("canberra-gtk-play"); err == nil {
		return exec.Command(path, "-i", event), nil
	}
	return nil, ErrSoundUnsupported
}
