//go:build darwin

package platform

import (
	"os/exec"
	"path/filepath"
)

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, "Library", "Application Support")
}

func soundCommand(workComplete bool) (*exec.Cmd, error) {
	sound := "/System/Library/Sounds/Tink.aiff"
	if workComplete {
		sound = "/System/Library/Sounds/Glass.aiff"
	}
	path, err := exec.LookPath("afplay")
	if err != nil || firstExisting(sound) == "" {
		return nil, ErrSoundUnsupported
	}
	return exec.Command(path, sound), nil
}
