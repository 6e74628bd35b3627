//go:build !linux && !darwin && !windows

package platform

import (
	"os/exec"
	"path/filepath"
)

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config")
}

func soundCommand(bool) (*exec.Cmd, error) {
	return nil, ErrSoundUnsupported
}
