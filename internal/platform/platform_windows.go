//go:build windows

package platform

import (
	"fmt"
	"os/exec"
	"path/filepath"
)

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, "AppData", "Roaming")
}

func soundCommand(workComplete bool) (*exec.Cmd, error) {
	frequency, duration := 660, 200
	if workComplete {
		frequency, duration = 880, 400
	}
	path, err := exec.LookPath("powershell")
	if err != nil {
		return nil, ErrSoundUnsupported
	}
	script := fmt.Sprintf("[console]::beep(%d,%d)", frequency, duration)
	return exec.Command(path, "-NoProfile", "-NonInteractive", "-Command", script), nil
}
