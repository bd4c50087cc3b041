// Package platform wraps the OS-specific primitives the assistant needs:
// opening a file with its default application and the power commands.
package platform

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Opener launches a file in the user's default application.
type Opener struct{}

func (Opener) OpenFile(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", path)
	case "darwin":
		cmd = exec.Command("open", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open file %s: %w", path, err)
	}
	return nil
}

// Power issues the platform shutdown and restart commands. Both are
// fire-and-forget: the OS may kill this process moments later, so nothing
// waits on the spawned command. On Unix the commands go through sudo and
// may require configured privileges.
type Power struct{}

func (Power) Shutdown() error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("shutdown", "/s", "/t", "5")
	case "darwin":
		cmd = exec.Command("sudo", "shutdown", "-h", "now")
	default:
		cmd = exec.Command("sudo", "shutdown", "now")
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (Power) Restart() error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("shutdown", "/r", "/t", "5")
	case "darwin":
		cmd = exec.Command("sudo", "shutdown", "-r", "now")
	default:
		cmd = exec.Command("sudo", "reboot")
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("restart: %w", err)
	}
	return nil
}
