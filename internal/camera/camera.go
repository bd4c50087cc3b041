// Package camera captures single frames from the default camera by driving
// an external capture tool. The camera is an optional capability: absence
// of the tool is detected at startup, not at call time.
package camera

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// ErrNoDevice reports that the capture tool is present but the default
// camera device could not be opened.
var ErrNoDevice = errors.New("camera device unavailable")

const linuxDevice = "/dev/video0"

type Camera struct {
	tool string
	dir  string
}

// Detect probes for a capture tool on PATH and returns a Camera bound to
// dir for saved photos. The returned Camera reports Available() == false
// when no tool was found; every other method then refuses to run.
func Detect(dir string) *Camera {
	tool, err := exec.LookPath("ffmpeg")
	if err != nil {
		return &Camera{dir: dir}
	}
	return &Camera{tool: tool, dir: dir}
}

func (c *Camera) Available() bool { return c.tool != "" }

// Capture grabs one frame from the default camera and writes it to a
// time-suffixed PNG. The device is opened and released entirely within the
// single capture-tool invocation, so no exit path can leak it.
func (c *Camera) Capture() (string, error) {
	if !c.Available() {
		return "", errors.New("no capture tool installed")
	}

	if runtime.GOOS == "linux" {
		if _, err := os.Stat(linuxDevice); err != nil {
			return "", ErrNoDevice
		}
	}

	name := fmt.Sprintf("photo_%d.png", time.Now().Unix())
	path := filepath.Join(c.dir, name)

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command(c.tool, "-f", "dshow", "-i", "video=Default", "-frames:v", "1", "-y", path)
	case "darwin":
		cmd = exec.Command(c.tool, "-f", "avfoundation", "-i", "0", "-frames:v", "1", "-y", path)
	default:
		cmd = exec.Command(c.tool, "-f", "v4l2", "-i", linuxDevice, "-frames:v", "1", "-y", path)
	}

	if out, err := cmd.CombinedOutput(); err != nil {
		if deviceFailure(string(out)) {
			return "", ErrNoDevice
		}
		return "", fmt.Errorf("capture frame: %w", err)
	}

	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("capture produced no file: %w", err)
	}

	return path, nil
}

// deviceFailure tells a camera that cannot be opened apart from a capture
// that failed mid-flight, from the capture tool's diagnostics. The phrases
// cover ffmpeg's v4l2, avfoundation and dshow device errors.
func deviceFailure(output string) bool {
	output = strings.ToLower(output)
	for _, phrase := range []string{
		"no such file or directory",
		"cannot open",
		"could not find",
		"no devices found",
		"device or resource busy",
		"permission denied",
		"input/output error",
	} {
		if strings.Contains(output, phrase) {
			return true
		}
	}
	return false
}
