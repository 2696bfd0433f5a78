//go:build !windows
// +build !windows

package launcher

import (
	"os/exec"
	"runtime"
	"syscall"
)

// macStartCommand is the launcher script the Sonos HTTP API setup leaves on the desktop
const macStartCommand = `open ~/Desktop/Start\ Sonos\ Server.command`

// defaultCommand picks the start command when none is configured
func defaultCommand() string {
	if runtime.GOOS == "darwin" {
		return macStartCommand
	}
	if commandExists(bridgeBinary) {
		return bridgeBinary
	}
	return ""
}

// shellCommand runs command through sh in its own process group so the
// bridge is not killed with the terminal session
func shellCommand(command string) *exec.Cmd {
	cmd := exec.Command("sh", "-c", command)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	return cmd
}
