//go:build windows
// +build windows

package launcher

import (
	"os/exec"
)

// defaultCommand picks the start command when none is configured
func defaultCommand() string {
	if commandExists(bridgeBinary) {
		return bridgeBinary
	}
	return ""
}

// shellCommand runs command through cmd.exe
func shellCommand(command string) *exec.Cmd {
	return exec.Command("cmd", "/C", command)
}
